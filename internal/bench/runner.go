package bench

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	v1 "github.com/f9-o/devctl/api/v1"
	"github.com/f9-o/devctl/internal/core/logger"
	"github.com/f9-o/devctl/internal/process"
	"github.com/f9-o/devctl/pkg/errs"
	"github.com/f9-o/devctl/pkg/pprint"
)

// Git is the version-control surface the runner depends on.
type Git interface {
	RevParse(ctx context.Context, ref string) (string, error)
	HasUncommittedChanges(ctx context.Context) (bool, error)
}

// Executor launches a child process and returns its exit status.
type Executor interface {
	Run(ctx context.Context, c process.Command) (int, error)
}

// Settings are the runner's fixed parameters, normally taken from config.
type Settings struct {
	Tool        string            // benchmark tool executable
	Dir         string            // working directory for the tool
	Threshold   float64           // relative regression threshold for comparisons
	ExtraPath   []string          // prepended to PATH
	ThreadVars  []string          // pinned to 1
	Env         map[string]string // additional pins
	MemFraction float64           // share of physical memory allowed; 0 disables
	InstallURL  string            // shown when the tool is missing
}

// Result describes a finished invocation.
type Result struct {
	Plan      Plan
	BeforeSHA string
	AfterSHA  string
	ExitCode  int
	StartedAt time.Time
	Duration  time.Duration
}

// Runner executes benchmark requests.
type Runner struct {
	settings Settings
	git      Git
	exec     Executor
	out      *pprint.Printer
	log      *logger.Logger

	// environ supplies the inherited environment; memLimit caps the child.
	environ  func() []string
	memLimit func(pid int, fraction float64) error
}

// NewRunner constructs a Runner. Messages for the user go to out.
func NewRunner(s Settings, git Git, exec Executor, out io.Writer, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Discard()
	}
	return &Runner{
		settings: s,
		git:      git,
		exec:     exec,
		out:      pprint.New(out),
		log:      log,
		environ:  os.Environ,
		memLimit: applyMemLimit,
	}
}

// Run plans and executes req. The returned Result carries the tool's exit
// status. A missing tool is reported to the user and yields exit status 1
// with a nil error.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	plan, err := PlanFor(req)
	if err != nil {
		return Result{ExitCode: 1}, err
	}
	res := Result{Plan: plan, StartedAt: time.Now().UTC()}

	var args []string
	switch plan.Mode {
	case v1.ModeRun:
		args = RunArgs(plan.Filters)

	case v1.ModeCompare:
		if plan.After == v1.WorkingTree {
			r.warnUncommitted(ctx)
		}

		// HEAD is local to this checkout; the tool needs hashes.
		res.AfterSHA, err = r.git.RevParse(ctx, plan.After)
		if err != nil {
			return withExit(res, 1), err
		}
		res.BeforeSHA, err = r.git.RevParse(ctx, plan.Before)
		if err != nil {
			return withExit(res, 1), err
		}
		r.log.Debug("resolved comparison revisions",
			"before", plan.Before, "before_sha", res.BeforeSHA,
			"after", plan.After, "after_sha", res.AfterSHA,
		)
		args = CompareArgs(res.BeforeSHA, res.AfterSHA, r.settings.Threshold, plan.Filters)
	}

	res.ExitCode, err = r.invoke(ctx, args)
	res.Duration = time.Since(res.StartedAt)
	return res, err
}

// warnUncommitted prints a warning when the working tree has changes that a
// comparison against HEAD will not see. It never stops the run.
func (r *Runner) warnUncommitted(ctx context.Context) {
	dirty, err := r.git.HasUncommittedChanges(ctx)
	if err != nil {
		r.log.Warn("could not check for uncommitted changes", "err", err)
		return
	}
	if dirty {
		r.out.Banner("WARNING: you have uncommitted changes --- these will NOT be benchmarked!")
	}
}

// invoke runs the tool with args under the benchmark environment overlay.
func (r *Runner) invoke(ctx context.Context, args []string) (int, error) {
	s := r.settings
	overlay := NewOverlay(s.ExtraPath, s.ThreadVars, s.Env)
	cmd := process.Command{
		Name: s.Tool,
		Args: args,
		Dir:  s.Dir,
		Env:  overlay.Environ(r.environ()),
		OnStart: func(pid int) {
			if err := r.memLimit(pid, s.MemFraction); err != nil {
				r.log.Debug("memory limit not applied", "pid", pid, "err", err)
			}
		},
	}

	r.log.Info("running benchmark tool", "cmd", cmd.String(), "dir", filepath.Clean(s.Dir))
	code, err := r.exec.Run(ctx, cmd)
	if errs.IsCode(err, errs.ErrToolNotFound) {
		r.out.Error("Error when running '%s': %v", cmd.String(), errs.As(err).Cause)
		r.out.Linef("")
		r.out.Linef("You need to install %s (%s)", s.Tool, s.InstallURL)
		r.out.Linef("to run benchmarks")
		return 1, nil
	}
	return code, err
}

func withExit(res Result, code int) Result {
	res.ExitCode = code
	return res
}
