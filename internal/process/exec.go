// Package process launches external tools as blocking child processes with
// an explicit working directory and environment.
package process

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/f9-o/devctl/internal/core/logger"
	"github.com/f9-o/devctl/pkg/errs"
)

// Command describes one child process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is the complete child environment. Nil inherits the parent's.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// OnStart, if set, runs once the child has started, before waiting on it.
	OnStart func(pid int)
}

// String renders the command line as the user would type it.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Exec runs Commands on the local machine.
type Exec struct {
	log *logger.Logger
}

// NewExec constructs an Exec.
func NewExec(log *logger.Logger) *Exec {
	if log == nil {
		log = logger.Discard()
	}
	return &Exec{log: log}
}

// Run starts c, waits for it and returns its exit status.
// A non-zero exit is not an error. A missing executable yields an
// errs.ErrToolNotFound error; every other launch failure is returned as is.
func (e *Exec) Run(ctx context.Context, c Command) (int, error) {
	path, err := lookPath(c.Name, c.Env)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return -1, errs.New(errs.ErrToolNotFound, "process.run", err).WithResource(c.Name)
		}
		return -1, err
	}

	cmd := exec.CommandContext(ctx, path, c.Args...) //nolint:gosec
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = orDefault(c.Stdin, os.Stdin)
	cmd.Stdout = orDefaultW(c.Stdout, os.Stdout)
	cmd.Stderr = orDefaultW(c.Stderr, os.Stderr)

	e.log.Debug("starting child process", "cmd", c.String(), "dir", c.Dir)
	if err := cmd.Start(); err != nil {
		return -1, err
	}
	if c.OnStart != nil {
		c.OnStart(cmd.Process.Pid)
	}

	err = cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		e.log.Debug("child process exited", "cmd", c.Name, "exit_code", code)
		return code, nil
	}
	if err != nil {
		return -1, err
	}
	e.log.Debug("child process exited", "cmd", c.Name, "exit_code", 0)
	return 0, nil
}

// lookPath resolves name against the PATH the child will see, which may
// differ from the parent's.
func lookPath(name string, env []string) (string, error) {
	if env == nil || runtime.GOOS == "windows" || strings.ContainsRune(name, filepath.Separator) {
		return exec.LookPath(name)
	}
	path := ""
	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, "PATH="); ok {
			path = v
		}
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() && fi.Mode()&0o111 != 0 {
			return candidate, nil
		}
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func orDefault(r, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orDefaultW(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
