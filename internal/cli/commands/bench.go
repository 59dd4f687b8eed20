// devctl bench: run the benchmark suite or compare two revisions.
package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	v1 "github.com/f9-o/devctl/api/v1"
	"github.com/f9-o/devctl/internal/bench"
	"github.com/f9-o/devctl/internal/core/config"
	"github.com/f9-o/devctl/internal/metrics"
	"github.com/f9-o/devctl/internal/process"
	"github.com/f9-o/devctl/internal/vcs"
	"github.com/f9-o/devctl/pkg/errs"
	"github.com/f9-o/devctl/pkg/pprint"
)

func NewBenchCmd() *cobra.Command {
	var (
		tests      []string
		submodules []string
		compare    []string
		threshold  float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run benchmarks, or compare them between two revisions",
		Long: `Run the benchmark suite with the configured tool (asv by default).

With no --compare, the suite runs once against the current checkout.
With one --compare REV, REV is compared against HEAD.
With two, the first is compared against the second.`,
		Example: `  devctl bench
  devctl bench -t bench_core -t bench_io
  devctl bench -s linalg --compare main
  devctl bench --compare v1.2.0 --compare v1.3.0`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			settings := benchSettings(rt)
			if cmd.Flags().Changed("threshold") {
				if threshold <= 0 || threshold > 1 {
					return errs.Newf(errs.ErrValidation, "bench", "--threshold must be in (0, 1], got %v", threshold)
				}
				settings.Threshold = threshold
			}

			if rt.Config.Bench.Exclusive {
				lock, err := bench.AcquireLock(filepath.Join(config.Home(), "bench.lock"))
				if err != nil {
					return err
				}
				atexit.Register(func() { _ = lock.Release() })
				defer lock.Release()
			}

			runner := bench.NewRunner(settings, vcs.New(rt.Root), process.NewExec(rt.Log), cmd.OutOrStdout(), rt.Log)
			req := bench.Request{Tests: tests, Submodules: submodules, Compare: compare}

			machine, merr := metrics.Sample(cmd.Context())
			if merr != nil {
				rt.Log.Debug("incomplete machine sample", "err", merr)
			}
			rt.Log.Debug("benchmark host", "machine", metrics.Label(machine))

			res, err := runner.Run(cmd.Context(), req)
			recordRun(rt, req, res, machine, err)
			if err != nil {
				return err
			}
			return errs.Exit(res.ExitCode)
		},
	}

	cmd.Flags().StringArrayVarP(&tests, "tests", "t", nil, "Benchmark name filter (repeatable)")
	cmd.Flags().StringArrayVarP(&submodules, "submodule", "s", nil, "Submodule filter (repeatable)")
	cmd.Flags().StringArrayVarP(&compare, "compare", "c", nil, "Revision to compare (up to two)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Relative regression threshold for comparisons (default bench.threshold)")

	cmd.AddCommand(newBenchHistoryCmd())
	return cmd
}

func newBenchHistoryCmd() *cobra.Command {
	var (
		limit  int
		remove bool
	)

	cmd := &cobra.Command{
		Use:   "history [ID]",
		Short: "List recorded benchmark runs, or show one run",
		Long: `Without an ID, list recorded benchmark runs, newest first.
With an ID (or a unique prefix of one, as shown in the listing), show that run.`,
		Example: `  devctl bench history
  devctl bench history 3f2a9c1e
  devctl bench history 3f2a9c1e --delete`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			if rt.State == nil {
				return errs.Newf(errs.ErrStateRead, "bench.history", "run history is unavailable").
					WithAdvice("check that " + config.Home() + " is writable")
			}
			p := pprint.New(cmd.OutOrStdout())

			if len(args) == 0 {
				if remove {
					return errs.Newf(errs.ErrInvalidArgs, "bench.history", "--delete needs a run ID")
				}
				return listRuns(cmd, rt, p, limit)
			}

			rec, err := rt.State.FindRun(args[0])
			if err != nil {
				return errs.Wrap(err, errs.ErrStateRead, "bench.history").WithResource(args[0])
			}
			if rec == nil {
				return errs.Newf(errs.ErrStateRead, "bench.history", "no recorded run matches %q", args[0]).
					WithResource(args[0]).
					WithAdvice("list runs with: devctl bench history")
			}

			if remove {
				if err := rt.State.DeleteRun(rec.ID); err != nil {
					return errs.Wrap(err, errs.ErrStateWrite, "bench.history.delete").WithResource(rec.ID)
				}
				p.Success("Deleted run %s", rec.ID)
				return nil
			}

			if rt.Flags.JSONOutput {
				return writeJSON(cmd, rec)
			}
			showRun(p, *rec)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&remove, "delete", false, "Delete the given run from history")
	return cmd
}

func listRuns(cmd *cobra.Command, rt *Runtime, p *pprint.Printer, limit int) error {
	runs, err := rt.State.ListRuns(limit)
	if err != nil {
		return err
	}
	if rt.Flags.JSONOutput {
		return writeJSON(cmd, runs)
	}

	if len(runs) == 0 {
		p.Info("No benchmark runs recorded yet.")
		return nil
	}
	tbl := p.NewTable("ID", "STARTED", "MODE", "REVISIONS", "EXIT", "DURATION", "HOST")
	for _, r := range runs {
		tbl.AddRow(
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(r.Mode),
			revisions(r),
			fmt.Sprintf("%d", r.ExitCode),
			(time.Duration(r.DurationMS) * time.Millisecond).String(),
			host(r),
		)
	}
	tbl.Render()
	return nil
}

// showRun prints every recorded field of one run.
func showRun(p *pprint.Printer, r v1.RunRecord) {
	p.Header("run " + shortID(r.ID))
	p.KV("ID", r.ID)
	p.KV("Started", r.StartedAt.Local().Format(time.RFC3339))
	p.KV("Mode", string(r.Mode))
	if r.Mode == v1.ModeCompare {
		p.KV("Before", revision(r.Before, r.BeforeSHA))
		p.KV("After", revision(r.After, r.AfterSHA))
	}
	if len(r.Tests) > 0 {
		p.KV("Tests", strings.Join(r.Tests, " "))
	}
	if len(r.Submodules) > 0 {
		p.KV("Submodules", strings.Join(r.Submodules, " "))
	}
	p.KV("Exit code", fmt.Sprintf("%d", r.ExitCode))
	p.KV("Duration", (time.Duration(r.DurationMS) * time.Millisecond).String())
	if r.Machine != nil {
		p.KV("Host", metrics.Label(*r.Machine))
		if r.Machine.CPUModel != "" {
			p.KV("CPU", r.Machine.CPUModel)
		}
	}
	if r.Error != "" {
		p.Warn("%s", r.Error)
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// benchSettings maps the loaded config onto runner settings.
func benchSettings(rt *Runtime) bench.Settings {
	c := rt.Config.Bench
	return bench.Settings{
		Tool:        c.Tool,
		Dir:         rt.Path(c.Dir),
		Threshold:   c.Threshold,
		ExtraPath:   c.ExtraPath,
		ThreadVars:  c.ThreadVars,
		Env:         c.Env,
		MemFraction: c.MemFraction,
		InstallURL:  c.InstallURL,
	}
}

// recordRun stores the outcome of a run in history with the machine it ran
// on. Failures are logged only.
func recordRun(rt *Runtime, req bench.Request, res bench.Result, machine v1.MachineInfo, runErr error) {
	if rt.State == nil || res.StartedAt.IsZero() {
		return
	}
	rec := v1.RunRecord{
		ID:         uuid.NewString(),
		Mode:       res.Plan.Mode,
		Tests:      req.Tests,
		Submodules: req.Submodules,
		Before:     res.Plan.Before,
		After:      res.Plan.After,
		BeforeSHA:  res.BeforeSHA,
		AfterSHA:   res.AfterSHA,
		ExitCode:   res.ExitCode,
		StartedAt:  res.StartedAt,
		DurationMS: res.Duration.Milliseconds(),
		Machine:    &machine,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if err := rt.State.PutRun(rec); err != nil {
		rt.Log.Warn("could not record benchmark run", "err", err)
	}
}

func host(r v1.RunRecord) string {
	if r.Machine == nil || r.Machine.Hostname == "" {
		return "-"
	}
	return r.Machine.Hostname
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func revisions(r v1.RunRecord) string {
	if r.Mode != v1.ModeCompare {
		return "-"
	}
	return revision(r.Before, r.BeforeSHA) + " → " + revision(r.After, r.AfterSHA)
}

func revision(name, sha string) string {
	if sha == "" {
		return name
	}
	if len(sha) > 10 {
		sha = sha[:10]
	}
	return name + "@" + sha
}
