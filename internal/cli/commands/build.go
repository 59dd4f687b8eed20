// devctl build: run the project's build command.
package commands

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/shell"

	"github.com/f9-o/devctl/internal/process"
	"github.com/f9-o/devctl/pkg/errs"
)

// buildOptions are the flags of the build command.
type buildOptions struct {
	Jobs    int
	Verbose bool
	Gcov    bool
}

func NewBuildCmd() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build [-- EXTRA_ARGS...]",
		Short: "Build the project with the configured build command",
		Long: `Run build.command (default "meson compile -C build") from build.dir
under the project root. Arguments after -- are passed to the build command.`,
		Example: `  devctl build
  devctl build -j 8 -v
  devctl build --gcov -- --clean`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts, args)
		},
	}

	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Number of parallel build jobs (0 lets the build tool decide)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show the full build output")
	cmd.Flags().BoolVar(&opts.Gcov, "gcov", false, "Instrument the build for gcov coverage")
	return cmd
}

func runBuild(cmd *cobra.Command, opts buildOptions, extra []string) error {
	rt := FromContext(cmd.Context())

	argv, err := buildArgv(rt.Config.Build.Command, opts, extra)
	if err != nil {
		return err
	}

	var env []string
	if opts.Gcov {
		env = coverageEnv(os.Environ())
	}

	c := process.Command{
		Name:   argv[0],
		Args:   argv[1:],
		Dir:    rt.Path(rt.Config.Build.Dir),
		Env:    env,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	rt.Log.Info("running build", "cmd", c.String(), "dir", c.Dir)

	code, err := process.NewExec(rt.Log).Run(cmd.Context(), c)
	if err != nil {
		if e := errs.As(err); e != nil && e.Code == errs.ErrToolNotFound {
			return e.WithAdvice("install " + argv[0] + " or set build.command in devctl.toml")
		}
		return err
	}
	return errs.Exit(code)
}

// buildArgv splits command into words and appends the flag-derived and extra
// arguments.
func buildArgv(command string, opts buildOptions, extra []string) ([]string, error) {
	argv, err := shell.Fields(command, os.Getenv)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrConfig, "build.parse").WithResource(command)
	}
	if len(argv) == 0 {
		return nil, errs.Newf(errs.ErrConfig, "build.parse", "build.command is empty").
			WithAdvice(`set build.command in devctl.toml, e.g. "meson compile -C build"`)
	}
	if opts.Jobs > 0 {
		argv = append(argv, "-j", strconv.Itoa(opts.Jobs))
	}
	if opts.Verbose {
		argv = append(argv, "-v")
	}
	return append(argv, extra...), nil
}

// coverageEnv returns base with --coverage added to the compiler and linker flags.
func coverageEnv(base []string) []string {
	want := map[string]bool{"CFLAGS": true, "CXXFLAGS": true, "LDFLAGS": true}
	out := make([]string, 0, len(base)+len(want))
	for _, kv := range base {
		key, val, _ := strings.Cut(kv, "=")
		if want[key] {
			delete(want, key)
			kv = key + "=" + strings.TrimSpace(val+" --coverage")
		}
		out = append(out, kv)
	}
	for _, key := range []string{"CFLAGS", "CXXFLAGS", "LDFLAGS"} {
		if want[key] {
			out = append(out, key+"=--coverage")
		}
	}
	return out
}
