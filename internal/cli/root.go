// Package cli defines the root Cobra command and global flag/context setup.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/f9-o/devctl/internal/cli/commands"
	"github.com/f9-o/devctl/internal/core/config"
	"github.com/f9-o/devctl/internal/core/logger"
	"github.com/f9-o/devctl/internal/core/registry"
	"github.com/f9-o/devctl/internal/core/state"
	"github.com/f9-o/devctl/internal/vcs"
	"github.com/f9-o/devctl/pkg/errs"
	"github.com/f9-o/devctl/pkg/pprint"
)

// globalFlags holds values bound to persistent global flags.
type globalFlags struct {
	configFile string
	debug      bool
	jsonOutput bool
}

// NewRootCmd builds the devctl command tree with every command registered.
func NewRootCmd() *cobra.Command {
	var flags globalFlags
	reg := registry.New()

	root := &cobra.Command{
		Use:           "devctl",
		Short:         "devctl: benchmarks, builds and project tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "completion", "init", "help":
				return nil
			}
			return initRuntime(cmd, flags, reg)
		},
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "Path to devctl.toml (defaults to auto-discovery)")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug-level logging")
	root.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "Output in machine-readable JSON")

	build := commands.NewBuildCmd()
	reg.MustRegister(registry.SectionBuild, build, commands.NewBuildExtCmd(build))
	reg.MustRegister(registry.SectionBench, commands.NewBenchCmd())
	reg.MustRegister(registry.SectionMeta,
		commands.NewExampleCmd(),
		commands.NewConfigCmd(),
		commands.NewInitCmd(),
		commands.NewVersionCmd(),
	)
	reg.Attach(root)

	origHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == root {
			pprint.New(cmd.OutOrStdout()).PrintBanner(commands.Version, commands.BuildDate)
		}
		origHelp(cmd, args)
	})

	return root
}

// Execute runs the CLI and exits with the command's status. Called by main().
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil && !errs.IsSilent(err) {
		if e := errs.As(err); e != nil {
			pprint.Error("%s", e.UserMessage())
		} else {
			pprint.Error("%s", err)
		}
	}
	atexit.Exit(errs.ExitCode(err))
}

// initRuntime loads config, logger, and state before each command runs.
func initRuntime(cmd *cobra.Command, flags globalFlags, reg *registry.Registry) error {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return errs.Wrap(err, errs.ErrConfig, "config.load").
			WithAdvice("check devctl.toml, ~/.devctl/config.toml and DEVCTL_* variables")
	}

	home := config.Home()
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = filepath.Join(home, "logs", "devctl.log")
	}

	log, err := logger.Init(cfg.Log.Level, cfg.Log.Format, logFile, flags.debug)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	atexit.Register(func() { _ = log.Close() })

	// History is optional: a read-only home or a concurrent run holding the
	// database leaves State nil.
	var db *state.DB
	if err := os.MkdirAll(home, 0750); err == nil {
		db, err = state.Open(filepath.Join(home, "state.db"))
		if err != nil {
			log.Debug("run history disabled", "err", err)
			db = nil
		} else {
			atexit.Register(func() { _ = db.Close() })
		}
	}

	root := projectRoot(cmd, cfg, log)
	log.Debug("runtime ready", "root", root, "config", cfg.File)

	cmd.SetContext(commands.NewContext(cmd.Context(), &commands.Runtime{
		Config:   cfg,
		Log:      log,
		State:    db,
		Registry: reg,
		Root:     root,
		Flags: commands.GlobalFlags{
			ConfigFile: flags.configFile,
			Debug:      flags.debug,
			JSONOutput: flags.jsonOutput,
		},
	}))
	return nil
}

// projectRoot is the directory holding devctl.toml, else the enclosing git
// work tree, else the working directory.
func projectRoot(cmd *cobra.Command, cfg *config.Config, log *logger.Logger) string {
	if cfg.Root != "" {
		return cfg.Root
	}
	top, err := vcs.New("").TopLevel(cmd.Context())
	if err == nil {
		return top
	}
	log.Debug("not inside a git work tree", "err", err)

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
