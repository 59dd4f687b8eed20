package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	v1 "github.com/f9-o/devctl/api/v1"
)

// ExtendOptions describe a command built on top of another one.
type ExtendOptions struct {
	Use   string
	Short string
	Long  string
	// Remove names parent flags the new command does not carry.
	Remove []string
}

// Extend returns a new command that carries parent's flags (minus
// opts.Remove) and runs fn. fn receives parent's own handler and decides
// whether, when and with which arguments to call it. Flag values are shared,
// so parent's handler sees the flags set on the new command; removed flags
// keep their defaults.
func Extend(parent *cobra.Command, opts ExtendOptions, fn v1.ExtensionFunc) *cobra.Command {
	removed := make(map[string]bool, len(opts.Remove))
	for _, name := range opts.Remove {
		removed[name] = true
	}

	next := handlerOf(parent)
	cmd := &cobra.Command{
		Use:          opts.Use,
		Short:        opts.Short,
		Long:         opts.Long,
		Args:         parent.Args,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fn(cmd, args, next)
		},
	}

	parent.Flags().VisitAll(func(f *pflag.Flag) {
		if removed[f.Name] {
			return
		}
		cp := *f
		cmd.Flags().AddFlag(&cp)
	})
	return cmd
}

// handlerOf adapts whichever run function parent defines into a Handler.
func handlerOf(parent *cobra.Command) v1.Handler {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case parent.RunE != nil:
			return parent.RunE(cmd, args)
		case parent.Run != nil:
			parent.Run(cmd, args)
			return nil
		default:
			return fmt.Errorf("command %q has no handler to extend", parent.Name())
		}
	}
}
