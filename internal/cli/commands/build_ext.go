package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	v1 "github.com/f9-o/devctl/api/v1"
)

// NewBuildExtCmd returns build-ext: build with an extra integer flag and
// without --gcov, wrapped in preparation and completion messages.
func NewBuildExtCmd(build *cobra.Command) *cobra.Command {
	var extra int

	cmd := Extend(build, ExtendOptions{
		Use:   "build-ext [-- EXTRA_ARGS...]",
		Short: "Build, with an extra integer setting",
		Long: `This version of build also provides the --extra flag, which can be used
to specify an extra integer argument. It accepts every build flag except --gcov.`,
		Remove: []string{"gcov"},
	}, func(cmd *cobra.Command, args []string, parent v1.Handler) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Preparing for build with extra=%d\n", extra)
		if err := parent(cmd, args); err != nil {
			return err
		}
		fmt.Fprintln(out, "Finalizing build...")
		return nil
	})

	cmd.Flags().IntVarP(&extra, "extra", "e", 0, "Extra integer setting")
	return cmd
}
