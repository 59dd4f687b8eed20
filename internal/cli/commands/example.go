// devctl example: show how a command reads project config and the command registry.
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f9-o/devctl/pkg/pprint"
)

func NewExampleCmd() *cobra.Command {
	var flag, test string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Example custom command",
		Long: `Example custom command.

Accepts arbitrary flags, and shows how to access devctl.toml config.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			p := pprint.New(cmd.OutOrStdout())

			p.Title("Running example custom command")
			p.Linef("")
			p.Label("Flag provided with --flag is: ", orNone(flag))
			p.Label("Flag provided with --test is: ", orNone(test))

			p.Linef("")
			p.Label("Defined commands:", "")
			if rt.Registry != nil {
				for _, sec := range rt.Registry.Sections() {
					names := make([]string, 0, len(sec.Commands))
					for _, c := range sec.Commands {
						names = append(names, c.Name)
					}
					p.Linef("  %s: %s", sec.Name, strings.Join(names, ", "))
				}
			}

			p.Linef("")
			p.Label("Tool config is:", "")
			body, err := json.MarshalIndent(rt.Config.ToolSection(), "", "  ")
			if err != nil {
				return fmt.Errorf("render tool config: %w", err)
			}
			p.Linef("%s", body)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flag, "flag", "f", "", "Arbitrary value to echo")
	cmd.Flags().StringVarP(&test, "test", "t", "not set", "Arbitrary value to echo")
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
