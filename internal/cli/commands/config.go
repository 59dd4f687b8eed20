// devctl config: print the merged configuration.
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/f9-o/devctl/internal/core/config"
	"github.com/f9-o/devctl/pkg/errs"
)

func NewConfigCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration (defaults, global, project, env)",
		Example: `  devctl config
  devctl config --format yaml`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			if rt.Flags.JSONOutput {
				format = "json"
			}
			body, err := renderConfig(rt.Config, format)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rt.Config.File != "" && format != "json" {
				fmt.Fprintf(out, "# project file: %s\n# project root: %s\n", rt.Config.File, rt.Root)
			}
			_, err = out.Write(body)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "toml", "Output format: toml, yaml or json")
	return cmd
}

func renderConfig(cfg *config.Config, format string) ([]byte, error) {
	switch format {
	case "toml":
		return toml.Marshal(cfg)
	case "yaml":
		return yaml.Marshal(cfg)
	case "json":
		body, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(body, '\n'), nil
	default:
		return nil, errs.Newf(errs.ErrValidation, "config", "unknown format %q", format).
			WithAdvice("use toml, yaml or json")
	}
}
