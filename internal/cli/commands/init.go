// devctl init: scaffold a devctl.toml in the target directory.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f9-o/devctl/internal/core/config"
	"github.com/f9-o/devctl/pkg/pprint"
)

func NewInitCmd() *cobra.Command {
	var (
		targetPath string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new devctl.toml in the current (or specified) directory",
		Example: `  devctl init
  devctl init --path ./my-project --name my-project`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetPath == "" {
				targetPath = "."
			}
			outFile := filepath.Join(targetPath, config.FileName)
			if _, err := os.Stat(outFile); err == nil {
				return fmt.Errorf("%s already exists at %s; delete it first to reinitialise", config.FileName, outFile)
			}

			if name == "" {
				abs, err := filepath.Abs(targetPath)
				if err != nil {
					return fmt.Errorf("resolve %q: %w", targetPath, err)
				}
				name = filepath.Base(abs)
			}

			body, err := config.Starter(name)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("create dir %q: %w", targetPath, err)
			}
			if err := os.WriteFile(outFile, body, 0644); err != nil {
				return fmt.Errorf("write %s: %w", config.FileName, err)
			}

			p := pprint.New(cmd.OutOrStdout())
			p.Success("Created %s", outFile)
			p.Info("Edit it to point at your benchmarks, then run: devctl bench")
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", ".", "Target directory for devctl.toml")
	cmd.Flags().StringVar(&name, "name", "", "Project name (defaults to the directory name)")
	return cmd
}
