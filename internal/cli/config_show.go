package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/spritebatch/internal/config"
)

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after the project overlay and environment overrides.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Example: `  # Show the merged global and project configuration
  spritebatch config show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshaling configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			if path := cfg.ConfigPath(); path != "" {
				fmt.Fprintf(out, "# global: %s\n", path)
			}
			if dir := config.GetResolvedProjectDir(); dir != "" {
				fmt.Fprintf(out, "# project: %s\n", dir)
			}
			_, err = out.Write(data)
			return err
		},
	}
}
