package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/spritebatch/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration (global file, project overlay and
environment overrides).

This includes:
- Step count, rotation mode and shortage policies
- Path template slots
- Frame range and frame names
- Output format and log level`,
		Example: `  # Validate current configuration
  spritebatch config validate

  # Validate and show detailed information
  spritebatch config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	// New ignores a malformed file so that init --force can repair it; report it here.
	if path := cfg.ConfigPath(); path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, loadErr := config.LoadFile(path); loadErr != nil {
				return configError(fmt.Errorf("configuration validation failed: %w", loadErr))
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return configError(fmt.Errorf("configuration validation failed: %w", err))
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Path template: %s\n", cfg.Render.PathTemplate)
	cmd.Printf("  Steps: %d\n", cfg.Render.Steps)
	if cfg.Render.CustomFrameNames {
		cmd.Printf("  Frame names: %s\n", cfg.Render.FrameNames)
	} else {
		cmd.Println("  Frame names: generated (A, B, C, ...)")
	}
	cmd.Printf("  Mode: %s\n", cfg.Render.Mode)
	cmd.Printf("  Policies: frames %s, angles %s\n", cfg.Render.FramePolicy, cfg.Render.AnglePolicy)
	cmd.Printf("  Blender: %s\n", cfg.Blender.Binary)
	if cfg.Blender.BlendFile != "" {
		cmd.Printf("  Blend file: %s\n", cfg.Blender.BlendFile)
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
}
