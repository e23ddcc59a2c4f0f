package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/spritebatch/internal/config"
	"github.com/rshade/spritebatch/internal/logging"
)

// isTerminal checks if the given writer is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the spritebatch CLI.
// It resolves the project config directory, wires up logging and registers
// the render, plan, config and version subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogResult
		projectDir string
	)

	cmd := &cobra.Command{
		Use:   "spritebatch",
		Short: "Render sprite sheets from a 3D scene",
		Long: `spritebatch renders a Blender scene from evenly spaced rotation angles across
a frame range and writes one image per frame and angle, ready for packing into
2D sprite sheets.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			startDir, err := os.Getwd()
			if err != nil {
				startDir = "."
			}
			config.SetResolvedProjectDir(config.ResolveProjectDir(cmd.Context(), projectDir, startDir))

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project directory holding .spritebatch/config.yaml (default: discovered from the working directory)")
	cmd.AddCommand(NewRenderCmd(), NewPlanCmd(), newConfigCmd(), newCacheCmd(), NewVersionCmd())
	finishLogging(cmd, func() *logging.LogResult { return logResult })

	return cmd
}

// finishLogging wraps every RunE in the tree so the log file is closed when
// the command fails too. Cobra skips PersistentPostRunE after a RunE error.
func finishLogging(c *cobra.Command, logResult func() *logging.LogResult) {
	for _, sub := range c.Commands() {
		finishLogging(sub, logResult)
	}
	run := c.RunE
	if run == nil {
		return
	}
	c.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		logger.Debug().Ctx(cmd.Context()).Str("command", cmd.Name()).Err(err).Msg("command finished")
		if closeErr := cleanupLogging(cmd, logResult()); closeErr != nil && err == nil {
			return closeErr
		}
		return err
	}
}

const rootCmdExample = `  # Render 8 angles of every frame in the scene range
  spritebatch render --blend knight.blend --target Knight

  # Orbit the scene camera instead of turning the object
  spritebatch render --blend knight.blend --mode orbit

  # Preview the output paths without rendering
  spritebatch plan --frame-start 1 --frame-end 4 --steps 16 --path "out/%s_%s.png"

  # Resume an interrupted batch and write a manifest
  spritebatch render --blend knight.blend --target Knight --skip-existing --manifest sprites/manifest.json

  # Initialize configuration
  spritebatch config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
