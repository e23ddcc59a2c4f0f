package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/spritebatch/internal/config"
	"github.com/rshade/spritebatch/internal/logging"
)

// setupLogging configures logging from the config file, environment and CLI flags,
// and stores the logger and a run ID in the command context.
func setupLogging(cmd *cobra.Command) logging.LogResult {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" && !debug {
		loggingCfg.Level = level
	}

	// Ensure log directory exists after all overrides have been applied.
	if loggingCfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	lc := loggingCfg.ToLoggingConfig()
	result := logging.NewLogger(lc)
	logging.SetDefault(result.Logger)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	runID := logging.GetOrGenerateRunID(ctx)
	ctx = logging.ContextWithRunID(ctx, runID)
	ctx = logging.ContextWithFileOutput(ctx, result.UsingFile)
	runLogger := result.Logger.With().Str("run_id", runID).Logger()
	ctx = runLogger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Str("run_id", runID).Msg("command started")

	return *result
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(_ *cobra.Command, logResult *logging.LogResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
