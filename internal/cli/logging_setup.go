package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/cvefocus/internal/config"
	"github.com/rshade/cvefocus/internal/logging"
)

// setupLogging configures logging from the config file, environment, and
// CLI flags, and stores the logger and a trace ID in the command context.
//
// When the command takes over the terminal, logs go to a file; if no file can
// be opened they are discarded so the screen is never written to.
func setupLogging(cmd *cobra.Command, loggingCfg config.LoggingConfig, tui bool) logging.LogPathResult {
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		if !tui {
			loggingCfg.File = ""
		}
	}

	if tui && loggingCfg.File == "" {
		if path, err := config.DefaultLogFile(); err == nil {
			loggingCfg.File = path
		}
	}

	lc := loggingCfg.ToLoggingConfig()
	if tui && lc.File == "" {
		lc.Output = logging.OutputDiscard
	}

	result := logging.NewLoggerWithPath(lc)
	if tui && result.FallbackUsed {
		lc.Output = logging.OutputDiscard
		result.Logger = logging.NewLogger(lc)
	}

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed && !tui {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	log := logging.ComponentLogger(result.Logger, "cli")
	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = log.WithContext(ctx)
	cmd.SetContext(ctx)

	log.Debug().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}
