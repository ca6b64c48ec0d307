package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/cvefocus/internal/cve"
	"github.com/rshade/cvefocus/internal/config"
	"github.com/rshade/cvefocus/internal/logging"
	"github.com/rshade/cvefocus/internal/tui"
)

// Command annotations read by the root pre-run hook.
const (
	// annotationTUI marks commands that may take over the terminal.
	annotationTUI = "cvefocus/tui"
	// annotationNoConfig marks commands that must run even when the config
	// file is unreadable.
	annotationNoConfig = "cvefocus/no-config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// app carries per-invocation state from the root pre-run hook to the
// subcommands. logger is the base logger; components add their own name.
type app struct {
	lookupEnv func(string) (string, bool)
	cfg       *config.Config
	logger    zerolog.Logger
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root Cobra command for the cvefocus CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit environment
// lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	a := &app{lookupEnv: lookupEnv, logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "cvefocus",
		Short:         "Browse CVE records from a CVE HTTP API",
		Long:          "cvefocus: list, page through and inspect CVE records served by a CVE data API",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.logResult.Close()
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default $CVEFOCUS_HOME/config.yaml)")
	cmd.PersistentFlags().String("api-url", "", "base URL of the CVE API (overrides config and env)")
	cmd.PersistentFlags().String("locale", "", "locale for dates and totals, for example en-GB")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(
		newBrowseCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)

	return cmd
}

const rootCmdExample = `  # Page through CVE records interactively
  cvefocus browse

  # Print the second page of 25 records
  cvefocus list --page 2 --page-size 25

  # Records published in 2023 with a v3 score of at least 9
  cvefocus list --year 2023 --min-score 9 --output json

  # Show the detail view of several records
  cvefocus show CVE-2023-0001 CVE-2023-0002

  # Serve the HTML list and detail pages
  cvefocus serve --addr :8080

  # Write the default configuration file
  cvefocus config init`

// setup loads the configuration, applies root flag overrides and starts
// logging. It runs before every subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")

	if cmd.Annotations[annotationNoConfig] != "" {
		a.cfg = config.New()
		if path != "" {
			a.cfg.SetConfigPath(path)
		}
	} else {
		cfg, err := config.LoadWithEnv(path, a.lookupEnv)
		if err != nil {
			return err
		}
		if err = applyRootFlags(cmd, cfg); err != nil {
			return err
		}
		if err = cfg.Validate(); err != nil {
			return err
		}
		a.cfg = cfg
	}

	result := setupLogging(cmd, a.cfg.Logging, tuiMode(cmd))
	a.logResult = &result
	a.logger = result.Logger
	return nil
}

// applyRootFlags overlays explicitly set root flags onto cfg.
func applyRootFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("api-url") {
		cfg.API.BaseURL, _ = cmd.Flags().GetString("api-url")
	}
	if cmd.Flags().Changed("locale") {
		locale, _ := cmd.Flags().GetString("locale")
		if _, err := cve.ParseLocale(locale); err != nil {
			return fmt.Errorf("invalid --locale %q: %w", locale, err)
		}
		cfg.Display.Locale = locale
	}
	return nil
}

// tuiMode reports whether cmd will take over the terminal.
func tuiMode(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationTUI] != "" &&
		tui.DetectOutputMode(false, false, false) == tui.OutputModeInteractive &&
		isTerminal(os.Stdin)
}

// newConfigCmd creates the config command group.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a))
	return cmd
}
