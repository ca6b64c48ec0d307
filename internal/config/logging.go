package config

import (
	"path/filepath"

	"github.com/rshade/cvefocus/internal/logging"
)

// ToLoggingConfig converts the logging section to logging.Config.
// A configured file selects file output; otherwise logs go to stderr.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// DefaultLogFile returns the log path used when the TUI takes over the
// terminal and no file is configured.
func DefaultLogFile() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "cvefocus.log"), nil
}
