package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/xoundbyte/soulbase/pkg/logging"
)

// NewLogger creates a configured logger from the application configuration.
// Log level precedence (highest to lowest):
//  1. -v/--verbose and -q/--quiet shortcuts
//  2. --log-level flag, falling back to LOG_LEVEL environment variable
//  3. Default (info)
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)

	var logger zerolog.Logger
	if config.LogFormat == "json" {
		logger = logging.NewJSON(os.Stderr)
	} else {
		logger = logging.NewConsole()
	}
	logger = logger.Level(parsed)

	logging.SetDefault(logger)
	return logger
}

// determineLogLevel applies the level precedence rules.
func determineLogLevel(config *Config) string {
	if config.Verbose && config.Quiet {
		fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	}
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}
	if config.LogLevel != "" {
		return config.LogLevel
	}
	return "info"
}
