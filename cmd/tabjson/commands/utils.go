/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the tabjson commands. Provides common
configuration loading, logging setup, and flag parsing helpers used across
the command implementations.
*/

package commands

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/kleascm/tabjson/pkg/logging"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("TABJSON")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging configures the logging system from the loaded configuration
func SetupLogging() (*logging.Logger, error) {
	format := logging.LogFormatText
	if viper.GetBool("json_logs") {
		format = logging.LogFormatJSON
	}

	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LogLevel(viper.GetString("log_level")),
		Format: format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// parseByteFlag resolves a single-byte flag value. The two-character
// sequence \t is accepted for the tab delimiter since shells rarely pass a
// literal tab through.
func parseByteFlag(name, value string) (byte, error) {
	if value == `\t` {
		return '\t', nil
	}
	if len(value) != 1 {
		return 0, fmt.Errorf("flag --%s must be a single character, got %q", name, value)
	}
	return value[0], nil
}
