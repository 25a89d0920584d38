/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Logging system for the tabjson converter. Wraps logrus with a
validated configuration, text and JSON formats, and a per-run identifier stamped
on every entry. Diagnostics go to the error stream so the JSON payload on stdout
stays clean.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kleascm/tabjson/pkg/interfaces"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
)

// LogFormat represents the logging format
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	Level  LogLevel  `json:"level"`
	Format LogFormat `json:"format"`

	// Output receives all log entries. Defaults to stderr; converted JSON
	// must never share a stream with diagnostics.
	Output io.Writer `json:"-"`
}

// Validate checks the LoggerConfig for invalid or missing values.
// Returns an error if the config is invalid, or nil if valid.
func (c *LoggerConfig) Validate() error {
	switch c.Format {
	case LogFormatJSON, LogFormatText:
		// ok
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		// ok
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

// Logger provides structured logging for a single conversion run
type Logger struct {
	config    *LoggerConfig
	logger    *logrus.Logger
	runID     string
	startTime time.Time
}

// NewLogger creates a new logger instance
func NewLogger(config *LoggerConfig) (*Logger, error) {
	if config == nil {
		config = &LoggerConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	l := &Logger{
		config:    config,
		logger:    logrus.New(),
		runID:     uuid.New().String(),
		startTime: time.Now(),
	}
	l.setup()
	return l, nil
}

// setup configures the underlying logrus logger
func (l *Logger) setup() {
	level, err := logrus.ParseLevel(string(l.config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logger.SetLevel(level)

	switch l.config.Format {
	case LogFormatJSON:
		l.logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	default:
		l.logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	if l.config.Output != nil {
		l.logger.SetOutput(l.config.Output)
	} else {
		l.logger.SetOutput(os.Stderr)
	}
}

// RunID returns the identifier stamped on every entry of this run
func (l *Logger) RunID() string {
	return l.runID
}

// GetLogger returns the underlying logrus logger
func (l *Logger) GetLogger() *logrus.Logger {
	return l.logger
}

// LogDialect logs the dialect a conversion will run under
func (l *Logger) LogDialect(path string, dialect interfaces.Dialect) {
	l.entry(nil).WithFields(logrus.Fields{
		"input":   path,
		"dialect": dialect.String(),
	}).Info("Using detected dialect")
}

// LogProgress logs streaming progress at the driver's cadence
func (l *Logger) LogProgress(records int64) {
	l.entry(nil).WithField("records", records).Info("Processed records")
}

// LogReport logs the final conversion report
func (l *Logger) LogReport(report interfaces.Report) {
	fields := logrus.Fields{
		"records":  report.Records,
		"duration": report.Duration,
	}
	if report.Sheet != "" {
		fields["sheet"] = report.Sheet
	}
	l.entry(nil).WithFields(fields).Info("Conversion complete")
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry(fields).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry(fields).Info(msg)
}

// Warning logs a warning message
func (l *Logger) Warning(msg string, fields map[string]interface{}) {
	l.entry(fields).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry(fields).Error(msg)
}

func (l *Logger) entry(fields map[string]interface{}) *logrus.Entry {
	entry := l.logger.WithField("run_id", l.runID)
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	return entry
}
