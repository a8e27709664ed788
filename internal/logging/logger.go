package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is what components accept; *logrus.Logger and *logrus.Entry both satisfy it.
type Logger = logrus.FieldLogger

// Fields represents structured logging fields
type Fields = logrus.Fields

// NewLogger creates a JSON logger at the level named by LOG_LEVEL.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
	return logger
}

// NewLoggerWithService tags every entry with the service name.
func NewLoggerWithService(service string) *logrus.Entry {
	return NewLogger().WithField("service", service)
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(name string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Discard returns a logger that drops everything, for tests and optional deps.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
