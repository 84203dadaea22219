package util

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

// InitLogger initializes the global logger with the appropriate level.
// Diagnostics go to stderr: stdout stays clean in case the user points
// the output path at /dev/stdout.
func InitLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	logger = l
	return l
}

// GetLogger returns the configured logger instance.
func GetLogger() *logrus.Logger {
	if logger == nil {
		// Fallback initialization with INFO level
		return InitLogger(false)
	}
	return logger
}
