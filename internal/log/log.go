// Package log holds the process-wide logger. It discards everything until
// Set is called, which only happens with --debug.
package log

import (
	"go.uber.org/zap"
)

var defaultLogger = zap.NewNop()

func Get() *zap.Logger {
	return defaultLogger
}

// Set switches to a development console logger at debug level.
// Output goes to stderr unless paths are given.
func Set(paths ...string) {
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = paths
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	defaultLogger = logger.Named("hardcover")
}

// Reset restores the no-op logger.
func Reset() {
	Flush()
	defaultLogger = zap.NewNop()
}

func Flush() {
	_ = defaultLogger.Sync()
}
