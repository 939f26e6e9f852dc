// Package logging holds the process-wide structured logger.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// Logger returns the process logger.
func Logger() zerolog.Logger {
	return logger
}

// SetDebug lowers the level to debug when enabled.
func SetDebug(enabled bool) {
	if enabled {
		logger = logger.Level(zerolog.DebugLevel)
	}
}
