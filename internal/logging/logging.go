// Package logging builds the wrapper's diagnostic logger.
//
// The wrapper's stdout belongs to the child, so logs always go to stderr and
// default to the error level: a normal run prints nothing of its own.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = zapcore.ErrorLevel

// New creates a console logger on stderr at the given level name
// ("debug", "info", "warn", "error"). An empty name selects DefaultLevel.
func New(level string) (*zap.Logger, error) {
	lvl := DefaultLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := zapcore.ParseLevel(s)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil

	return config.Build()
}
