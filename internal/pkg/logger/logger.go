// Package logger holds the process-wide zap logger of the storefront.
//
// Packages log through the helpers here or through a Named child. Until Init
// runs every call is dropped, so packages stay quiet under go test unless a
// test wires the logger itself. The level is an AtomicLevel that admins can
// change on a running server.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global      *zap.Logger
	atomicLevel = zap.NewAtomicLevel()
	once        sync.Once
	nop         = zap.NewNop()
)

// Init builds the process logger. level is one of debug, info, warn or
// error; format "console" gives coloured development output and anything
// else JSON. Only the first call has an effect.
func Init(level, format string) error {
	var initErr error
	once.Do(func() {
		if err := atomicLevel.UnmarshalText([]byte(level)); err != nil {
			initErr = fmt.Errorf("parse log level %q: %w", level, err)
			return
		}

		cfg := zap.NewProductionConfig()
		if format == "console" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		cfg.Level = atomicLevel

		l, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			initErr = fmt.Errorf("build logger: %w", err)
			return
		}
		global = l
	})
	return initErr
}

// SetLevel changes the level of the running logger.
func SetLevel(level string) error {
	return atomicLevel.UnmarshalText([]byte(level))
}

// GetLevel returns the current level.
func GetLevel() zapcore.Level {
	return atomicLevel.Level()
}

// Level returns the shared level. It serves HTTP: GET reports the level and
// PUT {"level":"debug"} changes it; the API mounts it under /admin/log-level.
func Level() *zap.AtomicLevel {
	return &atomicLevel
}

// L returns the process logger, or a no-op logger before Init.
func L() *zap.Logger {
	if global == nil {
		return nop
	}
	return global
}

// Debug logs at debug level.
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Info logs at info level.
func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

// Warn logs at warn level.
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Error logs at error level.
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

// Named returns a child logger for a component such as "nav" or "store".
// The child is bound to the logger at call time.
func Named(component string) *zap.Logger {
	return L().Named(component)
}

// Sync flushes buffered entries.
func Sync() error {
	if global == nil {
		return nil
	}
	return global.Sync()
}
