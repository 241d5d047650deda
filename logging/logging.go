// Package logging contains the zap-backed loggers used across the collision packages.
package logging

import (
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

var global atomic.Pointer[Logger]

func init() {
	ReplaceGlobal(NewLogger("ccd"))
}

// ReplaceGlobal replaces the process wide logger.
func ReplaceGlobal(logger Logger) {
	global.Store(&logger)
}

// Global returns the process wide logger.
func Global() Logger {
	return *global.Load()
}

// encoderConfig prints human readable lines: ISO8601 time, colored level, logger name, short caller.
func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	cfg.FunctionKey = zapcore.OmitKey
	return cfg
}

// newLogger builds a console logger at level writing to the given zap output paths.
func newLogger(name string, level zapcore.Level, outputs ...string) Logger {
	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          "console",
		EncoderConfig:     encoderConfig(),
		DisableStacktrace: true,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
	}
	zl, err := cfg.Build()
	if err != nil {
		// only a bad output path gets here
		zl = zap.NewNop()
	}
	return &impl{SugaredLogger: zl.Sugar().Named(name), level: cfg.Level}
}

// NewLogger returns a logger that writes Info+ logs to stderr, leaving stdout to command output.
func NewLogger(name string) Logger {
	return newLogger(name, zapcore.InfoLevel, "stderr")
}

// NewDebugLogger returns a logger that writes Debug+ logs to stderr.
func NewDebugLogger(name string) Logger {
	return newLogger(name, zapcore.DebugLevel, "stderr")
}

// NewBlankLogger returns a logger that discards everything.
func NewBlankLogger(name string) Logger {
	return &impl{SugaredLogger: zap.NewNop().Sugar().Named(name), level: zap.NewAtomicLevelAt(zapcore.DebugLevel)}
}

// NewTestLogger returns a Debug+ logger that writes through tb.Log.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is NewTestLogger that also records every entry for assertions.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	observerCore, observedLogs := observer.New(level)
	zl := zap.New(zapcore.NewTee(zaptest.NewLogger(tb, zaptest.Level(level)).Core(), observerCore))
	return &impl{SugaredLogger: zl.Sugar(), level: level}, observedLogs
}
