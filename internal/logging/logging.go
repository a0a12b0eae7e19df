// Package logging provides the process-wide structured logger.
//
// It wraps zap with console output suited to a CLI: ISO8601 timestamps,
// colored levels and no stack traces. Packages obtain named children via
// [Named]; tests use [NewTestLogger] so output is attached to the test.
package logging

import (
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is the logger type passed around the codebase.
type Logger = *zap.SugaredLogger

var (
	mu     sync.RWMutex
	global Logger
	level  = zap.NewAtomicLevelAt(zap.InfoLevel)
)

// NewConfig returns the console configuration used by Init.
func NewConfig(lvl zap.AtomicLevel) zap.Config {
	return zap.Config{
		Level:    lvl,
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      zapcore.OmitKey,
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a zap level.
// Anything else is info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Init (re)builds the global logger at the given level.
func Init(lvl string) error {
	level.SetLevel(ParseLevel(lvl))
	z, err := NewConfig(level).Build()
	if err != nil {
		return err
	}
	mu.Lock()
	global = z.Sugar().Named("diffdrive")
	mu.Unlock()
	return nil
}

// L returns the global logger, building an info-level one on first use.
func L() Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	if err := Init("info"); err != nil {
		return zap.NewNop().Sugar()
	}
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// ReplaceGlobal swaps the global logger, returning the previous one.
func ReplaceGlobal(l Logger) Logger {
	mu.Lock()
	defer mu.Unlock()
	prev := global
	global = l
	return prev
}

// Named returns a child of the global logger.
func Named(name string) Logger {
	return L().Named(name)
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return zap.NewNop().Sugar()
}

// NewTestLogger returns a debug logger writing through tb.Log.
func NewTestLogger(tb testing.TB) Logger {
	return zaptest.NewLogger(tb, zaptest.Level(zap.DebugLevel)).Sugar()
}
