// Package logging provides structured logging with zap.
//
// Logs always go to stderr (or a file) so they never mix with command output.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps routine CLI runs quiet.
const DefaultLevel = "warn"

var (
	mu           sync.RWMutex
	globalLogger = zap.NewNop()
	globalLevel  = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // console, json
	OutputPath string // stderr, stdout, or a file path
}

// Build creates a logger from cfg without touching the global one.
func Build(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	var config zap.Config
	switch strings.ToLower(cfg.Format) {
	case "", "console":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	case "json":
		config = zap.NewProductionConfig()
		config.Sampling = nil
	default:
		return nil, zap.AtomicLevel{}, fmt.Errorf("unknown log format %q (want console or json)", cfg.Format)
	}

	atom := zap.NewAtomicLevelAt(level)
	config.Level = atom
	out := cfg.OutputPath
	if out == "" {
		out = "stderr"
	}
	config.OutputPaths = []string{out}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	return logger, atom, nil
}

// Init replaces the global logger.
func Init(cfg Config) error {
	logger, atom, err := Build(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	old := globalLogger
	globalLogger = logger
	globalLevel = atom
	mu.Unlock()
	_ = old.Sync()
	return nil
}

// SetLevel changes the level of the global logger without rebuilding it.
func SetLevel(s string) error {
	level, err := ParseLevel(s)
	if err != nil {
		return err
	}
	mu.RLock()
	defer mu.RUnlock()
	globalLevel.SetLevel(level)
	return nil
}

// ParseLevel accepts debug, info, warn, error (and zap's other level names).
// An empty string means DefaultLevel.
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		s = DefaultLevel
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return level, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Sync flushes any buffered log entries.
func Sync() error {
	return L().Sync()
}

// L returns the global logger. It is a no-op logger until Init is called.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Named returns a child of the global logger for one component.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Field helpers for common fields.
func Path(p string) zap.Field {
	return zap.String("path", p)
}

func VaultID(id string) zap.Field {
	return zap.String("vault_id", id)
}

func Err(err error) zap.Field {
	return zap.Error(err)
}
