// Package logging builds the zap logger used as the diagnostic stream.
//
// Diagnostics always go to a writer separate from command output (stderr in
// the CLI) so that skipped files and walk errors never mix with results.
// Components take the logger as a dependency and tag their entries with
// Named, e.g. logger.Named("scanner").
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines logger configuration.
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool
	Output      io.Writer
}

// DefaultConfig returns the configuration used by the CLI: warnings and
// above, console encoding.
func DefaultConfig(out io.Writer) Config {
	return Config{
		Level:  "warn",
		Output: out,
	}
}

// VerboseConfig returns the configuration used with --verbose.
func VerboseConfig(out io.Writer) Config {
	return Config{
		Level:       "debug",
		Development: true,
		Output:      out,
	}
}

// New creates a logger writing console-encoded entries to cfg.Output.
func New(cfg Config) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Output == nil {
		return zap.NewNop(), nil
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig(cfg.Development)),
		zapcore.AddSync(cfg.Output),
		zap.NewAtomicLevelAt(level),
	)

	opts := []zap.Option{zap.ErrorOutput(zapcore.AddSync(cfg.Output))}
	if cfg.Development {
		opts = append(opts, zap.AddCaller(), zap.Development())
	}
	return zap.New(core, opts...), nil
}

// NewOrNop creates a logger and falls back to a no-op logger on bad config.
func NewOrNop(cfg Config) *zap.Logger {
	logger, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// parseLevel converts string level to zapcore.Level.
func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if level == "" {
		return zapcore.WarnLevel, nil
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.WarnLevel, err
	}
	return l, nil
}

func encoderConfig(development bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		LevelKey:       "L",
		NameKey:        "N",
		MessageKey:     "M",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	if development {
		cfg.TimeKey = "T"
		cfg.CallerKey = "C"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
	}
	return cfg
}
