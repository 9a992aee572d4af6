package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the run logger. Verbose runs get the human-readable development encoder;
// otherwise JSON lines go to stderr at the given level ("debug", "info", "warn", "error").
func NewLogger(level string, verbose bool) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// MustLogger is NewLogger with a no-op fallback, for callers that cannot fail on logging.
func MustLogger(level string, verbose bool) *zap.Logger {
	logger, err := NewLogger(level, verbose)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
