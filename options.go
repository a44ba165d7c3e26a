package fexpr

import (
	"errors"
	"log/slog"
)

// EngineOption configures a Engine at construction time. Options are
// applied in the order passed to NewEngine.
type EngineOption func(*engineConfig) error

type engineConfig struct {
	logger         *slog.Logger
	regexCacheSize int
}

func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		logger:         defaultLogger(),
		regexCacheSize: 128,
	}
}

// WithLogger attaches a structured logger the Engine uses to record
// validation and execution diagnostics. Passing a nil logger is a no-op.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithRegexCacheSize bounds the number of compiled Regex/In patterns an
// Engine keeps cached. size must be positive.
func WithRegexCacheSize(size int) EngineOption {
	return func(c *engineConfig) error {
		if size <= 0 {
			return errors.New("fexpr: regex cache size must be positive")
		}
		c.regexCacheSize = size
		return nil
	}
}
