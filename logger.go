package fexpr

import (
	"context"
	"log/slog"
)

// noopHandler discards every record. It backs the default, nil-safe logger
// so Engine never needs a nil check on its hot path.
type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h noopHandler) WithGroup(string) slog.Handler           { return h }

func defaultLogger() *slog.Logger {
	return slog.New(noopHandler{})
}
