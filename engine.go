package fexpr

import "log/slog"

// Engine binds an immutable Schema[T] to the validate/execute operations.
// An Engine is safe for concurrent use: both passes are pure functions over
// immutable inputs, and the regex cache is mutex-protected.
type Engine[T any] struct {
	schema *Schema[T]
	logger *slog.Logger
	regex  *regexCache
}

// NewEngine constructs an Engine bound to schema, applying any options in
// order. A nil schema is treated as an empty schema: every field lookup
// fails, which only affects expressions that reference field paths.
func NewEngine[T any](schema *Schema[T], opts ...EngineOption) (*Engine[T], error) {
	if schema == nil {
		schema = &Schema[T]{fields: map[string]Field[T]{}}
	}

	cfg := defaultEngineConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return &Engine[T]{
		schema: schema,
		logger: cfg.logger,
		regex:  newRegexCache(cfg.regexCacheSize),
	}, nil
}

// Validate type-checks expr against the engine's schema, returning the
// first ValidationError found (depth-first, left-to-right).
func (e *Engine[T]) Validate(expr Expression) error {
	if err := validateExpression(expr, e.schema); err != nil {
		e.logger.Debug("fexpr validate rejected expression", "error", err, "expr", expr.Serialize())
		return err
	}
	return nil
}

// Execute evaluates expr against target, returning the boolean verdict or
// an ExecutionError. Execute does not itself call Validate; callers that
// skip validation accept that malformed type pairings surface as
// ExecutionError instead of ValidationError.
func (e *Engine[T]) Execute(expr Expression, target T) (bool, error) {
	result, err := executeExpression(expr, e.schema, target, e.regex)
	if err != nil {
		e.logger.Debug("fexpr execute failed", "error", err, "expr", expr.Serialize())
		return false, err
	}
	return result, nil
}
