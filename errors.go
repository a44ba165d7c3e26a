package fexpr

import "fmt"

// ParseError reports a syntax error at a byte offset into the source text.
type ParseError struct {
	Message  string
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fexpr: parse error at byte %d: %s", e.Position, e.Message)
}

// ValidationErrorKind classifies why a Validate call rejected an Operation.
type ValidationErrorKind uint8

const (
	// InvalidOperator means the operator does not support the LHS/RHS type
	// pairing at all (e.g. Number > StringList).
	InvalidOperator ValidationErrorKind = iota
	// UnknownField means a Literal field path has no entry in the Schema.
	UnknownField
)

func (k ValidationErrorKind) String() string {
	switch k {
	case InvalidOperator:
		return "InvalidOperator"
	case UnknownField:
		return "UnknownField"
	default:
		return "Unknown"
	}
}

// ValidationError reports why Engine.Validate rejected an expression.
type ValidationError struct {
	Kind  ValidationErrorKind
	Field string
	LHS   Type
	Op    Operator
	RHS   Type
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case UnknownField:
		return fmt.Sprintf("fexpr: unknown field %q", e.Field)
	default:
		return fmt.Sprintf("fexpr: operator %s not valid between %s and %s", e.Op.Token(), e.LHS, e.RHS)
	}
}

// ExecutionErrorKind classifies why Engine.Execute could not produce a
// boolean verdict.
type ExecutionErrorKind uint8

const (
	// ExecInvalidField means a Literal field path had no schema entry —
	// this happens when the expression was never passed to Validate, or
	// was validated against a different Schema than the Engine's.
	ExecInvalidField ExecutionErrorKind = iota
	// ExecInvalidOperator mirrors ValidationError's InvalidOperator but at
	// execute time; it should not occur for an expression that passed
	// Validate, but the executor stays defensive per §4.5.
	ExecInvalidOperator
	// ExecInvalidDateRange means an `In` RHS DateTimeList did not have
	// exactly two elements.
	ExecInvalidDateRange
	// ExecRegexCompileError means a Regex literal failed to compile.
	ExecRegexCompileError
)

// ExecutionError reports a failure encountered while evaluating an
// expression against a target — distinct from a ValidationError because it
// can only be discovered by actually running the comparison (e.g. a
// malformed regex pattern supplied as a literal).
type ExecutionError struct {
	Kind    ExecutionErrorKind
	Field   string
	LHS     Type
	Op      Operator
	RHS     Type
	Message string
}

func (e *ExecutionError) Error() string {
	switch e.Kind {
	case ExecInvalidField:
		return fmt.Sprintf("fexpr: unknown field %q", e.Field)
	case ExecInvalidDateRange:
		return "fexpr: IN range must have exactly two DateTime bounds"
	case ExecRegexCompileError:
		return fmt.Sprintf("fexpr: regex compilation failed: %s", e.Message)
	case ExecInvalidOperator:
		return fmt.Sprintf("fexpr: operator %s not valid between %s and %s", e.Op.Token(), e.LHS, e.RHS)
	default:
		return fmt.Sprintf("fexpr: execution error: %s", e.Message)
	}
}
