package fexpr_test

import (
	"testing"

	"github.com/mr-karan/fexpr"
)

func TestParseLiteralPrecedence(t *testing.T) {
	t.Run("null and booleans are reserved, not fields", func(t *testing.T) {
		expr, err := fexpr.Parse(`null == null`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if expr.Serialize() != "null == null" {
			t.Errorf("got %q", expr.Serialize())
		}

		expr, err = fexpr.Parse(`true == false`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if expr.Serialize() != "true == false" {
			t.Errorf("got %q", expr.Serialize())
		}
	})

	t.Run("bare identifier falls through to field", func(t *testing.T) {
		expr, err := fexpr.Parse(`nullable == "x"`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if expr.Serialize() != `nullable == "x"` {
			t.Errorf("got %q, want field reference preserved", expr.Serialize())
		}
	})

	t.Run("each typed literal form parses", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
		}{
			{"string", `name == "abc"`},
			{"regex", `name IN /ab+c/`},
			{"raw", `name == |de ad be ef|`},
			{"datetime", `ts == 2020-01-01T00:00:00Z`},
			{"negative number", `age == -3.5`},
			{"number list", `nums == [1, 2, 3]`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := fexpr.Parse(tt.input); err != nil {
					t.Errorf("%s: unexpected error: %v", tt.input, err)
				}
			})
		}
	})
}

func TestParseOperators(t *testing.T) {
	ops := []string{"==", "!=", ">=", "<=", ">", "<", "IN", "in", "In"}
	for _, op := range ops {
		op := op
		t.Run(op, func(t *testing.T) {
			_, err := fexpr.Parse(`age ` + op + ` 1`)
			if err != nil {
				t.Errorf("operator %q: unexpected error: %v", op, err)
			}
		})
	}
}

func TestParseGrouping(t *testing.T) {
	t.Run("and with two children", func(t *testing.T) {
		expr, err := fexpr.Parse(`(a == "1" AND b == "2")`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if expr.Serialize() != `(a == "1" AND b == "2")` {
			t.Errorf("got %q", expr.Serialize())
		}
	})

	t.Run("and tolerates an optional separator between later children", func(t *testing.T) {
		expr, err := fexpr.Parse(`(a == "1" AND b == "2" c == "3")`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if expr.Serialize() != `(a == "1" AND b == "2" AND c == "3")` {
			t.Errorf("got %q", expr.Serialize())
		}
	})

	t.Run("or", func(t *testing.T) {
		expr, err := fexpr.Parse(`(a == "1" OR b == "2")`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if expr.Serialize() != `(a == "1" OR b == "2")` {
			t.Errorf("got %q", expr.Serialize())
		}
	})

	t.Run("not", func(t *testing.T) {
		expr, err := fexpr.Parse(`!(a == "1")`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if expr.Serialize() != `!(a == "1")` {
			t.Errorf("got %q", expr.Serialize())
		}
	})

	t.Run("nested groups", func(t *testing.T) {
		expr, err := fexpr.Parse(`((a == "1" AND b == "2") OR c == "3")`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if expr.Serialize() != `((a == "1" AND b == "2") OR c == "3")` {
			t.Errorf("got %q", expr.Serialize())
		}
	})
}

// TestParseErrorReportsPosition exercises S6: malformed input must fail
// with a byte position in range, per the parser-totality invariant.
func TestParseErrorReportsPosition(t *testing.T) {
	_, err := fexpr.Parse(`(a == "1" AND)`)
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	perr, ok := err.(*fexpr.ParseError)
	if !ok {
		t.Fatalf("error type = %T, want *fexpr.ParseError", err)
	}
	if perr.Position < 0 || perr.Position > len(`(a == "1" AND)`) {
		t.Errorf("position %d out of range", perr.Position)
	}
}

func TestParseRejectsTrailingContent(t *testing.T) {
	_, err := fexpr.Parse(`a == "1" garbage`)
	if err == nil {
		t.Fatalf("expected trailing content to be a parse error")
	}
}

func TestParseEscapesAndRawAndRegex(t *testing.T) {
	t.Run("string escapes", func(t *testing.T) {
		expr, err := fexpr.Parse(`name == "line\nbreak"`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		op := expr.Node.(fexpr.OperationExpr).Operation
		s, ok := op.RHS.Value.StringValue()
		if !ok || s != "line\nbreak" {
			t.Errorf("got %q, %v", s, ok)
		}
	})

	t.Run("regex escapes embedded slash", func(t *testing.T) {
		expr, err := fexpr.Parse(`name IN /a\/b/`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		op := expr.Node.(fexpr.OperationExpr).Operation
		s, ok := op.LHS.Value.StringValue()
		if !ok || s != "a/b" {
			t.Errorf("got %q, %v", s, ok)
		}
	})

	t.Run("raw hex bytes", func(t *testing.T) {
		expr, err := fexpr.Parse(`name == |de ad be ef|`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		op := expr.Node.(fexpr.OperationExpr).Operation
		b, ok := op.RHS.Value.RawValue()
		if !ok {
			t.Fatalf("expected Raw value")
		}
		want := []byte{0xde, 0xad, 0xbe, 0xef}
		if len(b) != len(want) {
			t.Fatalf("got %x, want %x", b, want)
		}
		for i := range want {
			if b[i] != want[i] {
				t.Fatalf("got %x, want %x", b, want)
			}
		}
	})
}
