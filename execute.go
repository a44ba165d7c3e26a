package fexpr

import (
	"strings"

	"github.com/samber/lo"
)

// executeExpression walks expr bottom-up against target, per §4.5.
func executeExpression[T any](expr Expression, schema *Schema[T], target T, cache *regexCache) (bool, error) {
	switch n := expr.Node.(type) {
	case And:
		for _, c := range n.Children {
			ok, err := executeExpression(c, schema, target, cache)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case Or:
		for _, c := range n.Children {
			ok, err := executeExpression(c, schema, target, cache)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case Not:
		ok, err := executeExpression(n.Child, schema, target, cache)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case OperationExpr:
		return executeOperation(n.Operation, schema, target, cache)
	default:
		return false, nil
	}
}

func executeOperation[T any](op Operation, schema *Schema[T], target T, cache *regexCache) (bool, error) {
	lhs, err := resolveLiteralValue(op.LHS, schema, target)
	if err != nil {
		return false, err
	}
	rhs, err := resolveLiteralValue(op.RHS, schema, target)
	if err != nil {
		return false, err
	}
	return evaluateOperation(lhs, op.Op, rhs, cache)
}

func resolveLiteralValue[T any](lit Literal, schema *Schema[T], target T) (Value, error) {
	if !lit.IsField {
		return lit.Value, nil
	}
	field, ok := schema.Get(lit.Field)
	if !ok {
		return Value{}, &ExecutionError{Kind: ExecInvalidField, Field: lit.Field}
	}
	return field.extract(target), nil
}

// evaluateOperation implements the Null-propagation rule first, then
// dispatches on the non-null (lhs, op, rhs) type pair.
func evaluateOperation(lhs Value, op Operator, rhs Value, cache *regexCache) (bool, error) {
	if lhs.IsNull() || rhs.IsNull() {
		return evaluateNullOperation(lhs, op, rhs), nil
	}

	switch {
	case lhs.Type() == TypeString && rhs.Type() == TypeString:
		return evalStringString(lhs, op, rhs)
	case lhs.Type() == TypeString && rhs.Type() == TypeStringList:
		return evalStringStringList(lhs, op, rhs)
	case lhs.Type() == TypeRegex && rhs.Type() == TypeString:
		return evalRegexString(lhs, op, rhs, cache)
	case lhs.Type() == TypeRegex && rhs.Type() == TypeStringList:
		return evalRegexStringList(lhs, op, rhs, cache)
	case lhs.Type() == TypeNumber && rhs.Type() == TypeNumber:
		return evalNumberNumber(lhs, op, rhs)
	case lhs.Type() == TypeNumber && rhs.Type() == TypeNumberList:
		return evalNumberNumberList(lhs, op, rhs)
	case lhs.Type() == TypeBoolean && rhs.Type() == TypeBoolean:
		return evalBooleanBoolean(lhs, op, rhs)
	case lhs.Type() == TypeBoolean && rhs.Type() == TypeBooleanList:
		return evalBooleanBooleanList(lhs, op, rhs)
	case lhs.Type() == TypeRaw && rhs.Type() == TypeRaw:
		return evalRawRaw(lhs, op, rhs)
	case lhs.Type() == TypeRaw && rhs.Type() == TypeRawList:
		return evalRawRawList(lhs, op, rhs)
	case lhs.Type() == TypeDateTime && rhs.Type() == TypeDateTime:
		return evalDateTimeDateTime(lhs, op, rhs)
	case lhs.Type() == TypeDateTime && rhs.Type() == TypeDateTimeList:
		return evalDateTimeDateTimeList(lhs, op, rhs)
	case lhs.Type() == rhs.Type() && isListType(lhs.Type()):
		return evalListList(lhs, op, rhs)
	default:
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
}

// evaluateNullOperation is the deliberate asymmetry: both-null Eq is true,
// both-null Ne is false, and exactly-one-null flips that — true only for
// Ne. Every other operator is false regardless of which side is null.
func evaluateNullOperation(lhs Value, op Operator, rhs Value) bool {
	bothNull := lhs.IsNull() && rhs.IsNull()
	if bothNull {
		return op == OpEq
	}
	return op == OpNe
}

func evalStringString(lhs Value, op Operator, rhs Value) (bool, error) {
	l, _ := lhs.StringValue()
	r, _ := rhs.StringValue()
	switch op {
	case OpEq:
		return l == r, nil
	case OpNe:
		return l != r, nil
	case OpIn:
		return stringsContains(r, l), nil
	default:
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
}

func evalStringStringList(lhs Value, op Operator, rhs Value) (bool, error) {
	l, _ := lhs.StringValue()
	r, _ := rhs.StringListValue()
	if op != OpIn {
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
	return lo.Contains(r, l), nil
}

func evalRegexString(lhs Value, op Operator, rhs Value, cache *regexCache) (bool, error) {
	if op != OpIn {
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
	pattern, _ := lhs.StringValue()
	subject, _ := rhs.StringValue()
	return regexMatches(cache, pattern, subject)
}

func evalRegexStringList(lhs Value, op Operator, rhs Value, cache *regexCache) (bool, error) {
	if op != OpIn {
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
	pattern, _ := lhs.StringValue()
	subjects, _ := rhs.StringListValue()
	for _, s := range subjects {
		ok, err := regexMatches(cache, pattern, s)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func regexMatches(cache *regexCache, pattern, subject string) (bool, error) {
	re, err := cache.compile(pattern)
	if err != nil {
		return false, &ExecutionError{Kind: ExecRegexCompileError, Message: err.Error()}
	}
	ok, err := re.MatchString(subject)
	if err != nil {
		return false, &ExecutionError{Kind: ExecRegexCompileError, Message: err.Error()}
	}
	return ok, nil
}

func evalNumberNumber(lhs Value, op Operator, rhs Value) (bool, error) {
	l, _ := lhs.NumberValue()
	r, _ := rhs.NumberValue()
	switch op {
	case OpEq:
		return l == r, nil
	case OpNe:
		return l != r, nil
	case OpGt:
		return l > r, nil
	case OpGte:
		return l >= r, nil
	case OpLt:
		return l < r, nil
	case OpLte:
		return l <= r, nil
	default:
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
}

func evalNumberNumberList(lhs Value, op Operator, rhs Value) (bool, error) {
	if op != OpIn {
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
	l, _ := lhs.NumberValue()
	r, _ := rhs.NumberListValue()
	return lo.Contains(r, l), nil
}

func evalBooleanBoolean(lhs Value, op Operator, rhs Value) (bool, error) {
	l, _ := lhs.BooleanValue()
	r, _ := rhs.BooleanValue()
	switch op {
	case OpEq:
		return l == r, nil
	case OpNe:
		return l != r, nil
	default:
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
}

func evalBooleanBooleanList(lhs Value, op Operator, rhs Value) (bool, error) {
	if op != OpIn {
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
	l, _ := lhs.BooleanValue()
	r, _ := rhs.BooleanListValue()
	return lo.Contains(r, l), nil
}

func evalRawRaw(lhs Value, op Operator, rhs Value) (bool, error) {
	l, _ := lhs.RawValue()
	r, _ := rhs.RawValue()
	switch op {
	case OpEq:
		return bytesEqual(l, r), nil
	case OpNe:
		return !bytesEqual(l, r), nil
	case OpIn:
		return isSublist(l, r), nil
	default:
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
}

func evalRawRawList(lhs Value, op Operator, rhs Value) (bool, error) {
	if op != OpIn {
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
	l, _ := lhs.RawValue()
	r, _ := rhs.RawListValue()
	for _, elem := range r {
		if bytesEqual(l, elem) {
			return true, nil
		}
	}
	return false, nil
}

func evalDateTimeDateTime(lhs Value, op Operator, rhs Value) (bool, error) {
	l, _ := lhs.DateTimeValue()
	r, _ := rhs.DateTimeValue()
	switch op {
	case OpEq:
		return l.Equal(r), nil
	case OpNe:
		return !l.Equal(r), nil
	case OpGt:
		return l.After(r), nil
	case OpGte:
		return l.After(r) || l.Equal(r), nil
	case OpLt:
		return l.Before(r), nil
	case OpLte:
		return l.Before(r) || l.Equal(r), nil
	default:
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
}

// evalDateTimeDateTimeList implements the half-open [from, until) range
// convention: the RHS DateTimeList must have exactly two bounds.
func evalDateTimeDateTimeList(lhs Value, op Operator, rhs Value) (bool, error) {
	if op != OpIn {
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
	l, _ := lhs.DateTimeValue()
	bounds, _ := rhs.DateTimeListValue()
	if len(bounds) != 2 {
		return false, &ExecutionError{Kind: ExecInvalidDateRange}
	}
	from, until := bounds[0], bounds[1]
	return !l.Before(from) && l.Before(until), nil
}

func evalListList(lhs Value, op Operator, rhs Value) (bool, error) {
	if op != OpEq && op != OpNe {
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), Op: op, RHS: rhs.Type()}
	}
	equal, err := listsEqual(lhs, rhs)
	if err != nil {
		return false, err
	}
	if op == OpEq {
		return equal, nil
	}
	return !equal, nil
}

func listsEqual(lhs, rhs Value) (bool, error) {
	switch lhs.Type() {
	case TypeStringList:
		l, _ := lhs.StringListValue()
		r, _ := rhs.StringListValue()
		return elementsEqual(l, r, func(a, b string) bool { return a == b }), nil
	case TypeNumberList:
		l, _ := lhs.NumberListValue()
		r, _ := rhs.NumberListValue()
		return elementsEqual(l, r, func(a, b float64) bool { return a == b }), nil
	case TypeBooleanList:
		l, _ := lhs.BooleanListValue()
		r, _ := rhs.BooleanListValue()
		return elementsEqual(l, r, func(a, b bool) bool { return a == b }), nil
	case TypeRawList:
		l, _ := lhs.RawListValue()
		r, _ := rhs.RawListValue()
		if len(l) != len(r) {
			return false, nil
		}
		for i := range l {
			if !bytesEqual(l[i], r[i]) {
				return false, nil
			}
		}
		return true, nil
	case TypeDateTimeList:
		l, _ := lhs.DateTimeListValue()
		r, _ := rhs.DateTimeListValue()
		if len(l) != len(r) {
			return false, nil
		}
		for i := range l {
			if !l[i].Equal(r[i]) {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, &ExecutionError{Kind: ExecInvalidOperator, LHS: lhs.Type(), RHS: rhs.Type()}
	}
}

// elementsEqual is the shared order-sensitive comparison behind `List vs
// same-typed List` Eq/Ne, per §4.5.
func elementsEqual[E any](a, b []E, eq func(E, E) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

func stringsContains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

// isSublist reports whether small appears as a contiguous run inside big —
// the Raw vs Raw `In` semantics (rhs contains lhs as a contiguous
// subsequence).
func isSublist(small, big []byte) bool {
	if len(small) == 0 {
		return true
	}
	if len(small) > len(big) {
		return false
	}
	for i := 0; i+len(small) <= len(big); i++ {
		if bytesEqual(big[i:i+len(small)], small) {
			return true
		}
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
