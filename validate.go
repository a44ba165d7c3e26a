package fexpr

import "github.com/samber/lo"

// validateExpression walks expr depth-first, left-to-right, returning the
// first incompatibility found — matching §7's "a single mistyped operation
// aborts that validation with the first violation found" rule.
func validateExpression[T any](expr Expression, schema *Schema[T]) error {
	switch n := expr.Node.(type) {
	case And:
		return validateChildren(n.Children, schema)
	case Or:
		return validateChildren(n.Children, schema)
	case Not:
		return validateExpression(n.Child, schema)
	case OperationExpr:
		return validateOperation(n.Operation, schema)
	default:
		return nil
	}
}

func validateChildren[T any](children []Expression, schema *Schema[T]) error {
	for _, c := range children {
		if err := validateExpression(c, schema); err != nil {
			return err
		}
	}
	return nil
}

func validateOperation[T any](op Operation, schema *Schema[T]) error {
	lhsType, err := resolveLiteralType(op.LHS, schema)
	if err != nil {
		return err
	}
	rhsType, err := resolveLiteralType(op.RHS, schema)
	if err != nil {
		return err
	}
	return checkOperatorCompatibility(lhsType, op.Op, rhsType)
}

func resolveLiteralType[T any](lit Literal, schema *Schema[T]) (Type, error) {
	if !lit.IsField {
		return lit.Value.Type(), nil
	}
	field, ok := schema.Get(lit.Field)
	if !ok {
		return 0, &ValidationError{Kind: UnknownField, Field: lit.Field}
	}
	return field.Kind, nil
}

// checkOperatorCompatibility implements the operator-compatibility table
// from the validator design: each (lhs type, rhs type) pairing permits a
// specific operator subset; everything else is InvalidOperator.
func checkOperatorCompatibility(lhs Type, op Operator, rhs Type) error {
	if lhs == TypeNull || rhs == TypeNull {
		return requireOneOf(lhs, op, rhs, OpEq, OpNe, OpIn)
	}

	switch {
	case lhs == TypeString && rhs == TypeString:
		return requireOneOf(lhs, op, rhs, OpEq, OpNe, OpIn)
	case lhs == TypeString && rhs == TypeStringList:
		return requireOneOf(lhs, op, rhs, OpIn)
	case lhs == TypeRegex && rhs == TypeString:
		return requireOneOf(lhs, op, rhs, OpIn)
	case lhs == TypeRegex && rhs == TypeStringList:
		return requireOneOf(lhs, op, rhs, OpIn)
	case lhs == TypeNumber && rhs == TypeNumber:
		return requireOneOf(lhs, op, rhs, OpEq, OpNe, OpGt, OpGte, OpLt, OpLte)
	case lhs == TypeNumber && rhs == TypeNumberList:
		return requireOneOf(lhs, op, rhs, OpIn)
	case lhs == TypeBoolean && rhs == TypeBoolean:
		return requireOneOf(lhs, op, rhs, OpEq, OpNe)
	case lhs == TypeBoolean && rhs == TypeBooleanList:
		return requireOneOf(lhs, op, rhs, OpIn)
	case lhs == TypeRaw && rhs == TypeRaw:
		return requireOneOf(lhs, op, rhs, OpEq, OpNe, OpIn)
	case lhs == TypeRaw && rhs == TypeRawList:
		return requireOneOf(lhs, op, rhs, OpIn)
	case lhs == TypeDateTime && rhs == TypeDateTime:
		return requireOneOf(lhs, op, rhs, OpEq, OpNe, OpGt, OpGte, OpLt, OpLte)
	case lhs == TypeDateTime && rhs == TypeDateTimeList:
		return requireOneOf(lhs, op, rhs, OpIn)
	case lhs == rhs && isListType(lhs):
		return requireOneOf(lhs, op, rhs, OpEq, OpNe)
	default:
		return &ValidationError{Kind: InvalidOperator, LHS: lhs, Op: op, RHS: rhs}
	}
}

func requireOneOf(lhs Type, op Operator, rhs Type, allowed ...Operator) error {
	if lo.Contains(allowed, op) {
		return nil
	}
	return &ValidationError{Kind: InvalidOperator, LHS: lhs, Op: op, RHS: rhs}
}

func isListType(t Type) bool {
	switch t {
	case TypeStringList, TypeNumberList, TypeBooleanList, TypeRawList, TypeDateTimeList:
		return true
	default:
		return false
	}
}
