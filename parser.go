package fexpr

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Parse parses text into an Expression, or returns a *ParseError describing
// where and why parsing failed.
func Parse(text string) (Expression, error) {
	prog, err := fexprParser.ParseString("", text)
	if err != nil {
		return Expression{}, convertParseError(err)
	}
	return convertExpression(prog.Expr)
}

func convertParseError(err error) error {
	if perr, ok := err.(participle.Error); ok {
		return &ParseError{Message: perr.Message(), Position: perr.Position().Offset}
	}
	return &ParseError{Message: err.Error(), Position: 0}
}

func posErr(pos lexer.Position, format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Position: pos.Offset}
}

func convertExpression(p *pExpression) (Expression, error) {
	switch {
	case p.Not != nil:
		child, err := convertExpression(p.Not.Expr)
		if err != nil {
			return Expression{}, err
		}
		return WrapExpression(NewNot(child)), nil
	case p.And != nil:
		return convertAndGroup(p.And)
	case p.Or != nil:
		return convertOrGroup(p.Or)
	case p.Cmp != nil:
		return convertComparison(p.Cmp)
	default:
		return Expression{}, &ParseError{Message: "empty expression"}
	}
}

func convertAndGroup(g *pAndGroup) (Expression, error) {
	tail := make([]*pExpression, len(g.Rest))
	for i, t := range g.Rest {
		tail[i] = t.Expr
	}
	children, err := convertChildren(g.First, g.Second, tail)
	if err != nil {
		return Expression{}, err
	}
	return WrapExpression(NewAnd(children...)), nil
}

func convertOrGroup(g *pOrGroup) (Expression, error) {
	tail := make([]*pExpression, len(g.Rest))
	for i, t := range g.Rest {
		tail[i] = t.Expr
	}
	children, err := convertChildren(g.First, g.Second, tail)
	if err != nil {
		return Expression{}, err
	}
	return WrapExpression(NewOr(children...)), nil
}

func convertChildren(first, second *pExpression, rest []*pExpression) ([]Expression, error) {
	all := append([]*pExpression{first, second}, rest...)
	out := make([]Expression, 0, len(all))
	for _, p := range all {
		e, err := convertExpression(p)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func convertComparison(p *pComparison) (Expression, error) {
	lhs, err := convertLiteral(p.LHS)
	if err != nil {
		return Expression{}, err
	}
	rhs, err := convertLiteral(p.RHS)
	if err != nil {
		return Expression{}, err
	}
	op, err := convertOperator(p.Op)
	if err != nil {
		return Expression{}, err
	}
	return WrapExpression(NewOperationExpr(NewOperation(lhs, op, rhs))), nil
}

func convertOperator(token *string) (Operator, error) {
	if token == nil {
		return 0, &ParseError{Message: "missing operator"}
	}
	switch strings.ToUpper(*token) {
	case "==":
		return OpEq, nil
	case "!=":
		return OpNe, nil
	case ">":
		return OpGt, nil
	case ">=":
		return OpGte, nil
	case "<":
		return OpLt, nil
	case "<=":
		return OpLte, nil
	case "IN":
		return OpIn, nil
	default:
		return 0, &ParseError{Message: "unrecognized operator " + *token}
	}
}

func convertLiteral(p *pLiteral) (Literal, error) {
	switch {
	case p.Null != nil:
		return LiteralValue(Null), nil
	case p.True != nil:
		return LiteralValue(NewBoolean(true)), nil
	case p.False != nil:
		return LiteralValue(NewBoolean(false)), nil
	case p.String != nil:
		s, err := unescapeQuoted(*p.String)
		if err != nil {
			return Literal{}, posErr(p.Pos, "%s", err.Error())
		}
		return LiteralValue(NewString(s)), nil
	case p.Regex != nil:
		pattern := unescapeRegexToken(*p.Regex)
		return LiteralValue(NewRegex(pattern)), nil
	case p.Raw != nil:
		raw, err := parseRawToken(*p.Raw)
		if err != nil {
			return Literal{}, posErr(p.Pos, "%s", err.Error())
		}
		return LiteralValue(NewRaw(raw)), nil
	case p.DateTime != nil:
		t, err := parseDateTimeToken(*p.DateTime)
		if err != nil {
			return Literal{}, posErr(p.Pos, "%s", err.Error())
		}
		return LiteralValue(NewDateTime(t)), nil
	case p.Number != nil:
		n, err := strconv.ParseFloat(*p.Number, 64)
		if err != nil {
			return Literal{}, posErr(p.Pos, "invalid number %q", *p.Number)
		}
		return LiteralValue(NewNumber(n)), nil
	case p.List != nil:
		return convertList(p.List)
	case p.Field != nil:
		return LiteralField(*p.Field), nil
	default:
		return Literal{}, posErr(p.Pos, "empty literal")
	}
}

// listElemKind classifies which of the homogeneous element forms a
// pListElem matched, so convertList can reject a list that mixes kinds.
type listElemKind int

const (
	elemBoolean listElemKind = iota
	elemString
	elemRaw
	elemDateTime
	elemNumber
)

func convertList(p *pList) (Literal, error) {
	if len(p.Elems) == 0 {
		return Literal{}, posErr(p.Pos, "list literal must have at least one element")
	}

	var kind listElemKind
	var booleans []bool
	var strs []string
	var raws [][]byte
	var whens []time.Time
	var nums []float64

	for i, el := range p.Elems {
		k, err := classifyListElem(el)
		if err != nil {
			return Literal{}, err
		}
		if i == 0 {
			kind = k
		} else if k != kind {
			return Literal{}, posErr(el.Pos, "mismatched list element type")
		}

		switch kind {
		case elemBoolean:
			booleans = append(booleans, el.True != nil)
		case elemString:
			s, err := unescapeQuoted(*el.String)
			if err != nil {
				return Literal{}, posErr(el.Pos, "%s", err.Error())
			}
			strs = append(strs, s)
		case elemRaw:
			raw, err := parseRawToken(*el.Raw)
			if err != nil {
				return Literal{}, posErr(el.Pos, "%s", err.Error())
			}
			raws = append(raws, raw)
		case elemDateTime:
			t, err := parseDateTimeToken(*el.DateTime)
			if err != nil {
				return Literal{}, posErr(el.Pos, "%s", err.Error())
			}
			whens = append(whens, t)
		case elemNumber:
			n, err := strconv.ParseFloat(*el.Number, 64)
			if err != nil {
				return Literal{}, posErr(el.Pos, "invalid number %q", *el.Number)
			}
			nums = append(nums, n)
		}
	}

	switch kind {
	case elemBoolean:
		return LiteralValue(NewBooleanList(booleans)), nil
	case elemString:
		return LiteralValue(NewStringList(strs)), nil
	case elemRaw:
		return LiteralValue(NewRawList(raws)), nil
	case elemDateTime:
		return LiteralValue(NewDateTimeList(whens)), nil
	default:
		return LiteralValue(NewNumberList(nums)), nil
	}
}

func classifyListElem(el *pListElem) (listElemKind, error) {
	switch {
	case el.True != nil, el.False != nil:
		return elemBoolean, nil
	case el.String != nil:
		return elemString, nil
	case el.Raw != nil:
		return elemRaw, nil
	case el.DateTime != nil:
		return elemDateTime, nil
	case el.Number != nil:
		return elemNumber, nil
	default:
		return 0, posErr(el.Pos, "empty list element")
	}
}

func unescapeQuoted(tok string) (string, error) {
	inner := tok[1 : len(tok)-1]
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(inner) {
			return "", &ParseError{Message: "dangling escape at end of string"}
		}
		switch inner[i] {
		case '\\':
			b.WriteByte('\\')
		case '/':
			b.WriteByte('/')
		case '"':
			b.WriteByte('"')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			return "", &ParseError{Message: "invalid escape sequence \\" + string(inner[i])}
		}
	}
	return b.String(), nil
}

func unescapeRegexToken(tok string) string {
	inner := tok[1 : len(tok)-1]
	return strings.ReplaceAll(inner, `\/`, "/")
}

func parseRawToken(tok string) ([]byte, error) {
	inner := strings.TrimSpace(tok[1 : len(tok)-1])
	fields := strings.Fields(inner)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		b, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, &ParseError{Message: "invalid hex byte " + f}
		}
		out = append(out, byte(b))
	}
	return out, nil
}

func parseDateTimeToken(tok string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, tok)
	if err != nil {
		return time.Time{}, &ParseError{Message: "invalid RFC3339 datetime " + tok}
	}
	return t, nil
}
