package fexpr

import (
	"strconv"
	"strings"
	"time"
)

// serializeExpression renders e back to fexpr's canonical textual form,
// the round-trip dual of Parse. Dispatch mirrors a visitor over the
// closed ASTNode set.
func serializeExpression(e Expression) string {
	switch n := e.Node.(type) {
	case And:
		return serializeJunction(n.Children, "AND")
	case Or:
		return serializeJunction(n.Children, "OR")
	case Not:
		return "!(" + serializeExpression(n.Child) + ")"
	case OperationExpr:
		return serializeOperation(n.Operation)
	default:
		return ""
	}
}

func serializeJunction(children []Expression, keyword string) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = serializeExpression(c)
	}
	return "(" + strings.Join(parts, " "+keyword+" ") + ")"
}

func serializeOperation(op Operation) string {
	return serializeLiteral(op.LHS) + " " + op.Op.Token() + " " + serializeLiteral(op.RHS)
}

func serializeLiteral(l Literal) string {
	if l.IsField {
		return l.Field
	}
	return serializeValue(l.Value)
}

func serializeValue(v Value) string {
	switch v.Type() {
	case TypeNull:
		return "null"
	case TypeString:
		s, _ := v.StringValue()
		return formatString(s)
	case TypeRegex:
		s, _ := v.StringValue()
		return formatRegex(s)
	case TypeNumber:
		n, _ := v.NumberValue()
		return formatNumber(n)
	case TypeBoolean:
		b, _ := v.BooleanValue()
		return strconv.FormatBool(b)
	case TypeRaw:
		r, _ := v.RawValue()
		return formatRaw(r)
	case TypeDateTime:
		t, _ := v.DateTimeValue()
		return formatDateTime(t)
	case TypeStringList:
		ss, _ := v.StringListValue()
		parts := make([]string, len(ss))
		for i, s := range ss {
			parts[i] = formatString(s)
		}
		return formatList(parts)
	case TypeNumberList:
		ns, _ := v.NumberListValue()
		parts := make([]string, len(ns))
		for i, n := range ns {
			parts[i] = formatNumber(n)
		}
		return formatList(parts)
	case TypeBooleanList:
		bs, _ := v.BooleanListValue()
		parts := make([]string, len(bs))
		for i, b := range bs {
			parts[i] = strconv.FormatBool(b)
		}
		return formatList(parts)
	case TypeRawList:
		rs, _ := v.RawListValue()
		parts := make([]string, len(rs))
		for i, r := range rs {
			parts[i] = formatRaw(r)
		}
		return formatList(parts)
	case TypeDateTimeList:
		ts, _ := v.DateTimeListValue()
		parts := make([]string, len(ts))
		for i, t := range ts {
			parts[i] = formatDateTime(t)
		}
		return formatList(parts)
	default:
		return ""
	}
}

func formatList(parts []string) string {
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func formatRegex(pattern string) string {
	return "/" + strings.ReplaceAll(pattern, "/", `\/`) + "/"
}

func formatRaw(b []byte) string {
	parts := make([]string, len(b))
	for i, by := range b {
		parts[i] = strconv.FormatUint(uint64(by), 16)
		if len(parts[i]) == 1 {
			parts[i] = "0" + parts[i]
		}
	}
	return "|" + strings.Join(parts, " ") + "|"
}

// formatDateTime relies on RFC3339Nano eliding trailing zero fractional
// digits entirely when the instant has none, satisfying "sub-second
// precision elided if zero" directly.
func formatDateTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}
