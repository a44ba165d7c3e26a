package fexpr

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var fexprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Regex", Pattern: `/(?:\\.|[^/\\])*/`},
	{Name: "Raw", Pattern: `\|[ \t]*(?:[0-9A-Fa-f]{2}[ \t]*)+\|`},
	{Name: "DateTime", Pattern: `[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}(?:\.[0-9]+)?(?:Z|[+-][0-9]{2}:[0-9]{2})`},
	{Name: "Number", Pattern: `-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`},

	{Name: "Operator", Pattern: `==|!=|>=|<=|>|<`},

	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "Comma", Pattern: `,`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Bang", Pattern: `!`},

	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_:]*`},
})

// pProgram is the top-level parse target: a single expression consuming
// the whole input.
type pProgram struct {
	Expr *pExpression `parser:"@@"`
}

// pExpression is tried in this order: Not, AndGroup, OrGroup, Comparison.
// And/Or both start with '(' so participle backtracks into whichever one
// actually matches its keyword after the first child — ordinary PEG-style
// ordered choice.
type pExpression struct {
	Not *pNot        `parser:"  @@"`
	And *pAndGroup   `parser:"| @@"`
	Or  *pOrGroup    `parser:"| @@"`
	Cmp *pComparison `parser:"| @@"`
}

type pNot struct {
	Expr *pExpression `parser:"Bang LParen @@ RParen"`
}

type pAndGroup struct {
	First  *pExpression `parser:"LParen @@"`
	Second *pExpression `parser:"'AND':Ident @@"`
	Rest   []*pAndTail  `parser:"@@* RParen"`
}

type pAndTail struct {
	Expr *pExpression `parser:"( 'AND':Ident )? @@"`
}

type pOrGroup struct {
	First  *pExpression `parser:"LParen @@"`
	Second *pExpression `parser:"'OR':Ident @@"`
	Rest   []*pOrTail   `parser:"@@* RParen"`
}

type pOrTail struct {
	Expr *pExpression `parser:"( 'OR':Ident )? @@"`
}

type pComparison struct {
	LHS *pLiteral `parser:"@@"`
	Op  *string   `parser:"( @Operator | @'IN':Ident )"`
	RHS *pLiteral `parser:"@@"`
}

// pLiteral mirrors the literal precedence order from the grammar: null,
// bool, string, regex, raw, datetime, number, list, field. A bare
// identifier only falls through to Field once every other form fails.
type pLiteral struct {
	Pos      lexer.Position
	Null     *string `parser:"  @'null':Ident"`
	True     *string `parser:"| @'true':Ident"`
	False    *string `parser:"| @'false':Ident"`
	String   *string `parser:"| @String"`
	Regex    *string `parser:"| @Regex"`
	Raw      *string `parser:"| @Raw"`
	DateTime *string `parser:"| @DateTime"`
	Number   *string `parser:"| @Number"`
	List     *pList  `parser:"| @@"`
	Field    *string `parser:"| @Ident"`
}

type pList struct {
	Pos   lexer.Position
	Elems []*pListElem `parser:"LBracket ( @@ ( Comma @@ )* )? RBracket"`
}

// pListElem excludes Regex and nested List/Field forms: spec §3's Type tag
// enumeration has no RegexList or list-of-lists, and list elements are
// always literal values.
type pListElem struct {
	Pos      lexer.Position
	True     *string `parser:"  @'true':Ident"`
	False    *string `parser:"| @'false':Ident"`
	String   *string `parser:"| @String"`
	Raw      *string `parser:"| @Raw"`
	DateTime *string `parser:"| @DateTime"`
	Number   *string `parser:"| @Number"`
}

var fexprParser = participle.MustBuild[pProgram](
	participle.Lexer(fexprLexer),
	participle.CaseInsensitive("Ident"),
	participle.Elide("Whitespace"),
	participle.UseLookahead(64),
)
