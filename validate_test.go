package fexpr_test

import (
	"testing"
	"time"

	"github.com/mr-karan/fexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name     string
	Age      float64
	Active   bool
	Payload  []byte
	Seen     time.Time
	Tags     []string
	Scores   []float64
	Flags    []bool
	Chunks   [][]byte
	Visits   []time.Time
}

func buildRecordSchema() *fexpr.Schema[record] {
	return fexpr.NewSchemaBuilder[record]().
		WithStringField("name", func(r record) (string, bool) { return r.Name, true }).
		WithNumberField("age", func(r record) (float64, bool) { return r.Age, true }).
		WithBooleanField("active", func(r record) (bool, bool) { return r.Active, true }).
		WithRawField("payload", func(r record) ([]byte, bool) { return r.Payload, true }).
		WithDateTimeField("seen", func(r record) (time.Time, bool) { return r.Seen, true }).
		WithStringListField("tags", func(r record) ([]string, bool) { return r.Tags, true }).
		WithNumberListField("scores", func(r record) ([]float64, bool) { return r.Scores, true }).
		WithBooleanListField("flags", func(r record) ([]bool, bool) { return r.Flags, true }).
		WithRawListField("chunks", func(r record) ([][]byte, bool) { return r.Chunks, true }).
		WithDateTimeListField("visits", func(r record) ([]time.Time, bool) { return r.Visits, true }).
		Build()
}

func mustParse(t *testing.T, text string) fexpr.Expression {
	t.Helper()
	expr, err := fexpr.Parse(text)
	require.NoError(t, err, "parsing %q", text)
	return expr
}

func TestValidateOperatorCompatibility(t *testing.T) {
	schema := buildRecordSchema()
	engine, err := fexpr.NewEngine(schema)
	require.NoError(t, err)

	valid := []string{
		`name == "a"`,
		`name != "a"`,
		`"a" IN tags`,
		`age == 1`,
		`age > 1`,
		`age >= 1`,
		`age < 1`,
		`age <= 1`,
		`age != 1`,
		`age IN scores`,
		`active == true`,
		`active != false`,
		`active IN flags`,
		`payload == |de ad|`,
		`payload IN chunks`,
		`seen == 2020-01-01T00:00:00Z`,
		`seen > 2020-01-01T00:00:00Z`,
		`seen IN visits`,
		`name == null`,
		`null != age`,
		`tags == tags`,
		`tags != tags`,
	}
	for _, text := range valid {
		t.Run(text, func(t *testing.T) {
			expr := mustParse(t, text)
			assert.NoError(t, engine.Validate(expr))
		})
	}
}

// TestValidateRejectsIncompatibleOperator exercises S7: a Number field
// compared against a String literal with > must be rejected with
// InvalidOperator naming both sides' types.
func TestValidateRejectsIncompatibleOperator(t *testing.T) {
	schema := buildRecordSchema()
	engine, err := fexpr.NewEngine(schema)
	require.NoError(t, err)

	expr := mustParse(t, `age > "x"`)
	err = engine.Validate(expr)
	require.Error(t, err)

	verr, ok := err.(*fexpr.ValidationError)
	require.True(t, ok, "error type = %T, want *fexpr.ValidationError", err)
	assert.Equal(t, fexpr.InvalidOperator, verr.Kind)
	assert.Equal(t, fexpr.TypeNumber, verr.LHS)
	assert.Equal(t, fexpr.TypeString, verr.RHS)
	assert.Equal(t, fexpr.OpGt, verr.Op)
}

func TestValidateRejectsOtherIncompatiblePairings(t *testing.T) {
	schema := buildRecordSchema()
	engine, err := fexpr.NewEngine(schema)
	require.NoError(t, err)

	cases := []string{
		`active > true`,
		`name > "a"`,
		`payload > |de ad|`,
		`tags > tags`,
		`name == age`,
		`age == tags`,
	}
	for _, text := range cases {
		t.Run(text, func(t *testing.T) {
			expr := mustParse(t, text)
			err := engine.Validate(expr)
			require.Error(t, err)
			_, ok := err.(*fexpr.ValidationError)
			assert.True(t, ok, "error type = %T, want *fexpr.ValidationError", err)
		})
	}
}

func TestValidateUnknownField(t *testing.T) {
	schema := buildRecordSchema()
	engine, err := fexpr.NewEngine(schema)
	require.NoError(t, err)

	expr := mustParse(t, `ghost == "a"`)
	err = engine.Validate(expr)
	require.Error(t, err)

	verr, ok := err.(*fexpr.ValidationError)
	require.True(t, ok)
	assert.Equal(t, fexpr.UnknownField, verr.Kind)
	assert.Equal(t, "ghost", verr.Field)
}

func TestValidateStopsAtFirstViolationDepthFirstLeftToRight(t *testing.T) {
	schema := buildRecordSchema()
	engine, err := fexpr.NewEngine(schema)
	require.NoError(t, err)

	// The left child is invalid (unknown field); the right child would also
	// fail (InvalidOperator) if reached. Only the left violation should
	// surface.
	expr := mustParse(t, `(ghost == "a" AND age > "x")`)
	err = engine.Validate(expr)
	require.Error(t, err)

	verr, ok := err.(*fexpr.ValidationError)
	require.True(t, ok)
	assert.Equal(t, fexpr.UnknownField, verr.Kind)
}

func TestValidateRegexAgainstStringAndStringList(t *testing.T) {
	schema := buildRecordSchema()
	engine, err := fexpr.NewEngine(schema)
	require.NoError(t, err)

	assert.NoError(t, engine.Validate(mustParse(t, `/ab+c/ IN name`)))
	assert.NoError(t, engine.Validate(mustParse(t, `/ab+c/ IN tags`)))

	err = engine.Validate(mustParse(t, `/ab+c/ == name`))
	require.Error(t, err)
}
