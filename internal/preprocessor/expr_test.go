package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func evalCond(t *testing.T, text string, tbl *Table) bool {
	t.Helper()
	toks := lexDirectiveBody(text, "t.cc")
	expr, err := parseIfExpression(toks)
	assert.NoError(t, err, "parsing %q", text)
	v, err := Evaluate(expr, tbl)
	assert.NoError(t, err, "evaluating %q", text)
	return v
}

func TestEvalConstantArithmetic(t *testing.T) {
	tbl := NewTable()
	testCases := []struct {
		expr     string
		expected bool
	}{
		{"1", true},
		{"0", false},
		{"1 + 1 == 2", true},
		{"2 * 3 > 5", true},
		{"(1 + 2) * 3 == 9", true},
		{"10 % 3 == 1", true},
		{"1 << 4 == 16", true},
		{"!0", true},
		{"!1", false},
		{"1 && 0", false},
		{"1 || 0", true},
		{"1 ? 2 : 3", true}, // non-zero result of the ternary
		{"0 ? 1 : 0", false},
		{"~0 == -1", true},
	}
	for _, tc := range testCases {
		t.Run(tc.expr, func(t *testing.T) {
			assert.Equal(t, tc.expected, evalCond(t, tc.expr, tbl))
		})
	}
}

func TestEvalDefined(t *testing.T) {
	tbl := NewTable()
	tbl.Define(&Macro{Name: "FOO"})
	assert.True(t, evalCond(t, "defined(FOO)", tbl))
	assert.True(t, evalCond(t, "defined FOO", tbl))
	assert.False(t, evalCond(t, "defined(BAR)", tbl))
	assert.True(t, evalCond(t, "!defined(BAR)", tbl))
}

func TestEvalUndefinedIdentifierIsZero(t *testing.T) {
	tbl := NewTable()
	assert.False(t, evalCond(t, "UNDEFINED_MACRO", tbl))
	assert.True(t, evalCond(t, "UNDEFINED_MACRO == 0", tbl))
}

func TestEvalShortCircuitAnd(t *testing.T) {
	tbl := NewTable()
	// Division by zero on the right must never execute because the left
	// operand is false.
	assert.False(t, evalCond(t, "0 && (1 / 0)", tbl))
}

func TestParseIfExpressionRejectsTrailingTokens(t *testing.T) {
	toks := lexDirectiveBody("1 1", "t.cc")
	_, err := parseIfExpression(toks)
	assert.Error(t, err)
}

func TestParseIntLiteralBases(t *testing.T) {
	testCases := map[string]int64{
		"0xFF": 255, "0b101": 5, "010": 8, "42": 42, "1'000": 1000, "10UL": 10,
	}
	for text, want := range testCases {
		got, err := parseIntLiteral(text)
		assert.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}
}
