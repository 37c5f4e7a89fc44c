package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KikuchiTomo/cclint/internal/token"
)

func TestTableDefineLookupUndef(t *testing.T) {
	tbl := NewTable()
	m := &Macro{Name: "FOO", Replacement: []token.Token{{Kind: token.IntegerLiteral, Text: "1"}}}
	tbl.Define(m)

	got, ok := tbl.Lookup("FOO")
	assert.True(t, ok)
	assert.Equal(t, m, got)
	assert.True(t, tbl.IsDefined("FOO"))

	tbl.Undef("FOO")
	assert.False(t, tbl.IsDefined("FOO"))
}

func TestSameDefinition(t *testing.T) {
	a := &Macro{Name: "X", Replacement: []token.Token{{Kind: token.IntegerLiteral, Text: "1"}}}
	b := &Macro{Name: "X", Replacement: []token.Token{{Kind: token.IntegerLiteral, Text: "1"}}}
	c := &Macro{Name: "X", Replacement: []token.Token{{Kind: token.IntegerLiteral, Text: "2"}}}
	assert.True(t, sameDefinition(a, b))
	assert.False(t, sameDefinition(a, c))
}

func TestParseDefineObjectLike(t *testing.T) {
	toks := lexDirectiveBody("MAX 100", "t.cc")
	m, err := parseDefine(toks, token.Position{})
	assert.NoError(t, err)
	assert.Equal(t, "MAX", m.Name)
	assert.False(t, m.IsFunctionLike)
	if assert.Len(t, m.Replacement, 1) {
		assert.Equal(t, "100", m.Replacement[0].Text)
	}
}

func TestParseDefineFunctionLike(t *testing.T) {
	toks := lexDirectiveBody("MAX(a, b) ((a) > (b) ? (a) : (b))", "t.cc")
	m, err := parseDefine(toks, token.Position{})
	assert.NoError(t, err)
	assert.True(t, m.IsFunctionLike)
	assert.Equal(t, []string{"a", "b"}, m.Parameters)
	assert.False(t, m.IsVariadic)
}

func TestParseDefineVariadic(t *testing.T) {
	toks := lexDirectiveBody(`LOG(fmt, ...) printf(fmt, __VA_ARGS__)`, "t.cc")
	m, err := parseDefine(toks, token.Position{})
	assert.NoError(t, err)
	assert.True(t, m.IsVariadic)
	assert.Equal(t, []string{"fmt", VariadicParameter}, m.Parameters)
}

func TestParseDefineStringifyAndConcatMarkers(t *testing.T) {
	toks := lexDirectiveBody(`CONCAT(a, b) a##b`, "t.cc")
	m, err := parseDefine(toks, token.Position{})
	assert.NoError(t, err)
	var sawConcat bool
	for _, tk := range m.Replacement {
		if tk.Kind == token.MacroConcat {
			sawConcat = true
		}
	}
	assert.True(t, sawConcat)
}
