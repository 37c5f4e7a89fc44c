package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordFromString(t *testing.T) {
	k, ok := KeywordFromString("class")
	assert.True(t, ok)
	assert.Equal(t, Class, k)

	_, ok = KeywordFromString("not_a_keyword")
	assert.False(t, ok)
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, Class.IsKeyword())
	assert.False(t, Identifier.IsKeyword())

	assert.True(t, Plus.IsOperator())
	assert.True(t, AttributeEnd.IsOperator())
	assert.False(t, Identifier.IsOperator())

	assert.True(t, IntegerLiteral.IsLiteral())
	assert.True(t, RawStringLiteral.IsLiteral())
	assert.False(t, Identifier.IsLiteral())

	assert.True(t, PPInclude.IsPreprocessorDirective())
	assert.False(t, Hash.IsPreprocessorDirective())

	assert.True(t, Whitespace.IsTrivia())
	assert.True(t, Newline.IsTrivia())
	assert.False(t, Identifier.IsTrivia())
}
