package parser

import "github.com/KikuchiTomo/cclint/internal/token"

// cursor is a one-token-lookahead reader over a token slice, generalizing
// the tokenReader peek/next/mustConsume idiom (parser.go) from string
// tokens to token.Token, and adding mark/reset for the limited local
// backtracking the parser needs (lambda-in-expression-position,
// range-based for detection).
type cursor struct {
	toks []token.Token
	pos  int
}

func newCursor(toks []token.Token) *cursor {
	return &cursor{toks: toks}
}

// at returns the token at the current position without consuming it. Past
// the end of the slice it yields the trailing EOF token, so callers never
// read out of bounds.
func (c *cursor) at() token.Token {
	if c.pos < len(c.toks) {
		return c.toks[c.pos]
	}
	return token.EOFToken
}

// peekN returns the token n positions ahead of the current one (peekN(0) ==
// at()).
func (c *cursor) peekN(n int) token.Token {
	i := c.pos + n
	if i >= 0 && i < len(c.toks) {
		return c.toks[i]
	}
	return token.EOFToken
}

func (c *cursor) atEnd() bool { return c.at().Kind == token.EOF }

// advance consumes and returns the current token.
func (c *cursor) advance() token.Token {
	tok := c.at()
	if c.pos < len(c.toks) {
		c.pos++
	}
	return tok
}

func (c *cursor) check(kind token.Kind) bool { return c.at().Kind == kind }

// match consumes the current token and returns true if it has kind; leaves
// the cursor untouched and returns false otherwise.
func (c *cursor) match(kind token.Kind) bool {
	if c.check(kind) {
		c.advance()
		return true
	}
	return false
}

// checkText reports whether the current token's text equals s, regardless
// of kind; used for the "override"/"final"/"static_assert"-as-identifier
// contextual keywords the grammar treats as identifiers outside their
// special positions.
func (c *cursor) checkText(s string) bool { return c.at().Text == s }

func (c *cursor) matchText(s string) bool {
	if c.checkText(s) {
		c.advance()
		return true
	}
	return false
}

type mark int

func (c *cursor) mark() mark   { return mark(c.pos) }
func (c *cursor) reset(m mark) { c.pos = int(m) }
