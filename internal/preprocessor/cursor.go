package preprocessor

import "github.com/KikuchiTomo/cclint/internal/token"

// cursor is a one-token-lookahead reader over a fixed token slice, the same
// peek/next/consume shape a bufio.Scanner-based reader builds around,
// generalized here to operate directly on already-lexed token.Token
// values instead of re-splitting raw text.
type cursor struct {
	toks []token.Token
	pos  int
}

func newCursor(toks []token.Token) *cursor {
	return &cursor{toks: toks}
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.toks) || c.toks[c.pos].Kind == token.EOF
}

func (c *cursor) peek() token.Token {
	if c.atEnd() {
		return token.EOFToken
	}
	return c.toks[c.pos]
}

func (c *cursor) peekN(n int) token.Token {
	idx := c.pos + n
	if idx < 0 || idx >= len(c.toks) {
		return token.EOFToken
	}
	return c.toks[idx]
}

func (c *cursor) next() token.Token {
	tok := c.peek()
	if !c.atEnd() {
		c.pos++
	}
	return tok
}

func (c *cursor) lookingAt(kind token.Kind) bool {
	return c.peek().Kind == kind
}

// mark/reset support the local backtracking a parser needs for
// constructs that require more than one token of lookahead.
func (c *cursor) mark() int    { return c.pos }
func (c *cursor) reset(m int) { c.pos = m }
