package token

// Token is an immutable lexical unit. Once produced by the lexer it is never
// mutated; the preprocessor and parser only ever read or copy it.
type Token struct {
	Kind Kind
	// Text is the token's literal spelling, byte-for-byte as it appeared in
	// the source (escape sequences unprocessed).
	Text string
	// Value is the decoded payload for literal kinds: escape-processed
	// string/char content, or the stringified numeral for integer/floating
	// literals with separators and suffixes stripped. For non-literal kinds
	// Value equals Text.
	Value    string
	Position Position

	// HasWhitespaceBefore and IsAtStartOfLine are adjacency flags the
	// preprocessor needs: the former to decide whether a macro-expansion
	// paste needs a separating space, the latter to recognize that a '#'
	// begins a directive.
	HasWhitespaceBefore bool
	IsAtStartOfLine     bool
}

// EOF is the canonical end-of-stream token. It carries the sentinel position
// and is returned repeatedly once the lexer is exhausted.
var EOFToken = Token{Kind: EOF, Position: PositionEOF}

func (t Token) String() string {
	if t.Kind == EOF {
		return "<EOF>"
	}
	return t.Text
}

// Range returns the source range spanned by t, computed from its starting
// Position and its Text.
func (t Token) Range() Range {
	return Range{Begin: t.Position, End: t.Position.Advance(t.Text)}
}
