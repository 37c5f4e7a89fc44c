package parser

import (
	"fmt"
	"strings"

	"github.com/KikuchiTomo/cclint/internal/token"
)

func sprintf(format string, args ...any) string { return fmt.Sprintf(format, args...) }

// reconstructTokenText rejoins a token slice into readable source text,
// inserting a space only where HasWhitespaceBefore was set by the lexer.
// Grounded on internal/preprocessor's reconstructText, generalized to the
// declarator/expression text the parser accumulates (typedef old-name,
// using-alias target, static_assert condition/message, friend-function
// target).
func reconstructTokenText(toks []token.Token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && t.HasWhitespaceBefore {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

// joinWithSpace appends next to base with a separating space when base is
// non-empty, used while accumulating a friend-function target signature.
func joinWithSpace(base, next string) string {
	if base == "" {
		return next
	}
	return base + " " + next
}

// joinScopeName appends a qualified-name component (identifier or "::") to
// base without inserting spaces around "::".
func joinScopeName(base, next string) string {
	if base == "" || next == "::" || strings.HasSuffix(base, "::") {
		return base + next
	}
	return base + next
}
