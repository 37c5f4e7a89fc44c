package lexer

import (
	"fmt"

	"github.com/KikuchiTomo/cclint/internal/token"
)

// Error is a lexical error: an unterminated literal/comment, an invalid raw
// string delimiter, or an unrecognized byte. Lexing always continues past
// an Error rather than aborting the whole file.
type Error struct {
	Position token.Position
	Message  string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

func newError(pos token.Position, format string, args ...any) Error {
	return Error{Position: pos, Message: fmt.Sprintf(format, args...)}
}
