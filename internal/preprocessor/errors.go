package preprocessor

import (
	"fmt"

	"github.com/KikuchiTomo/cclint/internal/token"
)

// Error is a preprocessor-stage diagnostic: a malformed directive, an
// unresolved #include, or a malformed #if expression. Like lexer.Error,
// recording one never aborts processing of the rest of the file.
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
