package parser

import (
	"fmt"

	"github.com/KikuchiTomo/cclint/internal/token"
)

// Error is a syntax error recorded during parsing. Parsing never aborts on
// one (recovery strategies apply instead); Errors() collects every Error
// seen across a translation unit.
type Error struct {
	Position token.Position
	Message  string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Position.Filename, e.Position.Line, e.Position.Column, e.Message)
}
