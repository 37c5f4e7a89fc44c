// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package token defines the closed token-kind set, source positions and the
// immutable Token value shared by the lexer, preprocessor and parser.
package token

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position identifies a byte in a source file. Line and Column are 1-based.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// PositionEOF is the sentinel position attached to the EOF token and to
// errors that have no meaningful location.
var PositionEOF = Position{}

// Valid reports whether the position is a real location rather than the EOF
// sentinel.
func (p Position) Valid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.Valid() {
		return "EOF"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Advance returns the position reached after consuming text starting at p.
// Newlines in text increment Line and reset Column; other runes increment
// Column. Offset always advances by len(text) bytes.
func (p Position) Advance(text string) Position {
	newlines := strings.Count(text, "\n")
	tailBegin := 1 + strings.LastIndex(text, "\n")
	tailRunes := utf8.RuneCountInString(text[tailBegin:])

	if newlines == 0 {
		p.Column += tailRunes
	} else {
		p.Line += newlines
		p.Column = 1 + tailRunes
	}
	p.Offset += len(text)
	return p
}

// Range is an ordered pair of positions, Begin <= End in (Line, Column)
// lexicographic order.
type Range struct {
	Begin, End Position
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%d:%d", r.Begin, r.End.Line, r.End.Column)
}

// Valid reports whether both endpoints of the range are real locations.
func (r Range) Valid() bool {
	return r.Begin.Valid() && r.End.Valid()
}
