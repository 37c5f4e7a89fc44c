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

// Package diag holds the diagnostic value types shared by rules, the
// engine and the output formatters, and the collector that accumulates
// them over a run. Grounded on original_source/src/diagnostic/diagnostic.hpp:
// Severity, a location/range pair, fix-it hints and a Diagnostic carrying
// optional notes and fix hints. Positions reuse internal/token.Position and
// internal/token.Range rather than re-declaring filename/line/column, since
// every diagnostic position already flows through a token.Position from the
// lexer or parser.
package diag

import (
	"fmt"
	"strings"

	"github.com/KikuchiTomo/cclint/internal/token"
)

// Severity ranks a Diagnostic's importance, matching diagnostic::Severity.
type Severity int

const (
	Warning Severity = iota
	Error
	Info
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a config/CLI string into a Severity, defaulting to
// Warning for anything unrecognized (diagnostic::Diagnostic::string_to_severity).
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "error":
		return Error
	case "warning":
		return Warning
	case "info":
		return Info
	case "note":
		return Note
	default:
		return Warning
	}
}

// FixItHint proposes replacing the text covered by Range with Replacement.
type FixItHint struct {
	Range       token.Range
	Replacement string
}

func (h FixItHint) String() string {
	return fmt.Sprintf("fix: replace %s with %q", h.Range, h.Replacement)
}

// Diagnostic is one reported finding: a rule name, a message, the location
// it applies to, optional fix-it hints, and optional sub-diagnostics used
// as supplementary notes (e.g. "previous declaration here").
type Diagnostic struct {
	Severity Severity
	RuleName string
	Message  string
	Location token.Position
	Ranges   []token.Range
	FixHints []FixItHint
	Notes    []Diagnostic
}

func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Location.Valid() {
		b.WriteString(d.Location.String())
		b.WriteString(": ")
	}
	b.WriteString(d.Severity.String())
	if d.RuleName != "" {
		b.WriteString(" [")
		b.WriteString(d.RuleName)
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	for _, h := range d.FixHints {
		b.WriteString("\n  ")
		b.WriteString(h.String())
	}
	for _, n := range d.Notes {
		b.WriteString("\n  ")
		b.WriteString(n.String())
	}
	return b.String()
}

// Engine accumulates Diagnostics over an analysis run. It is not safe for
// concurrent use by multiple goroutines; callers running a file-level
// worker pool (internal/engine) should give each worker its own Engine and
// merge the results, matching the single-writer-per-goroutine pattern the
// teacher uses for its per-file result channel.
type Engine struct {
	diagnostics []Diagnostic
}

func NewEngine() *Engine { return &Engine{} }

func (e *Engine) Add(d Diagnostic) { e.diagnostics = append(e.diagnostics, d) }

func (e *Engine) AddError(ruleName, message string, loc token.Position) {
	e.Add(Diagnostic{Severity: Error, RuleName: ruleName, Message: message, Location: loc})
}

func (e *Engine) AddWarning(ruleName, message string, loc token.Position) {
	e.Add(Diagnostic{Severity: Warning, RuleName: ruleName, Message: message, Location: loc})
}

func (e *Engine) AddInfo(ruleName, message string, loc token.Position) {
	e.Add(Diagnostic{Severity: Info, RuleName: ruleName, Message: message, Location: loc})
}

// AddWithFixes appends a diagnostic carrying fix-it hints in one call,
// matching DiagnosticEngine::add_diagnostic_with_fixit.
func (e *Engine) AddWithFixes(severity Severity, ruleName, message string, loc token.Position, hints []FixItHint) {
	e.Add(Diagnostic{Severity: severity, RuleName: ruleName, Message: message, Location: loc, FixHints: hints})
}

// Diagnostics returns all accumulated diagnostics in insertion order.
func (e *Engine) Diagnostics() []Diagnostic { return e.diagnostics }

func (e *Engine) Clear() { e.diagnostics = nil }

func (e *Engine) countSeverity(s Severity) int {
	n := 0
	for _, d := range e.diagnostics {
		if d.Severity == s {
			n++
		}
	}
	return n
}

func (e *Engine) ErrorCount() int   { return e.countSeverity(Error) }
func (e *Engine) WarningCount() int { return e.countSeverity(Warning) }
func (e *Engine) InfoCount() int    { return e.countSeverity(Info) }
func (e *Engine) TotalCount() int   { return len(e.diagnostics) }
func (e *Engine) HasErrors() bool   { return e.ErrorCount() > 0 }

// Merge appends another Engine's diagnostics onto e. internal/engine does
// not call it: its worker pool keeps each file's diagnostics in that
// file's result.
func (e *Engine) Merge(other *Engine) {
	if other == nil {
		return
	}
	e.diagnostics = append(e.diagnostics, other.diagnostics...)
}
