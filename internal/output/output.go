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

// Package output renders a diagnostic list into one of three formats:
// text, JSON and XML. Grounded on TextFormatter/JsonFormatter/
// XmlFormatter/FormatterFactory (src/output/*.cpp): the Go port keeps the
// same three-format shape and the factory-by-name lookup, but replaces
// JsonFormatter/XmlFormatter's manual stream-operator string building
// with struct definitions marshaled via the standard library's
// encoding/json and encoding/xml — both are already the idiomatic Go way
// to produce these exact shapes, with no domain-specific behavior a
// third-party library would add.
package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/KikuchiTomo/cclint/internal/diag"
)

// Format renders diagnostics in the named format ("text", "json" or "xml")
// to w. Mirrors FormatterFactory::create dispatching by format name.
func Format(diagnostics []diag.Diagnostic, format string, w io.Writer) error {
	switch format {
	case "", "text":
		return Text(diagnostics, w)
	case "json":
		return JSON(diagnostics, w)
	case "xml":
		return XML(diagnostics, w)
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
}

// summary mirrors Formatter::calculate_statistics's Stats struct.
type summary struct {
	Total    int
	Errors   int
	Warnings int
	Info     int
}

func summarize(diagnostics []diag.Diagnostic) summary {
	var s summary
	for _, d := range diagnostics {
		s.Total++
		switch d.Severity {
		case diag.Error:
			s.Errors++
		case diag.Warning:
			s.Warnings++
		case diag.Info:
			s.Info++
		}
	}
	return s
}

// Text renders diagnostics as TextFormatter does: one line per diagnostic,
// "path:line:col: severity [rule]: message", with indented fix-it and note
// children, followed by a summary footer. Color escapes are omitted — the
// C++ reference's own colorize_severity carries a "TODO: detect terminal"
// note and always emits color; this port instead never does, since cclint
// has no terminal-capability-detection dependency to ground ANSI output on.
func Text(diagnostics []diag.Diagnostic, w io.Writer) error {
	for _, d := range diagnostics {
		if err := writeTextDiagnostic(w, d, ""); err != nil {
			return err
		}
	}

	s := summarize(diagnostics)
	if s.Total == 0 {
		_, err := fmt.Fprintln(w, "No issues found.")
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d error(s), %d warning(s), %d info message(s) generated.\n", s.Errors, s.Warnings, s.Info)
	return err
}

func writeTextDiagnostic(w io.Writer, d diag.Diagnostic, prefix string) error {
	if d.Location.Valid() {
		if _, err := fmt.Fprintf(w, "%s%s: ", prefix, d.Location); err != nil {
			return err
		}
	} else if prefix != "" {
		if _, err := fmt.Fprint(w, prefix); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprint(w, d.Severity); err != nil {
		return err
	}
	if d.RuleName != "" {
		if _, err := fmt.Fprintf(w, " [%s]", d.RuleName); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, ": %s\n", d.Message); err != nil {
		return err
	}

	for _, hint := range d.FixHints {
		if _, err := fmt.Fprintf(w, "%s  fix-it: %s\n", prefix, hint.Range); err != nil {
			return err
		}
		if hint.Replacement != "" {
			if _, err := fmt.Fprintf(w, "%s    replace with: '%s'\n", prefix, hint.Replacement); err != nil {
				return err
			}
		}
	}

	for _, note := range d.Notes {
		if err := writeTextDiagnostic(w, note, prefix+"  "); err != nil {
			return err
		}
	}
	return nil
}

// jsonLocation/jsonRange/jsonFixHint/jsonDiagnostic/jsonDocument mirror
// the JSON schema this package's output is expected to produce, verbatim.
type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type jsonRange struct {
	Begin jsonLocation `json:"begin"`
	End   jsonLocation `json:"end"`
}

type jsonFixHint struct {
	Range       jsonRange `json:"range"`
	Replacement string    `json:"replacement"`
}

type jsonDiagnostic struct {
	Severity string          `json:"severity"`
	Rule     string          `json:"rule"`
	Message  string          `json:"message"`
	Location *jsonLocation   `json:"location,omitempty"`
	Ranges   []jsonRange     `json:"ranges,omitempty"`
	FixIts   []jsonFixHint   `json:"fixits,omitempty"`
	Notes    []jsonDiagnostic `json:"notes,omitempty"`
}

type jsonSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

type jsonDocument struct {
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	Summary     jsonSummary      `json:"summary"`
}

func toJSONDiagnostic(d diag.Diagnostic) jsonDiagnostic {
	jd := jsonDiagnostic{
		Severity: d.Severity.String(),
		Rule:     d.RuleName,
		Message:  d.Message,
	}
	if d.Location.Valid() {
		jd.Location = &jsonLocation{File: d.Location.Filename, Line: d.Location.Line, Column: d.Location.Column}
	}
	for _, r := range d.Ranges {
		jd.Ranges = append(jd.Ranges, jsonRange{
			Begin: jsonLocation{File: r.Begin.Filename, Line: r.Begin.Line, Column: r.Begin.Column},
			End:   jsonLocation{File: r.End.Filename, Line: r.End.Line, Column: r.End.Column},
		})
	}
	for _, h := range d.FixHints {
		jd.FixIts = append(jd.FixIts, jsonFixHint{
			Range: jsonRange{
				Begin: jsonLocation{File: h.Range.Begin.Filename, Line: h.Range.Begin.Line, Column: h.Range.Begin.Column},
				End:   jsonLocation{File: h.Range.End.Filename, Line: h.Range.End.Line, Column: h.Range.End.Column},
			},
			Replacement: h.Replacement,
		})
	}
	for _, n := range d.Notes {
		jd.Notes = append(jd.Notes, toJSONDiagnostic(n))
	}
	return jd
}

// JSON renders diagnostics as JsonFormatter does: {diagnostics: [...],
// summary: {...}}.
func JSON(diagnostics []diag.Diagnostic, w io.Writer) error {
	doc := jsonDocument{Summary: jsonSummary(summarize(diagnostics))}
	for _, d := range diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, toJSONDiagnostic(d))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// xmlLocation/xmlRange/xmlFixHint/xmlDiagnostic/xmlSummary/xmlDocument
// mirror XmlFormatter's element names and nesting.
type xmlLocation struct {
	File   string `xml:"file"`
	Line   int    `xml:"line"`
	Column int    `xml:"column"`
}

type xmlRange struct {
	Begin xmlLocation `xml:"begin>location"`
	End   xmlLocation `xml:"end>location"`
}

type xmlFixHint struct {
	Range       xmlRange `xml:"range"`
	Replacement string   `xml:"replacement"`
}

type xmlDiagnostic struct {
	Severity string          `xml:"severity"`
	Rule     string          `xml:"rule"`
	Message  string          `xml:"message"`
	Location *xmlLocation    `xml:"location,omitempty"`
	Ranges   []xmlRange      `xml:"ranges>range,omitempty"`
	FixIts   []xmlFixHint    `xml:"fixits>fixit,omitempty"`
	Notes    []xmlDiagnostic `xml:"notes>diagnostic,omitempty"`
}

type xmlSummary struct {
	Total    int `xml:"total"`
	Errors   int `xml:"errors"`
	Warnings int `xml:"warnings"`
	Info     int `xml:"info"`
}

type xmlDocument struct {
	XMLName     xml.Name        `xml:"cclint"`
	Diagnostics []xmlDiagnostic `xml:"diagnostics>diagnostic"`
	Summary     xmlSummary      `xml:"summary"`
}

func toXMLDiagnostic(d diag.Diagnostic) xmlDiagnostic {
	xd := xmlDiagnostic{
		Severity: d.Severity.String(),
		Rule:     d.RuleName,
		Message:  d.Message,
	}
	if d.Location.Valid() {
		xd.Location = &xmlLocation{File: d.Location.Filename, Line: d.Location.Line, Column: d.Location.Column}
	}
	for _, r := range d.Ranges {
		xd.Ranges = append(xd.Ranges, xmlRange{
			Begin: xmlLocation{File: r.Begin.Filename, Line: r.Begin.Line, Column: r.Begin.Column},
			End:   xmlLocation{File: r.End.Filename, Line: r.End.Line, Column: r.End.Column},
		})
	}
	for _, h := range d.FixHints {
		xd.FixIts = append(xd.FixIts, xmlFixHint{
			Range: xmlRange{
				Begin: xmlLocation{File: h.Range.Begin.Filename, Line: h.Range.Begin.Line, Column: h.Range.Begin.Column},
				End:   xmlLocation{File: h.Range.End.Filename, Line: h.Range.End.Line, Column: h.Range.End.Column},
			},
			Replacement: h.Replacement,
		})
	}
	for _, n := range d.Notes {
		xd.Notes = append(xd.Notes, toXMLDiagnostic(n))
	}
	return xd
}

// XML renders diagnostics as XmlFormatter does: <cclint><diagnostics>...
func XML(diagnostics []diag.Diagnostic, w io.Writer) error {
	doc := xmlDocument{Summary: xmlSummary(summarize(diagnostics))}
	for _, d := range diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, toXMLDiagnostic(d))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
