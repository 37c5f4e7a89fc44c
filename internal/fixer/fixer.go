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

// Package fixer applies diagnostic fix-it hints to source files.
// Grounded on original_source/src/diagnostic/fixer.{hpp,cpp}: group hints
// by file, map (line, column) to a byte offset with a linear newline scan,
// sort by begin-offset descending and apply back to front so earlier
// offsets stay valid. Preview mode (the default) never touches the
// filesystem; Write persists the computed content.
package fixer

import (
	"fmt"
	"os"
	"sort"

	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// OverlapError reports that two fix-it hints for the same file cover
// overlapping byte ranges, which must be detected and reported rather
// than silently applied in an arbitrary order.
type OverlapError struct {
	Filename string
	A, B     token.Range
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: overlapping fix-it hints %s and %s", e.Filename, e.A, e.B)
}

// Fixer accumulates the fixed content for each file it has processed.
// Not safe for concurrent use.
type Fixer struct {
	preview  bool
	readFile func(string) (string, error)

	fixed    map[string]string
	original map[string]string
}

// New constructs a Fixer. In preview mode, Write is a no-op and ApplyFixes
// never touches the filesystem beyond reading the original sources.
func New(preview bool) *Fixer {
	return &Fixer{
		preview: preview,
		readFile: func(name string) (string, error) {
			b, err := os.ReadFile(name)
			return string(b), err
		},
		fixed:    make(map[string]string),
		original: make(map[string]string),
	}
}

// ApplyFixes groups every fix-it hint in diagnostics by file and applies
// each file's hints, returning the number of files whose content changed.
// I/O failures reading a file are collected and returned alongside the
// count, without aborting the remaining files: the affected file is
// marked failed and every other file still gets processed.
func (f *Fixer) ApplyFixes(diagnostics []diag.Diagnostic) (filesFixed int, errs []error) {
	hintsByFile := make(map[string][]diag.FixItHint)
	order := make([]string, 0)
	for _, d := range diagnostics {
		if len(d.FixHints) == 0 {
			continue
		}
		filename := d.Location.Filename
		if _, seen := hintsByFile[filename]; !seen {
			order = append(order, filename)
		}
		for _, h := range d.FixHints {
			if h.Range.Valid() {
				hintsByFile[filename] = append(hintsByFile[filename], h)
			}
		}
	}

	for _, filename := range order {
		if err := f.applyFixesToFile(filename, hintsByFile[filename]); err != nil {
			errs = append(errs, err)
		}
	}
	return len(f.fixed), errs
}

func (f *Fixer) applyFixesToFile(filename string, hints []diag.FixItHint) error {
	if len(hints) == 0 {
		return nil
	}

	content, err := f.readFile(filename)
	if err != nil {
		return fmt.Errorf("fixer: read %s: %w", filename, err)
	}
	f.original[filename] = content

	sorted := append([]diag.FixItHint(nil), hints...)
	offsets := make(map[int]int, len(sorted)*2)
	offsetFor := func(pos token.Position) int {
		key := pos.Line<<20 ^ pos.Column
		if off, ok := offsets[key]; ok {
			return off
		}
		off := locationToOffset(content, pos.Line, pos.Column)
		offsets[key] = off
		return off
	}

	sort.Slice(sorted, func(i, j int) bool {
		return offsetFor(sorted[i].Range.Begin) > offsetFor(sorted[j].Range.Begin)
	})

	for i := 1; i < len(sorted); i++ {
		prevBegin := offsetFor(sorted[i-1].Range.Begin)
		curEnd := offsetFor(sorted[i].Range.End)
		if curEnd > prevBegin {
			return &OverlapError{Filename: filename, A: sorted[i-1].Range, B: sorted[i].Range}
		}
	}

	for _, hint := range sorted {
		start := offsetFor(hint.Range.Begin)
		end := offsetFor(hint.Range.End)
		if start > end || end > len(content) {
			continue
		}
		content = content[:start] + hint.Replacement + content[end:]
	}

	f.fixed[filename] = content
	return nil
}

// locationToOffset maps a 1-based (line, column) pair to a byte offset in
// content via a linear newline-counting scan, matching
// Fixer::location_to_offset.
func locationToOffset(content string, line, column int) int {
	if line <= 0 || column < 0 {
		return 0
	}
	offset := 0
	currentLine := 1
	for currentLine < line && offset < len(content) {
		if content[offset] == '\n' {
			currentLine++
		}
		offset++
	}
	currentColumn := 0
	for currentColumn < column-1 && offset < len(content) && content[offset] != '\n' {
		offset++
		currentColumn++
	}
	return offset
}

// GetFixedContent returns the fixed content computed for filename, or ""
// if no fix was applied to it.
func (f *Fixer) GetFixedContent(filename string) string {
	return f.fixed[filename]
}

// Preview returns the filename -> fixed-content map accumulated so far.
func (f *Fixer) Preview() map[string]string {
	return f.fixed
}

// Write persists every computed fix to disk and returns the number of
// files written. In preview mode it writes nothing and returns 0.
func (f *Fixer) Write() (written int, errs []error) {
	if f.preview {
		return 0, nil
	}
	for filename, content := range f.fixed {
		if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("fixer: write %s: %w", filename, err))
			continue
		}
		written++
	}
	return written, errs
}
