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

// Package builtin holds a small set of ready-to-register rules:
// max-line-length, header-guard, naming-convention and
// function-complexity. Each is grounded on its original_source/src/rules/
// builtin/*.cpp counterpart, reimplemented against internal/rules's
// capability interfaces instead of a RuleBase subclass.
package builtin

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/rules"
	"github.com/KikuchiTomo/cclint/internal/token"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// MaxLineLength flags lines longer than MaxLength, grounded on
// MaxLineLengthRule (max_line_length.cpp).
type MaxLineLength struct {
	MaxLength      int
	IgnoreComments bool
	IgnoreURLs     bool
}

// NewMaxLineLength returns a MaxLineLength with the C++ rule's defaults:
// 80 columns, URLs ignored, comments not ignored.
func NewMaxLineLength() *MaxLineLength {
	return &MaxLineLength{MaxLength: 80, IgnoreURLs: true}
}

func (r *MaxLineLength) Name() string        { return "max-line-length" }
func (r *MaxLineLength) Description() string { return "Check that lines do not exceed maximum length" }
func (r *MaxLineLength) Category() string    { return "style" }

func (r *MaxLineLength) Initialize(params rules.Parameters) {
	if v, ok := params["max_length"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			r.MaxLength = n
		}
	}
	if v, ok := params["ignore_comments"]; ok {
		r.IgnoreComments = v == "true"
	}
	if v, ok := params["ignore_urls"]; ok {
		r.IgnoreURLs = v == "true"
	}
}

func (r *MaxLineLength) CheckText(path, content string, eng *diag.Engine) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lineNum := i + 1

		if r.IgnoreURLs && urlPattern.MatchString(line) {
			continue
		}
		if r.IgnoreComments {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*") {
				continue
			}
		}

		if len(line) > r.MaxLength {
			msg := fmt.Sprintf("Line exceeds maximum length of %d characters (current: %d)", r.MaxLength, len(line))
			eng.AddWarning(r.Name(), msg, token.Position{Filename: path, Line: lineNum, Column: 1})
		}
	}
}
