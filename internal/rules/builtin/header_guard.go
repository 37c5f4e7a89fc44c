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

package builtin

import (
	"regexp"
	"strings"

	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/rules"
	"github.com/KikuchiTomo/cclint/internal/token"
)

var (
	ifndefPattern = regexp.MustCompile(`#\s*ifndef\s+[A-Za-z_][A-Za-z0-9_]*`)
	definePattern = regexp.MustCompile(`#\s*define\s+[A-Za-z_][A-Za-z0-9_]*`)
	endifPattern  = regexp.MustCompile(`#\s*endif`)
)

var headerSuffixes = []string{".h", ".hpp", ".hh", ".hxx"}

// HeaderGuard flags header files that carry neither "#pragma once" nor a
// classic "#ifndef/#define/#endif" guard triple. Grounded on
// HeaderGuardRule (header_guard.cpp).
type HeaderGuard struct {
	AllowPragmaOnce   bool
	RequirePragmaOnce bool
}

func NewHeaderGuard() *HeaderGuard {
	return &HeaderGuard{AllowPragmaOnce: true}
}

func (r *HeaderGuard) Name() string { return "header-guard" }
func (r *HeaderGuard) Description() string {
	return "Check that header files use a header guard or #pragma once"
}
func (r *HeaderGuard) Category() string { return "style" }

func (r *HeaderGuard) Initialize(params rules.Parameters) {
	if v, ok := params["allow_pragma_once"]; ok {
		r.AllowPragmaOnce = v == "true"
	}
	if v, ok := params["require_pragma_once"]; ok {
		r.RequirePragmaOnce = v == "true"
	}
}

func (r *HeaderGuard) CheckText(path, content string, eng *diag.Engine) {
	if !isHeaderFile(path) {
		return
	}

	hasPragma := strings.Contains(content, "#pragma once")
	hasGuard := hasHeaderGuard(content)

	loc := token.Position{Filename: path, Line: 1, Column: 1}
	if r.RequirePragmaOnce {
		if !hasPragma {
			eng.AddWarning(r.Name(), "Header file should use #pragma once", loc)
		}
		return
	}
	if !hasPragma && !hasGuard {
		eng.AddWarning(r.Name(), "Header file missing header guard or #pragma once", loc)
	}
}

func isHeaderFile(path string) bool {
	for _, suffix := range headerSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func hasHeaderGuard(content string) bool {
	return ifndefPattern.MatchString(content) && definePattern.MatchString(content) && endifPattern.MatchString(content)
}
