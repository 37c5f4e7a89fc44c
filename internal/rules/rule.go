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

// Package rules defines the rule interface, its three optional check
// capabilities, and the registry/executor that runs enabled rules over a
// file. Grounded on original_source/src/rules/{rule_base,rule_registry,
// rule_executor}.hpp, redesigned from a class hierarchy to composition:
// the C++ virtual RuleBase with three overridable-but-empty check_*
// methods becomes a minimal Rule interface plus three optional capability
// interfaces (CheckText / CheckTokens / CheckAST), so a rule implements
// only the channels it needs instead of inheriting no-op stubs for the
// rest.
package rules

import (
	"github.com/KikuchiTomo/cclint/internal/ast"
	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// Parameters carries a rule's string-keyed configuration, coerced from
// int/bool/string config values by the rule itself (rule_base.hpp's
// RuleParameters).
type Parameters map[string]string

// Rule is the minimal contract every built-in or scripted rule satisfies.
// A Rule that implements none of TextChecker/TokenChecker/ASTChecker is
// valid but never produces diagnostics.
type Rule interface {
	Name() string
	Description() string
	Category() string
	Initialize(params Parameters)
}

// TextChecker is implemented by rules that inspect raw file content
// directly, without needing a token stream or AST (e.g. max-line-length).
type TextChecker interface {
	CheckText(path, content string, eng *diag.Engine)
}

// TokenChecker is implemented by rules that inspect the lexed token
// stream.
type TokenChecker interface {
	CheckTokens(path string, toks []token.Token, eng *diag.Engine)
}

// ASTChecker is implemented by rules that walk the parsed translation
// unit.
type ASTChecker interface {
	CheckAST(path string, root *ast.Node, eng *diag.Engine)
}

// Meta holds the registry-managed state a rule doesn't own itself:
// enabled flag and severity, mirroring RuleBase::enabled_/severity_
// without requiring every Rule implementation to embed a base struct —
// rules stay plain values, not a class hierarchy.
type Meta struct {
	Enabled  bool
	Severity diag.Severity
}

// DefaultMeta matches RuleBase's field initializers: enabled by default,
// Warning severity.
func DefaultMeta() Meta {
	return Meta{Enabled: true, Severity: diag.Warning}
}
