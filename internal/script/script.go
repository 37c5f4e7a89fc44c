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

// Package script is the scripting-bridge collaborator that lets a rule be
// backed by an external interpreter instead of Go code (the analogous
// component upstream is a Lua bridge, src/lua/lua_bridge.{hpp,cpp}). It
// defines the interface a host embedding cclint could implement to back a
// rule with an external interpreter, and a thin Rule adapter that lets such
// an implementation plug into internal/rules like any built-in. No
// interpreter is wired in here: cclint itself has no dependency on Lua,
// Starlark, JS or any other embeddable runtime, so this package stays a
// pure interface a host program can satisfy however it likes.
package script

import (
	"github.com/KikuchiTomo/cclint/internal/ast"
	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/rules"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// Engine is the host-provided seam a scripting runtime implements.
// LuaBridge::register_api exposed this same set of capabilities to Lua
// code (report_error/warning/info, read file content, regex match, walk
// the AST); Engine collects the same surface behind a Go interface instead
// of static Lua-callable C functions, so a host can back it with any
// interpreter without cclint depending on one.
type Engine interface {
	// Name identifies the script file or snippet backing this engine,
	// used in diagnostics' RuleName when a script doesn't set its own.
	Name() string

	// Run executes the script against one file's text, tokens and AST,
	// reporting findings through eng. Mirrors LuaBridge::call_function
	// invoking a Lua rule-check function with the current file/AST bound.
	Run(path, content string, toks []token.Token, root *ast.Node, eng *diag.Engine) error
}

// Rule adapts an Engine into a rules.Rule usable by internal/rules, the
// same way a scripted check registered itself alongside built-in C++
// rules in RuleRegistry. It implements rules.TextChecker and
// rules.ASTChecker but not rules.TokenChecker; both of its checks call Run
// with a nil token stream.
type Rule struct {
	engine     Engine
	category   string
	parameters rules.Parameters
}

// NewRule wraps engine as a rules.Rule under category (defaulting to
// "script" when empty).
func NewRule(engine Engine, category string) *Rule {
	if category == "" {
		category = "script"
	}
	return &Rule{engine: engine, category: category}
}

func (r *Rule) Name() string        { return r.engine.Name() }
func (r *Rule) Description() string { return "scripted rule: " + r.engine.Name() }
func (r *Rule) Category() string    { return r.category }

func (r *Rule) Initialize(params rules.Parameters) {
	r.parameters = params
}

// CheckText runs the script with an empty token stream and AST, for
// scripts that only need raw file content.
func (r *Rule) CheckText(path, content string, eng *diag.Engine) {
	_ = r.engine.Run(path, content, nil, nil, eng)
}

// CheckAST runs the script with the parsed AST available, letting the
// host engine decide whether to also re-derive token-level information
// from it.
func (r *Rule) CheckAST(path string, root *ast.Node, eng *diag.Engine) {
	_ = r.engine.Run(path, "", nil, root, eng)
}

// Parameters exposes the configuration the rule was initialized with, so
// a host Engine.Run implementation can read script-specific settings.
func (r *Rule) Parameters() rules.Parameters { return r.parameters }
