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

package rules

import (
	"fmt"
	"sync"
	"time"

	"github.com/KikuchiTomo/cclint/internal/ast"
	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// Stats records one rule's execution outcome, grounded on
// RuleExecutionStats (rule_executor.hpp): a wall-clock timeout is checked
// after the rule returns (this specification offers no pre-emption), and a
// rule that panics is turned into a failure record rather than crashing
// the run (the Go analogue of RuleExecutor::execute_with_stats's
// try/catch around func()).
type Stats struct {
	RuleName         string
	Duration         time.Duration
	DiagnosticsCount int
	TimedOut         bool
	Failed           bool
	ErrorMessage     string
}

// Executor runs a Registry's enabled rules across the text/token/AST
// channels for one file at a time, tracking a cross-file error count for
// early-termination once MaxErrors is reached. An Executor is shared
// across every file in a run so MaxErrors accumulates correctly; it is
// safe for concurrent use by the engine's file-level worker pool.
type Executor struct {
	registry  *Registry
	timeout   time.Duration
	maxErrors int

	mu           sync.Mutex
	errorCount   int
	stoppedEarly bool
}

// NewExecutor constructs an Executor. timeout of 0 disables the
// post-execution timeout check; maxErrors of 0 disables early termination,
// matching rule_executor.hpp's 0-means-unlimited convention.
func NewExecutor(registry *Registry, timeout time.Duration, maxErrors int) *Executor {
	return &Executor{registry: registry, timeout: timeout, maxErrors: maxErrors}
}

// StoppedEarly reports whether MaxErrors was reached and new files should
// no longer be scheduled: once tripped, the executor stops scheduling new
// files and this flag stays set for the rest of the run.
func (e *Executor) StoppedEarly() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stoppedEarly
}

// Execute runs every enabled rule in registration order against whichever
// of content/toks/root are non-empty/non-nil, dispatching to CheckText,
// CheckTokens and CheckAST respectively when the rule implements them. It
// returns one Stats entry per enabled rule, in execution order. Every
// error diagnostic eng holds once the rules finish counts toward
// MaxErrors, including errors recorded before Execute was called (the
// engine's preprocessor and parser errors), so eng holds one file's
// diagnostics only.
func (e *Executor) Execute(path, content string, toks []token.Token, root *ast.Node, eng *diag.Engine) []Stats {
	var out []Stats
	for _, rule := range e.registry.Enabled() {
		out = append(out, e.executeOne(rule, path, content, toks, root, eng))
	}
	e.accumulateErrors(eng.ErrorCount())
	return out
}

func (e *Executor) executeOne(rule Rule, path, content string, toks []token.Token, root *ast.Node, eng *diag.Engine) (stats Stats) {
	stats.RuleName = rule.Name()
	before := eng.TotalCount()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			stats.Duration = time.Since(start)
			stats.Failed = true
			stats.ErrorMessage = fmt.Sprintf("%v", r)
			return
		}
		stats.Duration = time.Since(start)
		if e.timeout > 0 && stats.Duration > e.timeout {
			stats.TimedOut = true
		}
		stats.DiagnosticsCount = eng.TotalCount() - before
	}()

	if tc, ok := rule.(TextChecker); ok {
		tc.CheckText(path, content, eng)
	}
	if tk, ok := rule.(TokenChecker); ok {
		tk.CheckTokens(path, toks, eng)
	}
	if ac, ok := rule.(ASTChecker); ok && root != nil {
		ac.CheckAST(path, root, eng)
	}
	return stats
}

// accumulateErrors adds newErrors (the error diagnostics a just-finished
// file contributed) to the run-wide error count, a guarded running
// counter shared across the file-level worker pool.
func (e *Executor) accumulateErrors(newErrors int) {
	if e.maxErrors <= 0 || newErrors <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errorCount += newErrors
	if e.errorCount >= e.maxErrors {
		e.stoppedEarly = true
	}
}
