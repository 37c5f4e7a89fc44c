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

// Package engine wires internal/lexer, internal/preprocessor,
// internal/parser and internal/rules into the (path, source, tokens, AST)
// -> rule dispatch pipeline, and runs it across many files with a bounded
// worker pool. Grounded on AnalysisEngine
// (src/engine/analysis_engine.{hpp,cpp}): per-file analyze_file/
// analyze_files, the include/exclude filter, the should_stop_early
// early-termination check and the cross-file result/stat aggregation all
// keep their shape, but analyze_files's sequential for loop is replaced
// with a golang.org/x/sync/errgroup fan-out so files analyze in parallel,
// and the TODO-stubbed "AST解析とASTベースのルール実行（Milestone 2+）" is
// filled in: this port always lexes, preprocesses and parses, then runs
// all three rule channels.
package engine

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KikuchiTomo/cclint/internal/cache"
	"github.com/KikuchiTomo/cclint/internal/config"
	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/parser"
	"github.com/KikuchiTomo/cclint/internal/preprocessor"
	"github.com/KikuchiTomo/cclint/internal/rules"
	"github.com/KikuchiTomo/cclint/internal/rules/builtin"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// FileResult is one file's analysis outcome. Mirrors engine::FileAnalysisResult.
type FileResult struct {
	FilePath     string
	Success      bool
	ErrorMessage string
	Diagnostics  []diag.Diagnostic
	RuleStats    []rules.Stats
	AnalysisTime time.Duration
	Cached       bool
}

// Stats is the run-wide counters AnalysisEngineStats tracks.
type Stats struct {
	TotalFiles    int
	AnalyzedFiles int
	SkippedFiles  int
	FailedFiles   int
	CachedFiles   int
	TotalTime     time.Duration
	StoppedEarly  bool
}

// Engine integrates a rule registry, a rule executor and (optionally) a
// result cache into one file-analysis pipeline. Mirrors
// cclint::engine::AnalysisEngine.
type Engine struct {
	cfg      config.Config
	registry *rules.Registry
	executor *rules.Executor
	cache    *cache.Cache

	mu      sync.Mutex // guards results/stats across concurrent per-file goroutines
	results []FileResult
	stats   Stats
}

// New builds an Engine, registering cclint's built-in rules and applying
// cfg.Rules's enable/severity/parameter overrides. Mirrors
// AnalysisEngine::AnalysisEngine + initialize_rules.
func New(cfg config.Config) (*Engine, error) {
	registry := rules.NewRegistry()
	registerBuiltins(registry)
	if err := applyRuleConfig(registry, cfg); err != nil {
		return nil, err
	}

	timeout := 5 * time.Second
	executor := rules.NewExecutor(registry, timeout, cfg.MaxErrors)

	e := &Engine{
		cfg:      cfg,
		registry: registry,
		executor: executor,
	}

	if cfg.EnableCache {
		c, err := cache.New(cfg.CacheDirectory)
		if err != nil {
			return nil, err
		}
		e.cache = c
	}

	return e, nil
}

func registerBuiltins(registry *rules.Registry) {
	registry.Register(builtin.NewMaxLineLength())
	registry.Register(builtin.NewHeaderGuard())
	registry.Register(builtin.NewNamingConvention())
	registry.Register(builtin.NewFunctionComplexity())
}

// applyRuleConfig mirrors initialize_rules's per-rule_config loop: look up
// the rule by name, set enabled/severity, translate parameters, and warn
// (rather than fail) on an unknown name, matching the C++ reference's
// Logger::warning for that case.
func applyRuleConfig(registry *rules.Registry, cfg config.Config) error {
	for _, rc := range cfg.Rules {
		rule := registry.Get(rc.Name)
		if rule == nil {
			fmt.Fprintf(os.Stderr, "cclint: rule not found in registry: %s\n", rc.Name)
			continue
		}
		registry.SetMeta(rc.Name, rules.Meta{Enabled: rc.Enabled, Severity: rc.Severity})
		rule.Initialize(rules.Parameters(rc.Parameters))
	}
	return nil
}

// Registry exposes the rule registry for callers that need to introspect or
// further configure it before analysis begins; it must be fully populated
// before analysis starts since it is read-only once files start flowing
// through concurrent workers.
func (e *Engine) Registry() *rules.Registry { return e.registry }

// AnalyzeFile runs the full pipeline over one file: filtering, reading,
// lexing+preprocessing, parsing, rule execution, and (if enabled) cache
// lookup/population. Mirrors AnalysisEngine::analyze_file.
func (e *Engine) AnalyzeFile(path string) FileResult {
	start := time.Now()
	result := FileResult{FilePath: path}

	if !config.ShouldAnalyzeFile(e.cfg, path) {
		result.Success = true
		e.recordSkipped()
		return result
	}

	e.recordTotal()

	content, err := os.ReadFile(path)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("failed to open file: %v", err)
		e.recordResult(result, time.Since(start), false, true, false)
		return result
	}

	if e.cache != nil {
		hash, hashErr := cache.HashFile(path)
		if hashErr == nil {
			if entry, ok := e.cache.Get(path, hash); ok {
				result.Success = true
				result.Diagnostics = entry.Diagnostics
				result.Cached = true
				result.AnalysisTime = time.Since(start)
				e.recordResult(result, result.AnalysisTime, true, false, true)
				return result
			}
		}
	}

	toks, preErrs := preprocessor.New(preprocessor.Options{}).Process(content, path)

	p := parser.New(toks, path)
	root := p.Parse()

	eng := diag.NewEngine()
	for _, perr := range preErrs {
		eng.AddError("preprocessor", perr.Error(), preprocessorErrorPosition(perr))
	}
	for _, aerr := range p.Errors() {
		eng.AddError("parser", aerr.Error(), aerr.Position)
	}

	stats := e.executor.Execute(path, string(content), toks, root, eng)

	result.Success = true
	result.Diagnostics = eng.Diagnostics()
	result.RuleStats = stats
	result.AnalysisTime = time.Since(start)

	if e.cache != nil {
		if hash, hashErr := cache.HashFile(path); hashErr == nil {
			_ = e.cache.Put(path, hash, result.Diagnostics)
		}
	}

	e.recordResult(result, result.AnalysisTime, true, false, false)
	return result
}

// preprocessorErrorPosition recovers the source position carried by a
// preprocessor.Error, falling back to the EOF sentinel for any other error
// type Process might someday return.
func preprocessorErrorPosition(err error) token.Position {
	if pe, ok := err.(preprocessor.Error); ok {
		return pe.Position
	}
	return token.PositionEOF
}

// AnalyzeFiles runs AnalyzeFile across paths with bounded concurrency,
// stopping new scheduling once the executor's max_errors threshold trips.
// Mirrors AnalysisEngine::analyze_files, generalized from its sequential
// for loop to an errgroup-bounded fan-out, since analysis parallelizes
// cleanly at file granularity.
func (e *Engine) AnalyzeFiles(ctx context.Context, paths []string) []FileResult {
	workers := e.cfg.NumThreads
	if workers <= 0 {
		workers = 4
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]FileResult, len(paths))
	for i, path := range paths {
		if e.executor.StoppedEarly() {
			e.markStoppedEarly()
			break
		}
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = e.AnalyzeFile(path)
			return nil
		})
	}
	_ = g.Wait()
	if e.executor.StoppedEarly() {
		e.markStoppedEarly()
	}

	n := 0
	for _, r := range results {
		if r.FilePath != "" {
			n++
		}
	}
	return results[:n]
}

// AllDiagnostics concatenates every recorded file's diagnostics, in the
// order files were analyzed. Mirrors AnalysisEngine::get_all_diagnostics.
func (e *Engine) AllDiagnostics() []diag.Diagnostic {
	e.mu.Lock()
	defer e.mu.Unlock()

	var all []diag.Diagnostic
	for _, r := range e.results {
		all = append(all, r.Diagnostics...)
	}
	return all
}

// ErrorCount/WarningCount mirror AnalysisEngine::get_error_count/get_warning_count.
func (e *Engine) ErrorCount() int   { return e.countSeverity(diag.Error) }
func (e *Engine) WarningCount() int { return e.countSeverity(diag.Warning) }

func (e *Engine) countSeverity(sev diag.Severity) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, r := range e.results {
		for _, d := range r.Diagnostics {
			if d.Severity == sev {
				count++
			}
		}
	}
	return count
}

// Stats returns a snapshot of the run-wide counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) recordSkipped() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.SkippedFiles++
}

func (e *Engine) recordTotal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.TotalFiles++
}

func (e *Engine) markStoppedEarly() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.StoppedEarly = true
}

func (e *Engine) recordResult(result FileResult, elapsed time.Duration, success, failed, cached bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.results = append(e.results, result)
	e.stats.TotalTime += elapsed
	if failed {
		e.stats.FailedFiles++
		return
	}
	if cached {
		e.stats.CachedFiles++
	}
	if success {
		e.stats.AnalyzedFiles++
	}
}
