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

// Package lsp is a language-server façade: a Server wraps
// internal/engine.Engine behind the operations an editor integration
// needs (diagnose a file on demand, and re-analyze on open/change),
// without depending on any JSON-RPC transport or the go.lsp.dev/
// protocol-style wire types a real language server would use. No
// transport library is wired in here; a host process owns the actual
// LSP wire connection and calls through to this interface.
package lsp

import (
	"sync"

	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/engine"
)

// Server serves diagnostics for open documents by delegating to an
// internal/engine.Engine, caching the last known diagnostics per URI so
// Diagnose can answer without re-analyzing an unchanged document.
type Server struct {
	eng *engine.Engine

	mu    sync.RWMutex
	byURI map[string][]diag.Diagnostic
}

// NewServer wraps eng, which must already be fully configured (rules
// registered, cache/config applied) before documents start flowing in.
func NewServer(eng *engine.Engine) *Server {
	return &Server{eng: eng, byURI: make(map[string][]diag.Diagnostic)}
}

// OnDidOpen analyzes a freshly opened document at path and caches the
// result under uri, returning the diagnostics an editor should render.
func (s *Server) OnDidOpen(uri, path string) []diag.Diagnostic {
	return s.analyzeAndCache(uri, path)
}

// OnDidChange re-analyzes path after an edit, replacing uri's cached
// diagnostics. cclint has no incremental-reparse support at the document
// level (incrementality operates at file-list granularity, via
// internal/incremental), so this re-runs the full pipeline, mirroring
// what a simple "analyze on save/change" LSP integration would do.
func (s *Server) OnDidChange(uri, path string) []diag.Diagnostic {
	return s.analyzeAndCache(uri, path)
}

// OnDidClose drops uri's cached diagnostics, since the editor no longer
// needs them surfaced.
func (s *Server) OnDidClose(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byURI, uri)
}

// Diagnose returns the last diagnostics computed for uri, or nil if the
// document was never opened/analyzed.
func (s *Server) Diagnose(uri string) []diag.Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byURI[uri]
}

func (s *Server) analyzeAndCache(uri, path string) []diag.Diagnostic {
	result := s.eng.AnalyzeFile(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byURI[uri] = result.Diagnostics
	return result.Diagnostics
}
