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

// Package plugin is the "hand me a constructed rule value" collaborator
// for loading rules from outside the built-in set. Grounded on
// RuleRegistry (src/rules/rule_registry.hpp): a singleton map from rule
// name to instance, register/get/list/clear/size. This port drops the
// singleton (Go callers construct their own *Registrar and pass it to
// internal/engine explicitly) and the unique_ptr ownership transfer (Go
// values are already reference-like), but keeps the same register/get/
// names/size surface. No dynamic loading (Go's own "plugin" package, or
// any third-party equivalent) is wired in, so this stays an in-process
// seam a host binary can populate however it likes (a custom cmd/cclint
// build, a test, a future dynamic loader) before handing rules to
// internal/engine.
package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/KikuchiTomo/cclint/internal/rules"
)

// Factory builds a fresh rules.Rule instance, matching the "supply a
// constructed rule" shape RuleRegistry::register_rule expects (a
// unique_ptr<RuleBase> handed over at registration time) while letting
// Registrar.Rules() mint independent instances for each caller.
type Factory func() rules.Rule

// Registrar is an in-process, external-rule registrar: a name-keyed map
// of Factory values a host program populates before constructing an
// internal/engine.Engine or internal/rules.Registry. It is the seam for
// rule loading that stays external to the core pipeline.
type Registrar struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
}

// NewRegistrar returns an empty Registrar, mirroring
// RuleRegistry::instance() minus the singleton: callers own their
// Registrar's lifetime instead of sharing one process-wide instance.
func NewRegistrar() *Registrar {
	return &Registrar{factories: make(map[string]Factory)}
}

// Register adds factory under name, overwriting any prior registration
// for the same name in place. Mirrors RuleRegistry::register_rule.
func (r *Registrar) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	}
	r.factories[name] = factory
}

// New constructs the rule registered under name, or returns an error if
// none exists. Mirrors RuleRegistry::get_rule, adapted to Go's
// value-or-error idiom in place of a nullable pointer.
func (r *Registrar) New(name string) (rules.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("plugin: no rule registered under name %q", name)
	}
	return factory(), nil
}

// Names returns every registered name, sorted alphabetically. Mirrors
// RuleRegistry::get_all_rule_names.
func (r *Registrar) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	sort.Strings(out)
	return out
}

// Size returns the number of registered factories. Mirrors
// RuleRegistry::size.
func (r *Registrar) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// Clear removes every registration, for test isolation. Mirrors
// RuleRegistry::clear.
func (r *Registrar) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = make(map[string]Factory)
	r.order = nil
}

// NewRules constructs one fresh rules.Rule per registered name, in the
// order Names() reports, ready to hand to rules.Registry.Register.
func (r *Registrar) NewRules() []rules.Rule {
	names := r.Names()
	out := make([]rules.Rule, 0, len(names))
	for _, name := range names {
		rule, err := r.New(name)
		if err != nil {
			continue
		}
		out = append(out, rule)
	}
	return out
}
