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

// Package config loads the cclint configuration surface: rule toggles,
// severities, per-rule parameters and file include/exclude patterns. It
// is grounded on ConfigLoader/YamlConfig/Config
// (src/config/{config_loader,yaml_config,config_types}.*): the Go port
// finishes the YAML parsing the C++ reference left stubbed out behind
// a "yaml-cpp dependency will be added in Milestone 2" TODO, using
// gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/KikuchiTomo/cclint/internal/diag"
)

// candidateFilenames is searched, in order, up the directory tree from the
// start directory when no explicit config path is given. Mirrors
// ConfigLoader::CONFIG_FILENAMES.
var candidateFilenames = []string{".cclint.yml", ".cclint.yaml", "cclint.yml", "cclint.yaml"}

// RuleConfig is one entry of Config.Rules. Mirrors config::RuleConfig.
type RuleConfig struct {
	Name       string            `yaml:"name"`
	Enabled    bool              `yaml:"enabled"`
	Priority   int               `yaml:"priority"`
	Severity   diag.Severity     `yaml:"-"`
	SeverityRaw string           `yaml:"severity"`
	Parameters map[string]string `yaml:"parameters"`
}

// Config is the fully resolved configuration struct passed to the core.
// Mirrors config::Config, minus the Lua-script list (internal/script's
// seam takes scripts by direct registration, not config-file declaration,
// since no embedded interpreter is wired in).
type Config struct {
	Version     string `yaml:"version"`
	CppStandard string `yaml:"cpp_standard"`

	IncludePatterns []string `yaml:"include_patterns"`
	ExcludePatterns []string `yaml:"exclude_patterns"`

	Rules []RuleConfig `yaml:"rules"`

	OutputFormat        string `yaml:"output_format"`
	MaxErrors            int   `yaml:"max_errors"`
	ShowCompilerOutput   bool  `yaml:"show_compiler_output"`

	NumThreads      int    `yaml:"num_threads"`
	EnableCache     bool   `yaml:"enable_cache"`
	CacheDirectory  string `yaml:"cache_directory"`

	EnableIncremental bool   `yaml:"enable_incremental"`
	UseGitDiff        bool   `yaml:"use_git_diff"`
	GitBaseRef        string `yaml:"git_base_ref"`

	ParallelRules bool `yaml:"parallel_rules"`
	FailFast      bool `yaml:"fail_fast"`

	EnableSemanticAnalysis bool `yaml:"enable_semantic_analysis"`
}

// Default returns the zero-config baseline, matching ConfigLoader::get_default_config
// (config_types.hpp's in-class field initializers).
func Default() Config {
	return Config{
		Version:              "1.0",
		CppStandard:          "auto",
		OutputFormat:         "text",
		ShowCompilerOutput:   true,
		EnableCache:          true,
		CacheDirectory:       ".cclint_cache",
		GitBaseRef:           "HEAD",
		ParallelRules:        true,
		EnableSemanticAnalysis: true,
	}
}

// Load resolves a configuration the way ConfigLoader::load does: an
// explicit path if given, otherwise a search up startDir's ancestry for one
// of candidateFilenames, falling back to Default() when nothing is found.
func Load(configPath, startDir string) (Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return Config{}, fmt.Errorf("config file not found: %s", configPath)
		}
		return LoadFromFile(configPath)
	}

	found, err := searchConfigFile(startDir)
	if err != nil {
		return Config{}, err
	}
	if found == "" {
		return Default(), nil
	}
	return LoadFromFile(found)
}

// LoadFromFile parses the YAML document at path into a Config seeded with
// Default() field values, so a sparse document only overrides what it
// mentions.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	for i := range cfg.Rules {
		if cfg.Rules[i].SeverityRaw == "" {
			cfg.Rules[i].Severity = diag.Warning
			continue
		}
		sev, err := parseSeverityStrict(cfg.Rules[i].SeverityRaw)
		if err != nil {
			return Config{}, err
		}
		cfg.Rules[i].Severity = sev
	}

	return cfg, nil
}

// parseSeverityStrict mirrors YamlConfig::parse_severity: only error/
// warning/info are recognized rule severities (unlike diag.ParseSeverity,
// which also accepts "note" for diagnostic notes).
func parseSeverityStrict(s string) (diag.Severity, error) {
	switch s {
	case "error", "Error":
		return diag.Error, nil
	case "warning", "Warning":
		return diag.Warning, nil
	case "info", "Info":
		return diag.Info, nil
	default:
		return 0, fmt.Errorf("invalid severity: %s", s)
	}
}

// ShouldAnalyzeFile applies IncludePatterns/ExcludePatterns to path the way
// AnalysisEngine::should_analyze_file does: an empty include list matches
// everything, a non-empty one requires at least one match, and any exclude
// match always wins. Patterns are doublestar globs rather than
// filepath.Match's single-segment globs, so "**/third_party/**" works as
// authors expect.
func ShouldAnalyzeFile(cfg Config, path string) bool {
	if len(cfg.IncludePatterns) > 0 {
		matched := false
		for _, pattern := range cfg.IncludePatterns {
			if ok, _ := doublestar.Match(pattern, path); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, pattern := range cfg.ExcludePatterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return false
		}
	}

	return true
}

func searchConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving start directory: %w", err)
	}

	for {
		for _, name := range candidateFilenames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
