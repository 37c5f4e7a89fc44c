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

// Package incremental filters a file list down to those changed since a
// git ref, backing the config.EnableIncremental/UseGitDiff/GitBaseRef
// surface. Grounded on IncrementalAnalyzer (src/engine/incremental.cpp):
// this port keeps only its get_git_modified_files path (shelling out to
// "git diff --name-only"), since the mtime-based file_states_ bookkeeping
// it also offers duplicates what internal/cache's hash comparison already
// does more reliably, so it was left out rather than carried as dead
// code.
package incremental

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// sourceSuffixes mirrors IncrementalAnalyzer::get_git_modified_files's
// C/C++ extension filter.
var sourceSuffixes = []string{".cpp", ".cc", ".cxx", ".hpp", ".h"}

// GitModifiedFiles runs "git diff --name-only baseRef" in dir and returns
// the subset of changed paths with a recognized C/C++ suffix, in the order
// git reports them.
func GitModifiedFiles(ctx context.Context, dir, baseRef string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--name-only", baseRef)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git diff --name-only %s: %w: %s", baseRef, err, strings.TrimSpace(stderr.String()))
	}

	var files []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if hasSourceSuffix(line) {
			files = append(files, line)
		}
	}
	return files, nil
}

func hasSourceSuffix(path string) bool {
	for _, suffix := range sourceSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// Filter narrows files down to the set git reports as changed against
// baseRef, preserving files's relative order. Mirrors
// IncrementalAnalyzer::filter_modified_files, specialized to the git-diff
// source this package supports.
func Filter(ctx context.Context, dir, baseRef string, files []string) ([]string, error) {
	modified, err := GitModifiedFiles(ctx, dir, baseRef)
	if err != nil {
		return nil, err
	}

	changed := make(map[string]bool, len(modified))
	for _, f := range modified {
		changed[f] = true
	}

	var out []string
	for _, f := range files {
		if changed[f] {
			out = append(out, f)
		}
	}
	return out, nil
}
