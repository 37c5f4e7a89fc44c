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

// Package cache implements an on-disk result cache for compatibility:
// one file per analyzed source path, named after that path with its
// separators replaced by underscores (the file name is not a hash of the
// path), containing a hash line, a timestamp line, a count line and N*6
// diagnostic lines. Grounded
// on FileCache (src/cache/file_cache.cpp), generalized from its size+mtime
// placeholder hash (the C++ comment calls out that a real SHA256
// "本来は専用ライブラリを使うべき" — should really use a dedicated library)
// to Go's stdlib crypto/sha256 — a content hash has no domain-specific
// behavior a third-party package would add over the standard library.
package cache

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// Entry is one cached result, read back via Get.
type Entry struct {
	FilePath    string
	FileHash    string
	Timestamp   time.Time
	Diagnostics []diag.Diagnostic
}

// Cache is a directory of per-source-path result files. Mirrors
// cclint::cache::FileCache.
type Cache struct {
	dir string
}

// New returns a Cache rooted at dir, creating it if necessary. Mirrors
// FileCache's constructor calling ensure_cache_dir_exists.
func New(dir string) (*Cache, error) {
	c := &Cache{dir: dir}
	if err := c.ensureDirExists(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cache) ensureDirExists() error {
	if _, err := os.Stat(c.dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %q: %w", c.dir, err)
	}
	return nil
}

// HashFile computes FileCache::calculate_file_hash's content-identity key.
// The size+mtime placeholder the C++ reference uses is replaced here by an
// actual content hash, since cclint already reads the file into memory for
// lexing and so paying for a hash is free; unlike the placeholder, this
// correctly detects content-identical touches and in-place edits.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hashing %q: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get reads back a cached entry for path, returning ok=false if no cache
// file exists or its stored hash no longer matches currentHash. Mirrors
// FileCache::get.
func (c *Cache) Get(path, currentHash string) (Entry, bool) {
	cacheFile := c.cacheFilePath(path)
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return Entry{}, false
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	hashLine, ok := nextLine(scanner)
	if !ok || hashLine != currentHash {
		return Entry{}, false
	}

	tsLine, ok := nextLine(scanner)
	if !ok {
		return Entry{}, false
	}
	tsNanos, err := strconv.ParseInt(tsLine, 10, 64)
	if err != nil {
		return Entry{}, false
	}

	countLine, ok := nextLine(scanner)
	if !ok {
		return Entry{}, false
	}
	count, err := strconv.Atoi(countLine)
	if err != nil || count < 0 {
		return Entry{}, false
	}

	var diags []diag.Diagnostic
	for i := 0; i < count; i++ {
		sevLine, ok := nextLine(scanner)
		if !ok {
			return Entry{}, false
		}
		sevInt, err := strconv.Atoi(sevLine)
		if err != nil {
			return Entry{}, false
		}
		ruleName, ok := nextLine(scanner)
		if !ok {
			return Entry{}, false
		}
		message, ok := nextLine(scanner)
		if !ok {
			return Entry{}, false
		}
		filename, ok := nextLine(scanner)
		if !ok {
			return Entry{}, false
		}
		lineStr, ok := nextLine(scanner)
		if !ok {
			return Entry{}, false
		}
		lineNum, err := strconv.Atoi(lineStr)
		if err != nil {
			return Entry{}, false
		}
		colStr, ok := nextLine(scanner)
		if !ok {
			return Entry{}, false
		}
		colNum, err := strconv.Atoi(colStr)
		if err != nil {
			return Entry{}, false
		}

		diags = append(diags, diag.Diagnostic{
			Severity: diag.Severity(sevInt),
			RuleName: ruleName,
			Message:  message,
			Location: token.Position{Filename: filename, Line: lineNum, Column: colNum},
		})
	}

	return Entry{
		FilePath:    path,
		FileHash:    hashLine,
		Timestamp:   time.Unix(0, tsNanos),
		Diagnostics: diags,
	}, true
}

// Put writes back the cache entry for path, overwriting any prior one.
// Mirrors FileCache::put; failures are non-fatal (cache writes are
// best-effort, same as the C++ reference's empty catch blocks), so Put
// returns an error only for the caller to log, never to abort analysis on.
func (c *Cache) Put(path, fileHash string, diagnostics []diag.Diagnostic) error {
	cacheFile := c.cacheFilePath(path)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", fileHash)
	fmt.Fprintf(&sb, "%d\n", time.Now().UnixNano())
	fmt.Fprintf(&sb, "%d\n", len(diagnostics))
	for _, d := range diagnostics {
		fmt.Fprintf(&sb, "%d\n", int(d.Severity))
		fmt.Fprintf(&sb, "%s\n", d.RuleName)
		fmt.Fprintf(&sb, "%s\n", d.Message)
		fmt.Fprintf(&sb, "%s\n", d.Location.Filename)
		fmt.Fprintf(&sb, "%d\n", d.Location.Line)
		fmt.Fprintf(&sb, "%d\n", d.Location.Column)
	}

	if err := os.WriteFile(cacheFile, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing cache file %q: %w", cacheFile, err)
	}
	return nil
}

// Clear removes every cached entry. Mirrors FileCache::clear.
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("clearing cache directory %q: %w", c.dir, err)
	}
	return c.ensureDirExists()
}

// Cleanup removes cache files whose mtime is older than maxAgeDays. Mirrors
// FileCache::cleanup.
func (c *Cache) Cleanup(maxAgeDays int) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache directory %q: %w", c.dir, err)
	}

	cutoff := time.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(c.dir, entry.Name()))
		}
	}
	return nil
}

// cacheFilePath mirrors FileCache::get_cache_file_path: path separators are
// replaced with underscores so the cache directory stays flat.
func (c *Cache) cacheFilePath(path string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		default:
			return r
		}
	}, path)
	return filepath.Join(c.dir, sanitized+".cache")
}

func nextLine(s *bufio.Scanner) (string, bool) {
	if !s.Scan() {
		return "", false
	}
	return s.Text(), true
}
