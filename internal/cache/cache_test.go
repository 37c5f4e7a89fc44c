package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KikuchiTomo/cclint/internal/cache"
	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/token"
)

func TestPutThenGetRoundTripsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.New(filepath.Join(dir, ".cclint_cache"))
	require.NoError(t, err)

	diags := []diag.Diagnostic{
		{Severity: diag.Warning, RuleName: "max-line-length", Message: "line too long",
			Location: token.Position{Filename: "a.cc", Line: 3, Column: 1}},
		{Severity: diag.Error, RuleName: "naming-convention", Message: "bad name",
			Location: token.Position{Filename: "a.cc", Line: 10, Column: 5}},
	}

	require.NoError(t, c.Put("a.cc", "deadbeef", diags))

	entry, ok := c.Get("a.cc", "deadbeef")
	require.True(t, ok)
	require.Len(t, entry.Diagnostics, 2)
	assert.Equal(t, "max-line-length", entry.Diagnostics[0].RuleName)
	assert.Equal(t, diag.Error, entry.Diagnostics[1].Severity)
	assert.Equal(t, 10, entry.Diagnostics[1].Location.Line)
}

func TestGetMissesOnHashMismatch(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.New(dir)
	require.NoError(t, err)

	require.NoError(t, c.Put("a.cc", "hash1", nil))

	_, ok := c.Get("a.cc", "hash2")
	assert.False(t, ok)
}

func TestGetMissesWhenNoCacheFileExists(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.New(dir)
	require.NoError(t, err)

	_, ok := c.Get("never-cached.cc", "whatever")
	assert.False(t, ok)
}

func TestCacheFilePathSanitizesSeparators(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.New(dir)
	require.NoError(t, err)

	require.NoError(t, c.Put("src/widgets/a.cc", "h", nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "src_widgets_a.cc.cache", entries[0].Name())
}

func TestHashFileIsStableForIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.cc")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))

	h1, err := cache.HashFile(path)
	require.NoError(t, err)
	h2, err := cache.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	require.NoError(t, os.WriteFile(path, []byte("int y;\n"), 0o644))
	h3, err := cache.HashFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestClearRemovesAllEntries(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.New(dir)
	require.NoError(t, err)

	require.NoError(t, c.Put("a.cc", "h", nil))
	require.NoError(t, c.Clear())

	_, ok := c.Get("a.cc", "h")
	assert.False(t, ok)
}
