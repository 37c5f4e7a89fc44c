package lsp_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KikuchiTomo/cclint/internal/config"
	"github.com/KikuchiTomo/cclint/internal/engine"
	"github.com/KikuchiTomo/cclint/internal/lsp"
)

func newServer(t *testing.T) *lsp.Server {
	t.Helper()
	cfg := config.Default()
	cfg.EnableCache = false
	eng, err := engine.New(cfg)
	require.NoError(t, err)
	return lsp.NewServer(eng)
}

func TestOnDidOpenAnalyzesAndCaches(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.hpp")
	require.NoError(t, os.WriteFile(path, []byte("struct Widget {};\n"), 0o644))

	diags := s.OnDidOpen("file:///widget.hpp", path)
	assert.NotEmpty(t, diags)
	assert.Equal(t, diags, s.Diagnose("file:///widget.hpp"))
}

func TestOnDidChangeReplacesCachedDiagnostics(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.hpp")
	require.NoError(t, os.WriteFile(path, []byte("struct Widget {};\n"), 0o644))
	s.OnDidOpen("file:///widget.hpp", path)

	require.NoError(t, os.WriteFile(path, []byte("#pragma once\nstruct Widget {};\n"), 0o644))
	diags := s.OnDidChange("file:///widget.hpp", path)
	assert.Empty(t, diags)
	assert.Equal(t, diags, s.Diagnose("file:///widget.hpp"))
}

func TestOnDidCloseDropsCachedDiagnostics(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.hpp")
	require.NoError(t, os.WriteFile(path, []byte("struct Widget {};\n"), 0o644))
	s.OnDidOpen("file:///widget.hpp", path)

	s.OnDidClose("file:///widget.hpp")
	assert.Nil(t, s.Diagnose("file:///widget.hpp"))
}

func TestDiagnoseReturnsNilForUnopenedDocument(t *testing.T) {
	s := newServer(t)
	assert.Nil(t, s.Diagnose("file:///never-opened.hpp"))
}
