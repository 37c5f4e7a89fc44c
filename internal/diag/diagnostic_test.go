package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/token"
)

func TestParseSeverityRecognizesCaseInsensitiveNames(t *testing.T) {
	cases := map[string]diag.Severity{
		"error":   diag.Error,
		"Error":   diag.Error,
		"warning": diag.Warning,
		"info":    diag.Info,
		"Note":    diag.Note,
		"bogus":   diag.Warning,
	}
	for in, want := range cases {
		assert.Equal(t, want, diag.ParseSeverity(in), "input %q", in)
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", diag.Error.String())
	assert.Equal(t, "warning", diag.Warning.String())
	assert.Equal(t, "info", diag.Info.String())
	assert.Equal(t, "note", diag.Note.String())
}

func TestEngineAddErrorWarningInfoCounts(t *testing.T) {
	e := diag.NewEngine()
	loc := token.Position{Filename: "a.cc", Line: 1, Column: 1}
	e.AddError("rule-a", "boom", loc)
	e.AddWarning("rule-b", "careful", loc)
	e.AddWarning("rule-c", "careful too", loc)
	e.AddInfo("rule-d", "fyi", loc)

	require.Equal(t, 4, e.TotalCount())
	assert.Equal(t, 1, e.ErrorCount())
	assert.Equal(t, 2, e.WarningCount())
	assert.Equal(t, 1, e.InfoCount())
	assert.True(t, e.HasErrors())
}

func TestEngineClearResetsState(t *testing.T) {
	e := diag.NewEngine()
	e.AddWarning("r", "m", token.Position{Filename: "a.cc", Line: 1, Column: 1})
	require.Equal(t, 1, e.TotalCount())
	e.Clear()
	assert.Equal(t, 0, e.TotalCount())
	assert.False(t, e.HasErrors())
}

func TestEngineMergeAppendsInOrder(t *testing.T) {
	a := diag.NewEngine()
	a.AddError("r1", "m1", token.Position{Filename: "a.cc", Line: 1, Column: 1})
	b := diag.NewEngine()
	b.AddWarning("r2", "m2", token.Position{Filename: "b.cc", Line: 2, Column: 1})

	a.Merge(b)
	require.Len(t, a.Diagnostics(), 2)
	assert.Equal(t, "r1", a.Diagnostics()[0].RuleName)
	assert.Equal(t, "r2", a.Diagnostics()[1].RuleName)
}

func TestDiagnosticStringIncludesLocationRuleAndFixHints(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.Warning,
		RuleName: "max-line-length",
		Message:  "line too long",
		Location: token.Position{Filename: "a.cc", Line: 3, Column: 1},
		FixHints: []diag.FixItHint{
			{
				Range:       token.Range{Begin: token.Position{Filename: "a.cc", Line: 3, Column: 1}, End: token.Position{Filename: "a.cc", Line: 3, Column: 2}},
				Replacement: "x",
			},
		},
	}
	s := d.String()
	assert.Contains(t, s, "a.cc:3:1")
	assert.Contains(t, s, "[max-line-length]")
	assert.Contains(t, s, "line too long")
	assert.Contains(t, s, "fix: replace")
}

func TestDiagnosticStringOmitsLocationWhenInvalid(t *testing.T) {
	d := diag.Diagnostic{Severity: diag.Error, Message: "no location"}
	s := d.String()
	assert.NotContains(t, s, "::")
	assert.Contains(t, s, "error: no location")
}
