package output_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/output"
	"github.com/KikuchiTomo/cclint/internal/token"
)

func sampleDiagnostics() []diag.Diagnostic {
	return []diag.Diagnostic{
		{
			Severity: diag.Warning,
			RuleName: "max-line-length",
			Message:  "line too long",
			Location: token.Position{Filename: "a.cc", Line: 3, Column: 1},
			FixHints: []diag.FixItHint{{
				Range:       token.Range{Begin: token.Position{Filename: "a.cc", Line: 3, Column: 1}, End: token.Position{Filename: "a.cc", Line: 3, Column: 5}},
				Replacement: "foo",
			}},
		},
		{
			Severity: diag.Error,
			RuleName: "naming-convention",
			Message:  "bad name",
			Location: token.Position{Filename: "a.cc", Line: 10, Column: 5},
		},
	}
}

func TestTextRendersOnePerLineWithSummary(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, output.Text(sampleDiagnostics(), &sb))

	out := sb.String()
	assert.Contains(t, out, "a.cc:3:1: warning [max-line-length]: line too long")
	assert.Contains(t, out, "fix-it:")
	assert.Contains(t, out, "1 error(s), 1 warning(s), 0 info message(s) generated.")
}

func TestTextReportsNoIssuesFound(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, output.Text(nil, &sb))
	assert.Equal(t, "No issues found.\n", sb.String())
}

func TestJSONProducesSummaryAndDiagnosticsArray(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, output.JSON(sampleDiagnostics(), &sb))

	var doc struct {
		Diagnostics []struct {
			Severity string `json:"severity"`
			Rule     string `json:"rule"`
			Location struct {
				Line int `json:"line"`
			} `json:"location"`
			Fixits []struct {
				Replacement string `json:"replacement"`
			} `json:"fixits"`
		} `json:"diagnostics"`
		Summary struct {
			Total    int `json:"total"`
			Errors   int `json:"errors"`
			Warnings int `json:"warnings"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(sb.String()), &doc))

	require.Len(t, doc.Diagnostics, 2)
	assert.Equal(t, "warning", doc.Diagnostics[0].Severity)
	assert.Equal(t, 3, doc.Diagnostics[0].Location.Line)
	require.Len(t, doc.Diagnostics[0].Fixits, 1)
	assert.Equal(t, "foo", doc.Diagnostics[0].Fixits[0].Replacement)
	assert.Equal(t, 2, doc.Summary.Total)
	assert.Equal(t, 1, doc.Summary.Errors)
	assert.Equal(t, 1, doc.Summary.Warnings)
}

func TestXMLProducesCclintRootWithDiagnosticsAndSummary(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, output.XML(sampleDiagnostics(), &sb))

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "<cclint>")
	assert.Contains(t, out, "<rule>max-line-length</rule>")
	assert.Contains(t, out, "<total>2</total>")
	assert.Contains(t, out, "<errors>1</errors>")
}

func TestFormatDispatchesByName(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, output.Format(sampleDiagnostics(), "json", &sb))
	assert.Contains(t, sb.String(), `"diagnostics"`)

	sb.Reset()
	require.NoError(t, output.Format(sampleDiagnostics(), "", &sb))
	assert.Contains(t, sb.String(), "warning [max-line-length]")
}

func TestFormatRejectsUnknownName(t *testing.T) {
	var sb strings.Builder
	err := output.Format(nil, "yaml", &sb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}
