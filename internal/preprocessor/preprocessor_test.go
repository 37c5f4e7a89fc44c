package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KikuchiTomo/cclint/internal/token"
)

func textOf(toks []token.Token) []string {
	var out []string
	for _, tk := range toks {
		if tk.Kind != token.EOF {
			out = append(out, tk.Text)
		}
	}
	return out
}

func TestProcessPassesPlainCodeThrough(t *testing.T) {
	p := New(Options{})
	toks, errs := p.Process([]byte("int x = 1;"), "t.cc")
	assert.Empty(t, errs)
	assert.Equal(t, []string{"int", "x", "=", "1", ";"}, textOf(toks))
}

func TestProcessLinterModeLeavesDirectivesUnexpanded(t *testing.T) {
	p := New(Options{}) // expand_macros defaults false
	toks, errs := p.Process([]byte("#define VALUE 100\nint x = VALUE;"), "t.cc")
	assert.Empty(t, errs)
	assert.Equal(t, []string{"int", "x", "=", "VALUE", ";"}, textOf(toks))
	assert.True(t, p.Macros.IsDefined("VALUE"))
}

func TestProcessExpandMacrosOption(t *testing.T) {
	p := New(Options{ExpandMacros: true})
	toks, errs := p.Process([]byte("#define VALUE 100\nint x = VALUE;"), "t.cc")
	assert.Empty(t, errs)
	assert.Equal(t, []string{"int", "x", "=", "100", ";"}, textOf(toks))
}

func TestProcessIfdefActiveBranch(t *testing.T) {
	p := New(Options{PredefinedMacros: map[string]string{"FEATURE": "1"}})
	toks, errs := p.Process([]byte("#ifdef FEATURE\nint on;\n#else\nint off;\n#endif"), "t.cc")
	assert.Empty(t, errs)
	assert.Equal(t, []string{"int", "on", ";"}, textOf(toks))
}

func TestProcessIfdefInactiveBranch(t *testing.T) {
	p := New(Options{})
	toks, errs := p.Process([]byte("#ifdef FEATURE\nint on;\n#else\nint off;\n#endif"), "t.cc")
	assert.Empty(t, errs)
	assert.Equal(t, []string{"int", "off", ";"}, textOf(toks))
}

func TestProcessNestedConditionals(t *testing.T) {
	p := New(Options{})
	source := "#if 0\n#if 1\nint a;\n#endif\n#else\nint b;\n#endif"
	toks, errs := p.Process([]byte(source), "t.cc")
	assert.Empty(t, errs)
	assert.Equal(t, []string{"int", "b", ";"}, textOf(toks))
}

func TestProcessElifChain(t *testing.T) {
	p := New(Options{})
	source := "#if 0\nint a;\n#elif 0\nint b;\n#elif 1\nint c;\n#else\nint d;\n#endif"
	toks, errs := p.Process([]byte(source), "t.cc")
	assert.Empty(t, errs)
	assert.Equal(t, []string{"int", "c", ";"}, textOf(toks))
}

func TestProcessIfConstantExpression(t *testing.T) {
	p := New(Options{})
	source := "#if (2 + 2) == 4\nint ok;\n#endif"
	toks, errs := p.Process([]byte(source), "t.cc")
	assert.Empty(t, errs)
	assert.Equal(t, []string{"int", "ok", ";"}, textOf(toks))
}

func TestProcessUndef(t *testing.T) {
	p := New(Options{})
	_, errs := p.Process([]byte("#define FOO 1\n#undef FOO\n#ifdef FOO\nint bad;\n#endif"), "t.cc")
	assert.Empty(t, errs)
	assert.False(t, p.Macros.IsDefined("FOO"))
}

func TestProcessUnterminatedConditionalReportsError(t *testing.T) {
	p := New(Options{})
	_, errs := p.Process([]byte("#if 1\nint x;\n"), "t.cc")
	assert.NotEmpty(t, errs)
}

func TestProcessUnmatchedEndifReportsError(t *testing.T) {
	p := New(Options{})
	_, errs := p.Process([]byte("#endif\n"), "t.cc")
	assert.NotEmpty(t, errs)
}

func TestProcessIncludeResolution(t *testing.T) {
	files := map[string][]byte{
		"inc/header.h": []byte("int from_header;"),
	}
	p := New(Options{
		ExpandIncludes: true,
		IncludePaths:   []string{"inc"},
		ReadFile: func(path string) ([]byte, error) {
			data, ok := files[path]
			if !ok {
				return nil, assertErr{path}
			}
			return data, nil
		},
	})
	toks, errs := p.Process([]byte(`#include "header.h"`+"\n"+"int x;"), "t.cc")
	assert.Empty(t, errs)
	assert.Equal(t, []string{"int", "from_header", ";", "int", "x", ";"}, textOf(toks))
}

func TestProcessIncludeGuardSkipsSecondInclusion(t *testing.T) {
	files := map[string][]byte{
		"inc/header.h": []byte("int from_header;"),
	}
	p := New(Options{
		ExpandIncludes: true,
		IncludePaths:   []string{"inc"},
		ReadFile: func(path string) ([]byte, error) {
			data, ok := files[path]
			if !ok {
				return nil, assertErr{path}
			}
			return data, nil
		},
	})
	toks, errs := p.Process([]byte(`#include "header.h"`+"\n"+`#include "header.h"`+"\n"), "t.cc")
	assert.Empty(t, errs)
	assert.Equal(t, []string{"int", "from_header", ";"}, textOf(toks))
}

type assertErr struct{ path string }

func (e assertErr) Error() string { return "no such file: " + e.path }
