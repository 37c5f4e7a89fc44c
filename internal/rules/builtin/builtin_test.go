package builtin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KikuchiTomo/cclint/internal/ast"
	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/lexer"
	"github.com/KikuchiTomo/cclint/internal/parser"
	"github.com/KikuchiTomo/cclint/internal/rules"
	"github.com/KikuchiTomo/cclint/internal/rules/builtin"
)

func parseSource(t *testing.T, src string) *ast.Node {
	t.Helper()
	toks, lexErrs := lexer.Lex([]byte(src), "test.cc")
	require.Empty(t, lexErrs)
	p := parser.New(toks, "test.cc")
	root := p.Parse()
	require.Empty(t, p.Errors())
	return root
}

func TestMaxLineLengthFlagsLongLines(t *testing.T) {
	r := builtin.NewMaxLineLength()
	r.Initialize(rules.Parameters{"max_length": "10"})

	eng := diag.NewEngine()
	r.CheckText("a.cc", "short\nthis line is definitely too long\n", eng)

	require.Len(t, eng.Diagnostics(), 1)
	assert.Equal(t, 2, eng.Diagnostics()[0].Location.Line)
}

func TestMaxLineLengthIgnoresURLsByDefault(t *testing.T) {
	r := builtin.NewMaxLineLength()
	r.Initialize(rules.Parameters{"max_length": "10"})

	eng := diag.NewEngine()
	r.CheckText("a.cc", "// see https://example.com/a/very/long/path/here\n", eng)

	assert.Empty(t, eng.Diagnostics())
}

func TestMaxLineLengthIgnoresCommentsWhenConfigured(t *testing.T) {
	r := builtin.NewMaxLineLength()
	r.Initialize(rules.Parameters{"max_length": "10", "ignore_comments": "true", "ignore_urls": "false"})

	eng := diag.NewEngine()
	r.CheckText("a.cc", "// this comment line is long\nthis code line is long too\n", eng)

	require.Len(t, eng.Diagnostics(), 1)
	assert.Equal(t, 2, eng.Diagnostics()[0].Location.Line)
}

func TestHeaderGuardFlagsMissingGuard(t *testing.T) {
	r := builtin.NewHeaderGuard()
	eng := diag.NewEngine()
	r.CheckText("widget.hpp", "struct Widget {};\n", eng)

	require.Len(t, eng.Diagnostics(), 1)
	assert.Contains(t, eng.Diagnostics()[0].Message, "missing header guard")
}

func TestHeaderGuardAcceptsPragmaOnce(t *testing.T) {
	r := builtin.NewHeaderGuard()
	eng := diag.NewEngine()
	r.CheckText("widget.hpp", "#pragma once\nstruct Widget {};\n", eng)

	assert.Empty(t, eng.Diagnostics())
}

func TestHeaderGuardAcceptsIfndefTriple(t *testing.T) {
	r := builtin.NewHeaderGuard()
	eng := diag.NewEngine()
	r.CheckText("widget.hpp", "#ifndef WIDGET_HPP\n#define WIDGET_HPP\nstruct Widget {};\n#endif\n", eng)

	assert.Empty(t, eng.Diagnostics())
}

func TestHeaderGuardSkipsNonHeaderFiles(t *testing.T) {
	r := builtin.NewHeaderGuard()
	eng := diag.NewEngine()
	r.CheckText("widget.cc", "struct Widget {};\n", eng)

	assert.Empty(t, eng.Diagnostics())
}

func TestNamingConventionFlagsBadFunctionAndClassNames(t *testing.T) {
	r := builtin.NewNamingConvention()
	eng := diag.NewEngine()
	r.CheckText("a.cc", "void DoSomething() {}\nclass lowercase_class {};\n", eng)

	require.Len(t, eng.Diagnostics(), 2)
}

func TestNamingConventionSkipsMain(t *testing.T) {
	r := builtin.NewNamingConvention()
	eng := diag.NewEngine()
	r.CheckText("a.cc", "int main() { return 0; }\n", eng)

	assert.Empty(t, eng.Diagnostics())
}

func TestNamingConventionFlagsBadConstantName(t *testing.T) {
	r := builtin.NewNamingConvention()
	eng := diag.NewEngine()
	// constantDeclPattern only ever captures [A-Z_][A-Z0-9_]* (it can't see
	// past a lowercase character), so a leading underscore is the one way
	// to trip upperCasePattern's stricter "^[A-Z]" requirement.
	r.CheckText("a.cc", "const int _FOO = 3;\n", eng)

	require.Len(t, eng.Diagnostics(), 1)
	assert.Contains(t, eng.Diagnostics()[0].Message, "UPPER_CASE")
}

func TestNamingConventionASTFlagsPublicMethodNotSnakeCase(t *testing.T) {
	root := parseSource(t, `
class Widget {
public:
	void DoThing();
};
`)
	r := builtin.NewNamingConvention()
	eng := diag.NewEngine()
	r.CheckAST("a.cc", root, eng)

	require.Len(t, eng.Diagnostics(), 1)
	assert.Contains(t, eng.Diagnostics()[0].Message, "DoThing")
}

func TestNamingConventionASTIgnoresPrivateMethods(t *testing.T) {
	root := parseSource(t, `
class Widget {
private:
	void DoThing();
};
`)
	r := builtin.NewNamingConvention()
	eng := diag.NewEngine()
	r.CheckAST("a.cc", root, eng)

	assert.Empty(t, eng.Diagnostics())
}

func TestFunctionComplexitySimpleFunctionIsOne(t *testing.T) {
	root := parseSource(t, `
void run() {
	doWork();
}
`)
	r := builtin.NewFunctionComplexity()
	eng := diag.NewEngine()
	r.CheckAST("a.cc", root, eng)

	assert.Empty(t, eng.Diagnostics())
	fn := root.Children[0]
	assert.Equal(t, 1, fn.CyclomaticComplexity)
}

func TestFunctionComplexityCountsBranchesAndFlagsOverMax(t *testing.T) {
	root := parseSource(t, `
void run(int x) {
	if (x > 0) {
		doA();
	} else if (x < 0) {
		doB();
	}
	for (int i = 0; i < x; i++) {
		doC();
	}
	switch (x) {
		case 1:
			doD();
			break;
		case 2:
			doE();
			break;
	}
}
`)
	r := builtin.NewFunctionComplexity()
	r.MaxComplexity = 3
	eng := diag.NewEngine()
	r.CheckAST("a.cc", root, eng)

	fn := root.Children[0]
	// 1 base + if + else-if + for + 2 cases = 6
	assert.Equal(t, 6, fn.CyclomaticComplexity)
	require.Len(t, eng.Diagnostics(), 1)
	assert.Contains(t, eng.Diagnostics()[0].Message, "cyclomatic complexity of 6")
}
