// Package preprocessor implements the macro table, conditional-compilation
// stack, include resolution, and the macro expander, layered on top of
// internal/lexer's token stream. In the default "linter mode" macros are
// not expanded and includes are not followed, so rules see macro
// invocations as written. Directive lines themselves are consumed by the
// preprocessor in every mode and do not appear in the returned token
// stream; their text is only in the raw file content. Options enables
// full expansion for the rare rule or tool that needs it.
package preprocessor

import (
	"path/filepath"
	"strconv"

	"github.com/KikuchiTomo/cclint/internal/lexer"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// Options configures a Preprocessor's behavior.
type Options struct {
	// ExpandMacros expands macro invocations in the output stream. Default
	// false so rule authors see the raw invocation.
	ExpandMacros bool
	// ExpandIncludes follows #include directives and splices the included
	// file's tokens into the stream.
	ExpandIncludes bool
	// ExpandSystemIncludes additionally follows angle-bracket includes
	// resolved against SystemPaths. Has no effect unless ExpandIncludes.
	ExpandSystemIncludes bool
	// IncludePaths and SystemPaths feed IncludeResolver.
	IncludePaths []string
	SystemPaths  []string
	// PredefinedMacros installs additional macros (as if from -D flags)
	// before processing begins; name to replacement text.
	PredefinedMacros map[string]string
	// ReadFile overrides how #include resolves file contents; nil uses
	// os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// Preprocessor runs the directive/macro pipeline over one translation
// unit at a time. A fresh Preprocessor should be constructed
// per translation unit: the macro table and conditional/include state are
// not meant to be shared across files with unrelated content, though
// Macros can be seeded from a shared base via Options.PredefinedMacros or
// by calling Macros.Define directly before Process.
type Preprocessor struct {
	Macros   *Table
	Includes *IncludeResolver

	expandMacros   bool
	expandIncludes bool

	conditional conditionalStack
	errors      []error
}

// New constructs a Preprocessor with its macro table primed with the
// required predefined macros.
func New(opts Options) *Preprocessor {
	p := &Preprocessor{
		Macros:         NewTable(),
		Includes:       NewIncludeResolver(opts.ReadFile),
		expandMacros:   opts.ExpandMacros,
		expandIncludes: opts.ExpandIncludes,
	}
	p.Includes.IncludePaths = opts.IncludePaths
	p.Includes.SystemPaths = opts.SystemPaths
	p.Includes.ExpandSystemIncludes = opts.ExpandSystemIncludes
	p.definePredefined(opts.PredefinedMacros)
	return p
}

func (p *Preprocessor) definePredefined(extra map[string]string) {
	define := func(name, text string) {
		p.Macros.Define(&Macro{Name: name, Replacement: lexDirectiveBody(text, "<builtin>")})
	}
	define("__cplusplus", "201703L")
	define("__STDC_HOSTED__", "1")
	define("__DATE__", `"Jan  1 1970"`)
	define("__TIME__", `"00:00:00"`)
	define("__FILE__", `""`)
	define("__LINE__", "0")
	for name, value := range extra {
		define(name, value)
	}
}

// Errors returns every diagnostic recorded while processing so far.
func (p *Preprocessor) Errors() []error { return p.errors }

func (p *Preprocessor) errorf(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, newError(pos, format, args...))
}

// Process lexes source and runs it through directive handling, conditional
// skipping, and (if enabled) macro expansion and include splicing,
// returning the resulting public token stream terminated by EOF.
func (p *Preprocessor) Process(source []byte, filename string) ([]token.Token, []error) {
	p.Macros.Define(&Macro{Name: "__FILE__", Replacement: lexDirectiveBody(`"`+filename+`"`, filename)})

	toks, lexErrs := lexer.Lex(source, filename)
	for _, e := range lexErrs {
		p.errors = append(p.errors, Error{Position: e.Position, Message: e.Message})
	}

	out := p.processTokens(toks, filepath.Dir(filename))
	if p.conditional.unterminated() {
		p.errorf(zeroPos, "unterminated conditional: missing #endif in %s", filename)
	}
	out = append(out, token.EOFToken)
	return out, p.errors
}

// processTokens walks a lexed token stream (already terminated by EOF),
// splitting it into directive lines and plain code runs, and returns the
// tokens that survive conditional skipping (and macro expansion, if
// enabled).
func (p *Preprocessor) processTokens(toks []token.Token, currentDir string) []token.Token {
	var out []token.Token
	i := 0
	for i < len(toks) {
		tok := toks[i]
		if tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.Hash && tok.IsAtStartOfLine {
			lineEnd := i + 1
			for lineEnd < len(toks) && !toks[lineEnd].IsAtStartOfLine && toks[lineEnd].Kind != token.EOF {
				lineEnd++
			}
			out = p.handleDirective(toks[i+1:lineEnd], tok.Position, currentDir, out)
			i = lineEnd
			continue
		}

		runEnd := i + 1
		for runEnd < len(toks) {
			t := toks[runEnd]
			if t.Kind == token.EOF || (t.Kind == token.Hash && t.IsAtStartOfLine) {
				break
			}
			runEnd++
		}
		if p.conditional.active() {
			run := toks[i:runEnd]
			p.updateLine(run)
			if p.expandMacros {
				run = Expand(run, p.Macros)
			}
			out = append(out, run...)
		}
		i = runEnd
	}
	return out
}

func (p *Preprocessor) updateLine(run []token.Token) {
	if len(run) == 0 {
		return
	}
	line := strconv.Itoa(run[0].Position.Line)
	p.Macros.Define(&Macro{Name: "__LINE__", Replacement: []token.Token{
		{Kind: token.IntegerLiteral, Text: line, Value: line},
	}})
}

func (p *Preprocessor) handleDirective(toks []token.Token, hashPos token.Position, currentDir string, out []token.Token) []token.Token {
	if len(toks) == 0 {
		return out // the null directive "#" alone
	}
	word := toks[0].Text
	kind, ok := directiveKind(word)
	rest := toks[1:]
	if !ok {
		if p.conditional.active() {
			p.errorf(hashPos, "unknown preprocessor directive #%s", word)
		}
		return out
	}

	switch kind {
	case token.PPIf, token.PPIfdef, token.PPIfndef:
		return p.handleIf(kind, rest, hashPos, out)
	case token.PPElif, token.PPElifdef, token.PPElifndef:
		return p.handleElif(kind, rest, hashPos, out)
	case token.PPElse:
		if err := p.conditional.els(); err != nil {
			p.errors = append(p.errors, err)
		}
		return out
	case token.PPEndif:
		if err := p.conditional.endif(); err != nil {
			p.errors = append(p.errors, err)
		}
		return out
	}

	if !p.conditional.active() {
		return out
	}
	switch kind {
	case token.PPDefine:
		p.handleDefine(rest, hashPos)
	case token.PPUndef:
		if len(rest) > 0 {
			p.Macros.Undef(rest[0].Text)
		}
	case token.PPInclude, token.PPIncludeNext:
		out = p.handleInclude(rest, hashPos, currentDir, out)
	case token.PPError:
		p.errorf(hashPos, "#error %s", reconstructText(rest))
	case token.PPWarning:
		p.errorf(hashPos, "#warning %s", reconstructText(rest))
	case token.PPPragma, token.PPLine:
		// Accepted and otherwise inert in linter mode.
	}
	return out
}

func (p *Preprocessor) handleIf(kind token.Kind, rest []token.Token, hashPos token.Position, out []token.Token) []token.Token {
	if !p.conditional.active() {
		p.conditional.push(false)
		return out
	}
	var condTrue bool
	switch kind {
	case token.PPIfdef:
		condTrue = len(rest) > 0 && p.Macros.IsDefined(rest[0].Text)
	case token.PPIfndef:
		condTrue = len(rest) == 0 || !p.Macros.IsDefined(rest[0].Text)
	default:
		condTrue = p.evalCondition(rest, hashPos)
	}
	p.conditional.push(condTrue)
	return out
}

func (p *Preprocessor) handleElif(kind token.Kind, rest []token.Token, hashPos token.Position, out []token.Token) []token.Token {
	var condTrue bool
	if p.conditional.parentActive() && len(p.conditional.frames) > 0 && !p.conditional.frames[len(p.conditional.frames)-1].anyTaken {
		switch kind {
		case token.PPElifdef:
			condTrue = len(rest) > 0 && p.Macros.IsDefined(rest[0].Text)
		case token.PPElifndef:
			condTrue = len(rest) == 0 || !p.Macros.IsDefined(rest[0].Text)
		default:
			condTrue = p.evalCondition(rest, hashPos)
		}
	}
	if err := p.conditional.elif(condTrue); err != nil {
		p.errors = append(p.errors, err)
	}
	return out
}

func (p *Preprocessor) evalCondition(rest []token.Token, hashPos token.Position) bool {
	expanded := Expand(rest, p.Macros)
	expr, err := parseIfExpression(expanded)
	if err != nil {
		p.errors = append(p.errors, err)
		return false
	}
	v, err := Evaluate(expr, p.Macros)
	if err != nil {
		p.errorf(hashPos, "%v", err)
		return false
	}
	return v
}

func (p *Preprocessor) handleDefine(rest []token.Token, hashPos token.Position) {
	m, err := parseDefine(rest, hashPos)
	if err != nil {
		p.errors = append(p.errors, err)
		return
	}
	if existing, ok := p.Macros.Lookup(m.Name); ok && !sameDefinition(existing, m) {
		p.errorf(hashPos, "macro %q redefined with a different definition", m.Name)
	}
	p.Macros.Define(m)
}

func (p *Preprocessor) handleInclude(rest []token.Token, hashPos token.Position, currentDir string, out []token.Token) []token.Token {
	if !p.expandIncludes {
		return out
	}
	parsed, ok := parseIncludeOperand(reconstructText(rest))
	if !ok {
		expanded := Expand(rest, p.Macros)
		parsed, ok = parseIncludeOperand(reconstructText(expanded))
		if !ok {
			p.errorf(hashPos, "malformed #include operand")
			return out
		}
	}

	data, resolvedPath, included, err := p.Includes.Resolve(parsed.path, parsed.isSystem, currentDir)
	if err != nil {
		p.errorf(hashPos, "%v", err)
		return out
	}
	if !included {
		return out
	}

	innerToks, lexErrs := lexer.Lex(data, resolvedPath)
	for _, e := range lexErrs {
		p.errors = append(p.errors, Error{Position: e.Position, Message: e.Message})
	}
	innerOut := p.processTokens(innerToks, filepath.Dir(resolvedPath))
	return append(out, innerOut...)
}
