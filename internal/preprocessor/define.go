package preprocessor

import (
	"github.com/KikuchiTomo/cclint/internal/lexer"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// parseDefine parses the token sequence following a `#define` directive
// keyword, working from the directive's own tokens rather than raw text
// to avoid ambiguity. The directive's tokens have already been lexed;
// this walks them to split
// name, optional parameter list, and replacement tokens, rewriting '#' and
// '##' within the replacement list into MacroStringify/MacroConcat.
func parseDefine(directiveTokens []token.Token, pos token.Position) (*Macro, error) {
	c := newCursor(directiveTokens)
	nameTok := c.next()
	if nameTok.Kind != token.Identifier && !nameTok.Kind.IsKeyword() {
		return nil, newError(pos, "#define requires a macro name")
	}

	m := &Macro{Name: nameTok.Text, DefinitionSite: pos}

	// Function-like iff '(' immediately follows the name with no
	// intervening whitespace.
	if c.peek().Kind == token.LeftParen && !c.peek().HasWhitespaceBefore {
		c.next()
		m.IsFunctionLike = true
		if err := parseParameterList(c, m); err != nil {
			return nil, err
		}
	}

	m.Replacement = rewriteReplacementMarkers(remainingTokens(c))
	return m, nil
}

func parseParameterList(c *cursor, m *Macro) error {
	if c.peek().Kind == token.RightParen {
		c.next()
		return nil
	}
	for {
		tok := c.next()
		switch {
		case tok.Kind == token.Ellipsis:
			m.IsVariadic = true
			m.Parameters = append(m.Parameters, VariadicParameter)
		case tok.Kind == token.Identifier:
			m.Parameters = append(m.Parameters, tok.Text)
			if c.peek().Kind == token.Ellipsis {
				c.next()
				m.IsVariadic = true
				// Named variadic parameter, e.g. "Args...": keep the given
				// name instead of __VA_ARGS__.
			}
		default:
			return newError(tok.Position, "invalid macro parameter %q", tok.Text)
		}
		switch c.peek().Kind {
		case token.Comma:
			c.next()
			continue
		case token.RightParen:
			c.next()
			return nil
		default:
			return newError(c.peek().Position, "expected ',' or ')' in macro parameter list")
		}
	}
}

func remainingTokens(c *cursor) []token.Token {
	var out []token.Token
	for !c.atEnd() {
		out = append(out, c.next())
	}
	return out
}

// rewriteReplacementMarkers turns Hash/HashHash tokens found in a
// replacement list into MacroStringify/MacroConcat so the expander need not
// special-case the macro-body position of '#' versus its ordinary meaning.
func rewriteReplacementMarkers(toks []token.Token) []token.Token {
	out := make([]token.Token, len(toks))
	for i, tok := range toks {
		switch tok.Kind {
		case token.Hash:
			tok.Kind = token.MacroStringify
		case token.HashHash:
			tok.Kind = token.MacroConcat
		}
		out[i] = tok
	}
	return out
}

// lexDirectiveBody lexes a macro replacement/condition text fragment in
// isolation, discarding lexical errors the surrounding translation unit
// already has no file context for (they are extremely rare in well-formed
// macro bodies and the preprocessor re-reports structural problems itself).
func lexDirectiveBody(text string, filename string) []token.Token {
	toks, _ := lexer.Lex([]byte(text), filename)
	if len(toks) > 0 && toks[len(toks)-1].Kind == token.EOF {
		toks = toks[:len(toks)-1]
	}
	return toks
}
