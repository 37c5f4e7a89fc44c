package preprocessor

import (
	"strings"

	"github.com/KikuchiTomo/cclint/internal/collections"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// expander walks a token sequence, expanding macro uses not currently
// being expanded and re-scanning the substitution for further expansion.
// The "currently expanding" set is the same disabling-set technique the
// macro cycle guard and include-guard both use collections.Set for (see
// internal/collections.Set), generalized from file paths to macro names.
type expander struct {
	table     *Table
	expanding collections.Set[string]
}

// Expand fully macro-expands toks against table.
func Expand(toks []token.Token, table *Table) []token.Token {
	ex := &expander{table: table, expanding: make(collections.Set[string])}
	return ex.expandSequence(toks)
}

func (ex *expander) expandSequence(toks []token.Token) []token.Token {
	c := newCursor(toks)
	var out []token.Token
	for !c.atEnd() {
		tok := c.peek()
		if tok.Kind != token.Identifier {
			out = append(out, c.next())
			continue
		}
		macro, ok := ex.table.Lookup(tok.Text)
		if !ok || ex.expanding.Contains(tok.Text) {
			out = append(out, c.next())
			continue
		}
		expanded, consumed := ex.expandInvocation(c, macro)
		if !consumed {
			out = append(out, c.next())
			continue
		}
		out = append(out, expanded...)
	}
	return out
}

// expandInvocation expands one macro use starting at c's current position
// (which is the macro-name identifier). Returns (expandedTokens, true) if a
// use was recognized and consumed, or (nil, false) if c was left untouched
// (e.g. a function-like macro name not followed by '(').
func (ex *expander) expandInvocation(c *cursor, macro *Macro) ([]token.Token, bool) {
	if !macro.IsFunctionLike {
		c.next() // the macro name
		ex.expanding.Add(macro.Name)
		result := ex.expandSequence(macro.Replacement)
		delete(ex.expanding, macro.Name)
		return result, true
	}

	// Function-like: requires the next non-whitespace token to be '('.
	mark := c.mark()
	c.next() // macro name
	if c.peek().Kind != token.LeftParen {
		c.reset(mark)
		return nil, false
	}
	c.next() // '('

	args, ok := parseArguments(c)
	if !ok {
		c.reset(mark)
		return nil, false
	}

	bound, err := bindArguments(macro, args)
	if err != nil {
		// Arity mismatch: leave the invocation untouched rather than
		// aborting the rest of the file.
		c.reset(mark)
		return nil, false
	}

	// Pre-expand each argument once, used for substitutions that are
	// neither stringified nor pasted.
	preExpanded := make(map[string][]token.Token, len(bound))
	for name, argToks := range bound {
		preExpanded[name] = ex.expandSequence(argToks)
	}

	substituted := substitute(macro, bound, preExpanded)

	ex.expanding.Add(macro.Name)
	result := ex.expandSequence(substituted)
	delete(ex.expanding, macro.Name)
	return result, true
}

// parseArguments consumes tokens up to (and including) the matching ')',
// splitting on top-level commas (argument boundaries are top-level
// commas, not commas nested inside parens). Returns ok=false if the ')'
// is never found.
func parseArguments(c *cursor) ([][]token.Token, bool) {
	var args [][]token.Token
	var current []token.Token
	depth := 0
	if c.peek().Kind == token.RightParen {
		c.next()
		return nil, true
	}
	for {
		if c.atEnd() {
			return nil, false
		}
		tok := c.peek()
		switch {
		case tok.Kind == token.LeftParen:
			depth++
			current = append(current, c.next())
		case tok.Kind == token.RightParen:
			if depth == 0 {
				c.next()
				args = append(args, current)
				return args, true
			}
			depth--
			current = append(current, c.next())
		case tok.Kind == token.Comma && depth == 0:
			c.next()
			args = append(args, current)
			current = nil
		default:
			current = append(current, c.next())
		}
	}
}

// bindArguments maps each parameter name to its argument tokens, joining
// trailing arguments with commas into __VA_ARGS__ for variadic macros.
func bindArguments(macro *Macro, args [][]token.Token) (map[string][]token.Token, error) {
	bound := make(map[string][]token.Token)
	requiredParams := macro.Parameters
	if macro.IsVariadic && len(requiredParams) > 0 {
		requiredParams = requiredParams[:len(requiredParams)-1]
	}

	if macro.IsVariadic {
		if len(args) < len(requiredParams) {
			return nil, newError(token.Position{}, "too few arguments to macro %q", macro.Name)
		}
	} else if len(args) != len(requiredParams) {
		// A single empty argument for a zero-parameter macro call, e.g.
		// FOO(), is accepted as zero arguments.
		if !(len(requiredParams) == 0 && len(args) == 1 && len(args[0]) == 0) {
			return nil, newError(token.Position{}, "wrong number of arguments to macro %q", macro.Name)
		}
	}

	for i, name := range requiredParams {
		if i < len(args) {
			bound[name] = args[i]
		} else {
			bound[name] = nil
		}
	}
	if macro.IsVariadic {
		variadicName := macro.Parameters[len(macro.Parameters)-1]
		var rest []token.Token
		for i := len(requiredParams); i < len(args); i++ {
			if len(rest) > 0 {
				rest = append(rest, token.Token{Kind: token.Comma, Text: ","})
			}
			rest = append(rest, args[i]...)
		}
		bound[variadicName] = rest
	}
	return bound, nil
}

// substitute builds the replacement token list for one macro invocation,
// handling parameter substitution, stringification (#) and token pasting
// (##).
func substitute(macro *Macro, bound map[string][]token.Token, preExpanded map[string][]token.Token) []token.Token {
	repl := macro.Replacement
	var out []token.Token
	i := 0
	for i < len(repl) {
		tok := repl[i]

		if tok.Kind == token.MacroStringify && i+1 < len(repl) && isParamRef(repl[i+1], macro) {
			out = append(out, stringifyToken(bound[repl[i+1].Text]))
			i += 2
			continue
		}

		raw := i+1 < len(repl) && repl[i+1].Kind == token.MacroConcat
		thisToks := expandOperand(tok, macro, bound, preExpanded, raw)

		if raw {
			i += 2 // this token and the '##' that follows it
			for {
				if i >= len(repl) {
					break
				}
				rhsToks := expandOperand(repl[i], macro, bound, preExpanded, true)
				thisToks = pasteTokens(thisToks, rhsToks)
				i++
				if i < len(repl) && repl[i].Kind == token.MacroConcat {
					i++
					continue
				}
				break
			}
		} else {
			i++
		}
		out = append(out, thisToks...)
	}
	return out
}

func isParamRef(tok token.Token, macro *Macro) bool {
	return tok.Kind == token.Identifier && macro.paramIndex(tok.Text) >= 0
}

// expandOperand resolves one replacement-list token to the tokens it
// contributes: raw (unexpanded) argument tokens when adjacent to '##',
// otherwise the parameter's pre-expanded argument tokens, or the token
// itself if it is not a parameter reference at all.
func expandOperand(tok token.Token, macro *Macro, bound, preExpanded map[string][]token.Token, raw bool) []token.Token {
	if !isParamRef(tok, macro) {
		return []token.Token{tok}
	}
	if raw {
		return bound[tok.Text]
	}
	return preExpanded[tok.Text]
}

// stringifyToken implements the '#' operator: '"' plus token texts
// separated by single spaces, with '"' and '\' escaped.
func stringifyToken(argToks []token.Token) token.Token {
	parts := make([]string, len(argToks))
	for i, t := range argToks {
		parts[i] = t.Text
	}
	raw := strings.Join(parts, " ")
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(raw)
	text := `"` + escaped + `"`
	return token.Token{Kind: token.StringLiteral, Text: text, Value: escaped}
}

// pasteTokens implements the "##" operator: paste the last token of lhs
// with the first token of rhs, textually, producing a single token
// reclassified heuristically as an identifier if either side was one.
func pasteTokens(lhs, rhs []token.Token) []token.Token {
	if len(lhs) == 0 {
		return rhs
	}
	if len(rhs) == 0 {
		return lhs
	}
	last := lhs[len(lhs)-1]
	first := rhs[0]
	pastedText := last.Text + first.Text
	kind := token.Identifier
	if !last.Kind.IsKeyword() && !first.Kind.IsKeyword() {
		if last.Kind == token.IntegerLiteral && first.Kind == token.IntegerLiteral {
			kind = token.IntegerLiteral
		} else if last.Kind != token.Identifier && first.Kind != token.Identifier {
			kind = last.Kind
		}
	}
	pasted := token.Token{Kind: kind, Text: pastedText, Value: pastedText}

	out := make([]token.Token, 0, len(lhs)+len(rhs)-1)
	out = append(out, lhs[:len(lhs)-1]...)
	out = append(out, pasted)
	out = append(out, rhs[1:]...)
	return out
}
