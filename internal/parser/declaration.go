package parser

import (
	"strings"

	"github.com/KikuchiTomo/cclint/internal/ast"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// typeLeadKinds are the token kinds parseType accumulates: keywords,
// identifiers, scope/pointer/reference punctuation, and template argument
// delimiters. Grounded on BuiltinParser::parse_type (builtin_parser.cpp).
func isTypeLeadKind(k token.Kind) bool {
	switch k {
	case token.Const, token.Static, token.Unsigned, token.Signed, token.Long, token.Short,
		token.Void, token.Int, token.Bool, token.Char, token.Float, token.Double, token.Auto,
		token.Identifier, token.DoubleColon, token.Less, token.Greater, token.Comma,
		token.Star, token.Ampersand:
		return true
	default:
		return false
	}
}

func isBaseTypeKind(k token.Kind) bool {
	switch k {
	case token.Void, token.Int, token.Bool, token.Char, token.Float, token.Double, token.Auto, token.Identifier:
		return true
	default:
		return false
	}
}

// parseType accumulates a type-id: modifier and base-type keywords,
// identifiers, "::", "*", "&", and a brace-balanced "<...>" template
// argument list, stopping once a base type has been seen and the following
// identifier looks like a declarator name rather than part of the type.
func (p *Parser) parseType() string {
	var b strings.Builder
	hasBaseType := false

	for isTypeLeadKind(p.c.at().Kind) {
		cur := p.c.at()
		if b.Len() > 0 {
			s := b.String()
			if !strings.HasSuffix(s, "::") && !strings.HasSuffix(s, "<") &&
				cur.Text != "::" && cur.Text != "*" && cur.Text != "&" &&
				cur.Text != "<" && cur.Text != ">" {
				b.WriteByte(' ')
			}
		}
		b.WriteString(cur.Text)
		if isBaseTypeKind(cur.Kind) {
			hasBaseType = true
		}

		if p.c.check(token.Less) {
			b.WriteByte('<')
			p.c.advance()
			depth := 1
			for depth > 0 && !p.c.atEnd() {
				switch {
				case p.c.check(token.Less):
					b.WriteByte('<')
					depth++
				case p.c.check(token.Greater):
					b.WriteByte('>')
					depth--
				default:
					b.WriteString(p.c.at().Text)
				}
				p.c.advance()
			}
			hasBaseType = true
		} else {
			p.c.advance()
		}

		if hasBaseType && p.c.check(token.Identifier) && !strings.HasSuffix(b.String(), "::") {
			break
		}
	}
	return b.String()
}

// parseFunctionOrVariable parses the shared declaration path: modifiers,
// a type, a declarator name (possibly a destructor "~name"
// or "operator<symbol>"), then either a function declarator (parameters,
// trailing qualifiers, body or ";") or a variable/lambda declarator. Returns
// nil (without consuming the modifiers/type already read) only when nothing
// resembling a declaration is present, so callers can fall back to an
// advance-and-retry recovery step.
func (p *Parser) parseFunctionOrVariable() *ast.Node {
	pos := p.c.at().Position
	start := p.c.mark()

	var isStatic, isVirtual, isConstexpr, isConst, isExplicit, isInline bool
	for {
		switch {
		case p.c.match(token.Static):
			isStatic = true
		case p.c.match(token.Virtual):
			isVirtual = true
		case p.c.match(token.Constexpr):
			isConstexpr = true
		case p.c.match(token.Explicit):
			isExplicit = true
		case p.c.match(token.Inline):
			isInline = true
		case p.c.check(token.Const) && !isConst:
			isConst = true
			p.c.advance()
		default:
			goto modifiersDone
		}
	}
modifiersDone:

	isDestructor := false
	if p.c.checkText("~") || p.c.check(token.Tilde) {
		isDestructor = true
		p.c.advance()
	}

	var typeName string
	if !isDestructor {
		typeName = p.parseType()
	}

	name := ""
	if p.c.check(token.Identifier) || p.c.check(token.Operator) {
		name = p.c.advance().Text
		if isDestructor {
			name = "~" + name
		}
		if name == "operator" {
			switch {
			case p.c.check(token.LeftParen) && p.c.peekN(1).Kind == token.RightParen:
				p.c.advance()
				p.c.advance()
				name += "()"
			case p.c.check(token.LeftBracket) && p.c.peekN(1).Kind == token.RightBracket:
				p.c.advance()
				p.c.advance()
				name += "[]"
			case !p.c.check(token.LeftParen) && !p.c.atEnd():
				name += p.c.advance().Text
			}
		}
	} else if isDestructor {
		// lone '~' with no following name: not a declaration after all.
		p.c.reset(start)
		return nil
	}

	if p.c.match(token.LeftParen) {
		return p.parseFunctionTail(pos, name, typeName, isStatic, isVirtual, isConstexpr, isConst, isExplicit, isInline)
	}

	if p.c.check(token.LeftBracket) {
		if lambda := p.tryParseLambda(pos); lambda != nil {
			p.c.match(token.Semicolon)
			return lambda
		}
	}

	if name == "" && typeName == "" {
		p.c.reset(start)
		return nil
	}

	node := ast.New(ast.Variable, name, pos)
	node.TypeName = typeName
	node.IsStatic = isStatic
	node.IsConst = isConst
	node.IsConstexpr = isConstexpr
	p.skipToSemicolon()
	return node
}

func (p *Parser) parseFunctionTail(pos token.Position, name, typeName string, isStatic, isVirtual, isConstexpr, isConst, isExplicit, isInline bool) *ast.Node {
	fn := ast.New(ast.Function, name, pos)
	fn.ReturnType = typeName
	fn.IsStatic = isStatic
	fn.IsVirtual = isVirtual
	fn.IsConstexpr = isConstexpr
	fn.IsExplicit = isExplicit
	_ = isInline

	fn.ParameterTypes, fn.ParameterNames = p.parseParameterList()

	for {
		switch {
		case p.c.match(token.Const):
			fn.IsConst = true
		case p.c.checkText("override"):
			fn.IsOverride = true
			p.c.advance()
		case p.c.checkText("final"):
			fn.IsFinal = true
			p.c.advance()
		case p.c.match(token.Noexcept):
			fn.IsNoexcept = true
			if p.c.match(token.LeftParen) {
				p.skipBalanced(token.LeftParen, token.RightParen)
			}
		case p.c.match(token.Assign):
			if p.c.matchText("default") || p.c.check(token.Default) {
				p.c.match(token.Default)
				fn.IsDefaulted = true
			} else if p.c.matchText("delete") || p.c.check(token.Delete) {
				p.c.match(token.Delete)
				fn.IsDeleted = true
			} else {
				p.scanBalancedText(token.Semicolon)
			}
		default:
			goto qualifiersDone
		}
	}
qualifiersDone:
	if isConst {
		fn.IsConst = true
	}

	if p.c.check(token.LeftBrace) {
		p.parseFunctionBody(fn)
	} else {
		p.c.match(token.Semicolon)
	}
	return fn
}

// parseParameterList consumes a balanced "(...)" parameter list (the
// leading "(" has already been consumed) and extracts a best-effort
// {type, name} pair per top-level comma-separated parameter.
func (p *Parser) parseParameterList() (types, names []string) {
	var current []token.Token
	depth := 1
	flush := func() {
		if len(current) == 0 {
			return
		}
		typ, nm := splitParameterTokens(current)
		if typ != "" || nm != "" {
			types = append(types, typ)
			names = append(names, nm)
		}
		current = nil
	}
	for depth > 0 && !p.c.atEnd() {
		switch {
		case p.c.check(token.LeftParen):
			depth++
			current = append(current, p.c.advance())
		case p.c.check(token.RightParen):
			depth--
			if depth == 0 {
				p.c.advance()
				flush()
				return
			}
			current = append(current, p.c.advance())
		case p.c.check(token.Comma) && depth == 1:
			flush()
			p.c.advance()
		default:
			current = append(current, p.c.advance())
		}
	}
	flush()
	return
}

// splitParameterTokens separates a single parameter's token run into its
// declared type and parameter name, treating the final bare identifier
// (when not immediately following "::", "<" or a pointer/reference mid-type)
// as the name.
func splitParameterTokens(toks []token.Token) (typ, name string) {
	if len(toks) == 0 {
		return "", ""
	}
	last := toks[len(toks)-1]
	if last.Kind == token.Identifier {
		return reconstructTokenText(toks[:len(toks)-1]), last.Text
	}
	return reconstructTokenText(toks), ""
}

func (p *Parser) tryParseLambda(pos token.Position) *ast.Node {
	save := p.c.mark()
	lambda := ast.New(ast.Lambda, "", pos)

	p.c.advance() // '['
	var capture strings.Builder
	for !p.c.check(token.RightBracket) && !p.c.atEnd() {
		t := p.c.at()
		capture.WriteString(t.Text)
		switch {
		case t.Kind == token.Assign:
			lambda.CaptureClause = "="
		case t.Kind == token.Ampersand:
			if lambda.CaptureClause == "" {
				lambda.CaptureClause = "&"
			}
		case t.Kind == token.Identifier:
			lambda.CapturesByValue = append(lambda.CapturesByValue, t.Text)
		}
		p.c.advance()
	}
	if !p.c.match(token.RightBracket) {
		p.c.reset(save)
		return nil
	}
	lambda.CaptureClause = "[" + capture.String() + "]"

	if !p.c.check(token.LeftParen) {
		// Not actually a lambda introducer (e.g. a subscript expression);
		// let the caller treat this token run as an ordinary variable decl.
		p.c.reset(save)
		return nil
	}
	p.c.advance()
	lambda.ParameterTypes, lambda.ParameterNames = p.parseParameterList()

	for {
		switch {
		case p.c.matchText("mutable"):
			lambda.IsMutable = true
		case p.c.match(token.Constexpr):
			lambda.IsConstexpr = true
		case p.c.match(token.Noexcept):
			if p.c.match(token.LeftParen) {
				p.skipBalanced(token.LeftParen, token.RightParen)
			}
		case p.c.match(token.Arrow):
			p.parseType()
		default:
			goto suffixDone
		}
	}
suffixDone:
	if p.c.check(token.LeftBrace) {
		p.parseFunctionBody(lambda)
	}
	return lambda
}
