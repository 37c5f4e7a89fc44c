// Package parser is a recursive-descent parser over the preprocessor's
// token stream that builds an internal/ast.Node tree for one translation
// unit. It is grounded on a Pratt-style parser.go (precedence tables,
// peek/consume cursor idiom) generalized from string tokens to
// token.Token, and on BuiltinParser (builtin_parser.cpp) for the
// declaration grammar: class/struct bodies, constructor/destructor/
// operator reclassification, template parameter lists, and function-body
// call/lambda detection.
package parser

import (
	"github.com/KikuchiTomo/cclint/internal/ast"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// Parser turns one translation unit's token stream into an AST.
type Parser struct {
	c        *cursor
	filename string
	errors   []Error

	currentAccess ast.Access
}

// New constructs a Parser over toks, which must be terminated by an EOF
// token (as internal/preprocessor.Process and internal/lexer.Lex produce).
func New(toks []token.Token, filename string) *Parser {
	return &Parser{c: newCursor(toks), filename: filename}
}

// Errors returns every syntax error recorded while parsing.
func (p *Parser) Errors() []Error { return p.errors }

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, newParserError(p.c.at().Position, format, args...))
}

func newParserError(pos token.Position, format string, args ...any) Error {
	return Error{Position: pos, Message: sprintf(format, args...)}
}

// Parse consumes the entire token stream and returns the TranslationUnit
// root. It never enters an infinite loop: parseToplevel always advances the
// cursor by at least one token when it cannot build a declaration.
func (p *Parser) Parse() *ast.Node {
	root := ast.New(ast.TranslationUnit, p.filename, p.c.at().Position)
	for !p.c.atEnd() {
		p.parseToplevel(root)
	}
	return root
}

func (p *Parser) skipTrivia() {
	for p.c.check(token.LineComment) || p.c.check(token.BlockComment) || p.c.at().Kind.IsPreprocessorDirective() {
		p.c.advance()
	}
}

func (p *Parser) parseToplevel(parent *ast.Node) {
	p.skipTrivia()
	if p.c.atEnd() {
		return
	}

	switch {
	case p.c.check(token.Namespace):
		parent.AddChild(p.parseNamespace())
		return
	case p.c.check(token.Class), p.c.check(token.Struct):
		parent.AddChild(p.parseClassOrStruct())
		return
	case p.c.check(token.Enum):
		parent.AddChild(p.parseEnum())
		return
	case p.c.check(token.Typedef):
		parent.AddChild(p.parseTypedef())
		return
	case p.c.check(token.Using):
		parent.AddChild(p.parseUsing())
		return
	case p.c.check(token.Template):
		parent.AddChild(p.parseTemplate())
		return
	case p.c.checkText("static_assert"):
		parent.AddChild(p.parseStaticAssert())
		return
	}

	if node := p.parseFunctionOrVariable(); node != nil {
		parent.AddChild(node)
		return
	}
	if !p.c.atEnd() {
		p.c.advance()
	}
}

func (p *Parser) parseNamespace() *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'namespace'

	name := ""
	if p.c.check(token.Identifier) {
		name = p.c.advance().Text
	}
	node := ast.New(ast.Namespace, name, pos)

	if !p.c.match(token.LeftBrace) {
		p.errorf("expected '{' after namespace name")
		p.skipToSemicolon()
		return node
	}

	for !p.c.check(token.RightBrace) && !p.c.atEnd() {
		p.skipTrivia()
		if p.c.check(token.RightBrace) || p.c.atEnd() {
			break
		}
		before := p.c.mark()
		switch {
		case p.c.check(token.Namespace):
			node.AddChild(p.parseNamespace())
		case p.c.check(token.Class), p.c.check(token.Struct):
			node.AddChild(p.parseClassOrStruct())
		case p.c.check(token.Enum):
			node.AddChild(p.parseEnum())
		case p.c.check(token.Typedef):
			node.AddChild(p.parseTypedef())
		case p.c.check(token.Using):
			node.AddChild(p.parseUsing())
		case p.c.check(token.Template):
			node.AddChild(p.parseTemplate())
		case p.c.checkText("static_assert"):
			node.AddChild(p.parseStaticAssert())
		default:
			if child := p.parseFunctionOrVariable(); child != nil {
				node.AddChild(child)
			}
		}
		if p.c.mark() == before && !p.c.check(token.RightBrace) && !p.c.atEnd() {
			p.c.advance()
		}
	}
	p.c.match(token.RightBrace)
	return node
}

func (p *Parser) parseClassOrStruct() *ast.Node {
	pos := p.c.at().Position
	node := ast.New(ast.Class, "", pos)

	if p.c.match(token.Struct) {
		node.IsStruct = true
		p.currentAccess = ast.AccessPublic
	} else if p.c.match(token.Class) {
		node.IsStruct = false
		p.currentAccess = ast.AccessPrivate
	} else {
		p.errorf("expected 'class' or 'struct'")
		return node
	}

	if p.c.check(token.Identifier) {
		node.Name = p.c.advance().Text
	}

	// Skip a template argument list, if present: class Foo<T> ...
	if p.c.match(token.Less) {
		p.skipBalanced(token.Less, token.Greater)
	}

	if p.c.match(token.Colon) {
		node.BaseClasses = p.parseBaseClauseList()
	}

	if !p.c.match(token.LeftBrace) {
		p.skipToSemicolon()
		return node
	}

	for !p.c.check(token.RightBrace) && !p.c.atEnd() {
		if p.c.match(token.Public) {
			p.currentAccess = ast.AccessPublic
			p.expect(token.Colon, "expected ':' after access specifier")
			continue
		}
		if p.c.match(token.Protected) {
			p.currentAccess = ast.AccessProtected
			p.expect(token.Colon, "expected ':' after access specifier")
			continue
		}
		if p.c.match(token.Private) {
			p.currentAccess = ast.AccessPrivate
			p.expect(token.Colon, "expected ':' after access specifier")
			continue
		}
		if p.c.check(token.LineComment) || p.c.check(token.BlockComment) {
			p.c.advance()
			continue
		}

		if p.c.check(token.Friend) {
			node.AddChild(p.parseFriend())
			continue
		}

		before := p.c.mark()
		member := p.parseFunctionOrVariable()
		if member == nil {
			if p.c.mark() == before && !p.c.check(token.RightBrace) && !p.c.atEnd() {
				p.c.advance()
			}
			continue
		}
		node.AddChild(p.reclassifyMember(member, node.Name))
	}
	if !p.c.match(token.RightBrace) {
		p.errorf("expected '}' at end of class body")
	}
	p.c.match(token.Semicolon)
	return node
}

// reclassifyMember applies class-body reclassification: a parsed Function
// node whose name matches the owning class is rewritten as
// Constructor, a name beginning with '~' as Destructor, a name beginning
// with "operator" as Operator (member); anything else that came back as a
// Variable becomes a Field; everything else passes through unchanged.
func (p *Parser) reclassifyMember(member *ast.Node, className string) *ast.Node {
	if member.Kind != ast.Function {
		if member.Kind == ast.Variable {
			member.Kind = ast.Field
			member.Access = p.currentAccess
		}
		return member
	}
	member.Access = p.currentAccess

	switch {
	case member.Name == className || (member.Name == "" && member.ReturnType == className):
		ctor := ast.New(ast.Constructor, member.Name, member.Position)
		ctor.ClassName = className
		ctor.Access = p.currentAccess
		ctor.IsExplicit = member.IsExplicit
		ctor.IsConstexpr = member.IsConstexpr
		ctor.IsNoexcept = member.IsNoexcept
		ctor.Children = member.Children
		return ctor
	case len(member.Name) > 0 && member.Name[0] == '~':
		dtor := ast.New(ast.Destructor, member.Name, member.Position)
		dtor.ClassName = className
		dtor.Access = p.currentAccess
		dtor.IsVirtual = member.IsVirtual
		dtor.IsNoexcept = member.IsNoexcept
		dtor.Children = member.Children
		return dtor
	case len(member.Name) >= 8 && member.Name[:8] == "operator":
		op := ast.New(ast.Operator, member.Name, member.Position)
		op.OperatorSymbol = member.Name[8:]
		op.IsMember = true
		op.ReturnType = member.ReturnType
		op.Access = p.currentAccess
		op.Children = member.Children
		return op
	default:
		return member
	}
}

func (p *Parser) parseFriend() *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'friend'
	node := ast.New(ast.Friend, "", pos)

	if p.c.match(token.Class) || p.c.match(token.Struct) {
		node.FriendKind = ast.FriendClass
		if p.c.check(token.Identifier) {
			node.TargetName = p.c.advance().Text
		}
	} else {
		node.FriendKind = ast.FriendFunction
		target := ""
		for !p.c.check(token.Semicolon) && !p.c.atEnd() {
			target = joinWithSpace(target, p.c.advance().Text)
		}
		node.TargetName = target
	}
	p.c.match(token.Semicolon)
	return node
}

func (p *Parser) parseBaseClauseList() []ast.BaseClass {
	var bases []ast.BaseClass
	for !p.c.check(token.LeftBrace) && !p.c.atEnd() {
		bc := ast.BaseClass{Access: ast.AccessPrivate}
		for {
			switch {
			case p.c.match(token.Virtual):
				bc.IsVirtual = true
			case p.c.match(token.Public):
				bc.Access = ast.AccessPublic
			case p.c.match(token.Protected):
				bc.Access = ast.AccessProtected
			case p.c.match(token.Private):
				bc.Access = ast.AccessPrivate
			default:
				goto nameDone
			}
		}
	nameDone:
		name := ""
		for p.c.check(token.Identifier) || p.c.check(token.DoubleColon) {
			name = joinScopeName(name, p.c.advance().Text)
		}
		if name != "" {
			bc.Name = name
			bases = append(bases, bc)
		}
		if !p.c.match(token.Comma) {
			if !p.c.check(token.LeftBrace) && !p.c.atEnd() {
				p.c.advance()
				continue
			}
			break
		}
	}
	return bases
}

func (p *Parser) parseEnum() *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'enum'
	node := ast.New(ast.Enum, "", pos)

	if p.c.match(token.Class) {
		node.IsEnumClass = true
	}
	if p.c.check(token.Identifier) {
		node.Name = p.c.advance().Text
	}
	if p.c.match(token.Colon) {
		node.UnderlyingType = p.parseType()
	}

	if p.c.match(token.LeftBrace) {
		for !p.c.check(token.RightBrace) && !p.c.atEnd() {
			if !p.c.check(token.Identifier) {
				p.c.advance()
				continue
			}
			constPos := p.c.at().Position
			constName := p.c.advance().Text
			constNode := ast.New(ast.EnumConstant, constName, constPos)
			if p.c.match(token.Assign) {
				constNode.Value = p.scanBalancedText(token.Comma, token.RightBrace)
			}
			node.AddChild(constNode)
			if !p.c.match(token.Comma) {
				break
			}
		}
		p.c.match(token.RightBrace)
	}
	p.c.match(token.Semicolon)
	return node
}

func (p *Parser) parseTypedef() *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'typedef'
	node := ast.New(ast.Typedef, "", pos)

	var tokens []token.Token
	for !p.c.check(token.Semicolon) && !p.c.atEnd() {
		tokens = append(tokens, p.c.advance())
	}
	p.c.match(token.Semicolon)
	if len(tokens) > 0 {
		node.NewName = tokens[len(tokens)-1].Text
		node.Name = node.NewName
		node.OldName = reconstructTokenText(tokens[:len(tokens)-1])
	}
	return node
}

func (p *Parser) parseUsing() *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'using'
	node := ast.New(ast.Using, "", pos)

	if p.c.check(token.Identifier) {
		node.Name = p.c.advance().Text
	}
	if p.c.match(token.Assign) {
		node.Target = p.scanBalancedText(token.Semicolon)
	}
	p.c.match(token.Semicolon)
	return node
}

func (p *Parser) parseTemplate() *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'template'
	node := ast.New(ast.Template, "", pos)

	if p.c.match(token.Less) {
		depth := 1
		for depth > 0 && !p.c.atEnd() {
			switch {
			case p.c.match(token.Less):
				depth++
			case p.c.match(token.Greater):
				depth--
			case p.c.checkText("typename") || p.c.checkText("class") || p.c.check(token.Typename) || p.c.check(token.Class):
				p.c.advance()
			case p.c.check(token.Identifier):
				kind := ast.TemplateParamType
				name := p.c.advance().Text
				node.TemplateParameters = append(node.TemplateParameters, ast.TemplateParam{Kind: kind, Name: name})
			default:
				p.c.advance()
			}
		}
	}

	var entity *ast.Node
	if p.c.check(token.Class) || p.c.check(token.Struct) {
		entity = p.parseClassOrStruct()
	} else {
		entity = p.parseFunctionOrVariable()
	}
	if entity != nil {
		node.AddChild(entity)
	}
	return node
}

func (p *Parser) parseStaticAssert() *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'static_assert'
	node := ast.New(ast.StaticAssert, "static_assert", pos)

	if p.c.match(token.LeftParen) {
		var parts []token.Token
		depth := 1
		for depth > 0 && !p.c.atEnd() {
			switch {
			case p.c.check(token.LeftParen):
				depth++
				parts = append(parts, p.c.advance())
			case p.c.check(token.RightParen):
				depth--
				if depth == 0 {
					p.c.advance()
				} else {
					parts = append(parts, p.c.advance())
				}
			default:
				parts = append(parts, p.c.advance())
			}
		}
		// Split condition and optional message at the top-level comma.
		commaAt := -1
		d := 0
		for i, t := range parts {
			switch t.Kind {
			case token.LeftParen:
				d++
			case token.RightParen:
				d--
			case token.Comma:
				if d == 0 {
					commaAt = i
				}
			}
			if commaAt >= 0 {
				break
			}
		}
		if commaAt >= 0 {
			node.Condition = reconstructTokenText(parts[:commaAt])
			node.Message = reconstructTokenText(parts[commaAt+1:])
		} else {
			node.Condition = reconstructTokenText(parts)
		}
	}
	p.c.match(token.Semicolon)
	return node
}

// expect consumes the current token if it has kind, else records an error
// and returns the (unconsumed) current token.
func (p *Parser) expect(kind token.Kind, message string) token.Token {
	if p.c.check(kind) {
		return p.c.advance()
	}
	p.errorf("%s", message)
	return p.c.at()
}

// skipBalanced consumes tokens until the matching close is seen, given that
// open has already been consumed once (depth starts at 1).
func (p *Parser) skipBalanced(open, close token.Kind) {
	depth := 1
	for depth > 0 && !p.c.atEnd() {
		switch {
		case p.c.match(open):
			depth++
		case p.c.match(close):
			depth--
		default:
			p.c.advance()
		}
	}
}

func (p *Parser) skipToSemicolon() {
	for !p.c.check(token.Semicolon) && !p.c.atEnd() {
		if p.c.check(token.LeftBrace) {
			p.c.advance()
			p.skipBalanced(token.LeftBrace, token.RightBrace)
			continue
		}
		p.c.advance()
	}
	p.c.match(token.Semicolon)
}

func (p *Parser) skipBraces() {
	if !p.c.match(token.LeftBrace) {
		return
	}
	p.skipBalanced(token.LeftBrace, token.RightBrace)
}

// scanBalancedText accumulates reconstructed source text up to (but not
// including) any of the given stop kinds at paren/brace/bracket depth 0.
func (p *Parser) scanBalancedText(stop ...token.Kind) string {
	var toks []token.Token
	depth := 0
	for !p.c.atEnd() {
		t := p.c.at()
		if depth == 0 {
			for _, s := range stop {
				if t.Kind == s {
					return reconstructTokenText(toks)
				}
			}
		}
		switch t.Kind {
		case token.LeftParen, token.LeftBrace, token.LeftBracket:
			depth++
		case token.RightParen, token.RightBrace, token.RightBracket:
			depth--
		}
		toks = append(toks, p.c.advance())
	}
	return reconstructTokenText(toks)
}
