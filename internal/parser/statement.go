package parser

import (
	"github.com/KikuchiTomo/cclint/internal/ast"
	"github.com/KikuchiTomo/cclint/internal/token"
)

// parseFunctionBody consumes a "{...}" function/lambda body (the leading
// "{" has not yet been consumed), appending every call expression, lambda,
// and structured statement (if/switch/loop/try) directly as children of
// fn, in source order. Grounded on
// BuiltinParser::parse_function_or_variable's body-scanning loop
// (builtin_parser.cpp), generalized from brace-depth counting to real
// recursive-descent statement dispatch.
func (p *Parser) parseFunctionBody(fn *ast.Node) {
	p.c.advance() // '{'
	p.parseStatementsInto(fn, fn.Name)
	p.c.match(token.RightBrace)
}

// parseStatementsInto parses statements until a closing '}' or EOF,
// appending structural children to enclosing. It does not compute
// cyclomatic complexity; enclosing.CyclomaticComplexity is left untouched.
func (p *Parser) parseStatementsInto(enclosing *ast.Node, funcName string) {
	for !p.c.check(token.RightBrace) && !p.c.atEnd() {
		before := p.c.mark()
		for _, n := range p.parseStatement(funcName, enclosing) {
			enclosing.AddChild(n)
		}
		if p.c.mark() == before && !p.c.check(token.RightBrace) && !p.c.atEnd() {
			p.c.advance()
		}
	}
}

// parseStatement parses exactly one statement, returning the structural
// nodes it should contribute to its enclosing scope: zero for statements
// with no rule-relevant structure, one for if/switch/loop/try/lambda, or
// any number of CallExpression nodes found while scanning an expression.
func (p *Parser) parseStatement(funcName string, enclosing *ast.Node) []*ast.Node {
	switch {
	case p.c.check(token.LeftBrace):
		p.c.advance()
		block := ast.New(ast.Unknown, "", p.c.at().Position)
		p.parseStatementsInto(block, funcName)
		p.c.match(token.RightBrace)
		return block.Children

	case p.c.check(token.If):
		return []*ast.Node{p.parseIfStatement(funcName)}

	case p.c.check(token.Switch):
		return []*ast.Node{p.parseSwitchStatement(funcName)}

	case p.c.check(token.For):
		return []*ast.Node{p.parseForStatement(funcName)}

	case p.c.check(token.While):
		return []*ast.Node{p.parseWhileStatement(funcName)}

	case p.c.check(token.Do):
		return []*ast.Node{p.parseDoWhileStatement(funcName)}

	case p.c.check(token.Try):
		return []*ast.Node{p.parseTryStatement(funcName)}

	case p.c.check(token.Return), p.c.check(token.Break), p.c.check(token.Continue), p.c.check(token.Goto):
		return p.parseJumpStatement(funcName)

	case p.c.check(token.Semicolon):
		p.c.advance()
		return nil

	default:
		return p.parseExpressionStatement(funcName)
	}
}

// bodyOrSingleStatement parses either a compound "{...}" body or, per
// C++ grammar, a single statement without braces, returning the structural
// children found within and whether braces were present.
func (p *Parser) bodyOrSingleStatement(funcName string) (children []*ast.Node, hasBraces bool) {
	if p.c.check(token.LeftBrace) {
		p.c.advance()
		block := ast.New(ast.Unknown, "", p.c.at().Position)
		p.parseStatementsInto(block, funcName)
		p.c.match(token.RightBrace)
		return block.Children, true
	}
	return p.parseStatement(funcName, nil), false
}

func (p *Parser) parseIfStatement(funcName string) *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'if'
	node := ast.New(ast.IfStatement, "if", pos)
	p.c.match(token.Constexpr)

	if p.c.match(token.LeftParen) {
		node.Children = append(node.Children, p.scanConditionCalls(funcName)...)
	}

	thenChildren, hasBraces := p.bodyOrSingleStatement(funcName)
	node.HasBraces = hasBraces
	node.Children = append(node.Children, thenChildren...)

	if p.c.match(token.Else) {
		node.HasElse = true
		elseChildren, _ := p.bodyOrSingleStatement(funcName)
		node.Children = append(node.Children, elseChildren...)
	}
	return node
}

func (p *Parser) parseSwitchStatement(funcName string) *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'switch'
	node := ast.New(ast.SwitchStatement, "switch", pos)

	if p.c.match(token.LeftParen) {
		node.Children = append(node.Children, p.scanConditionCalls(funcName)...)
	}

	if p.c.match(token.LeftBrace) {
		for !p.c.check(token.RightBrace) && !p.c.atEnd() {
			switch {
			case p.c.match(token.Case):
				node.CaseCount++
				p.scanBalancedText(token.Colon)
				p.c.match(token.Colon)
			case p.c.match(token.Default):
				node.HasDefault = true
				p.c.match(token.Colon)
			default:
				before := p.c.mark()
				for _, n := range p.parseStatement(funcName, nil) {
					node.AddChild(n)
				}
				if p.c.mark() == before && !p.c.check(token.RightBrace) && !p.c.atEnd() {
					p.c.advance()
				}
			}
		}
		p.c.match(token.RightBrace)
	}
	return node
}

// parseForStatement distinguishes a range-based for from a classic
// three-clause for: a top-level ':' inside the header (before the
// matching ')') marks a range-for.
func (p *Parser) parseForStatement(funcName string) *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'for'
	node := ast.New(ast.LoopStatement, "for", pos)
	node.LoopKind = ast.LoopFor

	if p.c.match(token.LeftParen) {
		depth := 1
		isRange := false
		for off := 0; ; off++ {
			t := p.c.peekN(off)
			if t.Kind == token.EOF {
				break
			}
			if t.Kind == token.LeftParen {
				depth++
				continue
			}
			if t.Kind == token.RightParen {
				depth--
				if depth == 0 {
					break
				}
				continue
			}
			if depth == 1 && t.Kind == token.Semicolon {
				break
			}
			if depth == 1 && t.Kind == token.Colon {
				isRange = true
				break
			}
		}
		if isRange {
			node.LoopKind = ast.LoopRangeFor
		}
		node.Children = append(node.Children, p.scanConditionCalls(funcName)...)
	}

	children, hasBraces := p.bodyOrSingleStatement(funcName)
	node.HasBraces = hasBraces
	node.Children = append(node.Children, children...)
	return node
}

func (p *Parser) parseWhileStatement(funcName string) *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'while'
	node := ast.New(ast.LoopStatement, "while", pos)
	node.LoopKind = ast.LoopWhile

	if p.c.match(token.LeftParen) {
		node.Children = append(node.Children, p.scanConditionCalls(funcName)...)
	}
	children, hasBraces := p.bodyOrSingleStatement(funcName)
	node.HasBraces = hasBraces
	node.Children = append(node.Children, children...)
	return node
}

func (p *Parser) parseDoWhileStatement(funcName string) *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'do'
	node := ast.New(ast.LoopStatement, "do", pos)
	node.LoopKind = ast.LoopDoWhile

	children, hasBraces := p.bodyOrSingleStatement(funcName)
	node.HasBraces = hasBraces
	node.Children = append(node.Children, children...)

	p.c.match(token.While)
	if p.c.match(token.LeftParen) {
		node.Children = append(node.Children, p.scanConditionCalls(funcName)...)
	}
	p.c.match(token.Semicolon)
	return node
}

func (p *Parser) parseTryStatement(funcName string) *ast.Node {
	pos := p.c.at().Position
	p.c.advance() // 'try'
	node := ast.New(ast.TryStatement, "try", pos)

	if p.c.check(token.LeftBrace) {
		children, _ := p.bodyOrSingleStatement(funcName)
		node.Children = append(node.Children, children...)
	}

	for p.c.check(token.Catch) {
		p.c.advance()
		node.CatchCount++
		if p.c.match(token.LeftParen) {
			p.skipBalanced(token.LeftParen, token.RightParen)
		}
		if p.c.check(token.LeftBrace) {
			children, _ := p.bodyOrSingleStatement(funcName)
			node.Children = append(node.Children, children...)
		}
	}
	return node
}

func (p *Parser) parseJumpStatement(funcName string) []*ast.Node {
	switch p.c.at().Kind {
	case token.Return:
		p.c.advance()
		calls := p.scanExpressionCalls(funcName, token.Semicolon)
		p.c.match(token.Semicolon)
		return calls
	case token.Goto:
		p.c.advance()
		p.c.match(token.Identifier)
		p.c.match(token.Semicolon)
		return nil
	default: // break, continue
		p.c.advance()
		p.c.match(token.Semicolon)
		return nil
	}
}

func (p *Parser) parseExpressionStatement(funcName string) []*ast.Node {
	calls := p.scanExpressionCalls(funcName, token.Semicolon)
	p.c.match(token.Semicolon)
	return calls
}

// scanConditionCalls scans a parenthesized condition/header (the leading
// '(' has already been consumed) for CallExpression children, consuming
// through the matching ')'.
func (p *Parser) scanConditionCalls(funcName string) []*ast.Node {
	var out []*ast.Node
	depth := 1
	for depth > 0 && !p.c.atEnd() {
		if p.c.check(token.LeftParen) {
			depth++
			p.c.advance()
			continue
		}
		if p.c.check(token.RightParen) {
			depth--
			p.c.advance()
			continue
		}
		if node := p.tryConsumeCallOrLambda(funcName); node != nil {
			out = append(out, node)
			continue
		}
		p.c.advance()
	}
	return out
}

// scanExpressionCalls scans an expression up to (not including) any of the
// given top-level stop kinds, returning CallExpression/Lambda nodes found.
func (p *Parser) scanExpressionCalls(funcName string, stop ...token.Kind) []*ast.Node {
	var out []*ast.Node
	depth := 0
	for !p.c.atEnd() {
		t := p.c.at()
		if depth == 0 {
			for _, s := range stop {
				if t.Kind == s {
					return out
				}
			}
		}
		if node := p.tryConsumeCallOrLambda(funcName); node != nil {
			out = append(out, node)
			continue
		}
		switch t.Kind {
		case token.LeftParen, token.LeftBrace, token.LeftBracket:
			depth++
		case token.RightParen, token.RightBrace, token.RightBracket:
			depth--
		}
		p.c.advance()
	}
	return out
}

// tryConsumeCallOrLambda recognizes, at the current cursor position, a
// lambda introducer "[...](...){...}" or a call "identifier(...)" and fully
// consumes it, returning the structural node built. Returns nil (without
// consuming anything) when neither pattern matches.
func (p *Parser) tryConsumeCallOrLambda(funcName string) *ast.Node {
	if p.c.check(token.LeftBracket) {
		pos := p.c.at().Position
		if lambda := p.tryParseLambda(pos); lambda != nil {
			return lambda
		}
		return nil
	}
	if p.c.check(token.Identifier) {
		calleeName := p.c.at().Text
		next := p.c.peekN(1)
		if next.Kind == token.LeftParen {
			pos := p.c.at().Position
			p.c.advance() // identifier
			p.c.advance() // '('
			call := ast.New(ast.CallExpression, calleeName, pos)
			call.FunctionName = calleeName
			call.CallerFunction = funcName
			call.Arguments = p.scanArgumentTexts()
			p.c.match(token.RightParen)
			return call
		}
	}
	return nil
}

// scanArgumentTexts consumes a call's argument list up to (but not
// including) the matching ')', returning the reconstructed text of each
// top-level comma-separated argument. The opening '(' must already be
// consumed; the closing ')' is left for the caller to consume.
func (p *Parser) scanArgumentTexts() []string {
	var args []string
	var current []token.Token
	depth := 0
	for !p.c.atEnd() {
		if depth == 0 && p.c.check(token.RightParen) {
			break
		}
		t := p.c.at()
		switch t.Kind {
		case token.LeftParen, token.LeftBrace, token.LeftBracket:
			depth++
		case token.RightParen, token.RightBrace, token.RightBracket:
			depth--
		case token.Comma:
			if depth == 0 {
				args = append(args, reconstructTokenText(current))
				current = nil
				p.c.advance()
				continue
			}
		}
		current = append(current, p.c.advance())
	}
	if len(current) > 0 {
		args = append(args, reconstructTokenText(current))
	}
	return args
}
