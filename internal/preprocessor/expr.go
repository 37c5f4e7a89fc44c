package preprocessor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KikuchiTomo/cclint/internal/token"
)

// Expr is a node of a #if constant expression. Unlike an int-valued
// Environment (object-like macros holding a single integer), Eval here
// consults the full macro Table so `defined(X)` and
// function-like-macro-as-truthy checks both work against the real
// definitions installed by #define.
type Expr interface {
	fmt.Stringer
	Eval(table *Table) (int64, error)
}

type (
	// Ident is a bare identifier appearing in a constant expression; an
	// undefined one evaluates to 0.
	Ident string
	// ConstantInt is an integer literal, already parsed to its numeric value.
	ConstantInt int64
	// Defined represents `defined(X)` or `defined X`.
	Defined struct{ Name string }
	// Unary is a prefix operator: one of "!", "-", "+", "~".
	Unary struct {
		Op string
		X  Expr
	}
	// Binary is an infix operator over the full #if operator set.
	Binary struct {
		Op   string
		L, R Expr
	}
	// Ternary is the `cond ? then : else` conditional operator.
	Ternary struct {
		Cond, Then, Else Expr
	}
)

func (e Ident) String() string       { return string(e) }
func (e ConstantInt) String() string { return strconv.FormatInt(int64(e), 10) }
func (e Defined) String() string     { return fmt.Sprintf("defined(%s)", e.Name) }
func (e Unary) String() string       { return e.Op + "(" + e.X.String() + ")" }
func (e Binary) String() string      { return fmt.Sprintf("(%s %s %s)", e.L, e.Op, e.R) }
func (e Ternary) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.Cond, e.Then, e.Else)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (e Ident) Eval(table *Table) (int64, error) {
	m, ok := table.Lookup(string(e))
	if !ok {
		return 0, nil
	}
	// A defined object-like macro whose replacement is a single integer
	// literal evaluates to that literal; anything richer (function-like,
	// multi-token, non-numeric) is treated as truthy, a conservative
	// extension beyond strict "must reduce to an integer" evaluation.
	if m.IsFunctionLike || len(m.Replacement) == 0 {
		return 1, nil
	}
	if len(m.Replacement) == 1 && m.Replacement[0].Kind == token.IntegerLiteral {
		v, err := parseIntLiteral(m.Replacement[0].Text)
		if err == nil {
			return v, nil
		}
	}
	return 1, nil
}

func (e ConstantInt) Eval(*Table) (int64, error) { return int64(e), nil }

func (e Defined) Eval(table *Table) (int64, error) {
	return boolToInt(table.IsDefined(e.Name)), nil
}

func (e Unary) Eval(table *Table) (int64, error) {
	v, err := e.X.Eval(table)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case "!":
		return boolToInt(v == 0), nil
	case "-":
		return -v, nil
	case "+":
		return v, nil
	case "~":
		return ^v, nil
	default:
		return 0, fmt.Errorf("unknown unary operator %q", e.Op)
	}
}

func (e Binary) Eval(table *Table) (int64, error) {
	l, err := e.L.Eval(table)
	if err != nil {
		return 0, err
	}
	// Short-circuit && and || before evaluating the right side.
	switch e.Op {
	case "&&":
		if l == 0 {
			return 0, nil
		}
		r, err := e.R.Eval(table)
		if err != nil {
			return 0, err
		}
		return boolToInt(r != 0), nil
	case "||":
		if l != 0 {
			return 1, nil
		}
		r, err := e.R.Eval(table)
		if err != nil {
			return 0, err
		}
		return boolToInt(r != 0), nil
	}

	r, err := e.R.Eval(table)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, fmt.Errorf("division by zero in #if expression")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, fmt.Errorf("modulo by zero in #if expression")
		}
		return l % r, nil
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "<<":
		return l << uint64(r), nil
	case ">>":
		return l >> uint64(r), nil
	case "<":
		return boolToInt(l < r), nil
	case "<=":
		return boolToInt(l <= r), nil
	case ">":
		return boolToInt(l > r), nil
	case ">=":
		return boolToInt(l >= r), nil
	case "==":
		return boolToInt(l == r), nil
	case "!=":
		return boolToInt(l != r), nil
	case "&":
		return l & r, nil
	case "^":
		return l ^ r, nil
	case "|":
		return l | r, nil
	default:
		return 0, fmt.Errorf("unknown binary operator %q", e.Op)
	}
}

func (e Ternary) Eval(table *Table) (int64, error) {
	cond, err := e.Cond.Eval(table)
	if err != nil {
		return 0, err
	}
	if cond != 0 {
		return e.Then.Eval(table)
	}
	return e.Else.Eval(table)
}

// Evaluate reports whether expr is non-zero for the given macro table.
func Evaluate(expr Expr, table *Table) (bool, error) {
	v, err := expr.Eval(table)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate expression %s: %w", expr, err)
	}
	return v != 0, nil
}

// parseIntLiteral parses an integer literal's lexeme (as produced by the
// lexer, including base prefixes, digit separators and suffixes) into its
// numeric value.
func parseIntLiteral(text string) (int64, error) {
	text = strings.ReplaceAll(text, "'", "")
	text = strings.TrimRight(text, "uUlL")
	if text == "" {
		return 0, fmt.Errorf("empty integer literal")
	}
	base := 10
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		base = 16
		text = text[2:]
	case strings.HasPrefix(text, "0b") || strings.HasPrefix(text, "0B"):
		base = 2
		text = text[2:]
	case len(text) > 1 && text[0] == '0':
		base = 8
		text = text[1:]
	}
	v, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		uv, uerr := strconv.ParseUint(text, base, 64)
		if uerr != nil {
			return 0, err
		}
		return int64(uv), nil
	}
	return v, nil
}

// precedence-climbing parser over a #if condition's token stream.

// binaryPrecedence maps each binary operator spelling to its precedence
// level (higher binds tighter): relational/equality, bitwise &^|, logical
// &&/||.
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

func operatorSpelling(k token.Kind) (string, bool) {
	switch k {
	case token.LogicalOr:
		return "||", true
	case token.LogicalAnd:
		return "&&", true
	case token.Pipe:
		return "|", true
	case token.Caret:
		return "^", true
	case token.Ampersand:
		return "&", true
	case token.Equal:
		return "==", true
	case token.NotEqual:
		return "!=", true
	case token.Less:
		return "<", true
	case token.LessEqual:
		return "<=", true
	case token.Greater:
		return ">", true
	case token.GreaterEqual:
		return ">=", true
	case token.LeftShift:
		return "<<", true
	case token.RightShift:
		return ">>", true
	case token.Plus:
		return "+", true
	case token.Minus:
		return "-", true
	case token.Star:
		return "*", true
	case token.Slash:
		return "/", true
	case token.Percent:
		return "%", true
	default:
		return "", false
	}
}

// parseIfExpression parses a full #if/#elif constant expression.
func parseIfExpression(toks []token.Token) (Expr, error) {
	c := newCursor(toks)
	expr, err := parseTernary(c)
	if err != nil {
		return nil, err
	}
	if !c.atEnd() {
		return nil, newError(c.peek().Position, "unexpected token %q in #if expression", c.peek().Text)
	}
	return expr, nil
}

func parseTernary(c *cursor) (Expr, error) {
	cond, err := parseBinary(c, 1)
	if err != nil {
		return nil, err
	}
	if c.peek().Kind != token.Question {
		return cond, nil
	}
	c.next()
	then, err := parseTernary(c)
	if err != nil {
		return nil, err
	}
	if c.peek().Kind != token.Colon {
		return nil, newError(c.peek().Position, "expected ':' in ternary #if expression")
	}
	c.next()
	elseExpr, err := parseTernary(c)
	if err != nil {
		return nil, err
	}
	return Ternary{Cond: cond, Then: then, Else: elseExpr}, nil
}

func parseBinary(c *cursor, minPrec int) (Expr, error) {
	left, err := parseUnary(c)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := operatorSpelling(c.peek().Kind)
		if !ok {
			return left, nil
		}
		prec := binaryPrecedence[op]
		if prec < minPrec {
			return left, nil
		}
		c.next()
		right, err := parseBinary(c, prec+1)
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, L: left, R: right}
	}
}

func parseUnary(c *cursor) (Expr, error) {
	tok := c.peek()
	switch tok.Kind {
	case token.LogicalNot:
		c.next()
		x, err := parseUnary(c)
		if err != nil {
			return nil, err
		}
		return Unary{Op: "!", X: x}, nil
	case token.Minus:
		c.next()
		x, err := parseUnary(c)
		if err != nil {
			return nil, err
		}
		return Unary{Op: "-", X: x}, nil
	case token.Plus:
		c.next()
		x, err := parseUnary(c)
		if err != nil {
			return nil, err
		}
		return Unary{Op: "+", X: x}, nil
	case token.Tilde:
		c.next()
		x, err := parseUnary(c)
		if err != nil {
			return nil, err
		}
		return Unary{Op: "~", X: x}, nil
	default:
		return parsePrimary(c)
	}
}

func parsePrimary(c *cursor) (Expr, error) {
	tok := c.next()
	switch {
	case tok.Kind == token.Identifier && tok.Text == "defined":
		return parseDefined(c)
	case tok.Kind == token.Identifier:
		return Ident(tok.Text), nil
	case tok.Kind == token.IntegerLiteral:
		v, err := parseIntLiteral(tok.Text)
		if err != nil {
			return nil, newError(tok.Position, "invalid integer literal %q in #if expression", tok.Text)
		}
		return ConstantInt(v), nil
	case tok.Kind == token.CharLiteral:
		if len(tok.Value) > 0 {
			return ConstantInt(tok.Value[0]), nil
		}
		return ConstantInt(0), nil
	case tok.Kind == token.True:
		return ConstantInt(1), nil
	case tok.Kind == token.False:
		return ConstantInt(0), nil
	case tok.Kind == token.LeftParen:
		inner, err := parseTernary(c)
		if err != nil {
			return nil, err
		}
		if c.peek().Kind != token.RightParen {
			return nil, newError(c.peek().Position, "expected ')' in #if expression")
		}
		c.next()
		return inner, nil
	case tok.Kind == token.EOF:
		return nil, newError(tok.Position, "unexpected end of #if expression")
	default:
		return nil, newError(tok.Position, "unexpected token %q in #if expression", tok.Text)
	}
}

func parseDefined(c *cursor) (Expr, error) {
	if c.peek().Kind == token.LeftParen {
		c.next()
		nameTok := c.next()
		if nameTok.Kind != token.Identifier {
			return nil, newError(nameTok.Position, "expected identifier after 'defined('")
		}
		if c.peek().Kind != token.RightParen {
			return nil, newError(c.peek().Position, "expected ')' after 'defined(%s'", nameTok.Text)
		}
		c.next()
		return Defined{Name: nameTok.Text}, nil
	}
	nameTok := c.next()
	if nameTok.Kind != token.Identifier {
		return nil, newError(nameTok.Position, "expected identifier after 'defined'")
	}
	return Defined{Name: nameTok.Text}, nil
}
