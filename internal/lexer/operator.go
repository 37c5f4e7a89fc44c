package lexer

import "github.com/KikuchiTomo/cclint/internal/token"

// operatorTable lists every multi-character operator/punctuator spelling,
// longest first within each starting byte, so maximal munch falls out of a
// simple linear scan. Three- and four-character spellings are listed before
// their two- and one-character prefixes (e.g. "<=>" before "<=" before "<").
var operatorTable = []struct {
	text string
	kind token.Kind
}{
	{"<<=", token.LeftShiftAssign},
	{">>=", token.RightShiftAssign},
	{"...", token.Ellipsis},
	{"<=>", token.Spaceship},
	{"->*", token.ArrowStar},

	{"::", token.DoubleColon},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"==", token.Equal},
	{"!=", token.NotEqual},
	{"<=", token.LessEqual},
	{">=", token.GreaterEqual},
	{"&&", token.LogicalAnd},
	{"||", token.LogicalOr},
	{"<<", token.LeftShift},
	{">>", token.RightShift},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AmpersandAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
	{"->", token.Arrow},
	{".*", token.DotStar},
	{"[[", token.AttributeStart},
	{"]]", token.AttributeEnd},

	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"=", token.Assign},
	{"<", token.Less},
	{">", token.Greater},
	{"&", token.Ampersand},
	{"|", token.Pipe},
	{"^", token.Caret},
	{"~", token.Tilde},
	{"!", token.LogicalNot},
	{".", token.Dot},
	{":", token.Colon},
	{";", token.Semicolon},
	{",", token.Comma},
	{"?", token.Question},
	{"(", token.LeftParen},
	{")", token.RightParen},
	{"{", token.LeftBrace},
	{"}", token.RightBrace},
	{"[", token.LeftBracket},
	{"]", token.RightBracket},
}

// scanOperator recognizes the operator/punctuator starting at the current
// position using maximal munch, or records an error and consumes one byte
// as Unknown if nothing matches.
func (lx *Lexer) scanOperator() token.Token {
	data := lx.rest()
	for _, op := range operatorTable {
		if hasPrefix(data, op.text) {
			return lx.consume(len(op.text), op.kind)
		}
	}
	start := lx.cursor
	lx.errorf(start, "unrecognized character %q", string(data[0]))
	return lx.consume(1, token.Unknown)
}
