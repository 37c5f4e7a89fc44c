package preprocessor

import (
	"strings"

	"github.com/KikuchiTomo/cclint/internal/token"
)

// directiveKind classifies the leading identifier of a preprocessor
// directive line into the specific PP* token.Kind the lexer left generic
// (the lexer only promises "this line starts with '#'"; classification by
// the first word is the preprocessor's job).
func directiveKind(word string) (token.Kind, bool) {
	switch word {
	case "include":
		return token.PPInclude, true
	case "include_next":
		return token.PPIncludeNext, true
	case "define":
		return token.PPDefine, true
	case "undef":
		return token.PPUndef, true
	case "if":
		return token.PPIf, true
	case "ifdef":
		return token.PPIfdef, true
	case "ifndef":
		return token.PPIfndef, true
	case "elif":
		return token.PPElif, true
	case "elifdef":
		return token.PPElifdef, true
	case "elifndef":
		return token.PPElifndef, true
	case "else":
		return token.PPElse, true
	case "endif":
		return token.PPEndif, true
	case "pragma":
		return token.PPPragma, true
	case "error":
		return token.PPError, true
	case "warning":
		return token.PPWarning, true
	case "line":
		return token.PPLine, true
	default:
		return token.Unknown, false
	}
}

// parsedInclude is the result of parsing the operand of a #include /
// #include_next directive.
type parsedInclude struct {
	path     string
	isSystem bool
}

// parseIncludeOperand parses the text following `#include` (already
// macro-expanded if the directive text referenced macros) into a path and
// its quoted-vs-angle-bracket form.
func parseIncludeOperand(operand string) (parsedInclude, bool) {
	operand = strings.TrimSpace(operand)
	if len(operand) >= 2 && operand[0] == '"' && operand[len(operand)-1] == '"' {
		return parsedInclude{path: operand[1 : len(operand)-1], isSystem: false}, true
	}
	if len(operand) >= 2 && operand[0] == '<' && operand[len(operand)-1] == '>' {
		return parsedInclude{path: operand[1 : len(operand)-1], isSystem: true}, true
	}
	return parsedInclude{}, false
}
