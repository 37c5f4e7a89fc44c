package lexer

import "github.com/KikuchiTomo/cclint/internal/token"

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isOctDigit(b byte) bool { return b >= '0' && b <= '7' }

func isBinDigit(b byte) bool { return b == '0' || b == '1' }

// scanNumber scans an integer or floating-point literal, including hex,
// octal, binary and decimal bases, digit separators ('), exponents, and
// ud-suffixes. A suffix immediately followed by an identifier-start
// character past the point where no further digit/suffix char applies is
// not special-cased beyond greedy suffix absorption: the suffix characters
// themselves (u/U/l/L/f/F) are consumed as part of the numeral, matching
// ordinary integer/float suffixes; a literal operator suffix (_foo) turns
// the token into a UserDefinedLiteral.
func (lx *Lexer) scanNumber() token.Token {
	data := lx.rest()
	n := 0
	isFloat := false

	switch {
	case hasPrefixAt(data, 0, "0x") || hasPrefixAt(data, 0, "0X"):
		n = 2
		n += digitRun(data[n:], isHexDigit)
		if n < len(data) && data[n] == '.' {
			isFloat = true
			n++
			n += digitRun(data[n:], isHexDigit)
		}
		if n < len(data) && (data[n] == 'p' || data[n] == 'P') {
			isFloat = true
			n += exponentLength(data[n:])
		}
	case hasPrefixAt(data, 0, "0b") || hasPrefixAt(data, 0, "0B"):
		n = 2
		n += digitRun(data[n:], isBinDigit)
	default:
		n += digitRun(data, isDigit)
		if n < len(data) && data[n] == '.' {
			isFloat = true
			n++
			n += digitRun(data[n:], isDigit)
		}
		if n < len(data) && (data[n] == 'e' || data[n] == 'E') {
			if exp := exponentLength(data[n:]); exp > 0 {
				isFloat = true
				n += exp
			}
		}
	}

	// Suffix: greedily consume trailing u/U/l/L/f/F letters (unsigned,
	// long, long long, float), then check for a user-defined-literal
	// suffix (an identifier immediately following).
	suffixEnd := n
	for suffixEnd < len(data) && isNumericSuffixLetter(data[suffixEnd]) {
		suffixEnd++
	}

	kind := token.IntegerLiteral
	if isFloat {
		kind = token.FloatingLiteral
	}

	if suffixEnd < len(data) && isIdentStart(data[suffixEnd]) {
		// ud-suffix: e.g. 10_km. The whole identifier run is part of the
		// token and reclassifies it as a user-defined literal.
		idLen := identifierLength(data[suffixEnd:])
		tok := lx.consume(suffixEnd+idLen, token.UserDefinedLiteral)
		return tok
	}

	return lx.consume(suffixEnd, kind)
}

func isNumericSuffixLetter(b byte) bool {
	switch b {
	case 'u', 'U', 'l', 'L', 'f', 'F':
		return true
	default:
		return false
	}
}

func digitRun(data []byte, pred func(byte) bool) int {
	n := 0
	for n < len(data) && (pred(data[n]) || data[n] == '\'') {
		n++
	}
	return n
}

// exponentLength returns the length of an exponent marker ([eEpP][+-]?digits)
// at the start of data, or 0 if data does not start with a valid one.
func exponentLength(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	switch data[0] {
	case 'e', 'E', 'p', 'P':
	default:
		return 0
	}
	n := 1
	if n < len(data) && (data[n] == '+' || data[n] == '-') {
		n++
	}
	start := n
	n += digitRun(data[n:], isDigit)
	if n == start {
		return 0
	}
	return n
}
