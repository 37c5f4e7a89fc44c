package preprocessor

import (
	"strings"

	"github.com/KikuchiTomo/cclint/internal/token"
)

// reconstructText re-joins a token slice back into source-like text, using
// each token's HasWhitespaceBefore flag to decide whether a space belongs
// between it and its predecessor. Used for directive operands (#include,
// #error, #warning) where the exact original spacing matters.
func reconstructText(toks []token.Token) string {
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 && t.HasWhitespaceBefore {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}
