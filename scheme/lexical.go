package scheme

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zaoqi-unsafe/aydede/parser"
)

// Lexical classes of the reader. Identifier initials are letters plus the
// special initial set; subsequents add digits, signs, dot and at-sign.
const (
	initialClass    = `A-Za-z!$%&*/:<=>?^_~`
	subsequentClass = initialClass + `0-9+.@\-`
)

// A token that is not self-delimiting must be followed by a delimiter
// (whitespace, parenthesis, quote, string or comment start) or end of input.
// RE2 has no lookahead, so the boundary check is a zero-width Neg on the
// subsequent class.
const tokenBoundary = `[` + subsequentClass + `]`

// Inter-token skip: whitespace, ; line comments and #| ... |# block comments
// (non-nesting). The line-comment alternative is anchored to its line ending:
// the skip and the token it precedes share one regexp, and an unanchored
// comment would give characters back for the token to match inside the
// comment text.
const skipRE = `(?:\s|;[^\n]*(?:\n|\z)|#\|(?:[^|]|\|+[^|#])*\|+#)*`

const (
	symbolRE = `[` + initialClass + `][` + subsequentClass + `]*|\.\.\.|[+-]`
	boolRE   = `#t(?:rue)?|#f(?:alse)?`
	charRE   = `#\\(?:alarm|backspace|delete|escape|newline|null|return|space|tab|x[0-9A-Fa-f]+|.)`
	stringRE = `"(?s:\\.|[^"\\])*"`

	// Bytevector elements are restricted to 0-255 at the grammar: three-digit
	// literals starting with 2 stop at 255, the rest are 1xx or at most two
	// digits.
	byteRE = `25[0-5]|2[0-4][0-9]|1[0-9][0-9]|[0-9][0-9]?`

	labelDefRE = `#[0-9]+=`
	labelRefRE = `#[0-9]+#`

	// ,@ before , : ordered alternation inside the token.
	abbrevRE = `,@|,|'|` + "`"
)

// tok builds a delimiter-checked token term.
func tok(re string) parser.Term {
	return parser.Seq{parser.RE(re), parser.Neg(tokenBoundary)}
}

// keyword matches a fixed word only when it is a whole symbol: (define! x y)
// must reach the generic call rule, never the definition rules.
func keyword(name string) parser.Term {
	return parser.Seq{parser.RE(regexp.QuoteMeta(name)), parser.Neg(tokenBoundary)}
}

// dot is the pair separator, boundary-checked so that .5 stays a number.
func dot() parser.Term {
	return parser.Seq{parser.S("."), parser.Neg(tokenBoundary)}
}

var characterNames = map[string]rune{
	"alarm":     '\a',
	"backspace": '\b',
	"delete":    0x7f,
	"escape":    0x1b,
	"newline":   '\n',
	"null":      0,
	"return":    '\r',
	"space":     ' ',
	"tab":       '\t',
}

// decodeCharacterLiteral decodes the text of a character token, following
// #\ with a named character, a hex escape, or a single literal character.
func decodeCharacterLiteral(text string) (rune, error) {
	body := text[len(`#\`):]
	if r, ok := characterNames[body]; ok {
		return r, nil
	}
	if len(body) > 1 && body[0] == 'x' {
		n, err := strconv.ParseUint(body[1:], 16, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return 0, fmt.Errorf("invalid character escape %q", text)
		}
		return rune(n), nil
	}
	r, _ := utf8.DecodeRuneInString(body)
	return r, nil
}

func isIntralineWhitespace(b byte) bool {
	return b == ' ' || b == '\t'
}

// decodeStringLiteral decodes a quoted string token: mnemonic escapes, hex
// escapes (\xHH...;), escaped quote and backslash, and the backslash-newline
// continuation that deletes itself plus surrounding intraline whitespace.
func decodeStringLiteral(text string) (string, error) {
	body := text[1 : len(text)-1]
	var out strings.Builder
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			out.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(body) {
			return "", fmt.Errorf("dangling escape in string literal")
		}
		i++
		switch e := body[i]; e {
		case 'a':
			out.WriteByte('\a')
			i++
		case 'b':
			out.WriteByte('\b')
			i++
		case 't':
			out.WriteByte('\t')
			i++
		case 'n':
			out.WriteByte('\n')
			i++
		case 'r':
			out.WriteByte('\r')
			i++
		case '"', '\\':
			out.WriteByte(e)
			i++
		case 'x':
			semi := strings.IndexByte(body[i:], ';')
			if semi < 0 {
				return "", fmt.Errorf("unterminated hex escape in string literal")
			}
			n, err := strconv.ParseUint(body[i+1:i+semi], 16, 32)
			if err != nil || !utf8.ValidRune(rune(n)) {
				return "", fmt.Errorf("invalid hex escape in string literal")
			}
			out.WriteRune(rune(n))
			i += semi + 1
		default:
			// Line continuation: \ intraline-ws* line-ending intraline-ws*
			j := i
			for j < len(body) && isIntralineWhitespace(body[j]) {
				j++
			}
			if j < len(body) && (body[j] == '\n' || body[j] == '\r') {
				if body[j] == '\r' && j+1 < len(body) && body[j+1] == '\n' {
					j++
				}
				j++
				for j < len(body) && isIntralineWhitespace(body[j]) {
					j++
				}
				i = j
				continue
			}
			return "", fmt.Errorf("unknown escape \\%c in string literal", e)
		}
	}
	return out.String(), nil
}
