package scheme

import (
	"strings"
)

// Numeric literals per radix. Radixes 2, 8 and 16 require their radix prefix
// and admit integers and rationals; radix 10 may omit the prefix and adds
// decimal forms. Prefix order is free: #e#x10 and #x#e10 are the same number.

const exactnessRE = `#[eEiI]`

func prefixedNumberRE(radixChar, digit string) string {
	u := digit + `+`
	prefix := `(?:#[` + radixChar + `](?:` + exactnessRE + `)?|` + exactnessRE + `#[` + radixChar + `])`
	return prefix + `(?:[+-](?:inf|nan)\.0|[+-]?(?:` + u + `/` + u + `|` + u + `))`
}

func decimalNumberRE() string {
	d := `[0-9]+`
	suffix := `(?:[eE][+-]?[0-9]+)?`
	prefix := `(?:#[dD](?:` + exactnessRE + `)?|` + exactnessRE + `(?:#[dD])?)?`
	return prefix + `(?:[+-](?:inf|nan)\.0|[+-]?(?:` +
		d + `/` + d + `|` +
		d + `\.[0-9]*` + suffix + `|` +
		`\.` + d + suffix + `|` +
		d + suffix + `))`
}

var (
	num2RE  = prefixedNumberRE(`bB`, `[01]`)
	num8RE  = prefixedNumberRE(`oO`, `[0-7]`)
	num16RE = prefixedNumberRE(`xX`, `[0-9a-fA-F]`)
	num10RE = decimalNumberRE()
)

// Exactness is the requested exactness of a numeric literal: the explicit
// prefix when present, otherwise derived from the literal's shape.
type Exactness int

const (
	ExactnessDefault Exactness = iota
	Exact
	Inexact
)

// NumberKind discriminates the surface shape of a numeric literal.
type NumberKind int

const (
	KindInteger NumberKind = iota
	KindRational
	KindDecimal
	KindInfNan
)

// NumberDescriptor is the decoded form of a numeric literal: all digit
// sequences are kept as written, uninterpreted, so callbacks may build
// numbers of any width or representation.
type NumberDescriptor struct {
	Literal   string
	Radix     int
	Exactness Exactness
	Negative  bool
	Kind      NumberKind

	// KindInteger: Whole. KindRational: Numerator and Denominator.
	// KindDecimal: Whole and/or Fraction, optionally Exponent (with sign).
	// KindInfNan: NaN reports which of the two forms was written.
	Whole       string
	Numerator   string
	Denominator string
	Fraction    string
	Exponent    string
	NaN         bool
}

// Exact reports whether the literal denotes an exact number: an explicit
// prefix wins, otherwise decimal and inf/nan forms are inexact and the rest
// exact.
func (d NumberDescriptor) Exact() bool {
	switch d.Exactness {
	case Exact:
		return true
	case Inexact:
		return false
	}
	return d.Kind == KindInteger || d.Kind == KindRational
}

var radixChars = map[byte]int{
	'b': 2, 'B': 2,
	'o': 8, 'O': 8,
	'd': 10, 'D': 10,
	'x': 16, 'X': 16,
}

// DecodeNumberLiteral decodes the text of a numeric token the grammar
// matched. The grammar guarantees shape, so failures here are limited to
// prefix combinations written twice.
func DecodeNumberLiteral(text string) (NumberDescriptor, error) {
	d := NumberDescriptor{Literal: text, Radix: 10}
	rest := text
	radixSeen, exactSeen := false, false
	for len(rest) >= 2 && rest[0] == '#' {
		switch c := rest[1]; {
		case c == 'e' || c == 'E' || c == 'i' || c == 'I':
			if exactSeen {
				return d, &NumericFormatError{Literal: text, Reason: "duplicate exactness prefix"}
			}
			exactSeen = true
			if c == 'e' || c == 'E' {
				d.Exactness = Exact
			} else {
				d.Exactness = Inexact
			}
		default:
			radix, ok := radixChars[c]
			if !ok || radixSeen {
				return d, &NumericFormatError{Literal: text, Reason: "malformed radix prefix"}
			}
			radixSeen = true
			d.Radix = radix
		}
		rest = rest[2:]
	}
	if len(rest) == 0 {
		return d, &NumericFormatError{Literal: text, Reason: "prefix without digits"}
	}

	switch rest[0] {
	case '-':
		d.Negative = true
		rest = rest[1:]
	case '+':
		rest = rest[1:]
	}

	switch {
	case rest == "inf.0" || rest == "nan.0":
		d.Kind = KindInfNan
		d.NaN = rest[0] == 'n'
	case strings.ContainsRune(rest, '/'):
		d.Kind = KindRational
		parts := strings.SplitN(rest, "/", 2)
		d.Numerator, d.Denominator = parts[0], parts[1]
	case d.Radix == 10 && strings.ContainsAny(rest, ".eE"):
		d.Kind = KindDecimal
		if i := strings.IndexAny(rest, "eE"); i >= 0 {
			d.Exponent = rest[i+1:]
			rest = rest[:i]
		}
		if i := strings.IndexByte(rest, '.'); i >= 0 {
			d.Whole, d.Fraction = rest[:i], rest[i+1:]
		} else {
			d.Whole = rest
		}
	default:
		d.Kind = KindInteger
		d.Whole = rest
	}
	return d, nil
}

func allZeroDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return false
		}
	}
	return true
}
