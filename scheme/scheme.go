// Package scheme is a reader for an R7RS-flavoured Scheme: a declarative
// ordered-choice grammar over the parser package, plus semantic-action
// callbacks that build caller-defined values once the parse has succeeded.
package scheme

import (
	"strings"

	"github.com/zaoqi-unsafe/aydede/parser"
)

// Parse reads a whole program, one or more definitions or expressions, and
// returns one value per top-level form. The values come from actions; use
// Model{} for this package's own types.
func Parse(input string, actions Actions) ([]Value, error) {
	sc := parser.NewScanner(input)
	tree, err := core.Parse(RuleProgram, sc)
	if err != nil {
		return nil, classifyFailure(input, sc, err)
	}
	return newBuilder(actions).program(tree)
}

// ParseDatum reads a single datum, the payload of quotation and syntax-rules
// templates, from the whole input.
func ParseDatum(input string, actions Actions) (Value, error) {
	sc := parser.NewScanner(input)
	tree, err := core.Parse(RuleDatum, sc)
	if err != nil {
		return nil, classifyFailure(input, sc, err)
	}
	return newBuilder(actions).datum(tree.(parser.Node))
}

// classifyFailure turns a grammar failure into a SyntaxError at the furthest
// offset the parse reached, upgraded to UnterminatedLiteralError when the
// input left a string, comment or bracketed literal open.
func classifyFailure(input string, sc *parser.Scanner, err error) error {
	pos := *sc
	if uc, ok := err.(parser.UnconsumedInputError); ok {
		pos = *uc.Residue()
	}
	line, col := pos.Position()
	syn := SyntaxError{Offset: pos.Offset(), Line: line, Col: col, Err: err}
	if delim, at, open := openLiteral(input); open && pos.Offset() >= at {
		return &UnterminatedLiteralError{Syntax: syn, Delim: delim}
	}
	return &syn
}

// openLiteral scans the raw input for a string, block comment or bracketed
// structure still open at end of input. It reports the closing delimiter
// owed and the offset where the unclosed construct started.
func openLiteral(src string) (delim string, at int, open bool) {
	type opener struct {
		delim string
		at    int
	}
	var stack []opener
	i := 0
	for i < len(src) {
		switch c := src[i]; c {
		case '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				return `"`, i, true
			}
			i = j + 1
		case ';':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case '#':
			if strings.HasPrefix(src[i:], "#|") {
				end := strings.Index(src[i+2:], "|#")
				if end < 0 {
					return "|#", i, true
				}
				i += 2 + end + 2
			} else if strings.HasPrefix(src[i:], `#\`) {
				// The escaped character never counts, even if it is a
				// bracket or quote.
				i += 3
			} else {
				i++
			}
		case '(':
			stack = append(stack, opener{delim: ")", at: i})
			i++
		case ')':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			i++
		default:
			i++
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return top.delim, top.at, true
	}
	return "", 0, false
}
