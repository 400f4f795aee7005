package parser

import (
	"fmt"

	"github.com/zaoqi-unsafe/aydede/gotree"
)

// ParseError is the normal currency of backtracking: every failed term
// produces one, and ordered choice swallows them until no alternative is
// left. Only the error surviving the root rule reaches the caller.
type ParseError struct {
	rule     Rule
	msg      string
	children []error
}

func newParseError(rule Rule, msg string, children ...error) error {
	return &ParseError{
		rule:     rule,
		msg:      msg,
		children: children,
	}
}

func (p *ParseError) Error() string {
	tree := gotree.New("parse failed")
	p.walkErrors(tree)

	return "\n" + tree.Print()
}

func (p *ParseError) walkErrors(parent gotree.Tree) {
	x := gotree.New(fmt.Sprintf(`rule(%s) - %s`, p.rule, p.msg))
	for _, err := range p.children {
		if pe, ok := err.(*ParseError); ok {
			pe.walkErrors(x)
		} else {
			x.Add(err.Error())
		}
	}
	parent.AddTree(x)
}

// FatalError is a ParseError that crossed a CutPoint: no enclosing
// alternative may catch it, the whole parse aborts.
type FatalError struct {
	*ParseError
	Cutpointdata
}

func isFatal(err error) bool {
	_, ok := err.(FatalError)
	return ok
}

func promote(err error, cp Cutpointdata) error {
	if isFatal(err) {
		return err
	}
	pe, ok := err.(*ParseError)
	if !ok {
		pe = &ParseError{msg: err.Error()}
	}
	return FatalError{pe, cp}
}

// UnconsumedInputError is returned by a successful parse that didn't fully
// consume the input.
type UnconsumedInputError struct {
	residue Scanner
	tree    TreeElement
}

func UnconsumedInput(residue Scanner, result TreeElement) UnconsumedInputError {
	return UnconsumedInputError{residue: residue, tree: result}
}

func (e UnconsumedInputError) Error() string {
	return fmt.Sprintf("unconsumed input\n %v", e.residue.Context(DefaultLimit))
}

func (e UnconsumedInputError) Result() TreeElement { return e.tree }
func (e UnconsumedInputError) Residue() *Scanner   { return &e.residue }
