package scheme

import (
	"fmt"
)

// SyntaxError reports the furthest offset the parse reached before no
// alternative remained. Line and Col are 1-based.
type SyntaxError struct {
	Offset int
	Line   int
	Col    int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d (offset %d): %v", e.Line, e.Col, e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// UnterminatedLiteralError is a SyntaxError at end of input inside an open
// string, list, vector or bytevector.
type UnterminatedLiteralError struct {
	Syntax SyntaxError
	Delim  string
}

func (e *UnterminatedLiteralError) Error() string {
	return fmt.Sprintf("unterminated literal, expected %q before end of input at %d:%d",
		e.Delim, e.Syntax.Line, e.Syntax.Col)
}

func (e *UnterminatedLiteralError) Unwrap() error { return &e.Syntax }

// NumericFormatError reports a numeric literal that matched the grammar but
// denotes no number, such as a rational with a zero denominator.
type NumericFormatError struct {
	Literal string
	Reason  string
}

func (e *NumericFormatError) Error() string {
	return fmt.Sprintf("invalid numeric literal %q: %s", e.Literal, e.Reason)
}

// UnresolvedLabelError reports a #n# reference with no preceding #n=
// definition in the same top-level form.
type UnresolvedLabelError struct {
	Label int
}

func (e *UnresolvedLabelError) Error() string {
	return fmt.Sprintf("unresolved datum label #%d#", e.Label)
}
