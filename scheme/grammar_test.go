package scheme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProgram(t *testing.T, input string) []Value {
	t.Helper()
	forms, err := Parse(input, Model{})
	require.NoError(t, err)
	return forms
}

func mustForm(t *testing.T, input string) Value {
	t.Helper()
	forms := mustProgram(t, input)
	require.Len(t, forms, 1)
	return forms[0]
}

func TestVariableDefinition(t *testing.T) {
	def, ok := mustForm(t, `(define x 5)`).(Definition)
	require.True(t, ok)
	assert.Equal(t, Symbol("x"), def.Name)
	assert.IsType(t, Literal{}, def.Value)
	assert.Equal(t, `(define x 5)`, WriteString(def))
}

func TestFunctionDefinition(t *testing.T) {
	def, ok := mustForm(t, `(define (add a b) (+ a b))`).(FunctionDefinition)
	require.True(t, ok)
	assert.Equal(t, Symbol("add"), def.Name)
	assert.Equal(t, []Value{Symbol("a"), Symbol("b")}, def.Formals.Fixed)
	assert.Nil(t, def.Formals.Rest)
	require.Len(t, def.Body, 1)
	assert.Equal(t, `(define (add a b) (+ a b))`, WriteString(def))
}

func TestFunctionDefinitionRestParameter(t *testing.T) {
	def := mustForm(t, `(define (f a . rest) rest)`).(FunctionDefinition)
	assert.Equal(t, []Value{Symbol("a")}, def.Formals.Fixed)
	assert.Equal(t, Symbol("rest"), def.Formals.Rest)
	assert.Equal(t, `(define (f a . rest) rest)`, WriteString(def))

	def = mustForm(t, `(define (g . args) args)`).(FunctionDefinition)
	assert.Empty(t, def.Formals.Fixed)
	assert.Equal(t, Symbol("args"), def.Formals.Rest)
}

func TestInnerDefinitions(t *testing.T) {
	def := mustForm(t, `(define (f) (define y 1) y)`).(FunctionDefinition)
	require.Len(t, def.Body, 2)
	assert.IsType(t, Definition{}, def.Body[0])
	assert.IsType(t, Identifier{}, def.Body[1])
}

func TestSyntaxDefinition(t *testing.T) {
	input := `(define-syntax k (syntax-rules (else) (#t (quote yes))))`
	def, ok := mustForm(t, input).(SyntaxDefinition)
	require.True(t, ok)
	assert.Equal(t, Symbol("k"), def.Name)
	assert.Equal(t, []Value{Symbol("else")}, def.Literals)
	require.Len(t, def.Rules, 1)
	rule := def.Rules[0].(SyntaxRule)
	assert.Equal(t, Boolean(true), rule.Pattern)
	assert.Equal(t, input, WriteString(def))
}

func TestLambda(t *testing.T) {
	lam, ok := mustForm(t, `(lambda (x) x)`).(Lambda)
	require.True(t, ok)
	assert.Equal(t, []Value{Symbol("x")}, lam.Formals.Fixed)
	assert.Equal(t, `(lambda (x) x)`, WriteString(lam))

	lam = mustForm(t, `(lambda args args)`).(Lambda)
	assert.Empty(t, lam.Formals.Fixed)
	assert.Equal(t, Symbol("args"), lam.Formals.Rest)
	assert.Equal(t, `(lambda args args)`, WriteString(lam))

	lam = mustForm(t, `(lambda (a b . rest) a)`).(Lambda)
	assert.Len(t, lam.Formals.Fixed, 2)
	assert.Equal(t, Symbol("rest"), lam.Formals.Rest)
}

func TestCall(t *testing.T) {
	call, ok := mustForm(t, `(f x 1 "s")`).(Call)
	require.True(t, ok)
	assert.Equal(t, Identifier{Sym: Symbol("f")}, call.Operator)
	require.Len(t, call.Operands, 3)
	assert.Equal(t, `(f x 1 "s")`, WriteString(call))

	// Operators are expressions, not just names.
	call = mustForm(t, `((lambda (x) x) 1)`).(Call)
	assert.IsType(t, Lambda{}, call.Operator)
}

// A keyword is only a keyword as a whole symbol: define! must reach the
// generic call rule.
func TestKeywordsNeedDelimiters(t *testing.T) {
	call, ok := mustForm(t, `(define! x y)`).(Call)
	require.True(t, ok)
	assert.Equal(t, Identifier{Sym: Symbol("define!")}, call.Operator)
	assert.Len(t, call.Operands, 2)

	// (define x) has no value expression, so it reads as a call too.
	call, ok = mustForm(t, `(define x)`).(Call)
	require.True(t, ok)
	assert.Equal(t, Identifier{Sym: Symbol("define")}, call.Operator)
}

func TestLiteralExpressions(t *testing.T) {
	assert.IsType(t, Literal{}, mustForm(t, `42`))
	assert.IsType(t, Literal{}, mustForm(t, `"s"`))
	assert.IsType(t, Literal{}, mustForm(t, `#(1 2)`))
	assert.IsType(t, Literal{}, mustForm(t, `'(a b)`))
	assert.IsType(t, Identifier{}, mustForm(t, `x`))
}

func TestProgramYieldsOneValuePerForm(t *testing.T) {
	forms := mustProgram(t, `(define x 1) x (f x)`)
	require.Len(t, forms, 3)
	assert.IsType(t, Definition{}, forms[0])
	assert.IsType(t, Identifier{}, forms[1])
	assert.IsType(t, Call{}, forms[2])
}

// A line comment swallows its whole line: no token may start inside it, and
// no form may grow out of its tail.
func TestLineCommentsAreOpaque(t *testing.T) {
	forms := mustProgram(t, "(define x 1) ; note")
	require.Len(t, forms, 1)
	assert.IsType(t, Definition{}, forms[0])

	forms = mustProgram(t, "x ; first\ny")
	require.Len(t, forms, 2)
	assert.Equal(t, Identifier{Sym: Symbol("y")}, forms[1])

	forms = mustProgram(t, "(f) ; unbalanced ) and \"quote")
	require.Len(t, forms, 1)
}

func TestEmptyProgramFails(t *testing.T) {
	_, err := Parse(``, Model{})
	assert.Error(t, err)
	_, err = Parse("  ; just a comment\n", Model{})
	assert.Error(t, err)
}

func TestUnterminatedLiterals(t *testing.T) {
	for _, test := range []struct {
		input string
		delim string
	}{
		{`(a b`, `)`},
		{`"abc`, `"`},
		{`#| open`, `|#`},
		{`(a (b c)`, `)`},
		{`#(1 2`, `)`},
		{`#u8(1`, `)`},
	} {
		_, err := Parse(test.input, Model{})
		require.Error(t, err, test.input)
		var unterminated *UnterminatedLiteralError
		require.True(t, errors.As(err, &unterminated), "%s: got %T: %v", test.input, err, err)
		assert.Equal(t, test.delim, unterminated.Delim, test.input)
	}
}

func TestSyntaxErrorReportsFurthestOffset(t *testing.T) {
	_, err := Parse(`(a b`, Model{})
	var syn *SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Equal(t, 4, syn.Offset)
	assert.Equal(t, 1, syn.Line)
	assert.Equal(t, 5, syn.Col)
}

func TestTrailingGarbage(t *testing.T) {
	_, err := Parse(`(a) )`, Model{})
	require.Error(t, err)
	var syn *SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Equal(t, 4, syn.Offset)
	var unterminated *UnterminatedLiteralError
	assert.False(t, errors.As(err, &unterminated))
}

func TestDottedBeforeProper(t *testing.T) {
	v := mustRead(`(a . b)`)
	p := v.(*Pair)
	assert.Equal(t, Symbol("b"), p.Cdr)

	v = mustRead(`(a b)`)
	p = v.(*Pair)
	assert.IsType(t, &Pair{}, p.Cdr)
}

func TestDotNeedsDelimiters(t *testing.T) {
	// .5 is a number, not a dotted tail.
	v := mustRead(`(a .5)`)
	p := v.(*Pair)
	second := p.Cdr.(*Pair).Car
	assert.IsType(t, Number{}, second)

	// A lone dot with nothing before it is invalid.
	_, err := ParseDatum(`(. b)`, Model{})
	assert.Error(t, err)
}

func TestCoreGrammarExposed(t *testing.T) {
	p := Core()
	assert.True(t, p.HasRule(RuleProgram))
	assert.True(t, p.HasRule(RuleDatum))
}
