package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests all verify the parser behaviour when the tested Term fails
// inside a CutPoint scope. The test automatically adds a
// Seq{CutPoint{S(":")}} around the test term and prefixes the input so that
// it passes.
func TestParserWithCutpointScope(t *testing.T) {
	for _, test := range []struct {
		name  string
		term  Term
		err   error // what type of error is expected when not in a cutpoint scope
		input string
	}{
		{name: "seq ok", term: Seq{S("a"), S("b")}, err: nil, input: "ab"},
		{name: "seq fail non fatal child", term: Seq{S("a"), S("b")}, err: &ParseError{}, input: "b"},
		{name: "seq fail fatal child", term: Seq{CutPoint{S("a")}, S("b")}, err: FatalError{}, input: "a"},

		{name: "oneof ok", term: Oneof{S("1"), Seq{S("a"), CutPoint{S("b")}, S("c")}}, err: nil, input: "abc"},
		{name: "oneof fail not fatal", term: Oneof{S("1"), Seq{S("a"), CutPoint{S("b")}, S("c")}}, err: &ParseError{}, input: "z"},
		{name: "oneof fail fatal child", term: Oneof{S("1"), Seq{S("a"), CutPoint{S("b")}, S("c")}}, err: FatalError{}, input: "abd"},

		{name: "quant min = 1 ok", term: Some(S("1")), err: nil, input: "11"},
		{name: "quant min = 1 fail", term: Some(S("1")), err: &ParseError{}, input: "2"},
		{name: "quant min = 1 fail seq", term: Some(Seq{CutPoint{S("1")}, S("2")}), err: FatalError{}, input: "1"},

		{name: "quant min = 0 ok", term: Any(S("1")), err: nil, input: ""},
		{name: "quant min = 0 fail seq", term: Any(Seq{CutPoint{S("1")}, S("2")}), err: FatalError{}, input: "1"},
	} {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Run("with cutpoint", func(t *testing.T) {
				p := Grammar{"a": Seq{CutPoint{S(":")}, test.term}}.Compile()
				te, err := p.Parse("a", NewScanner(":"+test.input))
				if test.err == nil {
					assert.NotNil(t, te)
					assert.NoError(t, err)
				} else {
					assert.Nil(t, te)
					assert.Error(t, err)
					assert.IsType(t, FatalError{}, err)
				}
			})
			t.Run("without cutpoint", func(t *testing.T) {
				p := Grammar{"a": test.term}.Compile()
				te, err := p.Parse("a", NewScanner(test.input))
				if test.err == nil {
					assert.NotNil(t, te)
					assert.NoError(t, err)
				} else {
					assert.Nil(t, te)
					assert.Error(t, err)
					assert.IsType(t, test.err, err)
				}
			})
		})
	}
}

func TestOneofPrefersEarlierAlternative(t *testing.T) {
	p := Grammar{"a": Oneof{S("xy"), S("x")}}.Compile()
	te, err := p.Parse("a", NewScanner("xy"))
	require.NoError(t, err)
	node := te.(Node)
	assert.Equal(t, Choice(0), node.Extra)
	assert.Equal(t, "xy", node.GetString(0))
}

func TestOneofChoiceIndexRecorded(t *testing.T) {
	p := Grammar{"a": Oneof{S("x"), S("y"), S("z")}}.Compile()
	te, err := p.Parse("a", NewScanner("z"))
	require.NoError(t, err)
	assert.Equal(t, Choice(2), te.(Node).Extra)
}

func TestNegBlocksToken(t *testing.T) {
	// "ab" must not parse as token "a" followed by residue.
	g := Grammar{"a": Seq{RE(`a`), Neg(`b`)}}
	p := g.Compile()

	_, err := p.Parse("a", NewScanner("ab"))
	assert.Error(t, err)

	te, err := p.Parse("a", NewScanner("a"))
	require.NoError(t, err)
	node := te.(Node)
	assert.Equal(t, "a", node.GetString(0))
	assert.Equal(t, Empty{}, node.Children[1])
}

func TestNegIgnoresWrapSkip(t *testing.T) {
	// The skip must not apply before the Neg check: "a b" is fine because b
	// is not immediately after a.
	g := Grammar{
		"a":    Seq{RE(`a`), Neg(`b`), RE(`b`)},
		WrapRE: RE(`\s*()`),
	}
	p := g.Compile()

	_, err := p.Parse("a", NewScanner("a b"))
	assert.NoError(t, err)

	_, err = p.Parse("a", NewScanner("ab"))
	assert.Error(t, err)
}

func TestWrapRESkipsLeadingOnly(t *testing.T) {
	p := Grammar{
		"a":    Seq{S("x"), S("y")},
		WrapRE: RE(`\s*()`),
	}.Compile()

	_, err := p.Parse("a", NewScanner("  x  y  "))
	assert.NoError(t, err)
}

func TestParseFailureLeavesScannerAtFurthestOffset(t *testing.T) {
	p := Grammar{
		"a":    Oneof{Seq{S("x"), S("y"), S("z")}, S("q")},
		WrapRE: RE(`\s*()`),
	}.Compile()

	input := NewScanner("x y w")
	_, err := p.Parse("a", input)
	require.Error(t, err)
	assert.Equal(t, 3, input.Offset())
}

func TestUnconsumedInput(t *testing.T) {
	p := Grammar{"a": S("x")}.Compile()
	_, err := p.Parse("a", NewScanner("xy"))
	require.Error(t, err)
	unconsumed, ok := err.(UnconsumedInputError)
	require.True(t, ok)
	assert.Equal(t, "y", unconsumed.Residue().String())
	assert.NotNil(t, unconsumed.Result())
}

func TestQuantMinMax(t *testing.T) {
	p := Grammar{"a": Quant{Term: S("x"), Min: 2, Max: 3}}.Compile()

	_, err := p.Parse("a", NewScanner("x"))
	assert.Error(t, err)

	te, err := p.Parse("a", NewScanner("xxx"))
	require.NoError(t, err)
	assert.Equal(t, 3, te.(Node).Count())

	_, err = p.Parse("a", NewScanner("xxxx"))
	assert.IsType(t, UnconsumedInputError{}, err)
}

func TestNamedTagsNode(t *testing.T) {
	p := Grammar{"a": Seq{Eq("lhs", S("x")), S("="), Eq("rhs", S("y"))}}.Compile()
	te, err := p.Parse("a", NewScanner("x=y"))
	require.NoError(t, err)
	node := te.(Node)
	assert.Equal(t, "a", node.Tag)
}

func TestRuleRefsResolve(t *testing.T) {
	p := Grammar{
		"a": Seq{Rule("b"), Rule("b")},
		"b": RE(`[0-9]`),
	}.Compile()
	te, err := p.Parse("a", NewScanner("12"))
	require.NoError(t, err)
	node := te.(Node)
	assert.Equal(t, "1", node.GetString(0))
	assert.Equal(t, "2", node.GetString(1))
}

func TestREFBackreference(t *testing.T) {
	p := Grammar{
		"a": Seq{Eq("open", RE(`[ab]`)), S("-"), REF{Ident: "open"}},
	}.Compile()

	_, err := p.Parse("a", NewScanner("a-a"))
	assert.NoError(t, err)

	_, err = p.Parse("a", NewScanner("a-b"))
	assert.Error(t, err)
}

func TestGrammarAliasRule(t *testing.T) {
	p := Grammar{
		"a": Rule("b"),
		"b": S("x"),
	}.Compile()
	require.True(t, p.HasRule("a"))
	_, err := p.Parse("a", NewScanner("x"))
	assert.NoError(t, err)
}
