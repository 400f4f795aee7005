package parser

import (
	"fmt"
	"strings"
)

// TreeElement is a node of a parse result: either a Node branch or a Scanner
// leaf holding the matched text.
type TreeElement interface {
	IsTreeElement()
}

// Extra carries rule-specific metadata on a Node.
type Extra interface {
	IsExtra()
}

// Choice records which alternative of a Oneof matched, as a 0-based index
// into the declared order.
type Choice int

func (Choice) IsExtra() {}

// Empty is the output of zero-width terms.
type Empty struct{}

func (Empty) IsTreeElement() {}

func (Scanner) IsTreeElement() {}

func (Node) IsTreeElement() {}

type Node struct {
	Tag      string        `json:"tag"`
	Extra    Extra         `json:"extra"`
	Children []TreeElement `json:"nodes"`
}

func NewNode(tag string, extra Extra, children ...TreeElement) *Node {
	return &Node{Tag: tag, Extra: extra, Children: children}
}

func (n Node) Count() int {
	return len(n.Children)
}

func (n Node) Get(path ...int) TreeElement {
	var v TreeElement = n
	for _, i := range path {
		v = v.(Node).Children[i]
	}
	return v
}

func (n Node) GetNode(path ...int) Node {
	return n.Get(path...).(Node)
}

func (n Node) GetScanner(path ...int) Scanner {
	return n.Get(path...).(Scanner)
}

func (n Node) GetString(path ...int) string {
	return n.GetScanner(path...).String()
}

func (n Node) String() string {
	return fmt.Sprintf("%s", n) //nolint:gosimple
}

func (n Node) Format(state fmt.State, c rune) {
	fmt.Fprintf(state, "%s", n.Tag)
	format := "%" + string(c)
	if n.Extra != nil {
		fmt.Fprintf(state, "║"+format, n.Extra)
	}
	fmt.Fprint(state, "[")
	for i, child := range n.Children {
		if i > 0 {
			fmt.Fprint(state, ", ")
		}
		fmt.Fprintf(state, format, child)
	}
	fmt.Fprint(state, "]")
}

func (c Choice) Format(state fmt.State, _ rune) {
	fmt.Fprintf(state, "%d", int(c))
}

// Parser parses one term of a compiled grammar.
type Parser interface {
	Parse(scope Scope, input *Scanner, output *TreeElement) error
}

// Term is a grammar expression. Terms compose into rules; Grammar.Compile
// turns each into a Parser.
type Term interface {
	fmt.Stringer
	Parser(rule Rule, c cache) Parser
}

// Grammar maps rule names to their terms. The special WrapRE rule, when
// present, wraps every S and RE token: its "()" is replaced by the token
// pattern, letting the grammar skip whitespace and comments between tokens.
type Grammar map[Rule]Term

type (
	// Rule refers to another rule of the same grammar.
	Rule string

	// S matches a literal string.
	S string

	// RE matches a regular expression. The whole token must be a single RE
	// since the WrapRE skip applies per token, never inside one.
	RE string

	// Seq matches each term in order.
	Seq []Term

	// Oneof is ordered choice: alternatives are tried in declared order and
	// the first success wins. The output Node's Extra is the winning Choice.
	Oneof []Term

	// Quant matches Term at least Min times, at most Max times (0 = no max).
	Quant struct {
		Term Term
		Min  int
		Max  int
	}

	// Named attaches a capture name to a term. The name becomes the output
	// Node's tag and the scope ident for REF backreferences.
	Named struct {
		Name string
		Term Term
	}

	// REF matches the same text as a previously captured value named Ident,
	// or Default if nothing was captured under that name.
	REF struct {
		Ident   string
		Default Term
	}

	// CutPoint commits the enclosing Seq: once the wrapped term has matched,
	// a later failure in that Seq aborts the whole parse as a FatalError
	// instead of backtracking into other alternatives.
	CutPoint struct {
		Term Term
	}

	// Neg is a zero-width negative predicate: it succeeds, consuming
	// nothing, iff its pattern does not match at the current position. The
	// pattern is applied raw, without the WrapRE skip, which makes Neg the
	// tool for token-boundary checks.
	Neg string
)

func Some(term Term) Quant { return Quant{Term: term, Min: 1} }
func Any(term Term) Quant  { return Quant{Term: term} }
func Opt(term Term) Quant  { return Quant{Term: term, Max: 1} }

func Eq(name string, term Term) Named { return Named{Name: name, Term: term} }

func (t Rule) String() string { return string(t) }
func (t S) String() string    { return fmt.Sprintf("%q", string(t)) }
func (t RE) String() string   { return fmt.Sprintf("/%s/", string(t)) }
func (t Neg) String() string  { return fmt.Sprintf("!/%s/", string(t)) }

func (t Seq) String() string {
	return joinTerms(t, " ")
}

func (t Oneof) String() string {
	return joinTerms(t, " | ")
}

func (t Quant) String() string {
	switch {
	case t.Min == 0 && t.Max == 0:
		return t.Term.String() + "*"
	case t.Min == 1 && t.Max == 0:
		return t.Term.String() + "+"
	case t.Min == 0 && t.Max == 1:
		return t.Term.String() + "?"
	}
	return fmt.Sprintf("%s{%d,%d}", t.Term, t.Min, t.Max)
}

func (t Named) String() string    { return fmt.Sprintf("%s=%s", t.Name, t.Term) }
func (t REF) String() string      { return "%" + t.Ident }
func (t CutPoint) String() string { return t.Term.String() + "!" }

func joinTerms(terms []Term, sep string) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, t.String())
	}
	return "(" + strings.Join(parts, sep) + ")"
}
