package parser

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

const (
	seqTag   = "_"
	oneofTag = "|"
	quantTag = "?"

	// WrapRE is a special rule: its "()" is replaced by each S/RE token
	// pattern, so the grammar controls what is skipped between tokens.
	WrapRE = Rule(".wrapRE")
)

type cache struct {
	parsers    map[Rule]Parser
	grammar    Grammar
	rulePtrses map[Rule][]*Parser
}

func (c cache) registerRule(parser *Parser) {
	if rule, ok := (*parser).(ruleParser); ok {
		c.rulePtrses[rule.t] = append(c.rulePtrses[rule.t], parser)
	}
}

func (c cache) registerRules(parsers []Parser) {
	for i := range parsers {
		c.registerRule(&parsers[i])
	}
}

func (c cache) makeParsers(terms []Term) []Parser {
	parsers := make([]Parser, 0, len(terms))
	for _, t := range terms {
		parsers = append(parsers, t.Parser("", c))
	}
	c.registerRules(parsers)
	return parsers
}

func ruleOrAlt(rule Rule, alt Rule) Rule {
	if rule == "" {
		return alt
	}
	return rule
}

type putter func(output *TreeElement, extra Extra, children ...TreeElement) error

func tag(rule Rule, alt Rule) putter {
	rule = ruleOrAlt(rule, alt)
	return func(output *TreeElement, extra Extra, children ...TreeElement) error {
		*output = Node{
			Tag:      string(rule),
			Extra:    extra,
			Children: children,
		}
		return nil
	}
}

// Parsers is a compiled grammar, ready to parse.
type Parsers struct {
	parsers map[Rule]Parser
	grammar Grammar
	skip    *regexp.Regexp
}

func (p Parsers) Grammar() Grammar {
	return p.grammar
}

func (p Parsers) HasRule(rule Rule) bool {
	_, has := p.parsers[rule]
	return has
}

// Parse matches input against the named rule. The whole input must be
// consumed (modulo trailing skip); otherwise UnconsumedInputError is
// returned, carrying the partial result and the residue. On failure the
// input scanner is left at the furthest offset any token reached.
func (p Parsers) Parse(rule Rule, input *Scanner) (TreeElement, error) {
	parser, has := p.parsers[rule]
	if !has {
		return nil, fmt.Errorf("unknown rule: %s", rule)
	}
	scope, rec := Scope{}.WithFurthest()
	var v TreeElement
	if err := parser.Parse(scope, input, &v); err != nil {
		if delta := rec.offset - input.Offset(); delta > 0 {
			*input = *input.Skip(delta)
		}
		return nil, err
	}
	if p.skip != nil {
		input.EatRegexp(p.skip, nil, nil)
	}
	if input.String() != "" {
		return nil, UnconsumedInput(*input, v)
	}
	return v, nil
}

// Compile prepares a grammar for parsing. The parsers hold a copy of the
// grammar modified to support parser execution.
func (g Grammar) Compile() Parsers {
	c := cache{
		parsers:    map[Rule]Parser{},
		grammar:    g,
		rulePtrses: map[Rule][]*Parser{},
	}
	for rule, term := range g {
		for {
			if r, ok := term.(Rule); ok {
				term = g[r]
				continue
			}
			break
		}
		c.parsers[rule] = term.Parser(rule, c)
	}

	for rule, rulePtrs := range c.rulePtrses {
		p := c.parsers[rule]
		for _, rulePtr := range rulePtrs {
			*rulePtr = p
		}
	}

	var skip *regexp.Regexp
	if wrap, has := g[WrapRE]; has {
		skip = regexp.MustCompile(`(?m)\A(?:` + strings.Replace(string(wrap.(RE)), "()", "", 1) + `)`)
	}

	return Parsers{
		parsers: c.parsers,
		grammar: g,
		skip:    skip,
	}
}

//-----------------------------------------------------------------------------

type ruleParser struct {
	rule Rule
	t    Rule
}

func (p ruleParser) Parse(scope Scope, input *Scanner, output *TreeElement) error {
	panic("unresolved rule reference: " + string(p.t))
}

func (t Rule) Parser(rule Rule, c cache) Parser {
	return ruleParser{
		rule: rule,
		t:    t,
	}
}

//-----------------------------------------------------------------------------

func getErrorStrings(input *Scanner) string {
	text := input.String()
	if len(text) > 40 {
		text = text[:40] + "  ..."
	}

	return NewScanner(text).Context(DefaultLimit)
}

func eatRegexp(input *Scanner, re *regexp.Regexp, output *TreeElement) bool {
	var eaten [2]Scanner
	if n, ok := input.EatRegexp(re, nil, eaten[:]); ok {
		*output = eaten[n-1]
		return true
	}
	return false
}

func wrapToken(re string, c cache) *regexp.Regexp {
	re = "(" + re + ")"
	if wrap, has := c.grammar[WrapRE]; has {
		re = strings.Replace(string(wrap.(RE)), "()", "(?:"+re+")", 1)
	}
	return regexp.MustCompile(`(?m)\A` + re)
}

type sParser struct {
	rule Rule
	t    S
	re   *regexp.Regexp
}

func (p *sParser) Parse(scope Scope, input *Scanner, output *TreeElement) error {
	if ok := eatRegexp(input, p.re, output); !ok {
		scope.recordFailure(input)
		return newParseError(p.rule, "",
			fmt.Errorf("expect: %s", p.t),
			fmt.Errorf("actual: %s", getErrorStrings(input)))
	}
	return nil
}

func (t S) Parser(rule Rule, c cache) Parser {
	return &sParser{
		rule: rule,
		t:    t,
		re:   wrapToken(regexp.QuoteMeta(string(t)), c),
	}
}

type reParser struct {
	rule Rule
	t    RE
	re   *regexp.Regexp
}

func (p *reParser) Parse(scope Scope, input *Scanner, output *TreeElement) error {
	if ok := eatRegexp(input, p.re, output); !ok {
		scope.recordFailure(input)
		return newParseError(p.rule, "",
			fmt.Errorf("expect: %s", p.t),
			fmt.Errorf("actual: %s", getErrorStrings(input)))
	}
	return nil
}

func (t RE) Parser(rule Rule, c cache) Parser {
	return &reParser{
		rule: rule,
		t:    t,
		re:   wrapToken(string(t), c),
	}
}

//-----------------------------------------------------------------------------

type negParser struct {
	rule Rule
	t    Neg
	re   *regexp.Regexp
}

// Neg applies its pattern raw: no WrapRE skip, the very next byte decides.
func (p *negParser) Parse(scope Scope, input *Scanner, output *TreeElement) error {
	if p.re.MatchString(input.String()) {
		scope.recordFailure(input)
		return newParseError(p.rule, "",
			fmt.Errorf("expect: absence of %s", p.t),
			fmt.Errorf("actual: %s", getErrorStrings(input)))
	}
	*output = Empty{}
	return nil
}

func (t Neg) Parser(rule Rule, c cache) Parser {
	return &negParser{
		rule: rule,
		t:    t,
		re:   regexp.MustCompile(`\A(?:` + string(t) + `)`),
	}
}

//-----------------------------------------------------------------------------

type seqParser struct {
	rule    Rule
	t       Seq
	parsers []Parser
	cuts    []bool
	put     putter
}

func identFromTerm(term Term) string {
	switch x := term.(type) {
	case Named:
		if x.Name != "" {
			return x.Name
		}
		return identFromTerm(x.Term)
	case Rule:
		return string(x)
	case Quant:
		return identFromTerm(x.Term)
	}
	return ""
}

func (p *seqParser) Parse(scope Scope, input *Scanner, output *TreeElement) (out error) {
	defer enterf("%s: %T %[2]v", p.rule, p.t).exitf("%v %v", &out, output)
	result := make([]TreeElement, 0, len(p.parsers))
	furthest := *input
	committed := invalidCutpoint
	cp := invalidCutpoint
	for _, cut := range p.cuts {
		if cut {
			scope, _, cp = scope.ReplaceCutPoint(true)
			break
		}
	}

	for i, item := range p.parsers {
		var v TreeElement
		ident := identFromTerm(p.t[i])
		if err := item.Parse(scope, input, &v); err != nil {
			*input = furthest
			if committed.valid() {
				return promote(err, committed)
			}
			if isFatal(err) {
				return err
			}
			return newParseError(p.rule, "could not complete sequence", err)
		}
		if p.cuts[i] {
			committed = cp
		}
		scope = scope.WithVal(ident, p.parsers[i], v)
		furthest = *input
		result = append(result, v)
	}
	return p.put(output, nil, result...)
}

func (t Seq) Parser(rule Rule, c cache) Parser {
	parsers := c.makeParsers(t)
	cuts := make([]bool, len(parsers))
	for i := range parsers {
		_, cuts[i] = parsers[i].(*cutPointParser)
	}
	return &seqParser{
		rule:    rule,
		t:       t,
		parsers: parsers,
		cuts:    cuts,
		put:     tag(rule, seqTag),
	}
}

//-----------------------------------------------------------------------------

type quantParser struct {
	rule Rule
	t    Quant
	term Parser
	put  putter
}

func (p *quantParser) Parse(scope Scope, input *Scanner, output *TreeElement) (out error) {
	defer enterf("%s: %T %[2]v", p.rule, p.t).exitf("%v %v", &out, output)
	result := make([]TreeElement, 0, p.t.Min)
	var v TreeElement
	start := *input
	for i := 0; p.t.Max == 0 || i < p.t.Max; i++ {
		if out = p.term.Parse(scope, &start, &v); out != nil {
			break
		}
		result = append(result, v)
		*input = start
	}

	// A failure past a cutpoint aborts even if the repetition minimum was
	// already satisfied.
	if isFatal(out) {
		return out
	}

	if len(result) >= p.t.Min {
		return p.put(output, nil, result...)
	}

	return newParseError(p.rule,
		fmt.Sprintf("quant failed, expected: %v, have %d value(s)", p.t, len(result)), out)
}

func (t Quant) Parser(rule Rule, c cache) Parser {
	p := &quantParser{
		rule: rule,
		t:    t,
		term: t.Term.Parser("", c),
		put:  tag(rule, quantTag),
	}
	c.registerRule(&p.term)
	return p
}

//-----------------------------------------------------------------------------

type oneofParser struct {
	rule    Rule
	t       Oneof
	parsers []Parser
	put     putter
}

func (p *oneofParser) Parse(scope Scope, input *Scanner, output *TreeElement) (out error) {
	defer enterf("%s: %T %[2]v", p.rule, p.t).exitf("%v %v", &out, output)
	furthest := *input

	var errors []error
	for i, par := range p.parsers {
		var v TreeElement
		start := *input
		if err := par.Parse(scope, &start, &v); err != nil {
			if isFatal(err) {
				*input = start
				return err
			}
			errors = append(errors, err)

			if furthest.Offset() < start.Offset() {
				furthest = start
			}
		} else {
			*input = start
			return p.put(output, Choice(i), v)
		}
	}
	*input = furthest
	return newParseError(p.rule, "none of the available options could be satisfied", errors...)
}

func (t Oneof) Parser(rule Rule, c cache) Parser {
	return &oneofParser{
		rule:    rule,
		t:       t,
		parsers: c.makeParsers(t),
		put:     tag(rule, oneofTag),
	}
}

//-----------------------------------------------------------------------------

type cutPointParser struct {
	rule Rule
	t    CutPoint
	term Parser
}

func (p *cutPointParser) Parse(scope Scope, input *Scanner, output *TreeElement) error {
	return p.term.Parse(scope, input, output)
}

func (t CutPoint) Parser(rule Rule, c cache) Parser {
	p := &cutPointParser{
		rule: rule,
		t:    t,
		term: t.Term.Parser(rule, c),
	}
	c.registerRule(&p.term)
	return p
}

//-----------------------------------------------------------------------------

func (t Named) Parser(rule Rule, c cache) Parser {
	return t.Term.Parser(Rule(t.Name), c)
}

//-----------------------------------------------------------------------------

func nodesEqual(a, b interface{}) bool {
	if reflect.TypeOf(a) == reflect.TypeOf(b) {
		switch a := a.(type) {
		case Node:
			b := b.(Node)
			if a.Count() == b.Count() && a.Tag == b.Tag {
				for i := range a.Children {
					if !nodesEqual(a.Children[i], b.Children[i]) {
						return false
					}
				}
				return true
			}
		case Scanner:
			b := b.(Scanner)
			if a.String() == b.String() {
				return true
			}
		}
	}
	return false
}

func termFromRefVal(from TreeElement) Term {
	switch n := from.(type) {
	case Node:
		s := Seq{}
		for _, v := range n.Children {
			s = append(s, termFromRefVal(v))
		}
		return s
	case Scanner:
		return S(n.String())
	}
	return Seq{}
}

func (t *REF) Parse(scope Scope, input *Scanner, output *TreeElement) error {
	if parser, val, has := scope.GetVal(t.Ident); has {
		term := termFromRefVal(val)
		if err := term.Parser(Rule(t.Ident), cache{grammar: Grammar{}}).Parse(scope, input, output); err != nil {
			return err
		}
		if !nodesEqual(*output, val) {
			return newParseError(Rule(t.Ident), "backref not matched",
				fmt.Errorf("expected: parser=%v, val=%v", parser, val),
				fmt.Errorf("actual: %v", *output))
		}
		return nil
	}
	if t.Default != nil {
		return t.Default.Parser(Rule(t.Ident), cache{grammar: Grammar{}}).Parse(scope, input, output)
	}
	return newParseError(Rule(t.Ident), "backref not found")
}

func (t REF) Parser(rule Rule, c cache) Parser {
	return &t
}
