package scheme

import (
	"strconv"

	"github.com/zaoqi-unsafe/aydede/parser"
)

// builder walks a parse tree and drives the Actions callbacks, inside-out.
// The parse has fully succeeded before any callback runs.
type builder struct {
	actions Actions
	labels  map[int]Value
}

func newBuilder(actions Actions) *builder {
	return &builder{actions: actions, labels: map[int]Value{}}
}

// tokenText extracts matched text from a token element, which is a Scanner
// leaf or a node whose first child is one.
func tokenText(el parser.TreeElement) string {
	switch x := el.(type) {
	case parser.Scanner:
		return x.String()
	case parser.Node:
		return tokenText(x.Children[0])
	}
	panic("no token text")
}

func choice(n parser.Node) int {
	return int(n.Extra.(parser.Choice))
}

func (b *builder) program(el parser.TreeElement) ([]Value, error) {
	node := el.(parser.Node)
	forms := make([]Value, 0, node.Count())
	for _, child := range node.Children {
		// Datum labels are scoped to one top-level form.
		b.labels = map[int]Value{}
		v, err := b.form(child.(parser.Node))
		if err != nil {
			return nil, err
		}
		forms = append(forms, v)
	}
	return forms, nil
}

func (b *builder) form(n parser.Node) (Value, error) {
	child := n.GetNode(0)
	if choice(n) == formChoiceDefinition {
		return b.definition(child)
	}
	return b.expression(child)
}

func (b *builder) definition(n parser.Node) (Value, error) {
	child := n.GetNode(0)
	switch choice(n) {
	case defChoiceSyntax:
		return b.syntaxDefinition(child)
	case defChoiceFunction:
		return b.functionDefinition(child)
	default:
		return b.variableDefinition(child)
	}
}

// (define name expr)
func (b *builder) variableDefinition(n parser.Node) (Value, error) {
	name, err := b.symbol(n.Children[2])
	if err != nil {
		return nil, err
	}
	value, err := b.expression(n.GetNode(3))
	if err != nil {
		return nil, err
	}
	return b.actions.SimpleDefinition(name, value)
}

// (define (name fixed... [. rest]) body...)
func (b *builder) functionDefinition(n parser.Node) (Value, error) {
	name, err := b.symbol(n.Children[3])
	if err != nil {
		return nil, err
	}
	formals, err := b.formalTail(n.GetNode(4))
	if err != nil {
		return nil, err
	}
	body, err := b.forms(n.GetNode(6))
	if err != nil {
		return nil, err
	}
	return b.actions.FunctionDefinition(name, formals, body)
}

// (define-syntax name (syntax-rules (literals...) rules...))
func (b *builder) syntaxDefinition(n parser.Node) (Value, error) {
	name, err := b.symbol(n.Children[2])
	if err != nil {
		return nil, err
	}
	rulesNode := n.GetNode(3)
	literals, err := b.symbols(rulesNode.GetNode(3))
	if err != nil {
		return nil, err
	}
	var rules []Value
	for _, child := range rulesNode.GetNode(5).Children {
		rule, err := b.syntaxRule(child.(parser.Node))
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return b.actions.SyntaxDefinition(name, literals, rules)
}

// (pattern-literal template)
func (b *builder) syntaxRule(n parser.Node) (Value, error) {
	pattern, err := b.patternLiteral(n.GetNode(1))
	if err != nil {
		return nil, err
	}
	template, err := b.datum(n.GetNode(2))
	if err != nil {
		return nil, err
	}
	return b.actions.SyntaxRule(pattern, template)
}

func (b *builder) patternLiteral(n parser.Node) (Value, error) {
	child := n.Children[0]
	switch choice(n) {
	case patLitChoiceString:
		return b.stringLit(child)
	case patLitChoiceCharacter:
		return b.character(child)
	case patLitChoiceBoolean:
		return b.boolean(child)
	default:
		return b.number(child.(parser.Node))
	}
}

func (b *builder) expression(n parser.Node) (Value, error) {
	child := n.GetNode(0)
	switch choice(n) {
	case exprChoiceLambda:
		return b.lambda(child)
	case exprChoiceCall:
		return b.call(child)
	case exprChoiceLiteral:
		return b.literal(child)
	default:
		sym, err := b.symbol(child.Children[0])
		if err != nil {
			return nil, err
		}
		return b.actions.Identifier(sym)
	}
}

// (lambda formals body...)
func (b *builder) lambda(n parser.Node) (Value, error) {
	formals, err := b.formals(n.GetNode(2))
	if err != nil {
		return nil, err
	}
	body, err := b.forms(n.GetNode(3))
	if err != nil {
		return nil, err
	}
	return b.actions.Lambda(formals, body)
}

func (b *builder) formals(n parser.Node) (Formals, error) {
	child := n.GetNode(0)
	if choice(n) == formalsChoiceSingle {
		rest, err := b.symbol(child)
		if err != nil {
			return Formals{}, err
		}
		return Formals{Rest: rest}, nil
	}
	return b.formalTail(child.GetNode(1))
}

// formalTail is the "fixed... [. rest]" node shared by function definitions
// and lambda formals lists.
func (b *builder) formalTail(n parser.Node) (Formals, error) {
	fixed, err := b.symbols(n.GetNode(0))
	if err != nil {
		return Formals{}, err
	}
	formals := Formals{Fixed: fixed}
	if restOpt := n.GetNode(1); restOpt.Count() > 0 {
		rest, err := b.symbol(restOpt.GetNode(0).Children[1])
		if err != nil {
			return Formals{}, err
		}
		formals.Rest = rest
	}
	return formals, nil
}

// (operator operands...)
func (b *builder) call(n parser.Node) (Value, error) {
	operator, err := b.expression(n.GetNode(1))
	if err != nil {
		return nil, err
	}
	var operands []Value
	for _, child := range n.GetNode(2).Children {
		operand, err := b.expression(child.(parser.Node))
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	return b.actions.Call(operator, operands)
}

func (b *builder) literal(n parser.Node) (Value, error) {
	child := n.Children[0]
	var v Value
	var err error
	switch choice(n) {
	case literalChoiceAbbrev:
		v, err = b.abbreviation(child.(parser.Node))
	case literalChoiceBoolean:
		v, err = b.boolean(child)
	case literalChoiceNumber:
		v, err = b.number(child.(parser.Node))
	case literalChoiceCharacter:
		v, err = b.character(child)
	case literalChoiceString:
		v, err = b.stringLit(child)
	case literalChoiceVector:
		v, err = b.vector(child.(parser.Node))
	default:
		v, err = b.bytevector(child.(parser.Node))
	}
	if err != nil {
		return nil, err
	}
	return b.actions.Literal(v)
}

func (b *builder) forms(n parser.Node) ([]Value, error) {
	out := make([]Value, 0, n.Count())
	for _, child := range n.Children {
		v, err := b.form(child.(parser.Node))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (b *builder) symbol(el parser.TreeElement) (Value, error) {
	return b.actions.Symbol(tokenText(el))
}

func (b *builder) symbols(n parser.Node) ([]Value, error) {
	var out []Value
	for _, child := range n.Children {
		sym, err := b.symbol(child)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, nil
}

//-----------------------------------------------------------------------------

func (b *builder) datum(n parser.Node) (Value, error) {
	child := n.GetNode(0)
	switch choice(n) {
	case datumChoiceLabelDef:
		return b.labelDefinition(child)
	case datumChoiceLabelRef:
		return b.labelReference(child)
	case datumChoiceSimple:
		return b.simple(child)
	default:
		return b.compound(child)
	}
}

// #n=datum: a placeholder is allocated before the datum is built, so
// references inside resolve to it; afterwards the placeholder is replaced by
// the finished datum throughout.
func (b *builder) labelDefinition(n parser.Node) (Value, error) {
	text := tokenText(n.Children[0])
	id, err := strconv.Atoi(text[1 : len(text)-1])
	if err != nil {
		return nil, err
	}
	ph, err := b.actions.LabelPlaceholder(id)
	if err != nil {
		return nil, err
	}
	b.labels[id] = ph
	v, err := b.datum(n.GetNode(1))
	if err != nil {
		return nil, err
	}
	final, err := b.actions.LabelResolve(ph, v)
	if err != nil {
		return nil, err
	}
	b.labels[id] = final
	return final, nil
}

func (b *builder) labelReference(n parser.Node) (Value, error) {
	text := tokenText(n)
	id, err := strconv.Atoi(text[1 : len(text)-1])
	if err != nil {
		return nil, err
	}
	v, ok := b.labels[id]
	if !ok {
		return nil, &UnresolvedLabelError{Label: id}
	}
	return v, nil
}

func (b *builder) simple(n parser.Node) (Value, error) {
	child := n.Children[0]
	switch choice(n) {
	case simpleChoiceBoolean:
		return b.boolean(child)
	case simpleChoiceNumber:
		return b.number(child.(parser.Node))
	case simpleChoiceCharacter:
		return b.character(child)
	case simpleChoiceString:
		return b.stringLit(child)
	case simpleChoiceSymbol:
		return b.symbol(child)
	default:
		return b.bytevector(child.(parser.Node))
	}
}

func (b *builder) compound(n parser.Node) (Value, error) {
	child := n.GetNode(0)
	switch choice(n) {
	case compoundChoiceList:
		return b.list(child)
	case compoundChoiceVector:
		return b.vector(child)
	default:
		return b.abbreviation(child)
	}
}

// Lists build right to left: the tail first (the dotted datum or the empty
// list), then one Pair per element.
func (b *builder) list(n parser.Node) (Value, error) {
	seq := n.GetNode(0)
	items, err := b.data(seq.GetNode(1))
	if err != nil {
		return nil, err
	}
	var tail Value
	if choice(n) == listChoiceDotted {
		tail, err = b.datum(seq.GetNode(3))
	} else {
		tail, err = b.actions.EmptyList()
	}
	if err != nil {
		return nil, err
	}
	for i := len(items) - 1; i >= 0; i-- {
		tail, err = b.actions.Pair(items[i], tail)
		if err != nil {
			return nil, err
		}
	}
	return tail, nil
}

func (b *builder) vector(n parser.Node) (Value, error) {
	items, err := b.data(n.GetNode(1))
	if err != nil {
		return nil, err
	}
	return b.actions.Vector(items)
}

func (b *builder) bytevector(n parser.Node) (Value, error) {
	quant := n.GetNode(1)
	bs := make([]byte, 0, quant.Count())
	for _, child := range quant.Children {
		v, err := strconv.Atoi(tokenText(child))
		if err != nil {
			return nil, err
		}
		bs = append(bs, byte(v))
	}
	return b.actions.Bytevector(bs)
}

func (b *builder) abbreviation(n parser.Node) (Value, error) {
	v, err := b.datum(n.GetNode(1))
	if err != nil {
		return nil, err
	}
	return b.actions.Abbreviation(abbrevNames[tokenText(n.Children[0])], v)
}

func (b *builder) data(n parser.Node) ([]Value, error) {
	out := make([]Value, 0, n.Count())
	for _, child := range n.Children {
		v, err := b.datum(child.(parser.Node))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (b *builder) boolean(el parser.TreeElement) (Value, error) {
	text := tokenText(el)
	return b.actions.Boolean(text == "#t" || text == "#true")
}

func (b *builder) number(n parser.Node) (Value, error) {
	d, err := DecodeNumberLiteral(tokenText(n.Children[0]))
	if err != nil {
		return nil, err
	}
	switch d.Kind {
	case KindRational:
		return b.actions.Rational(d)
	case KindDecimal:
		return b.actions.Decimal(d)
	case KindInfNan:
		return b.actions.InfNan(d)
	default:
		return b.actions.Integer(d)
	}
}

func (b *builder) character(el parser.TreeElement) (Value, error) {
	r, err := decodeCharacterLiteral(tokenText(el))
	if err != nil {
		return nil, err
	}
	return b.actions.Character(r)
}

func (b *builder) stringLit(el parser.TreeElement) (Value, error) {
	s, err := decodeStringLiteral(tokenText(el))
	if err != nil {
		return nil, err
	}
	return b.actions.String(s)
}
