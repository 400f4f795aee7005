package scheme

// Value is whatever the Actions implementation builds. The reader never
// inspects values it did not create; it only passes them back into further
// callbacks.
type Value interface{}

// Formals is a lambda or function-definition parameter list: fixed
// parameters in order, plus an optional rest parameter bound to the tail of
// the argument list. Rest is nil when the formals list is proper.
type Formals struct {
	Fixed []Value
	Rest  Value
}

// Actions receives one callback per grammar construct, outside-in for
// prefixes and inside-out for composites. Callbacks run only after the
// surrounding text has parsed completely, so a failed parse never produces a
// partial structure. Any callback error aborts the read and is returned
// as-is.
type Actions interface {
	// Lexical values.
	Symbol(name string) (Value, error)
	Boolean(b bool) (Value, error)
	Character(r rune) (Value, error)
	String(s string) (Value, error)

	// Numbers, one callback per literal kind. The descriptor carries the
	// radix, exactness, sign and uninterpreted digit strings.
	Integer(d NumberDescriptor) (Value, error)
	Rational(d NumberDescriptor) (Value, error)
	Decimal(d NumberDescriptor) (Value, error)
	InfNan(d NumberDescriptor) (Value, error)

	// Compound data.
	EmptyList() (Value, error)
	Pair(car, cdr Value) (Value, error)
	Vector(items []Value) (Value, error)
	Bytevector(b []byte) (Value, error)
	Abbreviation(name string, v Value) (Value, error)

	// Datum labels. LabelPlaceholder allocates a provisional value for #n=
	// before its datum is built, so #n# inside may refer to it. LabelResolve
	// then substitutes the finished datum for every occurrence of the
	// placeholder, yielding cyclic structure.
	LabelPlaceholder(id int) (Value, error)
	LabelResolve(placeholder, v Value) (Value, error)

	// Syntax forms.
	Identifier(sym Value) (Value, error)
	Literal(v Value) (Value, error)
	Lambda(formals Formals, body []Value) (Value, error)
	Call(operator Value, operands []Value) (Value, error)
	SimpleDefinition(name, value Value) (Value, error)
	FunctionDefinition(name Value, formals Formals, body []Value) (Value, error)
	SyntaxDefinition(name Value, literals, rules []Value) (Value, error)
	SyntaxRule(pattern, template Value) (Value, error)
}

// Abbreviation names passed to Actions.Abbreviation.
const (
	AbbrevQuote           = "quote"
	AbbrevQuasiquote      = "quasiquote"
	AbbrevUnquote         = "unquote"
	AbbrevUnquoteSplicing = "unquote-splicing"
)

var abbrevNames = map[string]string{
	`'`:  AbbrevQuote,
	"`":  AbbrevQuasiquote,
	`,`:  AbbrevUnquote,
	`,@`: AbbrevUnquoteSplicing,
}
