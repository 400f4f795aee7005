package scheme

// Model is the default Actions implementation. It builds the datum types of
// this package and the form structs in forms.go.
type Model struct{}

var _ Actions = Model{}

func (Model) Symbol(name string) (Value, error) { return Symbol(name), nil }
func (Model) Boolean(b bool) (Value, error)     { return Boolean(b), nil }
func (Model) Character(r rune) (Value, error)   { return Character(r), nil }
func (Model) String(s string) (Value, error)    { return String(s), nil }

func (Model) Integer(d NumberDescriptor) (Value, error) {
	return Number{NumberDescriptor: d}, nil
}

func (Model) Rational(d NumberDescriptor) (Value, error) {
	if allZeroDigits(d.Denominator) {
		return nil, &NumericFormatError{Literal: d.Literal, Reason: "zero denominator"}
	}
	return Number{NumberDescriptor: d}, nil
}

func (Model) Decimal(d NumberDescriptor) (Value, error) {
	return Number{NumberDescriptor: d}, nil
}

func (Model) InfNan(d NumberDescriptor) (Value, error) {
	return Number{NumberDescriptor: d}, nil
}

func (Model) EmptyList() (Value, error)           { return Null{}, nil }
func (Model) Pair(car, cdr Value) (Value, error)  { return &Pair{Car: car, Cdr: cdr}, nil }
func (Model) Vector(items []Value) (Value, error) { return &Vector{Items: items}, nil }
func (Model) Bytevector(b []byte) (Value, error)  { return Bytevector(b), nil }

// Abbreviation expands to the two-element list it abbreviates: 'x reads as
// (quote x).
func (Model) Abbreviation(name string, v Value) (Value, error) {
	return List(Symbol(name), v), nil
}

func (Model) LabelPlaceholder(id int) (Value, error) {
	return &placeholder{id: id}, nil
}

// LabelResolve substitutes the finished datum for its placeholder in place.
// Pairs and vectors are pointers, so patching the cells the placeholder
// occupies produces genuinely cyclic structure with pointer identity.
func (Model) LabelResolve(ph, v Value) (Value, error) {
	p := ph.(*placeholder)
	if v == ph {
		return nil, &UnresolvedLabelError{Label: p.id}
	}
	patchLabel(v, p, v, map[Value]bool{})
	return v, nil
}

func patchLabel(v Value, ph *placeholder, with Value, seen map[Value]bool) {
	switch x := v.(type) {
	case *Pair:
		if seen[x] {
			return
		}
		seen[x] = true
		if x.Car == Value(ph) {
			x.Car = with
		} else {
			patchLabel(x.Car, ph, with, seen)
		}
		if x.Cdr == Value(ph) {
			x.Cdr = with
		} else {
			patchLabel(x.Cdr, ph, with, seen)
		}
	case *Vector:
		if seen[x] {
			return
		}
		seen[x] = true
		for i, item := range x.Items {
			if item == Value(ph) {
				x.Items[i] = with
			} else {
				patchLabel(item, ph, with, seen)
			}
		}
	}
}

func (Model) Identifier(sym Value) (Value, error) { return Identifier{Sym: sym}, nil }
func (Model) Literal(v Value) (Value, error)      { return Literal{Datum: v}, nil }

func (Model) Lambda(formals Formals, body []Value) (Value, error) {
	return Lambda{Formals: formals, Body: body}, nil
}

func (Model) Call(operator Value, operands []Value) (Value, error) {
	return Call{Operator: operator, Operands: operands}, nil
}

func (Model) SimpleDefinition(name, value Value) (Value, error) {
	return Definition{Name: name, Value: value}, nil
}

func (Model) FunctionDefinition(name Value, formals Formals, body []Value) (Value, error) {
	return FunctionDefinition{Name: name, Formals: formals, Body: body}, nil
}

func (Model) SyntaxDefinition(name Value, literals, rules []Value) (Value, error) {
	return SyntaxDefinition{Name: name, Literals: literals, Rules: rules}, nil
}

func (Model) SyntaxRule(pattern, template Value) (Value, error) {
	return SyntaxRule{Pattern: pattern, Template: template}, nil
}
