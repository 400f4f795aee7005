package scheme

import "fmt"

// Syntax forms built by Model for the program grammar. Each is a plain
// struct; the expression positions hold whatever values the model produced
// for them.

type (
	// Identifier is a variable reference.
	Identifier struct {
		Sym Value
	}

	// Literal is a self-evaluating or quoted constant expression.
	Literal struct {
		Datum Value
	}

	Lambda struct {
		Formals Formals
		Body    []Value
	}

	Call struct {
		Operator Value
		Operands []Value
	}

	// Definition binds a name to the value of an expression.
	Definition struct {
		Name  Value
		Value Value
	}

	// FunctionDefinition is the (define (name args...) body...) shorthand,
	// kept distinct from the lambda rewrite so callers see what was written.
	FunctionDefinition struct {
		Name    Value
		Formals Formals
		Body    []Value
	}

	SyntaxDefinition struct {
		Name     Value
		Literals []Value
		Rules    []Value
	}

	SyntaxRule struct {
		Pattern  Value
		Template Value
	}
)

func (wr *valueWriter) form(v Value) error {
	switch x := v.(type) {
	case Identifier:
		return wr.value(x.Sym)
	case Literal:
		return wr.value(x.Datum)
	case Lambda:
		if err := wr.printf("(lambda "); err != nil {
			return err
		}
		if err := wr.formals(x.Formals); err != nil {
			return err
		}
		if err := wr.body(x.Body); err != nil {
			return err
		}
		return wr.printf(")")
	case Call:
		if err := wr.printf("("); err != nil {
			return err
		}
		if err := wr.value(x.Operator); err != nil {
			return err
		}
		if err := wr.body(x.Operands); err != nil {
			return err
		}
		return wr.printf(")")
	case Definition:
		if err := wr.printf("(define "); err != nil {
			return err
		}
		if err := wr.value(x.Name); err != nil {
			return err
		}
		if err := wr.printf(" "); err != nil {
			return err
		}
		if err := wr.value(x.Value); err != nil {
			return err
		}
		return wr.printf(")")
	case FunctionDefinition:
		if err := wr.printf("(define ("); err != nil {
			return err
		}
		if err := wr.value(x.Name); err != nil {
			return err
		}
		if err := wr.formalTail(x.Formals, true); err != nil {
			return err
		}
		if err := wr.printf(")"); err != nil {
			return err
		}
		if err := wr.body(x.Body); err != nil {
			return err
		}
		return wr.printf(")")
	case SyntaxDefinition:
		if err := wr.printf("(define-syntax "); err != nil {
			return err
		}
		if err := wr.value(x.Name); err != nil {
			return err
		}
		if err := wr.printf(" (syntax-rules ("); err != nil {
			return err
		}
		for i, lit := range x.Literals {
			if i > 0 {
				if err := wr.printf(" "); err != nil {
					return err
				}
			}
			if err := wr.value(lit); err != nil {
				return err
			}
		}
		if err := wr.printf(")"); err != nil {
			return err
		}
		if err := wr.body(x.Rules); err != nil {
			return err
		}
		return wr.printf("))")
	case SyntaxRule:
		if err := wr.printf("("); err != nil {
			return err
		}
		if err := wr.value(x.Pattern); err != nil {
			return err
		}
		if err := wr.printf(" "); err != nil {
			return err
		}
		if err := wr.value(x.Template); err != nil {
			return err
		}
		return wr.printf(")")
	}
	return fmt.Errorf("unwritable value %v (%[1]T)", v)
}

func (wr *valueWriter) formals(f Formals) error {
	if f.Rest != nil && len(f.Fixed) == 0 {
		return wr.value(f.Rest)
	}
	if err := wr.printf("("); err != nil {
		return err
	}
	if err := wr.formalTail(f, false); err != nil {
		return err
	}
	return wr.printf(")")
}

// formalTail prints "a b" or "a b . rest" without the parentheses, shared
// between lambda formals and the function-definition head. leadingSpace is
// set when something already precedes the parameters, as in (define (name
// a b) ...).
func (wr *valueWriter) formalTail(f Formals, leadingSpace bool) error {
	for i, p := range f.Fixed {
		if i > 0 || leadingSpace {
			if err := wr.printf(" "); err != nil {
				return err
			}
		}
		if err := wr.value(p); err != nil {
			return err
		}
	}
	if f.Rest != nil {
		if err := wr.printf(" . "); err != nil {
			return err
		}
		return wr.value(f.Rest)
	}
	return nil
}

func (wr *valueWriter) body(vs []Value) error {
	for _, v := range vs {
		if err := wr.printf(" "); err != nil {
			return err
		}
		if err := wr.value(v); err != nil {
			return err
		}
	}
	return nil
}
