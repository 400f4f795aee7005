package scheme

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Default datum representation, built by Model. Pairs and vectors are
// pointers so datum labels can tie real cycles.

type (
	Symbol     string
	Boolean    bool
	Character  rune
	String     string
	Null       struct{}
	Bytevector []byte

	Number struct {
		NumberDescriptor
	}

	Pair struct {
		Car Value
		Cdr Value
	}

	Vector struct {
		Items []Value
	}
)

// placeholder stands in for a labelled datum while it is being built.
type placeholder struct {
	id int
}

// List builds a proper list from items.
func List(items ...Value) Value {
	var out Value = Null{}
	for i := len(items) - 1; i >= 0; i-- {
		out = &Pair{Car: items[i], Cdr: out}
	}
	return out
}

type valuePair struct {
	a, b Value
}

// Equal compares two values structurally. Pairs and vectors already under
// comparison are assumed equal, so cyclic data compares without diverging.
func Equal(a, b Value) bool {
	return equalValues(a, b, map[valuePair]bool{})
}

func equalValues(a, b Value, seen map[valuePair]bool) bool {
	switch x := a.(type) {
	case *Pair:
		y, ok := b.(*Pair)
		if !ok {
			return false
		}
		key := valuePair{a: x, b: y}
		if seen[key] {
			return true
		}
		seen[key] = true
		return equalValues(x.Car, y.Car, seen) && equalValues(x.Cdr, y.Cdr, seen)
	case *Vector:
		y, ok := b.(*Vector)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		key := valuePair{a: x, b: y}
		if seen[key] {
			return true
		}
		seen[key] = true
		for i := range x.Items {
			if !equalValues(x.Items[i], y.Items[i], seen) {
				return false
			}
		}
		return true
	case Bytevector:
		y, ok := b.(Bytevector)
		return ok && bytes.Equal(x, y)
	case Identifier:
		y, ok := b.(Identifier)
		return ok && equalValues(x.Sym, y.Sym, seen)
	case Literal:
		y, ok := b.(Literal)
		return ok && equalValues(x.Datum, y.Datum, seen)
	case Lambda:
		y, ok := b.(Lambda)
		return ok && equalFormals(x.Formals, y.Formals, seen) &&
			equalSlices(x.Body, y.Body, seen)
	case Call:
		y, ok := b.(Call)
		return ok && equalValues(x.Operator, y.Operator, seen) &&
			equalSlices(x.Operands, y.Operands, seen)
	case Definition:
		y, ok := b.(Definition)
		return ok && equalValues(x.Name, y.Name, seen) && equalValues(x.Value, y.Value, seen)
	case FunctionDefinition:
		y, ok := b.(FunctionDefinition)
		return ok && equalValues(x.Name, y.Name, seen) &&
			equalFormals(x.Formals, y.Formals, seen) &&
			equalSlices(x.Body, y.Body, seen)
	case SyntaxDefinition:
		y, ok := b.(SyntaxDefinition)
		return ok && equalValues(x.Name, y.Name, seen) &&
			equalSlices(x.Literals, y.Literals, seen) &&
			equalSlices(x.Rules, y.Rules, seen)
	case SyntaxRule:
		y, ok := b.(SyntaxRule)
		return ok && equalValues(x.Pattern, y.Pattern, seen) &&
			equalValues(x.Template, y.Template, seen)
	}
	return a == b
}

func equalSlices(a, b []Value, seen map[valuePair]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalValues(a[i], b[i], seen) {
			return false
		}
	}
	return true
}

func equalFormals(a, b Formals, seen map[valuePair]bool) bool {
	if (a.Rest == nil) != (b.Rest == nil) {
		return false
	}
	if a.Rest != nil && !equalValues(a.Rest, b.Rest, seen) {
		return false
	}
	return equalSlices(a.Fixed, b.Fixed, seen)
}

// Write prints a value in external representation. Shared and cyclic
// structure comes out as #n= definitions and #n# references.
func Write(w io.Writer, v Value) error {
	shared := map[Value]bool{}
	findShared(v, map[Value]bool{}, shared)
	wr := &valueWriter{w: w, shared: shared, labels: map[Value]int{}}
	return wr.value(v)
}

// WriteString is Write into a string.
func WriteString(v Value) string {
	var sb strings.Builder
	if err := Write(&sb, v); err != nil {
		return fmt.Sprintf("#<error: %v>", err)
	}
	return sb.String()
}

func findShared(v Value, seen, shared map[Value]bool) {
	switch x := v.(type) {
	case *Pair:
		if seen[x] {
			shared[x] = true
			return
		}
		seen[x] = true
		findShared(x.Car, seen, shared)
		findShared(x.Cdr, seen, shared)
	case *Vector:
		if seen[x] {
			shared[x] = true
			return
		}
		seen[x] = true
		for _, item := range x.Items {
			findShared(item, seen, shared)
		}
	case Identifier:
		findShared(x.Sym, seen, shared)
	case Literal:
		findShared(x.Datum, seen, shared)
	case Lambda:
		findSharedSlice(x.Body, seen, shared)
	case Call:
		findShared(x.Operator, seen, shared)
		findSharedSlice(x.Operands, seen, shared)
	case Definition:
		findShared(x.Value, seen, shared)
	case FunctionDefinition:
		findSharedSlice(x.Body, seen, shared)
	case SyntaxDefinition:
		findSharedSlice(x.Rules, seen, shared)
	case SyntaxRule:
		findShared(x.Pattern, seen, shared)
		findShared(x.Template, seen, shared)
	}
}

func findSharedSlice(vs []Value, seen, shared map[Value]bool) {
	for _, v := range vs {
		findShared(v, seen, shared)
	}
}

type valueWriter struct {
	w      io.Writer
	shared map[Value]bool
	labels map[Value]int
}

func (wr *valueWriter) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(wr.w, format, args...)
	return err
}

// enter handles #n=/#n# bookkeeping for a shared node. It reports whether
// the caller should print the node body.
func (wr *valueWriter) enter(v Value) (bool, error) {
	if id, emitted := wr.labels[v]; emitted {
		return false, wr.printf("#%d#", id)
	}
	if wr.shared[v] {
		id := len(wr.labels)
		wr.labels[v] = id
		return true, wr.printf("#%d=", id)
	}
	return true, nil
}

func (wr *valueWriter) value(v Value) error {
	switch x := v.(type) {
	case Symbol:
		return wr.printf("%s", string(x))
	case Boolean:
		if x {
			return wr.printf("#t")
		}
		return wr.printf("#f")
	case Character:
		return wr.character(rune(x))
	case String:
		return wr.stringLit(string(x))
	case Number:
		return wr.printf("%s", x.Literal)
	case Null:
		return wr.printf("()")
	case Bytevector:
		if err := wr.printf("#u8("); err != nil {
			return err
		}
		for i, b := range x {
			if i > 0 {
				if err := wr.printf(" "); err != nil {
					return err
				}
			}
			if err := wr.printf("%d", b); err != nil {
				return err
			}
		}
		return wr.printf(")")
	case *Pair:
		body, err := wr.enter(x)
		if err != nil || !body {
			return err
		}
		return wr.pair(x)
	case *Vector:
		body, err := wr.enter(x)
		if err != nil || !body {
			return err
		}
		if err := wr.printf("#("); err != nil {
			return err
		}
		for i, item := range x.Items {
			if i > 0 {
				if err := wr.printf(" "); err != nil {
					return err
				}
			}
			if err := wr.value(item); err != nil {
				return err
			}
		}
		return wr.printf(")")
	case *placeholder:
		return wr.printf("#%d#", x.id)
	default:
		return wr.form(v)
	}
}

func (wr *valueWriter) pair(p *Pair) error {
	if err := wr.printf("("); err != nil {
		return err
	}
	if err := wr.value(p.Car); err != nil {
		return err
	}
	cdr := p.Cdr
	for {
		switch t := cdr.(type) {
		case Null:
			return wr.printf(")")
		case *Pair:
			// A labelled tail must stay visible as a reference.
			if wr.shared[t] {
				if err := wr.printf(" . "); err != nil {
					return err
				}
				if err := wr.value(t); err != nil {
					return err
				}
				return wr.printf(")")
			}
			if err := wr.printf(" "); err != nil {
				return err
			}
			if err := wr.value(t.Car); err != nil {
				return err
			}
			cdr = t.Cdr
		default:
			if err := wr.printf(" . "); err != nil {
				return err
			}
			if err := wr.value(cdr); err != nil {
				return err
			}
			return wr.printf(")")
		}
	}
}

var characterNamesBack = func() map[rune]string {
	out := make(map[rune]string, len(characterNames))
	for name, r := range characterNames {
		out[r] = name
	}
	return out
}()

func (wr *valueWriter) character(r rune) error {
	if name, ok := characterNamesBack[r]; ok {
		return wr.printf(`#\%s`, name)
	}
	if unicode.IsGraphic(r) {
		return wr.printf(`#\%c`, r)
	}
	return wr.printf(`#\x%x`, r)
}

func (wr *valueWriter) stringLit(s string) error {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if unicode.IsGraphic(r) || r == ' ' {
				sb.WriteRune(r)
			} else {
				sb.WriteString(`\x` + strconv.FormatInt(int64(r), 16) + `;`)
			}
		}
	}
	sb.WriteByte('"')
	return wr.printf("%s", sb.String())
}
