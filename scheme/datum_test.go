package scheme

import (
	"errors"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func read(input string) (Value, error) {
	return ParseDatum(input, Model{})
}

func mustRead(input string) Value {
	v, err := read(input)
	if err != nil {
		panic(err)
	}
	return v
}

func Test001ListsReadAsPairs(t *testing.T) {
	cv.Convey(`Given list syntax, the reader should build pair chains terminated by the empty list, with dotted tails kept as written`, t, func() {
		cv.So(WriteString(mustRead(`(1 2 3)`)), cv.ShouldEqual, `(1 2 3)`)
		cv.So(WriteString(mustRead(`(a . b)`)), cv.ShouldEqual, `(a . b)`)
		cv.So(WriteString(mustRead(`(a b . c)`)), cv.ShouldEqual, `(a b . c)`)
		cv.So(WriteString(mustRead(`(a (b c) d)`)), cv.ShouldEqual, `(a (b c) d)`)
		cv.So(mustRead(`()`), cv.ShouldResemble, Null{})

		v := mustRead(`(1 . (2 . ()))`)
		cv.So(WriteString(v), cv.ShouldEqual, `(1 2)`)
		cv.So(Equal(v, mustRead(`(1 2)`)), cv.ShouldBeTrue)
	})
}

func Test002VectorsAndBytevectors(t *testing.T) {
	cv.Convey(`Given vector and bytevector syntax, the reader should build them with their elements in order`, t, func() {
		cv.So(WriteString(mustRead(`#(1 #t x)`)), cv.ShouldEqual, `#(1 #t x)`)
		cv.So(WriteString(mustRead(`#()`)), cv.ShouldEqual, `#()`)
		cv.So(mustRead(`#u8(0 127 255)`), cv.ShouldResemble, Bytevector{0, 127, 255})
		cv.So(mustRead(`#u8()`), cv.ShouldResemble, Bytevector{})

		cv.Convey(`and a byte above 255 should fail the parse without backtracking into other readings`, func() {
			_, err := read(`#u8(1 2 256)`)
			cv.So(err, cv.ShouldNotBeNil)
			var syn *SyntaxError
			cv.So(errors.As(err, &syn), cv.ShouldBeTrue)
		})
	})
}

func Test003Characters(t *testing.T) {
	cv.Convey(`Given character syntax, named, hex and literal characters should all decode`, t, func() {
		cv.So(mustRead(`#\a`), cv.ShouldEqual, Character('a'))
		cv.So(mustRead(`#\A`), cv.ShouldEqual, Character('A'))
		cv.So(mustRead(`#\(`), cv.ShouldEqual, Character('('))
		cv.So(mustRead(`#\newline`), cv.ShouldEqual, Character('\n'))
		cv.So(mustRead(`#\space`), cv.ShouldEqual, Character(' '))
		cv.So(mustRead(`#\null`), cv.ShouldEqual, Character(0))
		cv.So(mustRead(`#\x41`), cv.ShouldEqual, Character('A'))
		cv.So(mustRead(`#\x03bb`), cv.ShouldEqual, Character('λ'))
	})
}

func Test004Strings(t *testing.T) {
	cv.Convey(`Given string syntax, escapes and line continuations should decode`, t, func() {
		cv.So(mustRead(`"hello"`), cv.ShouldEqual, String("hello"))
		cv.So(mustRead(`"a\nb"`), cv.ShouldEqual, String("a\nb"))
		cv.So(mustRead(`"q\"q"`), cv.ShouldEqual, String(`q"q`))
		cv.So(mustRead(`"\\"`), cv.ShouldEqual, String(`\`))
		cv.So(mustRead(`"\x41;"`), cv.ShouldEqual, String("A"))
		cv.So(mustRead("\"a \\\n   b\""), cv.ShouldEqual, String("a b"))

		cv.Convey(`and strings may span lines without escapes`, func() {
			cv.So(mustRead("\"a\nb\""), cv.ShouldEqual, String("a\nb"))
		})
	})
}

func Test005BooleansAndSymbols(t *testing.T) {
	cv.Convey(`Given boolean and symbol syntax, both spellings of booleans should read and symbols should keep their text`, t, func() {
		cv.So(mustRead(`#t`), cv.ShouldEqual, Boolean(true))
		cv.So(mustRead(`#true`), cv.ShouldEqual, Boolean(true))
		cv.So(mustRead(`#f`), cv.ShouldEqual, Boolean(false))
		cv.So(mustRead(`#false`), cv.ShouldEqual, Boolean(false))
		cv.So(mustRead(`list->vector`), cv.ShouldEqual, Symbol("list->vector"))
		cv.So(mustRead(`...`), cv.ShouldEqual, Symbol("..."))
		cv.So(mustRead(`set!`), cv.ShouldEqual, Symbol("set!"))
	})
}

func Test006Abbreviations(t *testing.T) {
	cv.Convey(`Given quotation abbreviations, each should read equal to its spelled-out two-element list`, t, func() {
		cv.So(Equal(mustRead(`'x`), mustRead(`(quote x)`)), cv.ShouldBeTrue)
		cv.So(Equal(mustRead("`x"), mustRead(`(quasiquote x)`)), cv.ShouldBeTrue)
		cv.So(Equal(mustRead(`,x`), mustRead(`(unquote x)`)), cv.ShouldBeTrue)
		cv.So(Equal(mustRead(`,@x`), mustRead(`(unquote-splicing x)`)), cv.ShouldBeTrue)
		cv.So(WriteString(mustRead(`''x`)), cv.ShouldEqual, `(quote (quote x))`)
	})
}

func Test007DatumLabels(t *testing.T) {
	cv.Convey(`Given #n= and #n#, the reader should tie real cycles with pointer identity`, t, func() {
		v := mustRead(`#0=(1 . #0#)`)
		p := v.(*Pair)
		cv.So(p.Cdr, cv.ShouldEqual, p)
		cv.So(WriteString(v), cv.ShouldEqual, `#0=(1 . #0#)`)

		v = mustRead(`#0=(1 2 #0#)`)
		p = v.(*Pair)
		third := p.Cdr.(*Pair).Cdr.(*Pair)
		cv.So(third.Car, cv.ShouldEqual, p)
		cv.So(WriteString(v), cv.ShouldEqual, `#0=(1 2 #0#)`)

		cv.Convey(`and cyclic values should compare equal without diverging`, func() {
			a := mustRead(`#0=(1 . #0#)`)
			b := mustRead(`#1=(1 . #1#)`)
			cv.So(Equal(a, b), cv.ShouldBeTrue)
			cv.So(Equal(a, mustRead(`(1 2)`)), cv.ShouldBeFalse)
		})

		cv.Convey(`and labels inside vectors should patch the right slot`, func() {
			v := mustRead(`#0=#(1 #0#)`)
			vec := v.(*Vector)
			cv.So(vec.Items[1], cv.ShouldEqual, vec)
		})

		cv.Convey(`and a non-cyclic reuse should share structure`, func() {
			v := mustRead(`(#0=(a) #0#)`)
			first := v.(*Pair).Car
			second := v.(*Pair).Cdr.(*Pair).Car
			cv.So(first, cv.ShouldEqual, second)
			cv.So(WriteString(v), cv.ShouldEqual, `(#0=(a) #0#)`)
		})

		cv.Convey(`and an undefined reference should fail`, func() {
			_, err := read(`(a #0#)`)
			var unresolved *UnresolvedLabelError
			cv.So(errors.As(err, &unresolved), cv.ShouldBeTrue)
			cv.So(unresolved.Label, cv.ShouldEqual, 0)
		})

		cv.Convey(`and a label that is only itself should fail`, func() {
			_, err := read(`#0=#0#`)
			cv.So(err, cv.ShouldNotBeNil)
		})
	})
}

func Test008LabelsDoNotCrossTopLevelForms(t *testing.T) {
	cv.Convey(`Given two top-level forms, a label defined in the first should not resolve in the second`, t, func() {
		forms, err := Parse(`(list '#0=(a) '#0#)`, Model{})
		cv.So(err, cv.ShouldBeNil)
		cv.So(len(forms), cv.ShouldEqual, 1)

		_, err = Parse(`'#0=(a) '#0#`, Model{})
		var unresolved *UnresolvedLabelError
		cv.So(errors.As(err, &unresolved), cv.ShouldBeTrue)
	})
}

func Test009CommentsAreSkipped(t *testing.T) {
	cv.Convey(`Given line and block comments, the reader should treat them as whitespace`, t, func() {
		cv.So(WriteString(mustRead("(1 ; comment\n 2)")), cv.ShouldEqual, `(1 2)`)
		cv.So(WriteString(mustRead("(1 #| block |# 2)")), cv.ShouldEqual, `(1 2)`)
		cv.So(WriteString(mustRead("#|multi\nline|# x")), cv.ShouldEqual, `x`)
	})
}
