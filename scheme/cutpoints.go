package scheme

import (
	"fmt"

	"github.com/arr-ai/frozen"

	"github.com/zaoqi-unsafe/aydede/parser"
)

// Cutpoint insertion.
//
// A cutpoint is a point in a rule past which a later failure must abort the
// whole parse instead of backtracking into sibling alternatives. Any S token
// that appears exactly once in the grammar is a safe cutpoint: no other
// branch could parse the same consumed text. In this grammar that yields the
// vector and bytevector openers, so (#u8(1 2 x) reports the bad byte instead
// of silently retrying the input as a list of symbols.
//
// Keywords such as define and lambda are deliberately RE tokens, not S:
// (define x) must still backtrack into the call rule.

func insertCutPoints(g parser.Grammar) parser.Grammar {
	strings := findUniqueStrings(g)
	callback := func(t parser.Term) parser.Term {
		if s, ok := t.(parser.S); ok && strings.Has(string(s)) {
			return parser.CutPoint{Term: s}
		}
		return t
	}
	out := parser.Grammar{}
	for rule, term := range g {
		out[rule] = fixTerm(term, callback)
	}
	return out
}

func findUniqueStrings(g parser.Grammar) frozen.Set {
	mergeFn := func(_ interface{}, a, b interface{}) interface{} {
		return a.(int) + b.(int)
	}
	var forTerm func(t parser.Term) frozen.Map
	forTerm = func(t parser.Term) frozen.Map {
		out := frozen.NewMap()
		if t == nil {
			return out
		}
		switch t := t.(type) {
		case parser.S:
			return out.With(string(t), 1)
		case parser.Seq:
			for _, t := range t {
				out = out.Merge(forTerm(t), mergeFn)
			}
		case parser.Oneof:
			for _, t := range t {
				out = out.Merge(forTerm(t), mergeFn)
			}
		case parser.Quant:
			out = out.Merge(forTerm(t.Term), mergeFn)
		case parser.Named:
			out = out.Merge(forTerm(t.Term), mergeFn)
		case parser.REF:
			out = out.Merge(forTerm(t.Default), mergeFn)
		case parser.CutPoint:
			out = out.Merge(forTerm(t.Term), mergeFn)
		case parser.RE, parser.Rule, parser.Neg: // do nothing
		default:
			panic(fmt.Errorf("findUniqueStrings: unexpected term type: %v %[1]T", t))
		}
		return out
	}

	strings := frozen.NewMap()
	for _, t := range g {
		strings = strings.Merge(forTerm(t), mergeFn)
	}
	return strings.Where(func(key, val interface{}) bool {
		return val.(int) == 1
	}).Keys()
}

func fixTerm(term parser.Term, callback func(t parser.Term) parser.Term) parser.Term {
	switch t := term.(type) {
	case parser.Seq:
		out := parser.Seq{}
		for _, t := range t {
			out = append(out, fixTerm(t, callback))
		}
		return out
	case parser.Oneof:
		out := parser.Oneof{}
		for _, t := range t {
			out = append(out, fixTerm(t, callback))
		}
		return callback(out)
	case parser.Quant:
		t.Term = fixTerm(t.Term, callback)
		return callback(t)
	case parser.Named:
		t.Term = fixTerm(t.Term, callback)
		return callback(t)
	case parser.CutPoint:
		t.Term = fixTerm(t.Term, callback)
		return callback(t)
	case parser.S, parser.REF, parser.RE, parser.Rule, parser.Neg:
		return callback(term)
	default:
		panic(fmt.Errorf("fixTerm: unexpected term type: %v %[1]T", t))
	}
}
