package parser

import (
	"math/rand"

	"github.com/arr-ai/frozen"
)

// Scope carries immutable per-parse state down the rule tree: named capture
// values for REF backreferences, the active cutpoint, and the shared
// furthest-failure record used for diagnostics.
type Scope struct {
	m frozen.Map
}

func (s Scope) String() string {
	return s.m.String()
}

func (s Scope) Keys() frozen.Set {
	return s.m.Keys()
}

func (s Scope) With(ident string, v interface{}) Scope {
	s.m = s.m.With(ident, v)
	return s
}

func (s Scope) Has(ident string) bool {
	return s.m.Has(ident)
}

type scopeVal struct {
	p   Parser
	val TreeElement
}

func (s Scope) WithVal(ident string, p Parser, val TreeElement) Scope {
	if ident != "" {
		s.m = s.m.With(ident, &scopeVal{p: p, val: val})
	}
	return s
}

func (s Scope) GetVal(ident string) (Parser, TreeElement, bool) {
	if val, ok := s.m.Get(ident); ok {
		sv := val.(*scopeVal)
		return sv.p, sv.val, ok
	}
	return nil, nil, false
}

const cutpointkey = ".Cutpoint-key."

type Cutpointdata int32

func (c Cutpointdata) valid() bool { return c >= 0 }

const invalidCutpoint = Cutpointdata(-1)

func (s Scope) ReplaceCutPoint(force bool) (newScope Scope, prev, replacement Cutpointdata) {
	prev = s.GetCutPoint()
	replacement = invalidCutpoint
	if prev.valid() || force {
		replacement = Cutpointdata(rand.Int31())
		return s.With(cutpointkey, replacement), prev, replacement
	}
	return s, invalidCutpoint, invalidCutpoint
}

func (s Scope) GetCutPoint() Cutpointdata {
	if v, has := s.m.Get(cutpointkey); has {
		return v.(Cutpointdata)
	}
	return invalidCutpoint
}

const furthestKey = ".Furthest-key."

// furthestRecord is the one deliberately mutable value threaded through the
// scope: every token failure bumps it so a total parse failure can report the
// deepest offset any alternative reached.
type furthestRecord struct {
	offset int
}

func (s Scope) WithFurthest() (Scope, *furthestRecord) {
	rec := &furthestRecord{offset: -1}
	return s.With(furthestKey, rec), rec
}

func (s Scope) recordFailure(input *Scanner) {
	if v, has := s.m.Get(furthestKey); has {
		rec := v.(*furthestRecord)
		if off := input.Offset(); off > rec.offset {
			rec.offset = off
		}
	}
}
