package regexc

import (
	"github.com/dekarrin/tamelang/internal/automaton"
	"github.com/dekarrin/tamelang/internal/symset"
)

const (
	surrogateThreshold = 0x10000
	highSurrogateBase  = 0xD800
	lowSurrogateBase   = 0xDC00
)

// toSurrogatePair splits a code point >= surrogateThreshold into its
// UTF-16 high/low surrogate pair.
func toSurrogatePair(v int) (high, low int) {
	v -= surrogateThreshold
	high = highSurrogateBase + (v >> 10)
	low = lowSurrogateBase + (v & 0x3ff)
	return high, low
}

// ExpandSurrogates rewrites the transition from -> to on symbol set symID
// so that any code point >= U+10000 in that set is instead reached via a
// fresh intermediate state and a (high-surrogate, low-surrogate) pair of
// transitions, per spec §4.3's "surrogate expansion" and
// _examples/original_source/TameParse/Dfa/ndfa_regex.cpp's handling of
// wide character ranges (cited in SPEC_FULL.md §12). Code points below the
// threshold keep their direct transition unchanged.
func ExpandSurrogates(ndfa *automaton.NDFA, from, to, symID int) {
	set := ndfa.Symbols.Get(symID)

	var low, wide *symset.Set
	low = symset.NewSet()
	wide = symset.NewSet()
	for _, r := range set.Ranges() {
		if r.Hi <= surrogateThreshold {
			low.InsertRange(r)
			continue
		}
		if r.Lo >= surrogateThreshold {
			wide.InsertRange(r)
			continue
		}
		low.InsertRange(symset.NewRange(r.Lo, surrogateThreshold))
		wide.InsertRange(symset.NewRange(surrogateThreshold, r.Hi))
	}

	if !low.Empty() {
		ndfa.AddTransition(from, ndfa.Symbols.Intern(low), to)
	}

	for _, r := range wide.Ranges() {
		for v := r.Lo; v < r.Hi; v++ {
			high, lowSurr := toSurrogatePair(v)
			mid := ndfa.AddState()
			highSym := ndfa.Symbols.Intern(symset.SetOf(symset.Single(high)))
			lowSym := ndfa.Symbols.Intern(symset.SetOf(symset.Single(lowSurr)))
			ndfa.AddTransition(from, highSym, mid)
			ndfa.AddTransition(mid, lowSym, to)
		}
	}
}
