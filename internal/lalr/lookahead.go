package lalr

import (
	"fmt"
	"sort"

	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/dekarrin/tamelang/internal/util"
)

// dummyLookahead is the "#" placeholder of Algorithm 4.62: a kernel item is
// closed with "#" as its lookahead; a real terminal that reaches a
// successor item in that closure is spontaneously generated for the
// *target* state, while "#" itself reaching one signals that the source
// item's own lookaheads must be propagated forward instead.
const dummyLookahead = terms.ID(-1)

// lr1Set is a working set of LR(1) items (LR0 core plus accumulated
// lookaheads) used only as scratch space while probing one kernel item's
// one-symbol lookahead, grounded on the same shape the teacher's
// determineLookaheads builds (a per-item lookahead-set map), generalized to
// this package's int-keyed items.
type lr1Set struct {
	items map[string]LRItem
	la    map[string]util.KeySet[terms.ID]
}

func newLR1Set() *lr1Set {
	return &lr1Set{items: make(map[string]LRItem), la: make(map[string]util.KeySet[terms.ID])}
}

func (s *lr1Set) add(it LRItem, la terms.ID) bool {
	key := it.Key()
	if _, ok := s.items[key]; !ok {
		s.items[key] = it
		s.la[key] = util.NewKeySet[terms.ID]()
	}
	if s.la[key].Has(la) {
		return false
	}
	s.la[key].Add(la)
	return true
}

func (s *lr1Set) keys() []string {
	out := make([]string, 0, len(s.items))
	for k := range s.items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// firstOfBeta computes FIRST(beta . trailing): FIRST(beta) if beta cannot
// derive epsilon, else FIRST(beta) ∪ {trailing} — this is the "FIRST(βa)"
// term of Algorithm 4.62's closure step, where trailing (a real terminal or
// the dummy placeholder) stands in for whatever follows beta.
func firstOfBeta(fs *grammar.FirstSets, beta grammar.Production, trailing terms.ID) []terms.ID {
	set, eps := fs.OfSequence(beta)
	out := set.Elements()
	if eps {
		out = append(out, trailing)
	}
	return out
}

// lr1Closure computes the LR(1) closure of s in place: for every item whose
// next symbol is a nonterminal, add a dot-0 item per rule of that
// nonterminal, with lookaheads FIRST(beta . a) for every lookahead a
// already on the originating item (purple dragon book's CLOSURE(I) for
// LR(1) items, §4.7).
func lr1Closure(g *grammar.Grammar, fs *grammar.FirstSets, s *lr1Set) {
	changed := true
	for changed {
		changed = false
		for _, key := range s.keys() {
			it := s.items[key]
			las := s.la[key].Elements()
			sym, ok := NextSymbol(g, it)
			if !ok || sym.Kind != grammar.KindNonterminal {
				continue
			}
			prod := symbols(g, it.Rule)
			beta := prod[it.Dot+1:]
			for _, rid := range g.RulesFor(sym.Nonterminal) {
				for _, la := range las {
					for _, b := range firstOfBeta(fs, beta, la) {
						if s.add(LRItem{Rule: rid, Dot: 0}, b) {
							changed = true
						}
					}
				}
			}
		}
	}
}

// lr1Goto advances every item of s whose next symbol equals sym by one dot
// position, carrying its lookaheads forward. Per the standard GOTO(I,X)
// definition this does NOT close the result — callers close it themselves
// if (and only if) they need to look further past the immediate move, same
// as Algorithm 4.62 only ever needs the moved set itself.
func lr1Goto(g *grammar.Grammar, s *lr1Set, sym grammar.Item) *lr1Set {
	out := newLR1Set()
	for key, it := range s.items {
		next, ok := NextSymbol(g, it)
		if !ok || next.Key() != sym.Key() {
			continue
		}
		for _, la := range s.la[key].Elements() {
			out.add(Advance(it), la)
		}
	}
	return out
}

func stateItemKey(state int, it LRItem) string {
	return fmt.Sprintf("%d/%s", state, it.Key())
}

// Lookaheads holds, for every (state, LR0 item) pair that appears as a
// kernel item somewhere in the automaton, its final LALR(1) lookahead set.
type Lookaheads struct {
	byKey map[string]util.KeySet[terms.ID]
}

func (la *Lookaheads) Of(state int, it LRItem) util.KeySet[terms.ID] {
	set, ok := la.byKey[stateItemKey(state, it)]
	if !ok {
		return util.NewKeySet[terms.ID]()
	}
	return set
}

// ComputeLookaheads runs Algorithm 4.62 (spontaneous generation and
// propagation-link determination) over every kernel item of a, then runs
// the repeated-passes fixed-point propagation that Algorithm 4.63's step 4
// describes — this is the exact piece
// _examples/dekarrin-tunaq/internal/ictiobus/parse/lalr.go's
// computeLALR1Kernels leaves commented out, with its data only ever
// assembled, never propagated to a fixed point, before returning an empty
// result. determineLookaheads there is the full, working analog of the
// per-item probe below; what's new here is actually iterating the
// worklist until no lookahead changes, so every item's final set is
// complete rather than only its spontaneous, first-pass contributions.
func ComputeLookaheads(a *Automaton, fs *grammar.FirstSets, endOfInput terms.ID) *Lookaheads {
	spontaneous := make(map[string]util.KeySet[terms.ID])
	propagatesTo := make(map[string][]string)

	ensure := func(key string) util.KeySet[terms.ID] {
		set, ok := spontaneous[key]
		if !ok {
			set = util.NewKeySet[terms.ID]()
			spontaneous[key] = set
		}
		return set
	}

	// The augmented start item gets the end-of-input sentinel as a
	// spontaneous lookahead in the initial state, seeding the whole
	// propagation (purple dragon book's base case for Algorithm 4.62).
	startItem := LRItem{Rule: a.AugRule, Dot: 0}
	ensure(stateItemKey(0, startItem)).Add(endOfInput)

	for i, kernel := range a.States {
		for _, A := range kernel {
			seed := newLR1Set()
			seed.add(A, dummyLookahead)
			lr1Closure(a.G, fs, seed)

			for key, it := range seed.items {
				sym, ok := NextSymbol(a.G, it)
				if !ok {
					continue
				}
				targetState, ok := a.Goto[i][sym.Key()]
				if !ok {
					continue
				}
				moved := Advance(it)
				for _, la := range seed.la[key].Elements() {
					if la == dummyLookahead {
						from := stateItemKey(i, A)
						to := stateItemKey(targetState, moved)
						propagatesTo[from] = append(propagatesTo[from], to)
					} else {
						ensure(stateItemKey(targetState, moved)).Add(la)
					}
				}
			}
		}
	}

	// Completes the teacher's stub: repeated passes over every propagation
	// link until a pass adds nothing new.
	changed := true
	for changed {
		changed = false
		for from, tos := range propagatesTo {
			fromSet, ok := spontaneous[from]
			if !ok {
				continue
			}
			for _, to := range tos {
				toSet := ensure(to)
				for _, la := range fromSet.Elements() {
					if !toSet.Has(la) {
						toSet.Add(la)
						changed = true
					}
				}
			}
		}
	}

	return &Lookaheads{byKey: spontaneous}
}
