package grammar

import (
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/dekarrin/tamelang/internal/util"
)

// FirstSets holds the fixed-point FIRST set for every nonterminal, plus
// whether it derives epsilon, per spec §4.5: "FIRST(α) for a sentential
// form α: smallest set such that if α = β·X·γ and ε ∈ FIRST(β), then
// FIRST(X) ⊆ FIRST(α); ε ∈ FIRST(α) iff ε ∈ FIRST(every symbol of α)."
type FirstSets struct {
	g         *Grammar
	sets      map[NontermID]util.KeySet[terms.ID]
	hasEpsilon map[NontermID]bool
}

// ComputeFirst computes FIRST(nt) for every nonterminal in g by fixed-point
// iteration over all rules, grounded on ictiobus's older sibling
// `internal/tunascript/grammar.go`'s `FIRST` method (same fixed-point shape,
// generalized here from string terminal names to terms.ID and from ad hoc
// string items to the Item tagged union).
func ComputeFirst(g *Grammar) *FirstSets {
	fs := &FirstSets{
		g:          g,
		sets:       make(map[NontermID]util.KeySet[terms.ID]),
		hasEpsilon: make(map[NontermID]bool),
	}
	for _, nt := range g.AllNonterminals() {
		fs.sets[nt] = util.NewKeySet[terms.ID]()
	}
	// also make room for anonymous (EBNF-synthesized) nonterminals, which
	// AllNonterminals already includes since Nonterminal() names them too.

	changed := true
	for changed {
		changed = false
		for nt := range fs.sets {
			for _, rid := range g.RulesFor(nt) {
				rule := g.Rule(rid)
				eps, added := fs.firstOfProduction(rule.Production, fs.sets[nt])
				if added {
					changed = true
				}
				if eps && !fs.hasEpsilon[nt] {
					fs.hasEpsilon[nt] = true
					changed = true
				}
			}
		}
	}
	return fs
}

// firstOfProduction folds FIRST(item) for each item of prod into dest left
// to right, stopping once an item that cannot derive epsilon is reached.
// Returns whether the whole production can derive epsilon, and whether any
// new terminal was added to dest.
func (fs *FirstSets) firstOfProduction(prod Production, dest util.KeySet[terms.ID]) (epsilon bool, added bool) {
	epsilon = true
	for _, it := range prod {
		itEps, itAdded := fs.firstOfItem(it, dest)
		if itAdded {
			added = true
		}
		if !itEps {
			epsilon = false
			break
		}
	}
	return epsilon, added
}

func (fs *FirstSets) firstOfItem(it Item, dest util.KeySet[terms.ID]) (epsilon bool, added bool) {
	switch it.Kind {
	case KindTerminal:
		if !dest.Has(it.Terminal) {
			dest.Add(it.Terminal)
			added = true
		}
		return false, added
	case KindEmpty:
		return true, false
	case KindNonterminal:
		sub := fs.sets[it.Nonterminal]
		for _, t := range sub.Elements() {
			if !dest.Has(t) {
				dest.Add(t)
				added = true
			}
		}
		return fs.hasEpsilon[it.Nonterminal], added
	case KindGuard:
		// A guard is a zero-width predicate: it never shifts a symbol, so
		// it contributes nothing to FIRST and never blocks the items after
		// it from contributing theirs (spec §4.5's guard is consulted, not
		// consumed).
		return true, false
	default:
		// EBNF items are desugared into Nonterminal items before FIRST is
		// computed; encountering one here means Desugar was skipped
		// somewhere upstream.
		panic("grammar: firstOfItem called on an undesugared EBNF item; call Grammar.Desugar first")
	}
}

// Of returns the FIRST set of a single nonterminal.
func (fs *FirstSets) Of(nt NontermID) util.KeySet[terms.ID] {
	return fs.sets[nt]
}

// DerivesEpsilon returns whether nt can derive the empty string.
func (fs *FirstSets) DerivesEpsilon(nt NontermID) bool {
	return fs.hasEpsilon[nt]
}

// OfSequence computes FIRST of an arbitrary (already-desugared) sentential
// form, along with whether the whole sequence can derive epsilon.
func (fs *FirstSets) OfSequence(prod Production) (util.KeySet[terms.ID], bool) {
	dest := util.NewKeySet[terms.ID]()
	eps, _ := fs.firstOfProduction(prod, dest)
	return dest, eps
}
