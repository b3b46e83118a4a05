// Package lalr implements the LALR(1) state-machine builder of spec §4.8:
// LR(0) kernel construction via closure/goto, then LALR(1) lookahead
// propagation by Algorithm 4.62/4.63 (the "determine lookaheads" plus
// "efficient kernel computation" algorithms from the purple dragon book),
// and action-table construction including Guard items.
//
// This package completes what ictiobus's own attempt at the same thing
// left unfinished: _examples/dekarrin-tunaq/internal/ictiobus/parse/lalr.go's
// computeLALR1Kernels is Algorithm 4.63 with its step-4 fixed-point
// propagation loop commented out and a bare `TODO: actually convert the
// table results to this` where the real work should happen. That file's
// determineLookaheads (Algorithm 4.62) is fully implemented and is this
// package's primary grounding for lookahead.go; its getLR0Kernels and
// constructLALR1ParseTable ground kernel.go and action.go respectively.
// Generalized throughout from the teacher's string-keyed grammar symbols to
// spec §3's int-id Item/Rule types (internal/grammar).
package lalr

import (
	"fmt"

	"github.com/dekarrin/tamelang/internal/grammar"
)

// LRItem is an LR(0) item: a rule id and a dot position in [0, len(rule)].
type LRItem struct {
	Rule grammar.RuleID
	Dot  int
}

// Key returns a canonical string identity for the item, used for
// dedup/lookup the same way the teacher's LR0Item.String() ("NonTerminal ->
// alpha . beta") is used as a map key throughout ictiobus's grammar and
// parse packages.
func (it LRItem) Key() string {
	return fmt.Sprintf("%d.%d", it.Rule, it.Dot)
}

// symbols returns a rule's production with any stray KindEmpty placeholder
// stripped. Grammar.Desugar represents an epsilon rule as a plain
// zero-length Production, so in practice this never trips — it exists only
// as a defensive normalization for a hand-built Production{Empty()} rule
// added outside Desugar, so such a rule still behaves as the zero-length
// production LR items expect rather than getting stuck "shifting" an item
// that denotes no symbol at all.
func symbols(g *grammar.Grammar, id grammar.RuleID) grammar.Production {
	prod := g.Rule(id).Production
	if len(prod) == 1 && prod[0].Kind == grammar.KindEmpty {
		return grammar.Production{}
	}
	return prod
}

// NextSymbol returns the item's symbol just after the dot, and whether one
// exists (false means the item is a reduce item: the dot is at the end).
func NextSymbol(g *grammar.Grammar, it LRItem) (grammar.Item, bool) {
	prod := symbols(g, it.Rule)
	if it.Dot >= len(prod) {
		return grammar.Item{}, false
	}
	return prod[it.Dot], true
}

// Advance returns the item with its dot moved one position to the right.
func Advance(it LRItem) LRItem {
	return LRItem{Rule: it.Rule, Dot: it.Dot + 1}
}

// IsReduce returns whether it's dot is at the end of its rule.
func IsReduce(g *grammar.Grammar, it LRItem) bool {
	_, ok := NextSymbol(g, it)
	return !ok
}

// Kernel is a sorted, deduplicated set of LR(0) items identifying one
// state. Two states with equal kernels are the same state (spec §3).
type Kernel []LRItem

// Key returns a canonical string identity for the kernel as a whole.
func (k Kernel) Key() string {
	// Kernel is always constructed pre-sorted by the builder, so this is a
	// stable, order-independent identity.
	s := ""
	for _, it := range k {
		s += it.Key() + ";"
	}
	return s
}
