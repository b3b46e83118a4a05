package lalr

import (
	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/terms"
)

// Result bundles everything BuildLALR1 produces: the LR(0) automaton, the
// FIRST sets it was computed against, the final lookahead assignment, and
// the derived ACTION/GOTO/Guard table. Callers needing only the table can
// ignore the rest; internal/rewrite needs Automaton and Table together to
// rewrite shift/reduce conflicts in place.
type Result struct {
	Automaton *Automaton
	First     *grammar.FirstSets
	Lookahead *Lookaheads
	Table     *Table
}

// BuildLALR1 runs the full pipeline of this package end to end: augment and
// build the LR(0) automaton, compute FIRST sets, propagate LALR(1)
// lookaheads to a fixed point, and derive the parse table. endOfInput is
// the terminal id standing in for "⊣" (spec §4.8's end-of-input sentinel),
// expected to already be interned in g.Terms by the caller (the language
// compiler reserves it once per compiled grammar).
func BuildLALR1(g *grammar.Grammar, endOfInput terms.ID) *Result {
	automaton := Build(g)
	first := grammar.ComputeFirst(g)
	lookaheads := ComputeLookaheads(automaton, first, endOfInput)
	table := BuildTable(automaton, first, lookaheads, endOfInput)
	return &Result{
		Automaton: automaton,
		First:     first,
		Lookahead: lookaheads,
		Table:     table,
	}
}
