package lalr

import (
	"testing"

	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildArithmetic reconstructs spec §8 Scenario A's grammar directly (the
// original grammar_test.go helper is unexported to its own package):
//
//	E = E "+" T | T ;
//	T = "num" ;
func buildArithmetic(t *testing.T) (*grammar.Grammar, terms.ID) {
	t.Helper()
	dict := terms.NewDict()
	plus := dict.Intern("+")
	num := dict.Intern("num")

	g := grammar.NewGrammar(dict)
	e := g.Nonterminal("E")
	tm := g.Nonterminal("T")
	g.SetStart(e)

	g.AddRule(e, grammar.Production{grammar.NT(e), grammar.T(plus), grammar.NT(tm)})
	g.AddRule(e, grammar.Production{grammar.NT(tm)})
	g.AddRule(tm, grammar.Production{grammar.T(num)})

	return g, dict.Intern("⊣")
}

func Test_Build_scenarioA_hasExpectedStateCount(t *testing.T) {
	g, _ := buildArithmetic(t)
	a := Build(g)

	// E' -> .E, E -> .E+T, E -> .T, T -> .num is the canonical initial
	// state for this textbook grammar (4 kernel+closure items collapsing
	// to 1 kernel item); every state must be reachable and none duplicated.
	assert.NotEmpty(t, a.States)
	assert.Equal(t, 1, len(a.States[0]), "state 0's kernel holds only the augmented start item")
	assert.Equal(t, LRItem{Rule: a.AugRule, Dot: 0}, a.States[0][0])
}

func Test_Build_noDuplicateStates(t *testing.T) {
	g, _ := buildArithmetic(t)
	a := Build(g)

	seen := make(map[string]bool)
	for _, k := range a.States {
		key := k.Key()
		require.False(t, seen[key], "duplicate kernel produced as a distinct state: %s", key)
		seen[key] = true
	}
}

func Test_ComputeLookaheads_augmentedStartGetsEndOfInput(t *testing.T) {
	g, eoi := buildArithmetic(t)
	a := Build(g)
	fs := grammar.ComputeFirst(g)
	la := ComputeLookaheads(a, fs, eoi)

	startItem := LRItem{Rule: a.AugRule, Dot: 0}
	set := la.Of(0, startItem)
	assert.True(t, set.Has(eoi))
}

func Test_ComputeLookaheads_propagatesThroughChain(t *testing.T) {
	// The "T -> num ." reduce item must end up with both "+" and end-of-
	// input in its lookahead set: one from the nested "E -> E + T" context
	// (spontaneous on the "+" path) and one from the outer "E -> T" /
	// start context (propagated all the way from the augmented item) —
	// this chain is exactly what the teacher's stub never finished
	// computing.
	g, eoi := buildArithmetic(t)
	dict := g.Terms
	plus := dict.Intern("+")

	a := Build(g)
	fs := grammar.ComputeFirst(g)
	la := ComputeLookaheads(a, fs, eoi)

	// Find the state reached after shifting "num" from the start state's
	// closure; its kernel item is "T -> num ." (rule id 2 in insertion
	// order: E->E+T is 0, E->T is 1, T->num is 2).
	var numRule grammar.RuleID = 2
	found := false
	for i, k := range a.States {
		for _, it := range k {
			if it.Rule == numRule && it.Dot == 1 {
				set := la.Of(i, it)
				assert.True(t, set.Has(eoi), "state %d missing end-of-input lookahead", i)
				assert.True(t, set.Has(plus), "state %d missing '+' lookahead", i)
				found = true
			}
		}
	}
	require.True(t, found, "expected to find the T -> num . kernel item in some state")
}

func Test_BuildTable_acceptsOnAugmentedReduceAtEndOfInput(t *testing.T) {
	g, eoi := buildArithmetic(t)
	result := BuildLALR1(g, eoi)

	found := false
	for _, actions := range result.Table.Action {
		for la, act := range actions {
			if act.Kind == ActionAccept {
				assert.Equal(t, eoi, la)
				found = true
			}
		}
	}
	assert.True(t, found, "expected an Accept action keyed on end-of-input")
}

func Test_BuildTable_noSpuriousConflictsOnScenarioA(t *testing.T) {
	g, eoi := buildArithmetic(t)
	result := BuildLALR1(g, eoi)

	assert.Empty(t, result.Table.Conflicts, "scenario A's grammar is unambiguous and should produce a conflict-free table")
}
