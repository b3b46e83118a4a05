package automaton

import (
	"testing"

	"github.com/dekarrin/tamelang/internal/symset"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/stretchr/testify/assert"
)

// buildRedundant builds a DFA with two behaviorally-equivalent accepting
// states (both reachable via 'a' or 'b' and both terminal with no further
// transitions) that minimization should collapse into one.
func buildRedundant(t *testing.T) *DFA {
	t.Helper()
	symbols := symset.NewMap()
	dict := terms.NewDict()
	tok := dict.Intern("x")

	n := NewNDFA(symbols)
	aSym := symbols.Intern(symset.SetOf(symset.Single('a')))
	bSym := symbols.Intern(symset.SetOf(symset.Single('b')))

	s1 := n.AddState()
	s2 := n.AddState()
	n.AddTransition(0, aSym, s1)
	n.AddTransition(0, bSym, s2)
	n.AddAccept(s1, tok, false)
	n.AddAccept(s2, tok, false)

	return n.ToDFA([]int{0})
}

func Test_Minimize_collapsesEquivalentStates(t *testing.T) {
	d := buildRedundant(t)
	before := d.NumStates()

	m := d.Minimize()

	assert.Less(t, m.NumStates(), before)
	assert.True(t, m.IsAccepting(m.Start()) == false)
}

func Test_Minimize_preservesLanguage(t *testing.T) {
	d := buildRedundant(t)
	m := d.Minimize()

	sIDs := d.AllSymbols()
	assert.NotEmpty(t, sIDs)

	for _, sym := range sIDs {
		origNext, origOK := d.Next(d.Start(), sym)
		minNext, minOK := m.Next(m.Start(), sym)
		assert.Equal(t, origOK, minOK)
		if origOK {
			assert.Equal(t, d.IsAccepting(origNext), m.IsAccepting(minNext))
		}
	}
}

func Test_MergeEquivalentSymbols_mergesIdenticalColumns(t *testing.T) {
	symbols := symset.NewMap()
	dict := terms.NewDict()
	tok := dict.Intern("x")

	n := NewNDFA(symbols)
	aSym := symbols.Intern(symset.SetOf(symset.Single('a')))
	bSym := symbols.Intern(symset.SetOf(symset.Single('b')))

	s1 := n.AddState()
	n.AddTransition(0, aSym, s1)
	n.AddTransition(0, bSym, s1) // 'a' and 'b' behave identically from state 0
	n.AddAccept(s1, tok, false)

	d := n.ToDFA([]int{0})
	merged, mapping := d.MergeEquivalentSymbols()

	assert.Equal(t, mapping[aSym], mapping[bSym])
	next, ok := merged.Next(merged.Start(), mapping[aSym])
	assert.True(t, ok)
	assert.True(t, merged.IsAccepting(next))
}
