package automaton

import (
	"testing"

	"github.com/dekarrin/tamelang/internal/symset"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/stretchr/testify/assert"
)

// buildAB builds an NDFA accepting the language "ab" (single path,
// literal code points), used by several tests below.
func buildAB(t *testing.T) (*NDFA, terms.ID, int) {
	t.Helper()
	symbols := symset.NewMap()
	dict := terms.NewDict()
	tok := dict.Intern("ab")

	n := NewNDFA(symbols)
	aSym := symbols.Intern(symset.SetOf(symset.Single('a')))
	bSym := symbols.Intern(symset.SetOf(symset.Single('b')))

	s1 := n.AddState()
	s2 := n.AddState()
	n.AddTransition(0, aSym, s1)
	n.AddTransition(s1, bSym, s2)
	n.AddAccept(s2, tok, false)

	return n, tok, s2
}

func Test_NDFA_EpsilonClosure_includesSelf(t *testing.T) {
	symbols := symset.NewMap()
	n := NewNDFA(symbols)
	closure := n.EpsilonClosure([]int{0})
	assert.True(t, closure[0])
}

func Test_NDFA_EpsilonClosure_followsEpsilonChain(t *testing.T) {
	symbols := symset.NewMap()
	n := NewNDFA(symbols)
	s1 := n.AddState()
	s2 := n.AddState()
	n.AddEpsilon(0, s1)
	n.AddEpsilon(s1, s2)

	closure := n.EpsilonClosure([]int{0})
	assert.True(t, closure[0])
	assert.True(t, closure[1])
	assert.True(t, closure[2])
}

func Test_NDFA_ToDFA_acceptsSameLanguage(t *testing.T) {
	n, tok, _ := buildAB(t)
	d := n.ToDFA([]int{0})

	// walk "ab" through the DFA
	cur := d.Start()
	symbols := n.Symbols
	aID, _ := symbols.Find('a')
	bID, _ := symbols.Find('b')

	next, ok := d.Next(cur, aID)
	assert.True(t, ok)
	cur = next

	next, ok = d.Next(cur, bID)
	assert.True(t, ok)
	cur = next

	assert.True(t, d.IsAccepting(cur))
	accepts := d.Accepts(cur)
	assert.Len(t, accepts, 1)
	assert.Equal(t, tok, accepts[0].Terminal)
}

func Test_NDFA_ToDFA_isDFACompatible(t *testing.T) {
	n, _, _ := buildAB(t)
	d := n.ToDFA([]int{0})

	// every state of the produced DFA has at most one transition per
	// symbol by construction; verify no state has two transitions on the
	// same symbol id recorded under different targets isn't even
	// representable by the map-based DFA, so just check symbol coverage.
	for s := 0; s < d.NumStates(); s++ {
		seen := map[int]bool{}
		for _, sym := range d.AllSymbols() {
			if _, ok := d.Next(s, sym); ok {
				assert.False(t, seen[sym])
				seen[sym] = true
			}
		}
	}
}

func Test_NDFA_eagerAccept_suppressesFurtherTransitions(t *testing.T) {
	symbols := symset.NewMap()
	dict := terms.NewDict()
	tok := dict.Intern("eager")

	n := NewNDFA(symbols)
	aSym := symbols.Intern(symset.SetOf(symset.Single('a')))
	bSym := symbols.Intern(symset.SetOf(symset.Single('b')))

	s1 := n.AddState()
	s2 := n.AddState()
	n.AddTransition(0, aSym, s1)
	n.AddAccept(s1, tok, true) // eager: cut here
	n.AddTransition(s1, bSym, s2)

	d := n.ToDFA([]int{0})
	aID, _ := symbols.Find('a')
	cur, ok := d.Next(d.Start(), aID)
	assert.True(t, ok)
	assert.True(t, d.IsAccepting(cur))

	bID, _ := symbols.Find('b')
	_, ok = d.Next(cur, bID)
	assert.False(t, ok, "eager accept must suppress the outgoing 'b' transition")
}
