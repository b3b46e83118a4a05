// Package automaton implements the NDFA/DFA data model of spec §3: states
// numbered from 0, transitions keyed by (from, symbol-set id, to), accept
// actions carrying a terminal id and an eager flag, determinization by
// subset construction, and Hopcroft-style minimization.
//
// Grounded on ictiobus's automaton.NFA[E]/DFA[E]
// (_examples/dekarrin-tunaq/internal/ictiobus/automaton/{nfa,dfa}.go), but
// generalized from their string-keyed states and string symbols to the
// int-state, symbol-set-id model spec §3 specifies — ictiobus's lexer never
// needed a DFA at all (lex/regex.go's TODO left it wrapping stdlib regexp),
// so there the automaton package only ever serves the LR viable-prefix
// automaton, whose symbols are grammar terminals, not code-point ranges.
package automaton

import (
	"sort"

	"github.com/dekarrin/tamelang/internal/symset"
	"github.com/dekarrin/tamelang/internal/terms"
)

// EpsilonSet is the empty symbol set, interned once per symset.Map and
// used as the epsilon transition marker. Spec §3: "The empty symbol set
// (epsilon) has a reserved ID (obtained via the symbol map)."
func EpsilonSet() *symset.Set {
	return symset.NewSet()
}

// Accept is an accept action: a state may carry zero or more, each
// against a distinct terminal.
type Accept struct {
	Terminal terms.ID
	Eager    bool
}

// Transition is a single (from, symbolSetID, to) edge.
type Transition struct {
	From   int
	Symbol int // id into the NDFA's *symset.Map; EpsilonID for epsilon
	To     int
}

// NDFA is a nondeterministic automaton with epsilon transitions, built
// incrementally by the regex compiler and consumed (not mutated) by
// determinization.
type NDFA struct {
	Symbols     *symset.Map
	EpsilonID   int
	numStates   int
	transitions []Transition
	accepts     map[int][]Accept
}

// NewNDFA builds an NDFA sharing the given symbol map (so symbol-set ids
// line up with whatever the regex compiler already interned) with state 0
// pre-allocated as the default start state.
func NewNDFA(symbols *symset.Map) *NDFA {
	n := &NDFA{
		Symbols: symbols,
		accepts: make(map[int][]Accept),
	}
	n.EpsilonID = symbols.Intern(EpsilonSet())
	n.AddState() // state 0, the default start
	return n
}

// AddState allocates and returns a new state's id.
func (n *NDFA) AddState() int {
	id := n.numStates
	n.numStates++
	return id
}

// NumStates returns the number of states allocated.
func (n *NDFA) NumStates() int {
	return n.numStates
}

// AddTransition records a (from, symbol, to) edge. from and to must already
// be valid state ids.
func (n *NDFA) AddTransition(from, symbol, to int) {
	n.transitions = append(n.transitions, Transition{From: from, Symbol: symbol, To: to})
}

// AddEpsilon records an epsilon transition from -> to.
func (n *NDFA) AddEpsilon(from, to int) {
	n.AddTransition(from, n.EpsilonID, to)
}

// AddAccept records that reaching state s accepts terminal t, with the
// given eagerness.
func (n *NDFA) AddAccept(s int, t terms.ID, eager bool) {
	n.accepts[s] = append(n.accepts[s], Accept{Terminal: t, Eager: eager})
}

// Accepts returns the accept actions for state s, nil if none.
func (n *NDFA) Accepts(s int) []Accept {
	return n.accepts[s]
}

// TransitionsFrom returns every transition out of state s.
func (n *NDFA) TransitionsFrom(s int) []Transition {
	var out []Transition
	for _, tr := range n.transitions {
		if tr.From == s {
			out = append(out, tr)
		}
	}
	return out
}

// IsDFACompatible returns whether state s has no epsilon transition and no
// two transitions sharing a symbol-set id, per spec §3.
func (n *NDFA) IsDFACompatible(s int) bool {
	seen := make(map[int]bool)
	for _, tr := range n.TransitionsFrom(s) {
		if tr.Symbol == n.EpsilonID {
			return false
		}
		if seen[tr.Symbol] {
			return false
		}
		seen[tr.Symbol] = true
	}
	return true
}

// EpsilonClosure returns the set of states reachable from states using
// only epsilon transitions, states themselves included.
func (n *NDFA) EpsilonClosure(states []int) map[int]bool {
	closure := make(map[int]bool)
	var stack []int
	for _, s := range states {
		if !closure[s] {
			closure[s] = true
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, tr := range n.TransitionsFrom(s) {
			if tr.Symbol == n.EpsilonID && !closure[tr.To] {
				closure[tr.To] = true
				stack = append(stack, tr.To)
			}
		}
	}
	return closure
}

// symbolsOutOf returns the sorted, deduplicated non-epsilon symbol ids
// reachable directly from any state in the set.
func (n *NDFA) symbolsOutOf(states map[int]bool) []int {
	seen := make(map[int]bool)
	for s := range states {
		for _, tr := range n.TransitionsFrom(s) {
			if tr.Symbol != n.EpsilonID {
				seen[tr.Symbol] = true
			}
		}
	}
	out := make([]int, 0, len(seen))
	for sym := range seen {
		out = append(out, sym)
	}
	sort.Ints(out)
	return out
}

// move returns the set of states reachable from any state in `from` by a
// single transition on the given symbol id (no epsilon-closure applied).
func (n *NDFA) move(from map[int]bool, symbol int) []int {
	var out []int
	for s := range from {
		for _, tr := range n.TransitionsFrom(s) {
			if tr.Symbol == symbol {
				out = append(out, tr.To)
			}
		}
	}
	return out
}

func keysSorted(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
