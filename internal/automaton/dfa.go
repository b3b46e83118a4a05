package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/tamelang/internal/terms"
)

// DFA is a deterministic automaton: at most one transition per
// (state, symbol-set id). Built by ToDFA from an NDFA and consumed by
// minimization and the lexer compiler.
type DFA struct {
	numStates   int
	start       int
	transitions map[int]map[int]int // from -> symbol -> to
	accepts     map[int][]Accept
}

func newDFA() *DFA {
	return &DFA{
		transitions: make(map[int]map[int]int),
		accepts:     make(map[int][]Accept),
	}
}

// NumStates returns the number of states in the DFA.
func (d *DFA) NumStates() int {
	return d.numStates
}

// Start returns the DFA's single start state.
func (d *DFA) Start() int {
	return d.start
}

// Next returns the state reached from s on symbol, and whether a
// transition exists at all.
func (d *DFA) Next(s, symbol int) (int, bool) {
	row, ok := d.transitions[s]
	if !ok {
		return 0, false
	}
	to, ok := row[symbol]
	return to, ok
}

// Accepts returns the accept actions for state s.
func (d *DFA) Accepts(s int) []Accept {
	return d.accepts[s]
}

// IsAccepting returns whether state s has any accept action.
func (d *DFA) IsAccepting(s int) bool {
	return len(d.accepts[s]) > 0
}

func (d *DFA) addState() int {
	id := d.numStates
	d.numStates++
	return id
}

func (d *DFA) setTransition(from, symbol, to int) {
	row, ok := d.transitions[from]
	if !ok {
		row = make(map[int]int)
		d.transitions[from] = row
	}
	row[symbol] = to
}

// stateKey is a canonical string key for a set of NDFA states, used to
// dedup DFA states during subset construction.
func stateKey(states map[int]bool) string {
	ks := keysSorted(states)
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = fmt.Sprintf("%d", k)
	}
	return strings.Join(parts, ",")
}

// ToDFA determinizes n via subset construction, starting from the
// epsilon-closure of starts (a single start per spec §3's default, or
// several if the language defines start conditions). Per spec §3's
// eagerness rule: if any NDFA state in a DFA state's constituent set is
// eager-accepting, the DFA state gets no outgoing transitions at all,
// short-circuiting greedy matching past an eager accept.
func (n *NDFA) ToDFA(starts []int) *DFA {
	d := newDFA()

	startClosure := n.EpsilonClosure(starts)
	startKey := stateKey(startClosure)

	keyToState := map[string]int{}
	d.start = d.addState()
	keyToState[startKey] = d.start
	setAccepts(n, d, d.start, startClosure)

	pending := []map[int]bool{startClosure}
	pendingKeys := []string{startKey}

	for len(pending) > 0 {
		cur := pending[0]
		curKey := pendingKeys[0]
		pending = pending[1:]
		pendingKeys = pendingKeys[1:]
		curState := keyToState[curKey]

		if isEagerAccepting(n, cur) {
			continue // eager accept: no outgoing transitions from this DFA state
		}

		for _, sym := range n.symbolsOutOf(cur) {
			target := n.EpsilonClosure(n.move(cur, sym))
			if len(target) == 0 {
				continue
			}
			tKey := stateKey(target)
			tState, seen := keyToState[tKey]
			if !seen {
				tState = d.addState()
				keyToState[tKey] = tState
				setAccepts(n, d, tState, target)
				pending = append(pending, target)
				pendingKeys = append(pendingKeys, tKey)
			}
			d.setTransition(curState, sym, tState)
		}
	}

	return d
}

func isEagerAccepting(n *NDFA, states map[int]bool) bool {
	for s := range states {
		for _, a := range n.Accepts(s) {
			if a.Eager {
				return true
			}
		}
	}
	return false
}

// setAccepts unions the accept actions of every NDFA state in `states`
// into DFA state dfaState, per spec §3: "Accept actions of a DFA state are
// the union of those of its constituents."
func setAccepts(n *NDFA, d *DFA, dfaState int, states map[int]bool) {
	seen := make(map[terms.ID]bool)
	var out []Accept
	for _, s := range keysSorted(states) {
		for _, a := range n.Accepts(s) {
			if seen[a.Terminal] {
				continue
			}
			seen[a.Terminal] = true
			out = append(out, a)
		}
	}
	if len(out) > 0 {
		d.accepts[dfaState] = out
	}
}

// AllSymbols returns every symbol id appearing on any transition in the
// DFA, sorted.
func (d *DFA) AllSymbols() []int {
	seen := map[int]bool{}
	for _, row := range d.transitions {
		for sym := range row {
			seen[sym] = true
		}
	}
	out := make([]int, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// Copy returns an independent deep copy of d, for passes (like weak-terminal
// substitution prep) that need to rewrite accept actions without disturbing
// the caller's DFA.
func (d *DFA) Copy() *DFA {
	out := newDFA()
	out.numStates = d.numStates
	out.start = d.start
	for s, row := range d.transitions {
		cp := make(map[int]int, len(row))
		for sym, to := range row {
			cp[sym] = to
		}
		out.transitions[s] = cp
	}
	for s, accepts := range d.accepts {
		cp := make([]Accept, len(accepts))
		copy(cp, accepts)
		out.accepts[s] = cp
	}
	return out
}

// RetagAccept replaces state s's accept action for terminal `from` with one
// for terminal `to` (same eagerness), used by the lexer compiler's
// weak-terminal split to give a divergent weak terminal its own per-context
// id without touching any other accept already recorded for s.
func (d *DFA) RetagAccept(s int, from, to terms.ID) {
	accepts := d.accepts[s]
	for i, a := range accepts {
		if a.Terminal == from {
			accepts[i].Terminal = to
		}
	}
}
