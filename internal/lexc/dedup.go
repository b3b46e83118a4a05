package lexc

import (
	"sort"

	"github.com/dekarrin/tamelang/internal/automaton"
	"github.com/dekarrin/tamelang/internal/symset"
)

// atomize rebuilds n over a globally disjoint symbol alphabet: spec §4.7
// step 1, "the assembled NDFA's symbol map is deduplicated so no two
// interned sets describe overlapping code points." The regex compiler
// interns one set per literal/class/macro as it is encountered, so a
// lexer with both `[a-z]` and a literal `i` ends up with two interned
// sets that share the code point 'i' — determinization can't tell which
// one an incoming 'i' belongs to without this pass first splitting every
// interned set into the finest partition that still distinguishes them.
func atomize(n *automaton.NDFA) *automaton.NDFA {
	old := n.Symbols.All()

	boundaries := map[int]bool{}
	for _, s := range old {
		for _, r := range s.Ranges() {
			boundaries[r.Lo] = true
			boundaries[r.Hi] = true
		}
	}
	if len(boundaries) == 0 {
		return n
	}
	sorted := make([]int, 0, len(boundaries))
	for b := range boundaries {
		sorted = append(sorted, b)
	}
	sort.Ints(sorted)

	out := automaton.NewNDFA(symset.NewMap())

	// atomID[i] is the new symbol id for the atomic range
	// [sorted[i], sorted[i+1]).
	atomID := make([]int, len(sorted)-1)
	for i := 0; i < len(sorted)-1; i++ {
		atomID[i] = out.Symbols.Intern(symset.SetOf(symset.NewRange(sorted[i], sorted[i+1])))
	}

	// oldToAtoms[oldSymbolID] is every atomic id that old symbol's set
	// covers, used to fan a single old transition out into one transition
	// per atomic piece it's made of.
	oldToAtoms := make([][]int, len(old))
	for oldID, s := range old {
		var atoms []int
		for i := 0; i < len(sorted)-1; i++ {
			if s.Contains(sorted[i]) {
				atoms = append(atoms, atomID[i])
			}
		}
		oldToAtoms[oldID] = atoms
	}

	for i := 1; i < n.NumStates(); i++ {
		out.AddState()
	}

	for s := 0; s < n.NumStates(); s++ {
		for _, tr := range n.TransitionsFrom(s) {
			if tr.Symbol == n.EpsilonID {
				out.AddEpsilon(tr.From, tr.To)
				continue
			}
			for _, atom := range oldToAtoms[tr.Symbol] {
				out.AddTransition(tr.From, atom, tr.To)
			}
		}
		for _, a := range n.Accepts(s) {
			out.AddAccept(s, a.Terminal, a.Eager)
		}
	}

	return out
}
