package lexc

import (
	"sort"

	"github.com/dekarrin/tamelang/internal/automaton"
	"github.com/dekarrin/tamelang/internal/rewrite"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/dekarrin/tamelang/internal/util"
)

// PrepareWeakSubstitution implements spec §4.7 step 4: for every weak
// terminal, find the strong terminal it stands in for in each accepting
// DFA state, and produce the rewrite.WeakMap the action-table rewriter
// consumes. A weak terminal and its strong equivalent end up accepted in
// the same DFA state whenever the weak terminal's pattern (a keyword
// literal, say `if`) is also valid input for the strong one (an `ident`
// regex) — determinization's subset construction naturally folds both
// NDFA accepts into one DFA state's accept set (automaton.setAccepts
// unions them), so no separate analysis of the source patterns is
// needed; this pass only has to read off what determinization already
// computed.
//
// Where the same weak terminal resolves to two different strong
// terminals in different states (only possible through inheritance,
// where a child language redeclares a keyword's strong equivalent), the
// weak terminal is split via terms.Dict.Split so each context keeps its
// own accept action, matching spec §3's "splitting" operation.
func PrepareWeakSubstitution(d *automaton.DFA, weak util.KeySet[terms.ID], dict *terms.Dict) (*automaton.DFA, rewrite.WeakMap) {
	wm := rewrite.WeakMap{}
	strongestInState := map[int]map[terms.ID]terms.ID{} // state -> weak id -> chosen strong id

	for s := 0; s < d.NumStates(); s++ {
		accepts := d.Accepts(s)
		if len(accepts) < 2 {
			continue
		}
		var weakHere []terms.ID
		var others []terms.ID
		for _, a := range accepts {
			if weak.Has(a.Terminal) {
				weakHere = append(weakHere, a.Terminal)
			} else {
				others = append(others, a.Terminal)
			}
		}
		if len(weakHere) == 0 || len(others) == 0 {
			continue
		}
		sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })
		strongest := others[0]
		for _, w := range weakHere {
			if strongestInState[s] == nil {
				strongestInState[s] = map[terms.ID]terms.ID{}
			}
			strongestInState[s][w] = strongest
		}
	}

	// collect, per weak id, the distinct strong ids it resolved to across
	// every accepting state.
	byWeak := map[terms.ID]map[terms.ID]bool{}
	for _, row := range strongestInState {
		for w, strong := range row {
			if byWeak[w] == nil {
				byWeak[w] = map[terms.ID]bool{}
			}
			byWeak[w][strong] = true
		}
	}

	// no divergence: every weak id maps to exactly one strong id, no
	// splitting needed.
	needsSplit := map[terms.ID]bool{}
	for w, strongs := range byWeak {
		if len(strongs) > 1 {
			needsSplit[w] = true
		} else {
			for strong := range strongs {
				wm[w] = strong
			}
		}
	}
	if len(needsSplit) == 0 {
		return d, wm
	}

	out := d.Copy()
	splitIDFor := map[[2]terms.ID]terms.ID{} // (original weak, strong) -> split id, so the same pairing reuses one split id across states
	for s, row := range strongestInState {
		for w, strong := range row {
			if !needsSplit[w] {
				continue
			}
			key := [2]terms.ID{w, strong}
			split, ok := splitIDFor[key]
			if !ok {
				split = dict.Split(w)
				splitIDFor[key] = split
				wm[split] = strong
			}
			out.RetagAccept(s, w, split)
		}
	}
	return out, wm
}
