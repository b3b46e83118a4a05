package automaton

import (
	"fmt"
	"sort"
	"strings"
)

// acceptSignature returns a canonical string identifying a state's set of
// accept actions, used to seed the initial partition: spec §4.3,
// "begin with one partition per accepting-action signature plus one for
// non-accepting states."
func acceptSignature(accepts []Accept) string {
	if len(accepts) == 0 {
		return ""
	}
	parts := make([]string, len(accepts))
	for i, a := range accepts {
		parts[i] = fmt.Sprintf("%d:%v", a.Terminal, a.Eager)
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// Minimize reduces d by Hopcroft-style partition refinement: states start
// grouped by accept signature (with the DFA's own start state split into
// its own block so the minimized automaton still has a well-defined single
// start), then any block whose members disagree on which block they
// transition to, for some symbol, is split. Repeats until stable.
func (d *DFA) Minimize() *DFA {
	blockOf := make([]int, d.numStates)
	sigToBlock := map[string]int{}
	nextBlock := 0
	for s := 0; s < d.numStates; s++ {
		sig := acceptSignature(d.Accepts(s))
		if s == d.start {
			// keep the start state in its own initial block so it never
			// gets merged away; still eligible to be split further.
			sig = "start:" + sig
		}
		b, ok := sigToBlock[sig]
		if !ok {
			b = nextBlock
			nextBlock++
			sigToBlock[sig] = b
		}
		blockOf[s] = b
	}

	symbols := d.AllSymbols()

	for {
		changed := false
		// signature for a state within the current partition: its own
		// block, plus the block reached on each symbol (or -1 if none).
		sigOf := func(s int) string {
			parts := make([]string, 0, len(symbols)+1)
			parts = append(parts, fmt.Sprintf("%d", blockOf[s]))
			for _, sym := range symbols {
				to, ok := d.Next(s, sym)
				if !ok {
					parts = append(parts, "-1")
					continue
				}
				parts = append(parts, fmt.Sprintf("%d", blockOf[to]))
			}
			return strings.Join(parts, ",")
		}

		newSigToBlock := map[string]int{}
		newBlockOf := make([]int, d.numStates)
		next := 0
		for s := 0; s < d.numStates; s++ {
			sig := sigOf(s)
			b, ok := newSigToBlock[sig]
			if !ok {
				b = next
				next++
				newSigToBlock[sig] = b
			}
			newBlockOf[s] = b
		}
		if next != nextBlock {
			changed = true
		} else {
			for s := range blockOf {
				if blockOf[s] != newBlockOf[s] {
					changed = true
					break
				}
			}
		}
		blockOf = newBlockOf
		nextBlock = next
		if !changed {
			break
		}
	}

	out := newDFA()
	out.numStates = nextBlock
	blockRepresentative := make([]int, nextBlock)
	seen := make([]bool, nextBlock)
	for s := 0; s < d.numStates; s++ {
		b := blockOf[s]
		if !seen[b] {
			seen[b] = true
			blockRepresentative[b] = s
		}
	}
	out.start = blockOf[d.start]
	for b, s := range blockRepresentative {
		if accepts := d.Accepts(s); len(accepts) > 0 {
			out.accepts[b] = accepts
		}
		for _, sym := range symbols {
			if to, ok := d.Next(s, sym); ok {
				out.setTransition(b, sym, blockOf[to])
			}
		}
	}
	return out
}

// MergeEquivalentSymbols merges any pair of symbol ids that induce
// identical transitions from every state of d, shrinking the
// symbol-translation table. Per spec §4.3's last bullet and
// _examples/original_source/TameParse/Dfa/ndfa_transformations.cpp's
// to_compact_dfa, which performs the same merge after minimization.
// Returns the rewritten DFA and a map from old symbol id to the
// surviving merged id.
func (d *DFA) MergeEquivalentSymbols() (*DFA, map[int]int) {
	symbols := d.AllSymbols()

	columnKey := func(sym int) string {
		parts := make([]string, d.numStates)
		for s := 0; s < d.numStates; s++ {
			if to, ok := d.Next(s, sym); ok {
				parts[s] = fmt.Sprintf("%d", to)
			} else {
				parts[s] = "-"
			}
		}
		return strings.Join(parts, ",")
	}

	keyToSym := map[string]int{}
	mapping := map[int]int{}
	for _, sym := range symbols {
		key := columnKey(sym)
		if survivor, ok := keyToSym[key]; ok {
			mapping[sym] = survivor
			continue
		}
		keyToSym[key] = sym
		mapping[sym] = sym
	}

	out := newDFA()
	out.numStates = d.numStates
	out.start = d.start
	for s := 0; s < d.numStates; s++ {
		if a := d.Accepts(s); len(a) > 0 {
			out.accepts[s] = a
		}
	}
	for s := 0; s < d.numStates; s++ {
		for _, sym := range symbols {
			to, ok := d.Next(s, sym)
			if !ok {
				continue
			}
			out.setTransition(s, mapping[sym], to)
		}
	}
	return out, mapping
}
