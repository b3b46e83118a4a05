package lalr

import (
	"sort"

	"github.com/dekarrin/tamelang/internal/grammar"
)

// Automaton is the LR(0) state machine over an augmented grammar: one state
// per distinct kernel, with goto transitions keyed by grammar symbol.
// Grounded on the teacher's getLR0Kernels
// (_examples/dekarrin-tunaq/internal/ictiobus/parse/lalr.go), generalized
// from its string-keyed DFA-of-sets construction to the int Kernel/LRItem
// types of this package.
type Automaton struct {
	G *grammar.Grammar

	// AugStart is the synthesized nonterminal S' of the rule S' -> S added
	// over the grammar's declared start symbol, and AugRule is that rule's
	// id. The augmented start item is what Accept actions key off of (spec
	// §4.8: "Accept on ⊣ for the start item").
	AugStart NontermID
	AugRule  grammar.RuleID

	States     []Kernel
	stateIndex map[string]int

	// Goto[state][symbolKey] = next state id.
	Goto []map[string]int
	// symbolOf records, for every symbol key ever seen in a transition, the
	// Item it denotes, so callers can recover Kind (terminal vs nonterminal
	// vs guard) without re-deriving it from the key string.
	symbolOf map[string]grammar.Item
}

// NontermID is re-exported here only to keep kernel.go self-contained to
// read; it is simply grammar.NontermID.
type NontermID = grammar.NontermID

// Build constructs the LR(0) automaton for g: augments it with a fresh start
// rule, then computes every reachable kernel and its goto transitions by
// standard closure/goto fixed-point BFS (purple dragon book Algorithm 4.53,
// same shape the teacher's getLR0Kernels computes, just actually iterated
// to completion and returned instead of converted from an intermediate
// string-keyed DFA).
func Build(g *grammar.Grammar) *Automaton {
	augStart := g.Nonterminal("#start")
	augRule := g.AddRule(augStart, grammar.Production{grammar.NT(g.Start())})

	a := &Automaton{
		G:          g,
		AugStart:   augStart,
		AugRule:    augRule,
		stateIndex: make(map[string]int),
		symbolOf:   make(map[string]grammar.Item),
	}

	start := sortKernel(Kernel{{Rule: augRule, Dot: 0}})
	a.addState(start)

	for i := 0; i < len(a.States); i++ {
		closed := a.Closure(a.States[i])
		for _, sym := range a.symbolsOf(closed) {
			next := a.gotoKernel(closed, sym)
			if len(next) == 0 {
				continue
			}
			a.symbolOf[sym.Key()] = sym
			nid := a.addState(next)
			if a.Goto[i] == nil {
				a.Goto[i] = make(map[string]int)
			}
			a.Goto[i][sym.Key()] = nid
		}
	}
	return a
}

func (a *Automaton) addState(k Kernel) int {
	key := k.Key()
	if id, ok := a.stateIndex[key]; ok {
		return id
	}
	id := len(a.States)
	a.States = append(a.States, k)
	a.stateIndex[key] = id
	a.Goto = append(a.Goto, nil)
	return id
}

// Closure computes the LR(0) closure of a kernel: for every item whose next
// symbol is a nonterminal, add a dot-0 item for each of that nonterminal's
// rules, to a fixed point. A Guard item's next symbol is left alone here —
// a guard is a leaf symbol like a terminal for goto purposes; its own rule
// is expanded only for FIRST-set lookup when building the action table
// (spec §4.5: "the guard's FIRST set, not its closure, gates the parse").
func (a *Automaton) Closure(k Kernel) []LRItem {
	seen := make(map[string]bool)
	var out []LRItem
	var queue []LRItem
	for _, it := range k {
		if !seen[it.Key()] {
			seen[it.Key()] = true
			out = append(out, it)
			queue = append(queue, it)
		}
	}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		sym, ok := NextSymbol(a.G, it)
		if !ok || sym.Kind != grammar.KindNonterminal {
			continue
		}
		for _, rid := range a.G.RulesFor(sym.Nonterminal) {
			cand := LRItem{Rule: rid, Dot: 0}
			if !seen[cand.Key()] {
				seen[cand.Key()] = true
				out = append(out, cand)
				queue = append(queue, cand)
			}
		}
	}
	return out
}

// symbolsOf collects the distinct next symbols of a closed item set, sorted
// by key for deterministic state numbering.
func (a *Automaton) symbolsOf(closed []LRItem) []grammar.Item {
	seen := make(map[string]bool)
	var out []grammar.Item
	for _, it := range closed {
		sym, ok := NextSymbol(a.G, it)
		if !ok {
			continue
		}
		if !seen[sym.Key()] {
			seen[sym.Key()] = true
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// gotoKernel advances every item of closed whose next symbol equals sym by
// one dot position, producing the kernel of the successor state.
func (a *Automaton) gotoKernel(closed []LRItem, sym grammar.Item) Kernel {
	var out Kernel
	for _, it := range closed {
		next, ok := NextSymbol(a.G, it)
		if !ok || next.Key() != sym.Key() {
			continue
		}
		out = append(out, Advance(it))
	}
	return sortKernel(out)
}

func sortKernel(k Kernel) Kernel {
	seen := make(map[string]bool)
	var out Kernel
	for _, it := range k {
		if !seen[it.Key()] {
			seen[it.Key()] = true
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rule != out[j].Rule {
			return out[i].Rule < out[j].Rule
		}
		return out[i].Dot < out[j].Dot
	})
	return out
}

// SymbolAt recovers the Item a transition key denotes.
func (a *Automaton) SymbolAt(key string) grammar.Item {
	return a.symbolOf[key]
}
