// Package lrtables packs a rewritten LALR(1) table (internal/rewrite) into
// the per-state, terminal-sorted form spec §4.10 describes, and implements
// the runtime LR driver that walks it: a stack of (state, value) entries,
// a lazily-filled, mark-and-sweep lookahead buffer shared by every
// speculative sub-parser a Session spawns, and the Shift/ShiftStrong/
// Reduce/WeakReduce/Goto/Accept/Guard step semantics of spec §4.10.
//
// Grounded on the teacher's lrParser.Parse
// (_examples/dekarrin-tunaq/internal/ictiobus/parse/lr.go — "an
// implementation of Algorithm 4.44, 'LR-parsing algorithm', from the
// purple dragon book"), generalized from its string-state/string-symbol
// table to this module's int-keyed grammar, and extended with the
// weak-reduce can-reduce check, a FIRST-set guard check, and buffer GC that spec
// §4.10/§5 add on top of the teacher's plain shift/reduce/accept loop
// (ictiobus's own Parse never speculates or shares lookahead across parse
// states at all).
package lrtables

import (
	"fmt"

	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/lalr"
	"github.com/dekarrin/tamelang/internal/rewrite"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/dekarrin/tamelang/internal/util"
)

// ruleInfo is the reduce-rule table entry of spec §3: "(nonterminal_id,
// source_rule_id, rule_length)".
type ruleInfo struct {
	NonTerminal grammar.NontermID
	Length      int
}

// guardInfo pairs a guard's target state with the FIRST set that gates it:
// the guard only fires (epsilon-transitions to Target) when the current
// lookahead terminal is in First (spec §4.5: "the guard's FIRST set gates
// the parse").
type guardInfo struct {
	Target int
	First  util.KeySet[terms.ID]
}

// PackedTable is the final, self-contained table the runtime driver walks:
// no references back into internal/grammar/internal/lalr are needed once
// this is built, only terminal/nonterminal ids and rule metadata.
type PackedTable struct {
	Start      int
	EndOfInput terms.ID

	action []map[terms.ID]rewrite.RAction
	goTo   []map[grammar.NontermID]int
	guards []map[grammar.RuleID]guardInfo
	rules  []ruleInfo
}

// Pack builds a PackedTable from a rewritten parse table, the grammar it
// was derived from (for rule lengths/left-hand sides), and the FIRST sets
// computed alongside it (for guard gating).
func Pack(g *grammar.Grammar, rt *rewrite.Table, fs *grammar.FirstSets, start int, endOfInput terms.ID) *PackedTable {
	t := &PackedTable{
		Start:      start,
		EndOfInput: endOfInput,
		action:     rt.Action,
		goTo:       rt.Goto,
		guards:     make([]map[grammar.RuleID]guardInfo, len(rt.Guards)),
		rules:      make([]ruleInfo, g.NumRules()),
	}
	for rid := 0; rid < g.NumRules(); rid++ {
		r := g.Rule(grammar.RuleID(rid))
		t.rules[rid] = ruleInfo{NonTerminal: r.NonTerminal, Length: effectiveLen(r.Production)}
	}
	for i, row := range rt.Guards {
		t.guards[i] = make(map[grammar.RuleID]guardInfo, len(row))
		for rid, act := range row {
			first, _ := fs.OfSequence(g.Rule(rid).Production)
			t.guards[i][rid] = guardInfo{Target: act.State, First: first}
		}
	}
	return t
}

// effectiveLen mirrors internal/lalr's treatment of a stray Production{Empty()}
// as a zero-length production.
func effectiveLen(prod grammar.Production) int {
	if len(prod) == 1 && prod[0].Kind == grammar.KindEmpty {
		return 0
	}
	return len(prod)
}

func (t *PackedTable) Action(state int, term terms.ID) (rewrite.RAction, bool) {
	act, ok := t.action[state][term]
	return act, ok
}

func (t *PackedTable) Goto(state int, nt grammar.NontermID) (int, bool) {
	s, ok := t.goTo[state][nt]
	return s, ok
}

func (t *PackedTable) Guards(state int) map[grammar.RuleID]guardInfo {
	return t.guards[state]
}

func (t *PackedTable) Rule(id grammar.RuleID) (grammar.NontermID, int) {
	r := t.rules[id]
	return r.NonTerminal, r.Length
}

// PackFromResult is a convenience wrapper chaining internal/rewrite.Rewrite
// and Pack (from state 0) over an internal/lalr.BuildLALR1 result, for
// callers that have no reason to hold the intermediate stages themselves.
func PackFromResult(g *grammar.Grammar, res *lalr.Result, wm rewrite.WeakMap, endOfInput terms.ID) *PackedTable {
	rt := rewrite.Rewrite(res.Table, wm)
	return Pack(g, rt, res.First, 0, endOfInput)
}

func (t *PackedTable) String() string {
	return fmt.Sprintf("PackedTable{states=%d, rules=%d}", len(t.action), len(t.rules))
}
