package lalr

import (
	"fmt"

	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/dekarrin/tamelang/internal/util"
)

// ActionKind discriminates one cell of the ACTION table, per spec §4.8:
// "Shift(next_state), Reduce(rule_id), Accept, Guard(end_of_guard_for_G)."
type ActionKind int

const (
	ActionShift ActionKind = iota
	ActionReduce
	ActionAccept
	ActionGuard
)

func (k ActionKind) String() string {
	switch k {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	case ActionGuard:
		return "guard"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is one ACTION-table cell.
type Action struct {
	Kind  ActionKind
	State int            // Shift/Guard: the state to move to
	Rule  grammar.RuleID // Reduce: the rule to reduce by; Guard: the guarded rule
}

// Conflict records two actions that both want the same (state, lookahead)
// cell. BuildTable appends every conflict to Table.Conflicts with both
// competing actions and keeps one of them in the cell (see setAction).
// Nothing in this package reports a conflict as a diagnostic, and
// internal/rewrite works on the action cells without consulting this list.
type Conflict struct {
	State     int
	Lookahead terms.ID
	First     Action
	Second    Action
}

func (c Conflict) IsShiftReduce() bool {
	return (c.First.Kind == ActionShift && c.Second.Kind == ActionReduce) ||
		(c.First.Kind == ActionReduce && c.Second.Kind == ActionShift)
}

// Table is the complete LALR(1) parse table: per-state ACTION map keyed by
// terminal, per-state GOTO map keyed by nonterminal, and any guard actions
// encountered, plus whatever conflicts arose during construction.
type Table struct {
	A *Automaton

	Action    []map[terms.ID]Action
	Goto      []map[grammar.NontermID]int
	Guards    []map[grammar.RuleID]Action
	Conflicts []Conflict
}

// Build constructs the ACTION/GOTO/Guard tables from the automaton's
// kernels and their LALR(1) lookaheads, per spec §4.8. Grounded on the
// teacher's constructLALR1ParseTable
// (_examples/dekarrin-tunaq/internal/ictiobus/parse/lalr.go), which builds
// the same ACTION/GOTO shape from its own (manually supplied) LR1 items;
// here the items and lookaheads instead come from Automaton/ComputeLookaheads
// above, and Guard actions are new — the teacher's grammar has no guard
// concept to build a table entry for.
func BuildTable(a *Automaton, fs *grammar.FirstSets, la *Lookaheads, endOfInput terms.ID) *Table {
	t := &Table{
		A:      a,
		Action: make([]map[terms.ID]Action, len(a.States)),
		Goto:   make([]map[grammar.NontermID]int, len(a.States)),
		Guards: make([]map[grammar.RuleID]Action, len(a.States)),
	}
	for i := range a.States {
		t.Action[i] = make(map[terms.ID]Action)
		t.Goto[i] = make(map[grammar.NontermID]int)
		t.Guards[i] = make(map[grammar.RuleID]Action)
	}

	for i := range a.States {
		closed := a.Closure(a.States[i])
		for _, it := range closed {
			sym, ok := NextSymbol(a.G, it)
			if ok {
				switch sym.Kind {
				case grammar.KindTerminal:
					target := a.Goto[i][sym.Key()]
					t.setAction(i, sym.Terminal, Action{Kind: ActionShift, State: target})
				case grammar.KindGuard:
					target := a.Goto[i][sym.Key()]
					t.Guards[i][sym.GuardRule] = Action{Kind: ActionGuard, State: target, Rule: sym.GuardRule}
				case grammar.KindNonterminal:
					t.Goto[i][sym.Nonterminal] = a.Goto[i][sym.Key()]
				}
				continue
			}

			// Reduce item: dot at end of its rule.
			for _, l := range la.Of(i, it).Elements() {
				if it.Rule == a.AugRule && l == endOfInput {
					t.setAction(i, l, Action{Kind: ActionAccept})
					continue
				}
				t.setAction(i, l, Action{Kind: ActionReduce, Rule: it.Rule})
			}
		}
	}
	return t
}

func (t *Table) setAction(state int, la terms.ID, act Action) {
	if existing, ok := t.Action[state][la]; ok && !sameAction(existing, act) {
		t.Conflicts = append(t.Conflicts, Conflict{State: state, Lookahead: la, First: existing, Second: act})
		// Dragon-book convention: a shift already in the cell wins over a
		// reduce; in every other conflict the later action replaces the
		// earlier one.
		if existing.Kind == ActionShift && act.Kind == ActionReduce {
			return
		}
	}
	t.Action[state][la] = act
}

func sameAction(a, b Action) bool {
	return a.Kind == b.Kind && a.State == b.State && a.Rule == b.Rule
}

// ShiftReduceConflicts returns only the conflicts eligible for weak-terminal
// rewriting (spec §4.9).
func (t *Table) ShiftReduceConflicts() []Conflict {
	var out []Conflict
	for _, c := range t.Conflicts {
		if c.IsShiftReduce() {
			out = append(out, c)
		}
	}
	return out
}

// ReduceRules returns, for every state, the set of rule ids it can reduce
// by — used by internal/lrtables when packing the reduce-rule table.
func (t *Table) ReduceRules(state int) util.KeySet[grammar.RuleID] {
	out := util.NewKeySet[grammar.RuleID]()
	for _, act := range t.Action[state] {
		if act.Kind == ActionReduce {
			out.Add(act.Rule)
		}
	}
	return out
}
