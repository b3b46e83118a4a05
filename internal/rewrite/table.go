// Package rewrite implements spec §4.9's conflict-resolution rewriters:
// weak-terminal substitution (rewriting the actions on a strong terminal's
// weak equivalents into WeakReduce/ShiftStrong actions the runtime driver
// can resolve speculatively) and, together with
// internal/lalr's own Guard action, the guard-lookahead machinery spec §4.5
// describes.
//
// Grounded on the weak-terminal handling spec text describes (§4.7 step 4,
// §4.9); ictiobus has no weak-terminal concept at all (its parse table is
// plain Shift/Reduce/Goto/Accept,
// _examples/dekarrin-tunaq/internal/ictiobus/parse/lr.go's lrParseTable),
// so this package's RAction enum extends lalr.Action's shape with the two
// new action kinds spec §3 adds on top of the teacher's: ShiftStrong and
// WeakReduce.
package rewrite

import (
	"fmt"

	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/lalr"
	"github.com/dekarrin/tamelang/internal/terms"
)

// RActionKind is the full action tag of spec §3: "Shift(next_state),
// ShiftStrong(next_state), Reduce(rule_id), WeakReduce(rule_id),
// Goto(next_state), Accept, Guard(guard_symbol_id), Ignore."
type RActionKind int

const (
	RShift RActionKind = iota
	RShiftStrong
	RReduce
	RWeakReduce
	RAccept
	RGuard
	RIgnore
)

func (k RActionKind) String() string {
	switch k {
	case RShift:
		return "shift"
	case RShiftStrong:
		return "shift-strong"
	case RReduce:
		return "reduce"
	case RWeakReduce:
		return "weak-reduce"
	case RAccept:
		return "accept"
	case RGuard:
		return "guard"
	case RIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("RActionKind(%d)", int(k))
	}
}

// RAction is one rewritten ACTION-table cell.
type RAction struct {
	Kind RActionKind

	State int            // Shift/ShiftStrong/Guard: state to move to
	Rule  grammar.RuleID // Reduce/WeakReduce/Guard: the rule involved

	// Strong is the terminal id a ShiftStrong action substitutes in at
	// runtime in place of the weak terminal actually matched (spec §4.9
	// step 2: "Shift becomes ShiftStrong (shift but substitute the strong
	// terminal ID at runtime)").
	Strong terms.ID
}

// Table is the rewritten parse table: same per-state shape as lalr.Table,
// but with weak-terminal substitution already applied to the ACTION rows.
// Goto and Guards are carried through unchanged from the LALR(1) table,
// since substitution only ever touches terminal actions (spec §4.9 never
// mentions rewriting Goto or Guard cells).
type Table struct {
	Action []map[terms.ID]RAction
	Goto   []map[grammar.NontermID]int
	Guards []map[grammar.RuleID]lalr.Action
}
