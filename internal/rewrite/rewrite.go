package rewrite

import (
	"sort"

	"github.com/dekarrin/tamelang/internal/lalr"
	"github.com/dekarrin/tamelang/internal/terms"
)

// WeakMap maps a weak terminal id to the strong terminal id it substitutes
// for, as produced by the lexer compiler's weak-terminal substitution prep
// (spec §4.7 step 4: "record that every weak terminal in that state is
// equivalent to the strongest...strong terminal in that state").
type WeakMap map[terms.ID]terms.ID

// strongToWeaks inverts wm, grouping every weak terminal under its strong
// terminal, sorted for deterministic rewrite order.
func strongToWeaks(wm WeakMap) map[terms.ID][]terms.ID {
	out := make(map[terms.ID][]terms.ID)
	for weak, strong := range wm {
		out[strong] = append(out[strong], weak)
	}
	for strong := range out {
		sort.Slice(out[strong], func(i, j int) bool { return out[strong][i] < out[strong][j] })
	}
	return out
}

// fromLALR copies t into the wider RAction shape with no substitution
// applied yet (Shift->Shift, Reduce->Reduce, Accept->Accept); Guard/Goto
// carry over verbatim, since the weak-terminal rewriter never touches them.
func fromLALR(t *lalr.Table) *Table {
	out := &Table{
		Action: make([]map[terms.ID]RAction, len(t.Action)),
		Goto:   t.Goto,
		Guards: t.Guards,
	}
	for i, row := range t.Action {
		out.Action[i] = make(map[terms.ID]RAction, len(row))
		for la, act := range row {
			out.Action[i][la] = fromLALRAction(act)
		}
	}
	return out
}

func fromLALRAction(act lalr.Action) RAction {
	switch act.Kind {
	case lalr.ActionShift:
		return RAction{Kind: RShift, State: act.State}
	case lalr.ActionReduce:
		return RAction{Kind: RReduce, Rule: act.Rule}
	case lalr.ActionAccept:
		return RAction{Kind: RAccept}
	default:
		return RAction{Kind: RIgnore}
	}
}

// Rewrite applies spec §4.9's weak-terminal substitution to t, returning a
// new, independent Table (t and its maps are never mutated). Grounded
// directly on the spec's own algorithm text, since ictiobus's parse table
// has no weak-terminal concept to adapt from:
//
//  1. For each state with an action on a strong terminal S that has
//     registered weak equivalents W₁…Wₙ: any existing Reduce action on some Wᵢ becomes
//     WeakReduce (idempotent — a Wᵢ action that is already WeakReduce, or
//     any other kind, is left untouched).
//  2. For each Wᵢ with no action yet in that state, copy S's action onto
//     it, substituting ShiftStrong(target, S) for a Shift.
//  3. A state referencing no strong terminal with weak equivalents is
//     copied through unchanged.
//
// Running the same pass again over the output (Reapply) changes nothing
// (every action this pass adds already satisfies the "don't touch"
// condition of both steps on a second pass), which is exactly spec §8
// property 8's idempotence requirement.
func Rewrite(t *lalr.Table, wm WeakMap) *Table {
	out := fromLALR(t)
	applyWeakSubstitution(out, wm)
	return out
}

// Reapply runs the same weak-terminal substitution pass again over an
// already-rewritten Table, returning a new, independent copy. Spec §8
// property 8 ("applying the weak rewriter twice yields the same table as
// applying it once") is exactly Reapply(Rewrite(t, wm), wm) == Rewrite(t,
// wm); see rewrite_test.go's idempotence case.
func Reapply(t *Table, wm WeakMap) *Table {
	out := &Table{
		Action: make([]map[terms.ID]RAction, len(t.Action)),
		Goto:   t.Goto,
		Guards: t.Guards,
	}
	for i, row := range t.Action {
		cp := make(map[terms.ID]RAction, len(row))
		for la, act := range row {
			cp[la] = act
		}
		out.Action[i] = cp
	}
	applyWeakSubstitution(out, wm)
	return out
}

// applyWeakSubstitution performs the actual per-state rewrite of spec §4.9
// in place over t.Action. It is written so a second call with the same wm
// changes nothing: step 1 only converts a plain Reduce (never touching an
// already-WeakReduce action), and step 2 only fills in a terminal with no
// action yet (never touching a ShiftStrong a prior pass already added).
func applyWeakSubstitution(t *Table, wm WeakMap) {
	groups := strongToWeaks(wm)
	for state, row := range t.Action {
		for strong, weaks := range groups {
			strongAct, hasStrong := row[strong]
			if !hasStrong {
				continue
			}

			for _, weak := range weaks {
				if existing, ok := row[weak]; ok {
					if existing.Kind == RReduce {
						row[weak] = RAction{Kind: RWeakReduce, Rule: existing.Rule}
					}
					continue
				}
				row[weak] = substituteFor(strong, strongAct)
			}
		}
		t.Action[state] = row
	}
}

func substituteFor(strong terms.ID, act RAction) RAction {
	if act.Kind == RShift {
		return RAction{Kind: RShiftStrong, State: act.State, Strong: strong}
	}
	return act
}
