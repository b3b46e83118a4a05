package rewrite

import (
	"testing"

	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/lalr"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWeakKeywordTable constructs a tiny table by hand rather than
// running the full LALR builder: one state with a Shift on "ident" (the
// strong terminal) and a Reduce on some other terminal, with "if" declared
// as ident's weak equivalent — spec §8 Scenario B: "if" shifts as "ident"
// wherever only ident is expected.
func buildWeakKeywordTable(t *testing.T) (*lalr.Table, WeakMap, terms.ID, terms.ID, terms.ID) {
	t.Helper()
	dict := terms.NewDict()
	ident := dict.Intern("ident")
	ifKw := dict.Intern("if")
	semi := dict.Intern("semi")

	lt := &lalr.Table{
		Action: []map[terms.ID]lalr.Action{
			{
				ident: {Kind: lalr.ActionShift, State: 5},
				semi:  {Kind: lalr.ActionReduce, Rule: grammar.RuleID(2)},
			},
		},
		Goto:   []map[grammar.NontermID]int{{}},
		Guards: []map[grammar.RuleID]lalr.Action{{}},
	}
	wm := WeakMap{ifKw: ident}
	return lt, wm, ident, ifKw, semi
}

func Test_Rewrite_shiftBecomesShiftStrongForWeakTerminal(t *testing.T) {
	lt, wm, ident, ifKw, _ := buildWeakKeywordTable(t)
	rt := Rewrite(lt, wm)

	act, ok := rt.Action[0][ifKw]
	require.True(t, ok)
	assert.Equal(t, RShiftStrong, act.Kind)
	assert.Equal(t, 5, act.State)
	assert.Equal(t, ident, act.Strong)

	// the strong terminal's own action is untouched.
	strongAct := rt.Action[0][ident]
	assert.Equal(t, RShift, strongAct.Kind)
}

func Test_Rewrite_existingReduceOnWeakBecomesWeakReduce(t *testing.T) {
	dict := terms.NewDict()
	ident := dict.Intern("ident")
	ifKw := dict.Intern("if")

	lt := &lalr.Table{
		Action: []map[terms.ID]lalr.Action{
			{
				ident: {Kind: lalr.ActionShift, State: 3},
				ifKw:  {Kind: lalr.ActionReduce, Rule: grammar.RuleID(7)},
			},
		},
		Goto:   []map[grammar.NontermID]int{{}},
		Guards: []map[grammar.RuleID]lalr.Action{{}},
	}
	rt := Rewrite(lt, WeakMap{ifKw: ident})

	act := rt.Action[0][ifKw]
	assert.Equal(t, RWeakReduce, act.Kind)
	assert.Equal(t, grammar.RuleID(7), act.Rule)
}

func Test_Rewrite_isIdempotent(t *testing.T) {
	lt, wm, _, _, _ := buildWeakKeywordTable(t)
	once := Rewrite(lt, wm)
	twice := Reapply(once, wm)

	require.Equal(t, len(once.Action), len(twice.Action))
	for i := range once.Action {
		assert.Equal(t, once.Action[i], twice.Action[i])
	}
}
