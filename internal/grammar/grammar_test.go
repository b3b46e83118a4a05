package grammar

import (
	"testing"

	"github.com/dekarrin/tamelang/internal/diag"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/stretchr/testify/assert"
)

// buildArithmetic builds spec §8 Scenario A's grammar:
//   E = E "+" T | T ;
//   T = "num" ;
func buildArithmetic(t *testing.T) (*Grammar, NontermID, NontermID, terms.ID, terms.ID) {
	t.Helper()
	dict := terms.NewDict()
	plus := dict.Intern("+")
	num := dict.Intern("num")

	g := NewGrammar(dict)
	e := g.Nonterminal("E")
	tm := g.Nonterminal("T")
	g.SetStart(e)

	g.AddRule(e, Production{NT(e), T(plus), NT(tm)})
	g.AddRule(e, Production{NT(tm)})
	g.AddRule(tm, Production{T(num)})

	return g, e, tm, plus, num
}

func Test_Grammar_RulesFor(t *testing.T) {
	g, e, tm, _, _ := buildArithmetic(t)
	assert.Len(t, g.RulesFor(e), 2)
	assert.Len(t, g.RulesFor(tm), 1)
}

func Test_ComputeFirst_scenarioA(t *testing.T) {
	g, e, tm, _, num := buildArithmetic(t)
	fs := ComputeFirst(g)

	assert.True(t, fs.Of(e).Has(num))
	assert.True(t, fs.Of(tm).Has(num))
	assert.False(t, fs.DerivesEpsilon(e))
}

func Test_Desugar_optionalProducesEpsilonAndInnerRules(t *testing.T) {
	dict := terms.NewDict()
	x := dict.Intern("x")
	g := NewGrammar(dict)

	opt := g.Desugar(Optional(T(x)))
	assert.Equal(t, KindNonterminal, opt.Kind)

	rules := g.RulesFor(opt.Nonterminal)
	assert.Len(t, rules, 2)
	assert.Empty(t, g.Rule(rules[0]).Production) // ε
	assert.Equal(t, Production{T(x)}, g.Rule(rules[1]).Production)
}

func Test_Desugar_repeatZero(t *testing.T) {
	dict := terms.NewDict()
	y := dict.Intern("y")
	g := NewGrammar(dict)

	star := g.Desugar(RepeatZero(T(y)))
	rules := g.RulesFor(star.Nonterminal)
	assert.Len(t, rules, 2)
	assert.Empty(t, g.Rule(rules[0]).Production)
	assert.Equal(t, Production{star, T(y)}, g.Rule(rules[1]).Production)
}

func Test_Desugar_sharesStateForIdenticalStructure(t *testing.T) {
	dict := terms.NewDict()
	x := dict.Intern("x")
	g := NewGrammar(dict)

	a := g.Desugar(Optional(T(x)))
	b := g.Desugar(Optional(T(x)))

	assert.Equal(t, a.Nonterminal, b.Nonterminal, "structurally identical EBNF items must share one synthesized nonterminal")
}

func Test_Group_synthesizesSingleRule(t *testing.T) {
	dict := terms.NewDict()
	x := dict.Intern("x")
	y := dict.Intern("y")
	g := NewGrammar(dict)

	grp := g.Group(Production{T(x), T(y)})
	rules := g.RulesFor(grp.Nonterminal)
	assert.Len(t, rules, 1)
	assert.Equal(t, Production{T(x), T(y)}, g.Rule(rules[0]).Production)
}

func Test_ValidateGuards_emptyGuardWarns(t *testing.T) {
	dict := terms.NewDict()
	g := NewGrammar(dict)
	g.NewGuard(Production{})
	fs := ComputeFirst(g)

	bag := diag.NewBag()
	g.ValidateGuards(fs, false, bag, "spec.tam")

	all := bag.All()
	assert.Len(t, all, 1)
	assert.Equal(t, diag.EmptyGuard, all[0].ID)
	assert.Equal(t, diag.Warning, all[0].Severity)
}

func Test_ValidateGuards_emptyGuardSuppressedByConfig(t *testing.T) {
	dict := terms.NewDict()
	g := NewGrammar(dict)
	g.NewGuard(Production{})
	fs := ComputeFirst(g)

	bag := diag.NewBag()
	g.ValidateGuards(fs, true, bag, "spec.tam")

	assert.Equal(t, 0, bag.Len())
}

func Test_ValidateGuards_nonEmptyGuardDerivingEpsilonErrors(t *testing.T) {
	dict := terms.NewDict()
	g := NewGrammar(dict)
	x := dict.Intern("x")
	// a guard over "x?" can derive epsilon, so it is ineffective.
	g.NewGuard(Production{Optional(T(x))})
	fs := ComputeFirst(g)

	bag := diag.NewBag()
	g.ValidateGuards(fs, false, bag, "spec.tam")

	all := bag.All()
	assert.Len(t, all, 1)
	assert.Equal(t, diag.IneffectiveGuard, all[0].ID)
	assert.Equal(t, diag.Error, all[0].Severity)
}

func Test_ValidateGuards_effectiveGuardIsClean(t *testing.T) {
	dict := terms.NewDict()
	g := NewGrammar(dict)
	x := dict.Intern("x")
	g.NewGuard(Production{T(x)})
	fs := ComputeFirst(g)

	bag := diag.NewBag()
	g.ValidateGuards(fs, false, bag, "spec.tam")

	assert.Equal(t, 0, bag.Len())
}
