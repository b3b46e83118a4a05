package langc

import (
	"testing"

	"github.com/dekarrin/tamelang/internal/diag"
	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/specsyntax"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAndCompile(t *testing.T, src string) (*specsyntax.File, *diag.Bag, map[string]*CompiledLanguage) {
	t.Helper()
	bag := diag.NewBag()
	p := specsyntax.NewParser(src, "test.tmg", bag)
	f := p.Parse()
	require.Zero(t, bag.Len(), "unexpected parse diagnostics: %v", bag.All())

	dict := terms.NewDict()
	c := NewCompiler(f, dict, diag.NewConfig(), bag, "test.tmg")
	langs := c.CompileAll(f)
	return f, bag, langs
}

func Test_Compile_scenarioA_arithmeticLanguage(t *testing.T) {
	src := `
language Arith:
	keywords {
		plus := "+" ;
	}
	lexer {
		num := /[0-9]+/ ;
	}
	ignore {
		ws := /[ \t]+/ ;
	}
	grammar {
		E = E plus T | T ;
		T = num ;
	}
;`
	_, bag, langs := parseAndCompile(t, src)
	require.Zero(t, bag.Len(), "unexpected compile diagnostics: %v", bag.All())

	cl, ok := langs["Arith"]
	require.True(t, ok)

	plusID, ok := cl.Dict.Lookup("plus")
	require.True(t, ok)
	numID, ok := cl.Dict.Lookup("num")
	require.True(t, ok)
	wsID, ok := cl.Dict.Lookup("ws")
	require.True(t, ok)
	assert.True(t, cl.Ignore.Has(wsID))
	assert.False(t, cl.Ignore.Has(plusID))

	eNT, ok := cl.Grammar.LookupNonterminal("E")
	require.True(t, ok)
	tNT, ok := cl.Grammar.LookupNonterminal("T")
	require.True(t, ok)
	assert.Equal(t, eNT, cl.Start)

	eRules := cl.Grammar.RulesFor(eNT)
	require.Len(t, eRules, 2)
	first := cl.Grammar.Rule(eRules[0])
	require.Len(t, first.Production, 3)
	assert.Equal(t, grammar.NT(eNT), first.Production[0])
	assert.Equal(t, grammar.T(plusID), first.Production[1])
	assert.Equal(t, grammar.NT(tNT), first.Production[2])

	tRules := cl.Grammar.RulesFor(tNT)
	require.Len(t, tRules, 1)
	assert.Equal(t, grammar.Production{grammar.T(numID)}, cl.Grammar.Rule(tRules[0]).Production)
}

func Test_Compile_implicitLiteralBecomesWeakTerminal(t *testing.T) {
	src := `
language Calc:
	lexer {
		num := /[0-9]+/ ;
	}
	grammar {
		E = E "+" num | num ;
	}
;`
	_, bag, langs := parseAndCompile(t, src)
	require.Len(t, bag.All(), 1, "expected exactly one implicit-lexer-symbol warning: %v", bag.All())
	assert.Equal(t, diag.ImplicitLexerSymbol, bag.All()[0].ID)

	cl := langs["Calc"]
	plusID, ok := cl.Dict.Lookup("+")
	require.True(t, ok)
	assert.True(t, cl.Weak.Has(plusID))
}

func Test_Compile_undefinedNonterminalReported(t *testing.T) {
	src := `
language Bad:
	grammar {
		S = Missing ;
	}
;`
	_, bag, _ := parseAndCompile(t, src)
	require.NotZero(t, bag.Len())
	assert.Equal(t, diag.UndefinedNonterminal, bag.All()[0].ID)
}

func Test_Compile_inheritanceSharesParentRulesAndTerminals(t *testing.T) {
	src := `
language Base:
	keywords {
		kw_if := "if" ;
	}
	grammar {
		S = kw_if ;
	}
;
language Derived, Base:
	grammar {
		S += kw_if S ;
	}
;`
	_, bag, langs := parseAndCompile(t, src)
	require.Zero(t, bag.Len(), "unexpected diagnostics: %v", bag.All())

	base := langs["Base"]
	derived := langs["Derived"]
	require.NotNil(t, base)
	require.NotNil(t, derived)

	sNT, ok := derived.Grammar.LookupNonterminal("S")
	require.True(t, ok)
	rules := derived.Grammar.RulesFor(sNT)
	assert.Len(t, rules, 2, "derived language should see both its own and its parent's rule for S")

	_, ok = derived.Dict.Lookup("kw_if")
	assert.True(t, ok, "derived language should see its parent's terminal")
}

func Test_Compile_inheritanceCycleReported(t *testing.T) {
	src := `
language A, B:
	grammar { S = ; }
;
language B, A:
	grammar { S = ; }
;`
	_, bag, _ := parseAndCompile(t, src)
	require.NotZero(t, bag.Len())
	assert.Equal(t, diag.CantFindLanguage, bag.All()[0].ID)
}
