package specsyntax

import (
	"testing"

	"github.com/dekarrin/tamelang/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_scenarioA_arithmeticLanguage(t *testing.T) {
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
	bag := diag.NewBag()
	p := NewParser(src, "test.tmg", bag)
	f := p.Parse()
	require.Zero(t, bag.Len(), "unexpected diagnostics: %v", bag.All())
	require.Len(t, f.Languages, 1)

	lang := f.Languages[0]
	assert.Equal(t, []string{"Arith"}, lang.Names)
	require.Len(t, lang.Defns, 4)

	kw, ok := lang.Defns[0].(*KeywordsBlock)
	require.True(t, ok)
	require.Len(t, kw.Items, 1)
	assert.Equal(t, "plus", kw.Items[0].Name)
	assert.Equal(t, PatternString, kw.Items[0].Pattern.Kind)

	gb, ok := lang.Defns[3].(*GrammarBlock)
	require.True(t, ok)
	require.Len(t, gb.Rules, 2)
	assert.Equal(t, "E", gb.Rules[0].Name)
	require.Len(t, gb.Rules[0].Productions, 2)
	require.Len(t, gb.Rules[0].Productions[0], 3)
	assert.Equal(t, EIdent, gb.Rules[0].Productions[0][0].Kind)
	assert.Equal(t, "E", gb.Rules[0].Productions[0][0].Name)
}

func Test_Parse_scenarioF_guardItem(t *testing.T) {
	src := `
language G:
	grammar {
		S = [=> ident] S | ;
	}
;`
	bag := diag.NewBag()
	p := NewParser(src, "test.tmg", bag)
	f := p.Parse()
	require.Zero(t, bag.Len(), "unexpected diagnostics: %v", bag.All())

	gb := f.Languages[0].Defns[0].(*GrammarBlock)
	prod := gb.Rules[0].Productions[0]
	require.Len(t, prod, 2)
	assert.Equal(t, EGuard, prod[0].Kind)
	assert.Equal(t, "ident", prod[0].Sub[0].Name)

	// the second production is empty (epsilon).
	assert.Empty(t, gb.Rules[0].Productions[1])
}

func Test_Parse_inheritanceDeclaration(t *testing.T) {
	src := `language Child, Parent: grammar { S = ; } ;`
	bag := diag.NewBag()
	p := NewParser(src, "test.tmg", bag)
	f := p.Parse()
	require.Zero(t, bag.Len())
	assert.Equal(t, "Parent", f.Languages[0].Parent)
}
