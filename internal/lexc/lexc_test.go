package lexc

import (
	"testing"

	"github.com/dekarrin/tamelang/internal/automaton"
	"github.com/dekarrin/tamelang/internal/diag"
	"github.com/dekarrin/tamelang/internal/regexc"
	"github.com/dekarrin/tamelang/internal/symset"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/dekarrin/tamelang/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildKeywordLexer is spec §8 Scenario B: a weak keyword "if" that is also
// valid input for the general-purpose ident pattern.
func buildKeywordLexer(t *testing.T) (*Result, *terms.Dict, terms.ID, terms.ID, terms.ID) {
	t.Helper()
	dict := terms.NewDict()
	ident := dict.Intern("ident")
	ifKw := dict.Intern("if")
	eoi := dict.Intern("eoi")

	ndfa := automaton.NewNDFA(symset.NewMap())
	comp := regexc.NewCompiler(ndfa, regexc.Options{})

	fragIf, err := comp.Compile("if")
	require.NoError(t, err)
	ndfa.AddAccept(fragIf.End, ifKw, false)
	ndfa.AddEpsilon(0, fragIf.Start)

	fragIdent, err := comp.Compile("[a-zA-Z]+")
	require.NoError(t, err)
	ndfa.AddAccept(fragIdent.End, ident, false)
	ndfa.AddEpsilon(0, fragIdent.Start)

	weak := util.NewKeySet[terms.ID]()
	weak.Add(ifKw)

	res := Compile(ndfa, weak, dict, []int{0})
	return res, dict, ident, ifKw, eoi
}

func Test_Compile_weakKeywordResolvesToIdentEquivalent(t *testing.T) {
	res, _, ident, ifKw, _ := buildKeywordLexer(t)
	strong, ok := res.WeakMap[ifKw]
	require.True(t, ok, "if should have resolved a strong equivalent")
	assert.Equal(t, ident, strong)
}

func Test_Lexer_scansPlainIdentAfterKeyword(t *testing.T) {
	res, _, ident, _, eoi := buildKeywordLexer(t)
	bag := diag.NewBag()
	lx := NewLexer(res, "xyz", nil, eoi, "test", bag)

	tok := lx.Next()
	assert.Equal(t, ident, tok.Terminal)
	assert.Equal(t, "xyz", tok.Text)
	assert.Zero(t, bag.Len())

	tok = lx.Next()
	assert.Equal(t, eoi, tok.Terminal)
}

func Test_Lexer_maximalMunchMatchesWholeKeyword(t *testing.T) {
	res, _, _, ifKw, eoi := buildKeywordLexer(t)
	bag := diag.NewBag()
	lx := NewLexer(res, "if", nil, eoi, "test", bag)

	tok := lx.Next()
	assert.Equal(t, "if", tok.Text, "longest match must consume both characters")
	assert.Contains(t, []terms.ID{ifKw}, tok.Terminal)
}

func Test_Lexer_reportsErrorOnUnmatchedInput(t *testing.T) {
	res, _, _, _, eoi := buildKeywordLexer(t)
	bag := diag.NewBag()
	lx := NewLexer(res, "1", nil, eoi, "test", bag)

	tok := lx.Next()
	assert.NotZero(t, bag.Len(), "unmatched input should report a diagnostic")
	// the bad character is skipped and scanning resumes; here that means
	// immediately hitting end of input.
	assert.Equal(t, eoi, tok.Terminal)
}

func Test_atomize_leavesNoOverlappingSymbols(t *testing.T) {
	ndfa := automaton.NewNDFA(symset.NewMap())
	s0, s1 := ndfa.AddState(), ndfa.AddState()
	classID := ndfa.Symbols.Intern(symset.SetOf(symset.NewRange('a', 'z'+1)))
	litID := ndfa.Symbols.Intern(symset.SetOf(symset.NewRange('i', 'i'+1)))
	ndfa.AddTransition(s0, classID, s1)
	ndfa.AddTransition(s0, litID, s1)

	out := atomize(ndfa)
	sets := out.Symbols.All()
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			overlap := sets[i].Intersect(sets[j])
			assert.True(t, overlap.Empty(), "atomized sets %d and %d must be disjoint", i, j)
		}
	}
}
