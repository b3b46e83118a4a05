package lrtables

import (
	"testing"

	"github.com/dekarrin/tamelang/internal/diag"
	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/lalr"
	"github.com/dekarrin/tamelang/internal/rewrite"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceStream replays a fixed token slice, then an end-of-input sentinel
// forever.
type sliceStream struct {
	toks []Token
	i    int
	eoi  Token
}

func (s *sliceStream) Next() Token {
	if s.i >= len(s.toks) {
		return s.eoi
	}
	t := s.toks[s.i]
	s.i++
	return t
}

// buildArithmetic is spec §8 Scenario A's grammar end to end, same as
// internal/lalr's own test helper (kept independent since that one lives
// in an internal test file of a different package).
func buildArithmetic(t *testing.T) (*grammar.Grammar, terms.ID, terms.ID, terms.ID) {
	t.Helper()
	dict := terms.NewDict()
	plus := dict.Intern("+")
	num := dict.Intern("num")
	eoi := dict.Intern("⊣")

	g := grammar.NewGrammar(dict)
	e := g.Nonterminal("E")
	tm := g.Nonterminal("T")
	g.SetStart(e)

	g.AddRule(e, grammar.Production{grammar.NT(e), grammar.T(plus), grammar.NT(tm)})
	g.AddRule(e, grammar.Production{grammar.NT(tm)})
	g.AddRule(tm, grammar.Production{grammar.T(num)})

	return g, plus, num, eoi
}

func Test_Parse_scenarioA_numPlusNumPlusNum(t *testing.T) {
	g, plus, num, eoi := buildArithmetic(t)
	result := lalr.BuildLALR1(g, eoi)
	require.Empty(t, result.Table.Conflicts)

	rt := rewrite.Rewrite(result.Table, rewrite.WeakMap{})
	packed := Pack(g, rt, result.First, 0, eoi)

	stream := &sliceStream{
		toks: []Token{
			{Terminal: num, Text: "1"},
			{Terminal: plus, Text: "+"},
			{Terminal: num, Text: "2"},
			{Terminal: plus, Text: "+"},
			{Terminal: num, Text: "3"},
		},
		eoi: Token{Terminal: eoi, Text: ""},
	}
	session := NewSession(stream)

	root, err := Parse(packed, session)
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, g.Start(), root.Nonterminal)
}

func Test_Parse_scenarioA_rejectsMalformedInput(t *testing.T) {
	g, plus, _, eoi := buildArithmetic(t)
	result := lalr.BuildLALR1(g, eoi)
	rt := rewrite.Rewrite(result.Table, rewrite.WeakMap{})
	packed := Pack(g, rt, result.First, 0, eoi)

	stream := &sliceStream{
		toks: []Token{{Terminal: plus, Text: "+"}},
		eoi:  Token{Terminal: eoi, Text: ""},
	}
	session := NewSession(stream)

	_, err := Parse(packed, session)
	assert.Error(t, err)
}

func Test_Session_bufferShrinksAfterUnmark(t *testing.T) {
	num := terms.ID(1)
	stream := &sliceStream{
		toks: []Token{{Terminal: num, Pos: diag.Position{Offset: 0}}, {Terminal: num, Pos: diag.Position{Offset: 1}}},
		eoi:  Token{Terminal: terms.ID(0)},
	}
	s := NewSession(stream)
	s.mark(0)
	_ = s.at(1)
	s.mark(1)
	assert.Len(t, s.buf, 2)

	s.unmark(0)
	assert.Len(t, s.buf, 1, "sweeping should drop the now-unreferenced front slot")

	s.unmark(1)
	assert.Len(t, s.buf, 0)
}
