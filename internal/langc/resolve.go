package langc

import (
	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/specsyntax"
)

// step5Grammar builds context-free rules for every nonterminal-defn of
// block's grammar blocks (spec §4.6 step 5), resolving each production's
// items through internal/grammar's existing EBNF-desugaring machinery.
// The first nonterminal ever defined across the whole compile becomes the
// grammar's start symbol, matching how every example in spec §8 orders
// its topmost rule first.
func (c *Compiler) step5Grammar(block *specsyntax.LanguageBlock) {
	for _, defn := range block.Defns {
		gb, ok := defn.(*specsyntax.GrammarBlock)
		if !ok {
			continue
		}
		for _, rule := range gb.Rules {
			nt := c.grammar.Nonterminal(rule.Name)
			if !c.startSet {
				c.grammar.SetStart(nt)
				c.startSet = true
			}
			for _, prod := range rule.Productions {
				gprod := make(grammar.Production, 0, len(prod))
				for _, item := range prod {
					gprod = append(gprod, c.toGrammarItem(item))
				}
				c.grammar.AddRule(nt, gprod)
			}
		}
	}
}

// toGrammarItem translates one surface-syntax EbnfItem (possibly nested)
// into a resolved grammar.Item, materializing any EBNF/group/guard
// wrapper's synthesized nonterminal along the way via the Grammar's own
// Desugar/Group/NewGuard.
func (c *Compiler) toGrammarItem(it specsyntax.EbnfItem) grammar.Item {
	switch it.Kind {
	case specsyntax.EIdent:
		return c.resolveIdent(it.Name)
	case specsyntax.EString, specsyntax.EChar:
		id, _ := c.dict.Lookup(it.Text) // interned already by step4ImplicitLiterals
		return grammar.T(id)
	case specsyntax.EGroup:
		return c.grammar.Group(c.toGrammarProduction(it.Sub))
	case specsyntax.EOptional:
		return c.grammar.Desugar(grammar.Optional(c.toGrammarItem(it.Sub[0])))
	case specsyntax.ERepeatZero:
		return c.grammar.Desugar(grammar.RepeatZero(c.toGrammarItem(it.Sub[0])))
	case specsyntax.ERepeatOne:
		return c.grammar.Desugar(grammar.RepeatOne(c.toGrammarItem(it.Sub[0])))
	case specsyntax.EAlternate:
		left := c.toGrammarItem(it.Sub[0])
		right := c.toGrammarItem(it.Sub[1])
		return c.grammar.Desugar(grammar.Alternate(left, right))
	case specsyntax.EGuard:
		return c.grammar.NewGuard(c.toGrammarProduction(it.Sub))
	default:
		return grammar.Empty()
	}
}

func (c *Compiler) toGrammarProduction(items []specsyntax.EbnfItem) grammar.Production {
	out := make(grammar.Production, 0, len(items))
	for _, it := range items {
		out = append(out, c.toGrammarItem(it))
	}
	return out
}

// resolveIdent decides whether name refers to a terminal or a nonterminal:
// a name interned in the terminal dictionary by a keywords/lexer block (or
// by step4's implicit-literal pass) is a terminal, otherwise it is treated
// as a nonterminal (spec §6: the surface grammar gives both the same
// `ident` spelling, so this is the only point that can tell them apart).
func (c *Compiler) resolveIdent(name string) grammar.Item {
	if id, ok := c.dict.Lookup(name); ok {
		if _, known := c.terminals[id]; known {
			return grammar.T(id)
		}
	}
	return grammar.NT(c.grammar.Nonterminal(name))
}
