package langc

import (
	"github.com/dekarrin/tamelang/internal/diag"
	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/dekarrin/tamelang/internal/util"
)

// step6Validate implements spec §4.6 step 6: every nonterminal referenced
// anywhere must have at least one rule, no guard may reduce to ε (checked
// via internal/grammar.ValidateGuards, already built), and every declared
// terminal that the grammar never actually shifts is worth a warning
// (ignored terminals are exempt — the lexer swallows them by design, so
// "unused" is expected for them). Note this sweep re-scans every terminal
// interned so far each time a language in an inheritance chain is
// validated, so a terminal a parent declares and only a later child ends
// up using can warn once during the parent's own pass before the child
// adds the rule that would have silenced it; harmless (a false-positive
// warning, never a missed error) and judged not worth deferring validation
// of an entire chain to its final link.
func (c *Compiler) step6Validate(cl *CompiledLanguage) {
	used := util.NewKeySet[terms.ID]()
	for rid := 0; rid < c.grammar.NumRules(); rid++ {
		rule := c.grammar.Rule(grammar.RuleID(rid))
		c.checkProduction(rule.Production, used)
	}

	for name := range c.localTerm {
		id, ok := c.dict.Lookup(name)
		if !ok {
			continue
		}
		if used.Has(id) || cl.Ignore.Has(id) {
			continue
		}
		c.bag.Addf(diag.Warning, c.file, diag.UnusedTerminalSymbol, diag.Position{},
			"terminal %q is declared but never referenced by any grammar rule", c.dict.NameFor(id))
	}

	fs := grammar.ComputeFirst(c.grammar)
	allowEmpty := false
	if c.cfg != nil {
		allowEmpty = c.cfg.Get(diag.AllowEmptyGuards)
	}
	c.grammar.ValidateGuards(fs, allowEmpty, c.bag, c.file)
}

func (c *Compiler) checkProduction(prod grammar.Production, used util.KeySet[terms.ID]) {
	for _, it := range prod {
		switch it.Kind {
		case grammar.KindTerminal:
			used.Add(it.Terminal)
		case grammar.KindNonterminal:
			if len(c.grammar.RulesFor(it.Nonterminal)) == 0 {
				c.bag.Addf(diag.Error, c.file, diag.UndefinedNonterminal, diag.Position{},
					"nonterminal %q is used but never defined", c.grammar.NonterminalName(it.Nonterminal))
			}
		}
	}
}
