package grammar

import (
	"fmt"

	"github.com/dekarrin/tamelang/internal/diag"
)

// NewGuard creates a guard item `[=> rule]` whose rule reduces to a fresh
// anonymous nonterminal (so it has its own FIRST set, computed the same
// way as any other nonterminal's), per spec §4.5: "its identifier is a
// distinct nonterminal whose FIRST set equals FIRST(its single rule)."
func (g *Grammar) NewGuard(prod Production) Item {
	nt := g.Nonterminal(fmt.Sprintf("#guard%d", len(g.nontermNames)))
	desugared := g.DesugarProduction(prod)
	rid := g.AddRule(nt, desugared)
	it := GuardItem(rid)
	g.InternItem(it) // ValidateGuards finds guards through the interned items
	return it
}

// ValidateGuards checks every Guard item interned so far against spec
// §4.5's rules:
//   - a guard whose rule is empty (ε) is permitted but produces an
//     EMPTY_GUARD warning, unless cfg allows it;
//   - a guard whose rule is non-empty but whose FIRST set contains ε is
//     rejected with an INEFFECTIVE_GUARD error, since it would always
//     match and suppress every alternative.
func (g *Grammar) ValidateGuards(fs *FirstSets, allowEmptyGuards bool, bag *diag.Bag, file string) {
	for key := range g.itemIDs {
		var ridInt int
		if _, err := fmt.Sscanf(key, "G(%d)", &ridInt); err != nil {
			continue
		}
		rid := RuleID(ridInt)
		rule := g.Rule(rid)

		if len(rule.Production) == 0 {
			if !allowEmptyGuards {
				bag.Add(diag.Diagnostic{
					Severity: diag.Warning,
					File:     file,
					ID:       diag.EmptyGuard,
					Message:  "guard rule is empty (ε); it always succeeds and so never filters anything",
				})
			}
			continue
		}

		_, eps := fs.OfSequence(rule.Production)
		if eps {
			bag.Add(diag.Diagnostic{
				Severity: diag.Error,
				File:     file,
				ID:       diag.IneffectiveGuard,
				Message:  "guard rule can derive the empty string; it would always match and suppress its alternatives",
			})
		}
	}
}
