package grammar

import (
	"fmt"

	"github.com/dekarrin/tamelang/internal/terms"
)

// Grammar is the set of rules keyed by nonterminal, a nonterminal
// name->ID table, and an item-interning map assigning every item (including
// EBNF wrappers and Guards) a grammar-unique identifier, per spec §3.
type Grammar struct {
	Terms *terms.Dict

	nontermNames  []string
	nontermByName map[string]NontermID

	rules       []Rule // arena indexed by RuleID
	rulesByNT   map[NontermID][]RuleID

	itemIDs   map[string]int // item structural key -> grammar-unique item id
	nextItemID int

	ebnfNonterm map[string]NontermID // item structural key -> synthesized nonterminal, for EBNF dedup

	start NontermID
}

// NewGrammar builds an empty grammar sharing the given terminal dictionary.
func NewGrammar(dict *terms.Dict) *Grammar {
	return &Grammar{
		Terms:         dict,
		nontermByName: make(map[string]NontermID),
		rulesByNT:     make(map[NontermID][]RuleID),
		itemIDs:       make(map[string]int),
		ebnfNonterm:   make(map[string]NontermID),
	}
}

// Nonterminal returns the ID for name, allocating a fresh one if it has
// not been seen before.
func (g *Grammar) Nonterminal(name string) NontermID {
	if id, ok := g.nontermByName[name]; ok {
		return id
	}
	id := NontermID(len(g.nontermNames))
	g.nontermNames = append(g.nontermNames, name)
	g.nontermByName[name] = id
	return id
}

// NonterminalName returns the registered name of nt, or a synthesized
// placeholder if nt was never allocated by Nonterminal. EBNF, group, and
// guard nonterminals are registered under generated "#..." names, so they
// report those names rather than the placeholder.
func (g *Grammar) NonterminalName(nt NontermID) string {
	if int(nt) < len(g.nontermNames) {
		return g.nontermNames[nt]
	}
	return fmt.Sprintf("#anon%d", int(nt))
}

// LookupNonterminal returns the ID already assigned to name, if any.
func (g *Grammar) LookupNonterminal(name string) (NontermID, bool) {
	id, ok := g.nontermByName[name]
	return id, ok
}

// SetStart marks nt as the grammar's start symbol.
func (g *Grammar) SetStart(nt NontermID) {
	g.start = nt
}

// Start returns the grammar's start symbol.
func (g *Grammar) Start() NontermID {
	return g.start
}

// AddRule appends a new rule reducing to nt and returns its ID.
func (g *Grammar) AddRule(nt NontermID, prod Production) RuleID {
	id := RuleID(len(g.rules))
	g.rules = append(g.rules, Rule{ID: id, NonTerminal: nt, Production: prod})
	g.rulesByNT[nt] = append(g.rulesByNT[nt], id)
	return id
}

// Rule returns the rule with the given id.
func (g *Grammar) Rule(id RuleID) Rule {
	return g.rules[id]
}

// RulesFor returns the IDs of every rule reducing to nt, in insertion order.
func (g *Grammar) RulesFor(nt NontermID) []RuleID {
	return g.rulesByNT[nt]
}

// AllNonterminals returns every allocated nonterminal ID, in allocation
// order, including the anonymous EBNF/group/guard nonterminals (they are
// allocated through Nonterminal under generated "#..." names).
func (g *Grammar) AllNonterminals() []NontermID {
	out := make([]NontermID, len(g.nontermNames))
	for i := range g.nontermNames {
		out[i] = NontermID(i)
	}
	return out
}

// NumRules returns the total number of rules in the arena, including
// synthesized EBNF rules.
func (g *Grammar) NumRules() int {
	return len(g.rules)
}

// InternItem assigns (or reuses) a grammar-unique id for it, keyed by its
// structural Key(). This satisfies spec §3's "item-interning map that
// assigns every item...a grammar-unique identifier," independent of the
// EBNF-desugaring machinery below, which additionally assigns a
// NontermID to EBNF/Guard items so the LALR builder can treat them like
// any other nonterminal.
func (g *Grammar) InternItem(it Item) int {
	key := it.Key()
	if id, ok := g.itemIDs[key]; ok {
		return id
	}
	id := g.nextItemID
	g.nextItemID++
	g.itemIDs[key] = id
	return id
}

// Desugar resolves an EBNF wrapper item into a Nonterminal item referring
// to a synthesized anonymous nonterminal, creating that nonterminal and its
// rules the first time a structurally-identical wrapper is seen and
// reusing it on every subsequent occurrence (spec §4.5: "The identity of
// each such anonymous nonterminal is the structural hash of the item, so
// repeated uses in different rules share the same state space.").
// Terminal, Nonterminal, Empty, and Guard items pass through unchanged
// (Guard's own rule is assumed already present in the grammar).
func (g *Grammar) Desugar(it Item) Item {
	switch it.Kind {
	case KindTerminal, KindNonterminal, KindEmpty, KindGuard:
		g.InternItem(it)
		return it
	}

	key := it.Key()
	if nt, ok := g.ebnfNonterm[key]; ok {
		return NT(nt)
	}

	nt := g.Nonterminal(fmt.Sprintf("#%s", key))
	g.ebnfNonterm[key] = nt // record before recursing so self-referential structures terminate

	switch it.Kind {
	case KindEbnfOptional:
		// A? => rules: ε, A
		inner := g.Desugar(it.Sub[0])
		g.AddRule(nt, Production{})
		g.AddRule(nt, Production{inner})
	case KindEbnfRepeatZero:
		// A* => rules: ε, A* A
		inner := g.Desugar(it.Sub[0])
		g.AddRule(nt, Production{})
		g.AddRule(nt, Production{NT(nt), inner})
	case KindEbnfRepeatOne:
		// A+ => rules: A, A+ A
		inner := g.Desugar(it.Sub[0])
		g.AddRule(nt, Production{inner})
		g.AddRule(nt, Production{NT(nt), inner})
	case KindEbnfAlternate:
		// A|B => rules: A, B
		left := g.Desugar(it.Sub[0])
		right := g.Desugar(it.Sub[1])
		g.AddRule(nt, Production{left})
		g.AddRule(nt, Production{right})
	default:
		panic(fmt.Sprintf("grammar: Desugar called on non-EBNF item kind %s", it.Kind))
	}

	g.InternItem(it)
	return NT(nt)
}

// DesugarProduction desugars every item of prod in place, returning the
// rewritten production.
func (g *Grammar) DesugarProduction(prod Production) Production {
	out := make(Production, len(prod))
	for i, it := range prod {
		out[i] = g.Desugar(it)
	}
	return out
}

// Group implements the `( … )` production of spec §4.5's desugaring table:
// "( … ) ⇒ one rule containing the sequence inside." The tagged Item union
// of spec §3 has no dedicated Group kind because grouping needs no new
// item variant: a parenthesized sequence is itself just a synthesized
// nonterminal with one rule, after which it is a perfectly ordinary
// Nonterminal item — including one that `?`/`*`/`+`/`|` can wrap, same as
// any named nonterminal. Group performs that one synthesis step (dedup by
// the structural key of the already-desugared inner production, matching
// the rest of this file's reuse-by-structural-hash behavior) and returns
// the resulting Nonterminal item.
func (g *Grammar) Group(prod Production) Item {
	desugared := g.DesugarProduction(prod)
	key := "(" + desugared.String() + ")"
	if nt, ok := g.ebnfNonterm[key]; ok {
		return NT(nt)
	}
	nt := g.Nonterminal(fmt.Sprintf("#group%d", len(g.nontermNames)))
	g.ebnfNonterm[key] = nt
	g.AddRule(nt, desugared)
	return NT(nt)
}
