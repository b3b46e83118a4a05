// Package grammar implements the grammar item/rule/grammar data model of
// spec §3, FIRST-set computation, and EBNF desugaring (spec §4.5).
//
// Grounded on ictiobus's grammar.LR0Item/LR1Item
// (_examples/dekarrin-tunaq/internal/ictiobus/grammar/item.go, the one
// surviving file of that package — grammar.go itself, which would define
// Grammar/Rule, is missing from the retrieved pack) for the LR item shape,
// and on the older, fuller `internal/tunascript/grammar.go` (same author,
// pre-ictiobus) for the Grammar/Rule/FIRST/FOLLOW API this package
// reconstructs. Generalized per spec §3 to integer terminal/nonterminal ids
// (via internal/terms.ID) rather than ictiobus's plain strings, and to the
// tagged-union Item type spec §3 specifies (Terminal/Nonterminal/EmptyItem/
// EbnfOptional/EbnfRepeatZero/EbnfRepeatOne/EbnfAlternate/Guard) rather than
// ictiobus's flat string-slice productions — per spec §9's design note
// collapsing "deep subtype hierarchies" into tagged variants with value
// semantics instead of a virtual clone() pattern.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/tamelang/internal/terms"
)

// NontermID is a dense nonterminal identifier, including synthesized
// anonymous nonterminals produced by EBNF desugaring.
type NontermID int

// RuleID identifies a rule within a Grammar's rule arena.
type RuleID int

// ItemKind discriminates the tagged union spec §3 describes.
type ItemKind int

const (
	KindTerminal ItemKind = iota
	KindNonterminal
	KindEmpty
	KindEbnfOptional
	KindEbnfRepeatZero
	KindEbnfRepeatOne
	KindEbnfAlternate
	KindGuard
)

func (k ItemKind) String() string {
	switch k {
	case KindTerminal:
		return "Terminal"
	case KindNonterminal:
		return "Nonterminal"
	case KindEmpty:
		return "EmptyItem"
	case KindEbnfOptional:
		return "EbnfOptional"
	case KindEbnfRepeatZero:
		return "EbnfRepeatZero"
	case KindEbnfRepeatOne:
		return "EbnfRepeatOne"
	case KindEbnfAlternate:
		return "EbnfAlternate"
	case KindGuard:
		return "Guard"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// Item is the tagged-union grammar item of spec §3. Only the fields
// relevant to Kind are meaningful at any one time:
//   - KindTerminal: Terminal
//   - KindNonterminal: Nonterminal
//   - KindEmpty: (no fields)
//   - KindEbnfOptional, KindEbnfRepeatZero, KindEbnfRepeatOne: Sub[0]
//   - KindEbnfAlternate: Sub[0], Sub[1]
//   - KindGuard: GuardRule
//
// Item is a value type with structural equality (via Key), so it may be
// interned, per spec §3's "Items have structural equality so they may be
// interned."
type Item struct {
	Kind       ItemKind
	Terminal   terms.ID
	Nonterminal NontermID
	Sub        []Item
	GuardRule  RuleID
}

// T builds a terminal item.
func T(id terms.ID) Item { return Item{Kind: KindTerminal, Terminal: id} }

// NT builds a nonterminal item.
func NT(id NontermID) Item { return Item{Kind: KindNonterminal, Nonterminal: id} }

// Empty builds the epsilon item.
func Empty() Item { return Item{Kind: KindEmpty} }

// Optional builds an `item?` EBNF item.
func Optional(item Item) Item { return Item{Kind: KindEbnfOptional, Sub: []Item{item}} }

// RepeatZero builds an `item*` EBNF item.
func RepeatZero(item Item) Item { return Item{Kind: KindEbnfRepeatZero, Sub: []Item{item}} }

// RepeatOne builds an `item+` EBNF item.
func RepeatOne(item Item) Item { return Item{Kind: KindEbnfRepeatOne, Sub: []Item{item}} }

// Alternate builds an `a|b` EBNF item.
func Alternate(a, b Item) Item { return Item{Kind: KindEbnfAlternate, Sub: []Item{a, b}} }

// GuardItem builds a `[=> rule]` guard item.
func GuardItem(rule RuleID) Item { return Item{Kind: KindGuard, GuardRule: rule} }

// Key returns a canonical string identifying the item's structure, used
// both for item interning and as the identity of a synthesized EBNF
// nonterminal: spec §3's "an EBNF wrapper's identifier is deterministic
// given its (recursive) structure."
func (it Item) Key() string {
	switch it.Kind {
	case KindTerminal:
		return fmt.Sprintf("T(%d)", it.Terminal)
	case KindNonterminal:
		return fmt.Sprintf("N(%d)", it.Nonterminal)
	case KindEmpty:
		return "E"
	case KindEbnfOptional:
		return fmt.Sprintf("?(%s)", it.Sub[0].Key())
	case KindEbnfRepeatZero:
		return fmt.Sprintf("*(%s)", it.Sub[0].Key())
	case KindEbnfRepeatOne:
		return fmt.Sprintf("+(%s)", it.Sub[0].Key())
	case KindEbnfAlternate:
		return fmt.Sprintf("|(%s,%s)", it.Sub[0].Key(), it.Sub[1].Key())
	case KindGuard:
		return fmt.Sprintf("G(%d)", it.GuardRule)
	default:
		return fmt.Sprintf("?kind%d", int(it.Kind))
	}
}

// Equal reports whether it and o have the same structure.
func (it Item) Equal(o Item) bool {
	return it.Key() == o.Key()
}

func (it Item) String() string {
	return it.Key()
}

// Production is an ordered sequence of items together understood to
// reduce to a particular nonterminal (see Rule).
type Production []Item

func (p Production) String() string {
	parts := make([]string, len(p))
	for i, it := range p {
		parts[i] = it.String()
	}
	return strings.Join(parts, " ")
}

// Rule is a production together with the nonterminal it reduces to. Rules
// have identities assigned by the Grammar on insertion (spec §3).
type Rule struct {
	ID          RuleID
	NonTerminal NontermID
	Production  Production
}

func (r Rule) String() string {
	return fmt.Sprintf("N%d -> %s", r.NonTerminal, r.Production.String())
}
