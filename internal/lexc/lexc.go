// Package lexc implements spec §4.7's lexer compiler: the four passes that
// turn the NDFA a language's lexer/keyword/ignore blocks were compiled
// into (by internal/regexc, one fragment at a time) into a single minimal
// DFA plus the weak-terminal substitution map the parser-table rewriter
// (internal/rewrite) needs.
//
// ictiobus's own lexer (_examples/dekarrin-tunaq/internal/ictiobus/lex)
// never reaches this stage — lex/regex.go's Fragment/pattern type is a
// TODO stub that falls back to Go's stdlib regexp at match time, so there
// is no NDFA/DFA lexer pipeline in the teacher to ground this package on
// directly. It is grounded instead on internal/automaton's own doc
// comment, which traces the determinize/minimize/merge sequence back to
// the original C++ this system was distilled from
// (_examples/original_source/Dfa/ndfa_transformations.cpp's
// to_compact_dfa), and wires that sequence up using the NDFA/DFA package
// built in this module's own internal/automaton.
package lexc

import (
	"github.com/dekarrin/tamelang/internal/automaton"
	"github.com/dekarrin/tamelang/internal/rewrite"
	"github.com/dekarrin/tamelang/internal/symset"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/dekarrin/tamelang/internal/util"
)

// Result is a compiled lexer: a minimal DFA ready to drive over source
// text, the symbol map its transitions are keyed against (so a runtime
// Lexer can translate an incoming code point into a symbol id), and the
// weak-terminal map the LALR action-table rewriter needs to turn Shift
// into ShiftStrong/Reduce into WeakReduce wherever a weak terminal stands
// in for a strong one.
type Result struct {
	DFA     *automaton.DFA
	Symbols *symset.Map
	WeakMap rewrite.WeakMap
}

// Compile runs spec §4.7's four steps over ndfa (already built by
// internal/regexc from every lexer/keyword/ignore rule of a language, in
// priority order): deduplicate the symbol map, determinize, minimize and
// merge equivalent symbols, then prepare the weak-terminal substitution
// map. starts are the NDFA's start states (ordinarily just state 0; more
// than one if the language declares start conditions).
func Compile(ndfa *automaton.NDFA, weak util.KeySet[terms.ID], dict *terms.Dict, starts []int) *Result {
	deduped := atomize(ndfa)

	d := deduped.ToDFA(starts)
	d = d.Minimize()
	d, merged := d.MergeEquivalentSymbols()

	// Fold each merged-away symbol's set into its survivor's entry; survivors
	// have lower ids than the symbols merged into them, so Find returns the
	// survivor id the merged DFA's transitions are keyed on.
	sets := deduped.Symbols.All()
	for sym, survivor := range merged {
		if sym != survivor {
			sets[survivor] = sets[survivor].Union(sets[sym])
		}
	}
	symbols := symset.NewMap()
	for _, s := range sets {
		symbols.Intern(s)
	}

	d, wm := PrepareWeakSubstitution(d, weak, dict)

	return &Result{DFA: d, Symbols: symbols, WeakMap: wm}
}
