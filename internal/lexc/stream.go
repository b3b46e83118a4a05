package lexc

import (
	"github.com/dekarrin/tamelang/internal/automaton"
	"github.com/dekarrin/tamelang/internal/diag"
	"github.com/dekarrin/tamelang/internal/lrtables"
	"github.com/dekarrin/tamelang/internal/symset"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/dekarrin/tamelang/internal/util"
)

// Lexer drives a compiled DFA over source text by maximal munch: at each
// token start it walks the DFA as far as it can, remembering the most
// recent state that carried an accept action, then backtracks the input
// cursor to just past that remembered position. This is the same
// longest-match-wins discipline spec §4.2's NDFA/DFA model implies and
// that the original's lexer_wrapper.cpp documents explicitly as
// "always prefers the longest match."
//
// Lexer implements lrtables.TokenStream, so its output feeds directly
// into the LR driver.
type Lexer struct {
	dfa     *automaton.DFA
	symbols *symset.Map
	ignore  util.KeySet[terms.ID]
	endOfInput terms.ID

	src  []rune
	pos  int
	line int
	col  int

	file string
	bag  *diag.Bag
}

// NewLexer builds a Lexer over src using a compiled Result. ignore is the
// set of terminal ids the lexer compiler's caller has marked as
// whitespace/comment-style ignore rules (spec §4.6 step 3's "ignore"
// priority tier): tokens accepted for one of these ids are discarded
// rather than handed to the parser. endOfInput is the terminal id to
// report once src is exhausted.
func NewLexer(res *Result, src string, ignore util.KeySet[terms.ID], endOfInput terms.ID, file string, bag *diag.Bag) *Lexer {
	return &Lexer{
		dfa:        res.DFA,
		symbols:    res.Symbols,
		ignore:     ignore,
		endOfInput: endOfInput,
		src:        []rune(src),
		line:       1,
		col:        1,
		file:       file,
		bag:        bag,
	}
}

// Next returns the next token, skipping over any run of ignore-tagged
// matches first. Once src is exhausted it returns endOfInput forever.
func (l *Lexer) Next() lrtables.Token {
	for {
		if l.pos >= len(l.src) {
			return lrtables.Token{Terminal: l.endOfInput, Pos: l.position()}
		}
		tok, ok := l.scanOne()
		if !ok {
			continue // lexical error already reported; resynchronize on the next code point
		}
		if l.ignore != nil && l.ignore.Has(tok.Terminal) {
			continue
		}
		return tok
	}
}

func (l *Lexer) position() diag.Position {
	return diag.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// scanOne matches one token (or reports one lexical error) starting at
// l.pos, advancing l.pos/l.line/l.col past the matched text.
func (l *Lexer) scanOne() (lrtables.Token, bool) {
	start := l.position()
	state := l.dfa.Start()

	bestPos := -1
	var bestTerm terms.ID
	bestLine, bestCol := l.line, l.col

	i := l.pos
	line, col := l.line, l.col
	for i < len(l.src) {
		symID, found := l.symbols.Find(int(l.src[i]))
		if !found {
			break
		}
		next, ok := l.dfa.Next(state, symID)
		if !ok {
			break
		}
		state = next
		i++
		if l.src[i-1] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		if accepts := l.dfa.Accepts(state); len(accepts) > 0 {
			bestPos = i
			bestTerm = accepts[0].Terminal
			bestLine, bestCol = line, col
		}
	}

	if bestPos < 0 {
		if l.bag != nil {
			l.bag.Addf(diag.Error, l.file, diag.BugLexerBadParameters, start,
				"no lexer rule matches %q", l.src[l.pos])
		}
		l.pos++
		l.col++
		return lrtables.Token{}, false
	}

	text := string(l.src[l.pos:bestPos])
	l.pos = bestPos
	l.line, l.col = bestLine, bestCol
	return lrtables.Token{Terminal: bestTerm, Text: text, Pos: start}, true
}
