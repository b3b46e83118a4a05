package lrtables

import (
	"fmt"

	"github.com/dekarrin/tamelang/internal/diag"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/google/uuid"
)

// Token is one lexeme handed to the parser: its resolved terminal id, the
// matched text, and its source position for diagnostics.
type Token struct {
	Terminal terms.ID
	Text     string
	Pos      diag.Position
}

// TokenStream supplies the next token on demand; the lexer driver
// (internal/lexc's Lexer) implements this by running the compiled DFA over
// the source text.
type TokenStream interface {
	Next() Token
}

// bufferSlot is one position in a Session's shared lookahead buffer: the
// token at that position, and how many live parse states still reference
// it.
type bufferSlot struct {
	tok  Token
	refs int
}

// Session owns one parse's lookahead buffer: a reference-counted window
// into the token stream that every live ParseState (the main parse and any
// guard/weak-reduce sub-parsers it spawns) shares without copying, per
// spec §4.10/§5: "a reference-counted session owns the buffer and
// GC-collects lookahead that no state points at...creating [a sub-parser]
// does not require heap allocation proportional to the lookahead." The
// google/uuid-tagged ID is for the same reason the teacher tags other
// long-lived session-like objects across this module's sibling packages
// with one: a stable identity for logging/tracing across a run, not used
// for any hashing or lookup.
type Session struct {
	ID uuid.UUID

	stream TokenStream
	buf    []*bufferSlot
	base   int // absolute index of buf[0]

	Trace func(string)
}

// NewSession starts a fresh lookahead session reading from stream.
func NewSession(stream TokenStream) *Session {
	return &Session{ID: uuid.New(), stream: stream}
}

func (s *Session) notify(format string, args ...any) {
	if s.Trace != nil {
		s.Trace(fmt.Sprintf(format, args...))
	}
}

// at returns the token at absolute buffer index i, pulling from the token
// stream as many times as needed to fill the gap.
func (s *Session) at(i int) Token {
	for s.base+len(s.buf) <= i {
		s.buf = append(s.buf, &bufferSlot{tok: s.stream.Next()})
	}
	return s.buf[i-s.base].tok
}

// mark records that some live parse state now references absolute buffer
// index i, pinning it against collection.
func (s *Session) mark(i int) {
	s.at(i) // ensure it exists
	s.buf[i-s.base].refs++
}

// unmark releases a prior mark on i and sweeps any now-unreferenced prefix
// of the buffer (lazy compaction, spec §5: "when all indices move past a
// buffer position, the session reclaims it").
func (s *Session) unmark(i int) {
	idx := i - s.base
	if idx < 0 || idx >= len(s.buf) {
		return
	}
	s.buf[idx].refs--
	s.sweep()
}

func (s *Session) sweep() {
	for len(s.buf) > 0 && s.buf[0].refs <= 0 {
		s.buf = s.buf[1:]
		s.base++
	}
}
