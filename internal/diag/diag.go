// Package diag implements the diagnostic model of spec §7: severities,
// stable error identifiers, source positions, and a Bag that accumulates
// diagnostics across a pipeline stage so a single run can surface every
// problem it finds rather than stopping at the first.
package diag

import (
	"fmt"

	"github.com/dekarrin/rosed"
)

// Severity is one of the five levels spec §7 names.
type Severity int

const (
	Detail Severity = iota
	Warning
	Error
	Bug
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Detail:
		return "detail"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Bug:
		return "bug"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ID is one of the stable error identifiers enumerated in spec §6.
type ID string

const (
	BugLexerBadParameters             ID = "BUG_LEXER_BAD_PARAMETERS"
	BugDFAFailedToCompile             ID = "BUG_DFA_FAILED_TO_COMPILE"
	DuplicateLexerSymbol              ID = "DUPLICATE_LEXER_SYMBOL"
	MissingLexerSymbolForAdding       ID = "MISSING_LEXER_SYMBOL_FOR_ADDING"
	MissingLexerSymbolForReplacing    ID = "MISSING_LEXER_SYMBOL_FOR_REPLACING"
	CannotAddToDifferentLexerSymbolType ID = "CANNOT_ADD_TO_DIFFERENT_LEXER_SYMBOL_TYPE"
	DuplicateNonterminalDefinition     ID = "DUPLICATE_NONTERMINAL_DEFINITION"
	UndefinedNonterminal               ID = "UNDEFINED_NONTERMINAL"
	EmptyGuard                         ID = "EMPTY_GUARD"
	IneffectiveGuard                   ID = "INEFFECTIVE_GUARD"
	UnusedTerminalSymbol               ID = "UNUSED_TERMINAL_SYMBOL"
	AmbiguousLanguageDefinition         ID = "AMBIGUOUS_LANGUAGE_DEFINITION"
	CantFindLanguage                    ID = "CANT_FIND_LANGUAGE"
	ImplicitLexerSymbol                 ID = "IMPLICIT_LEXER_SYMBOL"
)

// Position is an offset plus 1-based line/column within a source file.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Severity Severity
	File     string
	ID       ID
	Message  string
	Pos      Position
}

// String renders the diagnostic the way the collaborator console prints
// it, wrapping the message body to a fixed width with rosed the same way
// the teacher wraps long console text (e.g. dekarrin-tunaq's engine.go
// wrapping consoleMessage via rosed.Edit(...).Wrap(...)).
func (d Diagnostic) String() string {
	header := fmt.Sprintf("%s: [%s] %s:%s", d.Severity, d.ID, d.File, d.Pos)
	body := rosed.Edit(d.Message).Wrap(100).String()
	return header + "\n" + body
}

// Bag accumulates diagnostics across a pipeline stage.
type Bag struct {
	items []Diagnostic
}

// NewBag builds an empty Bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Addf builds and appends a Diagnostic from its parts, formatting Message
// with fmt.Sprintf(format, args...).
func (b *Bag) Addf(sev Severity, file string, id ID, pos Position, format string, args ...any) {
	b.Add(Diagnostic{
		Severity: sev,
		File:     file,
		ID:       id,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// All returns every diagnostic added so far, in order.
func (b *Bag) All() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// HasErrors returns whether any diagnostic at severity Error, Bug, or
// Fatal was recorded — the condition spec §7 says aborts the pipeline
// before the next stage runs.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= Error {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics recorded.
func (b *Bag) Len() int {
	return len(b.items)
}
