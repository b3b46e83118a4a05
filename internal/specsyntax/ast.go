package specsyntax

import "github.com/dekarrin/tamelang/internal/diag"

// File is the root of a parsed specification source: spec §6's
// `parser-language := toplevel-block*`.
type File struct {
	Languages []*LanguageBlock
	Imports   []string
}

// LanguageBlock is `language-block := "language" ident ["," ident]* ":"
// language-defn* ";"`. Names holds every declared name in order; when there
// is more than one, Parent is the second (the language this block inherits
// from, spec §4.6 step 1). Names after the second carry no further meaning.
type LanguageBlock struct {
	Names  []string
	Parent string // "" if this language does not inherit
	Defns  []LanguageDefn
	Pos    diag.Position
}

// LanguageDefn is the interface every language-defn variant implements;
// concrete types are *LexerSymbolsBlock, *LexerBlock, *KeywordsBlock,
// *IgnoreBlock, *GrammarBlock.
type LanguageDefn interface {
	isLanguageDefn()
}

// LexerSymbolsBlock holds `define_expression`/`define_expression_literal`
// macros (spec §4.6 step 2). The concrete inner syntax is
// `lexer-symbols { name := regex ; name := "literal" ; ... }`, filled in
// here since spec §6's EBNF snippet names the block but does not expand
// its body — documented as an open design decision in DESIGN.md.
type LexerSymbolsBlock struct {
	Expressions map[string]string
	Literals    map[string]string
	Pos         diag.Position
}

func (*LexerSymbolsBlock) isLanguageDefn() {}

// LexemeDefn is `lexeme-defn := ident ("=" | "|=" | ":=") (regex | string |
// char)`.
type LexemeDefn struct {
	Name    string
	Op      string // "=", "|=", or ":=" (first declaration)
	Pattern PatternLit
	Pos     diag.Position
}

type PatternKind int

const (
	PatternRegex PatternKind = iota
	PatternString
	PatternChar
)

type PatternLit struct {
	Kind PatternKind
	Text string
}

// LexerBlock is `lexer-block := ["weak"] "lexer" "{" lexeme-defn* "}"`.
type LexerBlock struct {
	Weak  bool
	Items []LexemeDefn
	Pos   diag.Position
}

func (*LexerBlock) isLanguageDefn() {}

// KeywordsBlock is `keywords-block := ["weak"] "keywords" "{"
// keyword-defn* "}"`.
type KeywordsBlock struct {
	Weak  bool
	Items []LexemeDefn
	Pos   diag.Position
}

func (*KeywordsBlock) isLanguageDefn() {}

// IgnoreBlock is `ignore-block := "ignore" "{" keyword-defn* "}"`.
type IgnoreBlock struct {
	Items []LexemeDefn
	Pos   diag.Position
}

func (*IgnoreBlock) isLanguageDefn() {}

// GrammarBlock is `grammar-block := "grammar" "{" nonterminal-defn* "}"`.
type GrammarBlock struct {
	Rules []NonterminalDefn
	Pos   diag.Position
}

func (*GrammarBlock) isLanguageDefn() {}

// NonterminalDefn is `nonterminal-defn := nonterminal ("=" | "+=" | ":=")
// production ("|" production)*`.
type NonterminalDefn struct {
	Name        string
	Op          string // "=", "+=", or ":="
	Productions []Production
	Pos         diag.Position
}

// Production is `production := ebnf-item*`.
type Production []EbnfItem

// EbnfItemKind discriminates the surface-syntax EBNF item union. Nonterminal
// vs Terminal is not distinguished lexically (both surface as EIdent); that
// resolution happens in internal/langc once the set of declared terminal
// names is known (spec §4.6 step 4's implicit-literal-interning pass
// already has to do the same kind of name resolution for string/char
// literals, so ident resolution is handled alongside it).
type EbnfItemKind int

const (
	EIdent EbnfItemKind = iota
	EString
	EChar
	EGroup
	EOptional
	ERepeatZero
	ERepeatOne
	EAlternate
	EGuard
)

// EbnfItem is one item of a surface-syntax production.
type EbnfItem struct {
	Kind EbnfItemKind
	Name string     // EIdent
	Text string     // EString, EChar
	Sub  []EbnfItem // EGroup (sequence), EOptional/ERepeatZero/ERepeatOne/EGuard (Sub[0]), EAlternate (Sub[0], Sub[1])
	Pos  diag.Position
}
