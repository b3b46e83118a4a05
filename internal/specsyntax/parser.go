package specsyntax

import (
	"github.com/dekarrin/tamelang/internal/diag"
)

// Parser is a recursive-descent parser over the token stream a Lexer
// produces, one production per EBNF rule of spec §6's specification-
// language grammar.
type Parser struct {
	lex  *Lexer
	tok  Token
	file string
	bag  *diag.Bag
}

func NewParser(src, file string, bag *diag.Bag) *Parser {
	p := &Parser{lex: NewLexer(src, file, bag), file: file, bag: bag}
	p.tok = p.lex.Next()
	return p
}

func (p *Parser) advance() Token {
	t := p.tok
	p.tok = p.lex.Next()
	return t
}

func (p *Parser) errorf(format string, args ...any) {
	p.bag.Addf(diag.Error, p.file, diag.BugLexerBadParameters, p.tok.Pos, format, args...)
}

func (p *Parser) expectPunct(text string) bool {
	if p.tok.Kind == TPunct && p.tok.Text == text {
		p.advance()
		return true
	}
	p.errorf("expected %q, found %q", text, p.tok.Text)
	return false
}

func (p *Parser) isPunct(text string) bool {
	return p.tok.Kind == TPunct && p.tok.Text == text
}

func (p *Parser) isIdent(name string) bool {
	return p.tok.Kind == TIdent && p.tok.Text == name
}

// Parse parses an entire specification source into a File, best-effort:
// each top-level block failure is reported to the Bag and parsing resumes
// at the next recognizable block so a single run surfaces every error, per
// spec §7.
func (p *Parser) Parse() *File {
	f := &File{}
	for p.tok.Kind != TEOF {
		switch {
		case p.isIdent("language"):
			if lb := p.parseLanguageBlock(); lb != nil {
				f.Languages = append(f.Languages, lb)
			}
		case p.isIdent("import"):
			p.advance()
			if p.tok.Kind == TString {
				f.Imports = append(f.Imports, p.tok.Text)
				p.advance()
			} else {
				p.errorf("expected a string after 'import'")
			}
		default:
			p.errorf("expected 'language' or 'import', found %q", p.tok.Text)
			p.advance()
		}
	}
	return f
}

func (p *Parser) parseLanguageBlock() *LanguageBlock {
	pos := p.tok.Pos
	p.advance() // "language"
	lb := &LanguageBlock{Pos: pos}

	if p.tok.Kind != TIdent {
		p.errorf("expected a language name")
		return nil
	}
	lb.Names = append(lb.Names, p.advance().Text)
	for p.isPunct(",") {
		p.advance()
		if p.tok.Kind != TIdent {
			p.errorf("expected a language name after ','")
			break
		}
		lb.Names = append(lb.Names, p.advance().Text)
	}
	if len(lb.Names) > 1 {
		lb.Parent = lb.Names[1]
	}

	if !p.expectPunct(":") {
		return lb
	}

	for !p.isPunct(";") && p.tok.Kind != TEOF {
		defn := p.parseLanguageDefn()
		if defn == nil {
			p.advance() // avoid an infinite loop on unrecognized input
			continue
		}
		lb.Defns = append(lb.Defns, defn)
	}
	if p.isPunct(";") {
		p.advance()
	}
	return lb
}

func (p *Parser) parseLanguageDefn() LanguageDefn {
	weak := false
	if p.isIdent("weak") {
		weak = true
		p.advance()
	}
	switch {
	case p.isIdent("lexer-symbols"):
		return p.parseLexerSymbolsBlock()
	case p.isIdent("lexer"):
		return p.parseLexemeBlock(weak)
	case p.isIdent("keywords"):
		return p.parseKeywordsBlock(weak)
	case p.isIdent("ignore"):
		if weak {
			p.errorf("'ignore' blocks cannot be declared weak")
		}
		return p.parseIgnoreBlock()
	case p.isIdent("grammar"):
		if weak {
			p.errorf("'grammar' blocks cannot be declared weak")
		}
		return p.parseGrammarBlock()
	default:
		p.errorf("expected a language-defn keyword, found %q", p.tok.Text)
		return nil
	}
}

func (p *Parser) parseLexerSymbolsBlock() LanguageDefn {
	pos := p.tok.Pos
	p.advance() // "lexer-symbols"
	b := &LexerSymbolsBlock{Expressions: map[string]string{}, Literals: map[string]string{}, Pos: pos}
	if !p.expectPunct("{") {
		return b
	}
	for !p.isPunct("}") && p.tok.Kind != TEOF {
		if p.tok.Kind != TIdent {
			p.errorf("expected a macro name")
			p.advance()
			continue
		}
		name := p.advance().Text
		if !p.expectPunct(":=") {
			continue
		}
		switch p.tok.Kind {
		case TRegex:
			b.Expressions[name] = p.advance().Text
		case TString, TChar:
			b.Literals[name] = p.advance().Text
		default:
			p.errorf("expected a regex or string literal for macro %q", name)
			p.advance()
		}
		if p.isPunct(";") { // optional terminator
			p.advance()
		}
	}
	if p.isPunct("}") {
		p.advance()
	}
	return b
}

func (p *Parser) parseLexemeItems() []LexemeDefn {
	var items []LexemeDefn
	if !p.expectPunct("{") {
		return items
	}
	for !p.isPunct("}") && p.tok.Kind != TEOF {
		if p.tok.Kind != TIdent {
			p.errorf("expected a lexeme name")
			p.advance()
			continue
		}
		pos := p.tok.Pos
		name := p.advance().Text
		var op string
		switch {
		case p.isPunct("="):
			op = "="
		case p.isPunct("|="):
			op = "|="
		case p.isPunct(":="):
			op = ":="
		default:
			p.errorf("expected '=', '|=', or ':=' after %q", name)
			continue
		}
		p.advance()

		var pat PatternLit
		switch p.tok.Kind {
		case TRegex:
			pat = PatternLit{Kind: PatternRegex, Text: p.tok.Text}
		case TString:
			pat = PatternLit{Kind: PatternString, Text: p.tok.Text}
		case TChar:
			pat = PatternLit{Kind: PatternChar, Text: p.tok.Text}
		default:
			p.errorf("expected a regex, string, or char literal for %q", name)
			p.advance()
			continue
		}
		p.advance()
		items = append(items, LexemeDefn{Name: name, Op: op, Pattern: pat, Pos: pos})
		if p.isPunct(";") { // optional terminator
			p.advance()
		}
	}
	if p.isPunct("}") {
		p.advance()
	}
	return items
}

func (p *Parser) parseLexemeBlock(weak bool) LanguageDefn {
	pos := p.tok.Pos
	p.advance() // "lexer"
	return &LexerBlock{Weak: weak, Items: p.parseLexemeItems(), Pos: pos}
}

func (p *Parser) parseKeywordsBlock(weak bool) LanguageDefn {
	pos := p.tok.Pos
	p.advance() // "keywords"
	return &KeywordsBlock{Weak: weak, Items: p.parseLexemeItems(), Pos: pos}
}

func (p *Parser) parseIgnoreBlock() LanguageDefn {
	pos := p.tok.Pos
	p.advance() // "ignore"
	return &IgnoreBlock{Items: p.parseLexemeItems(), Pos: pos}
}

func (p *Parser) parseGrammarBlock() LanguageDefn {
	pos := p.tok.Pos
	p.advance() // "grammar"
	b := &GrammarBlock{Pos: pos}
	if !p.expectPunct("{") {
		return b
	}
	for !p.isPunct("}") && p.tok.Kind != TEOF {
		if p.tok.Kind != TIdent {
			p.errorf("expected a nonterminal name")
			p.advance()
			continue
		}
		b.Rules = append(b.Rules, p.parseNonterminalDefn())
	}
	if p.isPunct("}") {
		p.advance()
	}
	return b
}

func (p *Parser) parseNonterminalDefn() NonterminalDefn {
	pos := p.tok.Pos
	name := p.advance().Text
	var op string
	switch {
	case p.isPunct("="):
		op = "="
	case p.isPunct("+="):
		op = "+="
	case p.isPunct(":="):
		op = ":="
	default:
		p.errorf("expected '=', '+=', or ':=' after %q", name)
		return NonterminalDefn{Name: name, Pos: pos}
	}
	p.advance()

	def := NonterminalDefn{Name: name, Op: op, Pos: pos}
	def.Productions = append(def.Productions, p.parseTopProduction())
	for p.isPunct("|") {
		p.advance()
		def.Productions = append(def.Productions, p.parseTopProduction())
	}
	if p.isPunct(";") { // optional terminator
		p.advance()
	}
	return def
}

// parseTopProduction parses `production := ebnf-item*` at the top level of
// a nonterminal-defn, where a bare "|" always ends the current production
// (the production-alternation operator) rather than combining two items —
// item-level alternation (`ebnf-item "|" ebnf-item`) is only reachable
// through an explicit group, parsed by parseGroupSeq below. See DESIGN.md
// for why the surface grammar's single "|" token needs this disambiguation.
func (p *Parser) parseTopProduction() Production {
	var items Production
	for !p.isPunct("|") && !p.isPunct(";") && !p.isPunct("}") && p.tok.Kind != TEOF {
		items = append(items, p.parsePostfixItem())
	}
	return items
}

// parseGroupSeq parses the inside of a `( ... )` group or `[=> ... ]`
// guard, up to the given closing punctuation, where "|" combines the two
// adjacent items into an EAlternate item rather than ending a production.
func (p *Parser) parseGroupSeq(closer string) []EbnfItem {
	var items []EbnfItem
	for !p.isPunct(closer) && p.tok.Kind != TEOF {
		items = append(items, p.parseOrItem())
	}
	return items
}

func (p *Parser) parseOrItem() EbnfItem {
	left := p.parsePostfixItem()
	for p.isPunct("|") {
		pos := p.tok.Pos
		p.advance()
		right := p.parsePostfixItem()
		left = EbnfItem{Kind: EAlternate, Sub: []EbnfItem{left, right}, Pos: pos}
	}
	return left
}

func (p *Parser) parsePostfixItem() EbnfItem {
	atom := p.parseAtomItem()
	for {
		switch {
		case p.isPunct("?"):
			pos := p.advance().Pos
			atom = EbnfItem{Kind: EOptional, Sub: []EbnfItem{atom}, Pos: pos}
		case p.isPunct("*"):
			pos := p.advance().Pos
			atom = EbnfItem{Kind: ERepeatZero, Sub: []EbnfItem{atom}, Pos: pos}
		case p.isPunct("+"):
			pos := p.advance().Pos
			atom = EbnfItem{Kind: ERepeatOne, Sub: []EbnfItem{atom}, Pos: pos}
		default:
			return atom
		}
	}
}

func (p *Parser) parseAtomItem() EbnfItem {
	pos := p.tok.Pos
	switch {
	case p.tok.Kind == TIdent:
		return EbnfItem{Kind: EIdent, Name: p.advance().Text, Pos: pos}
	case p.tok.Kind == TString:
		return EbnfItem{Kind: EString, Text: p.advance().Text, Pos: pos}
	case p.tok.Kind == TChar:
		return EbnfItem{Kind: EChar, Text: p.advance().Text, Pos: pos}
	case p.isPunct("("):
		p.advance()
		inner := p.parseGroupSeq(")")
		p.expectPunct(")")
		return EbnfItem{Kind: EGroup, Sub: inner, Pos: pos}
	case p.isPunct("[=>"):
		p.advance()
		inner := p.parseGroupSeq("]")
		p.expectPunct("]")
		return EbnfItem{Kind: EGuard, Sub: inner, Pos: pos}
	default:
		p.errorf("expected a grammar item, found %q", p.tok.Text)
		p.advance()
		return EbnfItem{Kind: EIdent, Name: "", Pos: pos}
	}
}
