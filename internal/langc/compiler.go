// Package langc implements spec §4.6's language compiler: it walks the AST
// internal/specsyntax parses out of a specification source and populates a
// shared terminal dictionary, NDFA, and grammar with every language block's
// keywords/lexer/ignore/grammar rules, following an inheritance chain
// parent-first and validating the result.
//
// Grounded on ictiobus's two-pass "frontend" compilation shape (parse, then
// a semantic pass turning the parsed AST into the types downstream stages
// consume — see _examples/dekarrin-tunaq/internal/ictiobus/fishi's
// host-file-to-Spec flow), generalized from ictiobus's single flat spec to
// this module's inheritance-chain-of-languages model, which ictiobus has no
// equivalent of.
package langc

import (
	"github.com/dekarrin/tamelang/internal/automaton"
	"github.com/dekarrin/tamelang/internal/diag"
	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/regexc"
	"github.com/dekarrin/tamelang/internal/specsyntax"
	"github.com/dekarrin/tamelang/internal/symset"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/dekarrin/tamelang/internal/util"
)

// CompiledLanguage is one language block's fully compiled result: the
// shared terminal dictionary, NDFA, and grammar it contributed to
// (inherited content already folded in by construction, see Compiler's
// doc comment), plus the weak/ignore terminal sets and start symbol that
// are specific to this language.
type CompiledLanguage struct {
	Name string

	Dict    *terms.Dict
	NDFA    *automaton.NDFA
	Grammar *grammar.Grammar

	Weak   util.KeySet[terms.ID]
	Ignore util.KeySet[terms.ID]

	Start      grammar.NontermID
	StartState int
}

// terminalInfo tracks, per interned terminal id, the bookkeeping spec
// §4.6 step 3's redeclaration rules need: which lexer-block kind declared
// it, and whether it has any NDFA fragment wired in yet.
type terminalInfo struct {
	kind     string // "keywords", "lexer", or "ignore"
	hasRules bool
}

// Compiler compiles every language block of one parsed specsyntax.File
// against one shared terminal dictionary, NDFA, and grammar. Inheritance
// (spec §4.6 step 1) is modeled by compiling a language's parent first and
// letting the child keep contributing to the very same Dict/NDFA/Grammar
// objects — a parent's terminals, patterns, and rules are simply already
// present by the time the child's own Defns are walked, which is
// observably identical to "copy the parent's state into mine" for the
// single-inheritance-chain shape spec §6's grammar describes (one
// `language Child, Parent : ...` block at a time), at a fraction of the
// bookkeeping a deep copy would need. See DESIGN.md for the tradeoff this
// makes for sibling languages that do not share an ancestor.
type Compiler struct {
	dict    *terms.Dict
	ndfa    *automaton.NDFA
	grammar *grammar.Grammar
	bag     *diag.Bag
	cfg     *diag.Config
	file    string

	byName map[string]*specsyntax.LanguageBlock
	done   map[string]*CompiledLanguage
	active map[string]bool // cycle guard: names currently mid-compile

	terminals map[terms.ID]*terminalInfo
	localTerm map[string]bool // names/literal-texts this run has interned, for the unused-terminal sweep

	macros map[string]regexc.Macros // per-language macro table, copied forward on inherit

	startSet bool // whether the grammar's start symbol has been assigned yet
}

// NewCompiler builds a Compiler over f, sharing dict across every language
// it compiles (callers that want full isolation between unrelated files
// should use a fresh terms.NewDict() per file).
func NewCompiler(f *specsyntax.File, dict *terms.Dict, cfg *diag.Config, bag *diag.Bag, file string) *Compiler {
	c := &Compiler{
		dict:      dict,
		ndfa:      automaton.NewNDFA(symset.NewMap()),
		grammar:   grammar.NewGrammar(dict),
		bag:       bag,
		cfg:       cfg,
		file:      file,
		byName:    map[string]*specsyntax.LanguageBlock{},
		done:      map[string]*CompiledLanguage{},
		active:    map[string]bool{},
		terminals: map[terms.ID]*terminalInfo{},
		localTerm: map[string]bool{},
		macros:    map[string]regexc.Macros{},
	}
	for _, lb := range f.Languages {
		for _, name := range lb.Names {
			c.byName[name] = lb
		}
	}
	return c
}

// CompileAll compiles every language block declared at the top level of
// the file (i.e. every block whose primary name was ever the first name
// in its own `language` declaration), returning them by name.
func (c *Compiler) CompileAll(f *specsyntax.File) map[string]*CompiledLanguage {
	out := map[string]*CompiledLanguage{}
	for _, lb := range f.Languages {
		cl := c.compile(lb.Names[0])
		if cl != nil {
			out[lb.Names[0]] = cl
		}
	}
	return out
}

func (c *Compiler) compile(name string) *CompiledLanguage {
	if cl, ok := c.done[name]; ok {
		return cl
	}
	if c.active[name] {
		c.bag.Addf(diag.Error, c.file, diag.CantFindLanguage, diag.Position{},
			"inheritance cycle detected while compiling %q", name)
		return nil
	}
	block, ok := c.byName[name]
	if !ok {
		c.bag.Addf(diag.Error, c.file, diag.CantFindLanguage, diag.Position{},
			"no language named %q is declared", name)
		return nil
	}

	c.active[name] = true
	defer delete(c.active, name)

	myMacros := regexc.Macros{Expressions: map[string]string{}, Literals: map[string]string{}}
	if block.Parent != "" {
		parent := c.compile(block.Parent)
		if parent == nil {
			c.bag.Addf(diag.Error, c.file, diag.CantFindLanguage, block.Pos,
				"language %q declares parent %q, which failed to compile", name, block.Parent)
		} else if pm, ok := c.macros[block.Parent]; ok {
			for k, v := range pm.Expressions {
				myMacros.Expressions[k] = v
			}
			for k, v := range pm.Literals {
				myMacros.Literals[k] = v
			}
		}
	}

	cl := &CompiledLanguage{
		Name:    name,
		Dict:    c.dict,
		NDFA:    c.ndfa,
		Grammar: c.grammar,
		Weak:    util.NewKeySet[terms.ID](),
		Ignore:  util.NewKeySet[terms.ID](),
	}

	c.step2Macros(block, myMacros)
	c.macros[name] = myMacros
	c.step3Lexicon(block, myMacros, cl)
	c.step4ImplicitLiterals(block, cl)
	c.step5Grammar(block)
	cl.Start = c.grammar.Start()
	cl.StartState = 0
	c.step6Validate(cl)

	c.done[name] = cl
	return cl
}

func (c *Compiler) internTerminal(name, kind string) (terms.ID, bool) {
	id, existed := c.dict.Lookup(name)
	if !existed {
		id = c.dict.Intern(name)
	}
	c.localTerm[name] = true
	if _, ok := c.terminals[id]; !ok {
		c.terminals[id] = &terminalInfo{}
	}
	return id, existed
}

func (c *Compiler) step2Macros(block *specsyntax.LanguageBlock, macros regexc.Macros) {
	for _, defn := range block.Defns {
		ls, ok := defn.(*specsyntax.LexerSymbolsBlock)
		if !ok {
			continue
		}
		for k, v := range ls.Expressions {
			macros.Expressions[k] = v
		}
		for k, v := range ls.Literals {
			macros.Literals[k] = v
		}
	}
}

// step3Lexicon walks this language's own keywords/lexer/ignore blocks in
// spec §4.6 step 3's priority order: keywords before lexer before ignore,
// weak items before strong within each.
func (c *Compiler) step3Lexicon(block *specsyntax.LanguageBlock, macros regexc.Macros, cl *CompiledLanguage) {
	type tier struct {
		kind  string
		weak  bool
		items []specsyntax.LexemeDefn
	}
	var tiers []tier
	for _, weak := range []bool{true, false} {
		for _, defn := range block.Defns {
			switch b := defn.(type) {
			case *specsyntax.KeywordsBlock:
				if b.Weak == weak {
					tiers = append(tiers, tier{"keywords", weak, b.Items})
				}
			}
		}
	}
	for _, weak := range []bool{true, false} {
		for _, defn := range block.Defns {
			if b, ok := defn.(*specsyntax.LexerBlock); ok && b.Weak == weak {
				tiers = append(tiers, tier{"lexer", weak, b.Items})
			}
		}
	}
	for _, defn := range block.Defns {
		if b, ok := defn.(*specsyntax.IgnoreBlock); ok {
			tiers = append(tiers, tier{"ignore", false, b.Items})
		}
	}

	comp := regexc.NewCompiler(c.ndfa, regexc.Options{Macros: macros})
	for _, t := range tiers {
		for _, item := range t.Items {
			c.declareLexeme(item, t.kind, t.weak, comp, cl)
		}
	}
}

func (c *Compiler) declareLexeme(item specsyntax.LexemeDefn, kind string, weak bool, comp *regexc.Compiler, cl *CompiledLanguage) {
	id, existed := c.dict.Lookup(item.Name)
	info, haveInfo := c.terminals[id]

	switch item.Op {
	case "|=":
		if !existed || !haveInfo || !info.hasRules {
			c.bag.Addf(diag.Error, c.file, diag.MissingLexerSymbolForAdding, item.Pos,
				"'|=' used on undeclared lexer symbol %q", item.Name)
			return
		}
		if info.kind != kind {
			c.bag.Addf(diag.Error, c.file, diag.CannotAddToDifferentLexerSymbolType, item.Pos,
				"%q was declared as %q, cannot add a %q rule to it", item.Name, info.kind, kind)
			return
		}
	case "=":
		if existed && haveInfo && info.hasRules {
			c.bag.Addf(diag.Error, c.file, diag.DuplicateLexerSymbol, item.Pos,
				"%q already has rules; use '|=' to add another pattern", item.Name)
			return
		}
	default: // ":="
		if existed && haveInfo && info.hasRules {
			c.bag.Addf(diag.Error, c.file, diag.DuplicateLexerSymbol, item.Pos,
				"%q already has rules; use '|=' to add another pattern", item.Name)
			return
		}
	}

	id, _ = c.internTerminal(item.Name, kind)
	info = c.terminals[id]
	info.kind = kind
	info.hasRules = true

	frag, err := c.compilePattern(comp, item.Pattern)
	if err != nil {
		c.bag.Addf(diag.Error, c.file, diag.BugDFAFailedToCompile, item.Pos,
			"compiling pattern for %q: %s", item.Name, err)
		return
	}
	c.ndfa.AddEpsilon(0, frag.Start)
	c.ndfa.AddAccept(frag.End, id, false)

	if weak {
		cl.Weak.Add(id)
	}
	if kind == "ignore" {
		cl.Ignore.Add(id)
	}
}

func (c *Compiler) compilePattern(comp *regexc.Compiler, pat specsyntax.PatternLit) (regexc.Fragment, error) {
	switch pat.Kind {
	case specsyntax.PatternRegex:
		return comp.Compile(pat.Text)
	default: // PatternString, PatternChar: compiled as an exact literal, not regex syntax
		return compileLiteralText(c.ndfa, pat.Text), nil
	}
}

// compileLiteralText builds a straight-line NDFA fragment matching exactly
// text, one state and transition per code point — the same shape
// internal/regexc's own literalRune produces for a single character, just
// chained across the whole string instead of parsed as regex syntax (a
// quoted string/char literal's contents are never re-interpreted as
// regex metacharacters, per spec §6's dequoting rule).
func compileLiteralText(n *automaton.NDFA, text string) regexc.Fragment {
	start := n.AddState()
	cur := start
	for _, r := range text {
		next := n.AddState()
		set := symset.NewSet()
		set.Insert(int(r))
		symID := n.Symbols.Intern(set)
		n.AddTransition(cur, symID, next)
		cur = next
	}
	return regexc.Fragment{Start: start, End: cur}
}
