package langc

import (
	"github.com/dekarrin/tamelang/internal/diag"
	"github.com/dekarrin/tamelang/internal/specsyntax"
)

// step4ImplicitLiterals walks every grammar-block production of block,
// interning a terminal for each EString/EChar item that names a literal
// never declared in a keywords/lexer block (spec §4.6 step 4). Such a
// terminal gets its own straight-line NDFA fragment on the spot and joins
// the weak-terminal set, since an inline literal like `"+"` is exactly the
// shape of an unnamed keyword: its pattern is also a valid ordinary token
// wherever a broader rule (an operator class, an ident rule) would also
// match it.
func (c *Compiler) step4ImplicitLiterals(block *specsyntax.LanguageBlock, cl *CompiledLanguage) {
	for _, defn := range block.Defns {
		gb, ok := defn.(*specsyntax.GrammarBlock)
		if !ok {
			continue
		}
		for _, rule := range gb.Rules {
			for _, prod := range rule.Productions {
				c.internImplicitIn(prod, cl)
			}
		}
	}
}

func (c *Compiler) internImplicitIn(items []specsyntax.EbnfItem, cl *CompiledLanguage) {
	for _, it := range items {
		switch it.Kind {
		case specsyntax.EString, specsyntax.EChar:
			c.internImplicitLiteral(it, cl)
		default:
			c.internImplicitIn(it.Sub, cl)
		}
	}
}

func (c *Compiler) internImplicitLiteral(it specsyntax.EbnfItem, cl *CompiledLanguage) {
	if _, existed := c.dict.Lookup(it.Text); existed {
		return
	}

	c.bag.Addf(diag.Warning, c.file, diag.ImplicitLexerSymbol, it.Pos,
		"literal %q used directly in a production is not declared in any keywords/lexer block; "+
			"treating it as an implicitly-defined weak keyword", it.Text)

	id, _ := c.internTerminal(it.Text, "keywords")
	info := c.terminals[id]
	info.kind = "keywords"
	info.hasRules = true

	frag := compileLiteralText(c.ndfa, it.Text)
	c.ndfa.AddEpsilon(0, frag.Start)
	c.ndfa.AddAccept(frag.End, id, false)

	cl.Weak.Add(id)
}
