package regexc

import (
	"fmt"
	"unicode"

	"github.com/dekarrin/tamelang/internal/symset"
)

// unicodeCategories maps the `{unicode-*}`/`{u-*}` names spec §4.3 allows
// onto the standard library's *unicode.RangeTable values, which are the
// authoritative Unicode category boundaries: spec §12 (via
// SPEC_FULL.md) notes this is the one place in the domain stack where
// reaching for the standard library is the correct call, since re-deriving
// Unicode category ranges by hand would be a correctness hazard the
// ecosystem specifically exists to avoid.
var unicodeCategories = map[string]*unicode.RangeTable{
	"letter":            unicode.Letter,
	"letter-uppercase":  unicode.Lu,
	"letter-lowercase":  unicode.Ll,
	"letter-titlecase":  unicode.Lt,
	"letter-modifier":   unicode.Lm,
	"letter-other":      unicode.Lo,
	"mark":              unicode.Mark,
	"number":            unicode.Number,
	"number-decimal":    unicode.Nd,
	"punctuation":       unicode.Punct,
	"symbol":            unicode.Symbol,
	"separator":         unicode.Space,
	"control":           unicode.Cc,
}

// categoryName strips either "unicode-" or "u-" before looking a name up
// in unicodeCategories.
func categoryName(name string) (string, bool) {
	switch {
	case len(name) > len("unicode-") && name[:len("unicode-")] == "unicode-":
		return name[len("unicode-"):], true
	case len(name) > len("u-") && name[:len("u-")] == "u-":
		return name[len("u-"):], true
	}
	return "", false
}

// lookupUnicodeCategory resolves a `{name}` reference to a Unicode
// category, if it is one.
func lookupUnicodeCategory(name string) (*unicode.RangeTable, bool) {
	short, ok := categoryName(name)
	if !ok {
		return nil, false
	}
	rt, ok := unicodeCategories[short]
	return rt, ok
}

// rangeTableToSet converts a *unicode.RangeTable into a symset.Set.
func rangeTableToSet(rt *unicode.RangeTable) *symset.Set {
	set := symset.NewSet()
	for _, r16 := range rt.R16 {
		for v := int(r16.Lo); v <= int(r16.Hi); v += int(r16.Stride) {
			set.Insert(v)
		}
	}
	for _, r32 := range rt.R32 {
		for v := int(r32.Lo); v <= int(r32.Hi); v += int(r32.Stride) {
			set.Insert(v)
		}
	}
	return set
}

// parseNamedRef compiles a `{name}` reference: either a built-in Unicode
// category or a user-defined macro (spec §4.6 step 2's
// define_expression/define_expression_literal).
func (c *Compiler) parseNamedRef() (Fragment, error) {
	c.advance() // consume '{'
	start := c.pos
	for !c.eof() && c.peek() != '}' {
		c.advance()
	}
	if c.eof() {
		return Fragment{}, fmt.Errorf("regexc: unterminated {name} reference")
	}
	name := string(c.src[start:c.pos])
	c.advance() // consume '}'

	if rt, ok := lookupUnicodeCategory(name); ok {
		return c.literalSet(rangeTableToSet(rt)), nil
	}

	if expr, ok := c.opts.Macros.Expressions[name]; ok {
		sub := NewCompiler(c.ndfa, c.opts)
		return sub.Compile(expr)
	}

	if lit, ok := c.opts.Macros.Literals[name]; ok {
		return c.compileLiteralString(lit)
	}

	return Fragment{}, fmt.Errorf("regexc: undefined subexpression %q", name)
}

// compileLiteralString compiles a pre-dequoted literal string macro as a
// sequence of exact-match code points, never re-interpreting it as regex
// syntax.
func (c *Compiler) compileLiteralString(s string) (Fragment, error) {
	runes := []rune(s)
	if len(runes) == 0 {
		st := c.ndfa.AddState()
		return Fragment{Start: st, End: st}, nil
	}
	frag := c.literalRune(runes[0])
	for _, r := range runes[1:] {
		next := c.literalRune(r)
		c.ndfa.AddEpsilon(frag.End, next.Start)
		frag.End = next.End
	}
	return frag, nil
}

// foldCase adds the opposite-case code point(s) of r to set, using Go's
// unicode.ToUpper/ToLower, matching spec §4.3's "folds each class into
// both its uppercase and lowercase code-point equivalents via built-in
// Unicode category tables."
func foldCase(set *symset.Set, r rune) {
	if u := unicode.ToUpper(r); u != r {
		set.Insert(int(u))
	}
	if l := unicode.ToLower(r); l != r {
		set.Insert(int(l))
	}
}
