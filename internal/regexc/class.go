package regexc

import (
	"fmt"

	"github.com/dekarrin/tamelang/internal/symset"
)

// parseClass compiles a `[...]` character class: `[abc]`, `[^abc]`
// (complement), and `[a-z]` ranges, per spec §4.3.
func (c *Compiler) parseClass() (Fragment, error) {
	c.advance() // consume '['

	negate := false
	if !c.eof() && c.peek() == '^' {
		negate = true
		c.advance()
	}

	set := symset.NewSet()
	first := true
	for {
		if c.eof() {
			return Fragment{}, fmt.Errorf("regexc: unterminated character class")
		}
		if c.peek() == ']' && !first {
			c.advance()
			break
		}
		first = false

		lo, err := c.readClassRune()
		if err != nil {
			return Fragment{}, err
		}

		if !c.eof() && c.peek() == '-' && c.pos+1 < len(c.src) && c.src[c.pos+1] != ']' {
			c.advance() // consume '-'
			hi, err := c.readClassRune()
			if err != nil {
				return Fragment{}, err
			}
			if hi < lo {
				return Fragment{}, fmt.Errorf("regexc: invalid class range %q-%q", lo, hi)
			}
			set.InsertRange(symset.NewRange(int(lo), int(hi)+1))
			if c.opts.CaseInsensitive {
				for r := lo; r <= hi; r++ {
					foldCase(set, r)
				}
			}
		} else {
			set.Insert(int(lo))
			if c.opts.CaseInsensitive {
				foldCase(set, lo)
			}
		}
	}

	if negate {
		set = set.Complement()
	}

	return c.literalSet(set), nil
}

func (c *Compiler) readClassRune() (rune, error) {
	if c.peek() == '\\' {
		c.advance()
		return c.parseEscape()
	}
	return c.advance(), nil
}
