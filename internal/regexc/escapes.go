package regexc

import (
	"fmt"
	"strconv"
)

// parseEscape consumes the character(s) after a backslash already
// consumed by the caller and returns the resulting code point, per spec
// §6's escape table (shared between regex literals and quoted strings):
// \n \r \t \a \e \f, \xHH, \uHHHH, \oOOO, and \\ for a literal backslash.
func (c *Compiler) parseEscape() (rune, error) {
	if c.eof() {
		return 0, fmt.Errorf("regexc: dangling escape at end of pattern")
	}
	switch r := c.advance(); r {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'a':
		return '\a', nil
	case 'e':
		return 0x1b, nil
	case 'f':
		return '\f', nil
	case '\\':
		return '\\', nil
	case 'x':
		return c.readHexEscape(2)
	case 'u':
		return c.readHexEscape(4)
	case 'o':
		return c.readOctalEscape(3)
	default:
		// any other escaped character passes through literally, e.g. \. \/ \[
		return r, nil
	}
}

func (c *Compiler) readHexEscape(digits int) (rune, error) {
	if c.pos+digits > len(c.src) {
		return 0, fmt.Errorf("regexc: truncated hex escape at position %d", c.pos)
	}
	s := string(c.src[c.pos : c.pos+digits])
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("regexc: invalid hex escape %q at position %d", s, c.pos)
	}
	c.pos += digits
	return rune(v), nil
}

func (c *Compiler) readOctalEscape(digits int) (rune, error) {
	if c.pos+digits > len(c.src) {
		return 0, fmt.Errorf("regexc: truncated octal escape at position %d", c.pos)
	}
	s := string(c.src[c.pos : c.pos+digits])
	v, err := strconv.ParseInt(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("regexc: invalid octal escape %q at position %d", s, c.pos)
	}
	c.pos += digits
	return rune(v), nil
}

// Dequote implements spec §6's dequoting rule for string/char literals:
// strip the first and last character, then walk the interior replacing the
// named escapes \n \r \t \a \e \f and passing any other escaped character
// through literally; unlike parseEscape it does not interpret \x, \u or \o.
// It does not live on a Compiler, since dequoting runs on quoted strings
// outside of any regex context.
func Dequote(quoted string) (string, error) {
	if len(quoted) < 2 {
		return "", fmt.Errorf("regexc: %q is too short to be a quoted literal", quoted)
	}
	runes := []rune(quoted)
	interior := runes[1 : len(runes)-1]

	var out []rune
	for i := 0; i < len(interior); i++ {
		if interior[i] != '\\' {
			out = append(out, interior[i])
			continue
		}
		i++
		if i >= len(interior) {
			return "", fmt.Errorf("regexc: dangling escape in %q", quoted)
		}
		switch interior[i] {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'a':
			out = append(out, '\a')
		case 'e':
			out = append(out, 0x1b)
		case 'f':
			out = append(out, '\f')
		default:
			out = append(out, interior[i])
		}
	}
	return string(out), nil
}
