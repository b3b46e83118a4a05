package regexc

import (
	"testing"

	"github.com/dekarrin/tamelang/internal/automaton"
	"github.com/dekarrin/tamelang/internal/symset"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run walks input through d from its start state, returning whether it
// ends in an accepting state having consumed every code point.
func run(d *automaton.DFA, symbols *symset.Map, input string) bool {
	cur := d.Start()
	for _, r := range input {
		id, ok := symbols.Find(int(r))
		if !ok {
			return false
		}
		next, ok := d.Next(cur, id)
		if !ok {
			return false
		}
		cur = next
	}
	return d.IsAccepting(cur)
}

func compileAndRun(t *testing.T, pattern string, opts Options, input string) bool {
	t.Helper()
	symbols := symset.NewMap()
	ndfa := automaton.NewNDFA(symbols)
	dict := terms.NewDict()
	tok := dict.Intern("tok")

	c := NewCompiler(ndfa, opts)
	frag, err := c.Compile(pattern)
	require.NoError(t, err)

	ndfa.AddAccept(frag.End, tok, false)
	ndfa.AddEpsilon(0, frag.Start)

	d := ndfa.ToDFA([]int{0})
	return run(d, symbols, input)
}

func Test_Regexc_literalConcat(t *testing.T) {
	assert.True(t, compileAndRun(t, "ab", Options{}, "ab"))
	assert.False(t, compileAndRun(t, "ab", Options{}, "ac"))
}

func Test_Regexc_alternation(t *testing.T) {
	assert.True(t, compileAndRun(t, "cat|dog", Options{}, "cat"))
	assert.True(t, compileAndRun(t, "cat|dog", Options{}, "dog"))
	assert.False(t, compileAndRun(t, "cat|dog", Options{}, "cow"))
}

func Test_Regexc_optional(t *testing.T) {
	assert.True(t, compileAndRun(t, "x?yz", Options{}, "yz"))
	assert.True(t, compileAndRun(t, "x?yz", Options{}, "xyz"))
	assert.False(t, compileAndRun(t, "x?yz", Options{}, "xxyz"))
}

func Test_Regexc_repeatZero(t *testing.T) {
	assert.True(t, compileAndRun(t, "xy*z", Options{}, "xz"))
	assert.True(t, compileAndRun(t, "xy*z", Options{}, "xyyyz"))
}

func Test_Regexc_repeatOne(t *testing.T) {
	assert.False(t, compileAndRun(t, "xy+z", Options{}, "xz"))
	assert.True(t, compileAndRun(t, "xy+z", Options{}, "xyz"))
}

func Test_Regexc_scenarioC_optionalAndRepeat(t *testing.T) {
	pat := "x?y*z"
	assert.True(t, compileAndRun(t, pat, Options{}, "z"))
	assert.True(t, compileAndRun(t, pat, Options{}, "xyyyz"))
	assert.False(t, compileAndRun(t, pat, Options{}, "xxz"))
}

func Test_Regexc_characterClass(t *testing.T) {
	assert.True(t, compileAndRun(t, "[a-z]+", Options{}, "hello"))
	assert.False(t, compileAndRun(t, "[a-z]+", Options{}, "HELLO"))
}

func Test_Regexc_negatedClass(t *testing.T) {
	assert.True(t, compileAndRun(t, "[^0-9]", Options{}, "a"))
	assert.False(t, compileAndRun(t, "[^0-9]", Options{}, "5"))
}

func Test_Regexc_scenarioD_caseInsensitive(t *testing.T) {
	opts := Options{CaseInsensitive: true}
	assert.True(t, compileAndRun(t, "if", opts, "If"))
	assert.True(t, compileAndRun(t, "if", opts, "IF"))
	assert.True(t, compileAndRun(t, "if", opts, "if"))
}

func Test_Regexc_scenarioE_unicodeCategory(t *testing.T) {
	assert.True(t, compileAndRun(t, "{unicode-letter}+", Options{}, "αβγ"))
}

func Test_Regexc_escapes(t *testing.T) {
	assert.True(t, compileAndRun(t, `\n`, Options{}, "\n"))
	assert.True(t, compileAndRun(t, `\x41`, Options{}, "A"))
}

func Test_Dequote(t *testing.T) {
	got, err := Dequote(`"a\nb"`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)

	got, err = Dequote(`'x'`)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}
