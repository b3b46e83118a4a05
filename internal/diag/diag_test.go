package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Bag_HasErrors(t *testing.T) {
	b := NewBag()
	assert.False(t, b.HasErrors())

	b.Addf(Warning, "spec.tam", ImplicitLexerSymbol, Position{}, "implicit terminal %q", "+")
	assert.False(t, b.HasErrors())

	b.Addf(Error, "spec.tam", UndefinedNonterminal, Position{}, "nonterminal %q not defined", "Foo")
	assert.True(t, b.HasErrors())
}

func Test_Bag_Len_and_All(t *testing.T) {
	b := NewBag()
	b.Add(Diagnostic{Severity: Detail, ID: DuplicateLexerSymbol})
	b.Add(Diagnostic{Severity: Bug, ID: BugDFAFailedToCompile})

	assert.Equal(t, 2, b.Len())
	assert.Len(t, b.All(), 2)
	assert.True(t, b.HasErrors()) // Bug counts as an error-class severity
}

func Test_Config_defaultsFalse(t *testing.T) {
	c := NewConfig()
	assert.False(t, c.Get(AllowEmptyGuards))

	c.Set(AllowEmptyGuards, true)
	assert.True(t, c.Get(AllowEmptyGuards))
}

func Test_Severity_String(t *testing.T) {
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "bug", Bug.String())
}
