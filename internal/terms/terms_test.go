package terms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Dict_Intern_dedupsByName(t *testing.T) {
	d := NewDict()
	a := d.Intern("num")
	b := d.Intern("num")
	c := d.Intern("plus")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func Test_Dict_Split_parentResolution(t *testing.T) {
	d := NewDict()
	ifTok := d.Intern("if")
	child1 := d.Split(ifTok)
	child2 := d.Split(child1) // split of a split: flattens to ifTok

	assert.Equal(t, ifTok, d.ParentOf(child1))
	assert.Equal(t, ifTok, d.ParentOf(child2))
	assert.Equal(t, ifTok, d.ParentOf(ifTok))
}

func Test_Dict_Split_inheritsDisplayName(t *testing.T) {
	d := NewDict()
	ifTok := d.Intern("if")
	child := d.Split(ifTok)

	assert.Equal(t, "if", d.NameFor(child))
	assert.Equal(t, d.NameFor(ifTok), d.NameFor(child))
}

func Test_Dict_Split_neverReusesIDs(t *testing.T) {
	d := NewDict()
	ifTok := d.Intern("if")
	d.Intern("ident")
	child := d.Split(ifTok)

	assert.NotEqual(t, ifTok, child)
	assert.Equal(t, 3, d.Len())
}

func Test_Dict_IsSplit(t *testing.T) {
	d := NewDict()
	ifTok := d.Intern("if")
	child := d.Split(ifTok)

	assert.False(t, d.IsSplit(ifTok))
	assert.True(t, d.IsSplit(child))
}

func Test_Dict_Children(t *testing.T) {
	d := NewDict()
	ifTok := d.Intern("if")
	c1 := d.Split(ifTok)
	c2 := d.Split(ifTok)

	children := d.Children(ifTok)
	assert.ElementsMatch(t, []ID{c1, c2}, children)
}
