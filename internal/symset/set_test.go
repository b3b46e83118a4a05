package symset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Set_InsertRange_mergesOverlapping(t *testing.T) {
	s := NewSet()
	s.InsertRange(NewRange(10, 20))
	s.InsertRange(NewRange(15, 25))

	assert.Equal(t, []Range{{Lo: 10, Hi: 25}}, s.Ranges())
}

func Test_Set_InsertRange_mergesTouching(t *testing.T) {
	s := NewSet()
	s.InsertRange(NewRange(10, 20))
	s.InsertRange(NewRange(20, 30))

	assert.Equal(t, []Range{{Lo: 10, Hi: 30}}, s.Ranges())
}

func Test_Set_InsertRange_keepsDisjoint(t *testing.T) {
	s := NewSet()
	s.InsertRange(NewRange(10, 20))
	s.InsertRange(NewRange(30, 40))

	assert.Equal(t, []Range{{Lo: 10, Hi: 20}, {Lo: 30, Hi: 40}}, s.Ranges())
}

func Test_Set_InsertRange_bridgesGapOnThirdInsert(t *testing.T) {
	s := NewSet()
	s.InsertRange(NewRange(10, 20))
	s.InsertRange(NewRange(30, 40))
	s.InsertRange(NewRange(18, 32))

	assert.Equal(t, []Range{{Lo: 10, Hi: 40}}, s.Ranges())
}

func Test_Set_Contains(t *testing.T) {
	s := SetOf(NewRange(10, 20), NewRange(30, 40))

	assert.True(t, s.Contains(15))
	assert.True(t, s.Contains(30))
	assert.False(t, s.Contains(20))
	assert.False(t, s.Contains(9))
	assert.False(t, s.Contains(40))
}

func Test_Set_Union(t *testing.T) {
	a := SetOf(NewRange(0, 10))
	b := SetOf(NewRange(5, 15))

	u := a.Union(b)

	assert.Equal(t, []Range{{Lo: 0, Hi: 15}}, u.Ranges())
}

func Test_Set_Intersect(t *testing.T) {
	a := SetOf(NewRange(0, 10), NewRange(20, 30))
	b := SetOf(NewRange(5, 25))

	i := a.Intersect(b)

	assert.Equal(t, []Range{{Lo: 5, Hi: 10}, {Lo: 20, Hi: 25}}, i.Ranges())
}

func Test_Set_Complement(t *testing.T) {
	a := SetOf(NewRange(10, 20))

	c := a.Complement()

	assert.Equal(t, []Range{{Lo: 0, Hi: 10}, {Lo: 20, Hi: MaxCodePoint}}, c.Ranges())
}

func Test_Set_Difference(t *testing.T) {
	a := SetOf(NewRange(0, 30))
	b := SetOf(NewRange(10, 20))

	d := a.Difference(b)

	assert.Equal(t, []Range{{Lo: 0, Hi: 10}, {Lo: 20, Hi: 30}}, d.Ranges())
}

func Test_Set_Equal(t *testing.T) {
	a := SetOf(NewRange(0, 10), NewRange(20, 30))
	b := SetOf(NewRange(20, 30), NewRange(0, 10))
	c := SetOf(NewRange(0, 10))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func Test_Map_Intern_dedupsEqualSets(t *testing.T) {
	m := NewMap()
	id1 := m.Intern(SetOf(NewRange(0, 10)))
	id2 := m.Intern(SetOf(NewRange(0, 10)))
	id3 := m.Intern(SetOf(NewRange(10, 20)))

	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)
	assert.Equal(t, 2, m.Len())
}

func Test_Map_Find(t *testing.T) {
	m := NewMap()
	idA := m.Intern(SetOf(NewRange(0, 10)))
	idB := m.Intern(SetOf(NewRange(20, 30)))

	found, ok := m.Find(25)
	assert.True(t, ok)
	assert.Equal(t, idB, found)

	found, ok = m.Find(5)
	assert.True(t, ok)
	assert.Equal(t, idA, found)

	_, ok = m.Find(15)
	assert.False(t, ok)
}
