package symset

// Map interns symbol sets, handing back a small dense id for each distinct
// set so automaton transitions can key on an int instead of carrying a
// full Set around. Grounded the same way as the rest of this package: the
// original's symbol_table assigns each distinct alphabet partition a dense
// ordinal during NDFA-to-DFA translation (ndfa_transformations.cpp); here
// that assignment is made explicit and queryable ahead of time instead of
// being an implicit side effect of determinization.
type Map struct {
	sets []*Set
	byKey map[string]int
}

// NewMap builds an empty symbol map.
func NewMap() *Map {
	return &Map{byKey: make(map[string]int)}
}

// Intern returns the id for s, creating a new entry if an equal set has
// not been seen before. Two Sets are the same entry iff Equal.
func (m *Map) Intern(s *Set) int {
	key := s.String()
	if id, ok := m.byKey[key]; ok {
		return id
	}
	id := len(m.sets)
	m.sets = append(m.sets, s.Copy())
	m.byKey[key] = id
	return id
}

// Get returns the Set for id. Panics if id is out of range; callers only
// ever pass back ids this Map itself issued.
func (m *Map) Get(id int) *Set {
	return m.sets[id]
}

// Len returns the number of distinct sets interned so far.
func (m *Map) Len() int {
	return len(m.sets)
}

// Find returns the id for the input code point across all interned sets,
// and whether any interned set contains it.
func (m *Map) Find(v int) (int, bool) {
	for id, s := range m.sets {
		if s.Contains(v) {
			return id, true
		}
	}
	return -1, false
}

// All returns every interned set, indexed by id.
func (m *Map) All() []*Set {
	out := make([]*Set, len(m.sets))
	for i, s := range m.sets {
		out[i] = s.Copy()
	}
	return out
}
