// Package terms implements the terminal dictionary: the bijection between
// terminal names and dense terminal ids, plus the "splitting" operation a
// weak terminal goes through when the lexer compiler finds it needs more
// than one context-specific identity.
//
// Grounded on ictiobus's types.TokenClass (_examples/dekarrin-tunaq/internal/ictiobus/types/class.go)
// for the name/id pairing idea, generalized per spec §3/§4.4 to add parent
// tracking for splits, which TokenClass does not have.
package terms

import "fmt"

// ID is a dense terminal identifier, assigned in allocation order starting
// at 0. IDs are never reused, including after a split.
type ID int

// Dict is the terminal dictionary: a bijection between terminal names and
// IDs, plus a parent-of map recording which IDs are splits of another.
type Dict struct {
	names   []string
	byName  map[string]ID
	parent  map[ID]ID // child -> ultimate ancestor
}

// NewDict builds an empty dictionary.
func NewDict() *Dict {
	return &Dict{
		byName: make(map[string]ID),
		parent: make(map[ID]ID),
	}
}

// Intern returns the ID for name, allocating a fresh one if name is new.
func (d *Dict) Intern(name string) ID {
	if id, ok := d.byName[name]; ok {
		return id
	}
	id := ID(len(d.names))
	d.names = append(d.names, name)
	d.byName[name] = id
	return id
}

// Lookup returns the ID already assigned to name, if any.
func (d *Dict) Lookup(name string) (ID, bool) {
	id, ok := d.byName[name]
	return id, ok
}

// Split allocates a fresh ID that is a split child of id, returning the new
// ID. If id is itself a split child, the new ID's parent is id's ultimate
// ancestor (chains are flattened, per spec §3: "child of a child is
// flattened to a child of the original parent").
func (d *Dict) Split(id ID) ID {
	ancestor := d.ParentOf(id)
	newID := ID(len(d.names))
	// split children share their ancestor's display name but get their own
	// synthetic internal name so future Intern calls never collide with them.
	name := fmt.Sprintf("%s#split%d", d.NameFor(ancestor), int(newID))
	d.names = append(d.names, name)
	d.byName[name] = newID
	d.parent[newID] = ancestor
	return newID
}

// ParentOf returns the ultimate ancestor of id (id itself if it is not a
// split child).
func (d *Dict) ParentOf(id ID) ID {
	if p, ok := d.parent[id]; ok {
		return p
	}
	return id
}

// IsSplit returns whether id was produced by Split.
func (d *Dict) IsSplit(id ID) bool {
	_, ok := d.parent[id]
	return ok
}

// NameFor returns the display name for id: a split child reports its
// ultimate ancestor's name, never its own synthetic one, per spec §4.4 and
// the original's terminal_dictionary.cpp inheritance of display names.
func (d *Dict) NameFor(id ID) string {
	ancestor := d.ParentOf(id)
	return d.names[ancestor]
}

// Len returns the number of IDs allocated, including split children.
func (d *Dict) Len() int {
	return len(d.names)
}

// Children returns every split child of id, direct or flattened.
func (d *Dict) Children(id ID) []ID {
	var out []ID
	for child, anc := range d.parent {
		if anc == id {
			out = append(out, child)
		}
	}
	return out
}
