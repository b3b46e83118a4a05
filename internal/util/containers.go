package util

import "sort"

// Container is the minimal read-only view shared by every set
// implementation in this package: something that can hand back its
// elements as a slice.
type Container[E any] interface {
	Elements() []E
}

// OrderedKeys returns the keys of m sorted ascending. It is used throughout
// the automaton and grammar packages to get a deterministic iteration order
// over maps keyed by state/item names, which would otherwise be randomized
// by Go's map iteration.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OrderedIntKeys is OrderedKeys for maps keyed by int.
func OrderedIntKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Stack is a simple LIFO of T. The zero value is an empty, usable stack.
type Stack[T any] struct {
	Of []T
}

// Push adds v to the top of the stack.
func (s *Stack[T]) Push(v T) {
	s.Of = append(s.Of, v)
}

// Pop removes and returns the top of the stack. Panics if the stack is
// empty; callers are expected to check Len or Empty first, same as the
// rest of this package's containers do on misuse.
func (s *Stack[T]) Pop() T {
	if len(s.Of) == 0 {
		panic("pop of empty stack")
	}
	top := s.Of[len(s.Of)-1]
	s.Of = s.Of[:len(s.Of)-1]
	return top
}

// Peek returns the top of the stack without removing it. Panics if empty.
func (s *Stack[T]) Peek() T {
	if len(s.Of) == 0 {
		panic("peek of empty stack")
	}
	return s.Of[len(s.Of)-1]
}

// Len returns the number of items on the stack.
func (s *Stack[T]) Len() int {
	return len(s.Of)
}

// Empty returns whether the stack has no items.
func (s *Stack[T]) Empty() bool {
	return len(s.Of) == 0
}

// ArticleFor returns "a" or "an" depending on whether word starts with a
// vowel sound, capitalized if startOfSentence is set. It's a rough
// heuristic (vowel-letter based), good enough for diagnostic messages.
func ArticleFor(word string, startOfSentence bool) string {
	article := "a"
	if len(word) > 0 {
		switch word[0] {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			article = "an"
		}
	}
	if startOfSentence {
		return string(article[0]-('a'-'A')) + article[1:]
	}
	return article
}
