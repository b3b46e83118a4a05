// Package symset implements the symbol-range and symbol-set algebra that the
// regex compiler and lexer DFA are built on: disjoint integer ranges over
// code points, and ordered collections of them supporting union,
// intersection, and complement.
//
// This has no direct analogue in the teacher (ictiobus's lexer package
// never got past a TODO stub for its DFA-based implementation, see
// lex/regex.go), so it is grounded instead on the original C++ this system
// was distilled from: _examples/original_source/Dfa/range.h and
// symbol_table.h.
package symset

import "fmt"

// MaxCodePoint is the exclusive upper bound on any range this package will
// accept. The original's symbol_table<int> masks to [0, 0x7fffffff]; code
// points at or above that are undefined behavior there and unsupported
// here rather than silently extended, per spec open question 3.
const MaxCodePoint = 0x7fffffff

// Range is an inclusive-exclusive [Lo, Hi) span of code points.
type Range struct {
	Lo int
	Hi int
}

// NewRange builds a Range, panicking if lo >= hi or the span falls outside
// [0, MaxCodePoint]. A Range is a value type: invalid construction is a bug
// and should never survive past the caller that built it.
func NewRange(lo, hi int) Range {
	if lo < 0 || hi > MaxCodePoint {
		panic(fmt.Sprintf("symset: range [%d, %d) out of bounds [0, %d)", lo, hi, MaxCodePoint))
	}
	if lo >= hi {
		panic(fmt.Sprintf("symset: invalid range [%d, %d): lo must be < hi", lo, hi))
	}
	return Range{Lo: lo, Hi: hi}
}

// Single returns the one-code-point range [v, v+1).
func Single(v int) Range {
	return NewRange(v, v+1)
}

// Contains returns whether v falls within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Lo && v < r.Hi
}

// Overlaps returns whether r and o share at least one code point.
func (r Range) Overlaps(o Range) bool {
	return r.Lo < o.Hi && o.Lo < r.Hi
}

// Touches returns whether r and o are adjacent (share no code point but
// abut exactly), and so should be merged into one range rather than kept
// as two.
func (r Range) Touches(o Range) bool {
	return r.Hi == o.Lo || o.Hi == r.Lo
}

// CanMerge returns whether r and o overlap or touch, i.e. whether Merge
// produces a single contiguous range rather than silently dropping a gap.
func (r Range) CanMerge(o Range) bool {
	return r.Overlaps(o) || r.Touches(o)
}

// Merge returns the smallest range containing both r and o. Only meaningful
// when CanMerge(o) holds; callers that merge disjoint, non-touching ranges
// will silently bridge the gap between them, which is never what a caller
// of this package wants, so it is their responsibility to check first.
func (r Range) Merge(o Range) Range {
	lo := r.Lo
	if o.Lo < lo {
		lo = o.Lo
	}
	hi := r.Hi
	if o.Hi > hi {
		hi = o.Hi
	}
	return Range{Lo: lo, Hi: hi}
}

// Less orders ranges by (Lo, Hi), which is the canonical ordering a Set
// keeps its ranges in.
func (r Range) Less(o Range) bool {
	return r.Lo < o.Lo || (r.Lo == o.Lo && r.Hi < o.Hi)
}

func (r Range) String() string {
	if r.Hi == r.Lo+1 {
		return fmt.Sprintf("[%#x]", r.Lo)
	}
	return fmt.Sprintf("[%#x, %#x)", r.Lo, r.Hi)
}
