package lrtables

import (
	"encoding"
	"encoding/binary"
	"fmt"

	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/rewrite"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/dekarrin/tamelang/internal/util"
)

// Binary encoding of a PackedTable follows the same fixed-width-int,
// count-prefixed-collection idiom as dekarrin-tunaq's tunascript/binary.go:
// every integer is packed into 8 bytes (plenty for the varint range an int
// ever needs here) and every slice/map is a count followed by that many
// entries, so decoding never has to guess a length. A PackedTable holds
// nothing but terminal/nonterminal/rule ids and integers, so that is the
// entire alphabet binary.go needs here; unlike tunascript's save-game data
// there are no strings or bools to encode.
var (
	_ encoding.BinaryMarshaler   = (*PackedTable)(nil)
	_ encoding.BinaryUnmarshaler = (*PackedTable)(nil)
)

func encInt(i int) []byte {
	buf := make([]byte, 8)
	binary.PutVarint(buf, int64(i))
	return buf
}

func decInt(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("unexpected end of data reading int")
	}
	v, n := binary.Varint(data[:8])
	if n <= 0 {
		return 0, 0, fmt.Errorf("malformed varint")
	}
	return int(v), 8, nil
}

// MarshalBinary encodes t for internal/tablecache's on-disk store.
//
// Grounded on _examples/dekarrin-tunaq/internal/tunascript/binary.go's
// encBinary family (MarshalBinary delegating to package-level encXxx
// helpers called in a fixed field order matching UnmarshalBinary's read
// order).
func (t *PackedTable) MarshalBinary() ([]byte, error) {
	var out []byte
	out = append(out, encInt(t.Start)...)
	out = append(out, encInt(int(t.EndOfInput))...)

	out = append(out, encInt(len(t.action))...)
	for _, row := range t.action {
		out = append(out, encInt(len(row))...)
		for term, act := range row {
			out = append(out, encInt(int(term))...)
			out = append(out, encInt(int(act.Kind))...)
			out = append(out, encInt(act.State)...)
			out = append(out, encInt(int(act.Rule))...)
			out = append(out, encInt(int(act.Strong))...)
		}
	}

	out = append(out, encInt(len(t.goTo))...)
	for _, row := range t.goTo {
		out = append(out, encInt(len(row))...)
		for nt, target := range row {
			out = append(out, encInt(int(nt))...)
			out = append(out, encInt(target)...)
		}
	}

	out = append(out, encInt(len(t.guards))...)
	for _, row := range t.guards {
		out = append(out, encInt(len(row))...)
		for rid, gi := range row {
			out = append(out, encInt(int(rid))...)
			out = append(out, encInt(gi.Target)...)
			elems := gi.First.Elements()
			out = append(out, encInt(len(elems))...)
			for _, e := range elems {
				out = append(out, encInt(int(e))...)
			}
		}
	}

	out = append(out, encInt(len(t.rules))...)
	for _, r := range t.rules {
		out = append(out, encInt(int(r.NonTerminal))...)
		out = append(out, encInt(r.Length)...)
	}

	return out, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary into t, replacing
// whatever it previously held.
func (t *PackedTable) UnmarshalBinary(data []byte) error {
	pos := 0
	readInt := func() (int, error) {
		v, n, err := decInt(data[pos:])
		if err != nil {
			return 0, err
		}
		pos += n
		return v, nil
	}

	start, err := readInt()
	if err != nil {
		return fmt.Errorf("Start: %w", err)
	}
	eoi, err := readInt()
	if err != nil {
		return fmt.Errorf("EndOfInput: %w", err)
	}

	numStates, err := readInt()
	if err != nil {
		return fmt.Errorf("action count: %w", err)
	}
	action := make([]map[terms.ID]rewrite.RAction, numStates)
	for i := 0; i < numStates; i++ {
		n, err := readInt()
		if err != nil {
			return fmt.Errorf("action[%d] count: %w", i, err)
		}
		row := make(map[terms.ID]rewrite.RAction, n)
		for j := 0; j < n; j++ {
			term, err := readInt()
			if err != nil {
				return fmt.Errorf("action[%d][%d] term: %w", i, j, err)
			}
			kind, err := readInt()
			if err != nil {
				return fmt.Errorf("action[%d][%d] kind: %w", i, j, err)
			}
			state, err := readInt()
			if err != nil {
				return fmt.Errorf("action[%d][%d] state: %w", i, j, err)
			}
			rule, err := readInt()
			if err != nil {
				return fmt.Errorf("action[%d][%d] rule: %w", i, j, err)
			}
			strong, err := readInt()
			if err != nil {
				return fmt.Errorf("action[%d][%d] strong: %w", i, j, err)
			}
			row[terms.ID(term)] = rewrite.RAction{
				Kind:   rewrite.RActionKind(kind),
				State:  state,
				Rule:   grammar.RuleID(rule),
				Strong: terms.ID(strong),
			}
		}
		action[i] = row
	}

	numGoto, err := readInt()
	if err != nil {
		return fmt.Errorf("goTo count: %w", err)
	}
	goTo := make([]map[grammar.NontermID]int, numGoto)
	for i := 0; i < numGoto; i++ {
		n, err := readInt()
		if err != nil {
			return fmt.Errorf("goTo[%d] count: %w", i, err)
		}
		row := make(map[grammar.NontermID]int, n)
		for j := 0; j < n; j++ {
			nt, err := readInt()
			if err != nil {
				return fmt.Errorf("goTo[%d][%d] nt: %w", i, j, err)
			}
			target, err := readInt()
			if err != nil {
				return fmt.Errorf("goTo[%d][%d] target: %w", i, j, err)
			}
			row[grammar.NontermID(nt)] = target
		}
		goTo[i] = row
	}

	numGuardRows, err := readInt()
	if err != nil {
		return fmt.Errorf("guards count: %w", err)
	}
	guards := make([]map[grammar.RuleID]guardInfo, numGuardRows)
	for i := 0; i < numGuardRows; i++ {
		n, err := readInt()
		if err != nil {
			return fmt.Errorf("guards[%d] count: %w", i, err)
		}
		row := make(map[grammar.RuleID]guardInfo, n)
		for j := 0; j < n; j++ {
			rid, err := readInt()
			if err != nil {
				return fmt.Errorf("guards[%d][%d] rule: %w", i, j, err)
			}
			target, err := readInt()
			if err != nil {
				return fmt.Errorf("guards[%d][%d] target: %w", i, j, err)
			}
			numFirst, err := readInt()
			if err != nil {
				return fmt.Errorf("guards[%d][%d] first count: %w", i, j, err)
			}
			first := util.NewKeySet[terms.ID]()
			for k := 0; k < numFirst; k++ {
				e, err := readInt()
				if err != nil {
					return fmt.Errorf("guards[%d][%d] first[%d]: %w", i, j, k, err)
				}
				first.Add(terms.ID(e))
			}
			row[grammar.RuleID(rid)] = guardInfo{Target: target, First: first}
		}
		guards[i] = row
	}

	numRules, err := readInt()
	if err != nil {
		return fmt.Errorf("rules count: %w", err)
	}
	rules := make([]ruleInfo, numRules)
	for i := 0; i < numRules; i++ {
		nt, err := readInt()
		if err != nil {
			return fmt.Errorf("rules[%d] nonterminal: %w", i, err)
		}
		length, err := readInt()
		if err != nil {
			return fmt.Errorf("rules[%d] length: %w", i, err)
		}
		rules[i] = ruleInfo{NonTerminal: grammar.NontermID(nt), Length: length}
	}

	t.Start = start
	t.EndOfInput = terms.ID(eoi)
	t.action = action
	t.goTo = goTo
	t.guards = guards
	t.rules = rules
	return nil
}
