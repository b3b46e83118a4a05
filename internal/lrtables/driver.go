package lrtables

import (
	"fmt"

	"github.com/dekarrin/tamelang/internal/grammar"
	"github.com/dekarrin/tamelang/internal/rewrite"
	"github.com/dekarrin/tamelang/internal/terms"
)

// Node is one interior node of the parse tree a reduce action builds: the
// nonterminal and rule it came from, and its children in left-to-right
// order, each either a Token (shifted terminal) or another *Node.
type Node struct {
	Nonterminal grammar.NontermID
	Rule        grammar.RuleID
	Children    []any
}

type stackEntry struct {
	state int
	value any // Token for a shifted leaf, *Node for a reduced nonterminal
}

// ParseState is one LR stack plus its position into the session's shared
// lookahead buffer. The main parse and every weak-reduce probe it forks
// are each a ParseState sharing one Session, per spec §4.10's
// "sub-parsers are stack-allocated state objects sharing the session;
// creating one does not require heap allocation proportional to the
// lookahead."
type ParseState struct {
	stack   []stackEntry
	pos     int
	session *Session
}

// Fork produces an independent copy of ps's stack at the same lookahead
// position, marking that position so the session will not reclaim it while
// the fork is speculating. Callers must call Close when done with the
// fork.
func (ps *ParseState) Fork() *ParseState {
	stackCopy := make([]stackEntry, len(ps.stack))
	copy(stackCopy, ps.stack)
	ps.session.mark(ps.pos)
	return &ParseState{stack: stackCopy, pos: ps.pos, session: ps.session}
}

// Close releases the mark Fork placed on this state's lookahead position.
func (ps *ParseState) Close() {
	ps.session.unmark(ps.pos)
}

// Parse runs the LR driver of spec §4.10 to completion, returning the root
// parse tree node on success.
func Parse(table *PackedTable, session *Session) (*Node, error) {
	ps := &ParseState{stack: []stackEntry{{state: table.Start}}, session: session}

	for {
		session.mark(ps.pos)
		tok := session.at(ps.pos)
		top := ps.stack[len(ps.stack)-1].state

		session.notify("state %d, lookahead %q", top, tok.Text)

		if target, matched := matchGuard(table, top, tok); matched {
			session.unmark(ps.pos)
			ps.stack = append(ps.stack, stackEntry{state: target})
			continue
		}

		act, ok := table.Action(top, tok.Terminal)
		if !ok {
			session.unmark(ps.pos)
			return nil, fmt.Errorf("lrtables: unexpected token %q at %s", tok.Text, tok.Pos)
		}

		switch act.Kind {
		case rewrite.RShift:
			ps.stack = append(ps.stack, stackEntry{state: act.State, value: tok})
			session.unmark(ps.pos)
			ps.pos++
		case rewrite.RShiftStrong:
			substituted := tok
			substituted.Terminal = act.Strong
			ps.stack = append(ps.stack, stackEntry{state: act.State, value: substituted})
			session.unmark(ps.pos)
			ps.pos++
		case rewrite.RReduce:
			session.unmark(ps.pos)
			if err := reduce(ps, table, act.Rule); err != nil {
				return nil, err
			}
		case rewrite.RWeakReduce:
			ok := canReduce(ps, table, act.Rule, tok.Terminal)
			session.unmark(ps.pos)
			if !ok {
				return nil, fmt.Errorf("lrtables: weak reduce on rule %d not shiftable on %q", act.Rule, tok.Text)
			}
			if err := reduce(ps, table, act.Rule); err != nil {
				return nil, err
			}
		case rewrite.RAccept:
			session.unmark(ps.pos)
			node, _ := ps.stack[len(ps.stack)-1].value.(*Node)
			return node, nil
		default:
			session.unmark(ps.pos)
			return nil, fmt.Errorf("lrtables: action kind %s has no runtime handling", act.Kind)
		}
	}
}

// matchGuard reports whether state has a guard whose FIRST set contains
// tok's terminal, and if so the state to epsilon-transition to. Guards
// never consume the lookahead (spec §4.5): matching one only ever moves
// the stack, never ps.pos.
func matchGuard(table *PackedTable, state int, tok Token) (int, bool) {
	for _, gi := range table.Guards(state) {
		if gi.First.Has(tok.Terminal) {
			return gi.Target, true
		}
	}
	return 0, false
}

// reduce pops the rule's production length off the stack, builds the
// resulting Node, and pushes it onto the GOTO-determined state.
func reduce(ps *ParseState, table *PackedTable, rule grammar.RuleID) error {
	nt, length := table.Rule(rule)
	if len(ps.stack) < length+1 {
		return fmt.Errorf("lrtables: stack underflow reducing rule %d", rule)
	}
	children := make([]any, length)
	for i := length - 1; i >= 0; i-- {
		children[i] = ps.stack[len(ps.stack)-1].value
		ps.stack = ps.stack[:len(ps.stack)-1]
	}
	top := ps.stack[len(ps.stack)-1].state
	next, ok := table.Goto(top, nt)
	if !ok {
		return fmt.Errorf("lrtables: no goto from state %d on nonterminal %d", top, nt)
	}
	ps.stack = append(ps.stack, stackEntry{state: next, value: &Node{Nonterminal: nt, Rule: rule, Children: children}})
	return nil
}

// simulateReduce performs the same stack surgery as reduce but on a forked,
// disposable ParseState and without building a Node, for the can-reduce
// probe below.
func simulateReduce(ps *ParseState, table *PackedTable, rule grammar.RuleID) bool {
	nt, length := table.Rule(rule)
	if len(ps.stack) < length+1 {
		return false
	}
	ps.stack = ps.stack[:len(ps.stack)-length]
	top := ps.stack[len(ps.stack)-1].state
	next, ok := table.Goto(top, nt)
	if !ok {
		return false
	}
	ps.stack = append(ps.stack, stackEntry{state: next})
	return true
}

// canReduce implements spec §4.10's can-reduce check: "simulate the reduce
// (pop N, find goto, push) on a state-only copy of the stack; recurse into
// further reduces; accept the weak reduce iff the lookahead terminal is
// eventually shiftable." A chain of further (weak or ordinary) reduces on
// the same lookahead is followed until a shift/shift-strong is found or no
// action exists.
func canReduce(ps *ParseState, table *PackedTable, rule grammar.RuleID, lookahead terms.ID) bool {
	fork := ps.Fork()
	defer fork.Close()

	if !simulateReduce(fork, table, rule) {
		return false
	}

	for {
		top := fork.stack[len(fork.stack)-1].state
		act, ok := table.Action(top, lookahead)
		if !ok {
			return false
		}
		switch act.Kind {
		case rewrite.RShift, rewrite.RShiftStrong:
			return true
		case rewrite.RReduce, rewrite.RWeakReduce:
			if !simulateReduce(fork, table, act.Rule) {
				return false
			}
		default:
			return false
		}
	}
}
