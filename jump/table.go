// Package jump resolves loop markers into a validated table mapping each
// bracket position to the position of its counterpart.
//
// Brackets belong to a family identified by Kind; a Left bracket only pairs
// with a Right bracket of the same Kind. Matching is positional and
// non-crossing. Counterparts are stored as token positions, never references,
// so a Table is a plain value that clones cheaply.
package jump

import (
	"fmt"
	"sort"

	"github.com/wippyai/tape-runtime/errors"
)

// Side says whether a bracket opens or closes a pair.
type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Kind identifies a bracket family.
type Kind uint8

// Bracket is a loop marker. Its counterpart is set once, by PairUp.
type Bracket struct {
	counterpart int
	paired      bool
	Side        Side
	Kind        Kind
}

// NewBracket creates an unpaired bracket.
func NewBracket(side Side, kind Kind) Bracket {
	return Bracket{Side: side, Kind: kind}
}

// Counterpart returns the position of the matching bracket, if paired.
func (b Bracket) Counterpart() (int, bool) {
	return b.counterpart, b.paired
}

func (b Bracket) withCounterpart(pos int) Bracket {
	b.counterpart = pos
	b.paired = true
	return b
}

func (b Bracket) String() string {
	if b.paired {
		return fmt.Sprintf("%s/%d->%d", b.Side, b.Kind, b.counterpart)
	}
	return fmt.Sprintf("%s/%d", b.Side, b.Kind)
}

// Table maps token positions to brackets.
type Table struct {
	entries map[int]Bracket
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[int]Bracket)}
}

// Insert registers a bracket at pos. It returns false, leaving the table
// unchanged, if pos is already occupied.
func (t *Table) Insert(b Bracket, pos int) bool {
	if _, ok := t.entries[pos]; ok {
		return false
	}
	t.entries[pos] = b
	return true
}

// Get returns the bracket at pos.
func (t *Table) Get(pos int) (Bracket, bool) {
	b, ok := t.entries[pos]
	return b, ok
}

// Len returns the number of brackets.
func (t *Table) Len() int {
	return len(t.entries)
}

// Counterpart returns the position paired with pos.
func (t *Table) Counterpart(pos int) (int, bool) {
	b, ok := t.entries[pos]
	if !ok {
		return 0, false
	}
	return b.Counterpart()
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{entries: make(map[int]Bracket, len(t.entries))}
	for pos, b := range t.entries {
		c.entries[pos] = b
	}
	return c
}

// Positions returns every bracket position in ascending order.
func (t *Table) Positions() []int {
	out := make([]int, 0, len(t.entries))
	for pos := range t.entries {
		out = append(out, pos)
	}
	sort.Ints(out)
	return out
}

// IsBalanced checks that every bracket has a counterpart without modifying
// the table. On failure it returns an *errors.Error whose Position is the
// offending bracket.
func (t *Table) IsBalanced() error {
	return t.match(nil)
}

// PairUp matches every bracket with its counterpart. The work is done on a
// copy which replaces the table only if every bracket pairs; on failure the
// table is left untouched.
func (t *Table) PairUp() error {
	work := t.Clone()
	if err := t.match(func(left, right int) {
		work.entries[left] = work.entries[left].withCounterpart(right)
		work.entries[right] = work.entries[right].withCounterpart(left)
	}); err != nil {
		return err
	}
	t.entries = work.entries
	return nil
}

// match replays the brackets in position order against a stack, calling
// pair for each matched left/right pair.
func (t *Table) match(pair func(left, right int)) error {
	var stack []int
	for _, pos := range t.Positions() {
		b := t.entries[pos]
		if b.Side == Left {
			stack = append(stack, pos)
			continue
		}
		if len(stack) == 0 {
			return errors.UnmatchedRight(errors.PhaseLink, pos)
		}
		top := stack[len(stack)-1]
		if t.entries[top].Kind != b.Kind {
			return errors.UnmatchedRight(errors.PhaseLink, pos)
		}
		stack = stack[:len(stack)-1]
		if pair != nil {
			pair(top, pos)
		}
	}
	if len(stack) > 0 {
		return errors.UnmatchedLeft(errors.PhaseLink, stack[0])
	}
	return nil
}
