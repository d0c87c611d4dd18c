// Package memory implements the tape: a bounded, optionally growable
// sequence of cells and a pointer to the active one.
//
// Cell values always stay within [LowerBound, UpperBound]; mutations that
// leave the range wrap around. A fixed-length tape wraps the pointer at
// both ends; a variable-length tape grows by one cell when the pointer moves
// past the end. The pointer never goes negative: moving left from cell 0
// always wraps to the last cell.
package memory

import (
	"github.com/wippyai/tape-runtime/errors"
	"github.com/wippyai/tape-runtime/event"
)

// Memory is the production tape machine.
type Memory struct {
	tape    []Cell
	pointer Pointer
	options Options
}

// New creates a Memory and panics if the options are invalid. Use
// WithValidation or Options.Generate for untrusted input.
func New(options Options) *Memory {
	if err := options.Validate(); err != nil {
		panic(err)
	}
	return newMemory(options)
}

// WithValidation creates a Memory, returning an error for invalid options.
func WithValidation(options Options) (*Memory, error) {
	return options.Generate()
}

func newMemory(options Options) *Memory {
	m := &Memory{options: options}
	m.init()
	return m
}

func (m *Memory) init() {
	m.tape = make([]Cell, m.options.InitialLength)
	for i := range m.tape {
		m.tape[i] = NewCell(m.options.LowerBound)
	}
	m.pointer.Reset()
}

// Options returns the options the tape was built with.
func (m *Memory) Options() Options {
	return m.options
}

// Pointer returns the index of the active cell.
func (m *Memory) Pointer() int {
	return m.pointer.Index()
}

// Len returns the current tape length.
func (m *Memory) Len() int {
	return len(m.tape)
}

// Cell returns a copy of the active cell.
func (m *Memory) Cell() (Cell, bool) {
	return m.cellAt(m.pointer.Index())
}

func (m *Memory) cellAt(i int) (Cell, bool) {
	if i < 0 || i >= len(m.tape) {
		return Cell{}, false
	}
	return m.tape[i], true
}

// Snapshot returns the values of cells [from, to), clamped to the tape.
func (m *Memory) Snapshot(from, to int) []Value {
	from = max(from, 0)
	to = min(to, len(m.tape))
	if from >= to {
		return nil
	}
	out := make([]Value, to-from)
	for i := range out {
		out[i] = m.tape[from+i].Value()
	}
	return out
}

// Flatten resets every cell to the lower bound.
func (m *Memory) Flatten() {
	for i := range m.tape {
		m.tape[i].Flatten(m.options.LowerBound)
	}
}

// Reset flattens the tape back to its initial length and rewinds the pointer.
func (m *Memory) Reset() {
	m.init()
}

// active returns the active cell or an out-of-bounds error event.
func (m *Memory) active() (*Cell, *event.Event) {
	i := m.pointer.Index()
	if i < 0 || i >= len(m.tape) {
		ev := event.Fail(errors.OutOfBounds(errors.PhaseRuntime, i, len(m.tape)))
		return nil, &ev
	}
	return &m.tape[i], nil
}

// Increment adds one to the active cell.
func (m *Memory) Increment() event.Event {
	c, fail := m.active()
	if fail != nil {
		return *fail
	}
	c.Increment(m.options.LowerBound, m.options.UpperBound)
	return event.Status("increment cell")
}

// Decrement subtracts one from the active cell.
func (m *Memory) Decrement() event.Event {
	c, fail := m.active()
	if fail != nil {
		return *fail
	}
	c.Decrement(m.options.LowerBound, m.options.UpperBound)
	return event.Status("decrement cell")
}

// MoveRight advances the pointer, growing the tape if it is variable length.
func (m *Memory) MoveRight() event.Event {
	if m.pointer.Increment(len(m.tape), !m.options.VariableLength) {
		m.tape = append(m.tape, NewCell(m.options.LowerBound))
	}
	return event.Status("move pointer to next cell")
}

// MoveLeft moves the pointer back, wrapping from cell 0 to the last cell.
func (m *Memory) MoveLeft() event.Event {
	m.pointer.Decrement(len(m.tape))
	return event.Status("move pointer to previous cell")
}

// Read projects the active cell onto a code point.
func (m *Memory) Read() (rune, event.Event) {
	c, fail := m.active()
	if fail != nil {
		return Replacement, *fail
	}
	r := c.Rune()
	if r == Replacement && c.Value() != Value(Replacement) {
		return r, event.Warning("cell value is not a code point")
	}
	return r, event.Status("output char")
}

// Write stores the code point of r in the active cell.
func (m *Memory) Write(r rune) event.Event {
	c, fail := m.active()
	if fail != nil {
		return *fail
	}
	c.SetRune(r, m.options.LowerBound, m.options.UpperBound)
	return event.Status("input char")
}

// IsZero reports whether the active cell holds zero.
func (m *Memory) IsZero() (bool, event.Event) {
	c, fail := m.active()
	if fail != nil {
		return false, *fail
	}
	return c.Value() == 0, event.Status("test cell for zero")
}
