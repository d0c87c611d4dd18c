package memory

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// Value is the number stored in a Cell.
type Value = int64

const (
	// MaxValue is the unbounded sentinel: an upper bound of MaxValue turns
	// off wraparound at the top of the range.
	MaxValue Value = math.MaxInt64

	DefaultLower Value = 0x00
	DefaultUpper Value = 0xFF
)

// Replacement is produced when a cell does not hold a valid code point.
const Replacement = utf8.RuneError

// Cell is one bounded slot on the tape. The bounds are owned by the tape's
// Options and passed into every mutation; lo and hi are both inclusive.
type Cell struct {
	value Value
}

// NewCell creates a cell holding v.
func NewCell(v Value) Cell {
	return Cell{value: v}
}

// Value returns the number held by the cell.
func (c Cell) Value() Value {
	return c.value
}

// Wrap folds the value back into [lo, hi] if it is below lo or above hi.
// This is the single normalization point every mutation goes through.
func (c *Cell) Wrap(lo, hi Value) {
	if c.value < lo || (hi != MaxValue && c.value > hi) {
		c.value = fold(c.value, lo, hi)
	}
}

// Increment adds one, wrapping past hi back to lo.
func (c *Cell) Increment(lo, hi Value) {
	if c.value == math.MaxInt64 {
		c.value = lo
	}
	c.value++
	c.Wrap(lo, hi)
}

// Decrement subtracts one, wrapping below lo up to hi.
func (c *Cell) Decrement(lo, hi Value) {
	switch {
	case c.value < lo:
		c.Wrap(lo, hi)
	case c.value == lo:
		c.value = hi
	default:
		c.value--
		c.Wrap(lo, hi)
	}
}

// Flatten resets the cell to lo.
func (c *Cell) Flatten(lo Value) {
	c.value = lo
}

// Rune projects the cell onto a code point. Values that are not valid code
// points map to Replacement.
func (c Cell) Rune() rune {
	if c.value < 0 || c.value > utf8.MaxRune {
		return Replacement
	}
	r := rune(c.value)
	if !utf8.ValidRune(r) {
		return Replacement
	}
	return r
}

// SetRune stores the code point of r, folding it into [lo, hi] if needed.
func (c *Cell) SetRune(r rune, lo, hi Value) {
	c.value = Value(r)
	c.Wrap(lo, hi)
}

func (c Cell) String() string {
	return strconv.FormatInt(c.value, 10)
}

// fold maps v onto [lo, hi] modulo the width of the range. The arithmetic is
// done in uint64 so ranges as wide as int64 do not overflow.
func fold(v, lo, hi Value) Value {
	span := uint64(hi) - uint64(lo) + 1
	if span == 0 {
		return v
	}
	if v >= lo {
		return Value(uint64(lo) + (uint64(v)-uint64(lo))%span)
	}
	d := (uint64(lo) - uint64(v)) % span
	if d == 0 {
		return lo
	}
	return Value(uint64(lo) + span - d)
}
