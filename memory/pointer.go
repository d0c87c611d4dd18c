package memory

// DefaultLength is the default number of cells on a fresh tape.
const DefaultLength = 0xFFFF

// Pointer is the index of the active cell.
type Pointer struct {
	index int
}

// Index returns the cell index the pointer refers to.
func (p Pointer) Index() int {
	return p.index
}

// Increment advances the pointer by one. When it reaches length it either
// wraps to 0 (wrap is true) or stays at length and returns true, asking the
// caller to append a cell so the index becomes valid again.
func (p *Pointer) Increment(length int, wrap bool) (grow bool) {
	p.index++
	if p.index >= length {
		if wrap {
			p.index = 0
			return false
		}
		p.index = length
		return true
	}
	return false
}

// Decrement moves the pointer back by one. From 0, or from an index already
// at or past length, it wraps to length-1. A zero length is a programming
// error and panics.
func (p *Pointer) Decrement(length int) {
	if length <= 0 {
		panic("memory: Pointer.Decrement with empty tape")
	}
	if p.index <= 0 || p.index >= length {
		p.index = length - 1
		return
	}
	p.index--
}

// Reset moves the pointer back to cell 0.
func (p *Pointer) Reset() {
	p.index = 0
}
