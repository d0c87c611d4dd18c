package taperuntime

import (
	"github.com/wippyai/tape-runtime/event"
)

// Machine is the set of operations the engine needs from a tape.
// memory.Memory is the production implementation.
type Machine interface {
	Increment() event.Event
	Decrement() event.Event
	MoveLeft() event.Event
	MoveRight() event.Event
	// Read projects the active cell onto a code point.
	Read() (rune, event.Event)
	// Write stores a code point in the active cell.
	Write(r rune) event.Event
	IsZero() (bool, event.Event)
}

// Inspector is implemented by machines that expose their state for tracing.
type Inspector interface {
	Pointer() int
	Len() int
}
