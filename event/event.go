// Package event defines the outcome of executing one instruction and the
// bounded log that collects those outcomes for tracing.
package event

import (
	"github.com/wippyai/tape-runtime/errors"
)

// Kind classifies an Event.
type Kind uint8

const (
	// KindStatus reports that an operation succeeded.
	KindStatus Kind = iota
	// KindWarning reports something unsafe that does not stop the run.
	KindWarning
	// KindErrWarning is a warning that requires handling by the caller.
	KindErrWarning
	// KindError is a fatal error.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindWarning:
		return "warning"
	case KindErrWarning:
		return "error-warning"
	case KindError:
		return "error"
	}
	return "unknown"
}

// Event is the structured outcome of one operation.
// Ok events are KindStatus or KindWarning; the rest are errors and carry Err.
type Event struct {
	Err     *errors.Error
	Message string
	Kind    Kind
}

// Status creates a successful event.
func Status(msg string) Event {
	return Event{Kind: KindStatus, Message: msg}
}

// Warning creates an ok event that flags something suspicious.
func Warning(msg string) Event {
	return Event{Kind: KindWarning, Message: msg}
}

// ErrWarning creates an error-side warning.
func ErrWarning(err *errors.Error) Event {
	return Event{Kind: KindErrWarning, Message: err.Error(), Err: err}
}

// Fail creates a fatal error event.
func Fail(err *errors.Error) Event {
	return Event{Kind: KindError, Message: err.Error(), Err: err}
}

// IsOk reports whether the event is a status or a warning.
func (e Event) IsOk() bool {
	return e.Kind == KindStatus || e.Kind == KindWarning
}

// IsErr reports whether the event is on the error side.
func (e Event) IsErr() bool {
	return !e.IsOk()
}

func (e Event) String() string {
	switch e.Kind {
	case KindStatus:
		return "Status: " + e.Message
	case KindWarning, KindErrWarning:
		return "Warning: " + e.Message
	}
	return "Error: " + e.Message
}

// Sink receives events from the engine. The engine only ever appends.
type Sink interface {
	Push(Event)
}

// Observer receives every event pushed into a Log.
type Observer interface {
	OnEvent(seq int, e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(seq int, e Event)

// OnEvent calls f(seq, e).
func (f ObserverFunc) OnEvent(seq int, e Event) {
	f(seq, e)
}
