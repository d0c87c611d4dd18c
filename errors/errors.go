package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse   Phase = "parse"   // source text to tokens
	PhaseLink    Phase = "link"    // jump table population and pairing
	PhaseConfig  Phase = "config"  // memory and host configuration
	PhaseRuntime Phase = "runtime" // instruction execution
	PhaseIO      Phase = "io"      // program input and output
)

// Kind categorizes the error
type Kind string

const (
	KindUnrecognizedCommand   Kind = "unrecognized_command"
	KindBadProgram            Kind = "bad_program"
	KindParsingError          Kind = "parsing_error"
	KindUnmatchedLeftBracket  Kind = "unmatched_left_bracket"
	KindUnmatchedRightBracket Kind = "unmatched_right_bracket"
	KindOutOfBounds           Kind = "out_of_bounds"
	KindPointerError          Kind = "pointer_error"
	KindCellOverflow          Kind = "cell_overflow"
	KindInvalidConfig         Kind = "invalid_config"
	KindOther                 Kind = "other"
)

// NoPosition marks an error that is not tied to a token position.
const NoPosition = -1

// Error is the structured error type used throughout the runtime
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Detail   string
	Position int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Position >= 0 {
		b.WriteString(" at ")
		b.WriteString(strconv.Itoa(e.Position))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// An empty Phase on the target matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:    phase,
			Kind:     kind,
			Position: NoPosition,
		},
	}
}

// Position sets the token position
func (b *Builder) Position(pos int) *Builder {
	b.err.Position = pos
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	err := b.err
	return &err
}

// Convenience constructors for common error patterns

// UnmatchedLeft creates an unmatched loop-open error at a token position
func UnmatchedLeft(phase Phase, pos int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnmatchedLeftBracket,
		Position: pos,
	}
}

// UnmatchedRight creates an unmatched loop-close error at a token position
func UnmatchedRight(phase Phase, pos int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnmatchedRightBracket,
		Position: pos,
	}
}

// OutOfBounds creates an out of bounds error for a tape index
func OutOfBounds(phase Phase, index, length int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOutOfBounds,
		Position: NoPosition,
		Detail:   fmt.Sprintf("cell %d out of bounds (tape length %d)", index, length),
		Value:    index,
	}
}

// InvalidConfig creates a configuration validity error
func InvalidConfig(detail string, value any) *Error {
	return &Error{
		Phase:    PhaseConfig,
		Kind:     KindInvalidConfig,
		Position: NoPosition,
		Detail:   detail,
		Value:    value,
	}
}

// UnrecognizedCommand creates an error for a character that is not an instruction
func UnrecognizedCommand(pos int, command string) *Error {
	return &Error{
		Phase:    PhaseParse,
		Kind:     KindUnrecognizedCommand,
		Position: pos,
		Detail:   fmt.Sprintf("%q is not a valid command", command),
		Value:    command,
	}
}

// Other creates an uncategorized error, typically wrapping an I/O failure
func Other(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOther,
		Position: NoPosition,
		Detail:   detail,
		Cause:    cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     kind,
		Position: NoPosition,
		Detail:   detail,
		Cause:    cause,
	}
}

// KindOf returns the Kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return "", false
		}
		err = u.Unwrap()
	}
	return "", false
}
