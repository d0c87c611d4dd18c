package engine

import (
	"bufio"
	"context"
	"io"
	"unicode/utf8"

	"go.uber.org/zap"

	taperuntime "github.com/wippyai/tape-runtime"
	"github.com/wippyai/tape-runtime/errors"
	"github.com/wippyai/tape-runtime/event"
	"github.com/wippyai/tape-runtime/program"
)

// Step is the outcome of one call to RunOnce.
type Step uint8

const (
	// StepContinue means an instruction ran and more may follow.
	StepContinue Step = iota
	// StepHalted means there is no instruction at the program counter.
	StepHalted
	// StepFailed means an instruction produced a fatal event.
	StepFailed
)

func (s Step) String() string {
	switch s {
	case StepContinue:
		return "continue"
	case StepHalted:
		return "halted"
	case StepFailed:
		return "failed"
	}
	return "unknown"
}

// State is the engine's lifecycle state.
type State uint8

const (
	Running State = iota
	HaltedComplete
	HaltedError
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case HaltedComplete:
		return "halted-complete"
	case HaltedError:
		return "halted-error"
	}
	return "unknown"
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink attaches an event sink that receives every step's event.
func WithSink(s event.Sink) Option {
	return func(e *Engine) {
		e.sink = s
	}
}

// WithInput sets where Write instructions take runes from.
func WithInput(r io.Reader) Option {
	return func(e *Engine) {
		if rr, ok := r.(io.RuneReader); ok {
			e.in = rr
			return
		}
		e.in = bufio.NewReader(r)
	}
}

// WithOutput sets where Read instructions send runes.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
	}
}

// WithLogger overrides the package logger for this engine.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// Engine runs a program one instruction at a time.
type Engine struct {
	machine taperuntime.Machine
	sink    event.Sink
	in      io.RuneReader
	out     io.Writer
	log     *zap.Logger
	prog    *program.Program
	err     *errors.Error
	buf     [utf8.UTFMax]byte
	pc      int
	steps   int
	state   State
}

// New creates an engine over prog and m. If prog has not been linked yet it
// is linked here, and a bracket error is returned before anything runs.
func New(prog *program.Program, m taperuntime.Machine, opts ...Option) (*Engine, error) {
	if !prog.Linked() {
		if err := prog.Link(); err != nil {
			return nil, err
		}
	}
	e := &Engine{
		prog:    prog,
		machine: m,
		in:      eofReader{},
		out:     io.Discard,
		log:     Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// PC returns the program counter.
func (e *Engine) PC() int {
	return e.pc
}

// Steps returns the number of instructions executed.
func (e *Engine) Steps() int {
	return e.steps
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Err returns the error that halted the run, if any.
func (e *Engine) Err() error {
	if e.err == nil {
		return nil
	}
	return e.err
}

// Machine returns the machine the engine drives.
func (e *Engine) Machine() taperuntime.Machine {
	return e.machine
}

// Program returns the program being run.
func (e *Engine) Program() *program.Program {
	return e.prog
}

// RunOnce executes the instruction at the program counter. It returns
// StepContinue after an ok event, StepHalted when the program is exhausted
// and StepFailed with the fatal error otherwise. Once halted, it returns the
// same result without doing anything.
func (e *Engine) RunOnce() (Step, error) {
	switch e.state {
	case HaltedComplete:
		return StepHalted, nil
	case HaltedError:
		return StepFailed, e.err
	}

	tok, ok := e.prog.At(e.pc)
	if !ok {
		e.state = HaltedComplete
		e.log.Debug("program complete", zap.Int("steps", e.steps))
		return StepHalted, nil
	}

	pc := e.pc
	ev := e.execute(tok)
	e.pc++
	e.steps++

	if e.sink != nil {
		e.sink.Push(ev)
	}

	if ev.IsErr() {
		e.state = HaltedError
		e.err = ev.Err
		e.log.Warn("step failed",
			zap.Int("pc", pc),
			zap.Stringer("instruction", tok.Instruction),
			zap.Error(ev.Err))
		return StepFailed, e.err
	}

	if ce := e.log.Check(zap.DebugLevel, "step"); ce != nil {
		ce.Write(
			zap.Int("pc", pc),
			zap.Stringer("instruction", tok.Instruction),
			zap.Stringer("event", ev),
		)
	}
	return StepContinue, nil
}

// Run calls RunOnce until the program completes, fails, or ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		step, err := e.RunOnce()
		switch step {
		case StepHalted:
			return nil
		case StepFailed:
			return err
		}
	}
}

func (e *Engine) execute(tok program.Token) event.Event {
	switch tok.Instruction {
	case program.Increment:
		return e.machine.Increment()
	case program.Decrement:
		return e.machine.Decrement()
	case program.MoveLeft:
		return e.machine.MoveLeft()
	case program.MoveRight:
		return e.machine.MoveRight()
	case program.Read:
		r, ev := e.machine.Read()
		if ev.IsErr() {
			return ev
		}
		if err := e.emit(r); err != nil {
			return event.Fail(errors.Other(errors.PhaseIO, "write output", err))
		}
		return ev
	case program.Write:
		r, _, err := e.in.ReadRune()
		if err != nil {
			return event.Fail(errors.Other(errors.PhaseIO, "read input", err))
		}
		return e.machine.Write(r)
	case program.LoopOpen:
		zero, ev := e.machine.IsZero()
		if ev.IsErr() || !zero {
			return ev
		}
		return e.jump(tok, ev, errors.KindUnmatchedLeftBracket, "right")
	case program.LoopClose:
		zero, ev := e.machine.IsZero()
		if ev.IsErr() || zero {
			return ev
		}
		return e.jump(tok, ev, errors.KindUnmatchedRightBracket, "left")
	}
	return event.Fail(errors.New(errors.PhaseRuntime, errors.KindUnrecognizedCommand).
		Position(e.pc).
		Value(tok.Instruction.String()).
		Detail("instruction %d at source offset %d has no handler", uint8(tok.Instruction), tok.Span.Start).
		Build())
}

// jump moves the program counter onto the counterpart of the current bracket.
func (e *Engine) jump(tok program.Token, ev event.Event, kind errors.Kind, side string) event.Event {
	target, ok := e.prog.Counterpart(e.pc)
	if !ok {
		return event.Fail(errors.New(errors.PhaseRuntime, kind).
			Position(e.pc).
			Detail("no matching %s bracket for source offset %d", side, tok.Span.Start).
			Build())
	}
	e.pc = target
	return ev
}

type flusher interface {
	Flush() error
}

func (e *Engine) emit(r rune) error {
	n := utf8.EncodeRune(e.buf[:], r)
	if _, err := e.out.Write(e.buf[:n]); err != nil {
		return err
	}
	if f, ok := e.out.(flusher); ok {
		return f.Flush()
	}
	return nil
}

type eofReader struct{}

func (eofReader) ReadRune() (rune, int, error) {
	return 0, 0, io.EOF
}
