// Package program holds the instruction set, source-tagged tokens and the
// Program that links loop markers into a jump table before execution.
package program

import (
	"fmt"

	"github.com/wippyai/tape-runtime/jump"
)

// Instruction is one of the eight commands of the language.
type Instruction uint8

const (
	Increment Instruction = iota // +
	Decrement                    // -
	MoveLeft                     // <
	MoveRight                    // >
	Read                         // .
	Write                        // ,
	LoopOpen                     // [
	LoopClose                    // ]
)

// LoopKind is the bracket family used by LoopOpen and LoopClose.
const LoopKind jump.Kind = 1

var symbols = [...]byte{'+', '-', '<', '>', '.', ',', '[', ']'}

// Lookup returns the instruction for a source character.
func Lookup(c byte) (Instruction, bool) {
	for i, s := range symbols {
		if s == c {
			return Instruction(i), true
		}
	}
	return 0, false
}

// Symbol returns the source character of the instruction.
func (i Instruction) Symbol() byte {
	if int(i) < len(symbols) {
		return symbols[i]
	}
	return '?'
}

func (i Instruction) String() string {
	return string(i.Symbol())
}

// Bracket returns the jump table entry for loop markers.
func (i Instruction) Bracket() (jump.Bracket, bool) {
	switch i {
	case LoopOpen:
		return jump.NewBracket(jump.Left, LoopKind), true
	case LoopClose:
		return jump.NewBracket(jump.Right, LoopKind), true
	}
	return jump.Bracket{}, false
}

// Span is a byte range in the source, End exclusive.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Token is an instruction with the source span it came from.
type Token struct {
	Span        Span
	Instruction Instruction
}

// NewToken creates a token.
func NewToken(ins Instruction, span Span) Token {
	return Token{Instruction: ins, Span: span}
}
