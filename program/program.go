package program

import (
	"strings"

	"github.com/wippyai/tape-runtime/errors"
	"github.com/wippyai/tape-runtime/jump"
)

// Program is a token sequence and its jump table.
type Program struct {
	jumps  *jump.Table
	tokens []Token
	linked bool
}

// New creates a program over tokens.
func New(tokens []Token) *Program {
	return &Program{tokens: tokens, jumps: jump.NewTable()}
}

// Push appends a token and invalidates any previous linking.
func (p *Program) Push(t Token) {
	p.tokens = append(p.tokens, t)
	p.linked = false
}

// Tokens returns the token sequence. Callers must not modify it.
func (p *Program) Tokens() []Token {
	return p.tokens
}

// Len returns the number of tokens.
func (p *Program) Len() int {
	return len(p.tokens)
}

// At returns the token at pc.
func (p *Program) At(pc int) (Token, bool) {
	if pc < 0 || pc >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[pc], true
}

// Linked reports whether Link has succeeded since the last change.
func (p *Program) Linked() bool {
	return p.linked
}

// Populate rebuilds the jump table from the loop markers in the program
// without pairing them.
func (p *Program) Populate() {
	table := jump.NewTable()
	for pos, t := range p.tokens {
		if b, ok := t.Instruction.Bracket(); ok {
			table.Insert(b, pos)
		}
	}
	p.jumps = table
	p.linked = false
}

// Link populates the jump table and pairs every loop marker. On failure the
// error is an *errors.Error whose Position is the offending token index.
func (p *Program) Link() error {
	p.Populate()
	if err := p.jumps.PairUp(); err != nil {
		return p.describe(err)
	}
	p.linked = true
	return nil
}

func (p *Program) describe(err error) error {
	e, ok := err.(*errors.Error)
	if !ok {
		return err
	}
	b := errors.New(e.Phase, e.Kind).Position(e.Position)
	if t, ok := p.At(e.Position); ok {
		b.Value(t.Instruction.String()).
			Detail("unmatched %s at %d (source %s)", t.Instruction, e.Position, t.Span)
	}
	return b.Build()
}

// Counterpart returns the position of the bracket paired with pc.
func (p *Program) Counterpart(pc int) (int, bool) {
	return p.jumps.Counterpart(pc)
}

// Jumps returns the program's jump table.
func (p *Program) Jumps() *jump.Table {
	return p.jumps
}

// Clear removes every token and bracket.
func (p *Program) Clear() {
	p.tokens = nil
	p.jumps = jump.NewTable()
	p.linked = false
}

func (p *Program) String() string {
	var b strings.Builder
	b.Grow(len(p.tokens))
	for _, t := range p.tokens {
		b.WriteByte(t.Instruction.Symbol())
	}
	return b.String()
}
