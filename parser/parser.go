// Package parser turns source text into a program.Program.
//
// Two front ends are provided. Strict keeps every instruction character and
// ignores everything else. Commented does the same but treats '#' as the
// start of a comment running to the end of the line, so instruction
// characters inside comments are skipped.
package parser

import (
	"fmt"
	"os"

	"github.com/wippyai/tape-runtime/errors"
	"github.com/wippyai/tape-runtime/program"
)

// Parser converts source text into a program.
type Parser interface {
	ParseString(src string) (*program.Program, error)
}

// Strict is the plain front end.
type Strict struct{}

// ParseString implements Parser.
func (Strict) ParseString(src string) (*program.Program, error) {
	return scan(src, false), nil
}

// Commented is the front end that supports '#' line comments.
type Commented struct{}

// ParseString implements Parser.
func (Commented) ParseString(src string) (*program.Program, error) {
	return scan(src, true), nil
}

func scan(src string, comments bool) *program.Program {
	p := program.New(make([]program.Token, 0, len(src)))
	for i := 0; i < len(src); i++ {
		c := src[i]
		if comments && c == '#' {
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		}
		if ins, ok := program.Lookup(c); ok {
			p.Push(program.NewToken(ins, program.Span{Start: i, End: i + 1}))
		}
	}
	return p
}

// ByName returns the front end registered under name ("strict" or "commented").
func ByName(name string) (Parser, error) {
	switch name {
	case "", "strict":
		return Strict{}, nil
	case "commented":
		return Commented{}, nil
	}
	return nil, errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
		Value(name).
		Detail("unknown parser %q", name).
		Build()
}

// ParseFile reads path and parses it with p.
func ParseFile(p Parser, path string) (*program.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Other(errors.PhaseIO, fmt.Sprintf("read program %s", path), err)
	}
	return p.ParseString(string(data))
}
