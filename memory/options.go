package memory

import (
	"fmt"

	"github.com/wippyai/tape-runtime/errors"
)

// Options configures a Memory.
type Options struct {
	LowerBound     Value
	UpperBound     Value
	InitialLength  int
	VariableLength bool
}

// DefaultOptions returns bytes in [0, 255] on a fixed tape of DefaultLength cells.
func DefaultOptions() Options {
	return Options{
		LowerBound:    DefaultLower,
		UpperBound:    DefaultUpper,
		InitialLength: DefaultLength,
	}
}

// Unbounded reports whether the upper bound is the MaxValue sentinel.
func (o Options) Unbounded() bool {
	return o.UpperBound == MaxValue
}

// Validate returns an InvalidConfig error if the bounds are inverted or the
// tape would start empty.
func (o Options) Validate() error {
	if o.UpperBound <= o.LowerBound && !o.Unbounded() {
		return errors.InvalidConfig(
			fmt.Sprintf("upper bound %d must be greater than lower bound %d", o.UpperBound, o.LowerBound),
			o,
		)
	}
	if o.InitialLength < 1 {
		return errors.InvalidConfig(
			fmt.Sprintf("initial length %d must be at least 1", o.InitialLength),
			o,
		)
	}
	return nil
}

// Generate validates the options and creates a Memory.
func (o Options) Generate() (*Memory, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return newMemory(o), nil
}

// MustGenerate is like Generate but panics on invalid options.
func (o Options) MustGenerate() *Memory {
	return New(o)
}

func (o Options) String() string {
	return fmt.Sprintf("bounds=[%d,%d] length=%d variable=%t",
		o.LowerBound, o.UpperBound, o.InitialLength, o.VariableLength)
}
