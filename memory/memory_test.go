package memory

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	taperuntime "github.com/wippyai/tape-runtime"
	"github.com/wippyai/tape-runtime/errors"
)

var _ taperuntime.Machine = (*Memory)(nil)
var _ taperuntime.Inspector = (*Memory)(nil)

func TestCell_IncrementFullCycle(t *testing.T) {
	bounds := []struct {
		lo, hi Value
	}{
		{0, 255},
		{-128, 127},
		{10, 20},
		{0, 1},
		{-5, 300},
	}

	for _, b := range bounds {
		for _, start := range []Value{b.lo, (b.lo + b.hi) / 2, b.hi} {
			c := NewCell(start)
			for i := Value(0); i < b.hi-b.lo+1; i++ {
				c.Increment(b.lo, b.hi)
				if c.Value() < b.lo || c.Value() > b.hi {
					t.Fatalf("[%d,%d] from %d: value %d escaped range", b.lo, b.hi, start, c.Value())
				}
			}
			if c.Value() != start {
				t.Errorf("[%d,%d]: %d increments from %d ended at %d", b.lo, b.hi, b.hi-b.lo+1, start, c.Value())
			}
		}
	}
}

func TestCell_DecrementFullCycle(t *testing.T) {
	c := NewCell(3)
	for i := 0; i < 256; i++ {
		c.Decrement(0, 255)
	}
	if c.Value() != 3 {
		t.Errorf("value = %d, want 3", c.Value())
	}
}

func TestCell_Increment(t *testing.T) {
	tests := []struct {
		name   string
		start  Value
		lo, hi Value
		want   Value
	}{
		{"middle", 5, 0, 255, 6},
		{"at upper wraps to lower", 255, 0, 255, 0},
		{"negative range wraps", 127, -128, 127, -128},
		{"offset range wraps", 20, 10, 20, 10},
		{"overflow guard", math.MaxInt64, 0, 255, 1},
		{"unbounded grows", 1 << 40, 0, MaxValue, 1<<40 + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCell(tt.start)
			c.Increment(tt.lo, tt.hi)
			if c.Value() != tt.want {
				t.Errorf("Increment(%d) = %d, want %d", tt.start, c.Value(), tt.want)
			}
		})
	}
}

func TestCell_Decrement(t *testing.T) {
	tests := []struct {
		name   string
		start  Value
		lo, hi Value
		want   Value
	}{
		{"middle", 5, 0, 255, 4},
		{"at lower wraps to upper", 0, 0, 255, 255},
		{"below lower is folded", -1, 0, 255, 255},
		{"negative range", -128, -128, 127, 127},
		{"unbounded at lower", 0, 0, MaxValue, MaxValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCell(tt.start)
			c.Decrement(tt.lo, tt.hi)
			if c.Value() != tt.want {
				t.Errorf("Decrement(%d) = %d, want %d", tt.start, c.Value(), tt.want)
			}
		})
	}
}

func TestCell_WrapIdempotent(t *testing.T) {
	for _, v := range []Value{-1000, -1, 0, 1, 255, 256, 257, 1000, math.MinInt64, math.MaxInt64} {
		c := NewCell(v)
		c.Wrap(0, 255)
		once := c.Value()
		if once < 0 || once > 255 {
			t.Fatalf("Wrap(%d) = %d out of range", v, once)
		}
		c.Wrap(0, 255)
		if c.Value() != once {
			t.Errorf("Wrap not idempotent for %d: %d then %d", v, once, c.Value())
		}
	}
}

func TestCell_RuneRoundTrip(t *testing.T) {
	for v := Value(0); v < 255; v++ {
		c := NewCell(v)
		var back Cell
		back.SetRune(c.Rune(), 0, 255)
		if back.Value() != v {
			t.Errorf("round trip of %d gave %d", v, back.Value())
		}
	}
}

func TestCell_Rune(t *testing.T) {
	tests := []struct {
		v    Value
		want rune
	}{
		{65, 'A'},
		{0x1F600, '😀'},
		{-1, Replacement},
		{0xD800, Replacement},
		{0x110000, Replacement},
	}
	for _, tt := range tests {
		if got := NewCell(tt.v).Rune(); got != tt.want {
			t.Errorf("Rune(%d) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestCell_SetRuneFolds(t *testing.T) {
	var c Cell
	c.SetRune('Ā', 0, 255) // U+0100
	if c.Value() != 0 {
		t.Errorf("SetRune(U+0100) = %d, want 0", c.Value())
	}
	c.SetRune('é', 0, 127) // U+00E9 = 233
	if c.Value() != 233-128 {
		t.Errorf("SetRune(é) = %d, want %d", c.Value(), 233-128)
	}
}

func TestPointer(t *testing.T) {
	var p Pointer
	p.Decrement(5)
	if p.Index() != 4 {
		t.Errorf("Decrement from 0 = %d, want 4", p.Index())
	}
	if p.Increment(5, true) {
		t.Error("fixed mode should never ask to grow")
	}
	if p.Index() != 0 {
		t.Errorf("Increment from 4 (fixed) = %d, want 0", p.Index())
	}

	p = Pointer{index: 4}
	if !p.Increment(5, false) {
		t.Error("variable mode should ask to grow at the end")
	}
	if p.Index() != 5 {
		t.Errorf("Increment from 4 (variable) = %d, want 5", p.Index())
	}

	p = Pointer{index: 9}
	p.Decrement(5)
	if p.Index() != 4 {
		t.Errorf("Decrement from past end = %d, want 4", p.Index())
	}
}

func TestPointer_DecrementEmptyTapePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	var p Pointer
	p.Decrement(0)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		valid bool
	}{
		{"defaults", DefaultOptions(), true},
		{"equal bounds", Options{LowerBound: 5, UpperBound: 5, InitialLength: 1}, false},
		{"inverted bounds", Options{LowerBound: 5, UpperBound: 1, InitialLength: 1}, false},
		{"empty tape", Options{LowerBound: 0, UpperBound: 255, InitialLength: 0}, false},
		{"unbounded", Options{LowerBound: 0, UpperBound: MaxValue, InitialLength: 1}, true},
		{"unbounded empty tape", Options{LowerBound: 0, UpperBound: MaxValue, InitialLength: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err == nil) != tt.valid {
				t.Fatalf("Validate() = %v, valid=%v", err, tt.valid)
			}
			m, genErr := tt.opts.Generate()
			if tt.valid {
				if genErr != nil || m == nil {
					t.Fatalf("Generate() = %v, %v", m, genErr)
				}
				return
			}
			if !stderrors.Is(genErr, &errors.Error{Kind: errors.KindInvalidConfig}) {
				t.Errorf("Generate() error = %v, want invalid_config", genErr)
			}
			if _, err := WithValidation(tt.opts); err == nil {
				t.Error("WithValidation should fail")
			}
		})
	}
}

func TestNew_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	New(Options{LowerBound: 1, UpperBound: 0, InitialLength: 1})
}

func TestMemory_Init(t *testing.T) {
	m := New(Options{LowerBound: 3, UpperBound: 9, InitialLength: 4})
	if m.Len() != 4 || m.Pointer() != 0 {
		t.Fatalf("Len=%d Pointer=%d", m.Len(), m.Pointer())
	}
	if diff := cmp.Diff([]Value{3, 3, 3, 3}, m.Snapshot(0, 10)); diff != "" {
		t.Errorf("tape mismatch (-want +got):\n%s", diff)
	}
}

func TestMemory_FixedLengthWraps(t *testing.T) {
	m := New(Options{LowerBound: 0, UpperBound: 255, InitialLength: 3})

	m.MoveLeft()
	if m.Pointer() != 2 {
		t.Errorf("MoveLeft from 0 = %d, want 2", m.Pointer())
	}
	m.MoveRight()
	if m.Pointer() != 0 {
		t.Errorf("MoveRight from end = %d, want 0", m.Pointer())
	}
	if m.Len() != 3 {
		t.Errorf("fixed tape grew to %d", m.Len())
	}
}

func TestMemory_VariableLengthGrows(t *testing.T) {
	m := New(Options{LowerBound: 7, UpperBound: 255, InitialLength: 2, VariableLength: true})

	m.MoveRight()
	ev := m.MoveRight()
	if !ev.IsOk() {
		t.Fatalf("MoveRight event = %v", ev)
	}
	if m.Pointer() != 2 || m.Len() != 3 {
		t.Fatalf("Pointer=%d Len=%d, want 2/3", m.Pointer(), m.Len())
	}
	c, ok := m.Cell()
	if !ok || c.Value() != 7 {
		t.Errorf("new cell = %v (%v), want lower bound 7", c, ok)
	}

	m.MoveRight()
	m.MoveLeft()
	m.MoveLeft()
	m.MoveLeft()
	m.MoveLeft()
	if m.Pointer() != 3 {
		t.Errorf("MoveLeft wraps to last cell: got %d, want 3", m.Pointer())
	}
}

func TestMemory_Operations(t *testing.T) {
	m := New(DefaultOptions())

	m.Decrement()
	if c, _ := m.Cell(); c.Value() != 255 {
		t.Errorf("decrement from 0 = %d, want 255", c.Value())
	}
	m.Increment()
	if z, ev := m.IsZero(); !z || !ev.IsOk() {
		t.Errorf("IsZero = %v, %v", z, ev)
	}

	if ev := m.Write('A'); !ev.IsOk() {
		t.Fatalf("Write event = %v", ev)
	}
	r, ev := m.Read()
	if r != 'A' || !ev.IsOk() {
		t.Errorf("Read = %q, %v", r, ev)
	}
	if z, _ := m.IsZero(); z {
		t.Error("IsZero after write should be false")
	}

	m.Flatten()
	if z, _ := m.IsZero(); !z {
		t.Error("Flatten should reset to the lower bound")
	}
}

func TestMemory_ReadUnmappableWarns(t *testing.T) {
	m := New(Options{LowerBound: -10, UpperBound: 10, InitialLength: 1})
	r, ev := m.Read()
	if r != Replacement {
		t.Errorf("Read = %q, want replacement", r)
	}
	if !ev.IsOk() || ev.Kind.String() != "warning" {
		t.Errorf("event = %v, want an ok warning", ev)
	}
}

func TestMemory_OutOfBoundsEvent(t *testing.T) {
	m := New(Options{LowerBound: 0, UpperBound: 255, InitialLength: 1})
	m.pointer = Pointer{index: 5}

	ev := m.Increment()
	if ev.IsOk() {
		t.Fatal("expected error event")
	}
	if ev.Err.Kind != errors.KindOutOfBounds {
		t.Errorf("Kind = %v, want out_of_bounds", ev.Err.Kind)
	}
}

func TestMemory_Reset(t *testing.T) {
	m := New(Options{LowerBound: 0, UpperBound: 255, InitialLength: 1, VariableLength: true})
	m.Increment()
	m.MoveRight()
	m.Reset()
	if m.Len() != 1 || m.Pointer() != 0 {
		t.Errorf("Len=%d Pointer=%d after Reset", m.Len(), m.Pointer())
	}
	if c, _ := m.Cell(); c.Value() != 0 {
		t.Errorf("cell = %d after Reset", c.Value())
	}
}
