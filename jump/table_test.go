package jump

import (
	stderrors "errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/tape-runtime/errors"
)

const loop Kind = 1

// tableFrom builds a table from a string of '[' and ']' plus '(' and ')' for
// a second family. Any other byte is skipped but still advances the position.
func tableFrom(s string) *Table {
	t := NewTable()
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			t.Insert(NewBracket(Left, loop), i)
		case ']':
			t.Insert(NewBracket(Right, loop), i)
		case '(':
			t.Insert(NewBracket(Left, 2), i)
		case ')':
			t.Insert(NewBracket(Right, 2), i)
		}
	}
	return t
}

func TestTable_Insert(t *testing.T) {
	tbl := NewTable()
	if !tbl.Insert(NewBracket(Left, loop), 0) {
		t.Fatal("first insert should succeed")
	}
	if tbl.Insert(NewBracket(Right, loop), 0) {
		t.Fatal("insert into occupied position should fail")
	}
	b, ok := tbl.Get(0)
	if !ok || b.Side != Left {
		t.Errorf("occupied position was overwritten: %v", b)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len = %d, want 1", tbl.Len())
	}
}

func TestTable_PairUpBalanced(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		pairs map[int]int
	}{
		{"empty", "", map[int]int{}},
		{"single", "[]", map[int]int{0: 1, 1: 0}},
		{"nested", "[[]]", map[int]int{0: 3, 3: 0, 1: 2, 2: 1}},
		{"sequential", "[][]", map[int]int{0: 1, 1: 0, 2: 3, 3: 2}},
		{"with body", "+[->+<]", map[int]int{1: 6, 6: 1}},
		{"two families", "[()]", map[int]int{0: 3, 3: 0, 1: 2, 2: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := tableFrom(tt.src)
			if err := tbl.IsBalanced(); err != nil {
				t.Fatalf("IsBalanced: %v", err)
			}
			if err := tbl.PairUp(); err != nil {
				t.Fatalf("PairUp: %v", err)
			}
			got := map[int]int{}
			for _, pos := range tbl.Positions() {
				c, ok := tbl.Counterpart(pos)
				if !ok {
					t.Fatalf("position %d has no counterpart", pos)
				}
				got[pos] = c
			}
			if diff := cmp.Diff(tt.pairs, got); diff != "" {
				t.Errorf("pairs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTable_Unbalanced(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind errors.Kind
		pos  int
	}{
		{"single open", "[", errors.KindUnmatchedLeftBracket, 0},
		{"single close", "]", errors.KindUnmatchedRightBracket, 0},
		{"close first", "][", errors.KindUnmatchedRightBracket, 0},
		{"extra close", "[]]", errors.KindUnmatchedRightBracket, 2},
		{"two unmatched opens", "+[[]", errors.KindUnmatchedLeftBracket, 1},
		{"crossed families", "[(])", errors.KindUnmatchedRightBracket, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := tableFrom(tt.src)
			for name, err := range map[string]error{
				"IsBalanced": tbl.IsBalanced(),
				"PairUp":     tbl.PairUp(),
			} {
				var e *errors.Error
				if !stderrors.As(err, &e) {
					t.Fatalf("%s: expected *errors.Error, got %v", name, err)
				}
				if e.Kind != tt.kind {
					t.Errorf("%s: Kind = %v, want %v", name, e.Kind, tt.kind)
				}
				if e.Position != tt.pos {
					t.Errorf("%s: Position = %d, want %d", name, e.Position, tt.pos)
				}
			}
		})
	}
}

func TestTable_PairUpFailureLeavesTableUntouched(t *testing.T) {
	tbl := tableFrom("[][")
	if err := tbl.PairUp(); err == nil {
		t.Fatal("expected PairUp to fail")
	}
	for _, pos := range tbl.Positions() {
		if _, ok := tbl.Counterpart(pos); ok {
			t.Errorf("position %d was paired despite failure", pos)
		}
	}
}

func TestTable_IsBalancedDoesNotPair(t *testing.T) {
	tbl := tableFrom("[]")
	if err := tbl.IsBalanced(); err != nil {
		t.Fatal(err)
	}
	if _, ok := tbl.Counterpart(0); ok {
		t.Error("IsBalanced must not set counterparts")
	}
}

func TestTable_CloneIsIndependent(t *testing.T) {
	tbl := tableFrom("[]")
	c := tbl.Clone()
	if err := c.PairUp(); err != nil {
		t.Fatal(err)
	}
	if _, ok := tbl.Counterpart(0); ok {
		t.Error("pairing a clone changed the original")
	}
	if _, ok := c.Counterpart(0); !ok {
		t.Error("clone was not paired")
	}
}

func TestTable_PairingIsBijection(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		src := randomBalanced(rng, rng.Intn(40))
		tbl := tableFrom(src)
		if err := tbl.PairUp(); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		for _, p := range tbl.Positions() {
			c, ok := tbl.Counterpart(p)
			if !ok {
				t.Fatalf("%q: %d unpaired", src, p)
			}
			back, ok := tbl.Counterpart(c)
			if !ok || back != p {
				t.Fatalf("%q: counterpart(counterpart(%d)) = %d", src, p, back)
			}
		}
	}
}

func randomBalanced(rng *rand.Rand, pairs int) string {
	var out []byte
	open := 0
	for pairs > 0 || open > 0 {
		switch {
		case pairs > 0 && (open == 0 || rng.Intn(2) == 0):
			out = append(out, '[')
			open++
			pairs--
		case rng.Intn(3) == 0:
			out = append(out, '+')
		default:
			out = append(out, ']')
			open--
		}
	}
	return string(out)
}
