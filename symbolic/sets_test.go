package symbolic_test

import (
	"encoding/json"
	"testing"

	"github.com/njchilds90/fnanalyze/symbolic"
)

// ============================================================
// Set tests
// ============================================================

func TestSet_Printing(t *testing.T) {
	cases := []struct {
		s    symbolic.Set
		want string
	}{
		{symbolic.EmptySet(), "∅"},
		{symbolic.Reals(), "ℝ"},
		{symbolic.FiniteSet(symbolic.N(2), symbolic.N(-2), symbolic.N(2)), "{-2, 2}"},
		{symbolic.NewInterval(symbolic.N(4), symbolic.Inf, false, true), "[4, ∞)"},
		{symbolic.Reals().Minus(symbolic.FiniteSet(symbolic.N(1), symbolic.N(2))), "ℝ \\ {1, 2}"},
	}
	for _, c := range cases {
		if got := c.s.String(); got != c.want {
			t.Errorf("want %s, got %s", c.want, got)
		}
	}
}

func TestSet_UnionMergesTouching(t *testing.T) {
	s := symbolic.Union(
		symbolic.NewInterval(symbolic.N(0), symbolic.N(1), false, false),
		symbolic.NewInterval(symbolic.N(1), symbolic.N(2), true, false),
	)
	if s.String() != "[0, 2]" {
		t.Errorf("want [0, 2], got %s", s)
	}
}

func TestSet_UnionKeepsGap(t *testing.T) {
	s := symbolic.Union(
		symbolic.NewInterval(symbolic.N(0), symbolic.N(1), false, true),
		symbolic.NewInterval(symbolic.N(1), symbolic.N(2), true, false),
	)
	if s.Kind() != "union" {
		t.Errorf("want union, got %s (%s)", s.Kind(), s)
	}
}

func TestSet_Intersect(t *testing.T) {
	s := symbolic.Intersect(
		symbolic.NewInterval(symbolic.N(0), symbolic.N(2), false, false),
		symbolic.NewInterval(symbolic.N(1), symbolic.N(3), true, true),
	)
	if s.String() != "(1, 2]" {
		t.Errorf("want (1, 2], got %s", s)
	}
}

func TestSet_Complement(t *testing.T) {
	s := symbolic.NewInterval(symbolic.N(0), symbolic.N(1), false, true).Complement()
	if s.String() != "(-∞, 0) ∪ [1, ∞)" {
		t.Errorf("want (-∞, 0) ∪ [1, ∞), got %s", s)
	}
}

func TestSet_InvertedIntervalIsEmpty(t *testing.T) {
	if s := symbolic.NewInterval(symbolic.N(3), symbolic.N(1), false, false); !s.IsEmpty() {
		t.Errorf("want empty, got %s", s)
	}
}

func TestSet_Contains(t *testing.T) {
	s := symbolic.Reals().Minus(symbolic.FiniteSet(symbolic.N(1)))
	if s.Contains(symbolic.N(1)) != symbolic.False {
		t.Error("1 should not be in ℝ \\ {1}")
	}
	if s.Contains(symbolic.SqrtOf(symbolic.N(2))) != symbolic.True {
		t.Error("sqrt(2) should be in ℝ \\ {1}")
	}
	if s.Contains(symbolic.S("x")) != symbolic.Unknown {
		t.Error("membership of a symbol should be unknown")
	}
}

func TestSet_MixedExactAndIrrationalBounds(t *testing.T) {
	s := symbolic.NewInterval(symbolic.N(1), symbolic.SqrtOf(symbolic.N(5)), false, false)
	if s.Contains(symbolic.N(2)) != symbolic.True {
		t.Error("2 should be in [1, sqrt(5)]")
	}
	if s.Contains(symbolic.N(3)) != symbolic.False {
		t.Error("3 should not be in [1, sqrt(5)]")
	}
}

func TestSet_JSON(t *testing.T) {
	s := symbolic.NewInterval(symbolic.N(-4), symbolic.Inf, false, true)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var back symbolic.Set
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(s) {
		t.Errorf("want %s, got %s", s, back)
	}
}
