package parse_test

import (
	"errors"
	"testing"

	"github.com/njchilds90/fnanalyze/parse"
)

// ============================================================
// Parsing
// ============================================================

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"x^2 - 4", "x^2 - 4"},
		{"x**2 - 4", "x^2 - 4"},
		{"(x-1)/(x-1)", "(x - 1)/(x - 1)"},
		{"sqrt(x-4)", "sqrt(x - 4)"},
		{"sin(x)/x", "sin(x)/x"},
		{"1/(x-1)", "1/(x - 1)"},
		{"2x", "2*x"},
		{"x(x+1)", "x*(x + 1)"},
		{"2 sin x", "2*sin(x)"},
		{"sin x^2", "sin(x^2)"},
		{"sin(x)^2", "sin(x)^2"},
		{"-x^2", "-x^2"},
		{"2^-1", "1/2"},
		{"0.25x", "x/4"},
		{"1.5e2", "150"},
		{"2e", "2*e"},
		{"e^x", "exp(x)"},
		{"ln(x)", "log(x)"},
		{"π", "pi"},
		{"abs(x)", "abs(x)"},
		{"xsinx", "sin(x)*x"},
	}
	for _, c := range cases {
		e, err := parse.Parse(c.in, "x")
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.in, err)
			continue
		}
		if e.String() != c.want {
			t.Errorf("%q: want %s, got %s", c.in, c.want, e.String())
		}
	}
}

func TestParse_OtherVariable(t *testing.T) {
	e, err := parse.Parse("t^2 + 1", "t")
	if err != nil {
		t.Fatal(err)
	}
	if e.String() != "t^2 + 1" {
		t.Errorf("want t^2 + 1, got %s", e.String())
	}
}

func TestParse_DefaultVariable(t *testing.T) {
	e, err := parse.Parse("x + 1", "")
	if err != nil {
		t.Fatal(err)
	}
	if e.String() != "x + 1" {
		t.Errorf("want x + 1, got %s", e.String())
	}
}

// ============================================================
// Errors
// ============================================================

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		in  string
		pos int
	}{
		{"", 0},
		{"x +", 3},
		{"(x + 1", 6},
		{"x $ 2", 2},
		{"y + 1", 0},
		{"x + )", 4},
		{"sin", 0},
	}
	for _, c := range cases {
		_, err := parse.Parse(c.in, "x")
		var perr *parse.Error
		if !errors.As(err, &perr) {
			t.Errorf("%q: want *parse.Error, got %v", c.in, err)
			continue
		}
		if perr.Pos != c.pos {
			t.Errorf("%q: want offset %d, got %d (%s)", c.in, c.pos, perr.Pos, perr.Msg)
		}
	}
}

func TestParse_BadVariable(t *testing.T) {
	for _, v := range []string{"sin", "e", "2x"} {
		if _, err := parse.Parse("1", v); err == nil {
			t.Errorf("variable %q should be rejected", v)
		}
	}
}

func TestError_Caret(t *testing.T) {
	_, err := parse.Parse("x $ 2", "x")
	var perr *parse.Error
	if !errors.As(err, &perr) {
		t.Fatalf("want *parse.Error, got %v", err)
	}
	if got := perr.Caret(); got != "x $ 2\n  ^" {
		t.Errorf("want caret under '$', got %q", got)
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	parse.MustParse("(", "x")
}
