package symbolic

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// ============================================================
// Real sets: finite unions of intervals
// ============================================================

// Interval is a connected subset of ℝ. Infinite ends are always open.
// Lo == Hi with both ends closed is an isolated point.
type Interval struct {
	Lo, Hi              Expr
	LeftOpen, RightOpen bool

	lo, hi float64
}

// Set is a subset of the real line kept as sorted, disjoint, non-touching
// intervals. The zero value is the empty set.
type Set struct {
	ivs []Interval
}

func EmptySet() Set { return Set{} }

func Reals() Set {
	return Set{ivs: []Interval{{Lo: NegInf, Hi: Inf, LeftOpen: true, RightOpen: true, lo: math.Inf(-1), hi: math.Inf(1)}}}
}

// NewInterval builds the interval between lo and hi. Bounds must be closed
// real numbers or ±∞; an inverted interval is empty.
func NewInterval(lo, hi Expr, leftOpen, rightOpen bool) Set {
	iv, ok := makeInterval(lo, hi, leftOpen, rightOpen)
	if !ok {
		return Set{}
	}
	return Set{ivs: []Interval{iv}}
}

// FiniteSet builds the set of the given real points.
func FiniteSet(points ...Expr) Set {
	var ivs []Interval
	for _, p := range points {
		if iv, ok := makeInterval(p, p, false, false); ok {
			ivs = append(ivs, iv)
		}
	}
	return normalize(ivs)
}

func makeInterval(lo, hi Expr, leftOpen, rightOpen bool) (Interval, bool) {
	lf, ok1 := boundFloat(lo)
	hf, ok2 := boundFloat(hi)
	if !ok1 || !ok2 {
		return Interval{}, false
	}
	if math.IsInf(lf, 0) {
		leftOpen = true
	}
	if math.IsInf(hf, 0) {
		rightOpen = true
	}
	iv := Interval{Lo: lo, Hi: hi, LeftOpen: leftOpen, RightOpen: rightOpen, lo: lf, hi: hf}
	c := cmpBound(lo, lf, hi, hf)
	if c > 0 || (c == 0 && (leftOpen || rightOpen)) || (c == 0 && math.IsInf(lf, 0)) {
		return Interval{}, false
	}
	return iv, true
}

func boundFloat(e Expr) (float64, bool) {
	if inf, ok := e.(*Infinity); ok {
		if inf.neg {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	return Float(e)
}

// cmpBound compares two bounds exactly when both are rationals, otherwise
// numerically with a relative tolerance.
func cmpBound(a Expr, af float64, b Expr, bf float64) int {
	an, ok1 := a.(*Num)
	bn, ok2 := b.(*Num)
	if ok1 && ok2 {
		return numCmp(an, bn)
	}
	if af == bf {
		return 0
	}
	if !math.IsInf(af, 0) && !math.IsInf(bf, 0) && math.Abs(af-bf) <= 1e-12*math.Max(1, math.Max(math.Abs(af), math.Abs(bf))) {
		return 0
	}
	if af < bf {
		return -1
	}
	return 1
}

func normalize(ivs []Interval) Set {
	if len(ivs) == 0 {
		return Set{}
	}
	sorted := append([]Interval(nil), ivs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		c := cmpBound(sorted[i].Lo, sorted[i].lo, sorted[j].Lo, sorted[j].lo)
		if c != 0 {
			return c < 0
		}
		return !sorted[i].LeftOpen && sorted[j].LeftOpen
	})
	out := []Interval{sorted[0]}
	for _, next := range sorted[1:] {
		cur := &out[len(out)-1]
		c := cmpBound(next.Lo, next.lo, cur.Hi, cur.hi)
		touching := c < 0 || (c == 0 && (!cur.RightOpen || !next.LeftOpen))
		if !touching {
			out = append(out, next)
			continue
		}
		if cmpBound(next.Lo, next.lo, cur.Lo, cur.lo) == 0 && !next.LeftOpen {
			cur.LeftOpen = false
		}
		switch h := cmpBound(next.Hi, next.hi, cur.Hi, cur.hi); {
		case h > 0:
			cur.Hi, cur.hi, cur.RightOpen = next.Hi, next.hi, next.RightOpen
		case h == 0:
			cur.RightOpen = cur.RightOpen && next.RightOpen
		}
	}
	return Set{ivs: out}
}

// Union returns every point in any of the sets.
func Union(sets ...Set) Set {
	var all []Interval
	for _, s := range sets {
		all = append(all, s.ivs...)
	}
	return normalize(all)
}

// Intersect returns the points common to a and b.
func Intersect(a, b Set) Set {
	var out []Interval
	for _, x := range a.ivs {
		for _, y := range b.ivs {
			lo, lf, lopen := x.Lo, x.lo, x.LeftOpen
			switch c := cmpBound(y.Lo, y.lo, x.Lo, x.lo); {
			case c > 0:
				lo, lf, lopen = y.Lo, y.lo, y.LeftOpen
			case c == 0:
				lopen = x.LeftOpen || y.LeftOpen
			}
			hi, hf, hopen := x.Hi, x.hi, x.RightOpen
			switch c := cmpBound(y.Hi, y.hi, x.Hi, x.hi); {
			case c < 0:
				hi, hf, hopen = y.Hi, y.hi, y.RightOpen
			case c == 0:
				hopen = x.RightOpen || y.RightOpen
			}
			c := cmpBound(lo, lf, hi, hf)
			if c < 0 || (c == 0 && !lopen && !hopen) {
				out = append(out, Interval{Lo: lo, Hi: hi, LeftOpen: lopen, RightOpen: hopen, lo: lf, hi: hf})
			}
		}
	}
	return normalize(out)
}

// Complement returns ℝ \ s.
func (s Set) Complement() Set {
	var out []Interval
	lo, lf, lopen := Expr(NegInf), math.Inf(-1), true
	for _, iv := range s.ivs {
		if c := cmpBound(lo, lf, iv.Lo, iv.lo); c < 0 || (c == 0 && !lopen && iv.LeftOpen) {
			out = append(out, Interval{Lo: lo, Hi: iv.Lo, LeftOpen: lopen, RightOpen: !iv.LeftOpen, lo: lf, hi: iv.lo})
		}
		lo, lf, lopen = iv.Hi, iv.hi, !iv.RightOpen
	}
	if !math.IsInf(lf, 1) {
		out = append(out, Interval{Lo: lo, Hi: Inf, LeftOpen: lopen, RightOpen: true, lo: lf, hi: math.Inf(1)})
	}
	return normalize(out)
}

// Minus returns s \ other.
func (s Set) Minus(other Set) Set { return Intersect(s, other.Complement()) }

// Contains reports whether the closed number x lies in s.
func (s Set) Contains(x Expr) Tri {
	xf, ok := boundFloat(x)
	if !ok || math.IsInf(xf, 0) {
		return Unknown
	}
	for _, iv := range s.ivs {
		cl := cmpBound(x, xf, iv.Lo, iv.lo)
		ch := cmpBound(x, xf, iv.Hi, iv.hi)
		inLo := cl > 0 || (cl == 0 && !iv.LeftOpen)
		inHi := ch < 0 || (ch == 0 && !iv.RightOpen)
		if inLo && inHi {
			return True
		}
	}
	return False
}

func (s Set) IsEmpty() bool { return len(s.ivs) == 0 }

func (s Set) IsReals() bool {
	return len(s.ivs) == 1 && math.IsInf(s.ivs[0].lo, -1) && math.IsInf(s.ivs[0].hi, 1)
}

// Intervals returns the disjoint pieces in ascending order.
func (s Set) Intervals() []Interval { return append([]Interval(nil), s.ivs...) }

// Points returns the isolated points when s is a finite set.
func (s Set) Points() ([]Expr, bool) {
	pts := make([]Expr, 0, len(s.ivs))
	for _, iv := range s.ivs {
		if !iv.IsPoint() {
			return nil, false
		}
		pts = append(pts, iv.Lo)
	}
	return pts, true
}

// Kind names the shape of the set: empty, reals, interval, finite or union.
func (s Set) Kind() string {
	switch {
	case len(s.ivs) == 0:
		return "empty"
	case s.IsReals():
		return "reals"
	}
	if _, ok := s.Points(); ok {
		return "finite"
	}
	if len(s.ivs) == 1 {
		return "interval"
	}
	return "union"
}

// Bounds returns the infimum and supremum as floats.
func (s Set) Bounds() (lo, hi float64, ok bool) {
	if len(s.ivs) == 0 {
		return 0, 0, false
	}
	return s.ivs[0].lo, s.ivs[len(s.ivs)-1].hi, true
}

func (s Set) Equal(o Set) bool {
	if len(s.ivs) != len(o.ivs) {
		return false
	}
	for i := range s.ivs {
		a, b := s.ivs[i], o.ivs[i]
		if a.LeftOpen != b.LeftOpen || a.RightOpen != b.RightOpen ||
			cmpBound(a.Lo, a.lo, b.Lo, b.lo) != 0 || cmpBound(a.Hi, a.hi, b.Hi, b.hi) != 0 {
			return false
		}
	}
	return true
}

func (iv Interval) IsPoint() bool {
	return !iv.LeftOpen && !iv.RightOpen && cmpBound(iv.Lo, iv.lo, iv.Hi, iv.hi) == 0
}

func (iv Interval) String() string {
	if iv.IsPoint() {
		return "{" + iv.Lo.String() + "}"
	}
	l, r := "[", "]"
	if iv.LeftOpen {
		l = "("
	}
	if iv.RightOpen {
		r = ")"
	}
	return l + iv.Lo.String() + ", " + iv.Hi.String() + r
}

func (iv Interval) LaTeX() string {
	if iv.IsPoint() {
		return "\\left\\{" + iv.Lo.LaTeX() + "\\right\\}"
	}
	l, r := "\\left[", "\\right]"
	if iv.LeftOpen {
		l = "\\left("
	}
	if iv.RightOpen {
		r = "\\right)"
	}
	return l + iv.Lo.LaTeX() + ", " + iv.Hi.LaTeX() + r
}

func joinExprs(xs []Expr, latex bool) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		if latex {
			parts[i] = x.LaTeX()
		} else {
			parts[i] = x.String()
		}
	}
	return strings.Join(parts, ", ")
}

func (s Set) String() string {
	switch s.Kind() {
	case "empty":
		return "∅"
	case "reals":
		return "ℝ"
	case "finite":
		pts, _ := s.Points()
		return "{" + joinExprs(pts, false) + "}"
	}
	if pts, ok := s.Complement().Points(); ok && len(pts) > 0 {
		return "ℝ \\ {" + joinExprs(pts, false) + "}"
	}
	parts := make([]string, len(s.ivs))
	for i, iv := range s.ivs {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " ∪ ")
}

func (s Set) LaTeX() string {
	switch s.Kind() {
	case "empty":
		return "\\emptyset"
	case "reals":
		return "\\mathbb{R}"
	case "finite":
		pts, _ := s.Points()
		return "\\left\\{" + joinExprs(pts, true) + "\\right\\}"
	}
	if pts, ok := s.Complement().Points(); ok && len(pts) > 0 {
		return "\\mathbb{R} \\setminus \\left\\{" + joinExprs(pts, true) + "\\right\\}"
	}
	parts := make([]string, len(s.ivs))
	for i, iv := range s.ivs {
		parts[i] = iv.LaTeX()
	}
	return strings.Join(parts, " \\cup ")
}

type intervalJSON struct {
	Lo        map[string]interface{} `json:"lo"`
	Hi        map[string]interface{} `json:"hi"`
	LeftOpen  bool                   `json:"left_open"`
	RightOpen bool                   `json:"right_open"`
}

type setJSON struct {
	Kind      string         `json:"kind"`
	Text      string         `json:"text"`
	LaTeX     string         `json:"latex"`
	Intervals []intervalJSON `json:"intervals"`
}

func (s Set) MarshalJSON() ([]byte, error) {
	out := setJSON{Kind: s.Kind(), Text: s.String(), LaTeX: s.LaTeX(), Intervals: []intervalJSON{}}
	for _, iv := range s.ivs {
		out.Intervals = append(out.Intervals, intervalJSON{
			Lo: iv.Lo.toJSON(), Hi: iv.Hi.toJSON(), LeftOpen: iv.LeftOpen, RightOpen: iv.RightOpen,
		})
	}
	return json.Marshal(out)
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var in setJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var ivs []Interval
	for _, j := range in.Intervals {
		lo, err := fromJSON(j.Lo)
		if err != nil {
			return err
		}
		hi, err := fromJSON(j.Hi)
		if err != nil {
			return err
		}
		if iv, ok := makeInterval(lo, hi, j.LeftOpen, j.RightOpen); ok {
			ivs = append(ivs, iv)
		}
	}
	*s = normalize(ivs)
	return nil
}
