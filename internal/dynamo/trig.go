package dynamo

import "math"

// TrigTable provides precomputed sin/cos values for fast lookup.
// Uses linear interpolation for values between table entries.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// Global default trig table (4096 entries = ~0.0015 rad resolution)
var DefaultTrigTable = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	if n < 4 {
		n = 4
	}
	t := &TrigTable{sin: make([]float64, n), cos: make([]float64, n), n: n}
	for i := 0; i < n; i++ {
		t.sin[i], t.cos[i] = math.Sincos(float64(i) * 2 * math.Pi / float64(n))
	}
	return t
}

// lookup maps an angle onto two neighbouring table slots and the blend between them.
func (t *TrigTable) lookup(x float64) (i0, i1 int, frac float64) {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	return i % t.n, (i + 1) % t.n, idx - float64(i)
}

func (t *TrigTable) SinCos(x float64) (sin, cos float64) {
	i0, i1, f := t.lookup(x)
	sin = t.sin[i0]*(1-f) + t.sin[i1]*f
	cos = t.cos[i0]*(1-f) + t.cos[i1]*f
	return
}

// Ellipse lays out points evenly spaced in angle around (cx, cy). Point counts
// that divide the table size land on exact slots.
func (t *TrigTable) Ellipse(cx, cy, rx, ry float64, points int) (xs, ys []float64) {
	xs = make([]float64, points)
	ys = make([]float64, points)
	for j := 0; j < points; j++ {
		s, c := t.SinCos(2 * math.Pi * float64(j) / float64(points))
		xs[j] = cx + rx*c
		ys[j] = cy + ry*s
	}
	return xs, ys
}
