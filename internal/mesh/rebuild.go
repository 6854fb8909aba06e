package mesh

import (
	"math"

	"github.com/san-kum/fleshsim/internal/dynamo"
)

// DefaultAlphaFactor scales the mean rest length into the alpha-shape
// circumradius cutoff.
const DefaultAlphaFactor = 2.0

// Source names where a rebuilt boundary loop came from.
type Source int

const (
	SourceAlpha Source = iota
	SourceHull
	SourceLast
)

func (s Source) String() string {
	switch s {
	case SourceAlpha:
		return "alpha"
	case SourceHull:
		return "hull"
	case SourceLast:
		return "last"
	}
	return "unknown"
}

// Rebuilder derives triangles and a boundary loop after topology changes.
// It remembers the last valid loop so a collapsed mesh keeps pressure alive.
type Rebuilder struct {
	AlphaFactor float64

	last   []int
	source Source
}

func NewRebuilder() *Rebuilder {
	return &Rebuilder{AlphaFactor: DefaultAlphaFactor}
}

// Reset seeds the fallback loop, typically with the lattice's outer ring.
func (r *Rebuilder) Reset(loop []int) {
	r.last = append(r.last[:0], loop...)
	r.source = SourceLast
}

// LastLoop returns the most recent valid loop.
func (r *Rebuilder) LastLoop() []int {
	return append([]int(nil), r.last...)
}

// LastSource reports which stage produced the loop of the latest Rebuild.
func (r *Rebuilder) LastSource() Source {
	return r.source
}

// Rebuild re-triangulates the living particles and traces a new boundary.
// The alpha-shape ring is preferred, then the convex hull ring, then the
// previous loop. ok is false only when the previous loop had to be reused.
func (r *Rebuilder) Rebuild(ps []dynamo.Particle, springs []dynamo.Spring) (tris []Triangle, loop []int, ok bool) {
	all := Triangulate(ps)
	if len(all) == 0 {
		r.source = SourceLast
		return nil, r.LastLoop(), false
	}

	tris = all
	if cutoff := r.AlphaFactor * MeanRestLength(ps, springs); cutoff > 0 {
		if alpha := AlphaFilter(ps, all, cutoff); len(alpha) > 0 {
			tris = alpha
			if ring := LargestRing(ps, alpha); validLoop(ps, ring) {
				r.accept(ring, SourceAlpha)
				return tris, r.LastLoop(), true
			}
		}
	}

	if ring := LargestRing(ps, all); validLoop(ps, ring) {
		r.accept(ring, SourceHull)
		return tris, r.LastLoop(), true
	}

	r.source = SourceLast
	return tris, r.LastLoop(), false
}

func (r *Rebuilder) accept(loop []int, src Source) {
	r.last = append(r.last[:0], loop...)
	r.source = src
}

// MeanRestLength averages rest lengths over intact springs between living particles.
func MeanRestLength(ps []dynamo.Particle, springs []dynamo.Spring) float64 {
	sum, n := 0.0, 0
	for i := range springs {
		s := &springs[i]
		if s.Torn || ps[s.A].Dead || ps[s.B].Dead {
			continue
		}
		sum += s.RestLength
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// AlphaFilter keeps triangles whose circumradius is at most cutoff.
func AlphaFilter(ps []dynamo.Particle, tris []Triangle, cutoff float64) []Triangle {
	out := make([]Triangle, 0, len(tris))
	for _, t := range tris {
		if t.Circumradius(ps) <= cutoff {
			out = append(out, t)
		}
	}
	return out
}

// LargestRing traces the boundary edges of a CCW triangle set into closed
// rings and returns the one enclosing the most area. Boundary edges are the
// directed edges whose reverse belongs to no triangle. Holes trace clockwise
// inside their component's outline, so the outline always wins over them
// however many vertices a hole has.
func LargestRing(ps []dynamo.Particle, tris []Triangle) []int {
	directed := make(map[edge]struct{}, len(tris)*3)
	for _, t := range tris {
		directed[edge{t.A, t.B}] = struct{}{}
		directed[edge{t.B, t.C}] = struct{}{}
		directed[edge{t.C, t.A}] = struct{}{}
	}

	next := make(map[int][]int)
	var starts []int
	for _, t := range tris {
		for _, e := range [3]edge{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}} {
			if _, ok := directed[edge{e.b, e.a}]; ok {
				continue
			}
			if len(next[e.a]) == 0 {
				starts = append(starts, e.a)
			}
			next[e.a] = append(next[e.a], e.b)
		}
	}

	var best []int
	bestArea := 0.0
	for _, start := range starts {
		for len(next[start]) > 0 {
			ring := trace(next, start)
			if len(ring) < 3 {
				continue
			}
			if a := math.Abs(ringArea(ps, ring)); best == nil || a > bestArea {
				best, bestArea = ring, a
			}
		}
	}
	return best
}

// ringArea is the shoelace area of a ring, positive when counter-clockwise.
func ringArea(ps []dynamo.Particle, ring []int) float64 {
	a := 0.0
	for i, j := range ring {
		p, q := &ps[j], &ps[ring[(i+1)%len(ring)]]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func trace(next map[int][]int, start int) []int {
	ring := []int{start}
	cur := start
	for guard := 0; ; guard++ {
		outs := next[cur]
		if len(outs) == 0 || guard > 1<<16 {
			return nil
		}
		to := outs[len(outs)-1]
		next[cur] = outs[:len(outs)-1]
		if to == start {
			return ring
		}
		ring = append(ring, to)
		cur = to
	}
}

func validLoop(ps []dynamo.Particle, loop []int) bool {
	distinct := make(map[int]struct{}, len(loop))
	for _, i := range loop {
		if i < 0 || i >= len(ps) || ps[i].Dead {
			return false
		}
		distinct[i] = struct{}{}
	}
	return len(distinct) >= 3
}
