package mesh

import (
	"math"

	"github.com/san-kum/fleshsim/internal/dynamo"
)

const (
	// coincident points closer than this are triangulated once
	mergeEps = 1e-6
	areaEps  = 1e-9
	// super triangle size as a multiple of the input span
	superScale = 32.0
)

// Triangle holds three particle indices in counter-clockwise order.
type Triangle struct {
	A, B, C int
}

// Active reports whether all three vertices are alive.
func (t Triangle) Active(ps []dynamo.Particle) bool {
	return !ps[t.A].Dead && !ps[t.B].Dead && !ps[t.C].Dead
}

// Circumradius of the triangle at the particles' current positions.
// Degenerate triangles report +Inf.
func (t Triangle) Circumradius(ps []dynamo.Particle) float64 {
	a, b, c := ps[t.A], ps[t.B], ps[t.C]
	return circumradius(a.X, a.Y, b.X, b.Y, c.X, c.Y)
}

// ActiveCount counts triangles with no dead vertex.
func ActiveCount(ps []dynamo.Particle, tris []Triangle) int {
	n := 0
	for _, t := range tris {
		if t.Active(ps) {
			n++
		}
	}
	return n
}

type vertex struct {
	x, y  float64
	index int
}

type face struct {
	a, b, c int
	bad     bool
}

type edge struct {
	a, b int
}

// Triangulate returns a Delaunay triangulation of the living particles.
// It returns nil for fewer than three distinct points or collinear input.
func Triangulate(ps []dynamo.Particle) []Triangle {
	verts := collect(ps)
	n := len(verts)
	if n < 3 {
		return nil
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range verts {
		minX, maxX = math.Min(minX, v.x), math.Max(maxX, v.x)
		minY, maxY = math.Min(minY, v.y), math.Max(maxY, v.y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span < mergeEps {
		return nil
	}
	mx, my := (minX+maxX)/2, (minY+maxY)/2
	d := span * superScale
	verts = append(verts,
		vertex{mx - d, my - d, -1},
		vertex{mx + d, my - d, -1},
		vertex{mx, my + d, -1},
	)

	faces := []face{ccw(verts, n, n+1, n+2)}
	var hole []edge

	for p := 0; p < n; p++ {
		px, py := verts[p].x, verts[p].y
		for i := range faces {
			f := &faces[i]
			f.bad = inCircle(verts[f.a], verts[f.b], verts[f.c], px, py)
		}

		hole = hole[:0]
		for i := range faces {
			if !faces[i].bad {
				continue
			}
			f := faces[i]
			for _, e := range [3]edge{{f.a, f.b}, {f.b, f.c}, {f.c, f.a}} {
				if !sharedWithBad(faces, i, e) {
					hole = append(hole, e)
				}
			}
		}

		kept := faces[:0]
		for _, f := range faces {
			if !f.bad {
				kept = append(kept, f)
			}
		}
		faces = kept
		for _, e := range hole {
			if math.Abs(orient(verts[e.a], verts[e.b], verts[p])) < areaEps {
				continue
			}
			faces = append(faces, ccw(verts, e.a, e.b, p))
		}
	}

	var out []Triangle
	for _, f := range faces {
		if f.a >= n || f.b >= n || f.c >= n {
			continue
		}
		if math.Abs(orient(verts[f.a], verts[f.b], verts[f.c])) < areaEps {
			continue
		}
		out = append(out, Triangle{verts[f.a].index, verts[f.b].index, verts[f.c].index})
	}
	return out
}

func collect(ps []dynamo.Particle) []vertex {
	seen := make(map[[2]int64]struct{}, len(ps))
	verts := make([]vertex, 0, len(ps)+3)
	for i := range ps {
		p := &ps[i]
		if p.Dead || !dynamo.IsFinite(p.X) || !dynamo.IsFinite(p.Y) {
			continue
		}
		key := [2]int64{int64(math.Round(p.X / mergeEps)), int64(math.Round(p.Y / mergeEps))}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		verts = append(verts, vertex{p.X, p.Y, i})
	}
	return verts
}

func sharedWithBad(faces []face, self int, e edge) bool {
	for j := range faces {
		if j == self || !faces[j].bad {
			continue
		}
		f := faces[j]
		if hasEdge(f, e.b, e.a) || hasEdge(f, e.a, e.b) {
			return true
		}
	}
	return false
}

func hasEdge(f face, a, b int) bool {
	return (f.a == a && f.b == b) || (f.b == a && f.c == b) || (f.c == a && f.a == b)
}

func ccw(verts []vertex, a, b, c int) face {
	if orient(verts[a], verts[b], verts[c]) < 0 {
		b, c = c, b
	}
	return face{a: a, b: b, c: c}
}

// orient is twice the signed area of abc; positive when counter-clockwise.
func orient(a, b, c vertex) float64 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

// inCircle reports whether (px, py) lies strictly inside the circumcircle
// of the counter-clockwise triangle abc.
func inCircle(a, b, c vertex, px, py float64) bool {
	adx, ady := a.x-px, a.y-py
	bdx, bdy := b.x-px, b.y-py
	cdx, cdy := c.x-px, c.y-py
	ad := adx*adx + ady*ady
	bd := bdx*bdx + bdy*bdy
	cd := cdx*cdx + cdy*cdy
	det := adx*(bdy*cd-bd*cdy) - ady*(bdx*cd-bd*cdx) + ad*(bdx*cdy-bdy*cdx)
	return det > 0
}

func circumradius(ax, ay, bx, by, cx, cy float64) float64 {
	a := math.Hypot(bx-cx, by-cy)
	b := math.Hypot(ax-cx, ay-cy)
	c := math.Hypot(ax-bx, ay-by)
	area2 := math.Abs((bx-ax)*(cy-ay) - (by-ay)*(cx-ax))
	if area2 < areaEps {
		return math.Inf(1)
	}
	return a * b * c / (2 * area2)
}
