package mesh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/fleshsim/internal/dynamo"
)

func particles(xy ...float64) []dynamo.Particle {
	ps := make([]dynamo.Particle, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		ps = append(ps, dynamo.NewParticle(xy[i], xy[i+1], 1))
	}
	return ps
}

func TestTriangulateSquare(t *testing.T) {
	ps := particles(0, 0, 10, 0, 10, 10, 0, 10)
	tris := Triangulate(ps)

	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(tris))
	}
	for _, tr := range tris {
		a, b, c := ps[tr.A], ps[tr.B], ps[tr.C]
		o := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		if o <= 0 {
			t.Errorf("triangle %v is not counter-clockwise", tr)
		}
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	tests := []struct {
		name string
		ps   []dynamo.Particle
	}{
		{"empty", nil},
		{"two points", particles(0, 0, 1, 1)},
		{"collinear", particles(0, 0, 1, 1, 2, 2, 3, 3, 4, 4)},
		{"coincident", particles(5, 5, 5, 5, 5, 5, 5, 5)},
		{"nan", particles(math.NaN(), 0, 1, 0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tris := Triangulate(tt.ps); len(tris) != 0 {
				t.Errorf("expected no triangles, got %d", len(tris))
			}
		})
	}
}

func TestTriangulateSkipsDeadAndDuplicates(t *testing.T) {
	ps := particles(0, 0, 10, 0, 5, 8, 5, 8, 50, 50)
	ps[4].Kill()

	tris := Triangulate(ps)
	if len(tris) != 1 {
		t.Fatalf("expected 1 triangle, got %d", len(tris))
	}
	for _, idx := range []int{tris[0].A, tris[0].B, tris[0].C} {
		if idx == 3 || idx == 4 {
			t.Errorf("triangle uses duplicate or dead particle %d", idx)
		}
	}
}

func TestTriangulateEmptyCircumcircle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ps := make([]dynamo.Particle, 60)
	for i := range ps {
		ps[i] = dynamo.NewParticle(rng.Float64()*200, rng.Float64()*200, 1)
	}

	tris := Triangulate(ps)
	if len(tris) == 0 {
		t.Fatal("no triangles")
	}

	for _, tr := range tris {
		a := vertex{ps[tr.A].X, ps[tr.A].Y, tr.A}
		b := vertex{ps[tr.B].X, ps[tr.B].Y, tr.B}
		c := vertex{ps[tr.C].X, ps[tr.C].Y, tr.C}
		for i := range ps {
			if i == tr.A || i == tr.B || i == tr.C {
				continue
			}
			if inCircle(a, b, c, ps[i].X, ps[i].Y) {
				t.Fatalf("particle %d inside circumcircle of %v", i, tr)
			}
		}
	}
}

func TestTriangulateCoversHullArea(t *testing.T) {
	// regular polygon plus centre: fan of n triangles with total area of the polygon
	n := 12
	ps := []dynamo.Particle{dynamo.NewParticle(0, 0, 1)}
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		ps = append(ps, dynamo.NewParticle(100*math.Cos(a), 100*math.Sin(a), 1))
	}

	tris := Triangulate(ps)
	area := 0.0
	for _, tr := range tris {
		a, b, c := ps[tr.A], ps[tr.B], ps[tr.C]
		area += ((b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)) / 2
	}

	want := 0.5 * float64(n) * 100 * 100 * math.Sin(2*math.Pi/float64(n))
	if math.Abs(area-want) > 1e-6*want {
		t.Errorf("expected covered area %g, got %g", want, area)
	}
}
