package mesh

import (
	"math"
	"testing"

	"github.com/san-kum/fleshsim/internal/dynamo"
)

// ring builds a hub plus one ring of n points and spokes/edges between them.
func ring(n int, r float64) ([]dynamo.Particle, []dynamo.Spring) {
	ps := []dynamo.Particle{dynamo.NewParticle(0, 0, 1)}
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		ps = append(ps, dynamo.NewParticle(r*math.Cos(a), r*math.Sin(a), 1))
	}
	var springs []dynamo.Spring
	for i := 1; i <= n; i++ {
		j := i%n + 1
		springs = append(springs, dynamo.NewSpring(ps, i, j, dynamo.KindEdge))
		springs = append(springs, dynamo.NewSpring(ps, 0, i, dynamo.KindStructural))
	}
	return ps, springs
}

func distinct(loop []int) int {
	seen := map[int]bool{}
	for _, i := range loop {
		seen[i] = true
	}
	return len(seen)
}

func TestRebuildTracesOuterRing(t *testing.T) {
	ps, springs := ring(10, 50)
	r := NewRebuilder()

	tris, loop, ok := r.Rebuild(ps, springs)

	if !ok {
		t.Fatal("rebuild reported fallback")
	}
	if len(tris) == 0 {
		t.Fatal("no triangles")
	}
	if len(loop) != 10 {
		t.Errorf("expected a 10-point loop, got %v", loop)
	}
	for _, i := range loop {
		if i == 0 {
			t.Error("hub should not be on the boundary")
		}
	}
}

func TestRebuildAfterRemovingSpring(t *testing.T) {
	for remove := 0; remove < 20; remove++ {
		ps, springs := ring(10, 50)
		springs[remove] = springs[len(springs)-1]
		springs = springs[:len(springs)-1]

		tris, loop, _ := NewRebuilder().Rebuild(ps, springs)

		for _, tr := range tris {
			if !tr.Active(ps) {
				t.Fatalf("remove %d: triangle %v references a dead particle", remove, tr)
			}
		}
		if distinct(loop) < 3 {
			t.Fatalf("remove %d: loop %v has fewer than 3 particles", remove, loop)
		}
	}
}

func TestRebuildIgnoresDeadParticles(t *testing.T) {
	ps, springs := ring(12, 50)
	ps[3].Kill()
	ps[4].Kill()

	tris, loop, ok := NewRebuilder().Rebuild(ps, springs)

	if !ok {
		t.Fatal("expected a fresh loop")
	}
	for _, tr := range tris {
		if !tr.Active(ps) {
			t.Fatalf("triangle %v uses a dead particle", tr)
		}
	}
	for _, i := range loop {
		if ps[i].Dead {
			t.Fatalf("loop contains dead particle %d", i)
		}
	}
}

func TestRebuildFallsBackToLastLoop(t *testing.T) {
	ps, springs := ring(8, 50)
	r := NewRebuilder()
	_, good, ok := r.Rebuild(ps, springs)
	if !ok {
		t.Fatal("initial rebuild failed")
	}

	for i := 2; i < len(ps); i++ {
		ps[i].Kill()
	}
	tris, loop, ok := r.Rebuild(ps, springs)

	if ok {
		t.Error("expected fallback on collapsed mesh")
	}
	if tris != nil {
		t.Errorf("expected no triangles, got %v", tris)
	}
	if len(loop) != len(good) {
		t.Errorf("expected last good loop %v, got %v", good, loop)
	}
	if r.LastSource() != SourceLast {
		t.Errorf("expected source last, got %s", r.LastSource())
	}
}

func TestRebuildHullWhenAlphaRejectsAll(t *testing.T) {
	ps, springs := ring(8, 50)
	for i := range springs {
		springs[i].RestLength = 0.01
	}
	r := NewRebuilder()

	tris, loop, ok := r.Rebuild(ps, springs)

	if !ok || r.LastSource() != SourceHull {
		t.Fatalf("expected hull loop, got ok=%v source=%s", ok, r.LastSource())
	}
	if len(tris) == 0 || distinct(loop) != 8 {
		t.Errorf("unexpected hull result tris=%d loop=%v", len(tris), loop)
	}
}

func TestLargestRingPicksLargerComponent(t *testing.T) {
	ps := particles(
		0, 0, 100, 0, 100, 100, 0, 100,
	)
	for len(ps) < 10 {
		ps = append(ps, dynamo.Particle{})
	}
	ps = append(ps, particles(200, 0, 210, 0, 205, 10)...)
	tris := []Triangle{
		{0, 1, 2}, {0, 2, 3},
		{10, 11, 12},
	}
	loop := LargestRing(ps, tris)
	if len(loop) != 4 {
		t.Errorf("expected the 4-vertex ring, got %v", loop)
	}
}

func TestLargestRingPrefersAreaOverVertexCount(t *testing.T) {
	// a big square (4 boundary vertices) next to a small hexagonal fan
	// (6 boundary vertices around hub 4)
	ps := particles(0, 0, 100, 0, 100, 100, 0, 100, 300, 50)
	for i := 0; i < 6; i++ {
		a := 2 * math.Pi * float64(i) / 6
		ps = append(ps, dynamo.NewParticle(300+5*math.Cos(a), 50+5*math.Sin(a), 1))
	}
	tris := []Triangle{{0, 1, 2}, {0, 2, 3}}
	for i := 0; i < 6; i++ {
		tris = append(tris, Triangle{4, 5 + i, 5 + (i+1)%6})
	}

	loop := LargestRing(ps, tris)
	if distinct(loop) != 4 {
		t.Fatalf("expected the square outline, got %v", loop)
	}
	for _, i := range loop {
		if i > 3 {
			t.Errorf("loop %v wandered into the fan", loop)
		}
	}
}

func TestLargestRingSkipsHole(t *testing.T) {
	// an annulus: coarse outer square, finely sampled inner hole
	ps := particles(-100, -100, 100, -100, 100, 100, -100, 100)
	const holeN = 12
	for i := 0; i < holeN; i++ {
		a := 2 * math.Pi * float64(i) / holeN
		ps = append(ps, dynamo.NewParticle(40*math.Cos(a), 40*math.Sin(a), 1))
	}
	var tris []Triangle
	corner := func(i int) int {
		// outer corner facing hole vertex i
		a := 2 * math.Pi * float64(i) / holeN
		x, y := math.Cos(a), math.Sin(a)
		switch {
		case x >= 0 && y >= 0:
			return 2
		case x < 0 && y >= 0:
			return 3
		case x < 0:
			return 0
		}
		return 1
	}
	for i := 0; i < holeN; i++ {
		a, b := 4+i, 4+(i+1)%holeN
		ca, cb := corner(i), corner((i+1)%holeN)
		tris = append(tris, Triangle{a, cb, b})
		if ca != cb {
			tris = append(tris, Triangle{a, ca, cb})
		}
	}

	loop := LargestRing(ps, tris)
	if distinct(loop) != 4 {
		t.Fatalf("expected the 4-corner outline, got %v", loop)
	}
}
