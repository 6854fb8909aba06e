package physics

import (
	"math"
	"testing"

	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/integrators"
)

func square(side float64) []dynamo.Particle {
	return []dynamo.Particle{
		dynamo.NewParticle(0, 0, 1),
		dynamo.NewParticle(side, 0, 1),
		dynamo.NewParticle(side, side, 1),
		dynamo.NewParticle(0, side, 1),
	}
}

func TestSignedArea(t *testing.T) {
	ps := square(10)
	tests := []struct {
		name string
		loop []int
		want float64
	}{
		{"ccw", []int{0, 1, 2, 3}, 100},
		{"cw", []int{3, 2, 1, 0}, -100},
		{"degenerate", []int{0, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SignedArea(ps, tt.loop); got != tt.want {
				t.Errorf("expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestPressureRestoresCompressedArea(t *testing.T) {
	for _, loop := range [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}} {
		ps := square(10)
		p := NewPressure()
		p.Calibrate(ps, loop)

		for i := range ps {
			ps[i].X = 5 + (ps[i].X-5)*0.9
			ps[i].Y = 5 + (ps[i].Y-5)*0.9
		}
		before := math.Abs(SignedArea(ps, loop))

		got := p.Solve(ps, loop, 1.0/60)
		integrators.NewVerlet().Flush(ps, 1.0/60)
		after := math.Abs(SignedArea(ps, loop))

		if math.Abs(got-before) > 1e-9 {
			t.Errorf("Solve returned %g, expected current area %g", got, before)
		}
		gain := after - before
		if gain < 1.5 || gain > 2.5 {
			t.Errorf("loop %v: expected about a tenth of the 19 unit deficit back, got %g", loop, gain)
		}
	}
}

func TestPressureSkipsDegenerateLoops(t *testing.T) {
	ps := square(10)
	p := NewPressure()
	p.Calibrate(ps, []int{0, 1, 2, 3})
	ps[1].Kill()
	ps[2].Kill()

	p.Solve(ps, []int{0, 1, 2, 3}, 1.0/60)
	p.Solve(ps, []int{0, 1}, 1.0/60)

	for i := range ps {
		if ps[i].FX != 0 || ps[i].FY != 0 {
			t.Fatalf("particle %d received pressure force", i)
		}
	}
}

func TestPressureRetargetKeepsRatio(t *testing.T) {
	ps := append(square(10), dynamo.NewParticle(20, 5, 1))
	p := NewPressure()
	p.Calibrate(ps, []int{0, 1, 2, 3})
	p.target = 200

	p.Retarget(ps, []int{0, 1, 2, 3}, []int{0, 1, 4, 2, 3})

	if math.Abs(p.Target()-300) > 1e-9 {
		t.Errorf("expected target 300 (150 area x2), got %g", p.Target())
	}
}
