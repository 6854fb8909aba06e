package dynamo

import (
	"errors"
	"math"
	"testing"
)

func pair(dist float64) []Particle {
	return []Particle{NewParticle(0, 0, 1), NewParticle(dist, 0, 1)}
}

func TestSpringConstraintConvergesMonotonically(t *testing.T) {
	tests := []struct {
		name       string
		stretch    float64
		compliance float64
		kind       SpringKind
	}{
		{"stretched rigid", 8, 0, KindEdge},
		{"compressed rigid", -4, 0, KindStructural},
		{"stretched compliant", 6, 1e-4, KindDiagonal},
		{"cross soft", 10, 0, KindCross},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := pair(20)
			s := NewSpring(ps, 0, 1, tt.kind)
			ps[1].X += tt.stretch

			prev := math.Abs(s.Strain(ps) * s.RestLength)
			for i := 0; i < 16; i++ {
				s.SolveConstraint(ps, tt.compliance, 1.0/60)
				l, _, _ := s.Length(ps)
				errNow := math.Abs(l - s.RestLength)
				if errNow > prev+1e-12 {
					t.Fatalf("iteration %d: error grew from %g to %g", i, prev, errNow)
				}
				prev = errNow
			}
			if tt.compliance == 0 && prev > 0.1 {
				t.Errorf("expected near convergence, residual %g", prev)
			}
		})
	}
}

func TestSpringConstraintRespectsPinned(t *testing.T) {
	ps := pair(10)
	s := NewSpring(ps, 0, 1, KindEdge)
	ps[0].Pin()
	ps[1].X = 15

	s.SolveConstraint(ps, 0, 1.0/60)

	if ps[0].X != 0 || ps[0].Y != 0 {
		t.Errorf("pinned endpoint moved to (%g,%g)", ps[0].X, ps[0].Y)
	}
	if ps[1].X >= 15 {
		t.Errorf("free endpoint did not move toward rest, x=%g", ps[1].X)
	}
}

func TestSpringConstraintSkipsImmovablePair(t *testing.T) {
	ps := pair(10)
	s := NewSpring(ps, 0, 1, KindEdge)
	ps[0].Pin()
	ps[1].Kill()
	ps[1].X = 30

	s.SolveConstraint(ps, 0, 1.0/60)

	if ps[1].X != 30 || ps[0].X != 0 {
		t.Error("zero-weight pair should be skipped")
	}
}

func TestSpringStressRatio(t *testing.T) {
	ps := pair(10)
	s := NewSpring(ps, 0, 1, KindEdge)

	s.AccumulateForce(ps, 1.0/60)
	if s.StressRatio != 0 {
		t.Errorf("expected zero stress at rest, got %g", s.StressRatio)
	}

	ps[0].ClearForces()
	ps[1].ClearForces()
	ps[1].X, ps[1].PrevX = 10+10*TearStrain*0.5, 10+10*TearStrain*0.5
	ps[0].PrevX = 0
	s.AccumulateForce(ps, 1.0/60)
	if math.Abs(s.StressRatio-0.5) > 1e-9 {
		t.Errorf("expected stress 0.5 at half tear strain, got %g", s.StressRatio)
	}
	if ps[0].FX <= 0 || ps[1].FX >= 0 {
		t.Errorf("stretched spring should pull endpoints together, got %g %g", ps[0].FX, ps[1].FX)
	}

	ps[1].X, ps[1].PrevX = 40, 40
	s.AccumulateForce(ps, 1.0/60)
	if s.StressRatio != 1 {
		t.Errorf("stress ratio should clamp at 1, got %g", s.StressRatio)
	}
}

func TestSpringTearIsIdempotent(t *testing.T) {
	ps := pair(10)
	s := NewSpring(ps, 0, 1, KindEdge)
	s.StressRatio = 0.9

	s.Tear(ps)
	first := ps[0].Stress
	if math.Abs(first-0.45) > 1e-9 {
		t.Errorf("expected wound stress 0.45, got %g", first)
	}

	s.Tear(ps)
	if ps[0].Stress != first {
		t.Error("second tear injected stress again")
	}

	ps[1].X = 50
	ps[0].ClearForces()
	s.AccumulateForce(ps, 1.0/60)
	s.SolveConstraint(ps, 0, 1.0/60)
	if ps[0].FX != 0 || ps[1].X != 50 {
		t.Error("torn spring still acts on its endpoints")
	}
}

func TestSpringRelax(t *testing.T) {
	ps := pair(10)
	s := NewSpring(ps, 0, 1, KindEdge)
	ps[1].X = 20

	s.Relax(ps, 0.5)
	if math.Abs(s.RestLength-15) > 1e-9 {
		t.Errorf("expected rest 15, got %g", s.RestLength)
	}

	s.SetRestLengthToCurrent(ps)
	if s.RestLength != 20 {
		t.Errorf("expected rest 20, got %g", s.RestLength)
	}
}

func TestDefaultStiffnessOrdering(t *testing.T) {
	kinds := []SpringKind{KindEdge, KindStructural, KindDiagonal, KindCross}
	for i := 1; i < len(kinds); i++ {
		if kinds[i].DefaultStiffness() >= kinds[i-1].DefaultStiffness() {
			t.Errorf("%s stiffness should be below %s", kinds[i], kinds[i-1])
		}
	}
}

func TestBoundsErrorUnwrap(t *testing.T) {
	err := &BoundsError{Param: "rings", Value: 0, Want: ">= 1"}
	if !errors.Is(err, ErrParameterBounds) {
		t.Error("BoundsError should unwrap to ErrParameterBounds")
	}
	if err.Error() != "rings = 0: want >= 1" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
