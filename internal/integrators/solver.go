package integrators

import "github.com/san-kum/fleshsim/internal/dynamo"

const DefaultIterations = 8

// Solver runs Gauss-Seidel XPBD passes over a spring slice. Springs are
// visited in slice order, so the result is deterministic for a given order.
type Solver struct {
	Iterations int
	Compliance float64
}

func NewSolver() *Solver {
	return &Solver{Iterations: DefaultIterations}
}

func (s *Solver) Solve(ps []dynamo.Particle, springs []dynamo.Spring, dt float64) {
	for it := 0; it < s.Iterations; it++ {
		for i := range springs {
			springs[i].SolveConstraint(ps, s.Compliance, dt)
		}
	}
}

// Residual is the largest absolute length error over intact springs.
func Residual(ps []dynamo.Particle, springs []dynamo.Spring) float64 {
	worst := 0.0
	for i := range springs {
		s := &springs[i]
		if s.Torn || ps[s.A].Dead || ps[s.B].Dead {
			continue
		}
		l, _, _ := s.Length(ps)
		d := l - s.RestLength
		if d < 0 {
			d = -d
		}
		if d > worst {
			worst = d
		}
	}
	return worst
}
