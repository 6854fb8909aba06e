package dynamo

import "math"

const (
	// SpringK converts stretch (px) at stiffness 1 into force units.
	SpringK = 400.0
	// TearStrain is the strain at which an undamped spring reports stress ratio 1.
	// SpringK*TearStrain is the tear-threshold constant of the stress ratio.
	TearStrain = 0.35
	// MinRestLength keeps every rest length strictly positive.
	MinRestLength = 1e-3

	epsilon = 1e-9
)

type SpringKind int

const (
	KindEdge SpringKind = iota
	KindStructural
	KindDiagonal
	KindCross
)

var kindNames = [...]string{"edge", "structural", "diagonal", "cross"}

func (k SpringKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// DefaultStiffness is monotonically decreasing from edge to cross: short local
// links resist stretch more than long shape-keeping ones.
func (k SpringKind) DefaultStiffness() float64 {
	switch k {
	case KindEdge:
		return 0.95
	case KindStructural:
		return 0.85
	case KindDiagonal:
		return 0.6
	case KindCross:
		return 0.25
	}
	return 0.5
}

// DefaultSpringDamping is the base damping coefficient (force per px/s of closing speed).
const DefaultSpringDamping = 2.0

// Spring is a damped edge between two particles addressed by index.
type Spring struct {
	A, B          int
	RestLength    float64
	Kind          SpringKind
	BaseStiffness float64
	Stiffness     float64 // BaseStiffness scaled by the body multiplier, [0,1]
	BaseDamping   float64
	Damping       float64
	Torn          bool
	StressRatio   float64
	Force         float64
}

// NewSpring creates a spring resting at the current distance between a and b.
func NewSpring(ps []Particle, a, b int, kind SpringKind) Spring {
	s := Spring{
		A:             a,
		B:             b,
		Kind:          kind,
		BaseStiffness: kind.DefaultStiffness(),
		Stiffness:     kind.DefaultStiffness(),
		BaseDamping:   DefaultSpringDamping,
		Damping:       DefaultSpringDamping,
	}
	s.SetRestLengthToCurrent(ps)
	return s
}

// Length returns the current endpoint distance and the unit direction from A to B.
func (s *Spring) Length(ps []Particle) (l, nx, ny float64) {
	dx := ps[s.B].X - ps[s.A].X
	dy := ps[s.B].Y - ps[s.A].Y
	l = math.Hypot(dx, dy)
	if l < epsilon {
		return l, 0, 0
	}
	return l, dx / l, dy / l
}

// AccumulateForce adds the Hookean and damping force to both endpoints and
// records the stress ratio read by the tear detector.
func (s *Spring) AccumulateForce(ps []Particle, dt float64) {
	if s.Torn {
		return
	}
	a, b := &ps[s.A], &ps[s.B]
	if a.Dead || b.Dead {
		s.StressRatio, s.Force = 0, 0
		return
	}
	l, nx, ny := s.Length(ps)
	if l < epsilon {
		s.StressRatio, s.Force = 0, 0
		return
	}

	f := (l - s.RestLength) * s.Stiffness * SpringK
	if dt > 0 {
		avx, avy := a.Velocity()
		bvx, bvy := b.Velocity()
		closing := ((bvx-avx)*nx + (bvy-avy)*ny) / dt
		f += s.Damping * closing
	}

	a.AddForce(f*nx, f*ny)
	b.AddForce(-f*nx, -f*ny)

	s.Force = f
	limit := s.RestLength * s.Stiffness * SpringK * TearStrain
	if limit < epsilon {
		s.StressRatio = 0
		return
	}
	s.StressRatio = clamp01(math.Abs(f) / limit)
}

// SolveConstraint applies one XPBD distance projection. compliance is the
// inverse stiffness of the constraint; 0 makes it rigid.
func (s *Spring) SolveConstraint(ps []Particle, compliance, dt float64) {
	if s.Torn {
		return
	}
	a, b := &ps[s.A], &ps[s.B]
	wa, wb := a.Weight(), b.Weight()
	w := wa + wb
	if w < epsilon {
		return
	}
	l, nx, ny := s.Length(ps)
	if l < epsilon {
		return
	}

	alpha := 0.0
	if compliance > 0 && dt > 0 {
		alpha = compliance / (dt * dt)
	}
	lambda := -(l - s.RestLength) / (w + alpha)
	k := s.Stiffness

	a.X -= lambda * wa * k * nx
	a.Y -= lambda * wa * k * ny
	b.X += lambda * wb * k * nx
	b.Y += lambda * wb * k * ny
}

// Tear marks the spring failed and leaves a wound cue on both endpoints.
// Tearing twice is a no-op.
func (s *Spring) Tear(ps []Particle) {
	if s.Torn {
		return
	}
	s.Torn = true
	half := s.StressRatio * 0.5
	ps[s.A].AddStress(half)
	ps[s.B].AddStress(half)
	s.Force = 0
}

// Relax creeps the rest length toward the current length by rate in [0,1].
func (s *Spring) Relax(ps []Particle, rate float64) {
	if s.Torn || rate <= 0 {
		return
	}
	l, _, _ := s.Length(ps)
	s.RestLength += (l - s.RestLength) * math.Min(rate, 1)
	if s.RestLength < MinRestLength {
		s.RestLength = MinRestLength
	}
}

func (s *Spring) SetRestLengthToCurrent(ps []Particle) {
	l, _, _ := s.Length(ps)
	s.RestLength = math.Max(l, MinRestLength)
}

// Scale applies body-wide stiffness and damping multipliers to the base values.
func (s *Spring) Scale(stiffness, damping float64) {
	s.Stiffness = clamp01(s.BaseStiffness * stiffness)
	s.Damping = math.Max(0, s.BaseDamping*damping)
}

// Strain is the signed relative elongation.
func (s *Spring) Strain(ps []Particle) float64 {
	l, _, _ := s.Length(ps)
	return (l - s.RestLength) / s.RestLength
}
