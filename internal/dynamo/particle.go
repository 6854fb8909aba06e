package dynamo

import "math"

// StressDecayRate is the e-folding rate (1/s) of a particle's visual stress.
const StressDecayRate = 3.0

// Particle is a point mass integrated with position Verlet.
// Velocity is implicit: (X-PrevX, Y-PrevY) per step.
type Particle struct {
	X, Y         float64
	PrevX, PrevY float64
	FX, FY       float64
	InvMass      float64 // 0 = immovable
	Pinned       bool
	Dead         bool
	Stress       float64 // visual only, [0,1]
}

func NewParticle(x, y, mass float64) Particle {
	p := Particle{X: x, Y: y, PrevX: x, PrevY: y}
	if mass > 0 {
		p.InvMass = 1 / mass
	}
	return p
}

func (p *Particle) AddForce(fx, fy float64) {
	if p.Dead {
		return
	}
	p.FX += fx
	p.FY += fy
}

// ApplyImpulse shifts the previous position so the implied velocity changes by (dx, dy).
func (p *Particle) ApplyImpulse(dx, dy float64) {
	if p.Dead || p.Pinned {
		return
	}
	p.PrevX -= dx
	p.PrevY -= dy
}

func (p *Particle) AddStress(v float64) {
	if p.Dead {
		return
	}
	p.Stress = clamp01(p.Stress + v)
}

func (p *Particle) DecayVisuals(dt float64) {
	if p.Dead || dt <= 0 {
		return
	}
	p.Stress *= math.Exp(-StressDecayRate * dt)
	if p.Stress < 1e-4 {
		p.Stress = 0
	}
}

func (p *Particle) ClearForces() {
	p.FX, p.FY = 0, 0
}

// Velocity returns the per-step displacement implied by Verlet history.
func (p *Particle) Velocity() (vx, vy float64) {
	return p.X - p.PrevX, p.Y - p.PrevY
}

// Movable reports whether constraints and integration may displace the particle.
func (p *Particle) Movable() bool {
	return !p.Dead && !p.Pinned && p.InvMass > 0
}

// Weight is the inverse mass seen by constraints: zero for pinned or dead particles.
func (p *Particle) Weight() float64 {
	if !p.Movable() {
		return 0
	}
	return p.InvMass
}

func (p *Particle) Pin() {
	p.Pinned = true
	p.PrevX, p.PrevY = p.X, p.Y
}

// Kill marks the particle dead. It keeps its slot so indices stay stable.
func (p *Particle) Kill() {
	p.Dead = true
	p.FX, p.FY = 0, 0
	p.PrevX, p.PrevY = p.X, p.Y
	p.Stress = 0
}

// KineticEnergy sums |pos - prevPos|² over living particles.
func KineticEnergy(ps []Particle) float64 {
	e := 0.0
	for i := range ps {
		if ps[i].Dead {
			continue
		}
		vx, vy := ps[i].Velocity()
		e += vx*vx + vy*vy
	}
	return e
}

// Alive counts particles that are not dead.
func Alive(ps []Particle) int {
	n := 0
	for i := range ps {
		if !ps[i].Dead {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// IsFinite reports whether v is neither NaN nor Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
