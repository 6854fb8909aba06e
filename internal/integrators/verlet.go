package integrators

import "github.com/san-kum/fleshsim/internal/dynamo"

// DefaultDamping is the fraction of per-step velocity kept by Integrate.
const DefaultDamping = 0.99

// Verlet is a position-Verlet integrator over a particle arena.
// Velocity lives in the difference between current and previous positions.
type Verlet struct {
	Damping float64
}

func NewVerlet() *Verlet {
	return &Verlet{Damping: DefaultDamping}
}

// Integrate advances inertia plus accumulated force, then clears forces.
// Pinned and dead particles only have their forces cleared.
func (v *Verlet) Integrate(ps []dynamo.Particle, dt float64) {
	dt2 := dt * dt
	for i := range ps {
		p := &ps[i]
		if !p.Movable() {
			p.ClearForces()
			continue
		}
		x, y := p.X, p.Y
		p.X += (x-p.PrevX)*v.Damping + p.FX*dt2*p.InvMass
		p.Y += (y-p.PrevY)*v.Damping + p.FY*dt2*p.InvMass
		p.PrevX, p.PrevY = x, y
		p.ClearForces()
	}
}

// Flush moves particles by the force accumulated since Integrate without
// touching history, so the displacement shows up as velocity next step.
func (v *Verlet) Flush(ps []dynamo.Particle, dt float64) {
	dt2 := dt * dt
	for i := range ps {
		p := &ps[i]
		if p.Movable() {
			p.X += p.FX * dt2 * p.InvMass
			p.Y += p.FY * dt2 * p.InvMass
		}
		p.ClearForces()
	}
}

// ApplyBoundary clamps particles into [0,w]×[0,h] and returns how many were
// outside. A clamped axis has its previous coordinate reset too, which
// removes the outward velocity.
func (v *Verlet) ApplyBoundary(ps []dynamo.Particle, w, h float64) int {
	clamped := 0
	for i := range ps {
		p := &ps[i]
		hit := false
		if p.X < 0 || p.X > w {
			p.X = dynamo.Clamp(p.X, 0, w)
			p.PrevX = p.X
			hit = true
		}
		if p.Y < 0 || p.Y > h {
			p.Y = dynamo.Clamp(p.Y, 0, h)
			p.PrevY = p.Y
			hit = true
		}
		if hit {
			clamped++
		}
	}
	return clamped
}

// Step is Integrate followed by Flush, for callers without a spring phase.
func (v *Verlet) Step(ps []dynamo.Particle, dt float64) {
	v.Integrate(ps, dt)
	v.Flush(ps, dt)
}
