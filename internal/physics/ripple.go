package physics

import (
	"math"

	"github.com/san-kum/fleshsim/internal/dynamo"
)

// Wave is one expanding impact front.
type Wave struct {
	X, Y      float64
	Front     float64
	Magnitude float64
	MaxRadius float64
}

// Ripples carries impact wavefronts across the body.
type Ripples struct {
	Speed        float64 // px/s
	Decay        float64 // 1/s
	Reach        float64 // max radius as a multiple of the spawn radius
	Width        float64 // half-width of the annulus, px
	Force        float64
	StressGain   float64
	MinMagnitude float64

	waves []Wave
}

func NewRipples() *Ripples {
	return &Ripples{
		Speed:        240,
		Decay:        4,
		Reach:        3,
		Width:        12,
		Force:        720,
		StressGain:   0.6,
		MinMagnitude: 0.01,
	}
}

func (r *Ripples) Spawn(x, y, magnitude, radius float64) {
	if !(magnitude > 0) || !(radius > 0) {
		return
	}
	r.waves = append(r.waves, Wave{X: x, Y: y, Magnitude: magnitude, MaxRadius: radius * r.Reach})
}

// Update advances every front and pushes particles inside its annulus:
// outward ahead of the front, half as hard inward behind it.
func (r *Ripples) Update(ps []dynamo.Particle, dt float64) {
	if dt <= 0 {
		return
	}
	kept := r.waves[:0]
	for _, w := range r.waves {
		w.Front += r.Speed * dt
		w.Magnitude *= math.Exp(-r.Decay * dt)
		if w.Magnitude < r.MinMagnitude || w.Front > w.MaxRadius {
			continue
		}
		r.push(ps, w, dt)
		kept = append(kept, w)
	}
	r.waves = kept
}

func (r *Ripples) push(ps []dynamo.Particle, w Wave, dt float64) {
	for i := range ps {
		p := &ps[i]
		if p.Dead {
			continue
		}
		dx, dy := p.X-w.X, p.Y-w.Y
		d := math.Hypot(dx, dy)
		off := d - w.Front
		if d < 1e-9 || math.Abs(off) >= r.Width {
			continue
		}
		profile := 1 - math.Abs(off)/r.Width
		dir := 1.0
		if off < 0 {
			dir = -0.5
		}
		f := r.Force * w.Magnitude * profile * dir
		p.AddForce(dx/d*f, dy/d*f)
		p.AddStress(r.StressGain * w.Magnitude * profile * dt)
	}
}

func (r *Ripples) Active() int {
	return len(r.waves)
}

func (r *Ripples) Waves() []Wave {
	return append([]Wave(nil), r.waves...)
}

func (r *Ripples) Clear() {
	r.waves = r.waves[:0]
}
