package physics

import (
	"math"

	"github.com/san-kum/fleshsim/internal/dynamo"
)

// DefaultPressureStrength is the fraction of the area error corrected per step.
const DefaultPressureStrength = 0.1

const areaEps = 1e-9

// Pressure keeps the area enclosed by the boundary loop near a target.
type Pressure struct {
	Strength float64
	target   float64
}

func NewPressure() *Pressure {
	return &Pressure{Strength: DefaultPressureStrength}
}

// SignedArea is the shoelace area of the loop; positive for
// counter-clockwise winding in a y-up frame.
func SignedArea(ps []dynamo.Particle, loop []int) float64 {
	n := len(loop)
	if n < 3 {
		return 0
	}
	a := 0.0
	for i := 0; i < n; i++ {
		p, q := &ps[loop[i]], &ps[loop[(i+1)%n]]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func (p *Pressure) Calibrate(ps []dynamo.Particle, loop []int) {
	p.target = math.Abs(SignedArea(ps, loop))
}

func (p *Pressure) Target() float64 {
	return p.target
}

// Retarget moves the target onto a new loop while keeping the current
// compression ratio, so a topology change does not read as a pressure spike.
func (p *Pressure) Retarget(ps []dynamo.Particle, oldLoop, newLoop []int) {
	cur := math.Abs(SignedArea(ps, oldLoop))
	next := math.Abs(SignedArea(ps, newLoop))
	if cur < areaEps {
		p.target = next
		return
	}
	p.target = next * (p.target / cur)
}

// Solve applies the area-gradient force to every movable loop particle and
// returns the current unsigned area. Degenerate loops are left alone.
func (p *Pressure) Solve(ps []dynamo.Particle, loop []int, dt float64) float64 {
	n := len(loop)
	if n < 3 || dt <= 0 || p.Strength <= 0 {
		return math.Abs(SignedArea(ps, loop))
	}
	alive := 0
	for _, i := range loop {
		if !ps[i].Dead {
			alive++
		}
	}
	signed := SignedArea(ps, loop)
	area := math.Abs(signed)
	if alive < 3 {
		return area
	}
	sign := 1.0
	if signed < 0 {
		sign = -1
	}

	norm := 0.0
	for k := 0; k < n; k++ {
		gx, gy := gradient(ps, loop, k)
		norm += ps[loop[k]].Weight() * (gx*gx + gy*gy)
	}
	if norm < areaEps {
		return area
	}

	scale := p.Strength * (p.target - area) / (norm * dt * dt) * sign
	for k := 0; k < n; k++ {
		q := &ps[loop[k]]
		if !q.Movable() {
			continue
		}
		gx, gy := gradient(ps, loop, k)
		q.AddForce(scale*gx, scale*gy)
	}
	return area
}

// gradient of the signed area with respect to loop vertex k.
func gradient(ps []dynamo.Particle, loop []int, k int) (gx, gy float64) {
	n := len(loop)
	prev := &ps[loop[(k+n-1)%n]]
	next := &ps[loop[(k+1)%n]]
	return (next.Y - prev.Y) / 2, (prev.X - next.X) / 2
}
