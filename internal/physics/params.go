package physics

import (
	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/integrators"
)

// Params is the in-memory build record of a body.
type Params struct {
	CenterX, CenterY float64
	RadiusX, RadiusY float64
	Rings            int
	RingPoints       []int
	Mass             float64

	Stiffness     float64 // multiplier on per-kind stiffness
	Damping       float64 // multiplier on spring and integrator damping
	TearThreshold float64
	Pressure      float64
	Iterations    int
	Compliance    float64
	Jitter        float64 // relative rest-length noise amplitude
	Creep         float64 // fraction of strain folded into rest length per second
	Seed          int64

	Width, Height float64
	PinCenter     bool
}

func DefaultParams() Params {
	return Params{
		CenterX:       400,
		CenterY:       300,
		RadiusX:       150,
		RadiusY:       120,
		Rings:         3,
		RingPoints:    []int{8, 12, 16},
		Mass:          1,
		Stiffness:     1,
		Damping:       1,
		TearThreshold: DefaultTearThreshold,
		Pressure:      DefaultPressureStrength,
		Iterations:    integrators.DefaultIterations,
		Jitter:        0.02,
		Seed:          1,
		Width:         800,
		Height:        600,
	}
}

// RingPointCount is the point count used for ring r when none is configured.
func RingPointCount(r int) int {
	return 8 + 4*r
}

// Normalized returns a copy with every invalid field replaced by a usable
// value. Build never rejects a configuration.
func (p Params) Normalized() Params {
	def := DefaultParams()
	if !(p.RadiusX > 0) {
		p.RadiusX = def.RadiusX
	}
	if !(p.RadiusY > 0) {
		p.RadiusY = def.RadiusY
	}
	if p.Rings < 1 {
		p.Rings = 1
	}
	pts := make([]int, p.Rings)
	for r := range pts {
		n := RingPointCount(r)
		if r < len(p.RingPoints) {
			n = p.RingPoints[r]
		}
		if n < 3 {
			n = 3
		}
		pts[r] = n
	}
	p.RingPoints = pts
	if !(p.Mass > 0) {
		p.Mass = 1
	}
	if !(p.Stiffness >= 0) {
		p.Stiffness = 1
	}
	if !(p.Damping >= 0) {
		p.Damping = 1
	}
	if !(p.TearThreshold > 0) {
		p.TearThreshold = def.TearThreshold
	}
	p.TearThreshold = dynamo.Clamp(p.TearThreshold, minThreshold, 1)
	if !(p.Pressure >= 0) {
		p.Pressure = 0
	}
	p.Pressure = dynamo.Clamp(p.Pressure, 0, 1)
	if p.Iterations < 0 {
		p.Iterations = 0
	}
	if !(p.Compliance >= 0) {
		p.Compliance = 0
	}
	p.Jitter = dynamo.Clamp(p.Jitter, 0, 0.25)
	if !(p.Creep >= 0) {
		p.Creep = 0
	}
	p.Creep = dynamo.Clamp(p.Creep, 0, 1)
	if !(p.Width > 0) {
		p.Width = def.Width
	}
	if !(p.Height > 0) {
		p.Height = def.Height
	}
	return p
}
