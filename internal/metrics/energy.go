package metrics

import (
	"math"

	"github.com/san-kum/fleshsim/internal/sim"
)

// Energy is the mean kinetic energy over the run.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f sim.Frame) {
	e.totalEnergy += f.KineticEnergy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// PeakEnergy is the largest kinetic energy seen.
type PeakEnergy struct {
	peak float64
}

func NewPeakEnergy() *PeakEnergy { return &PeakEnergy{} }

func (p *PeakEnergy) Name() string { return "peak_energy" }

func (p *PeakEnergy) Observe(f sim.Frame) {
	p.peak = math.Max(p.peak, f.KineticEnergy)
}

func (p *PeakEnergy) Value() float64 { return p.peak }
func (p *PeakEnergy) Reset()         { p.peak = 0 }

// AreaDrift is the worst relative deviation of the enclosed area from the
// pressure target.
type AreaDrift struct {
	name     string
	maxDrift float64
	samples  int
}

func NewAreaDrift() *AreaDrift {
	return &AreaDrift{name: "area_drift"}
}

func (a *AreaDrift) Name() string { return a.name }

func (a *AreaDrift) Observe(f sim.Frame) {
	a.samples++
	if f.TargetArea == 0 {
		return
	}
	drift := math.Abs(f.Area-f.TargetArea) / f.TargetArea
	a.maxDrift = math.Max(a.maxDrift, drift)
}

func (a *AreaDrift) Value() float64 {
	return a.maxDrift
}

func (a *AreaDrift) Reset() {
	a.maxDrift = 0
	a.samples = 0
}
