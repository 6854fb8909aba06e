package metrics

import (
	"github.com/san-kum/fleshsim/internal/sim"
)

// Stability is the fraction of frames whose peak spring stress stayed
// below threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.Frame) {
	s.samples++
	if f.MaxStressRatio > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Tears reports the tear count of the latest frame.
type Tears struct {
	last int
}

func NewTears() *Tears { return &Tears{} }

func (t *Tears) Name() string        { return "tears" }
func (t *Tears) Observe(f sim.Frame) { t.last = f.Tears }
func (t *Tears) Value() float64      { return float64(t.last) }
func (t *Tears) Reset()              { t.last = 0 }

// PeakStress is the largest visual stress seen on any particle.
type PeakStress struct {
	peak float64
}

func NewPeakStress() *PeakStress { return &PeakStress{} }

func (p *PeakStress) Name() string { return "peak_stress" }

func (p *PeakStress) Observe(f sim.Frame) {
	if f.MaxStress > p.peak {
		p.peak = f.MaxStress
	}
}

func (p *PeakStress) Value() float64 { return p.peak }
func (p *PeakStress) Reset()         { p.peak = 0 }

// Default is the metric set the CLI attaches to every run.
func Default(tearThreshold float64) []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewPeakEnergy(),
		NewAreaDrift(),
		NewStability(tearThreshold),
		NewTears(),
		NewPeakStress(),
	}
}
