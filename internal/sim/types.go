package sim

import (
	"fmt"

	"github.com/san-kum/fleshsim/internal/physics"
)

// Frame is the per-step telemetry of a body.
type Frame struct {
	Step           int
	Time           float64
	KineticEnergy  float64
	Area           float64
	TargetArea     float64
	Tears          int
	Alive          int
	Springs        int
	Triangles      int
	MaxStress      float64
	MaxStressRatio float64
}

// Capture reads a frame from the body.
func Capture(b *physics.Body, t float64) Frame {
	return Frame{
		Step:           b.StepCount(),
		Time:           t,
		KineticEnergy:  b.KineticEnergy(),
		Area:           b.EnclosedArea(),
		TargetArea:     b.TargetArea(),
		Tears:          b.TearCount(),
		Alive:          len(b.AliveParticles()),
		Springs:        len(b.ActiveSprings()),
		Triangles:      b.ActiveTriangleCount(),
		MaxStress:      b.MaxStress(),
		MaxStressRatio: b.MaxStressRatio(),
	}
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(b *physics.Body, f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(b *physics.Body, f Frame)

func (fn ObserverFunc) OnStep(b *physics.Body, f Frame) { fn(b, f) }

type Result struct {
	Frames     []Frame
	TearEvents []physics.TearEvent
	Metrics    map[string]float64
	StepsTaken int
	// Body is the final state, kept for snapshots.
	Body *physics.Body
}

// Series extracts one column of the frames.
func (r *Result) Series(get func(Frame) float64) []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = get(f)
	}
	return out
}

type SimError struct {
	Time    float64
	Step    int
	Message string
	Err     error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return e.Err
}
