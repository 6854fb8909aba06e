package physics

import (
	"fmt"
	"io"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/charmbracelet/log"

	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/integrators"
	"github.com/san-kum/fleshsim/internal/mesh"
)

// MaxDt caps a single step; larger frame times are truncated.
const MaxDt = 1.0 / 30

const (
	DragRadius       = 60.0
	DragGain         = 1800.0
	StrikeStressGain = 0.5
)

type State int

const (
	StateUninitialized State = iota
	StateBuilt
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBuilt:
		return "built"
	case StateRunning:
		return "running"
	}
	return "unknown"
}

// Body orchestrates the lattice and its subsystems. It owns every particle,
// spring and triangle; callers read them through the accessors.
type Body struct {
	params Params
	state  State

	lattice    *Lattice
	integrator *integrators.Verlet
	solver     *integrators.Solver
	pressure   *Pressure
	ripples    *Ripples
	detector   *TearDetector
	rebuilder  *mesh.Rebuilder

	triangles []mesh.Triangle
	loop      []int
	area      float64

	tears   int
	steps   int
	history tearHistory

	logger *log.Logger
}

func NewBody() *Body {
	return &Body{logger: log.New(io.Discard)}
}

// SetLogger routes tear and re-mesh diagnostics. A nil logger discards.
func (b *Body) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	b.logger = l
}

// Build discards any previous state and constructs the body from p.
// Invalid fields are replaced, never rejected.
func (b *Body) Build(p Params) {
	p = p.Normalized()
	b.params = p

	var noise Noise
	if p.Jitter > 0 {
		noise = perlin.NewPerlin(2, 2, 3, p.Seed)
	}
	b.lattice = BuildLattice(p, noise)

	b.integrator = integrators.NewVerlet()
	b.integrator.Damping = integratorDamping(p.Damping)
	b.solver = &integrators.Solver{Iterations: p.Iterations, Compliance: p.Compliance}
	b.pressure = NewPressure()
	b.pressure.Strength = p.Pressure
	b.ripples = NewRipples()
	b.detector = NewTearDetector()
	b.detector.SetThreshold(p.TearThreshold)
	b.rebuilder = mesh.NewRebuilder()

	b.loop = b.lattice.OuterRing()
	b.rebuilder.Reset(b.loop)
	b.triangles, _, _ = b.rebuilder.Rebuild(b.lattice.Particles, b.lattice.Springs)
	b.rebuilder.Reset(b.loop)
	b.pressure.Calibrate(b.lattice.Particles, b.loop)
	b.area = b.pressure.Target()

	b.tears, b.steps = 0, 0
	b.history.reset()
	b.state = StateBuilt

	b.logger.Debug("body built",
		"particles", len(b.lattice.Particles),
		"springs", len(b.lattice.Springs),
		"triangles", len(b.triangles),
		"area", b.area)
}

func integratorDamping(m float64) float64 {
	return dynamo.Clamp(1-(1-integrators.DefaultDamping)*m, 0, 1)
}

// Update advances the body by one step. dt <= 0 and an unbuilt body are no-ops.
func (b *Body) Update(dt float64) {
	if b.lattice == nil || len(b.lattice.Particles) == 0 || !(dt > 0) {
		return
	}
	if dt > MaxDt {
		dt = MaxDt
	}
	ps := b.lattice.Particles
	b.state = StateRunning
	b.steps++

	b.integrator.Integrate(ps, dt)

	for i := range b.lattice.Springs {
		b.lattice.Springs[i].AccumulateForce(ps, dt)
	}
	b.area = b.pressure.Solve(ps, b.loop, dt)
	b.integrator.Flush(ps, dt)

	b.solver.Solve(ps, b.lattice.Springs, dt)
	if b.params.Creep > 0 {
		for i := range b.lattice.Springs {
			b.lattice.Springs[i].Relax(ps, b.params.Creep*dt)
		}
	}
	b.ripples.Update(ps, dt)

	for i := range ps {
		ps[i].DecayVisuals(dt)
	}

	if b.tearOverstressed() {
		b.rebuild()
	}

	b.integrator.ApplyBoundary(ps, b.params.Width, b.params.Height)
}

func (b *Body) tearOverstressed() bool {
	idx := b.detector.Detect(b.lattice.Springs)
	if len(idx) == 0 {
		return false
	}
	ps := b.lattice.Particles
	for _, i := range idx {
		s := &b.lattice.Springs[i]
		ratio := s.StressRatio
		s.Tear(ps)
		b.history.push(TearEvent{Spring: *s, StressRatio: ratio, Step: b.steps})
	}
	b.tears += len(idx)
	b.lattice.RemoveTorn()
	orphans := b.lattice.KillOrphans()

	b.logger.Debug("tear",
		"step", b.steps,
		"springs", len(idx),
		"orphans", len(orphans),
		"total", b.tears)
	return true
}

func (b *Body) rebuild() {
	ps := b.lattice.Particles
	tris, loop, ok := b.rebuilder.Rebuild(ps, b.lattice.Springs)
	b.triangles = tris
	if !ok {
		b.logger.Debug("rebuild kept last loop", "step", b.steps, "triangles", len(tris))
	}
	if !sameLoop(loop, b.loop) {
		b.pressure.Retarget(ps, b.loop, loop)
		b.loop = loop
	}
	b.area = math.Abs(SignedArea(ps, b.loop))
}

func sameLoop(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Strike applies a radial impulse, spawns a ripple and injects stress around
// (x, y). It returns the number of particles pushed.
func (b *Body) Strike(x, y, force, radius float64) int {
	if b.lattice == nil || !(radius > 0) || !(force > 0) {
		return 0
	}
	n := b.lattice.ApplyImpulseAt(x, y, force, radius)
	b.ripples.Spawn(x, y, force, radius)

	ps := b.lattice.Particles
	for i := range ps {
		d := math.Hypot(ps[i].X-x, ps[i].Y-y)
		if d < radius {
			ps[i].AddStress(force * (1 - d/radius) * StrikeStressGain)
		}
	}
	return n
}

// Drag pushes particles within DragRadius of (x, y) along (dx, dy).
func (b *Body) Drag(x, y, dx, dy, force float64) int {
	if b.lattice == nil || !(force > 0) || (dx == 0 && dy == 0) {
		return 0
	}
	n := 0
	ps := b.lattice.Particles
	for i := range ps {
		p := &ps[i]
		if !p.Movable() {
			continue
		}
		d := math.Hypot(p.X-x, p.Y-y)
		if d >= DragRadius {
			continue
		}
		k := force * DragGain * (1 - d/DragRadius)
		p.AddForce(dx*k, dy*k)
		n++
	}
	return n
}

// SetStiffness rescales every spring's base stiffness by v.
func (b *Body) SetStiffness(v float64) {
	if !(v >= 0) {
		return
	}
	b.params.Stiffness = v
	b.rescale()
}

// SetDamping scales spring damping by v and the integrator's velocity loss
// by the same factor.
func (b *Body) SetDamping(v float64) {
	if !(v >= 0) {
		return
	}
	b.params.Damping = v
	if b.integrator != nil {
		b.integrator.Damping = integratorDamping(v)
	}
	b.rescale()
}

func (b *Body) rescale() {
	if b.lattice == nil {
		return
	}
	for i := range b.lattice.Springs {
		b.lattice.Springs[i].Scale(b.params.Stiffness, b.params.Damping)
	}
}

func (b *Body) SetTearThreshold(v float64) {
	if b.detector == nil {
		b.params.TearThreshold = v
		return
	}
	b.detector.SetThreshold(v)
	b.params.TearThreshold = b.detector.Threshold()
}

func (b *Body) SetPressure(v float64) {
	v = dynamo.Clamp(v, 0, 1)
	b.params.Pressure = v
	if b.pressure != nil {
		b.pressure.Strength = v
	}
}

func (b *Body) SetIterations(n int) {
	if n < 0 {
		n = 0
	}
	b.params.Iterations = n
	if b.solver != nil {
		b.solver.Iterations = n
	}
}

func (b *Body) SetCompliance(v float64) {
	if !(v >= 0) {
		return
	}
	b.params.Compliance = v
	if b.solver != nil {
		b.solver.Compliance = v
	}
}

// SetCreep sets how fast rest lengths drift toward the current shape, as a
// fraction per second. 0 disables creep.
func (b *Body) SetCreep(v float64) {
	b.params.Creep = dynamo.Clamp(v, 0, 1)
}

func (b *Body) GetParams() map[string]float64 {
	return map[string]float64{
		"stiffness":      b.params.Stiffness,
		"damping":        b.params.Damping,
		"tear_threshold": b.params.TearThreshold,
		"pressure":       b.params.Pressure,
		"iterations":     float64(b.params.Iterations),
		"compliance":     b.params.Compliance,
		"creep":          b.params.Creep,
	}
}

func (b *Body) SetParam(name string, value float64) error {
	if !dynamo.IsFinite(value) {
		return &dynamo.BoundsError{Param: name, Value: value, Want: "a finite value"}
	}
	switch name {
	case "stiffness", "damping", "compliance":
		if value < 0 {
			return &dynamo.BoundsError{Param: name, Value: value, Want: ">= 0"}
		}
		switch name {
		case "stiffness":
			b.SetStiffness(value)
		case "damping":
			b.SetDamping(value)
		default:
			b.SetCompliance(value)
		}
	case "tear_threshold":
		if value <= 0 || value > 1 {
			return &dynamo.BoundsError{Param: name, Value: value, Want: "in (0, 1]"}
		}
		b.SetTearThreshold(value)
	case "pressure":
		if value < 0 || value > 1 {
			return &dynamo.BoundsError{Param: name, Value: value, Want: "in [0, 1]"}
		}
		b.SetPressure(value)
	case "iterations":
		if value < 0 {
			return &dynamo.BoundsError{Param: name, Value: value, Want: ">= 0"}
		}
		b.SetIterations(int(value))
	case "creep":
		if value < 0 || value > 1 {
			return &dynamo.BoundsError{Param: name, Value: value, Want: "in [0, 1]"}
		}
		b.SetCreep(value)
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

func (b *Body) State() State          { return b.state }
func (b *Body) Params() Params        { return b.params }
func (b *Body) StepCount() int        { return b.steps }
func (b *Body) TearCount() int        { return b.tears }
func (b *Body) EnclosedArea() float64 { return b.area }

// Particles exposes the arena. Callers must treat it as read-only.
func (b *Body) Particles() []dynamo.Particle {
	if b.lattice == nil {
		return nil
	}
	return b.lattice.Particles
}

// AliveParticles returns the indices of living particles.
func (b *Body) AliveParticles() []int {
	ps := b.Particles()
	out := make([]int, 0, len(ps))
	for i := range ps {
		if !ps[i].Dead {
			out = append(out, i)
		}
	}
	return out
}

// ActiveSprings exposes the active spring slice. Callers must treat it as read-only.
func (b *Body) ActiveSprings() []dynamo.Spring {
	if b.lattice == nil {
		return nil
	}
	return b.lattice.Springs
}

func (b *Body) Triangles() []mesh.Triangle {
	return b.triangles
}

func (b *Body) ActiveTriangleCount() int {
	return mesh.ActiveCount(b.Particles(), b.triangles)
}

func (b *Body) BoundaryLoop() []int {
	return append([]int(nil), b.loop...)
}

// ActiveRipples counts wavefronts still travelling.
func (b *Body) ActiveRipples() int {
	if b.ripples == nil {
		return 0
	}
	return b.ripples.Active()
}

func (b *Body) TearEvents() []TearEvent {
	return b.history.events()
}

func (b *Body) TargetArea() float64 {
	if b.pressure == nil {
		return 0
	}
	return b.pressure.Target()
}

func (b *Body) KineticEnergy() float64 {
	return dynamo.KineticEnergy(b.Particles())
}

// MaxStress is the largest visual stress over living particles.
func (b *Body) MaxStress() float64 {
	m := 0.0
	for _, p := range b.Particles() {
		if !p.Dead && p.Stress > m {
			m = p.Stress
		}
	}
	return m
}

// MaxStressRatio is the largest spring stress ratio of the last step.
func (b *Body) MaxStressRatio() float64 {
	m := 0.0
	for _, s := range b.ActiveSprings() {
		if s.StressRatio > m {
			m = s.StressRatio
		}
	}
	return m
}
