package physics

import (
	"math"

	"github.com/san-kum/fleshsim/internal/dynamo"
)

// ImpulseScale converts strike force into per-step displacement at the
// centre of the falloff.
const ImpulseScale = 4.0

// noiseScale maps pixel coordinates into noise space.
const noiseScale = 0.05

// settlePasses is the number of rigid projection sweeps that fold jittered
// rest lengths into the build geometry.
const settlePasses = 200

// Noise is a 2D scalar field in roughly [-1, 1]. *perlin.Perlin satisfies it.
type Noise interface {
	Noise2D(x, y float64) float64
}

// Lattice owns the particle arena and the active spring slice.
type Lattice struct {
	Particles []dynamo.Particle
	Springs   []dynamo.Spring
	// Rings holds particle indices per ring, innermost first.
	Rings [][]int
	Hub   int
}

// BuildLattice lays out a hub particle plus p.Rings concentric ellipses and
// connects them. p must already be normalized. A nil noise disables jitter.
// A jittered lattice is settled before it is returned, so every build starts
// at rest with zero strain.
func BuildLattice(p Params, noise Noise) *Lattice {
	total := 1
	for _, n := range p.RingPoints {
		total += n
	}
	l := &Lattice{
		Particles: make([]dynamo.Particle, 0, total),
		Rings:     make([][]int, p.Rings),
	}
	l.Particles = append(l.Particles, dynamo.NewParticle(p.CenterX, p.CenterY, p.Mass))

	for r := 0; r < p.Rings; r++ {
		f := float64(r+1) / float64(p.Rings)
		xs, ys := dynamo.DefaultTrigTable.Ellipse(p.CenterX, p.CenterY, p.RadiusX*f, p.RadiusY*f, p.RingPoints[r])
		ring := make([]int, len(xs))
		for j := range xs {
			ring[j] = len(l.Particles)
			l.Particles = append(l.Particles, dynamo.NewParticle(xs[j], ys[j], p.Mass))
		}
		l.Rings[r] = ring
	}

	l.connect()
	if p.PinCenter {
		l.Particles[l.Hub].Pin()
	}
	if noise != nil && p.Jitter > 0 {
		l.jitter(noise, p.Jitter)
		l.settle(settlePasses)
	}
	for i := range l.Springs {
		l.Springs[i].Scale(p.Stiffness, p.Damping)
	}
	return l
}

func (l *Lattice) connect() {
	seen := make(map[[2]int]bool)
	add := func(a, b int, kind dynamo.SpringKind) {
		if a == b {
			return
		}
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if seen[key] {
			return
		}
		seen[key] = true
		l.Springs = append(l.Springs, dynamo.NewSpring(l.Particles, a, b, kind))
	}

	for _, ring := range l.Rings {
		for j := range ring {
			add(ring[j], ring[(j+1)%len(ring)], dynamo.KindEdge)
		}
	}

	for _, i := range l.Rings[0] {
		add(l.Hub, i, dynamo.KindStructural)
	}
	for r := 1; r < len(l.Rings); r++ {
		inner, outer := l.Rings[r-1], l.Rings[r]
		nIn, nOut := len(inner), len(outer)
		for j, i := range outer {
			t := float64(j) * float64(nIn) / float64(nOut)
			near := int(math.Round(t))
			second := int(math.Floor(t))
			if second == near {
				second = near + 1
			}
			add(i, inner[near%nIn], dynamo.KindStructural)
			add(i, inner[second%nIn], dynamo.KindDiagonal)
		}
	}

	outer := l.Rings[len(l.Rings)-1]
	if n := len(outer); n >= 4 {
		for j := 0; j < n; j++ {
			add(outer[j], outer[(j+n/2)%n], dynamo.KindCross)
		}
	}
}

func (l *Lattice) jitter(noise Noise, amount float64) {
	for i := range l.Springs {
		s := &l.Springs[i]
		a, b := &l.Particles[s.A], &l.Particles[s.B]
		mx, my := (a.X+b.X)/2, (a.Y+b.Y)/2
		n := dynamo.Clamp(noise.Noise2D(mx*noiseScale, my*noiseScale), -1, 1)
		s.RestLength = math.Max(s.RestLength*(1+amount*n), dynamo.MinRestLength)
	}
}

// settle moves particles toward the jittered rest lengths with rigid
// projections, then re-rests every spring at the reached length and zeroes
// velocity. Afterwards no spring is strained.
func (l *Lattice) settle(passes int) {
	for it := 0; it < passes; it++ {
		for i := range l.Springs {
			s := l.Springs[i]
			s.Stiffness = 1
			s.SolveConstraint(l.Particles, 0, 0)
		}
	}
	for i := range l.Springs {
		l.Springs[i].SetRestLengthToCurrent(l.Particles)
	}
	for i := range l.Particles {
		p := &l.Particles[i]
		p.PrevX, p.PrevY = p.X, p.Y
	}
}

// ApplyImpulseAt pushes every living particle within radius of (x, y)
// outward with linear falloff. It returns the number of particles affected.
func (l *Lattice) ApplyImpulseAt(x, y, force, radius float64) int {
	if !(radius > 0) || force == 0 {
		return 0
	}
	affected := 0
	for i := range l.Particles {
		p := &l.Particles[i]
		if !p.Movable() {
			continue
		}
		dx, dy := p.X-x, p.Y-y
		d := math.Hypot(dx, dy)
		if d >= radius || d < 1e-9 {
			continue
		}
		k := force * ImpulseScale * (1 - d/radius)
		p.ApplyImpulse(dx/d*k, dy/d*k)
		affected++
	}
	return affected
}

// RemoveSpring swap-removes spring i. The last spring takes its slot.
func (l *Lattice) RemoveSpring(i int) {
	last := len(l.Springs) - 1
	if i < 0 || i > last {
		return
	}
	l.Springs[i] = l.Springs[last]
	l.Springs = l.Springs[:last]
}

// RemoveTorn swap-removes every torn spring and returns how many went.
func (l *Lattice) RemoveTorn() int {
	removed := 0
	for i := 0; i < len(l.Springs); {
		if l.Springs[i].Torn {
			l.RemoveSpring(i)
			removed++
			continue
		}
		i++
	}
	return removed
}

// KillOrphans marks dead every living particle no active spring touches.
func (l *Lattice) KillOrphans() []int {
	degree := make([]int, len(l.Particles))
	for i := range l.Springs {
		degree[l.Springs[i].A]++
		degree[l.Springs[i].B]++
	}
	var killed []int
	for i := range l.Particles {
		if degree[i] == 0 && !l.Particles[i].Dead {
			l.Particles[i].Kill()
			killed = append(killed, i)
		}
	}
	return killed
}

// OuterRing is the initial boundary loop.
func (l *Lattice) OuterRing() []int {
	return append([]int(nil), l.Rings[len(l.Rings)-1]...)
}
