// Package dynamo provides the core primitives of the deformable-body simulation.
//
// The package defines the building blocks every other subsystem indexes into:
//
//   - [Particle]: Verlet point mass with pinning, death and visual stress
//   - [Spring]: damped Hookean edge solved as an XPBD distance constraint
//   - [Configurable]: runtime tuning surface used by the front-ends
//   - [TrigTable]: sin/cos lookup used to lay out lattice rings
//
// Particles live in a flat arena (a []Particle owned by the body) and are
// addressed by stable integer index. Springs and triangles store indices, never
// pointers, so a torn or dead element is a flag flip rather than a lifetime
// question.
//
// # Example
//
//	ps := []dynamo.Particle{dynamo.NewParticle(0, 0, 1), dynamo.NewParticle(12, 0, 1)}
//	s := dynamo.NewSpring(ps, 0, 1, dynamo.KindEdge)
//	s.AccumulateForce(ps, 1.0/60)
//	s.SolveConstraint(ps, 0, 1.0/60)
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. A body and its arena
// belong to one goroutine.
package dynamo
