// Package physics implements the deformable body: a ring lattice of
// particles and springs that can be struck, dragged, torn and re-meshed.
//
// The subsystems are usable on their own and are orchestrated by [Body]:
//
//   - [Lattice]: concentric elliptical rings, spring topology, radial impulses
//   - [Pressure]: area-preserving force on the boundary loop
//   - [Ripples]: expanding impact wavefronts
//   - [TearDetector]: stress-ratio threshold test over the active springs
//
// # Step Pipeline
//
// [Body.Update] runs, once per call: integrate, spring forces, pressure,
// force flush, constraint solve, ripples, visual decay, tear detection,
// re-mesh (only after a tear), boundary containment.
//
// # Example
//
//	b := physics.NewBody()
//	b.Build(physics.DefaultParams())
//	b.Strike(400, 300, 1, 40)
//	for i := 0; i < 60; i++ {
//	    b.Update(1.0 / 60)
//	}
//	fmt.Println(b.TearCount(), b.ActiveTriangleCount())
//
// A Body is not safe for concurrent use. Independent bodies share nothing.
package physics
