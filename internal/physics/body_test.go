package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/physics"
)

const dt = 1.0 / 60

func scenario() physics.Params {
	p := physics.DefaultParams()
	p.CenterX, p.CenterY = 200, 200
	p.RadiusX, p.RadiusY = 100, 80
	p.Rings = 3
	p.RingPoints = []int{8, 12, 16}
	return p
}

// angularMomentum sums r × v about the centroid of the living particles,
// with v taken as the Verlet displacement X - Prev.
func angularMomentum(b *physics.Body) float64 {
	cx, cy, n := 0.0, 0.0, 0
	for _, p := range b.Particles() {
		if !p.Dead {
			cx += p.X
			cy += p.Y
			n++
		}
	}
	cx, cy = cx/float64(n), cy/float64(n)
	l := 0.0
	for _, p := range b.Particles() {
		if p.Dead {
			continue
		}
		l += (p.X-cx)*(p.Y-p.PrevY) - (p.Y-cy)*(p.X-p.PrevX)
	}
	return l
}

func centroidX(b *physics.Body) float64 {
	sum, n := 0.0, 0
	for _, p := range b.Particles() {
		if !p.Dead {
			sum += p.X
			n++
		}
	}
	return sum / float64(n)
}

var _ = Describe("Body", func() {
	var body *physics.Body

	BeforeEach(func() {
		body = physics.NewBody()
	})

	Context("before Build", func() {
		It("ignores updates and gestures", func() {
			Expect(body.State()).To(Equal(physics.StateUninitialized))
			body.Update(dt)
			Expect(body.Strike(0, 0, 1, 40)).To(BeZero())
			Expect(body.Drag(0, 0, 1, 0, 1)).To(BeZero())
			Expect(body.StepCount()).To(BeZero())
			Expect(body.Particles()).To(BeEmpty())
			Expect(body.ActiveRipples()).To(BeZero())
		})
	})

	Context("after Build", func() {
		BeforeEach(func() {
			body.Build(scenario())
		})

		It("constructs the lattice and mesh", func() {
			Expect(body.State()).To(Equal(physics.StateBuilt))
			Expect(body.Particles()).To(HaveLen(37))
			Expect(body.ActiveSprings()).To(HaveLen(108))
			Expect(body.BoundaryLoop()).To(HaveLen(16))
			Expect(body.ActiveTriangleCount()).To(BeNumerically(">", 0))
			Expect(body.TargetArea()).To(BeNumerically("~", math.Pi*100*80, 0.1*math.Pi*100*80))
		})

		It("moves to running on the first step", func() {
			body.Update(dt)
			Expect(body.State()).To(Equal(physics.StateRunning))
			Expect(body.StepCount()).To(Equal(1))
		})

		It("treats non-positive dt as a no-op", func() {
			before := body.Particles()[1]
			body.Update(0)
			body.Update(-1)
			Expect(body.StepCount()).To(BeZero())
			Expect(body.Particles()[1]).To(Equal(before))
		})

		It("is idempotent", func() {
			first := append([]dynamo.Particle(nil), body.Particles()...)
			body.Strike(200, 200, 100, 40)
			for i := 0; i < 10; i++ {
				body.Update(dt)
			}
			Expect(body.TearCount()).To(BeNumerically(">", 0))

			body.Build(scenario())

			Expect(body.TearCount()).To(BeZero())
			Expect(body.StepCount()).To(BeZero())
			Expect(body.TearEvents()).To(BeEmpty())
			Expect(body.State()).To(Equal(physics.StateBuilt))
			Expect(body.Particles()).To(Equal(first))
		})
	})

	Describe("energy", func() {
		It("stays at rest without jitter", func() {
			p := scenario()
			p.Jitter = 0
			body.Build(p)
			for i := 0; i < 1000; i++ {
				body.Update(dt)
			}
			Expect(body.KineticEnergy()).To(BeNumerically("<", 1e-12))
		})

		It("settles a jittered lattice without injecting energy", func() {
			body.Build(scenario())
			for i := 0; i < 3000; i++ {
				body.Update(dt)
				Expect(dynamo.IsFinite(body.KineticEnergy())).To(BeTrue())
				Expect(math.Abs(angularMomentum(body))).To(BeNumerically("<", 1e-9))
			}
			Expect(body.KineticEnergy()).To(BeNumerically("<", 1e-12))
			Expect(body.TearCount()).To(BeZero())
		})

		It("keeps a jittered body from spinning for any seed", func() {
			for seed := int64(1); seed <= 5; seed++ {
				p := scenario()
				p.Seed = seed
				p.Jitter = 0.1
				body.Build(p)
				outer := body.BoundaryLoop()[0]
				x0, y0 := body.Particles()[outer].X, body.Particles()[outer].Y
				for i := 0; i < 600; i++ {
					body.Update(dt)
				}
				q := body.Particles()[outer]
				Expect(math.Hypot(q.X-x0, q.Y-y0)).To(BeNumerically("<", 1e-9), "seed %d", seed)
			}
		})
	})

	Describe("pressure", func() {
		It("holds the calibrated area", func() {
			body.Build(scenario())
			target := body.TargetArea()
			for i := 0; i < 600; i++ {
				body.Update(dt)
			}
			Expect(body.EnclosedArea()).To(BeNumerically("~", target, 0.05*target))
		})

		It("holds it exactly when nothing is pre-stressed", func() {
			p := scenario()
			p.Jitter = 0
			body.Build(p)
			target := body.TargetArea()
			for i := 0; i < 300; i++ {
				body.Update(dt)
			}
			Expect(body.EnclosedArea()).To(BeNumerically("~", target, 1e-9))
		})
	})

	Describe("Strike", func() {
		BeforeEach(func() {
			body.Build(scenario())
		})

		It("pushes the inner ring and spawns a ripple", func() {
			Expect(body.Strike(200, 200, 1, 40)).To(Equal(8))
			Expect(body.ActiveRipples()).To(Equal(1))
			Expect(body.MaxStress()).To(BeNumerically(">", 0))
		})

		It("does not tear under a light strike", func() {
			body.Strike(200, 200, 1, 40)
			body.Update(dt)
			Expect(body.TearCount()).To(BeZero())
			Expect(body.MaxStressRatio()).To(BeNumerically("<", body.Params().TearThreshold))
		})

		It("tears under a strike far above the threshold", func() {
			body.Strike(200, 200, 100, 40)
			body.Update(dt)
			Expect(body.TearCount()).To(BeNumerically(">", 0))
			Expect(body.ActiveSprings()).To(HaveLen(108 - body.TearCount()))
			for _, s := range body.ActiveSprings() {
				Expect(s.Torn).To(BeFalse())
			}
		})

		It("re-meshes without dead triangles after tearing", func() {
			body.Strike(200, 200, 100, 40)
			body.Update(dt)
			Expect(body.ActiveTriangleCount()).To(Equal(len(body.Triangles())))
			Expect(len(body.BoundaryLoop())).To(BeNumerically(">=", 3))
			for _, i := range body.BoundaryLoop() {
				Expect(body.Particles()[i].Dead).To(BeFalse())
			}
		})

		It("records tear events up to the history cap", func() {
			for _, x := range []float64{200, 150, 250, 200, 200} {
				body.Strike(x, 200, 150, 60)
				for i := 0; i < 5; i++ {
					body.Update(dt)
				}
			}
			events := body.TearEvents()
			Expect(len(events)).To(Equal(min(body.TearCount(), physics.TearHistoryCap)))
			for i := 1; i < len(events); i++ {
				Expect(events[i].Step).To(BeNumerically(">=", events[i-1].Step))
			}
			for _, e := range events {
				Expect(e.Spring.Torn).To(BeTrue())
				Expect(e.StressRatio).To(BeNumerically(">", body.Params().TearThreshold))
			}
		})

		It("keeps every particle inside the bounds", func() {
			body.Strike(200, 200, 400, 120)
			for i := 0; i < 120; i++ {
				body.Update(dt)
			}
			p := body.Params()
			for _, q := range body.Particles() {
				Expect(q.X).To(BeNumerically(">=", 0))
				Expect(q.X).To(BeNumerically("<=", p.Width))
				Expect(q.Y).To(BeNumerically(">=", 0))
				Expect(q.Y).To(BeNumerically("<=", p.Height))
			}
		})
	})

	Describe("creep", func() {
		restLengths := func() []float64 {
			var out []float64
			for _, s := range body.ActiveSprings() {
				out = append(out, s.RestLength)
			}
			return out
		}
		drift := func(creep float64) float64 {
			p := scenario()
			p.Jitter = 0
			p.Creep = creep
			body.Build(p)
			before := restLengths()
			body.Strike(200, 200, 0.5, 60)
			for i := 0; i < 60; i++ {
				body.Update(dt)
			}
			Expect(body.TearCount()).To(BeZero())
			after := restLengths()
			Expect(after).To(HaveLen(len(before)))
			worst := 0.0
			for i := range before {
				worst = math.Max(worst, math.Abs(after[i]-before[i]))
			}
			return worst
		}

		It("leaves rest lengths fixed when disabled", func() {
			Expect(drift(0)).To(BeZero())
		})

		It("lets rest lengths follow a deformation", func() {
			Expect(drift(0.5)).To(BeNumerically(">", 1e-6))
		})

		It("is tunable at runtime", func() {
			body.Build(scenario())
			Expect(body.SetParam("creep", 0.3)).To(Succeed())
			Expect(body.GetParams()).To(HaveKeyWithValue("creep", 0.3))
			Expect(body.SetParam("creep", 2)).To(MatchError(dynamo.ErrParameterBounds))
		})
	})

	Describe("Drag", func() {
		It("moves the body along the drag", func() {
			body.Build(scenario())
			before := centroidX(body)
			n := body.Drag(200, 200, 1, 0, 1)
			body.Update(dt)
			Expect(n).To(BeNumerically(">", 0))
			Expect(body.ActiveRipples()).To(BeZero())
			Expect(centroidX(body)).To(BeNumerically(">", before))
		})
	})

	Describe("runtime tuning", func() {
		BeforeEach(func() {
			body.Build(scenario())
		})

		It("rescales springs without rebuilding", func() {
			body.SetStiffness(0.5)
			body.SetDamping(2)
			for _, s := range body.ActiveSprings() {
				Expect(s.Stiffness).To(BeNumerically("~", s.BaseStiffness*0.5, 1e-12))
				Expect(s.Damping).To(BeNumerically("~", s.BaseDamping*2, 1e-12))
			}
			Expect(body.ActiveSprings()).To(HaveLen(108))
		})

		It("clamps the tear threshold", func() {
			body.SetTearThreshold(5)
			Expect(body.Params().TearThreshold).To(Equal(1.0))
			body.SetTearThreshold(-1)
			Expect(body.Params().TearThreshold).To(BeNumerically(">", 0))
		})

		It("exposes tunables through Configurable", func() {
			var c dynamo.Configurable = body
			Expect(c.SetParam("pressure", 0.3)).To(Succeed())
			Expect(c.GetParams()).To(HaveKeyWithValue("pressure", 0.3))

			Expect(c.SetParam("viscosity", 1)).To(MatchError(dynamo.ErrUnknownParam))
			Expect(c.SetParam("tear_threshold", 2)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(c.SetParam("stiffness", math.NaN())).To(MatchError(dynamo.ErrParameterBounds))
		})
	})
})
