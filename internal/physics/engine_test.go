package physics_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spheresim/internal/body"
	"github.com/san-kum/spheresim/internal/physics"
)

const tol = 1e-5

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func distance(a, b body.Body) float32 {
	return b.Position.Sub(a.Position).Len()
}

type passRecorder struct {
	passes []physics.Pass
}

func (r *passRecorder) AfterPass(p physics.Pass, _ []body.Body) {
	r.passes = append(r.passes, p)
}

var _ = Describe("Engine", func() {
	var (
		reg    *body.Registry
		engine *physics.Engine
	)

	BeforeEach(func() {
		reg = body.NewRegistry()
		engine = physics.NewEngine(reg, physics.DefaultParams())
	})

	It("starts paused", func() {
		Expect(engine.Controller().State()).To(Equal(physics.Paused))
	})

	Context("while paused", func() {
		It("leaves every body untouched", func() {
			reg.MustAdd(body.Body{Position: mgl32.Vec3{0, 0, 0}, Velocity: mgl32.Vec3{1, 2, 3}, Mass: 5, Radius: 1, Bounciness: 1})
			reg.MustAdd(body.Body{Position: mgl32.Vec3{1, 0, 0}, Velocity: mgl32.Vec3{-1, 0, 0}, Mass: 2, Radius: 1, Bounciness: 1})
			before := reg.Snapshot()

			rep := engine.Tick(physics.Input{Dt: 0.5})

			Expect(rep.Ran).To(BeFalse())
			Expect(rep.State).To(Equal(physics.Paused))
			Expect(reg.Snapshot()).To(Equal(before))
			Expect(engine.TickCount()).To(BeZero())
		})
	})

	Context("run-state toggling", func() {
		It("returns to the original state after two edges", func() {
			ctrl := engine.Controller()
			ctrl.Toggle()
			ctrl.Toggle()
			Expect(ctrl.State()).To(Equal(physics.Paused))
		})

		It("starts running on the tick that carries the toggle edge", func() {
			reg.MustAdd(body.Body{Velocity: mgl32.Vec3{1, 0, 0}, Radius: 1})

			rep := engine.Tick(physics.Input{Dt: 1, Toggle: true})

			Expect(rep.Ran).To(BeTrue())
			Expect(rep.State).To(Equal(physics.Running))
			Expect(reg.Bodies()[0].Position.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, tol)).To(BeTrue())
		})

		It("freezes again on the next edge", func() {
			reg.MustAdd(body.Body{Velocity: mgl32.Vec3{1, 0, 0}, Radius: 1})

			engine.Tick(physics.Input{Dt: 1, Toggle: true})
			rep := engine.Tick(physics.Input{Dt: 1, Toggle: true})

			Expect(rep.Ran).To(BeFalse())
			Expect(reg.Bodies()[0].Position.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, tol)).To(BeTrue())
			Expect(engine.TickCount()).To(Equal(uint64(1)))
		})
	})

	Context("end to end", func() {
		It("pulls a massless body toward a single attractor then moves it", func() {
			reg.MustAdd(body.Body{Mass: 10, Radius: 1})
			probe := reg.MustAdd(body.Body{Position: mgl32.Vec3{10, 0, 0}, Radius: 1})
			engine.Controller().Set(physics.Running)

			engine.Tick(physics.Input{Dt: 1})

			b, ok := reg.Get(probe)
			Expect(ok).To(BeTrue())
			Expect(b.Velocity.ApproxEqualThreshold(mgl32.Vec3{-0.1, 0, 0}, tol)).To(BeTrue(), "velocity %v", b.Velocity)
			Expect(b.Position.ApproxEqualThreshold(mgl32.Vec3{9.9, 0, 0}, tol)).To(BeTrue(), "position %v", b.Position)
		})

		It("leaves the attractor still when the attractee is massless", func() {
			attractor := reg.MustAdd(body.Body{Mass: 10, Radius: 1})
			reg.MustAdd(body.Body{Position: mgl32.Vec3{10, 0, 0}, Radius: 1})
			engine.Controller().Set(physics.Running)

			engine.Tick(physics.Input{Dt: 1})

			b, _ := reg.Get(attractor)
			Expect(b.Velocity).To(Equal(mgl32.Vec3{}))
			Expect(b.Position).To(Equal(mgl32.Vec3{}))
		})

		It("reads the gravity constant set between ticks", func() {
			reg.MustAdd(body.Body{Mass: 10, Radius: 1})
			probe := reg.MustAdd(body.Body{Position: mgl32.Vec3{10, 0, 0}, Radius: 1})
			engine.Controller().Set(physics.Running)

			engine.SetGravityConstant(2)
			engine.Tick(physics.Input{Dt: 0})

			b, _ := reg.Get(probe)
			Expect(b.Velocity.ApproxEqualThreshold(mgl32.Vec3{-0.2, 0, 0}, tol)).To(BeTrue(), "velocity %v", b.Velocity)
		})
	})

	It("runs the passes in gravity, integrate, collide order", func() {
		rec := &passRecorder{}
		engine.AddHook(rec)
		engine.Controller().Set(physics.Running)

		engine.Tick(physics.Input{Dt: 0.1})

		Expect(rec.passes).To(Equal([]physics.Pass{physics.PassGravity, physics.PassIntegrate, physics.PassCollide}))
	})

	It("sees post-integration positions in the collision pass", func() {
		params := physics.DefaultParams()
		params.GravityConstant = 0
		engine.SetParams(params)
		engine.Controller().Set(physics.Running)

		// 3 apart with radius 1: no overlap before integration, 1 apart after.
		reg.MustAdd(body.Body{Position: mgl32.Vec3{0, 0, 0}, Velocity: mgl32.Vec3{1, 0, 0}, Mass: 1, Radius: 1, Bounciness: 1})
		reg.MustAdd(body.Body{Position: mgl32.Vec3{3, 0, 0}, Velocity: mgl32.Vec3{-1, 0, 0}, Mass: 1, Radius: 1, Bounciness: 1})

		rep := engine.Tick(physics.Input{Dt: 1})

		Expect(rep.Contacts).To(Equal(1))
		bodies := reg.Bodies()
		Expect(distance(bodies[0], bodies[1])).To(BeNumerically(">=", 2-tol))
	})

	It("treats a removed body as gone on the next tick", func() {
		reg.MustAdd(body.Body{Mass: 10, Radius: 1})
		heavy := reg.MustAdd(body.Body{Position: mgl32.Vec3{0, 10, 0}, Mass: 1000, Radius: 1})
		probe := reg.MustAdd(body.Body{Position: mgl32.Vec3{10, 0, 0}, Radius: 1})
		Expect(reg.Remove(heavy)).To(Succeed())
		engine.Controller().Set(physics.Running)

		engine.Tick(physics.Input{Dt: 0})

		b, _ := reg.Get(probe)
		Expect(b.Velocity.ApproxEqualThreshold(mgl32.Vec3{-0.1, 0, 0}, tol)).To(BeTrue(), "velocity %v", b.Velocity)
	})
})

var _ = Describe("ApplyGravity", func() {
	It("gives each unordered pair two opposing contributions", func() {
		bodies := []body.Body{
			{Position: mgl32.Vec3{0, 0, 0}, Mass: 2},
			{Position: mgl32.Vec3{4, 0, 0}, Mass: 4},
		}

		physics.ApplyGravity(bodies, physics.DefaultParams(), 1)

		// a feels 1*4/16 toward b, b feels 1*2/16 toward a.
		Expect(bodies[0].Velocity.ApproxEqualThreshold(mgl32.Vec3{0.25, 0, 0}, tol)).To(BeTrue(), "a %v", bodies[0].Velocity)
		Expect(bodies[1].Velocity.ApproxEqualThreshold(mgl32.Vec3{-0.125, 0, 0}, tol)).To(BeTrue(), "b %v", bodies[1].Velocity)
	})

	It("keeps acceleration bounded as separation goes to zero", func() {
		p := physics.DefaultParams()
		limit := float64(p.GravityConstant*5/p.Softening) + tol

		for _, sep := range []float32{1, 1e-1, 1e-3, 1e-6, 0} {
			bodies := []body.Body{
				{Mass: 5},
				{Position: mgl32.Vec3{sep, 0, 0}, Mass: 5},
			}
			physics.ApplyGravity(bodies, p, 1)
			for _, b := range bodies {
				Expect(finite(b.Velocity)).To(BeTrue(), "separation %v", sep)
				Expect(float64(b.Velocity.Len())).To(BeNumerically("<=", limit), "separation %v", sep)
			}
		}
	})

	It("does not scale by dt unless asked to", func() {
		mk := func() []body.Body {
			return []body.Body{{Mass: 10}, {Position: mgl32.Vec3{10, 0, 0}}}
		}

		raw := mk()
		physics.ApplyGravity(raw, physics.DefaultParams(), 0.5)
		Expect(raw[1].Velocity.ApproxEqualThreshold(mgl32.Vec3{-0.1, 0, 0}, tol)).To(BeTrue())

		p := physics.DefaultParams()
		p.ScaleGravityByDt = true
		scaled := mk()
		physics.ApplyGravity(scaled, p, 0.5)
		Expect(scaled[1].Velocity.ApproxEqualThreshold(mgl32.Vec3{-0.05, 0, 0}, tol)).To(BeTrue())
	})

	It("never moves positions", func() {
		bodies := []body.Body{
			{Position: mgl32.Vec3{1, 2, 3}, Mass: 3},
			{Position: mgl32.Vec3{-4, 0, 8}, Mass: 7},
		}
		physics.ApplyGravity(bodies, physics.DefaultParams(), 1)
		Expect(bodies[0].Position).To(Equal(mgl32.Vec3{1, 2, 3}))
		Expect(bodies[1].Position).To(Equal(mgl32.Vec3{-4, 0, 8}))
	})
})

var _ = Describe("ResolveCollisions", func() {
	It("fully corrects an isolated overlap in one pass", func() {
		bodies := []body.Body{
			{Position: mgl32.Vec3{0, 0, 0}, Mass: 1, Radius: 1, Bounciness: 0.5},
			{Position: mgl32.Vec3{1.5, 0.2, -0.1}, Mass: 2, Radius: 1, Bounciness: 0.5},
		}

		Expect(physics.ResolveCollisions(bodies)).To(Equal(1))
		Expect(distance(bodies[0], bodies[1])).To(BeNumerically(">=", 2-tol))
	})

	It("moves the lighter body three times as far for a 3:1 pair", func() {
		a0 := mgl32.Vec3{0, 0, 0}
		b0 := mgl32.Vec3{1.5, 0, 0}
		bodies := []body.Body{
			{Position: a0, Mass: 3, Radius: 1},
			{Position: b0, Mass: 1, Radius: 1},
		}

		physics.ResolveCollisions(bodies)

		da := bodies[0].Position.Sub(a0).Len()
		db := bodies[1].Position.Sub(b0).Len()
		Expect(da).To(BeNumerically("~", 0.125, tol))
		Expect(db).To(BeNumerically("~", 0.375, tol))
		Expect(db).To(BeNumerically("~", 3*da, tol))
	})

	It("swaps velocities for an equal-mass elastic head-on hit", func() {
		bodies := []body.Body{
			{Position: mgl32.Vec3{-0.9, 0, 0}, Velocity: mgl32.Vec3{1, 0, 0}, Mass: 1, Radius: 1, Bounciness: 1},
			{Position: mgl32.Vec3{0.9, 0, 0}, Velocity: mgl32.Vec3{-1, 0, 0}, Mass: 1, Radius: 1, Bounciness: 1},
		}

		physics.ResolveCollisions(bodies)

		Expect(bodies[0].Velocity.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, tol)).To(BeTrue(), "a %v", bodies[0].Velocity)
		Expect(bodies[1].Velocity.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, tol)).To(BeTrue(), "b %v", bodies[1].Velocity)
	})

	It("splits a massless pair evenly", func() {
		bodies := []body.Body{
			{Position: mgl32.Vec3{0, 0, 0}, Velocity: mgl32.Vec3{1, 0, 0}, Radius: 1, Bounciness: 1},
			{Position: mgl32.Vec3{1, 0, 0}, Radius: 1, Bounciness: 1},
		}

		physics.ResolveCollisions(bodies)

		for _, b := range bodies {
			Expect(finite(b.Position)).To(BeTrue())
			Expect(finite(b.Velocity)).To(BeTrue())
		}
		Expect(bodies[0].Position.ApproxEqualThreshold(mgl32.Vec3{-0.5, 0, 0}, tol)).To(BeTrue(), "a %v", bodies[0].Position)
		Expect(bodies[1].Position.ApproxEqualThreshold(mgl32.Vec3{1.5, 0, 0}, tol)).To(BeTrue(), "b %v", bodies[1].Position)
		Expect(bodies[0].Velocity.ApproxEqualThreshold(mgl32.Vec3{0, 0, 0}, tol)).To(BeTrue(), "a %v", bodies[0].Velocity)
		Expect(bodies[1].Velocity.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, tol)).To(BeTrue(), "b %v", bodies[1].Velocity)
	})

	It("skips pairs that only touch", func() {
		bodies := []body.Body{
			{Position: mgl32.Vec3{0, 0, 0}, Velocity: mgl32.Vec3{1, 0, 0}, Mass: 1, Radius: 1, Bounciness: 1},
			{Position: mgl32.Vec3{2, 0, 0}, Mass: 1, Radius: 1, Bounciness: 1},
		}
		before := append([]body.Body(nil), bodies...)

		Expect(physics.ResolveCollisions(bodies)).To(BeZero())
		Expect(bodies).To(Equal(before))
	})

	It("pushes coincident bodies apart without NaN", func() {
		bodies := []body.Body{
			{Position: mgl32.Vec3{2, 2, 2}, Mass: 1, Radius: 1, Bounciness: 1},
			{Position: mgl32.Vec3{2, 2, 2}, Mass: 1, Radius: 1, Bounciness: 1},
		}

		physics.ResolveCollisions(bodies)

		Expect(finite(bodies[0].Position)).To(BeTrue())
		Expect(distance(bodies[0], bodies[1])).To(BeNumerically("~", 2, tol))
	})

	It("leaves a three-body cluster finite and less overlapped", func() {
		// Outcome depends on pair order; only sanity is asserted.
		bodies := []body.Body{
			{Position: mgl32.Vec3{0, 0, 0}, Velocity: mgl32.Vec3{0.5, 0, 0}, Mass: 1, Radius: 1, Bounciness: 1},
			{Position: mgl32.Vec3{1, 0, 0}, Velocity: mgl32.Vec3{0, 0.5, 0}, Mass: 2, Radius: 1, Bounciness: 0.8},
			{Position: mgl32.Vec3{0.5, 0.8, 0}, Velocity: mgl32.Vec3{0, -0.5, 0}, Mass: 3, Radius: 1, Bounciness: 0.6},
		}
		depth := func() float32 {
			var sum float32
			for _, c := range physics.DetectContacts(bodies) {
				sum += c.Depth
			}
			return sum
		}
		before := depth()

		Expect(physics.ResolveCollisions(bodies)).To(BeNumerically(">=", 2))

		for _, b := range bodies {
			Expect(finite(b.Position)).To(BeTrue())
			Expect(finite(b.Velocity)).To(BeTrue())
		}
		Expect(depth()).To(BeNumerically("<", before))
	})
})
