package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spheresim/internal/body"
	"github.com/san-kum/spheresim/internal/physics"
)

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()

	m.Observe([]body.Body{{Mass: 2, Velocity: mgl32.Vec3{1, 0, 0}}}, 0)
	m.Observe([]body.Body{{Mass: 2, Velocity: mgl32.Vec3{3, 0, 0}}}, 1)

	// (1 + 9) / 2
	if got := m.Value(); math.Abs(got-5) > 1e-9 {
		t.Errorf("expected mean energy 5, got %f", got)
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()

	m.Observe([]body.Body{{Mass: 1, Velocity: mgl32.Vec3{1, 1, 1}}}, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDriftStaysZeroForFreeFlight(t *testing.T) {
	p := physics.DefaultParams()
	p.GravityConstant = 0
	m := NewEnergyDrift(p)

	bodies := []body.Body{{Mass: 1, Radius: 1, Velocity: mgl32.Vec3{1, 0, 0}}}
	for i := 0; i < 10; i++ {
		m.Observe(bodies, float64(i))
		physics.Integrate(bodies, 0.1)
	}

	if m.Value() > 1e-9 {
		t.Errorf("free flight drift = %g, want 0", m.Value())
	}
}

func TestMomentumConservedThroughCollision(t *testing.T) {
	m := NewMomentumDrift()
	bodies := []body.Body{
		{Position: mgl32.Vec3{0, 0, 0}, Velocity: mgl32.Vec3{2, 0, 0}, Mass: 3, Radius: 1, Bounciness: 0.7},
		{Position: mgl32.Vec3{1.9, 0.3, 0}, Velocity: mgl32.Vec3{-1, 0, 0}, Mass: 1, Radius: 1, Bounciness: 0.9},
	}

	m.Observe(bodies, 0)
	physics.ResolveCollisions(bodies)
	m.Observe(bodies, 1)

	if m.Value() > 1e-5 {
		t.Errorf("momentum drift after collision = %g", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)

	m.Observe([]body.Body{{Position: mgl32.Vec3{1, 0, 0}}}, 0)
	m.Observe([]body.Body{{Position: mgl32.Vec3{0, 20, 0}}}, 1)

	if got := m.Value(); got != 0.5 {
		t.Errorf("stability = %v, want 0.5", got)
	}
}

func TestContactsAndPenetration(t *testing.T) {
	c := NewContacts()
	p := NewPenetration()

	overlapping := []body.Body{
		{Position: mgl32.Vec3{0, 0, 0}, Radius: 1},
		{Position: mgl32.Vec3{1.5, 0, 0}, Radius: 1},
	}
	apart := []body.Body{
		{Position: mgl32.Vec3{0, 0, 0}, Radius: 1},
		{Position: mgl32.Vec3{5, 0, 0}, Radius: 1},
	}

	for _, bodies := range [][]body.Body{overlapping, apart} {
		c.Observe(bodies, 0)
		p.Observe(bodies, 0)
	}

	if got := c.Value(); got != 0.5 {
		t.Errorf("contacts = %v, want 0.5", got)
	}
	if got := p.Value(); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("max penetration = %v, want 0.5", got)
	}
}
