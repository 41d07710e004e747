package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Body struct {
	Position   mgl32.Vec3
	Velocity   mgl32.Vec3
	Mass       float32
	Radius     float32
	Bounciness float32
}

// IsFinite reports whether every component of the body is a finite number.
func (b Body) IsFinite() bool {
	for _, v := range []float32{
		b.Position[0], b.Position[1], b.Position[2],
		b.Velocity[0], b.Velocity[1], b.Velocity[2],
		b.Mass, b.Radius, b.Bounciness,
	} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (b Body) Validate() error {
	if !b.IsFinite() {
		return ErrNonFinite
	}
	if b.Mass < 0 {
		return ErrNegativeMass
	}
	if b.Radius < 0 {
		return ErrNegativeRadius
	}
	return nil
}

// Momentum returns mass * velocity.
func (b Body) Momentum() mgl32.Vec3 { return b.Velocity.Mul(b.Mass) }

func (b Body) KineticEnergy() float64 {
	v := b.Velocity.Dot(b.Velocity)
	return 0.5 * float64(b.Mass) * float64(v)
}
