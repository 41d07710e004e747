package body

import "github.com/go-gl/mathgl/mgl32"

// Spec describes a sphere to spawn. The zero Spec is not useful; start from
// DefaultSpec and override what differs.
type Spec struct {
	Mass       float32
	Radius     float32
	Bounciness float32
	Location   mgl32.Vec3
	Velocity   mgl32.Vec3
}

// DefaultSpec is a unit sphere of unit mass at rest at the origin.
func DefaultSpec() Spec {
	return Spec{
		Mass:       1,
		Radius:     1,
		Bounciness: 1,
	}
}

func (s Spec) Build() Body {
	return Body{
		Position:   s.Location,
		Velocity:   s.Velocity,
		Mass:       s.Mass,
		Radius:     s.Radius,
		Bounciness: s.Bounciness,
	}
}
