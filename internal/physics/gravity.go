package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spheresim/internal/body"
)

// ApplyGravity adds the pull of every attractor to every other body's
// velocity. Positions are read but never written, so every contribution in
// the pass sees the same positions.
func ApplyGravity(bodies []body.Body, p Params, dt float32) {
	for i := range bodies {
		attractee := &bodies[i]
		for j := range bodies {
			if i == j {
				continue
			}
			dv := GravityAcceleration(*attractee, bodies[j], p)
			if p.ScaleGravityByDt {
				dv = dv.Mul(dt)
			}
			attractee.Velocity = attractee.Velocity.Add(dv)
		}
	}
}

// GravityAcceleration is the velocity change attractor imparts on attractee
// in one tick: G * m / max(r², softening) along the separation.
func GravityAcceleration(attractee, attractor body.Body, p Params) mgl32.Vec3 {
	if attractor.Mass == 0 {
		return mgl32.Vec3{}
	}
	diff := attractor.Position.Sub(attractee.Position)
	distSq := diff.Dot(diff)
	if distSq == 0 {
		return mgl32.Vec3{}
	}
	if distSq < p.Softening {
		distSq = p.Softening
	}
	accel := p.GravityConstant * attractor.Mass / distSq
	dist := float32(math.Sqrt(float64(distSq)))
	return diff.Mul(accel / dist)
}
