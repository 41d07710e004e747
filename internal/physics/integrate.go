package physics

import "github.com/san-kum/spheresim/internal/body"

// Integrate advances every position by velocity * dt. A zero dt leaves
// positions untouched; large values are not clamped.
func Integrate(bodies []body.Body, dt float32) {
	if dt == 0 {
		return
	}
	for i := range bodies {
		b := &bodies[i]
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	}
}
