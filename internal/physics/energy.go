package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spheresim/internal/body"
)

// KineticEnergy sums ½mv² over all bodies.
func KineticEnergy(bodies []body.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += b.KineticEnergy()
	}
	return ke
}

// PotentialEnergy is the softened pairwise gravitational energy, using the
// same distance floor as the gravity pass.
func PotentialEnergy(bodies []body.Body, p Params) float64 {
	pe := 0.0
	soft := float64(p.Softening)
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			d := bodies[j].Position.Sub(bodies[i].Position)
			r2 := float64(d.Dot(d))
			if r2 < soft {
				r2 = soft
			}
			if r2 == 0 {
				continue
			}
			pe -= float64(p.GravityConstant) * float64(bodies[i].Mass) * float64(bodies[j].Mass) / math.Sqrt(r2)
		}
	}
	return pe
}

func TotalEnergy(bodies []body.Body, p Params) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies, p)
}

func TotalMomentum(bodies []body.Body) mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, b := range bodies {
		sum = sum.Add(b.Momentum())
	}
	return sum
}
