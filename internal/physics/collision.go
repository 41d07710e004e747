package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spheresim/internal/body"
)

// separationAxis pushes coincident bodies apart along +X.
var separationAxis = mgl32.Vec3{1, 0, 0}

// Contact describes one overlapping pair, A < B, as indices into the slice
// that was inspected.
type Contact struct {
	A, B   int
	Depth  float32
	Normal mgl32.Vec3
}

// ResolveCollisions walks every unordered pair in insertion order and
// resolves the ones that overlap. Each pair reads the state left by the
// previous pair. It returns the number of pairs resolved.
func ResolveCollisions(bodies []body.Body) int {
	resolved := 0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if resolvePair(&bodies[i], &bodies[j]) {
				resolved++
			}
		}
	}
	return resolved
}

func resolvePair(a, b *body.Body) bool {
	c, ok := overlap(*a, *b)
	if !ok {
		return false
	}

	aFrac, bFrac := MassFractions(a.Mass, b.Mass)

	// Depenetration: each body yields ground in proportion to the other's
	// share of the combined mass.
	a.Position = a.Position.Sub(c.Normal.Mul(c.Depth * bFrac))
	b.Position = b.Position.Add(c.Normal.Mul(c.Depth * aFrac))

	closing := a.Velocity.Dot(c.Normal) - b.Velocity.Dot(c.Normal)
	if closing <= 0 {
		return true
	}
	impulse := closing * a.Bounciness * b.Bounciness * 2
	a.Velocity = a.Velocity.Sub(c.Normal.Mul(impulse * bFrac))
	b.Velocity = b.Velocity.Add(c.Normal.Mul(impulse * aFrac))
	return true
}

// MassFractions returns each body's share of the combined mass. A massless
// pair splits evenly.
func MassFractions(aMass, bMass float32) (aFrac, bFrac float32) {
	combined := aMass + bMass
	if combined == 0 {
		return 0.5, 0.5
	}
	return aMass / combined, bMass / combined
}

// DetectContacts lists overlapping pairs without touching any state.
func DetectContacts(bodies []body.Body) []Contact {
	var contacts []Contact
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if c, ok := overlap(bodies[i], bodies[j]); ok {
				c.A, c.B = i, j
				contacts = append(contacts, c)
			}
		}
	}
	return contacts
}

func overlap(a, b body.Body) (Contact, bool) {
	diff := b.Position.Sub(a.Position)
	distSq := diff.Dot(diff)
	combined := a.Radius + b.Radius
	if distSq >= combined*combined {
		return Contact{}, false
	}

	dist := float32(math.Sqrt(float64(distSq)))
	normal := separationAxis
	if dist > 0 {
		normal = diff.Mul(1 / dist)
	}
	return Contact{Depth: combined - dist, Normal: normal}, true
}
