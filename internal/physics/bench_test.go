package physics

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spheresim/internal/body"
)

func benchBodies(n int) []body.Body {
	rng := rand.New(rand.NewSource(1))
	bodies := make([]body.Body, n)
	for i := range bodies {
		bodies[i] = body.Body{
			Position:   mgl32.Vec3{rng.Float32() * 50, rng.Float32() * 50, rng.Float32() * 50},
			Mass:       1 + rng.Float32(),
			Radius:     0.5 + rng.Float32(),
			Bounciness: 0.8,
		}
	}
	return bodies
}

func BenchmarkStep16(b *testing.B)  { benchStep(b, 16) }
func BenchmarkStep128(b *testing.B) { benchStep(b, 128) }
func BenchmarkStep512(b *testing.B) { benchStep(b, 512) }

func benchStep(b *testing.B, n int) {
	bodies := benchBodies(n)
	p := DefaultParams()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Step(bodies, p, 1.0/60)
	}
}

func BenchmarkResolveCollisions(b *testing.B) {
	bodies := benchBodies(256)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ResolveCollisions(bodies)
	}
}
