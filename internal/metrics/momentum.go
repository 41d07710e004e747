package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spheresim/internal/body"
	"github.com/san-kum/spheresim/internal/physics"
)

// MomentumDrift is the largest distance of total momentum from its first
// observed value. Collisions exchange equal and opposite momentum, so this
// stays near zero unless bodies are added or removed mid-run.
type MomentumDrift struct {
	name     string
	initial  mgl32.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(bodies []body.Body, t float64) {
	p := physics.TotalMomentum(bodies)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, float64(p.Sub(m.initial).Len()))
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl32.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}
