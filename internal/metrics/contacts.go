package metrics

import (
	"github.com/san-kum/spheresim/internal/body"
	"github.com/san-kum/spheresim/internal/physics"
)

// Contacts is the mean number of overlapping pairs left after each tick.
// Resolution is sequential, so a crowded cluster can leave residual overlap.
type Contacts struct {
	name    string
	sum     float64
	samples int
}

func NewContacts() *Contacts {
	return &Contacts{name: "contacts"}
}

func (c *Contacts) Name() string {
	return c.name
}

func (c *Contacts) Observe(bodies []body.Body, t float64) {
	c.sum += float64(len(physics.DetectContacts(bodies)))
	c.samples++
}

func (c *Contacts) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *Contacts) Reset() {
	c.sum = 0
	c.samples = 0
}

// Penetration is the deepest overlap seen in any observation.
type Penetration struct {
	name     string
	maxDepth float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "max_penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(bodies []body.Body, t float64) {
	for _, c := range physics.DetectContacts(bodies) {
		if d := float64(c.Depth); d > p.maxDepth {
			p.maxDepth = d
		}
	}
}

func (p *Penetration) Value() float64 { return p.maxDepth }
func (p *Penetration) Reset()         { p.maxDepth = 0 }
