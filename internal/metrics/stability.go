package metrics

import "github.com/san-kum/spheresim/internal/body"

// Stability is the fraction of observations where every body stayed within
// threshold of the origin.
type Stability struct {
	name       string
	threshold  float32
	violations int
	samples    int
}

func NewStability(threshold float32) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(bodies []body.Body, t float64) {
	s.samples++
	limit := s.threshold * s.threshold
	for _, b := range bodies {
		if b.Position.Dot(b.Position) > limit {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
