package sim

import (
	"math"

	"github.com/san-kum/spheresim/internal/body"
	"github.com/san-kum/spheresim/internal/physics"
)

// Frame is a copy of every body at one instant, in registry order.
type Frame []body.Body

func (f Frame) Clone() Frame {
	c := make(Frame, len(f))
	copy(c, f)
	return c
}

func (f Frame) IsValid() bool {
	for _, b := range f {
		if !b.IsFinite() {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(bodies []body.Body, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(bodies []body.Body, rep physics.Report, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	StartRunning  bool
	ToggleAt      []int // tick indices that carry a run-state toggle edge
	RecordEvery   int   // keep every Nth frame; 0 or 1 keeps all
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Duration:      10.0,
		StartRunning:  true,
		RecordEvery:   1,
		ValidateState: true,
	}
}

// Steps is the number of ticks a run of cfg takes.
func (c Config) Steps() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(math.Floor(c.Duration/c.Dt + 1e-9))
}

type Result struct {
	Frames      []Frame
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	PausedTicks int
	Contacts    int
	Errors      []error
}

// Final returns the last recorded frame, or nil for an empty result.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return nil
	}
	return r.Frames[len(r.Frames)-1]
}
