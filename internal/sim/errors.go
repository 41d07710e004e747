package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidState indicates a body with a NaN or Inf component after a tick.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrContextCanceled indicates the run was interrupted between ticks.
	ErrContextCanceled = errors.New("sim: run canceled by context")

	// ErrInvalidConfig indicates a config that cannot drive a run.
	ErrInvalidConfig = errors.New("sim: invalid config")
)

// SimulationError wraps an error with the tick it happened on.
type SimulationError struct {
	Tick    int
	Time    float64
	Frame   Frame
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
