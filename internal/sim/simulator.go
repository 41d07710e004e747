package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/spheresim/internal/body"
	"github.com/san-kum/spheresim/internal/physics"
	"go.uber.org/zap"
)

// Simulator drives an engine with a fixed time step, the way a frame loop
// would drive it with wall-clock time.
type Simulator struct {
	engine    *physics.Engine
	metrics   []Metric
	observers []Observer
	log       *zap.Logger
}

type Option func(*Simulator)

func WithLogger(log *zap.Logger) Option {
	return func(s *Simulator) {
		if log != nil {
			s.log = log
		}
	}
}

func New(engine *physics.Engine, opts ...Option) *Simulator {
	s := &Simulator{
		engine:    engine,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Engine() *physics.Engine { return s.engine }
func (s *Simulator) AddMetric(m Metric)      { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)  { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, steps/every+1),
		Times:   make([]float64, 0, steps/every+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	if cfg.StartRunning {
		s.engine.Controller().Set(physics.Running)
	}
	toggles := toggleSet(cfg.ToggleAt)

	reg := s.engine.Registry()
	params := s.engine.Params()
	t := 0.0
	dt := float32(cfg.Dt)

	result.Frames = append(result.Frames, Frame(reg.Snapshot()))
	result.Times = append(result.Times, t)

	initialEnergy := physics.TotalEnergy(reg.Bodies(), params)

	s.log.Info("run started",
		zap.Int("bodies", reg.Len()),
		zap.Int("steps", steps),
		zap.Float64("dt", cfg.Dt),
		zap.Stringer("state", s.engine.Controller().State()),
	)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.log.Warn("run canceled", zap.Int("tick", i), zap.Error(ctx.Err()))
			return result, fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		rep := s.engine.Tick(physics.Input{Dt: dt, Toggle: toggles[i]})
		t += cfg.Dt
		bodies := reg.Bodies()

		if !rep.Ran {
			result.PausedTicks++
		}
		result.Contacts += rep.Contacts

		for _, m := range s.metrics {
			m.Observe(bodies, t)
		}
		for _, obs := range s.observers {
			obs.OnTick(bodies, rep, t)
		}

		if cfg.ValidateState && !Frame(bodies).IsValid() {
			err := &SimulationError{Tick: i, Time: t, Frame: Frame(reg.Snapshot()), Wrapped: ErrInvalidState}
			result.Errors = append(result.Errors, err)
			s.log.Error("invalid state", zap.Int("tick", i), zap.Float64("t", t))
			break
		}

		result.StepsTaken++
		if result.StepsTaken%every == 0 || i == steps-1 {
			result.Frames = append(result.Frames, Frame(reg.Snapshot()))
			result.Times = append(result.Times, t)
		}
	}

	finalEnergy := physics.TotalEnergy(reg.Bodies(), s.engine.Params())
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Info("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Int("paused_ticks", result.PausedTicks),
		zap.Int("contacts", result.Contacts),
		zap.Float64("energy_drift", result.EnergyDrift),
	)

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("%w: record interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// RunWithCallback ticks until the duration elapses, the callback returns
// false, or ctx is done. The frame passed to the callback is only valid
// during the call.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame, physics.Report, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	if cfg.StartRunning {
		s.engine.Controller().Set(physics.Running)
	}
	toggles := toggleSet(cfg.ToggleAt)
	pool := NewFramePool()
	reg := s.engine.Registry()

	t := 0.0
	for i := 0; i < cfg.Steps(); i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		rep := s.engine.Tick(physics.Input{Dt: float32(cfg.Dt), Toggle: toggles[i]})
		t += cfg.Dt

		if cfg.ValidateState && !Frame(reg.Bodies()).IsValid() {
			return &SimulationError{Tick: i, Time: t, Frame: Frame(reg.Snapshot()), Wrapped: ErrInvalidState}
		}

		frame := pool.GetAndCopy(reg.Bodies())
		keepGoing := callback(*frame, rep, t)
		pool.Put(frame)
		if !keepGoing {
			return nil
		}
	}

	return nil
}

func toggleSet(ticks []int) map[int]bool {
	set := make(map[int]bool, len(ticks))
	for _, t := range ticks {
		// Two edges on the same tick cancel out.
		set[t] = !set[t]
	}
	return set
}

// Snapshot copies the current bodies of the simulator's registry.
func (s *Simulator) Snapshot() []body.Body {
	return s.engine.Registry().Snapshot()
}
