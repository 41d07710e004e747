package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/spheresim/internal/body"
	"github.com/san-kum/spheresim/internal/config"
	"github.com/san-kum/spheresim/internal/physics"
	"github.com/san-kum/spheresim/internal/sim"
	"go.uber.org/zap"
)

// Experiment owns the registry and engine built from one scenario.
type Experiment struct {
	scenario  *config.Scenario
	reg       *body.Registry
	ids       []body.ID
	engine    *physics.Engine
	simulator *sim.Simulator
	log       *zap.Logger
}

func New(s *config.Scenario, log *zap.Logger) (*Experiment, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	e := &Experiment{
		scenario: s,
		reg:      body.NewRegistry(),
		log:      log.With(zap.String("scenario", s.Name)),
	}
	e.engine = physics.NewEngine(e.reg, s.Params())
	e.simulator = sim.New(e.engine, sim.WithLogger(e.log))

	e.applyStartState()

	if err := e.populate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Experiment) applyStartState() {
	state := physics.Paused
	if e.scenario.StartRunning {
		state = physics.Running
	}
	e.engine.Controller().Set(state)
}

// Populate fills reg with the bodies of s in declaration order.
func Populate(reg *body.Registry, s *config.Scenario) ([]body.ID, error) {
	specs := s.Specs()
	ids := make([]body.ID, 0, len(specs))
	for i, sp := range specs {
		id, err := reg.Add(sp.Build())
		if err != nil {
			return ids, fmt.Errorf("body %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (e *Experiment) populate() error {
	ids, err := Populate(e.reg, e.scenario)
	e.ids = ids
	return err
}

// Setup attaches metrics to the simulator.
func (e *Experiment) Setup(metrics []sim.Metric) {
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
}

// Reset restores the initial bodies, gravity constant and run state.
func (e *Experiment) Reset() error {
	e.reg.Clear()
	e.engine.SetParams(e.scenario.Params())
	e.applyStartState()
	if err := e.populate(); err != nil {
		return err
	}
	e.log.Debug("scenario reset", zap.Int("bodies", e.reg.Len()))
	return nil
}

// SimConfig is the headless run configuration for the scenario.
func (e *Experiment) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = e.scenario.Dt
	cfg.Duration = e.scenario.Duration
	cfg.Seed = e.scenario.Seed
	cfg.StartRunning = e.scenario.StartRunning
	return cfg
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.SimConfig())
}

func (e *Experiment) Scenario() *config.Scenario   { return e.scenario }
func (e *Experiment) Registry() *body.Registry     { return e.reg }
func (e *Experiment) IDs() []body.ID               { return e.ids }
func (e *Experiment) Engine() *physics.Engine      { return e.engine }
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }

// Factory returns an ensemble factory that rebuilds s with each seed.
func Factory(s *config.Scenario, reg *Registry, log *zap.Logger) sim.Factory {
	return func(seed int64) (*sim.Simulator, error) {
		variant := s.Clone()
		variant.Seed = seed
		e, err := New(variant, log)
		if err != nil {
			return nil, err
		}
		e.Setup(reg.DefaultMetrics(variant.Params()))
		return e.GetSimulator(), nil
	}
}
