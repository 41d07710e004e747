package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/spheresim/internal/config"
	"github.com/san-kum/spheresim/internal/experiment"
	"github.com/san-kum/spheresim/internal/sim"
	"github.com/san-kum/spheresim/internal/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Script is a sequence of headless runs.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step runs one scenario. Preset and Config pick the base scenario (Config
// wins); the remaining fields override it when set.
type Step struct {
	Preset          string    `yaml:"preset"`
	Config          string    `yaml:"config"`
	Duration        float64   `yaml:"duration"`
	Dt              float64   `yaml:"dt"`
	Seed            *int64    `yaml:"seed"`
	GravityConstant *float32  `yaml:"gravity_constant"`
	StartPaused     bool      `yaml:"start_paused"`
	ToggleAt        []float64 `yaml:"toggle_at"` // seconds into the run
	Save            bool      `yaml:"save"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script %s has no steps", path)
	}

	return &script, nil
}

// Scenario resolves the step's base scenario and applies its overrides.
func (s Step) Scenario() (*config.Scenario, error) {
	var sc *config.Scenario
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		sc = loaded
	case s.Preset != "":
		sc = config.GetPreset(s.Preset)
		if sc == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	default:
		sc = config.DefaultScenario()
	}

	if s.Duration > 0 {
		sc.Duration = s.Duration
	}
	if s.Dt > 0 {
		sc.Dt = s.Dt
	}
	if s.Seed != nil {
		sc.Seed = *s.Seed
	}
	if s.GravityConstant != nil {
		sc.GravityConstant = *s.GravityConstant
	}
	if s.StartPaused {
		sc.StartRunning = false
	}

	return sc, sc.Validate()
}

// ToggleTicks converts toggle times in seconds to tick indices.
func ToggleTicks(times []float64, dt float64) []int {
	ticks := make([]int, 0, len(times))
	for _, t := range times {
		if t < 0 {
			continue
		}
		ticks = append(ticks, int(math.Round(t/dt)))
	}
	return ticks
}

type StepResult struct {
	Scenario string
	RunID    string
	Result   *sim.Result
}

// Runner executes scripts and sweeps. A nil store skips saving.
type Runner struct {
	store   *storage.Store
	metrics *experiment.Registry
	log     *zap.Logger
}

func NewRunner(store *storage.Store, metrics *experiment.Registry, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = experiment.NewRegistry()
	}
	return &Runner{store: store, metrics: metrics, log: log}
}

func (r *Runner) runScenario(ctx context.Context, sc *config.Scenario, toggleAt []float64) (*sim.Result, error) {
	exp, err := experiment.New(sc, r.log)
	if err != nil {
		return nil, err
	}
	exp.Setup(r.metrics.DefaultMetrics(sc.Params()))

	cfg := exp.SimConfig()
	cfg.ToggleAt = ToggleTicks(toggleAt, sc.Dt)
	return exp.GetSimulator().Run(ctx, cfg)
}

// RunScript executes all steps in order and stops at the first error.
func (r *Runner) RunScript(ctx context.Context, script *Script) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		sc, err := step.Scenario()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.log.Info("script step", zap.String("script", script.Name), zap.Int("step", i+1), zap.String("scenario", sc.Name))

		result, err := r.runScenario(ctx, sc, step.ToggleAt)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Scenario: sc.Name, Result: result}
		if step.Save && r.store != nil {
			sr.RunID, err = r.store.Save(sc, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// Sweep runs a preset across evenly spaced gravity constants.
type Sweep struct {
	Preset   string
	Min, Max float32
	NumSteps int
	Duration float64 // overrides the preset when positive
}

type SweepResult struct {
	GravityConstant float32
	Contacts        int
	EnergyDrift     float64
	MaxPenetration  float64
	Errors          int
}

func (r *Runner) RunSweep(ctx context.Context, sweep *Sweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	base := config.GetPreset(sweep.Preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset: %s", sweep.Preset)
	}
	if sweep.Duration > 0 {
		base.Duration = sweep.Duration
	}

	step := float32(0)
	if sweep.NumSteps > 1 {
		step = (sweep.Max - sweep.Min) / float32(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		sc := base.Clone()
		sc.GravityConstant = sweep.Min + float32(i)*step

		result, err := r.runScenario(ctx, sc, nil)
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			GravityConstant: sc.GravityConstant,
			Contacts:        result.Contacts,
			EnergyDrift:     result.EnergyDrift,
			MaxPenetration:  result.Metrics["max_penetration"],
			Errors:          len(result.Errors),
		})
		r.log.Debug("sweep point", zap.Int("point", i+1), zap.Float32("g", sc.GravityConstant))
	}

	return results, nil
}
