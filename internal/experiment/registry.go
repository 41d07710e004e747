package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/spheresim/internal/metrics"
	"github.com/san-kum/spheresim/internal/physics"
	"github.com/san-kum/spheresim/internal/sim"
)

// DefaultStabilityThreshold is the distance from the origin past which a
// body counts as escaped.
const DefaultStabilityThreshold = 1000

// Registry maps metric names to constructors.
type Registry struct {
	metrics map[string]func(physics.Params) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(physics.Params) sim.Metric),
	}

	r.metrics["energy"] = func(physics.Params) sim.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func(p physics.Params) sim.Metric { return metrics.NewEnergyDrift(p) }
	r.metrics["momentum_drift"] = func(physics.Params) sim.Metric { return metrics.NewMomentumDrift() }
	r.metrics["stability"] = func(physics.Params) sim.Metric { return metrics.NewStability(DefaultStabilityThreshold) }
	r.metrics["contacts"] = func(physics.Params) sim.Metric { return metrics.NewContacts() }
	r.metrics["max_penetration"] = func(physics.Params) sim.Metric { return metrics.NewPenetration() }

	return r
}

func (r *Registry) GetMetric(name string, p physics.Params) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(p), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(p physics.Params) []sim.Metric {
	names := r.ListMetrics()
	ms := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		ms = append(ms, r.metrics[name](p))
	}
	return ms
}
