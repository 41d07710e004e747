package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spheresim/internal/body"
	"github.com/san-kum/spheresim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultSeed     = 1
)

var (
	ErrUnknownFormat   = errors.New("config: unknown scenario format")
	ErrInvalidScenario = errors.New("config: invalid scenario")
)

// Scenario is everything needed to set up and run a simulation.
type Scenario struct {
	Name             string        `yaml:"name" toml:"name"`
	Dt               float64       `yaml:"dt" toml:"dt"`
	Duration         float64       `yaml:"duration" toml:"duration"`
	Seed             int64         `yaml:"seed" toml:"seed"`
	StartRunning     bool          `yaml:"start_running" toml:"start_running"`
	GravityConstant  float32       `yaml:"gravity_constant" toml:"gravity_constant"`
	Softening        float32       `yaml:"softening" toml:"softening"`
	ScaleGravityByDt bool          `yaml:"scale_gravity_by_dt" toml:"scale_gravity_by_dt"`
	Bodies           []BodyConfig  `yaml:"bodies,omitempty" toml:"bodies,omitempty"`
	Random           RandomConfig  `yaml:"random" toml:"random"`
	Logging          LoggingConfig `yaml:"logging" toml:"logging"`
}

// BodyConfig is one explicitly placed sphere. Omitted mass, radius and
// bounciness take the values of body.DefaultSpec.
type BodyConfig struct {
	Position   mgl32.Vec3 `yaml:"position" toml:"position"`
	Velocity   mgl32.Vec3 `yaml:"velocity" toml:"velocity"`
	Mass       *float32   `yaml:"mass,omitempty" toml:"mass,omitempty"`
	Radius     *float32   `yaml:"radius,omitempty" toml:"radius,omitempty"`
	Bounciness *float32   `yaml:"bounciness,omitempty" toml:"bounciness,omitempty"`
}

// RandomConfig scatters Count spheres uniformly in a cube of half-width
// Spread around the origin.
type RandomConfig struct {
	Count      int     `yaml:"count" toml:"count"`
	Spread     float32 `yaml:"spread" toml:"spread"`
	MaxSpeed   float32 `yaml:"max_speed" toml:"max_speed"`
	MinMass    float32 `yaml:"min_mass" toml:"min_mass"`
	MaxMass    float32 `yaml:"max_mass" toml:"max_mass"`
	MinRadius  float32 `yaml:"min_radius" toml:"min_radius"`
	MaxRadius  float32 `yaml:"max_radius" toml:"max_radius"`
	Bounciness float32 `yaml:"bounciness" toml:"bounciness"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Name:            "default",
		Dt:              DefaultDt,
		Duration:        DefaultDuration,
		Seed:            DefaultSeed,
		StartRunning:    true,
		GravityConstant: 1,
		Softening:       physics.DefaultSoftening,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultRandom is a loose swarm of count spheres used when only a body
// count is given.
func DefaultRandom(count int) RandomConfig {
	return RandomConfig{
		Count:      count,
		Spread:     20,
		MaxSpeed:   0.5,
		MinMass:    1,
		MaxMass:    5,
		MinRadius:  0.5,
		MaxRadius:  1.5,
		Bounciness: 0.8,
	}
}

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads a YAML or TOML scenario, picking the decoder by extension.
// Keys absent from the file keep the values of DefaultScenario.
func Load(path string) (*Scenario, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	s := DefaultScenario()
	switch f {
	case formatTOML:
		err = toml.Unmarshal(data, s)
	default:
		err = yaml.Unmarshal(data, s)
	}
	if err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return s, nil
}

func Save(path string, s *Scenario) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatTOML:
		var buf strings.Builder
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return fmt.Errorf("encode scenario: %w", err)
		}
		data = []byte(buf.String())
	default:
		data, err = yaml.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode scenario: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scenario %s: %w", path, err)
	}
	return nil
}

func (s *Scenario) Validate() error {
	if s.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidScenario, s.Dt)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidScenario, s.Duration)
	}
	if s.Softening < 0 {
		return fmt.Errorf("%w: softening must not be negative", ErrInvalidScenario)
	}

	for i, b := range s.Bodies {
		if err := b.spec().Build().Validate(); err != nil {
			return fmt.Errorf("%w: body %d: %w", ErrInvalidScenario, i, err)
		}
	}

	r := s.Random
	switch {
	case r.Count < 0:
		return fmt.Errorf("%w: random count must not be negative", ErrInvalidScenario)
	case r.Count == 0:
		return nil
	case r.MinMass < 0 || r.MaxMass < r.MinMass:
		return fmt.Errorf("%w: random mass range [%g, %g]", ErrInvalidScenario, r.MinMass, r.MaxMass)
	case r.MinRadius < 0 || r.MaxRadius < r.MinRadius:
		return fmt.Errorf("%w: random radius range [%g, %g]", ErrInvalidScenario, r.MinRadius, r.MaxRadius)
	case r.Spread < 0 || r.MaxSpeed < 0:
		return fmt.Errorf("%w: random spread and speed must not be negative", ErrInvalidScenario)
	}
	return nil
}

func (s *Scenario) Params() physics.Params {
	return physics.Params{
		GravityConstant:  s.GravityConstant,
		Softening:        s.Softening,
		ScaleGravityByDt: s.ScaleGravityByDt,
	}
}

// BodyCount is the number of spheres Specs will return.
func (s *Scenario) BodyCount() int {
	return len(s.Bodies) + s.Random.Count
}

// Specs returns the explicit bodies followed by the random ones. The random
// part depends only on Seed.
func (s *Scenario) Specs() []body.Spec {
	specs := make([]body.Spec, 0, s.BodyCount())
	for _, b := range s.Bodies {
		specs = append(specs, b.spec())
	}

	r := s.Random
	rng := rand.New(rand.NewSource(s.Seed))
	for i := 0; i < r.Count; i++ {
		specs = append(specs, body.Spec{
			Location:   randomVec(rng, r.Spread),
			Velocity:   randomVec(rng, r.MaxSpeed),
			Mass:       lerp(r.MinMass, r.MaxMass, rng.Float32()),
			Radius:     lerp(r.MinRadius, r.MaxRadius, rng.Float32()),
			Bounciness: r.Bounciness,
		})
	}
	return specs
}

func (b BodyConfig) spec() body.Spec {
	sp := body.DefaultSpec()
	sp.Location = b.Position
	sp.Velocity = b.Velocity
	if b.Mass != nil {
		sp.Mass = *b.Mass
	}
	if b.Radius != nil {
		sp.Radius = *b.Radius
	}
	if b.Bounciness != nil {
		sp.Bounciness = *b.Bounciness
	}
	return sp
}

// Clone returns a deep copy.
func (s *Scenario) Clone() *Scenario {
	c := *s
	c.Bodies = make([]BodyConfig, len(s.Bodies))
	for i, b := range s.Bodies {
		c.Bodies[i] = BodyConfig{
			Position:   b.Position,
			Velocity:   b.Velocity,
			Mass:       clonePtr(b.Mass),
			Radius:     clonePtr(b.Radius),
			Bounciness: clonePtr(b.Bounciness),
		}
	}
	return &c
}

func clonePtr(p *float32) *float32 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func randomVec(rng *rand.Rand, halfWidth float32) mgl32.Vec3 {
	return mgl32.Vec3{
		(rng.Float32()*2 - 1) * halfWidth,
		(rng.Float32()*2 - 1) * halfWidth,
		(rng.Float32()*2 - 1) * halfWidth,
	}
}

func lerp(lo, hi, t float32) float32 {
	return lo + (hi-lo)*t
}
