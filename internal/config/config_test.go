package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spheresim/internal/body"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScenario(t *testing.T) {
	s := DefaultScenario()

	require.NoError(t, s.Validate())
	assert.Equal(t, "default", s.Name)
	assert.Greater(t, s.Dt, 0.0)
	assert.Greater(t, s.Duration, 0.0)
	assert.True(t, s.StartRunning)
	assert.Equal(t, "console", s.Logging.Format)
	assert.Equal(t, 0, s.BodyCount())
}

func TestLoadYAMLAppliesBodyDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := `
name: pair
dt: 0.5
gravity_constant: 0
bodies:
  - position: [10, 0, 0]
    velocity: [-1, 0, 0]
  - position: [0, 0, 0]
    mass: 3
    radius: 0.25
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pair", s.Name)
	assert.Equal(t, 0.5, s.Dt)
	assert.Equal(t, DefaultDuration, s.Duration, "unset keys keep defaults")
	assert.Equal(t, float32(0), s.GravityConstant)

	specs := s.Specs()
	require.Len(t, specs, 2)

	def := body.DefaultSpec()
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, specs[0].Location)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, specs[0].Velocity)
	assert.Equal(t, def.Mass, specs[0].Mass)
	assert.Equal(t, def.Radius, specs[0].Radius)
	assert.Equal(t, def.Bounciness, specs[0].Bounciness)

	assert.Equal(t, float32(3), specs[1].Mass)
	assert.Equal(t, float32(0.25), specs[1].Radius)
	assert.Equal(t, def.Bounciness, specs[1].Bounciness)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	data := `
name = "toml-scene"
duration = 2.0
start_running = false

[[bodies]]
position = [1.0, 2.0, 3.0]
velocity = [0.0, 0.0, 0.0]
bounciness = 0.5

[logging]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "toml-scene", s.Name)
	assert.Equal(t, 2.0, s.Duration)
	assert.False(t, s.StartRunning)
	assert.Equal(t, "json", s.Logging.Format)
	require.Len(t, s.Bodies, 1)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, s.Bodies[0].Position)
	assert.Equal(t, float32(0.5), s.Specs()[0].Bounciness)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".yml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scene"+ext)

			orig := GetPreset("headon")
			require.NotNil(t, orig)
			orig.Bodies[0].Mass = f32(3)
			orig.Random = RandomConfig{Count: 2, Spread: 4, MinMass: 1, MaxMass: 2, MinRadius: 0.5, MaxRadius: 1, Bounciness: 0.25}

			require.NoError(t, Save(path, orig))
			loaded, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, orig.Name, loaded.Name)
			assert.Equal(t, orig.GravityConstant, loaded.GravityConstant)
			assert.Equal(t, orig.Random, loaded.Random)
			assert.Equal(t, orig.Specs(), loaded.Specs())
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "scene.json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("dt: [not a number"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("dt: -1\n"), 0644))
	_, err = Load(invalid)
	assert.ErrorIs(t, err, ErrInvalidScenario)

	assert.ErrorIs(t, Save(filepath.Join(dir, "scene.txt"), DefaultScenario()), ErrUnknownFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Scenario)
	}{
		{"zero dt", func(s *Scenario) { s.Dt = 0 }},
		{"negative duration", func(s *Scenario) { s.Duration = -1 }},
		{"negative softening", func(s *Scenario) { s.Softening = -0.5 }},
		{"negative body mass", func(s *Scenario) {
			s.Bodies = []BodyConfig{{Mass: f32(-1)}}
		}},
		{"negative random count", func(s *Scenario) { s.Random.Count = -1 }},
		{"inverted mass range", func(s *Scenario) {
			s.Random = RandomConfig{Count: 1, MinMass: 2, MaxMass: 1, MaxRadius: 1}
		}},
		{"inverted radius range", func(s *Scenario) {
			s.Random = RandomConfig{Count: 1, MaxMass: 1, MinRadius: 2, MaxRadius: 1}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScenario()
			tt.modify(s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidScenario)
		})
	}
}

func TestSpecsDeterministic(t *testing.T) {
	a := GetPreset("cluster")
	b := GetPreset("cluster")

	assert.Equal(t, a.Specs(), b.Specs())

	b.Seed++
	assert.NotEqual(t, a.Specs(), b.Specs())

	r := a.Random
	for _, sp := range a.Specs() {
		assert.GreaterOrEqual(t, sp.Mass, r.MinMass)
		assert.LessOrEqual(t, sp.Mass, r.MaxMass)
		assert.GreaterOrEqual(t, sp.Radius, r.MinRadius)
		assert.LessOrEqual(t, sp.Radius, r.MaxRadius)
		for i := 0; i < 3; i++ {
			assert.LessOrEqual(t, sp.Location[i], r.Spread)
			assert.GreaterOrEqual(t, sp.Location[i], -r.Spread)
		}
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	assert.Equal(t, []string{"binary", "cluster", "headon", "orbit", "rain"}, names)

	for _, name := range names {
		s := GetPreset(name)
		require.NotNil(t, s, name)
		assert.NoError(t, s.Validate(), name)
		assert.Equal(t, name, s.Name)
		assert.Len(t, s.Specs(), s.BodyCount(), name)
	}

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestGetPresetReturnsCopy(t *testing.T) {
	s := GetPreset("orbit")
	*s.Bodies[0].Mass = 1
	s.Name = "changed"

	fresh := GetPreset("orbit")
	assert.Equal(t, "orbit", fresh.Name)
	assert.Equal(t, float32(1000), *fresh.Bodies[0].Mass)
}

func TestDefaultRandom(t *testing.T) {
	s := DefaultScenario()
	s.Random = DefaultRandom(10)

	require.NoError(t, s.Validate())
	assert.Len(t, s.Specs(), 10)
}
