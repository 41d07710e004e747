package config

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

func f32(v float32) *float32 { return &v }

var Presets = map[string]*Scenario{
	// A light moon on a circular orbit around a heavy planet.
	"orbit": {
		Name: "orbit", Dt: DefaultDt, Duration: 30, Seed: DefaultSeed, StartRunning: true,
		GravityConstant: 1, Softening: 1, ScaleGravityByDt: true,
		Bodies: []BodyConfig{
			{Mass: f32(1000), Radius: f32(2), Bounciness: f32(0.5)},
			{Position: mgl32.Vec3{20, 0, 0}, Velocity: mgl32.Vec3{0, 7.0710678, 0}, Mass: f32(1), Radius: f32(0.5)},
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	},
	"headon": {
		Name: "headon", Dt: DefaultDt, Duration: 10, Seed: DefaultSeed, StartRunning: true,
		GravityConstant: 0, Softening: 1,
		Bodies: []BodyConfig{
			{Position: mgl32.Vec3{-5, 0, 0}, Velocity: mgl32.Vec3{2, 0, 0}},
			{Position: mgl32.Vec3{5, 0, 0}, Velocity: mgl32.Vec3{-2, 0, 0}},
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	},
	// Two equal stars circling their common center of mass.
	"binary": {
		Name: "binary", Dt: DefaultDt, Duration: 40, Seed: DefaultSeed, StartRunning: true,
		GravityConstant: 1, Softening: 1, ScaleGravityByDt: true,
		Bodies: []BodyConfig{
			{Position: mgl32.Vec3{-10, 0, 0}, Velocity: mgl32.Vec3{0, -1.5811388, 0}, Mass: f32(100), Radius: f32(1.5)},
			{Position: mgl32.Vec3{10, 0, 0}, Velocity: mgl32.Vec3{0, 1.5811388, 0}, Mass: f32(100), Radius: f32(1.5)},
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	},
	"cluster": {
		Name: "cluster", Dt: DefaultDt, Duration: 20, Seed: 42, StartRunning: true,
		GravityConstant: 0.5, Softening: 1,
		Random: RandomConfig{
			Count: 24, Spread: 20, MaxSpeed: 0.5,
			MinMass: 1, MaxMass: 5, MinRadius: 0.5, MaxRadius: 1.5, Bounciness: 0.8,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	},
	// Spheres dropping onto a heavy ground sphere.
	"rain": {
		Name: "rain", Dt: DefaultDt, Duration: 15, Seed: 7, StartRunning: true,
		GravityConstant: 1, Softening: 1, ScaleGravityByDt: true,
		Bodies: []BodyConfig{
			{Position: mgl32.Vec3{0, -30, 0}, Mass: f32(10000), Radius: f32(15), Bounciness: f32(0.9)},
		},
		Random: RandomConfig{
			Count: 16, Spread: 10, MaxSpeed: 0,
			MinMass: 0.5, MaxMass: 2, MinRadius: 0.4, MaxRadius: 1, Bounciness: 0.6,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Scenario {
	s, ok := Presets[name]
	if !ok {
		return nil
	}
	return s.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
