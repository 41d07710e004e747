package physics

// DefaultSoftening is the floor applied to squared separation in the gravity
// pass. Coincident bodies get a finite pull instead of an infinite one.
const DefaultSoftening float32 = 1.0

// Params is the process-wide simulation configuration. The host owns it and
// passes it to the engine; the gravity constant may change between ticks.
type Params struct {
	GravityConstant  float32
	Softening        float32
	ScaleGravityByDt bool
}

func DefaultParams() Params {
	return Params{
		GravityConstant: 1.0,
		Softening:       DefaultSoftening,
	}
}
