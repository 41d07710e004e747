package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spheresim/internal/body"
)

func TestConfigSteps(t *testing.T) {
	tests := []struct {
		dt, duration float64
		want         int
	}{
		{0.1, 1.0, 10},
		{1.0 / 60, 1.0, 60},
		{0.3, 1.0, 3},
		{0, 1.0, 0},
	}

	for _, tt := range tests {
		got := Config{Dt: tt.dt, Duration: tt.duration}.Steps()
		if got != tt.want {
			t.Errorf("Steps(dt=%v, duration=%v) = %d, want %d", tt.dt, tt.duration, got, tt.want)
		}
	}
}

func TestFrameValidity(t *testing.T) {
	f := Frame{{Mass: 1}, {Position: mgl32.Vec3{1, 2, 3}}}
	if !f.IsValid() {
		t.Error("finite frame reported invalid")
	}

	f[1].Velocity[2] = float32(math.Inf(1))
	if f.IsValid() {
		t.Error("frame with Inf reported valid")
	}
}

func TestFrameClone(t *testing.T) {
	f := Frame{{Mass: 1}}
	c := f.Clone()
	c[0].Mass = 2
	if f[0].Mass != 1 {
		t.Error("clone shares storage with original")
	}
}

func TestFramePool(t *testing.T) {
	pool := NewFramePool()
	src := []body.Body{{Mass: 1}, {Mass: 2}}

	f := pool.GetAndCopy(src)
	if len(*f) != 2 || (*f)[1].Mass != 2 {
		t.Fatalf("unexpected pooled frame %v", *f)
	}
	src[1].Mass = 5
	if (*f)[1].Mass != 2 {
		t.Error("pooled frame aliases source")
	}
	pool.Put(f)
}

func TestResultFinal(t *testing.T) {
	var r Result
	if r.Final() != nil {
		t.Error("expected nil final frame for empty result")
	}
}
