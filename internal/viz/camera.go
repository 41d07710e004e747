package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultMoveStep = 2.0
	DefaultLookStep = 0.05

	maxPitch = math.Pi / 2
	twoPi    = 2 * math.Pi
)

// Camera is a free-flying perspective camera. Yaw 0 and pitch 0 look down
// the negative Z axis; positive yaw turns right, positive pitch looks up.
type Camera struct {
	Position   mgl32.Vec3
	Yaw, Pitch float32
	FOV        float32 // vertical, radians
	Near, Far  float32
}

func NewCamera() *Camera {
	return &Camera{
		Position: mgl32.Vec3{0, 0, 50},
		FOV:      mgl32.DegToRad(60),
		Near:     0.1,
		Far:      1000,
	}
}

func (c *Camera) Forward() mgl32.Vec3 {
	yaw, pitch := float64(c.Yaw), float64(c.Pitch)
	return mgl32.Vec3{
		float32(math.Cos(pitch) * math.Sin(yaw)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(pitch) * math.Cos(yaw)),
	}
}

// Right is horizontal, so strafing never changes height.
func (c *Camera) Right() mgl32.Vec3 {
	yaw := float64(c.Yaw)
	return mgl32.Vec3{float32(math.Cos(yaw)), 0, float32(math.Sin(yaw))}
}

// Move translates the camera along its forward and right axes and the
// world up axis.
func (c *Camera) Move(forward, right, up float32) {
	c.Position = c.Position.
		Add(c.Forward().Mul(forward)).
		Add(c.Right().Mul(right)).
		Add(mgl32.Vec3{0, up, 0})
}

// Look turns the camera. Yaw wraps to [0, 2π); pitch is clamped to ±π/2.
func (c *Camera) Look(dYaw, dPitch float32) {
	yaw := math.Mod(float64(c.Yaw+dYaw), twoPi)
	if yaw < 0 {
		yaw += twoPi
	}
	c.Yaw = float32(yaw)
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// View is the world-to-camera transform.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(-c.Pitch).
		Mul4(mgl32.HomogRotate3DY(c.Yaw)).
		Mul4(mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z()))
}

// Project maps a world point onto a w x h dot grid. ok is false for points
// behind the near plane; on-screen bounds are left to the canvas.
func (c *Camera) Project(p mgl32.Vec3, w, h int) (x, y int, depth float32, ok bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, 0, false
	}
	proj := mgl32.Perspective(c.FOV, float32(w)/float32(h), c.Near, c.Far)
	clip := proj.Mul4(c.View()).Mul4x1(p.Vec4(1))
	if clip.W() < c.Near {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x = int((ndc.X() + 1) / 2 * float32(w))
	y = int((1 - ndc.Y()) / 2 * float32(h))
	return x, y, clip.W(), true
}

// ProjectRadius is the on-screen radius in dots of a sphere of radius r
// seen at the given depth.
func (c *Camera) ProjectRadius(r, depth float32, h int) int {
	if depth <= 0 {
		return 0
	}
	focal := float32(h) / 2 / float32(math.Tan(float64(c.FOV)/2))
	return int(r * focal / depth)
}
