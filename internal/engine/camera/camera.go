// Package camera provides the free-flying camera of the viewer.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch keeps the view direction away from the up vector.
const MaxPitch = 89

// FlyCamera looks from Position along the direction given by Yaw and Pitch
// in degrees. Yaw 0 looks down +X, yaw -90 down -Z; positive pitch looks up.
type FlyCamera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	FovY   float32 // degrees
	Aspect float32
	Near   float32
	Far    float32
}

// NewFlyCamera creates a camera with a 45 degree vertical field of view.
func NewFlyCamera(position mgl32.Vec3, yaw, pitch float32) *FlyCamera {
	return &FlyCamera{
		Position: position,
		Yaw:      yaw,
		Pitch:    pitch,
		FovY:     45,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      1000,
	}
}

// ClampPitch limits a pitch angle to ±MaxPitch degrees.
func ClampPitch(p float32) float32 {
	return mgl32.Clamp(p, -MaxPitch, MaxPitch)
}

// Front returns the unit view direction.
func (c *FlyCamera) Front() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(ClampPitch(c.Pitch)))
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// Right returns the unit direction to the right of the view, parallel to the ground.
func (c *FlyCamera) Right() mgl32.Vec3 {
	return c.Front().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// Eye returns the camera position.
func (c *FlyCamera) Eye() mgl32.Vec3 { return c.Position }

// View returns the world-to-camera matrix.
func (c *FlyCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix.
func (c *FlyCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// SetAspect updates the aspect ratio from a viewport size. Zero sizes are ignored.
func (c *FlyCamera) SetAspect(width, height int32) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// MoveForward moves along the view direction.
func (c *FlyCamera) MoveForward(dist float32) {
	c.Position = c.Position.Add(c.Front().Mul(dist))
}

// MoveRight strafes.
func (c *FlyCamera) MoveRight(dist float32) {
	c.Position = c.Position.Add(c.Right().Mul(dist))
}

// MoveUp moves along world up.
func (c *FlyCamera) MoveUp(dist float32) {
	c.Position[1] += dist
}

// RotateRight turns the view to the right by deg degrees.
func (c *FlyCamera) RotateRight(deg float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+deg), 360))
}

// RotateUp tilts the view up by deg degrees.
func (c *FlyCamera) RotateUp(deg float32) {
	c.Pitch = ClampPitch(c.Pitch + deg)
}
