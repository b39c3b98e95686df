// Package lighting provides the directional lights of the renderer.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Light is a directional light. Direction points from the scene towards the light.
type Light struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
}

// NewSun returns the default sun: high in the sky, slightly tilted, white.
func NewSun() *Light {
	return &Light{
		Direction: SunDirection(30, 60),
		Color:     mgl32.Vec3{1, 1, 1},
	}
}

// Normalized returns the unit direction, or straight up for a zero vector.
func (l *Light) Normalized() mgl32.Vec3 {
	if l.Direction.Len() < 1e-6 {
		return mgl32.Vec3{0, 1, 0}
	}
	return l.Direction.Normalize()
}

// SunDirection converts longitude/latitude angles in degrees to a unit vector.
// Longitude is rotation around the Y axis, latitude is elevation from the horizon.
// The result points towards the sun.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lonRad := float64(mgl32.DegToRad(longitude))
	latRad := float64(mgl32.DegToRad(latitude))

	return mgl32.Vec3{
		float32(math.Cos(latRad) * math.Sin(lonRad)),
		float32(math.Sin(latRad)),
		float32(math.Cos(latRad) * math.Cos(lonRad)),
	}
}

// Angles is the inverse of SunDirection for a unit vector.
func Angles(dir mgl32.Vec3) (longitude, latitude float32) {
	d := dir.Normalize()
	lat := math.Asin(float64(mgl32.Clamp(d[1], -1, 1)))
	lon := math.Atan2(float64(d[0]), float64(d[2]))
	return mgl32.RadToDeg(float32(lon)), mgl32.RadToDeg(float32(lat))
}
