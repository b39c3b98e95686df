// Package voxel describes the voxelized region of the world: the box that is
// voxelized, the box the voxels are viewed through and the grid resolution.
package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxResolution is the largest grid edge accepted by Valid.
const MaxResolution = 512

// Resolutions are the grid sizes offered to users.
var Resolutions = []int32{64, 128, 256}

// ResolutionIndex returns the position of res in Resolutions, or -1.
func ResolutionIndex(res int32) int {
	for i, r := range Resolutions {
		if r == res {
			return i
		}
	}
	return -1
}

// Volume is a cubic voxel grid stretched over a world-space box.
//
// Each box is given by the translation of its centre and its full extent
// (scaling) per axis, so Transform maps the unit cube [-0.5, 0.5]^3 onto it.
// Setters do not validate; callers check Valid before using the volume.
type Volume struct {
	translation     mgl32.Vec3
	scaling         mgl32.Vec3
	viewTranslation mgl32.Vec3
	viewScaling     mgl32.Vec3
	resolution      int32
}

// New returns a volume whose view box coincides with the voxelization box.
func New(translation, scaling mgl32.Vec3, resolution int32) *Volume {
	return &Volume{
		translation:     translation,
		scaling:         scaling,
		viewTranslation: translation,
		viewScaling:     scaling,
		resolution:      resolution,
	}
}

// Translation returns the world-space center of the voxelized region.
func (v *Volume) Translation() mgl32.Vec3 { return v.translation }

// Scaling returns the world-space extent of the voxelized region.
func (v *Volume) Scaling() mgl32.Vec3 { return v.scaling }

// ViewTranslation returns the center of the box the voxels are ray-marched in.
func (v *Volume) ViewTranslation() mgl32.Vec3 { return v.viewTranslation }

// ViewScaling returns the extent of the ray-march box.
func (v *Volume) ViewScaling() mgl32.Vec3 { return v.viewScaling }

// Resolution returns the requested grid size per axis.
func (v *Volume) Resolution() int32 { return v.resolution }

// SetTranslation moves the voxelized region.
func (v *Volume) SetTranslation(t mgl32.Vec3) { v.translation = t }

// SetScaling resizes the voxelized region.
func (v *Volume) SetScaling(s mgl32.Vec3) { v.scaling = s }

// SetViewTranslation moves the ray-march box.
func (v *Volume) SetViewTranslation(t mgl32.Vec3) { v.viewTranslation = t }

// SetViewScaling resizes the ray-march box.
func (v *Volume) SetViewScaling(s mgl32.Vec3) { v.viewScaling = s }

// SetResolution requests a grid size. Valid reports whether it can be used.
func (v *Volume) SetResolution(r int32) { v.resolution = r }

// Valid reports why the volume cannot be voxelized, or nil.
func (v *Volume) Valid() error {
	if v.resolution <= 0 || v.resolution > MaxResolution {
		return fmt.Errorf("resolution %d outside (0, %d]", v.resolution, MaxResolution)
	}
	for i := 0; i < 3; i++ {
		if !(v.scaling[i] > 0) {
			return fmt.Errorf("scaling %v has a non-positive component", v.scaling)
		}
		if !(v.viewScaling[i] > 0) {
			return fmt.Errorf("view scaling %v has a non-positive component", v.viewScaling)
		}
	}
	return nil
}

func boxMatrix(t, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

func boxInverse(t, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Scale3D(1/s[0], 1/s[1], 1/s[2]).Mul4(mgl32.Translate3D(-t[0], -t[1], -t[2]))
}

// Transform maps the unit cube onto the voxelization box.
func (v *Volume) Transform() mgl32.Mat4 { return boxMatrix(v.translation, v.scaling) }

// Inverse maps the voxelization box onto the unit cube.
func (v *Volume) Inverse() mgl32.Mat4 { return boxInverse(v.translation, v.scaling) }

// ViewTransform maps the unit cube onto the view box.
func (v *Volume) ViewTransform() mgl32.Mat4 { return boxMatrix(v.viewTranslation, v.viewScaling) }

// ViewInverse maps the view box onto the unit cube.
func (v *Volume) ViewInverse() mgl32.Mat4 { return boxInverse(v.viewTranslation, v.viewScaling) }

// Projection maps the voxelization box onto clip space [-1, 1]^3.
func (v *Volume) Projection() mgl32.Mat4 {
	return mgl32.Scale3D(2, 2, 2).Mul4(v.Inverse())
}

// WorldToUVW maps the voxelization box onto texture space [0, 1]^3.
func (v *Volume) WorldToUVW() mgl32.Mat4 {
	return mgl32.Translate3D(0.5, 0.5, 0.5).Mul4(v.Inverse())
}

// WorldToVoxel returns continuous grid coordinates of p; the box spans [0, res)^3.
func (v *Volume) WorldToVoxel(p mgl32.Vec3) mgl32.Vec3 {
	uvw := mgl32.TransformCoordinate(p, v.WorldToUVW())
	return uvw.Mul(float32(v.resolution))
}

// VoxelToWorld returns the world-space centre of voxel (i, j, k).
func (v *Volume) VoxelToWorld(i, j, k int32) mgl32.Vec3 {
	r := float32(v.resolution)
	unit := mgl32.Vec3{
		(float32(i)+0.5)/r - 0.5,
		(float32(j)+0.5)/r - 0.5,
		(float32(k)+0.5)/r - 0.5,
	}
	return mgl32.TransformCoordinate(unit, v.Transform())
}

// VoxelSize returns the world extent of one voxel per axis.
func (v *Volume) VoxelSize() mgl32.Vec3 {
	return v.scaling.Mul(1 / float32(v.resolution))
}

// Contains reports whether p lies inside the voxelization box.
func (v *Volume) Contains(p mgl32.Vec3) bool {
	u := mgl32.TransformCoordinate(p, v.Inverse())
	for i := 0; i < 3; i++ {
		if u[i] < -0.5 || u[i] > 0.5 {
			return false
		}
	}
	return true
}
