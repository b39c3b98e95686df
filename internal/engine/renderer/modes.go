package renderer

import (
	"fmt"
	"strings"
)

// RenderingMode selects what the main pass shows and what the voxels store.
type RenderingMode int32

const (
	// ModeScene is full shading with cone-traced indirect light.
	ModeScene RenderingMode = iota
	ModeAlbedo
	ModeNormal
	ModeEmission
	ModeRadiance
)

// RenderingModes lists every rendering mode in order.
var RenderingModes = []RenderingMode{ModeScene, ModeAlbedo, ModeNormal, ModeEmission, ModeRadiance}

var renderingModeNames = [...]string{"scene", "albedo", "normal", "emission", "radiance"}

// String returns the lower-case mode name accepted by ParseRenderingMode.
func (m RenderingMode) String() string {
	if m >= 0 && int(m) < len(renderingModeNames) {
		return renderingModeNames[m]
	}
	return fmt.Sprintf("RenderingMode(%d)", int32(m))
}

// ParseRenderingMode parses a mode name, case-insensitively.
func ParseRenderingMode(s string) (RenderingMode, error) {
	for i, name := range renderingModeNames {
		if strings.EqualFold(s, name) {
			return RenderingMode(i), nil
		}
	}
	return ModeScene, fmt.Errorf("unknown rendering mode %q", s)
}

// VoxelizationMode selects how triangles are rasterized into the voxel grid.
type VoxelizationMode int32

const (
	// VoxelizeFragmentOnly rasterizes every triangle along one fixed axis.
	VoxelizeFragmentOnly VoxelizationMode = iota
	// VoxelizeHybrid projects each triangle along its dominant axis in a geometry shader.
	VoxelizeHybrid
)

var voxelizationModeNames = [...]string{"fragment", "hybrid"}

// String returns the lower-case mode name accepted by ParseVoxelizationMode.
func (m VoxelizationMode) String() string {
	if m >= 0 && int(m) < len(voxelizationModeNames) {
		return voxelizationModeNames[m]
	}
	return fmt.Sprintf("VoxelizationMode(%d)", int32(m))
}

// ParseVoxelizationMode parses a mode name, case-insensitively.
func ParseVoxelizationMode(s string) (VoxelizationMode, error) {
	for i, name := range voxelizationModeNames {
		if strings.EqualFold(s, name) {
			return VoxelizationMode(i), nil
		}
	}
	return VoxelizeFragmentOnly, fmt.Errorf("unknown voxelization mode %q", s)
}

// FrameParams are the per-frame inputs chosen by the application.
type FrameParams struct {
	Time         float32
	Rendering    RenderingMode
	Voxelization VoxelizationMode
}
