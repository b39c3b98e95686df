// Package shader provides the embedded GLSL programs of the pipeline.
package shader

import (
	_ "embed"
	"strings"

	"github.com/Faultbox/voxel-gi/internal/engine/gpu"
)

// PBRVertexShader transforms meshes for the main shading pass.
//
//go:embed pbr.vert
var PBRVertexShader string

// PBRFragmentShader shades with the material maps and cone-traces the voxel volume.
//
//go:embed pbr.frag
var PBRFragmentShader string

// VoxelizeVertexShader projects geometry into the voxelization box.
//
//go:embed voxelize.vert
var VoxelizeVertexShader string

// VoxelizeGeometryShader reprojects each triangle onto its dominant axis.
//
//go:embed voxelize.geom
var VoxelizeGeometryShader string

// VoxelizeFragmentShader writes voxels with imageStore.
//
//go:embed voxelize.frag
var VoxelizeFragmentShader string

// VoxelViewVertexShader draws the view box.
//
//go:embed voxel_view.vert
var VoxelViewVertexShader string

// VoxelViewFragmentShader ray-marches the voxel volume inside the view box.
//
//go:embed voxel_view.frag
var VoxelViewFragmentShader string

// Program names.
const (
	PBR              = "pbr"
	VoxelizeFragment = "voxelize-fragment"
	VoxelizeHybrid   = "voxelize-hybrid"
	VoxelView        = "voxel-view"
)

// Sources returns the stages of a named program.
func Sources(name string) (gpu.ShaderSources, bool) {
	switch name {
	case PBR:
		return gpu.ShaderSources{Name: name, Vertex: PBRVertexShader, Fragment: PBRFragmentShader}, true
	case VoxelizeFragment:
		return gpu.ShaderSources{Name: name, Vertex: VoxelizeVertexShader, Fragment: VoxelizeFragmentShader}, true
	case VoxelizeHybrid:
		return gpu.ShaderSources{
			Name:     name,
			Vertex:   define(VoxelizeVertexShader, "HYBRID"),
			Geometry: VoxelizeGeometryShader,
			Fragment: define(VoxelizeFragmentShader, "HYBRID"),
		}, true
	case VoxelView:
		return gpu.ShaderSources{Name: name, Vertex: VoxelViewVertexShader, Fragment: VoxelViewFragmentShader}, true
	}
	return gpu.ShaderSources{}, false
}

// define inserts "#define name" right after the #version line.
func define(src, name string) string {
	line := "#define " + name + "\n"
	if !strings.HasPrefix(src, "#version") {
		return line + src
	}
	i := strings.IndexByte(src, '\n')
	if i < 0 {
		return src + "\n" + line
	}
	return src[:i+1] + line + src[i+1:]
}
