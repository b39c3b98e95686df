package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxel-gi/internal/engine/gpu"
	"github.com/Faultbox/voxel-gi/internal/engine/scene"
)

// Attribute locations shared by every program.
const (
	attribPosition = 0
	attribNormal   = 1
	attribUV       = 2
	attribTangent  = 3
)

// vertexLayout is the interleaved layout of scene.Vertex.
var vertexLayout = gpu.VertexLayout{
	Stride: scene.VertexFloats,
	Attribs: []gpu.VertexAttrib{
		{Location: attribPosition, Size: 3, Offset: 0},
		{Location: attribNormal, Size: 3, Offset: 3},
		{Location: attribUV, Size: 2, Offset: 6},
		{Location: attribTangent, Size: 4, Offset: 8},
	},
}

// Material texture units, in sampler order albedo, metaghness, normal, occlusion.
const (
	unitAlbedo = iota
	unitMetaghness
	unitNormal
	unitOcclusion
	unitVoxels
)

// MeshID identifies a submitted mesh. IDs are dense indices in submission order.
type MeshID int

// GpuMesh is the device-resident form of one submitted scene.Mesh.
type GpuMesh struct {
	id         MeshID
	source     string
	bounds     scene.Bounds // world space at submission
	primitives []*GpuPrimitive
}

// ID returns the mesh identifier.
func (m *GpuMesh) ID() MeshID { return m.id }

// Source returns the asset path the mesh was loaded from.
func (m *GpuMesh) Source() string { return m.source }

// Primitives returns the primitives in source order.
func (m *GpuMesh) Primitives() []*GpuPrimitive { return m.primitives }

func (m *GpuMesh) destroy() {
	for _, p := range m.primitives {
		p.geometry.Destroy()
	}
}

// GpuPrimitive owns one vertex/index buffer pair and references four shared
// material textures. Its transform and emission may be changed between frames.
type GpuPrimitive struct {
	name      string
	geometry  *gpu.Geometry
	textures  [4]*gpu.Texture
	transform scene.Transform
	emission  mgl32.Vec3
}

// Name returns the primitive name, "<source>#<index>".
func (p *GpuPrimitive) Name() string { return p.name }

// IndexCount returns the number of indices drawn.
func (p *GpuPrimitive) IndexCount() int32 { return p.geometry.IndexCount() }

// Textures returns the material textures by slot. Unset slots are nil.
func (p *GpuPrimitive) Textures() [4]*gpu.Texture { return p.textures }

// Translation returns the world translation.
func (p *GpuPrimitive) Translation() mgl32.Vec3 { return p.transform.Translation }

// Scaling returns the world scale.
func (p *GpuPrimitive) Scaling() mgl32.Vec3 { return p.transform.Scaling }

// Emission returns the emissive color.
func (p *GpuPrimitive) Emission() mgl32.Vec3 { return p.emission }

// SetTranslation moves the primitive. It applies from the next frame.
func (p *GpuPrimitive) SetTranslation(t mgl32.Vec3) { p.transform.Translation = t }

// SetScaling rescales the primitive. It applies from the next frame.
func (p *GpuPrimitive) SetScaling(s mgl32.Vec3) { p.transform.Scaling = s }

// SetEmission sets the emissive color.
func (p *GpuPrimitive) SetEmission(e mgl32.Vec3) { p.emission = e }

// Model returns the model matrix.
func (p *GpuPrimitive) Model() mgl32.Mat4 { return p.transform.Matrix() }

// draw binds the geometry and material, then issues the indexed draw.
// The samplers are set on the currently bound program.
func (p *GpuPrimitive) draw(samplers [4]gpu.Uniform) {
	p.geometry.Bind()
	for unit, s := range samplers {
		s.SetSampler(p.textures[unit], uint32(unit))
	}
	p.geometry.Draw()
}

// uploadPrimitive creates the GPU buffers for sp and resolves its material.
func (r *Renderer) uploadPrimitive(sp *scene.Primitive, name string) (*GpuPrimitive, error) {
	vertices := make([]float32, 0, len(sp.Vertices)*scene.VertexFloats)
	for _, v := range sp.Vertices {
		vertices = v.AppendFloats(vertices)
	}

	gp := &GpuPrimitive{
		name:      name,
		transform: sp.Transform,
		emission:  sp.Material.Emission,
	}
	for unit, img := range sp.Material.Images() {
		tex, err := r.textures.Acquire(img)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		gp.textures[unit] = tex
	}

	geo, err := gpu.NewGeometry(r.dev, name, vertices, vertexLayout, sp.Indices)
	if err != nil {
		return nil, err
	}
	gp.geometry = geo
	return gp, nil
}
