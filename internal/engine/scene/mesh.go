// Package scene is the in-memory model of loaded meshes: flat lists of
// primitives, each with vertices, triangle indices, a transform and a material.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// AssetLoadError reports a missing or malformed source asset.
type AssetLoadError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("loading asset %s: %v", e.Path, e.Err)
}

// Unwrap returns the loader error.
func (e *AssetLoadError) Unwrap() error { return e.Err }

// ErrNoPrimitives is returned for assets without drawable geometry.
var ErrNoPrimitives = errors.New("asset has no primitives")

// LoadedPrimitive is one primitive as produced by a Loader, before its
// material images are decoded and its transform placed in the world.
type LoadedPrimitive struct {
	Name        string
	Vertices    []Vertex
	Indices     []uint32
	Translation mgl32.Vec3
	Scaling     mgl32.Vec3

	Albedo     *ImageRef
	Metaghness *ImageRef
	Normal     *ImageRef
	Occlusion  *ImageRef
	Emission   mgl32.Vec3
}

// LoadedMesh is the parsed content of one source asset.
type LoadedMesh struct {
	Primitives []LoadedPrimitive
}

// Loader parses a mesh asset. Implementations own all file format details.
type Loader interface {
	Load(path string) (*LoadedMesh, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(path string) (*LoadedMesh, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (*LoadedMesh, error) { return f(path) }

// Primitive is an indivisible drawable: triangles plus one material.
type Primitive struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	Transform Transform
	Material  Material
}

// Bounds returns the world-space bounds of the primitive.
func (p *Primitive) Bounds() Bounds {
	b := EmptyBounds()
	for _, v := range p.Vertices {
		b = b.Extend(p.Transform.Apply(v.Position))
	}
	return b
}

// Mesh is every primitive loaded from one source asset.
type Mesh struct {
	Source      string
	Translation mgl32.Vec3
	Scaling     mgl32.Vec3
	Primitives  []*Primitive
}

// Bounds returns the world-space bounds of all primitives.
func (m *Mesh) Bounds() Bounds {
	b := EmptyBounds()
	for _, p := range m.Primitives {
		b = b.Union(p.Bounds())
	}
	return b
}

// IndexCount returns the total number of indices over all primitives.
func (m *Mesh) IndexCount() int {
	n := 0
	for _, p := range m.Primitives {
		n += len(p.Indices)
	}
	return n
}

// NewMesh loads path through loader and places it in the world with the given
// translation and scaling, which compose with each primitive's own transform.
// Material images are decoded through resources. Any failure is an
// *AssetLoadError and no mesh is returned.
func NewMesh(loader Loader, path string, translation, scaling mgl32.Vec3, resources *Resources) (*Mesh, error) {
	loaded, err := loader.Load(path)
	if err != nil {
		return nil, &AssetLoadError{Path: path, Err: err}
	}
	if loaded == nil || len(loaded.Primitives) == 0 {
		return nil, &AssetLoadError{Path: path, Err: ErrNoPrimitives}
	}

	placement := Transform{Translation: translation, Scaling: scaling}
	mesh := &Mesh{
		Source:      path,
		Translation: translation,
		Scaling:     scaling,
		Primitives:  make([]*Primitive, 0, len(loaded.Primitives)),
	}

	for i := range loaded.Primitives {
		lp := &loaded.Primitives[i]
		if err := validateTriangles(lp.Vertices, lp.Indices); err != nil {
			return nil, &AssetLoadError{Path: path, Err: fmt.Errorf("primitive %d: %w", i, err)}
		}

		mat, err := resolveMaterial(lp, resources)
		if err != nil {
			return nil, &AssetLoadError{Path: path, Err: fmt.Errorf("primitive %d: %w", i, err)}
		}

		scale := lp.Scaling
		if scale == (mgl32.Vec3{}) {
			scale = mgl32.Vec3{1, 1, 1}
		}
		local := Transform{Translation: lp.Translation, Scaling: scale}

		mesh.Primitives = append(mesh.Primitives, &Primitive{
			Name:      lp.Name,
			Vertices:  lp.Vertices,
			Indices:   lp.Indices,
			Transform: local.Compose(placement),
			Material:  mat,
		})
	}

	return mesh, nil
}

func validateTriangles(vertices []Vertex, indices []uint32) error {
	if len(vertices) == 0 {
		return fmt.Errorf("no vertices")
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return fmt.Errorf("%d indices do not form triangles", len(indices))
	}
	for _, idx := range indices {
		if int(idx) >= len(vertices) {
			return fmt.Errorf("index %d out of range (%d vertices)", idx, len(vertices))
		}
	}
	return nil
}

func resolveMaterial(lp *LoadedPrimitive, resources *Resources) (Material, error) {
	mat := Material{Emission: lp.Emission}
	slots := []struct {
		ref *ImageRef
		dst **Image
	}{
		{lp.Albedo, &mat.Albedo},
		{lp.Metaghness, &mat.Metaghness},
		{lp.Normal, &mat.Normal},
		{lp.Occlusion, &mat.Occlusion},
	}
	for _, s := range slots {
		if s.ref == nil {
			continue
		}
		img, err := resources.Image(*s.ref)
		if err != nil {
			return Material{}, err
		}
		*s.dst = img
	}
	return mat, nil
}
