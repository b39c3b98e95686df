package scene

import "github.com/go-gl/mathgl/mgl32"

// cubeFaces lists each face's normal and tangent.
var cubeFaces = [6]struct {
	normal  mgl32.Vec3
	tangent mgl32.Vec3
}{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}},
}

// Cube returns a unit cube centred at the origin (extent [-0.5, 0.5]) with
// 24 vertices and 36 indices, counter-clockwise seen from outside.
func Cube() *Primitive {
	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)

	for _, f := range cubeFaces {
		n, t := f.normal, f.tangent
		b := n.Cross(t)
		base := uint32(len(vertices))
		corners := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
		for _, uv := range corners {
			p := n.Mul(0.5).Add(t.Mul(uv[0] - 0.5)).Add(b.Mul(uv[1] - 0.5))
			vertices = append(vertices, Vertex{
				Position: p,
				Normal:   n,
				UV:       uv,
				Tangent:  t.Vec4(1),
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return &Primitive{
		Name:      "cube",
		Vertices:  vertices,
		Indices:   indices,
		Transform: Identity(),
	}
}

// CubeLoader returns a Loader that yields one cube primitive for any path.
func CubeLoader() Loader {
	return LoaderFunc(func(string) (*LoadedMesh, error) {
		c := Cube()
		return &LoadedMesh{Primitives: []LoadedPrimitive{{
			Name:     c.Name,
			Vertices: c.Vertices,
			Indices:  c.Indices,
			Scaling:  mgl32.Vec3{1, 1, 1},
		}}}, nil
	})
}
