package scene

import "github.com/go-gl/mathgl/mgl32"

// Vertex is one mesh vertex in the fixed attribute order the shaders expect:
// position (0), normal (1), uv (2), tangent (3). Tangent.W holds the
// bitangent sign.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Tangent  mgl32.Vec4
}

// VertexFloats is the number of float32 values per interleaved vertex.
const VertexFloats = 3 + 3 + 2 + 4

// AppendFloats appends v in interleaved attribute order.
func (v Vertex) AppendFloats(dst []float32) []float32 {
	return append(dst,
		v.Position[0], v.Position[1], v.Position[2],
		v.Normal[0], v.Normal[1], v.Normal[2],
		v.UV[0], v.UV[1],
		v.Tangent[0], v.Tangent[1], v.Tangent[2], v.Tangent[3],
	)
}

// Transform is a flat translation + non-uniform scale. Rotation is not modeled.
type Transform struct {
	Translation mgl32.Vec3
	Scaling     mgl32.Vec3
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{Scaling: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns T * S.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]).
		Mul4(mgl32.Scale3D(t.Scaling[0], t.Scaling[1], t.Scaling[2]))
}

// Compose returns the transform equivalent to applying t, then parent.
func (t Transform) Compose(parent Transform) Transform {
	return Transform{
		Translation: parent.Translation.Add(mulElem(parent.Scaling, t.Translation)),
		Scaling:     mulElem(parent.Scaling, t.Scaling),
	}
}

// Apply transforms a point.
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return mulElem(t.Scaling, p).Add(t.Translation)
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBounds returns a box that any Extend call replaces.
func EmptyBounds() Bounds {
	return Bounds{
		Min: mgl32.Vec3{1e10, 1e10, 1e10},
		Max: mgl32.Vec3{-1e10, -1e10, -1e10},
	}
}

// Empty reports whether no point was added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Extend grows b to contain p.
func (b Bounds) Extend(p mgl32.Vec3) Bounds {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Union returns the box containing both.
func (b Bounds) Union(o Bounds) Bounds {
	if o.Empty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Center returns the box midpoint.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent per axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}
