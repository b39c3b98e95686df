// Package gltfload reads glTF 2.0 files (.gltf and .glb) into scene meshes.
package gltfload

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/voxel-gi/internal/assets"
	"github.com/Faultbox/voxel-gi/internal/engine/scene"
	"github.com/Faultbox/voxel-gi/internal/logger"
)

const maxNodeDepth = 64

// ErrNotTriangles is returned for primitives drawn as points, lines or strips.
var ErrNotTriangles = errors.New("primitive is not a triangle list")

// Loader implements scene.Loader for glTF files.
type Loader struct {
	// Resolve maps an asset name to a file path. Nil uses the name as is.
	Resolve func(name string) (string, error)
	// ReadFile reads images referenced by URI. Nil uses os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// New returns a loader that finds files through m.
func New(m *assets.Manager) *Loader {
	return &Loader{Resolve: m.Resolve, ReadFile: m.Load}
}

// Load parses the file and flattens its node tree into primitives.
// Node translation and scale are applied; rotation is not.
func (l *Loader) Load(name string) (*scene.LoadedMesh, error) {
	path := name
	if l.Resolve != nil {
		var err error
		if path, err = l.Resolve(name); err != nil {
			return nil, err
		}
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parsing gltf: %w", err)
	}

	read := l.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	b := &builder{doc: doc, path: path, dir: filepath.Dir(path), read: read}

	roots := rootNodes(doc)
	if len(roots) == 0 {
		for i := range doc.Meshes {
			if err := b.mesh(uint32(i), scene.Identity()); err != nil {
				return nil, err
			}
		}
	}
	for _, n := range roots {
		if err := b.node(n, scene.Identity(), 0); err != nil {
			return nil, err
		}
	}

	logger.Debug("gltf loaded",
		zap.String("path", path),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("primitives", len(b.prims)),
	)
	return &scene.LoadedMesh{Primitives: b.prims}, nil
}

// rootNodes returns the nodes of the default scene, of the first scene when
// none is marked default, or every parentless node when there are no scenes.
func rootNodes(doc *gltf.Document) []uint32 {
	if len(doc.Scenes) > 0 {
		var s uint32
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			s = *doc.Scene
		}
		return doc.Scenes[s].Nodes
	}

	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(child) {
				child[c] = true
			}
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

type builder struct {
	doc   *gltf.Document
	path  string
	dir   string
	read  func(string) ([]byte, error)
	prims []scene.LoadedPrimitive
}

func (b *builder) node(i uint32, parent scene.Transform, depth int) error {
	if int(i) >= len(b.doc.Nodes) {
		return fmt.Errorf("node %d out of range", i)
	}
	if depth > maxNodeDepth {
		return fmt.Errorf("node %d: hierarchy deeper than %d", i, maxNodeDepth)
	}
	n := b.doc.Nodes[i]

	local := scene.Transform{
		Translation: vec3(n.TranslationOrDefault()),
		Scaling:     vec3(n.ScaleOrDefault()),
	}
	world := local.Compose(parent)

	if n.Mesh != nil {
		if err := b.mesh(*n.Mesh, world); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
	}
	for _, c := range n.Children {
		if err := b.node(c, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) mesh(i uint32, t scene.Transform) error {
	if int(i) >= len(b.doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", i)
	}
	m := b.doc.Meshes[i]
	for j, p := range m.Primitives {
		prim, err := b.primitive(p)
		if err != nil {
			return fmt.Errorf("mesh %d primitive %d: %w", i, j, err)
		}
		prim.Name = m.Name
		if prim.Name == "" {
			prim.Name = fmt.Sprintf("mesh%d", i)
		}
		prim.Translation = t.Translation
		prim.Scaling = t.Scaling
		b.prims = append(b.prims, prim)
	}
	return nil
}

func (b *builder) accessor(attrs gltf.Attribute, name string) *gltf.Accessor {
	idx, ok := attrs[name]
	if !ok || int(idx) >= len(b.doc.Accessors) {
		return nil
	}
	return b.doc.Accessors[idx]
}

func (b *builder) primitive(p *gltf.Primitive) (scene.LoadedPrimitive, error) {
	var out scene.LoadedPrimitive
	if p.Mode != gltf.PrimitiveTriangles {
		return out, ErrNotTriangles
	}

	pos := b.accessor(p.Attributes, "POSITION")
	if pos == nil {
		return out, errors.New("missing POSITION attribute")
	}
	positions, err := modeler.ReadPosition(b.doc, pos, nil)
	if err != nil {
		return out, fmt.Errorf("reading positions: %w", err)
	}

	out.Vertices = make([]scene.Vertex, len(positions))
	for i, v := range positions {
		out.Vertices[i] = scene.Vertex{
			Position: mgl32.Vec3(v),
			Tangent:  mgl32.Vec4{1, 0, 0, 1},
		}
	}

	if p.Indices != nil {
		if int(*p.Indices) >= len(b.doc.Accessors) {
			return out, fmt.Errorf("index accessor %d out of range", *p.Indices)
		}
		if out.Indices, err = modeler.ReadIndices(b.doc, b.doc.Accessors[*p.Indices], nil); err != nil {
			return out, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		out.Indices = make([]uint32, len(positions))
		for i := range out.Indices {
			out.Indices[i] = uint32(i)
		}
	}

	if acr := b.accessor(p.Attributes, "NORMAL"); acr != nil {
		normals, err := modeler.ReadNormal(b.doc, acr, nil)
		if err != nil {
			return out, fmt.Errorf("reading normals: %w", err)
		}
		for i := range out.Vertices {
			if i < len(normals) {
				out.Vertices[i].Normal = mgl32.Vec3(normals[i])
			}
		}
	} else {
		computeNormals(out.Vertices, out.Indices)
	}

	if acr := b.accessor(p.Attributes, "TEXCOORD_0"); acr != nil {
		uvs, err := modeler.ReadTextureCoord(b.doc, acr, nil)
		if err != nil {
			return out, fmt.Errorf("reading texture coordinates: %w", err)
		}
		for i := range out.Vertices {
			if i < len(uvs) {
				out.Vertices[i].UV = mgl32.Vec2(uvs[i])
			}
		}
	}

	if acr := b.accessor(p.Attributes, "TANGENT"); acr != nil {
		tangents, err := modeler.ReadTangent(b.doc, acr, nil)
		if err != nil {
			return out, fmt.Errorf("reading tangents: %w", err)
		}
		for i := range out.Vertices {
			if i < len(tangents) {
				out.Vertices[i].Tangent = mgl32.Vec4(tangents[i])
			}
		}
	}

	if p.Material != nil {
		if err := b.material(*p.Material, &out); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (b *builder) material(i uint32, out *scene.LoadedPrimitive) error {
	if int(i) >= len(b.doc.Materials) {
		return fmt.Errorf("material %d out of range", i)
	}
	m := b.doc.Materials[i]
	out.Emission = vec3(m.EmissiveFactor)

	var err error
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			if out.Albedo, err = b.imageRef(pbr.BaseColorTexture.Index); err != nil {
				return err
			}
		}
		if pbr.MetallicRoughnessTexture != nil {
			if out.Metaghness, err = b.imageRef(pbr.MetallicRoughnessTexture.Index); err != nil {
				return err
			}
		}
	}
	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		if out.Normal, err = b.imageRef(*m.NormalTexture.Index); err != nil {
			return err
		}
	}
	if m.OcclusionTexture != nil && m.OcclusionTexture.Index != nil {
		if out.Occlusion, err = b.imageRef(*m.OcclusionTexture.Index); err != nil {
			return err
		}
	}
	return nil
}

// imageRef describes where the image of texture i comes from. Nothing is
// read until the reference is resolved.
func (b *builder) imageRef(i uint32) (*scene.ImageRef, error) {
	if int(i) >= len(b.doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", i)
	}
	tex := b.doc.Textures[i]
	if tex.Source == nil {
		return nil, nil
	}
	idx := *tex.Source
	if int(idx) >= len(b.doc.Images) {
		return nil, fmt.Errorf("image %d out of range", idx)
	}
	img := b.doc.Images[idx]

	switch {
	case img.BufferView != nil:
		view := *img.BufferView
		return &scene.ImageRef{
			Key:  fmt.Sprintf("%s#image%d", b.path, idx),
			Read: func() ([]byte, error) { return b.bufferView(view) },
		}, nil
	case img.IsEmbeddedResource():
		return &scene.ImageRef{
			Key:  fmt.Sprintf("%s#image%d", b.path, idx),
			Read: img.MarshalData,
		}, nil
	case img.URI != "":
		uri, err := url.PathUnescape(img.URI)
		if err != nil {
			uri = img.URI
		}
		path := filepath.Join(b.dir, filepath.FromSlash(uri))
		read := b.read
		return &scene.ImageRef{
			Key:  path,
			Read: func() ([]byte, error) { return read(path) },
		}, nil
	}
	return nil, fmt.Errorf("image %d has neither uri nor buffer view", idx)
}

// bufferView copies the bytes of view i so the image outlives the document.
func (b *builder) bufferView(i uint32) ([]byte, error) {
	if int(i) >= len(b.doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", i)
	}
	data, err := modeler.ReadBufferView(b.doc, b.doc.BufferViews[i])
	if err != nil {
		return nil, fmt.Errorf("buffer view %d: %w", i, err)
	}
	return append([]byte(nil), data...), nil
}

// computeNormals assigns area-weighted vertex normals.
func computeNormals(vertices []scene.Vertex, indices []uint32) {
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		if int(a) >= len(vertices) || int(b) >= len(vertices) || int(c) >= len(vertices) {
			continue
		}
		p0 := vertices[a].Position
		n := vertices[b].Position.Sub(p0).Cross(vertices[c].Position.Sub(p0))
		vertices[a].Normal = vertices[a].Normal.Add(n)
		vertices[b].Normal = vertices[b].Normal.Add(n)
		vertices[c].Normal = vertices[c].Normal.Add(n)
	}
	for i := range vertices {
		if vertices[i].Normal.Len() > 0 {
			vertices[i].Normal = vertices[i].Normal.Normalize()
		} else {
			vertices[i].Normal = mgl32.Vec3{0, 1, 0}
		}
	}
}

func vec3(v [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
