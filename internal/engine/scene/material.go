package scene

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxel-gi/internal/engine/texture"
)

// Image is decoded RGBA pixel data identified by its source key.
// It satisfies texture.Source.
type Image struct {
	key  string
	rgba *image.RGBA
}

// NewImage wraps already-decoded pixels.
func NewImage(key string, rgba *image.RGBA) *Image {
	return &Image{key: key, rgba: rgba}
}

// Key returns the source identity.
func (i *Image) Key() string { return i.key }

// RGBA returns the pixels.
func (i *Image) RGBA() (*image.RGBA, error) {
	if i.rgba == nil {
		return nil, fmt.Errorf("image %s has no pixels", i.key)
	}
	return i.rgba, nil
}

// Shared 1x1 images for material slots a source asset leaves empty.
var (
	DefaultAlbedo     = NewImage("default:albedo", texture.Solid(color.RGBA{R: 255, G: 255, B: 255, A: 255}))
	DefaultMetaghness = NewImage("default:metaghness", texture.Solid(color.RGBA{G: 255, A: 255})) // roughness 1, metallic 0
	DefaultNormal     = NewImage("default:normal", texture.Solid(color.RGBA{R: 128, G: 128, B: 255, A: 255}))
	DefaultOcclusion  = NewImage("default:occlusion", texture.Solid(color.RGBA{R: 255, G: 255, B: 255, A: 255}))
)

// Material is the four texture references of a primitive. Images are shared
// through Resources; a material never owns them.
type Material struct {
	Albedo     *Image
	Metaghness *Image // metallic in B, roughness in G
	Normal     *Image
	Occlusion  *Image
	Emission   mgl32.Vec3
}

// Images returns the four maps in sampler unit order, with defaults for empty slots.
func (m Material) Images() [4]*Image {
	return [4]*Image{
		orDefault(m.Albedo, DefaultAlbedo),
		orDefault(m.Metaghness, DefaultMetaghness),
		orDefault(m.Normal, DefaultNormal),
		orDefault(m.Occlusion, DefaultOcclusion),
	}
}

func orDefault(img, def *Image) *Image {
	if img == nil {
		return def
	}
	return img
}

// ImageRef is a loader's reference to encoded image data.
type ImageRef struct {
	// Key identifies the image across meshes, e.g. its resolved file path.
	Key string
	// Read returns the encoded bytes.
	Read func() ([]byte, error)
}

// Resources is a deduplicating registry of decoded images keyed by ImageRef.Key.
// One Resources is meant to live as long as the renderer and be passed to
// every NewMesh call, so meshes sharing a texture decode it once.
type Resources struct {
	images  map[string]*Image
	decodes int
}

// NewResources returns an empty registry.
func NewResources() *Resources {
	return &Resources{images: make(map[string]*Image)}
}

// Image returns the decoded image for ref, reading and decoding it on first use.
func (r *Resources) Image(ref ImageRef) (*Image, error) {
	if img, ok := r.images[ref.Key]; ok {
		return img, nil
	}
	if ref.Read == nil {
		return nil, fmt.Errorf("image %s: no reader", ref.Key)
	}
	data, err := ref.Read()
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", ref.Key, err)
	}
	rgba, err := texture.Decode(data, ref.Key)
	if err != nil {
		return nil, err
	}
	img := NewImage(ref.Key, rgba)
	r.images[ref.Key] = img
	r.decodes++
	return img, nil
}

// Len returns the number of registered images.
func (r *Resources) Len() int { return len(r.images) }

// Decodes returns how many images were decoded.
func (r *Resources) Decodes() int { return r.decodes }
