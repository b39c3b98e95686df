package gpu

import (
	"fmt"
	"image"
)

// Texture is an uploaded 2D image or an allocated 3D volume.
type Texture struct {
	dev    Device
	id     uint32
	target TextureTarget
	width  int32
	height int32
	depth  int32
}

// NewTexture2D uploads img as an immutable 2D texture with mipmaps.
func NewTexture2D(dev Device, name string, img *image.RGBA) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, &ResourceError{Kind: "texture", Name: name, Err: fmt.Errorf("empty image")}
	}
	id, err := dev.CreateTexture2D(img)
	if err != nil {
		return nil, &ResourceError{Kind: "texture", Name: name, Err: err}
	}
	return &Texture{
		dev:    dev,
		id:     id,
		target: Texture2D,
		width:  int32(b.Dx()),
		height: int32(b.Dy()),
		depth:  1,
	}, nil
}

// NewTexture3D allocates a cubic RGBA8 volume with a full mip chain.
func NewTexture3D(dev Device, name string, size int32) (*Texture, error) {
	if size <= 0 {
		return nil, &ResourceError{Kind: "texture", Name: name, Err: fmt.Errorf("invalid size %d", size)}
	}
	id, err := dev.CreateTexture3D(size)
	if err != nil {
		return nil, &ResourceError{Kind: "texture", Name: name, Err: err}
	}
	return &Texture{dev: dev, id: id, target: Texture3D, width: size, height: size, depth: size}, nil
}

// ID returns the driver handle.
func (t *Texture) ID() uint32 { return t.id }

// Target returns the texture dimensionality.
func (t *Texture) Target() TextureTarget { return t.target }

// Size returns width, height and depth in texels.
func (t *Texture) Size() (width, height, depth int32) {
	return t.width, t.height, t.depth
}

// Bind binds the texture to a sampler unit.
func (t *Texture) Bind(unit uint32) {
	t.dev.BindTexture(unit, t.target, t.id)
}

// BindImage binds level 0 to an image unit for shader writes.
func (t *Texture) BindImage(unit uint32) {
	t.dev.BindImageTexture(unit, t.id)
}

// GenerateMipmap rebuilds the mip chain from level 0.
func (t *Texture) GenerateMipmap() {
	t.dev.GenerateMipmap(t.target, t.id)
}

// Destroy deletes the texture. Safe to call more than once.
func (t *Texture) Destroy() {
	if t.id != 0 {
		t.dev.DeleteTexture(t.id)
		t.id = 0
	}
}
