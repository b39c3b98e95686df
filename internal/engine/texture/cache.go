package texture

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/voxel-gi/internal/engine/gpu"
	"github.com/Faultbox/voxel-gi/internal/logger"
)

// Source is decoded pixel data with a stable identity.
type Source interface {
	// Key identifies the source. Two sources with the same key share one upload.
	Key() string
	RGBA() (*image.RGBA, error)
}

// Stats reports cache activity.
type Stats struct {
	Textures int
	Uploads  int
	Hits     int
}

// Checkpoint marks the cache contents at a point in time. See Rollback.
type Checkpoint int

// Cache uploads each distinct Source once and hands out the shared texture
// afterwards. Textures live until Destroy.
type Cache struct {
	dev      gpu.Device
	textures map[string]*gpu.Texture
	order    []string
	uploads  int
	hits     int
}

// NewCache creates an empty cache uploading through dev.
func NewCache(dev gpu.Device) *Cache {
	return &Cache{
		dev:      dev,
		textures: make(map[string]*gpu.Texture),
	}
}

// Acquire returns the texture for src, uploading it on first use.
// A source that fails to produce pixels is an error, never a fallback texture.
func (c *Cache) Acquire(src Source) (*gpu.Texture, error) {
	key := src.Key()
	if tex, ok := c.textures[key]; ok {
		c.hits++
		return tex, nil
	}

	img, err := src.RGBA()
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", key, err)
	}
	tex, err := gpu.NewTexture2D(c.dev, key, img)
	if err != nil {
		return nil, err
	}

	c.textures[key] = tex
	c.order = append(c.order, key)
	c.uploads++

	w, h, _ := tex.Size()
	logger.Debug("texture uploaded", zap.String("key", key), zap.Int32("width", w), zap.Int32("height", h))
	return tex, nil
}

// Get returns the cached texture for key without uploading.
func (c *Cache) Get(key string) (*gpu.Texture, bool) {
	tex, ok := c.textures[key]
	return tex, ok
}

// Len returns the number of resident textures.
func (c *Cache) Len() int { return len(c.textures) }

// Stats returns the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{Textures: len(c.textures), Uploads: c.uploads, Hits: c.hits}
}

// Checkpoint records the current contents.
func (c *Cache) Checkpoint() Checkpoint { return Checkpoint(len(c.order)) }

// Rollback destroys every texture uploaded after cp.
func (c *Cache) Rollback(cp Checkpoint) {
	for i := len(c.order) - 1; i >= int(cp); i-- {
		key := c.order[i]
		c.textures[key].Destroy()
		delete(c.textures, key)
	}
	if int(cp) < len(c.order) {
		c.order = c.order[:cp]
	}
}

// Destroy releases every texture.
func (c *Cache) Destroy() {
	c.Rollback(0)
}
