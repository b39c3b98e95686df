package texture

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Faultbox/voxel-gi/internal/engine/gpu"
	"github.com/Faultbox/voxel-gi/internal/engine/gpu/gputest"
)

type memSource struct {
	key string
	img *image.RGBA
	err error
}

func (s memSource) Key() string { return s.key }

func (s memSource) RGBA() (*image.RGBA, error) { return s.img, s.err }

func solid(key string) memSource {
	return memSource{key: key, img: Solid(color.RGBA{R: 255, A: 255})}
}

func TestAcquireDeduplicates(t *testing.T) {
	rec := gputest.NewRecorder()
	c := NewCache(rec)

	a, err := c.Acquire(solid("textures/brick.png"))
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	b, err := c.Acquire(solid("textures/brick.png"))
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if a != b {
		t.Error("same key should return the same texture")
	}
	other, _ := c.Acquire(solid("textures/floor.png"))
	if other == a {
		t.Error("different keys should not share a texture")
	}

	if rec.Uploads2D() != 2 {
		t.Errorf("uploads = %d, want 2", rec.Uploads2D())
	}
	want := Stats{Textures: 2, Uploads: 2, Hits: 1}
	if got := c.Stats(); got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
}

func TestAcquireErrors(t *testing.T) {
	rec := gputest.NewRecorder()
	c := NewCache(rec)

	decodeErr := errors.New("bad png")
	if _, err := c.Acquire(memSource{key: "broken", err: decodeErr}); !errors.Is(err, decodeErr) {
		t.Errorf("error = %v, want wrapped decode error", err)
	}

	rec.FailTextureAt = 1
	_, err := c.Acquire(solid("oom"))
	var rerr *gpu.ResourceError
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %v, want *gpu.ResourceError", err)
	}
	if c.Len() != 0 {
		t.Errorf("failed uploads should not be cached, len = %d", c.Len())
	}
}

func TestRollback(t *testing.T) {
	rec := gputest.NewRecorder()
	c := NewCache(rec)

	kept, _ := c.Acquire(solid("kept"))
	cp := c.Checkpoint()
	c.Acquire(solid("a"))
	c.Acquire(solid("b"))
	c.Acquire(solid("kept"))

	c.Rollback(cp)

	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	if got, ok := c.Get("kept"); !ok || got != kept {
		t.Error("texture acquired before checkpoint should survive")
	}
	if rec.Live("texture") != 1 {
		t.Errorf("live textures = %d, want 1", rec.Live("texture"))
	}

	c.Destroy()
	if rec.Live("texture") != 0 {
		t.Errorf("live textures after Destroy = %d", rec.Live("texture"))
	}
}
