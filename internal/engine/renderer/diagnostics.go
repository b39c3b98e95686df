package renderer

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/voxel-gi/internal/engine/debug"
)

// State is the diagnostic snapshot written by SaveDiagnostics.
type State struct {
	Tag       string        `yaml:"tag"`
	Timestamp string        `yaml:"timestamp"`
	Device    DeviceState   `yaml:"device"`
	Viewport  [2]int32      `yaml:"viewport"`
	Frame     FrameState    `yaml:"frame"`
	Volume    VolumeState   `yaml:"volume"`
	Lights    []LightState  `yaml:"lights"`
	Meshes    []MeshState   `yaml:"meshes"`
	Textures  TexturesState `yaml:"textures"`
}

// DeviceState identifies the GL driver.
type DeviceState struct {
	Version  string `yaml:"version"`
	Renderer string `yaml:"renderer"`
	Vendor   string `yaml:"vendor"`
}

// FrameState describes the last rendered frame.
type FrameState struct {
	Count        uint64  `yaml:"count"`
	Time         float32 `yaml:"time"`
	Rendering    string  `yaml:"rendering_mode"`
	Voxelization string  `yaml:"voxelization_mode"`
	DrawCalls    int     `yaml:"draw_calls"`
	VoxelPasses  uint64  `yaml:"voxel_passes"`
}

// VolumeState is the voxel volume placement and resolution. Invalid holds
// the reason the voxel pass is skipped, if any.
type VolumeState struct {
	Translation     [3]float32 `yaml:"translation"`
	Scaling         [3]float32 `yaml:"scaling"`
	ViewTranslation [3]float32 `yaml:"view_translation"`
	ViewScaling     [3]float32 `yaml:"view_scaling"`
	Resolution      int32      `yaml:"resolution"`
	Allocated       int32      `yaml:"allocated_resolution"`
	Invalid         string     `yaml:"invalid,omitempty"`
}

// LightState is one directional light.
type LightState struct {
	Direction [3]float32 `yaml:"direction"`
	Color     [3]float32 `yaml:"color"`
}

// MeshState is one submitted mesh with its world-space bounds at submission.
type MeshState struct {
	ID         int              `yaml:"id"`
	Source     string           `yaml:"source"`
	BoundsMin  [3]float32       `yaml:"bounds_min,flow"`
	BoundsMax  [3]float32       `yaml:"bounds_max,flow"`
	Primitives []PrimitiveState `yaml:"primitives"`
}

// PrimitiveState is one drawable primitive. Textures lists the GL handles
// for albedo, metallic-roughness, normal and occlusion, zero when unset.
type PrimitiveState struct {
	Name        string     `yaml:"name"`
	Indices     int32      `yaml:"indices"`
	Translation [3]float32 `yaml:"translation"`
	Scaling     [3]float32 `yaml:"scaling"`
	Emission    [3]float32 `yaml:"emission,flow"`
	Textures    [4]uint32  `yaml:"textures,flow"`
}

// TexturesState summarizes the shared texture cache.
type TexturesState struct {
	Resident int `yaml:"resident"`
	Uploads  int `yaml:"uploads"`
	Hits     int `yaml:"hits"`
}

// Snapshot collects the current renderer state.
func (r *Renderer) Snapshot(tag string) State {
	info := r.dev.Info()
	stats := r.Stats()
	v := r.volume

	s := State{
		Tag:       tag,
		Timestamp: time.Now().Format(time.RFC3339),
		Device:    DeviceState{Version: info.Version, Renderer: info.Renderer, Vendor: info.Vendor},
		Viewport:  [2]int32{r.width, r.height},
		Frame: FrameState{
			Count:        r.frames,
			Time:         r.lastParams.Time,
			Rendering:    r.lastParams.Rendering.String(),
			Voxelization: r.lastParams.Voxelization.String(),
			DrawCalls:    r.drawCalls,
			VoxelPasses:  r.voxelPasses,
		},
		Volume: VolumeState{
			Translation:     v.Translation(),
			Scaling:         v.Scaling(),
			ViewTranslation: v.ViewTranslation(),
			ViewScaling:     v.ViewScaling(),
			Resolution:      v.Resolution(),
			Allocated:       stats.Resolution,
		},
		Textures: TexturesState{
			Resident: stats.Textures.Textures,
			Uploads:  stats.Textures.Uploads,
			Hits:     stats.Textures.Hits,
		},
	}
	if err := v.Valid(); err != nil {
		s.Volume.Invalid = err.Error()
	}
	for _, l := range r.lights {
		s.Lights = append(s.Lights, LightState{Direction: l.Direction, Color: l.Color})
	}
	for _, m := range r.meshes {
		ms := MeshState{ID: int(m.id), Source: m.source, BoundsMin: m.bounds.Min, BoundsMax: m.bounds.Max}
		for _, p := range m.primitives {
			ps := PrimitiveState{
				Name:        p.name,
				Indices:     p.IndexCount(),
				Translation: p.Translation(),
				Scaling:     p.Scaling(),
				Emission:    p.emission,
			}
			for i, t := range p.textures {
				ps.Textures[i] = t.ID()
			}
			ms.Primitives = append(ms.Primitives, ps)
		}
		s.Meshes = append(s.Meshes, ms)
	}
	return s
}

// SaveDiagnostics writes the renderer state and a capture of the default
// framebuffer to the diagnostics directory and returns the written paths.
func (r *Renderer) SaveDiagnostics(tag string) ([]string, error) {
	if r.closed {
		return nil, ErrClosed
	}
	r.dev.BindFramebuffer(0)
	capture := debug.Capture{
		Pixels: r.dev.ReadPixels(r.width, r.height),
		Width:  int(r.width),
		Height: int(r.height),
	}

	paths, err := r.dumper.Dump(tag, r.Snapshot(tag), capture)
	if err != nil {
		r.log.Error("saving diagnostics failed", zap.String("tag", tag), zap.Error(err))
		return paths, err
	}
	r.log.Info("diagnostics saved", zap.Strings("paths", paths))
	return paths, nil
}
