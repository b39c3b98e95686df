// Package app holds the viewer logic shared by the executables: scene
// presets, keyboard controls and per-frame animation.
package app

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/voxel-gi/internal/engine/camera"
	"github.com/Faultbox/voxel-gi/internal/engine/renderer"
	"github.com/Faultbox/voxel-gi/internal/engine/scene"
	"github.com/Faultbox/voxel-gi/internal/logger"
)

// Placement puts one asset into the world.
type Placement struct {
	Path        string
	Translation mgl32.Vec3
	Scaling     mgl32.Vec3
}

// VolumePreset positions the voxelization box and the view box.
type VolumePreset struct {
	Translation     mgl32.Vec3
	Scaling         mgl32.Vec3
	ViewTranslation mgl32.Vec3
	ViewScaling     mgl32.Vec3
}

// Preset is a ready-made scene.
type Preset struct {
	Name   string
	Meshes []Placement
	Volume VolumePreset

	CameraPosition mgl32.Vec3
	CameraYaw      float32
	CameraPitch    float32
}

var one = mgl32.Vec3{1, 1, 1}

// Presets lists the built-in scenes by name.
var Presets = map[string]Preset{
	"test": {
		Name:   "test",
		Meshes: []Placement{{Path: "models/test.glb", Translation: mgl32.Vec3{0, 2, 0}, Scaling: one}},
		Volume: VolumePreset{
			Scaling:         mgl32.Vec3{10, 10, 10},
			ViewTranslation: mgl32.Vec3{10.15, 5, 0},
			ViewScaling:     mgl32.Vec3{10, 10, 10},
		},
		CameraPosition: mgl32.Vec3{0, 2, 10},
		CameraPitch:    -90,
	},
	"sponza": {
		Name:   "sponza",
		Meshes: []Placement{{Path: "models/sponza.glb", Scaling: one}},
		Volume: VolumePreset{
			Translation:     mgl32.Vec3{0, 5, 0},
			Scaling:         mgl32.Vec3{24, 10.1, 12},
			ViewTranslation: mgl32.Vec3{0, 5, 0},
			ViewScaling:     mgl32.Vec3{24, 10.1, 12},
		},
		CameraPosition: mgl32.Vec3{4, 2, 0},
	},
	"cornell": {
		Name: "cornell",
		Meshes: []Placement{
			{Path: "models/sphere.glb", Translation: mgl32.Vec3{0, 5, 5}, Scaling: one},
			{Path: "models/cornell_box.glb", Scaling: one},
		},
		Volume: VolumePreset{
			Translation:     mgl32.Vec3{0, 5, 0},
			Scaling:         mgl32.Vec3{10, 10, 10},
			ViewTranslation: mgl32.Vec3{10.15, 5, 0},
			ViewScaling:     mgl32.Vec3{10, 10, 10},
		},
		CameraPosition: mgl32.Vec3{0, 5, 10},
		CameraYaw:      -90,
	},
}

// PresetNames returns the preset names in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPreset returns the named preset.
func LookupPreset(name string) (Preset, error) {
	p, ok := Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown scene %q (have %v)", name, PresetNames())
	}
	return p, nil
}

// Load submits every mesh of the preset, then applies its volume and camera.
// It stops at the first mesh that fails to load or upload.
func (p Preset) Load(r *renderer.Renderer, cam *camera.FlyCamera, loader scene.Loader, resources *scene.Resources) error {
	for _, m := range p.Meshes {
		if _, err := AddMesh(r, loader, resources, m); err != nil {
			return fmt.Errorf("scene %s: %w", p.Name, err)
		}
	}

	v := r.Volume()
	v.SetTranslation(p.Volume.Translation)
	v.SetScaling(p.Volume.Scaling)
	v.SetViewTranslation(p.Volume.ViewTranslation)
	v.SetViewScaling(p.Volume.ViewScaling)

	cam.Position = p.CameraPosition
	cam.Yaw = p.CameraYaw
	cam.Pitch = camera.ClampPitch(p.CameraPitch)

	logger.Info("scene loaded",
		zap.String("scene", p.Name),
		zap.Int("meshes", len(p.Meshes)),
		zap.Int("primitives", len(r.Primitives())),
	)
	return nil
}

// AddMesh loads one asset and submits it.
func AddMesh(r *renderer.Renderer, loader scene.Loader, resources *scene.Resources, m Placement) (renderer.MeshID, error) {
	mesh, err := scene.NewMesh(loader, m.Path, m.Translation, m.Scaling, resources)
	if err != nil {
		return -1, err
	}
	return r.SubmitMesh(mesh)
}
