package app

import (
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/voxel-gi/internal/engine/camera"
	"github.com/Faultbox/voxel-gi/internal/engine/renderer"
	"github.com/Faultbox/voxel-gi/internal/engine/voxel"
	"github.com/Faultbox/voxel-gi/internal/logger"
)

const (
	MoveRate     = 5  // m/s
	RotationRate = 60 // degrees/s
)

// Key is a logical viewer key, mapped to physical keys by each frontend.
type Key int

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyTurnLeft
	KeyTurnRight
	KeyLookUp
	KeyLookDown
	KeyQuit
	KeySaveDiagnostics
	KeyToggleVoxelization
	KeyCycleResolution
	KeyModeScene // followed by one key per renderer.RenderingModes entry
	KeyModeAlbedo
	KeyModeNormal
	KeyModeEmission
	KeyModeRadiance

	keyCount
)

// Keys reports key state for one frame.
type Keys interface {
	// Down reports whether the key is held.
	Down(k Key) bool
	// Pressed reports whether the key went down this frame.
	Pressed(k Key) bool
}

// Controller applies keyboard input to the camera and the frame parameters.
type Controller struct {
	Params renderer.FrameParams

	saveRequested bool
}

// NewController starts with the given modes.
func NewController(rendering renderer.RenderingMode, voxelization renderer.VoxelizationMode) *Controller {
	return &Controller{Params: renderer.FrameParams{Rendering: rendering, Voxelization: voxelization}}
}

// Update moves the camera by dt seconds of held keys and handles one-shot
// keys. It returns true when the user asked to quit. A diagnostics request
// is only recorded; FinishFrame writes it.
func (c *Controller) Update(keys Keys, cam *camera.FlyCamera, r *renderer.Renderer, dt float32) bool {
	axis := func(pos, neg Key) float32 {
		var v float32
		if keys.Down(pos) {
			v++
		}
		if keys.Down(neg) {
			v--
		}
		return v
	}

	cam.MoveForward(axis(KeyForward, KeyBack) * MoveRate * dt)
	cam.MoveRight(axis(KeyRight, KeyLeft) * MoveRate * dt)
	cam.RotateRight(axis(KeyTurnRight, KeyTurnLeft) * RotationRate * dt)
	cam.RotateUp(axis(KeyLookUp, KeyLookDown) * RotationRate * dt)

	for i, mode := range renderer.RenderingModes {
		if keys.Pressed(KeyModeScene + Key(i)) {
			c.Params.Rendering = mode
		}
	}

	if keys.Pressed(KeyToggleVoxelization) {
		if c.Params.Voxelization == renderer.VoxelizeHybrid {
			c.Params.Voxelization = renderer.VoxelizeFragmentOnly
		} else {
			c.Params.Voxelization = renderer.VoxelizeHybrid
		}
		logger.Info("voxelization mode", zap.Stringer("mode", c.Params.Voxelization))
	}

	if keys.Pressed(KeyCycleResolution) {
		v := r.Volume()
		next := (voxel.ResolutionIndex(v.Resolution()) + 1) % len(voxel.Resolutions)
		v.SetResolution(voxel.Resolutions[next])
		logger.Info("voxel resolution", zap.Int32("resolution", v.Resolution()))
	}

	if keys.Pressed(KeySaveDiagnostics) {
		c.saveRequested = true
	}

	return keys.Pressed(KeyQuit)
}

// FinishFrame writes diagnostics requested during Update. Call it after
// Render and before the buffers are swapped, while the back buffer still
// holds the frame.
func (c *Controller) FinishFrame(r *renderer.Renderer) {
	if !c.saveRequested {
		return
	}
	c.saveRequested = false
	if _, err := r.SaveDiagnostics("debug"); err != nil {
		logger.Error("save diagnostics", zap.Error(err))
	}
}

// Animate moves the first primitive along z with time, keeping x and y.
func Animate(r *renderer.Renderer, elapsed float32) {
	prims := r.Primitives()
	if len(prims) == 0 {
		return
	}
	t := prims[0].Translation()
	t[2] = float32(math.Sin(float64(elapsed)))*2 + 3
	prims[0].SetTranslation(t)
}
