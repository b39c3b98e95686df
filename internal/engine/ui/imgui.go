// Package ui hosts the renderer inside a Dear ImGui window.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/voxel-gi/internal/engine/gpu/gldevice"
)

// Backend wraps the ImGui SDL backend and the GL device created in its context.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	device  *gldevice.Device
}

// NewBackend creates the window, its GL context and the device.
func NewBackend(title string, width, height int) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.1, 1.0))
	b.backend.CreateWindow(title, width, height)

	if b.device, err = gldevice.New(); err != nil {
		return nil, err
	}
	return b, nil
}

// Device returns the GL device bound to the window's context.
func (b *Backend) Device() *gldevice.Device {
	return b.device
}

// Run starts the main render loop.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// DisplaySize returns the framebuffer size in pixels.
func DisplaySize() (int32, int32) {
	io := imgui.CurrentIO()
	size := io.DisplaySize()
	scale := io.DisplayFramebufferScale()
	return int32(size.X * scale.X), int32(size.Y * scale.Y)
}

// WantsKeyboard reports whether an ImGui widget has keyboard focus.
func WantsKeyboard() bool {
	return imgui.CurrentIO().WantCaptureKeyboard()
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// IsKeyDown checks if a key is currently held down.
func IsKeyDown(key imgui.Key) bool {
	return imgui.IsKeyDown(key)
}
