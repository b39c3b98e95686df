package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxel-gi/internal/app"
	"github.com/Faultbox/voxel-gi/internal/config"
	"github.com/Faultbox/voxel-gi/internal/engine/renderer"
	"github.com/Faultbox/voxel-gi/internal/engine/voxel"
)

var resolutionLabels = func() []string {
	labels := make([]string, len(voxel.Resolutions))
	for i, r := range voxel.Resolutions {
		labels[i] = fmt.Sprintf("%dx%dx%d", r, r, r)
	}
	return labels
}()

func (insp *Inspector) drawPanels() {
	insp.diagnosticsPanel()
	insp.lightsPanel()
	insp.voxelsPanel()
	insp.transformsPanel()
}

// dragVec3 edits v in place and reports whether it changed.
func dragVec3(label string, v *mgl32.Vec3, speed, lo, hi float32) bool {
	return imgui.DragFloat3V(label, (*[3]float32)(v), speed, lo, hi, "%.3f", imgui.SliderFlagsNone)
}

func (insp *Inspector) diagnosticsPanel() {
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 220), imgui.CondFirstUseEver)
	if imgui.Begin("Diagnostics") {
		stats := insp.renderer.Stats()
		imgui.Text(fmt.Sprintf("Frame rate: %.1f frames/s", imgui.CurrentIO().Framerate()))
		imgui.Text(fmt.Sprintf("Frame time: %.3f ms", insp.dt*1000))
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Meshes: %d  Primitives: %d", stats.Meshes, stats.Primitives))
		imgui.Text(fmt.Sprintf("Textures: %d (%d uploads, %d hits)",
			stats.Textures.Textures, stats.Textures.Uploads, stats.Textures.Hits))
		imgui.Text(fmt.Sprintf("Draw calls: %d  Voxel passes: %d", stats.DrawCalls, stats.VoxelPasses))
		if err := insp.renderer.Volume().Valid(); err != nil {
			imgui.TextColored(imgui.NewVec4(1, 0.4, 0.4, 1), "Voxelization off: "+err.Error())
		}
		imgui.Separator()

		if imgui.Button("Add mesh...") {
			insp.openMeshDialog()
		}
		imgui.SameLine()
		if imgui.Button("Save diagnostics") {
			if paths, err := insp.renderer.SaveDiagnostics("debug"); err != nil {
				insp.status = err.Error()
			} else {
				insp.status = fmt.Sprintf("saved %v", paths)
			}
		}
		imgui.SameLine()
		if imgui.Button("Save settings") {
			app.StoreSettings(insp.cfg, insp.controller, insp.renderer)
			if err := insp.cfg.Save(); err != nil {
				insp.status = err.Error()
			} else {
				insp.status = "settings saved to " + config.ConfigDir()
			}
		}
		if insp.status != "" {
			imgui.TextWrapped(insp.status)
		}
	}
	imgui.End()
}

func (insp *Inspector) lightsPanel() {
	if imgui.Begin("Lights") {
		for i := 0; i < insp.renderer.LightCount(); i++ {
			light := insp.renderer.Light(i)
			imgui.Text(fmt.Sprintf("Sun light %d:", i))
			imgui.ColorEdit3(fmt.Sprintf("Color##%d", i), (*[3]float32)(&light.Color))
			dragVec3(fmt.Sprintf("Direction##%d", i), &light.Direction, 0.01, -1, 1)
		}
	}
	imgui.End()
}

func (insp *Inspector) voxelsPanel() {
	if imgui.Begin("Voxels") {
		v := insp.renderer.Volume()

		t, s := v.Translation(), v.Scaling()
		if dragVec3("Translation", &t, 0.05, 0, 0) {
			v.SetTranslation(t)
		}
		if dragVec3("Scale", &s, 0.05, 0, 0) {
			v.SetScaling(s)
		}
		vt, vs := v.ViewTranslation(), v.ViewScaling()
		if dragVec3("ViewTranslation", &vt, 0.05, 0, 0) {
			v.SetViewTranslation(vt)
		}
		if dragVec3("ViewScale", &vs, 0.05, 0, 0) {
			v.SetViewScaling(vs)
		}

		index := int32(max(voxel.ResolutionIndex(v.Resolution()), 0))
		if imgui.ComboStrarr("Resolution", &index, resolutionLabels, int32(len(resolutionLabels))) {
			v.SetResolution(voxel.Resolutions[index])
		}
		imgui.Separator()

		params := &insp.controller.Params
		mode := int32(params.Rendering)
		for i, m := range renderer.RenderingModes {
			if i > 0 && i%3 != 0 {
				imgui.SameLine()
			}
			imgui.RadioButtonIntPtr(m.String(), &mode, int32(m))
		}
		params.Rendering = renderer.RenderingMode(mode)
		imgui.Separator()

		vox := int32(params.Voxelization)
		imgui.RadioButtonIntPtr("Fragment", &vox, int32(renderer.VoxelizeFragmentOnly))
		imgui.SameLine()
		imgui.RadioButtonIntPtr("Hybrid", &vox, int32(renderer.VoxelizeHybrid))
		params.Voxelization = renderer.VoxelizationMode(vox)
	}
	imgui.End()
}

func (insp *Inspector) transformsPanel() {
	if imgui.Begin("Transforms") {
		for i, p := range insp.renderer.Primitives() {
			imgui.Text(p.Name())
			t, s, e := p.Translation(), p.Scaling(), p.Emission()
			if dragVec3(fmt.Sprintf("Translation##%d", i), &t, 0.05, -100, 100) {
				p.SetTranslation(t)
			}
			if dragVec3(fmt.Sprintf("Scale##%d", i), &s, 0.05, -100, 100) {
				p.SetScaling(s)
			}
			if imgui.ColorEdit3(fmt.Sprintf("Emission##%d", i), (*[3]float32)(&e)) {
				p.SetEmission(e)
			}
		}
	}
	imgui.End()
}
