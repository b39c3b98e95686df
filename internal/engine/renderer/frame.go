package renderer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/voxel-gi/internal/engine/gpu"
)

// Render draws one frame into the default framebuffer.
//
// When the volume is valid the scene is first voxelized into the 3D target;
// otherwise the voxel pass is skipped and the main pass shades without
// indirect light. Outside ModeScene the voxels are also ray-marched inside
// the view box. Given unchanged state, two calls issue identical commands.
func (r *Renderer) Render(cam Camera, p FrameParams) error {
	if r.closed {
		return ErrClosed
	}
	r.frames++
	r.drawCalls = 0
	r.lastParams = p

	voxelsReady := false
	if err := r.volume.Valid(); err != nil {
		if !r.voxelSkipped {
			r.log.Warn("voxelization skipped", zap.Error(err))
			r.voxelSkipped = true
		}
	} else {
		if r.voxelSkipped {
			r.log.Info("voxelization resumed", zap.Int32("resolution", r.volume.Resolution()))
			r.voxelSkipped = false
		}
		if err := r.ensureVoxelTarget(r.volume.Resolution()); err != nil {
			return err
		}
		r.voxelizePass(p)
		voxelsReady = true
	}

	r.mainPass(cam, p, voxelsReady)

	if voxelsReady && p.Rendering != ModeScene {
		r.viewPass(cam)
	}
	return nil
}

// ensureVoxelTarget (re)allocates the 3D texture when the resolution changes.
func (r *Renderer) ensureVoxelTarget(resolution int32) error {
	if r.target != nil && r.target.resolution == resolution {
		return nil
	}

	tex, err := gpu.NewTexture3D(r.dev, "voxels", resolution)
	if err != nil {
		return err
	}
	fb, err := gpu.NewLayeredFramebuffer(r.dev, "voxels", tex)
	if err != nil {
		tex.Destroy()
		return err
	}

	if r.target != nil {
		r.target.destroy()
	}
	r.target = &voxelTarget{texture: tex, framebuffer: fb, resolution: resolution}
	r.log.Info("voxel target allocated", zap.Int32("resolution", resolution))
	return nil
}

func (r *Renderer) voxelizePass(p FrameParams) {
	dev := r.dev
	res := r.target.resolution
	light := r.lights[0]

	r.target.framebuffer.Bind()
	dev.Viewport(0, 0, res, res)
	dev.ColorMask(true)
	dev.ClearColor(0, 0, 0, 0)
	dev.Clear(gpu.ClearColor)
	dev.ColorMask(false)
	dev.Disable(gpu.DepthTest)
	dev.Disable(gpu.CullFace)

	prog := r.voxelize[VoxelizeFragmentOnly]
	if p.Voxelization == VoxelizeHybrid {
		prog = r.voxelize[VoxelizeHybrid]
	}
	prog.prog.Use()
	prog.time.Set1f(p.Time)
	prog.voxelProj.SetMat4(r.volume.Projection())
	prog.worldToUVW.SetMat4(r.volume.WorldToUVW())
	prog.resolution.Set1i(res)
	prog.renderingMode.Set1i(int32(p.Rendering))
	prog.lightDirection.Set3f(light.Normalized())
	prog.lightColor.Set3f(light.Color)
	r.target.texture.BindImage(0)

	for _, m := range r.meshes {
		for _, prim := range m.primitives {
			prog.model.SetMat4(prim.Model())
			prog.emission.Set3f(prim.emission)
			prim.geometry.Bind()
			prog.albedo.SetSampler(prim.textures[unitAlbedo], unitAlbedo)
			prim.geometry.Draw()
			r.drawCalls++
		}
	}

	dev.MemoryBarrier()
	dev.ColorMask(true)
	dev.Enable(gpu.DepthTest)
	r.target.texture.GenerateMipmap()
	r.voxelPasses++
}

func (r *Renderer) mainPass(cam Camera, p FrameParams, voxelsReady bool) {
	dev := r.dev
	pbr := r.pbr
	light := r.lights[0]
	cc := r.config.ClearColor

	// An overlay drawn after the previous frame may have changed these.
	dev.BindFramebuffer(0)
	dev.Enable(gpu.DepthTest)
	dev.Disable(gpu.Blend)
	dev.Disable(gpu.ScissorTest)
	dev.Viewport(0, 0, r.width, r.height)
	dev.ClearColor(cc[0], cc[1], cc[2], cc[3])
	dev.Clear(gpu.ClearAll)

	pbr.prog.Use()
	pbr.time.Set1f(p.Time)
	pbr.proj.SetMat4(cam.Projection())
	pbr.view.SetMat4(cam.View())
	pbr.cameraPosition.Set3f(cam.Eye())
	pbr.lightDirection.Set3f(light.Normalized())
	pbr.lightColor.Set3f(light.Color)
	pbr.renderingMode.Set1i(int32(p.Rendering))

	if voxelsReady {
		size := r.volume.VoxelSize()
		pbr.voxelEnabled.Set1i(1)
		pbr.voxelWorldToUVW.SetMat4(r.volume.WorldToUVW())
		pbr.voxelSize.Set1f(min(size[0], size[1], size[2]))
		pbr.voxels.SetSampler(r.target.texture, unitVoxels)
	} else {
		pbr.voxelEnabled.Set1i(0)
	}

	for _, m := range r.meshes {
		for _, prim := range m.primitives {
			pbr.model.SetMat4(prim.Model())
			pbr.emission.Set3f(prim.emission)
			prim.draw(pbr.samplers)
			r.drawCalls++
		}
	}
}

func (r *Renderer) viewPass(cam Camera) {
	v := r.voxelView

	v.prog.Use()
	v.proj.SetMat4(cam.Projection())
	v.view.SetMat4(cam.View())
	v.model.SetMat4(r.volume.ViewTransform())
	v.worldToLocal.SetMat4(r.volume.ViewInverse())
	v.cameraPosition.Set3f(cam.Eye())
	v.worldToUVW.SetMat4(r.volume.WorldToUVW())
	v.resolution.Set1i(r.target.resolution)
	v.voxels.SetSampler(r.target.texture, unitVoxels)

	r.viewBox.Bind()
	r.viewBox.Draw()
	r.drawCalls++
}
