package renderer

import (
	"fmt"

	"github.com/Faultbox/voxel-gi/internal/engine/gpu"
	"github.com/Faultbox/voxel-gi/internal/engine/shader"
)

// uniformBinder resolves uniforms of one program and keeps the first failure.
type uniformBinder struct {
	prog *gpu.Program
	err  error
}

func (b *uniformBinder) required(name string) gpu.Uniform {
	u, err := b.prog.Uniform(name)
	if err != nil && b.err == nil {
		b.err = err
	}
	return u
}

func (b *uniformBinder) optional(name string) gpu.Uniform {
	return b.prog.OptionalUniform(name)
}

func compile(dev gpu.Device, name string) (*gpu.Program, error) {
	src, ok := shader.Sources(name)
	if !ok {
		return nil, fmt.Errorf("no shader sources for %q", name)
	}
	return gpu.NewProgram(dev, src)
}

// pbrProgram is the main shading program.
type pbrProgram struct {
	prog *gpu.Program

	time, proj, view, model gpu.Uniform
	samplers                [4]gpu.Uniform

	cameraPosition  gpu.Uniform
	lightDirection  gpu.Uniform
	lightColor      gpu.Uniform
	emission        gpu.Uniform
	renderingMode   gpu.Uniform
	voxelEnabled    gpu.Uniform
	voxelWorldToUVW gpu.Uniform
	voxelSize       gpu.Uniform
	voxels          gpu.Uniform
}

func newPBRProgram(dev gpu.Device) (*pbrProgram, error) {
	prog, err := compile(dev, shader.PBR)
	if err != nil {
		return nil, err
	}
	b := uniformBinder{prog: prog}
	p := &pbrProgram{
		prog:  prog,
		time:  b.required("time"),
		proj:  b.required("proj"),
		view:  b.required("view"),
		model: b.required("model"),
		samplers: [4]gpu.Uniform{
			b.required("albedo"),
			b.required("metaghness"),
			b.required("normal"),
			b.required("occlusion"),
		},
		cameraPosition:  b.optional("camera_position"),
		lightDirection:  b.optional("light_direction"),
		lightColor:      b.optional("light_color"),
		emission:        b.optional("emission"),
		renderingMode:   b.optional("rendering_mode"),
		voxelEnabled:    b.optional("voxel_enabled"),
		voxelWorldToUVW: b.optional("voxel_world_to_uvw"),
		voxelSize:       b.optional("voxel_size"),
		voxels:          b.optional("voxels"),
	}
	if b.err != nil {
		prog.Destroy()
		return nil, b.err
	}
	return p, nil
}

// voxelizeProgram writes the voxel grid. One exists per VoxelizationMode.
type voxelizeProgram struct {
	prog *gpu.Program

	model, voxelProj, worldToUVW, resolution gpu.Uniform

	time           gpu.Uniform
	renderingMode  gpu.Uniform
	lightDirection gpu.Uniform
	lightColor     gpu.Uniform
	emission       gpu.Uniform
	albedo         gpu.Uniform
}

func newVoxelizeProgram(dev gpu.Device, name string) (*voxelizeProgram, error) {
	prog, err := compile(dev, name)
	if err != nil {
		return nil, err
	}
	b := uniformBinder{prog: prog}
	p := &voxelizeProgram{
		prog:           prog,
		model:          b.required("model"),
		voxelProj:      b.required("voxel_proj"),
		worldToUVW:     b.required("voxel_world_to_uvw"),
		resolution:     b.required("resolution"),
		time:           b.optional("time"),
		renderingMode:  b.optional("rendering_mode"),
		lightDirection: b.optional("light_direction"),
		lightColor:     b.optional("light_color"),
		emission:       b.optional("emission"),
		albedo:         b.optional("albedo"),
	}
	if b.err != nil {
		prog.Destroy()
		return nil, b.err
	}
	return p, nil
}

// viewProgram ray-marches the voxel grid inside the view box.
type viewProgram struct {
	prog *gpu.Program

	proj, view, model, worldToLocal gpu.Uniform

	cameraPosition gpu.Uniform
	worldToUVW     gpu.Uniform
	resolution     gpu.Uniform
	voxels         gpu.Uniform
}

func newViewProgram(dev gpu.Device) (*viewProgram, error) {
	prog, err := compile(dev, shader.VoxelView)
	if err != nil {
		return nil, err
	}
	b := uniformBinder{prog: prog}
	p := &viewProgram{
		prog:           prog,
		proj:           b.required("proj"),
		view:           b.required("view"),
		model:          b.required("model"),
		worldToLocal:   b.required("view_world_to_local"),
		cameraPosition: b.optional("camera_position"),
		worldToUVW:     b.optional("voxel_world_to_uvw"),
		resolution:     b.optional("resolution"),
		voxels:         b.optional("voxels"),
	}
	if b.err != nil {
		prog.Destroy()
		return nil, b.err
	}
	return p, nil
}
