package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked shader program.
type Program struct {
	dev       Device
	id        uint32
	name      string
	locations map[string]int32
}

// NewProgram compiles and links src.
func NewProgram(dev Device, src ShaderSources) (*Program, error) {
	id, err := dev.CompileProgram(src)
	if err != nil {
		return nil, &ResourceError{Kind: "program", Name: src.Name, Err: err}
	}
	return &Program{
		dev:       dev,
		id:        id,
		name:      src.Name,
		locations: make(map[string]int32),
	}, nil
}

// ID returns the driver handle.
func (p *Program) ID() uint32 { return p.id }

// Name returns the program name used in errors and logs.
func (p *Program) Name() string { return p.name }

// Use binds the program for subsequent uniform uploads and draws.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.id, name)
	p.locations[name] = loc
	return loc
}

// Uniform resolves a uniform that must be active in the program.
func (p *Program) Uniform(name string) (Uniform, error) {
	loc := p.location(name)
	if loc < 0 {
		return Uniform{}, &UniformError{Program: p.name, Uniform: name}
	}
	return Uniform{dev: p.dev, loc: loc, name: name}, nil
}

// OptionalUniform resolves a uniform the compiler may have optimized out.
// Writes to a missing uniform are ignored by the driver.
func (p *Program) OptionalUniform(name string) Uniform {
	return Uniform{dev: p.dev, loc: p.location(name), name: name}
}

// Destroy deletes the program. Safe to call more than once.
func (p *Program) Destroy() {
	if p.id != 0 {
		p.dev.DeleteProgram(p.id)
		p.id = 0
	}
}

// Uniform is a resolved uniform location of one program.
// Setters apply to the currently bound program.
type Uniform struct {
	dev  Device
	loc  int32
	name string
}

// Name returns the uniform name.
func (u Uniform) Name() string { return u.name }

// Location returns the driver location, -1 if inactive.
func (u Uniform) Location() int32 { return u.loc }

// Active reports whether the uniform exists in the linked program.
func (u Uniform) Active() bool { return u.dev != nil && u.loc >= 0 }

// Set1i uploads an int or sampler unit. Inactive uniforms are skipped.
func (u Uniform) Set1i(v int32) {
	if u.Active() {
		u.dev.Uniform1i(u.loc, v)
	}
}

// Set1f uploads a float. Inactive uniforms are skipped.
func (u Uniform) Set1f(v float32) {
	if u.Active() {
		u.dev.Uniform1f(u.loc, v)
	}
}

// Set3f uploads a vec3. Inactive uniforms are skipped.
func (u Uniform) Set3f(v mgl32.Vec3) {
	if u.Active() {
		u.dev.Uniform3f(u.loc, [3]float32(v))
	}
}

// SetMat4 uploads m in column-major order, the layout GLSL expects.
func (u Uniform) SetMat4(m mgl32.Mat4) {
	if u.Active() {
		u.dev.UniformMatrix4(u.loc, [16]float32(m))
	}
}

// SetSampler binds tex to the texture unit and points the sampler at it.
func (u Uniform) SetSampler(tex *Texture, unit uint32) {
	tex.Bind(unit)
	u.Set1i(int32(unit))
}
