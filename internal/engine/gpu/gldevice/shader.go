package gldevice

import (
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"

	"github.com/Faultbox/voxel-gi/internal/engine/gpu"
)

// compileProgram compiles the stages in src and links them into a program.
// The geometry stage is attached only when its source is non-empty.
func compileProgram(src gpu.ShaderSources) (uint32, error) {
	stages := []struct {
		source string
		kind   uint32
		name   string
	}{
		{src.Vertex, gl.VERTEX_SHADER, "vertex"},
		{src.Geometry, gl.GEOMETRY_SHADER, "geometry"},
		{src.Fragment, gl.FRAGMENT_SHADER, "fragment"},
	}

	program := gl.CreateProgram()
	var attached []uint32
	defer func() {
		for _, s := range attached {
			gl.DetachShader(program, s)
			gl.DeleteShader(s)
		}
	}()

	for _, st := range stages {
		if st.source == "" {
			if st.kind == gl.GEOMETRY_SHADER {
				continue
			}
			gl.DeleteProgram(program)
			return 0, fmt.Errorf("%s: missing %s shader", src.Name, st.name)
		}
		s, err := compileShader(st.source, st.kind, st.name)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, fmt.Errorf("%s: %w", src.Name, err)
		}
		gl.AttachShader(program, s)
		attached = append(attached, s)
	}

	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%s: link: %s", src.Name, gl.GoStr(&log[0]))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, gl.GoStr(&log[0]))
	}

	return shader, nil
}
