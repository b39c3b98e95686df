package gpu

import "fmt"

// ResourceError reports a failed allocation, compile or link of a GPU object.
type ResourceError struct {
	Kind string // program, texture, vertex array, framebuffer
	Name string
	Err  error
}

// Error implements error.
func (e *ResourceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("gpu %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("gpu %s %q: %v", e.Kind, e.Name, e.Err)
}

// Unwrap returns the driver error.
func (e *ResourceError) Unwrap() error { return e.Err }

// UniformError reports a uniform name that is not active in a linked program.
type UniformError struct {
	Program string
	Uniform string
}

// Error implements error.
func (e *UniformError) Error() string {
	return fmt.Sprintf("uniform %q not found in program %q", e.Uniform, e.Program)
}
