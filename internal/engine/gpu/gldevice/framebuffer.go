package gldevice

import (
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// CreateLayeredFramebuffer attaches every layer of a 3D texture's base level
// as the color target, so one Clear wipes the whole volume.
func (d *Device) CreateLayeredFramebuffer(tex uint32) (uint32, error) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, tex, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		return 0, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return fbo, nil
}

// DeleteFramebuffer releases fbo. Zero is ignored.
func (d *Device) DeleteFramebuffer(fbo uint32) {
	if fbo != 0 {
		gl.DeleteFramebuffers(1, &fbo)
	}
}

// BindFramebuffer makes fbo the draw and read target. Zero restores the window.
func (d *Device) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}
