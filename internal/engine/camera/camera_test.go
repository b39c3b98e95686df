package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFront(t *testing.T) {
	tests := []struct {
		yaw, pitch float32
		want       mgl32.Vec3
	}{
		{0, 0, mgl32.Vec3{1, 0, 0}},
		{-90, 0, mgl32.Vec3{0, 0, -1}},
		{90, 0, mgl32.Vec3{0, 0, 1}},
	}
	for _, tt := range tests {
		c := NewFlyCamera(mgl32.Vec3{}, tt.yaw, tt.pitch)
		if got := c.Front(); !got.ApproxEqualThreshold(tt.want, 1e-5) {
			t.Errorf("Front(yaw=%g, pitch=%g) = %v, want %v", tt.yaw, tt.pitch, got, tt.want)
		}
	}

	down := NewFlyCamera(mgl32.Vec3{}, 0, -90).Front()
	if down[1] > -0.99 || down[1] < -1 {
		t.Errorf("pitch -90 should look almost straight down, got %v", down)
	}
}

func TestViewMapsTargetAhead(t *testing.T) {
	c := NewFlyCamera(mgl32.Vec3{0, 5, 10}, -90, 0)
	p := mgl32.TransformCoordinate(mgl32.Vec3{0, 5, 5}, c.View())
	if !p.ApproxEqualThreshold(mgl32.Vec3{0, 0, -5}, 1e-4) {
		t.Errorf("point ahead maps to %v, want (0,0,-5)", p)
	}
	if c.Eye() != c.Position {
		t.Error("Eye should return Position")
	}
}

func TestMovement(t *testing.T) {
	c := NewFlyCamera(mgl32.Vec3{}, -90, 0)
	c.MoveForward(2)
	c.MoveRight(3)
	c.MoveUp(1)
	if !c.Position.ApproxEqualThreshold(mgl32.Vec3{3, 1, -2}, 1e-5) {
		t.Errorf("position = %v, want (3,1,-2)", c.Position)
	}
}

func TestRotationClampsPitch(t *testing.T) {
	c := NewFlyCamera(mgl32.Vec3{}, 0, 0)
	c.RotateUp(200)
	if c.Pitch != MaxPitch {
		t.Errorf("pitch = %g, want %d", c.Pitch, MaxPitch)
	}
	c.RotateUp(-400)
	if c.Pitch != -MaxPitch {
		t.Errorf("pitch = %g, want %d", c.Pitch, -MaxPitch)
	}
	c.RotateRight(370)
	if !mgl32.FloatEqualThreshold(c.Yaw, 10, 1e-4) {
		t.Errorf("yaw = %g, want 10", c.Yaw)
	}
}

func TestSetAspect(t *testing.T) {
	c := NewFlyCamera(mgl32.Vec3{}, 0, 0)
	c.SetAspect(800, 400)
	if c.Aspect != 2 {
		t.Errorf("aspect = %g, want 2", c.Aspect)
	}
	c.SetAspect(0, 400)
	if c.Aspect != 2 {
		t.Error("zero width should not change aspect")
	}
}
