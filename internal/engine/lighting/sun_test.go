package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		lon, lat float32
		want     mgl32.Vec3
	}{
		{0, 90, mgl32.Vec3{0, 1, 0}},
		{0, 0, mgl32.Vec3{0, 0, 1}},
		{90, 0, mgl32.Vec3{1, 0, 0}},
		{180, 0, mgl32.Vec3{0, 0, -1}},
	}
	for _, tt := range tests {
		got := SunDirection(tt.lon, tt.lat)
		if !got.ApproxEqualThreshold(tt.want, 1e-5) {
			t.Errorf("SunDirection(%g, %g) = %v, want %v", tt.lon, tt.lat, got, tt.want)
		}
		if l := got.Len(); l < 0.9999 || l > 1.0001 {
			t.Errorf("SunDirection(%g, %g) has length %g", tt.lon, tt.lat, l)
		}
	}
}

func TestAnglesRoundTrip(t *testing.T) {
	lon, lat := Angles(SunDirection(30, 60))
	if !mgl32.FloatEqualThreshold(lon, 30, 1e-3) || !mgl32.FloatEqualThreshold(lat, 60, 1e-3) {
		t.Errorf("Angles = (%g, %g), want (30, 60)", lon, lat)
	}
}

func TestNormalized(t *testing.T) {
	l := &Light{Direction: mgl32.Vec3{0, 0, 5}}
	if got := l.Normalized(); got != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("Normalized = %v", got)
	}
	l.Direction = mgl32.Vec3{}
	if got := l.Normalized(); got != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("zero direction normalized to %v, want up", got)
	}
	if NewSun().Color != (mgl32.Vec3{1, 1, 1}) {
		t.Error("default sun should be white")
	}
}
