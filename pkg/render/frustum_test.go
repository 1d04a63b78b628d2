package render

import (
	"math"
	"testing"

	"github.com/taigrr/voxtile/pkg/math3d"
)

func TestPlaneSignedDistance(t *testing.T) {
	// Plane at Z=0, normal scaled on purpose to check normalization.
	plane := NewPlane(math3d.Zero3(), math3d.V3(0, 0, 4))

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.SignedDistance(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3(1, 2, 3), math3d.V3(-1, -2, -3))

	if box.Min != math3d.V3(-1, -2, -3) || box.Max != math3d.V3(1, 2, 3) {
		t.Fatalf("corners not ordered: %+v", box)
	}
	if c := box.Center(); c != math3d.Zero3() {
		t.Errorf("center = %v, want origin", c)
	}
	if !box.ContainsPoint(math3d.V3(1, 2, 3)) {
		t.Error("max corner should be contained")
	}
	if box.ContainsPoint(math3d.V3(0, 0, 3.5)) {
		t.Error("point past max Z should not be contained")
	}

	seen := make(map[math3d.Vec3]bool)
	for _, c := range box.Corners() {
		seen[c] = true
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 distinct corners, got %d", len(seen))
	}
}

// defaultFrustum looks down -Z from the origin with the default projection
// on a 4:3 screen.
func defaultFrustum() Frustum {
	return NewFrustum(NewCamera(320.0 / 240.0))
}

func TestFrustumContainsPoint(t *testing.T) {
	f := defaultFrustum()

	// At depth 10 the half extents are 10*tan(π/8) ≈ 4.14 vertically and
	// ≈ 5.52 horizontally.
	tests := []struct {
		name   string
		point  math3d.Vec3
		inside bool
	}{
		{"straight ahead", math3d.V3(0, 0, -10), true},
		{"behind", math3d.V3(0, 0, 10), false},
		{"just ahead", math3d.V3(0, 0, -0.5), true},
		{"just behind", math3d.V3(0, 0, 0.5), false},
		{"past far plane", math3d.V3(0, 0, -1001), false},
		{"inside left", math3d.V3(-5, 0, -10), true},
		{"outside left", math3d.V3(-6, 0, -10), false},
		{"inside right", math3d.V3(5, 0, -10), true},
		{"outside right", math3d.V3(6, 0, -10), false},
		{"inside top", math3d.V3(0, 4, -10), true},
		{"outside top", math3d.V3(0, 4.5, -10), false},
		{"inside bottom", math3d.V3(0, -4, -10), true},
		{"outside bottom", math3d.V3(0, -4.5, -10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.inside {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.inside)
			}
		})
	}
}

func TestFrustumPlanesPointInward(t *testing.T) {
	c := NewCamera(4.0 / 3.0)
	c.SetPosition(math3d.V3(3, 7, -2))
	c.SetRotation(0.3, 1.1)
	f := NewFrustum(c)

	// A point on the view axis between near and far is inside every plane.
	p := c.Position.Add(c.Forward().Scale(50))
	for i, plane := range f.Planes {
		if d := plane.SignedDistance(p); d <= 0 {
			t.Errorf("plane %d: axis point has distance %v, want > 0", i, d)
		}
	}
}

func TestIsAABBInFrustum(t *testing.T) {
	f := defaultFrustum()

	tests := []struct {
		name     string
		min, max math3d.Vec3
		visible  bool
	}{
		{"in front", math3d.V3(-1, -1, -15), math3d.V3(1, 1, -5), true},
		{"behind", math3d.V3(-1, -1, 5), math3d.V3(1, 1, 15), false},
		{"far left", math3d.V3(-100, -1, -11), math3d.V3(-90, 1, -9), false},
		{"far above", math3d.V3(-1, 50, -11), math3d.V3(1, 60, -9), false},
		{"straddling left plane", math3d.V3(-8, -1, -11), math3d.V3(-4, 1, -9), true},
		{"straddling near plane", math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2), true},
		{"surrounding camera", math3d.V3(-50, -50, -50), math3d.V3(50, 50, 50), true},
		{"tight around camera", math3d.V3(-0.05, -0.05, -0.05), math3d.V3(0.05, 0.05, 0.05), true},
		{"half block around camera", math3d.V3(-0.5, -0.5, -0.5), math3d.V3(0.5, 0.5, 0.5), true},
		{"camera near box face", math3d.V3(-0.9, -0.9, -0.1), math3d.V3(0.9, 0.9, 0.9), true},
		{"beyond far plane", math3d.V3(-1, -1, -2000), math3d.V3(1, 1, -1500), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IsAABBInFrustum(tc.min, tc.max); got != tc.visible {
				t.Errorf("IsAABBInFrustum = %v, want %v", got, tc.visible)
			}
		})
	}
}

func TestIsAABBInFrustumEnclosingCamera(t *testing.T) {
	for _, h := range []float64{0.05, 0.5, 0.9} {
		c := NewCamera(4.0 / 3.0)
		c.SetPosition(math3d.V3(3, 7, -2))
		c.SetRotation(-0.4, 2.2)
		f := NewFrustum(c)

		lo := c.Position.Sub(math3d.Splat3(h))
		hi := c.Position.Add(math3d.Splat3(h))
		if !f.IsAABBInFrustum(lo, hi) {
			t.Errorf("box of half size %v around the camera culled", h)
		}
	}
}

func TestFrustumFollowsYaw(t *testing.T) {
	c := NewCamera(4.0 / 3.0)
	c.SetRotation(0, math.Pi)
	f := NewFrustum(c)

	if !f.ContainsPoint(math3d.V3(0, 0, 10)) {
		t.Error("camera turned around should see +Z")
	}
	if f.ContainsPoint(math3d.V3(0, 0, -10)) {
		t.Error("camera turned around should not see -Z")
	}
	if !f.IsAABBInFrustum(math3d.V3(0, 0, 8), math3d.V3(8, 8, 16)) {
		t.Error("chunk ahead should be visible")
	}
}

func BenchmarkNewFrustum(b *testing.B) {
	c := NewCamera(4.0 / 3.0)
	c.SetRotation(0.2, 0.7)
	for b.Loop() {
		_ = NewFrustum(c)
	}
}

func BenchmarkIsAABBInFrustum(b *testing.B) {
	f := defaultFrustum()

	b.Run("visible", func(b *testing.B) {
		for b.Loop() {
			_ = f.IsAABBInFrustum(math3d.V3(-1, -1, -15), math3d.V3(1, 1, -5))
		}
	})

	b.Run("culled", func(b *testing.B) {
		for b.Loop() {
			_ = f.IsAABBInFrustum(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 15))
		}
	})
}
