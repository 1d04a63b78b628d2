package math3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func matNear(a Mat4, b [16]float64) bool {
	for i := range 16 {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestPerspectiveMatchesMathgl(t *testing.T) {
	tests := []struct {
		name                    string
		fovy, aspect, near, far float64
	}{
		{"default screen", math.Pi / 4, 320.0 / 240.0, 1, 1000},
		{"wide", math.Pi / 2, 16.0 / 9.0, 0.1, 100},
		{"square", math.Pi / 3, 1, 0.5, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Perspective(tt.fovy, tt.aspect, tt.near, tt.far)
			want := mgl64.Perspective(tt.fovy, tt.aspect, tt.near, tt.far)
			if !matNear(got, want) {
				t.Errorf("Perspective mismatch:\n got %v\nwant %v", got, want)
			}
		})
	}
}

func TestLookAtMatchesMathgl(t *testing.T) {
	tests := []struct {
		name        string
		eye, target Vec3
	}{
		{"down -z", V3(0, 0, 0), V3(0, 0, -1)},
		{"down +z", V3(0, 0, 0), V3(0, 0, 1)},
		{"offset", V3(3, 4, 5), V3(-1, 2, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LookAt(tt.eye, tt.target, Up())
			want := mgl64.LookAtV(
				mgl64.Vec3{tt.eye.X, tt.eye.Y, tt.eye.Z},
				mgl64.Vec3{tt.target.X, tt.target.Y, tt.target.Z},
				mgl64.Vec3{0, 1, 0},
			)
			if !matNear(got, want) {
				t.Errorf("LookAt mismatch:\n got %v\nwant %v", got, want)
			}
		})
	}
}

func TestPointAtInverseIsLookAt(t *testing.T) {
	eye := V3(2, -3, 7)
	target := V3(0, 1, 0)

	inv, ok := PointAt(eye, target, Up()).Inverse()
	if !ok {
		t.Fatal("PointAt matrix should be invertible")
	}
	if !matNear(inv, LookAt(eye, target, Up())) {
		t.Errorf("inverse(PointAt) != LookAt")
	}

	// The eye maps to the view-space origin and the target onto -Z.
	if p := inv.MulPoint(eye); p.Len() > eps {
		t.Errorf("eye in view space = %v, want origin", p)
	}
	p := inv.MulPoint(target)
	if math.Abs(p.X) > eps || math.Abs(p.Y) > eps || p.Z >= 0 {
		t.Errorf("target in view space = %v, want on -Z axis", p)
	}
}

func TestBasisParallelUp(t *testing.T) {
	tests := []struct {
		name    string
		forward Vec3
	}{
		{"straight up", V3(0, 1, 0)},
		{"straight down", V3(0, -1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			right, up := Basis(tt.forward, Up())
			if !right.IsFinite() || !up.IsFinite() {
				t.Fatalf("non-finite basis: right=%v up=%v", right, up)
			}
			if math.Abs(right.Len()-1) > eps || math.Abs(up.Len()-1) > eps {
				t.Errorf("basis not unit length: right=%v up=%v", right, up)
			}
			if math.Abs(right.Dot(tt.forward)) > eps || math.Abs(up.Dot(tt.forward)) > eps {
				t.Errorf("basis not orthogonal to forward")
			}
		})
	}
}

func TestInverseSingular(t *testing.T) {
	var zero Mat4
	m, ok := zero.Inverse()
	if ok {
		t.Error("zero matrix reported invertible")
	}
	if m != Identity() {
		t.Error("singular inverse should return identity")
	}
}

func TestIntersectPlane(t *testing.T) {
	p := V3(0, 0, -1)
	n := V3(0, 0, -1)

	tests := []struct {
		name       string
		start, end Vec3
		wantT      float64
		wantPoint  Vec3
	}{
		{"midpoint", V3(0, 0, 0), V3(0, 0, -2), 0.5, V3(0, 0, -1)},
		{"quarter", V3(4, 0, 0), V3(0, 0, -4), 0.25, V3(3, 0, -1)},
		{"parallel", V3(1, 1, -3), V3(2, 2, -3), 0, V3(1, 1, -3)},
		{"beyond segment clamps", V3(0, 0, -2), V3(0, 0, -3), 0, V3(0, 0, -2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotT := IntersectPlane(p, n, tt.start, tt.end)
			if math.Abs(gotT-tt.wantT) > eps {
				t.Errorf("t = %v, want %v", gotT, tt.wantT)
			}
			if got.Distance(tt.wantPoint) > eps {
				t.Errorf("point = %v, want %v", got, tt.wantPoint)
			}
		})
	}
}

func TestIntersectLine(t *testing.T) {
	got, tt := IntersectLine(V2(0, 0), V2(1, 0), V2(-2, 4), V2(2, 0))
	if math.Abs(tt-0.5) > eps {
		t.Errorf("t = %v, want 0.5", tt)
	}
	if math.Abs(got.X) > eps || math.Abs(got.Y-2) > eps {
		t.Errorf("point = %v, want (0, 2)", got)
	}
}

func TestSafeParam(t *testing.T) {
	tests := []struct {
		num, den, want float64
	}{
		{1, 2, 0.5},
		{1, 0, 0},
		{0, 0, 0},
		{-1, 2, 0},
		{3, 2, 1},
		{math.Inf(1), math.Inf(1), 0},
	}

	for _, tt := range tests {
		if got := SafeParam(tt.num, tt.den); got != tt.want {
			t.Errorf("SafeParam(%v, %v) = %v, want %v", tt.num, tt.den, got, tt.want)
		}
	}
}
