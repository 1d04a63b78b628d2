package mesh

import (
	"math"
	"testing"

	"github.com/taigrr/voxtile/pkg/math3d"
)

func TestQuadTrianglesFaceOutward(t *testing.T) {
	origin := math3d.V3(8, -16, 24)

	for _, d := range Directions {
		t.Run(d.String(), func(t *testing.T) {
			q := Quad{X: 1, Y: 2, Z: 3, Dir: d, Texture: 1, Light: d.Light()}
			a, b := q.Triangles(origin)

			off := d.Normal()
			want := math3d.V3(float64(off[0]), float64(off[1]), float64(off[2]))
			for i, tri := range []struct{ n math3d.Vec3 }{{a.Normal()}, {b.Normal()}} {
				if tri.n.Sub(want).Len() > 1e-9 {
					t.Errorf("triangle %d normal = %v, want %v", i, tri.n, want)
				}
			}

			// The face lies on the block boundary it names.
			blockCenter := origin.Add(math3d.V3(1.5, 2.5, 3.5))
			faceCenter := q.Center(origin)
			if got := faceCenter.Sub(blockCenter); got.Sub(want.Scale(0.5)).Len() > 1e-9 {
				t.Errorf("face center offset = %v, want %v", got, want.Scale(0.5))
			}

			if a.Texture != 1 || b.Light != d.Light() {
				t.Error("shading not copied to triangles")
			}
		})
	}
}

func TestQuadTrianglesCoverFace(t *testing.T) {
	q := Quad{Dir: Top}
	a, b := q.Triangles(math3d.Zero3())
	area := func(p [3]math3d.Vec3) float64 {
		return p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Len() / 2
	}
	if got := area(a.P) + area(b.P); math.Abs(got-1) > 1e-9 {
		t.Errorf("quad area = %v, want 1", got)
	}
}

func TestDirectionLight(t *testing.T) {
	tests := []struct {
		dir   Direction
		light uint8
	}{
		{Front, 13},
		{Back, 10},
		{Top, 15},
		{Bottom, 6},
		{Right, 11},
		{Left, 10},
	}
	for _, tc := range tests {
		if got := tc.dir.Light(); got != tc.light {
			t.Errorf("%v light = %d, want %d", tc.dir, got, tc.light)
		}
		if tc.dir.Light() < checkerDarken {
			t.Errorf("%v light would underflow", tc.dir)
		}
	}
}

func TestQuadScaledFace(t *testing.T) {
	origin := math3d.V3(0, 16, 0)

	for _, d := range Directions {
		t.Run(d.String(), func(t *testing.T) {
			q := Quad{X: 2, Y: 1, Z: 4, W: 3, H: 2, Dir: d}
			a, b := q.Triangles(origin)

			off := d.Normal()
			want := math3d.V3(float64(off[0]), float64(off[1]), float64(off[2]))
			if a.Normal().Sub(want).Len() > 1e-9 || b.Normal().Sub(want).Len() > 1e-9 {
				t.Errorf("normals = %v, %v, want %v", a.Normal(), b.Normal(), want)
			}

			area := func(p [3]math3d.Vec3) float64 {
				return p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Len() / 2
			}
			if got := area(a.P) + area(b.P); math.Abs(got-6) > 1e-9 {
				t.Errorf("area = %v, want 6", got)
			}

			// The face starts at the block and stays one block deep.
			lo, hi := q.Corners(origin)[0], q.Corners(origin)[0]
			for _, c := range q.Corners(origin) {
				lo, hi = lo.Min(c), hi.Max(c)
			}
			base := origin.Add(math3d.V3(2, 1, 4))
			if lo.Sub(base).Len() > 1 {
				t.Errorf("face starts at %v, block at %v", lo, base)
			}
			if ext := hi.Sub(lo); math.Abs(ext.X*want.X)+math.Abs(ext.Y*want.Y)+math.Abs(ext.Z*want.Z) != 0 {
				t.Errorf("face is not flat along its normal: extent %v", ext)
			}

			// The cell repeats once per block along each axis.
			uvLo, uvHi := q.UVs()[0], q.UVs()[0]
			for _, uv := range q.UVs() {
				uvLo = math3d.V2(math.Min(uvLo.X, uv.X), math.Min(uvLo.Y, uv.Y))
				uvHi = math3d.V2(math.Max(uvHi.X, uv.X), math.Max(uvHi.Y, uv.Y))
			}
			if uvLo != math3d.V2(0, 0) || uvHi != math3d.V2(3, 2) {
				t.Errorf("uv range = %v..%v, want (0,0)..(3,2)", uvLo, uvHi)
			}
		})
	}
}

func TestQuadZeroSizeIsUnit(t *testing.T) {
	unit := Quad{X: 1, Dir: Right, W: 1, H: 1}
	zero := Quad{X: 1, Dir: Right}
	if unit.Corners(math3d.Zero3()) != zero.Corners(math3d.Zero3()) {
		t.Error("zero-sized quad differs from a unit quad")
	}
}

func TestQuadTrianglesShareDiagonal(t *testing.T) {
	q := Quad{Dir: Front, W: 1, H: 1}
	a, b := q.Triangles(math3d.Zero3())
	c := q.Corners(math3d.Zero3())

	// Outlines draw P0→P1 and P1→P2 only, so the split must be P2→P0.
	for i, tri := range []struct{ p [3]math3d.Vec3 }{{a.P}, {b.P}} {
		diag := [2]math3d.Vec3{tri.p[2], tri.p[0]}
		if !(diag == [2]math3d.Vec3{c[2], c[0]} || diag == [2]math3d.Vec3{c[0], c[2]}) {
			t.Errorf("triangle %d: P2→P0 = %v, want the 0-2 diagonal", i, diag)
		}
	}
	if a.UV[0] != b.UV[2] || a.UV[2] != b.UV[0] {
		t.Error("texture coordinates not shared along the diagonal")
	}
}
