package render

import (
	"image"
	"math"

	"github.com/taigrr/voxtile/pkg/math3d"
)

// Triangle is a world- or view-space triangle with its texture
// coordinates and shading data. UV is measured in texture cells: the
// integer part repeats the cell.
type Triangle struct {
	P       [3]math3d.Vec3
	UV      [3]math3d.Vec2
	Texture uint8
	Light   uint8
}

// Normal returns the unit normal (P1-P0)×(P2-P0).
func (t Triangle) Normal() math3d.Vec3 {
	return t.P[1].Sub(t.P[0]).Cross(t.P[2].Sub(t.P[0])).Normalize()
}

// TexCoord is a texture coordinate prepared for perspective-correct
// interpolation: U and V are divided by the view depth and W is its
// reciprocal. All three are linear in screen space.
type TexCoord struct {
	U, V, W float32
}

func (a TexCoord) lerp(b TexCoord, t float32) TexCoord {
	return TexCoord{
		U: a.U + (b.U-a.U)*t,
		V: a.V + (b.V-a.V)*t,
		W: a.W + (b.W-a.W)*t,
	}
}

// Triangle2D is a projected triangle: screen coordinates plus one depth
// value and one texture coordinate per vertex.
type Triangle2D struct {
	P       [3]image.Point
	Z       [3]float32
	Tex     [3]TexCoord
	Texture uint8
	Light   uint8
}

// Offset returns the triangle translated by d.
func (t Triangle2D) Offset(d image.Point) Triangle2D {
	for i := range t.P {
		t.P[i] = t.P[i].Add(d)
	}
	return t
}

// Bounds returns the smallest rectangle holding every vertex. Max is
// exclusive.
func (t Triangle2D) Bounds() image.Rectangle {
	r := image.Rectangle{Min: t.P[0], Max: t.P[0]}
	for _, p := range t.P[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

// NearPlane returns the view-space near clipping plane at distance d in
// front of the camera.
func NearPlane(d float64) Plane {
	return NewPlane(math3d.V3(0, 0, -d), math3d.V3(0, 0, -1))
}

// ClipAgainstPlane clips tri against plane and returns up to two triangles
// lying entirely on the inside (signed distance >= 0). The second return
// value is how many entries of the array are valid. Vertex order keeps the
// cyclic order of the input.
func ClipAgainstPlane(plane Plane, tri Triangle) ([2]Triangle, int) {
	var out [2]Triangle
	var d [3]float64
	inside := 0
	for i, p := range tri.P {
		d[i] = plane.SignedDistance(p)
		if d[i] >= 0 {
			inside++
		}
	}

	type vert struct {
		p  math3d.Vec3
		uv math3d.Vec2
	}
	at := func(i int) vert { return vert{tri.P[i], tri.UV[i]} }
	cut := func(i, j int) vert {
		p, t := math3d.IntersectPlane(plane.Point, plane.Normal, tri.P[i], tri.P[j])
		return vert{p, tri.UV[i].Lerp(tri.UV[j], t)}
	}
	build := func(a, b, c vert) Triangle {
		t := tri
		t.P = [3]math3d.Vec3{a.p, b.p, c.p}
		t.UV = [3]math3d.Vec2{a.uv, b.uv, c.uv}
		return t
	}

	switch inside {
	case 0:
		return out, 0
	case 3:
		out[0] = tri
		return out, 1
	case 1:
		i := insideIndex(d, true)
		out[0] = build(at(i), cut(i, (i+1)%3), cut(i, (i+2)%3))
		return out, 1
	default:
		o := insideIndex(d, false)
		a, b := (o+1)%3, (o+2)%3
		bc, ca := cut(b, o), cut(a, o)
		out[0] = build(at(a), at(b), bc)
		out[1] = build(at(a), bc, ca)
		return out, 2
	}
}

// ClipAgainstEdge is the screen-space counterpart of ClipAgainstPlane. The
// edge is the line through p with normal n pointing inside. Depth and
// texture coordinates are carried along with the same parameter as the
// position.
func ClipAgainstEdge(p, n math3d.Vec2, tri Triangle2D) ([2]Triangle2D, int) {
	var out [2]Triangle2D
	n = n.Normalize()

	var pos [3]math3d.Vec2
	var d [3]float64
	inside := 0
	for i, v := range tri.P {
		pos[i] = math3d.V2(float64(v.X), float64(v.Y))
		d[i] = n.Dot(pos[i].Sub(p))
		if d[i] >= 0 {
			inside++
		}
	}

	type vert struct {
		p   image.Point
		z   float32
		tex TexCoord
	}
	at := func(i int) vert { return vert{tri.P[i], tri.Z[i], tri.Tex[i]} }
	cut := func(i, j int) vert {
		q, t := math3d.IntersectLine(p, n, pos[i], pos[j])
		tf := float32(t)
		return vert{
			p:   image.Pt(int(math.Round(q.X)), int(math.Round(q.Y))),
			z:   tri.Z[i] + (tri.Z[j]-tri.Z[i])*tf,
			tex: tri.Tex[i].lerp(tri.Tex[j], tf),
		}
	}
	build := func(a, b, c vert) Triangle2D {
		t := tri
		t.P = [3]image.Point{a.p, b.p, c.p}
		t.Z = [3]float32{a.z, b.z, c.z}
		t.Tex = [3]TexCoord{a.tex, b.tex, c.tex}
		return t
	}

	switch inside {
	case 0:
		return out, 0
	case 3:
		out[0] = tri
		return out, 1
	case 1:
		i := insideIndex(d, true)
		out[0] = build(at(i), cut(i, (i+1)%3), cut(i, (i+2)%3))
		return out, 1
	default:
		o := insideIndex(d, false)
		a, b := (o+1)%3, (o+2)%3
		bc, ca := cut(b, o), cut(a, o)
		out[0] = build(at(a), at(b), bc)
		out[1] = build(at(a), bc, ca)
		return out, 2
	}
}

// insideIndex returns the index of the single vertex whose inside-ness
// equals want.
func insideIndex(d [3]float64, want bool) int {
	for i, v := range d {
		if (v >= 0) == want {
			return i
		}
	}
	return 0
}

// ClipToRect clips tri against the four edges of the rectangle
// [0, width]x[0, height] in the order left, right, top, bottom, leaving
// the surviving fragments in dq. dq is reset first.
func ClipToRect(tri Triangle2D, width, height int, dq *FragmentDeque) {
	dq.Reset()
	dq.PushBack(tri)

	w, h := float64(width), float64(height)
	edges := [4]struct{ p, n math3d.Vec2 }{
		{math3d.V2(0, 0), math3d.V2(1, 0)},
		{math3d.V2(w, 0), math3d.V2(-1, 0)},
		{math3d.V2(0, 0), math3d.V2(0, 1)},
		{math3d.V2(0, h), math3d.V2(0, -1)},
	}

	for _, e := range edges {
		for range dq.Len() {
			frag, _ := dq.PopFront()
			out, n := ClipAgainstEdge(e.p, e.n, frag)
			for i := range n {
				dq.PushBack(out[i])
			}
		}
	}
}
