package mesh

import (
	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/render"
)

// Direction is the outward facing of a block face.
type Direction uint8

const (
	Front  Direction = iota + 1 // -Z
	Back                        // +Z
	Top                         // +Y
	Bottom                      // -Y
	Right                       // +X
	Left                        // -X
)

// Directions lists every face direction.
var Directions = [6]Direction{Front, Back, Top, Bottom, Right, Left}

var directionNames = [...]string{"invalid", "front", "back", "top", "bottom", "right", "left"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return directionNames[0]
}

// Normal returns the outward unit normal as integer offsets.
func (d Direction) Normal() [3]int {
	switch d {
	case Front:
		return [3]int{0, 0, -1}
	case Back:
		return [3]int{0, 0, 1}
	case Top:
		return [3]int{0, 1, 0}
	case Bottom:
		return [3]int{0, -1, 0}
	case Right:
		return [3]int{1, 0, 0}
	case Left:
		return [3]int{-1, 0, 0}
	}
	return [3]int{}
}

// Light returns the fixed light level of faces pointing in d. Every level
// is at least 2 so the checkerboard darkening never underflows.
func (d Direction) Light() uint8 {
	switch d {
	case Front:
		return 13
	case Back:
		return 10
	case Top:
		return 15
	case Bottom:
		return 6
	case Right:
		return 11
	case Left:
		return 10
	}
	return 0
}

// faceCorners holds the unit-cube corners of each face, counter-clockwise
// seen from outside the cube.
var faceCorners = [7][4][3]float64{
	Front:  {{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
	Back:   {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	Top:    {{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	Bottom: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	Right:  {{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
	Left:   {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
}

// texAxis maps one texture coordinate to a block axis. flip counts the
// coordinate down from the face extent.
type texAxis struct {
	axis int
	flip bool
}

// faceAxes holds the in-plane axes of each face: W spans the first, H the
// second. Seen from outside, U grows to the right and V downwards.
var faceAxes = [7][2]texAxis{
	Front:  {{0, true}, {1, true}},
	Back:   {{0, false}, {1, true}},
	Top:    {{0, false}, {2, false}},
	Bottom: {{0, false}, {2, true}},
	Right:  {{2, true}, {1, true}},
	Left:   {{2, false}, {1, true}},
}

// Quad is one visible block face. W and H are its extent in blocks along
// the two in-plane axes; zero counts as one.
type Quad struct {
	X, Y, Z uint8 // block position inside its chunk
	W, H    uint8
	Dir     Direction
	Texture uint8
	Light   uint8
}

// Size returns the face extent in blocks.
func (q Quad) Size() (w, h float64) {
	return float64(max(q.W, 1)), float64(max(q.H, 1))
}

// Corners returns the face corners in world space for a chunk whose first
// block sits at origin.
func (q Quad) Corners(origin math3d.Vec3) [4]math3d.Vec3 {
	base := origin.Add(math3d.V3(float64(q.X), float64(q.Y), float64(q.Z)))
	axes := faceAxes[q.Dir]
	w, h := q.Size()

	var out [4]math3d.Vec3
	for i, c := range faceCorners[q.Dir] {
		c[axes[0].axis] *= w
		c[axes[1].axis] *= h
		out[i] = base.Add(math3d.V3(c[0], c[1], c[2]))
	}
	return out
}

// UVs returns the texture coordinate of each corner, in cells. A face of
// W x H blocks repeats its cell W x H times.
func (q Quad) UVs() [4]math3d.Vec2 {
	axes := faceAxes[q.Dir]
	w, h := q.Size()
	ext := [2]float64{w, h}

	var out [4]math3d.Vec2
	for i, c := range faceCorners[q.Dir] {
		var uv [2]float64
		for j, a := range axes {
			uv[j] = c[a.axis] * ext[j]
			if a.flip {
				uv[j] = ext[j] - uv[j]
			}
		}
		out[i] = math3d.V2(uv[0], uv[1])
	}
	return out
}

// Center returns the middle of the face in world space.
func (q Quad) Center(origin math3d.Vec3) math3d.Vec3 {
	c := q.Corners(origin)
	return c[0].Add(c[2]).Scale(0.5)
}

// Triangles splits the quad along the corner 0 to corner 2 diagonal into
// two triangles whose normal (P1-P0)×(P2-P0) points out of the block. The
// diagonal is the P2→P0 edge of both, which outlines leave out.
func (q Quad) Triangles(origin math3d.Vec3) (render.Triangle, render.Triangle) {
	c := q.Corners(origin)
	uv := q.UVs()
	a := render.Triangle{
		P:       [3]math3d.Vec3{c[0], c[1], c[2]},
		UV:      [3]math3d.Vec2{uv[0], uv[1], uv[2]},
		Texture: q.Texture,
		Light:   q.Light,
	}
	b := render.Triangle{
		P:       [3]math3d.Vec3{c[2], c[3], c[0]},
		UV:      [3]math3d.Vec2{uv[2], uv[3], uv[0]},
		Texture: q.Texture,
		Light:   q.Light,
	}
	return a, b
}
