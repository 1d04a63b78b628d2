package world

import (
	"math"

	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/mesh"
)

// MaxReachDistance is how far the player can target blocks.
const MaxReachDistance = 5.0

// BlockSource is the read side of a world.
type BlockSource interface {
	Block(x, y, z int) (mesh.Block, bool)
}

// RaycastResult stores the result of a raycast operation.
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int // last empty block before the hit
	Face             mesh.Direction
	Block            mesh.Block
	Distance         float64
	Hit              bool
}

// Raycast walks the voxel grid from start along dir, one block boundary at
// a time, and returns the first solid block within maxDist. Unloaded
// blocks are treated as empty.
func Raycast(src BlockSource, start, dir math3d.Vec3, maxDist float64) RaycastResult {
	if dir.LenSq() == 0 {
		return RaycastResult{}
	}
	dir = dir.Normalize()

	s := [3]float64{start.X, start.Y, start.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}

	var pos, step [3]int
	var tMax, tDelta [3]float64
	for i := range 3 {
		pos[i] = int(math.Floor(s[i]))
		switch {
		case d[i] > 0:
			step[i] = 1
			tMax[i] = (float64(pos[i]) + 1 - s[i]) / d[i]
			tDelta[i] = 1 / d[i]
		case d[i] < 0:
			step[i] = -1
			tMax[i] = (s[i] - float64(pos[i])) / -d[i]
			tDelta[i] = -1 / d[i]
		default:
			tMax[i] = math.Inf(1)
			tDelta[i] = math.Inf(1)
		}
	}

	face := facing(dir)
	t := 0.0
	for t <= maxDist {
		if b, ok := src.Block(pos[0], pos[1], pos[2]); ok && !b.IsAir() {
			n := face.Normal()
			return RaycastResult{
				HitPosition:      pos,
				AdjacentPosition: [3]int{pos[0] + n[0], pos[1] + n[1], pos[2] + n[2]},
				Face:             face,
				Block:            b,
				Distance:         t,
				Hit:              true,
			}
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t = tMax[axis]
		pos[axis] += step[axis]
		tMax[axis] += tDelta[axis]
		face = enteredFace(axis, step[axis])
	}
	return RaycastResult{}
}

// enteredFace returns the face crossed when stepping along axis.
func enteredFace(axis, step int) mesh.Direction {
	switch axis {
	case 0:
		if step > 0 {
			return mesh.Left
		}
		return mesh.Right
	case 1:
		if step > 0 {
			return mesh.Bottom
		}
		return mesh.Top
	default:
		if step > 0 {
			return mesh.Front
		}
		return mesh.Back
	}
}

// facing returns the face a ray moving along dir hits first on the
// dominant axis. It is used when the ray starts inside a solid block.
func facing(dir math3d.Vec3) mesh.Direction {
	ax, ay, az := math.Abs(dir.X), math.Abs(dir.Y), math.Abs(dir.Z)
	switch {
	case ax >= ay && ax >= az:
		return enteredFace(0, sign(dir.X))
	case ay >= az:
		return enteredFace(1, sign(dir.Y))
	default:
		return enteredFace(2, sign(dir.Z))
	}
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
