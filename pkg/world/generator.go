package world

import "github.com/taigrr/voxtile/pkg/mesh"

// DefaultGroundHeight is the number of solid layers of a flat world.
const DefaultGroundHeight = 4

// dirtDepth is the number of dirt layers below the grass.
const dirtDepth = 2

// FlatGenerator builds a flat world: stone from y=0, dirt above it and a
// single grass layer on top at Height-1.
type FlatGenerator struct {
	Height int
}

// Generate fills c with its slice of the flat ground.
func (g FlatGenerator) Generate(c *Chunk) {
	baseY := c.Coord.Y * ChunkSize
	if baseY >= g.Height || baseY+ChunkSize <= 0 {
		return
	}
	c.Fill(func(_, y, _ int) mesh.Block {
		return g.blockAt(baseY + y)
	})
}

func (g FlatGenerator) blockAt(y int) mesh.Block {
	switch {
	case y < 0 || y >= g.Height:
		return mesh.BlockAir
	case y == g.Height-1:
		return mesh.BlockGrass
	case y >= g.Height-1-dirtDepth:
		return mesh.BlockDirt
	default:
		return mesh.BlockStone
	}
}

// SurfaceY returns the y of the first air block above the ground.
func (g FlatGenerator) SurfaceY() int {
	return g.Height
}
