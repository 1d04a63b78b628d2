// Package world stores the voxel chunks, entities and player that the
// renderer draws.
package world

import (
	"sort"
	"sync"

	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/mesh"
)

// ChunkSize is the edge length of a chunk in blocks.
const ChunkSize = 8

const blocksPerChunk = ChunkSize * ChunkSize * ChunkSize

// ChunkCoord addresses a chunk in chunk units.
type ChunkCoord struct {
	X, Y, Z int
}

// ChunkCoordOf returns the coordinate of the chunk holding a world block.
func ChunkCoordOf(x, y, z int) ChunkCoord {
	return ChunkCoord{floorDiv(x, ChunkSize), floorDiv(y, ChunkSize), floorDiv(z, ChunkSize)}
}

// Chunk is a cube of blocks plus its cached mesh.
//
// Every block mutation bumps the version. The cached mesh remembers the
// version it was built from and is only reused while the two match.
type Chunk struct {
	Coord ChunkCoord

	mu          sync.RWMutex
	blocks      [blocksPerChunk]mesh.Block
	version     uint64
	meshVersion uint64
	meshed      bool
	quads       []mesh.Quad
	needSorting bool
}

// NewChunk creates an empty chunk.
func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{Coord: coord}
}

func index(x, y, z int) int {
	return (y*ChunkSize+z)*ChunkSize + x
}

func inChunk(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < ChunkSize && y < ChunkSize && z < ChunkSize
}

// Block returns the block at local coordinates. Out-of-range coordinates
// read as air.
func (c *Chunk) Block(x, y, z int) mesh.Block {
	if !inChunk(x, y, z) {
		return mesh.BlockAir
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[index(x, y, z)]
}

// SetBlock changes the block at local coordinates and bumps the version.
// It reports whether the coordinates were inside the chunk.
func (c *Chunk) SetBlock(x, y, z int, b mesh.Block) bool {
	if !inChunk(x, y, z) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.blocks[index(x, y, z)] == b {
		return true
	}
	c.blocks[index(x, y, z)] = b
	c.version++
	return true
}

// Fill replaces every block with fn(x, y, z) and bumps the version once.
func (c *Chunk) Fill(fn func(x, y, z int) mesh.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for y := range ChunkSize {
		for z := range ChunkSize {
			for x := range ChunkSize {
				c.blocks[index(x, y, z)] = fn(x, y, z)
			}
		}
	}
	c.version++
}

// Version returns the mutation counter.
func (c *Chunk) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// IsEmpty reports whether the chunk holds only air.
func (c *Chunk) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.blocks {
		if !b.IsAir() {
			return false
		}
	}
	return true
}

// Origin returns the world position of the chunk's first block.
func (c *Chunk) Origin() math3d.Vec3 {
	return math3d.V3(
		float64(c.Coord.X*ChunkSize),
		float64(c.Coord.Y*ChunkSize),
		float64(c.Coord.Z*ChunkSize),
	)
}

// Bounds returns the world-space box of the chunk.
func (c *Chunk) Bounds() (min, max math3d.Vec3) {
	min = c.Origin()
	return min, min.Add(math3d.Splat3(ChunkSize))
}

// Center returns the middle of the chunk in world space.
func (c *Chunk) Center() math3d.Vec3 {
	return c.Origin().Add(math3d.Splat3(ChunkSize / 2.0))
}

// Mesh returns the cached quads. It is empty until the first remesh.
func (c *Chunk) Mesh() []mesh.Quad {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quads
}

// MeshStale reports whether the cached mesh must be rebuilt.
func (c *Chunk) MeshStale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.meshed || c.meshVersion != c.version
}

// Invalidate drops the cached mesh, for instance after a neighbour chunk
// changed a block on the shared border.
func (c *Chunk) Invalidate() {
	c.mu.Lock()
	c.meshed = false
	c.mu.Unlock()
}

// NeedSorting reports whether the quads must be re-ordered before the
// next draw.
func (c *Chunk) NeedSorting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.needSorting
}

// snapshot copies the blocks under the read lock together with their
// version.
func (c *Chunk) snapshot() ([blocksPerChunk]mesh.Block, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks, c.version
}

// setMesh stores quads built from the blocks at version. A mesh built from
// an outdated snapshot is still stored but stays stale.
func (c *Chunk) setMesh(quads []mesh.Quad, version uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quads = quads
	c.meshVersion = version
	c.meshed = true
	c.needSorting = true
}

// SortQuads orders the quads nearest-first from pos, like the chunks
// themselves, and clears NeedSorting.
func (c *Chunk) SortQuads(pos math3d.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	origin := c.Origin()
	dist := make([]float64, len(c.quads))
	for i, q := range c.quads {
		dist[i] = q.Center(origin).Sub(pos).LenSq()
	}
	sort.Sort(byDistance{c.quads, dist})
	c.needSorting = false
}

type byDistance struct {
	quads []mesh.Quad
	dist  []float64
}

func (s byDistance) Len() int           { return len(s.quads) }
func (s byDistance) Less(i, j int) bool { return s.dist[i] < s.dist[j] }
func (s byDistance) Swap(i, j int) {
	s.quads[i], s.quads[j] = s.quads[j], s.quads[i]
	s.dist[i], s.dist[j] = s.dist[j], s.dist[i]
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
