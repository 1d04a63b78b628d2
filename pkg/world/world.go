package world

import (
	"sort"
	"sync"

	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/mesh"
	"github.com/taigrr/voxtile/pkg/render"
)

// DefaultRenderDistance is the number of chunks loaded around the player
// on each axis.
const DefaultRenderDistance = 2

// Generator fills a freshly created chunk.
type Generator interface {
	Generate(c *Chunk)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(c *Chunk)

// Generate calls f(c).
func (f GeneratorFunc) Generate(c *Chunk) { f(c) }

// World is a sparse set of loaded chunks plus the entities living in them.
// It is safe for concurrent use.
type World struct {
	gen Generator

	mu       sync.RWMutex
	chunks   map[ChunkCoord]*Chunk
	entities []Entity
}

// New creates an empty world that fills new chunks with gen. A nil
// generator leaves them empty.
func New(gen Generator) *World {
	return &World{
		gen:    gen,
		chunks: make(map[ChunkCoord]*Chunk),
	}
}

// Chunk returns the loaded chunk at coord.
func (w *World) Chunk(coord ChunkCoord) (*Chunk, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.chunks[coord]
	return c, ok
}

// Len returns the number of loaded chunks.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// LoadChunk returns the chunk at coord, generating it if needed. The
// neighbours of a new chunk are invalidated so their border faces are
// rebuilt against it.
func (w *World) LoadChunk(coord ChunkCoord) *Chunk {
	if c, ok := w.Chunk(coord); ok {
		return c
	}

	c := NewChunk(coord)
	if w.gen != nil {
		w.gen.Generate(c)
	}

	w.mu.Lock()
	// Another caller may have loaded it while we were generating.
	if existing, ok := w.chunks[coord]; ok {
		w.mu.Unlock()
		return existing
	}
	w.chunks[coord] = c
	w.mu.Unlock()

	for _, d := range mesh.Directions {
		n := d.Normal()
		if nb, ok := w.Chunk(ChunkCoord{coord.X + n[0], coord.Y + n[1], coord.Z + n[2]}); ok {
			nb.Invalidate()
		}
	}
	return c
}

// UnloadChunk removes the chunk at coord. Neighbours are invalidated since
// their border faces now face unloaded blocks.
func (w *World) UnloadChunk(coord ChunkCoord) bool {
	w.mu.Lock()
	_, ok := w.chunks[coord]
	delete(w.chunks, coord)
	w.mu.Unlock()
	if !ok {
		return false
	}
	for _, d := range mesh.Directions {
		n := d.Normal()
		if nb, ok := w.Chunk(ChunkCoord{coord.X + n[0], coord.Y + n[1], coord.Z + n[2]}); ok {
			nb.Invalidate()
		}
	}
	return true
}

// LoadAround loads every chunk within radius chunks of pos on each axis
// and unloads the rest.
func (w *World) LoadAround(pos math3d.Vec3, radius int) (loaded, unloaded int) {
	center := ChunkCoordOf(int(pos.Floor().X), int(pos.Floor().Y), int(pos.Floor().Z))
	within := func(c ChunkCoord) bool {
		return absInt(c.X-center.X) <= radius &&
			absInt(c.Y-center.Y) <= radius &&
			absInt(c.Z-center.Z) <= radius
	}

	w.mu.RLock()
	var far []ChunkCoord
	for coord := range w.chunks {
		if !within(coord) {
			far = append(far, coord)
		}
	}
	w.mu.RUnlock()
	for _, coord := range far {
		if w.UnloadChunk(coord) {
			unloaded++
		}
	}

	for x := center.X - radius; x <= center.X+radius; x++ {
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			for z := center.Z - radius; z <= center.Z+radius; z++ {
				coord := ChunkCoord{x, y, z}
				if _, ok := w.Chunk(coord); ok {
					continue
				}
				w.LoadChunk(coord)
				loaded++
			}
		}
	}
	return loaded, unloaded
}

// Block returns the block at world coordinates. ok is false when the
// chunk holding it is not loaded.
func (w *World) Block(x, y, z int) (b mesh.Block, ok bool) {
	c, ok := w.Chunk(ChunkCoordOf(x, y, z))
	if !ok {
		return mesh.BlockAir, false
	}
	return c.Block(mod(x, ChunkSize), mod(y, ChunkSize), mod(z, ChunkSize)), true
}

// SetBlock changes the block at world coordinates. It reports false, and
// changes nothing, when the chunk is not loaded. Chunks sharing the
// touched border are invalidated.
func (w *World) SetBlock(x, y, z int, b mesh.Block) bool {
	c, ok := w.Chunk(ChunkCoordOf(x, y, z))
	if !ok {
		return false
	}
	lx, ly, lz := mod(x, ChunkSize), mod(y, ChunkSize), mod(z, ChunkSize)
	c.SetBlock(lx, ly, lz, b)

	touch := func(dx, dy, dz int) {
		if nb, ok := w.Chunk(ChunkCoordOf(x+dx, y+dy, z+dz)); ok {
			nb.Invalidate()
		}
	}
	if lx == 0 {
		touch(-1, 0, 0)
	} else if lx == ChunkSize-1 {
		touch(1, 0, 0)
	}
	if ly == 0 {
		touch(0, -1, 0)
	} else if ly == ChunkSize-1 {
		touch(0, 1, 0)
	}
	if lz == 0 {
		touch(0, 0, -1)
	} else if lz == ChunkSize-1 {
		touch(0, 0, 1)
	}
	return true
}

// ChunksSortedByDistance returns the loaded chunks nearest-first by the
// distance from pos to their centre.
func (w *World) ChunksSortedByDistance(pos math3d.Vec3) []*Chunk {
	w.mu.RLock()
	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	w.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		di := out[i].Center().Sub(pos).LenSq()
		dj := out[j].Center().Sub(pos).LenSq()
		if di != dj {
			return di < dj
		}
		return lessCoord(out[i].Coord, out[j].Coord)
	})
	return out
}

func lessCoord(a, b ChunkCoord) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// RemeshDirty rebuilds every stale chunk mesh and returns how many were
// rebuilt.
func (w *World) RemeshDirty() int {
	w.mu.RLock()
	var stale []*Chunk
	for _, c := range w.chunks {
		if c.MeshStale() {
			stale = append(stale, c)
		}
	}
	w.mu.RUnlock()

	for _, c := range stale {
		w.Remesh(c)
	}
	return len(stale)
}

// Remesh rebuilds the mesh of c from a snapshot of its blocks.
func (w *World) Remesh(c *Chunk) {
	blocks, version := c.snapshot()
	v := &chunkVolume{world: w, chunk: c, blocks: &blocks}
	c.setMesh(mesh.Build(v), version)
}

// chunkVolume presents a chunk snapshot to the mesher and resolves its
// neighbours through the world.
type chunkVolume struct {
	world  *World
	chunk  *Chunk
	blocks *[blocksPerChunk]mesh.Block
}

func (v *chunkVolume) Size() int { return ChunkSize }

func (v *chunkVolume) At(x, y, z int) mesh.Block {
	return v.blocks[index(x, y, z)]
}

func (v *chunkVolume) Neighbor(x, y, z int) (mesh.Block, bool) {
	o := v.chunk.Coord
	return v.world.Block(o.X*ChunkSize+x, o.Y*ChunkSize+y, o.Z*ChunkSize+z)
}

// AddEntity adds e to the world.
func (w *World) AddEntity(e Entity) {
	w.mu.Lock()
	w.entities = append(w.entities, e)
	w.mu.Unlock()
}

// Entities returns a copy of the entity list.
func (w *World) Entities() []Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Entity, len(w.entities))
	copy(out, w.entities)
	return out
}

// UpdateEntities advances every entity by dt seconds.
func (w *World) UpdateEntities(dt float64) {
	ents := w.Entities()
	for i := range ents {
		ents[i].Update(dt, w)
	}
	w.mu.Lock()
	// Entities added while updating are kept after the updated ones.
	if len(w.entities) > len(ents) {
		ents = append(ents, w.entities[len(ents):]...)
	}
	w.entities = ents
	w.mu.Unlock()
}

// Billboards returns the sprites of every entity that has one.
func (w *World) Billboards() []render.Billboard {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]render.Billboard, 0, len(w.entities))
	for _, e := range w.entities {
		if b, ok := e.Billboard(); ok {
			out = append(out, b)
		}
	}
	return out
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
