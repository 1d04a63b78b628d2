package mesh

import "github.com/taigrr/voxtile/pkg/render"

// Block is a voxel type id.
type Block uint8

// Block types.
const (
	BlockAir Block = iota
	BlockStone
	BlockGrass
	BlockDirt
)

var blockNames = [...]string{"air", "stone", "grass", "dirt"}

func (b Block) String() string {
	if int(b) < len(blockNames) {
		return blockNames[b]
	}
	return "unknown"
}

// IsAir reports whether b is empty space.
func (b Block) IsAir() bool {
	return b == BlockAir
}

// TextureID returns the texture drawn on the face of b pointing in d.
// Grass shows its green top only upwards and dirt on the sides.
func (b Block) TextureID(d Direction) uint8 {
	switch b {
	case BlockStone:
		return render.TextureStone
	case BlockGrass:
		if d == Top {
			return render.TextureGrass
		}
		return render.TextureDirt
	case BlockDirt:
		return render.TextureDirt
	}
	return render.TextureAir
}

// checkerDarken is subtracted from the light of every other block so
// neighbouring faces of the same texture stay distinguishable.
const checkerDarken = 2

// Volume is a cube of blocks to mesh.
type Volume interface {
	// Size is the edge length of the cube.
	Size() int
	// At returns the block at local coordinates inside the cube.
	At(x, y, z int) Block
	// Neighbor returns a block at local coordinates just outside the cube.
	// ok is false when that block is not loaded.
	Neighbor(x, y, z int) (b Block, ok bool)
}

// Build emits one quad for every face of a solid block in v whose neighbour
// is known to be air. Faces bordering unloaded blocks are not emitted.
func Build(v Volume) []Quad {
	n := v.Size()
	lookup := func(x, y, z int) (Block, bool) {
		if x < 0 || y < 0 || z < 0 || x >= n || y >= n || z >= n {
			return v.Neighbor(x, y, z)
		}
		return v.At(x, y, z), true
	}

	var quads []Quad
	for x := range n {
		for y := range n {
			for z := range n {
				b := v.At(x, y, z)
				if b.IsAir() {
					continue
				}
				var darken uint8
				if (x+y+z)%2 == 0 {
					darken = checkerDarken
				}
				for _, d := range Directions {
					off := d.Normal()
					nb, ok := lookup(x+off[0], y+off[1], z+off[2])
					if !ok || !nb.IsAir() {
						continue
					}
					quads = append(quads, Quad{
						X:       uint8(x),
						Y:       uint8(y),
						Z:       uint8(z),
						W:       1,
						H:       1,
						Dir:     d,
						Texture: b.TextureID(d),
						Light:   d.Light() - darken,
					})
				}
			}
		}
	}
	return quads
}
