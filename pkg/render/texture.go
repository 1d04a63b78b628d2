package render

import (
	"fmt"
	"image"
	_ "image/png" // Register PNG decoder
	"os"
)

// Tileset layout: a square atlas of 8x8 cells, 16 cells per row, addressed
// by texture id.
const (
	TileCellSize  = 8
	TileCellsWide = 16
	TilesetSize   = TileCellSize * TileCellsWide
)

// Transparent is the color key skipped when blitting sprites.
const Transparent Color565 = 0xF81F

// Tileset is the sprite atlas used for entity billboards.
type Tileset struct {
	Pixels [TilesetSize * TilesetSize]Color565
}

// NewTileset builds a procedural atlas: every id gets its palette color
// with a darker checker pattern, drawn as an inset square over a
// transparent border.
func NewTileset() *Tileset {
	ts := &Tileset{}
	for id := range TileCellsWide * TileCellsWide {
		base := TextureColor(uint8(id))
		dark := base.ApplyLight(170)
		ox, oy := cellOrigin(uint8(id))
		for y := range TileCellSize {
			for x := range TileCellSize {
				c := base
				if (x/2+y/2)%2 == 1 {
					c = dark
				}
				if x == 0 || y == 0 || x == TileCellSize-1 || y == TileCellSize-1 {
					c = Transparent
				}
				ts.Pixels[(oy+y)*TilesetSize+ox+x] = c
			}
		}
	}
	return ts
}

// LoadTileset reads a 128x128 atlas from an image file. Pixels with alpha
// below one half become transparent.
func LoadTileset(path string) (*Tileset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tileset: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tileset: %w", err)
	}
	return TilesetFromImage(img)
}

// TilesetFromImage converts an image to a tileset.
func TilesetFromImage(img image.Image) (*Tileset, error) {
	b := img.Bounds()
	if b.Dx() != TilesetSize || b.Dy() != TilesetSize {
		return nil, fmt.Errorf("tileset must be %dx%d, got %dx%d", TilesetSize, TilesetSize, b.Dx(), b.Dy())
	}

	ts := &Tileset{}
	for y := range TilesetSize {
		for x := range TilesetSize {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			c := Transparent
			if a >= 0x8000 {
				c = RGB(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			}
			ts.Pixels[y*TilesetSize+x] = c
		}
	}
	return ts, nil
}

func cellOrigin(id uint8) (int, int) {
	return int(id%TileCellsWide) * TileCellSize, int(id/TileCellsWide) * TileCellSize
}

// Sample returns the texel (u, v) in [0, TileCellSize) of cell id.
func (ts *Tileset) Sample(id uint8, u, v int) Color565 {
	ox, oy := cellOrigin(id)
	return ts.Pixels[(oy+v)*TilesetSize+ox+u]
}

// BlitCell draws cell id scaled to size x size pixels with its top-left
// corner at tile-local pos. Texels are depth tested against depth and
// transparent texels are skipped.
func (t *Tile) BlitCell(ts *Tileset, id uint8, pos image.Point, size int, depth float32) {
	if size <= 0 {
		return
	}
	dst := image.Rect(pos.X, pos.Y, pos.X+size, pos.Y+size).Intersect(image.Rect(0, 0, t.Width, t.Height))
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		v := (y - pos.Y) * TileCellSize / size
		for x := dst.Min.X; x < dst.Max.X; x++ {
			u := (x - pos.X) * TileCellSize / size
			c := ts.Sample(id, u, v)
			if c == Transparent {
				continue
			}
			i := y*t.Width + x
			if depth < t.Depth[i] {
				t.Color[i] = c
				t.Depth[i] = depth
			}
		}
	}
}
