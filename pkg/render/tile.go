package render

import (
	"image"
	"math"
)

// Tile is one rectangular region of the screen with its own color and
// depth buffer. The same Tile value is reused for every region of a frame.
type Tile struct {
	X, Y          int // screen-space origin
	Width, Height int
	Color         []Color565
	Depth         []float32
}

// NewTile allocates buffers for a width x height tile.
func NewTile(width, height int) *Tile {
	return &Tile{
		Width:  width,
		Height: height,
		Color:  make([]Color565, width*height),
		Depth:  make([]float32, width*height),
	}
}

// Bounds returns the tile's rectangle in screen coordinates.
func (t *Tile) Bounds() image.Rectangle {
	return image.Rect(t.X, t.Y, t.X+t.Width, t.Y+t.Height)
}

// Origin returns the screen-space origin.
func (t *Tile) Origin() image.Point {
	return image.Pt(t.X, t.Y)
}

// MoveTo positions the tile at the given grid cell.
func (t *Tile) MoveTo(col, row int) {
	t.X = col * t.Width
	t.Y = row * t.Height
}

// Clear fills the color buffer with bg and resets every depth to +Inf.
func (t *Tile) Clear(bg Color565) {
	if len(t.Color) == 0 {
		return
	}
	t.Color[0] = bg
	for i := 1; i < len(t.Color); i *= 2 {
		copy(t.Color[i:], t.Color[:i])
	}
	inf := float32(math.Inf(1))
	t.Depth[0] = inf
	for i := 1; i < len(t.Depth); i *= 2 {
		copy(t.Depth[i:], t.Depth[:i])
	}
}

// SetPixel writes c at tile-local (x, y) without touching depth.
func (t *Tile) SetPixel(x, y int, c Color565) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Color[y*t.Width+x] = c
}

// Pixel returns the color at tile-local (x, y), or 0 when out of bounds.
func (t *Tile) Pixel(x, y int) Color565 {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return 0
	}
	return t.Color[y*t.Width+x]
}

// DepthAt returns the depth at tile-local (x, y), or +Inf when out of bounds.
func (t *Tile) DepthAt(x, y int) float32 {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return float32(math.Inf(1))
	}
	return t.Depth[y*t.Width+x]
}

// FillRect fills a tile-local rectangle, clipped to the tile.
func (t *Tile) FillRect(r image.Rectangle, c Color565) {
	r = r.Intersect(image.Rect(0, 0, t.Width, t.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := t.Color[y*t.Width : (y+1)*t.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = c
		}
	}
}

// maxLineExtent bounds line endpoints; longer lines are skipped.
const maxLineExtent = 1 << 14

// DrawLine draws a Bresenham line between tile-local points. Pixels outside
// the tile are skipped and depth is ignored.
func (t *Tile) DrawLine(p0, p1 image.Point, c Color565) {
	if absInt(p0.X) > maxLineExtent || absInt(p0.Y) > maxLineExtent ||
		absInt(p1.X) > maxLineExtent || absInt(p1.Y) > maxLineExtent {
		return
	}
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		t.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
