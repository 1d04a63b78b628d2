package render

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// HUDFont is the font used for on-screen text.
var HUDFont tinyfont.Fonter = &tinyfont.TomThumb

// tileDisplay lets tinyfont draw in screen coordinates onto whichever tile
// is current. Pixels outside the tile are dropped.
type tileDisplay struct {
	tile          *Tile
	width, height int16
}

var _ drivers.Displayer = (*tileDisplay)(nil)

func (d *tileDisplay) Size() (x, y int16) {
	return d.width, d.height
}

func (d *tileDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.tile.SetPixel(int(x)-d.tile.X, int(y)-d.tile.Y, RGB(c.R, c.G, c.B))
}

func (d *tileDisplay) Display() error {
	return nil
}

// DrawText writes str with its baseline at screen position (x, y) into tile.
func DrawText(tile *Tile, screenW, screenH int, x, y int, str string, c Color565) {
	d := &tileDisplay{tile: tile, width: int16(screenW), height: int16(screenH)}
	tinyfont.WriteLine(d, HUDFont, int16(x), int16(y), str, c.ToRGBA())
}

// TextWidth returns the rendered width of str in pixels.
func TextWidth(str string) int {
	_, w := tinyfont.LineWidth(HUDFont, str)
	return int(w)
}
