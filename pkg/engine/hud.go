package engine

import (
	"fmt"
	"image"
	"time"

	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/mesh"
	"github.com/taigrr/voxtile/pkg/render"
)

// HUD is the overlay state drawn on top of the world.
type HUD struct {
	ShowDebug bool
	Selected  mesh.Block // block placed by the player
}

const (
	crosshairSize = 9
	hudMargin     = 4
	hudLineHeight = 7
	swatchSize    = 5
)

var hudTextColor = render.ColorWhite

// hudLines returns the debug text, top to bottom.
func hudLines(frameTime time.Duration, pos math3d.Vec3, triangles int) []string {
	fps := 0.0
	if frameTime > 0 {
		fps = float64(time.Second) / float64(frameTime)
	}
	return []string{
		fmt.Sprintf("FPS:%.2f", fps),
		fmt.Sprintf("Tris:%d", triangles),
		fmt.Sprintf("%.1f,%.1f,%.1f", pos.X, pos.Y, pos.Z),
	}
}

// drawHUD draws the overlay into the current tile. Everything is laid out
// in screen coordinates and clipped by the tile.
func (e *Engine) drawHUD(tile *render.Tile, hud *HUD, frameTime time.Duration, triangles int) {
	cfg := e.rast.Config()
	w, h := cfg.ScreenWidth, cfg.ScreenHeight

	drawCrosshair(tile, image.Pt(w/2, h/2))

	if hud == nil {
		return
	}
	if hud.ShowDebug {
		y := hudMargin + hudLineHeight
		for _, line := range hudLines(frameTime, e.rast.Camera.Position, triangles) {
			render.DrawText(tile, w, h, hudMargin, y, line, hudTextColor)
			y += hudLineHeight
		}
	}
	if !hud.Selected.IsAir() {
		swatch := selectedSwatch(w, h)
		tile.FillRect(swatch.Sub(tile.Origin()), render.TextureColor(hud.Selected.TextureID(mesh.Top)))

		label := hud.Selected.String()
		x := swatch.Min.X - 2 - render.TextWidth(label)
		render.DrawText(tile, w, h, x, h-hudMargin, label, hudTextColor)
	}
}

// selectedSwatch is the screen rectangle showing the selected block's
// color, in the bottom-right corner.
func selectedSwatch(w, h int) image.Rectangle {
	return image.Rect(w-hudMargin-swatchSize, h-hudMargin-swatchSize, w-hudMargin, h-hudMargin)
}

// drawCrosshair inverts a plus sign centred on c.
func drawCrosshair(tile *render.Tile, c image.Point) {
	half := crosshairSize / 2
	invert := func(x, y int) {
		lx, ly := x-tile.X, y-tile.Y
		if lx < 0 || ly < 0 || lx >= tile.Width || ly >= tile.Height {
			return
		}
		tile.SetPixel(lx, ly, ^tile.Pixel(lx, ly))
	}
	for d := -half; d <= half; d++ {
		invert(c.X+d, c.Y)
		if d != 0 {
			invert(c.X, c.Y+d)
		}
	}
}
