package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw presents the framebuffer on a terminal screen. Each cell shows two
// vertically stacked pixels using an upper half block (fg = top pixel,
// bg = bottom pixel). The framebuffer is resampled with nearest-neighbour
// sampling to fill area.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	cols := area.Max.X - area.Min.X
	rows := area.Max.Y - area.Min.Y
	if cols <= 0 || rows <= 0 {
		return
	}

	fb.mu.RLock()
	defer fb.mu.RUnlock()

	subRows := rows * 2
	for row := range rows {
		topY := (row * 2) * fb.Height / subRows
		botY := (row*2 + 1) * fb.Height / subRows
		for col := range cols {
			x := col * fb.Width / cols
			top := fb.pixels[topY*fb.Width+x]
			bot := fb.pixels[botY*fb.Width+x]

			scr.SetCell(area.Min.X+col, area.Min.Y+row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: top.ToRGBA(),
					Bg: bot.ToRGBA(),
				},
			})
		}
	}
}
