package render

import (
	"image"
	"math"

	"github.com/taigrr/voxtile/pkg/math3d"
)

// Billboard constants.
const (
	ItemSpriteSize        = 0.5  // world units
	MaxBillboardDistance  = 30.0 // world units
	minBillboardPixelSize = 1
)

// Billboard is a flat sprite drawn at a world position.
type Billboard struct {
	Position math3d.Vec3
	Texture  uint8
}

// DrawBillboards projects each billboard's position and blits its sprite
// into tile, scaled by distance. Billboards behind the near plane or
// further than MaxBillboardDistance are skipped.
func (r *Rasterizer) DrawBillboards(tile *Tile, ts *Tileset, billboards []Billboard) {
	origin := tile.Origin()
	scale := float64(r.cfg.ScreenHeight) / math.Tan(r.Camera.FOV)

	for _, b := range billboards {
		dist := r.Camera.Position.Distance(b.Position)
		if dist == 0 || dist > MaxBillboardDistance {
			continue
		}
		view := r.view.MulPoint(b.Position)
		if r.near.SignedDistance(view) < 0 {
			continue
		}
		pt, z, ok := r.ProjectView(view)
		if !ok {
			continue
		}

		size := int(ItemSpriteSize / dist * scale)
		if size < minBillboardPixelSize {
			continue
		}
		topLeft := pt.Sub(origin).Sub(image.Pt(size/2, size/2))
		tile.BlitCell(ts, b.Texture, topLeft, size, z)
	}
}
