package render

import "math"

// scanVertex holds every attribute interpolated across a triangle. u, v
// and w are the perspective-divided texture coordinate.
type scanVertex struct {
	x, y, z float64
	u, v, w float64
}

func (a scanVertex) lerp(b scanVertex, t float64) scanVertex {
	return scanVertex{
		x: a.x + (b.x-a.x)*t,
		y: a.y + (b.y-a.y)*t,
		z: a.z + (b.z-a.z)*t,
		u: a.u + (b.u-a.u)*t,
		v: a.v + (b.v-a.v)*t,
		w: a.w + (b.w-a.w)*t,
	}
}

// edgeAt evaluates the edge from→to at screen row y. Every row is computed
// from the end points alone, so the result does not depend on which row a
// tile starts at.
func edgeAt(from, to scanVertex, y float64) scanVertex {
	dy := to.y - from.y
	if dy == 0 {
		return from
	}
	return from.lerp(to, (y-from.y)/dy)
}

// FillTriangle scanline-fills a screen-space triangle with color c inside
// the tile, writing only pixels whose interpolated depth is smaller than
// the stored depth.
func (t *Tile) FillTriangle(tri Triangle2D, c Color565) {
	t.fill(tri, nil, c)
}

// FillTriangleTextured fills a screen-space triangle with perspective-
// correct texels of ts, lit by the triangle's light level. Transparent
// texels fall back to the flat palette color.
func (t *Tile) FillTriangleTextured(tri Triangle2D, ts *Tileset) {
	t.fill(tri, ts, ShadeColor(tri.Texture, tri.Light))
}

// fill walks rows [top, mid) along the top→mid and top→bot edges and rows
// [mid, bot) along mid→bot and top→bot. Rows and columns are clamped to
// the tile; attributes are always evaluated at screen coordinates.
func (t *Tile) fill(tri Triangle2D, ts *Tileset, c Color565) {
	var v [3]scanVertex
	for i := range 3 {
		v[i] = scanVertex{
			x: float64(tri.P[i].X),
			y: float64(tri.P[i].Y),
			z: float64(tri.Z[i]),
			u: float64(tri.Tex[i].U),
			v: float64(tri.Tex[i].V),
			w: float64(tri.Tex[i].W),
		}
	}
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}
	if v[0].y > v[2].y {
		v[0], v[2] = v[2], v[0]
	}
	if v[1].y > v[2].y {
		v[1], v[2] = v[2], v[1]
	}
	top, mid, bot := v[0], v[1], v[2]

	yStart := max(int(top.y), t.Y)
	yEnd := min(int(bot.y), t.Y+t.Height)
	light := ShadeLevel(tri.Light)

	for y := yStart; y < yEnd; y++ {
		fy := float64(y)
		a := edgeAt(top, bot, fy)
		var b scanVertex
		if fy < mid.y {
			b = edgeAt(top, mid, fy)
		} else {
			b = edgeAt(mid, bot, fy)
		}
		if a.x > b.x {
			a, b = b, a
		}
		t.span(y, a, b, ts, tri.Texture, light, c)
	}
}

// span fills the pixels of screen row y between a and b.
func (t *Tile) span(y int, a, b scanVertex, ts *Tileset, texture, light uint8, c Color565) {
	xStart := max(int(math.Floor(a.x)), t.X)
	xEnd := min(int(math.Ceil(b.x)), t.X+t.Width)
	width := b.x - a.x

	row := (y - t.Y) * t.Width
	for x := xStart; x < xEnd; x++ {
		var s float64
		if width > 1e-9 {
			s = (float64(x) - a.x) / width
		}
		p := a.lerp(b, s)

		i := row + x - t.X
		zf := float32(p.z)
		if zf >= t.Depth[i] {
			continue
		}
		t.Depth[i] = zf
		t.Color[i] = c
		if ts == nil || p.w == 0 {
			continue
		}
		texel := ts.Sample(texture, texelIndex(p.u/p.w), texelIndex(p.v/p.w))
		if texel != Transparent {
			t.Color[i] = texel.ApplyLight(light)
		}
	}
}

// texelIndex maps a texture coordinate in cells to a texel column or row,
// repeating the cell for every whole unit.
func texelIndex(u float64) int {
	f := u - math.Floor(u)
	return min(int(f*TileCellSize), TileCellSize-1)
}
