package render

import (
	"fmt"
	"image"
	"math"

	"github.com/taigrr/voxtile/pkg/math3d"
)

// Config describes the target display and the fixed budgets of the
// pipeline.
type Config struct {
	ScreenWidth   int
	ScreenHeight  int
	Subdivision   int     // tiles per axis
	QueueCapacity int     // triangles per frame
	NearClip      float64 // view-space distance of the near clipping plane
}

// DefaultConfig matches a 320x240 display split into 2x2 tiles.
func DefaultConfig() Config {
	return Config{
		ScreenWidth:   320,
		ScreenHeight:  240,
		Subdivision:   2,
		QueueCapacity: DefaultQueueCapacity,
		NearClip:      0.1,
	}
}

// Validate checks that the screen divides evenly into tiles.
func (c Config) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", c.ScreenWidth, c.ScreenHeight)
	}
	if c.Subdivision <= 0 {
		return fmt.Errorf("invalid tile subdivision %d", c.Subdivision)
	}
	if c.ScreenWidth%c.Subdivision != 0 || c.ScreenHeight%c.Subdivision != 0 {
		return fmt.Errorf("screen %dx%d is not divisible into %d tiles per axis",
			c.ScreenWidth, c.ScreenHeight, c.Subdivision)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("invalid queue capacity %d", c.QueueCapacity)
	}
	if c.NearClip <= 0 {
		return fmt.Errorf("near clip distance must be positive, got %v", c.NearClip)
	}
	return nil
}

// TileSize returns the width and height of one tile.
func (c Config) TileSize() (int, int) {
	return c.ScreenWidth / c.Subdivision, c.ScreenHeight / c.Subdivision
}

// Stats counts what happened to the geometry of one frame.
type Stats struct {
	Submitted      int // triangles handed to AddTriangle
	BackfaceCulled int
	NearClipped    int // triangles fully behind the near plane
	OffScreen      int // triangles removed entirely by the screen clip
	Degenerate     int // triangles whose projection was not finite
	Queued         int
	QueueDropped   int
	FragmentDrops  int
}

// Rasterizer turns world-space triangles into queued screen-space
// triangles and replays that queue into tiles.
type Rasterizer struct {
	Camera *Camera
	Stats  Stats

	// Tileset textures filled triangles. Nil fills them with flat
	// palette colors.
	Tileset *Tileset

	cfg   Config
	queue *TriangleQueue
	frags FragmentDeque

	view    math3d.Mat4
	proj    math3d.Mat4
	near    Plane
	frustum Frustum
}

// NewRasterizer creates a rasterizer for cfg with a camera whose aspect
// ratio matches the screen.
func NewRasterizer(cfg Config) (*Rasterizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cam := NewCamera(float64(cfg.ScreenWidth) / float64(cfg.ScreenHeight))
	cam.SetClipPlanes(cfg.NearClip, DefaultFar)
	return &Rasterizer{
		Camera: cam,
		cfg:    cfg,
		queue:  NewTriangleQueue(cfg.QueueCapacity),
		near:   NearPlane(cfg.NearClip),
	}, nil
}

// Config returns the rasterizer configuration.
func (r *Rasterizer) Config() Config {
	return r.cfg
}

// Queue exposes the frame's triangle queue.
func (r *Rasterizer) Queue() *TriangleQueue {
	return r.queue
}

// SetFOV changes the vertical field of view and rebuilds the projection.
func (r *Rasterizer) SetFOV(fov float64) {
	r.Camera.SetFOV(fov)
	r.proj = r.Camera.ProjectionMatrix()
}

// BeginFrame snapshots the camera matrices and frustum for this frame and
// empties the queue.
func (r *Rasterizer) BeginFrame() Frustum {
	r.view = r.Camera.ViewMatrix()
	r.proj = r.Camera.ProjectionMatrix()
	r.frustum = NewFrustum(r.Camera)
	r.queue.Reset()
	r.Stats = Stats{}
	return r.frustum
}

// Frustum returns the frustum computed by the last BeginFrame.
func (r *Rasterizer) Frustum() Frustum {
	return r.frustum
}

// ViewMatrix returns the view matrix of the current frame.
func (r *Rasterizer) ViewMatrix() math3d.Mat4 {
	return r.view
}

// EndFrame records the frame's queue counters into Stats.
func (r *Rasterizer) EndFrame() Stats {
	r.Stats.Queued = r.queue.Len()
	r.Stats.QueueDropped = r.queue.Dropped()
	instrumentFrame(r.Stats)
	return r.Stats
}

// AddTriangle runs one world-space triangle through back-face culling, the
// view transform, the near-plane clip, projection and the screen-edge clip,
// and queues whatever survives.
//
// Outline triangles skip both clip stages and are queued as-is unless a
// vertex lies behind the near plane.
func (r *Rasterizer) AddTriangle(tri Triangle) {
	r.Stats.Submitted++

	if tri.Normal().Dot(tri.P[0].Sub(r.Camera.Position)) >= 0 {
		r.Stats.BackfaceCulled++
		return
	}

	for i := range tri.P {
		tri.P[i] = r.view.MulPoint(tri.P[i])
	}

	if tri.Texture == TextureOutline {
		for _, p := range tri.P {
			if r.near.SignedDistance(p) < 0 {
				r.Stats.NearClipped++
				return
			}
		}
		if t2, ok := r.project(tri); ok {
			r.queue.Push(t2)
		}
		return
	}

	clipped, n := ClipAgainstPlane(r.near, tri)
	if n == 0 {
		r.Stats.NearClipped++
		return
	}
	for i := range n {
		t2, ok := r.project(clipped[i])
		if !ok {
			continue
		}
		ClipToRect(t2, r.cfg.ScreenWidth, r.cfg.ScreenHeight, &r.frags)
		r.Stats.FragmentDrops += r.frags.Dropped()
		if r.frags.Len() == 0 {
			r.Stats.OffScreen++
		}
		for j := range r.frags.Len() {
			r.queue.Push(r.frags.At(j))
		}
	}
}

// project maps a view-space triangle to integer screen coordinates. Depth
// is the positive view distance of each vertex and texture coordinates are
// divided by it.
func (r *Rasterizer) project(tri Triangle) (Triangle2D, bool) {
	out := Triangle2D{Texture: tri.Texture, Light: tri.Light}
	for i, p := range tri.P {
		pt, z, ok := r.ProjectView(p)
		if !ok {
			r.Stats.Degenerate++
			return Triangle2D{}, false
		}
		out.P[i] = pt
		out.Z[i] = z
		out.Tex[i] = TexCoord{
			U: float32(tri.UV[i].X) / z,
			V: float32(tri.UV[i].Y) / z,
			W: 1 / z,
		}
	}
	return out, true
}

// ProjectView projects a view-space point to screen coordinates. It fails
// for points on or behind the camera plane and for non-finite results.
func (r *Rasterizer) ProjectView(p math3d.Vec3) (image.Point, float32, bool) {
	clip := r.proj.MulVec4(math3d.Point(p))
	if clip.W <= 0 {
		return image.Point{}, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x := (ndc.X + 1) * float64(r.cfg.ScreenWidth) / 2
	y := (1 - ndc.Y) * float64(r.cfg.ScreenHeight) / 2
	if math.IsNaN(x+y) || math.IsInf(x+y, 0) || math.Abs(x) > math.MaxInt32/2 || math.Abs(y) > math.MaxInt32/2 {
		return image.Point{}, 0, false
	}
	return image.Pt(int(math.Floor(x)), int(math.Floor(y))), float32(clip.W), true
}

// DrawTriangles replays the queue into tile, newest submission first.
// Chunks are submitted nearest-first, so distant geometry paints first and
// the depth test settles overlaps.
//
// Queued triangles are already clipped to the screen; the fill clamps them
// to the tile, so every tile is an exact crop of the full frame.
func (r *Rasterizer) DrawTriangles(tile *Tile) {
	bounds := tile.Bounds()
	offset := tile.Origin().Mul(-1)
	for i := r.queue.Len() - 1; i >= 0; i-- {
		tri := r.queue.At(i)

		// Quad outlines skip the P2→P0 edge, which is the split diagonal.
		if tri.Texture == TextureOutline {
			local := tri.Offset(offset)
			tile.DrawLine(local.P[0], local.P[1], OutlineColor)
			tile.DrawLine(local.P[1], local.P[2], OutlineColor)
			continue
		}

		if !tri.Bounds().Overlaps(bounds) {
			continue
		}
		if r.Tileset != nil {
			tile.FillTriangleTextured(tri, r.Tileset)
		} else {
			tile.FillTriangle(tri, ShadeColor(tri.Texture, tri.Light))
		}
	}
}
