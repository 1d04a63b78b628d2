// Package engine drives one frame of the tile renderer: it culls and
// submits the world's geometry, replays it into every screen tile and
// pushes the finished tiles to the display.
package engine

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/mesh"
	"github.com/taigrr/voxtile/pkg/render"
	"github.com/taigrr/voxtile/pkg/world"
)

var (
	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxtile_frame_duration_seconds",
		Help:    "The time spent drawing one frame.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	chunksCulled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voxtile_chunks_culled",
		Help: "The number of chunks rejected by the view frustum.",
	})

	chunksRemeshed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voxtile_chunks_remeshed",
		Help: "The number of chunk meshes rebuilt.",
	})
)

// FrameStats summarizes one DrawGame call.
type FrameStats struct {
	render.Stats
	Chunks   int // loaded chunks
	Culled   int // chunks outside the frustum
	Remeshed int
	Props    int // props submitted
	Duration time.Duration
}

// Engine owns the rasterizer, the single tile buffer and the display for
// the whole run.
type Engine struct {
	rast     *render.Rasterizer
	tile     *render.Tile
	display  render.Display
	tileset  *render.Tileset
	settings Settings
	props    []*mesh.Mesh

	last FrameStats
}

// Option customizes an Engine.
type Option func(*Engine)

// WithTileset sets the atlas used for block faces and billboards.
func WithTileset(ts *render.Tileset) Option {
	return func(e *Engine) {
		e.tileset = ts
	}
}

// WithProps adds static meshes drawn with the world.
func WithProps(props ...*mesh.Mesh) Option {
	return func(e *Engine) {
		e.props = append(e.props, props...)
	}
}

// New creates an engine drawing to display. The screen size comes from
// cfg, the tile subdivision and field of view from settings.
func New(display render.Display, cfg render.Config, settings Settings, options ...Option) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	cfg.Subdivision = settings.Subdivision

	rast, err := render.NewRasterizer(cfg)
	if err != nil {
		return nil, errors.New("creating rasterizer failed").Wrap(err)
	}
	rast.SetFOV(settings.FOVRadians())

	tw, th := cfg.TileSize()
	e := &Engine{
		rast:     rast,
		tile:     render.NewTile(tw, th),
		display:  display,
		tileset:  render.NewTileset(),
		settings: settings,
	}
	for _, o := range options {
		o(e)
	}
	rast.Tileset = e.tileset
	return e, nil
}

// Rasterizer exposes the underlying rasterizer.
func (e *Engine) Rasterizer() *render.Rasterizer {
	return e.rast
}

// Settings returns the current settings.
func (e *Engine) Settings() Settings {
	return e.settings
}

// LastFrame returns the statistics of the last drawn frame.
func (e *Engine) LastFrame() FrameStats {
	return e.last
}

// UpdateFOV changes the vertical field of view, in degrees, and rebuilds
// the projection.
func (e *Engine) UpdateFOV(fov float64) {
	e.settings.FOV = fov
	e.rast.SetFOV(e.settings.FOVRadians())
}

// DrawGame renders one full frame of w seen by p and pushes it tile by
// tile. frameTime is the duration of the previous frame, shown by the
// debug HUD. A failed tile push aborts the frame.
func (e *Engine) DrawGame(w *world.World, p *world.Player, frameTime time.Duration, hud *HUD, drawHUD bool) error {
	start := time.Now()
	cam := e.rast.Camera

	stats := FrameStats{Remeshed: w.RemeshDirty()}

	p.ApplyCamera(cam)
	frustum := e.rast.BeginFrame()

	quads, origin := p.Marker()
	for _, q := range quads {
		e.addQuad(q, origin)
	}

	chunks := w.ChunksSortedByDistance(cam.Position)
	stats.Chunks = len(chunks)
	for _, c := range chunks {
		lo, hi := c.Bounds()
		if !frustum.IsAABBInFrustum(lo, hi) {
			stats.Culled++
			continue
		}
		if c.NeedSorting() || cam.HasMoved() {
			c.SortQuads(cam.Position)
		}
		origin := c.Origin()
		for _, q := range c.Mesh() {
			e.addQuad(q, origin)
		}
	}

	for _, m := range e.props {
		if !frustum.IsAABBInFrustum(m.BoundsMin, m.BoundsMax) {
			continue
		}
		stats.Props++
		for i := range m.TriangleCount() {
			e.rast.AddTriangle(m.Triangle(i))
		}
	}

	billboards := w.Billboards()
	triangles := e.rast.Queue().Len()

	sub := e.rast.Config().Subdivision
	for row := range sub {
		for col := range sub {
			e.tile.MoveTo(col, row)
			e.tile.Clear(render.Background)
			e.rast.DrawTriangles(e.tile)
			e.rast.DrawBillboards(e.tile, e.tileset, billboards)
			if drawHUD {
				e.drawHUD(e.tile, hud, frameTime, triangles)
			}
			if err := e.display.PushRect(e.tile.Bounds(), e.tile.Color); err != nil {
				return errors.New("pushing tile failed").
					WithTag("col", col).
					WithTag("row", row).
					Wrap(err)
			}
		}
	}

	if vs, ok := e.display.(render.VSyncer); ok && e.settings.VSync {
		vs.WaitForVBlank()
	}

	stats.Stats = e.rast.EndFrame()
	cam.ClearMoved()
	stats.Duration = time.Since(start)
	e.last = stats

	frameDuration.Observe(stats.Duration.Seconds())
	chunksCulled.Add(float64(stats.Culled))
	chunksRemeshed.Add(float64(stats.Remeshed))

	logs.WithTag("queued", stats.Queued).
		WithTag("queue_dropped", stats.QueueDropped).
		WithTag("fragment_drops", stats.FragmentDrops).
		WithTag("chunks", stats.Chunks).
		WithTag("culled", stats.Culled).
		WithTag("duration", stats.Duration).
		Debug("frame drawn")
	return nil
}

func (e *Engine) addQuad(q mesh.Quad, origin math3d.Vec3) {
	a, b := q.Triangles(origin)
	e.rast.AddTriangle(a)
	e.rast.AddTriangle(b)
}
