package main

import (
	"context"
	"fmt"
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/mesh"
	"github.com/taigrr/voxtile/pkg/render"
	"github.com/taigrr/voxtile/pkg/world"
)

// headlessTurn is the total yaw, in radians, swept over a headless run.
const headlessTurn = math.Pi / 2

// runHeadless draws conf.Frames frames while slowly turning the player,
// then writes the last frame to conf.Output and, when requested, the chunk
// meshes to conf.Export.
func runHeadless(ctx context.Context, g *game, fb *render.Framebuffer, conf config) error {
	dt := 1 / float64(conf.FPS)
	g.player.Turn(-0.35, 0)

	for i := range conf.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}

		g.setInput(func(in *input) { in.yaw = headlessTurn / (float64(conf.Frames) * dt * world.TurnSpeed) })
		g.step(dt)
		if err := g.draw(); err != nil {
			return errors.New("drawing frame failed").
				WithTag("frame", i).
				Wrap(err)
		}
	}

	stats := g.engine.LastFrame()
	logs.WithTag("frames", conf.Frames).
		WithTag("chunks", stats.Chunks).
		WithTag("culled", stats.Culled).
		WithTag("queued", stats.Queued).
		WithTag("queue_dropped", stats.QueueDropped).
		WithTag("frame_time", g.frameTime).
		Info("headless run done")

	if err := fb.SavePNG(conf.Output, conf.Scale); err != nil {
		return errors.New("saving frame failed").
			WithTag("path", conf.Output).
			Wrap(err)
	}
	logs.WithTag("path", conf.Output).Info("frame saved")

	if conf.Export == "" {
		return nil
	}
	meshes := chunkMeshes(g.world)
	if err := mesh.SaveGLB(conf.Export, meshes...); err != nil {
		return errors.New("exporting chunks failed").
			WithTag("path", conf.Export).
			Wrap(err)
	}
	logs.WithTag("path", conf.Export).
		WithTag("meshes", len(meshes)).
		Info("chunks exported")
	return nil
}

// chunkMeshes converts every non-empty chunk mesh to an indexed mesh in
// world space.
func chunkMeshes(w *world.World) []*mesh.Mesh {
	w.RemeshDirty()

	var meshes []*mesh.Mesh
	for _, c := range w.ChunksSortedByDistance(math3d.Zero3()) {
		quads := c.Mesh()
		if len(quads) == 0 {
			continue
		}
		m := mesh.NewMesh(fmt.Sprintf("chunk_%d_%d_%d", c.Coord.X, c.Coord.Y, c.Coord.Z))
		m.AddQuads(quads, c.Origin())
		meshes = append(meshes, m)
	}
	return meshes
}
