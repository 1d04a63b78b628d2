package main

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/voxtile/pkg/engine"
	"github.com/taigrr/voxtile/pkg/mesh"
	"github.com/taigrr/voxtile/pkg/world"
)

// zoomFactor divides the field of view while zooming.
const zoomFactor = 3.0

// fovEpsilon is the smallest field of view change, in degrees, pushed to
// the engine.
const fovEpsilon = 0.05

// input is the player intent collected from the keyboard since the last
// step. Axes are in [-1, 1].
type input struct {
	forward, right, up float64
	pitch, yaw         float64

	zoom       bool
	breakBlock bool
	placeBlock bool
}

// decay scales the held axes down. Terminals do not report key releases so
// the terminal mode lets held keys fade instead.
func (in *input) decay(f float64) {
	in.forward *= f
	in.right *= f
	in.up *= f
	in.pitch *= f
	in.yaw *= f
}

// axis smooths a turn rate toward its target with a critically damped
// spring.
type axis struct {
	rate   float64
	accel  float64
	spring harmonica.Spring
}

func newAxis(fps int) axis {
	return axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0)}
}

func (a *axis) update(target float64) float64 {
	a.rate, a.accel = a.spring.Update(a.rate, a.accel, target)
	return a.rate
}

// game ties the world, the player and the engine together for the
// interactive modes.
type game struct {
	engine *engine.Engine
	world  *world.World
	player *world.Player
	hud    *engine.HUD

	mu    sync.Mutex
	input input

	pitch, yaw axis

	baseFOV   float64
	fov       float64
	fovVel    float64
	fovSpring harmonica.Spring

	frameTime time.Duration
}

func newGame(e *engine.Engine, w *world.World, p *world.Player, fps int) *game {
	settings := e.Settings()
	return &game{
		engine: e,
		world:  w,
		player: p,
		hud: &engine.HUD{
			ShowDebug: settings.ShowDebug,
			Selected:  mesh.BlockStone,
		},
		pitch:     newAxis(fps),
		yaw:       newAxis(fps),
		baseFOV:   settings.FOV,
		fov:       settings.FOV,
		fovSpring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// setInput updates the pending input under the game lock.
func (g *game) setInput(fn func(in *input)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.input)
}

// selectBlock changes the block placed by the player.
func (g *game) selectBlock(b mesh.Block) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hud.Selected = b
}

func (g *game) toggleDebug() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hud.ShowDebug = !g.hud.ShowDebug
}

// step advances the simulation by dt seconds: the player moves and turns,
// chunks are streamed around it, entities fall and the targeted block is
// refreshed before any break or place.
func (g *game) step(dt float64) {
	g.mu.Lock()
	in := g.input
	g.input.breakBlock = false
	g.input.placeBlock = false
	selected := g.hud.Selected
	g.mu.Unlock()

	pitch := g.pitch.update(in.pitch * world.TurnSpeed)
	yaw := g.yaw.update(in.yaw * world.TurnSpeed)
	g.player.Turn(pitch*dt, yaw*dt)

	dist := world.FlySpeed * dt
	g.player.Move(in.forward*dist, in.right*dist, in.up*dist)

	g.world.LoadAround(g.player.Position, g.engine.Settings().RenderDistance)
	g.world.UpdateEntities(dt)

	g.player.Update(g.world)
	if in.breakBlock {
		g.player.BreakBlock(g.world)
	}
	if in.placeBlock {
		g.player.PlaceBlock(g.world, selected)
	}

	target := g.baseFOV
	if in.zoom {
		target = math.Max(g.baseFOV/zoomFactor, engine.MinFOV)
	}
	prev := g.fov
	g.fov, g.fovVel = g.fovSpring.Update(g.fov, g.fovVel, target)
	if math.Abs(g.fov-prev) > fovEpsilon {
		g.engine.UpdateFOV(g.fov)
	}
}

// draw renders one frame and records how long it took for the next HUD.
func (g *game) draw() error {
	start := time.Now()

	g.mu.Lock()
	hud := *g.hud
	g.mu.Unlock()

	err := g.engine.DrawGame(g.world, g.player, g.frameTime, &hud, true)
	g.frameTime = time.Since(start)
	return err
}
