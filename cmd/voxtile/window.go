package main

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/voxtile/pkg/mesh"
	"github.com/taigrr/voxtile/pkg/render"
)

// runWindow opens a desktop window showing the framebuffer. It blocks until
// the window closes, Esc is pressed or ctx is done.
func runWindow(ctx context.Context, g *game, fb *render.Framebuffer, conf config) error {
	wg := &windowGame{
		ctx:  ctx,
		game: g,
		fb:   fb,
		dt:   1 / float64(conf.FPS),
	}

	ebiten.SetWindowTitle("voxtile " + version)
	ebiten.SetWindowSize(fb.Width*conf.Scale, fb.Height*conf.Scale)
	ebiten.SetTPS(conf.FPS)
	return ebiten.RunGame(wg)
}

type windowGame struct {
	ctx  context.Context
	game *game
	fb   *render.Framebuffer
	dt   float64

	fbImg *ebiten.Image
}

func keyAxis(neg, pos ebiten.Key) float64 {
	v := 0.0
	if ebiten.IsKeyPressed(neg) {
		v--
	}
	if ebiten.IsKeyPressed(pos) {
		v++
	}
	return v
}

func (w *windowGame) poll() {
	g := w.game
	g.setInput(func(in *input) {
		in.forward = keyAxis(ebiten.KeyS, ebiten.KeyW)
		in.right = keyAxis(ebiten.KeyA, ebiten.KeyD)
		in.up = keyAxis(ebiten.KeyShiftLeft, ebiten.KeySpace)
		in.pitch = keyAxis(ebiten.KeyArrowDown, ebiten.KeyArrowUp)
		in.yaw = keyAxis(ebiten.KeyArrowRight, ebiten.KeyArrowLeft)
		in.zoom = ebiten.IsKeyPressed(ebiten.KeyZ)
		in.breakBlock = in.breakBlock || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
		in.placeBlock = in.placeBlock || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	})

	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		g.selectBlock(mesh.BlockStone)
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		g.selectBlock(mesh.BlockGrass)
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		g.selectBlock(mesh.BlockDirt)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.toggleDebug()
	}
}

func (w *windowGame) Update() error {
	if w.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	w.poll()
	w.game.step(w.dt)
	return w.game.draw()
}

func (w *windowGame) Draw(screen *ebiten.Image) {
	if w.fbImg == nil {
		w.fbImg = ebiten.NewImage(w.fb.Width, w.fb.Height)
	}
	w.fbImg.WritePixels(w.fb.ToImage().Pix)
	screen.DrawImage(w.fbImg, nil)
}

func (w *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.fb.Width, w.fb.Height
}
