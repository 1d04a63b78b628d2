package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/voxtile/pkg/mesh"
	"github.com/taigrr/voxtile/pkg/render"
)

// inputDecay is applied to the held axes after each terminal frame.
const inputDecay = 0.8

// runTerminal draws the framebuffer with half-block cells in the alternate
// screen until Esc, ctrl+c or ctx is done.
func runTerminal(ctx context.Context, g *game, fb *render.Framebuffer, conf config) error {
	// Log lines would tear the alternate screen.
	closeLogs, err := redirectLogs(conf.LogFile)
	if err != nil {
		return err
	}
	defer closeLogs()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return errors.New("reading terminal size failed").Wrap(err)
	}
	if err := term.Start(); err != nil {
		return errors.New("starting terminal failed").Wrap(err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var resize sync.Mutex
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				resize.Lock()
				term.Erase()
				term.Resize(ev.Width, ev.Height)
				resize.Unlock()

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c"):
					cancel()
					return
				case ev.MatchString("w"):
					g.setInput(func(in *input) { in.forward = 1 })
				case ev.MatchString("s"):
					g.setInput(func(in *input) { in.forward = -1 })
				case ev.MatchString("a"):
					g.setInput(func(in *input) { in.right = -1 })
				case ev.MatchString("d"):
					g.setInput(func(in *input) { in.right = 1 })
				case ev.MatchString("space"):
					g.setInput(func(in *input) { in.up = 1 })
				case ev.MatchString("shift+space", "c"):
					g.setInput(func(in *input) { in.up = -1 })
				case ev.MatchString("up"):
					g.setInput(func(in *input) { in.pitch = 1 })
				case ev.MatchString("down"):
					g.setInput(func(in *input) { in.pitch = -1 })
				case ev.MatchString("left"):
					g.setInput(func(in *input) { in.yaw = 1 })
				case ev.MatchString("right"):
					g.setInput(func(in *input) { in.yaw = -1 })
				case ev.MatchString("z"):
					g.setInput(func(in *input) { in.zoom = !in.zoom })
				case ev.MatchString("backspace"):
					g.setInput(func(in *input) { in.breakBlock = true })
				case ev.MatchString("enter"):
					g.setInput(func(in *input) { in.placeBlock = true })
				case ev.MatchString("1"):
					g.selectBlock(mesh.BlockStone)
				case ev.MatchString("2"):
					g.selectBlock(mesh.BlockGrass)
				case ev.MatchString("3"):
					g.selectBlock(mesh.BlockDirt)
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					g.toggleDebug()
				}
			}
		}
	}()

	frame := time.Second / time.Duration(conf.FPS)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
		dt := min(now.Sub(last).Seconds(), 0.1)
		last = now

		g.step(dt)
		g.setInput(func(in *input) { in.decay(inputDecay) })
		if err := g.draw(); err != nil {
			return err
		}

		resize.Lock()
		fb.Draw(term, term.Bounds())
		err := term.Display()
		resize.Unlock()
		if err != nil {
			return errors.New("flushing terminal failed").Wrap(err)
		}

		if elapsed := time.Since(now); elapsed < frame {
			time.Sleep(frame - elapsed)
		}
	}
}

// redirectLogs sends log entries to path, or drops them when path is
// empty. The returned func closes the file.
func redirectLogs(path string) (func(), error) {
	if path == "" {
		logs.SetLogger(func(logs.Entry) {})
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.New("opening log file failed").
			WithTag("path", path).
			Wrap(err)
	}

	var mu sync.Mutex
	logs.SetLogger(func(e logs.Entry) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(f, e)
	})
	return func() { f.Close() }, nil
}
