// voxtile - voxel world explorer drawn by a tile-based software renderer.
//
// The frame is rasterized into a 320x240 RGB565 framebuffer one screen tile
// at a time and shown in a desktop window, in the terminal, or written to a
// PNG file.
//
// Controls:
//
//	W/A/S/D     - Fly forward, left, back, right
//	Space/Shift - Fly up/down
//	Arrows      - Look around
//	Z           - Zoom
//	Left click  - Break the targeted block (Backspace in the terminal)
//	Right click - Place the selected block (Enter in the terminal)
//	1/2/3       - Select stone, grass or dirt
//	F3          - Toggle debug overlay (? in the terminal)
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"github.com/taigrr/voxtile/pkg/engine"
	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/mesh"
	"github.com/taigrr/voxtile/pkg/render"
	"github.com/taigrr/voxtile/pkg/world"
)

var (
	// The voxtile version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "voxtile_info",
		Help:        "Voxtile information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// Output modes.
const (
	modeWindow   = "window"
	modeTerminal = "terminal"
	modeHeadless = "headless"
)

// propSpacing is the distance between props placed in front of the spawn.
const propSpacing = 4.0

var _ = reflect.TypeOf(config{})

type config struct {
	Mode        string   `cli:""        env:"VOXTILE_MODE"         help:"Output mode (window|terminal|headless)."`
	Settings    string   `cli:""        env:"VOXTILE_SETTINGS"     help:"Path of the TOML settings file."`
	Props       []string `cli:""        env:"VOXTILE_PROPS"        help:"Comma separated glTF binary files drawn in front of the spawn."`
	Frames      int      `cli:""        env:"VOXTILE_FRAMES"       help:"Number of frames drawn in headless mode."`
	Output      string   `cli:""        env:"VOXTILE_OUTPUT"       help:"PNG file written in headless mode."`
	Export      string   `cli:""        env:"VOXTILE_EXPORT"       help:"glTF binary file receiving the chunk meshes in headless mode."`
	Scale       int      `cli:",hidden" env:"VOXTILE_SCALE"        help:"Upscaling factor of the window and the PNG output."`
	FPS         int      `cli:",hidden" env:"VOXTILE_FPS"          help:"Target frames per second."`
	MetricsAddr string   `cli:""        env:"VOXTILE_METRICS_ADDR" help:"Listening address of the Prometheus metrics endpoint. Disabled when empty."`
	LogLevel    string   `cli:""        env:"VOXTILE_LOG_LEVEL"    help:"Log level (debug|info|warning|error)."`
	LogIndent   bool     `cli:""        env:"VOXTILE_LOG_INDENT"   help:"Indent logs."`
	LogFile     string   `cli:""        env:"VOXTILE_LOG_FILE"     help:"File receiving the logs in terminal mode. Logs are dropped when empty."`
	Version     bool     `cli:""        env:"-"                    help:"Show version."`
	Help        bool     `cli:""        env:"-"                    help:"Show help."`
}

func main() {
	conf := config{
		Mode:     modeWindow,
		Settings: defaultSettingsPath(),
		Frames:   60,
		Output:   "frame.png",
		Scale:    2,
		FPS:      30,
		LogLevel: logs.InfoLevel.String(),
	}

	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Explores a voxel world drawn by a tile-based software renderer.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	settings, err := engine.LoadSettings(conf.Settings)
	if err != nil {
		logs.Fatal(err)
	}

	if conf.MetricsAddr != "" {
		go serveMetrics(ctx, conf.MetricsAddr)
	}

	logs.WithTag("version", version).
		WithTag("mode", conf.Mode).
		WithTag("settings", conf.Settings).
		WithTag("render_distance", settings.RenderDistance).
		Info("starting voxtile")

	if err := run(ctx, conf, settings); err != nil {
		logs.Fatal(err)
	}
}

func run(ctx context.Context, conf config, settings engine.Settings) error {
	cfg := render.DefaultConfig()
	fb := render.NewFramebuffer(cfg.ScreenWidth, cfg.ScreenHeight)

	gen := world.FlatGenerator{Height: world.DefaultGroundHeight}
	w := world.New(gen)
	spawn := math3d.V3(4.5, float64(gen.SurfaceY()), 4.5)
	p := world.NewPlayer(spawn)

	var options []engine.Option
	if settings.Tileset != "" {
		ts, err := render.LoadTileset(settings.Tileset)
		if err != nil {
			return errors.New("loading tileset failed").
				WithTag("path", settings.Tileset).
				Wrap(err)
		}
		options = append(options, engine.WithTileset(ts))
	}

	props, err := loadProps(conf.Props, spawn)
	if err != nil {
		return err
	}
	options = append(options, engine.WithProps(props...))

	e, err := engine.New(fb, cfg, settings, options...)
	if err != nil {
		return errors.New("creating engine failed").Wrap(err)
	}

	g := newGame(e, w, p, conf.FPS)

	switch conf.Mode {
	case modeTerminal:
		return runTerminal(ctx, g, fb, conf)
	case modeHeadless:
		return runHeadless(ctx, g, fb, conf)
	default:
		return runWindow(ctx, g, fb, conf)
	}
}

// loadProps reads glTF props and lines them up in front of spawn, resting
// on the ground and facing it.
func loadProps(paths []string, spawn math3d.Vec3) ([]*mesh.Mesh, error) {
	props := make([]*mesh.Mesh, 0, len(paths))
	for i, path := range paths {
		m, err := mesh.LoadGLB(path)
		if err != nil {
			return nil, errors.New("loading prop failed").
				WithTag("path", path).
				Wrap(err)
		}

		// Turn the prop's +Z side toward the spawn.
		offset := math3d.V3(float64(i)*propSpacing, 0, -6)
		m.Transform(math3d.RotateY(math.Atan2(-offset.X, -offset.Z)))

		anchor := math3d.V3(m.Center().X, m.BoundsMin.Y, m.Center().Z)
		target := spawn.Add(offset)
		m.Transform(math3d.Translate(target.Sub(anchor)))
		m.CalculateBounds()

		logs.WithTag("path", path).
			WithTag("triangles", m.TriangleCount()).
			Debug("prop loaded")
		props = append(props, m)
	}
	return props, nil
}

func serveMetrics(ctx context.Context, addr string) {
	var mux http.ServeMux
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: &mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logs.WithTag("addr", addr).Info("serving metrics")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logs.Warn(errors.New("serving metrics failed").
			WithTag("addr", addr).
			Wrap(err))
	}
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "voxtile.toml"
	}
	return filepath.Join(dir, "voxtile", "settings.toml")
}

func validateConfig(conf config) error {
	switch conf.Mode {
	case modeWindow, modeTerminal, modeHeadless:
	default:
		return errors.New("unknown output mode").WithTag("mode", conf.Mode)
	}
	if conf.FPS <= 0 {
		return errors.New("invalid target fps").WithTag("fps", conf.FPS)
	}
	if conf.Scale <= 0 {
		return errors.New("invalid scale").WithTag("scale", conf.Scale)
	}
	if conf.Mode == modeHeadless && conf.Frames <= 0 {
		return errors.New("headless mode needs at least one frame").
			WithTag("frames", conf.Frames)
	}
	return nil
}
