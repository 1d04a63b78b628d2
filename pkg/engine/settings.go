package engine

import (
	"bytes"
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/taigrr/voxtile/pkg/world"
)

// Settings are the user-tunable render options persisted between runs.
type Settings struct {
	FOV            float64 // vertical, degrees
	RenderDistance int     // chunks around the player
	Subdivision    int     // tiles per screen axis
	VSync          bool
	ShowDebug      bool
	Tileset        string // optional 128x128 PNG sprite atlas
}

// Settings limits.
const (
	MinFOV            = 30.0
	MaxFOV            = 110.0
	MaxRenderDistance = 4
)

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		FOV:            45,
		RenderDistance: world.DefaultRenderDistance,
		Subdivision:    2,
	}
}

// FOVRadians returns the field of view in radians.
func (s Settings) FOVRadians() float64 {
	return s.FOV * math.Pi / 180
}

// Validate checks the settings ranges.
func (s Settings) Validate() error {
	if s.FOV < MinFOV || s.FOV > MaxFOV {
		return errors.New("fov out of range").
			WithTag("fov", s.FOV).
			WithTag("min", MinFOV).
			WithTag("max", MaxFOV)
	}
	if s.RenderDistance < 1 || s.RenderDistance > MaxRenderDistance {
		return errors.New("render distance out of range").
			WithTag("render_distance", s.RenderDistance)
	}
	if s.Subdivision < 1 {
		return errors.New("invalid tile subdivision").
			WithTag("subdivision", s.Subdivision)
	}
	return nil
}

// LoadSettings reads settings from a TOML file. A missing file yields the
// defaults, which are then written to path.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logs.WithTag("path", path).Info("initializing settings")
		return s, SaveSettings(path, s)
	}

	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Settings{}, errors.New("reading settings failed").
			WithTag("path", path).
			Wrap(err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, errors.New("invalid settings").
			WithTag("path", path).
			Wrap(err)
	}
	return s, nil
}

// SaveSettings writes s to path as TOML, creating the directory if needed.
func SaveSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.New("creating settings directory failed").
			WithTag("path", path).
			Wrap(err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return errors.New("encoding settings failed").Wrap(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.New("writing settings failed").
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}
