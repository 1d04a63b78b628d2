package engine

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		valid  bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"wide fov", func(s *Settings) { s.FOV = MaxFOV }, true},
		{"narrow fov", func(s *Settings) { s.FOV = MinFOV - 1 }, false},
		{"too wide fov", func(s *Settings) { s.FOV = MaxFOV + 1 }, false},
		{"zero render distance", func(s *Settings) { s.RenderDistance = 0 }, false},
		{"far render distance", func(s *Settings) { s.RenderDistance = MaxRenderDistance + 1 }, false},
		{"single tile", func(s *Settings) { s.Subdivision = 1 }, true},
		{"no tiles", func(s *Settings) { s.Subdivision = 0 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.modify(&s)
			if tc.valid {
				require.NoError(t, s.Validate())
			} else {
				require.Error(t, s.Validate())
			}
		})
	}
}

func TestSettingsFOVRadians(t *testing.T) {
	require.InDelta(t, math.Pi/4, DefaultSettings().FOVRadians(), 1e-12)
}

func TestLoadSettingsCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxtile", "settings.toml")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, DefaultSettings(), s)
	require.FileExists(t, path)

	s, err = LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, DefaultSettings(), s)
}

func TestSaveAndLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	want := Settings{
		FOV:            70,
		RenderDistance: 3,
		Subdivision:    4,
		VSync:          true,
		ShowDebug:      true,
		Tileset:        "tiles.png",
	}
	require.NoError(t, SaveSettings(path, want))

	got, err := LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadSettingsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("ShowDebug = true\n"), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	require.True(t, s.ShowDebug)
	require.Equal(t, DefaultSettings().FOV, s.FOV)
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "FOV = [\n"},
		{"wrong type", "FOV = \"wide\"\n"},
		{"out of range", "FOV = 500.0\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := LoadSettings(path)
			require.Error(t, err)
		})
	}
}
