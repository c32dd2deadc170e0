package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/retroview/pkg/draw"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retroview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, draw.Wall, cfg.WallMode())

	lvl, err := cfg.Level.Builder().Build()
	require.NoError(t, err)
	// One pillar cell is solid rock.
	assert.Len(t, lvl.Subsectors, cfg.Level.Cols*cfg.Level.Rows-1)
}

func TestLoadEmptyPathUsesEnv(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := writeConfig(t, "screen:\n  width: 160\n  height: 100\n")
	t.Setenv(EnvPath, path)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 160, cfg.Screen.Width)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
screen:
  width: 640
render:
  wall_mode: fullbright-wall
  flip_sky: true
view:
  angle: 90
level:
  cols: 3
  rows: 1
  sky: true
  cells:
    - {col: 1, row: 0, floor: 16, light: 96}
    - {col: 2, row: 0, sky: false}
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Screen.Width)
	assert.Equal(t, 200, cfg.Screen.Height, "unset keys keep their defaults")
	assert.Equal(t, draw.FullbrightWall, cfg.WallMode())
	assert.True(t, cfg.Render.FlipSky)
	assert.Equal(t, 90.0, cfg.View.Angle)
	assert.Equal(t, 96.0, cfg.View.X)

	lvl, err := cfg.Level.Builder().Build()
	require.NoError(t, err)
	require.Len(t, lvl.Sectors, 3)
	assert.True(t, lvl.IsSky(lvl.Sectors[0].CeilingPic))
	assert.Equal(t, int16(96), lvl.Sectors[1].LightLevel)
	assert.Equal(t, 16, lvl.Sectors[1].FloorHeight.Int())
	assert.False(t, lvl.IsSky(lvl.Sectors[2].CeilingPic))

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))

	_, err = Load(writeConfig(t, "screen: [1, 2"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)

	_, err = Load(writeConfig(t, "screen:\n  width: 1\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *Config)
	}{
		{"narrow screen", func(c *Config) { c.Screen.Width = 1 }},
		{"huge screen", func(c *Config) { c.Screen.Height = 5000 }},
		{"zero png scale", func(c *Config) { c.Screen.PNGScale = 0 }},
		{"unknown wall mode", func(c *Config) { c.Render.WallMode = "glow" }},
		{"non-wall mode", func(c *Config) { c.Render.WallMode = draw.Fuzz.String() }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"empty level", func(c *Config) { c.Level.Cols = 0 }},
		{"tiny cells", func(c *Config) { c.Level.CellSize = 8 }},
		{"cell outside", func(c *Config) { c.Level.Cells = []CellConfig{{Col: 9, Row: 0}} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.edit(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
