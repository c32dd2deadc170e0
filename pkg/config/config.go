// Package config loads the viewer's YAML configuration.
package config

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/retroview/pkg/draw"
	"github.com/taigrr/retroview/pkg/level"
)

// EnvPath names the environment variable Load falls back to.
const EnvPath = "RETROVIEW_CONFIG"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the root of the configuration file.
type Config struct {
	Screen ScreenConfig `yaml:"screen"`
	Render RenderConfig `yaml:"render"`
	View   ViewConfig   `yaml:"view"`
	Level  LevelConfig  `yaml:"level"`
	Log    LogConfig    `yaml:"log"`
}

type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// PNGScale upscales screenshots by a whole factor.
	PNGScale int `yaml:"png_scale"`
}

type RenderConfig struct {
	// WallMode is a blend mode name, "wall" or "fullbright-wall".
	WallMode   string `yaml:"wall_mode"`
	Sparkle    bool   `yaml:"sparkle"`
	Fullbright bool   `yaml:"fullbright"`
	ExtraLight int    `yaml:"extra_light"`
	FlipSky    bool   `yaml:"flip_sky"`
	FuzzSeed   uint32 `yaml:"fuzz_seed"`
	// Palette is an optional 768-byte palette file.
	Palette string `yaml:"palette"`
}

// ViewConfig is the starting viewpoint in map units and degrees.
type ViewConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Angle float64 `yaml:"angle"`
}

type LevelConfig struct {
	Cols     int  `yaml:"cols"`
	Rows     int  `yaml:"rows"`
	CellSize int  `yaml:"cell_size"`
	Sky      bool `yaml:"sky"`

	Cells []CellConfig `yaml:"cells"`
}

// CellConfig overrides one grid cell. Unset fields keep the default cell's
// values.
type CellConfig struct {
	Col   int    `yaml:"col"`
	Row   int    `yaml:"row"`
	Void  bool   `yaml:"void"`
	Group int    `yaml:"group"`
	Floor *int   `yaml:"floor,omitempty"`
	Ceil  *int   `yaml:"ceiling,omitempty"`
	Light *int16 `yaml:"light,omitempty"`
	Sky   *bool  `yaml:"sky,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file is given: a 5x4
// room with a pillar and a raised platform.
func Default() *Config {
	return &Config{
		Screen: ScreenConfig{Width: 320, Height: 200, PNGScale: 2},
		Render: RenderConfig{WallMode: draw.Wall.String(), FuzzSeed: 1},
		View:   ViewConfig{X: 96, Y: 96, Z: 41},
		Level: LevelConfig{
			Cols:     5,
			Rows:     4,
			CellSize: 128,
			Cells: []CellConfig{
				{Col: 2, Row: 2, Void: true},
				{Col: 3, Row: 1, Floor: ptr(24), Light: ptr[int16](200)},
				{Col: 4, Row: 1, Floor: ptr(24), Ceil: ptr(96), Light: ptr[int16](200)},
				{Col: 0, Row: 3, Sky: ptr(true), Ceil: ptr(192)},
			},
		},
		Log: LogConfig{Level: "info", File: "retroview.log"},
	}
}

func ptr[T any](v T) *T { return &v }

// Load reads a configuration file over the defaults. An empty path falls
// back to $RETROVIEW_CONFIG, and to the defaults alone when that is unset.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return cfg, nil
}

// Validate checks every field that could not be rendered.
func (c *Config) Validate() error {
	if c.Screen.Width < 2 || c.Screen.Width > 4096 || c.Screen.Height < 2 || c.Screen.Height > 4096 {
		return errors.Wrapf(ErrInvalid, "screen %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Screen.PNGScale < 1 {
		return errors.Wrapf(ErrInvalid, "png_scale %d", c.Screen.PNGScale)
	}
	if mode, ok := draw.ParseBlendMode(c.Render.WallMode); !ok || (mode != draw.Wall && mode != draw.FullbrightWall) {
		return errors.Wrapf(ErrInvalid, "wall_mode %q", c.Render.WallMode)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}

	lc := c.Level
	if lc.Cols < 1 || lc.Rows < 1 {
		return errors.Wrapf(ErrInvalid, "level %dx%d", lc.Cols, lc.Rows)
	}
	if lc.CellSize < 16 {
		return errors.Wrapf(ErrInvalid, "cell_size %d", lc.CellSize)
	}
	for i, cell := range lc.Cells {
		if cell.Col < 0 || cell.Col >= lc.Cols || cell.Row < 0 || cell.Row >= lc.Rows {
			return errors.Wrapf(ErrInvalid, "cell %d at (%d,%d) is outside the grid", i, cell.Col, cell.Row)
		}
	}
	return nil
}

// WallMode returns the parsed wall blend mode.
func (c *Config) WallMode() draw.BlendMode {
	mode, ok := draw.ParseBlendMode(c.Render.WallMode)
	if !ok {
		return draw.Wall
	}
	return mode
}

// LogLevel parses the log level name.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.Wrapf(ErrInvalid, "log level %q", c.Log.Level)
	}
	return l, nil
}

// Builder returns a grid builder for the level section.
func (lc LevelConfig) Builder() *level.GridBuilder {
	b := level.NewGridBuilder(lc.Cols, lc.Rows)
	b.CellSize = lc.CellSize
	ceiling := b.Default.CeilingPic
	if lc.Sky {
		b.Default.CeilingPic = b.SkyFlat
	}
	for _, o := range lc.Cells {
		cell := b.Cell(o.Col, o.Row)
		cell.Void = o.Void
		cell.Group = o.Group
		if o.Floor != nil {
			cell.Floor = *o.Floor
		}
		if o.Ceil != nil {
			cell.Ceiling = *o.Ceil
		}
		if o.Light != nil {
			cell.Light = *o.Light
		}
		if o.Sky != nil {
			cell.CeilingPic = ceiling
			if *o.Sky {
				cell.CeilingPic = b.SkyFlat
			}
		}
		b.Set(o.Col, o.Row, cell)
	}
	return b
}
