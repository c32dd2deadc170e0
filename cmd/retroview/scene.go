package main

import (
	"fmt"

	"github.com/taigrr/retroview/pkg/config"
	"github.com/taigrr/retroview/pkg/draw"
	"github.com/taigrr/retroview/pkg/level"
	"github.com/taigrr/retroview/pkg/palette"
	"github.com/taigrr/retroview/pkg/render"
)

// FuzzMode selects the spectre overlay.
type FuzzMode int

const (
	FuzzOff    FuzzMode = iota
	FuzzColumn          // drawn column by column
	FuzzBuffer          // masked, then one whole-screen pass
)

func (m FuzzMode) String() string {
	switch m {
	case FuzzColumn:
		return "column"
	case FuzzBuffer:
		return "buffer"
	}
	return "off"
}

// Scene owns everything one frame is drawn with. Resize rebuilds the
// size-dependent parts.
type Scene struct {
	Level    *level.Level
	Palette  *palette.Palette
	Tables   *draw.Tables
	Textures *draw.TextureSet
	cfg      *config.Config

	Screen   *draw.Screen
	Raster   *draw.Rasterizer
	Renderer *render.Renderer
	Walls    *render.ColumnWalls
	Flats    *render.FlatFill

	Fuzz        FuzzMode
	FuzzPaused  bool
	ShowRanges  bool
	ranges      []render.WallRange
	recordWalls render.WallBuilder
}

// NewScene prepares tables and textures and sizes the scene.
func NewScene(cfg *config.Config, lvl *level.Level, pal *palette.Palette, width, height int) (*Scene, error) {
	s := &Scene{
		Level:    lvl,
		Palette:  pal,
		Tables:   draw.NewTables(pal),
		Textures: draw.DefaultTextures(),
		cfg:      cfg,
	}
	s.recordWalls = render.WallBuilderFunc(func(ctx *render.Context, r render.WallRange) {
		if s.ShowRanges {
			s.ranges = append(s.ranges, r)
		}
		s.Walls.StoreWallRange(ctx, r)
	})
	if err := s.Resize(width, height); err != nil {
		return nil, err
	}
	return s, nil
}

// Resize rebuilds the screen and projection for a new size.
func (s *Scene) Resize(width, height int) error {
	proj, err := render.NewProjection(width, height)
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	rc := s.cfg.Render

	s.Screen = draw.NewScreen(width, height)
	s.Raster = draw.NewRasterizer(s.Screen, s.Tables)
	s.Raster.Fuzz.Seed(rc.FuzzSeed)

	s.Walls = render.NewColumnWalls(s.Raster, s.Textures)
	s.Walls.Mode = s.cfg.WallMode()
	s.Walls.Sparkle = rc.Sparkle
	s.Walls.Fullbright = rc.Fullbright
	s.Walls.ExtraLight = rc.ExtraLight
	if s.Walls.Mode == draw.FullbrightWall {
		s.Walls.Colormask = brightMask(s.Palette)
	}

	s.Flats = render.NewFlatFill(s.Raster, s.Textures, proj, s.Level.SkyFlat)
	s.Flats.FlipSky = rc.FlipSky
	s.Flats.Fullbright = rc.Fullbright
	s.Flats.ExtraLight = rc.ExtraLight

	if s.Renderer == nil {
		s.Renderer = render.NewRenderer(s.Level, proj)
	}
	s.Renderer.Proj = proj
	s.Renderer.Walls = s.recordWalls
	s.Renderer.Planes = s.Flats
	return nil
}

// Draw renders one frame from view plus the enabled overlays.
func (s *Scene) Draw(view render.Viewpoint) (render.FrameStats, error) {
	s.ranges = s.ranges[:0]
	stats, err := s.Renderer.RenderFrame(view)
	if err != nil {
		return stats, err
	}
	s.drawFuzz()
	if s.ShowRanges {
		s.drawRanges()
	}
	return stats, nil
}

// drawFuzz draws a spectre-shaped blob in the middle of the view.
func (s *Scene) drawFuzz() {
	if s.Fuzz == FuzzOff {
		return
	}
	w, h := s.Screen.Width, s.Screen.Height
	cx, half := w/2, max(w/10, 1)
	top, bottom := h/3, h*3/4

	mode := draw.Fuzz
	switch {
	case s.Fuzz == FuzzBuffer:
		s.Screen.ClearSilhouette()
		mode = draw.FuzzMask
	case s.FuzzPaused:
		mode = draw.PausedFuzz
	}

	var c draw.Column
	for x := cx - half; x <= cx+half; x++ {
		// Round the top so the silhouette has edges to shimmer.
		dx := x - cx
		c.X = x
		c.YL = top + dx*dx*(bottom-top)/(4*half*half+1)
		c.YH = bottom
		s.Raster.DrawColumn(mode, &c)
	}

	if s.Fuzz == FuzzBuffer {
		if s.FuzzPaused {
			s.Raster.ReplayFuzzBuffer()
		} else {
			s.Raster.DrawFuzzBuffer()
		}
	}
}

// drawRanges outlines the last frame's wall ranges along the top rows:
// solid walls in red, windows in green.
func (s *Scene) drawRanges() {
	const red, green = 176, 112
	for _, r := range s.ranges {
		c := byte(red)
		y := 0
		if r.Kind == render.SegWindow {
			c, y = green, 4
		}
		s.Screen.DrawRect(r.X1, y, r.X2-r.X1+1, 3, c)
		s.Screen.DrawLine(r.X1, y, r.X1, s.Screen.Height-1, c)
	}
}

// brightMask marks the brightest palette entries as fullbright.
func brightMask(p *palette.Palette) []byte {
	mask := make([]byte, 256)
	for i, c := range p {
		if int(c.R)+int(c.G)+int(c.B) > 600 {
			mask[i] = 1
		}
	}
	return mask
}
