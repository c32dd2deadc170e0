package render

import (
	"github.com/taigrr/retroview/pkg/draw"
	"github.com/taigrr/retroview/pkg/fixed"
	"github.com/taigrr/retroview/pkg/level"
)

const (
	// Sky columns wrap four times around a full turn.
	angleToSkyShift = 22
	skyTextureMid   = 100 * fixed.FracUnit
)

// FlatFill is a PlaneSink that textures floor and ceiling pixels as soon
// as they are marked, one single-pixel span per row, and draws sky columns
// where the ceiling is the sky flat. It keeps no visplanes, so nothing has
// to be drawn after the walk.
type FlatFill struct {
	Raster   *draw.Rasterizer
	Textures *draw.TextureSet
	Proj     *Projection
	SkyFlat  level.FlatID

	FlipSky    bool
	Fullbright bool
	ExtraLight int

	view         Viewpoint
	planes       []flatPlane
	baseXScale   fixed.Fixed
	baseYScale   fixed.Fixed
	skyIScale    fixed.Fixed
	span         draw.Span
	sky          draw.Column
	markedPixels int
}

type flatPlane struct {
	height fixed.Fixed
	pic    level.FlatID
	light  int16

	flat   *draw.Flat
	sky    bool
	dz     fixed.Fixed
	lights *[MaxLightZ]int
}

// NewFlatFill returns a sink drawing through r.
func NewFlatFill(r *draw.Rasterizer, ts *draw.TextureSet, proj *Projection, sky level.FlatID) *FlatFill {
	return &FlatFill{
		Raster:    r,
		Textures:  ts,
		Proj:      proj,
		SkyFlat:   sky,
		skyIScale: fixed.FracUnit * baseWidth / fixed.Fixed(proj.Width),
	}
}

// BeginFrame implements FrameStarter.
func (f *FlatFill) BeginFrame(view Viewpoint) {
	f.view = view
	f.planes = f.planes[:0]
	f.markedPixels = 0

	angle := view.Angle - fixed.Ang90
	f.baseXScale = fixed.Div(fixed.Cos(angle), f.Proj.CenterXFrac)
	f.baseYScale = -fixed.Div(fixed.Sin(angle), f.Proj.CenterXFrac)
}

// FindPlane implements PlaneSink. Identical planes share a handle.
func (f *FlatFill) FindPlane(height fixed.Fixed, pic level.FlatID, light int16) PlaneHandle {
	sky := pic == f.SkyFlat
	if sky {
		// Every sky is the same plane.
		height, light = 0, 0
	}
	for i := range f.planes {
		p := &f.planes[i]
		if p.height == height && p.pic == pic && p.light == light {
			return PlaneHandle(i)
		}
	}

	p := flatPlane{height: height, pic: pic, light: light, sky: sky}
	if !sky {
		p.flat = f.Textures.Flat(pic)
		if p.flat == nil {
			return NoPlane
		}
		p.dz = (height - f.view.Z).Abs()
		p.lights = &f.Proj.ZLight[LightRow(light, f.ExtraLight)]
	} else if f.Textures.Sky == nil {
		return NoPlane
	}
	f.planes = append(f.planes, p)
	return PlaneHandle(len(f.planes) - 1)
}

// MarkPlane implements PlaneSink.
func (f *FlatFill) MarkPlane(h PlaneHandle, x, top, bottom int) {
	p := &f.planes[h]
	f.markedPixels += bottom - top + 1
	if p.sky {
		f.drawSky(x, top, bottom)
		return
	}
	for y := top; y <= bottom; y++ {
		f.mapPlane(p, y, x)
	}
}

// MarkedPixels returns how many plane pixels were drawn this frame.
func (f *FlatFill) MarkedPixels() int {
	return f.markedPixels
}

func (f *FlatFill) mapPlane(p *flatPlane, y, x int) {
	proj := f.Proj
	distance := fixed.Mul(p.dz, proj.YSlope[y])
	length := fixed.Mul(distance, proj.DistScale[x])
	angle := (f.view.Angle + proj.XToViewAngle[x]).Fine()

	s := &f.span
	s.Y, s.X1, s.X2 = y, x, x
	s.XFrac = f.view.X + fixed.Mul(fixed.FineCosine[angle], length)
	s.YFrac = -f.view.Y - fixed.Mul(fixed.FineSine[angle], length)
	s.XStep = fixed.Mul(distance, f.baseXScale)
	s.YStep = fixed.Mul(distance, f.baseYScale)
	s.Source = p.flat.Pixels

	light := 0
	if !f.Fullbright {
		// Rows next to the horizon can overflow the distance.
		z := min(max(int(distance>>LightZShift), 0), MaxLightZ-1)
		light = p.lights[z]
	}
	s.Colormap = f.Raster.Tables.Colormap(light)
	f.Raster.DrawSpan(draw.SpanOpaque, s)
}

func (f *FlatFill) drawSky(x, top, bottom int) {
	tex := f.Textures.Sky
	angle := (f.view.Angle + f.Proj.XToViewAngle[x]) >> angleToSkyShift

	c := &f.sky
	c.X, c.YL, c.YH = x, top, bottom
	c.Step = f.skyIScale
	c.Frac = skyTextureMid + fixed.Fixed(top-f.Proj.CenterY)*c.Step
	c.Source = tex.Column(int(angle))
	c.TexHeight = tex.Height
	c.Colormap = f.Raster.Tables.Colormap(0)

	mode := draw.Sky
	if f.FlipSky {
		mode = draw.FlippedSky
	}
	f.Raster.DrawColumn(mode, c)
}
