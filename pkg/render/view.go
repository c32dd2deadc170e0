package render

import (
	"github.com/pkg/errors"

	"github.com/taigrr/retroview/pkg/fixed"
)

// FieldOfView is the horizontal field of view in fine angles (90 degrees).
const FieldOfView = 2048

// Lighting constants. A sector light level is shifted down by LightSegShift
// to pick one of LightLevels rows; the column within a row comes from the
// wall scale (ScaleLight) or the plane distance (ZLight).
const (
	LightLevels     = 16
	LightSegShift   = 4
	MaxLightScale   = 48
	LightScaleShift = 12
	MaxLightZ       = 128
	LightZShift     = 20

	// NumLightMaps is how many colormaps fade from full bright to black.
	NumLightMaps = 32

	distMap = 2
	// baseWidth keeps light falloff independent of the resolution.
	baseWidth = 320
)

// Viewpoint is the camera pose for one frame.
type Viewpoint struct {
	X, Y, Z fixed.Fixed
	Angle   fixed.Angle
}

// Move returns v moved forward along its angle and strafed to the right.
func (v Viewpoint) Move(forward, right fixed.Fixed) Viewpoint {
	fine := v.Angle.Fine()
	v.X += fixed.Mul(forward, fixed.FineCosine[fine])
	v.Y += fixed.Mul(forward, fixed.FineSine[fine])

	side := (v.Angle - fixed.Ang90).Fine()
	v.X += fixed.Mul(right, fixed.FineCosine[side])
	v.Y += fixed.Mul(right, fixed.FineSine[side])
	return v
}

// Projection holds the resolution-dependent tables: the angle to column
// mapping shared by the walker and the clipper, and the light and plane
// tables the builders read. Build one per resolution with NewProjection.
type Projection struct {
	Width, Height int

	CenterX, CenterY         int
	CenterXFrac, CenterYFrac fixed.Fixed
	// Scale is the distance from the eye to the projection plane in
	// columns, as a fixed-point number.
	Scale fixed.Fixed

	// ViewAngleToX maps a fine angle offset by 90 degrees to a screen
	// column in [0, Width].
	ViewAngleToX [fixed.FineAngles / 2]int
	// XToViewAngle maps a column to the leftmost angle it covers,
	// relative to the view angle. It has Width+1 entries.
	XToViewAngle []fixed.Angle
	// ClipAngle is the angle of the left screen edge.
	ClipAngle fixed.Angle

	// ScaleLight and ZLight hold light map indices.
	ScaleLight [LightLevels][MaxLightScale]int
	ZLight     [LightLevels][MaxLightZ]int

	// YSlope and DistScale turn a plane height into a distance per row
	// and a length per column.
	YSlope    []fixed.Fixed
	DistScale []fixed.Fixed
}

// NewProjection builds the tables for a width x height view.
func NewProjection(width, height int) (*Projection, error) {
	if width < 2 || height < 2 {
		return nil, errors.Errorf("render: view %dx%d is too small", width, height)
	}
	if width > 4096 || height > 4096 {
		return nil, errors.Errorf("render: view %dx%d is too large", width, height)
	}

	p := &Projection{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
	p.CenterXFrac = fixed.FromInt(p.CenterX)
	p.CenterYFrac = fixed.FromInt(p.CenterY)
	p.Scale = p.CenterXFrac

	p.initTextureMapping()
	p.initLight()
	p.initPlanes()
	return p, nil
}

func (p *Projection) initTextureMapping() {
	focal := fixed.Div(p.CenterXFrac, fixed.FineTangent[fixed.FineAngles/4+FieldOfView/2])

	for i := range p.ViewAngleToX {
		tan := fixed.FineTangent[i]
		var t int
		switch {
		case tan > 2*fixed.FracUnit:
			t = -1
		case tan < -2*fixed.FracUnit:
			t = p.Width + 1
		default:
			t = int((p.CenterXFrac - fixed.Mul(tan, focal) + fixed.FracUnit - 1) >> fixed.FracBits)
			if t < -1 {
				t = -1
			} else if t > p.Width+1 {
				t = p.Width + 1
			}
		}
		p.ViewAngleToX[i] = t
	}

	// Scan for the lowest view angle that maps back to each x.
	p.XToViewAngle = make([]fixed.Angle, p.Width+1)
	for x := range p.XToViewAngle {
		i := 0
		for p.ViewAngleToX[i] > x {
			i++
		}
		p.XToViewAngle[x] = fixed.Angle(i<<fixed.AngleToFineShift) - fixed.Ang90
	}

	// Take out the fencepost cases.
	for i, t := range p.ViewAngleToX {
		if t == -1 {
			p.ViewAngleToX[i] = 0
		} else if t == p.Width+1 {
			p.ViewAngleToX[i] = p.Width
		}
	}

	p.ClipAngle = p.XToViewAngle[0]
}

func (p *Projection) initLight() {
	for i := range LightLevels {
		start := ((LightLevels - 1 - i) * 2) * NumLightMaps / LightLevels
		for j := range MaxLightScale {
			p.ScaleLight[i][j] = clampLight(start - j*baseWidth/p.Width/distMap)
		}
		for j := range MaxLightZ {
			scale := fixed.Div(fixed.FromInt(baseWidth/2), fixed.Fixed((j+1)<<LightZShift))
			scale >>= LightScaleShift
			p.ZLight[i][j] = clampLight(start - int(scale)/distMap)
		}
	}
}

func clampLight(level int) int {
	return min(max(level, 0), NumLightMaps-1)
}

func (p *Projection) initPlanes() {
	p.YSlope = make([]fixed.Fixed, p.Height)
	for i := range p.YSlope {
		dy := fixed.FromInt(i-p.Height/2) + fixed.FracUnit/2
		p.YSlope[i] = fixed.Div(fixed.FromInt(p.Width/2), dy.Abs())
	}

	p.DistScale = make([]fixed.Fixed, p.Width)
	for i := range p.DistScale {
		cos := fixed.FineCosine[p.XToViewAngle[i].Fine()]
		p.DistScale[i] = fixed.Div(fixed.FracUnit, cos.Abs())
	}
}

// LightRow returns the light row for a sector light level with the fake
// contrast adjustment already applied by the caller.
func LightRow(light int16, adjust int) int {
	n := int(light)>>LightSegShift + adjust
	return min(max(n, 0), LightLevels-1)
}
