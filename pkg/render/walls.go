package render

import (
	"github.com/taigrr/retroview/pkg/draw"
	"github.com/taigrr/retroview/pkg/fixed"
	"github.com/taigrr/retroview/pkg/level"
)

const (
	// Wall heights are stepped with four fewer fraction bits so the
	// products stay inside 32 bits.
	heightBits = 12
	heightUnit = 1 << heightBits

	minScale = 256
	maxScale = 64 * fixed.FracUnit
)

// ColumnWalls is the WallBuilder that draws textured wall columns into a
// rasterizer. It keeps the per-column floor and ceiling clip rows in the
// frame Context up to date and hands the rows left open to the Context's
// PlaneSink.
type ColumnWalls struct {
	Raster   *draw.Rasterizer
	Textures *draw.TextureSet

	// Mode is the column mode for every wall; Wall unless set otherwise.
	// FullbrightWall also needs Colormask.
	Mode      draw.BlendMode
	Colormask []byte
	Sparkle   bool

	// Fullbright draws every wall with the brightest light map.
	Fullbright bool
	ExtraLight int

	col  draw.Column
	loop segLoop
}

// NewColumnWalls returns a builder drawing through r with textures ts.
func NewColumnWalls(r *draw.Rasterizer, ts *draw.TextureSet) *ColumnWalls {
	return &ColumnWalls{Raster: r, Textures: ts, Mode: draw.Wall}
}

// segLoop is the stepping state for one wall range.
type segLoop struct {
	x, stopX int

	scale, scaleStep       fixed.Fixed
	topFrac, topStep       fixed.Fixed
	bottomFrac, bottomStep fixed.Fixed
	pixHigh, pixHighStep   fixed.Fixed
	pixLow, pixLowStep     fixed.Fixed

	top, mid, bottom          *draw.WallTexture
	topMid, midMid, bottomMid fixed.Fixed

	markFloor, markCeiling   bool
	floorPlane, ceilingPlane PlaneHandle

	textured    bool
	offset      fixed.Fixed
	distance    fixed.Fixed
	centerAngle fixed.Angle
	lights      *[MaxLightScale]int
}

// StoreWallRange implements WallBuilder.
func (w *ColumnWalls) StoreWallRange(ctx *Context, r WallRange) {
	proj, view, lvl := ctx.Proj, ctx.View, ctx.Level
	seg, side := r.Seg, r.Seg.Side
	front, back := r.Front, r.Back
	s := &w.loop
	*s = segLoop{floorPlane: ctx.FloorPlane, ceilingPlane: ctx.CeilingPlane}

	// Perpendicular distance from the camera to the wall's line.
	normal := seg.Angle + fixed.Ang90
	offsetAngle := normal - r.Angle1
	if int32(offsetAngle) < 0 {
		offsetAngle = -offsetAngle
	}
	offsetAngle = min(offsetAngle, fixed.Ang90)
	hyp := ctx.pointToDist(seg.V1.X, seg.V1.Y)
	s.distance = fixed.Mul(hyp, fixed.Sin(fixed.Ang90-offsetAngle))

	s.x, s.stopX = r.X1, r.X2+1
	s.scale = scaleFromGlobalAngle(proj, view.Angle, view.Angle+proj.XToViewAngle[r.X1], normal, s.distance)
	if r.X2 > r.X1 {
		scale2 := scaleFromGlobalAngle(proj, view.Angle, view.Angle+proj.XToViewAngle[r.X2], normal, s.distance)
		s.scaleStep = (scale2 - s.scale) / fixed.Fixed(r.X2-r.X1)
	}

	worldTop := front.CeilingHeight - view.Z
	worldBottom := front.FloorHeight - view.Z
	var worldHigh, worldLow fixed.Fixed

	if back == nil {
		s.mid = w.Textures.Wall(r.Mid)
		s.markFloor, s.markCeiling = true, true
		if seg.Line.Flags.Has(level.DontPegBottom) && s.mid != nil {
			// Bottom of the texture sits on the floor.
			s.midMid = front.FloorHeight + fixed.FromInt(s.mid.Height) - view.Z
		} else {
			s.midMid = worldTop
		}
		s.midMid += side.RowOffset
	} else {
		worldHigh = back.CeilingHeight - view.Z
		worldLow = back.FloorHeight - view.Z

		// Adjacent sky ceilings of different heights share one sky.
		if lvl.IsSky(front.CeilingPic) && lvl.IsSky(back.CeilingPic) {
			worldTop = worldHigh
		}

		s.markFloor = worldLow != worldBottom || back.FloorPic != front.FloorPic ||
			back.LightLevel != front.LightLevel
		s.markCeiling = worldHigh != worldTop || back.CeilingPic != front.CeilingPic ||
			back.LightLevel != front.LightLevel
		if back.CeilingHeight <= front.FloorHeight || back.FloorHeight >= front.CeilingHeight || r.DoorClosed {
			s.markFloor, s.markCeiling = true, true
		}

		if worldHigh < worldTop {
			s.top = w.Textures.Wall(r.Top)
			switch {
			case seg.Line.Flags.Has(level.DontPegTop):
				s.topMid = worldTop
			case s.top != nil:
				// Bottom of the texture sits on the back ceiling.
				s.topMid = back.CeilingHeight + fixed.FromInt(s.top.Height) - view.Z
			}
		}
		if worldLow > worldBottom {
			s.bottom = w.Textures.Wall(r.Bottom)
			if seg.Line.Flags.Has(level.DontPegBottom) {
				s.bottomMid = worldTop
			} else {
				s.bottomMid = worldLow
			}
		}
		s.topMid += side.RowOffset
		s.bottomMid += side.RowOffset
	}

	s.textured = s.top != nil || s.mid != nil || s.bottom != nil
	if s.textured {
		offsetAngle := normal - r.Angle1
		if offsetAngle > fixed.Ang180 {
			offsetAngle = -offsetAngle
		}
		offsetAngle = min(offsetAngle, fixed.Ang90)
		s.offset = fixed.Mul(hyp, fixed.Sin(offsetAngle))
		if normal-r.Angle1 < fixed.Ang180 {
			s.offset = -s.offset
		}
		s.offset += side.TextureOffset + seg.Offset
		s.centerAngle = fixed.Ang90 + view.Angle - normal

		// Axis-aligned walls get a little fake contrast.
		adjust := w.ExtraLight
		if seg.V1.Y == seg.V2.Y {
			adjust--
		} else if seg.V1.X == seg.V2.X {
			adjust++
		}
		s.lights = &proj.ScaleLight[LightRow(r.Light, adjust)]
	}

	// A plane on the far side of the view plane is never visible.
	if front.FloorHeight >= view.Z {
		s.markFloor = false
	}
	if front.CeilingHeight <= view.Z && !lvl.IsSky(front.CeilingPic) {
		s.markCeiling = false
	}

	worldTop >>= 4
	worldBottom >>= 4
	centerY := proj.CenterYFrac >> 4

	s.topStep = -fixed.Mul(s.scaleStep, worldTop)
	s.topFrac = centerY - fixed.Mul(worldTop, s.scale)
	s.bottomStep = -fixed.Mul(s.scaleStep, worldBottom)
	s.bottomFrac = centerY - fixed.Mul(worldBottom, s.scale)

	if back != nil {
		worldHigh >>= 4
		worldLow >>= 4
		if worldHigh < worldTop {
			s.pixHigh = centerY - fixed.Mul(worldHigh, s.scale)
			s.pixHighStep = -fixed.Mul(s.scaleStep, worldHigh)
		}
		if worldLow > worldBottom {
			s.pixLow = centerY - fixed.Mul(worldLow, s.scale)
			s.pixLowStep = -fixed.Mul(s.scaleStep, worldLow)
		}
	}

	w.renderSegLoop(ctx, s)
}

// scaleFromGlobalAngle returns the projection scale of the wall at a view
// angle, clamped to a sane range.
func scaleFromGlobalAngle(proj *Projection, view, visAngle, normal fixed.Angle, distance fixed.Fixed) fixed.Fixed {
	sinA := fixed.Sin(fixed.Ang90 + (visAngle - view))
	sinB := fixed.Sin(fixed.Ang90 + (visAngle - normal))
	num := fixed.Mul(proj.Scale, sinB)
	den := fixed.Mul(distance, sinA)

	if den > num>>fixed.FracBits {
		scale := fixed.Div(num, den)
		if scale > maxScale {
			return maxScale
		}
		if scale < minScale {
			return minScale
		}
		return scale
	}
	return maxScale
}

func (w *ColumnWalls) renderSegLoop(ctx *Context, s *segLoop) {
	ceil, floor := ctx.CeilingClip, ctx.FloorClip
	height := ctx.Proj.Height
	planes := ctx.Planes
	markCeiling := s.markCeiling && planes != nil && s.ceilingPlane != NoPlane
	markFloor := s.markFloor && planes != nil && s.floorPlane != NoPlane

	var texCol int
	for x := s.x; x < s.stopX; x++ {
		yl := int((s.topFrac + heightUnit - 1) >> heightBits)
		if yl < ceil[x]+1 {
			yl = ceil[x] + 1
		}
		if markCeiling {
			top, bottom := ceil[x]+1, yl-1
			if bottom >= floor[x] {
				bottom = floor[x] - 1
			}
			if top <= bottom {
				planes.MarkPlane(s.ceilingPlane, x, top, bottom)
			}
		}

		yh := int(s.bottomFrac >> heightBits)
		if yh >= floor[x] {
			yh = floor[x] - 1
		}
		if markFloor {
			top, bottom := yh+1, floor[x]-1
			if top <= ceil[x] {
				top = ceil[x] + 1
			}
			if top <= bottom {
				planes.MarkPlane(s.floorPlane, x, top, bottom)
			}
		}

		if s.textured {
			// The tangent repeats every half turn, so the index can wrap.
			angle := (s.centerAngle + ctx.Proj.XToViewAngle[x]).Fine() & (fixed.FineAngles/2 - 1)
			texCol = int((s.offset - fixed.Mul(fixed.FineTangent[angle], s.distance)) >> fixed.FracBits)

			scale := max(s.scale, minScale)
			index := min(int(scale>>LightScaleShift), MaxLightScale-1)
			w.col.X = x
			w.col.Step = fixed.Fixed(int32(0xffffffff / uint32(scale)))
			w.col.Colormap = w.colormap(s.lights[index])
		}

		if s.mid != nil {
			w.drawColumn(ctx, s.mid, texCol, yl, yh, s.midMid)
			ceil[x] = height
			floor[x] = -1
		} else {
			if s.top != nil {
				mid := int(s.pixHigh >> heightBits)
				s.pixHigh += s.pixHighStep
				if mid >= floor[x] {
					mid = floor[x] - 1
				}
				if mid >= yl {
					w.drawColumn(ctx, s.top, texCol, yl, mid, s.topMid)
					ceil[x] = mid
				} else {
					ceil[x] = yl - 1
				}
			} else if s.markCeiling {
				ceil[x] = yl - 1
			}

			if s.bottom != nil {
				mid := int((s.pixLow + heightUnit - 1) >> heightBits)
				s.pixLow += s.pixLowStep
				if mid <= ceil[x] {
					mid = ceil[x] + 1
				}
				if mid <= yh {
					w.drawColumn(ctx, s.bottom, texCol, mid, yh, s.bottomMid)
					floor[x] = mid
				} else {
					floor[x] = yh + 1
				}
			} else if s.markFloor {
				floor[x] = yh + 1
			}
		}

		s.scale += s.scaleStep
		s.topFrac += s.topStep
		s.bottomFrac += s.bottomStep
	}
}

func (w *ColumnWalls) colormap(light int) []byte {
	if w.Fullbright {
		light = 0
	}
	return w.Raster.Tables.Colormap(light)
}

// drawColumn draws rows yl..yh of texture column texCol. texMid is the
// texture row at the view's center line.
func (w *ColumnWalls) drawColumn(ctx *Context, tex *draw.WallTexture, texCol, yl, yh int, texMid fixed.Fixed) {
	if yl > yh {
		return
	}
	c := &w.col
	c.YL, c.YH = yl, yh
	c.Frac = texMid + fixed.Fixed(yl-ctx.Proj.CenterY)*c.Step
	c.Source = tex.Column(texCol)
	c.TexHeight = tex.Height
	c.Colormask = w.Colormask
	c.TopSparkle, c.BottomSparkle = w.Sparkle, w.Sparkle
	w.Raster.DrawColumn(w.Mode, c)
}
