package render

import (
	"github.com/taigrr/retroview/pkg/fixed"
	"github.com/taigrr/retroview/pkg/level"
)

// addLine clips seg to the view, classifies it against the current front
// sector and feeds its visible columns to the solid list.
func (ctx *Context) addLine(seg *level.Seg) {
	ctx.Stats.Segs++

	a1 := ctx.pointToAngle(seg.V1.X, seg.V1.Y)
	a2 := ctx.pointToAngle(seg.V2.X, seg.V2.Y)

	// Back side.
	span := a1 - a2
	if span >= fixed.Ang180 {
		ctx.Stats.SegsCulled++
		return
	}

	ctx.angle1 = a1
	a1 -= ctx.View.Angle
	a2 -= ctx.View.Angle

	clip := ctx.Proj.ClipAngle
	tspan := a1 + clip
	if tspan > 2*clip {
		tspan -= 2 * clip
		// Entirely off the left edge.
		if tspan >= span {
			ctx.Stats.SegsCulled++
			return
		}
		a1 = clip
	}
	tspan = clip - a2
	if tspan > 2*clip {
		tspan -= 2 * clip
		// Entirely off the right edge.
		if tspan >= span {
			ctx.Stats.SegsCulled++
			return
		}
		a2 = -clip
	}

	x1 := ctx.Proj.ViewAngleToX[(a1+fixed.Ang90)>>fixed.AngleToFineShift]
	x2 := ctx.Proj.ViewAngleToX[(a2+fixed.Ang90)>>fixed.AngleToFineShift]

	// Does not cross a pixel.
	if x1 >= x2 {
		ctx.Stats.SegsCulled++
		return
	}

	front, back := ctx.front, seg.BackSector
	ctx.seg, ctx.back = seg, back
	ctx.doorClosed = false

	switch {
	case back == nil:
	case back.CeilingHeight <= front.FloorHeight || back.FloorHeight >= front.CeilingHeight:
		// Closed door.
	case ctx.isDoorClosed():
		ctx.doorClosed = true
	case back.CeilingHeight != front.CeilingHeight || back.FloorHeight != front.FloorHeight:
		ctx.clipPass(x1, x2-1)
		return
	case back.CeilingPic == front.CeilingPic && back.FloorPic == front.FloorPic &&
		back.LightLevel == front.LightLevel && seg.Side.MidTexture == level.NoTexture:
		// Nothing to draw on either side: a trigger or a sector split.
		ctx.Stats.Discarded++
		return
	default:
		ctx.clipPass(x1, x2-1)
		return
	}

	ctx.kind = SegSolid
	ctx.Clip.ClipSolid(x1, x2-1, ctx.emit)
}

func (ctx *Context) clipPass(first, last int) {
	ctx.kind = SegWindow
	ctx.Clip.ClipPass(first, last, ctx.emit)
}

// isDoorClosed reports whether the back sector is shut even though the
// plain height test let it through. Doors and lifts with a visible top or
// bottom texture stay open, as do gaps between two sky ceilings.
func (ctx *Context) isDoorClosed() bool {
	front, back, side := ctx.front, ctx.back, ctx.seg.Side
	return back.CeilingHeight <= back.FloorHeight &&
		(back.CeilingHeight >= front.CeilingHeight || side.TopTexture != level.NoTexture) &&
		(back.FloorHeight <= front.FloorHeight || side.BottomTexture != level.NoTexture) &&
		(!ctx.Level.IsSky(back.CeilingPic) || !ctx.Level.IsSky(front.CeilingPic))
}

// storeWallRange receives every visible fragment from the solid list.
func (ctx *Context) storeWallRange(first, last int) {
	if ctx.kind == SegSolid {
		ctx.Stats.SolidRanges++
	} else {
		ctx.Stats.WindowRanges++
	}
	ctx.Stats.Columns += last - first + 1

	if ctx.walls == nil {
		return
	}
	seg := ctx.seg
	ctx.walls.StoreWallRange(ctx, WallRange{
		X1:         first,
		X2:         last,
		Seg:        seg,
		Front:      ctx.front,
		Back:       ctx.back,
		Top:        seg.Side.TopTexture,
		Mid:        seg.Side.MidTexture,
		Bottom:     seg.Side.BottomTexture,
		Light:      ctx.front.LightLevel,
		Kind:       ctx.kind,
		DoorClosed: ctx.doorClosed,
		Angle1:     ctx.angle1,
	})
}
