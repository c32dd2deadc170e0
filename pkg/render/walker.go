package render

import (
	"github.com/pkg/errors"

	"github.com/taigrr/retroview/pkg/fixed"
	"github.com/taigrr/retroview/pkg/level"
)

// Integrity faults that abort a frame.
var (
	ErrBadNode      = errors.New("render: node reference out of range")
	ErrBadSubsector = errors.New("render: subsector reference out of range")
)

// checkCoord picks the two box corners that form the silhouette edges seen
// from each of the nine camera positions around a box. Each entry indexes
// the box as x1, y1, x2, y2; position 5 is inside the box.
var checkCoord = [12][4]int{
	{fixed.BoxRight, fixed.BoxTop, fixed.BoxLeft, fixed.BoxBottom},
	{fixed.BoxRight, fixed.BoxTop, fixed.BoxLeft, fixed.BoxTop},
	{fixed.BoxRight, fixed.BoxBottom, fixed.BoxLeft, fixed.BoxTop},
	{},
	{fixed.BoxLeft, fixed.BoxTop, fixed.BoxLeft, fixed.BoxBottom},
	{},
	{fixed.BoxRight, fixed.BoxBottom, fixed.BoxRight, fixed.BoxTop},
	{},
	{fixed.BoxLeft, fixed.BoxTop, fixed.BoxRight, fixed.BoxBottom},
	{fixed.BoxLeft, fixed.BoxBottom, fixed.BoxRight, fixed.BoxBottom},
	{fixed.BoxLeft, fixed.BoxBottom, fixed.BoxRight, fixed.BoxTop},
}

// renderNode walks the subtree at c front to back. The near side of every
// node is always visited; the far side only when its bounding box is not
// hidden behind solid columns.
func (ctx *Context) renderNode(c level.Child, depth int) error {
	nodes := ctx.Level.Nodes
	for !c.IsSubsector() {
		i := c.Index()
		if i >= len(nodes) {
			return errors.Wrapf(ErrBadNode, "node %d of %d", i, len(nodes))
		}
		// A finite tree is never deeper than it has nodes.
		if depth > len(nodes) {
			return errors.Wrapf(ErrBadNode, "node %d: tree has a cycle", i)
		}
		n := &nodes[i]
		ctx.Stats.NodesVisited++

		side := level.PointOnSide(ctx.View.X, ctx.View.Y, n)
		if err := ctx.renderNode(n.Children[side], depth+1); err != nil {
			return err
		}

		side ^= 1
		if !ctx.checkBBox(&n.BBox[side]) {
			ctx.Stats.NodesCulled++
			return nil
		}
		c = n.Children[side]
		depth++
	}
	return ctx.subsector(c.Index())
}

// checkBBox reports whether any part of box might be visible.
func (ctx *Context) checkBBox(box *fixed.BBox) bool {
	vx, vy := ctx.View.X, ctx.View.Y

	var boxpos int
	switch {
	case vx <= box[fixed.BoxLeft]:
		boxpos = 0
	case vx < box[fixed.BoxRight]:
		boxpos = 1
	default:
		boxpos = 2
	}
	switch {
	case vy >= box[fixed.BoxTop]:
	case vy > box[fixed.BoxBottom]:
		boxpos += 4
	default:
		boxpos += 8
	}
	if boxpos == 5 {
		return true
	}

	check := &checkCoord[boxpos]
	a1 := ctx.pointToAngle(box[check[0]], box[check[1]]) - ctx.View.Angle
	a2 := ctx.pointToAngle(box[check[2]], box[check[3]]) - ctx.View.Angle

	// When the corners are out of order one of them is behind the camera
	// and can be pushed to the matching side.
	if int32(a1) < int32(a2) {
		if a1 >= fixed.Ang180 && a1 < fixed.Ang270 {
			a1 = fixed.Ang180 - 1
		} else {
			a2 = fixed.Ang180
		}
	}

	clip := ctx.Proj.ClipAngle
	if int32(a2) >= int32(clip) {
		return false // off the left edge
	}
	if int32(a1) <= -int32(clip) {
		return false // off the right edge
	}
	if int32(a1) >= int32(clip) {
		a1 = clip
	}
	if int32(a2) <= -int32(clip) {
		a2 = -clip
	}

	sx1 := ctx.Proj.ViewAngleToX[(a1+fixed.Ang90)>>fixed.AngleToFineShift]
	sx2 := ctx.Proj.ViewAngleToX[(a2+fixed.Ang90)>>fixed.AngleToFineShift]

	// Widen by a column each way so rounding never hides a sliver.
	if sx1 > 0 {
		sx1--
	}
	if sx2 < ctx.Proj.Width-1 {
		sx2++
	}

	return !ctx.Clip.Covered(sx1, sx2)
}

// subsector selects the visible planes of subsector i and clips its segs.
func (ctx *Context) subsector(i int) error {
	lvl := ctx.Level
	if i >= len(lvl.Subsectors) {
		return errors.Wrapf(ErrBadSubsector, "subsector %d of %d", i, len(lvl.Subsectors))
	}
	sub := &lvl.Subsectors[i]
	if sub.FirstSeg < 0 || sub.NumSegs < 0 || sub.FirstSeg+sub.NumSegs > len(lvl.Segs) {
		return errors.Wrapf(ErrBadSubsector, "subsector %d: segs %d+%d of %d",
			i, sub.FirstSeg, sub.NumSegs, len(lvl.Segs))
	}
	ctx.Stats.Subsectors++

	front := sub.Sector
	ctx.front = front
	ctx.FloorPlane, ctx.CeilingPlane = NoPlane, NoPlane
	if ctx.Planes != nil {
		if front.FloorHeight < ctx.View.Z {
			ctx.FloorPlane = ctx.Planes.FindPlane(front.FloorHeight, front.FloorPic, front.LightLevel)
		}
		if front.CeilingHeight > ctx.View.Z || lvl.IsSky(front.CeilingPic) {
			ctx.CeilingPlane = ctx.Planes.FindPlane(front.CeilingHeight, front.CeilingPic, front.LightLevel)
		}
	}

	if ctx.hook != nil {
		ctx.hook(SubsectorVisit{
			Index:   i,
			Sector:  front,
			Floor:   ctx.FloorPlane,
			Ceiling: ctx.CeilingPlane,
		})
	}

	for j := range sub.NumSegs {
		ctx.addLine(&lvl.Segs[sub.FirstSeg+j])
	}
	return nil
}
