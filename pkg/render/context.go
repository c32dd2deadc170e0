package render

import (
	"log/slog"

	"github.com/taigrr/retroview/pkg/fixed"
	"github.com/taigrr/retroview/pkg/level"
)

// FrameStats counts what one frame did.
type FrameStats struct {
	NodesVisited int
	NodesCulled  int
	Subsectors   int
	Segs         int
	// SegsCulled counts back faces and segs outside the view or too
	// thin to cover a column.
	SegsCulled int
	// Discarded counts two-sided segs with nothing to draw on either
	// side.
	Discarded    int
	SolidRanges  int
	WindowRanges int
	Columns      int
}

// LogValue implements slog.LogValuer.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("nodes", s.NodesVisited),
		slog.Int("culled", s.NodesCulled),
		slog.Int("subsectors", s.Subsectors),
		slog.Int("segs", s.Segs),
		slog.Int("segs_culled", s.SegsCulled),
		slog.Int("discarded", s.Discarded),
		slog.Int("solid", s.SolidRanges),
		slog.Int("window", s.WindowRanges),
		slog.Int("columns", s.Columns),
	)
}

// Context is the state of one frame. It is passed by pointer from the
// walker to the clipper and on to the wall builder; nothing in it is valid
// after the frame ends.
type Context struct {
	Level *level.Level
	Proj  *Projection
	View  Viewpoint
	Clip  *ClipList

	// Planes receives floor and ceiling column ranges. It may be nil.
	Planes PlaneSink
	// FloorPlane and CeilingPlane are the planes of the subsector whose
	// segs are being clipped.
	FloorPlane   PlaneHandle
	CeilingPlane PlaneHandle

	// CeilingClip[x] is the lowest covered row at the top of column x and
	// FloorClip[x] the highest covered row at the bottom.
	CeilingClip []int
	FloorClip   []int

	Stats FrameStats

	walls WallBuilder
	hook  SubsectorHook
	emit  func(first, last int)

	front      *level.Sector
	seg        *level.Seg
	back       *level.Sector
	kind       SegKind
	doorClosed bool
	angle1     fixed.Angle
}

func newContext(lvl *level.Level, proj *Projection) *Context {
	ctx := &Context{
		Level:       lvl,
		Proj:        proj,
		Clip:        NewClipList(proj.Width),
		CeilingClip: make([]int, proj.Width),
		FloorClip:   make([]int, proj.Width),
	}
	ctx.emit = ctx.storeWallRange
	return ctx
}

// begin resets everything a frame touches.
func (ctx *Context) begin(view Viewpoint) {
	ctx.View = view
	ctx.Stats = FrameStats{}
	ctx.Clip.Reset(ctx.Proj.Width)
	for x := range ctx.CeilingClip {
		ctx.CeilingClip[x] = -1
		ctx.FloorClip[x] = ctx.Proj.Height
	}
	ctx.FloorPlane, ctx.CeilingPlane = NoPlane, NoPlane
	ctx.front, ctx.seg, ctx.back = nil, nil, nil
}

// pointToAngle returns the world angle from the camera to (x, y).
func (ctx *Context) pointToAngle(x, y fixed.Fixed) fixed.Angle {
	return fixed.PointToAngle(x-ctx.View.X, y-ctx.View.Y)
}

// pointToDist returns the distance from the camera to (x, y).
func (ctx *Context) pointToDist(x, y fixed.Fixed) fixed.Fixed {
	return fixed.Dist(x-ctx.View.X, y-ctx.View.Y)
}
