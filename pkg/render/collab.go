package render

import (
	"github.com/taigrr/retroview/pkg/fixed"
	"github.com/taigrr/retroview/pkg/level"
)

// PlaneHandle identifies a floor or ceiling plane owned by a PlaneSink.
type PlaneHandle int

// NoPlane means the plane is not visible from the camera.
const NoPlane PlaneHandle = -1

// PlaneSink accumulates the floor and ceiling column ranges left between
// walls. FindPlane may return NoPlane to decline a plane; MarkPlane is
// never called with NoPlane.
type PlaneSink interface {
	FindPlane(height fixed.Fixed, pic level.FlatID, light int16) PlaneHandle
	MarkPlane(h PlaneHandle, x, top, bottom int)
}

// FrameStarter is implemented by collaborators that keep per-frame state.
// The renderer calls BeginFrame before walking the tree.
type FrameStarter interface {
	BeginFrame(view Viewpoint)
}

// SubsectorVisit describes one visited subsector.
type SubsectorVisit struct {
	Index   int
	Sector  *level.Sector
	Floor   PlaneHandle
	Ceiling PlaneHandle
}

// SubsectorHook is called once per visited subsector, nearest first,
// before its segs are clipped.
type SubsectorHook func(SubsectorVisit)

// SegKind is how the clipper classified a seg.
type SegKind uint8

const (
	// SegSolid blocks everything behind it and joins the solid list.
	SegSolid SegKind = iota
	// SegWindow is drawn but leaves the columns open.
	SegWindow
)

func (k SegKind) String() string {
	if k == SegSolid {
		return "solid"
	}
	return "window"
}

// WallRange is one visible piece of a seg. X1 and X2 are inclusive.
type WallRange struct {
	X1, X2 int
	Seg    *level.Seg
	Front  *level.Sector
	Back   *level.Sector // nil for one-sided lines

	Top, Mid, Bottom level.TextureID
	Light            int16

	Kind       SegKind
	DoorClosed bool
	// Angle1 is the world angle from the camera to the seg's first
	// vertex, before clipping to the view.
	Angle1 fixed.Angle
}

// WallBuilder turns visible ranges into draw calls. It runs inside the
// clipper, so ranges arrive nearest first.
type WallBuilder interface {
	StoreWallRange(ctx *Context, r WallRange)
}

// WallBuilderFunc adapts a function to WallBuilder.
type WallBuilderFunc func(ctx *Context, r WallRange)

// StoreWallRange calls f.
func (f WallBuilderFunc) StoreWallRange(ctx *Context, r WallRange) {
	f(ctx, r)
}
