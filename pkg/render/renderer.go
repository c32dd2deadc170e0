// Package render walks a level's BSP tree front to back, clips wall segs
// against the columns that are already solid, and hands the visible
// pieces to a wall builder and a plane sink.
package render

import (
	"context"
	"log/slog"

	"github.com/taigrr/retroview/pkg/level"
)

// Renderer draws frames of one level at one resolution. It is not safe for
// concurrent use.
type Renderer struct {
	Level *level.Level
	Proj  *Projection

	Walls       WallBuilder
	Planes      PlaneSink
	OnSubsector SubsectorHook
	Logger      *slog.Logger

	ctx   *Context
	frame uint64
}

// NewRenderer returns a renderer with no collaborators: frames only walk
// the tree and fill in FrameStats until Walls and Planes are set.
func NewRenderer(lvl *level.Level, proj *Projection) *Renderer {
	return &Renderer{
		Level:  lvl,
		Proj:   proj,
		Logger: slog.Default(),
		ctx:    newContext(lvl, proj),
	}
}

// Frame returns how many frames have been rendered.
func (r *Renderer) Frame() uint64 {
	return r.frame
}

// Context returns the state of the last frame, for overlays and tests.
func (r *Renderer) Context() *Context {
	return r.ctx
}

// RenderFrame walks the tree from view. A malformed tree aborts the frame
// with ErrBadNode or ErrBadSubsector; whatever was drawn before the fault
// stays drawn.
func (r *Renderer) RenderFrame(view Viewpoint) (FrameStats, error) {
	if r.ctx.Proj != r.Proj {
		// The resolution changed; the clip arrays have to follow.
		r.ctx = newContext(r.Level, r.Proj)
	}
	ctx := r.ctx
	ctx.Level = r.Level
	ctx.walls = r.Walls
	ctx.Planes = r.Planes
	ctx.hook = r.OnSubsector
	ctx.begin(view)

	if fs, ok := r.Walls.(FrameStarter); ok {
		fs.BeginFrame(view)
	}
	if fs, ok := r.Planes.(FrameStarter); ok {
		fs.BeginFrame(view)
	}

	r.frame++
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := ctx.renderNode(r.Level.Root(), 1); err != nil {
		logger.Warn("frame aborted", "frame", r.frame, "err", err)
		return ctx.Stats, err
	}

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		logger.Debug("frame", "frame", r.frame, "stats", ctx.Stats)
	}
	return ctx.Stats, nil
}
