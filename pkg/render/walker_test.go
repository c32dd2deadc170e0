package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/retroview/pkg/fixed"
	"github.com/taigrr/retroview/pkg/level"
)

const (
	testWidth  = 320
	testHeight = 200
)

func buildGrid(t testing.TB, cols, rows int, edit func(b *level.GridBuilder)) *level.Level {
	t.Helper()
	b := level.NewGridBuilder(cols, rows)
	if edit != nil {
		edit(b)
	}
	lvl, err := b.Build()
	require.NoError(t, err)
	return lvl
}

func createTestContext(t testing.TB, lvl *level.Level, view Viewpoint) *Context {
	t.Helper()
	proj, err := NewProjection(testWidth, testHeight)
	require.NoError(t, err)
	ctx := newContext(lvl, proj)
	ctx.begin(view)
	return ctx
}

// at returns a viewpoint at map coordinates (x, y), eye height 41.
func at(x, y int, angle fixed.Angle) Viewpoint {
	return Viewpoint{X: fixed.FromInt(x), Y: fixed.FromInt(y), Z: fixed.FromInt(41), Angle: angle}
}

func box(left, bottom, right, top int) *fixed.BBox {
	return &fixed.BBox{
		fixed.BoxTop:    fixed.FromInt(top),
		fixed.BoxBottom: fixed.FromInt(bottom),
		fixed.BoxLeft:   fixed.FromInt(left),
		fixed.BoxRight:  fixed.FromInt(right),
	}
}

func noEmit(int, int) {}

func TestCheckBBox(t *testing.T) {
	lvl := buildGrid(t, 1, 1, nil)

	tests := []struct {
		name  string
		box   *fixed.BBox
		solid []ClipRange
		want  bool
	}{
		{"ahead", box(100, -50, 200, 50), nil, true},
		{"ahead behind a full wall", box(100, -50, 200, 50), []ClipRange{{0, testWidth - 1}}, false},
		{"ahead with the left half solid", box(100, -50, 200, 50), []ClipRange{{0, testWidth/2 - 1}}, true},
		{"ahead with the middle solid", box(100, -50, 200, 50), []ClipRange{{60, 260}}, false},
		{"behind", box(-200, -50, -100, 50), nil, false},
		{"off the left edge", box(100, 300, 200, 400), nil, false},
		{"off the right edge", box(100, -400, 200, -300), nil, false},
		{"around the camera", box(-10, -10, 10, 10), []ClipRange{{0, testWidth - 1}}, true},
		{"beside the camera", box(-100, 5, 100, 20), nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := createTestContext(t, lvl, at(0, 0, 0))
			for _, r := range tc.solid {
				ctx.Clip.ClipSolid(r.First, r.Last, noEmit)
			}
			assert.Equal(t, tc.want, ctx.checkBBox(tc.box))
		})
	}
}

func TestRenderNodeVisitsFrontToBack(t *testing.T) {
	lvl := buildGrid(t, 4, 1, nil)

	tests := []struct {
		name string
		view Viewpoint
		want []int
	}{
		{"west end facing east", at(64, 64, 0), []int{0, 1, 2, 3}},
		{"east end facing west", at(448, 64, fixed.Ang180), []int{3, 2, 1, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := createTestContext(t, lvl, tc.view)
			var visits []int
			ctx.hook = func(v SubsectorVisit) { visits = append(visits, v.Index) }

			require.NoError(t, ctx.renderNode(lvl.Root(), 1))
			assert.Equal(t, tc.want, visits)
			assert.Equal(t, 3, ctx.Stats.NodesVisited)
			assert.Zero(t, ctx.Stats.NodesCulled)
			// The three invisible dividers face the camera once each.
			assert.Equal(t, 3, ctx.Stats.Discarded)
			assert.Equal(t, testWidth, ctx.Stats.Columns)
			assert.True(t, ctx.Clip.Covered(0, testWidth-1))
		})
	}
}

func TestRenderNodeSkipsHiddenSubtrees(t *testing.T) {
	lvl := buildGrid(t, 4, 1, nil)
	ctx := createTestContext(t, lvl, at(64, 64, 0))
	ctx.Clip.ClipSolid(0, testWidth-1, noEmit)

	var visits []int
	ctx.hook = func(v SubsectorVisit) { visits = append(visits, v.Index) }
	require.NoError(t, ctx.renderNode(lvl.Root(), 1))

	// The near leaf is always entered. Both far boxes are hidden, so the
	// east node is never entered at all.
	assert.Equal(t, []int{0}, visits)
	assert.Equal(t, 2, ctx.Stats.NodesVisited)
	assert.Equal(t, 2, ctx.Stats.NodesCulled)
	assert.Zero(t, ctx.Stats.Columns)
}

func TestRenderNodeCameraOnSplitter(t *testing.T) {
	lvl := buildGrid(t, 2, 1, nil)
	require.Len(t, lvl.Nodes, 1)
	require.Equal(t, fixed.FromInt(128), lvl.Nodes[0].X)

	for _, angle := range []fixed.Angle{0, fixed.Ang90, fixed.Ang180, fixed.Ang270} {
		ctx := createTestContext(t, lvl, at(128, 64, angle))
		var visits []int
		ctx.hook = func(v SubsectorVisit) { visits = append(visits, v.Index) }
		require.NoError(t, ctx.renderNode(lvl.Root(), 1))
		// On the line the west side counts as near.
		require.NotEmpty(t, visits)
		assert.Equal(t, 0, visits[0], "angle %v", angle.Degrees())
	}

	ctx := createTestContext(t, lvl, at(128, 64, 0))
	var visits []int
	ctx.hook = func(v SubsectorVisit) { visits = append(visits, v.Index) }
	require.NoError(t, ctx.renderNode(lvl.Root(), 1))
	assert.Equal(t, []int{0, 1}, visits)
}

func TestRenderNodeIntegrityFaults(t *testing.T) {
	base := buildGrid(t, 2, 1, nil)

	tests := []struct {
		name string
		edit func(l *level.Level)
		want error
	}{
		{
			name: "dangling node",
			edit: func(l *level.Level) { l.Nodes[0].Children[1] = level.Child(7) },
			want: ErrBadNode,
		},
		{
			name: "dangling subsector",
			edit: func(l *level.Level) { l.Nodes[0].Children[1] = level.SubsectorChild(9) },
			want: ErrBadSubsector,
		},
		{
			name: "cycle",
			edit: func(l *level.Level) { l.Nodes[0].Children = [2]level.Child{0, 0} },
			want: ErrBadNode,
		},
		{
			name: "seg range past the end",
			edit: func(l *level.Level) { l.Subsectors[0].NumSegs = 100 },
			want: ErrBadSubsector,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lvl := *base
			lvl.Nodes = append([]level.Node(nil), base.Nodes...)
			lvl.Subsectors = append([]level.Subsector(nil), base.Subsectors...)
			tc.edit(&lvl)

			ctx := createTestContext(t, &lvl, at(64, 64, 0))
			err := ctx.renderNode(lvl.Root(), 1)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func BenchmarkRenderNode(b *testing.B) {
	lvl := buildGrid(b, 16, 16, nil)
	ctx := createTestContext(b, lvl, at(100, 100, fixed.Ang45))
	for b.Loop() {
		ctx.begin(at(100, 100, fixed.Ang45))
		_ = ctx.renderNode(lvl.Root(), 1)
	}
}
