package render

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/retroview/pkg/fixed"
)

func TestNewProjectionRejectsBadSizes(t *testing.T) {
	for _, size := range [][2]int{{1, 100}, {100, 1}, {0, 0}, {5000, 100}} {
		_, err := NewProjection(size[0], size[1])
		assert.Error(t, err, "%dx%d", size[0], size[1])
	}
}

func TestProjectionAngleTables(t *testing.T) {
	for _, width := range []int{320, 160, 64} {
		t.Run(strconv.Itoa(width), func(t *testing.T) {
			p, err := NewProjection(width, width*5/8)
			require.NoError(t, err)

			// The left edge sits just past 45 degrees.
			assert.Equal(t, fixed.Angle(0x20080000), p.ClipAngle)
			assert.Equal(t, p.ClipAngle, p.XToViewAngle[0])
			assert.Equal(t, -p.ClipAngle, p.XToViewAngle[width])
			assert.Equal(t, fixed.Angle(0), p.XToViewAngle[width/2])

			assert.Equal(t, width/2, p.ViewAngleToX[fixed.FineAngles/4])
			assert.Equal(t, width, p.ViewAngleToX[fixed.FineAngles/8])
			assert.Equal(t, 1, p.ViewAngleToX[3*fixed.FineAngles/8])

			// Fenceposts are folded back onto the screen.
			assert.Equal(t, width, p.ViewAngleToX[0])
			assert.Equal(t, 0, p.ViewAngleToX[len(p.ViewAngleToX)-1])

			for i := 1; i < len(p.ViewAngleToX); i++ {
				require.LessOrEqual(t, p.ViewAngleToX[i], p.ViewAngleToX[i-1], "angle %d", i)
			}

			// Every column's left angle maps back onto that column.
			for x := range width {
				i := (p.XToViewAngle[x] + fixed.Ang90) >> fixed.AngleToFineShift
				require.Equal(t, x, p.ViewAngleToX[i], "column %d", x)
			}
		})
	}
}

func TestProjectionLightTables(t *testing.T) {
	p, err := NewProjection(320, 200)
	require.NoError(t, err)

	assert.Equal(t, 0, p.ScaleLight[LightLevels-1][0])
	// The darkest level starts past the last map, so it never brightens.
	for j := range MaxLightScale {
		require.Equal(t, NumLightMaps-1, p.ScaleLight[0][j], "scale %d", j)
	}

	// Level 8 starts at map 28 and brightens one map every two scales.
	tests := []struct {
		scale int
		want  int
	}{
		{0, 28},
		{1, 28},
		{2, 27},
		{10, 23},
		{MaxLightScale - 1, 5},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, p.ScaleLight[8][tc.scale], "scale %d", tc.scale)
	}

	// Half the width covers twice the falloff per scale.
	half, err := NewProjection(160, 100)
	require.NoError(t, err)
	assert.Equal(t, 28, half.ScaleLight[8][0])
	assert.Equal(t, 18, half.ScaleLight[8][10])
	assert.Equal(t, 0, half.ScaleLight[8][MaxLightScale-1])

	for i := range LightLevels {
		for j := 1; j < MaxLightZ; j++ {
			require.GreaterOrEqual(t, p.ZLight[i][j], p.ZLight[i][j-1], "farther is never brighter")
			require.Less(t, p.ZLight[i][j], NumLightMaps)
		}
	}
}

func TestLightRow(t *testing.T) {
	assert.Equal(t, 10, LightRow(160, 0))
	assert.Equal(t, 9, LightRow(160, -1))
	assert.Equal(t, 0, LightRow(0, -1))
	assert.Equal(t, LightLevels-1, LightRow(255, 1))
}

func TestViewpointMove(t *testing.T) {
	v := Viewpoint{Angle: 0}

	fwd := v.Move(fixed.FromInt(10), 0)
	assert.InDelta(t, 10, fwd.X.Float(), 0.01)
	assert.InDelta(t, 0, fwd.Y.Float(), 0.01)

	right := v.Move(0, fixed.FromInt(10))
	assert.InDelta(t, 0, right.X.Float(), 0.01)
	assert.InDelta(t, -10, right.Y.Float(), 0.01)

	north := Viewpoint{Angle: fixed.Ang90}.Move(fixed.FromInt(4), 0)
	assert.InDelta(t, 0, north.X.Float(), 0.01)
	assert.InDelta(t, 4, north.Y.Float(), 0.01)
}
