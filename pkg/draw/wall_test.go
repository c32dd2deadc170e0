package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/retroview/pkg/fixed"
)

// rowTexture returns a column whose texel at row i is byte(i).
func rowTexture(height int) []byte {
	src := make([]byte, height)
	for i := range src {
		src[i] = byte(i)
	}
	return src
}

func TestWallNonPowerOfTwoWraps(t *testing.T) {
	r := createTestRasterizer(t, 1, 8, 255)
	r.DrawColumn(Wall, &Column{
		X: 0, YL: 0, YH: 4,
		Frac:      fixed.FromInt(34),
		Step:      fixed.FracUnit,
		Source:    rowTexture(17),
		TexHeight: 17,
		Colormap:  identity(),
	})

	// Rows 34..38 of a 17-high texture are 0..4. A bitmask of 16 would
	// have produced 0, 0, 0, 0, 0.
	for y := range 5 {
		assert.Equal(t, byte(y), r.Screen.At(0, y), "row %d", y)
	}
	assert.Equal(t, byte(255), r.Screen.At(0, 5))
}

func TestWallWrapsAcrossSeam(t *testing.T) {
	tests := []struct {
		name  string
		frac  fixed.Fixed
		step  fixed.Fixed
		wants []byte
	}{
		{"crosses the bottom", fixed.FromInt(15), fixed.FracUnit, []byte{15, 16, 0, 1}},
		{"negative start", fixed.FromInt(-2), fixed.FracUnit, []byte{15, 16, 0, 1}},
		{"half step", fixed.FromInt(16), fixed.FracUnit / 2, []byte{16, 16, 0, 0}},
		{"step larger than texture", 0, fixed.FromInt(18), []byte{0, 1, 2, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := createTestRasterizer(t, 1, 4, 255)
			r.DrawColumn(Wall, &Column{
				X: 0, YL: 0, YH: 3,
				Frac:      tc.frac,
				Step:      tc.step,
				Source:    rowTexture(17),
				TexHeight: 17,
				Colormap:  identity(),
			})
			assert.Equal(t, tc.wants, r.Screen.Pix)
		})
	}
}

func TestWallPowerOfTwoMasks(t *testing.T) {
	r := createTestRasterizer(t, 1, 20, 255)
	r.DrawColumn(Wall, &Column{
		X: 0, YL: 0, YH: 19,
		Frac:      fixed.FromInt(10),
		Step:      fixed.FracUnit,
		Source:    rowTexture(16),
		TexHeight: 16,
		Colormap:  identity(),
	})
	for y := range 20 {
		assert.Equal(t, byte((y+10)&15), r.Screen.At(0, y), "row %d", y)
	}
}

func TestWallZeroHeightIsNoop(t *testing.T) {
	r := createTestRasterizer(t, 1, 4, 9)
	r.DrawColumn(Wall, &Column{X: 0, YL: 0, YH: 3, Colormap: identity()})
	assert.Equal(t, 4, countColor(r.Screen, 9))
}

func TestWallSparkle(t *testing.T) {
	draw := func(top, bottom bool, frac fixed.Fixed) []byte {
		r := createTestRasterizer(t, 1, 6, 255)
		r.DrawColumn(Wall, &Column{
			X: 0, YL: 1, YH: 4,
			Frac:          frac,
			Step:          fixed.FracUnit,
			Source:        rowTexture(16),
			TexHeight:     16,
			Colormap:      identity(),
			TopSparkle:    top,
			BottomSparkle: bottom,
		})
		return r.Screen.Pix
	}

	assert.Equal(t, []byte{255, 0, 1, 2, 3, 255}, draw(false, false, 0))
	assert.Equal(t, []byte{255, 1, 1, 2, 3, 255}, draw(true, false, 0))
	// Last sampled row is 3: bit 1 is set, so the bottom stays.
	assert.Equal(t, []byte{255, 0, 1, 2, 3, 255}, draw(false, true, 0))
	// Last sampled row is 4: bit 1 is clear, so it copies the row above.
	assert.Equal(t, []byte{255, 1, 2, 3, 3, 255}, draw(false, true, fixed.FracUnit))
}

func TestFullbrightWallSkipsColormap(t *testing.T) {
	dark := make([]byte, 256) // everything maps to 0
	mask := make([]byte, 256)
	mask[2] = 1

	r := createTestRasterizer(t, 1, 4, 255)
	r.DrawColumn(FullbrightWall, &Column{
		X: 0, YL: 0, YH: 3,
		Frac:      fixed.FromInt(1),
		Step:      fixed.FracUnit,
		Source:    rowTexture(16),
		TexHeight: 16,
		Colormap:  dark,
		Colormask: mask,
	})
	assert.Equal(t, []byte{0, 2, 0, 0}, r.Screen.Pix)
}

func TestSkyColumns(t *testing.T) {
	r := createTestRasterizer(t, 2, 4, 255)
	c := &Column{
		X: 0, YL: 0, YH: 3,
		Frac:      fixed.FromInt(126),
		Step:      fixed.FracUnit,
		Source:    rowTexture(128),
		TexHeight: 128,
		Colormap:  identity(),
	}
	r.DrawColumn(Sky, c)
	c.X = 1
	r.DrawColumn(FlippedSky, c)

	for y, want := range []byte{126, 127, 0, 1} {
		assert.Equal(t, want, r.Screen.At(0, y), "sky row %d", y)
	}
	for y, want := range []byte{126, 127, 126, 125} {
		assert.Equal(t, want, r.Screen.At(1, y), "flipped row %d", y)
	}

	// Tall skies keep mirroring past row 255 rather than starting over.
	c.X = 0
	c.Frac = fixed.FromInt(255)
	r.DrawColumn(FlippedSky, c)
	for y, want := range []byte{0, 126, 125, 124} {
		assert.Equal(t, want, r.Screen.At(0, y), "tall flipped row %d", y)
	}

	c.Frac = fixed.FromInt(-2)
	r.DrawColumn(FlippedSky, c)
	for y, want := range []byte{126, 127, 0, 1} {
		assert.Equal(t, want, r.Screen.At(0, y), "negative flipped row %d", y)
	}
}
