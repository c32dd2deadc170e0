package draw

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/retroview/pkg/fixed"
	"github.com/taigrr/retroview/pkg/palette"
)

var (
	tablesOnce sync.Once
	testTables *Tables
)

// sharedTables builds the full table set once per test binary.
func sharedTables() *Tables {
	tablesOnce.Do(func() {
		testTables = NewTables(palette.Default())
	})
	return testTables
}

func identity() []byte {
	id := palette.Identity()
	return id[:]
}

func solidSource(n int, c byte) []byte {
	src := make([]byte, n)
	for i := range src {
		src[i] = c
	}
	return src
}

// createTestRasterizer returns a rasterizer over a screen cleared to bg.
func createTestRasterizer(t testing.TB, width, height int, bg byte) *Rasterizer {
	t.Helper()
	s := NewScreen(width, height)
	s.Clear(bg)
	return NewRasterizer(s, sharedTables())
}

func countColor(s *Screen, c byte) int {
	n := 0
	for _, p := range s.Pix {
		if p == c {
			n++
		}
	}
	return n
}

func TestOpaqueColumnFill(t *testing.T) {
	tests := []struct {
		name   string
		yl, yh int
		want   int
	}{
		{"single pixel", 5, 5, 1},
		{"full height", 0, 31, 32},
		{"middle run", 10, 20, 11},
		{"inverted range is a no-op", 12, 11, 0},
		{"far inverted range", 31, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := createTestRasterizer(t, 16, 32, 0)
			c := &Column{
				X:        7,
				YL:       tc.yl,
				YH:       tc.yh,
				Step:     fixed.FracUnit,
				Source:   solidSource(64, 42),
				Colormap: identity(),
			}
			r.DrawColumn(Opaque, c)

			assert.Equal(t, tc.want, countColor(r.Screen, 42))
			for y := tc.yl; y <= tc.yh; y++ {
				assert.Equal(t, byte(42), r.Screen.At(7, y), "row %d", y)
			}
		})
	}
}

func TestOpaqueColumnSamplesSource(t *testing.T) {
	r := createTestRasterizer(t, 4, 8, 0)
	src := []byte{10, 11, 12, 13, 14, 15, 16, 17}
	r.DrawColumn(Opaque, &Column{
		X: 1, YL: 0, YH: 3,
		Frac:     fixed.FromInt(2),
		Step:     fixed.FracUnit,
		Source:   src,
		Colormap: identity(),
	})
	for y := range 4 {
		assert.Equal(t, src[y+2], r.Screen.At(1, y))
	}
}

func TestEveryModeRespectsRange(t *testing.T) {
	tables := sharedTables()
	for _, mode := range BlendModes() {
		t.Run(mode.String(), func(t *testing.T) {
			r := createTestRasterizer(t, 8, 16, 96)
			r.Fuzz.Seed(1)
			tr := tables.Translations[palette.TranslateRed]
			c := &Column{
				X: 3, YL: 4, YH: 9,
				Step:        fixed.FracUnit,
				Source:      solidSource(128, 180),
				TexHeight:   128,
				Colormap:    tables.Colormap(0),
				Translation: tr[:],
				Colormask:   make([]byte, 256),
				Tint:        176,
			}
			r.DrawColumn(mode, c)

			for y := range 16 {
				for x := range 8 {
					if x == 3 && y >= 4 && y <= 9 {
						continue
					}
					require.Equal(t, byte(96), r.Screen.At(x, y), "%s wrote (%d,%d)", mode, x, y)
				}
			}
		})
	}
}

func TestShadowEdges(t *testing.T) {
	tables := sharedTables()
	r := createTestRasterizer(t, 1, 10, 80)
	r.DrawColumn(Shadow, &Column{X: 0, YL: 2, YH: 7})

	edge := tables.Tint25[80]
	interior := tables.Tint40[80]
	assert.Equal(t, edge, r.Screen.At(0, 2))
	assert.Equal(t, edge, r.Screen.At(0, 7))
	for y := 3; y < 7; y++ {
		assert.Equal(t, interior, r.Screen.At(0, y))
	}
	assert.Equal(t, byte(80), r.Screen.At(0, 1))
	assert.Equal(t, byte(80), r.Screen.At(0, 8))
}

func TestSolidModes(t *testing.T) {
	r := createTestRasterizer(t, 2, 4, 80)
	r.DrawColumn(SolidShadow, &Column{X: 0, YL: 0, YH: 3})
	r.DrawColumn(SolidBloodSplat, &Column{X: 1, YL: 1, YH: 2, Tint: 180})

	for y := range 4 {
		assert.Equal(t, byte(0), r.Screen.At(0, y))
	}
	assert.Equal(t, byte(80), r.Screen.At(1, 0))
	assert.Equal(t, byte(180), r.Screen.At(1, 1))
	assert.Equal(t, byte(180), r.Screen.At(1, 2))
}

func TestTranslatedColumn(t *testing.T) {
	tables := sharedTables()
	r := createTestRasterizer(t, 1, 4, 0)
	tr := tables.Translations[palette.TranslateBrown]
	r.DrawColumn(Translated, &Column{
		X: 0, YL: 0, YH: 3,
		Step:        fixed.FracUnit,
		Source:      solidSource(4, 0x73),
		Colormap:    identity(),
		Translation: tr[:],
	})
	assert.Equal(t, 4, countColor(r.Screen, 0x43))
}

func TestTranslucent50MatchesTable(t *testing.T) {
	tables := sharedTables()
	r := createTestRasterizer(t, 1, 3, 100)
	r.DrawColumn(Translucent50, &Column{
		X: 0, YL: 0, YH: 2,
		Step:     fixed.FracUnit,
		Source:   solidSource(3, 180),
		Colormap: identity(),
	})
	want := tables.Tint50[100<<8|180]
	assert.Equal(t, 3, countColor(r.Screen, want))
}

func BenchmarkDrawColumn(b *testing.B) {
	tables := sharedTables()
	r := createTestRasterizer(b, 320, 200, 0)
	c := &Column{
		X: 160, YL: 0, YH: 199,
		Step:      fixed.FracUnit / 2,
		Source:    solidSource(128, 180),
		TexHeight: 128,
		Colormap:  tables.Colormap(4),
	}

	for _, mode := range []BlendMode{Opaque, Wall, Translucent33, Shadow, Fuzz} {
		b.Run(mode.String(), func(b *testing.B) {
			for b.Loop() {
				r.DrawColumn(mode, c)
			}
		})
	}
}

func TestParseBlendMode(t *testing.T) {
	for _, mode := range BlendModes() {
		got, ok := ParseBlendMode(mode.String())
		require.True(t, ok, mode.String())
		assert.Equal(t, mode, got)
	}
	_, ok := ParseBlendMode("glow")
	assert.False(t, ok)
}
