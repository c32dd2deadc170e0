package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/retroview/pkg/fixed"
)

func indexFlat() []byte {
	src := make([]byte, FlatSize*FlatSize)
	for y := range FlatSize {
		for x := range FlatSize {
			src[y*FlatSize+x] = byte(x + y)
		}
	}
	return src
}

func TestSpot(t *testing.T) {
	tests := []struct {
		name string
		x, y fixed.Fixed
		want int
	}{
		{"origin", 0, 0, 0},
		{"x wraps", fixed.FromInt(65), 0, 1},
		{"y row", 0, fixed.FromInt(2), 128},
		{"y wraps", 0, fixed.FromInt(64 + 3), 192},
		{"negative x", fixed.FromInt(-1), 0, 63},
		{"fractions truncate", fixed.FromInt(5) + fixed.FracUnit/2, fixed.FromInt(1) + fixed.FracUnit - 1, 69},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, spot(tc.x, tc.y))
		})
	}
}

func TestOpaqueSpan(t *testing.T) {
	for _, width := range []int{1, 3, 4, 7, 13} {
		r := createTestRasterizer(t, 16, 2, 255)
		r.DrawSpan(SpanOpaque, &Span{
			Y: 1, X1: 2, X2: 2 + width - 1,
			XFrac:    fixed.FromInt(60),
			YFrac:    fixed.FromInt(2),
			XStep:    fixed.FracUnit,
			Source:   indexFlat(),
			Colormap: identity(),
		})
		for i := range width {
			want := byte((60+i)&63 + 2)
			assert.Equal(t, want, r.Screen.At(2+i, 1), "width %d pixel %d", width, i)
		}
		assert.Equal(t, byte(255), r.Screen.At(2+width, 1))
		assert.Equal(t, 16+16-width, countColor(r.Screen, 255))
	}
}

func TestSpanInvertedIsNoop(t *testing.T) {
	r := createTestRasterizer(t, 8, 1, 7)
	r.DrawSpan(SpanOpaque, &Span{X1: 5, X2: 4, Source: indexFlat(), Colormap: identity()})
	assert.Equal(t, 8, countColor(r.Screen, 7))
}

func TestFullbrightSpan(t *testing.T) {
	dark := make([]byte, 256)
	mask := make([]byte, 256)
	mask[3] = 1
	r := createTestRasterizer(t, 4, 1, 255)
	r.DrawSpan(SpanFullbright, &Span{
		X1: 0, X2: 3,
		XFrac:     fixed.FromInt(1),
		XStep:     fixed.FracUnit,
		Source:    indexFlat(),
		Colormap:  dark,
		Colormask: mask,
	})
	assert.Equal(t, []byte{0, 0, 3, 0}, r.Screen.Pix)
}

func BenchmarkDrawSpan(b *testing.B) {
	r := createTestRasterizer(b, 320, 200, 0)
	s := &Span{
		Y: 100, X1: 0, X2: 319,
		XStep:    fixed.FracUnit / 3,
		YStep:    fixed.FracUnit / 5,
		Source:   indexFlat(),
		Colormap: identity(),
	}
	for b.Loop() {
		r.DrawSpan(SpanOpaque, s)
	}
}
