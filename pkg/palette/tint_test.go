package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func luma(p *Palette, i byte) int {
	c := p[i]
	return 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
}

func TestTint50Symmetric(t *testing.T) {
	p := Default()
	tab := Tint(p, NewMatcher(p), 50, All)
	require.Len(t, tab, TableSize)

	for a := range 256 {
		for b := range 256 {
			if tab[a<<8|b] != tab[b<<8|a] {
				t.Fatalf("tint50[%d,%d] = %d, tint50[%d,%d] = %d", a, b, tab[a<<8|b], b, a, tab[b<<8|a])
			}
		}
	}
}

func TestTintSameColour(t *testing.T) {
	p := Default()
	m := NewMatcher(p)
	tab := Tint(p, m, 33, All)
	for _, i := range []int{0, 40, 100, 180, 210} {
		got := tab[i<<8|i]
		assert.Equal(t, p[i], p[got], "blending %d with itself", i)
	}
}

func TestShadowWeights(t *testing.T) {
	p := Default()
	m := NewMatcher(p)
	t25 := Tint(p, m, 25, All)
	t40 := Tint(p, m, 40, All)

	// Row 0 blends toward black: the 40% table darkens more.
	for _, i := range []byte{4, 80, 96, 168, 224} {
		assert.LessOrEqual(t, luma(p, t40[i]), luma(p, t25[i]), "entry %d", i)
		assert.LessOrEqual(t, luma(p, t25[i]), luma(p, i), "entry %d", i)
	}
}

func TestAdditiveFilter(t *testing.T) {
	p := Default()
	m := NewMatcher(p)
	red := Tint(p, m, Additive, Reds)

	// Grays fail the red filter and pass through.
	for _, src := range []int{80, 90, 100} {
		assert.Equal(t, byte(src), red[120<<8|src])
	}
	// A red source over black comes out as itself.
	got := red[0<<8|176]
	assert.Equal(t, p[176], p[got])
	// Additive never darkens the destination.
	dst := 100
	assert.GreaterOrEqual(t, luma(p, red[dst<<8|180]), luma(p, byte(dst)))
}

func TestFilters(t *testing.T) {
	p := Default()
	assert.True(t, Reds(toColorful(p[176])))
	assert.False(t, Reds(toColorful(p[200])))
	assert.True(t, Blues(toColorful(p[200])))
	assert.True(t, Greens(toColorful(p[115])))
	assert.True(t, RedsAndWhites(toColorful(p[80])))
	assert.False(t, RedsAndWhites(toColorful(p[100])))
}
