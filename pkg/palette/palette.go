// Package palette builds the 8-bit lookup tables the rasterizers index:
// light colormaps, translucency tables, hue remaps and player
// translations, all derived from one 256-colour palette.
package palette

import (
	"fmt"
	"image/color"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Size is the number of bytes in a raw palette.
const Size = 256 * 3

// Palette is a 256-colour palette.
type Palette [256]color.RGBA

// FromBytes reads a raw palette of 768 RGB bytes. Longer inputs (a lump
// holding several palettes) use the first one.
func FromBytes(b []byte) (*Palette, error) {
	if len(b) < Size {
		return nil, fmt.Errorf("palette: need %d bytes, got %d", Size, len(b))
	}
	var p Palette
	for i := range p {
		p[i] = color.RGBA{R: b[i*3], G: b[i*3+1], B: b[i*3+2], A: 255}
	}
	return &p, nil
}

// Load reads a raw palette file.
func Load(path string) (*Palette, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette: %w", err)
	}
	return FromBytes(b)
}

// Bytes returns the palette as 768 RGB bytes.
func (p *Palette) Bytes() []byte {
	b := make([]byte, 0, Size)
	for _, c := range p {
		b = append(b, c.R, c.G, c.B)
	}
	return b
}

// ramp fills count entries from start, bright to dark, along one hue.
type ramp struct {
	start, count int
	hue, sat     float64
	hi, lo       float64
}

// Index ranges follow the classic layout so the hue remap and translation
// tables land on the colours they expect.
var defaultRamps = []ramp{
	{1, 15, 30, 0.55, 0.50, 0.08},    // dark browns
	{16, 32, 5, 0.45, 1.00, 0.20},    // flesh
	{48, 32, 30, 0.55, 0.95, 0.15},   // tans and browns
	{80, 32, 0, 0.00, 1.00, 0.05},    // grays
	{112, 16, 120, 0.75, 0.90, 0.10}, // greens
	{128, 16, 30, 0.60, 0.75, 0.10},  // browns
	{144, 8, 70, 0.50, 0.60, 0.15},   // olives
	{152, 8, 25, 0.70, 0.45, 0.10},   // dark browns
	{160, 8, 50, 0.85, 1.00, 0.40},   // yellows
	{168, 8, 330, 0.40, 1.00, 0.50},  // pinks
	{176, 16, 0, 0.90, 1.00, 0.15},   // reds
	{192, 16, 230, 0.80, 1.00, 0.10}, // blues
	{208, 16, 30, 0.90, 1.00, 0.30},  // oranges
	{224, 8, 55, 0.90, 1.00, 0.50},   // yellows
	{232, 8, 30, 0.80, 0.50, 0.10},   // dark oranges
	{240, 8, 240, 0.90, 0.35, 0.02},  // dark blues
	{248, 8, 280, 0.60, 1.00, 0.30},  // purples
}

// Default returns a procedurally generated palette with the classic index
// layout: black at 0, then ramps of browns, flesh, grays, greens, reds,
// blues and yellows.
func Default() *Palette {
	var p Palette
	p[0] = color.RGBA{A: 255}
	for _, r := range defaultRamps {
		for i := range r.count {
			t := float64(i) / float64(r.count-1)
			v := r.hi + (r.lo-r.hi)*t
			c := colorful.Hsv(r.hue, r.sat, v).Clamped()
			cr, cg, cb := c.RGB255()
			p[r.start+i] = color.RGBA{R: cr, G: cg, B: cb, A: 255}
		}
	}
	return &p
}

// Matcher finds the palette entry closest to an arbitrary colour in Lab
// space. Results are cached per 24-bit colour.
type Matcher struct {
	lab   [256][3]float64
	cache map[uint32]byte
}

// NewMatcher prepares a matcher for p.
func NewMatcher(p *Palette) *Matcher {
	m := &Matcher{cache: make(map[uint32]byte)}
	for i, c := range p {
		l, a, b := toColorful(c).Lab()
		m.lab[i] = [3]float64{l, a, b}
	}
	return m
}

// Nearest returns the index of the entry closest to (r, g, b). Ties go to
// the lower index.
func (m *Matcher) Nearest(r, g, b uint8) byte {
	key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	if idx, ok := m.cache[key]; ok {
		return idx
	}
	l, a, bb := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Lab()
	best, bestDist := 0, -1.0
	for i := range m.lab {
		dl := m.lab[i][0] - l
		da := m.lab[i][1] - a
		db := m.lab[i][2] - bb
		d := dl*dl + da*da + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	m.cache[key] = byte(best)
	return byte(best)
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
