package palette

import "github.com/chewxy/math32"

const (
	// LightMaps is the number of distance/light fade levels.
	LightMaps = 32
	// Invulnerability is the inverted grayscale map.
	Invulnerability = 32
	// BlackMap maps every colour to black.
	BlackMap = 33
	// NumColormaps is LightMaps plus the two special maps.
	NumColormaps = 34
)

// Colormaps holds one 256-entry lookup per light level. Map 0 is full
// brightness, map 31 nearly black.
type Colormaps [NumColormaps][256]byte

// Map returns colormap i as a slice.
func (c *Colormaps) Map(i int) []byte {
	return c[i][:]
}

// BuildColormaps fades every palette entry toward black in LightMaps steps
// and adds the invulnerability and black maps.
func BuildColormaps(p *Palette, m *Matcher) *Colormaps {
	var cm Colormaps
	black := m.Nearest(0, 0, 0)
	for level := range LightMaps {
		f := float32(LightMaps-level) / LightMaps
		for i, c := range p {
			cm[level][i] = m.Nearest(fade(c.R, f), fade(c.G, f), fade(c.B, f))
		}
	}
	for i, c := range p {
		// Rec. 601 luma, inverted.
		y := 0.299*float32(c.R) + 0.587*float32(c.G) + 0.114*float32(c.B)
		g := uint8(255 - math32.Floor(y+0.5))
		cm[Invulnerability][i] = m.Nearest(g, g, g)
		cm[BlackMap][i] = black
	}
	return &cm
}

func fade(v uint8, f float32) uint8 {
	return uint8(math32.Min(255, math32.Floor(float32(v)*f+0.5)))
}
