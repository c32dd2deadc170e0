package palette

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// TableSize is the size of a two-colour blend table.
const TableSize = 256 * 256

// Additive is passed as a percentage to request a saturating additive
// blend instead of a weighted one.
const Additive = -1

// Filter selects which source colours a filtered table blends. Colours
// outside the filter pass through unchanged.
type Filter func(c colorful.Color) bool

// All accepts every colour.
func All(colorful.Color) bool { return true }

func hueFilter(from, to float64) Filter {
	return func(c colorful.Color) bool {
		h, s, v := c.Hsv()
		if s < 0.4 || v < 0.1 {
			return false
		}
		if from > to {
			return h >= from || h < to
		}
		return h >= from && h < to
	}
}

var (
	Reds   = hueFilter(330, 30)
	Greens = hueFilter(75, 165)
	Blues  = hueFilter(180, 270)
)

// RedsAndWhites accepts reds plus near-white colours.
func RedsAndWhites(c colorful.Color) bool {
	if Reds(c) {
		return true
	}
	_, s, v := c.Hsv()
	return s < 0.15 && v > 0.75
}

// Tint builds a blend table indexed by (first<<8)|second. Each entry is the
// palette colour closest to first*percent% + second*(100-percent)%, or the
// saturated sum when percent is Additive. Sources (second) rejected by the
// filter map to themselves.
func Tint(p *Palette, m *Matcher, percent int, filter Filter) []byte {
	tab := make([]byte, TableSize)
	var pass [256]bool
	for i, c := range p {
		pass[i] = filter(toColorful(c))
	}
	for first := range 256 {
		c1 := p[first]
		for second := range 256 {
			idx := first<<8 | second
			if !pass[second] {
				tab[idx] = byte(second)
				continue
			}
			c2 := p[second]
			if percent == Additive {
				tab[idx] = m.Nearest(addSat(c1.R, c2.R), addSat(c1.G, c2.G), addSat(c1.B, c2.B))
				continue
			}
			tab[idx] = m.Nearest(mix(c1.R, c2.R, percent), mix(c1.G, c2.G, percent), mix(c1.B, c2.B, percent))
		}
	}
	return tab
}

func mix(a, b uint8, percent int) uint8 {
	return uint8((int(a)*percent + int(b)*(100-percent)) / 100)
}

func addSat(a, b uint8) uint8 {
	return uint8(min(int(a)+int(b), 255))
}
