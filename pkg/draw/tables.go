package draw

import "github.com/taigrr/retroview/pkg/palette"

// Colormap indices the fuzz effect darkens through.
const (
	fuzzMiddleMap = 6
	fuzzEdgeMap   = 12
	fuzzBottomMap = 5
	fuzzClipMap   = 14
)

// Tables are the precomputed lookups shared by every rasterizer.
type Tables struct {
	Colormaps *palette.Colormaps

	// Weighted blends, indexed (first<<8)|second with first weighted by
	// the table's percentage.
	Tint25 []byte
	Tint33 []byte
	Tint40 []byte
	Tint50 []byte
	Tint75 []byte

	// Additive is a saturating additive blend of every colour.
	Additive []byte

	// Filtered tables blend only sources in their colour family.
	Red, Green, Blue, RedWhite         []byte
	Red50, Green50, Blue50, RedWhite50 []byte

	RedToBlue   palette.Remap
	RedToGreen  palette.Remap
	RedToYellow palette.Remap
	MegaSphere  palette.Remap

	Translations [palette.NumTranslations]palette.Remap
}

// NewTables builds every table from a palette.
func NewTables(p *palette.Palette) *Tables {
	m := palette.NewMatcher(p)
	return &Tables{
		Colormaps: palette.BuildColormaps(p, m),

		Tint25: palette.Tint(p, m, 25, palette.All),
		Tint33: palette.Tint(p, m, 33, palette.All),
		Tint40: palette.Tint(p, m, 40, palette.All),
		Tint50: palette.Tint(p, m, 50, palette.All),
		Tint75: palette.Tint(p, m, 75, palette.All),

		Additive: palette.Tint(p, m, palette.Additive, palette.All),

		Red:        palette.Tint(p, m, palette.Additive, palette.Reds),
		Green:      palette.Tint(p, m, palette.Additive, palette.Greens),
		Blue:       palette.Tint(p, m, palette.Additive, palette.Blues),
		RedWhite:   palette.Tint(p, m, palette.Additive, palette.RedsAndWhites),
		Red50:      palette.Tint(p, m, 50, palette.Reds),
		Green50:    palette.Tint(p, m, 50, palette.Greens),
		Blue50:     palette.Tint(p, m, 50, palette.Blues),
		RedWhite50: palette.Tint(p, m, 50, palette.RedsAndWhites),

		RedToBlue:   palette.RedToBlue(),
		RedToGreen:  palette.RedToGreen(),
		RedToYellow: palette.RedToYellow(),
		MegaSphere:  palette.MegaSphere(),

		Translations: palette.Translations(),
	}
}

// Colormap returns light map i.
func (t *Tables) Colormap(i int) []byte {
	return t.Colormaps.Map(i)
}
