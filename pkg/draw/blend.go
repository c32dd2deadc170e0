package draw

// BlendMode selects how a column combines its source with the screen.
type BlendMode uint8

const (
	Opaque BlendMode = iota
	Wall
	FullbrightWall
	Sky
	FlippedSky
	Translated
	Translucent
	Translucent33
	Translucent50
	RedToBlue
	RedToGreen
	RedToYellow
	RedToBlue33
	RedToGreen33
	MegaSphere
	SolidMegaSphere
	TranslucentRed
	TranslucentGreen
	TranslucentBlue
	TranslucentRed50
	TranslucentGreen50
	TranslucentBlue50
	TranslucentRedWhite
	TranslucentRedWhite50
	Shadow
	SpectreShadow
	SolidShadow
	BloodSplat
	SolidBloodSplat
	Fuzz
	PausedFuzz
	FuzzMask

	numBlendModes
)

var blendNames = [numBlendModes]string{
	"opaque", "wall", "fullbright-wall", "sky", "flipped-sky", "translated",
	"translucent", "translucent33", "translucent50",
	"red-to-blue", "red-to-green", "red-to-yellow", "red-to-blue33", "red-to-green33",
	"megasphere", "solid-megasphere",
	"translucent-red", "translucent-green", "translucent-blue",
	"translucent-red50", "translucent-green50", "translucent-blue50",
	"translucent-redwhite", "translucent-redwhite50",
	"shadow", "spectre-shadow", "solid-shadow", "blood-splat", "solid-blood-splat",
	"fuzz", "paused-fuzz", "fuzz-mask",
}

func (m BlendMode) String() string {
	if m < numBlendModes {
		return blendNames[m]
	}
	return "unknown"
}

// ParseBlendMode returns the mode whose String is name.
func ParseBlendMode(name string) (BlendMode, bool) {
	for i, n := range blendNames {
		if n == name {
			return BlendMode(i), true
		}
	}
	return 0, false
}

// BlendModes returns every blend mode in declaration order.
func BlendModes() []BlendMode {
	modes := make([]BlendMode, numBlendModes)
	for i := range modes {
		modes[i] = BlendMode(i)
	}
	return modes
}

// SpanMode selects how a span is lit.
type SpanMode uint8

const (
	SpanOpaque SpanMode = iota
	SpanFullbright

	numSpanModes
)

type columnFunc func(r *Rasterizer, c *Column)

type spanFunc func(r *Rasterizer, s *Span)

var columnFuncs = [numBlendModes]columnFunc{
	Opaque:         opaqueColumn,
	Wall:           wallColumn,
	FullbrightWall: fullbrightWallColumn,
	Sky:            skyColumn,
	FlippedSky:     flippedSkyColumn,

	Translated:            sampled(opTranslated),
	Translucent:           sampled(opTranslucent),
	Translucent33:         sampled(opTranslucent33),
	Translucent50:         sampled(opTranslucent50),
	RedToBlue:             sampled(opRedToBlue),
	RedToGreen:            sampled(opRedToGreen),
	RedToYellow:           sampled(opRedToYellow),
	RedToBlue33:           sampled(opRedToBlue33),
	RedToGreen33:          sampled(opRedToGreen33),
	MegaSphere:            sampled(opMegaSphere),
	SolidMegaSphere:       sampled(opSolidMegaSphere),
	TranslucentRed:        sampled(opRed),
	TranslucentGreen:      sampled(opGreen),
	TranslucentBlue:       sampled(opBlue),
	TranslucentRed50:      sampled(opRed50),
	TranslucentGreen50:    sampled(opGreen50),
	TranslucentBlue50:     sampled(opBlue50),
	TranslucentRedWhite:   sampled(opRedWhite),
	TranslucentRedWhite50: sampled(opRedWhite50),

	Shadow:          shadowColumn,
	SpectreShadow:   spectreShadowColumn,
	SolidShadow:     solidShadowColumn,
	BloodSplat:      bloodSplatColumn,
	SolidBloodSplat: solidBloodSplatColumn,

	Fuzz:       fuzzColumn,
	PausedFuzz: pausedFuzzColumn,
	FuzzMask:   fuzzMaskColumn,
}

var spanFuncs = [numSpanModes]spanFunc{
	SpanOpaque:     opaqueSpan,
	SpanFullbright: fullbrightSpan,
}

// Rasterizer draws columns and spans into a screen.
type Rasterizer struct {
	Screen *Screen
	Tables *Tables
	Fuzz   *FuzzState
}

// NewRasterizer returns a rasterizer with a fuzz table sized to s.
func NewRasterizer(s *Screen, t *Tables) *Rasterizer {
	return &Rasterizer{
		Screen: s,
		Tables: t,
		Fuzz:   NewFuzzState(s.Width, s.Height),
	}
}

// DrawColumn draws c with the given blend mode. A column with YL > YH
// draws nothing. Coordinates and texture indices are not checked.
func (r *Rasterizer) DrawColumn(mode BlendMode, c *Column) {
	if c.YL > c.YH {
		return
	}
	columnFuncs[mode](r, c)
}

// DrawSpan draws s with the given span mode. A span with X1 > X2 draws
// nothing.
func (r *Rasterizer) DrawSpan(mode SpanMode, s *Span) {
	if s.X1 > s.X2 {
		return
	}
	spanFuncs[mode](r, s)
}
