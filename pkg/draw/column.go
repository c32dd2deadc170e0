package draw

import "github.com/taigrr/retroview/pkg/fixed"

// Column holds the parameters for one vertical run of pixels. It is filled
// by the caller per draw and never retained.
type Column struct {
	X      int
	YL, YH int // inclusive

	// Frac is the texture row at YL; Step is added once per pixel.
	Frac fixed.Fixed
	Step fixed.Fixed

	Source    []byte
	TexHeight int

	Colormap    []byte
	Translation []byte
	// Colormask marks fullbright source texels that skip the colormap.
	Colormask []byte
	// Tint is the splat colour for the blood modes.
	Tint byte

	TopSparkle    bool
	BottomSparkle bool
	// Clipped suppresses the random bottom edge of a fuzz column when the
	// run was cut off by something in front of it.
	Clipped bool
}

func opaqueColumn(r *Rasterizer, c *Column) {
	pix := r.Screen.Pix
	w := r.Screen.Width
	dest := c.YL*w + c.X
	frac, step := c.Frac, c.Step
	src, cmap := c.Source, c.Colormap

	for count := c.YH - c.YL + 1; count > 0; count-- {
		pix[dest] = cmap[src[frac>>fixed.FracBits]]
		dest += w
		frac += step
	}
}

// pixelOp combines a source texel with the pixel already on screen.
type pixelOp func(t *Tables, c *Column, dst, src byte) byte

// sampled returns a column function that steps through the source and
// applies op at every pixel.
func sampled(op pixelOp) columnFunc {
	return func(r *Rasterizer, c *Column) {
		pix := r.Screen.Pix
		w := r.Screen.Width
		t := r.Tables
		dest := c.YL*w + c.X
		frac, step := c.Frac, c.Step
		src := c.Source

		for count := c.YH - c.YL + 1; count > 0; count-- {
			pix[dest] = op(t, c, pix[dest], src[frac>>fixed.FracBits])
			dest += w
			frac += step
		}
	}
}

func blend(tab []byte, dst, src byte) byte {
	return tab[int(dst)<<8|int(src)]
}

func opTranslated(_ *Tables, c *Column, _, s byte) byte {
	return c.Colormap[c.Translation[s]]
}

func opTranslucent(t *Tables, c *Column, d, s byte) byte {
	return blend(t.Additive, d, c.Colormap[s])
}

func opTranslucent33(t *Tables, c *Column, d, s byte) byte {
	return blend(t.Tint33, d, c.Colormap[s])
}

func opTranslucent50(t *Tables, c *Column, d, s byte) byte {
	return blend(t.Tint50, d, c.Colormap[s])
}

func opRedToBlue(t *Tables, c *Column, _, s byte) byte {
	return c.Colormap[t.RedToBlue[s]]
}

func opRedToGreen(t *Tables, c *Column, _, s byte) byte {
	return c.Colormap[t.RedToGreen[s]]
}

func opRedToYellow(t *Tables, c *Column, _, s byte) byte {
	return c.Colormap[t.RedToYellow[s]]
}

func opRedToBlue33(t *Tables, c *Column, d, s byte) byte {
	return blend(t.Tint33, d, c.Colormap[t.RedToBlue[s]])
}

func opRedToGreen33(t *Tables, c *Column, d, s byte) byte {
	return blend(t.Tint33, d, c.Colormap[t.RedToGreen[s]])
}

func opMegaSphere(t *Tables, c *Column, d, s byte) byte {
	return blend(t.Tint33, d, c.Colormap[t.MegaSphere[s]])
}

func opSolidMegaSphere(t *Tables, c *Column, _, s byte) byte {
	return c.Colormap[t.MegaSphere[s]]
}

func opRed(t *Tables, c *Column, d, s byte) byte {
	return blend(t.Red, d, c.Colormap[s])
}

func opGreen(t *Tables, c *Column, d, s byte) byte {
	return blend(t.Green, d, c.Colormap[s])
}

func opBlue(t *Tables, c *Column, d, s byte) byte {
	return blend(t.Blue, d, c.Colormap[s])
}

// The 50% and red/white tables blend unlit texels and light the result.

func opRed50(t *Tables, c *Column, d, s byte) byte {
	return c.Colormap[blend(t.Red50, d, s)]
}

func opGreen50(t *Tables, c *Column, d, s byte) byte {
	return c.Colormap[blend(t.Green50, d, s)]
}

func opBlue50(t *Tables, c *Column, d, s byte) byte {
	return c.Colormap[blend(t.Blue50, d, s)]
}

func opRedWhite(t *Tables, c *Column, d, s byte) byte {
	return c.Colormap[blend(t.RedWhite, d, s)]
}

func opRedWhite50(t *Tables, c *Column, d, s byte) byte {
	return c.Colormap[blend(t.RedWhite50, d, s)]
}

// shadowRun darkens a run toward black, lighter at the first and last
// pixel. When randomEdges is set each edge pixel is darkened only one time
// in four.
func shadowRun(r *Rasterizer, c *Column, edge, interior []byte, randomEdges bool) {
	pix := r.Screen.Pix
	w := r.Screen.Width
	dest := c.YL*w + c.X
	count := c.YH - c.YL + 1

	if count > 1 {
		if !randomEdges || r.Fuzz.rng.intn(4) == 0 {
			pix[dest] = edge[pix[dest]]
		}
		dest += w
		for count -= 2; count > 0; count-- {
			pix[dest] = interior[pix[dest]]
			dest += w
		}
	}
	if !randomEdges || r.Fuzz.rng.intn(4) == 0 {
		pix[dest] = edge[pix[dest]]
	}
}

func shadowColumn(r *Rasterizer, c *Column) {
	shadowRun(r, c, r.Tables.Tint25, r.Tables.Tint40, false)
}

func spectreShadowColumn(r *Rasterizer, c *Column) {
	shadowRun(r, c, r.Tables.Tint25, r.Tables.Tint25, true)
}

func solidShadowColumn(r *Rasterizer, c *Column) {
	fill(r, c, 0)
}

func bloodSplatColumn(r *Rasterizer, c *Column) {
	pix := r.Screen.Pix
	w := r.Screen.Width
	tab := r.Tables.Tint75
	dest := c.YL*w + c.X
	for count := c.YH - c.YL + 1; count > 0; count-- {
		pix[dest] = blend(tab, c.Tint, pix[dest])
		dest += w
	}
}

func solidBloodSplatColumn(r *Rasterizer, c *Column) {
	fill(r, c, c.Tint)
}

func fill(r *Rasterizer, c *Column, v byte) {
	pix := r.Screen.Pix
	w := r.Screen.Width
	dest := c.YL*w + c.X
	for count := c.YH - c.YL + 1; count > 0; count-- {
		pix[dest] = v
		dest += w
	}
}
