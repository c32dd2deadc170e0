package draw

import "github.com/taigrr/retroview/pkg/fixed"

// wrapFrac brings frac into [0, height) for textures whose height is not a
// power of two.
func wrapFrac(frac, height fixed.Fixed) fixed.Fixed {
	for frac < 0 {
		frac += height
	}
	for frac >= height {
		frac -= height
	}
	return frac
}

func wallColumn(r *Rasterizer, c *Column) {
	if c.TexHeight <= 0 {
		return
	}
	pix := r.Screen.Pix
	w := r.Screen.Width
	dest := c.YL*w + c.X
	frac, step := c.Frac, c.Step
	src, cmap := c.Source, c.Colormap
	count := c.YH - c.YL + 1
	mask := c.TexHeight - 1

	if c.TexHeight&mask != 0 {
		// Not a power of two: a bitmask would tile with a seam, so wrap
		// explicitly every step.
		height := fixed.FromInt(c.TexHeight)
		frac = wrapFrac(frac, height)
		for ; count > 0; count-- {
			pix[dest] = cmap[src[frac>>fixed.FracBits]]
			dest += w
			frac += step
			for frac >= height {
				frac -= height
			}
		}
	} else {
		for ; count >= 8; count -= 8 {
			pix[dest] = cmap[src[int(frac>>fixed.FracBits)&mask]]
			frac += step
			pix[dest+w] = cmap[src[int(frac>>fixed.FracBits)&mask]]
			frac += step
			pix[dest+2*w] = cmap[src[int(frac>>fixed.FracBits)&mask]]
			frac += step
			pix[dest+3*w] = cmap[src[int(frac>>fixed.FracBits)&mask]]
			frac += step
			pix[dest+4*w] = cmap[src[int(frac>>fixed.FracBits)&mask]]
			frac += step
			pix[dest+5*w] = cmap[src[int(frac>>fixed.FracBits)&mask]]
			frac += step
			pix[dest+6*w] = cmap[src[int(frac>>fixed.FracBits)&mask]]
			frac += step
			pix[dest+7*w] = cmap[src[int(frac>>fixed.FracBits)&mask]]
			frac += step
			dest += 8 * w
		}
		for ; count > 0; count-- {
			pix[dest] = cmap[src[int(frac>>fixed.FracBits)&mask]]
			dest += w
			frac += step
		}
	}

	sparkle(r, c, frac)
}

func fullbrightWallColumn(r *Rasterizer, c *Column) {
	if c.TexHeight <= 0 {
		return
	}
	pix := r.Screen.Pix
	w := r.Screen.Width
	dest := c.YL*w + c.X
	frac, step := c.Frac, c.Step
	src, cmap, cmask := c.Source, c.Colormap, c.Colormask
	mask := c.TexHeight - 1
	pow2 := c.TexHeight&mask == 0
	height := fixed.FromInt(c.TexHeight)
	if !pow2 {
		frac = wrapFrac(frac, height)
	}

	for count := c.YH - c.YL + 1; count > 0; count-- {
		var dot byte
		if pow2 {
			dot = src[int(frac>>fixed.FracBits)&mask]
		} else {
			dot = src[frac>>fixed.FracBits]
		}
		if cmask[dot] != 0 {
			pix[dest] = dot
		} else {
			pix[dest] = cmap[dot]
		}
		dest += w
		frac += step
		for !pow2 && frac >= height {
			frac -= height
		}
	}

	sparkle(r, c, frac)
}

// sparkle hides the single-pixel glitter at the ends of a run by copying
// the neighbouring pixel inside it. frac is the value after the last step.
func sparkle(r *Rasterizer, c *Column, frac fixed.Fixed) {
	if c.YH <= c.YL {
		return
	}
	pix := r.Screen.Pix
	w := r.Screen.Width
	if c.BottomSparkle && ((frac-c.Step)>>fixed.FracBits)&2 == 0 {
		pix[c.YH*w+c.X] = pix[(c.YH-1)*w+c.X]
	}
	if c.TopSparkle {
		pix[c.YL*w+c.X] = pix[(c.YL+1)*w+c.X]
	}
}

func skyColumn(r *Rasterizer, c *Column) {
	pix := r.Screen.Pix
	w := r.Screen.Width
	dest := c.YL*w + c.X
	frac, step := c.Frac, c.Step
	src, cmap := c.Source, c.Colormap
	mask := c.TexHeight - 1

	for count := c.YH - c.YL + 1; count > 0; count-- {
		pix[dest] = cmap[src[int(frac>>fixed.FracBits)&mask]]
		dest += w
		frac += step
	}
}

// flippedSkyColumn mirrors a 128-row sky below its last row instead of
// tiling it. Rows past 255 keep mirroring the low seven bits.
func flippedSkyColumn(r *Rasterizer, c *Column) {
	pix := r.Screen.Pix
	w := r.Screen.Width
	dest := c.YL*w + c.X
	frac, step := c.Frac, c.Step
	src, cmap := c.Source, c.Colormap

	for count := c.YH - c.YL + 1; count > 0; count-- {
		i := int(frac >> fixed.FracBits)
		switch {
		case i > 127:
			i = max(126-(i&127), 0)
		case i < 0:
			i &= 127
		}
		pix[dest] = cmap[src[i]]
		dest += w
		frac += step
	}
}
