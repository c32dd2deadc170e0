package draw

import "github.com/taigrr/retroview/pkg/fixed"

// Span holds the parameters for one horizontal run across a 64x64 flat.
type Span struct {
	Y      int
	X1, X2 int // inclusive

	XFrac, YFrac fixed.Fixed
	XStep, YStep fixed.Fixed

	Source    []byte // FlatSize*FlatSize, row-major
	Colormap  []byte
	Colormask []byte
}

// spot packs the integer parts of the two accumulators into a flat index.
func spot(xfrac, yfrac fixed.Fixed) int {
	return int((xfrac>>16)&63) | int((yfrac>>10)&4032)
}

func opaqueSpan(r *Rasterizer, s *Span) {
	pix := r.Screen.Pix
	dest := s.Y*r.Screen.Width + s.X1
	xfrac, yfrac := s.XFrac, s.YFrac
	xstep, ystep := s.XStep, s.YStep
	src, cmap := s.Source, s.Colormap
	count := s.X2 - s.X1 + 1

	for ; count >= 4; count -= 4 {
		pix[dest] = cmap[src[spot(xfrac, yfrac)]]
		xfrac += xstep
		yfrac += ystep
		pix[dest+1] = cmap[src[spot(xfrac, yfrac)]]
		xfrac += xstep
		yfrac += ystep
		pix[dest+2] = cmap[src[spot(xfrac, yfrac)]]
		xfrac += xstep
		yfrac += ystep
		pix[dest+3] = cmap[src[spot(xfrac, yfrac)]]
		xfrac += xstep
		yfrac += ystep
		dest += 4
	}
	for ; count > 0; count-- {
		pix[dest] = cmap[src[spot(xfrac, yfrac)]]
		xfrac += xstep
		yfrac += ystep
		dest++
	}
}

func fullbrightSpan(r *Rasterizer, s *Span) {
	pix := r.Screen.Pix
	dest := s.Y*r.Screen.Width + s.X1
	xfrac, yfrac := s.XFrac, s.YFrac
	src, cmap, cmask := s.Source, s.Colormap, s.Colormask

	for count := s.X2 - s.X1 + 1; count > 0; count-- {
		dot := src[spot(xfrac, yfrac)]
		if cmask[dot] != 0 {
			pix[dest] = dot
		} else {
			pix[dest] = cmap[dot]
		}
		xfrac += s.XStep
		yfrac += s.YStep
		dest++
	}
}
