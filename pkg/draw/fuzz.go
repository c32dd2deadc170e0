package draw

const (
	noise1 = 0xB5297A4D
	noise2 = 0x68E31DA4
	noise3 = 0x1B56C4E9
)

// noiseRand is a counter-based generator: reseeding rewinds it exactly.
type noiseRand struct {
	idx  uint32
	seed uint32
}

func noise(p, s uint32) uint32 {
	m := p
	m *= noise1
	m += s
	m ^= m >> 8
	m *= noise2
	m ^= m << 8
	m *= noise3
	m ^= m >> 8
	return m
}

func (n *noiseRand) intn(k int) int {
	n.idx++
	return int(noise(n.idx, n.seed) % uint32(k))
}

// fuzzEntry is the recorded choice for one pixel. cmap 0 means the pixel
// was left alone.
type fuzzEntry struct {
	offset int8 // rows: -1, 0 or +1
	cmap   uint8
}

// FuzzState records, per screen pixel, which neighbour the fuzz effect
// sampled and how it darkened it, so a paused frame can be redrawn
// identically without drawing new random numbers.
type FuzzState struct {
	width  int
	height int
	table  []fuzzEntry
	rng    noiseRand
}

// NewFuzzState allocates a table for a width x height screen.
func NewFuzzState(width, height int) *FuzzState {
	return &FuzzState{
		width:  width,
		height: height,
		table:  make([]fuzzEntry, width*height),
	}
}

// Seed restarts the random sequence.
func (f *FuzzState) Seed(seed uint32) {
	f.rng = noiseRand{seed: seed}
}

// Reset forgets every recorded choice.
func (f *FuzzState) Reset() {
	clear(f.table)
}

// pick returns a row offset in [a-1, b-1], narrowed so it never leaves the
// screen at row y.
func (f *FuzzState) pick(a, b, y int) int8 {
	if y == 0 && a < 1 {
		a = 1
	}
	if y == f.height-1 && b > 1 {
		b = 1
	}
	return int8(f.rng.intn(b-a+1) + a - 1)
}

// apply darkens pixel i with colormap cmap sampled at offset rows away and
// records the choice.
func (r *Rasterizer) applyFuzz(i int, cmap uint8, offset int8) {
	pix := r.Screen.Pix
	r.Fuzz.table[i] = fuzzEntry{offset: offset, cmap: cmap}
	pix[i] = r.Tables.Colormaps[cmap][pix[i+int(offset)*r.Screen.Width]]
}

func (r *Rasterizer) skipFuzz(i int) {
	r.Fuzz.table[i] = fuzzEntry{}
}

func (r *Rasterizer) replayFuzz(i int) {
	e := r.Fuzz.table[i]
	if e.cmap == 0 {
		return
	}
	pix := r.Screen.Pix
	pix[i] = r.Tables.Colormaps[e.cmap][pix[i+int(e.offset)*r.Screen.Width]]
}

func fuzzColumn(r *Rasterizer, c *Column) {
	f := r.Fuzz
	w := r.Screen.Width
	i := c.YL*w + c.X
	y := c.YL

	if c.YH > c.YL {
		// top
		switch {
		case y == 0:
			r.applyFuzz(i, fuzzMiddleMap, f.pick(1, 2, y))
		case f.rng.intn(4) == 0:
			r.applyFuzz(i, fuzzEdgeMap, f.pick(0, 2, y))
		default:
			r.skipFuzz(i)
		}
		i += w
		y++

		for ; y < c.YH; y++ {
			r.applyFuzz(i, fuzzMiddleMap, f.pick(0, 2, y))
			i += w
		}
	}

	// bottom
	switch {
	case c.YH == r.Screen.Height-1:
		r.applyFuzz(i, fuzzBottomMap, f.pick(0, 1, y))
	case !c.Clipped && f.rng.intn(4) == 0:
		r.applyFuzz(i, fuzzClipMap, f.pick(0, 1, y))
	default:
		r.skipFuzz(i)
	}
}

func pausedFuzzColumn(r *Rasterizer, c *Column) {
	w := r.Screen.Width
	i := c.YL*w + c.X
	for y := c.YL; y <= c.YH; y++ {
		r.replayFuzz(i)
		i += w
	}
}

// fuzzMaskColumn marks the run in the silhouette buffer for a later
// DrawFuzzBuffer pass.
func fuzzMaskColumn(r *Rasterizer, c *Column) {
	sil := r.Screen.Silhouette
	w := r.Screen.Width
	i := c.YL*w + c.X
	for count := c.YH - c.YL + 1; count > 0; count-- {
		sil[i] = 0
		i += w
	}
}

// DrawFuzzBuffer applies the fuzz effect to every pixel marked in the
// silhouette buffer. Pixels on the silhouette's edge are darkened at
// random; interior pixels always are.
func (r *Rasterizer) DrawFuzzBuffer() {
	s := r.Screen
	f := r.Fuzz
	sil := s.Silhouette
	w, h := s.Width, s.Height

	for x := range w {
		for y := range h {
			i := y*w + x
			if sil[i] == NoFuzz {
				r.skipFuzz(i)
				continue
			}
			switch {
			case y == 0 || sil[i-w] == NoFuzz:
				// top of a post
				r.randomFuzz(i, y)
			case y == h-1:
				r.applyFuzz(i, fuzzBottomMap, f.pick(0, 1, y))
			case sil[i+w] == NoFuzz:
				// bottom of a post
				r.randomFuzz(i, y)
			case x == 0 || x == w-1 || sil[i-1] == NoFuzz || sil[i+1] == NoFuzz:
				r.randomFuzz(i, y)
			default:
				r.applyFuzz(i, fuzzMiddleMap, f.pick(0, 2, y))
			}
		}
	}
}

func (r *Rasterizer) randomFuzz(i, y int) {
	if r.Fuzz.rng.intn(4) == 0 {
		r.applyFuzz(i, fuzzEdgeMap, r.Fuzz.pick(0, 2, y))
		return
	}
	r.skipFuzz(i)
}

// ReplayFuzzBuffer redraws the choices recorded by the last DrawFuzzBuffer
// without consuming random numbers.
func (r *Rasterizer) ReplayFuzzBuffer() {
	s := r.Screen
	for x := range s.Width {
		for y := range s.Height {
			r.replayFuzz(y*s.Width + x)
		}
	}
}
