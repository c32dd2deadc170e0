// Package draw rasterizes vertical columns and horizontal spans into a
// palette-indexed screen.
package draw

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/taigrr/retroview/pkg/palette"
)

// NoFuzz marks silhouette pixels that carry no fuzz.
const NoFuzz = 251

// Screen is a palette-indexed frame buffer plus the silhouette buffer the
// whole-screen fuzz pass reads.
type Screen struct {
	Width      int
	Height     int
	Pix        []byte // row-major palette indices
	Silhouette []byte // same layout; NoFuzz where nothing fuzzy was drawn
}

// NewScreen allocates a screen.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		Width:      width,
		Height:     height,
		Pix:        make([]byte, width*height),
		Silhouette: make([]byte, width*height),
	}
	s.ClearSilhouette()
	return s
}

// Clear fills the screen with one palette index.
func (s *Screen) Clear(c byte) {
	for i := range s.Pix {
		s.Pix[i] = c
	}
}

// ClearSilhouette resets the silhouette buffer to NoFuzz.
func (s *Screen) ClearSilhouette() {
	for i := range s.Silhouette {
		s.Silhouette[i] = NoFuzz
	}
}

// SetPixel sets (x, y) to c. Out-of-range coordinates are ignored.
func (s *Screen) SetPixel(x, y int, c byte) {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return
	}
	s.Pix[y*s.Width+x] = c
}

// At returns the palette index at (x, y), or 0 out of range.
func (s *Screen) At(x, y int) byte {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return 0
	}
	return s.Pix[y*s.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm.
func (s *Screen) DrawLine(x0, y0, x1, y1 int, c byte) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		s.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect draws a filled rectangle.
func (s *Screen) DrawRect(x, y, w, h int, c byte) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			s.SetPixel(px, py, c)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage wraps the pixels in an image.Paletted sharing the same memory.
func (s *Screen) ToImage(pal *palette.Palette) *image.Paletted {
	cp := make(color.Palette, len(pal))
	for i, c := range pal {
		cp[i] = c
	}
	return &image.Paletted{
		Pix:     s.Pix,
		Stride:  s.Width,
		Rect:    image.Rect(0, 0, s.Width, s.Height),
		Palette: cp,
	}
}

// SavePNG writes the screen scaled up by an integer factor.
func (s *Screen) SavePNG(path string, pal *palette.Palette, scale int) error {
	if scale < 1 {
		scale = 1
	}
	src := s.ToImage(pal)
	dst := image.NewRGBA(image.Rect(0, 0, s.Width*scale, s.Height*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create screenshot: %w", err)
	}
	defer f.Close()
	return png.Encode(f, dst)
}
