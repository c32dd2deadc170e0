package draw

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"github.com/taigrr/retroview/pkg/level"
	"github.com/taigrr/retroview/pkg/palette"
)

// FlatSize is the edge length of a floor/ceiling flat.
const FlatSize = 64

// WallTexture is stored column-major so a wall column is one contiguous
// slice.
type WallTexture struct {
	Name   string
	Width  int
	Height int
	Pixels []byte // column x starts at x*Height
}

// NewWallTexture creates an empty wall texture.
func NewWallTexture(name string, width, height int) *WallTexture {
	return &WallTexture{
		Name:   name,
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height),
	}
}

// Column returns texture column x, wrapped horizontally.
func (t *WallTexture) Column(x int) []byte {
	x %= t.Width
	if x < 0 {
		x += t.Width
	}
	return t.Pixels[x*t.Height : (x+1)*t.Height]
}

// Set sets the texel at (x, y).
func (t *WallTexture) Set(x, y int, c byte) {
	t.Pixels[x*t.Height+y] = c
}

// At returns the texel at (x, y).
func (t *WallTexture) At(x, y int) byte {
	return t.Pixels[x*t.Height+y]
}

// Flat is a 64x64 row-major floor or ceiling texture.
type Flat struct {
	Name   string
	Pixels []byte
}

// NewFlat creates an empty flat.
func NewFlat(name string) *Flat {
	return &Flat{Name: name, Pixels: make([]byte, FlatSize*FlatSize)}
}

// Set sets the texel at (x, y).
func (f *Flat) Set(x, y int, c byte) {
	f.Pixels[y*FlatSize+x] = c
}

// TextureSet resolves level texture and flat ids. Index 0 of Walls is
// unused because TextureID 0 means "no texture".
type TextureSet struct {
	Walls []*WallTexture
	Flats []*Flat
	Sky   *WallTexture
}

// Wall returns the texture for id, or nil.
func (ts *TextureSet) Wall(id level.TextureID) *WallTexture {
	if id <= 0 || int(id) >= len(ts.Walls) {
		return nil
	}
	return ts.Walls[id]
}

// Flat returns the flat for id, or nil.
func (ts *TextureSet) Flat(id level.FlatID) *Flat {
	if id < 0 || int(id) >= len(ts.Flats) {
		return nil
	}
	return ts.Flats[id]
}

// TextureFromImage converts an image to a wall texture, mapping every
// pixel to its nearest palette entry.
func TextureFromImage(name string, img image.Image, m *palette.Matcher) *WallTexture {
	bounds := img.Bounds()
	tex := NewWallTexture(name, bounds.Dx(), bounds.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.Set(x, y, m.Nearest(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
		}
	}
	return tex
}

// LoadWallTexture loads a wall texture from an image file.
func LoadWallTexture(path string, m *palette.Matcher) (*WallTexture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return TextureFromImage(path, img, m), nil
}

// NewCheckerWall creates a procedural checkerboard wall texture.
func NewCheckerWall(name string, width, height, checkSize int, c1, c2 byte) *WallTexture {
	tex := NewWallTexture(name, width, height)
	for x := range width {
		for y := range height {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.Set(x, y, c1)
			} else {
				tex.Set(x, y, c2)
			}
		}
	}
	return tex
}

// NewBrickWall creates a running-bond brick texture with mortar lines.
func NewBrickWall(name string, width, height int, brick, mortar byte) *WallTexture {
	const bw, bh = 32, 16
	tex := NewWallTexture(name, width, height)
	for y := range height {
		row := y / bh
		shift := 0
		if row%2 == 1 {
			shift = bw / 2
		}
		for x := range width {
			c := brick - byte((x+y)%3)
			if y%bh == 0 || (x+shift)%bw == 0 {
				c = mortar
			}
			tex.Set(x, y, c)
		}
	}
	return tex
}

// NewCheckerFlat creates a checkerboard flat.
func NewCheckerFlat(name string, checkSize int, c1, c2 byte) *Flat {
	f := NewFlat(name)
	for y := range FlatSize {
		for x := range FlatSize {
			if (x/checkSize+y/checkSize)%2 == 0 {
				f.Set(x, y, c1)
			} else {
				f.Set(x, y, c2)
			}
		}
	}
	return f
}

// NewGradientSky creates a sky texture fading from top to horizon along a
// palette ramp [first, first+steps).
func NewGradientSky(width, height int, first byte, steps int) *WallTexture {
	tex := NewWallTexture("SKY", width, height)
	for x := range width {
		for y := range height {
			tex.Set(x, y, first+byte((steps-1)*(height-1-y)/max(height-1, 1)))
		}
	}
	return tex
}

// DefaultTextures returns the procedural set the grid builder's default
// ids resolve to: brick walls, a 72-texel-high upper texture (not a power
// of two, so it exercises the modulo path), a checker lower texture, and
// flats for sky (0), floor (1) and ceiling (2).
func DefaultTextures() *TextureSet {
	return &TextureSet{
		Walls: []*WallTexture{
			nil,
			NewBrickWall("BRICK", 64, 128, 190, 100),
			NewCheckerWall("UPPER", 64, 72, 8, 132, 138),
			NewCheckerWall("LOWER", 64, 64, 16, 96, 104),
		},
		Flats: []*Flat{
			NewCheckerFlat("F_SKY", 64, 200, 200),
			NewCheckerFlat("FLOOR", 16, 100, 106),
			NewCheckerFlat("CEIL", 32, 90, 94),
		},
		Sky: NewGradientSky(256, 128, 192, 16),
	}
}
