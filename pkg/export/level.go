package export

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/retroview/pkg/draw"
	"github.com/taigrr/retroview/pkg/fixed"
	"github.com/taigrr/retroview/pkg/level"
	"github.com/taigrr/retroview/pkg/palette"
)

// DefaultScale maps one 64-unit flat to one glTF unit.
const DefaultScale = 1.0 / 64

// Options control FromLevel.
type Options struct {
	// Scale is glTF units per map unit; DefaultScale when zero.
	Scale float32
	// Palette and Textures give materials the average colour of their
	// texture. Without them every material is a grey.
	Palette  *palette.Palette
	Textures *draw.TextureSet
}

type levelBuilder struct {
	lvl   *level.Level
	opts  Options
	mesh  *Mesh
	names map[string]int
}

// FromLevel builds a mesh of every wall, floor and non-sky ceiling in lvl.
// Walls face the sector they bound; floors face up and ceilings down.
func FromLevel(lvl *level.Level, name string, opts Options) *Mesh {
	if opts.Scale == 0 {
		opts.Scale = DefaultScale
	}
	b := &levelBuilder{
		lvl:   lvl,
		opts:  opts,
		mesh:  NewMesh(name),
		names: map[string]int{},
	}

	for i := range lvl.Segs {
		b.seg(&lvl.Segs[i])
	}
	for i := range lvl.Subsectors {
		b.subsector(&lvl.Subsectors[i])
	}

	b.mesh.CalculateNormals()
	b.mesh.CalculateBounds()
	return b.mesh
}

// point converts a map position and height to glTF space. Map north is -Z.
func (b *levelBuilder) point(x, y, z fixed.Fixed) Vec3 {
	s := b.opts.Scale
	return Vec3{float32(x.Float()) * s, float32(z.Float()) * s, -float32(y.Float()) * s}
}

func (b *levelBuilder) seg(seg *level.Seg) {
	front, back := seg.FrontSector, seg.BackSector
	if back == nil {
		b.wall(seg, front.FloorHeight, front.CeilingHeight, seg.Side.MidTexture)
		return
	}
	// Two sky ceilings share one sky; there is no upper wall between them.
	bothSky := b.lvl.IsSky(front.CeilingPic) && b.lvl.IsSky(back.CeilingPic)
	if back.CeilingHeight < front.CeilingHeight && !bothSky {
		b.wall(seg, back.CeilingHeight, front.CeilingHeight, seg.Side.TopTexture)
	}
	if back.FloorHeight > front.FloorHeight {
		b.wall(seg, front.FloorHeight, back.FloorHeight, seg.Side.BottomTexture)
	}
}

func (b *levelBuilder) wall(seg *level.Seg, bottom, top fixed.Fixed, tex level.TextureID) {
	if top <= bottom {
		return
	}
	v1, v2 := seg.V1, seg.V2
	b.mesh.addQuad(
		b.point(v1.X, v1.Y, bottom),
		b.point(v2.X, v2.Y, bottom),
		b.point(v2.X, v2.Y, top),
		b.point(v1.X, v1.Y, top),
		b.wallMaterial(tex),
	)
}

func (b *levelBuilder) subsector(ss *level.Subsector) {
	if ss.NumSegs < 3 {
		return
	}
	segs := b.lvl.Segs[ss.FirstSeg : ss.FirstSeg+ss.NumSegs]

	// Subsectors are convex, so sorting corners by angle around the
	// centroid recovers the outline.
	var cx, cy float64
	corners := make([]*level.Vertex, 0, len(segs))
	for i := range segs {
		corners = append(corners, segs[i].V1)
		cx += segs[i].V1.X.Float()
		cy += segs[i].V1.Y.Float()
	}
	cx /= float64(len(corners))
	cy /= float64(len(corners))
	sort.Slice(corners, func(i, j int) bool {
		ai := math32.Atan2(float32(corners[i].Y.Float()-cy), float32(corners[i].X.Float()-cx))
		aj := math32.Atan2(float32(corners[j].Y.Float()-cy), float32(corners[j].X.Float()-cx))
		return ai < aj
	})

	sec := ss.Sector
	floor := make([]Vec3, len(corners))
	for i, v := range corners {
		floor[i] = b.point(v.X, v.Y, sec.FloorHeight)
	}
	b.mesh.addPolygon(floor, b.flatMaterial(sec.FloorPic))

	if b.lvl.IsSky(sec.CeilingPic) {
		return
	}
	ceiling := make([]Vec3, len(corners))
	for i, v := range corners {
		// Reversed so the ceiling faces down.
		ceiling[len(corners)-1-i] = b.point(v.X, v.Y, sec.CeilingHeight)
	}
	b.mesh.addPolygon(ceiling, b.flatMaterial(sec.CeilingPic))
}

func (b *levelBuilder) wallMaterial(id level.TextureID) int {
	name := fmt.Sprintf("wall%d", id)
	if i, ok := b.names[name]; ok {
		return i
	}
	var pixels []byte
	if b.opts.Textures != nil {
		if tex := b.opts.Textures.Wall(id); tex != nil {
			name, pixels = tex.Name, tex.Pixels
		}
	}
	return b.material(fmt.Sprintf("wall%d", id), name, pixels, int(id))
}

func (b *levelBuilder) flatMaterial(id level.FlatID) int {
	name := fmt.Sprintf("flat%d", id)
	if i, ok := b.names[name]; ok {
		return i
	}
	var pixels []byte
	if b.opts.Textures != nil {
		if f := b.opts.Textures.Flat(id); f != nil {
			name, pixels = f.Name, f.Pixels
		}
	}
	return b.material(fmt.Sprintf("flat%d", id), name, pixels, int(id)+8)
}

func (b *levelBuilder) material(key, name string, pixels []byte, shade int) int {
	var c colorful.Color
	if b.opts.Palette != nil && len(pixels) > 0 {
		c = averageColor(b.opts.Palette, pixels)
	} else {
		g := 0.3 + 0.05*float64(shade%12)
		c = colorful.Color{R: g, G: g, B: g}
	}
	r, g, bl := c.LinearRgb()
	b.mesh.Materials = append(b.mesh.Materials, Material{
		Name:      name,
		BaseColor: [4]float64{r, g, bl, 1},
	})
	i := len(b.mesh.Materials) - 1
	b.names[key] = i
	return i
}

// averageColor averages the palette colours of pixels in linear light.
func averageColor(p *palette.Palette, pixels []byte) colorful.Color {
	var r, g, bl float64
	for _, px := range pixels {
		lr, lg, lb := colorful.Color{
			R: float64(p[px].R) / 255,
			G: float64(p[px].G) / 255,
			B: float64(p[px].B) / 255,
		}.LinearRgb()
		r += lr
		g += lg
		bl += lb
	}
	n := float64(len(pixels))
	return colorful.LinearRgb(r/n, g/n, bl/n).Clamped()
}
