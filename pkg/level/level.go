// Package level holds the read-only geometry the renderer walks: vertices,
// lines, sides, sectors, segs, subsectors and BSP nodes.
package level

import "github.com/taigrr/retroview/pkg/fixed"

// TextureID names a wall texture. Zero means "no texture".
type TextureID int

// FlatID names a floor or ceiling flat.
type FlatID int

// NoTexture is the empty wall texture.
const NoTexture TextureID = 0

// Vertex is a point on the map.
type Vertex struct {
	X, Y fixed.Fixed
}

// LineFlags are the per-line flag bits. The renderer reads only the peg
// flags, and only for texture alignment.
type LineFlags uint16

const (
	Blocking LineFlags = 1 << iota
	BlockMonsters
	TwoSided
	DontPegTop
	DontPegBottom
	Secret
	SoundBlock
	DontDraw
	Mapped
)

// Has reports whether all bits of f are set.
func (l LineFlags) Has(f LineFlags) bool {
	return l&f == f
}

// Line is a linedef: two vertices with one or two sides.
type Line struct {
	V1, V2  *Vertex
	DX, DY  fixed.Fixed
	Flags   LineFlags
	Special int16
	Tag     int16
	// Sides indexes Level.Sides; -1 marks a missing back side.
	Sides       [2]int
	FrontSector *Sector
	BackSector  *Sector
	BBox        fixed.BBox
}

// Side is one face of a line.
type Side struct {
	TextureOffset fixed.Fixed
	RowOffset     fixed.Fixed
	TopTexture    TextureID
	BottomTexture TextureID
	MidTexture    TextureID
	Sector        *Sector
}

// Sector is a region with a single floor and ceiling. Heights, flats and
// light are updated by the simulation between frames; the renderer only
// reads them.
type Sector struct {
	FloorHeight   fixed.Fixed
	CeilingHeight fixed.Fixed
	FloorPic      FlatID
	CeilingPic    FlatID
	LightLevel    int16
	Special       int16
	Tag           int16
	Lines         []*Line

	// ActiveSpecial is owned by whatever drives doors and lifts. The
	// renderer never looks inside it.
	ActiveSpecial any
}

// HasActiveSpecial reports whether a mover currently owns the sector.
func (s *Sector) HasActiveSpecial() bool {
	return s.ActiveSpecial != nil
}

// Seg is the part of a line that bounds one subsector.
type Seg struct {
	V1, V2      *Vertex
	Offset      fixed.Fixed
	Angle       fixed.Angle
	Side        *Side
	Line        *Line
	FrontSector *Sector
	BackSector  *Sector
}

// Subsector is a convex leaf: a run of segs inside one sector.
type Subsector struct {
	Sector   *Sector
	FirstSeg int
	NumSegs  int
}

// Child references either a node or, when SubsectorFlag is set, a
// subsector.
type Child uint32

// SubsectorFlag tags a Child as a subsector index.
const SubsectorFlag Child = 1 << 31

// SubsectorChild returns the child reference for subsector i.
func SubsectorChild(i int) Child {
	return Child(i) | SubsectorFlag
}

// IsSubsector reports whether c is a leaf.
func (c Child) IsSubsector() bool {
	return c&SubsectorFlag != 0
}

// Index returns the node or subsector index with the tag removed.
func (c Child) Index() int {
	return int(c &^ SubsectorFlag)
}

// Node is an internal BSP node. Children[0] and BBox[0] are the front
// (right) side of the partition line.
type Node struct {
	X, Y     fixed.Fixed
	DX, DY   fixed.Fixed
	BBox     [2]fixed.BBox
	Children [2]Child
}

// Level is a complete, immutable map.
type Level struct {
	Vertices   []Vertex
	Sectors    []Sector
	Sides      []Side
	Lines      []Line
	Segs       []Seg
	Subsectors []Subsector
	Nodes      []Node

	// SkyFlat is the ceiling flat that means "draw the sky here".
	SkyFlat FlatID
}

// Root returns the BSP root. A level without nodes is a single subsector.
func (l *Level) Root() Child {
	if len(l.Nodes) == 0 {
		return SubsectorChild(0)
	}
	return Child(len(l.Nodes) - 1)
}

// IsSky reports whether pic is the sky flat.
func (l *Level) IsSky(pic FlatID) bool {
	return pic == l.SkyFlat
}

// PointInSubsector walks the tree to the leaf containing (x, y).
func (l *Level) PointInSubsector(x, y fixed.Fixed) *Subsector {
	if len(l.Nodes) == 0 {
		return &l.Subsectors[0]
	}
	c := l.Root()
	for !c.IsSubsector() {
		n := &l.Nodes[c.Index()]
		c = n.Children[PointOnSide(x, y, n)]
	}
	return &l.Subsectors[c.Index()]
}
