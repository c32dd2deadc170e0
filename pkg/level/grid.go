package level

import (
	"github.com/pkg/errors"

	"github.com/taigrr/retroview/pkg/fixed"
)

// Cell describes one square of a grid level.
type Cell struct {
	// Void cells are solid rock: no sector, walls around them.
	Void bool
	// Group > 0 merges every cell with the same group into one sector.
	// Group 0 gives the cell a sector of its own.
	Group int

	Floor, Ceiling int // map units
	Light          int16
	FloorPic       FlatID
	CeilingPic     FlatID
	// Wall overrides the builder's wall texture on one-sided walls facing
	// this cell.
	Wall TextureID
}

// GridBuilder lays out a level on a square grid and builds a BSP for it by
// recursive axis-aligned splits. Every open cell becomes one subsector with
// four segs; edges between open cells are two-sided lines.
type GridBuilder struct {
	Cols, Rows int
	CellSize   int // map units

	Default Cell
	// Cells is row-major, row 0 at the bottom. Nil means every cell is
	// Default.
	Cells []Cell

	WallTexture  TextureID
	UpperTexture TextureID
	LowerTexture TextureID
	SkyFlat      FlatID
}

// NewGridBuilder returns a builder for an open cols x rows room with
// 128-unit cells.
func NewGridBuilder(cols, rows int) *GridBuilder {
	return &GridBuilder{
		Cols:     cols,
		Rows:     rows,
		CellSize: 128,
		Default: Cell{
			Ceiling:    128,
			Light:      160,
			FloorPic:   1,
			CeilingPic: 2,
		},
		WallTexture:  1,
		UpperTexture: 2,
		LowerTexture: 3,
		SkyFlat:      0,
	}
}

// Cell returns the cell at column c, row r.
func (b *GridBuilder) Cell(c, r int) Cell {
	if b.Cells == nil {
		return b.Default
	}
	return b.Cells[r*b.Cols+c]
}

// Set replaces the cell at column c, row r.
func (b *GridBuilder) Set(c, r int, cell Cell) {
	if b.Cells == nil {
		b.Cells = make([]Cell, b.Cols*b.Rows)
		for i := range b.Cells {
			b.Cells[i] = b.Default
		}
	}
	b.Cells[r*b.Cols+c] = cell
}

type segRef struct {
	line int
	side int
}

type gridBuild struct {
	*GridBuilder
	lvl       *Level
	sectorOf  []int
	cellSegs  [][]segRef
	subOf     []int
	lineSides [][2]int
}

// Build produces the level. The result passes Validate.
func (b *GridBuilder) Build() (*Level, error) {
	if b.Cols < 1 || b.Rows < 1 {
		return nil, errors.Errorf("grid: bad size %dx%d", b.Cols, b.Rows)
	}
	if b.CellSize < 1 {
		return nil, errors.Errorf("grid: bad cell size %d", b.CellSize)
	}
	if b.Cells != nil && len(b.Cells) != b.Cols*b.Rows {
		return nil, errors.Errorf("grid: %d cells for a %dx%d grid", len(b.Cells), b.Cols, b.Rows)
	}

	g := &gridBuild{GridBuilder: b, lvl: &Level{SkyFlat: b.SkyFlat}}
	g.sectors()
	if len(g.lvl.Sectors) == 0 {
		return nil, errors.New("grid: every cell is void")
	}
	g.vertices()
	g.lines()
	g.segs()

	g.split(0, b.Cols, 0, b.Rows)

	if err := g.lvl.Validate(); err != nil {
		return nil, errors.Wrap(err, "grid")
	}
	return g.lvl, nil
}

func (g *gridBuild) cellIndex(c, r int) int { return r*g.Cols + c }

func (g *gridBuild) open(c, r int) bool {
	if c < 0 || r < 0 || c >= g.Cols || r >= g.Rows {
		return false
	}
	return !g.Cell(c, r).Void
}

func (g *gridBuild) sectors() {
	g.sectorOf = make([]int, g.Cols*g.Rows)
	groups := map[int]int{}
	for r := range g.Rows {
		for c := range g.Cols {
			cell := g.Cell(c, r)
			i := g.cellIndex(c, r)
			if cell.Void {
				g.sectorOf[i] = -1
				continue
			}
			if cell.Group > 0 {
				if s, ok := groups[cell.Group]; ok {
					g.sectorOf[i] = s
					continue
				}
				groups[cell.Group] = len(g.lvl.Sectors)
			}
			g.sectorOf[i] = len(g.lvl.Sectors)
			g.lvl.Sectors = append(g.lvl.Sectors, Sector{
				FloorHeight:   fixed.FromInt(cell.Floor),
				CeilingHeight: fixed.FromInt(cell.Ceiling),
				FloorPic:      cell.FloorPic,
				CeilingPic:    cell.CeilingPic,
				LightLevel:    cell.Light,
			})
		}
	}
}

func (g *gridBuild) vertices() {
	g.lvl.Vertices = make([]Vertex, (g.Cols+1)*(g.Rows+1))
	for y := 0; y <= g.Rows; y++ {
		for x := 0; x <= g.Cols; x++ {
			g.lvl.Vertices[g.vertex(x, y)] = Vertex{
				X: fixed.FromInt(x * g.CellSize),
				Y: fixed.FromInt(y * g.CellSize),
			}
		}
	}
}

func (g *gridBuild) vertex(x, y int) int { return y*(g.Cols+1) + x }

// edge adds the line between cells a and b. The line runs v1 -> v2 with a
// on its right; when only b is open the direction flips so the open cell
// is always the front.
func (g *gridBuild) edge(v1, v2 int, ac, ar, bc, br int) {
	aOpen, bOpen := g.open(ac, ar), g.open(bc, br)
	switch {
	case !aOpen && !bOpen:
		return
	case !aOpen:
		v1, v2 = v2, v1
		ac, ar, bc, br = bc, br, ac, ar
		bOpen = false
	}

	lineIdx := len(g.lvl.Lines)
	front := g.cellIndex(ac, ar)
	ln := Line{
		Flags: Blocking,
		Sides: [2]int{-1, -1},
	}

	fs := Side{}
	if bOpen {
		ln.Flags = TwoSided
		fs.TopTexture = g.UpperTexture
		fs.BottomTexture = g.LowerTexture
	} else {
		fs.MidTexture = g.WallTexture
		if w := g.Cell(ac, ar).Wall; w != NoTexture {
			fs.MidTexture = w
		}
	}
	ln.Sides[0] = len(g.lvl.Sides)
	g.lvl.Sides = append(g.lvl.Sides, fs)
	g.lineSides = append(g.lineSides, [2]int{v1, v2})
	g.cellSegs[front] = append(g.cellSegs[front], segRef{line: lineIdx, side: 0})

	if bOpen {
		back := g.cellIndex(bc, br)
		ln.Sides[1] = len(g.lvl.Sides)
		g.lvl.Sides = append(g.lvl.Sides, Side{
			TopTexture:    g.UpperTexture,
			BottomTexture: g.LowerTexture,
		})
		g.cellSegs[back] = append(g.cellSegs[back], segRef{line: lineIdx, side: 1})
	}
	g.lvl.Lines = append(g.lvl.Lines, ln)
}

func (g *gridBuild) lines() {
	g.cellSegs = make([][]segRef, g.Cols*g.Rows)

	// Vertical edges: the cell on the west sees the line heading south.
	for x := 0; x <= g.Cols; x++ {
		for r := range g.Rows {
			g.edge(g.vertex(x, r+1), g.vertex(x, r), x-1, r, x, r)
		}
	}
	// Horizontal edges: the cell below sees the line heading east.
	for y := 0; y <= g.Rows; y++ {
		for c := range g.Cols {
			g.edge(g.vertex(c, y), g.vertex(c+1, y), c, y-1, c, y)
		}
	}

	// Sides, lines and sectors are final; wire the pointers.
	for i := range g.lvl.Lines {
		ln := &g.lvl.Lines[i]
		vs := g.lineSides[i]
		ln.V1 = &g.lvl.Vertices[vs[0]]
		ln.V2 = &g.lvl.Vertices[vs[1]]
		ln.DX = ln.V2.X - ln.V1.X
		ln.DY = ln.V2.Y - ln.V1.Y
		ln.BBox = fixed.EmptyBBox()
		ln.BBox.AddPoint(ln.V1.X, ln.V1.Y)
		ln.BBox.AddPoint(ln.V2.X, ln.V2.Y)
	}
}

func (g *gridBuild) segs() {
	g.subOf = make([]int, g.Cols*g.Rows)
	for r := range g.Rows {
		for c := range g.Cols {
			i := g.cellIndex(c, r)
			if g.sectorOf[i] < 0 {
				g.subOf[i] = -1
				continue
			}
			sec := &g.lvl.Sectors[g.sectorOf[i]]
			for _, ref := range g.cellSegs[i] {
				ln := &g.lvl.Lines[ref.line]
				side := &g.lvl.Sides[ln.Sides[ref.side]]
				side.Sector = sec
				if ref.side == 0 {
					ln.FrontSector = sec
				} else {
					ln.BackSector = sec
				}
			}
		}
	}

	for i := range g.lvl.Lines {
		ln := &g.lvl.Lines[i]
		ln.FrontSector.Lines = append(ln.FrontSector.Lines, ln)
		if ln.BackSector != nil && ln.BackSector != ln.FrontSector {
			ln.BackSector.Lines = append(ln.BackSector.Lines, ln)
		}
	}

	for r := range g.Rows {
		for c := range g.Cols {
			i := g.cellIndex(c, r)
			if g.sectorOf[i] < 0 {
				continue
			}
			g.subOf[i] = len(g.lvl.Subsectors)
			ss := Subsector{
				Sector:   &g.lvl.Sectors[g.sectorOf[i]],
				FirstSeg: len(g.lvl.Segs),
				NumSegs:  len(g.cellSegs[i]),
			}
			for _, ref := range g.cellSegs[i] {
				ln := &g.lvl.Lines[ref.line]
				sg := Seg{
					V1:          ln.V1,
					V2:          ln.V2,
					Side:        &g.lvl.Sides[ln.Sides[ref.side]],
					Line:        ln,
					FrontSector: ln.FrontSector,
					BackSector:  ln.BackSector,
				}
				if ref.side == 1 {
					sg.V1, sg.V2 = ln.V2, ln.V1
					sg.FrontSector, sg.BackSector = ln.BackSector, ln.FrontSector
				}
				sg.Angle = fixed.PointToAngle2(sg.V1.X, sg.V1.Y, sg.V2.X, sg.V2.Y)
				g.lvl.Segs = append(g.lvl.Segs, sg)
			}
			g.lvl.Subsectors = append(g.lvl.Subsectors, ss)
		}
	}
}

func (g *gridBuild) cellBox(c, r int) fixed.BBox {
	s := g.CellSize
	return fixed.BBox{
		fixed.BoxTop:    fixed.FromInt((r + 1) * s),
		fixed.BoxBottom: fixed.FromInt(r * s),
		fixed.BoxLeft:   fixed.FromInt(c * s),
		fixed.BoxRight:  fixed.FromInt((c + 1) * s),
	}
}

// split builds the subtree for the cells in [c0,c1) x [r0,r1). It reports
// false when the region holds no open cell.
func (g *gridBuild) split(c0, c1, r0, r1 int) (Child, fixed.BBox, bool) {
	var last, count int
	box := fixed.EmptyBBox()
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			if i := g.cellIndex(c, r); g.subOf[i] >= 0 {
				last = i
				count++
				box = box.Union(g.cellBox(c, r))
			}
		}
	}
	switch count {
	case 0:
		return 0, box, false
	case 1:
		return SubsectorChild(g.subOf[last]), box, true
	}

	var n Node
	var front, back Child
	var fbox, bbox fixed.BBox
	var fok, bok bool
	if c1-c0 >= r1-r0 {
		// Partition heads north, so the east half is in front.
		cm := (c0 + c1) / 2
		front, fbox, fok = g.split(cm, c1, r0, r1)
		back, bbox, bok = g.split(c0, cm, r0, r1)
		n = Node{
			X:  fixed.FromInt(cm * g.CellSize),
			Y:  fixed.FromInt(r0 * g.CellSize),
			DY: fixed.FromInt((r1 - r0) * g.CellSize),
		}
	} else {
		// Partition heads east, so the south half is in front.
		rm := (r0 + r1) / 2
		front, fbox, fok = g.split(c0, c1, r0, rm)
		back, bbox, bok = g.split(c0, c1, rm, r1)
		n = Node{
			X:  fixed.FromInt(c0 * g.CellSize),
			Y:  fixed.FromInt(rm * g.CellSize),
			DX: fixed.FromInt((c1 - c0) * g.CellSize),
		}
	}
	if !fok {
		return back, bbox, true
	}
	if !bok {
		return front, fbox, true
	}

	n.Children = [2]Child{front, back}
	n.BBox = [2]fixed.BBox{fbox, bbox}
	g.lvl.Nodes = append(g.lvl.Nodes, n)
	return Child(len(g.lvl.Nodes) - 1), box, true
}
