// Package export turns a level into a triangle mesh and writes it as
// binary glTF.
package export

import (
	"github.com/chewxy/math32"
)

// Vec3 is a position or normal in glTF space: Y up, one unit per map unit
// times the export scale.
type Vec3 [3]float32

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Len returns the length of a.
func (a Vec3) Len() float32 {
	return math32.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}

// Normalize returns a unit vector, or a unchanged if it has no length.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return a
	}
	return Vec3{a[0] / l, a[1] / l, a[2] / l}
}

// Mesh is an indexed triangle mesh with one material per face.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Faces     []Face
	Materials []Material

	BoundsMin Vec3
	BoundsMax Vec3
}

type Vertex struct {
	Position Vec3
	Normal   Vec3
}

// Face is one counter-clockwise triangle.
type Face struct {
	V        [3]int
	Material int // -1 for none
}

// Material is a flat-coloured surface.
type Material struct {
	Name      string
	BaseColor [4]float64 // linear RGBA
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			m.BoundsMin[i] = min(m.BoundsMin[i], v.Position[i])
			m.BoundsMax[i] = max(m.BoundsMax[i], v.Position[i])
		}
	}
}

// CalculateNormals gives every vertex its face's normal. Faces built by
// FromLevel never share vertices, so this is exact.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		for _, i := range f.V {
			m.Vertices[i].Normal = n
		}
	}
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int { return len(m.Faces) }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// addQuad appends a quad as two triangles. Corners run counter-clockwise
// seen from the front.
func (m *Mesh) addQuad(a, b, c, d Vec3, material int) {
	m.addPolygon([]Vec3{a, b, c, d}, material)
}

// addPolygon fans a convex counter-clockwise polygon into triangles.
func (m *Mesh) addPolygon(pts []Vec3, material int) {
	base := len(m.Vertices)
	for _, p := range pts {
		m.Vertices = append(m.Vertices, Vertex{Position: p})
	}
	for i := 1; i+1 < len(pts); i++ {
		m.Faces = append(m.Faces, Face{
			V:        [3]int{base, base + i, base + i + 1},
			Material: material,
		})
	}
}
