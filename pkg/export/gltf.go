package export

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// SaveGLB writes m as a binary glTF file: one node, one mesh, and one
// primitive per material sharing a single vertex buffer.
func SaveGLB(path string, m *Mesh) error {
	doc := gltf.NewDocument()

	positions := make([][3]float32, len(m.Vertices))
	normals := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = v.Position
		normals[i] = v.Normal
	}
	posIdx := modeler.WritePosition(doc, positions)
	normIdx := modeler.WriteNormal(doc, normals)

	for _, mat := range m.Materials {
		base := mat.BaseColor
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: mat.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &base,
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(1),
			},
		})
	}

	// Group faces by material; -1 collects untextured faces.
	groups := map[int][]uint32{}
	var order []int
	for _, f := range m.Faces {
		if _, ok := groups[f.Material]; !ok {
			order = append(order, f.Material)
		}
		groups[f.Material] = append(groups[f.Material], uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
	}

	mesh := &gltf.Mesh{Name: m.Name}
	for _, mat := range order {
		prim := &gltf.Primitive{
			Mode:    gltf.PrimitiveTriangles,
			Indices: gltf.Index(modeler.WriteIndices(doc, groups[mat])),
			Attributes: map[string]int{
				gltf.POSITION: posIdx,
				gltf.NORMAL:   normIdx,
			},
		}
		if mat >= 0 {
			prim.Material = gltf.Index(mat)
		}
		mesh.Primitives = append(mesh.Primitives, prim)
	}
	doc.Meshes = []*gltf.Mesh{mesh}
	doc.Nodes = []*gltf.Node{{Name: m.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// LoadGLB reads a binary glTF file written by SaveGLB, or any file whose
// triangle primitives use float positions and embedded buffers.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, mat := range doc.Materials {
		out := Material{Name: mat.Name, BaseColor: [4]float64{1, 1, 1, 1}}
		if pbr := mat.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
			out.BaseColor = *pbr.BaseColorFactor
		}
		mesh.Materials = append(mesh.Materials, out)
	}

	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	// Primitives that share accessors share vertices.
	bases := map[int]int{}

	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		base, seen := bases[posIdx]
		if !seen {
			positions, err := readVec3(doc, posIdx)
			if err != nil {
				return fmt.Errorf("read positions: %w", err)
			}
			var normals [][3]float32
			if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				if normals, err = readVec3(doc, normIdx); err != nil {
					return fmt.Errorf("read normals: %w", err)
				}
			}

			base = len(mesh.Vertices)
			bases[posIdx] = base
			for i, p := range positions {
				v := Vertex{Position: p}
				if i < len(normals) {
					v.Normal = normals[i]
				}
				mesh.Vertices = append(mesh.Vertices, v)
			}
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}

		var indices []int
		if prim.Indices != nil {
			var err error
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			n := int(doc.Accessors[posIdx].Count)
			indices = make([]int, n)
			for i := range indices {
				indices[i] = i
			}
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Face{
				V:        [3]int{base + indices[i], base + indices[i+1], base + indices[i+2]},
				Material: material,
			})
		}
	}
	return nil
}

// accessorBytes returns the embedded bytes of an accessor and its stride.
func accessorBytes(doc *gltf.Document, acc *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if acc.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	view := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[view.Buffer]
	if buf.URI != "" {
		return nil, 0, fmt.Errorf("external buffers not supported")
	}
	if buf.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := int(view.ByteStride)
	if stride == 0 {
		stride = elemSize
	}
	start := int(view.ByteOffset) + int(acc.ByteOffset)
	count := int(acc.Count)
	if count > 0 && start+(count-1)*stride+elemSize > len(buf.Data) {
		return nil, 0, fmt.Errorf("accessor overruns its buffer")
	}
	return buf.Data[start:], stride, nil
}

func readVec3(doc *gltf.Document, idx int) ([][3]float32, error) {
	acc := doc.Accessors[idx]
	if acc.Type != gltf.AccessorVec3 || acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v %v", acc.ComponentType, acc.Type)
	}
	data, stride, err := accessorBytes(doc, acc, 12)
	if err != nil {
		return nil, err
	}

	out := make([][3]float32, acc.Count)
	for i := range out {
		for j := range 3 {
			bits := binary.LittleEndian.Uint32(data[i*stride+j*4:])
			out[i][j] = math.Float32frombits(bits)
		}
	}
	return out, nil
}

func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	acc := doc.Accessors[idx]
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", acc.Type)
	}

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", acc.ComponentType)
	}
	data, stride, err := accessorBytes(doc, acc, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, acc.Count)
	for i := range out {
		b := data[i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		default:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}
