// Package bsptest builds small BSP tables from polygons for tests.
package bsptest

import (
	"github.com/Faultbox/bspslice/pkg/formats"
	"github.com/Faultbox/bspslice/pkg/math"
)

type planeKey struct {
	normal   [3]float32
	distance float32
}

// Builder accumulates faces into models and emits BSP tables.
// Vertices, edges, planes and textures are shared between faces the way a
// map compiler shares them, so the output exercises signed edge references.
type Builder struct {
	tables    formats.BSP
	vertices  map[[3]float32]uint16
	edges     map[[2]uint16]int32
	planes    map[planeKey]uint16
	texInfos  map[string]int16
	firstFace int32
}

// New returns an empty builder with one open model.
func New() *Builder {
	return &Builder{
		tables: formats.BSP{
			Version: formats.BSPVersion,
			Edges:   []formats.BSPEdge{{}}, // edge 0 cannot carry a sign
		},
		vertices: make(map[[3]float32]uint16),
		edges:    make(map[[2]uint16]int32),
		planes:   make(map[planeKey]uint16),
		texInfos: make(map[string]int16),
	}
}

// Face appends a polygon to the open model. Vertices must be coplanar,
// non-collinear, and listed in winding order.
func (b *Builder) Face(texture string, vertices ...[3]float32) *Builder {
	indices := make([]uint16, len(vertices))
	for i, v := range vertices {
		indices[i] = b.vertex(v)
	}

	first := int32(len(b.tables.SurfEdges))
	for i := range indices {
		b.tables.SurfEdges = append(b.tables.SurfEdges, b.edge(indices[i], indices[(i+1)%len(indices)]))
	}

	b.tables.Faces = append(b.tables.Faces, formats.BSPFace{
		Plane:       b.plane(vertices),
		FirstEdge:   first,
		EdgeCount:   int16(len(indices)),
		TexInfo:     b.texInfo(texture),
		LightOffset: -1,
	})
	return b
}

// Model closes the open model and starts a new one.
func (b *Builder) Model() *Builder {
	b.closeModel()
	return b
}

// Tables closes the open model and returns the accumulated tables.
func (b *Builder) Tables() *formats.BSP {
	b.closeModel()
	tables := b.tables
	return &tables
}

// Bytes encodes the accumulated tables as a BSP blob.
func (b *Builder) Bytes() []byte {
	data, err := formats.EncodeBSP(b.Tables())
	if err != nil {
		panic(err)
	}
	return data
}

func (b *Builder) closeModel() {
	count := int32(len(b.tables.Faces)) - b.firstFace
	if count == 0 && len(b.tables.Models) > 0 {
		return
	}
	b.tables.Models = append(b.tables.Models, formats.BSPModel{
		FirstFace: b.firstFace,
		FaceCount: count,
	})
	b.firstFace = int32(len(b.tables.Faces))
}

func (b *Builder) vertex(v [3]float32) uint16 {
	if i, ok := b.vertices[v]; ok {
		return i
	}
	i := uint16(len(b.tables.Vertices))
	b.tables.Vertices = append(b.tables.Vertices, v)
	b.vertices[v] = i
	return i
}

// edge returns a surfedge reference, reusing the reverse of an existing
// edge with a negative sign.
func (b *Builder) edge(v0, v1 uint16) int32 {
	if i, ok := b.edges[[2]uint16{v0, v1}]; ok {
		return i
	}
	if i, ok := b.edges[[2]uint16{v1, v0}]; ok {
		return -i
	}
	i := int32(len(b.tables.Edges))
	b.tables.Edges = append(b.tables.Edges, formats.BSPEdge{Vertices: [2]uint16{v0, v1}})
	b.edges[[2]uint16{v0, v1}] = i
	return i
}

func (b *Builder) plane(vertices [][3]float32) uint16 {
	p0 := math.FromFloat32(vertices[0])
	p1 := math.FromFloat32(vertices[1])
	p2 := math.FromFloat32(vertices[2])
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	n = n.Scale(1 / n.Length())

	key := planeKey{
		normal:   [3]float32{float32(n.X), float32(n.Y), float32(n.Z)},
		distance: float32(n.Dot(p0)),
	}
	if i, ok := b.planes[key]; ok {
		return i
	}

	i := uint16(len(b.tables.Planes))
	b.tables.Planes = append(b.tables.Planes, formats.BSPPlane{
		Normal:   key.normal,
		Distance: key.distance,
		Type:     planeType(key.normal),
	})
	b.planes[key] = i
	return i
}

// planeType returns 0-2 for normals along x, y or z (either sign) and
// 3-5 for the dominant axis of any other normal.
func planeType(n [3]float32) int32 {
	dominant := 0
	for axis := 0; axis < 3; axis++ {
		if n[axis] == 1 || n[axis] == -1 {
			return int32(axis)
		}
		if abs(n[axis]) > abs(n[dominant]) {
			dominant = axis
		}
	}
	return int32(3 + dominant)
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func (b *Builder) texInfo(name string) int16 {
	if i, ok := b.texInfos[name]; ok {
		return i
	}

	b.tables.Textures = append(b.tables.Textures, formats.BSPMipTexture{
		Name:   name,
		Width:  64,
		Height: 64,
	})
	i := int16(len(b.tables.TexInfos))
	b.tables.TexInfos = append(b.tables.TexInfos, formats.BSPTexInfo{
		S:          [4]float32{1, 0, 0, 0},
		T:          [4]float32{0, 1, 0, 0},
		MipTexture: int32(len(b.tables.Textures) - 1),
	})
	b.texInfos[name] = i
	return i
}
