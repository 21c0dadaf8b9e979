// Package bsp resolves the index tables of a BSP file into a read-only
// scene graph: models, faces, edges, vertices, planes and textures.
//
// Every table is backed by an arena with one slot per source index, so a
// record referenced many times is decoded once and then shared. Signed
// surface-edge references cache each direction separately.
package bsp

import (
	"fmt"
	"os"

	"github.com/Faultbox/bspslice/pkg/formats"
	"github.com/Faultbox/bspslice/pkg/math"
)

// Open decodes a fully buffered BSP blob into a Scene.
// Either the entire scene resolves or an error is returned.
func Open(data []byte) (*Scene, error) {
	raw, err := formats.ParseBSP(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return FromTables(raw)
}

// OpenFile reads the whole file at path and decodes it.
// The file is closed before decoding starts.
func OpenFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading BSP file: %w", err)
	}
	return Open(data)
}

// FromTables builds a Scene from already parsed tables.
func FromTables(raw *formats.BSP) (*Scene, error) {
	s := newStore(raw)

	scene := &Scene{
		Models:   make([]*Model, len(raw.Models)),
		Entities: raw.Entities,
	}
	for i := range raw.Models {
		model, err := s.model(i)
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
		scene.Models[i] = model
	}

	scene.stats = Stats{
		Vertices: s.vertices.resolved(),
		Edges:    s.edges.resolved() + s.reversed.resolved(),
		Planes:   s.planes.resolved(),
		Textures: s.textures.resolved(),
		Bitmaps:  s.bitmaps.resolved(),
		Faces:    s.faces.resolved(),
	}
	return scene, nil
}

type store struct {
	raw *formats.BSP

	vertices *arena[Vertex]
	edges    *arena[Edge] // positive surfedge references
	reversed *arena[Edge] // negative surfedge references
	planes   *arena[*Plane]
	textures *arena[*Texture]
	bitmaps  *arena[formats.BSPMipTexture]
	faces    *arena[*Face]
}

func newStore(raw *formats.BSP) *store {
	return &store{
		raw:      raw,
		vertices: newArena[Vertex]("vertex", len(raw.Vertices)),
		edges:    newArena[Edge]("edge", len(raw.Edges)),
		reversed: newArena[Edge]("edge", len(raw.Edges)),
		planes:   newArena[*Plane]("plane", len(raw.Planes)),
		textures: newArena[*Texture]("texinfo", len(raw.TexInfos)),
		bitmaps:  newArena[formats.BSPMipTexture]("texture", len(raw.Textures)),
		faces:    newArena[*Face]("face", len(raw.Faces)),
	}
}

func (s *store) model(i int) (*Model, error) {
	rec := s.raw.Models[i]
	if rec.FaceCount < 0 {
		return nil, fmt.Errorf("%w: negative face count %d", ErrFormat, rec.FaceCount)
	}
	if first, end := int64(rec.FirstFace), int64(rec.FirstFace)+int64(rec.FaceCount); first < 0 || end > int64(len(s.raw.Faces)) {
		index := first
		if first >= 0 {
			index = end - 1
		}
		return nil, &IndexError{Table: "face", Index: int(index), Len: len(s.raw.Faces)}
	}

	model := &Model{
		Faces:  make([]*Face, rec.FaceCount),
		Mins:   math.FromFloat32(rec.Mins),
		Maxs:   math.FromFloat32(rec.Maxs),
		Origin: math.FromFloat32(rec.Origin),
	}
	for j := range model.Faces {
		face, err := s.faces.get(int(rec.FirstFace)+j, s.resolveFace)
		if err != nil {
			return nil, err
		}
		model.Faces[j] = face
	}
	return model, nil
}

func (s *store) resolveFace(i int) (*Face, error) {
	rec := s.raw.Faces[i]
	if rec.EdgeCount < 3 {
		return nil, fmt.Errorf("%w: face %d has %d edges", ErrFormat, i, rec.EdgeCount)
	}

	face := &Face{
		Edges:    make([]Edge, rec.EdgeCount),
		Vertices: make([]Vertex, rec.EdgeCount),
		Back:     rec.Side != 0,
	}

	for j := range face.Edges {
		pos := int(rec.FirstEdge) + j
		if pos < 0 || pos >= len(s.raw.SurfEdges) {
			return nil, fmt.Errorf("face %d: %w",
				i, &IndexError{Table: "surfedge", Index: pos, Len: len(s.raw.SurfEdges)})
		}
		edge, err := s.edge(s.raw.SurfEdges[pos])
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		face.Edges[j] = edge
		face.Vertices[j] = edge.V0
	}

	plane, err := s.planes.get(int(rec.Plane), s.resolvePlane)
	if err != nil {
		return nil, fmt.Errorf("face %d: %w", i, err)
	}
	face.Plane = plane

	tex, err := s.textures.get(int(rec.TexInfo), s.resolveTexture)
	if err != nil {
		return nil, fmt.Errorf("face %d: %w", i, err)
	}
	face.Texture = tex
	face.TextureName = tex.Name

	return face, nil
}

// edge resolves a signed surface-edge reference. A negative reference
// walks edge |ref| from vertex 1 to vertex 0.
func (s *store) edge(ref int32) (Edge, error) {
	if ref < 0 {
		return s.reversed.get(int(-int64(ref)), func(i int) (Edge, error) {
			e, err := s.resolveEdge(i)
			return e.Reverse(), err
		})
	}
	return s.edges.get(int(ref), s.resolveEdge)
}

func (s *store) resolveEdge(i int) (Edge, error) {
	rec := s.raw.Edges[i]
	v0, err := s.vertices.get(int(rec.Vertices[0]), s.resolveVertex)
	if err != nil {
		return Edge{}, err
	}
	v1, err := s.vertices.get(int(rec.Vertices[1]), s.resolveVertex)
	if err != nil {
		return Edge{}, err
	}
	return Edge{V0: v0, V1: v1}, nil
}

func (s *store) resolveVertex(i int) (Vertex, error) {
	v := s.raw.Vertices[i]
	return Vertex{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}, nil
}

func (s *store) resolvePlane(i int) (*Plane, error) {
	rec := s.raw.Planes[i]
	return &Plane{
		Normal:   math.FromFloat32(rec.Normal),
		Distance: float64(rec.Distance),
		Type:     PlaneType(rec.Type),
	}, nil
}

func (s *store) resolveTexture(i int) (*Texture, error) {
	rec := s.raw.TexInfos[i]
	bitmap, err := s.bitmaps.get(int(rec.MipTexture), func(j int) (formats.BSPMipTexture, error) {
		return s.raw.Textures[j], nil
	})
	if err != nil {
		return nil, fmt.Errorf("texinfo %d: %w", i, err)
	}

	return &Texture{
		Name:    bitmap.Name,
		Width:   int(bitmap.Width),
		Height:  int(bitmap.Height),
		S:       math.Vec3{X: float64(rec.S[0]), Y: float64(rec.S[1]), Z: float64(rec.S[2])},
		SOffset: float64(rec.S[3]),
		T:       math.Vec3{X: float64(rec.T[0]), Y: float64(rec.T[1]), Z: float64(rec.T[2])},
		TOffset: float64(rec.T[3]),
		Flags:   rec.Flags,
	}, nil
}
