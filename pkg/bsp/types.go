package bsp

import (
	"sync"

	"github.com/Faultbox/bspslice/pkg/math"
)

// Vertex is a point in model space. Vertices compare by value.
type Vertex struct {
	X, Y, Z float64
}

// Vec returns the vertex as a vector.
func (v Vertex) Vec() math.Vec3 {
	return math.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Component returns the coordinate on axis 0 (x), 1 (y) or 2 (z).
func (v Vertex) Component(axis int) float64 {
	return v.Vec().Component(axis)
}

// Edge is a directed pair of vertices. An edge and its reverse differ.
type Edge struct {
	V0, V1 Vertex
}

// Reverse returns the edge walked the other way.
func (e Edge) Reverse() Edge {
	return Edge{V0: e.V1, V1: e.V0}
}

// PlaneType is the axis alignment code of a plane.
type PlaneType int32

// Axial plane types. Any other value is non-axial.
const (
	PlaneX PlaneType = 0
	PlaneY PlaneType = 1
	PlaneZ PlaneType = 2
)

// Axial reports whether the plane normal lies along a principal axis.
func (t PlaneType) Axial() bool {
	return t >= PlaneX && t <= PlaneZ
}

// Plane is a face plane: points p with Normal·p = Distance.
type Plane struct {
	Normal   math.Vec3
	Distance float64
	Type     PlaneType
}

// Texture is the texture mapping of a face.
type Texture struct {
	Name    string
	Width   int
	Height  int
	S       math.Vec3
	SOffset float64
	T       math.Vec3
	TOffset float64
	Flags   int32
}

// Face is a convex polygon. Vertices keep the winding of the file.
type Face struct {
	Vertices    []Vertex
	Edges       []Edge
	Plane       *Plane
	Back        bool // Face lies on the back side of Plane
	TextureName string
	Texture     *Texture
}

// UVs returns the texture coordinates of each vertex, or nil when the
// texture has no size.
func (f *Face) UVs() []math.Vec2 {
	tex := f.Texture
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return nil
	}

	w, h := float64(tex.Width), float64(tex.Height)
	uvs := make([]math.Vec2, len(f.Vertices))
	for i, v := range f.Vertices {
		p := v.Vec()
		uvs[i] = math.Vec2{
			X: (p.Dot(tex.S) + tex.SOffset) / w,
			Y: -(p.Dot(tex.T) + tex.TOffset) / h,
		}
	}
	return uvs
}

// Model is a group of faces sharing one coordinate space.
type Model struct {
	Faces  []*Face
	Mins   math.Vec3
	Maxs   math.Vec3
	Origin math.Vec3

	vertsOnce sync.Once
	verts     []Vertex
	edgesOnce sync.Once
	edges     []Edge
}

// Vertices returns the distinct vertices used by the model's faces in
// first-seen order. The result is computed once.
func (m *Model) Vertices() []Vertex {
	m.vertsOnce.Do(func() {
		seen := make(map[Vertex]struct{})
		for _, f := range m.Faces {
			for _, v := range f.Vertices {
				if _, ok := seen[v]; !ok {
					seen[v] = struct{}{}
					m.verts = append(m.verts, v)
				}
			}
		}
	})
	return m.verts
}

// Edges returns the distinct directed edges used by the model's faces in
// first-seen order. The result is computed once.
func (m *Model) Edges() []Edge {
	m.edgesOnce.Do(func() {
		seen := make(map[Edge]struct{})
		for _, f := range m.Faces {
			for _, e := range f.Edges {
				if _, ok := seen[e]; !ok {
					seen[e] = struct{}{}
					m.edges = append(m.edges, e)
				}
			}
		}
	})
	return m.edges
}

// Stats counts the source records resolved while building a scene.
type Stats struct {
	Vertices int
	Edges    int // Signed references, each direction counted once
	Planes   int
	Textures int // Texture-info records
	Bitmaps  int // Texture bitmap records
	Faces    int
}

// Scene is the decoded level. It is not modified after Open returns.
type Scene struct {
	Models   []*Model
	Entities string
	stats    Stats
}

// Faces returns the faces of every model, in model order.
func (s *Scene) Faces() []*Face {
	var faces []*Face
	for _, m := range s.Models {
		faces = append(faces, m.Faces...)
	}
	return faces
}

// TextureNames returns the distinct texture names in first-seen order.
func (s *Scene) TextureNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, f := range s.Faces() {
		if _, ok := seen[f.TextureName]; !ok {
			seen[f.TextureName] = struct{}{}
			names = append(names, f.TextureName)
		}
	}
	return names
}

// Stats returns the resolution counters of the decode.
func (s *Scene) Stats() Stats {
	return s.stats
}

// TextureUse summarises how one texture is mapped across the scene.
type TextureUse struct {
	Name          string
	Width, Height int
	Faces         int
	// UV extents over every vertex using the texture. Both stay zero
	// for textures without a size.
	Min, Max math.Vec2
}

// TextureUses returns one entry per distinct texture name, in first-seen
// order.
func (s *Scene) TextureUses() []TextureUse {
	index := make(map[string]int)
	var uses []TextureUse
	for _, f := range s.Faces() {
		i, ok := index[f.TextureName]
		if !ok {
			i = len(uses)
			index[f.TextureName] = i
			use := TextureUse{Name: f.TextureName}
			if f.Texture != nil {
				use.Width, use.Height = f.Texture.Width, f.Texture.Height
			}
			uses = append(uses, use)
		}

		use := &uses[i]
		for j, uv := range f.UVs() {
			if use.Faces == 0 && j == 0 {
				use.Min, use.Max = uv, uv
			}
			use.Min = math.Vec2{X: min(use.Min.X, uv.X), Y: min(use.Min.Y, uv.Y)}
			use.Max = math.Vec2{X: max(use.Max.X, uv.X), Y: max(use.Max.Y, uv.Y)}
		}
		use.Faces++
	}
	return uses
}
