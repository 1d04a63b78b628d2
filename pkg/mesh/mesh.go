// Package mesh turns voxel volumes into renderable faces and moves meshes
// in and out of glTF files.
package mesh

import (
	"github.com/taigrr/voxtile/pkg/math3d"
	"github.com/taigrr/voxtile/pkg/render"
)

// Mesh is an indexed triangle mesh with flat per-face shading.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face

	// Bounding box (calculated by CalculateBounds)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Vertex holds the attributes of one mesh vertex.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2 // in texture cells
}

// Face is a triangle with its texture id and light level.
type Face struct {
	V       [3]int // Indices into Mesh.Vertices
	Texture uint8
	Light   uint8
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddTriangle appends tri as a new face with its own three vertices.
func (m *Mesh) AddTriangle(tri render.Triangle) {
	base := len(m.Vertices)
	n := tri.Normal()
	for i, p := range tri.P {
		m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: n, UV: tri.UV[i]})
	}
	m.Faces = append(m.Faces, Face{
		V:       [3]int{base, base + 1, base + 2},
		Texture: tri.Texture,
		Light:   tri.Light,
	})
}

// AddQuads appends the faces of quads belonging to a chunk at origin. Each
// quad shares four vertices between its two triangles, split the same way
// as Quad.Triangles.
func (m *Mesh) AddQuads(quads []Quad, origin math3d.Vec3) {
	for _, q := range quads {
		base := len(m.Vertices)
		off := q.Dir.Normal()
		n := math3d.V3(float64(off[0]), float64(off[1]), float64(off[2]))
		uv := q.UVs()
		for i, c := range q.Corners(origin) {
			m.Vertices = append(m.Vertices, Vertex{Position: c, Normal: n, UV: uv[i]})
		}
		m.Faces = append(m.Faces,
			Face{V: [3]int{base, base + 1, base + 2}, Texture: q.Texture, Light: q.Light},
			Face{V: [3]int{base + 2, base + 3, base}, Texture: q.Texture, Light: q.Light},
		)
	}
	m.CalculateBounds()
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle returns face i as a world-space triangle.
func (m *Mesh) Triangle(i int) render.Triangle {
	f := m.Faces[i]
	tri := render.Triangle{Texture: f.Texture, Light: f.Light}
	for j, vi := range f.V {
		tri.P[j] = m.Vertices[vi].Position
		tri.UV[j] = m.Vertices[vi].UV
	}
	return tri
}

// CalculateNormals assigns each face's normal to its vertices.
func (m *Mesh) CalculateNormals() {
	for i := range m.Faces {
		n := m.Triangle(i).Normal()
		for _, vi := range m.Faces[i].V {
			m.Vertices[vi].Normal = n
		}
	}
}

// Transform applies mat to all vertices. Normals use the rotation part
// only.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulPoint(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulDir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]Vertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}
