package model

import "github.com/Carmen-Shannon/oxy-probe/common"

// Mesh is CPU-side indexed triangle geometry.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the mesh vertices.
	Vertices []Vertex

	// Indices are the triangle indices, three per triangle.
	Indices []uint32
}

// BoundingRadius returns the largest distance from the model-space origin to any vertex.
//
// Returns:
//   - float32: the bounding sphere radius around the origin
func (m Mesh) BoundingRadius() float32 {
	var r float32
	for _, v := range m.Vertices {
		r = max(r, v.Position.Length())
	}
	return r
}

// TriangleCount returns the number of triangles in the mesh.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m Mesh) Bounds() (lo, hi common.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo, hi = m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return lo, hi
}
