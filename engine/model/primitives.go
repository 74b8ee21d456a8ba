package model

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/chewxy/math32"
)

// NewCube returns a unit cube centered on the origin, spanning [-0.5, 0.5] on every axis,
// with per-face normals and tangents.
func NewCube() Mesh {
	normals := [6]common.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	m := Mesh{Name: "cube"}
	for _, n := range normals {
		v := common.Vec3{0, 1, 0}
		switch {
		case n[1] > 0:
			v = common.Vec3{0, 0, -1}
		case n[1] < 0:
			v = common.Vec3{0, 0, 1}
		}
		u := v.Cross(n)

		base := uint32(len(m.Vertices))
		corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, c := range corners {
			p := n.Add(u.Scale(c[0])).Add(v.Scale(c[1])).Scale(0.5)
			m.Vertices = append(m.Vertices, Vertex{
				Position: p,
				Normal:   n,
				TexCoord: [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2},
				Tangent:  u.Vec4(1),
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// NewSphere returns a UV sphere centered on the origin.
//
// Parameters:
//   - radius: the sphere radius
//   - rings: latitude subdivisions (>= 2)
//   - segments: longitude subdivisions (>= 3)
//
// Returns:
//   - Mesh: the sphere
func NewSphere(radius float32, rings, segments int) Mesh {
	m := Mesh{Name: "sphere"}
	rings = max(rings, 2)
	segments = max(segments, 3)
	for r := 0; r <= rings; r++ {
		theta := math32.Pi * float32(r) / float32(rings)
		m.Vertices = appendRing(m.Vertices, theta, segments, radius, common.Vec3{}, float32(r)/float32(rings))
	}
	m.Indices = gridIndices(rings+1, segments)
	return m
}

// NewCapsule returns a capsule standing on the origin: a cylinder of the given height capped by
// two hemispheres, spanning y in [0, height + 2*radius].
//
// Parameters:
//   - radius: the cap and cylinder radius
//   - height: the length of the cylindrical section
//   - rings: latitude subdivisions per hemisphere (>= 1)
//   - segments: longitude subdivisions (>= 3)
//
// Returns:
//   - Mesh: the capsule
func NewCapsule(radius, height float32, rings, segments int) Mesh {
	m := Mesh{Name: "capsule"}
	rings = max(rings, 1)
	segments = max(segments, 3)
	rows := 2 * (rings + 1)
	top := common.Vec3{0, radius + height, 0}
	bottom := common.Vec3{0, radius, 0}
	row := 0
	for r := 0; r <= rings; r++ {
		theta := math32.Pi / 2 * float32(r) / float32(rings)
		m.Vertices = appendRing(m.Vertices, theta, segments, radius, top, float32(row)/float32(rows-1))
		row++
	}
	for r := 0; r <= rings; r++ {
		theta := math32.Pi/2 + math32.Pi/2*float32(r)/float32(rings)
		m.Vertices = appendRing(m.Vertices, theta, segments, radius, bottom, float32(row)/float32(rows-1))
		row++
	}
	m.Indices = gridIndices(rows, segments)
	return m
}

// NewClipQuad returns the full-screen quad drawn behind the scene, in clip-space coordinates.
func NewClipQuad() Mesh {
	m := Mesh{Name: "clip_quad"}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, c := range corners {
		m.Vertices = append(m.Vertices, Vertex{
			Position: common.Vec3{c[0], c[1], 0},
			Normal:   common.Vec3{0, 0, 1},
			TexCoord: [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2},
			Tangent:  common.Vec4{1, 0, 0, 1},
		})
	}
	m.Indices = []uint32{0, 1, 2, 0, 2, 3}
	return m
}

// appendRing appends segments+1 vertices on the latitude circle at polar angle theta.
func appendRing(dst []Vertex, theta float32, segments int, radius float32, center common.Vec3, v float32) []Vertex {
	st, ct := math32.Sin(theta), math32.Cos(theta)
	for s := 0; s <= segments; s++ {
		phi := 2 * math32.Pi * float32(s) / float32(segments)
		sp, cp := math32.Sin(phi), math32.Cos(phi)
		n := common.Vec3{st * cp, ct, st * sp}
		dst = append(dst, Vertex{
			Position: center.Add(n.Scale(radius)),
			Normal:   n,
			TexCoord: [2]float32{float32(s) / float32(segments), v},
			Tangent:  common.Vec4{-sp, 0, cp, 1},
		})
	}
	return dst
}

// gridIndices triangulates rows of segments+1 vertices with outward-facing counter-clockwise winding.
func gridIndices(rows, segments int) []uint32 {
	stride := uint32(segments + 1)
	indices := make([]uint32, 0, (rows-1)*segments*6)
	for r := 0; r < rows-1; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			indices = append(indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return indices
}
