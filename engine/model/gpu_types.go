package model

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-probe/common"
)

// VertexSource is the canonical WGSL definition of the VertexInput struct shared by every
// mesh program. Matches Vertex.Marshal exactly (48 bytes, tightly packed).
//
//go:embed assets/vertex.wgsl
var VertexSource string

// VertexTypeName is the WGSL type name declared by VertexSource.
const VertexTypeName = "VertexInput"

// VertexSize is the byte stride of one marshalled Vertex.
const VertexSize = 48

// Vertex is the GPU representation of a single mesh vertex.
type Vertex struct {
	Position common.Vec3 // offset  0
	Normal   common.Vec3 // offset 12
	TexCoord [2]float32  // offset 24
	Tangent  common.Vec4 // offset 32: xyz tangent, w handedness
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (48)
func (v *Vertex) Size() int {
	return VertexSize
}

// Marshal serializes the vertex into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (v *Vertex) Marshal() []byte {
	buf := make([]byte, VertexSize)
	v.marshalInto(buf)
	return buf
}

func (v *Vertex) marshalInto(dst []byte) {
	off := common.PutFloat32s(dst, 0, v.Position[:]...)
	off = common.PutFloat32s(dst, off, v.Normal[:]...)
	off = common.PutFloat32s(dst, off, v.TexCoord[:]...)
	common.PutFloat32s(dst, off, v.Tangent[:]...)
}

// MarshalVertices serializes a vertex slice into one contiguous vertex buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices) * VertexSize bytes
func MarshalVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexSize)
	for i := range vertices {
		vertices[i].marshalInto(buf[i*VertexSize:])
	}
	return buf
}
