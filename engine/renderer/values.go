package renderer

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
)

// Value is a uniform value encoded in the WGSL uniform address space layout.
type Value struct {
	data []byte
}

// Float encodes an f32.
func Float(v float32) Value {
	b := make([]byte, 4)
	common.PutFloat32s(b, 0, v)
	return Value{data: b}
}

// Vec4 encodes a vec4<f32>.
func Vec4(v common.Vec4) Value {
	b := make([]byte, 16)
	common.PutFloat32s(b, 0, v[:]...)
	return Value{data: b}
}

// Mat4x3 encodes a transform as a mat4x3<f32> with 16-byte column stride.
func Mat4x3(t common.Transform) Value {
	b := make([]byte, 64)
	common.PutMat4x3(b, 0, t)
	return Value{data: b}
}

// Mat4 encodes a mat4x4<f32>.
func Mat4(m common.Mat4) Value {
	b := make([]byte, 64)
	common.PutMat4(b, 0, m)
	return Value{data: b}
}

// Raw wraps already encoded bytes, typically a whole marshalled uniform block.
func Raw(b []byte) Value {
	return Value{data: b}
}

// Bytes returns the encoded value.
func (v Value) Bytes() []byte {
	return v.data
}
