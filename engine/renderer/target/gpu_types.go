package target

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-probe/common"
)

// EnvironmentBlockSource is the canonical WGSL definition of the EnvironmentBlock struct.
//
//go:embed assets/environment_block.wgsl
var EnvironmentBlockSource string

// EnvironmentBlockTypeName is the WGSL type name declared by EnvironmentBlockSource.
const EnvironmentBlockTypeName = "EnvironmentBlock"

// EnvironmentBlockSize is the byte size of a marshalled EnvironmentBlock, rounded to the
// 16-byte struct alignment.
const EnvironmentBlockSize = 80

// EnvironmentBlock carries the probe transform and mip range sampled by reflective materials.
type EnvironmentBlock struct {
	WorldToEnvironment common.Transform // offset  0: mat4x3<f32>
	LevelOfDetailCount float32          // offset 64: f32
}

// Size returns the size of the marshalled block in bytes.
//
// Returns:
//   - int: the block size in bytes (80)
func (b *EnvironmentBlock) Size() int {
	return EnvironmentBlockSize
}

// Marshal serializes the block into a new byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (b *EnvironmentBlock) Marshal() []byte {
	buf := make([]byte, b.Size())
	off := common.PutMat4x3(buf, 0, b.WorldToEnvironment)
	common.PutFloat32s(buf, off, b.LevelOfDetailCount)
	return buf
}
