package material

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-probe/common"
)

// MaterialBlockSource is the canonical WGSL definition of the MaterialBlock struct.
// Matches MaterialParams.Marshal exactly (48 bytes, uniform address space layout).
//
//go:embed assets/material_block.wgsl
var MaterialBlockSource string

// MaterialBlockTypeName is the WGSL type name declared by MaterialBlockSource.
const MaterialBlockTypeName = "MaterialBlock"

// MaterialParams is the GPU-aligned material uniform block.
type MaterialParams struct {
	SpecularColor common.Vec4 // offset  0
	DiffuseColor  common.Vec4 // offset 16
	Gloss         float32     // offset 32
	Metalness     float32     // offset 36
}

// Size returns the size of the marshalled block in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (48)
func (p *MaterialParams) Size() int {
	return 48
}

// Marshal serializes the block into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (p *MaterialParams) Marshal() []byte {
	buf := make([]byte, p.Size())
	off := common.PutFloat32s(buf, 0, p.SpecularColor[:]...)
	off = common.PutFloat32s(buf, off, p.DiffuseColor[:]...)
	common.PutFloat32s(buf, off, p.Gloss, p.Metalness)
	return buf
}
