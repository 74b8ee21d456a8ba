package camera

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-probe/common"
)

// CameraBlockSource is the canonical WGSL definition of the CameraBlock struct.
// Matches CameraBlock.Marshal exactly (208 bytes, uniform address space layout).
//
//go:embed assets/camera_block.wgsl
var CameraBlockSource string

// CameraBlockTypeName is the WGSL type name declared by CameraBlockSource.
const CameraBlockTypeName = "CameraBlock"

// CameraBlockSize is the byte size of a marshalled CameraBlock.
const CameraBlockSize = 208

// CameraBlock is the per-view camera uniform block. Every pass that renders from a viewpoint
// uploads one: the window camera in the final pass, the probe face view during capture.
type CameraBlock struct {
	WorldToClip   common.Mat4       // offset   0: mat4x4<f32>
	WorldToCamera common.Transform  // offset  64: mat4x3<f32>, 16-byte column stride
	CameraToClip  common.Projection // offset 128: mat4x4<f32>
	Position      common.Vec3       // offset 192: vec4<f32>, w = 1
}

// NewCameraBlock builds the block for a view.
//
// Parameters:
//   - worldToCamera: the view transform
//   - cameraToClip: the projection
//   - eye: the world-space viewer position
//
// Returns:
//   - CameraBlock: the populated block
func NewCameraBlock(worldToCamera common.Transform, cameraToClip common.Projection, eye common.Vec3) CameraBlock {
	return CameraBlock{
		WorldToClip:   cameraToClip.Mul(worldToCamera),
		WorldToCamera: worldToCamera,
		CameraToClip:  cameraToClip,
		Position:      eye,
	}
}

// Size returns the size of the marshalled block in bytes.
//
// Returns:
//   - int: the block size in bytes (208)
func (b *CameraBlock) Size() int {
	return CameraBlockSize
}

// Marshal serializes the block into a new byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (b *CameraBlock) Marshal() []byte {
	buf := make([]byte, b.Size())
	b.MarshalInto(buf)
	return buf
}

// MarshalInto serializes the block into dst, which must hold at least Size bytes.
//
// Parameters:
//   - dst: the destination, typically a mapped uniform buffer
func (b *CameraBlock) MarshalInto(dst []byte) {
	off := common.PutMat4(dst, 0, b.WorldToClip)
	off = common.PutMat4x3(dst, off, b.WorldToCamera)
	off = common.PutMat4(dst, off, common.Mat4(b.CameraToClip))
	common.PutFloat32s(dst, off, b.Position[0], b.Position[1], b.Position[2], 1)
}
