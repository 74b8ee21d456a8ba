package light

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
)

// ErrTooManyLights is returned when more than one directional or point light is packed.
var ErrTooManyLights = errors.New("light: too many lights of one type")

// Lighting block slots. Slot 0 holds the directional light and slot 1 the point light.
const (
	DirectionalSlot = 0
	PointSlot       = 1
	slotCount       = 2
)

// LightingBlockSource is the canonical WGSL definition of the LightingBlock struct.
// Matches LightingBlock.Marshal exactly (96 bytes, uniform address space layout).
//
//go:embed assets/lighting_block.wgsl
var LightingBlockSource string

// LightingBlockTypeName is the WGSL type name declared by LightingBlockSource.
const LightingBlockTypeName = "LightingBlock"

// LightingBlockSize is the byte size of a marshalled LightingBlock.
const LightingBlockSize = 96

// LightingBlock is the per-frame lighting uniform block.
type LightingBlock struct {
	GlobalAmbientColor    common.Vec4            // offset  0
	Parameters            [slotCount]common.Vec4 // offset 16: direction (w 0) or position (w = k)
	Colors                [slotCount]common.Vec4 // offset 48
	DirectionalLightCount uint32                 // offset 80
	PointLightCount       uint32                 // offset 84
}

// NewLightingBlock packs the enabled lights into a lighting block.
//
// Parameters:
//   - ambient: the global ambient color
//   - lights: the lights to pack; at most one directional and one point light may be enabled
//
// Returns:
//   - LightingBlock: the packed block
//   - error: ErrTooManyLights if a slot is claimed twice
func NewLightingBlock(ambient common.Vec4, lights ...Light) (LightingBlock, error) {
	b := LightingBlock{GlobalAmbientColor: ambient}
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		switch l.Type() {
		case LightTypeDirectional:
			if b.DirectionalLightCount > 0 {
				return LightingBlock{}, fmt.Errorf("%w: directional", ErrTooManyLights)
			}
			b.Parameters[DirectionalSlot] = l.Direction().Vec4(0)
			b.Colors[DirectionalSlot] = l.Color()
			b.DirectionalLightCount = 1
		case LightTypePoint:
			if b.PointLightCount > 0 {
				return LightingBlock{}, fmt.Errorf("%w: point", ErrTooManyLights)
			}
			b.Parameters[PointSlot] = l.Position().Vec4(l.Attenuation())
			b.Colors[PointSlot] = l.Color()
			b.PointLightCount = 1
		}
	}
	return b, nil
}

// Size returns the size of the marshalled block in bytes.
//
// Returns:
//   - int: the block size in bytes (96)
func (b *LightingBlock) Size() int {
	return LightingBlockSize
}

// Marshal serializes the block into a new byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (b *LightingBlock) Marshal() []byte {
	buf := make([]byte, b.Size())
	b.MarshalInto(buf)
	return buf
}

// MarshalInto serializes the block into dst, which must hold at least Size bytes.
//
// Parameters:
//   - dst: the destination, typically a mapped uniform buffer
func (b *LightingBlock) MarshalInto(dst []byte) {
	off := common.PutFloat32s(dst, 0, b.GlobalAmbientColor[:]...)
	for _, p := range b.Parameters {
		off = common.PutFloat32s(dst, off, p[:]...)
	}
	for _, c := range b.Colors {
		off = common.PutFloat32s(dst, off, c[:]...)
	}
	binary.LittleEndian.PutUint32(dst[off:], b.DirectionalLightCount)
	binary.LittleEndian.PutUint32(dst[off+4:], b.PointLightCount)
	clear(dst[off+8 : LightingBlockSize])
}

// ShadowBlockSource is the canonical WGSL definition of the ShadowBlock struct.
// Matches ShadowBlock.Marshal exactly (64 bytes).
//
//go:embed assets/shadow_block.wgsl
var ShadowBlockSource string

// ShadowBlockTypeName is the WGSL type name declared by ShadowBlockSource.
const ShadowBlockTypeName = "ShadowBlock"

// ShadowBlock carries the world-to-shadow-clip transform sampled by the shading program.
type ShadowBlock struct {
	WorldToShadow common.Mat4 // offset 0: mat4x4<f32>
}

// Size returns the size of the marshalled block in bytes.
//
// Returns:
//   - int: the block size in bytes (64)
func (s *ShadowBlock) Size() int {
	return 64
}

// Marshal serializes the block into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (s *ShadowBlock) Marshal() []byte {
	buf := make([]byte, s.Size())
	common.PutMat4(buf, 0, s.WorldToShadow)
	return buf
}
