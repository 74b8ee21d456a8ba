package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFloat(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestLightingBlockSlots(t *testing.T) {
	sun := NewLight(LightTypeDirectional,
		WithDirection(common.Vec3{1, -1, 0}),
		WithColor(common.Vec4{0.3, 0.3, 0.3, 1}),
	)
	bulb := NewLight(LightTypePoint,
		WithPosition(common.Vec3{0, 25, 5}),
		WithAttenuation(0.005),
	)

	// point light listed first still lands in slot 1
	block, err := NewLightingBlock(common.Vec4{}, bulb, sun)
	require.NoError(t, err)

	buf := block.Marshal()
	require.Len(t, buf, LightingBlockSize)
	assert.InDelta(t, 1/math.Sqrt2, readFloat(buf, 16), 1e-6)
	assert.InDelta(t, -1/math.Sqrt2, readFloat(buf, 20), 1e-6)
	assert.Equal(t, float32(0), readFloat(buf, 28))

	assert.Equal(t, float32(25), readFloat(buf, 36))
	assert.Equal(t, float32(0.005), readFloat(buf, 44))

	assert.Equal(t, float32(0.3), readFloat(buf, 48))
	assert.Equal(t, float32(1), readFloat(buf, 64))

	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[80:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[84:]))
}

func TestLightingBlockRejectsSecondLightOfType(t *testing.T) {
	a := NewLight(LightTypePoint)
	b := NewLight(LightTypePoint)
	_, err := NewLightingBlock(common.Vec4{}, a, b)
	assert.ErrorIs(t, err, ErrTooManyLights)

	b.SetEnabled(false)
	block, err := NewLightingBlock(common.Vec4{}, a, b)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), block.PointLightCount)
	assert.Zero(t, block.DirectionalLightCount)
}

func TestAnimatorZeroDeltaHoldsPosition(t *testing.T) {
	a := NewAnimator()
	for range 3 {
		assert.Equal(t, common.Vec3{0, 25, 5}, a.Advance(0))
	}
	assert.Zero(t, a.Elapsed())
	assert.Equal(t, float32(0.005), a.Attenuation())
}

func TestAnimatorSwings(t *testing.T) {
	a := NewAnimator(WithSwing(4, 10, -2))
	p := a.Advance(math.Pi / 2)
	assert.InDelta(t, 4, p[0], 1e-5)
	assert.Equal(t, float32(10), p[1])
	assert.Equal(t, float32(-2), p[2])
	assert.Equal(t, p, a.Position())
}

func TestWorldToShadowLooksDown(t *testing.T) {
	pos := common.Vec3{0, 25, 5}
	toWorld := LightToWorld(pos)
	f := toWorld.Forward()
	assert.InDelta(t, -1, f[1], 1e-5)

	// a point straight below the light projects to the shadow map center
	clip := WorldToShadow(pos).MulVec4(common.Vec4{0, 0, 5, 1})
	assert.InDelta(t, 0, clip[0]/clip[3], 1e-5)
	assert.InDelta(t, 0, clip[1]/clip[3], 1e-5)
	depth := clip[2] / clip[3]
	assert.Greater(t, depth, float32(0))
	assert.Less(t, depth, float32(1))
}

func TestShadowBlockMarshal(t *testing.T) {
	s := ShadowBlock{WorldToShadow: common.IdentityMat4()}
	buf := s.Marshal()
	require.Len(t, buf, 64)
	assert.Equal(t, float32(1), readFloat(buf, 60))
	assert.Contains(t, ShadowBlockSource, ShadowBlockTypeName)
	assert.Contains(t, LightingBlockSource, LightingBlockTypeName)
}
