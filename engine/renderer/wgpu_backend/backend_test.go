package wgpu_backend

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferredSurfaceFormatPicksSrgb(t *testing.T) {
	got := preferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb})
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, got)

	got = preferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA16Float})
	assert.Equal(t, wgpu.TextureFormatRGBA16Float, got)
}

func TestBuilderOptions(t *testing.T) {
	b := &backendImpl{}
	for _, opt := range []BackendBuilderOption{
		WithPresentMode(renderer.PresentModeUncapped),
		WithForceFallbackAdapter(true),
		WithUniformArenaSize(1 << 20),
	} {
		opt(b)
	}
	assert.Equal(t, renderer.PresentModeUncapped, b.presentMode)
	assert.True(t, b.forceFallbackAdapter)
	assert.Equal(t, uint64(1<<20), b.arenaChunkSize)
}

func TestNewBackendRejectsNilSurface(t *testing.T) {
	_, err := NewBackend(nil)
	require.Error(t, err)
}

func TestTextureViewRange(t *testing.T) {
	tex := &texture{
		desc:   renderer.TextureDescriptor{Label: "probe"},
		layers: 6,
		mips:   3,
		views:  make(map[viewKey]*wgpu.TextureView),
	}
	_, err := tex.view(6, 0)
	assert.Error(t, err)
	_, err = tex.view(0, 3)
	assert.Error(t, err)
}

func TestFrameStateWithoutFrameIsClosed(t *testing.T) {
	b := &backendImpl{}
	assert.ErrorIs(t, b.EndFrame(), errNoFrame)
	assert.ErrorIs(t, b.EndPass(), errNoPass)
	assert.ErrorIs(t, b.WriteUniform(0, 0, 0, []byte{1}), renderer.ErrNoProgram)
	assert.ErrorIs(t, b.Draw(1, 3), errNoPass)
	b.Present()
}

func TestWriteUniformBoundsAndVersion(t *testing.T) {
	key := bindingKey{group: 1, binding: 0}
	p := &program{
		label:  "shading",
		blocks: map[bindingKey]*uniformBlock{key: {data: make([]byte, 16), version: 1, shared: 7}},
	}
	b := &backendImpl{}
	b.frame.program = p

	require.NoError(t, b.WriteUniform(1, 0, 12, []byte{1, 2, 3, 4}))
	block := p.blocks[key]
	assert.Equal(t, uint64(2), block.version)
	assert.Zero(t, block.shared, "writing detaches a shared buffer")
	assert.Equal(t, []byte{1, 2, 3, 4}, block.data[12:])

	assert.ErrorIs(t, b.WriteUniform(1, 0, 13, []byte{1, 2, 3, 4}), renderer.ErrSlotMismatch)
	assert.ErrorIs(t, b.WriteUniform(2, 0, 0, []byte{1}), renderer.ErrSlotMismatch)
}

func TestSharedBufferMapping(t *testing.T) {
	b := &backendImpl{
		buffers: make(map[renderer.BufferHandle]*sharedBuffer),
		arena:   newUniformArena(4096, 256, func(string, uint64) (*wgpu.Buffer, error) { return nil, nil }),
	}
	h, err := b.CreateBuffer(renderer.BufferDescriptor{Label: "lighting", Size: 64})
	require.NoError(t, err)

	dst, err := b.MapBuffer(h)
	require.NoError(t, err)
	assert.Len(t, dst, 64)
	_, err = b.MapBuffer(h)
	assert.ErrorIs(t, err, renderer.ErrBufferMapped)

	require.NoError(t, b.UnmapBuffer(h))
	assert.Equal(t, uint64(2), b.buffers[h].version)
	assert.Error(t, b.UnmapBuffer(h))

	_, err = b.CreateBuffer(renderer.BufferDescriptor{Label: "huge", Size: 8192})
	assert.Error(t, err)
}
