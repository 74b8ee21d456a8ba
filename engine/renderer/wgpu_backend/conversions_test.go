package wgpu_backend

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutEntryKinds(t *testing.T) {
	stages := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment

	u, err := layoutEntry(shader.Binding{Binding: 0, Kind: shader.ResourceUniformBuffer, Size: 208}, stages)
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, u.Buffer.Type)
	assert.True(t, u.Buffer.HasDynamicOffset)
	assert.Equal(t, uint64(208), u.Buffer.MinBindingSize)

	cube, err := layoutEntry(shader.Binding{Binding: 1, Kind: shader.ResourceTexture, Dimension: shader.TextureDimensionCube}, stages)
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureViewDimensionCube, cube.Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, cube.Texture.SampleType)

	depth, err := layoutEntry(shader.Binding{Binding: 2, Kind: shader.ResourceDepthTexture, Dimension: shader.TextureDimension2D}, stages)
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, depth.Texture.SampleType)

	cmp, err := layoutEntry(shader.Binding{Binding: 3, Kind: shader.ResourceComparisonSampler}, stages)
	require.NoError(t, err)
	assert.Equal(t, wgpu.SamplerBindingTypeComparison, cmp.Sampler.Type)

	_, err = layoutEntry(shader.Binding{Name: "particles", Kind: shader.ResourceStorageBuffer}, stages)
	assert.Error(t, err)
}

func TestVertexBufferLayouts(t *testing.T) {
	out, err := vertexBufferLayouts([]shader.VertexLayout{{
		Stride: 32,
		Attributes: []shader.VertexAttribute{
			{Location: 0, Format: shader.VertexFormatFloat32x3, Offset: 0},
			{Location: 1, Format: shader.VertexFormatFloat32x3, Offset: 12},
			{Location: 2, Format: shader.VertexFormatFloat32x2, Offset: 24},
		},
	}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(32), out[0].ArrayStride)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, out[0].Attributes[2].Format)
	assert.Equal(t, uint32(2), out[0].Attributes[2].ShaderLocation)
}

func TestTextureFormatMapping(t *testing.T) {
	f, err := textureFormat(renderer.TextureFormatDepth32Float)
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, f)

	_, err = textureFormat(renderer.TextureFormat(99))
	assert.Error(t, err)

	assert.Equal(t, wgpu.PresentModeFifo, presentMode(renderer.PresentModeVSync))
	assert.Equal(t, wgpu.AddressModeRepeat, addressMode(renderer.AddressRepeat))
}
