package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: binding}
	e.Buffer.Type = wgpu.BufferBindingTypeUniform
	e.Buffer.HasDynamicOffset = true
	return e
}

func TestEntriesSortedAndDynamicBindings(t *testing.T) {
	tex := wgpu.BindGroupLayoutEntry{Binding: 1}
	tex.Texture.SampleType = wgpu.TextureSampleTypeFloat
	p := NewBindGroupProvider("shading group 2", WithGroup(2), WithEntries(uniformEntry(3), tex, uniformEntry(0)))

	require.Len(t, p.Entries(), 3)
	assert.Equal(t, []uint32{0, 1, 3}, []uint32{p.Entries()[0].Binding, p.Entries()[1].Binding, p.Entries()[2].Binding})
	assert.Equal(t, []uint32{0, 3}, p.DynamicBindings())
	assert.Equal(t, 2, p.Group())
	assert.Equal(t, "shading group 2", p.LayoutDescriptor().Label)
}

func TestEmptyProviderHasNoBindings(t *testing.T) {
	p := NewBindGroupProvider("gap")
	assert.Empty(t, p.Entries())
	assert.Empty(t, p.DynamicBindings())
}

func TestInvalidateTextureDropsReferencingGroups(t *testing.T) {
	p := NewBindGroupProvider("sky group 0")
	p.SetBindGroup("a", nil, 4, 5)
	p.SetBindGroup("b", nil, 5)
	p.SetBindGroup("c", nil)
	require.Equal(t, 3, p.Len())

	assert.Equal(t, 2, p.InvalidateTexture(5))
	assert.Equal(t, 1, p.Len())
	_, ok := p.BindGroup("c")
	assert.True(t, ok)
	_, ok = p.BindGroup("a")
	assert.False(t, ok)

	assert.Zero(t, p.InvalidateTexture(4))
}

func TestReleaseClearsCache(t *testing.T) {
	p := NewBindGroupProvider("probe group 1")
	p.SetBindGroup("a", nil, 1)
	p.Release()
	assert.Zero(t, p.Len())
	assert.Nil(t, p.BindGroupLayout())
}
