package wgpu_backend

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var textureFormats = map[renderer.TextureFormat]wgpu.TextureFormat{
	renderer.TextureFormatRGBA8UnormSrgb: wgpu.TextureFormatRGBA8UnormSrgb,
	renderer.TextureFormatRGBA8Unorm:     wgpu.TextureFormatRGBA8Unorm,
	renderer.TextureFormatDepth32Float:   wgpu.TextureFormatDepth32Float,
}

var vertexFormats = map[shader.VertexFormat]wgpu.VertexFormat{
	shader.VertexFormatFloat32:   wgpu.VertexFormatFloat32,
	shader.VertexFormatFloat32x2: wgpu.VertexFormatFloat32x2,
	shader.VertexFormatFloat32x3: wgpu.VertexFormatFloat32x3,
	shader.VertexFormatFloat32x4: wgpu.VertexFormatFloat32x4,
}

func textureFormat(f renderer.TextureFormat) (wgpu.TextureFormat, error) {
	tf, ok := textureFormats[f]
	if !ok {
		return wgpu.TextureFormatUndefined, fmt.Errorf("wgpu_backend: unsupported texture format %d", f)
	}
	return tf, nil
}

func cullMode(m pipeline.CullMode) wgpu.CullMode {
	switch m {
	case pipeline.CullModeFront:
		return wgpu.CullModeFront
	case pipeline.CullModeBack:
		return wgpu.CullModeBack
	}
	return wgpu.CullModeNone
}

func compareFunction(c pipeline.CompareFunction) wgpu.CompareFunction {
	switch c {
	case pipeline.CompareFunctionLessEqual:
		return wgpu.CompareFunctionLessEqual
	case pipeline.CompareFunctionAlways:
		return wgpu.CompareFunctionAlways
	}
	return wgpu.CompareFunctionLess
}

func addressMode(m renderer.AddressMode) wgpu.AddressMode {
	if m == renderer.AddressRepeat {
		return wgpu.AddressModeRepeat
	}
	return wgpu.AddressModeClampToEdge
}

func filterMode(m renderer.FilterMode) wgpu.FilterMode {
	if m == renderer.FilterNearest {
		return wgpu.FilterModeNearest
	}
	return wgpu.FilterModeLinear
}

func presentMode(m renderer.PresentMode) wgpu.PresentMode {
	if m == renderer.PresentModeVSync {
		return wgpu.PresentModeFifo
	}
	return wgpu.PresentModeImmediate
}

func viewDimension(d shader.TextureDimension) wgpu.TextureViewDimension {
	if d == shader.TextureDimensionCube {
		return wgpu.TextureViewDimensionCube
	}
	return wgpu.TextureViewDimension2D
}

// layoutEntry converts a parsed binding into a layout entry. Uniform blocks always take a
// dynamic offset into the uniform arena.
func layoutEntry(b shader.Binding, visibility wgpu.ShaderStage) (wgpu.BindGroupLayoutEntry, error) {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    uint32(b.Binding),
		Visibility: visibility,
	}
	switch b.Kind {
	case shader.ResourceUniformBuffer:
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		entry.Buffer.HasDynamicOffset = true
		entry.Buffer.MinBindingSize = b.Size
	case shader.ResourceTexture:
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		entry.Texture.ViewDimension = viewDimension(b.Dimension)
	case shader.ResourceDepthTexture:
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		entry.Texture.ViewDimension = viewDimension(b.Dimension)
	case shader.ResourceSampler:
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case shader.ResourceComparisonSampler:
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	default:
		return entry, fmt.Errorf("wgpu_backend: binding %q (@group(%d) @binding(%d)) has an unsupported resource type %q", b.Name, b.Group, b.Binding, b.TypeName)
	}
	return entry, nil
}

// vertexBufferLayouts converts the parsed vertex input structs.
func vertexBufferLayouts(layouts []shader.VertexLayout) ([]wgpu.VertexBufferLayout, error) {
	out := make([]wgpu.VertexBufferLayout, 0, len(layouts))
	for _, l := range layouts {
		attrs := make([]wgpu.VertexAttribute, 0, len(l.Attributes))
		for _, a := range l.Attributes {
			f, ok := vertexFormats[a.Format]
			if !ok {
				return nil, fmt.Errorf("wgpu_backend: unsupported vertex format %d at location %d", a.Format, a.Location)
			}
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         f,
				Offset:         a.Offset,
				ShaderLocation: uint32(a.Location),
			})
		}
		out = append(out, wgpu.VertexBufferLayout{
			ArrayStride: l.Stride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  attrs,
		})
	}
	return out, nil
}
