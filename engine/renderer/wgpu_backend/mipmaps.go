package wgpu_backend

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/downsample.wgsl
var downsampleSource string

// mipmapper fills a mip chain by drawing each level from the one above it with a linear sampler.
type mipmapper struct {
	device    *wgpu.Device
	module    *wgpu.ShaderModule
	layout    *wgpu.BindGroupLayout
	pipeline  *wgpu.PipelineLayout
	sampler   *wgpu.Sampler
	pipelines map[wgpu.TextureFormat]*wgpu.RenderPipeline
}

func newMipmapper(device *wgpu.Device) *mipmapper {
	return &mipmapper{
		device:    device,
		pipelines: make(map[wgpu.TextureFormat]*wgpu.RenderPipeline),
	}
}

func (m *mipmapper) init() error {
	if m.module != nil {
		return nil
	}
	module, err := m.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "downsample",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: downsampleSource},
	})
	if err != nil {
		return fmt.Errorf("wgpu_backend: failed to compile downsample shader: %w", err)
	}
	texEntry := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageFragment}
	texEntry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	texEntry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	samplerEntry := wgpu.BindGroupLayoutEntry{Binding: 1, Visibility: wgpu.ShaderStageFragment}
	samplerEntry.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	layout, err := m.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "downsample",
		Entries: []wgpu.BindGroupLayoutEntry{texEntry, samplerEntry},
	})
	if err != nil {
		module.Release()
		return fmt.Errorf("wgpu_backend: failed to create downsample layout: %w", err)
	}
	pipelineLayout, err := m.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "downsample",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		layout.Release()
		module.Release()
		return fmt.Errorf("wgpu_backend: failed to create downsample pipeline layout: %w", err)
	}
	sampler, err := m.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "downsample",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		pipelineLayout.Release()
		layout.Release()
		module.Release()
		return fmt.Errorf("wgpu_backend: failed to create downsample sampler: %w", err)
	}
	m.module, m.layout, m.pipeline, m.sampler = module, layout, pipelineLayout, sampler
	return nil
}

func (m *mipmapper) renderPipeline(format wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
	if rp, ok := m.pipelines[format]; ok {
		return rp, nil
	}
	rp, err := m.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "downsample",
		Layout: m.pipeline,
		Vertex: wgpu.VertexState{
			Module:     m.module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     m.module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu_backend: failed to create downsample pipeline: %w", err)
	}
	m.pipelines[format] = rp
	return rp, nil
}

// record encodes one render pass per layer and level below 0. The returned objects must outlive
// the submission of encoder.
func (m *mipmapper) record(encoder *wgpu.CommandEncoder, t *texture) ([]interface{ Release() }, error) {
	if err := m.init(); err != nil {
		return nil, err
	}
	rp, err := m.renderPipeline(t.format)
	if err != nil {
		return nil, err
	}
	var garbage []interface{ Release() }
	for layer := uint32(0); layer < t.layers; layer++ {
		for mip := uint32(1); mip < t.mips; mip++ {
			src, err := t.view(layer, mip-1)
			if err != nil {
				return garbage, err
			}
			dst, err := t.view(layer, mip)
			if err != nil {
				return garbage, err
			}
			bg, err := m.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
				Label:  "downsample",
				Layout: m.layout,
				Entries: []wgpu.BindGroupEntry{
					{Binding: 0, TextureView: src},
					{Binding: 1, Sampler: m.sampler},
				},
			})
			if err != nil {
				return garbage, fmt.Errorf("wgpu_backend: failed to create downsample bind group: %w", err)
			}
			garbage = append(garbage, bg)

			pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
				Label: fmt.Sprintf("%s mip %d", t.desc.Label, mip),
				ColorAttachments: []wgpu.RenderPassColorAttachment{{
					View:    dst,
					LoadOp:  wgpu.LoadOpClear,
					StoreOp: wgpu.StoreOpStore,
				}},
			})
			pass.SetPipeline(rp)
			pass.SetBindGroup(0, bg, nil)
			pass.Draw(3, 1, 0, 0)
			pass.End()
			pass.Release()
		}
	}
	return garbage, nil
}

func (m *mipmapper) release() {
	for f, rp := range m.pipelines {
		rp.Release()
		delete(m.pipelines, f)
	}
	if m.sampler != nil {
		m.sampler.Release()
	}
	if m.pipeline != nil {
		m.pipeline.Release()
	}
	if m.layout != nil {
		m.layout.Release()
	}
	if m.module != nil {
		m.module.Release()
	}
	m.module, m.layout, m.pipeline, m.sampler = nil, nil, nil, nil
}

func (b *backendImpl) GenerateMipmaps(tex renderer.TextureHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.textures[tex]
	if !ok {
		return fmt.Errorf("wgpu_backend: unknown texture %d", tex)
	}
	if t.mips < 2 {
		return fmt.Errorf("wgpu_backend: %q has no mip chain", t.desc.Label)
	}
	if t.desc.Format.IsDepth() {
		return fmt.Errorf("wgpu_backend: cannot generate mipmaps for depth texture %q", t.desc.Label)
	}

	if b.frame.open() {
		if b.frame.pass != nil {
			return fmt.Errorf("wgpu_backend: cannot generate mipmaps for %q while a pass is open", t.desc.Label)
		}
		garbage, err := b.mipmapper.record(b.frame.encoder, t)
		b.frame.garbage = append(b.frame.garbage, garbage...)
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("wgpu_backend: failed to create mipmap encoder: %w", err)
	}
	defer encoder.Release()
	garbage, err := b.mipmapper.record(encoder, t)
	defer func() {
		for _, g := range garbage {
			g.Release()
		}
	}()
	if err != nil {
		return err
	}
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("wgpu_backend: failed to finish mipmap encoder: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}
