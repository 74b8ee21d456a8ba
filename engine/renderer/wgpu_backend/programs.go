package wgpu_backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const bindingVisibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment

type bindingKey struct {
	group   int
	binding int
}

// uniformBlock is the program-owned value of one uniform binding. When shared is set the binding
// reads the shared buffer instead.
type uniformBlock struct {
	data    []byte
	version uint64
	snap    snapshot
	shared  renderer.BufferHandle
}

// targetKey identifies the attachment formats a render pipeline is built for.
type targetKey struct {
	hasColor bool
	color    wgpu.TextureFormat
	hasDepth bool
	depth    wgpu.TextureFormat
}

type program struct {
	label         string
	pipeline      pipeline.Pipeline
	module        *wgpu.ShaderModule
	providers     []bind_group_provider.BindGroupProvider
	layout        *wgpu.PipelineLayout
	vertexLayouts []wgpu.VertexBufferLayout

	bindings map[bindingKey]shader.Binding
	blocks   map[bindingKey]*uniformBlock
	textures map[bindingKey]renderer.TextureHandle
	samplers map[bindingKey]renderer.SamplerHandle

	pipelines map[targetKey]*wgpu.RenderPipeline
}

func (p *program) invalidateTexture(tex renderer.TextureHandle) int {
	n := 0
	for _, provider := range p.providers {
		n += provider.InvalidateTexture(tex)
	}
	return n
}

func (p *program) release() {
	for k, rp := range p.pipelines {
		rp.Release()
		delete(p.pipelines, k)
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	for _, provider := range p.providers {
		provider.Release()
	}
	p.providers = nil
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}

func (b *backendImpl) CompileProgram(desc renderer.ProgramDescriptor) (renderer.ProgramHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if desc.Pipeline == nil || desc.Pipeline.Shader() == nil {
		return 0, fmt.Errorf("wgpu_backend: program has no shader")
	}
	p, err := b.buildProgram(desc.Pipeline)
	if err != nil {
		return 0, err
	}
	h := renderer.ProgramHandle(b.handle())
	b.programs[h] = p
	common.Logger().Debug("program compiled", "label", p.label, "groups", len(p.providers), "bindings", len(p.bindings))
	return h, nil
}

func (b *backendImpl) buildProgram(pl pipeline.Pipeline) (*program, error) {
	sh := pl.Shader()
	p := &program{
		label:     pl.PipelineKey(),
		pipeline:  pl,
		bindings:  make(map[bindingKey]shader.Binding),
		blocks:    make(map[bindingKey]*uniformBlock),
		textures:  make(map[bindingKey]renderer.TextureHandle),
		samplers:  make(map[bindingKey]renderer.SamplerHandle),
		pipelines: make(map[targetKey]*wgpu.RenderPipeline),
	}

	var err error
	p.vertexLayouts, err = vertexBufferLayouts(sh.VertexLayouts())
	if err != nil {
		return nil, fmt.Errorf("wgpu_backend: program %q: %w", p.label, err)
	}

	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	maxGroup := -1
	for _, binding := range sh.Bindings() {
		entry, err := layoutEntry(binding, bindingVisibility)
		if err != nil {
			return nil, fmt.Errorf("wgpu_backend: program %q: %w", p.label, err)
		}
		key := bindingKey{group: binding.Group, binding: binding.Binding}
		p.bindings[key] = binding
		if binding.Kind == shader.ResourceUniformBuffer {
			p.blocks[key] = &uniformBlock{data: make([]byte, binding.Size), version: 1}
		}
		entries[binding.Group] = append(entries[binding.Group], entry)
		maxGroup = max(maxGroup, binding.Group)
	}

	p.module, err = b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: sh.Source(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu_backend: failed to compile %q: %w", p.label, err)
	}

	// Groups the shader skips still need a layout so the pipeline layout stays dense.
	layouts := make([]*wgpu.BindGroupLayout, 0, maxGroup+1)
	for g := 0; g <= maxGroup; g++ {
		provider := bind_group_provider.NewBindGroupProvider(
			fmt.Sprintf("%s group %d", p.label, g),
			bind_group_provider.WithGroup(g),
			bind_group_provider.WithEntries(entries[g]...),
		)
		desc := provider.LayoutDescriptor()
		bgl, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			provider.Release()
			p.release()
			return nil, fmt.Errorf("wgpu_backend: failed to create bind group layout %d of %q: %w", g, p.label, err)
		}
		provider.SetBindGroupLayout(bgl)
		p.providers = append(p.providers, provider)
		layouts = append(layouts, bgl)
	}

	p.layout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		p.release()
		return nil, fmt.Errorf("wgpu_backend: failed to create pipeline layout of %q: %w", p.label, err)
	}
	return p, nil
}

func (b *backendImpl) ReleaseProgram(h renderer.ProgramHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.programs[h]
	if !ok {
		return
	}
	if b.frame.program == p {
		b.frame.program = nil
	}
	p.release()
	delete(b.programs, h)
}

// renderPipeline returns the pipeline of p for the attachments of the open pass, building it on
// first use.
func (b *backendImpl) renderPipeline(p *program, key targetKey) (*wgpu.RenderPipeline, error) {
	if rp, ok := p.pipelines[key]; ok {
		return rp, nil
	}
	pl := p.pipeline
	sh := pl.Shader()

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.label,
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     p.module,
			EntryPoint: sh.VertexEntryPoint(),
			Buffers:    p.vertexLayouts,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cullMode(pl.CullMode()),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}

	if key.hasColor {
		if sh.FragmentEntryPoint() == "" {
			return nil, fmt.Errorf("wgpu_backend: program %q has no fragment stage and cannot draw to a color target", p.label)
		}
		writeMask := wgpu.ColorWriteMaskAll
		if !pl.ColorWriteEnabled() {
			writeMask = wgpu.ColorWriteMaskNone
		}
		desc.Fragment = &wgpu.FragmentState{
			Module:     p.module,
			EntryPoint: sh.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{{
				Format:    key.color,
				WriteMask: writeMask,
			}},
		}
	}

	if key.hasDepth {
		compare := compareFunction(pl.DepthCompare())
		if !pl.DepthTestEnabled() {
			compare = wgpu.CompareFunctionAlways
		}
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:              key.depth,
			DepthWriteEnabled:   pl.DepthWriteEnabled(),
			DepthCompare:        compare,
			DepthBias:           pl.DepthBias(),
			DepthBiasSlopeScale: pl.DepthBiasSlopeScale(),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	rp, err := b.device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("wgpu_backend: failed to create render pipeline for %q: %w", p.label, err)
	}
	p.pipelines[key] = rp
	common.Logger().Debug("render pipeline created", "program", p.label, "color", key.hasColor, "depth", key.hasDepth)
	return rp, nil
}

// bindGroup resolves the bind group and dynamic offsets of one group for the next draw. Uniform
// values are copied into the arena here, so each draw sees the values current at record time.
func (b *backendImpl) bindGroup(p *program, provider bind_group_provider.BindGroupProvider) (*wgpu.BindGroup, []uint32, error) {
	g := provider.Group()
	var offsets []uint32
	var cacheKey strings.Builder
	var textures []renderer.TextureHandle
	entries := make([]wgpu.BindGroupEntry, 0, len(provider.Entries()))

	for _, e := range provider.Entries() {
		key := bindingKey{group: g, binding: int(e.Binding)}
		binding := p.bindings[key]
		switch binding.Kind {
		case shader.ResourceUniformBuffer:
			slice, err := b.uploadBlock(p, key)
			if err != nil {
				return nil, nil, err
			}
			offsets = append(offsets, slice.offset)
			cacheKey.WriteString("u" + strconv.Itoa(slice.chunk) + ";")
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: e.Binding,
				Buffer:  b.arena.buffer(slice.chunk),
				Offset:  0,
				Size:    binding.Size,
			})
		case shader.ResourceTexture, shader.ResourceDepthTexture:
			h := p.textures[key]
			t, ok := b.textures[h]
			if !ok {
				return nil, nil, fmt.Errorf("%w: %q in program %q", renderer.ErrTextureUnbound, binding.Name, p.label)
			}
			textures = append(textures, h)
			cacheKey.WriteString("t" + strconv.FormatUint(uint64(h), 10) + ";")
			entries = append(entries, wgpu.BindGroupEntry{
				Binding:     e.Binding,
				TextureView: t.sampleView,
			})
		case shader.ResourceSampler, shader.ResourceComparisonSampler:
			h := p.samplers[key]
			s, ok := b.samplers[h]
			if !ok {
				return nil, nil, fmt.Errorf("%w: sampler %q in program %q", renderer.ErrTextureUnbound, binding.Name, p.label)
			}
			cacheKey.WriteString("s" + strconv.FormatUint(uint64(h), 10) + ";")
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: e.Binding,
				Sampler: s,
			})
		}
	}

	if bg, ok := provider.BindGroup(cacheKey.String()); ok {
		return bg, offsets, nil
	}
	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label(),
		Layout:  provider.BindGroupLayout(),
		Entries: entries,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wgpu_backend: failed to create bind group %d of %q: %w", g, p.label, err)
	}
	provider.SetBindGroup(cacheKey.String(), bg, textures...)
	return bg, offsets, nil
}

func (b *backendImpl) uploadBlock(p *program, key bindingKey) (arenaSlice, error) {
	block := p.blocks[key]
	if block.shared == 0 {
		return block.snap.upload(b.arena, b.frame.index, block.version, block.data)
	}
	sb, ok := b.buffers[block.shared]
	if !ok {
		return arenaSlice{}, fmt.Errorf("wgpu_backend: program %q binds unknown buffer %d", p.label, block.shared)
	}
	if sb.mapped {
		return arenaSlice{}, fmt.Errorf("%w: %q", renderer.ErrBufferMapped, sb.label)
	}
	return sb.snap.upload(b.arena, b.frame.index, sb.version, sb.data)
}
