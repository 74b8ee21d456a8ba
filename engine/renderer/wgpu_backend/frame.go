package wgpu_backend

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	errNoFrame = errors.New("wgpu_backend: no frame open")
	errNoPass  = errors.New("wgpu_backend: no pass open")
)

// frameState is everything recorded between BeginFrame and EndFrame.
type frameState struct {
	index   uint64
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	target  targetKey
	program *program

	surfaceTexture *wgpu.Texture
	surfaceView    *wgpu.TextureView

	// garbage holds objects recorded into the frame that are released after submission.
	garbage []interface{ Release() }
}

func (f *frameState) open() bool {
	return f.encoder != nil
}

func (f *frameState) collect() {
	for _, g := range f.garbage {
		g.Release()
	}
	f.garbage = f.garbage[:0]
}

func (f *frameState) releaseSurface() {
	if f.surfaceView != nil {
		f.surfaceView.Release()
		f.surfaceView = nil
	}
	if f.surfaceTexture != nil {
		f.surfaceTexture.Release()
		f.surfaceTexture = nil
	}
}

// discard drops a frame that was never submitted.
func (f *frameState) discard() {
	if f.pass != nil {
		f.pass.End()
		f.pass.Release()
		f.pass = nil
	}
	if f.encoder != nil {
		f.encoder.Release()
		f.encoder = nil
	}
	f.collect()
	f.releaseSurface()
	f.program = nil
}

func (b *backendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.open() {
		common.Logger().Warn("discarding unsubmitted frame", "frame", b.frame.index)
		b.frame.discard()
	}
	if b.frame.surfaceTexture != nil {
		b.frame.releaseSurface()
	}
	if b.width <= 0 || b.height <= 0 {
		return renderer.ErrSurfaceUnavailable
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		// Outdated or lost surfaces recover after reconfiguration.
		b.configureSurface()
		return fmt.Errorf("%w: %v", renderer.ErrSurfaceUnavailable, err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("wgpu_backend: failed to create surface view: %w", err)
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return fmt.Errorf("wgpu_backend: failed to create command encoder: %w", err)
	}

	b.frame.index++
	b.frame.encoder = encoder
	b.frame.surfaceTexture = surfaceTexture
	b.frame.surfaceView = view
	b.arena.reset()
	return nil
}

func (b *backendImpl) BeginPass(desc renderer.PassDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.frame.open() {
		return fmt.Errorf("%w: pass %q", errNoFrame, desc.Label)
	}
	if b.frame.pass != nil {
		return fmt.Errorf("wgpu_backend: pass %q opened while another pass is open", desc.Label)
	}
	if desc.Color == nil && desc.Depth == nil {
		return fmt.Errorf("wgpu_backend: pass %q has no attachments", desc.Label)
	}

	var key targetKey
	rpd := &wgpu.RenderPassDescriptor{Label: desc.Label}

	if c := desc.Color; c != nil {
		view, format, err := b.colorView(c)
		if err != nil {
			return fmt.Errorf("wgpu_backend: pass %q: %w", desc.Label, err)
		}
		load := wgpu.LoadOpLoad
		if c.Clear {
			load = wgpu.LoadOpClear
		}
		rpd.ColorAttachments = []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  load,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(c.ClearColor[0]),
				G: float64(c.ClearColor[1]),
				B: float64(c.ClearColor[2]),
				A: float64(c.ClearColor[3]),
			},
		}}
		key.hasColor = true
		key.color = format
	}

	if d := desc.Depth; d != nil {
		t, ok := b.textures[d.Texture]
		if !ok {
			return fmt.Errorf("wgpu_backend: pass %q: unknown depth texture %d", desc.Label, d.Texture)
		}
		if !t.desc.Format.IsDepth() {
			return fmt.Errorf("wgpu_backend: pass %q: %q is not a depth texture", desc.Label, t.desc.Label)
		}
		view, err := t.view(0, 0)
		if err != nil {
			return fmt.Errorf("wgpu_backend: pass %q: %w", desc.Label, err)
		}
		load := wgpu.LoadOpLoad
		if d.Clear {
			load = wgpu.LoadOpClear
		}
		rpd.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            view,
			DepthLoadOp:     load,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: d.ClearDepth,
		}
		key.hasDepth = true
		key.depth = t.format
	}

	b.frame.pass = b.frame.encoder.BeginRenderPass(rpd)
	b.frame.target = key
	return nil
}

func (b *backendImpl) colorView(c *renderer.ColorAttachment) (*wgpu.TextureView, wgpu.TextureFormat, error) {
	if c.Surface {
		return b.frame.surfaceView, b.surfaceFormat, nil
	}
	t, ok := b.textures[c.Texture]
	if !ok {
		return nil, wgpu.TextureFormatUndefined, fmt.Errorf("unknown color texture %d", c.Texture)
	}
	if t.desc.Format.IsDepth() {
		return nil, wgpu.TextureFormatUndefined, fmt.Errorf("%q is a depth texture", t.desc.Label)
	}
	if !t.desc.RenderTarget {
		return nil, wgpu.TextureFormatUndefined, fmt.Errorf("%q is not a render target", t.desc.Label)
	}
	view, err := t.view(c.Layer, c.Mip)
	return view, t.format, err
}

func (b *backendImpl) BindProgram(h renderer.ProgramHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.programs[h]
	if !ok {
		return fmt.Errorf("wgpu_backend: unknown program %d", h)
	}
	b.frame.program = p
	return nil
}

func (b *backendImpl) WriteUniform(group, binding int, offset uint64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.frame.program
	if p == nil {
		return renderer.ErrNoProgram
	}
	block, ok := p.blocks[bindingKey{group: group, binding: binding}]
	if !ok {
		return fmt.Errorf("%w: program %q has no uniform block at @group(%d) @binding(%d)", renderer.ErrSlotMismatch, p.label, group, binding)
	}
	if offset+uint64(len(data)) > uint64(len(block.data)) {
		return fmt.Errorf("%w: %d bytes at offset %d overflow the %d byte block @group(%d) @binding(%d) of %q",
			renderer.ErrSlotMismatch, len(data), offset, len(block.data), group, binding, p.label)
	}
	copy(block.data[offset:], data)
	block.shared = 0
	block.version++
	return nil
}

func (b *backendImpl) BindTexture(group, binding, samplerBinding int, tex renderer.TextureHandle, sampler renderer.SamplerHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.frame.program
	if p == nil {
		return renderer.ErrNoProgram
	}
	if _, ok := b.textures[tex]; !ok {
		return fmt.Errorf("wgpu_backend: unknown texture %d", tex)
	}
	key := bindingKey{group: group, binding: binding}
	if k := p.bindings[key].Kind; k != shader.ResourceTexture && k != shader.ResourceDepthTexture {
		return fmt.Errorf("%w: @group(%d) @binding(%d) of %q is not a texture", renderer.ErrSlotMismatch, group, binding, p.label)
	}
	p.textures[key] = tex
	if samplerBinding >= 0 {
		if _, ok := b.samplers[sampler]; !ok {
			return fmt.Errorf("wgpu_backend: unknown sampler %d", sampler)
		}
		p.samplers[bindingKey{group: group, binding: samplerBinding}] = sampler
	}
	return nil
}

func (b *backendImpl) BindBuffer(group, binding int, buf renderer.BufferHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.frame.program
	if p == nil {
		return renderer.ErrNoProgram
	}
	block, ok := p.blocks[bindingKey{group: group, binding: binding}]
	if !ok {
		return fmt.Errorf("%w: program %q has no uniform block at @group(%d) @binding(%d)", renderer.ErrSlotMismatch, p.label, group, binding)
	}
	sb, ok := b.buffers[buf]
	if !ok {
		return fmt.Errorf("wgpu_backend: unknown buffer %d", buf)
	}
	if len(sb.data) < len(block.data) {
		return fmt.Errorf("%w: buffer %q of %d bytes is smaller than the %d byte block of %q",
			renderer.ErrSlotMismatch, sb.label, len(sb.data), len(block.data), p.label)
	}
	block.shared = buf
	return nil
}

func (b *backendImpl) Draw(h renderer.MeshHandle, indexCount uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.pass == nil {
		return errNoPass
	}
	p := b.frame.program
	if p == nil {
		return renderer.ErrNoProgram
	}
	m, ok := b.meshes[h]
	if !ok {
		return fmt.Errorf("wgpu_backend: unknown mesh %d", h)
	}
	if indexCount == 0 || indexCount > m.indexCount {
		indexCount = m.indexCount
	}

	rp, err := b.renderPipeline(p, b.frame.target)
	if err != nil {
		return err
	}
	pass := b.frame.pass
	pass.SetPipeline(rp)
	for _, provider := range p.providers {
		bg, offsets, err := b.bindGroup(p, provider)
		if err != nil {
			return err
		}
		pass.SetBindGroup(uint32(provider.Group()), bg, offsets)
	}
	if len(p.vertexLayouts) > 0 {
		pass.SetVertexBuffer(0, m.vertex, 0, wgpu.WholeSize)
	}
	pass.SetIndexBuffer(m.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(indexCount, 1, 0, 0, 0)
	return nil
}

func (b *backendImpl) EndPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.pass == nil {
		return errNoPass
	}
	b.frame.pass.End()
	b.frame.pass.Release()
	b.frame.pass = nil
	b.frame.target = targetKey{}
	return nil
}

func (b *backendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.frame.open() {
		return errNoFrame
	}
	if b.frame.pass != nil {
		return fmt.Errorf("wgpu_backend: frame %d ended with a pass open", b.frame.index)
	}

	for _, w := range b.arena.writes() {
		if err := b.queue.WriteBuffer(w.Buffer, w.Offset, w.Data); err != nil {
			b.frame.discard()
			return fmt.Errorf("wgpu_backend: failed to upload uniforms of frame %d: %w", b.frame.index, err)
		}
	}

	encoder := b.frame.encoder
	b.frame.encoder = nil
	commandBuffer, err := encoder.Finish(nil)
	encoder.Release()
	if err != nil {
		b.frame.collect()
		b.frame.releaseSurface()
		return fmt.Errorf("wgpu_backend: failed to finish frame %d: %w", b.frame.index, err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.frame.collect()
	return nil
}

func (b *backendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.surfaceTexture == nil || b.frame.open() {
		return
	}
	b.surface.Present()
	b.frame.releaseSurface()
}
