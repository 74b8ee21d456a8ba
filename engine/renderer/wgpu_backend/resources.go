package wgpu_backend

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// viewKey selects one attachable face and level of a texture.
type viewKey struct {
	layer uint32
	mip   uint32
}

type texture struct {
	desc   renderer.TextureDescriptor
	format wgpu.TextureFormat
	layers uint32
	mips   uint32
	tex    *wgpu.Texture
	// sampleView covers every layer and level, as a cube view for cubemaps.
	sampleView *wgpu.TextureView
	views      map[viewKey]*wgpu.TextureView
}

// view returns the single layer, single level view used as a pass attachment or a mip source.
func (t *texture) view(layer, mip uint32) (*wgpu.TextureView, error) {
	if layer >= t.layers || mip >= t.mips {
		return nil, fmt.Errorf("wgpu_backend: %q has no layer %d mip %d", t.desc.Label, layer, mip)
	}
	key := viewKey{layer: layer, mip: mip}
	if v, ok := t.views[key]; ok {
		return v, nil
	}
	v, err := t.tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           fmt.Sprintf("%s layer %d mip %d", t.desc.Label, layer, mip),
		Format:          t.format,
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    mip,
		MipLevelCount:   1,
		BaseArrayLayer:  layer,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu_backend: failed to create view of %q: %w", t.desc.Label, err)
	}
	t.views[key] = v
	return v, nil
}

func (t *texture) release() {
	for k, v := range t.views {
		v.Release()
		delete(t.views, k)
	}
	if t.sampleView != nil {
		t.sampleView.Release()
		t.sampleView = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

// sharedBuffer is a uniform buffer shared between programs. It lives on the CPU and is copied into
// the uniform arena the first time a draw uses each published version.
type sharedBuffer struct {
	label   string
	data    []byte
	mapped  bool
	version uint64
	snap    snapshot
}

type mesh struct {
	vertex     *wgpu.Buffer
	index      *wgpu.Buffer
	indexCount uint32
}

func (m *mesh) release() {
	if m.vertex != nil {
		m.vertex.Release()
	}
	if m.index != nil {
		m.index.Release()
	}
}

func (b *backendImpl) CreateTexture(desc renderer.TextureDescriptor) (renderer.TextureHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if desc.Width == 0 || desc.Height == 0 {
		return 0, fmt.Errorf("wgpu_backend: texture %q has zero size", desc.Label)
	}
	if desc.Width > b.maxTextureDimension || desc.Height > b.maxTextureDimension {
		return 0, fmt.Errorf("wgpu_backend: texture %q of %dx%d exceeds the device limit %d", desc.Label, desc.Width, desc.Height, b.maxTextureDimension)
	}
	if desc.Cube && desc.Width != desc.Height {
		return 0, fmt.Errorf("wgpu_backend: cubemap %q faces must be square, got %dx%d", desc.Label, desc.Width, desc.Height)
	}
	format, err := textureFormat(desc.Format)
	if err != nil {
		return 0, err
	}

	t := &texture{
		desc:   desc,
		format: format,
		layers: 1,
		mips:   max(desc.MipLevels, 1),
		views:  make(map[viewKey]*wgpu.TextureView),
	}
	if desc.Cube {
		t.layers = 6
	}

	usage := wgpu.TextureUsageTextureBinding
	if !desc.Format.IsDepth() {
		usage |= wgpu.TextureUsageCopyDst
	}
	if desc.RenderTarget || t.mips > 1 {
		usage |= wgpu.TextureUsageRenderAttachment
	}
	t.tex, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     desc.Label,
		Usage:     usage,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: t.layers,
		},
		Format:        format,
		MipLevelCount: t.mips,
		SampleCount:   1,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu_backend: failed to create texture %q: %w", desc.Label, err)
	}

	sampleDimension := wgpu.TextureViewDimension2D
	if desc.Cube {
		sampleDimension = wgpu.TextureViewDimensionCube
	}
	t.sampleView, err = t.tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           desc.Label + " sample view",
		Format:          format,
		Dimension:       sampleDimension,
		BaseMipLevel:    0,
		MipLevelCount:   t.mips,
		BaseArrayLayer:  0,
		ArrayLayerCount: t.layers,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		t.release()
		return 0, fmt.Errorf("wgpu_backend: failed to create sample view of %q: %w", desc.Label, err)
	}

	h := renderer.TextureHandle(b.handle())
	b.textures[h] = t
	common.Logger().Debug("texture created", "label", desc.Label, "width", desc.Width, "height", desc.Height, "cube", desc.Cube, "mips", t.mips)
	return h, nil
}

func (b *backendImpl) WriteTexture(tex renderer.TextureHandle, layer uint32, data common.PixelData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.textures[tex]
	if !ok {
		return fmt.Errorf("wgpu_backend: unknown texture %d", tex)
	}
	if t.desc.Format.IsDepth() {
		return fmt.Errorf("wgpu_backend: cannot upload pixels to depth texture %q", t.desc.Label)
	}
	if layer >= t.layers {
		return fmt.Errorf("wgpu_backend: %q has no layer %d", t.desc.Label, layer)
	}
	if data.Width != t.desc.Width || data.Height != t.desc.Height {
		return fmt.Errorf("wgpu_backend: %dx%d pixels do not match %q of %dx%d", data.Width, data.Height, t.desc.Label, t.desc.Width, t.desc.Height)
	}
	if want := int(data.Width * data.Height * 4); len(data.Pixels) != want {
		return fmt.Errorf("wgpu_backend: expected %d bytes of pixels for %q, got %d", want, t.desc.Label, len(data.Pixels))
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{Z: layer},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

func (b *backendImpl) ReleaseTexture(tex renderer.TextureHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.textures[tex]
	if !ok {
		return
	}
	dropped := 0
	for _, p := range b.programs {
		dropped += p.invalidateTexture(tex)
	}
	t.release()
	delete(b.textures, tex)
	common.Logger().Debug("texture released", "label", t.desc.Label, "bind_groups_dropped", dropped)
}

func (b *backendImpl) CreateSampler(desc renderer.SamplerDescriptor) (renderer.SamplerHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	address := addressMode(desc.Address)
	filter := filterMode(desc.Filter)
	sd := &wgpu.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  address,
		AddressModeV:  address,
		AddressModeW:  address,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
	if desc.Mipmaps {
		sd.MipmapFilter = wgpu.MipmapFilterModeLinear
	}
	if desc.Compare {
		sd.Compare = wgpu.CompareFunctionLessEqual
	}
	s, err := b.device.CreateSampler(sd)
	if err != nil {
		return 0, fmt.Errorf("wgpu_backend: failed to create sampler %q: %w", desc.Label, err)
	}
	h := renderer.SamplerHandle(b.handle())
	b.samplers[h] = s
	return h, nil
}

func (b *backendImpl) CreateBuffer(desc renderer.BufferDescriptor) (renderer.BufferHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if desc.Size == 0 {
		return 0, fmt.Errorf("wgpu_backend: buffer %q has zero size", desc.Label)
	}
	if desc.Size > b.arena.chunkSize {
		return 0, fmt.Errorf("wgpu_backend: buffer %q of %d bytes exceeds the uniform arena chunk of %d bytes", desc.Label, desc.Size, b.arena.chunkSize)
	}
	h := renderer.BufferHandle(b.handle())
	b.buffers[h] = &sharedBuffer{label: desc.Label, data: make([]byte, desc.Size), version: 1}
	return h, nil
}

func (b *backendImpl) MapBuffer(buf renderer.BufferHandle) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sb, ok := b.buffers[buf]
	if !ok {
		return nil, fmt.Errorf("wgpu_backend: unknown buffer %d", buf)
	}
	if sb.mapped {
		return nil, fmt.Errorf("%w: %q", renderer.ErrBufferMapped, sb.label)
	}
	sb.mapped = true
	return sb.data, nil
}

func (b *backendImpl) UnmapBuffer(buf renderer.BufferHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sb, ok := b.buffers[buf]
	if !ok {
		return fmt.Errorf("wgpu_backend: unknown buffer %d", buf)
	}
	if !sb.mapped {
		return fmt.Errorf("wgpu_backend: buffer %q is not mapped", sb.label)
	}
	sb.mapped = false
	sb.version++
	return nil
}

func (b *backendImpl) CreateMesh(desc renderer.MeshDescriptor) (renderer.MeshHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(desc.Vertices) == 0 || len(desc.Indices) == 0 {
		return 0, fmt.Errorf("wgpu_backend: mesh %q has no geometry", desc.Label)
	}
	vertex, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    desc.Label + " vertex buffer",
		Contents: desc.Vertices,
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu_backend: failed to create vertex buffer of %q: %w", desc.Label, err)
	}
	index, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    desc.Label + " index buffer",
		Contents: common.SliceToBytes(desc.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vertex.Release()
		return 0, fmt.Errorf("wgpu_backend: failed to create index buffer of %q: %w", desc.Label, err)
	}
	h := renderer.MeshHandle(b.handle())
	b.meshes[h] = &mesh{vertex: vertex, index: index, indexCount: uint32(len(desc.Indices))}
	return h, nil
}
