package wgpu_backend

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

const defaultArenaChunkSize = 256 << 10

// backendImpl is the WebGPU implementation of renderer.RendererBackend. Every pass of a frame is
// recorded into one command encoder and submitted once by EndFrame.
type backendImpl struct {
	mu sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	width, height int

	presentMode          renderer.PresentMode
	forceFallbackAdapter bool
	arenaChunkSize       uint64
	maxTextureDimension  uint32

	nextHandle uint32
	textures   map[renderer.TextureHandle]*texture
	samplers   map[renderer.SamplerHandle]*wgpu.Sampler
	buffers    map[renderer.BufferHandle]*sharedBuffer
	meshes     map[renderer.MeshHandle]*mesh
	programs   map[renderer.ProgramHandle]*program

	arena     *uniformArena
	mipmapper *mipmapper

	frame frameState
}

var _ renderer.RendererBackend = &backendImpl{}

// NewBackend creates a WebGPU backend drawing to the given window surface.
//
// Parameters:
//   - surfaceDescriptor: the platform surface of the window
//   - options: variadic list of BackendBuilderOption functions
//
// Returns:
//   - renderer.RendererBackend: the backend
//   - error: an error if no adapter or device is available
func NewBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...BackendBuilderOption) (renderer.RendererBackend, error) {
	if surfaceDescriptor == nil {
		return nil, fmt.Errorf("wgpu_backend: nil surface descriptor")
	}
	b := &backendImpl{
		presentMode:    renderer.PresentModeVSync,
		arenaChunkSize: defaultArenaChunkSize,
		textures:       make(map[renderer.TextureHandle]*texture),
		samplers:       make(map[renderer.SamplerHandle]*wgpu.Sampler),
		buffers:        make(map[renderer.BufferHandle]*sharedBuffer),
		meshes:         make(map[renderer.MeshHandle]*mesh),
		programs:       make(map[renderer.ProgramHandle]*program),
	}
	for _, opt := range options {
		opt(b)
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("wgpu_backend: failed to request adapter: %w", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "oxy-probe device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("wgpu_backend: failed to request device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	limits := device.GetLimits().Limits
	b.maxTextureDimension = limits.MaxTextureDimension2D
	b.arena = newUniformArena(b.arenaChunkSize, uint64(limits.MinUniformBufferOffsetAlignment), b.createUniformBuffer)
	b.mipmapper = newMipmapper(device)

	capabilities := b.surface.GetCapabilities(adapter)
	if len(capabilities.Formats) == 0 {
		b.Release()
		return nil, fmt.Errorf("wgpu_backend: surface reports no formats")
	}
	b.surfaceFormat = preferredSurfaceFormat(capabilities.Formats)
	b.alphaMode = wgpu.CompositeAlphaModeAuto
	if len(capabilities.AlphaModes) > 0 {
		b.alphaMode = capabilities.AlphaModes[0]
	}

	common.Logger().Info("webgpu device ready",
		"surface_format", b.surfaceFormat,
		"max_texture_dimension", b.maxTextureDimension,
		"uniform_alignment", limits.MinUniformBufferOffsetAlignment,
	)
	return b, nil
}

// preferredSurfaceFormat picks an sRGB surface format when one is offered.
func preferredSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb {
			return f
		}
	}
	return formats[0]
}

func (b *backendImpl) createUniformBuffer(label string, size uint64) (*wgpu.Buffer, error) {
	return b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
}

func (b *backendImpl) handle() uint32 {
	b.nextHandle++
	return b.nextHandle
}

func (b *backendImpl) MaxTextureDimension() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.maxTextureDimension
}

func (b *backendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
	b.configureSurface()
}

func (b *backendImpl) configureSurface() {
	if b.width <= 0 || b.height <= 0 {
		return
	}
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(b.width),
		Height:      uint32(b.height),
		PresentMode: presentMode(b.presentMode),
		AlphaMode:   b.alphaMode,
	})
	common.Logger().Debug("surface configured", "width", b.width, "height", b.height)
}

func (b *backendImpl) SurfaceSize() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *backendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frame.discard()
	for h, p := range b.programs {
		p.release()
		delete(b.programs, h)
	}
	for h, t := range b.textures {
		t.release()
		delete(b.textures, h)
	}
	for h, s := range b.samplers {
		s.Release()
		delete(b.samplers, h)
	}
	for h, m := range b.meshes {
		m.release()
		delete(b.meshes, h)
	}
	clear(b.buffers)
	if b.mipmapper != nil {
		b.mipmapper.release()
		b.mipmapper = nil
	}
	if b.arena != nil {
		b.arena.release()
		b.arena = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
