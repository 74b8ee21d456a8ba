package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/pipeline"
)

// ErrSurfaceUnavailable is returned by BeginFrame when the window surface has no drawable texture,
// e.g. while the window is minimized. The frame should be skipped.
var ErrSurfaceUnavailable = errors.New("renderer: surface unavailable")

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// Handles are opaque backend resource identifiers. The zero value of every handle means "none".
type (
	TextureHandle uint32
	SamplerHandle uint32
	BufferHandle  uint32
	ProgramHandle uint32
	MeshHandle    uint32
)

// TextureFormat is the texel format of a texture.
type TextureFormat int

const (
	TextureFormatRGBA8UnormSrgb TextureFormat = iota
	TextureFormatRGBA8Unorm
	TextureFormatDepth32Float
)

// IsDepth reports whether the format is a depth format.
func (f TextureFormat) IsDepth() bool {
	return f == TextureFormatDepth32Float
}

// TextureDescriptor describes a 2D texture or a cubemap.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	// Cube creates a six-layer cubemap sampled through a cube view.
	Cube bool
	// MipLevels is the mip level count; 0 means one level.
	MipLevels uint32
	Format    TextureFormat
	// RenderTarget allows the texture, or any of its faces and levels, to be a pass attachment.
	RenderTarget bool
}

// FilterMode selects texel filtering.
type FilterMode int

const (
	FilterLinear FilterMode = iota
	FilterNearest
)

// AddressMode selects texture coordinate wrapping.
type AddressMode int

const (
	AddressClampToEdge AddressMode = iota
	AddressRepeat
)

// SamplerDescriptor describes a sampler.
type SamplerDescriptor struct {
	Label   string
	Filter  FilterMode
	Address AddressMode
	// Mipmaps enables linear filtering between mip levels (trilinear).
	Mipmaps bool
	// Compare creates a less-equal comparison sampler for depth textures.
	Compare bool
}

// BufferDescriptor describes a CPU-writable uniform buffer.
type BufferDescriptor struct {
	Label string
	Size  uint64
}

// MeshDescriptor describes immutable indexed triangle geometry.
type MeshDescriptor struct {
	Label    string
	Vertices []byte
	Indices  []uint32
}

// ProgramDescriptor describes a GPU program built from a parsed shader and its raster state.
type ProgramDescriptor struct {
	Pipeline pipeline.Pipeline
}

// ColorAttachment selects where a pass writes color.
type ColorAttachment struct {
	// Surface targets the window's current swapchain texture; Texture is ignored.
	Surface bool
	Texture TextureHandle
	// Layer is the cubemap face for cube textures.
	Layer uint32
	Mip   uint32
	Clear bool
	// ClearColor is used when Clear is set.
	ClearColor common.Vec4
}

// DepthAttachment selects the depth buffer of a pass.
type DepthAttachment struct {
	Texture    TextureHandle
	Clear      bool
	ClearDepth float32
}

// PassDescriptor describes one render pass. A nil Color makes a depth-only pass.
type PassDescriptor struct {
	Label string
	Color *ColorAttachment
	Depth *DepthAttachment
}

// RendererBackend is the GPU abstraction the frame pipeline records against. Implementations
// record every command into one in-order command stream per frame, submitted by EndFrame.
//
// Uniform writes follow program semantics: values written through WriteUniform persist on the
// program until overwritten, and every draw captures the program's current values.
type RendererBackend interface {
	// CreateTexture creates a texture or cubemap.
	//
	// Parameters:
	//   - desc: the texture descriptor
	//
	// Returns:
	//   - TextureHandle: the created texture
	//   - error: an error if the device rejects the descriptor
	CreateTexture(desc TextureDescriptor) (TextureHandle, error)

	// WriteTexture uploads RGBA pixels into mip 0 of one layer of a texture.
	//
	// Parameters:
	//   - tex: the destination texture
	//   - layer: the cubemap face, 0 for 2D textures
	//   - data: the pixels, matching the texture size
	//
	// Returns:
	//   - error: an error if the upload is invalid
	WriteTexture(tex TextureHandle, layer uint32, data common.PixelData) error

	// ReleaseTexture frees a texture and every view and bind group referencing it.
	//
	// Parameters:
	//   - tex: the texture to release
	ReleaseTexture(tex TextureHandle)

	// GenerateMipmaps regenerates every mip level below 0 from level 0 for all layers. Inside a
	// frame it is recorded into the frame's command stream; outside a frame it is submitted at once.
	//
	// Parameters:
	//   - tex: the texture to regenerate
	//
	// Returns:
	//   - error: an error if the texture has no mip chain or is not renderable
	GenerateMipmaps(tex TextureHandle) error

	// CreateSampler creates a sampler.
	//
	// Parameters:
	//   - desc: the sampler descriptor
	//
	// Returns:
	//   - SamplerHandle: the created sampler
	//   - error: an error if creation fails
	CreateSampler(desc SamplerDescriptor) (SamplerHandle, error)

	// CreateBuffer creates a shared uniform buffer written through MapBuffer.
	//
	// Parameters:
	//   - desc: the buffer descriptor
	//
	// Returns:
	//   - BufferHandle: the created buffer
	//   - error: an error if creation fails
	CreateBuffer(desc BufferDescriptor) (BufferHandle, error)

	// MapBuffer exposes the CPU copy of a buffer for writing.
	//
	// Parameters:
	//   - buf: the buffer to map
	//
	// Returns:
	//   - []byte: the writable contents, valid until UnmapBuffer
	//   - error: an error if the buffer is unknown or already mapped
	MapBuffer(buf BufferHandle) ([]byte, error)

	// UnmapBuffer publishes the mapped contents to every draw recorded after this call.
	//
	// Parameters:
	//   - buf: the mapped buffer
	//
	// Returns:
	//   - error: an error if the buffer is not mapped
	UnmapBuffer(buf BufferHandle) error

	// CreateMesh uploads indexed geometry.
	//
	// Parameters:
	//   - desc: the mesh descriptor
	//
	// Returns:
	//   - MeshHandle: the created mesh
	//   - error: an error if creation fails
	CreateMesh(desc MeshDescriptor) (MeshHandle, error)

	// CompileProgram compiles a program's shader module and prepares its bind group layouts.
	//
	// Parameters:
	//   - desc: the program descriptor
	//
	// Returns:
	//   - ProgramHandle: the compiled program
	//   - error: a compile error
	CompileProgram(desc ProgramDescriptor) (ProgramHandle, error)

	// ReleaseProgram frees a program's GPU objects.
	//
	// Parameters:
	//   - p: the program to release
	ReleaseProgram(p ProgramHandle)

	// MaxTextureDimension returns the device's largest supported 2D texture edge.
	//
	// Returns:
	//   - uint32: the limit in texels
	MaxTextureDimension() uint32

	// ConfigureSurface resizes the window surface.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	ConfigureSurface(width, height int)

	// SurfaceSize returns the configured surface size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	SurfaceSize() (int, int)

	// BeginFrame acquires the swapchain texture and opens the frame's command stream.
	//
	// Returns:
	//   - error: an error if the surface texture cannot be acquired
	BeginFrame() error

	// BeginPass opens a render pass.
	//
	// Parameters:
	//   - desc: the attachments of the pass
	//
	// Returns:
	//   - error: an error if a pass is already open or an attachment is invalid
	BeginPass(desc PassDescriptor) error

	// BindProgram selects the program used by subsequent draws.
	//
	// Parameters:
	//   - p: the program
	//
	// Returns:
	//   - error: an error if the program is unknown
	BindProgram(p ProgramHandle) error

	// WriteUniform stores bytes into a uniform block of the bound program.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index
	//   - offset: the byte offset inside the block
	//   - data: the bytes to store
	//
	// Returns:
	//   - error: an error if no program is bound or the write is out of range
	WriteUniform(group, binding int, offset uint64, data []byte) error

	// BindTexture binds a texture and, when samplerBinding is not negative, its sampler for the bound program.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the texture binding index
	//   - samplerBinding: the sampler binding index or -1
	//   - tex: the texture
	//   - sampler: the sampler
	//
	// Returns:
	//   - error: an error if no program is bound
	BindTexture(group, binding, samplerBinding int, tex TextureHandle, sampler SamplerHandle) error

	// BindBuffer binds a shared uniform buffer to a uniform block of the bound program.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index
	//   - buf: the buffer
	//
	// Returns:
	//   - error: an error if no program is bound
	BindBuffer(group, binding int, buf BufferHandle) error

	// Draw records an indexed draw of mesh with the bound program and its current state.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	//   - indexCount: the number of indices to draw
	//
	// Returns:
	//   - error: an error if no pass is open
	Draw(mesh MeshHandle, indexCount uint32) error

	// EndPass closes the open render pass.
	//
	// Returns:
	//   - error: an error if no pass is open
	EndPass() error

	// EndFrame uploads the frame's uniform data and submits the command stream.
	//
	// Returns:
	//   - error: an error if a pass is still open
	EndFrame() error

	// Present displays the frame's swapchain texture.
	Present()

	// Release frees every GPU object owned by the backend.
	Release()
}
