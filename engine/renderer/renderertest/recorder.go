// Package renderertest provides a recording RendererBackend for tests that exercise the frame
// pipeline without a GPU device.
package renderertest

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
)

// Op names a recorded backend call.
type Op string

const (
	OpCreateTexture   Op = "CreateTexture"
	OpWriteTexture    Op = "WriteTexture"
	OpReleaseTexture  Op = "ReleaseTexture"
	OpGenerateMipmaps Op = "GenerateMipmaps"
	OpCreateSampler   Op = "CreateSampler"
	OpCreateBuffer    Op = "CreateBuffer"
	OpMapBuffer       Op = "MapBuffer"
	OpUnmapBuffer     Op = "UnmapBuffer"
	OpCreateMesh      Op = "CreateMesh"
	OpCompileProgram  Op = "CompileProgram"
	OpReleaseProgram  Op = "ReleaseProgram"
	OpBeginFrame      Op = "BeginFrame"
	OpBeginPass       Op = "BeginPass"
	OpBindProgram     Op = "BindProgram"
	OpWriteUniform    Op = "WriteUniform"
	OpBindTexture     Op = "BindTexture"
	OpBindBuffer      Op = "BindBuffer"
	OpDraw            Op = "Draw"
	OpEndPass         Op = "EndPass"
	OpEndFrame        Op = "EndFrame"
	OpPresent         Op = "Present"
)

// ErrInvalidState is returned when calls arrive in an order a real device would reject.
var ErrInvalidState = errors.New("renderertest: invalid call order")

// Call is one recorded backend call. Only the fields relevant to Op are set.
type Call struct {
	Op         Op
	Label      string
	Program    renderer.ProgramHandle
	Group      int
	Binding    int
	Offset     uint64
	Data       []byte
	Texture    renderer.TextureHandle
	Sampler    renderer.SamplerHandle
	Buffer     renderer.BufferHandle
	Mesh       renderer.MeshHandle
	IndexCount uint32
	Layer      uint32
	Pass       renderer.PassDescriptor
}

// Recorder is a RendererBackend that records every call and validates call order.
type Recorder struct {
	mu *sync.Mutex

	calls []Call
	next  uint32

	textures map[renderer.TextureHandle]renderer.TextureDescriptor
	buffers  map[renderer.BufferHandle][]byte
	mapped   map[renderer.BufferHandle]bool
	programs map[renderer.ProgramHandle]renderer.ProgramDescriptor

	bound   renderer.ProgramHandle
	inPass  bool
	inFrame bool

	maxDimension  uint32
	width, height int

	// CompileError, when set, is returned by CompileProgram.
	CompileError error
	// BeginFrameError, when set, is returned by BeginFrame and no frame is opened.
	BeginFrameError error
}

var _ renderer.RendererBackend = &Recorder{}

// NewRecorder creates an empty Recorder with an 8192 texel texture limit and a 1280x720 surface.
func NewRecorder() *Recorder {
	return &Recorder{
		mu:           &sync.Mutex{},
		textures:     make(map[renderer.TextureHandle]renderer.TextureDescriptor),
		buffers:      make(map[renderer.BufferHandle][]byte),
		mapped:       make(map[renderer.BufferHandle]bool),
		programs:     make(map[renderer.ProgramHandle]renderer.ProgramDescriptor),
		maxDimension: 8192,
		width:        1280,
		height:       720,
	}
}

// SetMaxTextureDimension overrides the reported device limit.
func (r *Recorder) SetMaxTextureDimension(n uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxDimension = n
}

// Calls returns a copy of every recorded call.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Filter returns the recorded calls with the given op.
func (r *Recorder) Filter(op Op) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of recorded calls with the given op.
func (r *Recorder) Count(op Op) int {
	return len(r.Filter(op))
}

// Ops returns the op of every recorded call in order.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Op
	}
	return out
}

// Clear drops the recorded calls but keeps created resources.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Texture returns the descriptor a texture was created with.
func (r *Recorder) Texture(h renderer.TextureHandle) (renderer.TextureDescriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.textures[h]
	return d, ok
}

// BufferContents returns a copy of a buffer's current contents.
func (r *Recorder) BufferContents(h renderer.BufferHandle) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.buffers[h])
}

func (r *Recorder) record(c Call) {
	r.calls = append(r.calls, c)
}

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) CreateTexture(desc renderer.TextureDescriptor) (renderer.TextureHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if desc.Width == 0 || desc.Height == 0 || desc.Width > r.maxDimension || desc.Height > r.maxDimension {
		return 0, fmt.Errorf("renderertest: texture %q size %dx%d outside limit %d", desc.Label, desc.Width, desc.Height, r.maxDimension)
	}
	h := renderer.TextureHandle(r.handle())
	r.textures[h] = desc
	r.record(Call{Op: OpCreateTexture, Label: desc.Label, Texture: h})
	return h, nil
}

func (r *Recorder) WriteTexture(tex renderer.TextureHandle, layer uint32, data common.PixelData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	desc, ok := r.textures[tex]
	if !ok {
		return fmt.Errorf("renderertest: unknown texture %d", tex)
	}
	if data.Width != desc.Width || data.Height != desc.Height {
		return fmt.Errorf("renderertest: %dx%d upload into %dx%d texture", data.Width, data.Height, desc.Width, desc.Height)
	}
	r.record(Call{Op: OpWriteTexture, Texture: tex, Layer: layer})
	return nil
}

func (r *Recorder) ReleaseTexture(tex renderer.TextureHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.textures, tex)
	r.record(Call{Op: OpReleaseTexture, Texture: tex})
}

func (r *Recorder) GenerateMipmaps(tex renderer.TextureHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inPass {
		return fmt.Errorf("%w: mip generation inside pass", ErrInvalidState)
	}
	if _, ok := r.textures[tex]; !ok {
		return fmt.Errorf("renderertest: unknown texture %d", tex)
	}
	r.record(Call{Op: OpGenerateMipmaps, Texture: tex})
	return nil
}

func (r *Recorder) CreateSampler(desc renderer.SamplerDescriptor) (renderer.SamplerHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := renderer.SamplerHandle(r.handle())
	r.record(Call{Op: OpCreateSampler, Label: desc.Label, Sampler: h})
	return h, nil
}

func (r *Recorder) CreateBuffer(desc renderer.BufferDescriptor) (renderer.BufferHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := renderer.BufferHandle(r.handle())
	r.buffers[h] = make([]byte, desc.Size)
	r.record(Call{Op: OpCreateBuffer, Label: desc.Label, Buffer: h})
	return h, nil
}

func (r *Recorder) MapBuffer(buf renderer.BufferHandle) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.buffers[buf]
	if !ok {
		return nil, fmt.Errorf("renderertest: unknown buffer %d", buf)
	}
	if r.mapped[buf] {
		return nil, fmt.Errorf("%w: buffer %d mapped twice", ErrInvalidState, buf)
	}
	r.mapped[buf] = true
	r.record(Call{Op: OpMapBuffer, Buffer: buf})
	return data, nil
}

func (r *Recorder) UnmapBuffer(buf renderer.BufferHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.mapped[buf] {
		return fmt.Errorf("%w: buffer %d is not mapped", ErrInvalidState, buf)
	}
	delete(r.mapped, buf)
	r.record(Call{Op: OpUnmapBuffer, Buffer: buf, Data: slices.Clone(r.buffers[buf])})
	return nil
}

func (r *Recorder) CreateMesh(desc renderer.MeshDescriptor) (renderer.MeshHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := renderer.MeshHandle(r.handle())
	r.record(Call{Op: OpCreateMesh, Label: desc.Label, Mesh: h, IndexCount: uint32(len(desc.Indices))})
	return h, nil
}

func (r *Recorder) CompileProgram(desc renderer.ProgramDescriptor) (renderer.ProgramHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CompileError != nil {
		return 0, r.CompileError
	}
	h := renderer.ProgramHandle(r.handle())
	r.programs[h] = desc
	r.record(Call{Op: OpCompileProgram, Label: desc.Pipeline.PipelineKey(), Program: h})
	return h, nil
}

func (r *Recorder) ReleaseProgram(p renderer.ProgramHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.programs, p)
	r.record(Call{Op: OpReleaseProgram, Program: p})
}

func (r *Recorder) MaxTextureDimension() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxDimension
}

func (r *Recorder) ConfigureSurface(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

func (r *Recorder) SurfaceSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Recorder) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.BeginFrameError != nil {
		return r.BeginFrameError
	}
	if r.inFrame {
		return fmt.Errorf("%w: frame already open", ErrInvalidState)
	}
	r.inFrame = true
	r.record(Call{Op: OpBeginFrame})
	return nil
}

func (r *Recorder) BeginPass(desc renderer.PassDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inFrame || r.inPass {
		return fmt.Errorf("%w: pass %q opened outside frame or inside another pass", ErrInvalidState, desc.Label)
	}
	r.inPass = true
	r.record(Call{Op: OpBeginPass, Label: desc.Label, Pass: desc})
	return nil
}

func (r *Recorder) BindProgram(p renderer.ProgramHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programs[p]; !ok {
		return fmt.Errorf("renderertest: unknown program %d", p)
	}
	r.bound = p
	r.record(Call{Op: OpBindProgram, Program: p})
	return nil
}

func (r *Recorder) WriteUniform(group, binding int, offset uint64, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bound == 0 {
		return fmt.Errorf("%w: uniform write without program", ErrInvalidState)
	}
	r.record(Call{Op: OpWriteUniform, Program: r.bound, Group: group, Binding: binding, Offset: offset, Data: slices.Clone(data)})
	return nil
}

func (r *Recorder) BindTexture(group, binding, samplerBinding int, tex renderer.TextureHandle, sampler renderer.SamplerHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bound == 0 {
		return fmt.Errorf("%w: texture bind without program", ErrInvalidState)
	}
	r.record(Call{Op: OpBindTexture, Program: r.bound, Group: group, Binding: binding, Texture: tex, Sampler: sampler})
	return nil
}

func (r *Recorder) BindBuffer(group, binding int, buf renderer.BufferHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bound == 0 {
		return fmt.Errorf("%w: buffer bind without program", ErrInvalidState)
	}
	r.record(Call{Op: OpBindBuffer, Program: r.bound, Group: group, Binding: binding, Buffer: buf})
	return nil
}

func (r *Recorder) Draw(mesh renderer.MeshHandle, indexCount uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inPass {
		return fmt.Errorf("%w: draw outside pass", ErrInvalidState)
	}
	r.record(Call{Op: OpDraw, Program: r.bound, Mesh: mesh, IndexCount: indexCount})
	return nil
}

func (r *Recorder) EndPass() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inPass {
		return fmt.Errorf("%w: no pass open", ErrInvalidState)
	}
	r.inPass = false
	r.record(Call{Op: OpEndPass})
	return nil
}

func (r *Recorder) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inFrame || r.inPass {
		return fmt.Errorf("%w: frame closed with open pass or without frame", ErrInvalidState)
	}
	r.inFrame = false
	r.record(Call{Op: OpEndFrame})
	return nil
}

func (r *Recorder) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: OpPresent})
}

func (r *Recorder) Release() {}
