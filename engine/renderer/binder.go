package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
)

var (
	// ErrBufferMapped is returned by Draw while any buffer is mapped, and by MapBuffer for a buffer that already is.
	ErrBufferMapped = errors.New("renderer: buffer is mapped")
	// ErrTextureUnbound is returned by Draw when a texture slot of the bound program has no texture.
	ErrTextureUnbound = errors.New("renderer: texture slot is unbound")
	// ErrNoProgram is returned when a uniform, texture or draw is issued with no program bound.
	ErrNoProgram = errors.New("renderer: no program bound")
	// ErrSlotMismatch is returned when a value or resource does not fit the slot it is written to.
	ErrSlotMismatch = errors.New("renderer: value does not match slot")
)

// Drawable is anything that can be submitted as an indexed draw.
type Drawable interface {
	// Mesh returns the backend mesh handle.
	Mesh() MeshHandle
	// IndexCount returns the number of indices to draw.
	IndexCount() uint32
}

// binder is the implementation of the Binder interface.
type binder struct {
	backend RendererBackend
	program *Program
	// textures records, per program, which texture slot names have been bound.
	textures map[*Program]map[string]bool
	mapped   map[BufferHandle]struct{}
}

// Binder is the draw-state front end of a RendererBackend. It resolves uniform keys through the
// bound program's slot table and enforces the draw-time invariants: a program is bound, all of
// its texture slots are bound and no buffer is mapped.
type Binder interface {
	// BindProgram makes p the target of subsequent uniform, texture and draw calls.
	//
	// Parameters:
	//   - p: the program to bind
	//
	// Returns:
	//   - error: an error if p is nil or the backend rejects it
	BindProgram(p *Program) error

	// Program returns the bound program, or nil.
	//
	// Returns:
	//   - *Program: the bound program
	Program() *Program

	// SetUniform writes v into the slot declared for k by the bound program.
	//
	// Parameters:
	//   - k: the uniform key
	//   - v: the encoded value
	//
	// Returns:
	//   - error: ErrNoProgram, shader.ErrUnresolvedUniform or ErrSlotMismatch
	SetUniform(k shader.UniformKey, v Value) error

	// SetUniformByName writes v into the slot declared with name by the bound program.
	//
	// Parameters:
	//   - name: the slot name
	//   - v: the encoded value
	//
	// Returns:
	//   - error: ErrNoProgram, shader.ErrUnresolvedUniform or ErrSlotMismatch
	SetUniformByName(name string, v Value) error

	// BindTexture binds a texture and its sampler to the texture slot declared for k.
	//
	// Parameters:
	//   - k: the uniform key of a texture slot
	//   - tex: the texture
	//   - sampler: the sampler paired with the texture
	//
	// Returns:
	//   - error: ErrNoProgram, shader.ErrUnresolvedUniform or ErrSlotMismatch
	BindTexture(k shader.UniformKey, tex TextureHandle, sampler SamplerHandle) error

	// BindBuffer binds a shared uniform buffer to the block slot declared for k.
	//
	// Parameters:
	//   - k: the uniform key of a whole-block slot
	//   - buf: the buffer
	//
	// Returns:
	//   - error: ErrNoProgram, shader.ErrUnresolvedUniform or ErrSlotMismatch
	BindBuffer(k shader.UniformKey, buf BufferHandle) error

	// MapBuffer maps buf for writing. Prefer WithMappedBuffer.
	//
	// Parameters:
	//   - buf: the buffer to map
	//
	// Returns:
	//   - []byte: the writable contents
	//   - error: ErrBufferMapped if the buffer is already mapped
	MapBuffer(buf BufferHandle) ([]byte, error)

	// UnmapBuffer unmaps buf.
	//
	// Parameters:
	//   - buf: the buffer to unmap
	//
	// Returns:
	//   - error: an error if buf is not mapped
	UnmapBuffer(buf BufferHandle) error

	// WithMappedBuffer maps buf, runs fn on its contents and unmaps it on every exit path,
	// including an error or panic from fn.
	//
	// Parameters:
	//   - buf: the buffer to write
	//   - fn: the writer
	//
	// Returns:
	//   - error: the first error among mapping, fn and unmapping
	WithMappedBuffer(buf BufferHandle, fn func([]byte) error) error

	// Draw submits an indexed draw with the bound program.
	//
	// Parameters:
	//   - d: the geometry to draw
	//
	// Returns:
	//   - error: ErrNoProgram, ErrBufferMapped or ErrTextureUnbound
	Draw(d Drawable) error

	// Reset forgets the bound program. Texture bindings recorded per program are kept.
	Reset()
}

var _ Binder = &binder{}

// NewBinder creates a Binder recording against backend.
//
// Parameters:
//   - backend: the backend receiving the commands
//
// Returns:
//   - Binder: the binder
func NewBinder(backend RendererBackend) Binder {
	return &binder{
		backend:  backend,
		textures: make(map[*Program]map[string]bool),
		mapped:   make(map[BufferHandle]struct{}),
	}
}

func (b *binder) BindProgram(p *Program) error {
	if p == nil {
		return ErrNoProgram
	}
	if err := b.backend.BindProgram(p.Handle()); err != nil {
		return fmt.Errorf("renderer: failed to bind program %q: %w", p.Name(), err)
	}
	b.program = p
	return nil
}

func (b *binder) Program() *Program {
	return b.program
}

func (b *binder) SetUniform(k shader.UniformKey, v Value) error {
	if b.program == nil {
		return ErrNoProgram
	}
	slot, err := b.program.slot(k)
	if err != nil {
		return err
	}
	return b.writeSlot(slot, v)
}

func (b *binder) SetUniformByName(name string, v Value) error {
	if b.program == nil {
		return ErrNoProgram
	}
	slot, err := b.program.slotByName(name)
	if err != nil {
		return err
	}
	return b.writeSlot(slot, v)
}

func (b *binder) writeSlot(slot shader.Slot, v Value) error {
	if slot.Kind == shader.SlotTexture {
		return fmt.Errorf("%w: %q is a texture slot", ErrSlotMismatch, slot.Name)
	}
	if uint64(len(v.Bytes())) > slot.Size {
		return fmt.Errorf("%w: %d bytes written to %q of size %d", ErrSlotMismatch, len(v.Bytes()), slot.Name, slot.Size)
	}
	return b.backend.WriteUniform(slot.Group, slot.Binding, slot.Offset, v.Bytes())
}

func (b *binder) BindTexture(k shader.UniformKey, tex TextureHandle, sampler SamplerHandle) error {
	if b.program == nil {
		return ErrNoProgram
	}
	slot, err := b.program.slot(k)
	if err != nil {
		return err
	}
	if slot.Kind != shader.SlotTexture {
		return fmt.Errorf("%w: %q is not a texture slot", ErrSlotMismatch, slot.Name)
	}
	if tex == 0 {
		return fmt.Errorf("%w: nil texture for %q", ErrSlotMismatch, slot.Name)
	}
	if err := b.backend.BindTexture(slot.Group, slot.Binding, slot.SamplerBinding, tex, sampler); err != nil {
		return err
	}
	bound := b.textures[b.program]
	if bound == nil {
		bound = make(map[string]bool)
		b.textures[b.program] = bound
	}
	bound[slot.Name] = true
	return nil
}

func (b *binder) BindBuffer(k shader.UniformKey, buf BufferHandle) error {
	if b.program == nil {
		return ErrNoProgram
	}
	slot, err := b.program.slot(k)
	if err != nil {
		return err
	}
	if slot.Kind != shader.SlotUniformBlock {
		return fmt.Errorf("%w: %q is not a uniform block", ErrSlotMismatch, slot.Name)
	}
	return b.backend.BindBuffer(slot.Group, slot.Binding, buf)
}

func (b *binder) MapBuffer(buf BufferHandle) ([]byte, error) {
	if _, ok := b.mapped[buf]; ok {
		return nil, ErrBufferMapped
	}
	data, err := b.backend.MapBuffer(buf)
	if err != nil {
		return nil, err
	}
	b.mapped[buf] = struct{}{}
	return data, nil
}

func (b *binder) UnmapBuffer(buf BufferHandle) error {
	if _, ok := b.mapped[buf]; !ok {
		return fmt.Errorf("renderer: buffer %d is not mapped", buf)
	}
	delete(b.mapped, buf)
	return b.backend.UnmapBuffer(buf)
}

func (b *binder) WithMappedBuffer(buf BufferHandle, fn func([]byte) error) (err error) {
	data, err := b.MapBuffer(buf)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := b.UnmapBuffer(buf); err == nil {
			err = uerr
		}
	}()
	return fn(data)
}

func (b *binder) Draw(d Drawable) error {
	if b.program == nil {
		return ErrNoProgram
	}
	if len(b.mapped) > 0 {
		return ErrBufferMapped
	}
	bound := b.textures[b.program]
	for _, slot := range b.program.Slots().Slots() {
		if slot.Kind == shader.SlotTexture && !bound[slot.Name] {
			return fmt.Errorf("%w: %q in program %q", ErrTextureUnbound, slot.Name, b.program.Name())
		}
	}
	return b.backend.Draw(d.Mesh(), d.IndexCount())
}

func (b *binder) Reset() {
	b.program = nil
}
