package wgpu_backend

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// arenaChunk is one GPU uniform buffer with its CPU staging copy.
type arenaChunk struct {
	buffer *wgpu.Buffer
	data   []byte
	used   uint64
}

// uniformArena packs every uniform value a frame draws with into a few large buffers. Each draw
// binds its blocks at a dynamic offset, so values that change between draws of one command
// stream are all visible to the GPU at submit time. Chunks are kept across frames and only
// grow in number.
type uniformArena struct {
	chunkSize uint64
	align     uint64
	chunks    []*arenaChunk
	current   int

	// newBuffer allocates the GPU side of a chunk.
	newBuffer func(label string, size uint64) (*wgpu.Buffer, error)
}

// arenaSlice locates one pushed value.
type arenaSlice struct {
	chunk  int
	offset uint32
}

func newUniformArena(chunkSize, align uint64, newBuffer func(label string, size uint64) (*wgpu.Buffer, error)) *uniformArena {
	if align == 0 {
		align = 256
	}
	chunkSize = alignUp(max(chunkSize, align), align)
	return &uniformArena{
		chunkSize: chunkSize,
		align:     align,
		newBuffer: newBuffer,
	}
}

func alignUp(n, align uint64) uint64 {
	return (n + align - 1) / align * align
}

// push copies data into the arena at an aligned offset.
func (a *uniformArena) push(data []byte) (arenaSlice, error) {
	size := uint64(len(data))
	if size > a.chunkSize {
		return arenaSlice{}, fmt.Errorf("wgpu_backend: uniform block of %d bytes exceeds arena chunk of %d bytes", size, a.chunkSize)
	}
	for {
		if a.current >= len(a.chunks) {
			if err := a.grow(); err != nil {
				return arenaSlice{}, err
			}
		}
		c := a.chunks[a.current]
		offset := alignUp(c.used, a.align)
		if offset+size <= a.chunkSize {
			copy(c.data[offset:], data)
			c.used = offset + size
			return arenaSlice{chunk: a.current, offset: uint32(offset)}, nil
		}
		a.current++
	}
}

func (a *uniformArena) grow() error {
	label := fmt.Sprintf("uniform arena %d", len(a.chunks))
	buf, err := a.newBuffer(label, a.chunkSize)
	if err != nil {
		return fmt.Errorf("wgpu_backend: failed to allocate %s: %w", label, err)
	}
	a.chunks = append(a.chunks, &arenaChunk{buffer: buf, data: make([]byte, a.chunkSize)})
	return nil
}

// buffer returns the GPU buffer of a chunk.
func (a *uniformArena) buffer(chunk int) *wgpu.Buffer {
	return a.chunks[chunk].buffer
}

// writes returns the queue writes uploading every used byte of the frame.
func (a *uniformArena) writes() []bind_group_provider.BufferWrite {
	var out []bind_group_provider.BufferWrite
	for _, c := range a.chunks {
		if c.used == 0 {
			continue
		}
		out = append(out, bind_group_provider.BufferWrite{Buffer: c.buffer, Offset: 0, Data: c.data[:alignUp(c.used, 4)]})
	}
	return out
}

// reset starts a new frame. Previously pushed slices become invalid.
func (a *uniformArena) reset() {
	for _, c := range a.chunks {
		c.used = 0
	}
	a.current = 0
}

func (a *uniformArena) release() {
	for _, c := range a.chunks {
		if c.buffer != nil {
			c.buffer.Release()
		}
	}
	a.chunks = nil
	a.current = 0
}

// snapshot remembers where the current version of a CPU-side uniform value lives in the arena.
type snapshot struct {
	frame   uint64
	version uint64
	slice   arenaSlice
	valid   bool
}

// upload returns the arena slice holding data at the given version, pushing it on the first
// use in a frame or after the value changed.
func (s *snapshot) upload(a *uniformArena, frame, version uint64, data []byte) (arenaSlice, error) {
	if s.valid && s.frame == frame && s.version == version {
		return s.slice, nil
	}
	slice, err := a.push(data)
	if err != nil {
		return arenaSlice{}, err
	}
	*s = snapshot{frame: frame, version: version, slice: slice, valid: true}
	return slice, nil
}
