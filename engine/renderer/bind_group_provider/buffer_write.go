package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BufferWrite describes a single queued GPU buffer write at a given byte offset.
type BufferWrite struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Data   []byte
}
