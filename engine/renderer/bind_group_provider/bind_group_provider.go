package bind_group_provider

import (
	"slices"
	"sort"

	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// group is the bind group index the provider serves in its program's pipeline layout.
	group int

	// entries are the layout entries sorted by binding.
	entries []wgpu.BindGroupLayoutEntry

	// bindGroupLayout is the GPU bind group layout created from entries, or nil if not initialized.
	bindGroupLayout *wgpu.BindGroupLayout

	// bindGroups caches the bind groups created for each distinct set of bound resources.
	bindGroups map[string]*wgpu.BindGroup

	// textures records which textures each cached bind group references, so releasing a texture
	// can drop every bind group that still points at one of its views.
	textures map[string][]renderer.TextureHandle
}

// BindGroupProvider owns one bind group layout of a program and caches the bind groups created
// against it. A program holds one provider per group index of its pipeline layout, including
// empty providers for unused group indices.
//
// Usage pattern:
//  1. The backend creates a provider per group from the shader's bindings
//  2. The backend creates the layout and stores it via SetBindGroupLayout()
//  3. At draw time the backend builds a key from the bound resources and looks it up with BindGroup()
//  4. On a miss it creates the bind group and stores it with SetBindGroup()
type BindGroupProvider interface {
	// Release releases the layout and every cached bind group.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Group returns the bind group index served by this provider.
	//
	// Returns:
	//   - int: the group index
	Group() int

	// Entries returns the layout entries sorted by binding.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutEntry: the entries; empty for a placeholder group
	Entries() []wgpu.BindGroupLayoutEntry

	// LayoutDescriptor returns the descriptor the layout is created from.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	LayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// DynamicBindings returns the bindings that take a dynamic offset, in the order
	// SetBindGroup expects the offsets.
	//
	// Returns:
	//   - []uint32: the dynamic binding indices sorted ascending
	DynamicBindings() []uint32

	// BindGroupLayout returns the created bind group layout.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// SetBindGroupLayout sets the bind group layout after GPU initialization.
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// BindGroup returns the cached bind group for a resource key.
	//
	// Parameters:
	//   - key: the key identifying the bound resources
	//
	// Returns:
	//   - *wgpu.BindGroup: the cached bind group
	//   - bool: true on a cache hit
	BindGroup(key string) (*wgpu.BindGroup, bool)

	// SetBindGroup caches a bind group under a resource key.
	//
	// Parameters:
	//   - key: the key identifying the bound resources
	//   - bg: the created bind group
	//   - textures: the textures whose views the bind group references
	SetBindGroup(key string, bg *wgpu.BindGroup, textures ...renderer.TextureHandle)

	// InvalidateTexture releases every cached bind group referencing tex.
	//
	// Parameters:
	//   - tex: the released texture
	//
	// Returns:
	//   - int: the number of bind groups dropped
	InvalidateTexture(tex renderer.TextureHandle) int

	// Len returns the number of cached bind groups.
	//
	// Returns:
	//   - int: the cache size
	Len() int
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:      label,
		bindGroups: make(map[string]*wgpu.BindGroup),
		textures:   make(map[string][]renderer.TextureHandle),
	}
	for _, opt := range options {
		opt(p)
	}
	sort.Slice(p.entries, func(i, j int) bool {
		return p.entries[i].Binding < p.entries[j].Binding
	})
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Group() int {
	return p.group
}

func (p *bindGroupProvider) Entries() []wgpu.BindGroupLayoutEntry {
	return p.entries
}

func (p *bindGroupProvider) LayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label:   p.label,
		Entries: p.entries,
	}
}

func (p *bindGroupProvider) DynamicBindings() []uint32 {
	var out []uint32
	for _, e := range p.entries {
		if e.Buffer.HasDynamicOffset {
			out = append(out, e.Binding)
		}
	}
	return out
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) BindGroup(key string) (*wgpu.BindGroup, bool) {
	bg, ok := p.bindGroups[key]
	return bg, ok
}

func (p *bindGroupProvider) SetBindGroup(key string, bg *wgpu.BindGroup, textures ...renderer.TextureHandle) {
	if old, ok := p.bindGroups[key]; ok && old != nil && old != bg {
		old.Release()
	}
	p.bindGroups[key] = bg
	if len(textures) > 0 {
		p.textures[key] = slices.Clone(textures)
	} else {
		delete(p.textures, key)
	}
}

func (p *bindGroupProvider) InvalidateTexture(tex renderer.TextureHandle) int {
	n := 0
	for key, refs := range p.textures {
		if !slices.Contains(refs, tex) {
			continue
		}
		if bg := p.bindGroups[key]; bg != nil {
			bg.Release()
		}
		delete(p.bindGroups, key)
		delete(p.textures, key)
		n++
	}
	return n
}

func (p *bindGroupProvider) Len() int {
	return len(p.bindGroups)
}

func (p *bindGroupProvider) Release() {
	for key, bg := range p.bindGroups {
		if bg != nil {
			bg.Release()
		}
		delete(p.bindGroups, key)
	}
	clear(p.textures)
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
}
