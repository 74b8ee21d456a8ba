package shader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolvedUniform is returned at load time when a declared slot name matches nothing in the program.
var ErrUnresolvedUniform = errors.New("shader: unresolved uniform")

// SlotKind describes what a resolved slot writes to.
type SlotKind int

const (
	// SlotUniformMember is a byte range inside a uniform block.
	SlotUniformMember SlotKind = iota
	// SlotUniformBlock is a whole uniform block.
	SlotUniformBlock
	// SlotTexture is a texture binding, optionally paired with a sampler binding.
	SlotTexture
)

// Slot is a uniform or texture location resolved once when a program is loaded.
type Slot struct {
	Name  string
	Kind  SlotKind
	Group int
	// Binding is the buffer or texture binding index.
	Binding int
	// Offset and Size locate the written bytes inside the block. For whole blocks Offset is 0.
	Offset uint64
	Size   uint64
	// BlockSize is the byte size of the uniform block that holds the slot.
	BlockSize uint64
	TypeName  string
	Dimension TextureDimension
	Depth     bool
	// SamplerBinding is the binding index of the companion sampler, -1 when the texture has none.
	SamplerBinding    int
	ComparisonSampler bool
}

// SlotTable maps slot names and uniform keys to resolved slots.
type SlotTable struct {
	slots  []Slot
	byName map[string]int
	byKey  map[UniformKey]int
}

// ResolveSlots resolves every name against the shader's declarations.
//
// A dotted name "Block.member" resolves to member "member" of the uniform variable "Block", or
// when no such member exists, to the texture variable "Block_member". An undotted name resolves
// to the variable of that name. The sampler paired with texture variable v is "v_sampler".
//
// Parameters:
//   - sh: the parsed shader
//   - names: the slot names in declaration order
//
// Returns:
//   - *SlotTable: the resolved slots, indexed in the order of names
//   - error: ErrUnresolvedUniform wrapped with the offending name
func ResolveSlots(sh Shader, names []string) (*SlotTable, error) {
	t := &SlotTable{
		slots:  make([]Slot, 0, len(names)),
		byName: make(map[string]int, len(names)),
		byKey:  make(map[UniformKey]int, len(names)),
	}
	for _, name := range names {
		if _, dup := t.byName[name]; dup {
			continue
		}
		slot, ok := resolveSlot(sh, name)
		if !ok {
			return nil, fmt.Errorf("%w %q in program %q", ErrUnresolvedUniform, name, sh.Key())
		}
		idx := len(t.slots)
		t.slots = append(t.slots, slot)
		t.byName[name] = idx
		if k, ok := UniformKeyByName(name); ok {
			t.byKey[k] = idx
		}
	}
	return t, nil
}

func resolveSlot(sh Shader, name string) (Slot, bool) {
	block, member, dotted := strings.Cut(name, ".")
	if !dotted {
		b, ok := sh.BindingByName(name)
		if !ok {
			return Slot{}, false
		}
		return slotForBinding(sh, name, b)
	}

	if b, ok := sh.BindingByName(block); ok && b.Kind == ResourceUniformBuffer {
		for _, m := range sh.Members(b.TypeName) {
			if m.Name == member {
				return Slot{
					Name:           name,
					Kind:           SlotUniformMember,
					Group:          b.Group,
					Binding:        b.Binding,
					Offset:         m.Offset,
					Size:           m.Size,
					BlockSize:      b.Size,
					TypeName:       m.TypeName,
					SamplerBinding: -1,
				}, true
			}
		}
	}

	b, ok := sh.BindingByName(block + "_" + member)
	if !ok || (b.Kind != ResourceTexture && b.Kind != ResourceDepthTexture) {
		return Slot{}, false
	}
	return slotForBinding(sh, name, b)
}

func slotForBinding(sh Shader, name string, b Binding) (Slot, bool) {
	switch b.Kind {
	case ResourceUniformBuffer:
		return Slot{
			Name:           name,
			Kind:           SlotUniformBlock,
			Group:          b.Group,
			Binding:        b.Binding,
			Size:           b.Size,
			BlockSize:      b.Size,
			TypeName:       b.TypeName,
			SamplerBinding: -1,
		}, true
	case ResourceTexture, ResourceDepthTexture:
		s := Slot{
			Name:           name,
			Kind:           SlotTexture,
			Group:          b.Group,
			Binding:        b.Binding,
			TypeName:       b.TypeName,
			Dimension:      b.Dimension,
			Depth:          b.Kind == ResourceDepthTexture,
			SamplerBinding: -1,
		}
		if sb, ok := sh.BindingByName(b.Name + "_sampler"); ok && sb.Group == b.Group {
			s.SamplerBinding = sb.Binding
			s.ComparisonSampler = sb.Kind == ResourceComparisonSampler
		}
		return s, true
	}
	return Slot{}, false
}

// Len returns the number of resolved slots.
func (t *SlotTable) Len() int { return len(t.slots) }

// Slots returns the resolved slots in declaration order.
func (t *SlotTable) Slots() []Slot { return t.slots }

// Slot returns the slot at index i.
func (t *SlotTable) Slot(i int) Slot { return t.slots[i] }

// Lookup returns the index of the slot declared with name.
func (t *SlotTable) Lookup(name string) (int, bool) {
	i, ok := t.byName[name]
	return i, ok
}

// LookupKey returns the index of the slot declared for k.
func (t *SlotTable) LookupKey(k UniformKey) (int, bool) {
	i, ok := t.byKey[k]
	return i, ok
}
