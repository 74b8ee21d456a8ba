package shader

import (
	"errors"
	"fmt"
	"os"
)

// ErrNoEntryPoint is returned when a shader source lacks a @vertex entry point.
var ErrNoEntryPoint = errors.New("shader: missing entry point")

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and slot resolution.
type shader struct {
	key           string
	source        string
	vertexEntry   string
	fragmentEntry string
	bindings      []Binding
	members       map[string][]Member
	vertexLayouts []VertexLayout
	declarations  []Annotation
}

// Shader defines the interface for a loaded and parsed WGSL program source containing one
// vertex and one fragment entry point. It exposes the resource bindings, the member layout
// of every uniform struct and the vertex buffer layouts.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the entry point name
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function, or "" for a depth-only program.
	//
	// Returns:
	//   - string: the entry point name
	FragmentEntryPoint() string

	// Bindings retrieves every @group/@binding declaration sorted by group then binding.
	//
	// Returns:
	//   - []Binding: the declared resources
	Bindings() []Binding

	// BindingByName looks up a resource declaration by its WGSL variable name.
	//
	// Parameters:
	//   - name: the WGSL variable name
	//
	// Returns:
	//   - Binding: the declaration, zero when not found
	//   - bool: true if the variable is declared
	BindingByName(name string) (Binding, bool)

	// Members retrieves the members of a WGSL struct with their byte offsets.
	//
	// Parameters:
	//   - typeName: the WGSL struct name
	//
	// Returns:
	//   - []Member: the members in declaration order, nil for unknown structs
	Members(typeName string) []Member

	// VertexLayouts retrieves the vertex buffer layouts parsed from the vertex input structs.
	//
	// Returns:
	//   - []VertexLayout: one layout per vertex input struct
	VertexLayouts() []VertexLayout

	// Declarations returns the @oxy:uniform annotations found while pre-processing.
	//
	// Returns:
	//   - []Annotation: the binding group declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes and parses a WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the raw WGSL source
//   - pp: the pre-processor resolving @oxy: annotations
//
// Returns:
//   - Shader: the parsed shader
//   - error: a pre-processing error or ErrNoEntryPoint
func NewShader(key, source string, pp PreProcessor) (Shader, error) {
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to pre-process %q: %w", key, err)
	}
	s := &shader{
		key:          key,
		source:       processed,
		declarations: append([]Annotation(nil), pp.Declarations()...),
	}
	s.vertexEntry, s.fragmentEntry = parseEntryPoints(processed)
	if s.vertexEntry == "" {
		return nil, fmt.Errorf("%w in %q", ErrNoEntryPoint, key)
	}
	s.vertexLayouts = parseVertexLayouts(processed)
	s.bindings, s.members = parseBindings(processed)
	return s, nil
}

// NewShaderFromPath reads a WGSL file and parses it with NewShader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - path: the WGSL file path
//   - pp: the pre-processor resolving @oxy: annotations
//
// Returns:
//   - Shader: the parsed shader
//   - error: a read, pre-processing or parse error
func NewShaderFromPath(key, path string, pp PreProcessor) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to read source file %q: %w", path, err)
	}
	return NewShader(key, string(data), pp)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) Bindings() []Binding {
	return s.bindings
}

func (s *shader) BindingByName(name string) (Binding, bool) {
	for _, b := range s.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

func (s *shader) Members(typeName string) []Member {
	return s.members[typeName]
}

func (s *shader) VertexLayouts() []VertexLayout {
	return s.vertexLayouts
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
