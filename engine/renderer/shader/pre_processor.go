// pre_processor.go implements the Oxy WGSL shader pre-processor. It scans shader
// source code for @oxy: annotations and replaces them with generated WGSL declarations
// or injected struct source.
//
// The struct registry maps AnnotationArg keys to embedded WGSL struct sources and their
// WGSL type names. It is filled by the caller through WithInclude so that the packages
// owning the GPU types (camera, light, material, model) stay independent of this one.
package shader

import (
	"fmt"
	"strings"
)

// registryEntry pairs a WGSL struct source string with the WGSL type name used in
// generated @group/@binding declarations.
type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by @oxy:include.
	Source string

	// Type is the WGSL type name emitted in @oxy:uniform declarations (e.g. "CameraBlock").
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry map[AnnotationArg]registryEntry
	declarations   []Annotation
}

// PreProcessor processes raw WGSL shader source code containing @oxy: annotations,
// replacing them with generated declarations or injected struct sources.
type PreProcessor interface {
	// Process takes raw WGSL shader source code and replaces @oxy: annotations with their
	// WGSL output. Includes are injected once per Process call even if annotated twice.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed WGSL shader source code
	//   - error: an error if any annotation is malformed or references an unknown type
	Process(source string) (string, error)

	// Declarations returns the @oxy:uniform annotations collected during the most recent
	// call to Process, in source order.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// PreProcessorOption configures a PreProcessor.
type PreProcessorOption func(*preProcessor)

// WithInclude registers a struct type for @oxy:include and @oxy:uniform annotations.
//
// Parameters:
//   - arg: the annotation argument naming the struct
//   - typeName: the WGSL struct name declared by source
//   - source: the WGSL struct source
//
// Returns:
//   - PreProcessorOption: a function that applies the registration
func WithInclude(arg AnnotationArg, typeName, source string) PreProcessorOption {
	return func(p *preProcessor) {
		p.structRegistry[arg] = registryEntry{Source: source, Type: typeName}
	}
}

// NewPreProcessor creates a new PreProcessor with the given struct registrations applied.
//
// Parameters:
//   - options: struct registrations
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(options ...PreProcessorOption) PreProcessor {
	p := &preProcessor{
		structRegistry: make(map[AnnotationArg]registryEntry),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		entry, ok := p.structRegistry[a.Struct]
		if !ok {
			return "", fmt.Errorf("line %d: unknown struct %q in @oxy:%s", a.Line, a.Struct, a.Type)
		}
		switch a.Type {
		case annotationTypeInclude:
			if !included[a.Struct] {
				included[a.Struct] = true
				out = append(out, entry.Source)
			}
		case AnnotationTypeUniform:
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) var<uniform> %s: %s;", a.Group, a.Binding, a.Name, entry.Type))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
