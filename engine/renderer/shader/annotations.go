// annotations.go defines the @oxy: comment annotations understood by the WGSL pre-processor.
// An annotation occupies a whole line comment and is replaced by generated WGSL.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation inside a line comment.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct once per program.
	//
	// Syntax: //@oxy:include <struct>
	//
	// Example: //@oxy:include lighting
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeUniform declares a uniform block variable of a registered struct type and
	// records the declaration on the pre-processor.
	//
	// Syntax: //@oxy:uniform <group> <binding> <var_name> <struct>
	//
	// Example: //@oxy:uniform 0 0 Camera camera
	AnnotationTypeUniform AnnotationType = "uniform"
)

// Annotation is one parsed @oxy: line.
type Annotation struct {
	Type AnnotationType
	// Line is the 1-based source line, used for error reporting.
	Line int
	// Struct is the registered struct the annotation refers to.
	Struct AnnotationArg
	// Group, Binding and Name are set for uniform declarations only.
	Group   int
	Binding int
	Name    string
}

// AnnotationArg names a struct registered with the pre-processor.
type AnnotationArg string

// Struct type arguments. Each one is registered with the pre-processor together with its
// embedded WGSL source by the package that owns the matching Go GPU type.
const (
	AnnotationArgCamera      AnnotationArg = "camera"
	AnnotationArgLighting    AnnotationArg = "lighting"
	AnnotationArgMaterial    AnnotationArg = "material"
	AnnotationArgShadow      AnnotationArg = "shadow"
	AnnotationArgEnvironment AnnotationArg = "environment"
	AnnotationArgVertex      AnnotationArg = "vertex"
)

// parseAnnotation parses one source line. Lines that are not annotations yield nil and no error.
// Struct arguments are checked later against the pre-processor registry.
//
// Parameters:
//   - line: the raw WGSL source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	comment, ok := strings.CutPrefix(strings.TrimSpace(line), "//")
	if !ok {
		return nil, nil
	}
	body, ok := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(body)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}
	a := &Annotation{Type: AnnotationType(args[0]), Line: lineNum}
	args = args[1:]

	switch a.Type {
	case annotationTypeInclude:
		if len(args) != 1 {
			return nil, fmt.Errorf("line %d: @oxy:include takes one struct, got %d arguments", lineNum, len(args))
		}
		a.Struct = AnnotationArg(args[0])
	case AnnotationTypeUniform:
		if len(args) != 4 {
			return nil, fmt.Errorf("line %d: @oxy:uniform takes group, binding, name and struct, got %d arguments", lineNum, len(args))
		}
		var err error
		if a.Group, err = strconv.Atoi(args[0]); err != nil || a.Group < 0 {
			return nil, fmt.Errorf("line %d: invalid group %q in @oxy:uniform", lineNum, args[0])
		}
		if a.Binding, err = strconv.Atoi(args[1]); err != nil || a.Binding < 0 {
			return nil, fmt.Errorf("line %d: invalid binding %q in @oxy:uniform", lineNum, args[1])
		}
		a.Name = args[2]
		a.Struct = AnnotationArg(args[3])
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation %q", lineNum, a.Type)
	}
	return a, nil
}
