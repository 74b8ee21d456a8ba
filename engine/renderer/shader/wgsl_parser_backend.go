package shader

import (
	"strconv"
	"strings"
)

// wgslScalarSizes holds the size of every host-shareable scalar. A scalar is aligned to its size.
var wgslScalarSizes = map[string]uint64{
	"f32":  4,
	"i32":  4,
	"u32":  4,
	"f16":  2,
	"bool": 4,
}

// wgslTypeAliases maps the predeclared shorthand names to their generic spelling.
var wgslTypeAliases = map[string]string{
	"vec2f": "vec2<f32>", "vec3f": "vec3<f32>", "vec4f": "vec4<f32>",
	"vec2i": "vec2<i32>", "vec3i": "vec3<i32>", "vec4i": "vec4<i32>",
	"vec2u": "vec2<u32>", "vec3u": "vec3<u32>", "vec4u": "vec4<u32>",
	"mat2x2f": "mat2x2<f32>", "mat2x3f": "mat2x3<f32>", "mat2x4f": "mat2x4<f32>",
	"mat3x2f": "mat3x2<f32>", "mat3x3f": "mat3x3<f32>", "mat3x4f": "mat3x4<f32>",
	"mat4x2f": "mat4x2<f32>", "mat4x3f": "mat4x3<f32>", "mat4x4f": "mat4x4<f32>",
}

// canonicalType strips whitespace and expands shorthand, so "vec3f" and "vec3< f32 >" compare equal.
func canonicalType(typeName string) string {
	t := strings.Join(strings.Fields(typeName), "")
	if alias, ok := wgslTypeAliases[t]; ok {
		return alias
	}
	return t
}

// roundUpAlign rounds value up to the next multiple of alignment, a power of two.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// vectorLayout returns the layout of an n-component vector of a scalar of the given size.
// Three-component vectors take the alignment of four.
func vectorLayout(n, scalar uint64) wgslTypeLayout {
	align := scalar * 4
	if n == 2 {
		align = scalar * 2
	}
	return wgslTypeLayout{size: n * scalar, align: align}
}

// primitiveLayout resolves scalars, vecN<T> and matCxR<T> using the WGSL alignment and size rules.
// A matrix is laid out as C column vectors of R rows, each padded to the column alignment.
//
// Parameters:
//   - typeName: a canonical type name
//
// Returns:
//   - wgslTypeLayout: the layout
//   - bool: false when typeName is not a scalar, vector or matrix
func primitiveLayout(typeName string) (wgslTypeLayout, bool) {
	if size, ok := wgslScalarSizes[typeName]; ok {
		return wgslTypeLayout{size: size, align: size}, true
	}
	base, param := splitTypeParams(typeName)
	scalar, ok := wgslScalarSizes[param]
	if !ok {
		return wgslTypeLayout{}, false
	}
	switch {
	case len(base) == 4 && strings.HasPrefix(base, "vec"):
		n := uint64(base[3] - '0')
		if n < 2 || n > 4 {
			return wgslTypeLayout{}, false
		}
		return vectorLayout(n, scalar), true
	case len(base) == 6 && strings.HasPrefix(base, "mat") && base[4] == 'x':
		cols, rows := uint64(base[3]-'0'), uint64(base[5]-'0')
		if cols < 2 || cols > 4 || rows < 2 || rows > 4 {
			return wgslTypeLayout{}, false
		}
		column := vectorLayout(rows, scalar)
		stride := roundUpAlign(column.align, column.size)
		return wgslTypeLayout{size: cols * stride, align: column.align}, true
	}
	return wgslTypeLayout{}, false
}

// structLayout is the resolved layout of one struct and the offsets of its members.
type structLayout struct {
	wgslTypeLayout
	members []Member
}

// layouter resolves struct layouts on demand, so a struct may refer to structs declared after it.
type layouter struct {
	structs  map[string]parsedStruct
	resolved map[string]structLayout
	visiting map[string]bool
}

func newLayouter(structs []parsedStruct) *layouter {
	l := &layouter{
		structs:  make(map[string]parsedStruct, len(structs)),
		resolved: make(map[string]structLayout, len(structs)),
		visiting: make(map[string]bool),
	}
	for _, ps := range structs {
		l.structs[ps.name] = ps
	}
	return l
}

// typeLayout resolves a primitive, a struct or a fixed-size array<T, N>. Runtime-sized arrays
// cannot appear in a uniform block and are reported as unresolved.
//
// Parameters:
//   - typeName: the WGSL type, e.g. "f32", "LightingBlock", "array<Light, 2>"
//
// Returns:
//   - wgslTypeLayout: the layout
//   - bool: false for unknown, recursive or runtime-sized types
func (l *layouter) typeLayout(typeName string) (wgslTypeLayout, bool) {
	t := canonicalType(typeName)
	if layout, ok := primitiveLayout(t); ok {
		return layout, true
	}
	if base, param := splitTypeParams(t); base == "array" {
		comma := strings.LastIndexByte(param, ',')
		if comma < 0 {
			return wgslTypeLayout{}, false
		}
		n, err := strconv.ParseUint(param[comma+1:], 10, 64)
		if err != nil || n == 0 {
			return wgslTypeLayout{}, false
		}
		el, ok := l.typeLayout(param[:comma])
		if !ok {
			return wgslTypeLayout{}, false
		}
		return wgslTypeLayout{size: n * roundUpAlign(el.align, el.size), align: el.align}, true
	}
	sl, ok := l.structLayout(t)
	return sl.wgslTypeLayout, ok
}

// structLayout places each non-builtin field at the next offset aligned for its type. The struct
// takes the largest member alignment and its size is rounded up to it.
func (l *layouter) structLayout(name string) (structLayout, bool) {
	if sl, ok := l.resolved[name]; ok {
		return sl, true
	}
	ps, ok := l.structs[name]
	if !ok || l.visiting[name] {
		return structLayout{}, false
	}
	l.visiting[name] = true
	defer delete(l.visiting, name)

	sl := structLayout{wgslTypeLayout: wgslTypeLayout{align: 1}}
	var offset uint64
	for _, f := range ps.fields {
		if f.isBuiltin {
			continue
		}
		fl, ok := l.typeLayout(f.typeName)
		if !ok {
			return structLayout{}, false
		}
		offset = roundUpAlign(fl.align, offset)
		sl.members = append(sl.members, Member{
			Name:     f.name,
			TypeName: f.typeName,
			Offset:   offset,
			Size:     fl.size,
		})
		offset += fl.size
		sl.align = max(sl.align, fl.align)
	}
	sl.size = roundUpAlign(sl.align, offset)
	l.resolved[name] = sl
	return sl, true
}

// wgslSampledTextures maps texture base names to their view dimension.
var wgslSampledTextures = map[string]TextureDimension{
	"texture_2d":         TextureDimension2D,
	"texture_cube":       TextureDimensionCube,
	"texture_depth_2d":   TextureDimension2D,
	"texture_depth_cube": TextureDimensionCube,
}

// classifyResource builds a Binding from the address space and type of a resource declaration.
// Handle types (textures and samplers) have no address space.
func classifyResource(addressSpace, typeName string) Binding {
	b := Binding{TypeName: typeName}
	space, _, _ := strings.Cut(addressSpace, ",")
	switch strings.TrimSpace(space) {
	case "uniform":
		b.Kind = ResourceUniformBuffer
		return b
	case "storage":
		b.Kind = ResourceStorageBuffer
		return b
	}

	base, _ := splitTypeParams(typeName)
	switch {
	case base == "sampler":
		b.Kind = ResourceSampler
	case base == "sampler_comparison":
		b.Kind = ResourceComparisonSampler
	case strings.HasPrefix(base, "texture_depth_"):
		b.Kind = ResourceDepthTexture
		b.Dimension = wgslSampledTextures[base]
	case strings.HasPrefix(base, "texture_"):
		b.Kind = ResourceTexture
		b.Dimension = wgslSampledTextures[base]
	}
	return b
}

// splitTypeParams splits "texture_2d<f32>" into ("texture_2d", "f32").
func splitTypeParams(typeName string) (base string, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSpace(strings.TrimSuffix(after, ">"))
}

// stripComments removes line comments and nested block comments in one pass. Newlines inside
// comments are kept so line numbers stay stable.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		c := source[i]
		var next byte
		if i+1 < len(source) {
			next = source[i+1]
		}
		switch {
		case c == '/' && next == '*':
			depth++
			i++
		case depth > 0 && c == '*' && next == '/':
			depth--
			i++
		case depth == 0 && c == '/' && next == '/':
			for i < len(source) && source[i] != '\n' {
				i++
			}
			if i < len(source) {
				sb.WriteByte('\n')
			}
		case depth > 0:
			if c == '\n' {
				sb.WriteByte('\n')
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// vertexLayoutOf packs the fields of a vertex input struct tightly in declaration order. A vertex
// input has at least one @location field and no @builtin field, which tells it apart from the
// vertex output struct.
//
// Parameters:
//   - ps: the parsed struct
//
// Returns:
//   - VertexLayout: the vertex buffer layout
//   - bool: false if ps is not a vertex input or a field has no vertex format
func vertexLayoutOf(ps parsedStruct) (VertexLayout, bool) {
	var layout VertexLayout
	for _, f := range ps.fields {
		if f.isBuiltin || f.location < 0 {
			return VertexLayout{}, false
		}
		info, ok := wgslVertexFormatMap[canonicalType(f.typeName)]
		if !ok {
			return VertexLayout{}, false
		}
		layout.Attributes = append(layout.Attributes, VertexAttribute{
			Location: f.location,
			Format:   info.format,
			Offset:   layout.Stride,
		})
		layout.Stride += info.size
	}
	return layout, len(layout.Attributes) > 0
}

// splitFields splits a struct body at the commas that separate fields, ignoring the commas
// inside a type such as array<Light, 2>.
func splitFields(body string) []string {
	var fields []string
	depth, start := 0, 0
	for i, c := range body {
		switch c {
		case '<':
			depth++
		case '>':
			depth = max(depth-1, 0)
		case ',':
			if depth == 0 {
				fields = append(fields, body[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, body[start:])
}
