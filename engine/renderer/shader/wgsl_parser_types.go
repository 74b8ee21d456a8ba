package shader

// ResourceKind classifies a @group/@binding declaration.
type ResourceKind int

const (
	ResourceUnknown ResourceKind = iota
	// ResourceUniformBuffer is a var<uniform> block.
	ResourceUniformBuffer
	// ResourceStorageBuffer is a var<storage> block.
	ResourceStorageBuffer
	// ResourceTexture is a filterable sampled texture.
	ResourceTexture
	// ResourceDepthTexture is a texture_depth_* binding.
	ResourceDepthTexture
	// ResourceSampler is a filtering sampler.
	ResourceSampler
	// ResourceComparisonSampler is a sampler_comparison.
	ResourceComparisonSampler
)

// TextureDimension is the view dimension of a texture binding.
type TextureDimension int

const (
	TextureDimensionNone TextureDimension = iota
	TextureDimension2D
	TextureDimensionCube
)

// VertexFormat identifies the type of a single vertex attribute.
type VertexFormat int

const (
	VertexFormatFloat32 VertexFormat = iota + 1
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
)

// Binding is one resource declaration parsed from WGSL source.
type Binding struct {
	Group   int
	Binding int
	// Name is the WGSL variable name.
	Name string
	// TypeName is the declared WGSL type, e.g. "CameraBlock" or "texture_cube<f32>".
	TypeName  string
	Kind      ResourceKind
	Dimension TextureDimension
	// Size is the byte size of buffer bindings, 0 for textures and samplers.
	Size uint64
}

// Member is one field of a uniform struct with its resolved byte offset.
type Member struct {
	Name     string
	TypeName string
	Offset   uint64
	Size     uint64
}

// VertexAttribute is one attribute of a vertex buffer layout.
type VertexAttribute struct {
	Location int
	Format   VertexFormat
	Offset   uint64
}

// VertexLayout describes a single interleaved vertex buffer.
type VertexLayout struct {
	Stride     uint64
	Attributes []VertexAttribute
}

// vertexFormatInfo holds the vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format VertexFormat
	size   uint64
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type under the WGSL alignment rules.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}
