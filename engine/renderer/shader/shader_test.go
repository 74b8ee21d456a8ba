package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaterialStruct = `struct MaterialBlock {
    specular_color: vec4<f32>,
    diffuse_color: vec4<f32>,
    gloss: f32,
    metalness: f32,
}`

const testProgram = `
//@oxy:include material
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

struct ShadowBlock {
    world_to_shadow: mat4x4<f32>,
}

@group(1) @binding(0) var<uniform> Object_To_World: mat4x3<f32>;
//@oxy:uniform 1 1 Material material
@group(1) @binding(2) var Material_diffuse_map: texture_2d<f32>;
@group(1) @binding(3) var Material_diffuse_map_sampler: sampler;
@group(2) @binding(0) var<uniform> Shadow: ShadowBlock;
@group(2) @binding(1) var Shadow_map: texture_depth_2d;
@group(2) @binding(2) var Shadow_map_sampler: sampler_comparison;
@group(3) @binding(0) var Environment_map: texture_cube<f32>;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func newTestShader(t *testing.T) Shader {
	t.Helper()
	pp := NewPreProcessor(WithInclude(AnnotationArgMaterial, "MaterialBlock", testMaterialStruct))
	sh, err := NewShader("test", testProgram, pp)
	require.NoError(t, err)
	return sh
}

func TestNewShaderParsesProgram(t *testing.T) {
	sh := newTestShader(t)

	assert.Equal(t, "vs_main", sh.VertexEntryPoint())
	assert.Equal(t, "fs_main", sh.FragmentEntryPoint())
	assert.Contains(t, sh.Source(), "@group(1) @binding(1) var<uniform> Material: MaterialBlock;")
	require.Len(t, sh.Declarations(), 1)

	layouts := sh.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(32), layouts[0].Stride)
	assert.Equal(t, uint64(24), layouts[0].Attributes[2].Offset)
	assert.Equal(t, VertexFormatFloat32x2, layouts[0].Attributes[2].Format)

	bindings := sh.Bindings()
	require.Len(t, bindings, 8)
	assert.Equal(t, "Object_To_World", bindings[0].Name)
	assert.Equal(t, uint64(64), bindings[0].Size)
	assert.Equal(t, uint64(48), bindings[1].Size)

	env, ok := sh.BindingByName("Environment_map")
	require.True(t, ok)
	assert.Equal(t, ResourceTexture, env.Kind)
	assert.Equal(t, TextureDimensionCube, env.Dimension)
}

func TestStructMemberOffsets(t *testing.T) {
	sh := newTestShader(t)
	members := sh.Members("MaterialBlock")
	require.Len(t, members, 4)
	assert.Equal(t, Member{Name: "gloss", TypeName: "f32", Offset: 32, Size: 4}, members[2])
	assert.Equal(t, uint64(36), members[3].Offset)
}

func TestResolveSlots(t *testing.T) {
	sh := newTestShader(t)
	table, err := ResolveSlots(sh, UniformKeyNames(
		UniformObjectToWorld,
		UniformMaterialGloss,
		UniformMaterialDiffuseMap,
		UniformShadowWorldToShadow,
		UniformShadowMap,
		UniformEnvironmentMap,
	))
	require.NoError(t, err)
	assert.Equal(t, 6, table.Len())

	idx, ok := table.LookupKey(UniformObjectToWorld)
	require.True(t, ok)
	obj := table.Slot(idx)
	assert.Equal(t, SlotUniformBlock, obj.Kind)
	assert.Equal(t, uint64(64), obj.Size)

	idx, ok = table.Lookup("Material.gloss")
	require.True(t, ok)
	gloss := table.Slot(idx)
	assert.Equal(t, SlotUniformMember, gloss.Kind)
	assert.Equal(t, uint64(32), gloss.Offset)
	assert.Equal(t, uint64(48), gloss.BlockSize)

	idx, _ = table.LookupKey(UniformMaterialDiffuseMap)
	diffuse := table.Slot(idx)
	assert.Equal(t, SlotTexture, diffuse.Kind)
	assert.Equal(t, 3, diffuse.SamplerBinding)
	assert.False(t, diffuse.ComparisonSampler)

	idx, _ = table.LookupKey(UniformShadowMap)
	shadow := table.Slot(idx)
	assert.True(t, shadow.Depth)
	assert.True(t, shadow.ComparisonSampler)

	idx, _ = table.LookupKey(UniformEnvironmentMap)
	assert.Equal(t, -1, table.Slot(idx).SamplerBinding)
}

func TestResolveSlotsUnresolved(t *testing.T) {
	sh := newTestShader(t)
	for _, name := range []string{"Material.roughness", "Lighting", "Shadow.nothing", "Object_To_World.x"} {
		_, err := ResolveSlots(sh, []string{name})
		assert.ErrorIs(t, err, ErrUnresolvedUniform, name)
	}
}

func TestUniformKeyNamesRoundTrip(t *testing.T) {
	for k := UniformObjectToWorld; k < uniformKeyCount; k++ {
		got, ok := UniformKeyByName(k.Name())
		require.True(t, ok, k.Name())
		assert.Equal(t, k, got)
	}
	_, ok := UniformKeyByName("nope")
	assert.False(t, ok)
}

func TestPreProcessorErrors(t *testing.T) {
	pp := NewPreProcessor()
	_, err := pp.Process("//@oxy:include camera")
	assert.Error(t, err)

	_, err = pp.Process("//@oxy:uniform 0 x Camera camera")
	assert.Error(t, err)

	_, err = pp.Process("//@oxy:uniform 0 0 Camera")
	assert.Error(t, err)

	_, err = pp.Process("//@oxy:bogus")
	assert.Error(t, err)
}

func TestPreProcessorIncludesOnce(t *testing.T) {
	pp := NewPreProcessor(WithInclude(AnnotationArgMaterial, "MaterialBlock", testMaterialStruct))
	out, err := pp.Process("//@oxy:include material\n//@oxy:include material\n")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "struct MaterialBlock"))
}

func TestNewShaderMissingEntryPoint(t *testing.T) {
	_, err := NewShader("broken", "@fragment fn fs() -> @location(0) vec4<f32> { return vec4<f32>(); }", NewPreProcessor())
	assert.ErrorIs(t, err, ErrNoEntryPoint)

	sh, err := NewShader("depth", "@vertex fn vs() -> @builtin(position) vec4<f32> { return vec4<f32>(); }", NewPreProcessor())
	require.NoError(t, err)
	assert.Equal(t, "vs", sh.VertexEntryPoint())
	assert.Empty(t, sh.FragmentEntryPoint())
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "shading.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("// edit"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	var changed []string
	assert.Eventually(t, func() bool {
		changed = append(changed, w.Drain()...)
		return len(changed) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, changed, path)
	assert.NotContains(t, changed, filepath.Join(dir, "notes.txt"))
}

func TestPrimitiveLayout(t *testing.T) {
	tests := []struct {
		typeName string
		want     wgslTypeLayout
	}{
		{"f32", wgslTypeLayout{size: 4, align: 4}},
		{"vec2f", wgslTypeLayout{size: 8, align: 8}},
		{"vec3<f32>", wgslTypeLayout{size: 12, align: 16}},
		{"vec4u", wgslTypeLayout{size: 16, align: 16}},
		{"mat4x3f", wgslTypeLayout{size: 64, align: 16}},
		{"mat3x3<f32>", wgslTypeLayout{size: 48, align: 16}},
		{"mat2x2<f32>", wgslTypeLayout{size: 16, align: 8}},
	}
	for _, tt := range tests {
		got, ok := primitiveLayout(canonicalType(tt.typeName))
		require.True(t, ok, tt.typeName)
		assert.Equal(t, tt.want, got, tt.typeName)
	}
	_, ok := primitiveLayout("vec5<f32>")
	assert.False(t, ok)
}

func TestLayouterResolvesForwardReferences(t *testing.T) {
	src := `
struct Block { lights: array<Light, 2>, count: u32 }
struct Light { position: vec3f, color: vec4<f32> }
struct Loop { next: Loop }
`
	l := newLayouter(parseStructBlocks(stripComments(src)))

	light, ok := l.typeLayout("Light")
	require.True(t, ok)
	assert.Equal(t, wgslTypeLayout{size: 32, align: 16}, light)

	block, ok := l.structLayout("Block")
	require.True(t, ok)
	assert.Equal(t, uint64(80), block.size)
	assert.Equal(t, uint64(64), block.members[1].Offset)

	_, ok = l.structLayout("Loop")
	assert.False(t, ok)
	_, ok = l.typeLayout("array<Light>")
	assert.False(t, ok)
}

func TestStripComments(t *testing.T) {
	src := "a /* x /* nested */ y */ b // tail\nc"
	assert.Equal(t, "a  b \nc", stripComments(src))
}
