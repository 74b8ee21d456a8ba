package renderer_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const depthProgram = `
struct VertexInput {
    @location(0) position: vec3<f32>,
}

@group(0) @binding(0) var<uniform> World_To_Shadow_Map: mat4x4<f32>;
@group(1) @binding(0) var<uniform> Object_To_World: mat4x3<f32>;

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    let world = Object_To_World * vec4<f32>(in.position, 1.0);
    return World_To_Shadow_Map * vec4<f32>(world, 1.0);
}
`

const texturedProgram = `
struct VertexInput {
    @location(0) position: vec3<f32>,
}

struct EnvironmentBlock {
    world_to_environment: mat4x3<f32>,
    level_of_detail_count: f32,
}

@group(0) @binding(0) var<uniform> Object_To_World: mat4x3<f32>;
@group(0) @binding(1) var<uniform> Environment: EnvironmentBlock;
@group(0) @binding(2) var Environment_map: texture_cube<f32>;
@group(0) @binding(3) var Environment_map_sampler: sampler;

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(in.position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

type testDrawable struct{}

func (testDrawable) Mesh() renderer.MeshHandle { return 7 }
func (testDrawable) IndexCount() uint32        { return 36 }

func loadDepth(t *testing.T, rec *renderertest.Recorder) *renderer.Program {
	t.Helper()
	p, err := renderer.LoadProgram(rec, renderer.ProgramSource{
		Name:     "depth",
		Source:   depthProgram,
		Uniforms: shader.UniformKeyNames(shader.UniformObjectToWorld, shader.UniformWorldToShadowMap),
	})
	require.NoError(t, err)
	return p
}

func loadTextured(t *testing.T, rec *renderertest.Recorder) *renderer.Program {
	t.Helper()
	p, err := renderer.LoadProgram(rec, renderer.ProgramSource{
		Name:   "textured",
		Source: texturedProgram,
		Uniforms: shader.UniformKeyNames(
			shader.UniformObjectToWorld,
			shader.UniformEnvironmentLevelOfDetailCount,
			shader.UniformEnvironmentMap,
		),
	})
	require.NoError(t, err)
	return p
}

func beginPass(t *testing.T, rec *renderertest.Recorder) {
	t.Helper()
	require.NoError(t, rec.BeginFrame())
	require.NoError(t, rec.BeginPass(renderer.PassDescriptor{Label: "test"}))
}

func TestLoadProgramUnresolvedSlot(t *testing.T) {
	rec := renderertest.NewRecorder()
	_, err := renderer.LoadProgram(rec, renderer.ProgramSource{
		Name:     "depth",
		Source:   depthProgram,
		Uniforms: shader.UniformKeyNames(shader.UniformObjectToWorld, shader.UniformMaterialGloss),
	})
	require.ErrorIs(t, err, shader.ErrUnresolvedUniform)
	assert.Zero(t, rec.Count(renderertest.OpCompileProgram))
}

func TestSetUniformWritesSlot(t *testing.T) {
	rec := renderertest.NewRecorder()
	p := loadTextured(t, rec)
	b := renderer.NewBinder(rec)
	require.NoError(t, b.BindProgram(p))

	require.NoError(t, b.SetUniform(shader.UniformEnvironmentLevelOfDetailCount, renderer.Float(10)))
	writes := rec.Filter(renderertest.OpWriteUniform)
	require.Len(t, writes, 1)
	assert.Equal(t, 0, writes[0].Group)
	assert.Equal(t, 1, writes[0].Binding)
	assert.Equal(t, uint64(64), writes[0].Offset)
	assert.Len(t, writes[0].Data, 4)
}

func TestSetUniformErrors(t *testing.T) {
	rec := renderertest.NewRecorder()
	p := loadDepth(t, rec)
	b := renderer.NewBinder(rec)

	err := b.SetUniform(shader.UniformObjectToWorld, renderer.Mat4x3(common.IdentityTransform()))
	assert.ErrorIs(t, err, renderer.ErrNoProgram)

	require.NoError(t, b.BindProgram(p))
	err = b.SetUniform(shader.UniformMaterialGloss, renderer.Float(1))
	assert.ErrorIs(t, err, shader.ErrUnresolvedUniform)

	err = b.SetUniform(shader.UniformObjectToWorld, renderer.Raw(make([]byte, 128)))
	assert.ErrorIs(t, err, renderer.ErrSlotMismatch)

	err = b.BindTexture(shader.UniformObjectToWorld, 1, 1)
	assert.ErrorIs(t, err, renderer.ErrSlotMismatch)
}

func TestDrawRequiresProgram(t *testing.T) {
	rec := renderertest.NewRecorder()
	beginPass(t, rec)
	b := renderer.NewBinder(rec)
	assert.ErrorIs(t, b.Draw(testDrawable{}), renderer.ErrNoProgram)
}

func TestDrawWhileMappedFails(t *testing.T) {
	rec := renderertest.NewRecorder()
	p := loadDepth(t, rec)
	buf, err := rec.CreateBuffer(renderer.BufferDescriptor{Label: "lighting", Size: 64})
	require.NoError(t, err)
	beginPass(t, rec)

	b := renderer.NewBinder(rec)
	require.NoError(t, b.BindProgram(p))
	_, err = b.MapBuffer(buf)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Draw(testDrawable{}), renderer.ErrBufferMapped)
	_, err = b.MapBuffer(buf)
	assert.ErrorIs(t, err, renderer.ErrBufferMapped)

	require.NoError(t, b.UnmapBuffer(buf))
	require.NoError(t, b.Draw(testDrawable{}))
	draws := rec.Filter(renderertest.OpDraw)
	require.Len(t, draws, 1)
	assert.Equal(t, uint32(36), draws[0].IndexCount)
}

func TestDrawWithUnboundTextureFails(t *testing.T) {
	rec := renderertest.NewRecorder()
	p := loadTextured(t, rec)
	beginPass(t, rec)

	b := renderer.NewBinder(rec)
	require.NoError(t, b.BindProgram(p))
	assert.ErrorIs(t, b.Draw(testDrawable{}), renderer.ErrTextureUnbound)

	require.NoError(t, b.BindTexture(shader.UniformEnvironmentMap, 3, 4))
	require.NoError(t, b.Draw(testDrawable{}))

	binds := rec.Filter(renderertest.OpBindTexture)
	require.Len(t, binds, 1)
	assert.Equal(t, 2, binds[0].Binding)
	assert.Equal(t, renderer.TextureHandle(3), binds[0].Texture)
}

func TestWithMappedBufferAlwaysUnmaps(t *testing.T) {
	rec := renderertest.NewRecorder()
	buf, err := rec.CreateBuffer(renderer.BufferDescriptor{Label: "camera", Size: 16})
	require.NoError(t, err)
	b := renderer.NewBinder(rec)

	require.NoError(t, b.WithMappedBuffer(buf, func(data []byte) error {
		data[0] = 9
		return nil
	}))
	assert.Equal(t, byte(9), rec.BufferContents(buf)[0])

	failure := errors.New("write failed")
	err = b.WithMappedBuffer(buf, func([]byte) error { return failure })
	assert.ErrorIs(t, err, failure)

	assert.Panics(t, func() {
		_ = b.WithMappedBuffer(buf, func([]byte) error { panic("boom") })
	})

	assert.Equal(t, 3, rec.Count(renderertest.OpMapBuffer))
	assert.Equal(t, 3, rec.Count(renderertest.OpUnmapBuffer))
	_, err = b.MapBuffer(buf)
	assert.NoError(t, err)
}

func TestRendererReloadKeepsProgramOnFailure(t *testing.T) {
	rec := renderertest.NewRecorder()
	r := renderer.NewRenderer(rec)
	src := renderer.ProgramSource{
		Name:     "depth",
		Source:   depthProgram,
		Uniforms: shader.UniformKeyNames(shader.UniformObjectToWorld, shader.UniformWorldToShadowMap),
	}
	p, err := r.LoadProgram(src)
	require.NoError(t, err)
	cached, err := r.LoadProgram(src)
	require.NoError(t, err)
	assert.Same(t, p, cached)

	before := p.Handle()
	require.Error(t, r.ReloadProgram("depth", "struct Broken {"))
	assert.Equal(t, before, p.Handle())

	require.NoError(t, r.ReloadProgram("depth", depthProgram))
	assert.NotEqual(t, before, p.Handle())
	assert.Same(t, p, r.Program("depth"))
	assert.Equal(t, 1, rec.Count(renderertest.OpReleaseProgram))

	assert.Error(t, r.ReloadProgram("missing", depthProgram))
}
