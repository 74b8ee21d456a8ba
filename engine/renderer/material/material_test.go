package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const materialProgram = `
//@oxy:include material
struct VertexInput {
    @location(0) position: vec3<f32>,
}

//@oxy:uniform 1 1 Material material

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(in.position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return Material.diffuse_color;
}
`

func TestApplyWritesEachMember(t *testing.T) {
	rec := renderertest.NewRecorder()
	pp := shader.NewPreProcessor(shader.WithInclude(shader.AnnotationArgMaterial, MaterialBlockTypeName, MaterialBlockSource))
	p, err := renderer.LoadProgram(rec, renderer.ProgramSource{
		Name:   "material",
		Source: materialProgram,
		Uniforms: shader.UniformKeyNames(
			shader.UniformMaterialGloss,
			shader.UniformMaterialMetalness,
			shader.UniformMaterialSpecularColor,
			shader.UniformMaterialDiffuseColor,
		),
		PreProcessor: pp,
	})
	require.NoError(t, err)

	b := renderer.NewBinder(rec)
	require.NoError(t, b.BindProgram(p))
	require.NoError(t, Ring(4, 16).Apply(b))

	writes := rec.Filter(renderertest.OpWriteUniform)
	require.Len(t, writes, 4)
	offsets := []uint64{writes[0].Offset, writes[1].Offset, writes[2].Offset, writes[3].Offset}
	assert.Equal(t, []uint64{32, 36, 0, 16}, offsets)
	for _, w := range writes {
		assert.Equal(t, 1, w.Group)
		assert.Equal(t, 1, w.Binding)
	}
	assert.Equal(t, renderer.Vec4(common.Vec4{0.25, 0.25, 0.25, 1}).Bytes(), writes[3].Data)
}

func TestApplyWithoutMaterialSlotsFails(t *testing.T) {
	rec := renderertest.NewRecorder()
	b := renderer.NewBinder(rec)
	assert.ErrorIs(t, Pawn().Apply(b), renderer.ErrNoProgram)
}

func TestPresets(t *testing.T) {
	pawn := Pawn().Params()
	assert.Equal(t, float32(0.3), pawn.Gloss)
	assert.Equal(t, common.Vec4{1, 0, 0, 1}, pawn.DiffuseColor)

	ground := Ground().Params()
	assert.Equal(t, Gold, ground.SpecularColor)
	assert.Zero(t, ground.Metalness)

	ring := Ring(0, 16)
	assert.Equal(t, float32(1), ring.Params().Metalness)
	assert.Equal(t, common.Vec4{0, 0, 0, 1}, ring.Params().DiffuseColor)
	assert.Equal(t, "ring_0", ring.Name())
	assert.Zero(t, ring.DiffuseMap())

	buf := ground.Marshal()
	require.Len(t, buf, 48)
}
