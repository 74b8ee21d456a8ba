package assets_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/assets"
	"github.com/Carmen-Shannon/oxy-probe/engine/model"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadAll(t *testing.T) map[string]*renderer.Program {
	t.Helper()
	rec := renderertest.NewRecorder()
	r := renderer.NewRenderer(rec, renderer.WithPreProcessor(assets.PreProcessor()))
	out := make(map[string]*renderer.Program)
	for _, src := range assets.Programs() {
		p, err := r.LoadProgram(src)
		require.NoError(t, err, src.Name)
		out[src.Name] = p
	}
	return out
}

func TestProgramsLoad(t *testing.T) {
	programs := loadAll(t)
	require.Len(t, programs, 4)

	for name, p := range programs {
		sh := p.Pipeline().Shader()
		require.Len(t, sh.VertexLayouts(), 1, name)
		assert.Equal(t, uint64(model.VertexSize), sh.VertexLayouts()[0].Stride, name)
	}
}

func TestShadowDepthProgramIsDepthOnly(t *testing.T) {
	p := loadAll(t)[assets.ShadowDepthProgram]

	assert.Empty(t, p.Pipeline().Shader().FragmentEntryPoint())
	assert.False(t, p.Pipeline().ColorWriteEnabled())
	assert.Equal(t, 2, p.Slots().Len())
	assert.True(t, p.Has(shader.UniformObjectToWorld))
	assert.True(t, p.Has(shader.UniformWorldToShadowMap))
}

func TestShadingProgramSlots(t *testing.T) {
	p := loadAll(t)[assets.ShadingProgram]
	slots := p.Slots()

	slot := func(k shader.UniformKey) shader.Slot {
		i, ok := slots.LookupKey(k)
		require.True(t, ok, k.Name())
		return slots.Slot(i)
	}

	gloss := slot(shader.UniformMaterialGloss)
	assert.Equal(t, shader.SlotUniformMember, gloss.Kind)
	assert.Equal(t, uint64(32), gloss.Offset)

	shadowMap := slot(shader.UniformShadowMap)
	assert.Equal(t, shader.SlotTexture, shadowMap.Kind)
	assert.True(t, shadowMap.Depth)
	assert.True(t, shadowMap.ComparisonSampler)

	envMap := slot(shader.UniformEnvironmentMap)
	assert.Equal(t, shader.TextureDimensionCube, envMap.Dimension)
	assert.GreaterOrEqual(t, envMap.SamplerBinding, 0)

	lod := slot(shader.UniformEnvironmentLevelOfDetailCount)
	assert.Equal(t, uint64(64), lod.Offset)
	assert.Equal(t, uint64(target.EnvironmentBlockSize), lod.BlockSize)

	cam := slot(shader.UniformCamera)
	assert.Equal(t, shader.SlotUniformBlock, cam.Kind)
	assert.Equal(t, uint64(208), cam.Size)

	lighting := slot(shader.UniformLighting)
	assert.Equal(t, uint64(96), lighting.Size)
}

func TestSkyProgramIgnoresDepth(t *testing.T) {
	p := loadAll(t)[assets.SkyProgram]
	assert.False(t, p.Pipeline().DepthTestEnabled())
	assert.False(t, p.Pipeline().DepthWriteEnabled())
	assert.True(t, p.Has(shader.UniformSkyboxCubeMap))
	assert.True(t, p.Has(shader.UniformClipToWorld))
}

func TestLoadProgramsOverride(t *testing.T) {
	dir := t.TempDir()
	override := "// edited\n" + assets.Programs()[0].Source
	require.NoError(t, os.WriteFile(assets.SourcePath(dir, assets.ShadowDepthProgram), []byte(override), 0o644))

	programs, err := assets.LoadPrograms(dir)
	require.NoError(t, err)
	for _, p := range programs {
		if p.Name == assets.ShadowDepthProgram {
			assert.Equal(t, override, p.Source)
		} else {
			assert.NotContains(t, p.Source, "// edited")
		}
	}
}

func TestExportProgramsKeepsEdits(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shaders")
	require.NoError(t, assets.ExportPrograms(dir))

	path := assets.SourcePath(dir, assets.SkyProgram)
	require.NoError(t, os.WriteFile(path, []byte("edited"), 0o644))
	require.NoError(t, assets.ExportPrograms(dir))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "edited", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(assets.Programs()))
}

func TestProgramName(t *testing.T) {
	assert.Equal(t, assets.ShadingProgram, assets.ProgramName("/tmp/shaders/shading.wgsl"))
}
