package scene_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/assets"
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
	"github.com/Carmen-Shannon/oxy-probe/engine/game_object"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-probe/engine/scene"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entryCount = 18 // pawn, ground, 16 ring items

type fixture struct {
	rec    *renderertest.Recorder
	r      renderer.Renderer
	meshes scene.Meshes
	maps   scene.BlankMaps
	scene  scene.Scene
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := renderertest.NewRecorder()
	r := renderer.NewRenderer(rec, renderer.WithPreProcessor(assets.PreProcessor()))
	for _, src := range assets.Programs() {
		_, err := r.LoadProgram(src)
		require.NoError(t, err, src.Name)
	}
	meshes, err := scene.CreateMeshes(rec)
	require.NoError(t, err)
	maps, err := scene.CreateBlankMaps(rec)
	require.NoError(t, err)

	require.NoError(t, rec.BeginFrame())
	require.NoError(t, rec.BeginPass(renderer.PassDescriptor{Label: "test"}))
	return &fixture{
		rec:    rec,
		r:      r,
		meshes: meshes,
		maps:   maps,
		scene:  scene.Assemble(meshes, scene.DefaultLayout(), scene.WithBlankMaps(maps)),
	}
}

func (f *fixture) bind(t *testing.T, name string) renderer.Binder {
	t.Helper()
	b := f.r.Binder()
	require.NoError(t, b.BindProgram(f.r.Program(name)))
	return b
}

func assertVec3InDelta(t *testing.T, want, got common.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

// column reads the first three floats of the mat4x3 column at index col.
func column(data []byte, col int) common.Vec3 {
	var v common.Vec3
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[16*col+4*i:]))
	}
	return v
}

func TestOrbitTransform(t *testing.T) {
	first := scene.OrbitTransform(0, 16, 10, 3)
	assertVec3InDelta(t, common.Vec3{10, 3, 0}, first.Translation)
	assertVec3InDelta(t, common.Vec3{1, 0, 0}, first.X)

	opposite := scene.OrbitTransform(8, 16, 10, 3)
	assertVec3InDelta(t, common.Vec3{-10, 3, 0}, opposite.Translation)
	assertVec3InDelta(t, common.Vec3{-1, 0, 0}, opposite.X)
	assertVec3InDelta(t, common.Vec3{0, 1, 0}, opposite.Y)
}

func TestAssembleOrder(t *testing.T) {
	f := newFixture(t)
	objects := f.scene.Objects()
	require.Len(t, objects, entryCount)

	assert.Equal(t, f.scene.Player(), objects[0])
	assert.Equal(t, "pawn", objects[0].Name())
	assert.Equal(t, "ground", objects[1].Name())
	for i, obj := range objects[2:] {
		if i%2 == 0 {
			assert.Equal(t, f.meshes.Cube, obj.Mesh(), obj.Name())
		} else {
			assert.Equal(t, f.meshes.Sphere, obj.Mesh(), obj.Name())
		}
		assert.Equal(t, uint64(i+3), obj.ID())
	}

	ground := objects[1].Transform()
	assertVec3InDelta(t, common.Vec3{0, -0.1, 0}, ground.Translation)
	assertVec3InDelta(t, common.Vec3{100, 0, 0}, ground.X)
	assertVec3InDelta(t, common.Vec3{0, 0.2, 0}, ground.Y)

	marker := f.scene.ProbeMarker()
	require.NotNil(t, marker)
	assertVec3InDelta(t, common.Vec3{0, 10, 0}, marker.Position())
	assert.NotContains(t, objects, marker)
}

func TestReplayOverrideUploadsOnlyTransform(t *testing.T) {
	f := newFixture(t)
	b := f.bind(t, assets.ShadowDepthProgram)
	f.rec.Clear()

	require.NoError(t, f.scene.Replay(b, scene.ReplayOverride))

	writes := f.rec.Filter(renderertest.OpWriteUniform)
	require.Len(t, writes, entryCount)
	for _, w := range writes {
		assert.Equal(t, 1, w.Group)
		assert.Equal(t, 0, w.Binding)
		require.Len(t, w.Data, 64)
		// each column is padded to 16 bytes
		for col := 0; col < 4; col++ {
			assert.Zero(t, binary.LittleEndian.Uint32(w.Data[16*col+12:]), "padding of column %d", col)
		}
	}

	// the ground slab is the second entry
	ground := writes[1].Data
	assertVec3InDelta(t, common.Vec3{100, 0, 0}, column(ground, 0))
	assertVec3InDelta(t, common.Vec3{0, 0.2, 0}, column(ground, 1))
	assertVec3InDelta(t, common.Vec3{0, 0, 100}, column(ground, 2))
	assertVec3InDelta(t, common.Vec3{0, -0.1, 0}, column(ground, 3))
	assert.Equal(t, entryCount, f.rec.Count(renderertest.OpDraw))
	assert.Zero(t, f.rec.Count(renderertest.OpBindTexture))

	// each draw follows its own transform upload
	ops := f.rec.Ops()
	for i := 0; i < len(ops); i += 2 {
		assert.Equal(t, renderertest.OpWriteUniform, ops[i])
		assert.Equal(t, renderertest.OpDraw, ops[i+1])
	}
}

func TestReplayShadedUploadsMaterials(t *testing.T) {
	f := newFixture(t)
	b := f.bind(t, assets.ShadingProgram)
	require.NoError(t, b.BindTexture(shader.UniformShadowMap, 900, 901))
	require.NoError(t, b.BindTexture(shader.UniformEnvironmentMap, 902, 903))
	f.rec.Clear()

	require.NoError(t, f.scene.Replay(b, scene.ReplayShaded))

	assert.Equal(t, entryCount*5, f.rec.Count(renderertest.OpWriteUniform))
	assert.Equal(t, entryCount, f.rec.Count(renderertest.OpDraw))

	binds := f.rec.Filter(renderertest.OpBindTexture)
	require.Len(t, binds, entryCount*2)
	for i := 0; i < len(binds); i += 2 {
		assert.Equal(t, f.maps.Diffuse, binds[i].Texture)
		assert.Equal(t, f.maps.Normal, binds[i+1].Texture)
		assert.Equal(t, f.maps.Sampler, binds[i].Sampler)
	}
}

func TestReplayShadedWithoutEnvironmentFails(t *testing.T) {
	f := newFixture(t)
	b := f.bind(t, assets.ShadingProgram)
	require.NoError(t, b.BindTexture(shader.UniformShadowMap, 900, 901))

	err := f.scene.Replay(b, scene.ReplayShaded)
	require.ErrorIs(t, err, renderer.ErrTextureUnbound)
	assert.Contains(t, err.Error(), "pawn")
	assert.Zero(t, f.rec.Count(renderertest.OpDraw))
}

func TestReplaySkipsDisabled(t *testing.T) {
	f := newFixture(t)
	b := f.bind(t, assets.ShadowDepthProgram)
	f.scene.Objects()[1].SetEnabled(false)
	f.rec.Clear()

	require.NoError(t, f.scene.Replay(b, scene.ReplayOverride))
	assert.Equal(t, entryCount-1, f.rec.Count(renderertest.OpDraw))
}

func TestDrawProbeMarker(t *testing.T) {
	f := newFixture(t)
	b := f.bind(t, assets.ProbeDebugProgram)
	require.NoError(t, b.BindTexture(shader.UniformEnvironmentMap, 902, 903))
	f.rec.Clear()

	require.NoError(t, f.scene.DrawProbeMarker(b))
	require.Equal(t, 1, f.rec.Count(renderertest.OpWriteUniform))
	draws := f.rec.Filter(renderertest.OpDraw)
	require.Len(t, draws, 1)
	assert.Equal(t, f.meshes.Sphere.Mesh(), draws[0].Mesh)

	f.scene.ProbeMarker().SetEnabled(false)
	require.NoError(t, f.scene.DrawProbeMarker(b))
	assert.Equal(t, 1, f.rec.Count(renderertest.OpDraw))
}

func TestAddAssignsIDs(t *testing.T) {
	s := scene.NewScene("empty")
	a := game_object.NewGameObject(nil, game_object.WithName("a"))
	c := game_object.NewGameObject(nil, game_object.WithName("c"), game_object.WithID(7))
	d := game_object.NewGameObject(nil, game_object.WithName("d"))
	s.Add(a)
	s.Add(c)
	s.Add(d)

	assert.Equal(t, uint64(1), a.ID())
	assert.Equal(t, uint64(7), c.ID())
	assert.Equal(t, uint64(8), d.ID())
}

func TestPlayerWalksAlongCameraForward(t *testing.T) {
	cam := camera.NewCamera(camera.WithToWorld(common.IdentityTransform()))
	pawn := game_object.NewGameObject(nil)
	pc := scene.NewPlayerController()

	pc.Update(pawn, cam, common.KeySet{common.KeyW: true}, 0.5)
	assertVec3InDelta(t, common.Vec3{0, 0, -10}, pawn.Position())
	assertVec3InDelta(t, common.Vec3{0, 0, -1}, pawn.ToWorld().Forward())
}

func TestPlayerTurnsAtLimitedRate(t *testing.T) {
	cam := camera.NewCamera(camera.WithToWorld(common.IdentityTransform()))
	pawn := game_object.NewGameObject(nil)
	pc := scene.NewPlayerController()

	pc.Update(pawn, cam, common.KeySet{common.KeyD: true}, 0.1)
	assertVec3InDelta(t, common.Vec3{2, 0, 0}, pawn.Position())

	step := 2 * math32.Pi * 0.1
	assertVec3InDelta(t, common.Vec3{math32.Sin(step), 0, -math32.Cos(step)}, pawn.ToWorld().Forward())

	// a long frame snaps straight to the direction of travel
	pc.Update(pawn, cam, common.KeySet{common.KeyD: true}, 1)
	assertVec3InDelta(t, common.Vec3{1, 0, 0}, pawn.ToWorld().Forward())
}

func TestPlayerIgnoresIdleInput(t *testing.T) {
	cam := camera.NewCamera()
	pawn := game_object.NewGameObject(nil, game_object.WithPosition(common.Vec3{1, 2, 3}))
	scene.NewPlayerController().Update(pawn, cam, common.KeySet{}, 1)
	assert.Equal(t, common.Vec3{1, 2, 3}, pawn.Position())
}
