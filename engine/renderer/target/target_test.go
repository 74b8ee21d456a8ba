package target_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beginFrame(t *testing.T, rec *renderertest.Recorder) {
	t.Helper()
	require.NoError(t, rec.BeginFrame())
}

func TestCreateShadowTarget(t *testing.T) {
	rec := renderertest.NewRecorder()
	shadow, err := target.CreateShadowTarget(rec, 1024)
	require.NoError(t, err)

	assert.Equal(t, target.KindShadow, shadow.Kind())
	w, h := shadow.Size()
	assert.Equal(t, uint32(1024), w)
	assert.Equal(t, uint32(1024), h)
	assert.Zero(t, shadow.ColorTexture())
	assert.NotZero(t, shadow.Sampler())

	desc, ok := rec.Texture(shadow.DepthTexture())
	require.True(t, ok)
	assert.Equal(t, renderer.TextureFormatDepth32Float, desc.Format)
	assert.True(t, desc.RenderTarget)
}

func TestCreateShadowTargetExceedsLimit(t *testing.T) {
	rec := renderertest.NewRecorder()
	rec.SetMaxTextureDimension(512)

	_, err := target.CreateShadowTarget(rec, 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds device limit")
	assert.Zero(t, rec.Count(renderertest.OpCreateTexture))
}

func TestBindUnbindRestoresPrevious(t *testing.T) {
	rec := renderertest.NewRecorder()
	shadow, err := target.CreateShadowTarget(rec, 256)
	require.NoError(t, err)
	capture, err := target.CreateCaptureTarget(rec, 128, true)
	require.NoError(t, err)

	set := target.NewSet(rec)
	assert.Nil(t, set.Bound())

	require.NoError(t, set.Bind(shadow))
	require.NoError(t, set.Bind(capture))
	assert.Equal(t, capture, set.Bound())
	assert.Equal(t, 2, set.Depth())

	require.NoError(t, set.Unbind())
	assert.Equal(t, shadow, set.Bound())
	require.NoError(t, set.Unbind())
	assert.Nil(t, set.Bound())

	assert.ErrorIs(t, set.Unbind(), target.ErrNotBound)
}

func TestBindErrors(t *testing.T) {
	rec := renderertest.NewRecorder()
	shadow, err := target.CreateShadowTarget(rec, 256)
	require.NoError(t, err)
	capture, err := target.CreateCaptureTarget(rec, 128, true)
	require.NoError(t, err)
	set := target.NewSet(rec)
	beginFrame(t, rec)

	require.NoError(t, set.Bind(shadow))
	assert.ErrorIs(t, set.Bind(shadow), target.ErrIncompatibleBind, "already bound")

	require.NoError(t, set.BeginPass())
	assert.ErrorIs(t, set.Bind(capture), target.ErrIncompatibleBind, "bind while pass open")
	assert.ErrorIs(t, set.BeginPass(), target.ErrIncompatibleBind, "nested pass")

	require.NoError(t, set.Unbind())
	assert.False(t, set.PassOpen())
	assert.Equal(t, 1, rec.Count(renderertest.OpEndPass))
}

func TestShadowPassIsDepthOnly(t *testing.T) {
	rec := renderertest.NewRecorder()
	shadow, err := target.CreateShadowTarget(rec, 256)
	require.NoError(t, err)
	set := target.NewSet(rec)
	beginFrame(t, rec)

	require.NoError(t, set.Bind(shadow))
	require.NoError(t, set.BeginPass(target.WithClearDepth(1)))
	require.NoError(t, set.Unbind())

	passes := rec.Filter(renderertest.OpBeginPass)
	require.Len(t, passes, 1)
	pass := passes[0].Pass
	assert.Nil(t, pass.Color)
	require.NotNil(t, pass.Depth)
	assert.Equal(t, shadow.DepthTexture(), pass.Depth.Texture)
	assert.True(t, pass.Depth.Clear)
	assert.Equal(t, float32(1), pass.Depth.ClearDepth)
}

func TestAttachFace(t *testing.T) {
	rec := renderertest.NewRecorder()
	capture, err := target.CreateCaptureTarget(rec, 64, false)
	require.NoError(t, err)
	cube, err := target.CreateCubemap(rec, 64)
	require.NoError(t, err)
	set := target.NewSet(rec)
	beginFrame(t, rec)

	assert.ErrorIs(t, set.AttachFace(cube.Texture, common.CubeFacePositiveX, 0), target.ErrNotBound)

	require.NoError(t, set.Bind(capture))
	assert.ErrorIs(t, set.BeginPass(), target.ErrNoAttachment)

	clearColor := common.Vec4{0, 0.5, 0.5, 1}
	for face := common.CubeFace(0); face < common.CubeFaceCount; face++ {
		require.NoError(t, set.AttachFace(cube.Texture, face, 0))
		require.NoError(t, set.BeginPass(target.WithClearColor(clearColor)))
	}
	require.NoError(t, set.Unbind())

	passes := rec.Filter(renderertest.OpBeginPass)
	require.Len(t, passes, common.CubeFaceCount)
	for i, p := range passes {
		require.NotNil(t, p.Pass.Color)
		assert.Equal(t, cube.Texture, p.Pass.Color.Texture)
		assert.Equal(t, uint32(i), p.Pass.Color.Layer)
		assert.Equal(t, clearColor, p.Pass.Color.ClearColor)
		assert.Equal(t, capture.DepthTexture(), p.Pass.Depth.Texture)
	}
	assert.Equal(t, common.CubeFaceCount, rec.Count(renderertest.OpEndPass))
}

func TestAttachFaceRequiresCaptureTarget(t *testing.T) {
	rec := renderertest.NewRecorder()
	shadow, err := target.CreateShadowTarget(rec, 64)
	require.NoError(t, err)
	cube, err := target.CreateCubemap(rec, 64)
	require.NoError(t, err)
	set := target.NewSet(rec)

	require.NoError(t, set.Bind(shadow))
	assert.ErrorIs(t, set.AttachFace(cube.Texture, common.CubeFaceNegativeZ, 0), target.ErrIncompatibleBind)
}

func TestWindowTargetFollowsSurface(t *testing.T) {
	rec := renderertest.NewRecorder()
	window, err := target.CreateWindowTarget(rec)
	require.NoError(t, err)
	first := window.DepthTexture()
	w, h := window.Size()
	assert.Equal(t, uint32(1280), w)
	assert.Equal(t, uint32(720), h)

	set := target.NewSet(rec)
	beginFrame(t, rec)
	require.NoError(t, set.Bind(window))
	require.NoError(t, set.BeginPass())
	require.NoError(t, set.EndPass())
	assert.Equal(t, first, window.DepthTexture())

	rec.ConfigureSurface(800, 600)
	require.NoError(t, set.BeginPass())
	require.NoError(t, set.Unbind())

	assert.NotEqual(t, first, window.DepthTexture())
	w, h = window.Size()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)
	released := rec.Filter(renderertest.OpReleaseTexture)
	require.Len(t, released, 1)
	assert.Equal(t, first, released[0].Texture)

	passes := rec.Filter(renderertest.OpBeginPass)
	require.Len(t, passes, 2)
	assert.True(t, passes[1].Pass.Color.Surface)
	assert.Equal(t, window.DepthTexture(), passes[1].Pass.Depth.Texture)
}

func TestCreateCubemap(t *testing.T) {
	rec := renderertest.NewRecorder()
	cube, err := target.CreateCubemap(rec, 1024)
	require.NoError(t, err)

	assert.Equal(t, uint32(11), cube.MipLevels)
	assert.Equal(t, uint32(10), cube.MaxLevel())
	desc, ok := rec.Texture(cube.Texture)
	require.True(t, ok)
	assert.True(t, desc.Cube)
	assert.True(t, desc.RenderTarget)
	assert.Equal(t, uint32(11), desc.MipLevels)
}

func TestLevelOfDetailCount(t *testing.T) {
	tests := []struct {
		name                string
		base, res, maxLevel uint32
		want                uint32
	}{
		{"full chain", 0, 1024, 10, 10},
		{"clamped", 2, 1024, 10, 10},
		{"below max", 0, 256, 10, 8},
		{"base offset", 1, 256, 10, 9},
		{"single texel", 0, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, target.LevelOfDetailCount(tt.base, tt.res, tt.maxLevel))
		})
	}
}

func TestUploadCubemapFaces(t *testing.T) {
	rec := renderertest.NewRecorder()
	var faces [common.CubeFaceCount]common.PixelData
	for i := range faces {
		faces[i] = common.PixelData{Pixels: make([]byte, 4*4*4), Width: 4, Height: 4}
	}

	cube, err := target.UploadCubemapFaces(rec, "skybox", faces)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), cube.MipLevels)

	writes := rec.Filter(renderertest.OpWriteTexture)
	require.Len(t, writes, common.CubeFaceCount)
	for i, w := range writes {
		assert.Equal(t, uint32(i), w.Layer)
	}
	assert.Equal(t, 1, rec.Count(renderertest.OpGenerateMipmaps))

	faces[3] = common.SolidPixel(common.Vec4{1, 1, 1, 1})
	_, err = target.UploadCubemapFaces(rec, "skybox", faces)
	assert.Error(t, err)
}

func TestEnvironmentProbePingPong(t *testing.T) {
	rec := renderertest.NewRecorder()
	probe, err := target.NewEnvironmentProbe(rec, common.Vec3{0, 10, 0}, 1024)
	require.NoError(t, err)

	for n := uint64(0); n < 4; n++ {
		assert.NotEqual(t, probe.Write(n).Texture, probe.Read(n).Texture)
		assert.Equal(t, probe.Write(n).Texture, probe.Read(n+1).Texture, "capture %d is read by the next capture", n)
	}
	assert.Equal(t, uint32(10), probe.LevelOfDetailCount())
	assert.Equal(t, target.KindCapture, probe.CaptureTarget().Kind())
	assert.Zero(t, probe.CaptureTarget().ColorTexture())
}

func TestEnvironmentProbeFaceViews(t *testing.T) {
	rec := renderertest.NewRecorder()
	pos := common.Vec3{0, 10, 0}
	probe, err := target.NewEnvironmentProbe(rec, pos, 64)
	require.NoError(t, err)

	for face := common.CubeFace(0); face < common.CubeFaceCount; face++ {
		toWorld := probe.FaceToWorld(face)
		assert.InDelta(t, 1, toWorld.Forward().Dot(face.Axis()), 1e-5, "face %s", face)

		view := probe.FaceView(face)
		origin := view.Point(pos)
		assert.InDelta(t, 0, origin.Length(), 1e-5, "probe maps to view origin for face %s", face)

		ahead := view.Point(pos.Add(face.Axis()))
		assert.InDelta(t, -1, ahead[2], 1e-5, "face %s looks along -Z", face)
	}
}

func TestEnvironmentBlock(t *testing.T) {
	rec := renderertest.NewRecorder()
	probe, err := target.NewEnvironmentProbe(rec, common.Vec3{0, 10, 0}, 1024)
	require.NoError(t, err)

	block := probe.Block()
	assert.Equal(t, float32(10), block.LevelOfDetailCount)
	assert.Equal(t, common.Vec3{0, -10, 0}, block.WorldToEnvironment.Translation)

	data := block.Marshal()
	require.Len(t, data, target.EnvironmentBlockSize)
	assert.Contains(t, target.EnvironmentBlockSource, "struct "+target.EnvironmentBlockTypeName)
}

func TestFaceProjectionFlipsY(t *testing.T) {
	p := target.FaceProjection()
	up := common.WorldToClipPoint(common.IdentityTransform(), p, common.Vec3{0, 1, -1})
	assert.InDelta(t, -1, up[1], 1e-5)
}
