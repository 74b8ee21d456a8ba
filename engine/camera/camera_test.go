package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec3InDelta(t *testing.T, want, got common.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d", i)
	}
}

func readFloat(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestSetToWorldUpdatesView(t *testing.T) {
	cam := NewCamera()
	toWorld := common.LookAt(common.Vec3{3, 4, 5}, common.Vec3{0, -1, -1}, common.WorldUp)
	cam.SetToWorld(toWorld)

	view := cam.WorldToCamera()
	assertVec3InDelta(t, common.Vec3{}, view.Point(common.Vec3{3, 4, 5}))
	back := view.Mul(toWorld)
	assertVec3InDelta(t, common.Vec3{1, 0, 0}, back.X)
	assertVec3InDelta(t, common.Vec3{0, 0, 1}, back.Z)
	assertVec3InDelta(t, common.Vec3{3, 4, 5}, cam.Position())
}

func TestClipToWorldRecoversNearPlane(t *testing.T) {
	cam := NewCamera(WithAspect(16.0/9.0), WithToWorld(common.TranslationTransform(common.Vec3{0, 2, 0})))
	p := cam.ClipToWorld().MulVec4(common.Vec4{0, 0, 0, 1})
	world := p.XYZ().Scale(1 / p[3])
	assertVec3InDelta(t, common.Vec3{0, 2, -common.DefaultNear}, world)
}

func TestSetAspectIgnoresDegenerate(t *testing.T) {
	cam := NewCamera(WithAspect(2))
	before := cam.Projection()
	cam.SetAspect(0)
	assert.Equal(t, before, cam.Projection())
	cam.SetAspect(1)
	assert.InDelta(t, before[0]*2, cam.Projection()[0], 1e-5)
}

func TestCameraBlockMarshalLayout(t *testing.T) {
	view := common.TranslationTransform(common.Vec3{1, 2, 3})
	block := NewCameraBlock(view, common.PerspectiveFov(common.DegToRad(90), 1), common.Vec3{7, 8, 9})
	buf := block.Marshal()
	require.Len(t, buf, CameraBlockSize)

	// translation column of world_to_camera
	assert.Equal(t, float32(1), readFloat(buf, 64+48))
	assert.Equal(t, float32(3), readFloat(buf, 64+56))
	// camera_to_clip[2][3]
	assert.Equal(t, float32(-1), readFloat(buf, 128+44))
	assert.Equal(t, float32(7), readFloat(buf, 192))
	assert.Equal(t, float32(1), readFloat(buf, 204))
	assert.Contains(t, CameraBlockSource, "struct "+CameraBlockTypeName)
}

func TestFlyControllerMovesAlongForward(t *testing.T) {
	cam := NewCamera()
	cc := NewCameraController(WithMoveSpeed(10))

	cc.Update(cam, common.KeySet{common.KeyW: true}, 0.5)
	assertVec3InDelta(t, common.Vec3{0, 0, -5}, cam.Position())

	cc.Update(cam, common.KeySet{common.KeyE: true, common.KeyD: true}, 0)
	assertVec3InDelta(t, common.Vec3{0, 0, -5}, cam.Position())
}

func TestFlyControllerTurns(t *testing.T) {
	cam := NewCamera()
	cc := NewCameraController(WithTurnSpeed(math.Pi / 2))

	cc.Update(cam, common.KeySet{common.KeyLeft: true}, 1)
	assertVec3InDelta(t, common.Vec3{-1, 0, 0}, cam.ToWorld().Forward())

	for range 10 {
		cc.Update(cam, common.KeySet{common.KeyUp: true}, 1)
	}
	assert.Less(t, cam.ToWorld().Forward().Dot(common.WorldUp), float32(0.99))
}
