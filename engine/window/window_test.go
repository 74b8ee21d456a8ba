package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindowClampsToMinimum(t *testing.T) {
	w := newEngineWindow(WithRect(common.Rect{X: 5, Y: 6, Width: 100, Height: 50}), WithMinSize(320, 200))
	assert.Equal(t, common.Rect{X: 5, Y: 6, Width: 320, Height: 200}, w.Rect())
	assert.Equal(t, 320, w.Width())
	assert.Equal(t, 200, w.Height())
}

func TestHandleKeyFiresOncePerPress(t *testing.T) {
	w := newEngineWindow()
	var downs, ups int
	w.SetKeyDownCallback(func(uint32) { downs++ })
	w.SetKeyUpCallback(func(uint32) { ups++ })

	w.handleKey(common.KeyF1, true)
	w.handleKey(common.KeyF1, true)
	assert.True(t, w.KeyDown(common.KeyF1))
	assert.Equal(t, 1, downs)

	w.handleKey(common.KeyF1, false)
	assert.False(t, w.KeyDown(common.KeyF1))
	assert.Equal(t, 1, ups)
}

func TestReleaseKeysClearsState(t *testing.T) {
	w := newEngineWindow()
	w.handleKey(common.KeyW, true)
	w.handleKey(common.KeyA, true)
	w.releaseKeys()
	assert.False(t, w.KeyDown(common.KeyW))
	assert.False(t, w.KeyDown(common.KeyA))
}

func TestResizeTracksFramebufferAndRect(t *testing.T) {
	w := newEngineWindow()
	var got [2]int
	w.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })

	w.handleResize(2560, 1440)
	w.handleWindowSize(1280, 720)
	w.handleMove(40, 30)

	assert.Equal(t, [2]int{2560, 1440}, got)
	assert.Equal(t, 2560, w.Width())
	assert.Equal(t, common.Rect{X: 40, Y: 30, Width: 1280, Height: 720}, w.Rect())

	w.handleWindowSize(0, 0)
	assert.Equal(t, 1280, w.Rect().Width)
}

func TestUninitializedWindowIsNotRunning(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}
