package window

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing, the per-frame key state and the surface the renderer presents to.
// It implements common.KeyState.
type Window interface {
	common.KeyState

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events. Repeats are not reported.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PollEvents processes pending platform events without blocking.
	//
	// Returns:
	//   - bool: false once the window has been asked to close
	PollEvents() bool

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the window to close. The next PollEvents returns false.
	RequestClose()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// Rect returns the window position and client size in screen coordinates, suitable for persisting.
	//
	// Returns:
	//   - common.Rect: the current window rectangle
	Rect() common.Rect

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, the platform window and event callbacks.
type engineWindow struct {
	mu sync.Mutex

	// title is the window title displayed in the title bar.
	title string

	// rect is the requested and then tracked window rectangle in screen coordinates.
	rect common.Rect

	minWidth  int
	minHeight int

	// width and height are the framebuffer size in pixels, which differs from rect on high-DPI displays.
	width  int
	height int

	// keys holds the currently pressed key codes.
	keys common.KeySet

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window. Must be called from the thread that will poll its events.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("window: failed to create platform window: %w", err)
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-probe",
		rect:      common.Rect{X: -1, Y: -1, Width: 1280, Height: 720},
		minWidth:  320,
		minHeight: 200,
		keys:      common.KeySet{},
	}
	for _, opt := range options {
		opt(w)
	}
	w.rect.Width = max(w.rect.Width, w.minWidth)
	w.rect.Height = max(w.rect.Height, w.minHeight)
	w.width, w.height = w.rect.Width, w.rect.Height
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) KeyDown(keyCode uint32) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.keys.KeyDown(keyCode)
}

// handleKey records a key transition and fires the matching callback on the first press only.
func (w *engineWindow) handleKey(keyCode uint32, pressed bool) {
	w.mu.Lock()
	was := w.keys[keyCode]
	if pressed {
		w.keys[keyCode] = true
	} else {
		delete(w.keys, keyCode)
	}
	w.mu.Unlock()

	switch {
	case pressed && !was && w.onKeyDown != nil:
		w.onKeyDown(keyCode)
	case !pressed && was && w.onKeyUp != nil:
		w.onKeyUp(keyCode)
	}
}

// releaseKeys clears the key state, e.g. when the window loses focus and release events would be missed.
func (w *engineWindow) releaseKeys() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.keys)
}

func (w *engineWindow) handleResize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *engineWindow) handleMove(x, y int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rect.X, w.rect.Y = x, y
}

func (w *engineWindow) handleWindowSize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if width > 0 && height > 0 {
		w.rect.Width, w.rect.Height = width, height
	}
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Rect() common.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rect
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}
