package window

import "github.com/Carmen-Shannon/oxy-probe/common"

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithRect sets the initial window rectangle. A negative X or Y lets the platform place the window.
//
// Parameters:
//   - rect: the window position and client size in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithRect(rect common.Rect) WindowBuilderOption {
	return func(w *engineWindow) {
		w.rect = rect
	}
}

// WithMinSize sets the minimum allowed window size.
//
// Parameters:
//   - width: minimum width in pixels
//   - height: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}
