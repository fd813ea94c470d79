package render

import (
	"gocv.io/x/gocv"
)

// Window shows a canvas in a desktop window.
type Window struct {
	window *gocv.Window
	canvas *Canvas
}

// NewWindow opens a window titled title that displays canvas.
func NewWindow(title string, canvas *Canvas) *Window {
	return &Window{
		window: gocv.NewWindow(title),
		canvas: canvas,
	}
}

// Show pushes the current canvas to the window.
func (w *Window) Show() error {
	return w.window.IMShow(w.canvas.Mat())
}

// PollKey waits 1ms for a key press and returns its code, or -1.
func (w *Window) PollKey() int {
	key := w.window.WaitKey(1)
	if key < 0 {
		return -1
	}
	return key & 0xFF
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}

// Headless stands in for a Window when no display is wanted.
type Headless struct{}

func (Headless) Show() error  { return nil }
func (Headless) PollKey() int { return -1 }
func (Headless) Close() error { return nil }
