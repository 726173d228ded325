package window

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/cogentcore/webgpu/wgpu"
)

var errNotOpen = errors.New("window: not open")

// Window is the application window. Its message loop blocks waiting for events, so nothing
// runs between them: every render is triggered from a callback.
type Window interface {
	// SetResizeCallback receives the new framebuffer size in pixels.
	SetResizeCallback(callback func(width, height int))

	// SetRefreshCallback is called when the contents must be redrawn, e.g. after being uncovered.
	SetRefreshCallback(callback func())

	// SetKeyDownCallback receives the GLFW key code of presses and repeats. Escape never
	// reaches it; the window consumes it and closes.
	SetKeyDownCallback(callback func(keyCode int))

	SetTitle(title string)
	Title() string

	// SurfaceDescriptor is what the renderer creates its surface from. Nil once closed.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning is true until the window is closed or a close is requested.
	IsRunning() bool

	// RequestClose ends the message loop after the current event. Callbacks may call it.
	RequestClose()

	// Close destroys the window. A second Close does nothing.
	Close() error

	// ProcessMessages dispatches events on the calling thread until the window closes.
	ProcessMessages()

	// Width and Height are the framebuffer size in pixels.
	Width() int
	Height() int
}

// platformWindow is the native window behind an engineWindow.
type platformWindow interface {
	surfaceDescriptor() *wgpu.SurfaceDescriptor
	shouldClose() bool
	requestClose()
	// waitEvents blocks for at least one event, then dispatches every pending one.
	waitEvents()
	setTitle(title string)
	destroy()
}

// extent is a width and height pair.
type extent struct {
	w, h int
}

func (e extent) clamp(lo, hi extent) extent {
	return extent{common.Clamp(e.w, lo.w, hi.w), common.Clamp(e.h, lo.h, hi.h)}
}

type handlers struct {
	resize  func(width, height int)
	refresh func()
	keyDown func(keyCode int)
}

type engineWindow struct {
	title string

	min, max extent
	// size is the framebuffer, which is larger than the window on high-DPI displays.
	size extent

	platform platformWindow
	closed   bool

	on handlers
}

var _ Window = &engineWindow{}

// NewWindow creates and shows the window. It must run on the main goroutine, whose OS thread
// GLFW locks.
//
// Parameters:
//   - options: title and size options
//
// Returns:
//   - Window: the open window
//   - error: a wrapped GLFW error
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

// newEngineWindow applies the defaults and options without touching the platform.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title: "Earth and Satellite",
		min:   extent{320, 180},
		max:   extent{3840, 2160},
		size:  extent{1280, 720},
	}
	for _, opt := range options {
		opt(w)
	}
	w.size = w.size.clamp(w.min, w.max)
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.on.resize = callback
}

func (w *engineWindow) SetRefreshCallback(callback func()) {
	w.on.refresh = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode int)) {
	w.on.keyDown = callback
}

func (w *engineWindow) open() bool {
	return w.platform != nil && !w.closed
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	if w.open() {
		w.platform.setTitle(title)
	}
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if !w.open() {
		return nil
	}
	return w.platform.surfaceDescriptor()
}

func (w *engineWindow) IsRunning() bool {
	return w.open() && !w.platform.shouldClose()
}

func (w *engineWindow) RequestClose() {
	if w.open() {
		w.platform.requestClose()
	}
}

func (w *engineWindow) Close() error {
	switch {
	case w.platform == nil:
		return errNotOpen
	case w.closed:
		return nil
	}
	w.closed = true
	w.platform.destroy()
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		w.platform.waitEvents()
	}
}

func (w *engineWindow) Width() int {
	return w.size.w
}

func (w *engineWindow) Height() int {
	return w.size.h
}

// keyDown forwards a press or repeat. Escape only ends the loop; Close destroys the window
// after ProcessMessages returns.
func (w *engineWindow) keyDown(key int) {
	if key == common.KeyEsc {
		w.RequestClose()
		return
	}
	if w.on.keyDown != nil {
		w.on.keyDown(key)
	}
}

func (w *engineWindow) framebufferResized(width, height int) {
	w.size = extent{width, height}
	if w.on.resize != nil {
		w.on.resize(width, height)
	}
}

func (w *engineWindow) refresh() {
	if w.on.refresh != nil {
		w.on.refresh()
	}
}
