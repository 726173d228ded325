package engine

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-earth/engine/controls"
	"github.com/Carmen-Shannon/oxy-earth/engine/profiler"
	"github.com/Carmen-Shannon/oxy-earth/engine/scene"
	"github.com/Carmen-Shannon/oxy-earth/engine/window"
)

// Every render runs on the window thread inside an event callback.
type engine struct {
	// mu is held for the duration of a render.
	mu sync.Mutex

	window   window.Window
	scene    scene.Scene
	controls controls.Controls

	profiler         *profiler.Profiler
	profilingEnabled bool

	renders       uint64
	stateCallback func(c controls.Controls)
}

// Engine dispatches window events to the controls and the scene. There is no frame loop: a key that
// changes a control, a resize or an expose event each produce exactly one render.
type Engine interface {
	// Window is nil when the engine runs headless.
	Window() window.Window
	Scene() scene.Scene
	Controls() controls.Controls

	// EnableProfiler and DisableProfiler switch the per-render log line.
	EnableProfiler()
	DisableProfiler()

	// HandleKey applies the key to the controls and renders once if a control changed.
	//
	// Parameters:
	//   - key: a GLFW key code
	//
	// Returns:
	//   - bool: true if a render was issued
	HandleKey(key int) bool

	// Resize reconfigures the scene for a new framebuffer size and renders once.
	// Empty sizes (a minimized window) are ignored.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	Resize(width, height int)

	// Refresh renders the current state once.
	Refresh()

	// Renders counts completed renders.
	Renders() uint64

	// Run applies the initial control state, renders once and blocks in the window message loop
	// until the window closes. The scene is released and the window destroyed on the way out.
	Run()

	// Quit asks the window to close, which ends Run.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine and routes the window's key, resize and refresh callbacks to it.
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{profiler: profiler.NewProfiler()}

	for _, opt := range options {
		opt(e)
	}
	if e.controls == nil {
		e.controls = controls.NewControls()
	}

	if e.window != nil {
		e.window.SetKeyDownCallback(func(key int) {
			e.HandleKey(key)
		})
		e.window.SetResizeCallback(e.Resize)
		e.window.SetRefreshCallback(e.Refresh)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Controls() controls.Controls {
	return e.controls
}

func (e *engine) HandleKey(key int) bool {
	if !e.controls.HandleKey(key) {
		return false
	}
	return e.applyAndRender()
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 || e.scene == nil {
		return
	}
	e.scene.Resize(width, height)
	e.render()
}

func (e *engine) Refresh() {
	e.render()
}

func (e *engine) Renders() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renders
}

func (e *engine) Run() {
	e.applyAndRender()
	if e.window == nil {
		return
	}
	e.window.ProcessMessages()
	if e.scene != nil {
		e.scene.Release()
	}
	if err := e.window.Close(); err != nil {
		log.Printf("engine: closing window: %v", err)
	}
}

func (e *engine) Quit() {
	if e.window == nil {
		return
	}
	e.window.RequestClose()
}

// applyAndRender pushes the control state into the scene, notifies the state callback and renders.
func (e *engine) applyAndRender() bool {
	if e.scene == nil {
		return false
	}
	e.scene.Apply(e.controls.State(), e.controls.Toggles())
	if e.stateCallback != nil {
		e.stateCallback(e.controls)
	}
	return e.render()
}

// render draws one frame. A render requested while another is in progress is dropped, so renders
// never overlap.
func (e *engine) render() bool {
	if e.scene == nil {
		return false
	}
	if !e.mu.TryLock() {
		return false
	}
	defer e.mu.Unlock()

	if err := e.scene.Render(); err != nil {
		log.Printf("engine: render: %v", err)
		return false
	}
	e.renders++

	if e.profilingEnabled && e.profiler != nil {
		st := e.scene.Stats()
		e.profiler.Record(st.Elapsed, st.DrawCalls, st.UploadBytes)
	}
	return true
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}
