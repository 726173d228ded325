package engine

import (
	"io"

	"github.com/Carmen-Shannon/oxy-earth/engine/controls"
	"github.com/Carmen-Shannon/oxy-earth/engine/scene"
	"github.com/Carmen-Shannon/oxy-earth/engine/window"
)

// EngineBuilderOption configures an Engine.
type EngineBuilderOption func(*engine)

// WithProfiling logs the timing and upload volume of every render when enabled.
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfilerOutput redirects the profiler lines away from the standard logger.
func WithProfilerOutput(w io.Writer) EngineBuilderOption {
	return func(e *engine) {
		e.profiler.SetOutput(w)
	}
}

// WithWindow sets the window whose events drive the engine. Without one the engine only
// renders when its methods are called directly.
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithControls replaces the default controls.NewControls().
func WithControls(c controls.Controls) EngineBuilderOption {
	return func(e *engine) {
		e.controls = c
	}
}

// WithStateCallback registers a function called after every control change is applied,
// before the render. The entry point uses it to show the slider values in the title bar.
//
// Parameters:
//   - callback: receives the controls after the scene has been updated
//
// Returns:
//   - EngineBuilderOption: the option
func WithStateCallback(callback func(c controls.Controls)) EngineBuilderOption {
	return func(e *engine) {
		e.stateCallback = callback
	}
}
