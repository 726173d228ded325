package renderer

import (
	"errors"
	"fmt"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU backend.
	BackendTypeWGPU RendererBackendType = iota
)

// ErrSurfaceOption is returned when a present mode name or sample count is not supported.
var ErrSurfaceOption = errors.New("renderer: unsupported surface option")

// PresentMode controls how frames reach the display. The scene only renders on input, so the
// mode affects latency rather than frame rate.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank. This is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately and may tear.
	PresentModeUncapped
)

// ParsePresentMode maps a configuration name to a PresentMode. The empty name selects vsync.
//
// Parameters:
//   - name: "vsync" or "uncapped"
//
// Returns:
//   - PresentMode: the mode
//   - error: ErrSurfaceOption for any other name
func ParsePresentMode(name string) (PresentMode, error) {
	switch name {
	case "", "vsync":
		return PresentModeVSync, nil
	case "uncapped":
		return PresentModeUncapped, nil
	}
	return PresentModeVSync, fmt.Errorf("%w: present mode %q", ErrSurfaceOption, name)
}

// MSAASampleCount is the sample count of the color and depth attachments. WebGPU guarantees
// 1 and 4; 8 and 16 depend on the adapter.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
	MSAA8x  MSAASampleCount = 8
	MSAA16x MSAASampleCount = 16
)

// ParseMSAA converts a configured sample count.
//
// Parameters:
//   - n: 1, 4, 8 or 16
//
// Returns:
//   - MSAASampleCount: the count
//   - error: ErrSurfaceOption for any other value
func ParseMSAA(n int) (MSAASampleCount, error) {
	switch c := MSAASampleCount(n); c {
	case MSAAOff, MSAA4x, MSAA8x, MSAA16x:
		return c, nil
	}
	return MSAA4x, fmt.Errorf("%w: msaa %d", ErrSurfaceOption, n)
}

// RendererBackend is the backend behind the Renderer.
type RendererBackend interface {
	wgpuRendererBackend
}
