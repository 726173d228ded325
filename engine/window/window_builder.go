package window

// WindowBuilderOption configures a window before it is created.
type WindowBuilderOption func(w *engineWindow)

func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the requested size in screen coordinates. It is clamped to the size limits,
// and on high-DPI displays the framebuffer ends up larger.
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.size = extent{width, height}
	}
}

// WithMinSize sets the smallest size the user can resize the window to.
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.min = extent{width, height}
	}
}

// WithMaxSize sets the largest size the user can resize the window to.
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.max = extent{width, height}
	}
}
