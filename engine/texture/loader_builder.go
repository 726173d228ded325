package texture

import "io"

// LoaderBuilderOption is a functional option applied to a loader during construction via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers caps the number of decode goroutines.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithProgress draws a progress bar on w while images decode. Nil disables it.
func WithProgress(w io.Writer) LoaderBuilderOption {
	return func(l *loader) {
		l.progress = w
	}
}
