package renderer

// RendererBuilderOption configures NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode. Defaults to PresentModeVSync.
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.config.presentMode = mode
	}
}

// WithMSAA sets the attachment sample count. Defaults to MSAA4x. Pipelines registered afterwards
// are created with the same count.
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.config.sampleCount = count
	}
}

// WithSoftwareAdapter requests the fallback (CPU) adapter, for machines without a usable GPU.
// A software Vulkan driver such as lavapipe or SwiftShader must be installed.
func WithSoftwareAdapter(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.config.softwareAdapter = force
	}
}
