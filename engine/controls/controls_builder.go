package controls

// ControlsBuilderOption is a functional option for configuring Controls via NewControls.
type ControlsBuilderOption func(*controls)

// WithSlider is an option builder that replaces the range, step and initial value of a named slider.
// The initial value is clamped into the range. Unknown names are ignored.
//
// Parameters:
//   - s: the slider definition, matched by s.Name
//
// Returns:
//   - ControlsBuilderOption: a function that applies the slider option to the controls
func WithSlider(s Slider) ControlsBuilderOption {
	return func(c *controls) {
		dst := c.slider(s.Name)
		if dst == nil {
			return
		}
		*dst = Slider{Name: s.Name, Min: s.Min, Max: s.Max, Step: s.Step, Value: s.Min}
		dst.Set(s.Value)
	}
}

// WithToggles is an option builder that sets the initial light switches.
//
// Parameters:
//   - pointLight: initial point light state
//   - spotlight: initial spotlight state
//
// Returns:
//   - ControlsBuilderOption: a function that applies the toggle option to the controls
func WithToggles(pointLight, spotlight bool) ControlsBuilderOption {
	return func(c *controls) {
		c.pointLight.On = pointLight
		c.spotlight.On = spotlight
	}
}

// WithHeightDivisor is an option builder that sets the divisor between the height slider and the bump scale.
// Non-positive values are ignored.
func WithHeightDivisor(d float32) ControlsBuilderOption {
	return func(c *controls) {
		if d > 0 {
			c.heightDivisor = d
		}
	}
}

// WithKeyMap is an option builder that replaces the key bindings.
//
// Parameters:
//   - km: the bindings to use
//
// Returns:
//   - ControlsBuilderOption: a function that applies the key map option to the controls
func WithKeyMap(km KeyMap) ControlsBuilderOption {
	return func(c *controls) {
		c.keyMap = km
	}
}
