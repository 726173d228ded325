// Package controls holds the user-facing slider and toggle state and the keyboard bindings that drive it.
package controls

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/engine/shading"
	"github.com/Carmen-Shannon/oxy-earth/engine/transform"
)

// DefaultHeightDivisor maps the height slider to the bump scale: scale = height / divisor.
const DefaultHeightDivisor = 20

// controls is the implementation of the Controls interface.
type controls struct {
	mu *sync.Mutex

	longitude Slider
	latitude  Slider
	rotation  Slider
	height    Slider
	cutoff    Slider

	pointLight Toggle
	spotlight  Toggle

	keyMap        KeyMap
	heightDivisor float32
}

// Controls is the full set of sliders and toggles for the scene.
type Controls interface {
	// State returns the transform state for the current slider values.
	//
	// Returns:
	//   - transform.State: the angles in degrees and the bump scale
	State() transform.State

	// Toggles returns the current light switches.
	//
	// Returns:
	//   - shading.Toggles: the point light and spotlight switches
	Toggles() shading.Toggles

	// HandleKey applies the action bound to key.
	//
	// Parameters:
	//   - key: a GLFW key code
	//
	// Returns:
	//   - bool: true if the key was bound and changed a control
	HandleKey(key int) bool

	// Slider returns a copy of the named slider.
	//
	// Parameters:
	//   - name: one of the Slider* names
	//
	// Returns:
	//   - Slider: the slider copy
	//   - bool: false if no slider has that name
	Slider(name string) (Slider, bool)

	// String summarizes every control for log lines.
	String() string
}

var _ Controls = &controls{}

// Slider and toggle names.
const (
	SliderLongitude = "longitude"
	SliderLatitude  = "latitude"
	SliderRotation  = "rotation"
	SliderHeight    = "height"
	SliderCutoff    = "cutoff"

	TogglePointLight = "point-light"
	ToggleSpotlight  = "spotlight"
)

// NewControls creates the control set with the default ranges and key bindings, then applies options.
//
// Parameters:
//   - options: a variadic list of options overriding ranges, values and bindings
//
// Returns:
//   - Controls: the new control set
func NewControls(options ...ControlsBuilderOption) Controls {
	c := &controls{
		mu:         &sync.Mutex{},
		longitude:  Slider{Name: SliderLongitude, Min: -180, Max: 180, Step: 1},
		latitude:   Slider{Name: SliderLatitude, Min: -90, Max: 90, Step: 1},
		rotation:   Slider{Name: SliderRotation, Min: 0, Max: 360, Step: 1},
		height:     Slider{Name: SliderHeight, Min: 0, Max: 20, Step: 1, Value: 10},
		cutoff:     Slider{Name: SliderCutoff, Min: 0, Max: 90, Step: 1, Value: 20},
		pointLight: Toggle{Name: TogglePointLight, On: true},
		spotlight:  Toggle{Name: ToggleSpotlight, On: true},
		keyMap:     DefaultKeyMap(),

		heightDivisor: DefaultHeightDivisor,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *controls) State() transform.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return transform.State{
		Longitude:   c.longitude.Value,
		Latitude:    c.latitude.Value,
		Rotation:    c.rotation.Value,
		HeightScale: c.height.Value / c.heightDivisor,
		SpotCutoff:  c.cutoff.Value,
	}
}

func (c *controls) Toggles() shading.Toggles {
	c.mu.Lock()
	defer c.mu.Unlock()
	return shading.Toggles{PointLight: c.pointLight.On, Spotlight: c.spotlight.On}
}

func (c *controls) HandleKey(key int) bool {
	action, ok := c.keyMap[key]
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch action.Control {
	case TogglePointLight:
		return c.pointLight.Flip()
	case ToggleSpotlight:
		return c.spotlight.Flip()
	}

	s := c.slider(action.Control)
	if s == nil {
		return false
	}
	if action.Up {
		return s.StepUp()
	}
	return s.StepDown()
}

func (c *controls) Slider(name string) (Slider, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slider(name)
	if s == nil {
		return Slider{}, false
	}
	return *s, true
}

func (c *controls) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("lon=%g lat=%g rot=%g height=%g cutoff=%g light=%t spot=%t",
		c.longitude.Value, c.latitude.Value, c.rotation.Value, c.height.Value, c.cutoff.Value,
		c.pointLight.On, c.spotlight.On)
}

func (c *controls) slider(name string) *Slider {
	switch name {
	case SliderLongitude:
		return &c.longitude
	case SliderLatitude:
		return &c.latitude
	case SliderRotation:
		return &c.rotation
	case SliderHeight:
		return &c.height
	case SliderCutoff:
		return &c.cutoff
	}
	return nil
}

// Action is what a bound key does: step a slider up or down, or flip a toggle (Up is ignored for toggles).
type Action struct {
	Control string
	Up      bool
}

// KeyMap binds GLFW key codes to actions.
type KeyMap map[int]Action

// DefaultKeyMap returns the standard bindings: arrows move the satellite, A/D spin the earth, W/S raise and lower
// the terrain, Q/E narrow and widen the spotlight, L and T switch the point light and spotlight.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		common.KeyRight: {Control: SliderLongitude, Up: true},
		common.KeyLeft:  {Control: SliderLongitude},
		common.KeyUp:    {Control: SliderLatitude, Up: true},
		common.KeyDown:  {Control: SliderLatitude},
		common.KeyD:     {Control: SliderRotation, Up: true},
		common.KeyA:     {Control: SliderRotation},
		common.KeyW:     {Control: SliderHeight, Up: true},
		common.KeyS:     {Control: SliderHeight},
		common.KeyE:     {Control: SliderCutoff, Up: true},
		common.KeyQ:     {Control: SliderCutoff},
		common.KeyL:     {Control: TogglePointLight},
		common.KeyT:     {Control: ToggleSpotlight},
	}
}
