package controls

import (
	"math"

	"github.com/Carmen-Shannon/oxy-earth/common"
)

// Slider is a bounded numeric control stepped by keys.
// Values move on the grid Min + k*Step, so repeated steps do not accumulate float error.
// A step to a grid point outside [Min, Max] is ignored, matching an HTML range input driven by arrow keys.
type Slider struct {
	Name  string
	Min   float32
	Max   float32
	Step  float32
	Value float32
}

// StepUp increases the value by one step.
//
// Returns:
//   - bool: true if the value changed
func (s *Slider) StepUp() bool {
	return s.move(1)
}

// StepDown decreases the value by one step.
//
// Returns:
//   - bool: true if the value changed
func (s *Slider) StepDown() bool {
	return s.move(-1)
}

// Set assigns v clamped to [Min, Max].
//
// Returns:
//   - bool: true if the value changed
func (s *Slider) Set(v float32) bool {
	v = common.Clamp(v, s.Min, s.Max)
	if v == s.Value {
		return false
	}
	s.Value = v
	return true
}

func (s *Slider) move(dir int) bool {
	if s.Step <= 0 || s.Max <= s.Min {
		return false
	}
	k := math.Round(float64(s.Value-s.Min)/float64(s.Step)) + float64(dir)
	next := s.Min + float32(k*float64(s.Step))
	// rounding can land a hair past a bound that is itself on the grid
	half := s.Step / 2
	switch {
	case next-s.Max >= half || s.Min-next >= half:
		return false
	case next > s.Max:
		next = s.Max
	case next < s.Min:
		next = s.Min
	}
	if next == s.Value {
		return false
	}
	s.Value = next
	return true
}

// Toggle is an on/off control, the checkbox counterpart of Slider.
type Toggle struct {
	Name string
	On   bool
}

// Flip inverts the toggle. It always reports a change.
func (t *Toggle) Flip() bool {
	t.On = !t.On
	return true
}
