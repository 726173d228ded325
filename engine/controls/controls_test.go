package controls

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/engine/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliderStepsStopAtBounds(t *testing.T) {
	s := Slider{Min: 0, Max: 2, Step: 1, Value: 1}

	assert.True(t, s.StepUp())
	assert.False(t, s.StepUp())
	assert.Equal(t, float32(2), s.Value)

	assert.True(t, s.StepDown())
	assert.True(t, s.StepDown())
	assert.False(t, s.StepDown())
	assert.Equal(t, float32(0), s.Value)
}

func TestSliderStepPastBoundIsIgnored(t *testing.T) {
	s := Slider{Min: 0, Max: 10, Step: 4, Value: 8}
	assert.False(t, s.StepUp())
	assert.Equal(t, float32(8), s.Value)
}

func TestSliderFractionalStepReachesBounds(t *testing.T) {
	s := Slider{Min: 0, Max: 1, Step: 0.1}

	steps := 0
	for s.StepUp() {
		steps++
		require.LessOrEqual(t, steps, 10)
	}
	assert.Equal(t, 10, steps)
	assert.Equal(t, float32(1), s.Value)

	for s.StepDown() {
		steps--
	}
	assert.Equal(t, 0, steps)
	assert.Equal(t, float32(0), s.Value)
}

func TestSliderOffGridValueSnapsToGrid(t *testing.T) {
	s := Slider{Min: 0, Max: 10, Step: 1, Value: 2.4}
	assert.True(t, s.StepUp())
	assert.Equal(t, float32(3), s.Value)
}

func TestSliderSetClamps(t *testing.T) {
	s := Slider{Min: -5, Max: 5, Step: 1}
	assert.True(t, s.Set(9))
	assert.Equal(t, float32(5), s.Value)
	assert.False(t, s.Set(5))
}

func TestHeightDivisorScalesBump(t *testing.T) {
	c := NewControls(WithHeightDivisor(10), WithSlider(Slider{Name: SliderHeight, Min: 0, Max: 20, Step: 1, Value: 5}))
	assert.Equal(t, float32(0.5), c.State().HeightScale)

	c = NewControls(WithHeightDivisor(0))
	assert.Equal(t, float32(0.5), c.State().HeightScale, "non-positive divisor keeps the default")
}

func TestDefaultState(t *testing.T) {
	c := NewControls()
	assert.Equal(t, transform.State{HeightScale: 0.5, SpotCutoff: 20}, c.State())

	toggles := c.Toggles()
	assert.True(t, toggles.PointLight)
	assert.True(t, toggles.Spotlight)
}

func TestArrowKeysMoveSatellite(t *testing.T) {
	c := NewControls()

	require.True(t, c.HandleKey(common.KeyRight))
	require.True(t, c.HandleKey(common.KeyUp))
	require.True(t, c.HandleKey(common.KeyUp))
	s := c.State()
	assert.Equal(t, float32(1), s.Longitude)
	assert.Equal(t, float32(2), s.Latitude)

	require.True(t, c.HandleKey(common.KeyLeft))
	require.True(t, c.HandleKey(common.KeyLeft))
	assert.Equal(t, float32(-1), c.State().Longitude)
}

func TestLatitudeBoundedAtPole(t *testing.T) {
	c := NewControls(WithSlider(Slider{Name: SliderLatitude, Min: -90, Max: 90, Step: 1, Value: 89}))

	assert.True(t, c.HandleKey(common.KeyUp))
	assert.False(t, c.HandleKey(common.KeyUp), "a render is only requested on change")
	assert.Equal(t, float32(90), c.State().Latitude)
}

func TestHeightMapsToScale(t *testing.T) {
	c := NewControls(WithSlider(Slider{Name: SliderHeight, Min: 0, Max: 20, Step: 1, Value: 0}))
	assert.Equal(t, float32(0), c.State().HeightScale)

	for i := 0; i < 4; i++ {
		require.True(t, c.HandleKey(common.KeyW))
	}
	assert.Equal(t, float32(0.2), c.State().HeightScale)
}

func TestToggleKeys(t *testing.T) {
	c := NewControls(WithToggles(true, false))

	assert.True(t, c.HandleKey(common.KeyL))
	assert.True(t, c.HandleKey(common.KeyT))
	toggles := c.Toggles()
	assert.False(t, toggles.PointLight)
	assert.True(t, toggles.Spotlight)
}

func TestUnboundKey(t *testing.T) {
	c := NewControls()
	before := c.String()
	assert.False(t, c.HandleKey(common.KeyR))
	assert.Equal(t, before, c.String())
}

func TestWithSliderClampsInitialValue(t *testing.T) {
	c := NewControls(WithSlider(Slider{Name: SliderCutoff, Min: 0, Max: 45, Step: 5, Value: 60}))
	s, ok := c.Slider(SliderCutoff)
	require.True(t, ok)
	assert.Equal(t, float32(45), s.Value)

	_, ok = c.Slider("missing")
	assert.False(t, ok)
}

func TestCustomKeyMap(t *testing.T) {
	c := NewControls(WithKeyMap(KeyMap{common.KeyR: {Control: SliderRotation, Up: true}}))
	assert.True(t, c.HandleKey(common.KeyR))
	assert.False(t, c.HandleKey(common.KeyD))
	assert.Equal(t, float32(1), c.State().Rotation)
}
