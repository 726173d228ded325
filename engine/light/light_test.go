package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(LightTypePoint, WithPosition(15, 35, 15))
	assert.Equal(t, LightTypePoint, l.Type())
	assert.Equal(t, DefaultPointPosition, l.Position())
	assert.True(t, l.Enabled())
	assert.Equal(t, [3]float32{0, -1, 0}, l.Direction())
}

func TestSpotCutoffClamped(t *testing.T) {
	l := NewLight(LightTypeSpot, WithCutoff(30, 20))
	assert.Equal(t, float32(20), l.OuterCutoff())
	assert.Equal(t, float32(20), l.InnerCutoff(), "inner never exceeds outer")

	l.SetCutoff(0, 120)
	assert.Equal(t, float32(90), l.OuterCutoff())
	assert.Equal(t, float32(0), l.InnerCutoff())

	l.SetCutoff(0, -5)
	assert.Equal(t, float32(0), l.OuterCutoff())
}

func TestAimAt(t *testing.T) {
	l := NewLight(LightTypeSpot)
	l.SetPosition([3]float32{0, 0, 10})
	l.AimAt([3]float32{})
	d := l.Direction()
	assert.InDeltaSlice(t, []float32{0, 0, -1}, d[:], 1e-6)

	// aiming at its own position keeps the previous direction
	l.AimAt([3]float32{0, 0, 10})
	d = l.Direction()
	assert.InDeltaSlice(t, []float32{0, 0, -1}, d[:], 1e-6)
}

func TestSetEnabled(t *testing.T) {
	l := NewLight(LightTypePoint, WithEnabled(false))
	assert.False(t, l.Enabled())
	l.SetEnabled(true)
	assert.True(t, l.Enabled())
}
