package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePresentMode(t *testing.T) {
	for name, want := range map[string]PresentMode{"": PresentModeVSync, "vsync": PresentModeVSync, "uncapped": PresentModeUncapped} {
		got, err := ParsePresentMode(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParsePresentMode("mailbox")
	assert.ErrorIs(t, err, ErrSurfaceOption)
}

func TestParseMSAA(t *testing.T) {
	for _, n := range []int{1, 4, 8, 16} {
		c, err := ParseMSAA(n)
		require.NoError(t, err)
		assert.Equal(t, MSAASampleCount(n), c)
	}
	_, err := ParseMSAA(2)
	assert.ErrorIs(t, err, ErrSurfaceOption)
}
