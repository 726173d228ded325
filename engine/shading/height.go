package shading

import (
	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/chewxy/math32"
)

// HeightField samples surface elevation in [0, 1] at a texture coordinate.
type HeightField interface {
	Height(u, v float32) float32
}

// ConstantHeight is a HeightField with the same elevation everywhere.
type ConstantHeight float32

// Height returns the constant elevation.
func (c ConstantHeight) Height(u, v float32) float32 {
	return float32(c)
}

// HeightFunc adapts a plain function to HeightField.
type HeightFunc func(u, v float32) float32

// Height calls f(u, v).
func (f HeightFunc) Height(u, v float32) float32 {
	return f(u, v)
}

// ImageHeight samples the red channel of decoded RGBA8 pixels with repeat addressing and nearest filtering.
// Row 0 is the top of the image and is addressed by v = 0, matching GPU texture coordinates.
type ImageHeight struct {
	data common.TextureStagingData
	max  float32
}

// NewImageHeight wraps decoded bump map pixels as a HeightField.
//
// Parameters:
//   - data: tightly packed RGBA8 pixels
//
// Returns:
//   - *ImageHeight: the height field
func NewImageHeight(data common.TextureStagingData) *ImageHeight {
	h := &ImageHeight{data: data}
	for i := 0; i+3 < len(data.Pixels); i += 4 {
		if r := float32(data.Pixels[i]) / 255; r > h.max {
			h.max = r
		}
	}
	return h
}

// Height returns the red channel at (u, v) normalized to [0, 1].
func (h *ImageHeight) Height(u, v float32) float32 {
	w, ht := int(h.data.Width), int(h.data.Height)
	if w == 0 || ht == 0 {
		return 0
	}
	x := wrap(int(math32.Floor(u*float32(w))), w)
	y := wrap(int(math32.Floor(v*float32(ht))), ht)
	return float32(h.data.Pixels[(y*w+x)*4]) / 255
}

// Max returns the highest elevation in the image.
func (h *ImageHeight) Max() float32 {
	return h.max
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
