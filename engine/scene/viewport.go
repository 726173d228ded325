package scene

// Viewport is a rectangle of the surface in pixels, origin at the top left.
type Viewport struct {
	X, Y          float32
	Width, Height float32
}

// Aspect returns width / height, or 1 for an empty viewport.
func (v Viewport) Aspect() float32 {
	if v.Height <= 0 {
		return 1
	}
	return v.Width / v.Height
}

// SplitViewports divides a surface into the left third-person half and the right satellite half.
// Both halves are width/2 wide and span the full height.
//
// Parameters:
//   - width, height: the surface size in pixels
//
// Returns:
//   - [2]Viewport: the left and right viewports
func SplitViewports(width, height int) [2]Viewport {
	half := float32(width) / 2
	h := float32(height)
	return [2]Viewport{
		{X: 0, Y: 0, Width: half, Height: h},
		{X: half, Y: 0, Width: half, Height: h},
	}
}
