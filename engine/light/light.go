package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-earth/common"
)

// LightType classifies the light source.
type LightType int

const (
	// LightTypePoint is an omnidirectional light at a position.
	LightTypePoint LightType = iota

	// LightTypeSpot is a cone of light aimed from a position.
	LightTypeSpot
)

// DefaultPointPosition is where the earth's point light sits unless configured otherwise.
var DefaultPointPosition = [3]float32{15, 35, 15}

type lightImpl struct {
	mu sync.RWMutex

	lightType   LightType
	position    [3]float32
	direction   [3]float32
	innerCutoff float32 // degrees
	outerCutoff float32 // degrees
	enabled     bool
}

// Light is a point or spot light feeding the earth program uniforms.
type Light interface {
	Type() LightType
	Position() [3]float32

	// Direction is unit length. Point lights ignore it.
	Direction() [3]float32

	// InnerCutoff returns the full-intensity half angle of a spot light in degrees.
	InnerCutoff() float32

	// OuterCutoff returns the half angle in degrees past which a spot light contributes nothing.
	OuterCutoff() float32

	// Enabled reports whether this light contributes to shading.
	Enabled() bool

	SetPosition(p [3]float32)

	// AimAt points the light from its position toward target. A target at the light's own
	// position keeps the current direction.
	AimAt(target [3]float32)

	// SetCutoff sets the spot cone half angles in degrees. Values are clamped to [0, 90] and
	// inner never exceeds outer.
	//
	// Parameters:
	//   - innerDeg: full-intensity half angle
	//   - outerDeg: cut-off half angle
	SetCutoff(innerDeg, outerDeg float32)

	// SetEnabled switches the light on or off.
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates an enabled light at the origin pointing down -Y.
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		direction: [3]float32{0, -1, 0},
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.direction
}

func (l *lightImpl) InnerCutoff() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.innerCutoff
}

func (l *lightImpl) OuterCutoff() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.outerCutoff
}

func (l *lightImpl) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

func (l *lightImpl) SetPosition(p [3]float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = p
}

func (l *lightImpl) AimAt(target [3]float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := common.Vec3Sub(target, l.position)
	if common.Vec3Length(d) == 0 {
		return
	}
	l.direction = common.Vec3Normalize(d)
}

func (l *lightImpl) SetCutoff(innerDeg, outerDeg float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setCutoff(innerDeg, outerDeg)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// setCutoff needs the write lock, or l not yet shared.
func (l *lightImpl) setCutoff(innerDeg, outerDeg float32) {
	l.outerCutoff = common.Clamp(outerDeg, 0, 90)
	l.innerCutoff = common.Clamp(innerDeg, 0, l.outerCutoff)
}
