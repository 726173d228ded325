package transform

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-4

func assertVecInDelta(t *testing.T, want, got [3]float32) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "component %d", i)
	}
}

func TestZeroStatePlacesSatelliteOnZ(t *testing.T) {
	tr := Update(State{})

	assert.Equal(t, [3]float32{0, 0, 10}, tr.SatellitePosition)
	assert.Equal(t, common.IdentityMatrix(), tr.Earth)
	assert.Equal(t, common.IdentityMatrix(), tr.Latitude)
	assert.Equal(t, common.IdentityMatrix(), tr.Axis)
}

func TestRotationOrderDoesNotCommute(t *testing.T) {
	lon, lat := common.Radians(40), common.Radians(-30)

	yx := common.IdentityMatrix()
	common.RotateY(yx[:], yx[:], lon)
	common.RotateX(yx[:], yx[:], lat)

	xy := common.IdentityMatrix()
	common.RotateX(xy[:], xy[:], lat)
	common.RotateY(xy[:], xy[:], lon)

	assert.NotEqual(t, yx, xy)

	tr := Update(State{Longitude: 40, Latitude: 30})
	assert.Equal(t, yx, tr.Satellite)
}

func TestSatelliteFollowsLongitudeAndLatitude(t *testing.T) {
	assertVecInDelta(t, [3]float32{10, 0, 0}, Update(State{Longitude: 90}).SatellitePosition)
	assertVecInDelta(t, [3]float32{0, 10, 0}, Update(State{Latitude: 90}).SatellitePosition)
	assertVecInDelta(t, [3]float32{0, -10, 0}, Update(State{Latitude: -90, Longitude: 45}).SatellitePosition)

	// latitude lifts the satellite out of the equator into the longitude's meridian
	p := Update(State{Longitude: 90, Latitude: 30}).SatellitePosition
	assert.InDelta(t, 5, p[1], tol)
	assert.Greater(t, p[0], float32(8))
}

func TestLatitudeRingFollowsLongitudeOnly(t *testing.T) {
	a := Update(State{Longitude: 60, Latitude: 10, Rotation: 20})
	b := Update(State{Longitude: 60, Latitude: -50, Rotation: 300})
	assert.Equal(t, a.Latitude, b.Latitude)
	assert.NotEqual(t, a.Earth, b.Earth)
}

func TestSatelliteEyeMatchesInverseForm(t *testing.T) {
	for _, s := range []State{{}, {Longitude: 35, Latitude: 20}, {Longitude: -120, Latitude: 90}, {Latitude: -90}} {
		tr := Update(s)
		eye, target, up := SatelliteEye(tr)

		var lookAt [16]float32
		common.LookAt(lookAt[:], eye, target, up)

		pose := tr.Satellite
		common.Translate(pose[:], pose[:], 0, 0, SatelliteDistance)
		var inv [16]float32
		require.True(t, common.Invert4(inv[:], pose[:]))

		for i := range lookAt {
			assert.InDelta(t, inv[i], lookAt[i], tol, "state %+v element %d", s, i)
		}
	}
}

func TestNormalMatrixOfRotation(t *testing.T) {
	tr := Update(State{Rotation: 75})
	n := NormalMatrix(tr.Earth)
	for i := range n {
		assert.InDelta(t, tr.Earth[i], n[i], tol)
	}

	var zero [16]float32
	assert.Equal(t, common.IdentityMatrix(), NormalMatrix(zero))
}
