package shading

import _ "embed"

// GPUEarthParamsSource is the WGSL EarthParams struct shared by both earth shader stages (64 bytes).
// Integer members are the on/off switches of the earth program.
//
//go:embed assets/earth_params.wgsl
var GPUEarthParamsSource string

// EarthParams member names.
const (
	ParamLightPosition = "lightPosition"
	ParamScale         = "scale"
	ParamSpotPosition  = "spotPosition"
	ParamOuterAngle    = "outerAngle"
	ParamViewPosition  = "viewPosition"
	ParamTurnLight     = "turnLight"
	ParamTurnSpot      = "turnSpot"
	ParamBumpNormals   = "bumpNormals"
	ParamGateSpecular  = "gateSpecular"
)

// Flag converts a switch to the integer form the earth program reads.
func Flag(on bool) int32 {
	if on {
		return 1
	}
	return 0
}
