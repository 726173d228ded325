package camera

import (
	_ "embed"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct
// (80 bytes: the view-projection matrix then the eye position).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// CameraUniform member names.
const (
	UniformViewProj = "viewProj"
	UniformEye      = "eye"
)
