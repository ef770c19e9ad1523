package config

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Config holds every fixed value the viewer runs with. There are no flags or environment
// variables, Default() is the only source of a Config.
type Config struct {
	Title         string
	Width, Height int32

	ModelPath    string
	VertexShader string
	FragShader   string

	ClearColor [4]float32
	PointColor mgl32.Vec4
	PointSize  float32

	// Rotation is applied once as a static transform. The angle is in radians.
	RotationAngle float32
	RotationAxis  mgl32.Vec3

	// MarginFactor scales the per-axis maximum before dividing, so the cloud ends up
	// inside [-1/MarginFactor, 1/MarginFactor].
	MarginFactor float32

	EnableValidation bool
	ValidationLayers []string
	FramesInFlight   int
}

func Default() Config {
	return Config{
		Title:            "Point Cloud Viewer",
		Width:            800,
		Height:           600,
		ModelPath:        "models/icosahedron.obj",
		VertexShader:     "shaders/point.vert.spv",
		FragShader:       "shaders/point.frag.spv",
		ClearColor:       [4]float32{0.2, 0.3, 0.3, 1.0},
		PointColor:       mgl32.Vec4{1, 1, 1, 1},
		PointSize:        3.0,
		RotationAngle:    90.0,
		RotationAxis:     mgl32.Vec3{1, 1, 1},
		MarginFactor:     1.5,
		EnableValidation: true,
		ValidationLayers: []string{"VK_LAYER_KHRONOS_validation"},
		FramesInFlight:   2,
	}
}

// Transform returns the static model transform uploaded to the vertex stage.
func (c Config) Transform() mgl32.Mat4 {
	axis := c.RotationAxis
	if axis.Len() == 0 {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(c.RotationAngle, axis.Normalize())
}
