package model

import (
	"pointview/common"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"
)

// UniformBufferObject is transferred to the GPU once per frame in flight. The field order and
// padding follow std140:
//
//	layout(binding = 0) uniform UniformBufferObject {
//	    mat4 transform;  // offset 0
//	    vec4 color;      // offset 64
//	    float pointSize; // offset 80
//	} ubo;
type UniformBufferObject struct {
	Transform mgl32.Mat4
	Color     mgl32.Vec4
	PointSize float32
	_         [3]float32
}

// SizeOfUbo returns the size of UniformBufferObject in device memory, padding included.
func SizeOfUbo() vk.DeviceSize {
	return vk.DeviceSize(96)
}

func (u *UniformBufferObject) Bytes() []byte {
	return common.RawBytes(u)
}
