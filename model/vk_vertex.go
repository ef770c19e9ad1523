package model

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"
)

// Vertex is a single point of the cloud as it is laid out in the vertex buffer. 12 Byte, no padding.
type Vertex struct {
	Pos mgl32.Vec3
}

func GetVertexBindingDescription() vk.VertexInputBindingDescription {
	return vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    uint32(unsafe.Sizeof(Vertex{})),
		InputRate: vk.VertexInputRateVertex,
	}
}

func GetVertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Location: 0, // <- 'layout(location = 0) in vec3 inPosition;' in the vertex shader
			Binding:  0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Pos)),
		},
	}
}
