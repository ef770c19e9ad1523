package model

import (
	"pointview/common"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"
)

// PointCloud is the only kind of object the renderer draws. Its vertices live on the CPU until
// the renderer uploads them, after which VertexBuffer/VertexBufferMem reference device memory
// owned by the renderer.
type PointCloud struct {
	Name     string
	Vertices []Vertex
	Bounds   Bounds

	VertexBuffer    vk.Buffer
	VertexBufferMem vk.DeviceMemory
}

// NewPointCloud copies the given positions into a new, not yet normalized, PointCloud.
func NewPointCloud(name string, positions []mgl32.Vec3) *PointCloud {
	v := make([]Vertex, len(positions))
	for i := range positions {
		v[i].Pos = positions[i]
	}
	return &PointCloud{
		Name:     name,
		Vertices: v,
	}
}

// VertexCount is what ends up in vk.CmdDraw.
func (p *PointCloud) VertexCount() uint32 {
	return uint32(len(p.Vertices))
}

// GetVBufferSize returns the size required for keeping this cloud in device memory.
func (p *PointCloud) GetVBufferSize() int {
	return len(p.Vertices) * VertexSize
}

// GetVBufferBytes returns the raw bytes representing all vertices of the cloud.
// Mainly used to execute vk.Memcopy(..., src []byte) to move memory from CPU to GPU
func (p *PointCloud) GetVBufferBytes() []byte {
	return common.RawBytes(p.Vertices)
}

// VertexSize is the stride of Vertex in the vertex buffer
const VertexSize = 12
