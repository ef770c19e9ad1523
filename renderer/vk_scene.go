package renderer

import (
	"errors"
	"fmt"
	"log"

	"pointview/model"

	vk "github.com/goki/vulkan"
)

// These functions are part of the rendering core but are split into their own file for logical separation. Their
// focus is scene handling: adding and removing the point clouds drawn every frame.

var ErrEmptyCloud = errors.New("point cloud has no vertices")

func (c *Core) FindInScene(name string) (*model.PointCloud, error) {
	for i, v := range c.clouds {
		if v.Name == name {
			return c.clouds[i], nil
		}
	}
	return nil, fmt.Errorf("point cloud '%s' not found", name)
}

// AddToScene uploads the vertices of pc into a device local vertex buffer and draws it from the next frame on.
func (c *Core) AddToScene(pc *model.PointCloud) error {
	if pc.VertexCount() == 0 {
		return fmt.Errorf("cannot add '%s': %w", pc.Name, ErrEmptyCloud)
	}
	if _, err := c.FindInScene(pc.Name); err == nil {
		return fmt.Errorf("point cloud '%s' is already in the scene", pc.Name)
	}
	// Careful, we set references for device memory on an object outside the Core.
	// If the object is dereferenced we will not be able to recover this memory
	buf, err := c.allocateVBuffer(pc)
	if err != nil {
		return fmt.Errorf("failed to upload '%s': %w", pc.Name, err)
	}
	pc.VertexBuffer, pc.VertexBufferMem = buf.Handle, buf.DeviceMem
	c.clouds = append(c.clouds, pc)
	log.Printf("Added '%s' with %d points to the scene", pc.Name, pc.VertexCount())
	return nil
}

func (c *Core) ClearScene() {
	for len(c.clouds) > 0 {
		c.RemoveFromScene(c.clouds[0])
	}
}

// RemoveFromScene drops the reference to a point cloud found in the scene and frees its device memory.
// Comparison is done naively by name until more sophisticated methods are required.
func (c *Core) RemoveFromScene(pc *model.PointCloud) {
	for i, v := range c.clouds {
		if v.Name == pc.Name {
			vk.DeviceWaitIdle(c.device.D)
			c.destroyCloudBuffers(v)
			c.clouds = append(c.clouds[:i], c.clouds[i+1:]...)
			return
		}
	}
}

func (c *Core) destroyCloudBuffers(pc *model.PointCloud) {
	vk.DestroyBuffer(c.device.D, pc.VertexBuffer, nil)
	vk.FreeMemory(c.device.D, pc.VertexBufferMem, nil)
	pc.VertexBuffer, pc.VertexBufferMem = nil, nil
}
