package renderer

import (
	"fmt"

	com "pointview/common"
	"pointview/model"

	vk "github.com/goki/vulkan"
)

// These functions are auxiliary functions that abstract from the raw Vulkan API by assuming some reasonable
// defaults where possible. These differ from the VKS function in vk_simplifications.go by being tied to a given
// Core Struct and are closer to helper function in the class than being a general abstraction of the API.

// copyBuffer records a single copy command, submits it to the graphics queue and waits until it is done.
func (c *Core) copyBuffer(src *com.Buffer, dst *com.Buffer, s vk.DeviceSize) error {
	cmdBuf, err := com.VKBeginSingleTimeCommands(c.device.D, c.commandPool)
	if err != nil {
		return err
	}
	copyRegions := []vk.BufferCopy{
		{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      s,
		},
	}
	vk.CmdCopyBuffer(cmdBuf, src.Handle, dst.Handle, 1, copyRegions)
	return com.VKEndSingleTimeCommands(c.device.D, c.commandPool, c.device.GraphicsQ, cmdBuf)
}

// allocateVBuffer moves the vertices of pc into device local memory through a host visible staging buffer.
// The staging buffer is gone when this returns.
func (c *Core) allocateVBuffer(pc *model.PointCloud) (*com.Buffer, error) {
	bufSize := vk.DeviceSize(pc.GetVBufferSize())

	staging, err := com.CreateBuffer(
		c.device,
		bufSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit),
	)
	if err != nil {
		return nil, fmt.Errorf("staging buffer: %w", err)
	}
	defer com.DestroyBuffer(c.device, staging)
	if err = com.CopyToDeviceBuffer(c.device, staging, pc.GetVBufferBytes()); err != nil {
		return nil, err
	}

	vertexBuf, err := com.CreateBuffer(
		c.device,
		bufSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit|vk.BufferUsageVertexBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	if err != nil {
		return nil, fmt.Errorf("vertex buffer: %w", err)
	}
	if err = c.copyBuffer(staging, vertexBuf, bufSize); err != nil {
		com.DestroyBuffer(c.device, vertexBuf)
		return nil, err
	}
	return vertexBuf, nil
}
