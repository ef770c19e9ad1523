package common

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// Utility functions that reduce visual clutter by abstracting some of the common default values into very obvious
// functions that should cover their respective use case most of the time. This is done to cut down on labor writing
// things out that are unlikely to change or are not relevant now. The main way typing is reduced by moving or
// defaulting parameters from 'createInfo' structs.

func VKAllocateCommandBuffersPrimary(device vk.Device, cmdPool vk.CommandPool, count uint32) ([]vk.CommandBuffer, error) {
	cbAllocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		PNext:              nil,
		CommandPool:        cmdPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}
	return VKSAllocateCommandBuffers(device, &cbAllocateInfo)
}

// VKBeginSingleTimeCommands allocates a primary command buffer from cmdPool and starts recording it for one
// submission only. Pair with VKEndSingleTimeCommands.
func VKBeginSingleTimeCommands(device vk.Device, cmdPool vk.CommandPool) (vk.CommandBuffer, error) {
	buffers, err := VKAllocateCommandBuffersPrimary(device, cmdPool, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate single time command buffer: %w", err)
	}
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		PNext: nil,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err = vk.Error(vk.BeginCommandBuffer(buffers[0], &beginInfo)); err != nil {
		vk.FreeCommandBuffers(device, cmdPool, 1, buffers)
		return nil, fmt.Errorf("failed to begin single time command buffer: %w", err)
	}
	return buffers[0], nil
}

// VKEndSingleTimeCommands ends recording, submits the buffer to queue, waits for the queue to drain and frees the
// command buffer again.
func VKEndSingleTimeCommands(device vk.Device, cmdPool vk.CommandPool, queue vk.Queue, cmdBuf vk.CommandBuffer) error {
	buffers := []vk.CommandBuffer{cmdBuf}
	defer vk.FreeCommandBuffers(device, cmdPool, 1, buffers)

	if err := vk.Error(vk.EndCommandBuffer(cmdBuf)); err != nil {
		return fmt.Errorf("failed to end single time command buffer: %w", err)
	}
	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		PNext:              nil,
		CommandBufferCount: 1,
		PCommandBuffers:    buffers,
	}
	if err := vk.Error(vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submitInfo}, nil)); err != nil {
		return fmt.Errorf("failed to submit single time command buffer: %w", err)
	}
	if err := vk.Error(vk.QueueWaitIdle(queue)); err != nil {
		return fmt.Errorf("failed to wait for queue idle: %w", err)
	}
	return nil
}
