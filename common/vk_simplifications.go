package common

import (
	vk "github.com/goki/vulkan"
)

// Slightly altered versions of raw bindings that hide default values which will not need to change for this
// renderer. Names are prefixed with VKS which stands for (V)ul(K)an (S)implified.

// VKSAllocateCommandBuffers sizes the result by the CommandBufferCount of the allocate info.
func VKSAllocateCommandBuffers(device vk.Device, pAllocateInfo *vk.CommandBufferAllocateInfo) ([]vk.CommandBuffer, error) {
	var buffers = make([]vk.CommandBuffer, pAllocateInfo.CommandBufferCount)
	err := vk.Error(vk.AllocateCommandBuffers(device, pAllocateInfo, buffers))
	if err != nil {
		return nil, err
	}
	return buffers, nil
}

// VKSCreateCommandPool fills in the create info, only flags and queue family matter.
func VKSCreateCommandPool(device vk.Device, flags vk.CommandPoolCreateFlags, queueFamilyIndex uint32) (vk.CommandPool, error) {
	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		PNext:            nil,
		Flags:            flags,
		QueueFamilyIndex: queueFamilyIndex,
	}
	return VkCreateCommandPool(device, &poolInfo, nil)
}
