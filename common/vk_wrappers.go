package common

import (
	"errors"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
)

// Functions wrapping the raw go bindings so that handles are returned instead of written through out-parameters
// and result codes become errors. They do not hide or alter behavior.

// create runs a binding that writes a single handle of type T and converts its result code.
func create[T any](fn func(*T) vk.Result) (T, error) {
	var handle T
	if err := vk.Error(fn(&handle)); err != nil {
		var zero T
		return zero, err
	}
	return handle, nil
}

func VkCreateInstance(pCreateInfo *vk.InstanceCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Instance, error) {
	in, err := create(func(in *vk.Instance) vk.Result { return vk.CreateInstance(pCreateInfo, pAllocator, in) })
	if err != nil {
		return nil, err
	}
	// Loads the instance level function pointers
	if err = vk.InitInstance(in); err != nil {
		vk.DestroyInstance(in, nil)
		return nil, err
	}
	return in, nil
}

func SdlCreateVkSurface(win *sdl.Window, instance vk.Instance) (vk.Surface, error) {
	surfPtr, err := win.VulkanCreateSurface(instance)
	if err != nil {
		return nil, err
	}
	return vk.SurfaceFromPointer(uintptr(surfPtr)), nil
}

func VkCreateDevice(physicalDevice vk.PhysicalDevice, pCreateInfo *vk.DeviceCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Device, error) {
	return create(func(d *vk.Device) vk.Result { return vk.CreateDevice(physicalDevice, pCreateInfo, pAllocator, d) })
}

func VkGetDeviceQueue(device vk.Device, queueFamilyIndex *uint32, queueIndex uint32) (vk.Queue, error) {
	if queueFamilyIndex == nil {
		return nil, errors.New("queue family index was nil")
	}
	var q vk.Queue
	vk.GetDeviceQueue(device, *queueFamilyIndex, queueIndex, &q)
	return q, nil
}

func VkCreateSwapChain(device vk.Device, pCreateInfo *vk.SwapchainCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Swapchain, error) {
	return create(func(sc *vk.Swapchain) vk.Result { return vk.CreateSwapchain(device, pCreateInfo, pAllocator, sc) })
}

func VkCreateImageView(device vk.Device, pCreateInfo *vk.ImageViewCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.ImageView, error) {
	return create(func(iv *vk.ImageView) vk.Result { return vk.CreateImageView(device, pCreateInfo, pAllocator, iv) })
}

func VkCreateRenderPass(device vk.Device, pCreateInfo *vk.RenderPassCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.RenderPass, error) {
	return create(func(pr *vk.RenderPass) vk.Result { return vk.CreateRenderPass(device, pCreateInfo, pAllocator, pr) })
}

func VkCreateFrameBuffer(device vk.Device, pCreateInfo *vk.FramebufferCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Framebuffer, error) {
	return create(func(fb *vk.Framebuffer) vk.Result { return vk.CreateFramebuffer(device, pCreateInfo, pAllocator, fb) })
}

func VkCreatePipelineLayout(device vk.Device, pCreateInfo *vk.PipelineLayoutCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.PipelineLayout, error) {
	return create(func(pl *vk.PipelineLayout) vk.Result { return vk.CreatePipelineLayout(device, pCreateInfo, pAllocator, pl) })
}

func VkCreateGraphicsPipelines(device vk.Device, pipelineCache vk.PipelineCache, createInfoCount uint32, pCreateInfos []vk.GraphicsPipelineCreateInfo, pAllocator *vk.AllocationCallbacks) ([]vk.Pipeline, error) {
	var gp = make([]vk.Pipeline, createInfoCount)
	err := vk.Error(vk.CreateGraphicsPipelines(device, pipelineCache, createInfoCount, pCreateInfos, pAllocator, gp))
	if err != nil {
		return nil, err
	}
	return gp, nil
}

func VkCreateCommandPool(device vk.Device, pCreateInfo *vk.CommandPoolCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.CommandPool, error) {
	return create(func(cp *vk.CommandPool) vk.Result { return vk.CreateCommandPool(device, pCreateInfo, pAllocator, cp) })
}

func VkCreateBuffer(device vk.Device, pCreateInfo *vk.BufferCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Buffer, error) {
	return create(func(buf *vk.Buffer) vk.Result { return vk.CreateBuffer(device, pCreateInfo, pAllocator, buf) })
}

func VkAllocateMemory(device vk.Device, pAllocateInfo *vk.MemoryAllocateInfo, pAllocator *vk.AllocationCallbacks) (vk.DeviceMemory, error) {
	return create(func(dm *vk.DeviceMemory) vk.Result { return vk.AllocateMemory(device, pAllocateInfo, pAllocator, dm) })
}

func VkBindBufferMemory(device vk.Device, buffer vk.Buffer, memory vk.DeviceMemory, memoryOffset vk.DeviceSize) error {
	return vk.Error(vk.BindBufferMemory(device, buffer, memory, memoryOffset))
}

func VkMapMemory(device vk.Device, memory vk.DeviceMemory, offset vk.DeviceSize, size vk.DeviceSize, flags vk.MemoryMapFlags) (unsafe.Pointer, error) {
	return create(func(pData *unsafe.Pointer) vk.Result { return vk.MapMemory(device, memory, offset, size, flags, pData) })
}

func VkCreateShaderModule(device vk.Device, pCreateInfo *vk.ShaderModuleCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.ShaderModule, error) {
	return create(func(sm *vk.ShaderModule) vk.Result { return vk.CreateShaderModule(device, pCreateInfo, pAllocator, sm) })
}

func VkCreateDescriptorSetLayout(device vk.Device, pCreateInfo *vk.DescriptorSetLayoutCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.DescriptorSetLayout, error) {
	return create(func(dsl *vk.DescriptorSetLayout) vk.Result { return vk.CreateDescriptorSetLayout(device, pCreateInfo, pAllocator, dsl) })
}

func VkCreateDescriptorPool(device vk.Device, pCreateInfo *vk.DescriptorPoolCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.DescriptorPool, error) {
	return create(func(dp *vk.DescriptorPool) vk.Result { return vk.CreateDescriptorPool(device, pCreateInfo, pAllocator, dp) })
}

func VkCreateSemaphore(device vk.Device, pCreateInfo *vk.SemaphoreCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Semaphore, error) {
	return create(func(sem *vk.Semaphore) vk.Result { return vk.CreateSemaphore(device, pCreateInfo, pAllocator, sem) })
}

func VkCreateFence(device vk.Device, pCreateInfo *vk.FenceCreateInfo, pAllocator *vk.AllocationCallbacks) (vk.Fence, error) {
	return create(func(fen *vk.Fence) vk.Result { return vk.CreateFence(device, pCreateInfo, pAllocator, fen) })
}
