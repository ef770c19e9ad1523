package common

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// Read operations that require duplicated function calls, allocations and dereferencing. They are pulled out to
// provide a more go-lang feel and tidy the core code.

// ReadInstanceExtensionPropertyNames is a convenience method obfuscating the spec defined []vk.ExtensionProperties
// type in favor of their respective names in order to simplify support checks to a point of string comparisons.
func ReadInstanceExtensionPropertyNames() ([]string, error) {
	supportedExts, err := readInstanceExtensionProperties()
	if err != nil {
		return nil, err
	}
	return extensionNames(supportedExts), nil
}

func readInstanceExtensionProperties() ([]vk.ExtensionProperties, error) {
	extensionCount := uint32(0)
	err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &extensionCount, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to read number of InstanceExtensionProperties: %w", err)
	}
	extensionProperties := make([]vk.ExtensionProperties, extensionCount)
	err = vk.Error(vk.EnumerateInstanceExtensionProperties("", &extensionCount, extensionProperties))
	if err != nil {
		return nil, fmt.Errorf("failed to read %d InstanceExtensionProperties: %w", extensionCount, err)
	}
	for i := range extensionProperties {
		extensionProperties[i].Deref()
	}
	return extensionProperties, nil
}

// ReadInstanceLayerProperties retrieves all supported instance (validation) layers with their names dereferenced.
func ReadInstanceLayerProperties() ([]vk.LayerProperties, error) {
	layerCount := uint32(0)
	err := vk.Error(vk.EnumerateInstanceLayerProperties(&layerCount, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to read number of InstanceLayerProperties: %w", err)
	}
	layers := make([]vk.LayerProperties, layerCount)
	err = vk.Error(vk.EnumerateInstanceLayerProperties(&layerCount, layers))
	if err != nil {
		return nil, fmt.Errorf("failed to read %d InstanceLayerProperties: %w", layerCount, err)
	}
	for i := range layers {
		layers[i].Deref()
	}
	return layers, nil
}

func layerNames(layers []vk.LayerProperties) []string {
	names := make([]string, len(layers))
	for i, l := range layers {
		names[i] = vk.ToString(l.LayerName[:])
	}
	return names
}

func extensionNames(ext []vk.ExtensionProperties) []string {
	names := make([]string, len(ext))
	for i, e := range ext {
		names[i] = vk.ToString(e.ExtensionName[:])
	}
	return names
}

// ReadPhysicalDevices lists every physical device the instance can see, it fails if there is none.
func ReadPhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var gpuCount uint32
	err := vk.Error(vk.EnumeratePhysicalDevices(instance, &gpuCount, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to read number of PhysicalDevices: %w", err)
	}
	if gpuCount == 0 {
		return nil, fmt.Errorf("%w: there are 0 physical devices available", ErrNoSuitableDevice)
	}
	physDevices := make([]vk.PhysicalDevice, gpuCount)
	err = vk.Error(vk.EnumeratePhysicalDevices(instance, &gpuCount, physDevices))
	if err != nil {
		return nil, fmt.Errorf("failed to read %d PhysicalDevices: %w", gpuCount, err)
	}
	return physDevices, nil
}

func ReadPhysicalDeviceProperties(pd vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	var pdProps vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &pdProps)
	pdProps.Deref()
	pdProps.Limits.Deref()
	return pdProps
}

func ReadPhysicalDeviceFeatures(pd vk.PhysicalDevice) vk.PhysicalDeviceFeatures {
	var pdFeatures vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(pd, &pdFeatures)
	pdFeatures.Deref()
	return pdFeatures
}

func ReadQueueFamilies(pd vk.PhysicalDevice) []vk.QueueFamilyProperties {
	qFamilyCount := uint32(0)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &qFamilyCount, nil)
	qFamilyProps := make([]vk.QueueFamilyProperties, qFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &qFamilyCount, qFamilyProps)
	for i := range qFamilyProps {
		qFamilyProps[i].Deref()
		qFamilyProps[i].MinImageTransferGranularity.Deref()
	}
	return qFamilyProps
}

func ReadDeviceExtensionProperties(pd vk.PhysicalDevice) ([]vk.ExtensionProperties, error) {
	extensionCount := uint32(0)
	err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &extensionCount, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to read number of DeviceExtensionProperties: %w", err)
	}
	extensionProperties := make([]vk.ExtensionProperties, extensionCount)
	err = vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &extensionCount, extensionProperties))
	if err != nil {
		return nil, fmt.Errorf("failed to read %d DeviceExtensionProperties: %w", extensionCount, err)
	}
	for i := range extensionProperties {
		extensionProperties[i].Deref()
	}
	return extensionProperties, nil
}

func ReadSwapChainSupportDetails(pd vk.PhysicalDevice, surface vk.Surface) SwapChainDetails {
	scDetails := SwapChainDetails{}
	vk.GetPhysicalDeviceSurfaceCapabilities(pd, surface, &scDetails.Capabilities)
	scDetails.Capabilities.Deref()
	scDetails.Capabilities.CurrentExtent.Deref()
	scDetails.Capabilities.MinImageExtent.Deref()
	scDetails.Capabilities.MaxImageExtent.Deref()

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &formatCount, nil)
	scDetails.Formats = make([]vk.SurfaceFormat, formatCount)
	vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &formatCount, scDetails.Formats)
	for i := range scDetails.Formats {
		scDetails.Formats[i].Deref()
	}

	var presentModeCount uint32
	vk.GetPhysicalDeviceSurfacePresentModes(pd, surface, &presentModeCount, nil)
	scDetails.PresentModes = make([]vk.PresentMode, presentModeCount)
	vk.GetPhysicalDeviceSurfacePresentModes(pd, surface, &presentModeCount, scDetails.PresentModes)

	return scDetails
}

func ReadSwapChainImages(device vk.Device, swapChain vk.Swapchain) ([]vk.Image, error) {
	var imgCount uint32
	err := vk.Error(vk.GetSwapchainImages(device, swapChain, &imgCount, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to read number of swap chain images: %w", err)
	}
	imgs := make([]vk.Image, imgCount)
	err = vk.Error(vk.GetSwapchainImages(device, swapChain, &imgCount, imgs))
	if err != nil {
		return nil, fmt.Errorf("failed to read %d swap chain images: %w", imgCount, err)
	}
	return imgs, nil
}

func ReadDeviceMemoryProperties(pd vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	var pdMemProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &pdMemProps)
	pdMemProps.Deref()
	for i := range pdMemProps.MemoryTypes {
		pdMemProps.MemoryTypes[i].Deref()
	}
	for i := range pdMemProps.MemoryHeaps {
		pdMemProps.MemoryHeaps[i].Deref()
	}
	return pdMemProps
}

func ReadBufferMemoryRequirements(device vk.Device, b vk.Buffer) vk.MemoryRequirements {
	var memRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, b, &memRequirements)
	memRequirements.Deref()
	return memRequirements
}
