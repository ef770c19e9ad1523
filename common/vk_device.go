package common

import (
	"errors"
	"fmt"
	"log"

	vk "github.com/goki/vulkan"
)

// ErrNoSuitableDevice is returned when no physical device can draw to and present on the window surface.
var ErrNoSuitableDevice = errors.New("no suitable physical device (GPU) found")

var DEVICE_EXTENSIONS = []string{
	"VK_KHR_swapchain",
}

// Device represents the interfacing objects between the SDL window, the Hardware running Vulkan
// and the rest of the rendering engine. Its main purpose is to encapsulate the corresponding objects
// to make the initialization and teardown of a given application neater.
type Device struct {
	PD            vk.PhysicalDevice
	PdProps       vk.PhysicalDeviceProperties
	PdFeatures    vk.PhysicalDeviceFeatures
	PdMemoryProps vk.PhysicalDeviceMemoryProperties
	QFamilies     QueueFamilyIndices

	// LargePoints is set when point sizes other than 1.0 were enabled on the logical device.
	LargePoints bool

	D         vk.Device
	GraphicsQ vk.Queue
	PresentQ  vk.Queue
}

// NewDevice picks a physical device able to render to the window's surface and creates the logical device with
// its graphics and present queues.
func NewDevice(w *Window) (*Device, error) {
	dc := &Device{}
	if err := dc.selectPhysicalDevice(w.Inst, w.Surf); err != nil {
		return nil, err
	}
	if err := dc.createLogicalDevice(w.ValidationLayers); err != nil {
		return nil, err
	}
	return dc, nil
}

// Destroy all objects created by itself. It does not destroy the Window provided for instantiation.
func (dc *Device) Destroy() {
	if dc.D == nil {
		return
	}
	vk.DestroyDevice(dc.D, nil)
	dc.D = nil
}

// ClampPointSize limits a requested point size to what the device rasterizes.
func (dc *Device) ClampPointSize(size float32) float32 {
	return clampPointSize(size, dc.LargePoints, dc.PdProps.Limits.PointSizeRange)
}

func clampPointSize(size float32, largePoints bool, sizeRange [2]float32) float32 {
	if !largePoints {
		return 1
	}
	if size < sizeRange[0] {
		return sizeRange[0]
	}
	if sizeRange[1] > 0 && size > sizeRange[1] {
		return sizeRange[1]
	}
	return size
}

type deviceCandidate struct {
	pd    vk.PhysicalDevice
	props vk.PhysicalDeviceProperties
	score int
}

func (dc *Device) selectPhysicalDevice(in vk.Instance, su vk.Surface) error {
	availableDevices, err := ReadPhysicalDevices(in)
	if err != nil {
		return err
	}
	var candidates []deviceCandidate
	for i := range availableDevices {
		props := ReadPhysicalDeviceProperties(availableDevices[i])
		if !isDeviceSuitable(availableDevices[i], props, su) {
			continue
		}
		candidates = append(candidates, deviceCandidate{
			pd:    availableDevices[i],
			props: props,
			score: rateDeviceType(props.DeviceType),
		})
	}
	best, ok := pickBestCandidate(candidates)
	if !ok {
		return ErrNoSuitableDevice
	}
	log.Printf("Selected device \"%s\" (%s)", vk.ToString(best.props.DeviceName[:]), toStringDeviceType(best.props.DeviceType))
	dc.PD = best.pd

	// Also set related member variables for dc.PD as they are needed later
	qf, err := findQueueFamilies(dc.PD, su)
	if err != nil {
		return fmt.Errorf("failed to read queue families from selected device: %w", err)
	}
	dc.QFamilies = *qf
	dc.PdProps = best.props
	dc.PdFeatures = ReadPhysicalDeviceFeatures(dc.PD)
	dc.PdMemoryProps = ReadDeviceMemoryProperties(dc.PD)
	return nil
}

// rateDeviceType orders device types, dedicated hardware first.
func rateDeviceType(dt vk.PhysicalDeviceType) int {
	switch dt {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return 3
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return 2
	case vk.PhysicalDeviceTypeVirtualGpu:
		return 1
	default:
		return 0
	}
}

// pickBestCandidate returns the highest rated candidate, the first one wins a tie.
func pickBestCandidate(candidates []deviceCandidate) (deviceCandidate, bool) {
	if len(candidates) == 0 {
		return deviceCandidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return best, true
}

func isDeviceSuitable(pd vk.PhysicalDevice, pdProps vk.PhysicalDeviceProperties, su vk.Surface) bool {
	pdFeatures := ReadPhysicalDeviceFeatures(pd)
	pdQueueFams := ReadQueueFamilies(pd)

	log.Printf("Physical device\n%s", ToStringPhysicalDeviceTable(pdProps, pdFeatures, pdQueueFams))

	indices, err := findQueueFamilies(pd, su)
	if err != nil {
		log.Printf("Failed to get required queue families: %s", err)
		return false
	}
	extensionsSupported, err := checkDeviceExtensionSupport(pd, DEVICE_EXTENSIONS)
	if err != nil {
		log.Printf("Failed to check device extensions: %s", err)
		return false
	}
	isSwapChainAdequate := false
	if extensionsSupported {
		isSwapChainAdequate = checkSwapChainAdequacy(pd, su)
	}
	return indices.isAllQueuesFound() && extensionsSupported && isSwapChainAdequate
}

func (dc *Device) createLogicalDevice(validationLayers []string) error {
	queueInfos, err := dc.QFamilies.toQueueCreateInfos()
	if err != nil {
		return err
	}
	// Points larger than 1px need largePoints, without it the viewer falls back to single pixel points
	deviceFeatures := vk.PhysicalDeviceFeatures{}
	if dc.PdFeatures.LargePoints == vk.True {
		deviceFeatures.LargePoints = vk.True
		dc.LargePoints = true
	} else {
		log.Printf("Device does not support large points, points will be drawn with size 1")
	}
	deviceCreatInfo := &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledLayerCount:       uint32(len(validationLayers)),
		PpEnabledLayerNames:     TerminatedStrs(validationLayers),
		EnabledExtensionCount:   uint32(len(DEVICE_EXTENSIONS)),
		PpEnabledExtensionNames: TerminatedStrs(DEVICE_EXTENSIONS),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
	}

	dc.D, err = VkCreateDevice(dc.PD, deviceCreatInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create logical device: %w", err)
	}
	if err = dc.fetchQueues(); err != nil {
		dc.Destroy()
		return err
	}
	log.Printf("Created logical device (graphics queue family: %d, present queue family: %d)",
		*dc.QFamilies.GraphicsFamily, *dc.QFamilies.PresentFamily)
	return nil
}

func (dc *Device) fetchQueues() error {
	var err error
	dc.GraphicsQ, err = VkGetDeviceQueue(dc.D, dc.QFamilies.GraphicsFamily, 0)
	if err != nil {
		return fmt.Errorf("failed to get 'graphics' device queue: %w", err)
	}
	dc.PresentQ, err = VkGetDeviceQueue(dc.D, dc.QFamilies.PresentFamily, 0)
	if err != nil {
		return fmt.Errorf("failed to get 'present' device queue: %w", err)
	}
	return nil
}

func checkDeviceExtensionSupport(pd vk.PhysicalDevice, requiredDeviceExt []string) (bool, error) {
	supportedExt, err := ReadDeviceExtensionProperties(pd)
	if err != nil {
		return false, err
	}
	log.Printf("Required device extensions: %v", requiredDeviceExt)
	log.Printf("Available device extensions (%d) [...]", len(supportedExt))
	return AllOfAinB(requiredDeviceExt, extensionNames(supportedExt)), nil
}
