package common

import (
	"errors"

	vk "github.com/goki/vulkan"
)

type QueueFamilyIndices struct {
	GraphicsFamily *uint32
	PresentFamily  *uint32
}

func findQueueFamilies(pd vk.PhysicalDevice, surf vk.Surface) (*QueueFamilyIndices, error) {
	qFamilies := ReadQueueFamilies(pd)
	return selectQueueFamilies(qFamilies, func(i uint32) bool {
		var presentSupport vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(pd, i, surf, &presentSupport)
		return presentSupport > 0
	})
}

// selectQueueFamilies picks the first graphics capable family and the first family able to present. A family
// offering both is preferred over two separate ones, so the swap chain can stay in exclusive mode.
func selectQueueFamilies(qFamilies []vk.QueueFamilyProperties, canPresent func(uint32) bool) (*QueueFamilyIndices, error) {
	indices := &QueueFamilyIndices{}
	for i := range qFamilies {
		idx := uint32(i)
		graphics := isBitSet(qFamilies[i], vk.QueueGraphicsBit)
		present := canPresent(idx)
		if graphics && present {
			indices.GraphicsFamily = &idx
			indices.PresentFamily = &idx
			return indices, nil
		}
		if indices.GraphicsFamily == nil && graphics {
			indices.GraphicsFamily = &idx
		}
		if indices.PresentFamily == nil && present {
			indices.PresentFamily = &idx
		}
	}
	if indices.GraphicsFamily == nil {
		return nil, errors.New("unable to find graphics capable queue family")
	}
	if indices.PresentFamily == nil {
		return nil, errors.New("unable to find present capable queue family for given surface")
	}
	return indices, nil
}

func isBitSet(qFamily vk.QueueFamilyProperties, bit vk.QueueFlagBits) bool {
	return vk.QueueFlagBits(qFamily.QueueFlags)&bit > 0
}

func (q *QueueFamilyIndices) isAllQueuesFound() bool {
	return q.GraphicsFamily != nil && q.PresentFamily != nil
}

// isShared reports whether graphics and presentation run on the same family.
func (q *QueueFamilyIndices) isShared() bool {
	return q.isAllQueuesFound() && *q.GraphicsFamily == *q.PresentFamily
}

func (q *QueueFamilyIndices) toQueueCreateInfos() ([]vk.DeviceQueueCreateInfo, error) {
	if !q.isAllQueuesFound() {
		return nil, errors.New("queue family indices are incomplete")
	}
	var uniqIndices []uint32
	for _, idx := range []uint32{*q.GraphicsFamily, *q.PresentFamily} {
		if !inList(idx, uniqIndices) {
			uniqIndices = append(uniqIndices, idx)
		}
	}
	infos := make([]vk.DeviceQueueCreateInfo, len(uniqIndices))
	for i := range uniqIndices {
		infos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			PNext:            nil,
			Flags:            0,
			QueueFamilyIndex: uniqIndices[i],
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}
	return infos, nil
}

func inList(e uint32, l []uint32) bool {
	for i := range l {
		if l[i] == e {
			return true
		}
	}
	return false
}
