package common

import (
	"encoding/hex"
	"fmt"
	"strings"

	vk "github.com/goki/vulkan"
)

// Formatting helpers for the device and layer tables printed during start up.

func tableStringLayerProps(lay []vk.LayerProperties) string {
	strBuilder := strings.Builder{}
	for i := range lay {
		strBuilder.WriteString(fmt.Sprintf(" %s\n", toStringLayerPropsTable(lay[i])))
	}
	return strBuilder.String()
}

func toStringLayerPropsTable(l vk.LayerProperties) string {
	return fmt.Sprintf(
		"%-40sspec: %8s   impl: %8s   %s",
		vk.ToString(l.LayerName[:]),
		vk.Version(l.SpecVersion).String(),
		vk.Version(l.ImplementationVersion).String(),
		vk.ToString(l.Description[:]),
	)
}

// ToStringPhysicalDeviceTable renders a device, the features relevant for point rendering and its
// queue families as a small tree.
func ToStringPhysicalDeviceTable(
	pdProps vk.PhysicalDeviceProperties,
	pdFeatures vk.PhysicalDeviceFeatures,
	qFamilies []vk.QueueFamilyProperties,
) string {
	strBuilder := strings.Builder{}
	for i := range qFamilies {
		prefix := "| "
		if i == len(qFamilies)-1 {
			prefix = "|_"
		}
		strBuilder.WriteString(fmt.Sprintf("%sQfamily[%d] %s\n", prefix, i, toStringQueueFamilyPropsTable(qFamilies[i])))
	}
	return fmt.Sprintf(
		"%s:\n|_%s\n|_%s\n%s",
		vk.ToString(pdProps.DeviceName[:]),
		toStringPhysicalDevicePropsTable(pdProps),
		toStringPointFeatures(pdFeatures, pdProps.Limits),
		strBuilder.String(),
	)
}

// There seem to only be a handful of vendors and Ids as stated in:
// https://www.reddit.com/r/vulkan/comments/4ta9nj/is_there_a_comprehensive_list_of_the_names_and/
var vendorNames = map[vk.VendorId]string{
	0x1002:  "AMD",
	0x1010:  "ImgTec",
	0x10DE:  "NVIDIA",
	0x13B5:  "ARM",
	0x5143:  "Qualcomm",
	0x8086:  "INTEL",
	0x10005: "Mesa",
}

func asVendorName(v vk.VendorId) string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return "unknown"
}

func asDriverVersion(vendor vk.VendorId, raw uint32) string {
	// Only nvidia encodes its driver version differently
	if vendor == 0x10DE {
		return nvidiaVer(raw)
	}
	return vk.Version(raw).String()
}

func nvidiaVer(i uint32) string {
	return fmt.Sprintf(
		"%d.%d.%d.%d",
		(i>>22)&0x3ff,
		(i>>14)&0x0ff,
		(i>>6)&0x0ff,
		i&0x003f,
	)
}

func toStringPhysicalDevicePropsTable(pdProps vk.PhysicalDeviceProperties) string {
	return fmt.Sprintf("api: %s, driver: %s, vendorId: %d (%s), deviceId: %d, deviceType: %d (%s), UUID: %v",
		vk.Version(pdProps.ApiVersion).String(),
		asDriverVersion(vk.VendorId(pdProps.VendorID), pdProps.DriverVersion),
		vk.VendorId(pdProps.VendorID),
		asVendorName(vk.VendorId(pdProps.VendorID)),
		pdProps.DeviceID,
		pdProps.DeviceType,
		toStringDeviceType(pdProps.DeviceType),
		hex.EncodeToString(pdProps.PipelineCacheUUID[:]),
	)
}

func toStringPointFeatures(pdFeatures vk.PhysicalDeviceFeatures, limits vk.PhysicalDeviceLimits) string {
	return fmt.Sprintf("largePoints: %t, pointSizeRange: [%.1f, %.1f], pointSizeGranularity: %.3f",
		pdFeatures.LargePoints == vk.True,
		limits.PointSizeRange[0],
		limits.PointSizeRange[1],
		limits.PointSizeGranularity,
	)
}

var deviceTypeNames = map[vk.PhysicalDeviceType]string{
	vk.PhysicalDeviceTypeOther:         "other",
	vk.PhysicalDeviceTypeIntegratedGpu: "integrated Gpu",
	vk.PhysicalDeviceTypeDiscreteGpu:   "discrete Gpu",
	vk.PhysicalDeviceTypeVirtualGpu:    "virtual Gpu",
	vk.PhysicalDeviceTypeCpu:           "cpu",
}

func toStringDeviceType(dt vk.PhysicalDeviceType) string {
	if name, ok := deviceTypeNames[dt]; ok {
		return name
	}
	return "unknown"
}

func toStringMemoryRequirements(mr vk.MemoryRequirements) string {
	return fmt.Sprintf("MemoryRequirements(Size:%d Byte, Alignment:%d Byte, MemTypeBits:[%032b])", mr.Size, mr.Alignment, mr.MemoryTypeBits)
}

func toStringQueueFamilyPropsTable(q vk.QueueFamilyProperties) string {
	return fmt.Sprintf(
		"Count: %2d, Valid ts bits: %d, ImageGranularity: (%d,%d,%d), Flags: %v",
		q.QueueCount,
		q.TimestampValidBits,
		q.MinImageTransferGranularity.Width,
		q.MinImageTransferGranularity.Height,
		q.MinImageTransferGranularity.Depth,
		toStringQueueFlags(q.QueueFlags),
	)
}

// queueFlagNames is ordered by bit value so the output is stable.
var queueFlagNames = []struct {
	bit  vk.QueueFlagBits
	name string
}{
	{vk.QueueGraphicsBit, "VK_QUEUE_GRAPHICS_BIT"},
	{vk.QueueComputeBit, "VK_QUEUE_COMPUTE_BIT"},
	{vk.QueueTransferBit, "VK_QUEUE_TRANSFER_BIT"},
	{vk.QueueSparseBindingBit, "VK_QUEUE_SPARSE_BINDING_BIT"},
	{vk.QueueProtectedBit, "VK_QUEUE_PROTECTED_BIT"},
}

func toStringQueueFlags(bits vk.QueueFlags) []string {
	var properties []string
	for _, f := range queueFlagNames {
		if vk.QueueFlagBits(bits)&f.bit != 0 {
			properties = append(properties, f.name)
		}
	}
	return properties
}
