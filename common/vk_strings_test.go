package common

import (
	"reflect"
	"strings"
	"testing"

	vk "github.com/goki/vulkan"
)

func TestAsVendorName(t *testing.T) {
	tests := map[vk.VendorId]string{
		0x10DE:  "NVIDIA",
		0x1002:  "AMD",
		0x8086:  "INTEL",
		0x10005: "Mesa",
		0x1234:  "unknown",
	}
	for id, want := range tests {
		if got := asVendorName(id); got != want {
			t.Errorf("vendor %#x should be %s but was %s", id, want, got)
		}
	}
}

func TestNvidiaVer(t *testing.T) {
	// 535.104.5.0 as packed by the nvidia driver
	raw := uint32(535)<<22 | uint32(104)<<14 | uint32(5)<<6
	if got := nvidiaVer(raw); got != "535.104.5.0" {
		t.Errorf("expected 535.104.5.0 but got %s", got)
	}
	if got := asDriverVersion(0x10DE, raw); got != "535.104.5.0" {
		t.Errorf("nvidia driver version not decoded: %s", got)
	}
}

func TestToStringDeviceType(t *testing.T) {
	if s := toStringDeviceType(vk.PhysicalDeviceTypeDiscreteGpu); s != "discrete Gpu" {
		t.Errorf("unexpected name %s", s)
	}
	if s := toStringDeviceType(vk.PhysicalDeviceType(42)); s != "unknown" {
		t.Errorf("unexpected name %s", s)
	}
}

func TestToStringQueueFlags(t *testing.T) {
	got := toStringQueueFlags(vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueTransferBit))
	want := []string{"VK_QUEUE_GRAPHICS_BIT", "VK_QUEUE_TRANSFER_BIT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v but got %v", want, got)
	}
}

func TestToStringPhysicalDeviceTable(t *testing.T) {
	var props vk.PhysicalDeviceProperties
	copy(props.DeviceName[:], "Test GPU")
	props.DeviceType = vk.PhysicalDeviceTypeIntegratedGpu
	props.Limits.PointSizeRange = [2]float32{1, 64}
	features := vk.PhysicalDeviceFeatures{LargePoints: vk.True}
	qf := []vk.QueueFamilyProperties{
		{QueueFlags: vk.QueueFlags(vk.QueueGraphicsBit), QueueCount: 1},
		{QueueFlags: vk.QueueFlags(vk.QueueTransferBit), QueueCount: 2},
	}
	s := ToStringPhysicalDeviceTable(props, features, qf)
	for _, want := range []string{"Test GPU:", "integrated Gpu", "largePoints: true", "[1.0, 64.0]", "| Qfamily[0]", "|_Qfamily[1]"} {
		if !strings.Contains(s, want) {
			t.Errorf("table is missing %q:\n%s", want, s)
		}
	}
}
