package common

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func memProps(flags ...vk.MemoryPropertyFlagBits) vk.PhysicalDeviceMemoryProperties {
	var p vk.PhysicalDeviceMemoryProperties
	p.MemoryTypeCount = uint32(len(flags))
	for i, f := range flags {
		p.MemoryTypes[i] = vk.MemoryType{PropertyFlags: vk.MemoryPropertyFlags(f)}
	}
	return p
}

func TestFindMemoryType(t *testing.T) {
	props := memProps(
		vk.MemoryPropertyDeviceLocalBit,
		vk.MemoryPropertyHostVisibleBit,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit,
	)
	hostVisCoh := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)

	i, err := findMemoryType(props, 0b111, hostVisCoh)
	if err != nil || i != 2 {
		t.Errorf("expected type 2 but got %d (%v)", i, err)
	}
	i, err = findMemoryType(props, 0b111, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil || i != 0 {
		t.Errorf("expected type 0 but got %d (%v)", i, err)
	}
	// the buffer rules out type 2
	if _, err = findMemoryType(props, 0b011, hostVisCoh); err == nil {
		t.Errorf("filtered out memory type should not be selected")
	}
}

func TestBufferIsHostVisible(t *testing.T) {
	b := Buffer{props: vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)}
	if b.IsHostVisible() {
		t.Errorf("host visible without coherent should not count")
	}
	b.props |= vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit)
	if !b.IsHostVisible() {
		t.Errorf("host visible and coherent buffer should be mappable")
	}
}
