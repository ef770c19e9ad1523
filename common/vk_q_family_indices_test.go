package common

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func family(bits vk.QueueFlagBits) vk.QueueFamilyProperties {
	return vk.QueueFamilyProperties{QueueFlags: vk.QueueFlags(bits), QueueCount: 1}
}

func presentOn(idx ...uint32) func(uint32) bool {
	return func(i uint32) bool {
		return inList(i, idx)
	}
}

func TestSelectQueueFamiliesShared(t *testing.T) {
	fams := []vk.QueueFamilyProperties{
		family(vk.QueueGraphicsBit),
		family(vk.QueueTransferBit),
		family(vk.QueueGraphicsBit | vk.QueueComputeBit),
	}
	// family 0 draws, family 1 presents, family 2 does both and wins
	q, err := selectQueueFamilies(fams, presentOn(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if *q.GraphicsFamily != 2 || *q.PresentFamily != 2 {
		t.Errorf("expected shared family 2, got graphics %d present %d", *q.GraphicsFamily, *q.PresentFamily)
	}
	if !q.isShared() {
		t.Errorf("families should be reported as shared")
	}
}

func TestSelectQueueFamiliesSplit(t *testing.T) {
	fams := []vk.QueueFamilyProperties{
		family(vk.QueueGraphicsBit),
		family(vk.QueueTransferBit),
	}
	q, err := selectQueueFamilies(fams, presentOn(1))
	if err != nil {
		t.Fatal(err)
	}
	if *q.GraphicsFamily != 0 || *q.PresentFamily != 1 {
		t.Errorf("expected graphics 0 and present 1, got %d and %d", *q.GraphicsFamily, *q.PresentFamily)
	}
	infos, err := q.toQueueCreateInfos()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 {
		t.Errorf("two distinct families need two queue create infos, got %d", len(infos))
	}
}

func TestSelectQueueFamiliesMissing(t *testing.T) {
	if _, err := selectQueueFamilies([]vk.QueueFamilyProperties{family(vk.QueueComputeBit)}, presentOn(0)); err == nil {
		t.Errorf("missing graphics family should fail")
	}
	if _, err := selectQueueFamilies([]vk.QueueFamilyProperties{family(vk.QueueGraphicsBit)}, presentOn()); err == nil {
		t.Errorf("missing present family should fail")
	}
}

func TestToQueueCreateInfosShared(t *testing.T) {
	idx := uint32(3)
	q := QueueFamilyIndices{GraphicsFamily: &idx, PresentFamily: &idx}
	infos, err := q.toQueueCreateInfos()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].QueueFamilyIndex != 3 {
		t.Errorf("shared family should produce a single create info for index 3, got %v", infos)
	}
	if _, err := (&QueueFamilyIndices{}).toQueueCreateInfos(); err == nil {
		t.Errorf("incomplete indices should fail")
	}
}

func TestInList(t *testing.T) {
	if !inList(2, []uint32{1, 2}) || inList(3, []uint32{1, 2}) || inList(0, nil) {
		t.Errorf("inList misbehaves")
	}
}
