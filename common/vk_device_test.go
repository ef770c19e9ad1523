package common

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func TestPickBestCandidate(t *testing.T) {
	if _, ok := pickBestCandidate(nil); ok {
		t.Errorf("no candidates should not yield a device")
	}
	candidates := []deviceCandidate{
		{score: rateDeviceType(vk.PhysicalDeviceTypeCpu)},
		{score: rateDeviceType(vk.PhysicalDeviceTypeIntegratedGpu)},
		{score: rateDeviceType(vk.PhysicalDeviceTypeDiscreteGpu)},
		{score: rateDeviceType(vk.PhysicalDeviceTypeDiscreteGpu)},
	}
	candidates[2].props.DeviceID = 2
	candidates[3].props.DeviceID = 3
	best, ok := pickBestCandidate(candidates)
	if !ok {
		t.Fatalf("expected a device")
	}
	if best.props.DeviceID != 2 {
		t.Errorf("first discrete gpu should win, got device %d", best.props.DeviceID)
	}
}

func TestPickBestCandidateIntegratedOnly(t *testing.T) {
	candidates := []deviceCandidate{
		{score: rateDeviceType(vk.PhysicalDeviceTypeOther)},
		{score: rateDeviceType(vk.PhysicalDeviceTypeIntegratedGpu)},
	}
	candidates[1].props.DeviceID = 7
	best, _ := pickBestCandidate(candidates)
	if best.props.DeviceID != 7 {
		t.Errorf("integrated gpu should be preferred over 'other', got device %d", best.props.DeviceID)
	}
}

func TestClampPointSize(t *testing.T) {
	tests := []struct {
		size  float32
		large bool
		rng   [2]float32
		want  float32
	}{
		{3, true, [2]float32{1, 64}, 3},
		{3, false, [2]float32{1, 64}, 1},
		{128, true, [2]float32{1, 64}, 64},
		{0.5, true, [2]float32{1, 64}, 1},
		{3, true, [2]float32{0, 0}, 3},
	}
	for i, tt := range tests {
		if got := clampPointSize(tt.size, tt.large, tt.rng); got != tt.want {
			t.Errorf("case %d: expected %.1f but got %.1f", i, tt.want, got)
		}
	}
}

func TestFetchQueuesMissingFamily(t *testing.T) {
	dc := &Device{}
	if err := dc.fetchQueues(); err == nil {
		t.Errorf("missing queue families should fail before any queue is fetched")
	}
}

func TestDestroyWithoutHandle(t *testing.T) {
	dc := &Device{}
	// No logical device exists, Destroy must not reach into Vulkan
	dc.Destroy()
	if dc.D != nil {
		t.Errorf("device handle should stay nil")
	}
}
