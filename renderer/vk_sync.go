package renderer

import (
	com "pointview/common"

	vk "github.com/goki/vulkan"
)

// frameSync holds the per frame in flight synchronization primitives.
type frameSync struct {
	imageAvailableSems []vk.Semaphore
	renderFinishedSems []vk.Semaphore
	inFlightFens       []vk.Fence
}

// syncFactory creates and destroys the primitives of a frameSync.
type syncFactory struct {
	newSemaphore     func() (vk.Semaphore, error)
	newFence         func() (vk.Fence, error)
	destroySemaphore func(vk.Semaphore)
	destroyFence     func(vk.Fence)
}

func deviceSyncFactory(d vk.Device) syncFactory {
	semCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
		PNext: nil,
		Flags: 0,
	}
	// Fences start signalled so the first wait of every frame returns immediately
	fenCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		PNext: nil,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}
	return syncFactory{
		newSemaphore:     func() (vk.Semaphore, error) { return com.VkCreateSemaphore(d, &semCreateInfo, nil) },
		newFence:         func() (vk.Fence, error) { return com.VkCreateFence(d, &fenCreateInfo, nil) },
		destroySemaphore: func(s vk.Semaphore) { vk.DestroySemaphore(d, s, nil) },
		destroyFence:     func(f vk.Fence) { vk.DestroyFence(d, f, nil) },
	}
}

// create builds n frames worth of primitives. On failure everything created so far is destroyed again.
func (f syncFactory) create(n int) (frameSync, error) {
	var s frameSync
	for i := 0; i < n; i++ {
		ias, err := f.newSemaphore()
		if err != nil {
			f.destroy(s)
			return frameSync{}, err
		}
		s.imageAvailableSems = append(s.imageAvailableSems, ias)
		rfs, err := f.newSemaphore()
		if err != nil {
			f.destroy(s)
			return frameSync{}, err
		}
		s.renderFinishedSems = append(s.renderFinishedSems, rfs)
		iff, err := f.newFence()
		if err != nil {
			f.destroy(s)
			return frameSync{}, err
		}
		s.inFlightFens = append(s.inFlightFens, iff)
	}
	return s, nil
}

// destroy tolerates slices of different length, as left behind by a failed create.
func (f syncFactory) destroy(s frameSync) {
	for _, sem := range s.imageAvailableSems {
		f.destroySemaphore(sem)
	}
	for _, sem := range s.renderFinishedSems {
		f.destroySemaphore(sem)
	}
	for _, fen := range s.inFlightFens {
		f.destroyFence(fen)
	}
}
