package renderer

import (
	"errors"
	"testing"

	vk "github.com/goki/vulkan"
)

// countingFactory hands out nil handles and fails the creation with the given call number (1 based, 0 never).
type countingFactory struct {
	calls, failAt      int
	semaphores, fences int
}

func (cf *countingFactory) factory() syncFactory {
	next := func() error {
		cf.calls++
		if cf.calls == cf.failAt {
			return errors.New("out of memory")
		}
		return nil
	}
	return syncFactory{
		newSemaphore: func() (vk.Semaphore, error) {
			if err := next(); err != nil {
				return nil, err
			}
			cf.semaphores++
			return nil, nil
		},
		newFence: func() (vk.Fence, error) {
			if err := next(); err != nil {
				return nil, err
			}
			cf.fences++
			return nil, nil
		},
		destroySemaphore: func(vk.Semaphore) { cf.semaphores-- },
		destroyFence:     func(vk.Fence) { cf.fences-- },
	}
}

func TestSyncFactoryCreate(t *testing.T) {
	cf := &countingFactory{}
	s, err := cf.factory().create(2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(s.imageAvailableSems) != 2 || len(s.renderFinishedSems) != 2 || len(s.inFlightFens) != 2 {
		t.Errorf("expected 2 of each primitive, got %d/%d/%d",
			len(s.imageAvailableSems), len(s.renderFinishedSems), len(s.inFlightFens))
	}
	cf.factory().destroy(s)
	if cf.semaphores != 0 || cf.fences != 0 {
		t.Errorf("destroy left %d semaphores and %d fences", cf.semaphores, cf.fences)
	}
}

func TestSyncFactoryCreateFailureReleases(t *testing.T) {
	// 3 primitives per frame, every position of the second frame fails once
	for failAt := 4; failAt <= 6; failAt++ {
		cf := &countingFactory{failAt: failAt}
		s, err := cf.factory().create(2)
		if err == nil {
			t.Fatalf("failAt %d: expected an error", failAt)
		}
		if cf.semaphores != 0 || cf.fences != 0 {
			t.Errorf("failAt %d: leaked %d semaphores and %d fences", failAt, cf.semaphores, cf.fences)
		}
		if len(s.imageAvailableSems)+len(s.renderFinishedSems)+len(s.inFlightFens) != 0 {
			t.Errorf("failAt %d: failed create should return an empty frameSync", failAt)
		}
	}
}
