package common

import (
	"fmt"
	"log"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// This Code section contains allocation helper functions. It aims to simplify the allocation of buffers on the
// selected device.

type Buffer struct {
	Handle    vk.Buffer
	DeviceMem vk.DeviceMemory
	Size      vk.DeviceSize
	Usage     vk.BufferUsageFlags
	props     vk.MemoryPropertyFlags
}

func CreateBuffer(dc *Device, size vk.DeviceSize, usage vk.BufferUsageFlags, props vk.MemoryPropertyFlags) (*Buffer, error) {
	// Buffer Handle of fitting Size
	bufferInfo := vk.BufferCreateInfo{
		SType:                 vk.StructureTypeBufferCreateInfo,
		PNext:                 nil,
		Flags:                 0,
		Size:                  size,
		Usage:                 usage,
		SharingMode:           vk.SharingModeExclusive,
		QueueFamilyIndexCount: 0,
		PQueueFamilyIndices:   nil,
	}
	buf, err := VkCreateBuffer(dc.D, &bufferInfo, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer of %d Byte: %w", size, err)
	}

	bufRequirements := ReadBufferMemoryRequirements(dc.D, buf)
	memType, err := findMemoryType(dc.PdMemoryProps, bufRequirements.MemoryTypeBits, props)
	if err != nil {
		vk.DestroyBuffer(dc.D, buf, nil)
		return nil, fmt.Errorf("%w for %s", err, toStringMemoryRequirements(bufRequirements))
	}

	// Allocate device memory
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		PNext:           nil,
		AllocationSize:  bufRequirements.Size,
		MemoryTypeIndex: memType,
	}
	deviceMem, err := VkAllocateMemory(dc.D, &allocInfo, nil)
	if err != nil {
		vk.DestroyBuffer(dc.D, buf, nil)
		return nil, fmt.Errorf("failed to allocate buffer memory: %w", err)
	}

	// Associate allocated memory with buffer Handle
	if err = VkBindBufferMemory(dc.D, buf, deviceMem, 0); err != nil {
		vk.DestroyBuffer(dc.D, buf, nil)
		vk.FreeMemory(dc.D, deviceMem, nil)
		return nil, fmt.Errorf("failed to bind device memory to buffer handle: %w", err)
	}

	return &Buffer{
		Handle:    buf,
		DeviceMem: deviceMem,
		Size:      size,
		Usage:     usage,
		props:     props,
	}, nil
}

// IsHostVisible reports whether the CPU can map the memory of this buffer without explicit flushes.
func (b *Buffer) IsHostVisible() bool {
	want := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	return b.props&want == want
}

// CopyToDeviceBuffer is a convenience method to simplify the process of mapping device memory to CPU memory,
// copy bytes over to the GPU and unmapping the memory again. This requires the buffer to:
// - have the stated Usage: vk.BufferUsageTransferSrcBit
// - be: vk.MemoryPropertyHostVisibleBit and vk.MemoryPropertyHostCoherentBit
func CopyToDeviceBuffer(dc *Device, deviceBuf *Buffer, payload []byte) error {
	hasTransferUsage := deviceBuf.Usage&vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit) != 0
	if !(hasTransferUsage && deviceBuf.IsHostVisible()) {
		return fmt.Errorf("buffer is not a host visible transfer source")
	}
	// This function only allows to copy a "full buffer" worth of payload starting at offset = 0
	if deviceBuf.Size != vk.DeviceSize(uint64(len(payload))) {
		return fmt.Errorf("buffer (%d Byte) and payload (%d Byte) differ in size", deviceBuf.Size, len(payload))
	}
	// Map -> copy -> Unmap
	pData, err := VkMapMemory(dc.D, deviceBuf.DeviceMem, 0, deviceBuf.Size, 0)
	if err != nil {
		return fmt.Errorf("failed to map device memory: %w", err)
	}
	bCopied := vk.Memcopy(pData, payload)
	log.Printf("Copied %d Byte from cpu to device", bCopied)
	vk.UnmapMemory(dc.D, deviceBuf.DeviceMem)
	return nil
}

// MapPersistent maps the whole buffer and leaves it mapped, the pointer stays valid until DestroyBuffer.
func MapPersistent(dc *Device, b *Buffer) (unsafe.Pointer, error) {
	if !b.IsHostVisible() {
		return nil, fmt.Errorf("buffer is not host visible")
	}
	return VkMapMemory(dc.D, b.DeviceMem, 0, b.Size, 0)
}

func DestroyBuffer(dc *Device, buffer *Buffer) {
	vk.DestroyBuffer(dc.D, buffer.Handle, nil)
	vk.FreeMemory(dc.D, buffer.DeviceMem, nil)
}

func findMemoryType(memProps vk.PhysicalDeviceMemoryProperties, typeFilter uint32, propFlags vk.MemoryPropertyFlags) (uint32, error) {
	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		ofType := (typeFilter & (1 << i)) > 0
		hasProperties := memProps.MemoryTypes[i].PropertyFlags&propFlags == propFlags
		if ofType && hasProperties {
			return i, nil
		}
	}
	return 0, fmt.Errorf("failed to find suitable memory type (filter: %032b, flags: %d)", typeFilter, propFlags)
}
