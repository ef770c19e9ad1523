package renderer

import (
	"fmt"

	com "pointview/common"
	"pointview/model"

	vk "github.com/goki/vulkan"
)

// DescriptorProvisioner owns the descriptor set layout, pool and sets that bind one uniform buffer per frame in
// flight to 'layout(binding = 0) uniform UniformBufferObject' in both shader stages.
type DescriptorProvisioner struct {
	device         vk.Device
	framesInFlight int

	layout vk.DescriptorSetLayout
	pool   vk.DescriptorPool
	sets   []vk.DescriptorSet
}

func NewDescriptorProvisioner(device vk.Device, framesInFlight int) *DescriptorProvisioner {
	return &DescriptorProvisioner{
		device:         device,
		framesInFlight: framesInFlight,
	}
}

// Destroy frees the pool (and with it all sets) and the layout. Null handles are ignored by Vulkan.
func (dp *DescriptorProvisioner) Destroy() {
	vk.DestroyDescriptorPool(dp.device, dp.pool, nil)
	vk.DestroyDescriptorSetLayout(dp.device, dp.layout, nil)
	dp.sets = nil
}

// uboLayoutBinding the vertex shader reads transform and point size, the fragment shader reads the color.
func uboLayoutBinding() vk.DescriptorSetLayoutBinding {
	return vk.DescriptorSetLayoutBinding{
		Binding:            0,                              // <- binding index in the shaders
		DescriptorType:     vk.DescriptorTypeUniformBuffer, // <- type of binding in the shaders
		DescriptorCount:    1,
		StageFlags:         vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit),
		PImmutableSamplers: nil,
	}
}

func (dp *DescriptorProvisioner) createDescriptorSetLayout() error {
	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		PNext:        nil,
		Flags:        0,
		BindingCount: 1,
		PBindings:    []vk.DescriptorSetLayoutBinding{uboLayoutBinding()},
	}
	dsl, err := com.VkCreateDescriptorSetLayout(dp.device, &layoutInfo, nil)
	if err != nil {
		return err
	}
	dp.layout = dsl
	return nil
}

func (dp *DescriptorProvisioner) createDescriptorPool() error {
	uboPoolSize := vk.DescriptorPoolSize{
		Type:            vk.DescriptorTypeUniformBuffer,
		DescriptorCount: uint32(dp.framesInFlight),
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PNext:         nil,
		Flags:         0,
		MaxSets:       uint32(dp.framesInFlight),
		PoolSizeCount: 1,
		PPoolSizes:    []vk.DescriptorPoolSize{uboPoolSize},
	}
	descp, err := com.VkCreateDescriptorPool(dp.device, &poolInfo, nil)
	if err != nil {
		return err
	}
	dp.pool = descp
	return nil
}

// allocDescriptorSets Allocates a list of descriptor sets of given layout from the stated pool
func (dp *DescriptorProvisioner) allocDescriptorSets(pool vk.DescriptorPool, layouts []vk.DescriptorSetLayout) ([]vk.DescriptorSet, error) {
	cnt := uint32(len(layouts))
	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		PNext:              nil,
		DescriptorPool:     pool,
		DescriptorSetCount: cnt,
		PSetLayouts:        layouts,
	}
	sets := make([]vk.DescriptorSet, cnt)
	if err := vk.Error(vk.AllocateDescriptorSets(dp.device, &allocInfo, &(sets[0]))); err != nil {
		return nil, err
	}
	return sets, nil
}

// createDescriptorSets allocates one set per frame in flight and points each at the uniform buffer of that frame.
func (dp *DescriptorProvisioner) createDescriptorSets(ubos []vk.Buffer) error {
	if len(ubos) != dp.framesInFlight {
		return fmt.Errorf("expected %d uniform buffers, got %d", dp.framesInFlight, len(ubos))
	}
	layouts := make([]vk.DescriptorSetLayout, dp.framesInFlight)
	for i := range layouts {
		layouts[i] = dp.layout
	}
	sets, err := dp.allocDescriptorSets(dp.pool, layouts)
	if err != nil {
		return err
	}
	dp.sets = sets

	for i := range ubos {
		bufferInfo := vk.DescriptorBufferInfo{
			Buffer: ubos[i],
			Offset: 0,
			Range:  model.SizeOfUbo(),
		}
		writes := []vk.WriteDescriptorSet{
			{
				SType:            vk.StructureTypeWriteDescriptorSet,
				PNext:            nil,
				DstSet:           dp.sets[i],
				DstBinding:       0,
				DstArrayElement:  0,
				DescriptorCount:  1,
				DescriptorType:   vk.DescriptorTypeUniformBuffer,
				PImageInfo:       nil,
				PBufferInfo:      []vk.DescriptorBufferInfo{bufferInfo},
				PTexelBufferView: nil,
			},
		}
		vk.UpdateDescriptorSets(dp.device, uint32(len(writes)), writes, 0, nil)
	}
	return nil
}
