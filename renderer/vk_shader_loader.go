package renderer

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"

	com "pointview/common"

	vk "github.com/goki/vulkan"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// LoadVert reads a '.spv' file with the expectation of it containing a vertex shader for later use in a
// render pipeline. For this, a shader module (containing the shader code) and its vk.PipelineShaderStageCreateInfo
// is returned. Which is required to bind the shader to the pipeline.
func LoadVert(d vk.Device, path string) (vk.ShaderModule, vk.PipelineShaderStageCreateInfo, error) {
	return loadStage(d, path, vk.ShaderStageVertexBit)
}

// LoadFrag is the fragment shader counterpart of LoadVert.
func LoadFrag(d vk.Device, path string) (vk.ShaderModule, vk.PipelineShaderStageCreateInfo, error) {
	return loadStage(d, path, vk.ShaderStageFragmentBit)
}

func loadStage(d vk.Device, path string, stage vk.ShaderStageFlagBits) (vk.ShaderModule, vk.PipelineShaderStageCreateInfo, error) {
	mod, err := readShaderCode(d, path)
	if err != nil {
		return nil, vk.PipelineShaderStageCreateInfo{}, err
	}
	stageInfo := vk.PipelineShaderStageCreateInfo{
		SType:               vk.StructureTypePipelineShaderStageCreateInfo,
		PNext:               nil,
		Flags:               0,
		Stage:               stage,
		Module:              mod,
		PName:               "main\x00", // entrypoint -> function name in the shader
		PSpecializationInfo: nil,
	}
	return mod, stageInfo, nil
}

// DeleteShaderMod discards a shader module. As vk.ShaderModule is only meant as a container to move the shader code
// onto device memory, it can be destroyed right after creating a shader stage when binding to a rendering pipeline.
func DeleteShaderMod(d vk.Device, mod vk.ShaderModule) {
	vk.DestroyShaderModule(d, mod, nil)
}

func readShaderCode(d vk.Device, shaderFile string) (vk.ShaderModule, error) {
	shaderCodeB, err := os.ReadFile(shaderFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader file '%s': %w", shaderFile, err)
	}
	if err = validateSpirv(shaderCodeB); err != nil {
		return nil, fmt.Errorf("shader file '%s': %w", shaderFile, err)
	}
	log.Printf("Read shader file (%s) of size: %dByte", shaderFile, len(shaderCodeB))

	createInfo := &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		PNext:    nil,
		Flags:    0,
		CodeSize: uint(len(shaderCodeB)),
		PCode:    com.AsUint32Arr(shaderCodeB),
	}
	module, err := com.VkCreateShaderModule(d, createInfo, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module '%s': %w", shaderFile, err)
	}
	return module, nil
}

// validateSpirv catches the usual mistakes, an uncompiled GLSL source or a truncated file, before the driver sees
// the code.
func validateSpirv(code []byte) error {
	if len(code) < 4 || len(code)%4 != 0 {
		return fmt.Errorf("SPIR-V size must be a non-zero multiple of 4, got %d Byte", len(code))
	}
	if binary.LittleEndian.Uint32(code) != spirvMagic {
		return fmt.Errorf("missing SPIR-V magic number, is the shader compiled?")
	}
	return nil
}
