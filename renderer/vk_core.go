package renderer

import (
	"fmt"
	"log"
	"math"
	"time"
	"unsafe"

	com "pointview/common"
	"pointview/config"
	"pointview/model"

	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
)

type Core struct {
	cfg config.Config

	// OS/Window level
	Win    *com.Window
	device *com.Device

	// Target level
	swapChain *com.SwapChain

	// Drawing infrastructure level
	renderPass     vk.RenderPass
	descriptors    *DescriptorProvisioner
	pipelineLayout vk.PipelineLayout
	pipelines      []vk.Pipeline
	commandPool    vk.CommandPool

	// Frame level
	framesInFlight  int
	commandBuffers  []vk.CommandBuffer
	currentFrameIdx int
	frameSync

	// Data level
	ubo                  model.UniformBufferObject
	uniformBuffers       []*com.Buffer
	uniformBuffersMapped []unsafe.Pointer

	// Scene
	clouds []*model.PointCloud
}

// Externally facing functions

// NewRenderCore opens the window and builds everything needed to draw point clouds with the given configuration.
// Whatever was created before a failing step is torn down again.
func NewRenderCore(cfg config.Config) (*Core, error) {
	c := &Core{
		cfg:            cfg,
		framesInFlight: clampFramesInFlight(cfg.FramesInFlight),
	}
	if err := c.Initialize(); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}

func clampFramesInFlight(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (c *Core) Initialize() error {
	var err error
	c.Win, err = com.NewWindow(c.cfg.Title, c.cfg.Width, c.cfg.Height, c.cfg.EnableValidation, c.cfg.ValidationLayers)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	c.device, err = com.NewDevice(c.Win)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	c.swapChain, err = com.NewSwapChain(c.device, c.Win)
	if err != nil {
		return fmt.Errorf("failed to create swap chain: %w", err)
	}

	c.descriptors = NewDescriptorProvisioner(c.device.D, c.framesInFlight)
	steps := []struct {
		name string
		fn   func() error
	}{
		{"render pass", c.createRenderPass},
		{"descriptor set layout", c.descriptors.createDescriptorSetLayout},
		{"graphics pipeline", c.createGraphicsPipeline},
		{"frame buffers", c.createFrameBuffers},
		{"command pool", c.createCommandPool},
		{"uniform buffers", c.createUniformBuffers},
		{"descriptor pool", c.descriptors.createDescriptorPool},
		{"descriptor sets", func() error { return c.descriptors.createDescriptorSets(c.uniformBufferHandles()) }},
		{"command buffers", c.createCommandBuffers},
		{"sync objects", c.createSyncObjects},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return fmt.Errorf("failed to create %s: %w", s.name, err)
		}
	}

	c.ubo = model.UniformBufferObject{
		Transform: c.cfg.Transform(),
		Color:     c.cfg.PointColor,
		PointSize: c.device.ClampPointSize(c.cfg.PointSize),
	}
	log.Printf("Point size: %.1f (requested %.1f), color: %v", c.ubo.PointSize, c.cfg.PointSize, c.ubo.Color)
	return nil
}

// EventHandler is called for every SDL event after the core handled it.
type EventHandler func(sdl.Event, *Core)

// Loop this function represents the event-loop for user interaction and contains the primary draw call that
// renders each frame. It provides all basic functionality a well-behaved app should have: not rendering if
// minimized, close on window 'close button', close on ESC key. ih may be nil.
func (c *Core) Loop(ih EventHandler) {
	t0 := time.Now()
	frames := 0
	c.Win.Close = false
	for !c.Win.Close {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			handleEvent(event, c.Win)
			if ih != nil {
				ih(event, c)
			}
		}
		if c.Win.Close {
			break
		}
		if !c.Win.Minimized {
			c.drawFrame()
			frames++
		} else {
			// Sleep until new events change c.Win.Minimized
			if event := sdl.WaitEvent(); event != nil {
				handleEvent(event, c.Win)
				if ih != nil {
					ih(event, c)
				}
			}
		}
	}
	dt := time.Since(t0)
	log.Printf("Elapsed: %v, rough avg fps: %.1f fps", dt, float64(frames)/dt.Seconds())
}

// handleEvent applies the window related effect of an event to w.
func handleEvent(event sdl.Event, w *com.Window) {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		w.Close = true
	case *sdl.WindowEvent:
		switch ev.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			w.Resized = true
		case sdl.WINDOWEVENT_MINIMIZED:
			w.Minimized = true
		case sdl.WINDOWEVENT_RESTORED, sdl.WINDOWEVENT_MAXIMIZED:
			w.Minimized = false
		}
	case *sdl.KeyboardEvent:
		if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_ESCAPE {
			w.Close = true
		}
	}
}

// Destroy waits for the device to finish and releases everything in reverse order of creation. It is safe to call
// on a partially initialized Core.
func (c *Core) Destroy() {
	if c.device == nil {
		if c.Win != nil {
			c.Win.Destroy()
		}
		return
	}
	// We need to wait for the last asynchronous call to finish before tear down
	vk.DeviceWaitIdle(c.device.D)

	if len(c.clouds) > 0 {
		log.Printf("Releasing %d point cloud(s) left in the scene", len(c.clouds))
		c.ClearScene()
	}
	if c.swapChain != nil {
		c.swapChain.Destroy(c.device)
	}

	for i := range c.uniformBuffers {
		vk.UnmapMemory(c.device.D, c.uniformBuffers[i].DeviceMem)
		com.DestroyBuffer(c.device, c.uniformBuffers[i])
	}
	if c.descriptors != nil {
		c.descriptors.Destroy()
	}

	deviceSyncFactory(c.device.D).destroy(c.frameSync)
	vk.DestroyCommandPool(c.device.D, c.commandPool, nil)

	for i := range c.pipelines {
		vk.DestroyPipeline(c.device.D, c.pipelines[i], nil)
	}
	vk.DestroyPipelineLayout(c.device.D, c.pipelineLayout, nil)
	vk.DestroyRenderPass(c.device.D, c.renderPass, nil)

	c.device.Destroy()
	c.Win.Destroy()
	log.Println("Render core destroyed")
}

func (c *Core) createRenderPass() error {
	colorAttachment := vk.AttachmentDescription{
		Flags:          0,
		Format:         c.swapChain.Format.Format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
	colorAttachmentRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}
	subpass := vk.SubpassDescription{
		Flags:                   0,
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		InputAttachmentCount:    0,
		PInputAttachments:       nil,
		ColorAttachmentCount:    1,
		PColorAttachments:       []vk.AttachmentReference{colorAttachmentRef},
		PResolveAttachments:     nil,
		PDepthStencilAttachment: nil,
		PreserveAttachmentCount: 0,
		PPreserveAttachments:    nil,
	}
	dependency := vk.SubpassDependency{
		SrcSubpass:      vk.SubpassExternal,
		DstSubpass:      0,
		SrcStageMask:    vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstStageMask:    vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask:   0,
		DstAccessMask:   vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
		DependencyFlags: 0,
	}
	renderPassInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		PNext:           nil,
		Flags:           0,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{colorAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
	var err error
	c.renderPass, err = com.VkCreateRenderPass(c.device.D, &renderPassInfo, nil)
	if err != nil {
		return err
	}
	log.Println("Successfully created render pass")
	return nil
}

func (c *Core) createGraphicsPipeline() error {
	// Shader modules can be deleted right after pipeline creation
	vertShaderMod, vertStageInfo, err := LoadVert(c.device.D, c.cfg.VertexShader)
	if err != nil {
		return err
	}
	defer DeleteShaderMod(c.device.D, vertShaderMod)
	fragShaderMod, fragStageInfo, err := LoadFrag(c.device.D, c.cfg.FragShader)
	if err != nil {
		return err
	}
	defer DeleteShaderMod(c.device.D, fragShaderMod)
	shaderStages := []vk.PipelineShaderStageCreateInfo{vertStageInfo, fragStageInfo}

	// Viewport and scissor follow the swap chain, so they are set while recording
	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateScissor,
	}
	dynamicStateCreateInfo := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		PNext:             nil,
		Flags:             0,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}
	bindingDesc := []vk.VertexInputBindingDescription{model.GetVertexBindingDescription()}
	attributeDesc := model.GetVertexAttributeDescriptions()
	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		PNext:                           nil,
		Flags:                           0,
		VertexBindingDescriptionCount:   uint32(len(bindingDesc)),
		PVertexBindingDescriptions:      bindingDesc,
		VertexAttributeDescriptionCount: uint32(len(attributeDesc)),
		PVertexAttributeDescriptions:    attributeDesc,
	}
	// Every vertex is rasterized on its own
	inputAssemblyInfo := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		PNext:                  nil,
		Flags:                  0,
		Topology:               vk.PrimitiveTopologyPointList,
		PrimitiveRestartEnable: vk.False,
	}
	viewportStateInfo := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		PNext:         nil,
		Flags:         0,
		ViewportCount: 1,
		PViewports:    nil,
		ScissorCount:  1,
		PScissors:     nil,
	}
	rasterizerInfo := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		CullMode:                vk.CullModeFlags(vk.CullModeNone),
		FrontFace:               vk.FrontFaceCounterClockwise,
		DepthBiasEnable:         vk.False,
		LineWidth:               1.0,
	}
	multisamplingInfo := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		PNext:                 nil,
		Flags:                 0,
		RasterizationSamples:  vk.SampleCount1Bit,
		SampleShadingEnable:   vk.False,
		MinSampleShading:      1.0,
		PSampleMask:           nil,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}
	colorBlendAttachmentInfo := vk.PipelineColorBlendAttachmentState{
		BlendEnable:         vk.False,
		SrcColorBlendFactor: vk.BlendFactorOne,
		DstColorBlendFactor: vk.BlendFactorZero,
		ColorBlendOp:        vk.BlendOpAdd,
		SrcAlphaBlendFactor: vk.BlendFactorOne,
		DstAlphaBlendFactor: vk.BlendFactorZero,
		AlphaBlendOp:        vk.BlendOpAdd,
		ColorWriteMask:      vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
	}
	colorBlendingInfo := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		PNext:           nil,
		Flags:           0,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachmentInfo},
		BlendConstants:  [4]float32{0, 0, 0, 0},
	}

	// The uniform buffer (transform, color and point size) is the only input besides the vertices
	pipelineLayoutInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		PNext:                  nil,
		Flags:                  0,
		SetLayoutCount:         1,
		PSetLayouts:            []vk.DescriptorSetLayout{c.descriptors.layout},
		PushConstantRangeCount: 0,
		PPushConstantRanges:    nil,
	}
	c.pipelineLayout, err = com.VkCreatePipelineLayout(c.device.D, &pipelineLayoutInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	pipelineInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		PNext:               nil,
		Flags:               0,
		StageCount:          uint32(len(shaderStages)),
		PStages:             shaderStages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssemblyInfo,
		PTessellationState:  nil,
		PViewportState:      &viewportStateInfo,
		PRasterizationState: &rasterizerInfo,
		PMultisampleState:   &multisamplingInfo,
		PDepthStencilState:  nil,
		PColorBlendState:    &colorBlendingInfo,
		PDynamicState:       &dynamicStateCreateInfo,
		Layout:              c.pipelineLayout,
		RenderPass:          c.renderPass,
		Subpass:             0,
		BasePipelineHandle:  nil,
		BasePipelineIndex:   -1,
	}
	c.pipelines, err = com.VkCreateGraphicsPipelines(c.device.D, nil, 1, []vk.GraphicsPipelineCreateInfo{pipelineInfo}, nil)
	if err != nil {
		return err
	}
	log.Printf("Successfully created point list pipeline")
	return nil
}

func (c *Core) createFrameBuffers() error {
	return c.swapChain.CreateFrameBuffers(c.device, c.renderPass)
}

func (c *Core) createCommandPool() error {
	commandPool, err := com.VKSCreateCommandPool(
		c.device.D,
		vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		*c.device.QFamilies.GraphicsFamily,
	)
	if err != nil {
		return err
	}
	log.Printf("Successfully created command pool")
	c.commandPool = commandPool
	return nil
}

func (c *Core) createCommandBuffers() error {
	buffers, err := com.VKAllocateCommandBuffersPrimary(c.device.D, c.commandPool, uint32(c.framesInFlight))
	if err != nil {
		return err
	}
	log.Printf("Successfully allocated %d command buffers", len(buffers))
	c.commandBuffers = buffers
	return nil
}

func (c *Core) createSyncObjects() error {
	sync, err := deviceSyncFactory(c.device.D).create(c.framesInFlight)
	if err != nil {
		return err
	}
	c.frameSync = sync
	return nil
}

func (c *Core) createUniformBuffers() error {
	uboBufSize := model.SizeOfUbo()
	log.Printf("UBO buffer size: %d Byte", uboBufSize)

	memProps := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	for i := 0; i < c.framesInFlight; i++ {
		uboBuf, err := com.CreateBuffer(
			c.device,
			uboBufSize,
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
			memProps,
		)
		if err != nil {
			return err
		}
		mapped, err := com.MapPersistent(c.device, uboBuf)
		if err != nil {
			com.DestroyBuffer(c.device, uboBuf)
			return err
		}
		c.uniformBuffers = append(c.uniformBuffers, uboBuf)
		c.uniformBuffersMapped = append(c.uniformBuffersMapped, mapped)
	}
	return nil
}

func (c *Core) uniformBufferHandles() []vk.Buffer {
	handles := make([]vk.Buffer, len(c.uniformBuffers))
	for i := range c.uniformBuffers {
		handles[i] = c.uniformBuffers[i].Handle
	}
	return handles
}

// Drawing and derivative functionality

func (c *Core) recordDrawCommands(buffer vk.CommandBuffer, imageIdx uint32) {
	beginInfo := vk.CommandBufferBeginInfo{
		SType:            vk.StructureTypeCommandBufferBeginInfo,
		PNext:            nil,
		Flags:            0,
		PInheritanceInfo: nil,
	}
	if vk.BeginCommandBuffer(buffer, &beginInfo) != vk.Success {
		log.Panicf("Failed to begin recording command buffer")
	}

	renderArea := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: c.swapChain.Extend,
	}
	clearValues := []vk.ClearValue{
		vk.NewClearValue(c.cfg.ClearColor[:]),
	}
	renderPassInfo := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		PNext:           nil,
		RenderPass:      c.renderPass,
		Framebuffer:     c.swapChain.FrameBuffers[imageIdx],
		RenderArea:      renderArea,
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(buffer, &renderPassInfo, vk.SubpassContentsInline)
	vk.CmdBindPipeline(buffer, vk.PipelineBindPointGraphics, c.pipelines[0])

	viewport := []vk.Viewport{
		{
			X:        0,
			Y:        0,
			Width:    float32(c.swapChain.Extend.Width),
			Height:   float32(c.swapChain.Extend.Height),
			MinDepth: 0,
			MaxDepth: 1.0,
		},
	}
	vk.CmdSetViewport(buffer, 0, 1, viewport)
	scissor := []vk.Rect2D{renderArea}
	vk.CmdSetScissor(buffer, 0, 1, scissor)

	sets := []vk.DescriptorSet{c.descriptors.sets[c.currentFrameIdx]}
	vk.CmdBindDescriptorSets(buffer, vk.PipelineBindPointGraphics, c.pipelineLayout, 0, 1, sets, 0, nil)
	for i := range c.clouds {
		vertBuffers := []vk.Buffer{c.clouds[i].VertexBuffer}
		offsets := []vk.DeviceSize{0}
		vk.CmdBindVertexBuffers(buffer, 0, uint32(len(vertBuffers)), vertBuffers, offsets)
		vk.CmdDraw(buffer, c.clouds[i].VertexCount(), 1, 0, 0)
	}

	vk.CmdEndRenderPass(buffer)
	if vk.EndCommandBuffer(buffer) != vk.Success {
		log.Panicf("Failed to record command buffer")
	}
}

func (c *Core) drawFrame() {
	frame := c.currentFrameIdx
	// Wait for frame to be ready - signalled by the inFlightFens
	vk.WaitForFences(c.device.D, 1, []vk.Fence{c.inFlightFens[frame]}, vk.True, math.MaxUint64)

	var imgIdx uint32
	result := vk.AcquireNextImage(c.device.D, c.swapChain.Handle, math.MaxUint64, c.imageAvailableSems[frame], nil, &imgIdx)
	// React on surface changes and other possible causes for failure (e.g.: Window resizing)
	if result == vk.ErrorOutOfDate {
		c.recreateSwapChain()
		return
	} else if result != vk.Success && result != vk.Suboptimal {
		log.Panicf("Failed to acquire image, AcquireNextImage(...) result code: %d", result)
	}

	// Reset the fence only if we are actually going to execute work that will put the fence into the signalled state
	vk.ResetFences(c.device.D, 1, []vk.Fence{c.inFlightFens[frame]})

	vk.ResetCommandBuffer(c.commandBuffers[frame], 0)
	c.recordDrawCommands(c.commandBuffers[frame], imgIdx)
	c.updateUniformBuffer(frame)

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		PNext:              nil,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{c.imageAvailableSems[frame]},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{c.commandBuffers[frame]},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{c.renderFinishedSems[frame]},
	}
	if vk.QueueSubmit(c.device.GraphicsQ, 1, []vk.SubmitInfo{submitInfo}, c.inFlightFens[frame]) != vk.Success {
		log.Panicf("Failed to submit command buffer")
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		PNext:              nil,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{c.renderFinishedSems[frame]},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{c.swapChain.Handle},
		PImageIndices:      []uint32{imgIdx},
		PResults:           nil,
	}
	result = vk.QueuePresent(c.device.PresentQ, &presentInfo)
	if result == vk.ErrorOutOfDate || result == vk.Suboptimal || c.Win.Resized {
		c.Win.Resized = false
		c.recreateSwapChain()
	} else if result != vk.Success {
		log.Panicf("Failed to present image, QueuePresent(...) result code: %d", result)
	}

	c.currentFrameIdx = (c.currentFrameIdx + 1) % c.framesInFlight
}

func (c *Core) recreateSwapChain() {
	// A zero sized surface cannot back a swap chain, the loop waits until the window is restored
	if w, h := c.Win.DrawableSize(); w == 0 || h == 0 {
		c.Win.Minimized = true
		c.Win.Resized = true
		return
	}
	vk.DeviceWaitIdle(c.device.D)
	c.swapChain.Destroy(c.device)

	var err error
	c.swapChain, err = com.NewSwapChain(c.device, c.Win)
	if err != nil {
		log.Panicf("Failed to recreate swap chain: %v", err)
	}
	if err = c.createFrameBuffers(); err != nil {
		log.Panicf("Failed to recreate frame buffers: %v", err)
	}
	log.Printf("Recreated swap chain: %dx%d", c.swapChain.Extend.Width, c.swapChain.Extend.Height)
}

func (c *Core) updateUniformBuffer(frameIdx int) {
	vk.Memcopy(c.uniformBuffersMapped[frameIdx], c.ubo.Bytes())
}
