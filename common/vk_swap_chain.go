package common

import (
	"errors"
	"fmt"
	"log"

	vk "github.com/goki/vulkan"
)

// undefinedExtent marks a surface whose size is decided by the swap chain rather than the window system.
const undefinedExtent = 0xFFFFFFFF

type SwapChain struct {
	supDetails SwapChainDetails
	Handle     vk.Swapchain

	Format      vk.SurfaceFormat
	PresentMode vk.PresentMode
	Extend      vk.Extent2D

	Images   []vk.Image
	ImgViews []vk.ImageView

	FrameBuffers []vk.Framebuffer
}

func NewSwapChain(dc *Device, w *Window) (*SwapChain, error) {
	sc := &SwapChain{}
	if err := sc.chooseConfiguration(dc, w); err != nil {
		return nil, err
	}
	if err := sc.createSwapChainHandle(dc, w); err != nil {
		return nil, err
	}
	if err := sc.readImages(dc); err != nil {
		sc.Destroy(dc)
		return nil, err
	}
	if err := sc.createImageViews(dc); err != nil {
		sc.Destroy(dc)
		return nil, err
	}
	return sc, nil
}

// CreateFrameBuffers creates one frame buffer per swap chain image, each using the image as single color attachment.
func (sc *SwapChain) CreateFrameBuffers(dc *Device, renderPass vk.RenderPass) error {
	sc.FrameBuffers = make([]vk.Framebuffer, 0, len(sc.ImgViews))
	for i := range sc.ImgViews {
		framebufferInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			PNext:           nil,
			Flags:           0,
			RenderPass:      renderPass,
			AttachmentCount: 1,
			PAttachments:    []vk.ImageView{sc.ImgViews[i]},
			Width:           sc.Extend.Width,
			Height:          sc.Extend.Height,
			Layers:          1,
		}
		fb, err := VkCreateFrameBuffer(dc.D, &framebufferInfo, nil)
		if err != nil {
			return fmt.Errorf("failed to create frame buffer [%d]: %w", i, err)
		}
		sc.FrameBuffers = append(sc.FrameBuffers, fb)
	}
	log.Printf("Successfully created %d frame buffers", len(sc.FrameBuffers))
	return nil
}

func (sc *SwapChain) chooseConfiguration(dc *Device, w *Window) error {
	sc.supDetails = ReadSwapChainSupportDetails(dc.PD, w.Surf)
	var err error
	sc.Format, err = sc.supDetails.selectSwapSurfaceFormat(vk.FormatB8g8r8a8Srgb, vk.ColorSpaceSrgbNonlinear)
	if err != nil {
		return err
	}
	sc.PresentMode = sc.supDetails.selectSwapPresentMode(vk.PresentModeMailbox)
	sc.Extend = sc.supDetails.selectSwapExtent(w.DrawableSize())
	return nil
}

func (sc *SwapChain) createSwapChainHandle(dc *Device, w *Window) error {
	imgCount := sc.supDetails.imageCount()

	// Depending on whether our queue families are the same for graphics and presentation, we need to choose different
	// swap chain configurations: https://vulkan-tutorial.com/Drawing_a_triangle/Presentation/Swap_chain
	indices := dc.QFamilies
	sharingMode := vk.SharingModeExclusive
	var indexCount uint32
	var qFamIndices []uint32
	if !indices.isShared() {
		sharingMode = vk.SharingModeConcurrent
		indexCount = 2
		qFamIndices = []uint32{*indices.GraphicsFamily, *indices.PresentFamily}
	}

	createInfo := &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		PNext:                 nil,
		Flags:                 0,
		Surface:               w.Surf,
		MinImageCount:         imgCount,
		ImageFormat:           sc.Format.Format,
		ImageColorSpace:       sc.Format.ColorSpace,
		ImageExtent:           sc.Extend,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      sharingMode,
		QueueFamilyIndexCount: indexCount,
		PQueueFamilyIndices:   qFamIndices,
		PreTransform:          sc.supDetails.Capabilities.CurrentTransform,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           sc.PresentMode,
		Clipped:               vk.True,
		OldSwapchain:          nil,
	}

	var err error
	sc.Handle, err = VkCreateSwapChain(dc.D, createInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create swap chain: %w", err)
	}
	log.Printf("Successfully created swap chain (%dx%d, %d images)", sc.Extend.Width, sc.Extend.Height, imgCount)
	return nil
}

func (sc *SwapChain) readImages(dc *Device) error {
	var err error
	sc.Images, err = ReadSwapChainImages(dc.D, sc.Handle)
	return err
}

func (sc *SwapChain) createImageViews(dc *Device) error {
	sc.ImgViews = make([]vk.ImageView, 0, len(sc.Images))
	for i := range sc.Images {
		iv, err := createColorImageView(dc, sc.Images[i], sc.Format.Format)
		if err != nil {
			return fmt.Errorf("failed to create image view [%d]: %w", i, err)
		}
		sc.ImgViews = append(sc.ImgViews, iv)
	}
	log.Printf("Successfully created %d image views", len(sc.ImgViews))
	return nil
}

func (sc *SwapChain) Destroy(dc *Device) {
	for i := range sc.FrameBuffers {
		vk.DestroyFramebuffer(dc.D, sc.FrameBuffers[i], nil)
	}
	for i := range sc.ImgViews {
		vk.DestroyImageView(dc.D, sc.ImgViews[i], nil)
	}
	vk.DestroySwapchain(dc.D, sc.Handle, nil)
}

type SwapChainDetails struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

func (s *SwapChainDetails) selectSwapSurfaceFormat(desiredFormat vk.Format, desiredColorSpace vk.ColorSpace) (vk.SurfaceFormat, error) {
	if len(s.Formats) == 0 {
		return vk.SurfaceFormat{}, errors.New("surface reports no formats")
	}
	for _, af := range s.Formats {
		if af.Format == desiredFormat && af.ColorSpace == desiredColorSpace {
			return af, nil
		}
	}
	fallbackFormat := s.Formats[0]
	log.Printf("Did not find preferred SurfaceFormat, selecting first one available. (%v)", fallbackFormat)
	return fallbackFormat, nil
}

func (s *SwapChainDetails) selectSwapPresentMode(desiredMode vk.PresentMode) vk.PresentMode {
	for _, pm := range s.PresentModes {
		if pm == desiredMode {
			return pm
		}
	}
	// FIFO is the only mode every implementation has to support
	log.Printf("Did not find preferred PresentMode, selecting FIFO")
	return vk.PresentModeFifo
}

// selectSwapExtent uses the surface's current extent. Surfaces that leave the extent to the swap chain get the
// window's drawable size clamped into the supported range, which keeps the viewport following a resized window.
func (s *SwapChainDetails) selectSwapExtent(drawableW, drawableH uint32) vk.Extent2D {
	c := s.Capabilities
	if c.CurrentExtent.Width != undefinedExtent {
		return c.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampU32(drawableW, c.MinImageExtent.Width, c.MaxImageExtent.Width),
		Height: clampU32(drawableH, c.MinImageExtent.Height, c.MaxImageExtent.Height),
	}
}

// imageCount asks for one image more than the minimum, a MaxImageCount of 0 means there is no upper limit.
func (s *SwapChainDetails) imageCount() uint32 {
	imgCount := s.Capabilities.MinImageCount + 1
	if s.Capabilities.MaxImageCount > 0 && imgCount > s.Capabilities.MaxImageCount {
		imgCount = s.Capabilities.MaxImageCount
	}
	return imgCount
}

func clampU32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func checkSwapChainAdequacy(pd vk.PhysicalDevice, surface vk.Surface) bool {
	scDetails := ReadSwapChainSupportDetails(pd, surface)
	log.Printf("Read swap chain details: %d formats, %d present modes", len(scDetails.Formats), len(scDetails.PresentModes))
	return len(scDetails.Formats) > 0 && len(scDetails.PresentModes) > 0
}

func createColorImageView(dc *Device, image vk.Image, format vk.Format) (vk.ImageView, error) {
	createInfo := &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		PNext:    nil,
		Flags:    0,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	return VkCreateImageView(dc.D, createInfo, nil)
}
