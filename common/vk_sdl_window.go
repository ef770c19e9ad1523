package common

import (
	"fmt"
	"log"

	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
)

const APPLICATION_NAME = "pointview"
const APP_MAJOR, APP_MINOR, APP_PATCH = 1, 0, 0
const ENGINE_NAME = "No Engine"
const ENGINE_MAJOR, ENGINE_MINOR, ENGINE_PATCH = 1, 0, 0

const SDL_MAJOR, SDL_MINOR, SDL_PATCH = int(sdl.MAJOR_VERSION), int(sdl.MINOR_VERSION), int(sdl.PATCHLEVEL)

// Vulkan spec go bindings = v1.0.7, as per: https://github.com/goki/vulkan = 1.3.239
const VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH int = 1, 3, 239

// Window encapsulates all window handling components and vulkan access objects needed to actually draw on screen. It
// uses SDL for window management and user input. Thus simplifying the process of getting a vk.Surface to draw on.
type Window struct {
	sdlVersion string
	vkVersion  string

	Win       *sdl.Window
	Resized   bool
	Minimized bool
	Close     bool

	Inst vk.Instance
	Surf vk.Surface

	// ValidationLayers holds the layers the instance was actually created with.
	ValidationLayers []string
}

// NewWindow initializes SDL, opens a Vulkan capable window and creates the vk.Instance and vk.Surface for it.
// Validation layers are only requested if enableValidation is set, layers the loader does not know are skipped
// with a warning. On tear down call Destroy.
func NewWindow(title string, w int32, h int32, enableValidation bool, validationLayers []string) (*Window, error) {
	window := &Window{
		sdlVersion: fmt.Sprintf("v%d.%d.%d", SDL_MAJOR, SDL_MINOR, SDL_PATCH),
		vkVersion:  fmt.Sprintf("v%d.%d.%d", VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH),
	}
	if err := window.initSDLWindow(title, w, h); err != nil {
		return nil, err
	}
	if err := window.initVulkan(); err != nil {
		window.destroySDL()
		return nil, err
	}
	if enableValidation {
		window.ValidationLayers = selectValidationLayers(validationLayers)
	}
	if err := window.createVulkanInstance(); err != nil {
		window.destroySDL()
		return nil, err
	}
	if err := window.createSdlVkSurface(); err != nil {
		vk.DestroyInstance(window.Inst, nil)
		window.destroySDL()
		return nil, err
	}
	log.Printf("Generated SDL/Vulkan window - SDL: %s Vulkan Spec: %s", window.sdlVersion, window.vkVersion)
	return window, nil
}

// Destroy tears down everything NewWindow created, in reverse order: vk.Surface, vk.Instance and sdl.Window.
func (w *Window) Destroy() {
	vk.DestroySurface(w.Inst, w.Surf, nil)
	vk.DestroyInstance(w.Inst, nil)
	w.destroySDL()
}

func (w *Window) destroySDL() {
	if err := w.Win.Destroy(); err != nil {
		log.Printf("Failed to destroy SDL window: %v", err)
	}
	sdl.Quit()
}

// DrawableSize is the size of the window in pixels, which may differ from its size in screen coordinates.
func (w *Window) DrawableSize() (uint32, uint32) {
	width, height := w.Win.VulkanGetDrawableSize()
	return uint32(width), uint32(height)
}

func (w *Window) initSDLWindow(title string, width int32, height int32) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL: %w", err)
	}
	log.Println("Initialized SDL")
	win, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		width,
		height,
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_VULKAN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create SDL window for use with Vulkan: %w", err)
	}
	log.Printf("Created SDL window for use with Vulkan. Title: \"%s\", Width: %d, Height: %d", title, width, height)
	w.Win = win
	return nil
}

func (w *Window) initVulkan() error {
	// Find and load Vulkan addresses to be able to call driver level functions via provided mechanism
	vk.SetGetInstanceProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err := vk.Init(); err != nil {
		return fmt.Errorf("failed to initialize Vulkan API: %w", err)
	}
	return nil
}

func (w *Window) createVulkanInstance() error {
	requiredExtensions := w.Win.VulkanGetInstanceExtensions()
	if err := checkInstanceExtensionSupport(requiredExtensions); err != nil {
		return err
	}

	applicationInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PNext:              nil,
		PApplicationName:   TerminatedStr(APPLICATION_NAME),
		ApplicationVersion: vk.MakeVersion(APP_MAJOR, APP_MINOR, APP_PATCH),
		PEngineName:        TerminatedStr(ENGINE_NAME),
		EngineVersion:      vk.MakeVersion(ENGINE_MAJOR, ENGINE_MINOR, ENGINE_PATCH),
		ApiVersion:         vk.MakeVersion(VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH),
	}
	createInfo := &vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		PApplicationInfo:        applicationInfo,
		EnabledLayerCount:       uint32(len(w.ValidationLayers)),
		PpEnabledLayerNames:     TerminatedStrs(w.ValidationLayers),
		EnabledExtensionCount:   uint32(len(requiredExtensions)),
		PpEnabledExtensionNames: TerminatedStrs(requiredExtensions),
	}
	ins, err := VkCreateInstance(createInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create vk instance: %w", err)
	}
	w.Inst = ins
	return nil
}

func checkInstanceExtensionSupport(requiredInstanceExt []string) error {
	supportedExtNames, err := ReadInstanceExtensionPropertyNames()
	if err != nil {
		return err
	}
	log.Printf("Required instance extensions: %v", requiredInstanceExt)
	log.Printf("Available extensions (%d): %v", len(supportedExtNames), supportedExtNames)

	if missing := MissingInB(requiredInstanceExt, supportedExtNames); len(missing) > 0 {
		return fmt.Errorf("required instance extensions are not supported: %v", missing)
	}
	log.Println("Success - All required instance extensions are supported")
	return nil
}

// selectValidationLayers keeps the desired layers the loader offers. Missing layers only produce a warning as
// validation is a debugging aid and the viewer runs fine without it.
func selectValidationLayers(desired []string) []string {
	supported, err := ReadInstanceLayerProperties()
	if err != nil {
		log.Printf("Warning - Unable to read instance layers, validation disabled: %v", err)
		return nil
	}
	log.Printf("Desired validation layers: %v", desired)
	log.Printf("Supported layers (%d):\n%s", len(supported), tableStringLayerProps(supported))

	available := layerNames(supported)
	missing := MissingInB(desired, available)
	if len(missing) > 0 {
		log.Printf("Warning - Validation layers not available, continuing without them: %v", missing)
	}
	enabled := MissingInB(desired, missing)
	if len(enabled) > 0 {
		log.Printf("Enabled validation layers: %v", enabled)
	}
	return enabled
}

func (w *Window) createSdlVkSurface() error {
	surf, err := SdlCreateVkSurface(w.Win, w.Inst)
	if err != nil {
		return fmt.Errorf("failed to create SDL window's Vulkan-surface: %w", err)
	}
	w.Surf = surf
	return nil
}
