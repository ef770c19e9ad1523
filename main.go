package main

import (
	"log"
	"os"
	"runtime"

	"pointview/config"
	"pointview/mesh"
	"pointview/model"
	"pointview/renderer"

	"github.com/veandco/go-sdl2/sdl"
)

//go:generate glslc shaders/point.vert -o shaders/point.vert.spv
//go:generate glslc shaders/point.frag -o shaders/point.frag.spv

func init() {
	// SDL and the Vulkan surface have to stay on the main thread
	runtime.LockOSThread()
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)
	log.Println("Starting point cloud viewer")
	log.Printf("Using GoLang: [%s]", runtime.Version())
}

func onIteration(event sdl.Event, c *renderer.Core) {
	if ev, ok := event.(*sdl.WindowEvent); ok && ev.Event == sdl.WINDOWEVENT_RESIZED {
		log.Printf("[%d ms] Window resized to %dx%d", ev.Timestamp, ev.Data1, ev.Data2)
	}
}

func main() {
	cfg := config.Default()

	positions, err := mesh.Load(cfg.ModelPath)
	if err != nil {
		log.Fatalf("Failed to load mesh: %v", err)
	}
	cloud := model.NewPointCloud(cfg.ModelPath, positions)
	cloud.Normalize(cfg.MarginFactor)
	log.Printf("Normalized %d points, per axis max: %v", cloud.VertexCount(), cloud.Bounds.Max)
	if cloud.Bounds.Degenerate() {
		log.Printf("Warning: '%s' is flat on at least one axis, that axis was not rescaled", cfg.ModelPath)
	}

	core, err := renderer.NewRenderCore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize renderer: %v", err)
	}
	defer core.Destroy()

	if err = core.AddToScene(cloud); err != nil {
		core.Destroy()
		log.Fatalf("Failed to add point cloud: %v", err)
	}
	core.Loop(onIteration)
}
