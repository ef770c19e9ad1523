package renderer

import (
	"testing"

	com "pointview/common"

	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
)

func TestHandleEvent(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  com.Window
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, com.Window{Close: true}},
		{"escape", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}, com.Window{Close: true}},
		{"escape released", &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}, com.Window{}},
		{"other key", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_SPACE}}, com.Window{}},
		{"resized", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED}, com.Window{Resized: true}},
		{"minimized", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_MINIMIZED}, com.Window{Minimized: true}},
	}
	for _, tt := range tests {
		var w com.Window
		handleEvent(tt.event, &w)
		if w.Close != tt.want.Close || w.Resized != tt.want.Resized || w.Minimized != tt.want.Minimized {
			t.Errorf("%s: got close=%t resized=%t minimized=%t", tt.name, w.Close, w.Resized, w.Minimized)
		}
	}
}

func TestHandleEventRestore(t *testing.T) {
	w := com.Window{Minimized: true}
	handleEvent(&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESTORED}, &w)
	if w.Minimized {
		t.Errorf("restoring the window should clear the minimized flag")
	}
}

func TestClampFramesInFlight(t *testing.T) {
	for in, want := range map[int]int{-1: 1, 0: 1, 1: 1, 2: 2, 3: 3} {
		if got := clampFramesInFlight(in); got != want {
			t.Errorf("clampFramesInFlight(%d) should be %d but was %d", in, want, got)
		}
	}
}

func TestUboLayoutBinding(t *testing.T) {
	b := uboLayoutBinding()
	if b.Binding != 0 || b.DescriptorType != vk.DescriptorTypeUniformBuffer || b.DescriptorCount != 1 {
		t.Errorf("unexpected binding: %+v", b)
	}
	for _, stage := range []vk.ShaderStageFlagBits{vk.ShaderStageVertexBit, vk.ShaderStageFragmentBit} {
		if b.StageFlags&vk.ShaderStageFlags(stage) == 0 {
			t.Errorf("ubo should be visible to stage %d", stage)
		}
	}
}
