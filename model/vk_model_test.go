package model

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

func TestVertexLayout(t *testing.T) {
	if s := unsafe.Sizeof(Vertex{}); s != VertexSize {
		t.Errorf("Vertex should be %d Byte but was %d", VertexSize, s)
	}
	bd := GetVertexBindingDescription()
	if bd.Stride != VertexSize {
		t.Errorf("binding stride should be %d but was %d", VertexSize, bd.Stride)
	}
	ad := GetVertexAttributeDescriptions()
	if len(ad) != 1 || ad[0].Location != 0 || ad[0].Offset != 0 {
		t.Errorf("expected a single position attribute at location 0, got %v", ad)
	}
}

func TestVBufferBytes(t *testing.T) {
	pc := NewPointCloud("bytes", []mgl32.Vec3{{1, 2, 3}, {-1, 0.5, 4}})
	b := pc.GetVBufferBytes()
	if len(b) != pc.GetVBufferSize() {
		t.Fatalf("byte payload (%d) and buffer size (%d) differ", len(b), pc.GetVBufferSize())
	}
	want := []float32{1, 2, 3, -1, 0.5, 4}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if got != w {
			t.Errorf("float %d should be %f but was %f", i, w, got)
		}
	}
}

func TestUboBytes(t *testing.T) {
	ubo := UniformBufferObject{
		Transform: mgl32.Ident4(),
		Color:     mgl32.Vec4{0.1, 0.2, 0.3, 1},
		PointSize: 3,
	}
	b := ubo.Bytes()
	if len(b) != int(SizeOfUbo()) {
		t.Fatalf("ubo should be %d Byte but was %d", SizeOfUbo(), len(b))
	}
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
	}
	// column major identity, diagonal at 0, 20, 40, 60
	for _, off := range []int{0, 20, 40, 60} {
		if f(off) != 1 {
			t.Errorf("transform diagonal at offset %d should be 1 but was %f", off, f(off))
		}
	}
	if f(64) != 0.1 || f(76) != 1 {
		t.Errorf("color not at offset 64: %f %f", f(64), f(76))
	}
	if f(80) != 3 {
		t.Errorf("point size should be at offset 80, got %f", f(80))
	}
}
