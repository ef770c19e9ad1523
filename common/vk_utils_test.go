package common

import (
	"encoding/binary"
	"reflect"
	"testing"
)

func TestAllOfAinB(t *testing.T) {
	tests := []struct {
		a, b []string
		want bool
	}{
		{nil, nil, true},
		{nil, []string{"x"}, true},
		{[]string{"VK_KHR_swapchain"}, []string{"VK_KHR_maintenance1", "VK_KHR_swapchain"}, true},
		{[]string{"VK_KHR_swapchain", "VK_EXT_debug_utils"}, []string{"VK_KHR_swapchain"}, false},
		{[]string{"x"}, nil, false},
	}
	for i, tt := range tests {
		if got := AllOfAinB(tt.a, tt.b); got != tt.want {
			t.Errorf("case %d: AllOfAinB(%v, %v) should be %t but was %t", i, tt.a, tt.b, tt.want, got)
		}
	}
}

func TestMissingInB(t *testing.T) {
	got := MissingInB([]string{"a", "b", "c"}, []string{"b"})
	if !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("expected [a c] but got %v", got)
	}
}

func TestTerminatedStr(t *testing.T) {
	tests := map[string]string{
		"":                            "\x00",
		"main":                        "main\x00",
		"main\x00":                    "main\x00",
		"VK_LAYER_KHRONOS_validation": "VK_LAYER_KHRONOS_validation\x00",
	}
	for in, want := range tests {
		if got := TerminatedStr(in); got != want {
			t.Errorf("TerminatedStr(%q) should be %q but was %q", in, want, got)
		}
	}
}

func TestTerminatedStrsKeepsInput(t *testing.T) {
	in := []string{"a", "b\x00"}
	out := TerminatedStrs(in)
	if in[0] != "a" {
		t.Errorf("input was modified: %q", in)
	}
	if !reflect.DeepEqual(out, []string{"a\x00", "b\x00"}) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestAsUint32Arr(t *testing.T) {
	// SPIR-V magic number followed by one more word and two stray bytes
	b := make([]byte, 10)
	binary.LittleEndian.PutUint32(b, 0x07230203)
	binary.LittleEndian.PutUint32(b[4:], 0x00010000)
	words := AsUint32Arr(b)
	if len(words) != 2 {
		t.Fatalf("expected 2 words but got %d", len(words))
	}
	// host byte order is little endian on every platform this runs on
	if words[0] != 0x07230203 || words[1] != 0x00010000 {
		t.Errorf("unexpected words %x", words)
	}
	if AsUint32Arr([]byte{1, 2}) != nil {
		t.Errorf("less than a word should yield nil")
	}
}

func TestRawBytes(t *testing.T) {
	b := RawBytes([]float32{1, -2})
	if len(b) != 8 {
		t.Fatalf("expected 8 Byte but got %d", len(b))
	}
	if binary.LittleEndian.Uint32(b) != 0x3f800000 {
		t.Errorf("1.0 should encode as 0x3f800000, got %x", b[:4])
	}
	if len(RawBytes(struct{ S string }{"x"})) != 0 {
		t.Errorf("non fixed size data should produce no bytes")
	}
}
