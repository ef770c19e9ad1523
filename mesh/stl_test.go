package mesh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type triangle [3]mgl32.Vec3

// binarySTL encodes triangles the way exporters do, normals are left zero.
func binarySTL(tris ...triangle) []byte {
	buf := new(bytes.Buffer)
	header := make([]byte, stlHeaderSize)
	copy(header, "binary test mesh")
	buf.Write(header)
	binary.Write(buf, binary.LittleEndian, uint32(len(tris)))
	for _, tri := range tris {
		binary.Write(buf, binary.LittleEndian, [3]float32{})
		for _, v := range tri {
			binary.Write(buf, binary.LittleEndian, [3]float32(v))
		}
		binary.Write(buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

func TestReadSTL(t *testing.T) {
	tris := []triangle{
		{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{2.5, -3, 4}, {-1, -1, -1}, {0, 0, math.MaxFloat32}},
	}
	pos, err := ReadSTL(bytes.NewReader(binarySTL(tris...)))
	if err != nil {
		t.Fatalf("failed to read stl: %v", err)
	}
	if len(pos) != 6 {
		t.Fatalf("expected 6 corners, got %d", len(pos))
	}
	for i, tri := range tris {
		for j, v := range tri {
			if pos[i*3+j] != v {
				t.Errorf("triangle %d corner %d should be %v but was %v", i, j, v, pos[i*3+j])
			}
		}
	}
}

func TestReadSTLTruncated(t *testing.T) {
	b := binarySTL(triangle{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	if _, err := ReadSTL(bytes.NewReader(b[:len(b)-10])); err == nil {
		t.Errorf("truncated stl should fail")
	}
	if _, err := ReadSTL(bytes.NewReader(b[:40])); err == nil {
		t.Errorf("stl without triangle count should fail")
	}
}

func TestReadSTLEmpty(t *testing.T) {
	_, err := ReadSTL(bytes.NewReader(binarySTL()))
	if !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh, got %v", err)
	}
}

func TestReadSTLAscii(t *testing.T) {
	_, err := ReadSTL(bytes.NewReader([]byte("solid cube\nendsolid cube\n")))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ascii stl should be reported as unsupported, got %v", err)
	}
}
