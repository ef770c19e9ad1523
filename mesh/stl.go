package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50
)

// LoadSTL reads a binary STL file and returns the three corners of every triangle. Shared
// corners are not merged.
func LoadSTL(path string) ([]mgl32.Vec3, error) {
	log.Printf("Reading stl file %s", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stl file: %w", err)
	}
	defer f.Close()
	return ReadSTL(f)
}

// ReadSTL decodes binary STL from r. ASCII STL is not supported.
func ReadSTL(r io.Reader) ([]mgl32.Vec3, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stl data: %w", err)
	}
	if len(b) < stlHeaderSize+4 {
		if bytes.HasPrefix(b, []byte("solid")) {
			return nil, fmt.Errorf("%w: ascii stl", ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("stl data too short (%d Byte)", len(b))
	}

	header := bytes.TrimRight(b[:stlHeaderSize], "\x00 ")
	tCnt := binary.LittleEndian.Uint32(b[stlHeaderSize : stlHeaderSize+4])
	body := b[stlHeaderSize+4:]
	if uint64(len(body)) < uint64(tCnt)*stlTriangleSize {
		if bytes.HasPrefix(b, []byte("solid")) {
			return nil, fmt.Errorf("%w: ascii stl", ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("stl announces %d triangles but holds only %d Byte", tCnt, len(body))
	}
	if tCnt == 0 {
		return nil, fmt.Errorf("stl: %w", ErrEmptyMesh)
	}
	log.Printf("Successfully read stl data, Header: '%s', Triangle Count: %d, Triangle memory size: %d KiB", header, tCnt, len(body)/1024)
	return toPositions(body, tCnt), nil
}

func toPositions(b []byte, triangleCnt uint32) []mgl32.Vec3 {
	pos := make([]mgl32.Vec3, 0, triangleCnt*3)
	for t := uint32(0); t < triangleCnt; t++ {
		i := int(t) * stlTriangleSize
		// skip normal (12 Byte), trailing attribute count (2 Byte) is unused
		pos = append(pos,
			toVec3(b[i+12:i+24]),
			toVec3(b[i+24:i+36]),
			toVec3(b[i+36:i+48]),
		)
	}
	return pos
}

func toVec3(b []byte) mgl32.Vec3 {
	return mgl32.Vec3{
		toFloat32(b[:4]),
		toFloat32(b[4:8]),
		toFloat32(b[8:12]),
	}
}

func toFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
