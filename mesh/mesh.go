// Package mesh reads vertex positions from model files on disk. Only positions are kept, the
// viewer draws every vertex as a single point.
package mesh

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrEmptyMesh is returned when a file parsed fine but did not contain a single vertex.
	ErrEmptyMesh = errors.New("mesh contains no vertices")
	// ErrUnsupportedFormat is returned by Load for file extensions without a reader.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
)

// Load picks a reader by the file extension of path (.obj or .stl, case insensitive).
func Load(path string) ([]mgl32.Vec3, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		pos []mgl32.Vec3
		err error
	)
	switch ext {
	case ".obj":
		pos, err = LoadOBJ(path)
	case ".stl":
		pos, err = LoadSTL(path)
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d vertices from %s", len(pos), path)
	return pos, nil
}
