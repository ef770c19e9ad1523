package mesh

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/udhos/gwob"
)

// LoadOBJ reads a Wavefront OBJ file and returns the positions of its vertices.
func LoadOBJ(path string) ([]mgl32.Vec3, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read obj file: %w", err)
	}
	return LoadOBJFromBytes(filepath.Base(path), b)
}

// LoadOBJFromBytes parses OBJ text held in memory, name is only used for log output.
//
// Every 'v' line becomes one position, in file order, whether a face references it or not. Files with faces are
// also resolved through gwob, which has to accept them; its element count is only logged since gwob yields one
// vertex per distinct v/vt/vn tuple of the faces.
func LoadOBJFromBytes(name string, buf []byte) ([]mgl32.Vec3, error) {
	pos, faces, err := scanOBJ(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to scan obj '%s': %w", name, err)
	}
	if faces > 0 {
		opts := &gwob.ObjParserOptions{
			Logger: func(msg string) { log.Printf("obj %s: %s", name, msg) },
		}
		o, err := gwob.NewObjFromBuf(name, buf, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse obj '%s': %w", name, err)
		}
		log.Printf("obj %s: %d vertices, %d faces resolve to %d elements", name, len(pos), faces, o.NumberOfElements())
	}
	if len(pos) == 0 {
		return nil, fmt.Errorf("obj '%s': %w", name, ErrEmptyMesh)
	}
	return pos, nil
}

// scanOBJ collects all 'v x y z' lines and counts the 'f' lines, w and vertex colors are ignored.
func scanOBJ(buf []byte) ([]mgl32.Vec3, int, error) {
	var pos []mgl32.Vec3
	faces := 0
	scanner := bufio.NewScanner(bytes.NewReader(buf))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "f":
			faces++
			continue
		case "v":
		default:
			continue
		}
		if len(fields) < 4 {
			return nil, 0, fmt.Errorf("line %d: vertex needs 3 coordinates, got %d", line, len(fields)-1)
		}
		var v mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			f, err := strconv.ParseFloat(fields[axis+1], 32)
			if err != nil {
				return nil, 0, fmt.Errorf("line %d: %w", line, err)
			}
			v[axis] = float32(f)
		}
		pos = append(pos, v)
	}
	return pos, faces, scanner.Err()
}
