package mesh

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("teapot.ply")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.obj"))
	if err == nil {
		t.Errorf("loading a missing file should fail")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
}

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "cloud.OBJ")
	if err := os.WriteFile(objPath, []byte("v 1 2 3\nv 4 5 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stlPath := filepath.Join(dir, "tri.stl")
	if err := os.WriteFile(stlPath, binarySTL(triangle{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}), 0o644); err != nil {
		t.Fatal(err)
	}

	pos, err := Load(objPath)
	if err != nil {
		t.Fatalf("obj: %v", err)
	}
	if len(pos) != 2 {
		t.Errorf("obj should yield 2 vertices, got %d", len(pos))
	}

	pos, err = Load(stlPath)
	if err != nil {
		t.Fatalf("stl: %v", err)
	}
	if len(pos) != 3 || pos[1] != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("stl should yield the triangle corners, got %v", pos)
	}
}
