package mesh

import (
	"errors"
	"testing"

	"pointview/model"

	"github.com/go-gl/mathgl/mgl32"
)

const quadOBJ = `# two triangles sharing an edge
o quad
v -1.0 -1.0 0.5
v  1.0 -1.0 0.5
v  1.0  1.0 0.5
v -1.0  1.0 0.5
f 1 2 3
f 1 3 4
`

func contains(pos []mgl32.Vec3, v mgl32.Vec3) bool {
	for _, p := range pos {
		if p.ApproxEqual(v) {
			return true
		}
	}
	return false
}

func TestLoadOBJFaces(t *testing.T) {
	pos, err := LoadOBJFromBytes("quad", []byte(quadOBJ))
	if err != nil {
		t.Fatalf("failed to load quad: %v", err)
	}
	corners := []mgl32.Vec3{{-1, -1, 0.5}, {1, -1, 0.5}, {1, 1, 0.5}, {-1, 1, 0.5}}
	if len(pos) != len(corners) {
		t.Fatalf("shared corners should appear once, got %d vertices", len(pos))
	}
	for _, c := range corners {
		if !contains(pos, c) {
			t.Errorf("corner %v missing in %v", c, pos)
		}
	}
}

func TestLoadOBJPointCloud(t *testing.T) {
	src := "# scanner output\nv 0.1 0.2 0.3\nv -4 5 -6 1.0\n\nvn 0 0 1\nv 7 8 9\n"
	pos, err := LoadOBJFromBytes("cloud", []byte(src))
	if err != nil {
		t.Fatalf("failed to load cloud: %v", err)
	}
	want := []mgl32.Vec3{{0.1, 0.2, 0.3}, {-4, 5, -6}, {7, 8, 9}}
	if len(pos) != len(want) {
		t.Fatalf("expected %d vertices, got %d", len(want), len(pos))
	}
	for i := range want {
		if !pos[i].ApproxEqual(want[i]) {
			t.Errorf("vertex %d should be %v but was %v", i, want[i], pos[i])
		}
	}
}

func TestLoadOBJEmpty(t *testing.T) {
	_, err := LoadOBJFromBytes("empty", []byte("# nothing here\n"))
	if err == nil {
		t.Fatalf("empty obj should fail")
	}
	if !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("empty obj should fail with ErrEmptyMesh, got: %v", err)
	}
}

// Normals split shared corners into several gwob elements and (5, 5, 5) is used by no face. Every 'v' line
// still has to end up exactly once, it also defines the bounds.
const normalsOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
v 5 5 5
vn 0 0 1
vn 0 0 -1
f 1//1 2//1 3//1
f 1//2 3//2 2//2
`

func TestLoadOBJKeepsEveryVertex(t *testing.T) {
	pos, err := LoadOBJFromBytes("normals", []byte(normalsOBJ))
	if err != nil {
		t.Fatalf("failed to load mesh with normals: %v", err)
	}
	want := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {5, 5, 5}}
	if len(pos) != len(want) {
		t.Fatalf("expected %d vertices, got %d: %v", len(want), len(pos), pos)
	}
	for i := range want {
		if pos[i] != want[i] {
			t.Errorf("vertex %d should be %v but was %v", i, want[i], pos[i])
		}
	}
	b := model.MeasureBounds(model.NewPointCloud("normals", pos).Vertices)
	if b.Max != (mgl32.Vec3{5, 5, 5}) {
		t.Errorf("bounds should include the unreferenced vertex, got %v", b.Max)
	}
}

func TestScanOBJ(t *testing.T) {
	pos, faces, err := scanOBJ([]byte(quadOBJ))
	if err != nil {
		t.Fatalf("failed to scan quad: %v", err)
	}
	if len(pos) != 4 || faces != 2 {
		t.Errorf("expected 4 vertices and 2 faces, got %d and %d", len(pos), faces)
	}
}

func TestScanOBJMalformed(t *testing.T) {
	if _, _, err := scanOBJ([]byte("v 1 2\n")); err == nil {
		t.Errorf("vertex with two coordinates should fail")
	}
	if _, _, err := scanOBJ([]byte("v 1 x 3\n")); err == nil {
		t.Errorf("non numeric coordinate should fail")
	}
}
