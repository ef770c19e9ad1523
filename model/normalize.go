package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMargin is the factor the per-axis maximum is multiplied with before dividing.
const DefaultMargin = 1.5

// Bounds holds the per-axis maximum absolute coordinate of a set of vertices.
type Bounds struct {
	Max mgl32.Vec3
}

// Degenerate reports whether the vertices collapse to a plane, a line or a point on at least one axis.
func (b Bounds) Degenerate() bool {
	return b.Max[0] == 0 || b.Max[1] == 0 || b.Max[2] == 0
}

// MeasureBounds scans the vertices once and returns the maximum absolute value per axis.
func MeasureBounds(v []Vertex) Bounds {
	var b Bounds
	for i := range v {
		for axis := 0; axis < 3; axis++ {
			a := float32(math.Abs(float64(v[i].Pos[axis])))
			if a > b.Max[axis] {
				b.Max[axis] = a
			}
		}
	}
	return b
}

// Normalize rescales the vertices in place so that every component ends up in
// [-1/margin, 1/margin]. Each axis is divided by its own maximum times margin. An axis with a
// maximum of 0 is left as is. The bounds measured before rescaling are returned.
func Normalize(v []Vertex, margin float32) Bounds {
	b := MeasureBounds(v)
	if margin <= 0 {
		margin = DefaultMargin
	}
	var div mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		div[axis] = b.Max[axis] * margin
	}
	for i := range v {
		for axis := 0; axis < 3; axis++ {
			if div[axis] != 0 {
				v[i].Pos[axis] /= div[axis]
			}
		}
	}
	return b
}

// Normalize rescales the cloud in place and keeps the bounds measured beforehand.
func (p *PointCloud) Normalize(margin float32) {
	p.Bounds = Normalize(p.Vertices, margin)
}
