package spatialmath

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Ordered list of box vertices.
var boxVertices = [8]r3.Vector{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: -1, Z: -1},
}

// The vertex loops of the six box faces, in the order +X, -X, +Y, -Y, +Z, -Z.
var boxFaces = [6][4]int{
	{0, 2, 3, 1},
	{4, 5, 7, 6},
	{0, 1, 5, 4},
	{2, 6, 7, 3},
	{0, 4, 6, 2},
	{1, 3, 7, 5},
}

// NewBox returns an axis aligned box polyhedron centered on the origin of its own frame with the given dimensions.
func NewBox(dims r3.Vector, label string) (*Polyhedron, error) {
	if dims.X <= 0 || dims.Y <= 0 || dims.Z <= 0 {
		return nil, errors.Errorf("box %q dimensions must be positive, got %v", label, dims)
	}
	halfSize := dims.Mul(0.5)
	verts := make([]r3.Vector, 0, len(boxVertices))
	for _, vert := range boxVertices {
		verts = append(verts, r3.Vector{X: vert.X * halfSize.X, Y: vert.Y * halfSize.Y, Z: vert.Z * halfSize.Z})
	}
	faces := make([][]int, 0, len(boxFaces))
	for _, face := range boxFaces {
		faces = append(faces, face[:])
	}
	return NewPolyhedron(verts, faces, label)
}
