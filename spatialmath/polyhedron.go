package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// convexityEpsilon is how far a vertex may sit outside one of its own hull's face planes before the
// polyhedron is rejected as non-convex.
const convexityEpsilon = 1e-9

// Plane is an oriented plane given by an outward unit normal and a point lying on it.
type Plane struct {
	Normal r3.Vector
	Point  r3.Vector
}

// Offset returns d in the plane equation normal·x = d.
func (p Plane) Offset() float64 {
	return p.Normal.Dot(p.Point)
}

// SignedDistance returns how far pt lies in front of the plane.
func (p Plane) SignedDistance(pt r3.Vector) float64 {
	return p.Normal.Dot(pt.Sub(p.Point))
}

// Transform returns the plane moved by pose.
func (p Plane) Transform(pose Pose) Plane {
	return Plane{
		Normal: RotateVector(pose.Orientation().Quaternion(), p.Normal),
		Point:  TransformPoint(pose, p.Point),
	}
}

// ConvexShape is the view of a convex polyhedron that continuous collision needs: its features,
// expressed in the shape's own frame, and a containment test.
type ConvexShape interface {
	NumVertices() int
	Vertex(i int) r3.Vector
	NumEdges() int
	Edge(i int) (r3.Vector, r3.Vector)
	NumPlanes() int
	Plane(i int) Plane
	// IsInside reports whether pt is inside every face plane, allowing pt to stick out by up to tolerance.
	IsInside(pt r3.Vector, tolerance float64) bool
}

// Polyhedron is a convex polyhedron described by its vertices and the vertex loops of its faces.
type Polyhedron struct {
	vertices []r3.Vector
	faces    [][]int
	edges    [][2]int
	planes   []Plane
	centroid r3.Vector
	label    string
}

// NewPolyhedron builds a convex polyhedron. Faces may be wound either way; the face normals are
// oriented away from the vertex centroid. Edges are derived from the faces.
func NewPolyhedron(vertices []r3.Vector, faces [][]int, label string) (*Polyhedron, error) {
	if len(vertices) < 4 {
		return nil, errors.Errorf("polyhedron %q needs at least 4 vertices, got %d", label, len(vertices))
	}
	if len(faces) < 4 {
		return nil, errors.Errorf("polyhedron %q needs at least 4 faces, got %d", label, len(faces))
	}
	centroid := r3.Vector{}
	for _, v := range vertices {
		centroid = centroid.Add(v)
	}
	centroid = centroid.Mul(1 / float64(len(vertices)))

	p := &Polyhedron{
		vertices: append([]r3.Vector(nil), vertices...),
		faces:    make([][]int, 0, len(faces)),
		planes:   make([]Plane, 0, len(faces)),
		centroid: centroid,
		label:    label,
	}
	seen := map[[2]int]bool{}
	for fi, face := range faces {
		if len(face) < 3 {
			return nil, errors.Errorf("polyhedron %q face %d has %d vertices, need at least 3", label, fi, len(face))
		}
		for _, idx := range face {
			if idx < 0 || idx >= len(vertices) {
				return nil, errors.Errorf("polyhedron %q face %d references vertex %d out of range", label, fi, idx)
			}
		}
		normal := newellNormal(lo.Map(face, func(idx, _ int) r3.Vector { return vertices[idx] }))
		if normal.Norm() < 1e-12 {
			return nil, errors.Errorf("polyhedron %q face %d is degenerate", label, fi)
		}
		normal = normal.Normalize()
		support := vertices[face[0]]
		if normal.Dot(centroid.Sub(support)) > 0 {
			normal = normal.Mul(-1)
		}
		p.faces = append(p.faces, append([]int(nil), face...))
		p.planes = append(p.planes, Plane{Normal: normal, Point: support})

		for i := range face {
			a, b := face[i], face[(i+1)%len(face)]
			if a > b {
				a, b = b, a
			}
			if key := [2]int{a, b}; !seen[key] {
				seen[key] = true
				p.edges = append(p.edges, key)
			}
		}
	}
	for pi, plane := range p.planes {
		for vi, v := range vertices {
			if plane.SignedDistance(v) > convexityEpsilon*math.Max(1, v.Norm()) {
				return nil, errors.Errorf("polyhedron %q is not convex: vertex %d is outside face %d", label, vi, pi)
			}
		}
	}
	return p, nil
}

// newellNormal returns the (unnormalized) normal of a planar polygon using Newell's method.
func newellNormal(loop []r3.Vector) r3.Vector {
	n := r3.Vector{}
	for i, cur := range loop {
		next := loop[(i+1)%len(loop)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n
}

// NumVertices returns the number of vertices.
func (p *Polyhedron) NumVertices() int {
	return len(p.vertices)
}

// Vertex returns the i-th vertex.
func (p *Polyhedron) Vertex(i int) r3.Vector {
	return p.vertices[i]
}

// NumEdges returns the number of distinct edges.
func (p *Polyhedron) NumEdges() int {
	return len(p.edges)
}

// Edge returns the end points of the i-th edge.
func (p *Polyhedron) Edge(i int) (r3.Vector, r3.Vector) {
	e := p.edges[i]
	return p.vertices[e[0]], p.vertices[e[1]]
}

// NumPlanes returns the number of faces.
func (p *Polyhedron) NumPlanes() int {
	return len(p.planes)
}

// Plane returns the supporting plane of the i-th face.
func (p *Polyhedron) Plane(i int) Plane {
	return p.planes[i]
}

// IsInside reports whether pt lies within tolerance of the inside of every face.
func (p *Polyhedron) IsInside(pt r3.Vector, tolerance float64) bool {
	for _, plane := range p.planes {
		if plane.SignedDistance(pt) > tolerance {
			return false
		}
	}
	return true
}

// Vertices returns a copy of the vertex list.
func (p *Polyhedron) Vertices() []r3.Vector {
	return append([]r3.Vector(nil), p.vertices...)
}

// Faces returns the vertex loops of the faces.
func (p *Polyhedron) Faces() [][]int {
	return lo.Map(p.faces, func(face []int, _ int) []int { return append([]int(nil), face...) })
}

// Centroid returns the average of the vertices.
func (p *Polyhedron) Centroid() r3.Vector {
	return p.centroid
}

// Label returns the label of the polyhedron.
func (p *Polyhedron) Label() string {
	return p.label
}

// String returns a human readable string that represents the polyhedron.
func (p *Polyhedron) String() string {
	return fmt.Sprintf("Type: Polyhedron | Label: %s | Vertices: %d | Edges: %d | Faces: %d",
		p.label, len(p.vertices), len(p.edges), len(p.planes))
}
