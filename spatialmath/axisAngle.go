package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// R4AA is a rotation of Theta radians about the axis (RX, RY, RZ). The axis is expected to be a
// unit vector but is normalized on conversion.
type R4AA struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// NewR4AA returns the zero rotation about +Z.
func NewR4AA() *R4AA {
	return &R4AA{RZ: 1}
}

// R3ToR4 splits a rotation vector, whose length is the angle, into axis and angle.
func R3ToR4(aa r3.Vector) *R4AA {
	theta := aa.Norm()
	if theta == 0 {
		return NewR4AA()
	}
	return &R4AA{Theta: theta, RX: aa.X / theta, RY: aa.Y / theta, RZ: aa.Z / theta}
}

// AxisAngles returns r4 itself.
func (r4 *R4AA) AxisAngles() *R4AA {
	return r4
}

// Quaternion returns the unit quaternion of the rotation.
func (r4 *R4AA) Quaternion() quat.Number {
	return r4.ToQuat()
}

// RotationMatrix returns the rotation as a matrix.
func (r4 *R4AA) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(r4.ToQuat())
}

// ToR3 returns the rotation vector: the axis scaled by the angle.
func (r4 *R4AA) ToR3() r3.Vector {
	return r4.axis().Mul(r4.Theta)
}

// ToQuat returns cos(theta/2) + sin(theta/2)*axis. A zero axis gives the identity.
func (r4 *R4AA) ToQuat() quat.Number {
	axis := r4.axis()
	norm := axis.Norm()
	if norm == 0 {
		return quat.Number{Real: 1}
	}
	sin, cos := math.Sincos(r4.Theta / 2)
	axis = axis.Mul(sin / norm)
	return quat.Number{Real: cos, Imag: axis.X, Jmag: axis.Y, Kmag: axis.Z}
}

func (r4 *R4AA) axis() r3.Vector {
	return r3.Vector{X: r4.RX, Y: r4.RY, Z: r4.RZ}
}
