// Package screw decomposes a rigid relative motion into a screw: a rotation by omega about an axis
// and a translation s along that same axis. In screw space the axis is local Z, so the motion is a
// rotation in the XY plane plus a shift along Z.
package screw

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/ccd/spatialmath"
	"go.viam.com/ccd/utils"
)

// Epsilon is the threshold under which a screw angle, translation or axis component counts as zero.
const Epsilon = 1e-5

// Motion is the screw form of a motion x -> R(angVel)*x + linVel over the unit time interval.
type Motion struct {
	omega  float64
	s      float64
	axis   r3.Vector
	origin r3.Vector
}

// NewMotion decomposes the motion given by a translation and an axis-angle rotation vector.
func NewMotion(linVel, angVel r3.Vector) *Motion {
	m := &Motion{axis: r3.Vector{Z: 1}}
	m.omega = angVel.Norm()
	if m.omega < Epsilon {
		m.omega = 0
		m.s = linVel.Norm()
		if m.s < Epsilon {
			m.s = 0
			return m
		}
		// pure translation runs along its own direction
		m.axis = linVel.Mul(1 / m.s)
		return m
	}

	m.axis = angVel.Mul(1 / m.omega)
	m.s = linVel.Dot(m.axis)
	if math.Abs(m.s) < Epsilon {
		m.s = 0
	}

	n1 := linVel.Sub(m.axis.Mul(m.s))
	n1Len := n1.Norm()
	if n1Len < Epsilon {
		return m
	}
	n1 = n1.Mul(1 / n1Len)
	cot := math.Cos(0.5*m.omega) / math.Sin(0.5*m.omega)
	m.origin = n1.Add(m.axis.Cross(n1).Mul(cot)).Mul(0.5 * linVel.Dot(n1))
	return m
}

// Omega returns the total rotation angle in radians.
func (m *Motion) Omega() float64 {
	return m.omega
}

// S returns the total signed translation along the axis.
func (m *Motion) S() float64 {
	return m.s
}

// Axis returns the unit screw axis.
func (m *Motion) Axis() r3.Vector {
	return m.axis
}

// Origin returns a point on the screw axis.
func (m *Motion) Origin() r3.Vector {
	return m.origin
}

// IsStatic reports whether the motion neither rotates nor translates.
func (m *Motion) IsStatic() bool {
	return m.omega == 0 && m.s == 0
}

// IsPureTranslation reports whether the motion translates without rotating.
func (m *Motion) IsPureTranslation() bool {
	return m.omega == 0 && m.s != 0
}

// IsPureRotation reports whether the motion rotates without translating along its axis.
func (m *Motion) IsPureRotation() bool {
	return m.omega != 0 && m.s == 0
}

// LocalPose returns the world to screw space transform: the axis becomes local Z and the origin
// point maps to the local origin.
func (m *Motion) LocalPose() spatialmath.Pose {
	u := m.axis
	var rm *spatialmath.RotationMatrix
	if math.Abs(u.X) > Epsilon || math.Abs(u.Y) > Epsilon {
		n := math.Sqrt(u.X*u.X + u.Y*u.Y)
		i := r3.Vector{X: -u.Y / n, Y: u.X / n}
		j := u.Cross(i)
		rm = spatialmath.NewRotationMatrixFromRows(i, j, u)
	} else {
		sgn := utils.Sign(u.Z)
		rm = spatialmath.NewRotationMatrixFromRows(r3.Vector{X: 1}, r3.Vector{Y: sgn}, r3.Vector{Z: sgn})
	}
	return spatialmath.NewPose(rm.Mul(m.origin).Mul(-1), rm)
}

// CalculateF maps time to the tangent half angle parameterization of the axial translation.
func (m *Motion) CalculateF(t float64) float64 {
	if m.omega == 0 {
		return t
	}
	return math.Tan(0.5*m.omega*t) / math.Tan(0.5*m.omega)
}

// InBetweenPosition moves a screw space point to time t.
func (m *Motion) InBetweenPosition(pt r3.Vector, t float64) r3.Vector {
	moved := m.InBetweenVector(pt, t)
	moved.Z += m.s * m.CalculateF(t)
	return moved
}

// InBetweenVector rotates a screw space direction to time t.
func (m *Motion) InBetweenVector(v r3.Vector, t float64) r3.Vector {
	sin, cos := math.Sincos(m.omega * t)
	return r3.Vector{
		X: cos*v.X - sin*v.Y,
		Y: sin*v.X + cos*v.Y,
		Z: v.Z,
	}
}

// InBetweenPose moves a screw space pose to time t.
func (m *Motion) InBetweenPose(pose spatialmath.Pose, t float64) spatialmath.Pose {
	sin, cos := math.Sincos(0.5 * m.omega * t)
	rotZ := quat.Number{Real: cos, Kmag: sin}
	q := quat.Mul(rotZ, pose.Orientation().Quaternion())
	return spatialmath.NewPose(m.InBetweenPosition(pose.Point(), t), spatialmath.QuaternionOrientation(q))
}

func (m *Motion) String() string {
	return fmt.Sprintf("screw{omega: %.6f, s: %.6f, axis: %v, origin: %v}", m.omega, m.s, m.axis, m.origin)
}
