package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// dualQuaternion defines functions to perform rigid transformations in 3D.
// The real part is the rotation; the dual part is half the translation times the rotation.
type dualQuaternion struct {
	dualquat.Number
}

// NewZeroPose returns a pose at (0,0,0) with the same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return &dualQuaternion{dualquat.Number{Real: quat.Number{Real: 1}}}
}

// NewPose returns a pose at the given point with the given orientation.
func NewPose(point r3.Vector, o Orientation) Pose {
	if o == nil {
		o = NewZeroOrientation()
	}
	return newDualQuaternion(point, o.Quaternion())
}

// NewPoseFromPoint returns a pose at the given point with no rotation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return newDualQuaternion(point, quat.Number{Real: 1})
}

// NewPoseFromOrientation returns a pose at the origin with the given orientation.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

func newDualQuaternion(point r3.Vector, rotation quat.Number) *dualQuaternion {
	rot := Normalize(rotation)
	t := quat.Number{Imag: point.X, Jmag: point.Y, Kmag: point.Z}
	return &dualQuaternion{dualquat.Number{
		Real: rot,
		Dual: quat.Scale(0.5, quat.Mul(t, rot)),
	}}
}

func dualQuaternionFromPose(p Pose) *dualQuaternion {
	if dq, ok := p.(*dualQuaternion); ok {
		return dq
	}
	return newDualQuaternion(p.Point(), p.Orientation().Quaternion())
}

// Point returns the translation of the pose.
func (q *dualQuaternion) Point() r3.Vector {
	t := quat.Scale(2, quat.Mul(q.Dual, quat.Conj(q.Real)))
	return r3.Vector{X: t.Imag, Y: t.Jmag, Z: t.Kmag}
}

// Orientation returns the rotation of the pose.
func (q *dualQuaternion) Orientation() Orientation {
	o := quaternion(q.Real)
	return &o
}

func (q *dualQuaternion) String() string {
	pt := q.Point()
	aa := q.Orientation().AxisAngles()
	return fmt.Sprintf("{X:%.4f Y:%.4f Z:%.4f | Theta:%.4f RX:%.4f RY:%.4f RZ:%.4f}",
		pt.X, pt.Y, pt.Z, aa.Theta, aa.RX, aa.RY, aa.RZ)
}

// Compose treats Poses as functions A(x) and B(x), and produces a new function C(x) = A(B(x)).
// It converts the poses to dual quaternions and multiplies them together, normalizes the transform and returns a new Pose.
func Compose(a, b Pose) Pose {
	result := dualquat.Mul(dualQuaternionFromPose(a).Number, dualQuaternionFromPose(b).Number)
	// Re-derive the dual part from the normalized rotation so drift does not accumulate.
	dq := &dualQuaternion{result}
	return newDualQuaternion(dq.Point(), result.Real)
}

// PoseInverse returns a pose that undoes p.
func PoseInverse(p Pose) Pose {
	dq := dualQuaternionFromPose(p)
	return &dualQuaternion{dualquat.Number{
		Real: quat.Conj(dq.Real),
		Dual: quat.Conj(dq.Dual),
	}}
}

// PoseBetween returns the pose b expressed in the frame of a, i.e. a^-1 * b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint applies the pose to a point.
func TransformPoint(p Pose, pt r3.Vector) r3.Vector {
	return RotateVector(p.Orientation().Quaternion(), pt).Add(p.Point())
}

// RotateVector rotates v by the unit quaternion q.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	rotated := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}

// Interpolate returns a pose a fraction of the way from start to end. The point is interpolated
// linearly and the rotation by normalized linear interpolation along the shorter arc.
func Interpolate(start, end Pose, by float64) Pose {
	pt := start.Point().Mul(1 - by).Add(end.Point().Mul(by))
	q0 := start.Orientation().Quaternion()
	q1 := end.Orientation().Quaternion()
	if quatDot(q0, q1) < 0 {
		q1 = Flip(q1)
	}
	q := quat.Add(quat.Scale(1-by, q0), quat.Scale(by, q1))
	return newDualQuaternion(pt, q)
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same,
// with both point and quaternion components compared against epsilon.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return a.Point().Sub(b.Point()).Norm() <= epsilon &&
		QuaternionAlmostEqual(a.Orientation().Quaternion(), b.Orientation().Quaternion(), epsilon)
}

// PoseDelta returns the translation distance and rotation angle (radians) between two poses.
func PoseDelta(a, b Pose) (float64, float64) {
	between := OrientationBetween(a.Orientation(), b.Orientation()).AxisAngles()
	return a.Point().Sub(b.Point()).Norm(), math.Abs(between.Theta)
}

func quatDot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}
