package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// CalculateVelocity returns the linear and angular velocity that carry start to end over dt.
// The angular velocity is the axis-angle of the rotation between the two orientations divided by dt.
func CalculateVelocity(start, end Pose, dt float64) (r3.Vector, r3.Vector) {
	linVel := end.Point().Sub(start.Point()).Mul(1 / dt)
	diff := quat.Mul(end.Orientation().Quaternion(), quat.Conj(start.Orientation().Quaternion()))
	if diff.Real < 0 {
		diff = Flip(diff)
	}
	aa := QuatToR4AA(diff)
	return linVel, aa.ToR3().Mul(1 / dt)
}

// IntegratePose advances pose by the given velocities over dt.
// The rotation is integrated by adding the quaternion derivative 0.5*dt*w*q component-wise and
// renormalizing. This is only a first order approximation of the true rotation and loses accuracy
// as |angVel|*dt grows; it is meant for small steps.
func IntegratePose(pose Pose, linVel, angVel r3.Vector, dt float64) Pose {
	q := pose.Orientation().Quaternion()
	w := quat.Number{Imag: angVel.X, Jmag: angVel.Y, Kmag: angVel.Z}
	dq := quat.Scale(0.5*dt, quat.Mul(w, q))
	return NewPose(pose.Point().Add(linVel.Mul(dt)), QuaternionOrientation(quat.Add(q, dq)))
}
