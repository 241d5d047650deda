// Package config describes continuous collision queries as scene files.
package config

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/ccd/collision"
	"go.viam.com/ccd/logging"
	"go.viam.com/ccd/spatialmath"
	"go.viam.com/ccd/utils"
)

// Shape types understood by ShapeConfig.
const (
	ShapeBox        = "box"
	ShapePolyhedron = "polyhedron"
)

// Vector is a 3D vector as it appears in a scene file.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// R3 returns the vector as an r3.Vector.
func (v Vector) R3() r3.Vector {
	return r3.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// AxisAngle is an orientation given as a rotation axis and an angle in degrees.
type AxisAngle struct {
	Axis    Vector  `json:"axis"`
	Degrees float64 `json:"degrees"`
}

// PoseConfig is a translation followed by an optional axis-angle orientation.
type PoseConfig struct {
	Translation Vector     `json:"translation"`
	Orientation *AxisAngle `json:"orientation,omitempty"`
}

// Validate ensures the pose can be built.
func (pc *PoseConfig) Validate(path string) error {
	if pc.Orientation != nil && pc.Orientation.Degrees != 0 && pc.Orientation.Axis.R3().Norm2() == 0 {
		return utils.NewConfigValidationError(path, errors.New("orientation axis must be non-zero"))
	}
	return nil
}

// Pose converts the config to a spatialmath.Pose.
func (pc *PoseConfig) Pose() spatialmath.Pose {
	if pc.Orientation == nil || pc.Orientation.Degrees == 0 {
		return spatialmath.NewPoseFromPoint(pc.Translation.R3())
	}
	axis := pc.Orientation.Axis.R3().Normalize()
	return spatialmath.NewPose(pc.Translation.R3(), &spatialmath.R4AA{
		Theta: utils.DegToRad(pc.Orientation.Degrees),
		RX:    axis.X,
		RY:    axis.Y,
		RZ:    axis.Z,
	})
}

// VelocityConfig moves a body from its start pose for DT seconds.
// Angular velocity is in degrees per second.
type VelocityConfig struct {
	Linear  Vector  `json:"linear"`
	Angular Vector  `json:"angular"`
	DT      float64 `json:"dt"`
}

// ShapeConfig is either a box given by its dimensions or a convex polyhedron given by its
// vertices and faces.
type ShapeConfig struct {
	Type     string   `json:"type" jsonschema:"enum=box,enum=polyhedron"`
	Dims     *Vector  `json:"dims,omitempty"`
	Vertices []Vector `json:"vertices,omitempty"`
	Faces    [][]int  `json:"faces,omitempty"`
}

// Validate ensures all parts of the shape config are valid.
func (sc *ShapeConfig) Validate(path string) error {
	switch sc.Type {
	case ShapeBox:
		if sc.Dims == nil {
			return utils.NewConfigValidationFieldRequiredError(path, "dims")
		}
		if sc.Dims.X <= 0 || sc.Dims.Y <= 0 || sc.Dims.Z <= 0 {
			return utils.NewConfigValidationError(path, errors.Errorf("box dims must be positive, got %v", sc.Dims.R3()))
		}
	case ShapePolyhedron:
		var err error
		if len(sc.Vertices) == 0 {
			err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "vertices"))
		}
		if len(sc.Faces) == 0 {
			err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "faces"))
		}
		for i, face := range sc.Faces {
			if bad := lo.Filter(face, func(idx, _ int) bool { return idx < 0 || idx >= len(sc.Vertices) }); len(bad) > 0 {
				err = multierr.Append(err, utils.NewConfigValidationError(
					fmt.Sprintf("%s.faces.%d", path, i),
					errors.Errorf("vertex indices %v out of range", bad),
				))
			}
		}
		return err
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "type")
	default:
		return utils.NewConfigValidationError(path, utils.NewUnknownShapeError(sc.Type))
	}
	return nil
}

// Build constructs the shape.
func (sc *ShapeConfig) Build(label string) (*spatialmath.Polyhedron, error) {
	switch sc.Type {
	case ShapeBox:
		if sc.Dims == nil {
			return nil, errors.New("box requires dims")
		}
		return spatialmath.NewBox(sc.Dims.R3(), label)
	case ShapePolyhedron:
		verts := lo.Map(sc.Vertices, func(v Vector, _ int) r3.Vector { return v.R3() })
		return spatialmath.NewPolyhedron(verts, sc.Faces, label)
	default:
		return nil, utils.NewUnknownShapeError(sc.Type)
	}
}

// BodyConfig is a shape together with where it starts and how it moves over the step.
// Exactly one of End and Velocity must be set.
type BodyConfig struct {
	Name     string          `json:"name"`
	Shape    ShapeConfig     `json:"shape"`
	Start    PoseConfig      `json:"start"`
	End      *PoseConfig     `json:"end,omitempty"`
	Velocity *VelocityConfig `json:"velocity,omitempty"`
}

// Validate ensures all parts of the body config are valid.
func (bc *BodyConfig) Validate(path string) error {
	var err error
	if bc.Name == "" {
		err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "name"))
	}
	err = multierr.Append(err, bc.Shape.Validate(path+".shape"))
	err = multierr.Append(err, bc.Start.Validate(path+".start"))
	switch {
	case bc.End != nil && bc.Velocity != nil:
		err = multierr.Append(err, utils.NewConfigValidationError(path, errors.New("only one of end and velocity may be set")))
	case bc.End != nil:
		err = multierr.Append(err, bc.End.Validate(path+".end"))
	case bc.Velocity != nil:
		if bc.Velocity.DT <= 0 {
			err = multierr.Append(err, utils.NewConfigValidationError(path+".velocity", errors.New("dt must be positive")))
		}
	default:
		err = multierr.Append(err, utils.NewConfigValidationError(path, errors.New("one of end or velocity is required")))
	}
	return err
}

// StartPose returns the pose the body has at the beginning of the step.
func (bc *BodyConfig) StartPose() spatialmath.Pose {
	return bc.Start.Pose()
}

// EndPose returns the pose the body has at the end of the step, integrating the velocity if no
// end pose is given.
func (bc *BodyConfig) EndPose() spatialmath.Pose {
	if bc.End != nil {
		return bc.End.Pose()
	}
	if bc.Velocity == nil {
		return bc.StartPose()
	}
	angular := bc.Velocity.Angular.R3().Mul(utils.DegToRad(1))
	return spatialmath.IntegratePose(bc.StartPose(), bc.Velocity.Linear.R3(), angular, bc.Velocity.DT)
}

// Options are the query options of a scene.
type Options struct {
	InsideTolerance *float64 `json:"inside_tolerance,omitempty"`
	Parallel        bool     `json:"parallel,omitempty"`
}

// Scene is a pair of moving bodies and the options to query them with.
type Scene struct {
	A       BodyConfig `json:"a"`
	B       BodyConfig `json:"b"`
	Options Options    `json:"options,omitempty"`
}

// Validate ensures all parts of the scene are valid. Every problem found is reported.
func (s *Scene) Validate() error {
	return multierr.Combine(s.A.Validate("a"), s.B.Validate("b"))
}

// Query is a scene turned into the arguments of collision.ConservativeAdvancement.
type Query struct {
	A, B         *spatialmath.Polyhedron
	StartA, EndA spatialmath.Pose
	StartB, EndB spatialmath.Pose
	options      Options
}

// Build validates the scene and constructs its shapes and poses.
func (s *Scene) Build() (*Query, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	a, err := s.A.Shape.Build(s.A.Name)
	if err != nil {
		return nil, utils.NewConfigValidationError("a.shape", err)
	}
	b, err := s.B.Shape.Build(s.B.Name)
	if err != nil {
		return nil, utils.NewConfigValidationError("b.shape", err)
	}
	return &Query{
		A:       a,
		B:       b,
		StartA:  s.A.StartPose(),
		EndA:    s.A.EndPose(),
		StartB:  s.B.StartPose(),
		EndB:    s.B.EndPose(),
		options: s.Options,
	}, nil
}

// CollisionOptions returns the options to run the query with.
func (q *Query) CollisionOptions(logger logging.Logger) []collision.Option {
	opts := []collision.Option{
		collision.WithLogger(logger),
		collision.WithParallel(q.options.Parallel),
	}
	if q.options.InsideTolerance != nil {
		opts = append(opts, collision.WithInsideTolerance(*q.options.InsideTolerance))
	}
	return opts
}
