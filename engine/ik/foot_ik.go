package ik

import (
	"log"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// FootTolerance is the convergence distance of each leg chain.
	FootTolerance float32 = 0.005

	// FootMaxIterations is the iteration budget of each leg chain.
	FootMaxIterations = 15
)

// GroundFunc returns the ground height under a point of the XZ plane.
// FootIK queries it in the same space as the pose it adjusts, normally model space.
type GroundFunc func(x, z float32) float32

// LegJoints names the three joints of one leg.
type LegJoints struct {
	Hip, Knee, Foot string
}

// footIK is the implementation of the FootIK interface.
type footIK struct {
	solver Solver
	ground GroundFunc

	legs    []Chain
	setUp   bool
	enabled bool

	footOffset float32
	liftFeet   bool
	weight     float32
}

// FootIK defines the interface for planting feet on uneven ground.
//
// Each leg is a hip-knee chain with the foot as effector. Per frame the ground is sampled under each
// foot and the leg is solved toward that height plus the foot offset. By default a foot is only ever
// pulled down onto ground at or below it; a foot already below the ground is left alone unless
// WithLiftFeet is enabled.
type FootIK interface {
	// Setup resolves the leg joints by name. On failure the FootIK stays not set up and Apply is a no-op.
	//
	// Parameters:
	//   - skeleton: the skeleton to resolve names against
	//   - legs: the legs to plant, typically left and right
	//
	// Returns:
	//   - error: an error wrapping ErrJointNotFound for each missing joint
	Setup(skeleton *model.Skeleton, legs ...LegJoints) error

	// IsSetUp reports whether Setup succeeded.
	//
	// Returns:
	//   - bool: true if the legs are resolved
	IsSetUp() bool

	// SetGround replaces the ground query. A nil ground disables grounding.
	//
	// Parameters:
	//   - ground: the ground height query
	SetGround(ground GroundFunc)

	// SetEnabled turns the adjustment on or off without losing setup.
	//
	// Parameters:
	//   - enabled: whether Apply adjusts the pose
	SetEnabled(enabled bool)

	// Enabled reports whether the adjustment is on.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Apply grounds every leg in the pose. The pose's global matrices must be current.
	//
	// Parameters:
	//   - pose: the pose to adjust
	Apply(pose *Pose)
}

var _ FootIK = &footIK{}

// NewFootIK creates a new FootIK with the specified options applied.
// The result must be Setup before it has any effect.
//
// Parameters:
//   - options: a variadic list of FootIKBuilderOption functions to configure the FootIK
//
// Returns:
//   - FootIK: a new instance of FootIK configured with the provided options
func NewFootIK(options ...FootIKBuilderOption) FootIK {
	f := &footIK{
		enabled: true,
		weight:  1,
	}
	for _, opt := range options {
		opt(f)
	}
	if f.solver == nil {
		f.solver = NewSolver(SolverTypeCCD)
	}
	return f
}

func (f *footIK) Setup(skeleton *model.Skeleton, legs ...LegJoints) error {
	f.setUp = false
	f.legs = f.legs[:0]
	for _, leg := range legs {
		idx, err := findJoints(skeleton, leg.Hip, leg.Knee, leg.Foot)
		if err != nil {
			log.Printf("[FootIK] setup failed, foot grounding disabled: %v", err)
			return err
		}
		f.legs = append(f.legs, Chain{
			Joints:        idx[:2],
			Effector:      idx[2],
			Tolerance:     FootTolerance,
			MaxIterations: FootMaxIterations,
		})
	}
	f.setUp = len(f.legs) > 0
	return nil
}

func (f *footIK) IsSetUp() bool {
	return f.setUp
}

func (f *footIK) SetGround(ground GroundFunc) {
	f.ground = ground
}

func (f *footIK) SetEnabled(enabled bool) {
	f.enabled = enabled
}

func (f *footIK) Enabled() bool {
	return f.enabled
}

func (f *footIK) Apply(pose *Pose) {
	if !f.setUp || !f.enabled || f.ground == nil || f.weight <= 0 {
		return
	}
	for _, leg := range f.legs {
		foot := pose.Position(leg.Effector)
		height := f.ground(foot[0], foot[2]) + f.footOffset
		if height > foot[1] && !f.liftFeet {
			continue
		}
		goal := mgl32.Vec3{foot[0], height, foot[2]}
		f.solver.Solve(leg, common.LerpVec3(foot, goal, min(f.weight, 1)), pose)
	}
}
