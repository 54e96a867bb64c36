package ik

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultTolerance is the effector-to-target distance a chain without its own tolerance converges at.
	DefaultTolerance float32 = 0.001

	// DefaultMaxIterations is the iteration budget of a chain without its own.
	DefaultMaxIterations = 10
)

// Chain is a run of joints solved together.
type Chain struct {
	// Joints lists the rotating joints from the chain root toward the effector, excluding the effector.
	Joints []int

	// Effector is the joint that should reach the target.
	Effector int

	// Tolerance is the convergence distance; zero uses DefaultTolerance.
	Tolerance float32

	// MaxIterations bounds the solver passes; zero uses DefaultMaxIterations.
	MaxIterations int
}

// SolverType identifies an IK solving algorithm.
type SolverType int

const (
	// SolverTypeCCD is cyclic coordinate descent.
	SolverTypeCCD SolverType = iota
)

// Solver defines the interface for an iterative IK chain solver.
type Solver interface {
	// Type returns the algorithm this solver implements.
	//
	// Returns:
	//   - SolverType: the solver type
	Type() SolverType

	// Solve rotates the chain's joints so its effector approaches target, rewriting the pose's local
	// rotations and keeping its global matrices current. It never produces NaN: degenerate swings
	// (zero-length directions or near-zero angles) are skipped. Failing to converge is not an error.
	//
	// Parameters:
	//   - chain: the joints to solve
	//   - target: the model-space target position
	//   - pose: the pose to modify
	//
	// Returns:
	//   - bool: true if the effector ended within the chain's tolerance of the target
	Solve(chain Chain, target mgl32.Vec3, pose *Pose) bool
}

// ccdSolver is the cyclic coordinate descent implementation of the Solver interface.
type ccdSolver struct{}

var _ Solver = &ccdSolver{}

// NewSolver creates a Solver of the given type.
//
// Parameters:
//   - solverType: the algorithm to use
//
// Returns:
//   - Solver: the solver
func NewSolver(solverType SolverType) Solver {
	switch solverType {
	case SolverTypeCCD:
		fallthrough
	default:
		return &ccdSolver{}
	}
}

func (s *ccdSolver) Type() SolverType {
	return SolverTypeCCD
}

func (s *ccdSolver) Solve(chain Chain, target mgl32.Vec3, pose *Pose) bool {
	tolerance := chain.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	iterations := chain.MaxIterations
	if iterations <= 0 {
		iterations = DefaultMaxIterations
	}

	for range iterations {
		if pose.Position(chain.Effector).Sub(target).Len() < tolerance {
			return true
		}
		for k := len(chain.Joints) - 1; k >= 0; k-- {
			j := chain.Joints[k]
			origin := pose.Position(j)
			axis, angle, ok := common.SwingBetween(pose.Position(chain.Effector).Sub(origin), target.Sub(origin))
			if !ok {
				continue
			}
			pose.rotate(j, mgl32.QuatRotate(angle, axis))
		}
	}
	return pose.Position(chain.Effector).Sub(target).Len() < tolerance
}
