package ik

// FootIKBuilderOption is a functional option for configuring a FootIK during construction.
type FootIKBuilderOption func(*footIK)

// WithGround is an option builder that sets the ground height query.
//
// Parameters:
//   - ground: the ground height query
//
// Returns:
//   - FootIKBuilderOption: a function that applies the ground query to a foot IK
func WithGround(ground GroundFunc) FootIKBuilderOption {
	return func(f *footIK) {
		f.ground = ground
	}
}

// WithFootOffset is an option builder that sets how far above the ground the foot joint rests,
// usually the ankle height.
//
// Parameters:
//   - offset: the height of the foot joint above the ground
//
// Returns:
//   - FootIKBuilderOption: a function that applies the offset to a foot IK
func WithFootOffset(offset float32) FootIKBuilderOption {
	return func(f *footIK) {
		f.footOffset = offset
	}
}

// WithLiftFeet is an option builder that also raises feet that sit below the ground.
//
// Parameters:
//   - lift: whether penetrating feet are lifted
//
// Returns:
//   - FootIKBuilderOption: a function that applies the lift flag to a foot IK
func WithLiftFeet(lift bool) FootIKBuilderOption {
	return func(f *footIK) {
		f.liftFeet = lift
	}
}

// WithWeight is an option builder that sets how far toward the ground the foot is moved, from 0 to 1.
//
// Parameters:
//   - weight: the blend weight
//
// Returns:
//   - FootIKBuilderOption: a function that applies the weight to a foot IK
func WithWeight(weight float32) FootIKBuilderOption {
	return func(f *footIK) {
		f.weight = weight
	}
}

// WithSolver is an option builder that replaces the chain solver.
//
// Parameters:
//   - solver: the solver to use
//
// Returns:
//   - FootIKBuilderOption: a function that applies the solver to a foot IK
func WithSolver(solver Solver) FootIKBuilderOption {
	return func(f *footIK) {
		f.solver = solver
	}
}
