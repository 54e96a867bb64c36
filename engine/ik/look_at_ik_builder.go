package ik

// LookAtIKBuilderOption is a functional option for configuring a LookAtIK during construction.
type LookAtIKBuilderOption func(*lookAtIK)

// WithMaxAngle is an option builder that caps how far the head turns, in radians.
//
// Parameters:
//   - radians: the maximum turn angle
//
// Returns:
//   - LookAtIKBuilderOption: a function that applies the angle cap to a look-at IK
func WithMaxAngle(radians float32) LookAtIKBuilderOption {
	return func(l *lookAtIK) {
		l.maxAngle = radians
	}
}

// WithLookWeight is an option builder that sets the overall influence from 0 to 1.
//
// Parameters:
//   - weight: the weight
//
// Returns:
//   - LookAtIKBuilderOption: a function that applies the weight to a look-at IK
func WithLookWeight(weight float32) LookAtIKBuilderOption {
	return func(l *lookAtIK) {
		l.weight = weight
	}
}
