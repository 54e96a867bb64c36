package ik

import (
	"log"
	"math"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultMaxLookAngle caps how far the head turns toward a target, in radians.
	DefaultMaxLookAngle float32 = math.Pi / 3

	neckWeightShare = 0.4
	headWeightShare = 0.6
)

// lookJoint is one joint turned by LookAtIK and the child that defines its forward direction.
type lookJoint struct {
	index, child int
}

// lookAtIK is the implementation of the LookAtIK interface.
type lookAtIK struct {
	head, neck lookJoint
	hasNeck    bool
	setUp      bool

	target    mgl32.Vec3
	hasTarget bool

	maxAngle float32
	weight   float32
}

// LookAtIK defines the interface for turning a head, and optionally the neck, toward a point.
//
// A joint's forward direction is the direction to its first child, or its local Y axis for a leaf.
// The turn is capped at the max angle. With a neck, the neck takes 40% of the weight within half the
// max angle and is applied first; the head then takes 60% of the weight within the full max angle.
type LookAtIK interface {
	// Setup resolves the head and optional neck joints by name.
	// On failure the LookAtIK stays not set up and Apply is a no-op.
	//
	// Parameters:
	//   - skeleton: the skeleton to resolve names against
	//   - head: the head joint name
	//   - neck: the neck joint name, empty for none
	//
	// Returns:
	//   - error: an error wrapping ErrJointNotFound for each missing joint
	Setup(skeleton *model.Skeleton, head, neck string) error

	// IsSetUp reports whether Setup succeeded.
	//
	// Returns:
	//   - bool: true if the joints are resolved
	IsSetUp() bool

	// SetTarget sets the point to look at, in the same space as the pose.
	//
	// Parameters:
	//   - target: the target position
	SetTarget(target mgl32.Vec3)

	// ClearTarget stops looking at anything. Apply is a no-op until a new target is set.
	ClearTarget()

	// Target returns the current target.
	//
	// Returns:
	//   - mgl32.Vec3: the target position
	//   - bool: false if no target is set
	Target() (mgl32.Vec3, bool)

	// SetWeight sets the overall influence from 0 to 1.
	//
	// Parameters:
	//   - weight: the weight
	SetWeight(weight float32)

	// Apply turns the joints toward the target. The pose's global matrices must be current.
	//
	// Parameters:
	//   - pose: the pose to adjust
	Apply(pose *Pose)
}

var _ LookAtIK = &lookAtIK{}

// NewLookAtIK creates a new LookAtIK with the specified options applied.
// The result must be Setup and given a target before it has any effect.
//
// Parameters:
//   - options: a variadic list of LookAtIKBuilderOption functions to configure the LookAtIK
//
// Returns:
//   - LookAtIK: a new instance of LookAtIK configured with the provided options
func NewLookAtIK(options ...LookAtIKBuilderOption) LookAtIK {
	l := &lookAtIK{
		maxAngle: DefaultMaxLookAngle,
		weight:   1,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *lookAtIK) Setup(skeleton *model.Skeleton, head, neck string) error {
	l.setUp = false
	names := []string{head}
	if neck != "" {
		names = append(names, neck)
	}
	idx, err := findJoints(skeleton, names...)
	if err != nil {
		log.Printf("[LookAtIK] setup failed, look-at disabled: %v", err)
		return err
	}
	l.head = lookJoint{index: idx[0], child: skeleton.FirstChild(idx[0])}
	l.hasNeck = len(idx) > 1
	if l.hasNeck {
		l.neck = lookJoint{index: idx[1], child: skeleton.FirstChild(idx[1])}
	}
	l.setUp = true
	return nil
}

func (l *lookAtIK) IsSetUp() bool {
	return l.setUp
}

func (l *lookAtIK) SetTarget(target mgl32.Vec3) {
	l.target = target
	l.hasTarget = true
}

func (l *lookAtIK) ClearTarget() {
	l.hasTarget = false
}

func (l *lookAtIK) Target() (mgl32.Vec3, bool) {
	return l.target, l.hasTarget
}

func (l *lookAtIK) SetWeight(weight float32) {
	l.weight = weight
}

func (l *lookAtIK) Apply(pose *Pose) {
	if !l.setUp || !l.hasTarget || l.weight <= 0 {
		return
	}
	w := min(l.weight, 1)
	if !l.hasNeck {
		l.turn(pose, l.head, w, l.maxAngle)
		return
	}
	l.turn(pose, l.neck, w*neckWeightShare, l.maxAngle*0.5)
	l.turn(pose, l.head, w*headWeightShare, l.maxAngle)
}

// turn rotates one joint toward the target by weight times the swing angle, capped at limit first.
func (l *lookAtIK) turn(pose *Pose, j lookJoint, weight, limit float32) {
	origin := pose.Position(j.index)
	var forward mgl32.Vec3
	if j.child >= 0 {
		forward = pose.Position(j.child).Sub(origin)
	} else {
		g := pose.Global[j.index]
		forward = mgl32.Vec3{g[4], g[5], g[6]}
	}
	axis, angle, ok := common.SwingBetween(forward, l.target.Sub(origin))
	if !ok {
		return
	}
	angle = min(angle, limit) * weight
	if angle < common.AngleEpsilon {
		return
	}
	pose.rotate(j.index, mgl32.QuatRotate(angle, axis))
}
