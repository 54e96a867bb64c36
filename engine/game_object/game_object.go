package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/ik"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id       uint64
	enabled  atomic.Bool
	mdl      model.Model
	animator animator.Animator

	mu       *sync.RWMutex
	position mgl32.Vec3
	yaw      float32
	scale    float32
}

// GameObject defines the interface for a scene entity that owns one Animator and places its
// model-space pose in the world with a position, a yaw about +Y and a uniform scale.
// The placement is never baked into the pose; it only converts world-space IK inputs into model space.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Enabled returns whether this object is updated by its Scene.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is updated by its Scene.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// SetModel assigns a Model, pointing the Animator at its skeleton when one is attached.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// Animator returns the Animator associated with this object.
	//
	// Returns:
	//   - animator.Animator: the associated Animator, or nil
	Animator() animator.Animator

	// SetAnimator sets the Animator associated with this object.
	//
	// Parameters:
	//   - anim: the Animator to associate
	SetAnimator(anim animator.Animator)

	// Position returns the world position of the model origin.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition sets the world position of the model origin.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// Yaw returns the rotation about the world +Y axis in radians.
	//
	// Returns:
	//   - float32: the yaw
	Yaw() float32

	// SetYaw sets the rotation about the world +Y axis in radians.
	//
	// Parameters:
	//   - yaw: the yaw
	SetYaw(yaw float32)

	// Scale returns the uniform scale.
	//
	// Returns:
	//   - float32: the scale
	Scale() float32

	// SetScale sets the uniform scale. Non-positive values are ignored.
	//
	// Parameters:
	//   - scale: the scale
	SetScale(scale float32)

	// WorldMatrix returns the model-to-world matrix T * Ry * S.
	//
	// Returns:
	//   - mgl32.Mat4: the matrix
	WorldMatrix() mgl32.Mat4

	// ToModelSpace converts a world-space point into this object's model space.
	//
	// Parameters:
	//   - world: the world-space point
	//
	// Returns:
	//   - mgl32.Vec3: the model-space point
	ToModelSpace(world mgl32.Vec3) mgl32.Vec3

	// ModelGround wraps a world-space ground query so FootIK can sample it with model-space X/Z and
	// receive a model-space height. The wrapper reads the placement at call time.
	//
	// Parameters:
	//   - ground: the world-space ground query
	//
	// Returns:
	//   - ik.GroundFunc: the model-space query, or nil when ground is nil
	ModelGround(ground ik.GroundFunc) ik.GroundFunc

	// LookAt points the Animator's LookAtIK at a world-space target. No-op without one attached.
	//
	// Parameters:
	//   - target: the world-space target
	LookAt(target mgl32.Vec3)

	// ClearLookAt releases the LookAtIK target.
	ClearLookAt()

	// Update advances the Animator by dt when the object is enabled.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects start enabled at the origin with unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:    &sync.RWMutex{},
		scale: 1,
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	if obj.animator != nil && obj.mdl != nil && obj.animator.Skeleton() == nil {
		obj.animator.SetSkeleton(obj.mdl.Skeleton())
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) SetModel(m model.Model) {
	g.mdl = m
	if g.animator != nil && m != nil {
		g.animator.SetSkeleton(m.Skeleton())
	}
}

func (g *gameObject) Animator() animator.Animator {
	return g.animator
}

func (g *gameObject) SetAnimator(anim animator.Animator) {
	g.animator = anim
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = mgl32.Vec3{x, y, z}
}

func (g *gameObject) Yaw() float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.yaw
}

func (g *gameObject) SetYaw(yaw float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.yaw = yaw
}

func (g *gameObject) Scale() float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) SetScale(scale float32) {
	if scale <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = scale
}

func (g *gameObject) WorldMatrix() mgl32.Mat4 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return mgl32.Translate3D(g.position[0], g.position[1], g.position[2]).
		Mul4(mgl32.HomogRotate3DY(g.yaw)).
		Mul4(mgl32.Scale3D(g.scale, g.scale, g.scale))
}

func (g *gameObject) ToModelSpace(world mgl32.Vec3) mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.toModel(world)
}

// toModel undoes the placement in reverse order. Callers hold the lock.
func (g *gameObject) toModel(world mgl32.Vec3) mgl32.Vec3 {
	p := mgl32.QuatRotate(-g.yaw, mgl32.Vec3{0, 1, 0}).Rotate(world.Sub(g.position))
	return p.Mul(1 / g.scale)
}

func (g *gameObject) ModelGround(ground ik.GroundFunc) ik.GroundFunc {
	if ground == nil {
		return nil
	}
	return func(x, z float32) float32 {
		g.mu.RLock()
		defer g.mu.RUnlock()
		w := mgl32.QuatRotate(g.yaw, mgl32.Vec3{0, 1, 0}).Rotate(mgl32.Vec3{x, 0, z}).Mul(g.scale).Add(g.position)
		return (ground(w[0], w[2]) - g.position[1]) / g.scale
	}
}

func (g *gameObject) LookAt(target mgl32.Vec3) {
	if g.animator == nil {
		return
	}
	look := g.animator.LookAtIK()
	if look == nil {
		return
	}
	look.SetTarget(g.ToModelSpace(target))
}

func (g *gameObject) ClearLookAt() {
	if g.animator == nil {
		return
	}
	if look := g.animator.LookAtIK(); look != nil {
		look.ClearTarget()
	}
}

func (g *gameObject) Update(dt float32) {
	if !g.enabled.Load() || g.animator == nil {
		return
	}
	g.animator.Update(dt)
}
