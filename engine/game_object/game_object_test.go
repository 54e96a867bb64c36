package game_object

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/ik"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-4

func newChain(t *testing.T) *model.Skeleton {
	t.Helper()
	bind := func(y float32) model.Transform {
		tr := model.IdentityTransform()
		tr.Translation = mgl32.Vec3{0, y, 0}
		return tr
	}
	skel, err := model.NewSkeleton([]model.Joint{
		{Name: "root", ParentIndex: -1, LocalBind: bind(0)},
		{Name: "neck", ParentIndex: 0, LocalBind: bind(1)},
		{Name: "head", ParentIndex: 1, LocalBind: bind(1)},
	})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	skel.InverseBindFromPose()
	return skel
}

func spin() *model.AnimationClip {
	return &model.AnimationClip{
		Name:     "spin",
		Duration: 2,
		Channels: []model.AnimationChannel{{
			JointIndex: 0,
			RotationKeys: []model.QuaternionKeyframe{
				{Time: 0, Value: mgl32.QuatIdent()},
				{Time: 2, Value: mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0})},
			},
		}},
	}
}

func TestToModelSpaceInvertsWorldMatrix(t *testing.T) {
	obj := NewGameObject(WithPosition(3, 1, -2), WithYaw(0.7), WithScale(2))
	p := mgl32.Vec3{0.5, 1.5, -0.25}
	world := obj.WorldMatrix().Mul4x1(p.Vec4(1)).Vec3()
	if got := obj.ToModelSpace(world); !got.ApproxEqualThreshold(p, tol) {
		t.Errorf("ToModelSpace = %v, want %v", got, p)
	}
}

func TestModelGround(t *testing.T) {
	tests := []struct {
		name   string
		opts   []GameObjectBuilderOption
		ground ik.GroundFunc
		x, z   float32
		want   float32
	}{
		{"flat ground below origin", []GameObjectBuilderOption{WithPosition(0, 1, 0)},
			func(x, z float32) float32 { return 0.5 }, 0, 0, -0.5},
		{"scale shrinks heights", []GameObjectBuilderOption{WithPosition(0, 1, 0), WithScale(2)},
			func(x, z float32) float32 { return 0.5 }, 0, 0, -0.25},
		{"translation moves the sample point", []GameObjectBuilderOption{WithPosition(3, 0, 0)},
			func(x, z float32) float32 { return x }, 1, 0, 4},
		{"yaw rotates the sample point", []GameObjectBuilderOption{WithYaw(math.Pi / 2)},
			func(x, z float32) float32 { return z }, 1, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewGameObject(tt.opts...)
			got := obj.ModelGround(tt.ground)(tt.x, tt.z)
			if !scalar.EqualWithinAbs(float64(got), float64(tt.want), tol) {
				t.Errorf("height = %v, want %v", got, tt.want)
			}
		})
	}
	if NewGameObject().ModelGround(nil) != nil {
		t.Error("nil ground should stay nil")
	}
}

func TestModelGroundReadsCurrentPlacement(t *testing.T) {
	obj := NewGameObject()
	ground := obj.ModelGround(func(x, z float32) float32 { return 0 })
	obj.SetPosition(0, 2, 0)
	if got := ground(0, 0); !scalar.EqualWithinAbs(float64(got), -2, tol) {
		t.Errorf("height = %v, want -2", got)
	}
}

func TestLookAtConvertsTarget(t *testing.T) {
	skel := newChain(t)
	look := ik.NewLookAtIK()
	if err := look.Setup(skel, "head", "neck"); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	anim := animator.NewAnimator(animator.WithLookAtIK(look))
	obj := NewGameObject(
		WithModel(model.NewModel(model.WithSkeleton(skel))),
		WithAnimator(anim),
		WithPosition(10, 0, 0),
	)
	if anim.Skeleton() != skel {
		t.Fatal("animator was not pointed at the model skeleton")
	}

	obj.LookAt(mgl32.Vec3{10, 2, 1})
	target, ok := look.Target()
	if !ok || !target.ApproxEqualThreshold(mgl32.Vec3{0, 2, 1}, tol) {
		t.Errorf("target = %v (%v), want (0,2,1)", target, ok)
	}
	obj.ClearLookAt()
	if _, ok := look.Target(); ok {
		t.Error("target still set after ClearLookAt")
	}
}

func TestDisabledObjectDoesNotAdvance(t *testing.T) {
	anim := animator.NewAnimator(animator.WithSkeleton(newChain(t)))
	anim.Play(spin(), true)
	obj := NewGameObject(WithAnimator(anim), WithEnabled(false))

	obj.Update(0.5)
	if anim.Time() != 0 {
		t.Errorf("disabled object advanced to %v", anim.Time())
	}
	obj.SetEnabled(true)
	obj.Update(0.5)
	if !scalar.EqualWithinAbs(float64(anim.Time()), 0.5, tol) {
		t.Errorf("time = %v, want 0.5", anim.Time())
	}
}

func TestSetScaleIgnoresNonPositive(t *testing.T) {
	obj := NewGameObject(WithScale(-1))
	obj.SetScale(0)
	if obj.Scale() != 1 {
		t.Errorf("scale = %v, want 1", obj.Scale())
	}
}
