package scene

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/ik"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
)

// Scene manages a registry of GameObjects and advances all of their Animators each update.
// Entities are independent, so Update fans them out across a worker pool and waits on a
// per-update barrier before returning. Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether Update advances this scene.
	Active() bool

	// SetActive sets whether Update advances this scene.
	SetActive(active bool)

	// Count returns the number of GameObjects in the scene's registry.
	//
	// Returns:
	//   - int: count of GameObjects
	Count() int

	// Add adds a GameObject to the scene. Objects without an ID are assigned the next free one.
	// When the scene has a ground query, the object's FootIK is pointed at it through the object's
	// model-space wrapper.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the assigned object ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject from the registry by ID.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects from the scene.
	Clear()

	// SetGround replaces the world-space ground query and rewires every object's FootIK to it.
	// Passing nil disables grounding.
	//
	// Parameters:
	//   - ground: the world-space ground query
	SetGround(ground ik.GroundFunc)

	// Update advances every enabled GameObject by dt in parallel and returns once all have finished.
	// No-op while the scene is inactive. Calls to Update must not overlap.
	//
	// Parameters:
	//   - dt: elapsed time since the last update in seconds
	Update(dt float32)

	// Workers returns the configured worker count.
	//
	// Returns:
	//   - int: the worker count
	Workers() int

	// Release stops the worker pool. The scene must not be updated afterwards.
	Release()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry map[uint64]game_object.GameObject
	nextID   uint64
	ground   ik.GroundFunc

	// batch is reused each update to avoid per-update allocations.
	batch []game_object.GameObject

	updatePool    worker.DynamicWorkerPool
	updateWorkers int
	released      bool

	profiler *profiler.Profiler
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new active Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:            &sync.RWMutex{},
		name:          name,
		active:        true,
		registry:      make(map[uint64]game_object.GameObject),
		nextID:        1,
		updateWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the pool after options so WithWorkers can override the default.
	s.updatePool = worker.NewDynamicWorkerPool(s.updateWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(obj)
}

// add registers obj and wires its ground. Callers hold the write lock.
func (s *scene) add(obj game_object.GameObject) uint64 {
	if obj.ID() == 0 {
		obj.SetID(s.nextID)
	}
	s.nextID = max(s.nextID, obj.ID()+1)
	s.registry[obj.ID()] = obj
	s.wireGround(obj)
	return obj.ID()
}

func (s *scene) wireGround(obj game_object.GameObject) {
	anim := obj.Animator()
	if anim == nil || s.ground == nil {
		return
	}
	if foot := anim.FootIK(); foot != nil {
		foot.SetGround(obj.ModelGround(s.ground))
	}
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registry, id)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.registry)
}

func (s *scene) SetGround(ground ik.GroundFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ground = ground
	for _, obj := range s.registry {
		if ground != nil {
			s.wireGround(obj)
			continue
		}
		if anim := obj.Animator(); anim != nil && anim.FootIK() != nil {
			anim.FootIK().SetGround(nil)
		}
	}
}

func (s *scene) Update(dt float32) {
	s.mu.Lock()
	if !s.active || s.released {
		s.mu.Unlock()
		return
	}
	start := time.Now()
	s.batch = s.batch[:0]
	for _, obj := range s.registry {
		if obj.Enabled() && obj.Animator() != nil {
			s.batch = append(s.batch, obj)
		}
	}
	batch := s.batch
	s.mu.Unlock()

	// A WaitGroup gives a per-update barrier; pool.Wait() only returns once workers go idle.
	var wg sync.WaitGroup
	for i, obj := range batch {
		wg.Add(1)
		s.updatePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				obj.Update(dt)
				return nil, nil
			},
		})
	}
	wg.Wait()

	if s.profiler != nil {
		s.profiler.Record(len(batch), time.Since(start))
		s.profiler.Tick()
	}
}

func (s *scene) Workers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updateWorkers
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.updatePool.Stop()
}
