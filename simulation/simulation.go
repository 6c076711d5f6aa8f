// Package simulation owns one round of play: the donburi world holding the
// bird and the obstacle queue, stepped one fixed tick at a time. It never
// imports ebiten so it can run headless and under test.
package simulation

import (
	"math/rand"
	"time"

	"github.com/automoto/flaparena/components"
	"github.com/automoto/flaparena/shared/gamemath"
	"github.com/automoto/flaparena/systems"
	"github.com/automoto/flaparena/systems/factory"
	"github.com/yohamta/donburi"
)

type Options struct {
	Width  float64 // canvas size, supplied by the render-surface owner
	Height float64
	BirdX  float64
	BirdY  float64

	// Seed seeds the gap generator when Rand is nil. Zero picks a time seed.
	Seed int64
	Rand *rand.Rand
}

type BirdState struct {
	X, Y     float64
	W, H     float64
	Velocity float64
	Hitbox   gamemath.Rect
}

type ObstacleState struct {
	X       float64
	W, H    float64
	GapTop  float64
	GapSize float64
	Seq     uint64
	Top     gamemath.Rect
	Bottom  gamemath.Rect
}

type collisionListener struct {
	id int
	fn func(components.CollisionEventData)
}

// Simulation is the explicit context every tick step operates on. It is not
// safe for concurrent use; drive it from a single Clock.
type Simulation struct {
	world  donburi.World
	bird   *donburi.Entry
	course *donburi.Entry

	listeners []collisionListener
	nextID    int
}

func New(opts Options) *Simulation {
	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	w := donburi.NewWorld()
	s := &Simulation{
		world:  w,
		course: factory.CreateCourse(w, opts.Width, opts.Height, rng),
		bird:   factory.CreateBird(w, opts.BirdX, opts.BirdY),
	}
	components.CollisionEvent.Subscribe(w, s.dispatchCollision)
	return s
}

// Step advances one tick: physics, scroll and prune, spawn, then collision
// detection. Collision listeners run before Step returns.
func (s *Simulation) Step() {
	components.Course.Get(s.course).Tick++

	systems.UpdatePhysics(s.world)
	systems.UpdateObstacles(s.world)
	systems.UpdateSpawner(s.world)
	systems.UpdateCollisions(s.world)

	components.CollisionEvent.ProcessEvents(s.world)
}

func (s *Simulation) Jump() {
	systems.Jump(s.world)
}

// OnCollision registers fn for every collision event and returns a func that
// removes it. Calling the returned func more than once is harmless.
func (s *Simulation) OnCollision(fn func(components.CollisionEventData)) (unsubscribe func()) {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, collisionListener{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Simulation) dispatchCollision(_ donburi.World, e components.CollisionEventData) {
	for _, l := range s.listeners {
		l.fn(e)
	}
}

func (s *Simulation) Bird() BirdState {
	obj := components.Object.Get(s.bird)
	return BirdState{
		X:        obj.X,
		Y:        obj.Y,
		W:        obj.W,
		H:        obj.H,
		Velocity: components.Physics.Get(s.bird).SpeedY,
		Hitbox:   systems.BirdHitbox(s.bird),
	}
}

// Obstacles returns the queue, oldest first.
func (s *Simulation) Obstacles() []ObstacleState {
	height := components.Course.Get(s.course).Height
	entries := systems.Obstacles(s.world)
	out := make([]ObstacleState, 0, len(entries))
	for _, e := range entries {
		obj := components.Object.Get(e)
		ob := components.Obstacle.Get(e)
		top, bottom := systems.ObstacleSegments(e, height)
		out = append(out, ObstacleState{
			X:       obj.X,
			W:       obj.W,
			H:       obj.H,
			GapTop:  ob.GapTop,
			GapSize: ob.GapSize,
			Seq:     ob.Seq,
			Top:     top,
			Bottom:  bottom,
		})
	}
	return out
}

func (s *Simulation) Tick() uint64 {
	return components.Course.Get(s.course).Tick
}

// Passed counts obstacles whose right edge is left of the bird.
func (s *Simulation) Passed() int {
	birdX := components.Object.Get(s.bird).X
	course := components.Course.Get(s.course)
	onScreenPassed := 0
	for _, o := range s.Obstacles() {
		if o.X+o.W < birdX {
			onScreenPassed++
		}
	}
	pruned := int(course.Spawned) - len(course.Queue)
	return pruned + onScreenPassed
}

func (s *Simulation) Size() (width, height float64) {
	c := components.Course.Get(s.course)
	return c.Width, c.Height
}

func (s *Simulation) World() donburi.World {
	return s.world
}
