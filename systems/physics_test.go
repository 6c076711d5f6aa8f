package systems

import (
	"math/rand"
	"testing"

	"github.com/automoto/flaparena/components"
	"github.com/stretchr/testify/assert"
)

func TestUpdatePhysicsAppliesGravity(t *testing.T) {
	w, bird := newTestWorld(t, 1280, 720)

	UpdatePhysics(w)
	assert.Equal(t, 0.5, components.Physics.Get(bird).SpeedY)
	assert.Equal(t, 250.5, components.Object.Get(bird).Y)

	UpdatePhysics(w)
	assert.Equal(t, 1.0, components.Physics.Get(bird).SpeedY)
	assert.Equal(t, 251.5, components.Object.Get(bird).Y)
}

func TestJumpOverridesVelocity(t *testing.T) {
	w, bird := newTestWorld(t, 1280, 720)
	components.Physics.Get(bird).SpeedY = 14

	Jump(w)
	assert.Equal(t, -10.0, components.Physics.Get(bird).SpeedY)

	Jump(w)
	assert.Equal(t, -10.0, components.Physics.Get(bird).SpeedY, "jump is not additive")

	UpdatePhysics(w)
	assert.Equal(t, -9.5, components.Physics.Get(bird).SpeedY)
	assert.Equal(t, 240.5, components.Object.Get(bird).Y)
}

func TestUpdatePhysicsClampsToCanvas(t *testing.T) {
	w, bird := newTestWorld(t, 1280, 720)
	obj := components.Object.Get(bird)

	obj.Y = 639
	components.Physics.Get(bird).SpeedY = 5
	UpdatePhysics(w)
	assert.Equal(t, 640.0, obj.Y)
	assert.Zero(t, components.Physics.Get(bird).SpeedY)

	obj.Y = 3
	Jump(w)
	UpdatePhysics(w)
	assert.Zero(t, obj.Y)
	assert.Zero(t, components.Physics.Get(bird).SpeedY)
}

func TestBirdStaysInBoundsUnderRandomInput(t *testing.T) {
	w, bird := newTestWorld(t, 1280, 720)
	rng := rand.New(rand.NewSource(7))
	obj := components.Object.Get(bird)

	for i := 0; i < 5000; i++ {
		if rng.Intn(6) == 0 {
			Jump(w)
		}
		UpdatePhysics(w)
		assert.GreaterOrEqual(t, obj.Y, 0.0)
		assert.LessOrEqual(t, obj.Y, 720-obj.H)
		assert.Equal(t, 250.0, obj.X, "bird never moves horizontally")
	}
}
