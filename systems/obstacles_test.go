package systems

import (
	"sort"
	"testing"

	"github.com/automoto/flaparena/components"
	cfg "github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/systems/factory"
	"github.com/automoto/flaparena/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

// generatorTick runs the generator steps in tick order.
func generatorTick(w donburi.World) {
	UpdateObstacles(w)
	UpdateSpawner(w)
}

func TestSpawnerFillsEmptyQueue(t *testing.T) {
	w, _ := newTestWorld(t, 1280, 720)

	UpdateSpawner(w)
	require.Len(t, Obstacles(w), 1)

	pipe := Obstacles(w)[0]
	assert.Equal(t, 1280.0, components.Object.Get(pipe).X)
	assert.Equal(t, cfg.Pipe.GapSize, components.Obstacle.Get(pipe).GapSize)
	assert.Equal(t, uint64(1), components.Obstacle.Get(pipe).Seq)

	UpdateSpawner(w)
	assert.Len(t, Obstacles(w), 1, "newest pipe is still near the right edge")
}

func TestSpawnConditionBoundary(t *testing.T) {
	w, _ := newTestWorld(t, 1280, 720)
	c := course(t, w)
	pipe := factory.CreateObstacle(w, 830, 100, 1)
	EnqueueObstacle(c, pipe)

	assert.False(t, ShouldSpawn(w, c), "x == width-gap is not past the gap")

	components.Object.Get(pipe).X = 829.9
	assert.True(t, ShouldSpawn(w, c))
}

func TestAtMostOneSpawnPerTick(t *testing.T) {
	w, _ := newTestWorld(t, 1280, 720)

	for i := 0; i < 3000; i++ {
		before := len(Obstacles(w))
		spawnedBefore := course(t, w).Spawned
		generatorTick(w)
		assert.LessOrEqual(t, course(t, w).Spawned-spawnedBefore, uint64(1))
		assert.LessOrEqual(t, len(Obstacles(w)), before+1)
	}
}

func TestSpawnHappensExactlyWhenConditionHolds(t *testing.T) {
	w, _ := newTestWorld(t, 1280, 720)
	c := course(t, w)

	for i := 0; i < 2000; i++ {
		UpdateObstacles(w)
		want := ShouldSpawn(w, c)
		before := c.Spawned
		UpdateSpawner(w)
		assert.Equal(t, want, c.Spawned == before+1, "tick %d", i)
	}
}

func TestQueueStaysOrderedAndPrunes(t *testing.T) {
	w, _ := newTestWorld(t, 1280, 720)

	for i := 0; i < 3000; i++ {
		generatorTick(w)
		xs := queueXs(w)
		assert.True(t, sort.Float64sAreSorted(xs), "tick %d: %v", i, xs)
		for _, e := range Obstacles(w) {
			obj := components.Object.Get(e)
			assert.Greater(t, obj.X+obj.W, 0.0)
		}
	}
}

func TestUpdateObstaclesRemovesOffscreenEntity(t *testing.T) {
	w, _ := newTestWorld(t, 1280, 720)
	c := course(t, w)
	gone := factory.CreateObstacle(w, -58, 100, 1)
	stays := factory.CreateObstacle(w, 400, 100, 2)
	EnqueueObstacle(c, gone)
	EnqueueObstacle(c, stays)
	goneTop := components.Obstacle.Get(gone).Top

	UpdateObstacles(w)

	assert.False(t, w.Valid(gone.Entity()), "x+width <= 0 removes the entity")
	assert.Nil(t, goneTop.Space, "pruned segments leave the course space")
	require.Len(t, c.Queue, 1)
	assert.Equal(t, stays.Entity(), c.Queue[0])
	assert.Equal(t, 398.0, components.Object.Get(stays).X)
}

func TestRandomGapTopRange(t *testing.T) {
	w, _ := newTestWorld(t, 1280, 720)
	c := course(t, w)
	for i := 0; i < 1000; i++ {
		g := RandomGapTop(c)
		assert.GreaterOrEqual(t, g, 50.0)
		assert.LessOrEqual(t, g, 420.0)
	}

	c.Height = 320
	assert.Equal(t, 50.0, RandomGapTop(c), "empty range pins the gap to the minimum")
}

func TestSegmentsFollowTheirPair(t *testing.T) {
	w, _ := newTestWorld(t, 1280, 720)
	c := course(t, w)
	pipe := factory.CreateObstacle(w, 400, 100, 1)
	EnqueueObstacle(c, pipe)

	ob := components.Obstacle.Get(pipe)
	require.NotNil(t, ob.Top.Space)
	require.NotNil(t, ob.Bottom.Space)
	assert.Equal(t, 400.0, ob.Top.X)
	assert.Equal(t, 350.0, ob.Bottom.Y)

	for i := 0; i < 10; i++ {
		UpdateObstacles(w)
	}
	assert.Equal(t, 380.0, components.Object.Get(pipe).X)
	assert.Equal(t, 380.0, ob.Top.X)
	assert.Equal(t, 380.0, ob.Bottom.X)
	assert.True(t, ob.Top.HasTags(tags.ResolvPipe))
	assert.Equal(t, pipe, ob.Top.Data)
}
