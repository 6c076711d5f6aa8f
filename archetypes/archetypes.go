package archetypes

import (
	"github.com/automoto/flaparena/components"
	"github.com/automoto/flaparena/tags"
	"github.com/yohamta/donburi"
)

var (
	Bird = newArchetype(
		tags.Bird,
		components.Bird,
		components.Object,
		components.Physics,
	)
	Obstacle = newArchetype(
		tags.Obstacle,
		components.Obstacle,
		components.Object,
	)
	Course = newArchetype(
		tags.Course,
		components.Course,
	)
	Lobby = newArchetype(
		tags.Lobby,
		components.Lobby,
	)
	Round = newArchetype(
		components.Round,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

// Spawn creates an entity in w. The world is taken directly rather than
// through ecs.ECS so the simulation can run without ebiten.
func (a *archetype) Spawn(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	e := w.Entry(w.Create(
		append(a.components, cs...)...,
	))
	return e
}
