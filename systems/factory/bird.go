package factory

import (
	"github.com/automoto/flaparena/archetypes"
	"github.com/automoto/flaparena/components"
	cfg "github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// CreateBird spawns the bird and registers it in the course space. Create the
// course first.
func CreateBird(w donburi.World, x, y float64) *donburi.Entry {
	bird := archetypes.Bird.Spawn(w)

	obj := resolv.NewObject(x, y, cfg.Bird.SpriteWidth, cfg.Bird.SpriteHeight, tags.ResolvBird)
	obj.Data = bird
	if space := courseSpace(w); space != nil {
		space.Add(obj)
	}
	components.Object.SetValue(bird, components.ObjectData{Object: obj})
	components.Physics.SetValue(bird, components.PhysicsData{
		Gravity: cfg.Bird.Gravity,
	})
	components.Bird.SetValue(bird, components.BirdData{
		JumpSpeed:   cfg.Bird.JumpStrength,
		HitboxInset: cfg.Bird.HitboxInset,
	})

	return bird
}
