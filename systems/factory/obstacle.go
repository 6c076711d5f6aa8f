package factory

import (
	"github.com/automoto/flaparena/archetypes"
	"github.com/automoto/flaparena/components"
	cfg "github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// CreateObstacle spawns a pipe pair at x. The entity's Object spans the full
// column; the two collision segments are created unplaced and get their
// geometry when the pair is queued. It does not touch the course queue.
func CreateObstacle(w donburi.World, x, gapTop float64, seq uint64) *donburi.Entry {
	pipe := archetypes.Obstacle.Spawn(w)

	height := 0.0
	if entry, ok := components.Course.First(w); ok {
		height = components.Course.Get(entry).Height
	}

	obj := resolv.NewObject(x, 0, cfg.Pipe.SpriteWidth, height)
	obj.Data = pipe
	components.Object.SetValue(pipe, components.ObjectData{Object: obj})

	top := resolv.NewObject(x, 0, 0, 0, tags.ResolvPipe)
	top.Data = pipe
	bottom := resolv.NewObject(x, 0, 0, 0, tags.ResolvPipe)
	bottom.Data = pipe

	components.Obstacle.SetValue(pipe, components.ObstacleData{
		GapTop:  gapTop,
		GapSize: cfg.Pipe.GapSize,
		Seq:     seq,
		Top:     top,
		Bottom:  bottom,
	})

	return pipe
}
