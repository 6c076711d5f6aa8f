// Package render draws the simulation world. It is the only part of systems
// that depends on ebiten.
package render

import (
	"fmt"
	"image/color"

	"github.com/automoto/flaparena/components"
	cfg "github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/fonts"
	"github.com/automoto/flaparena/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

const LayerDefault ecs.LayerID = 0

var pipeCap = color.RGBA{R: 60, G: 140, B: 40, A: 255}

// DrawCourse draws every queued pipe pair. The sprite is drawn at full size;
// the collision segments are slightly smaller.
func DrawCourse(ecs *ecs.ECS, screen *ebiten.Image) {
	entry, ok := components.Course.First(ecs.World)
	if !ok {
		return
	}
	height := float32(components.Course.Get(entry).Height)

	for _, e := range systems.Obstacles(ecs.World) {
		obj := components.Object.Get(e)
		ob := components.Obstacle.Get(e)
		x, w := float32(obj.X), float32(obj.W)
		gapTop := float32(ob.GapTop)
		gapBottom := float32(ob.GapTop + ob.GapSize)

		vector.DrawFilledRect(screen, x, 0, w, gapTop, cfg.PipeGreen, false)
		vector.DrawFilledRect(screen, x-4, gapTop-24, w+8, 24, pipeCap, false)
		vector.DrawFilledRect(screen, x, gapBottom, w, height-gapBottom, cfg.PipeGreen, false)
		vector.DrawFilledRect(screen, x-4, gapBottom, w+8, 24, pipeCap, false)
	}
}

func DrawBird(ecs *ecs.ECS, screen *ebiten.Image) {
	components.Bird.Each(ecs.World, func(e *donburi.Entry) {
		obj := components.Object.Get(e)
		cx := float32(obj.X + obj.W/2)
		cy := float32(obj.Y + obj.H/2)
		r := float32(obj.W / 2)
		vector.DrawFilledCircle(screen, cx, cy, r, cfg.Yellow, true)
		vector.DrawFilledCircle(screen, cx+r/3, cy-r/4, r/6, color.Black, true)

		if cfg.Game.ShowHitboxes {
			box := systems.BirdHitbox(e)
			vector.StrokeRect(screen, float32(box.X), float32(box.Y), float32(box.W), float32(box.H), 1, cfg.Red, false)
		}
	})
}

func DrawHUD(ecs *ecs.ECS, screen *ebiten.Image) {
	entry, ok := components.Round.First(ecs.World)
	if !ok {
		return
	}
	round := components.Round.Get(entry)

	if round.Flash > 0 {
		w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
		a := uint8(160 * round.Flash)
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), color.RGBA{R: a, A: a}, false)
	}

	text.Draw(screen, fmt.Sprintf("%d", round.Passed), fonts.Title.Get(), 24, 48, cfg.White)
	text.Draw(screen, fmt.Sprintf("hits %d", round.Hits), fonts.Small.Get(), 24, 76, cfg.White)
	if round.Notice != "" {
		text.Draw(screen, round.Notice, fonts.Small.Get(), 24, screen.Bounds().Dy()-24, cfg.White)
	}
}
