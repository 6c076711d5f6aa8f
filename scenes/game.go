package scenes

import (
	"log"
	"sync"
	"time"

	"github.com/automoto/flaparena/archetypes"
	"github.com/automoto/flaparena/components"
	cfg "github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/simulation"
	"github.com/automoto/flaparena/systems/render"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi/ecs"
)

// GameScene plays one round. Ticks come from a simulation.Clock polled on
// each ebiten update; lobby frames are applied on the same goroutine between
// ticks.
type GameScene struct {
	host  Host
	lobby *LobbyScene

	ecs   *ecs.ECS
	sim   *simulation.Simulation
	clock *simulation.Clock
	round *components.RoundData
	flash *gween.Tween
	once  sync.Once

	finished bool
}

func NewGameScene(host Host, lobby *LobbyScene) *GameScene {
	return &GameScene{host: host, lobby: lobby}
}

func (gs *GameScene) Update() {
	gs.once.Do(gs.configure)

	if gs.lobby != nil {
		gs.lobby.Pump()
		gs.round.Notice = gs.lobby.Summary()
	}

	if jumpPressed() {
		gs.clock.Post(gs.sim.Jump)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		gs.finish("left the round")
	}

	if !gs.finished && gs.clock.Poll(time.Now()) {
		gs.round.Passed = gs.sim.Passed()
		gs.updateFlash()
	}

	if gs.finished {
		gs.clock.Stop()
		if gs.lobby != nil {
			gs.host.ChangeScene(gs.lobby)
		} else {
			gs.host.Quit()
		}
	}
}

func (gs *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.SkyBlue)

	if gs.ecs == nil {
		return
	}
	gs.ecs.Draw(screen)
}

func (gs *GameScene) configure() {
	gs.sim = simulation.New(simulation.Options{
		Width:  float64(cfg.C.Width),
		Height: float64(cfg.C.Height),
		BirdX:  cfg.Bird.StartX,
		BirdY:  cfg.Bird.StartY,
		Seed:   cfg.Sim.Seed,
	})
	gs.clock = simulation.NewClock(cfg.Sim.TickPeriod(), gs.sim.Step)
	gs.clock.OnStop(gs.sim.OnCollision(gs.onCollision))

	roundEntry := archetypes.Round.Spawn(gs.sim.World())
	gs.round = components.Round.Get(roundEntry)

	gs.ecs = ecs.NewECS(gs.sim.World())
	gs.ecs.AddRenderer(render.LayerDefault, render.DrawCourse)
	gs.ecs.AddRenderer(render.LayerDefault, render.DrawBird)
	gs.ecs.AddRenderer(render.LayerDefault, render.DrawHUD)
}

func (gs *GameScene) onCollision(e components.CollisionEventData) {
	gs.round.Hits++
	if gs.flash == nil {
		seconds := float32(cfg.Game.FlashFrames) / float32(cfg.Sim.TickRate)
		gs.flash = gween.New(1, 0, seconds, ease.OutQuad)
	} else {
		gs.flash.Reset()
	}
	if cfg.Game.EndOnCollision {
		log.Printf("[sim] tick %d: hit %s pipe #%d, round over", e.Tick, e.Segment, e.Seq)
		gs.finish("collision")
	}
}

func (gs *GameScene) updateFlash() {
	if gs.flash == nil {
		return
	}
	v, done := gs.flash.Update(float32(gs.clock.Period().Seconds()))
	gs.round.Flash = v
	if done {
		gs.flash = nil
		gs.round.Flash = 0
	}
}

func (gs *GameScene) finish(reason string) {
	if gs.finished {
		return
	}
	gs.finished = true
	log.Printf("[sim] round ended after %d ticks: %s (passed %d, hits %d)",
		gs.sim.Tick(), reason, gs.sim.Passed(), gs.round.Hits)
}

// Close stops the round clock, which unsubscribes the collision hook, and
// releases the lobby session. Safe to call more than once.
func (gs *GameScene) Close() {
	if gs.clock != nil {
		gs.clock.Stop()
	}
	if gs.lobby != nil {
		gs.lobby.Close()
	}
}

func jumpPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}
