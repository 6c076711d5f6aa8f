package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/flaparena/components"
	"github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/network"
	"github.com/automoto/flaparena/shared/messages"
	"github.com/automoto/flaparena/simulation"
	"github.com/automoto/flaparena/systems"
	"github.com/automoto/flaparena/systems/factory"
	"github.com/yohamta/donburi"
)

// runHeadless steps a round on the simulation clock without a window. Lobby
// envelopes are posted to the clock so the roster is only touched on the
// tick goroutine.
func runHeadless(session *network.Session) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := simulation.New(simulation.Options{
		Width:  float64(config.C.Width),
		Height: float64(config.C.Height),
		BirdX:  config.Bird.StartX,
		BirdY:  config.Bird.StartY,
		Seed:   config.Sim.Seed,
	})
	clock := simulation.NewClock(config.Sim.TickPeriod(), sim.Step)

	hits := 0
	clock.OnStop(sim.OnCollision(func(e components.CollisionEventData) {
		hits++
		log.Printf("[sim] tick %d: hit %s pipe #%d", e.Tick, e.Segment, e.Seq)
		if config.Game.EndOnCollision {
			clock.Stop()
		}
	}))

	if session != nil {
		world := donburi.NewWorld()
		lobby := components.Lobby.Get(factory.CreateLobby(world, "", ""))
		clock.OnStop(func() { _ = session.Close() })

		go func() {
			if err := session.Connect(ctx); err != nil && !errors.Is(err, network.ErrSessionClosed) {
				log.Printf("[lobby] %v", err)
			}
		}()
		go forwardEnvelopes(session, clock, lobby)
	}

	err := clock.Run(ctx)
	log.Printf("[sim] stopped after %d ticks: passed %d, hits %d", sim.Tick(), sim.Passed(), hits)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func forwardEnvelopes(session *network.Session, clock *simulation.Clock, lobby *components.LobbyData) {
	for env := range session.Inbox() {
		env := env
		ok := clock.Post(func() {
			if err := systems.ApplyEnvelope(lobby, env); err != nil {
				log.Printf("[lobby] skipping %s: %v", env.Type, err)
				return
			}
			if env.IsSnapshot() || env.Type == messages.TypePlayerReady {
				logRoster(lobby)
			}
		})
		if !ok {
			return
		}
	}
}

func logRoster(lobby *components.LobbyData) {
	users := systems.Users(lobby)
	log.Printf("[lobby] %d players (all ready: %t)", len(users), systems.AllReady(lobby))
	for _, u := range users {
		log.Printf("[lobby]   %s (%s) connected=%t ready=%t", u.Username, u.ID, u.Connected, u.Ready)
	}
}
