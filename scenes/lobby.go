package scenes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/automoto/flaparena/components"
	cfg "github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/network"
	"github.com/automoto/flaparena/shared/messages"
	"github.com/automoto/flaparena/systems"
	"github.com/automoto/flaparena/systems/factory"
	"github.com/automoto/flaparena/ui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
)

// Host is what scenes need from the game: scene switching and quitting.
type Host interface {
	SceneChanger
	Quitter
}

// LobbyScene shows the roster and owns the lobby session. The session stays
// open while a round is played so roster updates keep arriving.
type LobbyScene struct {
	host    Host
	session *network.Session

	world     donburi.World
	lobbyData *components.LobbyData
	lobbyUI   *ui.LobbyUI
	once      sync.Once

	shouldPlay bool
	shouldQuit bool
}

func NewLobbyScene(host Host, session *network.Session, localID messages.UserID, username string) *LobbyScene {
	ls := &LobbyScene{
		host:    host,
		session: session,
		world:   donburi.NewWorld(),
	}
	ls.lobbyData = components.Lobby.Get(factory.CreateLobby(ls.world, localID, username))
	return ls
}

func (ls *LobbyScene) Update() {
	ls.once.Do(ls.configure)

	ls.Pump()
	ls.lobbyUI.SetStatus(ls.status())
	ls.lobbyUI.Update()

	if ls.shouldQuit {
		ls.shouldQuit = false
		ls.Close()
		ls.host.Quit()
		return
	}
	if ls.shouldPlay {
		ls.shouldPlay = false
		ls.host.ChangeScene(NewGameScene(ls.host, ls))
	}
}

func (ls *LobbyScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.SkyBlue)

	if ls.lobbyUI == nil {
		return
	}
	ls.lobbyUI.UI.Draw(screen)
}

func (ls *LobbyScene) configure() {
	ls.lobbyUI = ui.NewLobbyUI(ls.lobbyData)
	ls.lobbyUI.OnReady = ls.ready
	ls.lobbyUI.OnInfo = ls.info
	ls.lobbyUI.OnPlay = func() { ls.shouldPlay = true }
	ls.lobbyUI.OnQuit = func() { ls.shouldQuit = true }

	if ls.session == nil {
		return
	}
	go func() {
		if err := ls.session.Connect(context.Background()); err != nil && !errors.Is(err, network.ErrSessionClosed) {
			log.Printf("[lobby] %v", err)
		}
	}()
}

// Pump applies every envelope that arrived since the last frame. It runs on
// the ebiten update goroutine, so the roster needs no locking.
func (ls *LobbyScene) Pump() {
	if ls.session == nil {
		return
	}
	for _, env := range ls.session.Drain() {
		if err := systems.ApplyEnvelope(ls.lobbyData, env); err != nil {
			log.Printf("[lobby] skipping %s: %v", env.Type, err)
		}
	}
}

func (ls *LobbyScene) ready() {
	if !systems.MarkLocalReady(ls.lobbyData) {
		log.Printf("[lobby] local player %q not in roster, waiting for the server to confirm ready", ls.lobbyData.LocalUsername)
	}
	if ls.session == nil {
		return
	}
	if err := ls.session.SendReady(); err != nil {
		log.Printf("[lobby] ready: %v", err)
	}
}

func (ls *LobbyScene) info() {
	if ls.session == nil {
		return
	}
	if err := ls.session.SendInfo(); err != nil {
		log.Printf("[lobby] info: %v", err)
	}
}

func (ls *LobbyScene) status() string {
	if ls.session == nil {
		return "offline"
	}
	switch st := ls.session.State(); st {
	case network.StateErrored:
		if err := ls.session.LastError(); err != nil {
			return fmt.Sprintf("connection lost: %v", err)
		}
		return "connection lost"
	default:
		return st.String()
	}
}

// Summary is a one-line roster description for the in-game HUD.
func (ls *LobbyScene) Summary() string {
	users := systems.Users(ls.lobbyData)
	ready := 0
	for _, u := range users {
		if u.Ready {
			ready++
		}
	}
	return fmt.Sprintf("lobby: %d players, %d ready (%s)", len(users), ready, ls.status())
}

// Close releases the session. Safe to call more than once.
func (ls *LobbyScene) Close() {
	if ls.session != nil {
		_ = ls.session.Close()
	}
}
