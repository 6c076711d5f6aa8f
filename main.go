package main

import (
	"flag"
	"image"
	"log"

	"github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/fonts"
	"github.com/automoto/flaparena/network"
	"github.com/automoto/flaparena/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

type Game struct {
	bounds image.Rectangle
	scene  scenes.Scene
	quit   bool
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(scenes.Scene)
}

// Quit ends the run loop on the next update.
func (g *Game) Quit() {
	g.quit = true
}

func NewGame(session *network.Session, username string) *Game {
	loadFonts()

	g := &Game{
		bounds: image.Rectangle{},
	}
	g.scene = scenes.NewLobbyScene(g, session, "", username)
	return g
}

func loadFonts() {
	for _, f := range []struct {
		name fonts.FontName
		ttf  []byte
		size float64
	}{
		{fonts.Regular, goregular.TTF, 16},
		{fonts.Bold, gobold.TTF, 20},
		{fonts.Title, gobold.TTF, 32},
		{fonts.Small, goregular.TTF, 12},
	} {
		if err := fonts.LoadFontWithSize(f.name, f.ttf, f.size); err != nil {
			log.Fatalf("Failed to load font: %v", err)
		}
	}
}

// Close tears down the active scene when the run loop exits.
func (g *Game) Close() {
	if c, ok := g.scene.(scenes.Closer); ok {
		c.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	opts := parseFlags()

	if opts.configPath != "" {
		if err := config.Load(opts.configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	opts.apply()

	session, username := bootstrap(opts)

	if opts.headless {
		if err := runHeadless(session); err != nil {
			log.Fatal(err)
		}
		return
	}

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle("flaparena")
	ebiten.SetTPS(config.Sim.TickRate)

	game := NewGame(session, username)
	err := ebiten.RunGame(game)
	game.Close()
	if session != nil {
		_ = session.Close()
	}
	if err != nil {
		log.Fatal(err)
	}
}

type options struct {
	host           string
	username       string
	password       string
	token          string
	configPath     string
	headless       bool
	readyOnOpen    bool
	endOnCollision bool
	hitboxes       bool
	seed           int64
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.host, "host", "", "lobby server host[:port] (default from config)")
	flag.StringVar(&o.username, "user", "", "lobby username")
	flag.StringVar(&o.password, "password", "", "lobby password")
	flag.StringVar(&o.token, "token", "", "access token, skips login")
	flag.StringVar(&o.configPath, "config", "", "YAML config overlay")
	flag.BoolVar(&o.headless, "headless", false, "run the simulation without a window")
	flag.BoolVar(&o.readyOnOpen, "ready-on-open", false, "send ready as soon as the lobby socket opens")
	flag.BoolVar(&o.endOnCollision, "end-on-collision", false, "end the round on the first collision")
	flag.BoolVar(&o.hitboxes, "hitboxes", false, "draw collision boxes")
	flag.Int64Var(&o.seed, "seed", 0, "gap generator seed (0 = time based)")
	flag.Parse()
	return o
}

// apply lets command line flags override the loaded configuration.
func (o options) apply() {
	if o.host != "" {
		config.Lobby.Host = o.host
	}
	if o.readyOnOpen {
		config.Lobby.ReadyOnOpen = true
	}
	if o.endOnCollision {
		config.Game.EndOnCollision = true
	}
	if o.hitboxes {
		config.Game.ShowHitboxes = true
	}
	if o.seed != 0 {
		config.Sim.Seed = o.seed
	}
}
