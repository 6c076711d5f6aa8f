package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the global configuration sections for YAML overlays.
type fileConfig struct {
	Window Config      `yaml:"window"`
	Bird   BirdConfig  `yaml:"bird"`
	Pipe   PipeConfig  `yaml:"pipe"`
	Sim    SimConfig   `yaml:"sim"`
	Lobby  LobbyConfig `yaml:"lobby"`
	Game   GameConfig  `yaml:"game"`
}

// Load overlays the YAML file at path onto the current configuration.
// Keys missing from the file keep their current values.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	doc := fileConfig{
		Window: *C,
		Bird:   Bird,
		Pipe:   Pipe,
		Sim:    Sim,
		Lobby:  Lobby,
		Game:   Game,
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := doc.validate(); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	*C = doc.Window
	Bird = doc.Bird
	Pipe = doc.Pipe
	Sim = doc.Sim
	Lobby = doc.Lobby
	Game = doc.Game
	return nil
}

func (doc fileConfig) validate() error {
	switch {
	case doc.Sim.TickRate <= 0 || doc.Sim.TickRate > int(time.Second):
		return fmt.Errorf("sim.tickRate must be in 1..%d, got %d", int(time.Second), doc.Sim.TickRate)
	case doc.Window.Width <= 0 || doc.Window.Height <= 0:
		return fmt.Errorf("window size must be positive, got %dx%d", doc.Window.Width, doc.Window.Height)
	case float64(doc.Window.Height) < doc.Bird.SpriteHeight:
		return fmt.Errorf("window.height %d is shorter than bird.spriteHeight %g", doc.Window.Height, doc.Bird.SpriteHeight)
	case doc.Pipe.Speed <= 0:
		return fmt.Errorf("pipe.speed must be positive, got %g", doc.Pipe.Speed)
	case doc.Pipe.GapTopMin < doc.Pipe.TopTrim:
		return fmt.Errorf("pipe.gapTopMin %g is below pipe.topTrim %g", doc.Pipe.GapTopMin, doc.Pipe.TopTrim)
	}
	return nil
}
