package config

import (
	"image/color"
	"time"
)

// Config holds general game configuration
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BirdConfig contains all player-related configuration values
type BirdConfig struct {
	// Spawn position (top-left of the sprite)
	StartX float64 `yaml:"startX"`
	StartY float64 `yaml:"startY"`

	// Physics (units per tick)
	Gravity      float64 `yaml:"gravity"`
	JumpStrength float64 `yaml:"jumpStrength"` // Replaces velocity, not added to it

	// Dimensions
	SpriteWidth  float64 `yaml:"spriteWidth"`
	SpriteHeight float64 `yaml:"spriteHeight"`
	HitboxInset  float64 `yaml:"hitboxInset"` // Subtracted from sprite width and height for the hitbox
}

// PipeConfig contains obstacle generation and geometry values
type PipeConfig struct {
	Speed         float64 `yaml:"speed"`         // Leftward movement per tick
	HorizontalGap float64 `yaml:"horizontalGap"` // Spawn when the newest pipe is this far from the right edge
	GapSize       float64 `yaml:"gapSize"`       // Vertical passable gap
	GapTopMin     float64 `yaml:"gapTopMin"`
	GapTopMargin  float64 `yaml:"gapTopMargin"` // gapTop max is canvas height minus this

	SpriteWidth float64 `yaml:"spriteWidth"`

	// Hitbox trims applied to the pipe sprite
	WidthTrim    float64 `yaml:"widthTrim"`
	TopTrim      float64 `yaml:"topTrim"`
	BottomExtend float64 `yaml:"bottomExtend"`
}

// SimConfig contains simulation clock configuration
type SimConfig struct {
	TickRate int   `yaml:"tickRate"` // Ticks per second
	Seed     int64 `yaml:"seed"`     // 0 = seeded from the wall clock
}

// TickPeriod returns the fixed step duration.
func (s SimConfig) TickPeriod() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// LobbyConfig contains lobby connection configuration
type LobbyConfig struct {
	Host        string `yaml:"host"`        // host[:port] of the lobby server
	ReadyOnOpen bool   `yaml:"readyOnOpen"` // Send a ready action as soon as the socket opens
	InboxSize   int    `yaml:"inboxSize"`
}

// GameConfig contains round policy configuration
type GameConfig struct {
	EndOnCollision bool `yaml:"endOnCollision"` // Return to lobby on the first collision
	FlashFrames    int  `yaml:"flashFrames"`    // Length of the collision flash
	ShowHitboxes   bool `yaml:"showHitboxes"`
}

// Global configuration instances
var C *Config
var Bird BirdConfig
var Pipe PipeConfig
var Sim SimConfig
var Lobby LobbyConfig
var Game GameConfig

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow       = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	SkyBlue      = color.RGBA{R: 112, G: 197, B: 206, A: 255}
	PipeGreen    = color.RGBA{R: 84, G: 180, B: 53, A: 255}
	Red          = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	LightGreen   = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	LightRed     = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
)

func init() {
	C = &Config{
		Width:  1280,
		Height: 720,
	}

	Bird = BirdConfig{
		StartX:       250,
		StartY:       250,
		Gravity:      0.5,
		JumpStrength: -10,
		SpriteWidth:  80,
		SpriteHeight: 80,
		HitboxInset:  30,
	}

	Pipe = PipeConfig{
		Speed:         2,
		HorizontalGap: 450,
		GapSize:       250,
		GapTopMin:     50,
		GapTopMargin:  300,
		SpriteWidth:   60,
		WidthTrim:     10,
		TopTrim:       20,
		BottomExtend:  15,
	}

	Sim = SimConfig{
		TickRate: 60,
	}

	Lobby = LobbyConfig{
		Host:      "localhost:8000",
		InboxSize: 64,
	}

	Game = GameConfig{
		EndOnCollision: false,
		FlashFrames:    20,
	}
}
