package components

import (
	"github.com/yohamta/donburi"
)

type BirdData struct {
	JumpSpeed   float64 // velocity assigned on jump, replaces the current one
	HitboxInset float64 // subtracted from both sprite width and height
}

var Bird = donburi.NewComponentType[BirdData]()
