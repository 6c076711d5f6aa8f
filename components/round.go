package components

import (
	"github.com/yohamta/donburi"
)

// RoundData is presentation state for one round, kept in the simulation world
// so renderers can reach it.
type RoundData struct {
	Hits   int
	Passed int
	Flash  float32 // 0..1 overlay strength after a collision
	Notice string
}

var Round = donburi.NewComponentType[RoundData]()
