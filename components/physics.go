package components

import (
	"github.com/yohamta/donburi"
)

type PhysicsData struct {
	SpeedY  float64
	Gravity float64
}

var Physics = donburi.NewComponentType[PhysicsData]()
