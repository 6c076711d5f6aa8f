package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// ObstacleData describes a pipe pair. Its x position and column size live on
// the entity's Object; Top and Bottom are the collision segments registered
// in the course space.
type ObstacleData struct {
	GapTop  float64
	GapSize float64
	Seq     uint64 // spawn order, starting at 1

	Top    *resolv.Object
	Bottom *resolv.Object
}

var Obstacle = donburi.NewComponentType[ObstacleData]()
