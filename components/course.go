package components

import (
	"math/rand"

	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// CourseData is the singleton simulation context: canvas bounds handed in by
// whoever owns the render surface, and the obstacle queue in spawn order.
type CourseData struct {
	Width  float64
	Height float64

	// Space holds the bird and every pipe segment for broad-phase checks.
	Space *resolv.Space

	Queue   []donburi.Entity
	Rand    *rand.Rand
	Tick    uint64
	Spawned uint64
}

var Course = donburi.NewComponentType[CourseData]()
