package factory

import (
	"math"
	"math/rand"

	"github.com/automoto/flaparena/archetypes"
	"github.com/automoto/flaparena/components"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// SpaceCellSize is the resolv cell edge. Pipes move far less than a cell per
// tick, so no overlap is skipped between checks.
const SpaceCellSize = 16

func CreateCourse(w donburi.World, width, height float64, rng *rand.Rand) *donburi.Entry {
	course := archetypes.Course.Spawn(w)
	components.Course.SetValue(course, components.CourseData{
		Width:  width,
		Height: height,
		Space:  resolv.NewSpace(cellAligned(width), cellAligned(height), SpaceCellSize, SpaceCellSize),
		Rand:   rng,
	})
	return course
}

// cellAligned rounds n up to a whole number of cells so the last partial row
// and column of the canvas still get cells.
func cellAligned(n float64) int {
	cells := int(math.Ceil(n / SpaceCellSize))
	if cells < 1 {
		cells = 1
	}
	return cells * SpaceCellSize
}

// courseSpace returns the collision space of w's course, or nil before the
// course exists.
func courseSpace(w donburi.World) *resolv.Space {
	entry, ok := components.Course.First(w)
	if !ok {
		return nil
	}
	return components.Course.Get(entry).Space
}
