package systems

import (
	"github.com/automoto/flaparena/components"
	cfg "github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/systems/factory"
	"github.com/yohamta/donburi"
)

// UpdateSpawner appends at most one obstacle: when the queue is empty, or
// once the newest obstacle has scrolled past the horizontal gap.
func UpdateSpawner(w donburi.World) {
	entry, ok := components.Course.First(w)
	if !ok {
		return
	}
	course := components.Course.Get(entry)

	if !ShouldSpawn(w, course) {
		return
	}
	course.Spawned++
	pipe := factory.CreateObstacle(w, course.Width, RandomGapTop(course), course.Spawned)
	EnqueueObstacle(course, pipe)
}

// ShouldSpawn reports whether the spawn condition holds for the current queue.
func ShouldSpawn(w donburi.World, course *components.CourseData) bool {
	if len(course.Queue) == 0 {
		return true
	}
	last := course.Queue[len(course.Queue)-1]
	if !w.Valid(last) {
		return true
	}
	return components.Object.Get(w.Entry(last)).X < course.Width-cfg.Pipe.HorizontalGap
}

// RandomGapTop draws the gap offset uniformly from
// [GapTopMin, Height-GapTopMargin]. A canvas too short for that range pins
// the gap at GapTopMin.
func RandomGapTop(course *components.CourseData) float64 {
	lo := cfg.Pipe.GapTopMin
	hi := course.Height - cfg.Pipe.GapTopMargin
	if hi <= lo || course.Rand == nil {
		return lo
	}
	return lo + course.Rand.Float64()*(hi-lo)
}
