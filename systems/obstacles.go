package systems

import (
	"github.com/automoto/flaparena/components"
	cfg "github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/shared/gamemath"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// UpdateObstacles scrolls every queued obstacle left and removes the ones
// that have fully left the canvas. Collision segments move with their pair.
func UpdateObstacles(w donburi.World) {
	entry, ok := components.Course.First(w)
	if !ok {
		return
	}
	course := components.Course.Get(entry)

	kept := course.Queue[:0]
	for _, id := range course.Queue {
		if !w.Valid(id) {
			continue
		}
		e := w.Entry(id)
		obj := components.Object.Get(e)
		obj.X -= cfg.Pipe.Speed
		if obj.X+obj.W <= 0 {
			removeSegments(e)
			w.Remove(id)
			continue
		}
		placeSegments(course, e)
		kept = append(kept, id)
	}
	clear(course.Queue[len(kept):])
	course.Queue = kept
}

// EnqueueObstacle appends pipe to the course queue and registers its
// collision segments. Callers keep the queue ascending by x.
func EnqueueObstacle(course *components.CourseData, pipe *donburi.Entry) {
	placeSegments(course, pipe)
	course.Queue = append(course.Queue, pipe.Entity())
}

// placeSegments moves the pair's segment objects onto its current collision
// rectangles and registers them in the course space on first use.
func placeSegments(course *components.CourseData, pipe *donburi.Entry) {
	ob := components.Obstacle.Get(pipe)
	if ob.Top == nil || ob.Bottom == nil {
		return
	}
	top, bottom := ObstacleSegments(pipe, course.Height)
	placeSegment(course.Space, ob.Top, top)
	placeSegment(course.Space, ob.Bottom, bottom)
}

// placeSegment sizes o one unit past r: resolv registers an object only up
// to X+W-1, which would miss a fractional right or bottom edge.
func placeSegment(space *resolv.Space, o *resolv.Object, r gamemath.Rect) {
	o.X, o.Y, o.W, o.H = r.X, r.Y, r.W+1, r.H+1
	if o.Space == nil && space != nil {
		space.Add(o)
		return
	}
	o.Update()
}

func removeSegments(pipe *donburi.Entry) {
	ob := components.Obstacle.Get(pipe)
	for _, o := range []*resolv.Object{ob.Top, ob.Bottom} {
		if o != nil && o.Space != nil {
			o.Space.Remove(o)
		}
	}
}

// Obstacles returns the queued obstacle entries, oldest first.
func Obstacles(w donburi.World) []*donburi.Entry {
	entry, ok := components.Course.First(w)
	if !ok {
		return nil
	}
	course := components.Course.Get(entry)
	out := make([]*donburi.Entry, 0, len(course.Queue))
	for _, id := range course.Queue {
		if w.Valid(id) {
			out = append(out, w.Entry(id))
		}
	}
	return out
}
