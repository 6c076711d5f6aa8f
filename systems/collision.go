package systems

import (
	"github.com/automoto/flaparena/components"
	cfg "github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/shared/gamemath"
	"github.com/automoto/flaparena/tags"
	"github.com/yohamta/donburi"
)

// BirdHitbox is the sprite box shrunk by the bird's inset, anchored at the
// sprite's top-left corner.
func BirdHitbox(e *donburi.Entry) gamemath.Rect {
	obj := components.Object.Get(e)
	inset := components.Bird.Get(e).HitboxInset
	return gamemath.Rect{X: obj.X, Y: obj.Y, W: obj.W, H: obj.H}.Shrink(inset, inset)
}

// PipeSegments returns the top and bottom rectangles of a pipe pair at x.
func PipeSegments(x, width, gapTop, gapSize, canvasHeight float64) (top, bottom gamemath.Rect) {
	w := width - cfg.Pipe.WidthTrim
	top = gamemath.Rect{X: x, Y: 0, W: w, H: gapTop - cfg.Pipe.TopTrim}
	gapBottom := gapTop + gapSize
	bottom = gamemath.Rect{X: x, Y: gapBottom, W: w, H: canvasHeight - gapBottom + cfg.Pipe.BottomExtend}
	return top, bottom
}

// ObstacleSegments derives the segments of an obstacle entity.
func ObstacleSegments(e *donburi.Entry, canvasHeight float64) (top, bottom gamemath.Rect) {
	obj := components.Object.Get(e)
	ob := components.Obstacle.Get(e)
	return PipeSegments(obj.X, obj.W, ob.GapTop, ob.GapSize, canvasHeight)
}

// Collides reports whether box overlaps either segment and which one it hit
// first.
func Collides(box, top, bottom gamemath.Rect) (bool, components.Segment) {
	if box.Overlaps(top) {
		return true, components.SegmentTop
	}
	if box.Overlaps(bottom) {
		return true, components.SegmentBottom
	}
	return false, 0
}

// UpdateCollisions checks every bird against the queued obstacles and
// publishes a CollisionEvent per hit. The course space narrows the search to
// pipes sharing a cell with the bird's sprite; each candidate is then
// confirmed against the exact hitbox. Nothing else reacts to a hit here.
func UpdateCollisions(w donburi.World) int {
	entry, ok := components.Course.First(w)
	if !ok {
		return 0
	}
	course := components.Course.Get(entry)

	hits := 0
	components.Bird.Each(w, func(bird *donburi.Entry) {
		candidates := nearbyPipes(bird)
		if len(candidates) == 0 {
			return
		}
		box := BirdHitbox(bird)
		for _, pipe := range Obstacles(w) {
			if !candidates[pipe.Entity()] {
				continue
			}
			top, bottom := ObstacleSegments(pipe, course.Height)
			hit, seg := Collides(box, top, bottom)
			if !hit {
				continue
			}
			hits++
			components.CollisionEvent.Publish(w, components.CollisionEventData{
				Tick:     course.Tick,
				Obstacle: pipe.Entity(),
				Seq:      components.Obstacle.Get(pipe).Seq,
				Segment:  seg,
				Bird:     box,
			})
		}
	})
	return hits
}

// nearbyPipes returns the obstacles whose segments share a space cell with
// the bird.
func nearbyPipes(bird *donburi.Entry) map[donburi.Entity]bool {
	obj := components.Object.Get(bird)
	check := obj.Check(0, 0, tags.ResolvPipe)
	if check == nil {
		return nil
	}
	found := make(map[donburi.Entity]bool, len(check.Objects))
	for _, o := range check.Objects {
		if pipe, ok := o.Data.(*donburi.Entry); ok {
			found[pipe.Entity()] = true
		}
	}
	return found
}
