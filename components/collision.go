package components

import (
	"github.com/automoto/flaparena/shared/gamemath"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

type Segment int

const (
	SegmentTop Segment = iota
	SegmentBottom
)

func (s Segment) String() string {
	if s == SegmentTop {
		return "top"
	}
	return "bottom"
}

type CollisionEventData struct {
	Tick     uint64
	Obstacle donburi.Entity
	Seq      uint64
	Segment  Segment
	Bird     gamemath.Rect
}

// CollisionEvent is published once per overlapping obstacle per tick.
var CollisionEvent = events.NewEventType[CollisionEventData]()
