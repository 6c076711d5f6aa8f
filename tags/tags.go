package tags

import "github.com/yohamta/donburi"

var (
	Bird     = donburi.NewTag().SetName("Bird")
	Obstacle = donburi.NewTag().SetName("Obstacle")
	Course   = donburi.NewTag().SetName("Course")
	Lobby    = donburi.NewTag().SetName("Lobby")
)

// Resolv tags for collision objects
const (
	ResolvBird = "bird"
	ResolvPipe = "pipe"
)
