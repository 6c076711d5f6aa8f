package systems

import (
	"github.com/automoto/flaparena/components"
	"github.com/automoto/flaparena/shared/gamemath"
	"github.com/yohamta/donburi"
)

// UpdatePhysics integrates every bird one tick and clamps it to the canvas.
func UpdatePhysics(w donburi.World) {
	course, ok := components.Course.First(w)
	if !ok {
		return
	}
	height := components.Course.Get(course).Height

	components.Bird.Each(w, func(e *donburi.Entry) {
		obj := components.Object.Get(e)
		physics := components.Physics.Get(e)

		obj.Y, physics.SpeedY = gamemath.Integrate(obj.Y, physics.SpeedY, physics.Gravity)
		obj.Y, physics.SpeedY = gamemath.ClampVertical(obj.Y, physics.SpeedY, obj.H, height)
		obj.Update()
	})
}

// Jump replaces the bird's vertical velocity with its jump speed, whatever it
// was before.
func Jump(w donburi.World) {
	components.Bird.Each(w, func(e *donburi.Entry) {
		components.Physics.Get(e).SpeedY = components.Bird.Get(e).JumpSpeed
	})
}
