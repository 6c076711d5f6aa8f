package gamemath

// Integrate applies one tick of gravity: velocity first, then position.
func Integrate(y, velocity, gravity float64) (newY, newVelocity float64) {
	newVelocity = velocity + gravity
	return y + newVelocity, newVelocity
}

// ClampVertical keeps an object of height h inside [0, bound]. Velocity is zeroed on either clamp.
// An object taller than bound is pinned to the top.
func ClampVertical(y, velocity, h, bound float64) (float64, float64) {
	if y+h > bound {
		return max(bound-h, 0), 0
	}
	if y < 0 {
		return 0, 0
	}
	return y, velocity
}

