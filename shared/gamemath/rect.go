package gamemath

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Overlaps reports whether r and o share any area. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W &&
		r.X+r.W > o.X &&
		r.Y < o.Y+o.H &&
		r.Y+r.H > o.Y
}

// Shrink returns r with dw and dh removed from its width and height, keeping the top-left anchor.
func (r Rect) Shrink(dw, dh float64) Rect {
	return Rect{X: r.X, Y: r.Y, W: r.W - dw, H: r.H - dh}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}
