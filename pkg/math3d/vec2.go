package math3d

import "math"

// Vec2 represents a 2D vector, used for screen-space positions.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns the vector sum a + b.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Dot returns the dot product.
func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Len returns the length of the vector.
func (a Vec2) Len() float64 {
	return math.Hypot(a.X, a.Y)
}

// Normalize returns the unit vector in the same direction.
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l == 0 {
		return a
	}
	return Vec2{a.X / l, a.Y / l}
}

// Lerp returns a + (b - a) * t.
func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// IntersectLine is the 2D counterpart of IntersectPlane: the crossing of the
// segment start→end with the line through p with normal n.
func IntersectLine(p, n, start, end Vec2) (Vec2, float64) {
	n = n.Normalize()
	d := -n.Dot(p)
	ad := start.Dot(n)
	bd := end.Dot(n)
	t := SafeParam(-d-ad, bd-ad)
	return start.Lerp(end, t), t
}
