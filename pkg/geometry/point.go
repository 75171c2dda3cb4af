package geometry

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Point is a position on the board.
type Point struct {
	X, Y Length
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y Length) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Length returns the distance of p from the origin.
func (p Point) Length() Length {
	return Length(math.Round(p.vec().Length()))
}

// Mirrored mirrors the point horizontally (x is negated).
func (p Point) Mirrored() Point {
	return Point{-p.X, p.Y}
}

// Rotated rotates p around center. Multiples of 90° are exact.
func (p Point) Rotated(angle Angle, center Point) Point {
	d := p.Sub(center)
	switch angle.Normalized() {
	case Deg0:
		return p
	case Deg90:
		return center.Add(Point{-d.Y, d.X})
	case Deg180:
		return center.Add(Point{-d.X, -d.Y})
	case Deg270:
		return center.Add(Point{d.Y, -d.X})
	}
	sin, cos := math.Sincos(angle.Rad())
	v := d.vec()
	r := vec.Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
	return center.Add(pointFromVec(r))
}

func (p Point) vec() vec.Vec2 {
	return vec.Vec2{X: float64(p.X), Y: float64(p.Y)}
}

func pointFromVec(v vec.Vec2) Point {
	return Point{Length(math.Round(v.X)), Length(math.Round(v.Y))}
}
