package geometry

// Transform places local (footprint) geometry on the board: rotate around
// the origin, mirror horizontally, then translate.
type Transform struct {
	Position Point
	Rotation Angle
	Mirrored bool
}

// MapPoint maps a local point to scene coordinates.
func (t Transform) MapPoint(p Point) Point {
	p = p.Rotated(t.Rotation, Point{})
	if t.Mirrored {
		p = p.Mirrored()
	}
	return p.Add(t.Position)
}

// MapPath maps a local path to scene coordinates.
func (t Transform) MapPath(p Path) Path {
	p = p.Rotated(t.Rotation, Point{})
	if t.Mirrored {
		p = p.Mirrored()
	}
	return p.Translated(t.Position)
}
