package geometry

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Vertex is one corner of a Path. Angle is the sweep of the arc leading to
// the next vertex; zero means a straight segment.
type Vertex struct {
	Pos   Point
	Angle Angle
}

// Path is a polyline or polygon whose segments may be circular arcs.
// A path is closed when its last vertex repeats the first one.
type Path []Vertex

// NewPath builds a path of straight segments through the given points.
func NewPath(points ...Point) Path {
	p := make(Path, len(points))
	for i, pt := range points {
		p[i] = Vertex{Pos: pt}
	}
	return p
}

// IsClosed reports whether the last vertex coincides with the first one.
func (p Path) IsClosed() bool {
	return len(p) >= 2 && p[0].Pos == p[len(p)-1].Pos
}

// Closed returns a copy of p with the first vertex appended if needed.
func (p Path) Closed() Path {
	out := p.clone()
	if len(out) > 0 && !out.IsClosed() {
		out = append(out, Vertex{Pos: p[0].Pos})
	}
	return out
}

// Translated returns p moved by offset.
func (p Path) Translated(offset Point) Path {
	out := p.clone()
	for i := range out {
		out[i].Pos = out[i].Pos.Add(offset)
	}
	return out
}

// Rotated returns p rotated around center.
func (p Path) Rotated(angle Angle, center Point) Path {
	out := p.clone()
	for i := range out {
		out[i].Pos = out[i].Pos.Rotated(angle, center)
	}
	return out
}

// Mirrored returns p mirrored horizontally. Arc directions flip as well.
func (p Path) Mirrored() Path {
	out := p.clone()
	for i := range out {
		out[i].Pos = out[i].Pos.Mirrored()
		out[i].Angle = -out[i].Angle
	}
	return out
}

// FlattenedArcs replaces every arc by straight segments deviating at most
// tolerance from the exact curve.
func (p Path) FlattenedArcs(tolerance Length) Path {
	out := make(Path, 0, len(p))
	for i, v := range p {
		if v.Angle == 0 || i == len(p)-1 {
			out = append(out, Vertex{Pos: v.Pos})
			continue
		}
		arc := FlatArc(v.Pos, p[i+1].Pos, v.Angle, tolerance)
		out = append(out, arc[:len(arc)-1]...)
	}
	return out
}

// ToOutlineStrokes returns one obround (or arc obround) per segment, each
// as wide as width.
func (p Path) ToOutlineStrokes(width Length) []Path {
	if len(p) < 2 {
		return nil
	}
	strokes := make([]Path, 0, len(p)-1)
	for i := 1; i < len(p); i++ {
		v0, v1 := p[i-1], p[i]
		if v0.Angle == 0 {
			strokes = append(strokes, ObroundBetween(v0.Pos, v1.Pos, width))
		} else {
			strokes = append(strokes, ArcObround(v0.Pos, v1.Pos, v0.Angle, width))
		}
	}
	return strokes
}

func (p Path) clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Circle returns a closed circle of the given diameter centred at the origin.
func Circle(diameter Length) Path {
	r := diameter / 2
	return Path{
		{Pos: Pt(r, 0), Angle: Deg180},
		{Pos: Pt(-r, 0), Angle: Deg180},
		{Pos: Pt(r, 0)},
	}
}

// Obround returns a closed stadium of the given size centred at the origin.
func Obround(width, height Length) Path {
	rx, ry := width/2, height/2
	switch {
	case width > height:
		return Path{
			{Pos: Pt(ry-rx, ry)},
			{Pos: Pt(rx-ry, ry), Angle: -Deg180},
			{Pos: Pt(rx-ry, -ry)},
			{Pos: Pt(ry-rx, -ry), Angle: -Deg180},
			{Pos: Pt(ry-rx, ry)},
		}
	case width < height:
		return Path{
			{Pos: Pt(rx, ry-rx)},
			{Pos: Pt(rx, rx-ry), Angle: -Deg180},
			{Pos: Pt(-rx, rx-ry)},
			{Pos: Pt(-rx, ry-rx), Angle: -Deg180},
			{Pos: Pt(rx, ry-rx)},
		}
	default:
		return Circle(width)
	}
}

// ObroundBetween returns the outline of a straight stroke of the given
// width from p1 to p2 with round caps.
func ObroundBetween(p1, p2 Point, width Length) Path {
	d := p2.Sub(p1)
	o := Obround(d.Length()+width, width)
	if d.X != 0 || d.Y != 0 {
		o = o.Rotated(AngleFromRad(math.Atan2(float64(d.Y), float64(d.X))), Point{})
	}
	mid := Point{(p1.X + p2.X) / 2, (p1.Y + p2.Y) / 2}
	return o.Translated(mid)
}

// ArcObround returns the outline of an arc stroke of the given width from
// p1 to p2 sweeping angle, with round caps.
func ArcObround(p1, p2 Point, angle Angle, width Length) Path {
	if angle == 0 {
		return ObroundBetween(p1, p2, width)
	}
	center := ArcCenter(p1, p2, angle)
	c := center.vec()
	r := float64(width) / 2
	at := func(p Point, grow float64) Point {
		n := p.vec().Sub(c)
		l := n.Length()
		if l == 0 {
			return p
		}
		return pointFromVec(p.vec().Add(n.Mul(grow / l)))
	}
	capAngle := Deg180
	if angle < 0 {
		capAngle = -Deg180
	}
	p1o, p2o := at(p1, r), at(p2, r)
	p1i, p2i := at(p1, -r), at(p2, -r)
	return Path{
		{Pos: p1o, Angle: angle},
		{Pos: p2o, Angle: capAngle},
		{Pos: p2i, Angle: -angle},
		{Pos: p1i, Angle: capAngle},
		{Pos: p1o},
	}
}

// Rect returns the closed axis aligned rectangle spanned by p1 and p2.
func Rect(p1, p2 Point) Path {
	return NewPath(p1, Pt(p2.X, p1.Y), p2, Pt(p1.X, p2.Y), p1)
}

// CenteredRect returns a closed rectangle of the given size centred at the
// origin.
func CenteredRect(width, height Length) Path {
	return Rect(Pt(-width/2, -height/2), Pt(width/2, height/2))
}

// Octagon returns a closed octagon of the given size centred at the origin.
func Octagon(width, height Length) Path {
	rx, ry := width/2, height/2
	a := FromMM(min(rx, ry).MM() * (2 - math.Sqrt2))
	return NewPath(
		Pt(rx, ry-a), Pt(rx-a, ry), Pt(a-rx, ry), Pt(-rx, ry-a),
		Pt(-rx, a-ry), Pt(a-rx, -ry), Pt(rx-a, -ry), Pt(rx, a-ry),
		Pt(rx, ry-a),
	)
}

// ArcCenter returns the centre of the arc from p1 to p2 sweeping angle.
func ArcCenter(p1, p2 Point, angle Angle) Point {
	chord := p2.vec().Sub(p1.vec())
	c := chord.Length()
	mid := p1.vec().Add(chord.Mul(0.5))
	if c == 0 || angle == 0 {
		return pointFromVec(mid)
	}
	h := (c / 2) / math.Tan(angle.Rad()/2)
	left := vec.Vec2{X: -chord.Y / c, Y: chord.X / c}
	return pointFromVec(mid.Add(left.Mul(h)))
}

// ArcRadius returns the radius of the arc from p1 to p2 sweeping angle.
func ArcRadius(p1, p2 Point, angle Angle) float64 {
	c := p2.vec().Sub(p1.vec()).Length()
	s := math.Abs(math.Sin(angle.Rad() / 2))
	if s == 0 {
		return math.Inf(1)
	}
	return c / (2 * s)
}

// FlatArc approximates the arc from p1 to p2 sweeping angle by straight
// segments. The result starts at p1 and ends exactly at p2.
func FlatArc(p1, p2 Point, angle Angle, tolerance Length) Path {
	radius := ArcRadius(p1, p2, angle)
	if angle == 0 || math.IsInf(radius, 1) || radius == 0 {
		return NewPath(p1, p2)
	}
	step := math.Pi
	if t := float64(tolerance); t > 0 && t < radius {
		step = 2 * math.Acos(1-t/radius)
	}
	sweep := angle.Rad()
	n := int(math.Ceil(math.Abs(sweep) / step))
	n = max(n, 2)
	center := ArcCenter(p1, p2, angle).vec()
	start := p1.vec().Sub(center)
	out := make(Path, 0, n+1)
	out = append(out, Vertex{Pos: p1})
	for i := 1; i < n; i++ {
		sin, cos := math.Sincos(sweep * float64(i) / float64(n))
		r := vec.Vec2{X: start.X*cos - start.Y*sin, Y: start.X*sin + start.Y*cos}
		out = append(out, Vertex{Pos: pointFromVec(center.Add(r))})
	}
	return append(out, Vertex{Pos: p2})
}
