package pcb

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/kicad/sexp"
)

func length(mm float64) geometry.Length {
	return geometry.FromMM(mm)
}

// xy converts KiCad coordinates, flipping the y axis.
func xy(x, y float64) geometry.Point {
	return geometry.Pt(geometry.FromMM(x), geometry.FromMM(-y))
}

// point reads the first two arguments of n, as in (start 1 2).
func point(n *sexp.Node) (geometry.Point, error) {
	if n == nil {
		return geometry.Point{}, fmt.Errorf("missing coordinate")
	}
	x, err := n.Float(0)
	if err != nil {
		return geometry.Point{}, err
	}
	y, err := n.Float(1)
	if err != nil {
		return geometry.Point{}, err
	}
	return xy(x, y), nil
}

// childPoint reads the point of the sub-list name.
func childPoint(n *sexp.Node, name string) (geometry.Point, error) {
	c := n.Child(name)
	if c == nil {
		return geometry.Point{}, fmt.Errorf("missing required '%s'", name)
	}
	return point(c)
}

// placement reads (at x y [angle]).
func placement(n *sexp.Node) (geometry.Point, geometry.Angle, error) {
	at := n.Child("at")
	pos, err := point(at)
	if err != nil {
		return geometry.Point{}, 0, fmt.Errorf("position: %w", err)
	}
	return pos, geometry.AngleFromDeg(at.FloatOr(2, 0)), nil
}

// arcSweep returns the signed sweep of the arc from s through m to e.
// The inscribed angle at m spans the complementary arc, so the sweep is
// 360° minus twice that angle, counter-clockwise for a left turn at m.
func arcSweep(s, m, e geometry.Point) geometry.Angle {
	ux, uy := float64(s.X-m.X), float64(s.Y-m.Y)
	vx, vy := float64(e.X-m.X), float64(e.Y-m.Y)
	turn := float64(m.X-s.X)*vy - float64(m.Y-s.Y)*vx
	if turn == 0 {
		return 0
	}
	inscribed := math.Atan2(math.Abs(ux*vy-uy*vx), ux*vx+uy*vy)
	sweep := 2*math.Pi - 2*inscribed
	if turn < 0 {
		sweep = -sweep
	}
	return geometry.AngleFromRad(sweep)
}

func circlePath(center geometry.Point, diameter geometry.Length) geometry.Path {
	return geometry.Circle(diameter).Translated(center)
}
