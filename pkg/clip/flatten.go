package clip

import (
	"cmp"
	"fmt"
	"slices"

	clipper "github.com/ctessum/go.clipper"
)

// FlattenTree converts a polygon tree into a flat list of outlines. Holes
// are joined to their outline by a zero-width cut-in, so every fragment is
// one path. Islands inside holes become separate paths.
func FlattenTree(tree *Tree) (out Paths, err error) {
	defer guard("flatten", &err)
	if tree == nil {
		return Paths{}, nil
	}
	return flattenNodes(tree.Childs())
}

func flattenNodes(outlines []*clipper.PolyNode) (Paths, error) {
	paths := Paths{}
	for _, outline := range outlines {
		var holes Paths
		for _, hole := range outline.Childs() {
			holes = append(holes, hole.Contour())
			islands, err := flattenNodes(hole.Childs())
			if err != nil {
				return nil, err
			}
			paths = append(paths, islands...)
		}
		p, err := cutInHoles(outline.Contour(), holes)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func cutInHoles(outline Path, holes Paths) (Path, error) {
	path := oriented(outline, true)
	prepared := make(Paths, 0, len(holes))
	for _, h := range holes {
		if len(h) > 2 {
			prepared = append(prepared, rotateToLowest(oriented(h, false)))
		}
	}
	// connecting from the lowest hole upwards keeps cut-ins from crossing
	slices.SortStableFunc(prepared, func(a, b Path) int {
		return cmp.Compare(a[0].Y, b[0].Y)
	})
	for _, h := range prepared {
		var err error
		if path, err = addCutIn(path, h); err != nil {
			return nil, err
		}
	}
	return slices.CompactFunc(path, func(a, b *clipper.IntPoint) bool { return *a == *b }), nil
}

// oriented returns a copy of p with positive (or negative) orientation.
func oriented(p Path, positive bool) Path {
	out := slices.Clone(p)
	if clipper.Orientation(out) != positive {
		slices.Reverse(out)
	}
	return out
}

// rotateToLowest rotates p to start at its lowest (then leftmost) point.
func rotateToLowest(p Path) Path {
	lowest := 0
	for i, pt := range p {
		l := p[lowest]
		if pt.Y < l.Y || (pt.Y == l.Y && pt.X < l.X) {
			lowest = i
		}
	}
	return append(slices.Clone(p[lowest:]), p[:lowest]...)
}

// addCutIn connects hole to outline with a vertical cut-in going down from
// the first hole vertex to the nearest outline edge below it.
func addCutIn(outline, hole Path) (Path, error) {
	p := hole[0]
	nearest := -1
	var nearestY clipper.CInt
	for i := range outline {
		y, ok := intersectionY(outline[i], outline[(i+1)%len(outline)], p.X)
		if ok && y <= p.Y && (nearest < 0 || p.Y-y < p.Y-nearestY) {
			nearest, nearestY = i, y
		}
	}
	if nearest < 0 {
		return nil, fmt.Errorf("no cut-in connection point for hole at (%d, %d)", p.X, p.Y)
	}
	insert := make(Path, 0, len(hole)+3)
	insert = append(insert, clipper.NewIntPoint(p.X, nearestY))
	insert = append(insert, hole...)
	insert = append(insert, clipper.NewIntPoint(p.X, p.Y), clipper.NewIntPoint(p.X, nearestY))
	return slices.Insert(outline, nearest+1, insert...), nil
}

// intersectionY returns the y coordinate where the segment p1-p2 crosses
// the vertical line at x.
func intersectionY(p1, p2 *clipper.IntPoint, x clipper.CInt) (clipper.CInt, bool) {
	if !(p1.X <= x && p2.X > x) && !(p1.X >= x && p2.X < x) {
		return 0, false
	}
	y := float64(p1.Y) + float64(x-p1.X)*float64(p2.Y-p1.Y)/float64(p2.X-p1.X)
	return min(max(clipper.CInt(y), min(p1.Y, p2.Y)), max(p1.Y, p2.Y)), true
}

// Canonical rotates every path to start at its smallest point (x, then y)
// and sorts the paths by that point, giving a reproducible order.
func Canonical(paths Paths) Paths {
	less := func(a, b *clipper.IntPoint) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	}
	out := make(Paths, 0, len(paths))
	for _, p := range paths {
		if len(p) == 0 {
			continue
		}
		first := 0
		for i := range p {
			if less(p[i], p[first]) < 0 {
				first = i
			}
		}
		out = append(out, append(slices.Clone(p[first:]), p[:first]...))
	}
	slices.SortStableFunc(out, func(a, b Path) int {
		return less(a[0], b[0])
	})
	return out
}

// Touches reports whether p overlaps any of area.
func Touches(p Path, area Paths) (bool, error) {
	if len(area) == 0 {
		return false, nil
	}
	res, err := Intersect(Paths{p}, area, NonZero, NonZero)
	if err != nil {
		return false, err
	}
	return len(res) > 0, nil
}
