package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/kicad/sexp"
)

// snap is the distance below which two line ends are taken as joined.
const snap = geometry.Micrometre

// edge is a line or arc drawn on a layer whose segments form outlines.
type edge struct {
	from, to geometry.Point
	angle    geometry.Angle
}

func (e edge) reversed() edge {
	return edge{from: e.to, to: e.from, angle: -e.angle}
}

// artwork collects the graphics of the board or of one footprint. Lines and
// arcs on outline and courtyard layers are chained into polygons by finish.
type artwork struct {
	polygons []board.Polygon
	circles  []board.Circle
	edges    map[string][]edge
	order    []string
}

func chained(layer string) bool {
	switch layer {
	case board.LayerBoardOutlines, board.LayerTopCourtyard, board.LayerBotCourtyard:
		return true
	}
	return false
}

func strokeWidth(n *sexp.Node) geometry.Length {
	if s := n.Child("stroke"); s != nil {
		return length(s.ChildFloat("width", 0))
	}
	return length(n.ChildFloat("width", 0))
}

func filled(n *sexp.Node) bool {
	switch n.ChildValue("fill") {
	case "solid", "yes":
		return true
	}
	return false
}

// addNode adds a gr_* or fp_* shape. Shapes on layers without a board
// counterpart are ignored.
func (a *artwork) addNode(n *sexp.Node) error {
	layer := layerName(n.ChildValue("layer"))
	if layer == "" {
		return nil
	}
	width := strokeWidth(n)
	switch n.Name() {
	case "gr_line", "fp_line":
		s, err := childPoint(n, "start")
		if err != nil {
			return err
		}
		e, err := childPoint(n, "end")
		if err != nil {
			return err
		}
		a.addEdge(layer, edge{from: s, to: e}, width)
	case "gr_arc", "fp_arc":
		s, err := childPoint(n, "start")
		if err != nil {
			return err
		}
		m, err := childPoint(n, "mid")
		if err != nil {
			return err
		}
		e, err := childPoint(n, "end")
		if err != nil {
			return err
		}
		a.addEdge(layer, edge{from: s, to: e, angle: arcSweep(s, m, e)}, width)
	case "gr_rect", "fp_rect":
		s, err := childPoint(n, "start")
		if err != nil {
			return err
		}
		e, err := childPoint(n, "end")
		if err != nil {
			return err
		}
		a.polygons = append(a.polygons, board.Polygon{Layer: layer, Path: geometry.Rect(s, e), LineWidth: width, Filled: filled(n)})
	case "gr_poly", "fp_poly":
		path, err := points(n.Child("pts"))
		if err != nil {
			return err
		}
		if len(path) < 2 {
			return nil
		}
		a.polygons = append(a.polygons, board.Polygon{Layer: layer, Path: path.Closed(), LineWidth: width, Filled: filled(n)})
	case "gr_circle", "fp_circle":
		c, err := childPoint(n, "center")
		if err != nil {
			return err
		}
		e, err := childPoint(n, "end")
		if err != nil {
			return err
		}
		a.circles = append(a.circles, board.Circle{
			Layer:     layer,
			Center:    c,
			Diameter:  2 * e.Sub(c).Length(),
			LineWidth: width,
			Filled:    filled(n),
		})
	default:
		return fmt.Errorf("unsupported graphic %q", n.Name())
	}
	return nil
}

func (a *artwork) addEdge(layer string, e edge, width geometry.Length) {
	if !chained(layer) {
		path := geometry.Path{{Pos: e.from, Angle: e.angle}, {Pos: e.to}}
		a.polygons = append(a.polygons, board.Polygon{Layer: layer, Path: path, LineWidth: width})
		return
	}
	if a.edges == nil {
		a.edges = make(map[string][]edge)
	}
	if _, ok := a.edges[layer]; !ok {
		a.order = append(a.order, layer)
	}
	a.edges[layer] = append(a.edges[layer], e)
}

// finish chains the collected edges of each layer into polygons.
func (a *artwork) finish() {
	for _, layer := range a.order {
		for _, path := range chain(a.edges[layer]) {
			a.polygons = append(a.polygons, board.Polygon{Layer: layer, Path: path})
		}
	}
	a.edges, a.order = nil, nil
}

func near(p, q geometry.Point) bool {
	return q.Sub(p).Length() <= snap
}

// chain joins edges end to end, in file order, reversing edges where
// needed. Closed chains repeat their first vertex exactly; chains that do
// not close are returned open.
func chain(edges []edge) []geometry.Path {
	used := make([]bool, len(edges))
	var out []geometry.Path
	for i := range edges {
		if used[i] {
			continue
		}
		used[i] = true
		run := []edge{edges[i]}
		for !near(run[len(run)-1].to, run[0].from) {
			tail := run[len(run)-1].to
			next := -1
			for j, e := range edges {
				if !used[j] && (near(e.from, tail) || near(e.to, tail)) {
					next = j
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			e := edges[next]
			if !near(e.from, tail) {
				e = e.reversed()
			}
			run = append(run, e)
		}
		path := make(geometry.Path, 0, len(run)+1)
		for _, e := range run {
			path = append(path, geometry.Vertex{Pos: e.from, Angle: e.angle})
		}
		end := run[len(run)-1].to
		if near(end, run[0].from) {
			end = run[0].from
		}
		out = append(out, append(path, geometry.Vertex{Pos: end}))
	}
	return out
}

// points reads (pts (xy x y) ... (arc (start ..) (mid ..) (end ..))).
func points(pts *sexp.Node) (geometry.Path, error) {
	if pts == nil {
		return nil, fmt.Errorf("missing required 'pts'")
	}
	var path geometry.Path
	add := func(v geometry.Vertex) {
		if k := len(path) - 1; k >= 0 && path[k].Pos == v.Pos {
			path[k].Angle = v.Angle
			return
		}
		path = append(path, v)
	}
	for _, c := range pts.Args() {
		switch c.Name() {
		case "xy":
			p, err := point(c)
			if err != nil {
				return nil, err
			}
			add(geometry.Vertex{Pos: p})
		case "arc":
			s, err := childPoint(c, "start")
			if err != nil {
				return nil, err
			}
			m, err := childPoint(c, "mid")
			if err != nil {
				return nil, err
			}
			e, err := childPoint(c, "end")
			if err != nil {
				return nil, err
			}
			add(geometry.Vertex{Pos: s, Angle: arcSweep(s, m, e)})
			add(geometry.Vertex{Pos: e})
		}
	}
	return path, nil
}
