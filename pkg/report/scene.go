package report

import (
	"seehuhn.de/go/geom/vec"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/drc"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

const (
	flattenTolerance = 10 * geometry.Micrometre
	sceneMargin      = 2.0 // mm
)

// polyline is a flattened path in millimetres.
type polyline []vec.Vec2

func (p polyline) closed() bool {
	return len(p) > 2 && p[0] == p[len(p)-1]
}

// scene is what the violation maps draw: the board outline and the
// locations of every message, with y pointing up.
type scene struct {
	outlines []polyline
	marks    [][]polyline
	lo, hi   vec.Vec2
}

func flatten(p geometry.Path) polyline {
	flat := p.FlattenedArcs(flattenTolerance)
	out := make(polyline, len(flat))
	for i, v := range flat {
		out[i] = vec.Vec2{X: v.Pos.X.MM(), Y: v.Pos.Y.MM()}
	}
	return out
}

func newScene(b *board.Board, msgs []drc.Message) *scene {
	s := &scene{}
	if b != nil {
		for _, p := range b.Polygons {
			if p.Layer == board.LayerBoardOutlines {
				s.outlines = append(s.outlines, flatten(p.Path))
			}
		}
		for _, d := range b.Devices {
			tr := d.Transform()
			for _, p := range d.Footprint.Polygons {
				if d.MapLayer(p.Layer) == board.LayerBoardOutlines {
					s.outlines = append(s.outlines, flatten(tr.MapPath(p.Path)))
				}
			}
		}
	}
	for _, m := range msgs {
		var mark []polyline
		for _, p := range m.Locations {
			mark = append(mark, flatten(p))
		}
		s.marks = append(s.marks, mark)
	}
	s.bounds()
	return s
}

func (s *scene) bounds() {
	first := true
	visit := func(p polyline) {
		for _, v := range p {
			if first {
				s.lo, s.hi, first = v, v, false
				continue
			}
			s.lo = vec.Vec2{X: min(s.lo.X, v.X), Y: min(s.lo.Y, v.Y)}
			s.hi = vec.Vec2{X: max(s.hi.X, v.X), Y: max(s.hi.Y, v.Y)}
		}
	}
	for _, p := range s.outlines {
		visit(p)
	}
	for _, m := range s.marks {
		for _, p := range m {
			visit(p)
		}
	}
	if first {
		s.hi = vec.Vec2{X: 1, Y: 1}
	}
	s.lo = s.lo.Sub(vec.Vec2{X: sceneMargin, Y: sceneMargin})
	s.hi = s.hi.Add(vec.Vec2{X: sceneMargin, Y: sceneMargin})
}

func (s *scene) size() vec.Vec2 {
	return s.hi.Sub(s.lo)
}
