package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/kicad/sexp"
)

// ArcTolerance is the maximum deviation used when arc tracks are split
// into straight traces.
const ArcTolerance = 5 * geometry.Micrometre

func (r *reader) addSegment(n *sexp.Node) error {
	layer := layerName(n.ChildValue("layer"))
	if !board.IsCopperLayerName(layer) {
		return nil
	}
	s, err := childPoint(n, "start")
	if err != nil {
		return err
	}
	e, err := childPoint(n, "end")
	if err != nil {
		return err
	}
	seg := r.board.Segment(r.net(n))
	seg.NetLines = append(seg.NetLines, &board.NetLine{Start: s, End: e, Width: length(n.ChildFloat("width", 0)), Layer: layer})
	return nil
}

// addArcSegment splits (arc (start ..) (mid ..) (end ..) ...) tracks into
// straight traces.
func (r *reader) addArcSegment(n *sexp.Node) error {
	layer := layerName(n.ChildValue("layer"))
	if !board.IsCopperLayerName(layer) {
		return nil
	}
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
	width := length(n.ChildFloat("width", 0))
	seg := r.board.Segment(r.net(n))
	flat := geometry.FlatArc(s, e, arcSweep(s, m, e), ArcTolerance)
	for i := 1; i < len(flat); i++ {
		seg.NetLines = append(seg.NetLines, &board.NetLine{Start: flat[i-1].Pos, End: flat[i].Pos, Width: width, Layer: layer})
	}
	return nil
}

// addVia converts (via (at x y) (size s) (drill d) (layers ..) (net n)).
// Blind and buried vias are treated as through vias.
func (r *reader) addVia(n *sexp.Node) error {
	pos, _, err := placement(n)
	if err != nil {
		return err
	}
	size := n.ChildFloat("size", 0)
	if size <= 0 {
		return fmt.Errorf("via at %v: missing size", pos)
	}
	seg := r.board.Segment(r.net(n))
	seg.Vias = append(seg.Vias, &board.Via{
		Position: pos,
		Size:     length(size),
		Drill:    length(n.ChildFloat("drill", 0)),
		Shape:    board.ViaShapeRound,
	})
	return nil
}
