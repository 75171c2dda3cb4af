package drc

import (
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/clip"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

const (
	mm  = geometry.Millimetre
	um  = geometry.Micrometre
	tol = 5 * geometry.Micrometre
)

func pt(x, y float64) geometry.Point {
	return geometry.Pt(geometry.FromMM(x), geometry.FromMM(y))
}

func rect(x1, y1, x2, y2 float64) geometry.Path {
	return geometry.Rect(pt(x1, y1), pt(x2, y2))
}

// newTestBoard returns a two layer board with a 100x80mm outline.
func newTestBoard() *board.Board {
	b := board.New("test")
	b.Polygons = append(b.Polygons, &board.Polygon{
		Layer: board.LayerBoardOutlines,
		Path:  rect(0, 0, 100, 80),
	})
	return b
}

func addTrace(b *board.Board, net string, x1, y1, x2, y2 float64, width geometry.Length) *board.NetLine {
	seg := b.Segment(b.Net(net))
	l := &board.NetLine{Start: pt(x1, y1), End: pt(x2, y2), Width: width, Layer: board.LayerTopCopper}
	seg.NetLines = append(seg.NetLines, l)
	return l
}

func addVia(b *board.Board, net string, x, y float64, size, drill geometry.Length) *board.Via {
	seg := b.Segment(b.Net(net))
	v := &board.Via{Position: pt(x, y), Size: size, Drill: drill}
	seg.Vias = append(seg.Vias, v)
	return v
}

// onlyChecks returns default options with every check disabled except the
// ones enabled by set.
func onlyChecks(set func(o *Options)) Options {
	o := DefaultOptions()
	o.RebuildPlanes = false
	o.CheckCopperBoardClearance = false
	o.CheckCopperCopperClearance = false
	o.CheckCopperWidth = false
	o.CheckPthRestring = false
	o.CheckPthDrillDiameter = false
	o.CheckNpthDrillDiameter = false
	o.CheckCourtyardClearance = false
	o.CheckMissingConnections = false
	set(&o)
	return o
}

func insideAny(p geometry.Point, paths []geometry.Path) bool {
	for _, path := range paths {
		if clip.PointInside(p, clip.Convert(path, tol)) {
			return true
		}
	}
	return false
}

func totalArea(ps clip.Paths) float64 {
	var a float64
	for _, p := range ps {
		a += clip.Area(p)
	}
	return a
}

type recorder struct {
	started  int
	finished int
	percents []int
	statuses []string
	messages []Message
}

func (r *recorder) Started()             { r.started++ }
func (r *recorder) Progress(percent int) { r.percents = append(r.percents, percent) }
func (r *recorder) Status(text string)   { r.statuses = append(r.statuses, text) }
func (r *recorder) Message(m Message)    { r.messages = append(r.messages, m) }
func (r *recorder) Finished()            { r.finished++ }
