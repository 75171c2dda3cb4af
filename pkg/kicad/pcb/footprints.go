package pcb

import (
	"fmt"
	"slices"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/kicad/sexp"
)

// reference returns the designator of a footprint: the Reference property
// (KiCad 8) or the reference fp_text (KiCad 6 and 7).
func reference(n *sexp.Node) string {
	for _, p := range n.Children("property") {
		if p.Arg(0) == "Reference" {
			return p.Arg(1)
		}
	}
	for _, t := range n.Children("fp_text") {
		if t.Arg(0) == "reference" {
			return t.Arg(1)
		}
	}
	return n.Arg(0)
}

// addFootprint converts a placed footprint into a device. Footprints on the
// bottom side are stored with their geometry already flipped, so devices
// are never mirrored.
func (r *reader) addFootprint(n *sexp.Node) error {
	pos, rot, err := placement(n)
	if err != nil {
		return fmt.Errorf("footprint %q: %w", n.Arg(0), err)
	}
	d := &board.Device{Name: reference(n), Position: pos, Rotation: rot}

	var art artwork
	for _, c := range n.Args() {
		switch c.Name() {
		case "fp_line", "fp_arc", "fp_rect", "fp_poly", "fp_circle":
			if err := art.addNode(c); err != nil {
				return fmt.Errorf("footprint %s: %w", d.Name, err)
			}
		case "pad":
			if err := r.addPad(d, c, rot); err != nil {
				return fmt.Errorf("footprint %s: pad %q: %w", d.Name, c.Arg(0), err)
			}
		}
	}
	art.finish()
	d.Footprint.Polygons = append(d.Footprint.Polygons, art.polygons...)
	d.Footprint.Circles = append(d.Footprint.Circles, art.circles...)

	r.board.Devices = append(r.board.Devices, d)
	return nil
}

var padShapes = map[string]board.PadShape{
	"circle":    board.PadShapeRound,
	"oval":      board.PadShapeRound,
	"rect":      board.PadShapeRect,
	"roundrect": board.PadShapeRect,
	"trapezoid": board.PadShapeRect,
	"custom":    board.PadShapeRect,
}

// addPad converts (pad "1" smd rect (at x y a) (size w h) ...). The pad
// angle in the file includes the footprint rotation. Non-plated holes
// become footprint holes.
func (r *reader) addPad(d *board.Device, n *sexp.Node, fpRot geometry.Angle) error {
	pos, rot, err := placement(n)
	if err != nil {
		return err
	}
	drill := n.Child("drill")
	diameter := drill.FloatOr(0, 0)
	if drill.Arg(0) == "oval" {
		diameter = min(drill.FloatOr(1, 0), drill.FloatOr(2, drill.FloatOr(1, 0)))
	}

	kind := n.Arg(1)
	if kind == "np_thru_hole" {
		if diameter <= 0 {
			return fmt.Errorf("non-plated hole without drill")
		}
		d.Footprint.Holes = append(d.Footprint.Holes, board.Hole{Position: pos, Diameter: length(diameter)})
		return nil
	}

	shape, ok := padShapes[n.Arg(2)]
	if !ok {
		return fmt.Errorf("%w: %q", board.ErrUnknownPadShape, n.Arg(2))
	}
	size := n.Child("size")
	w, err := size.Float(0)
	if err != nil {
		return fmt.Errorf("size: %w", err)
	}
	h := size.FloatOr(1, w)

	layers := argValues(n.Child("layers"))
	var side board.BoardSide
	switch {
	case kind == "thru_hole" || slices.Contains(layers, "*.Cu"):
		side = board.SideTHT
	case slices.Contains(layers, "F.Cu"):
		side = board.SideTop
	case slices.Contains(layers, "B.Cu"):
		side = board.SideBottom
	default:
		return nil
	}

	pad := &board.FootprintPad{
		Name:     n.Arg(0),
		Position: pos,
		Rotation: (rot - fpRot).Normalized(),
		Shape:    shape,
		Width:    length(w),
		Height:   length(h),
		Side:     side,
		Net:      r.net(n),
	}
	if side == board.SideTHT {
		pad.Drill = length(diameter)
	}
	d.Footprint.Pads = append(d.Footprint.Pads, pad)
	return nil
}
