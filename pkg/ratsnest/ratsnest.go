package ratsnest

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/clip"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

// anchor is one point of copper where an air wire may start or end.
type anchor struct {
	pos geometry.Point
	// layer is the trace layer of a trace end; empty for pads and vias.
	layer string
	// onLayer reports whether a pad or via has copper on a layer.
	onLayer func(layer string) bool
	// outline is the pad or via outline, or the outline of the trace an
	// end belongs to.
	outline clip.Path
}

func (a *anchor) isOn(layer string) bool {
	if a.onLayer != nil {
		return a.onLayer(layer)
	}
	return a.layer == layer
}

// Ratsnest computes the air wires of a board.
type Ratsnest struct {
	board     *board.Board
	tolerance geometry.Length
	wires     []board.AirWire
}

// New returns a ratsnest for b. Pad and via outlines are approximated
// within tolerance.
func New(b *board.Board, tolerance geometry.Length) *Ratsnest {
	return &Ratsnest{board: b, tolerance: tolerance}
}

// AirWires returns the air wires of the last rebuild.
func (r *Ratsnest) AirWires() []board.AirWire {
	return r.wires
}

// ForceAirWiresRebuild recomputes the air wires of all nets from the
// current copper, including the stored plane fragments.
func (r *Ratsnest) ForceAirWiresRebuild() error {
	var wires []board.AirWire
	for _, net := range r.board.NetSignals {
		w, err := r.netAirWires(net)
		if err != nil {
			return fmt.Errorf("air wires of net %q: %w", net.Name, err)
		}
		wires = append(wires, w...)
	}
	r.wires = wires
	return nil
}

func (r *Ratsnest) anchors(net *board.NetSignal) ([]*anchor, [][2]int, error) {
	var anchors []*anchor
	var traces [][2]int

	for _, d := range r.board.Devices {
		for _, pad := range d.Footprint.Pads {
			if pad.Net != net {
				continue
			}
			outline, err := pad.SceneOutline(d)
			if err != nil {
				return nil, nil, err
			}
			anchors = append(anchors, &anchor{
				pos:     pad.ScenePosition(d),
				onLayer: func(layer string) bool { return pad.IsOnLayer(d, layer) },
				outline: clip.Convert(outline, r.tolerance),
			})
		}
	}
	for _, seg := range r.board.NetSegments {
		if seg.Net != net {
			continue
		}
		for _, v := range seg.Vias {
			outline, err := v.SceneOutline()
			if err != nil {
				return nil, nil, err
			}
			anchors = append(anchors, &anchor{
				pos:     v.Position,
				onLayer: v.IsOnLayer,
				outline: clip.Convert(outline, r.tolerance),
			})
		}
		for _, l := range seg.NetLines {
			outline := clip.Convert(l.SceneOutline(), r.tolerance)
			anchors = append(anchors,
				&anchor{pos: l.Start, layer: l.Layer, outline: outline},
				&anchor{pos: l.End, layer: l.Layer, outline: outline})
			traces = append(traces, [2]int{len(anchors) - 2, len(anchors) - 1})
		}
	}
	return anchors, traces, nil
}

func (r *Ratsnest) netAirWires(net *board.NetSignal) ([]board.AirWire, error) {
	anchors, traces, err := r.anchors(net)
	if err != nil {
		return nil, err
	}
	if len(anchors) < 2 {
		return nil, nil
	}
	cl := newClusters(len(anchors))

	for _, t := range traces {
		cl.connect(t[0], t[1])
	}
	for i, a := range anchors {
		if a.onLayer != nil {
			continue
		}
		for k, b := range anchors {
			if k == i {
				continue
			}
			switch {
			case b.onLayer == nil:
				// Trace ends meet, or one ends on the other trace (T-junction).
				if b.layer == a.layer && (b.pos == a.pos || clip.PointInside(a.pos, b.outline)) {
					cl.connect(i, k)
				}
			case b.onLayer(a.layer) && clip.PointInside(a.pos, b.outline):
				cl.connect(i, k)
			}
		}
	}
	if err := r.connectOverlaps(anchors, cl); err != nil {
		return nil, err
	}

	for _, pl := range r.board.Planes {
		if pl.Net != net {
			continue
		}
		for _, f := range pl.Fragments() {
			fragment := clip.Convert(f, r.tolerance)
			first := -1
			for i, a := range anchors {
				if !a.isOn(pl.Layer) || !clip.PointInside(a.pos, fragment) {
					continue
				}
				if first < 0 {
					first = i
				} else {
					cl.connect(first, i)
				}
			}
		}
	}

	return spanningWires(net, anchors, cl.groups()), nil
}

// connectOverlaps joins pads and vias whose outlines overlap on a common
// copper layer.
func (r *Ratsnest) connectOverlaps(anchors []*anchor, cl *clusters) error {
	layers := r.board.Layers.CopperLayers()
	for i, a := range anchors {
		if a.onLayer == nil {
			continue
		}
		for k := i + 1; k < len(anchors); k++ {
			b := anchors[k]
			if b.onLayer == nil || cl.find(i) == cl.find(k) {
				continue
			}
			shared := false
			for _, l := range layers {
				if a.onLayer(l.Name) && b.onLayer(l.Name) {
					shared = true
					break
				}
			}
			if !shared {
				continue
			}
			touch, err := clip.Touches(a.outline, clip.Paths{b.outline})
			if err != nil {
				return err
			}
			if touch {
				cl.connect(i, k)
			}
		}
	}
	return nil
}

// spanningWires joins the groups by a minimum spanning tree (Prim). The
// distance of two groups is the distance of their closest anchors; ties
// go to the lowest group and anchor indices.
func spanningWires(net *board.NetSignal, anchors []*anchor, groups [][]int) []board.AirWire {
	if len(groups) < 2 {
		return nil
	}
	type edge struct {
		dist   float64
		p1, p2 geometry.Point
	}
	closest := func(g1, g2 []int) edge {
		best := edge{dist: math.Inf(1)}
		for _, i := range g1 {
			for _, k := range g2 {
				d := anchors[i].pos.Sub(anchors[k].pos)
				dist := math.Hypot(float64(d.X), float64(d.Y))
				if dist < best.dist {
					best = edge{dist, anchors[i].pos, anchors[k].pos}
				}
			}
		}
		return best
	}

	inTree := make([]bool, len(groups))
	inTree[0] = true
	best := make([]edge, len(groups))
	for g := 1; g < len(groups); g++ {
		best[g] = closest(groups[0], groups[g])
	}

	var wires []board.AirWire
	for range len(groups) - 1 {
		next := -1
		for g := range groups {
			if !inTree[g] && (next < 0 || best[g].dist < best[next].dist) {
				next = g
			}
		}
		inTree[next] = true
		wires = append(wires, board.AirWire{Net: net, P1: best[next].p1, P2: best[next].p2})
		for g := range groups {
			if inTree[g] {
				continue
			}
			if e := closest(groups[next], groups[g]); e.dist < best[g].dist {
				best[g] = e
			}
		}
	}
	return wires
}
