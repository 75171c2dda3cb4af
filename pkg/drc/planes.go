package drc

import (
	"fmt"
	"time"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/clip"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

// PlaneFragmentsBuilder computes the copper fill of planes.
type PlaneFragmentsBuilder struct {
	board     *board.Board
	tolerance geometry.Length
}

// NewPlaneFragmentsBuilder returns a builder for the planes of b.
func NewPlaneFragmentsBuilder(b *board.Board, tolerance geometry.Length) *PlaneFragmentsBuilder {
	return &PlaneFragmentsBuilder{board: b, tolerance: tolerance}
}

// RebuildAll recomputes the fragments of every plane, highest priority
// first, and stores them on the planes.
func (pb *PlaneFragmentsBuilder) RebuildAll() {
	start := time.Now()
	for _, pl := range board.PlanesByPriority(pb.board.Planes) {
		pl.SetFragments(pb.Build(pl))
	}
	Logger().Debug("planes rebuilt", "count", len(pb.board.Planes), "elapsed", time.Since(start))
}

// Build computes the fragments of pl from the current board state,
// including the stored fragments of higher planes. A failure is logged and
// yields no fragments, and so does a panic during the fill.
func (pb *PlaneFragmentsBuilder) Build(pl *board.Plane) []geometry.Path {
	fragments, err := pb.safeBuild(pl)
	if err != nil {
		Logger().Error("plane fill failed", "plane", pl.ID, "layer", pl.Layer,
			"net", board.NetName(pl.Net), "err", err)
		return []geometry.Path{}
	}
	return fragments
}

func (pb *PlaneFragmentsBuilder) safeBuild(pl *board.Plane) (fragments []geometry.Path, err error) {
	defer func() {
		if r := recover(); r != nil {
			fragments, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return pb.build(pl)
}

func (pb *PlaneFragmentsBuilder) build(pl *board.Plane) ([]geometry.Path, error) {
	tol := pb.tolerance
	seed := clip.Convert(pl.Outline.Closed(), tol)
	if len(seed) < 3 {
		return []geometry.Path{}, nil
	}

	area, err := BoardArea(pb.board, tol)
	if err != nil {
		return nil, err
	}
	area, err = clip.Offset(area, -pl.MinClearance, tol)
	if err != nil {
		return nil, fmt.Errorf("shrink board area: %w", err)
	}
	if len(area) == 0 {
		return []geometry.Path{}, nil
	}
	result, err := clip.Intersect(clip.Paths{seed}, area, clip.NonZero, clip.NonZero)
	if err != nil {
		return nil, fmt.Errorf("clip to board: %w", err)
	}

	obstacles, connected, err := pb.obstacles(pl)
	if err != nil {
		return nil, err
	}
	if len(obstacles) > 0 {
		if result, err = clip.Subtract(result, obstacles, clip.NonZero, clip.NonZero); err != nil {
			return nil, fmt.Errorf("subtract obstacles: %w", err)
		}
	}

	if half := pl.MinWidth / 2; half > 0 {
		if result, err = clip.Offset(result, -half, tol); err != nil {
			return nil, fmt.Errorf("erode: %w", err)
		}
		if result, err = clip.Offset(result, half, tol); err != nil {
			return nil, fmt.Errorf("dilate: %w", err)
		}
	}

	tree, err := clip.UniteToTree(result, clip.EvenOdd)
	if err != nil {
		return nil, err
	}
	flat, err := clip.FlattenTree(tree)
	if err != nil {
		return nil, err
	}

	if !pl.KeepOrphans {
		kept := flat[:0]
		for _, p := range flat {
			ok, err := clip.Touches(p, connected)
			if err != nil {
				return nil, fmt.Errorf("orphan check: %w", err)
			}
			if ok {
				kept = append(kept, p)
			}
		}
		flat = kept
	}
	return clip.ToPaths(clip.Canonical(flat)), nil
}

// obstacles returns the copper and holes pl must keep clear of, already
// grown by the plane clearance, and the exact copper of the plane's own net.
func (pb *PlaneFragmentsBuilder) obstacles(pl *board.Plane) (obstacles, connected clip.Paths, err error) {
	tol := pb.tolerance
	var grow clip.Paths
	add := func(p geometry.Path) {
		if c := clip.Convert(p, tol); len(c) > 2 {
			grow = append(grow, c)
		}
	}
	connect := func(p geometry.Path) {
		if c := clip.Convert(p, tol); len(c) > 2 {
			connected = append(connected, c)
		}
	}
	solid := pl.ConnectStyle != board.ConnectNone

	for _, other := range pb.board.Planes {
		if other == pl || other.Layer != pl.Layer || other.Net == pl.Net || !board.PlaneHigher(other, pl) {
			continue
		}
		for _, f := range other.Fragments() {
			add(f)
		}
	}

	for _, d := range pb.board.Devices {
		tr := d.Transform()
		for _, h := range d.Footprint.Holes {
			add(geometry.Circle(h.Diameter).Translated(tr.MapPoint(h.Position)))
		}
		for _, pad := range d.Footprint.Pads {
			if !pad.IsOnLayer(d, pl.Layer) {
				continue
			}
			outline, err := pad.SceneOutline(d)
			if err != nil {
				return nil, nil, err
			}
			if pad.Net == pl.Net {
				connect(outline)
			}
			if !solid || pad.Net != pl.Net {
				add(outline)
			}
		}
	}

	for _, h := range pb.board.Holes {
		add(geometry.Circle(h.Diameter).Translated(h.Position))
	}

	for _, seg := range pb.board.NetSegments {
		for _, v := range seg.Vias {
			if !v.IsOnLayer(pl.Layer) {
				continue
			}
			outline, err := v.SceneOutline()
			if err != nil {
				return nil, nil, err
			}
			if seg.Net == pl.Net {
				connect(outline)
			}
			if !solid || seg.Net != pl.Net {
				add(outline)
			}
		}
		for _, l := range seg.NetLines {
			if l.Layer != pl.Layer {
				continue
			}
			if seg.Net == pl.Net {
				connect(l.SceneOutline())
			} else {
				add(l.SceneOutline())
			}
		}
	}

	artwork := NewPathGenerator(pb.board, tol)
	artwork.addArtwork(pl.Layer)
	art, err := artwork.Paths()
	if err != nil {
		return nil, nil, err
	}
	grow = append(grow, art...)

	if obstacles, err = clip.Offset(grow, pl.MinClearance, tol); err != nil {
		return nil, nil, fmt.Errorf("grow obstacles: %w", err)
	}
	return obstacles, connected, nil
}
