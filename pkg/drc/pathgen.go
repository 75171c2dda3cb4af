package drc

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/clip"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

// PathGenerator collects board geometry of one category and returns the
// union of everything added. A generator is owned by one caller and is
// never shared.
type PathGenerator struct {
	board     *board.Board
	tolerance geometry.Length
	pending   clip.Paths
	united    clip.Paths
	dirty     bool
}

// NewPathGenerator returns an empty generator for b. Arcs are flattened
// with the given tolerance.
func NewPathGenerator(b *board.Board, tolerance geometry.Length) *PathGenerator {
	return &PathGenerator{board: b, tolerance: tolerance, united: clip.Paths{}}
}

// Paths returns the union of everything added so far.
func (g *PathGenerator) Paths() (clip.Paths, error) {
	if !g.dirty {
		return g.united, nil
	}
	res, err := clip.Unite(g.united, g.pending, clip.NonZero, clip.NonZero)
	if err != nil {
		return nil, err
	}
	g.united, g.pending, g.dirty = res, nil, false
	return g.united, nil
}

func (g *PathGenerator) add(paths ...geometry.Path) {
	for _, p := range paths {
		if c := clip.Convert(p, g.tolerance); len(c) > 2 {
			g.pending = append(g.pending, c)
			g.dirty = true
		}
	}
}

func (g *PathGenerator) addClip(paths clip.Paths) {
	for _, p := range paths {
		if len(p) > 2 {
			g.pending = append(g.pending, p)
			g.dirty = true
		}
	}
}

// addPolygon adds the outline stroke and, for closed filled polygons, the
// area of path.
func (g *PathGenerator) addPolygon(path geometry.Path, width geometry.Length, filled bool) {
	if width > 0 {
		g.add(path.ToOutlineStrokes(width)...)
	}
	if filled && path.IsClosed() {
		g.add(path)
	}
}

func (g *PathGenerator) addCircle(center geometry.Point, diameter, width geometry.Length, filled bool) {
	if diameter <= 0 {
		return
	}
	path := geometry.Circle(diameter).Translated(center)
	if width > 0 {
		g.add(path.ToOutlineStrokes(width)...)
	}
	if filled {
		g.add(path)
	}
}

func (g *PathGenerator) addStrokeText(t *board.StrokeText) {
	width := max(t.StrokeWidth, 1)
	for _, p := range t.ScenePaths() {
		g.add(p.ToOutlineStrokes(width)...)
	}
}

// BoardArea returns the even-odd resolved area enclosed by all board
// outline polygons, so that nested outlines become cutouts.
func BoardArea(b *board.Board, tolerance geometry.Length) (clip.Paths, error) {
	var outlines clip.Paths
	addOutline := func(p geometry.Path) {
		if c := clip.Convert(p, tolerance); len(c) > 2 {
			outlines = append(outlines, c)
		}
	}
	for _, p := range b.Polygons {
		if p.Layer == board.LayerBoardOutlines {
			addOutline(p.Path)
		}
	}
	for _, d := range b.Devices {
		tr := d.Transform()
		for _, p := range d.Footprint.Polygons {
			if d.MapLayer(p.Layer) == board.LayerBoardOutlines {
				addOutline(tr.MapPath(p.Path))
			}
		}
	}
	if len(outlines) == 0 {
		return clip.Paths{}, nil
	}
	area, err := clip.UniteSelf(outlines, clip.EvenOdd)
	if err != nil {
		return nil, fmt.Errorf("board outline: %w", err)
	}
	return area, nil
}

// AddBoardOutline adds the area enclosed by the board outline polygons of
// the board and of all footprints.
func (g *PathGenerator) AddBoardOutline() error {
	area, err := BoardArea(g.board, g.tolerance)
	if err != nil {
		return err
	}
	g.addClip(area)
	return nil
}

// AddHoles adds all non-plated holes, each grown by offset. Holes that
// vanish under a negative offset are skipped.
func (g *PathGenerator) AddHoles(offset geometry.Length) error {
	for _, h := range g.board.Holes {
		if d := h.Diameter + 2*offset; d > 0 {
			g.add(geometry.Circle(d).Translated(h.Position))
		}
	}
	for _, dev := range g.board.Devices {
		tr := dev.Transform()
		for _, h := range dev.Footprint.Holes {
			if d := h.Diameter + 2*offset; d > 0 {
				g.add(geometry.Circle(d).Translated(tr.MapPoint(h.Position)))
			}
		}
	}
	return nil
}

// addArtwork adds polygons, circles and stroke texts on layer. Artwork
// never belongs to a net.
func (g *PathGenerator) addArtwork(layer string) {
	b := g.board
	for _, p := range b.Polygons {
		if p.Layer == layer {
			g.addPolygon(p.Path, p.LineWidth, p.Filled)
		}
	}
	for _, t := range b.StrokeTexts {
		if t.Layer == layer {
			g.addStrokeText(t)
		}
	}
	for _, d := range b.Devices {
		tr := d.Transform()
		for _, p := range d.Footprint.Polygons {
			if d.MapLayer(p.Layer) == layer {
				g.addPolygon(tr.MapPath(p.Path), p.LineWidth, p.Filled)
			}
		}
		for _, c := range d.Footprint.Circles {
			if d.MapLayer(c.Layer) == layer {
				g.addCircle(tr.MapPoint(c.Center), c.Diameter, c.LineWidth, c.Filled)
			}
		}
		for _, t := range d.StrokeTexts {
			if t.Layer == layer {
				g.addStrokeText(t)
			}
		}
	}
}

// AddCopper adds all copper of net on layer. A nil net selects copper not
// connected to any net, which includes copper artwork.
func (g *PathGenerator) AddCopper(layer string, net *board.NetSignal) error {
	b := g.board
	if net == nil {
		g.addArtwork(layer)
	}

	for _, pl := range b.Planes {
		if pl.Layer == layer && pl.Net == net {
			g.add(pl.Fragments()...)
		}
	}

	for _, d := range b.Devices {
		for _, pad := range d.Footprint.Pads {
			if pad.Net != net || !pad.IsOnLayer(d, layer) {
				continue
			}
			outline, err := pad.SceneOutline(d)
			if err != nil {
				return err
			}
			g.add(outline)
		}
	}

	for _, seg := range b.NetSegments {
		if seg.Net != net {
			continue
		}
		for _, v := range seg.Vias {
			if !v.IsOnLayer(layer) {
				continue
			}
			outline, err := v.SceneOutline()
			if err != nil {
				return err
			}
			g.add(outline)
		}
		for _, l := range seg.NetLines {
			if l.Layer == layer && l.Width > 0 {
				g.add(l.SceneOutline())
			}
		}
	}
	return nil
}
