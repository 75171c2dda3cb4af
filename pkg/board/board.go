// Package board holds a read-only snapshot of a PCB as consumed by the
// DRC engine: layers, nets, placed devices, traces, vias, planes and
// artwork. Apart from plane fragments nothing here is written by the
// engine.
package board

import (
	"errors"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

// Contract violations reported while building outlines.
var (
	ErrUnknownViaShape = errors.New("unknown via shape")
	ErrUnknownPadShape = errors.New("unknown pad shape")
)

// NetSignal is an electrical net. Nets are compared by identity; a nil
// *NetSignal stands for "no net".
type NetSignal struct {
	Name string
}

// NetName returns the name of n, or "" for no net.
func NetName(n *NetSignal) string {
	if n == nil {
		return ""
	}
	return n.Name
}

// Polygon is board or footprint artwork.
type Polygon struct {
	Layer     string
	Path      geometry.Path
	LineWidth geometry.Length
	Filled    bool
}

// Circle is a circle in footprint coordinates.
type Circle struct {
	Layer     string
	Center    geometry.Point
	Diameter  geometry.Length
	LineWidth geometry.Length
	Filled    bool
}

// Hole is a non-plated drill.
type Hole struct {
	Position geometry.Point
	Diameter geometry.Length
}

// StrokeText is text already converted to stroke paths. Text placed on a
// footprint is kept in board coordinates and is not transformed by the
// device.
type StrokeText struct {
	Text        string
	Layer       string
	Position    geometry.Point
	Rotation    geometry.Angle
	Mirrored    bool
	StrokeWidth geometry.Length
	Paths       []geometry.Path
}

// ScenePaths returns the text strokes in board coordinates.
func (t *StrokeText) ScenePaths() []geometry.Path {
	tr := geometry.Transform{Position: t.Position, Rotation: t.Rotation, Mirrored: t.Mirrored}
	out := make([]geometry.Path, 0, len(t.Paths))
	for _, p := range t.Paths {
		out = append(out, tr.MapPath(p))
	}
	return out
}

// Footprint is the library geometry of a device, in local coordinates.
type Footprint struct {
	Polygons []Polygon
	Circles  []Circle
	Holes    []Hole
	Pads     []*FootprintPad
}

// Device is a placed component.
type Device struct {
	Name      string
	Position  geometry.Point
	Rotation  geometry.Angle
	Mirrored  bool
	Footprint Footprint
	// StrokeTexts are in board coordinates.
	StrokeTexts []*StrokeText
}

// Transform returns the placement transform of d.
func (d *Device) Transform() geometry.Transform {
	return geometry.Transform{Position: d.Position, Rotation: d.Rotation, Mirrored: d.Mirrored}
}

// MapLayer returns the board layer of footprint geometry drawn on name.
func (d *Device) MapLayer(name string) string {
	if d.Mirrored {
		return MirroredLayerName(name)
	}
	return name
}

// NetSegment groups the traces and vias of one net.
type NetSegment struct {
	Net      *NetSignal
	Vias     []*Via
	NetLines []*NetLine
}

// NetLine is a straight trace.
type NetLine struct {
	Start, End geometry.Point
	Width      geometry.Length
	Layer      string
}

// SceneOutline returns the trace outline.
func (l *NetLine) SceneOutline() geometry.Path {
	return geometry.ObroundBetween(l.Start, l.End, l.Width)
}

// AirWire is an unrouted connection between two points of a net.
type AirWire struct {
	Net    *NetSignal
	P1, P2 geometry.Point
}

// Board is the snapshot checked by the DRC.
type Board struct {
	Name        string
	Layers      *LayerStack
	NetSignals  []*NetSignal
	Devices     []*Device
	NetSegments []*NetSegment
	Planes      []*Plane
	Polygons    []*Polygon
	StrokeTexts []*StrokeText
	Holes       []*Hole
}

// New returns an empty board with the default two-layer stack.
func New(name string) *Board {
	return &Board{Name: name, Layers: NewLayerStack(0)}
}

// Net returns the net with the given name, creating it if necessary.
func (b *Board) Net(name string) *NetSignal {
	for _, n := range b.NetSignals {
		if n.Name == name {
			return n
		}
	}
	n := &NetSignal{Name: name}
	b.NetSignals = append(b.NetSignals, n)
	return n
}

// Segment returns the net segment of net, creating it if necessary.
func (b *Board) Segment(net *NetSignal) *NetSegment {
	for _, s := range b.NetSegments {
		if s.Net == net {
			return s
		}
	}
	s := &NetSegment{Net: net}
	b.NetSegments = append(b.NetSegments, s)
	return s
}
