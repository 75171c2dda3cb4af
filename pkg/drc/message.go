package drc

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

// Kind identifies the check that produced a message.
type Kind string

const (
	KindCopperBoardClearance  Kind = "copper_board_clearance"
	KindCopperCopperClearance Kind = "copper_copper_clearance"
	KindMinCopperWidth        Kind = "min_copper_width"
	KindMinPthRestring        Kind = "min_pth_restring"
	KindMinPthDrill           Kind = "min_pth_drill"
	KindMinNpthDrill          Kind = "min_npth_drill"
	KindCourtyardClearance    Kind = "courtyard_clearance"
	KindMissingConnection     Kind = "missing_connection"
)

// Message is one located rule violation.
type Message struct {
	Kind      Kind
	Text      string
	Locations []geometry.Path
}

func newMessage(kind Kind, locations []geometry.Path, format string, args ...any) Message {
	return Message{Kind: kind, Text: fmt.Sprintf(format, args...), Locations: locations}
}

// Bounds returns the bounding box of the location vertices. Arc bulges are
// not included. ok is false when the message has no location vertices.
func (m Message) Bounds() (lo, hi geometry.Point, ok bool) {
	lo = geometry.Pt(math.MaxInt64, math.MaxInt64)
	hi = geometry.Pt(math.MinInt64, math.MinInt64)
	for _, p := range m.Locations {
		for _, v := range p {
			lo.X, lo.Y = min(lo.X, v.Pos.X), min(lo.Y, v.Pos.Y)
			hi.X, hi.Y = max(hi.X, v.Pos.X), max(hi.Y, v.Pos.Y)
			ok = true
		}
	}
	if !ok {
		return geometry.Point{}, geometry.Point{}, false
	}
	return lo, hi, true
}

// Center returns the centre of the location bounding box.
func (m Message) Center() geometry.Point {
	lo, hi, ok := m.Bounds()
	if !ok {
		return geometry.Point{}
	}
	return geometry.Pt((lo.X+hi.X)/2, (lo.Y+hi.Y)/2)
}

// ApprovalKey identifies a message across runs. Small geometry changes
// below one micrometre do not change the key.
func (m Message) ApprovalKey() string {
	c := m.Center()
	return fmt.Sprintf("%s|%s|%d,%d", m.Kind, m.Text,
		c.X/geometry.Micrometre, c.Y/geometry.Micrometre)
}

func (m Message) String() string {
	return m.Text
}
