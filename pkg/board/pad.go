package board

import (
	"fmt"
	"regexp"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

var innerCopperRe = regexp.MustCompile(`^in[0-9]+_cu$`)

// IsCopperLayerName reports whether name denotes a copper layer, enabled
// or not.
func IsCopperLayerName(name string) bool {
	return name == LayerTopCopper || name == LayerBotCopper || innerCopperRe.MatchString(name)
}

// PadShape is the copper shape of a footprint pad.
type PadShape int

const (
	PadShapeRound PadShape = iota
	PadShapeRect
	PadShapeOctagon
)

func (s PadShape) String() string {
	switch s {
	case PadShapeRound:
		return "round"
	case PadShapeRect:
		return "rect"
	case PadShapeOctagon:
		return "octagon"
	}
	return fmt.Sprintf("PadShape(%d)", int(s))
}

// BoardSide tells on which copper layers a pad exists.
type BoardSide int

const (
	SideTop BoardSide = iota
	SideBottom
	SideTHT
)

// FootprintPad is a pad in footprint coordinates.
type FootprintPad struct {
	Name     string
	Position geometry.Point
	Rotation geometry.Angle
	Shape    PadShape
	Width    geometry.Length
	Height   geometry.Length
	Drill    geometry.Length // THT only
	Side     BoardSide
	Net      *NetSignal
}

// IsTHT reports whether the pad is plated through-hole.
func (p *FootprintPad) IsTHT() bool {
	return p.Side == SideTHT
}

// IsOnLayer reports whether the pad of device d has copper on layer.
func (p *FootprintPad) IsOnLayer(d *Device, layer string) bool {
	switch p.Side {
	case SideTHT:
		return IsCopperLayerName(layer)
	case SideTop:
		return d.MapLayer(LayerTopCopper) == layer
	case SideBottom:
		return d.MapLayer(LayerBotCopper) == layer
	}
	return false
}

// ScenePosition returns the pad centre in board coordinates.
func (p *FootprintPad) ScenePosition(d *Device) geometry.Point {
	return d.Transform().MapPoint(p.Position)
}

// SceneOutline returns the pad copper outline in board coordinates.
func (p *FootprintPad) SceneOutline(d *Device) (geometry.Path, error) {
	var outline geometry.Path
	switch p.Shape {
	case PadShapeRound:
		outline = geometry.Obround(p.Width, p.Height)
	case PadShapeRect:
		outline = geometry.CenteredRect(p.Width, p.Height)
	case PadShapeOctagon:
		outline = geometry.Octagon(p.Width, p.Height)
	default:
		return nil, fmt.Errorf("pad %q of %q: %w: %v", p.Name, d.Name, ErrUnknownPadShape, p.Shape)
	}
	outline = outline.Rotated(p.Rotation, geometry.Point{}).Translated(p.Position)
	return d.Transform().MapPath(outline), nil
}

// DisplayName returns "<device>-<pad>".
func (p *FootprintPad) DisplayName(d *Device) string {
	return d.Name + "-" + p.Name
}
