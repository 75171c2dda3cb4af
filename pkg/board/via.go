package board

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

// ViaShape is the copper shape of a via.
type ViaShape int

const (
	ViaShapeRound ViaShape = iota
	ViaShapeSquare
	ViaShapeOctagon
)

// Via is a plated through-hole connecting all copper layers.
type Via struct {
	Position geometry.Point
	Size     geometry.Length
	Drill    geometry.Length
	Shape    ViaShape
}

// IsOnLayer reports whether the via has copper on layer.
func (v *Via) IsOnLayer(layer string) bool {
	return IsCopperLayerName(layer)
}

// SceneOutline returns the via copper outline in board coordinates.
func (v *Via) SceneOutline() (geometry.Path, error) {
	var outline geometry.Path
	switch v.Shape {
	case ViaShapeRound:
		outline = geometry.Circle(v.Size)
	case ViaShapeSquare:
		outline = geometry.CenteredRect(v.Size, v.Size)
	case ViaShapeOctagon:
		outline = geometry.Octagon(v.Size, v.Size)
	default:
		return nil, fmt.Errorf("via at %v: %w: %d", v.Position, ErrUnknownViaShape, int(v.Shape))
	}
	return outline.Translated(v.Position), nil
}
