package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/kicad/sexp"
)

// Zone defaults applied when a zone omits the setting.
const (
	defaultZoneClearance = 0.5
	defaultZoneMinWidth  = 0.25
)

// addZone converts a copper zone into one plane per layer. Rule areas
// (keepouts) carry no copper and are skipped.
func (r *reader) addZone(n *sexp.Node, index int) error {
	if n.Child("keepout") != nil {
		return nil
	}
	var names []string
	if l := n.Child("layer"); l != nil {
		names = append(names, l.Arg(0))
	}
	if l := n.Child("layers"); l != nil {
		names = append(names, argValues(l)...)
	}
	layers := copperLayers(r.board.Layers, names)
	if len(layers) == 0 {
		return nil
	}

	poly := n.Child("polygon")
	if poly == nil {
		return fmt.Errorf("zone %d: missing outline polygon", index)
	}
	outline, err := points(poly.Child("pts"))
	if err != nil {
		return fmt.Errorf("zone %d: %w", index, err)
	}

	id := n.ChildValue("uuid")
	if id == "" {
		id = n.ChildValue("tstamp")
	}
	if id == "" {
		id = fmt.Sprintf("zone%d", index)
	}

	connect := n.Child("connect_pads")
	style := board.ConnectSolid
	if connect.Arg(0) == "no" {
		style = board.ConnectNone
	}
	priority := 0
	if p := n.Child("priority"); p != nil {
		if priority, err = p.Int(0); err != nil {
			return fmt.Errorf("zone %s: priority: %w", id, err)
		}
	}

	for _, layer := range layers {
		pid := id
		if len(layers) > 1 {
			pid = id + "@" + layer
		}
		r.board.Planes = append(r.board.Planes, &board.Plane{
			ID:           pid,
			Outline:      outline.Closed(),
			Layer:        layer,
			Net:          r.net(n),
			MinWidth:     length(n.ChildFloat("min_thickness", defaultZoneMinWidth)),
			MinClearance: length(connect.ChildFloat("clearance", defaultZoneClearance)),
			Priority:     priority,
			ConnectStyle: style,
			KeepOrphans:  n.Child("fill").ChildValue("island_removal_mode") == "1",
		})
	}
	return nil
}
