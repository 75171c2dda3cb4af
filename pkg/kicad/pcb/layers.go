package pcb

import (
	"regexp"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/kicad/sexp"
)

var innerCopperRe = regexp.MustCompile(`^In([0-9]+)\.Cu$`)

var layerNames = map[string]string{
	"F.Cu":      board.LayerTopCopper,
	"B.Cu":      board.LayerBotCopper,
	"Edge.Cuts": board.LayerBoardOutlines,
	"F.CrtYd":   board.LayerTopCourtyard,
	"B.CrtYd":   board.LayerBotCourtyard,
	"F.SilkS":   board.LayerTopPlacement,
	"B.SilkS":   board.LayerBotPlacement,
	"F.Mask":    board.LayerTopStopMask,
	"B.Mask":    board.LayerBotStopMask,
}

// layerName maps a KiCad layer to a board layer. Layers without a
// counterpart map to "".
func layerName(kicad string) string {
	if name, ok := layerNames[kicad]; ok {
		return name
	}
	if m := innerCopperRe.FindStringSubmatch(kicad); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return board.InnerCopperLayer(n)
		}
	}
	return ""
}

// layerStack builds the stack from the (layers ...) table, e.g.
// (0 "F.Cu" signal) (1 "In1.Cu" signal) (31 "B.Cu" signal).
func layerStack(n *sexp.Node) *board.LayerStack {
	inner := 0
	for _, l := range n.Args() {
		if m := innerCopperRe.FindStringSubmatch(l.Arg(0)); m != nil {
			if k, err := strconv.Atoi(m[1]); err == nil {
				inner = max(inner, k)
			}
		}
	}
	return board.NewLayerStack(inner)
}

// copperLayers expands a copper layer list such as ("F.Cu" "In1.Cu"),
// ("F&B.Cu") or ("*.Cu") into board layer names.
func copperLayers(stack *board.LayerStack, names []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] && board.IsCopperLayerName(name) {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, kicad := range names {
		switch kicad {
		case "*.Cu":
			for _, l := range stack.CopperLayers() {
				add(l.Name)
			}
		case "F&B.Cu":
			add(board.LayerTopCopper)
			add(board.LayerBotCopper)
		default:
			add(layerName(kicad))
		}
	}
	return out
}

func argValues(n *sexp.Node) []string {
	var out []string
	for _, a := range n.Args() {
		if !a.IsList() {
			out = append(out, a.Value())
		}
	}
	return out
}
