package board

import (
	"fmt"
	"strings"
)

// Well known layer names.
const (
	LayerTopCopper     = "top_cu"
	LayerBotCopper     = "bot_cu"
	LayerBoardOutlines = "brd_outlines"
	LayerTopCourtyard  = "top_courtyard"
	LayerBotCourtyard  = "bot_courtyard"
	LayerTopPlacement  = "top_placement"
	LayerBotPlacement  = "bot_placement"
	LayerTopStopMask   = "top_stop_mask"
	LayerBotStopMask   = "bot_stop_mask"
)

// InnerCopperLayer returns the name of the n-th (1-based) inner copper layer.
func InnerCopperLayer(n int) string {
	return fmt.Sprintf("in%d_cu", n)
}

// MirroredLayerName swaps top and bottom layer names. Other names are
// returned unchanged.
func MirroredLayerName(name string) string {
	switch {
	case strings.HasPrefix(name, "top_"):
		return "bot_" + strings.TrimPrefix(name, "top_")
	case strings.HasPrefix(name, "bot_"):
		return "top_" + strings.TrimPrefix(name, "bot_")
	}
	return name
}

var layerTitles = map[string]string{
	LayerTopCopper:     "Top Copper",
	LayerBotCopper:     "Bottom Copper",
	LayerBoardOutlines: "Board Outlines",
	LayerTopCourtyard:  "Top Courtyard",
	LayerBotCourtyard:  "Bottom Courtyard",
	LayerTopPlacement:  "Top Placement",
	LayerBotPlacement:  "Bottom Placement",
	LayerTopStopMask:   "Top Stop Mask",
	LayerBotStopMask:   "Bottom Stop Mask",
}

// LayerTitle returns the human readable name of a layer, e.g. "Top Copper"
// or "Inner Copper 2". Unknown names are returned unchanged.
func LayerTitle(name string) string {
	if t, ok := layerTitles[name]; ok {
		return t
	}
	var n int
	if _, err := fmt.Sscanf(name, "in%d_cu", &n); err == nil && innerCopperRe.MatchString(name) {
		return fmt.Sprintf("Inner Copper %d", n)
	}
	return name
}

// Layer describes one board layer.
type Layer struct {
	Name    string
	Copper  bool
	Enabled bool
}

// LayerStack is the ordered list of board layers.
type LayerStack struct {
	layers []*Layer
	byName map[string]*Layer
}

// NewLayerStack creates the default stack with the given number of inner
// copper layers, all copper layers enabled.
func NewLayerStack(innerLayers int) *LayerStack {
	s := &LayerStack{byName: make(map[string]*Layer)}
	s.Add(&Layer{Name: LayerBoardOutlines, Enabled: true})
	s.Add(&Layer{Name: LayerTopPlacement, Enabled: true})
	s.Add(&Layer{Name: LayerTopCourtyard, Enabled: true})
	s.Add(&Layer{Name: LayerTopStopMask, Enabled: true})
	s.Add(&Layer{Name: LayerTopCopper, Copper: true, Enabled: true})
	for i := 1; i <= innerLayers; i++ {
		s.Add(&Layer{Name: InnerCopperLayer(i), Copper: true, Enabled: true})
	}
	s.Add(&Layer{Name: LayerBotCopper, Copper: true, Enabled: true})
	s.Add(&Layer{Name: LayerBotStopMask, Enabled: true})
	s.Add(&Layer{Name: LayerBotCourtyard, Enabled: true})
	s.Add(&Layer{Name: LayerBotPlacement, Enabled: true})
	return s
}

// Add appends a layer, replacing an existing layer of the same name.
func (s *LayerStack) Add(l *Layer) {
	if s.byName == nil {
		s.byName = make(map[string]*Layer)
	}
	if old, ok := s.byName[l.Name]; ok {
		*old = *l
		return
	}
	s.layers = append(s.layers, l)
	s.byName[l.Name] = l
}

// Layers returns all layers in stack order.
func (s *LayerStack) Layers() []*Layer {
	return s.layers
}

// Layer looks a layer up by name; it returns nil if there is none.
func (s *LayerStack) Layer(name string) *Layer {
	return s.byName[name]
}

// CopperLayers returns the enabled copper layers in stack order.
func (s *LayerStack) CopperLayers() []*Layer {
	var out []*Layer
	for _, l := range s.layers {
		if l.Copper && l.Enabled {
			out = append(out, l)
		}
	}
	return out
}

// IsCopper reports whether name is an enabled copper layer.
func (s *LayerStack) IsCopper(name string) bool {
	l := s.byName[name]
	return l != nil && l.Copper && l.Enabled
}
