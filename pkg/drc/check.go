package drc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/clip"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

// minLocationSize keeps locations of tiny or zero sized features visible.
const minLocationSize = 50 * geometry.Micrometre

// AirWireProvider detects copper connections that are not routed yet.
type AirWireProvider interface {
	ForceAirWiresRebuild() error
	AirWires() []board.AirWire
}

type copperKey struct {
	layer string
	net   *board.NetSignal
}

// DesignRuleCheck runs the rule checks over one board. An instance may run
// several times but never concurrently.
type DesignRuleCheck struct {
	board    *board.Board
	opts     Options
	observer Observer
	airWires AirWireProvider

	progress progress
	copper   map[copperKey]clip.Paths
	messages []Message
}

// New returns a check of b with the given options.
func New(b *board.Board, opts Options) *DesignRuleCheck {
	return &DesignRuleCheck{board: b, opts: opts, observer: NopObserver{}}
}

// SetObserver sets the receiver of progress events. nil disables events.
func (c *DesignRuleCheck) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	c.observer = o
}

// SetAirWireProvider sets the source of missing connections. Without a
// provider the missing connections check reports nothing.
func (c *DesignRuleCheck) SetAirWireProvider(p AirWireProvider) {
	c.airWires = p
}

type phase struct {
	status  string
	enabled bool
	from    int
	to      int
	run     func(from, to int) error
}

// Execute runs all enabled checks in order. Plane fragments of the board
// are rebuilt first. The context is checked between checks; on
// cancellation or any other error no messages are returned.
func (c *DesignRuleCheck) Execute(ctx context.Context) ([]Message, error) {
	if err := c.opts.Validate(); err != nil {
		return nil, err
	}
	c.messages = nil
	c.copper = make(map[copperKey]clip.Paths)
	c.progress = progress{obs: c.observer}

	o := c.opts
	phases := []phase{
		{"Rebuild planes...", o.RebuildPlanes, 5, 15, c.rebuildPlanes},
		{"Check board clearances...", o.CheckCopperBoardClearance, 15, 40, c.checkCopperBoardClearances},
		{"Check copper clearances...", o.CheckCopperCopperClearance, 40, 70, c.checkCopperCopperClearances},
		{"Check minimum copper width...", o.CheckCopperWidth, 70, 72, c.checkMinimumCopperWidth},
		{"Check minimum PTH restrings...", o.CheckPthRestring, 72, 74, c.checkMinimumPthRestring},
		{"Check minimum PTH drill diameters...", o.CheckPthDrillDiameter, 74, 76, c.checkMinimumPthDrillDiameter},
		{"Check minimum NPTH drill diameters...", o.CheckNpthDrillDiameter, 76, 78, c.checkMinimumNpthDrillDiameter},
		{"Check courtyard clearances...", o.CheckCourtyardClearance, 78, 88, c.checkCourtyardClearances},
		{"Check for missing connections...", o.CheckMissingConnections, 88, 90, c.checkForMissingConnections},
	}

	c.observer.Started()
	c.progress.set(5)
	for _, ph := range phases {
		if err := ctx.Err(); err != nil {
			c.messages = nil
			return nil, err
		}
		if ph.enabled {
			start := time.Now()
			c.observer.Status(ph.status)
			if err := ph.run(ph.from, ph.to); err != nil {
				c.messages = nil
				return nil, fmt.Errorf("drc: %s: %w", strings.TrimSuffix(ph.status, "..."), err)
			}
			Logger().Debug("drc phase done", "phase", ph.status, "messages", len(c.messages),
				"elapsed", time.Since(start))
		}
		c.progress.set(ph.to)
	}

	c.observer.Status(fmt.Sprintf("Finished with %d message(s)!", len(c.messages)))
	c.progress.set(100)
	c.observer.Finished()
	return c.messages, nil
}

func (c *DesignRuleCheck) emit(m Message) {
	c.messages = append(c.messages, m)
	c.observer.Message(m)
}

func (c *DesignRuleCheck) tolerance() geometry.Length {
	return c.opts.MaxArcTolerance
}

// nets returns all nets of the board followed by nil for unconnected
// copper.
func (c *DesignRuleCheck) nets() []*board.NetSignal {
	nets := make([]*board.NetSignal, 0, len(c.board.NetSignals)+1)
	nets = append(nets, c.board.NetSignals...)
	return append(nets, nil)
}

func (c *DesignRuleCheck) copperPaths(layer string, net *board.NetSignal) (clip.Paths, error) {
	key := copperKey{layer, net}
	if p, ok := c.copper[key]; ok {
		return p, nil
	}
	gen := NewPathGenerator(c.board, c.tolerance())
	if err := gen.AddCopper(layer, net); err != nil {
		return nil, err
	}
	p, err := gen.Paths()
	if err != nil {
		return nil, err
	}
	c.copper[key] = p
	return p, nil
}

func (c *DesignRuleCheck) rebuildPlanes(_, _ int) error {
	NewPlaneFragmentsBuilder(c.board, c.tolerance()).RebuildAll()
	return nil
}

// restrictedArea is the band along the inside of the board outline plus
// the holes, each as wide as the respective clearance.
func (c *DesignRuleCheck) restrictedArea() (clip.Paths, error) {
	tol := c.tolerance()
	gen := NewPathGenerator(c.board, tol)
	if err := gen.AddBoardOutline(); err != nil {
		return nil, err
	}
	outline, err := gen.Paths()
	if err != nil {
		return nil, err
	}
	inner, err := clip.Offset(outline, tol-c.opts.MinCopperBoardClearance, tol)
	if err != nil {
		return nil, err
	}
	restricted, err := clip.Subtract(outline, inner, clip.NonZero, clip.NonZero)
	if err != nil {
		return nil, err
	}

	holes := NewPathGenerator(c.board, tol)
	if err := holes.AddHoles(c.opts.MinCopperNpthClearance - tol); err != nil {
		return nil, err
	}
	h, err := holes.Paths()
	if err != nil {
		return nil, err
	}
	return clip.Unite(restricted, h, clip.NonZero, clip.NonZero)
}

// intersections returns the flattened overlap of a and b.
func intersections(a, b clip.Paths) ([]geometry.Path, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, nil
	}
	tree, err := clip.IntersectToTree(a, b, clip.NonZero, clip.NonZero)
	if err != nil {
		return nil, err
	}
	flat, err := clip.FlattenTree(tree)
	if err != nil {
		return nil, err
	}
	return clip.ToPaths(flat), nil
}

func (c *DesignRuleCheck) checkCopperBoardClearances(from, to int) error {
	restricted, err := c.restrictedArea()
	if err != nil {
		return err
	}
	nets := c.nets()
	layers := c.board.Layers.CopperLayers()
	for li, layer := range layers {
		for i, net := range nets {
			copper, err := c.copperPaths(layer.Name, net)
			if err != nil {
				return err
			}
			locations, err := intersections(restricted, copper)
			if err != nil {
				return err
			}
			for _, loc := range locations {
				c.emit(newMessage(KindCopperBoardClearance, []geometry.Path{loc},
					"Clearance (%s): '%s' <-> Board Outline", board.LayerTitle(layer.Name), board.NetName(net)))
			}
			c.progress.within(from, to, li*len(nets)+i+1, len(layers)*len(nets))
		}
	}
	return nil
}

func (c *DesignRuleCheck) checkCopperCopperClearances(from, to int) error {
	tol := c.tolerance()
	grow := (c.opts.MinCopperCopperClearance - tol) / 2
	nets := c.nets()
	layers := c.board.Layers.CopperLayers()
	for li, layer := range layers {
		grown := make([]clip.Paths, len(nets))
		for i, net := range nets {
			copper, err := c.copperPaths(layer.Name, net)
			if err != nil {
				return err
			}
			if grown[i], err = clip.Offset(copper, grow, tol); err != nil {
				return err
			}
		}
		for i := range nets {
			for k := i + 1; k < len(nets); k++ {
				locations, err := intersections(grown[i], grown[k])
				if err != nil {
					return err
				}
				for _, loc := range locations {
					c.emit(newMessage(KindCopperCopperClearance, []geometry.Path{loc},
						"Clearance (%s): '%s' <-> '%s'", board.LayerTitle(layer.Name),
						board.NetName(nets[i]), board.NetName(nets[k])))
				}
			}
			c.progress.within(from, to, li*len(nets)+i+1, len(layers)*len(nets))
		}
	}
	return nil
}

func textLocations(t *board.StrokeText) []geometry.Path {
	var locations []geometry.Path
	for _, p := range t.ScenePaths() {
		locations = append(locations, p.ToOutlineStrokes(max(t.StrokeWidth, minLocationSize))...)
	}
	return locations
}

func (c *DesignRuleCheck) checkTextWidth(t *board.StrokeText) {
	if !c.board.Layers.IsCopper(t.Layer) || t.StrokeWidth >= c.opts.MinCopperWidth {
		return
	}
	c.emit(newMessage(KindMinCopperWidth, textLocations(t),
		"Min. copper width (%s) of text: %s", board.LayerTitle(t.Layer), t.StrokeWidth))
}

func (c *DesignRuleCheck) checkMinimumCopperWidth(_, _ int) error {
	limit := c.opts.MinCopperWidth
	for _, t := range c.board.StrokeTexts {
		c.checkTextWidth(t)
	}
	for _, pl := range c.board.Planes {
		if !c.board.Layers.IsCopper(pl.Layer) || pl.MinWidth >= limit {
			continue
		}
		c.emit(newMessage(KindMinCopperWidth, pl.Outline.Closed().ToOutlineStrokes(200*geometry.Micrometre),
			"Min. copper width (%s) of plane: %s", board.LayerTitle(pl.Layer), pl.MinWidth))
	}
	for _, d := range c.board.Devices {
		// device texts are placed on board layers and are not mirrored
		for _, t := range d.StrokeTexts {
			c.checkTextWidth(t)
		}
	}
	for _, seg := range c.board.NetSegments {
		for _, l := range seg.NetLines {
			if !c.board.Layers.IsCopper(l.Layer) || l.Width >= limit {
				continue
			}
			c.emit(newMessage(KindMinCopperWidth, []geometry.Path{l.SceneOutline()},
				"Min. copper width (%s) of trace: %s", board.LayerTitle(l.Layer), l.Width))
		}
	}
	return nil
}

// Restring returns the annular ring of a plated hole. The +1 rounds odd
// differences up.
func Restring(size, drill geometry.Length) geometry.Length {
	return (size - drill + 1) / 2
}

func circleAt(diameter geometry.Length, center geometry.Point) []geometry.Path {
	return []geometry.Path{geometry.Circle(diameter).Translated(center)}
}

func (c *DesignRuleCheck) checkMinimumPthRestring(_, _ int) error {
	limit := c.opts.MinPthRestring
	for _, seg := range c.board.NetSegments {
		for _, v := range seg.Vias {
			r := Restring(v.Size, v.Drill)
			if r >= limit {
				continue
			}
			c.emit(newMessage(KindMinPthRestring, circleAt(v.Drill+2*limit, v.Position),
				"Min. via restring ('%s'): %s", board.NetName(seg.Net), r))
		}
	}
	for _, d := range c.board.Devices {
		for _, pad := range d.Footprint.Pads {
			if !pad.IsTHT() {
				continue
			}
			r := Restring(min(pad.Width, pad.Height), pad.Drill)
			if r >= limit {
				continue
			}
			c.emit(newMessage(KindMinPthRestring, circleAt(pad.Drill+1+2*limit, pad.ScenePosition(d)),
				"Min. pad restring ('%s'): %s", pad.DisplayName(d), r))
		}
	}
	return nil
}

func (c *DesignRuleCheck) checkMinimumPthDrillDiameter(_, _ int) error {
	limit := c.opts.MinPthDrillDiameter
	for _, seg := range c.board.NetSegments {
		for _, v := range seg.Vias {
			if v.Drill >= limit {
				continue
			}
			c.emit(newMessage(KindMinPthDrill, circleAt(max(v.Drill, minLocationSize), v.Position),
				"Min. via drill diameter ('%s'): %s", board.NetName(seg.Net), v.Drill))
		}
	}
	for _, d := range c.board.Devices {
		for _, pad := range d.Footprint.Pads {
			if !pad.IsTHT() || pad.Drill >= limit {
				continue
			}
			c.emit(newMessage(KindMinPthDrill, circleAt(max(pad.Drill, minLocationSize), pad.ScenePosition(d)),
				"Min. pad drill diameter ('%s'): %s", pad.DisplayName(d), pad.Drill))
		}
	}
	return nil
}

func (c *DesignRuleCheck) checkMinimumNpthDrillDiameter(_, _ int) error {
	limit := c.opts.MinNpthDrillDiameter
	for _, h := range c.board.Holes {
		if h.Diameter < limit {
			c.emit(newMessage(KindMinNpthDrill, circleAt(max(h.Diameter, minLocationSize), h.Position),
				"Min. hole diameter: %s", h.Diameter))
		}
	}
	for _, d := range c.board.Devices {
		tr := d.Transform()
		for _, h := range d.Footprint.Holes {
			if h.Diameter < limit {
				c.emit(newMessage(KindMinNpthDrill, circleAt(max(h.Diameter, minLocationSize), tr.MapPoint(h.Position)),
					"Min. hole diameter: %s", h.Diameter))
			}
		}
	}
	return nil
}

// courtyard returns the courtyard area of d on layer, polygons and circles
// alike taken as filled.
func (c *DesignRuleCheck) courtyard(d *board.Device, layer string) (clip.Paths, error) {
	tol := c.tolerance()
	tr := d.Transform()
	var paths clip.Paths
	for _, p := range d.Footprint.Polygons {
		if d.MapLayer(p.Layer) == layer {
			if cp := clip.Convert(tr.MapPath(p.Path).Closed(), tol); len(cp) > 2 {
				paths = append(paths, cp)
			}
		}
	}
	for _, ci := range d.Footprint.Circles {
		if d.MapLayer(ci.Layer) == layer && ci.Diameter > 0 {
			paths = append(paths, clip.Convert(geometry.Circle(ci.Diameter).Translated(tr.MapPoint(ci.Center)), tol))
		}
	}
	if len(paths) == 0 {
		return clip.Paths{}, nil
	}
	paths, err := clip.UniteSelf(paths, clip.NonZero)
	if err != nil {
		return nil, err
	}
	return clip.Offset(paths, c.opts.CourtyardOffset, tol)
}

func (c *DesignRuleCheck) checkCourtyardClearances(from, to int) error {
	layers := []string{board.LayerTopCourtyard, board.LayerBotCourtyard}
	devices := c.board.Devices
	for li, layer := range layers {
		areas := make([]clip.Paths, len(devices))
		for i, d := range devices {
			var err error
			if areas[i], err = c.courtyard(d, layer); err != nil {
				return err
			}
		}
		for i := range devices {
			for k := i + 1; k < len(devices); k++ {
				locations, err := intersections(areas[i], areas[k])
				if err != nil {
					return err
				}
				for _, loc := range locations {
					c.emit(newMessage(KindCourtyardClearance, []geometry.Path{loc},
						"Clearance (%s): '%s' <-> '%s'", board.LayerTitle(layer), devices[i].Name, devices[k].Name))
				}
			}
			c.progress.within(from, to, li*len(devices)+i+1, len(layers)*len(devices))
		}
	}
	return nil
}

func (c *DesignRuleCheck) checkForMissingConnections(_, _ int) error {
	if c.airWires == nil {
		return nil
	}
	if err := c.airWires.ForceAirWiresRebuild(); err != nil {
		return fmt.Errorf("rebuild air wires: %w", err)
	}
	for _, w := range c.airWires.AirWires() {
		location := geometry.ObroundBetween(w.P1, w.P2, minLocationSize)
		c.emit(newMessage(KindMissingConnection, []geometry.Path{location},
			"Missing connection: '%s'", board.NetName(w.Net)))
	}
	return nil
}
