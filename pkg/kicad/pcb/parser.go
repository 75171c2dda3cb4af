// Package pcb reads KiCad .kicad_pcb files into the board snapshot used by
// the DRC engine. Coordinates are converted from KiCad's millimetre,
// y-down convention to nanometres with the y axis pointing up.
package pcb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/kicad/sexp"
)

// MinSupportedVersion is the oldest file format understood (KiCad 6.0).
const MinSupportedVersion = 20211014

// ErrNotBoard is returned for documents that are not KiCad boards.
var ErrNotBoard = errors.New("not a KiCad PCB file")

var sexpParser = sync.OnceValues(sexp.NewParser)

// ParseFile reads a board file. The board is named after the title block,
// or after the file when there is none.
func ParseFile(filename string) (*board.Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	base := filepath.Base(filename)
	return parse(file, strings.TrimSuffix(base, filepath.Ext(base)))
}

// Parse reads a board from r.
func Parse(r io.Reader) (*board.Board, error) {
	return parse(r, "board")
}

// ParseString reads a board held in a string.
func ParseString(s string) (*board.Board, error) {
	return parse(strings.NewReader(s), "board")
}

func parse(r io.Reader, name string) (*board.Board, error) {
	p, err := sexpParser()
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrNotBoard)
	}
	if root.Name() != "kicad_pcb" {
		return nil, fmt.Errorf("%w: expected 'kicad_pcb', got '%s'", ErrNotBoard, root.Name())
	}
	if err := checkVersion(root); err != nil {
		return nil, err
	}
	if title := root.Child("title_block").ChildValue("title"); title != "" {
		name = title
	}

	rd := &reader{board: board.New(name), nets: make(map[int]*board.NetSignal)}
	if err := rd.read(root); err != nil {
		return nil, err
	}
	return rd.board, nil
}

func checkVersion(root *sexp.Node) error {
	v := root.Child("version")
	if v == nil {
		return errors.New("missing required 'version' field")
	}
	ver, err := v.Int(0)
	if err != nil {
		return fmt.Errorf("failed to parse version: %w", err)
	}
	if ver < MinSupportedVersion {
		return fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}
	return nil
}

// reader converts one document. Net numbers are resolved through nets.
type reader struct {
	board *board.Board
	nets  map[int]*board.NetSignal
}

func (r *reader) read(root *sexp.Node) error {
	if layers := root.Child("layers"); layers != nil {
		r.board.Layers = layerStack(layers)
	}
	for _, n := range root.Children("net") {
		id, err := n.Int(0)
		if err != nil {
			return fmt.Errorf("failed to parse net number: %w", err)
		}
		if name := n.Arg(1); name != "" {
			r.nets[id] = r.board.Net(name)
		}
	}

	var art artwork
	zones := 0
	for _, n := range root.Args() {
		var err error
		switch n.Name() {
		case "gr_line", "gr_arc", "gr_rect", "gr_poly", "gr_circle":
			err = art.addNode(n)
		case "gr_text":
			err = r.addText(n)
		case "footprint":
			err = r.addFootprint(n)
		case "segment":
			err = r.addSegment(n)
		case "arc":
			err = r.addArcSegment(n)
		case "via":
			err = r.addVia(n)
		case "zone":
			err = r.addZone(n, zones)
			zones++
		}
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", n.Name(), err)
		}
	}

	art.finish()
	for i := range art.polygons {
		r.board.Polygons = append(r.board.Polygons, &art.polygons[i])
	}
	for _, c := range art.circles {
		r.board.Polygons = append(r.board.Polygons, &board.Polygon{
			Layer:     c.Layer,
			Path:      circlePath(c.Center, c.Diameter),
			LineWidth: c.LineWidth,
			Filled:    c.Filled,
		})
	}
	return nil
}

// net resolves the (net ...) or (net_name ...) child of n. Both the
// numbered (net 1 "GND") form and the name only (net "GND") form are
// accepted. Unconnected items yield nil.
func (r *reader) net(n *sexp.Node) *board.NetSignal {
	if name := n.ChildValue("net_name"); name != "" {
		return r.board.Net(name)
	}
	c := n.Child("net")
	if c == nil {
		return nil
	}
	if name := c.Arg(1); name != "" {
		return r.board.Net(name)
	}
	if id, err := c.Int(0); err == nil {
		return r.nets[id]
	}
	if name := c.Arg(0); name != "" {
		return r.board.Net(name)
	}
	return nil
}
