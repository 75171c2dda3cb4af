package drc

import (
	"math"
	"testing"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/clip"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

func TestAddBoardOutline(t *testing.T) {
	tests := []struct {
		name  string
		inner bool
		area  float64
		paths int
	}{
		{"plain", false, 8e15, 1},
		{"cutout", true, 8e15 - 1e14, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoard()
			if tt.inner {
				b.Polygons = append(b.Polygons, &board.Polygon{Layer: board.LayerBoardOutlines, Path: rect(10, 10, 20, 20)})
			}
			gen := NewPathGenerator(b, tol)
			if err := gen.AddBoardOutline(); err != nil {
				t.Fatalf("AddBoardOutline: %v", err)
			}
			paths, err := gen.Paths()
			if err != nil {
				t.Fatalf("Paths: %v", err)
			}
			if len(paths) != tt.paths {
				t.Errorf("got %d paths, want %d", len(paths), tt.paths)
			}
			if a := totalArea(paths); math.Abs(a-tt.area) > 1 {
				t.Errorf("area = %g, want %g", a, tt.area)
			}
		})
	}
}

func TestAddBoardOutlineFromFootprint(t *testing.T) {
	b := board.New("test")
	b.Devices = append(b.Devices, &board.Device{
		Name:     "J1",
		Position: pt(50, 50),
		Rotation: geometry.Deg90,
		Footprint: board.Footprint{
			Polygons: []board.Polygon{{Layer: board.LayerBoardOutlines, Path: rect(0, 0, 10, 20)}},
		},
	})
	gen := NewPathGenerator(b, tol)
	if err := gen.AddBoardOutline(); err != nil {
		t.Fatalf("AddBoardOutline: %v", err)
	}
	paths, err := gen.Paths()
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if a := totalArea(paths); math.Abs(a-2e14) > 1 {
		t.Errorf("area = %g, want 2e14", a)
	}
	// rotated by 90 degrees around the device origin
	got := clip.ToPaths(paths)
	if !insideAny(pt(40, 55), got) {
		t.Error("rotated outline does not cover (40, 55)")
	}
	if insideAny(pt(55, 60), got) {
		t.Error("unrotated outline position covered")
	}
}

func TestAddHoles(t *testing.T) {
	b := board.New("test")
	b.Holes = append(b.Holes, &board.Hole{Position: pt(10, 10), Diameter: mm})
	b.Devices = append(b.Devices, &board.Device{
		Name:      "H1",
		Position:  pt(30, 10),
		Footprint: board.Footprint{Holes: []board.Hole{{Position: pt(1, 0), Diameter: mm}}},
	})
	tests := []struct {
		name   string
		offset geometry.Length
		paths  int
		radius float64 // nm
	}{
		{"exact", 0, 2, 0.5e6},
		{"grown", 500 * um, 2, 1e6},
		{"vanished", -mm, 0, 0},
		{"zero diameter", -500 * um, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewPathGenerator(b, tol)
			if err := gen.AddHoles(tt.offset); err != nil {
				t.Fatalf("AddHoles: %v", err)
			}
			paths, err := gen.Paths()
			if err != nil {
				t.Fatalf("Paths: %v", err)
			}
			if len(paths) != tt.paths {
				t.Fatalf("got %d paths, want %d", len(paths), tt.paths)
			}
			if tt.radius == 0 {
				return
			}
			// Flattened circles lose at most 2*tol/r of their area.
			want := 2 * math.Pi * tt.radius * tt.radius
			if a := totalArea(paths); math.Abs(want-a)/want > 2*float64(tol)/tt.radius {
				t.Errorf("area = %g, want about %g", a, want)
			}
		})
	}
	gen := NewPathGenerator(b, tol)
	if err := gen.AddHoles(0); err != nil {
		t.Fatal(err)
	}
	paths, _ := gen.Paths()
	if !insideAny(pt(31, 10), clip.ToPaths(paths)) {
		t.Error("footprint hole not placed at device position")
	}
}

func TestAddCopper(t *testing.T) {
	b := newTestBoard()
	addTrace(b, "A", 10, 10, 20, 10, mm)
	addVia(b, "A", 20, 10, mm, 500*um)
	addTrace(b, "B", 10, 30, 20, 30, mm)
	b.Devices = append(b.Devices, &board.Device{
		Name:     "U1",
		Position: pt(50, 50),
		Mirrored: true,
		Footprint: board.Footprint{
			Polygons: []board.Polygon{{Layer: board.LayerTopCopper, Path: rect(0, 0, 2, 2), Filled: true}},
			Pads: []*board.FootprintPad{{
				Name: "1", Position: pt(5, 0), Shape: board.PadShapeRect,
				Width: mm, Height: mm, Side: board.SideTop, Net: b.Net("A"),
			}},
		},
	})

	tests := []struct {
		name    string
		layer   string
		net     string
		inside  []geometry.Point
		outside []geometry.Point
	}{
		{
			name:    "net A top",
			layer:   board.LayerTopCopper,
			net:     "A",
			inside:  []geometry.Point{pt(15, 10), pt(20, 10)},
			outside: []geometry.Point{pt(15, 30), pt(45, 50)},
		},
		{
			name:    "net A bottom",
			layer:   board.LayerBotCopper,
			net:     "A",
			inside:  []geometry.Point{pt(20, 10), pt(45, 50)},
			outside: []geometry.Point{pt(15, 10)},
		},
		{
			name:    "no net bottom",
			layer:   board.LayerBotCopper,
			inside:  []geometry.Point{pt(49, 51)},
			outside: []geometry.Point{pt(51, 51), pt(15, 10)},
		},
		{
			name:    "no net top",
			layer:   board.LayerTopCopper,
			outside: []geometry.Point{pt(49, 51), pt(15, 30)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var net *board.NetSignal
			if tt.net != "" {
				net = b.Net(tt.net)
			}
			gen := NewPathGenerator(b, tol)
			if err := gen.AddCopper(tt.layer, net); err != nil {
				t.Fatalf("AddCopper: %v", err)
			}
			paths, err := gen.Paths()
			if err != nil {
				t.Fatalf("Paths: %v", err)
			}
			got := clip.ToPaths(paths)
			for _, p := range tt.inside {
				if !insideAny(p, got) {
					t.Errorf("%v not covered", p)
				}
			}
			for _, p := range tt.outside {
				if insideAny(p, got) {
					t.Errorf("%v unexpectedly covered", p)
				}
			}
		})
	}
}

func TestAddCopperUnknownViaShape(t *testing.T) {
	b := newTestBoard()
	v := addVia(b, "A", 10, 10, mm, 500*um)
	v.Shape = board.ViaShape(42)
	gen := NewPathGenerator(b, tol)
	if err := gen.AddCopper(board.LayerTopCopper, b.Net("A")); err == nil {
		t.Fatal("expected error for unknown via shape")
	}
}

func TestPathGeneratorAccumulates(t *testing.T) {
	b := newTestBoard()
	addTrace(b, "A", 10, 10, 20, 10, mm)
	gen := NewPathGenerator(b, tol)
	if err := gen.AddCopper(board.LayerTopCopper, b.Net("A")); err != nil {
		t.Fatal(err)
	}
	first, _ := gen.Paths()
	if err := gen.AddBoardOutline(); err != nil {
		t.Fatal(err)
	}
	second, _ := gen.Paths()
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("got %d and %d paths, want 1 and 1", len(first), len(second))
	}
	if a := totalArea(second); math.Abs(a-8e15) > 1 {
		t.Errorf("union area = %g, want 8e15", a)
	}
}
