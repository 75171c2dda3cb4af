package ratsnest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

const mm = geometry.Millimetre

func pt(x, y float64) geometry.Point {
	return geometry.Pt(geometry.FromMM(x), geometry.FromMM(y))
}

func pad(name string, x, y float64, side board.BoardSide, net *board.NetSignal) *board.FootprintPad {
	p := &board.FootprintPad{
		Name: name, Position: pt(x, y), Shape: board.PadShapeRect,
		Width: mm, Height: mm, Side: side, Net: net,
	}
	if side == board.SideTHT {
		p.Drill = mm / 2
	}
	return p
}

func device(pads ...*board.FootprintPad) *board.Device {
	return &board.Device{Name: "U1", Footprint: board.Footprint{Pads: pads}}
}

func trace(b *board.Board, net *board.NetSignal, layer string, x1, y1, x2, y2 float64) {
	seg := b.Segment(net)
	seg.NetLines = append(seg.NetLines, &board.NetLine{Start: pt(x1, y1), End: pt(x2, y2), Width: mm / 4, Layer: layer})
}

func wires(t *testing.T, b *board.Board) []board.AirWire {
	t.Helper()
	r := New(b, geometry.Micrometre)
	if err := r.ForceAirWiresRebuild(); err != nil {
		t.Fatalf("ForceAirWiresRebuild: %v", err)
	}
	return r.AirWires()
}

func TestAirWires(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *board.Board, net *board.NetSignal)
		want  [][2]geometry.Point
	}{
		{
			name: "two unconnected pads",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(pad("1", 10, 10, board.SideTop, net), pad("2", 20, 10, board.SideTop, net)))
			},
			want: [][2]geometry.Point{{pt(10, 10), pt(20, 10)}},
		},
		{
			name: "routed",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(pad("1", 10, 10, board.SideTop, net), pad("2", 20, 10, board.SideTop, net)))
				trace(b, net, board.LayerTopCopper, 10.2, 10, 19.8, 10)
			},
		},
		{
			name: "routed on wrong layer",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(pad("1", 10, 10, board.SideTop, net), pad("2", 20, 10, board.SideTop, net)))
				trace(b, net, board.LayerBotCopper, 10, 10, 20, 10)
			},
			want: [][2]geometry.Point{{pt(10, 10), pt(10, 10)}, {pt(20, 10), pt(20, 10)}},
		},
		{
			name: "through via",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(pad("1", 10, 10, board.SideTop, net), pad("2", 20, 10, board.SideBottom, net)))
				trace(b, net, board.LayerTopCopper, 10, 10, 15, 10)
				seg := b.Segment(net)
				seg.Vias = append(seg.Vias, &board.Via{Position: pt(15, 10), Size: mm, Drill: mm / 2})
				trace(b, net, board.LayerBotCopper, 15, 10, 20, 10)
			},
		},
		{
			name: "chained traces",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(pad("1", 10, 10, board.SideTHT, net), pad("2", 20, 20, board.SideTHT, net)))
				trace(b, net, board.LayerTopCopper, 10, 10, 20, 10)
				trace(b, net, board.LayerTopCopper, 20, 10, 20, 20)
			},
		},
		{
			name: "T-junction",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(
					pad("1", 0, 0, board.SideTop, net),
					pad("2", 20, 0, board.SideTop, net),
					pad("3", 10, 10, board.SideTop, net),
				))
				trace(b, net, board.LayerTopCopper, 0, 0, 20, 0)
				trace(b, net, board.LayerTopCopper, 10, 0, 10, 10)
			},
		},
		{
			name: "T-junction on other layer",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(
					pad("1", 0, 0, board.SideTHT, net),
					pad("2", 20, 0, board.SideTHT, net),
					pad("3", 10, 10, board.SideTHT, net),
				))
				trace(b, net, board.LayerTopCopper, 0, 0, 20, 0)
				trace(b, net, board.LayerBotCopper, 10, 0, 10, 10)
			},
			want: [][2]geometry.Point{{pt(0, 0), pt(10, 0)}},
		},
		{
			name: "overlapping pads",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(pad("1", 0, 0, board.SideTop, net), pad("2", 0.5, 0, board.SideTop, net)))
			},
		},
		{
			name: "overlapping pad and via",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(pad("1", 0, 0, board.SideBottom, net)))
				seg := b.Segment(net)
				seg.Vias = append(seg.Vias, &board.Via{Position: pt(0.6, 0), Size: mm, Drill: mm / 2})
			},
		},
		{
			name: "pads apart",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(pad("1", 0, 0, board.SideTop, net), pad("2", 1.5, 0, board.SideTop, net)))
			},
			want: [][2]geometry.Point{{pt(0, 0), pt(1.5, 0)}},
		},
		{
			name: "overlapping pads on opposite sides",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(pad("1", 0, 0, board.SideTop, net), pad("2", 0.5, 0, board.SideBottom, net)))
			},
			want: [][2]geometry.Point{{pt(0, 0), pt(0.5, 0)}},
		},
		{
			name: "spanning tree",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(
					pad("1", 0, 0, board.SideTop, net),
					pad("2", 30, 0, board.SideTop, net),
					pad("3", 10, 0, board.SideTop, net),
				))
			},
			want: [][2]geometry.Point{{pt(0, 0), pt(10, 0)}, {pt(10, 0), pt(30, 0)}},
		},
		{
			name: "plane fragment",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(pad("1", 10, 10, board.SideTop, net), pad("2", 20, 10, board.SideTop, net)))
				pl := &board.Plane{ID: "p", Layer: board.LayerTopCopper, Net: net}
				pl.SetFragments([]geometry.Path{geometry.Rect(pt(5, 5), pt(25, 15))})
				b.Planes = append(b.Planes, pl)
			},
		},
		{
			name: "plane on other layer",
			setup: func(b *board.Board, net *board.NetSignal) {
				b.Devices = append(b.Devices, device(pad("1", 10, 10, board.SideTop, net), pad("2", 20, 10, board.SideTop, net)))
				pl := &board.Plane{ID: "p", Layer: board.LayerBotCopper, Net: net}
				pl.SetFragments([]geometry.Path{geometry.Rect(pt(5, 5), pt(25, 15))})
				b.Planes = append(b.Planes, pl)
			},
			want: [][2]geometry.Point{{pt(10, 10), pt(20, 10)}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.New("test")
			net := b.Net("GND")
			tt.setup(b, net)
			var got [][2]geometry.Point
			for _, w := range wires(t, b) {
				if w.Net != net {
					t.Errorf("air wire on net %q", board.NetName(w.Net))
				}
				got = append(got, [2]geometry.Point{w.P1, w.P2})
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("air wires mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAirWiresIgnoreOtherNets(t *testing.T) {
	b := board.New("test")
	gnd, vcc := b.Net("GND"), b.Net("VCC")
	b.Devices = append(b.Devices, device(pad("1", 10, 10, board.SideTop, gnd), pad("2", 20, 10, board.SideTop, vcc), pad("3", 30, 10, board.SideTop, nil)))
	trace(b, vcc, board.LayerTopCopper, 10, 10, 20, 10)
	if got := wires(t, b); len(got) != 0 {
		t.Errorf("got %d air wires, want none", len(got))
	}
}

func TestAirWiresContractViolation(t *testing.T) {
	b := board.New("test")
	net := b.Net("GND")
	seg := b.Segment(net)
	seg.Vias = append(seg.Vias, &board.Via{Position: pt(1, 1), Size: mm, Drill: mm / 2, Shape: board.ViaShape(5)})
	err := New(b, geometry.Micrometre).ForceAirWiresRebuild()
	if !errors.Is(err, board.ErrUnknownViaShape) {
		t.Errorf("err = %v, want ErrUnknownViaShape", err)
	}
}

func TestClusters(t *testing.T) {
	c := newClusters(6)
	c.connect(0, 3)
	c.connect(4, 3)
	c.connect(1, 5)
	want := [][]int{{0, 3, 4}, {1, 5}, {2}}
	if diff := cmp.Diff(want, c.groups()); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if c.find(4) != c.find(0) {
		t.Error("4 and 0 not connected")
	}
}
