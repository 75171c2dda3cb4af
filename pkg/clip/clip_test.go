package clip

import (
	"math"
	"testing"

	clipper "github.com/ctessum/go.clipper"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

const mm = geometry.Millimetre

func square(x, y, size geometry.Length) geometry.Path {
	return geometry.Rect(geometry.Pt(x, y), geometry.Pt(x+size, y+size))
}

func totalArea(ps Paths) float64 {
	var a float64
	for _, p := range ps {
		a += clipper.Area(p)
	}
	return a
}

func TestConvertOrientation(t *testing.T) {
	ccw := square(0, 0, mm)
	cw := geometry.NewPath(geometry.Pt(0, 0), geometry.Pt(0, mm), geometry.Pt(mm, mm), geometry.Pt(mm, 0), geometry.Pt(0, 0))
	for name, p := range map[string]geometry.Path{"ccw": ccw, "cw": cw} {
		t.Run(name, func(t *testing.T) {
			c := Convert(p, geometry.Micrometre)
			if len(c) != 4 {
				t.Errorf("got %d points, want 4 (closing point dropped)", len(c))
			}
			if !clipper.Orientation(c) {
				t.Error("converted path is not positively oriented")
			}
		})
	}
}

func TestBooleanOperations(t *testing.T) {
	a := Paths{Convert(square(0, 0, 2*mm), geometry.Micrometre)}
	b := Paths{Convert(square(mm, mm, 2*mm), geometry.Micrometre)}
	tests := []struct {
		name string
		op   func() (Paths, error)
		area float64
	}{
		{"unite", func() (Paths, error) { return Unite(a, b, EvenOdd, EvenOdd) }, 7e12},
		{"intersect", func() (Paths, error) { return Intersect(a, b, EvenOdd, EvenOdd) }, 1e12},
		{"subtract", func() (Paths, error) { return Subtract(a, b, EvenOdd, NonZero) }, 3e12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a := totalArea(got); math.Abs(a-tt.area) > 1 {
				t.Errorf("area = %g, want %g", a, tt.area)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	sq := Paths{Convert(square(0, 0, 2*mm), geometry.Micrometre)}
	grown, err := Offset(sq, mm, geometry.Micrometre)
	if err != nil {
		t.Fatalf("Offset: %v", err)
	}
	// 2x2 square grown by 1 with round corners: 4 + 8 + pi
	want := (4 + 8 + math.Pi) * 1e12
	if a := totalArea(grown); math.Abs(a-want)/want > 0.001 {
		t.Errorf("grown area = %g, want about %g", a, want)
	}

	shrunk, err := Offset(sq, -2*mm, geometry.Micrometre)
	if err != nil {
		t.Fatalf("Offset: %v", err)
	}
	if len(shrunk) != 0 {
		t.Errorf("over-shrunk square left %d paths", len(shrunk))
	}

	empty, err := Offset(nil, mm, geometry.Micrometre)
	if err != nil || len(empty) != 0 {
		t.Errorf("Offset(nil) = %v, %v", empty, err)
	}
}

func TestFlattenTree(t *testing.T) {
	tests := []struct {
		name  string
		input []geometry.Path
		paths int
		area  float64
	}{
		{
			name:  "plain",
			input: []geometry.Path{square(0, 0, 10*mm)},
			paths: 1,
			area:  100e12,
		},
		{
			name:  "hole",
			input: []geometry.Path{square(0, 0, 10*mm), square(3*mm, 3*mm, 4*mm)},
			paths: 1,
			area:  84e12,
		},
		{
			name:  "two holes",
			input: []geometry.Path{square(0, 0, 10*mm), square(mm, mm, 2*mm), square(6*mm, 5*mm, 2*mm)},
			paths: 1,
			area:  92e12,
		},
		{
			name:  "island in hole",
			input: []geometry.Path{square(0, 0, 10*mm), square(2*mm, 2*mm, 6*mm), square(4*mm, 4*mm, 2*mm)},
			paths: 2,
			area:  68e12,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := UniteToTree(ConvertAll(tt.input, geometry.Micrometre), EvenOdd)
			if err != nil {
				t.Fatalf("UniteToTree: %v", err)
			}
			flat, err := FlattenTree(tree)
			if err != nil {
				t.Fatalf("FlattenTree: %v", err)
			}
			if len(flat) != tt.paths {
				t.Fatalf("got %d paths, want %d", len(flat), tt.paths)
			}
			if a := totalArea(flat); math.Abs(a-tt.area) > 1 {
				t.Errorf("area = %g, want %g", a, tt.area)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	p1 := Convert(square(5*mm, 0, mm), geometry.Micrometre)
	p2 := Convert(square(0, 0, mm), geometry.Micrometre)
	rotated := append(Path{}, p2[2:]...)
	rotated = append(rotated, p2[:2]...)

	got := Canonical(Paths{p1, rotated})
	if len(got) != 2 {
		t.Fatalf("got %d paths", len(got))
	}
	if got[0][0].X != 0 || got[0][0].Y != 0 {
		t.Errorf("first path starts at (%d, %d), want origin", got[0][0].X, got[0][0].Y)
	}
	if got[1][0].X != clipper.CInt(5*mm) || got[1][0].Y != 0 {
		t.Errorf("second path starts at (%d, %d), want (5mm, 0)", got[1][0].X, got[1][0].Y)
	}
	again := Canonical(got)
	for i := range got {
		if len(again[i]) != len(got[i]) {
			t.Fatalf("Canonical is not idempotent")
		}
		for j := range got[i] {
			if *again[i][j] != *got[i][j] {
				t.Fatalf("Canonical is not idempotent at %d/%d", i, j)
			}
		}
	}
}

func TestTouches(t *testing.T) {
	p := Convert(square(0, 0, 2*mm), geometry.Micrometre)
	tests := []struct {
		name string
		area Paths
		want bool
	}{
		{"overlap", Paths{Convert(square(mm, mm, 2*mm), geometry.Micrometre)}, true},
		{"apart", Paths{Convert(square(5*mm, 5*mm, mm), geometry.Micrometre)}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Touches(p, tt.area)
			if err != nil {
				t.Fatalf("Touches: %v", err)
			}
			if got != tt.want {
				t.Errorf("Touches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointInside(t *testing.T) {
	p := Convert(square(0, 0, 2*mm), geometry.Micrometre)
	if !PointInside(geometry.Pt(mm, mm), p) {
		t.Error("centre reported outside")
	}
	if PointInside(geometry.Pt(3*mm, mm), p) {
		t.Error("outside point reported inside")
	}
}

func TestToPathClosed(t *testing.T) {
	p := ToPath(Convert(square(0, 0, mm), geometry.Micrometre))
	if !p.IsClosed() || len(p) != 5 {
		t.Errorf("ToPath = %v, want closed path with 5 vertices", p)
	}
}

func TestEmptyInput(t *testing.T) {
	if got, err := UniteSelf(nil, NonZero); err != nil || len(got) != 0 {
		t.Errorf("UniteSelf(nil) = %v, %v", got, err)
	}
	if got, err := Intersect(Paths{}, Paths{}, NonZero, NonZero); err != nil || len(got) != 0 {
		t.Errorf("Intersect(empty) = %v, %v", got, err)
	}
	tree, err := UniteToTree(nil, EvenOdd)
	if err != nil {
		t.Fatalf("UniteToTree(nil): %v", err)
	}
	flat, err := FlattenTree(tree)
	if err != nil || len(flat) != 0 {
		t.Errorf("FlattenTree(empty) = %v, %v", flat, err)
	}
	sq := Paths{Convert(square(0, 0, mm), geometry.Micrometre)}
	if got, err := Subtract(Paths{}, sq, NonZero, NonZero); err != nil || len(got) != 0 {
		t.Errorf("Subtract(empty, square) = %v, %v", got, err)
	}
}
