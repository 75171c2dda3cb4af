package sexp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, input string) *Document {
	t.Helper()
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	doc, err := parser.ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	return doc
}

func TestParseNested(t *testing.T) {
	doc := mustParse(t, `(kicad_pcb (version 20221018) (generator "pcbnew")
  (net 1 "GND")
  (net 2 "/a b")
)`)
	root := doc.Root()
	if root.Name() != "kicad_pcb" {
		t.Fatalf("root name = %q", root.Name())
	}
	if got := root.ChildValue("generator"); got != "pcbnew" {
		t.Errorf("generator = %q, want pcbnew", got)
	}
	v, err := root.Child("version").Int(0)
	if err != nil || v != 20221018 {
		t.Errorf("version = %d, %v", v, err)
	}
	var names []string
	for _, n := range root.Children("net") {
		names = append(names, n.Arg(1))
	}
	if diff := cmp.Diff([]string{"GND", "/a b"}, names); diff != "" {
		t.Errorf("net names mismatch (-want +got):\n%s", diff)
	}
}

func TestStringEscapes(t *testing.T) {
	doc := mustParse(t, `(gr_text "say \"hi\"" (at 0 0))`)
	if got := doc.Root().Arg(0); got != `say "hi"` {
		t.Errorf("text = %q", got)
	}
}

func TestNodeHelpers(t *testing.T) {
	doc := mustParse(t, `(pad "1" thru_hole circle locked (at 1.5 -2 90) (size 1.7 1.7) (drill 1) (layers "*.Cu" "*.Mask"))`)
	pad := doc.Root()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"name", pad.Name(), "pad"},
		{"number", pad.Arg(0), "1"},
		{"type", pad.Arg(1), "thru_hole"},
		{"locked", pad.Has("locked"), true},
		{"not smd", pad.Has("smd"), false},
		{"list arg", pad.Arg(4), ""},
		{"out of range", pad.Arg(42), ""},
		{"x", pad.Child("at").FloatOr(0, 0), 1.5},
		{"y", pad.Child("at").FloatOr(1, 0), -2.0},
		{"angle", pad.Child("at").FloatOr(2, 0), 90.0},
		{"missing angle", pad.Child("size").FloatOr(2, 7), 7.0},
		{"drill", pad.ChildFloat("drill", 0), 1.0},
		{"absent child", pad.ChildFloat("roundrect_rratio", 0.25), 0.25},
		{"layers", len(pad.Child("layers").Args()), 2},
		{"missing child value", pad.ChildValue("net"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFloatErrors(t *testing.T) {
	doc := mustParse(t, `(at x)`)
	at := doc.Root()
	if _, err := at.Float(0); err == nil {
		t.Error("expected error for non-numeric argument")
	}
	if _, err := at.Float(3); err == nil {
		t.Error("expected error for missing argument")
	}
	if _, err := at.Int(0); err == nil {
		t.Error("expected error for non-integer argument")
	}
}

func TestNilNodeIsSafe(t *testing.T) {
	var n *Node
	if n.IsList() || n.Name() != "" || n.Value() != "" || n.Child("x") != nil || n.Arg(0) != "" {
		t.Error("nil node should behave as an empty leaf")
	}
}

func TestEmptyDocument(t *testing.T) {
	doc := mustParse(t, "  \n")
	if doc.Root() != nil {
		t.Error("empty document has a root")
	}
}

func TestParseErrors(t *testing.T) {
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	for _, input := range []string{`(a (b)`, `(a "unterminated)`, `)`} {
		if _, err := parser.ParseString(input); err == nil {
			t.Errorf("ParseString(%q) succeeded, want error", input)
		}
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.kicad_pcb")
	if err := os.WriteFile(path, []byte("(kicad_pcb (version 20221018))\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	parser, err := NewParser()
	if err != nil {
		t.Fatal(err)
	}
	doc, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if doc.Root().Name() != "kicad_pcb" {
		t.Errorf("root = %q", doc.Root().Name())
	}
	if _, err := parser.ParseFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
