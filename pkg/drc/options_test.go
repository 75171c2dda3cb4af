package drc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
		ok     bool
	}{
		{"defaults", func(o *Options) {}, true},
		{"zero clearance", func(o *Options) { o.MinCopperCopperClearance = 0 }, true},
		{"zero tolerance", func(o *Options) { o.MaxArcTolerance = 0 }, false},
		{"negative width", func(o *Options) { o.MinCopperWidth = -1 }, false},
		{"negative courtyard", func(o *Options) { o.CourtyardOffset = -geometry.Micrometre }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.modify(&o)
			err := o.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("err = %v, want ErrInvalidOptions", err)
			}
		})
	}
}

func TestOptionsSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drc.toml")
	want := DefaultOptions()
	want.MinCopperWidth = 150 * um
	want.CourtyardOffset = 0
	want.CheckMissingConnections = false

	if err := SaveOptions(path, want); err != nil {
		t.Fatalf("SaveOptions: %v", err)
	}
	got, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOptionsPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drc.toml")
	content := "min_copper_width = 0.15\n\n[checks]\ncourtyard_clearance = false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	want := DefaultOptions()
	want.MinCopperWidth = 150 * um
	want.CheckCourtyardClearance = false
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("min_copper_width = \n"), 0644); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "invalid.toml")
	if err := os.WriteFile(invalid, []byte("max_arc_tolerance = 0.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadOptions(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file: expected error")
	}
	if _, err := LoadOptions(bad); err == nil {
		t.Error("malformed file: expected error")
	}
	if _, err := LoadOptions(invalid); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("invalid values: err = %v, want ErrInvalidOptions", err)
	}
}

func TestEncodeOptions(t *testing.T) {
	data, err := EncodeOptions(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"min_copper_board_clearance = 0.3", "[checks]", "rebuild_planes = true"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded options lack %q:\n%s", want, data)
		}
	}
}
