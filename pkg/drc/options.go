package drc

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

// ErrInvalidOptions is returned for option values the check cannot run with.
var ErrInvalidOptions = errors.New("invalid DRC options")

// Options holds the numeric rules and the set of enabled checks.
type Options struct {
	MinCopperBoardClearance  geometry.Length // copper to board outline
	MinCopperCopperClearance geometry.Length // copper of different nets
	MinCopperNpthClearance   geometry.Length // copper to non-plated holes
	MinCopperWidth           geometry.Length
	MinPthRestring           geometry.Length
	MinPthDrillDiameter      geometry.Length
	MinNpthDrillDiameter     geometry.Length
	CourtyardOffset          geometry.Length
	// MaxArcTolerance bounds the error of arc approximation in all
	// polygon operations.
	MaxArcTolerance geometry.Length

	RebuildPlanes              bool
	CheckCopperBoardClearance  bool
	CheckCopperCopperClearance bool
	CheckCopperWidth           bool
	CheckPthRestring           bool
	CheckPthDrillDiameter      bool
	CheckNpthDrillDiameter     bool
	CheckCourtyardClearance    bool
	CheckMissingConnections    bool
}

// DefaultOptions returns the default rules with every check enabled.
func DefaultOptions() Options {
	return Options{
		MinCopperBoardClearance:  300 * geometry.Micrometre,
		MinCopperCopperClearance: 200 * geometry.Micrometre,
		MinCopperNpthClearance:   250 * geometry.Micrometre,
		MinCopperWidth:           200 * geometry.Micrometre,
		MinPthRestring:           200 * geometry.Micrometre,
		MinPthDrillDiameter:      300 * geometry.Micrometre,
		MinNpthDrillDiameter:     300 * geometry.Micrometre,
		CourtyardOffset:          200 * geometry.Micrometre,
		MaxArcTolerance:          5 * geometry.Micrometre,

		RebuildPlanes:              true,
		CheckCopperBoardClearance:  true,
		CheckCopperCopperClearance: true,
		CheckCopperWidth:           true,
		CheckPthRestring:           true,
		CheckPthDrillDiameter:      true,
		CheckNpthDrillDiameter:     true,
		CheckCourtyardClearance:    true,
		CheckMissingConnections:    true,
	}
}

// Validate checks that all lengths are usable.
func (o *Options) Validate() error {
	if o.MaxArcTolerance <= 0 {
		return fmt.Errorf("%w: max arc tolerance must be positive, got %v", ErrInvalidOptions, o.MaxArcTolerance)
	}
	lengths := []struct {
		name string
		v    geometry.Length
	}{
		{"min copper/board clearance", o.MinCopperBoardClearance},
		{"min copper/copper clearance", o.MinCopperCopperClearance},
		{"min copper/npth clearance", o.MinCopperNpthClearance},
		{"min copper width", o.MinCopperWidth},
		{"min pth restring", o.MinPthRestring},
		{"min pth drill diameter", o.MinPthDrillDiameter},
		{"min npth drill diameter", o.MinNpthDrillDiameter},
		{"courtyard offset", o.CourtyardOffset},
	}
	for _, l := range lengths {
		if l.v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidOptions, l.name, l.v)
		}
	}
	return nil
}

// optionsFile is the on-disk form of Options. Lengths are millimetres.
type optionsFile struct {
	MinCopperBoardClearance  float64 `toml:"min_copper_board_clearance"`
	MinCopperCopperClearance float64 `toml:"min_copper_copper_clearance"`
	MinCopperNpthClearance   float64 `toml:"min_copper_npth_clearance"`
	MinCopperWidth           float64 `toml:"min_copper_width"`
	MinPthRestring           float64 `toml:"min_pth_restring"`
	MinPthDrillDiameter      float64 `toml:"min_pth_drill_diameter"`
	MinNpthDrillDiameter     float64 `toml:"min_npth_drill_diameter"`
	CourtyardOffset          float64 `toml:"courtyard_offset"`
	MaxArcTolerance          float64 `toml:"max_arc_tolerance"`

	Checks checksFile `toml:"checks"`
}

type checksFile struct {
	RebuildPlanes         bool `toml:"rebuild_planes"`
	CopperBoardClearance  bool `toml:"copper_board_clearance"`
	CopperCopperClearance bool `toml:"copper_copper_clearance"`
	CopperWidth           bool `toml:"copper_width"`
	PthRestring           bool `toml:"pth_restring"`
	PthDrillDiameter      bool `toml:"pth_drill_diameter"`
	NpthDrillDiameter     bool `toml:"npth_drill_diameter"`
	CourtyardClearance    bool `toml:"courtyard_clearance"`
	MissingConnections    bool `toml:"missing_connections"`
}

func toFile(o Options) optionsFile {
	return optionsFile{
		MinCopperBoardClearance:  o.MinCopperBoardClearance.MM(),
		MinCopperCopperClearance: o.MinCopperCopperClearance.MM(),
		MinCopperNpthClearance:   o.MinCopperNpthClearance.MM(),
		MinCopperWidth:           o.MinCopperWidth.MM(),
		MinPthRestring:           o.MinPthRestring.MM(),
		MinPthDrillDiameter:      o.MinPthDrillDiameter.MM(),
		MinNpthDrillDiameter:     o.MinNpthDrillDiameter.MM(),
		CourtyardOffset:          o.CourtyardOffset.MM(),
		MaxArcTolerance:          o.MaxArcTolerance.MM(),
		Checks: checksFile{
			RebuildPlanes:         o.RebuildPlanes,
			CopperBoardClearance:  o.CheckCopperBoardClearance,
			CopperCopperClearance: o.CheckCopperCopperClearance,
			CopperWidth:           o.CheckCopperWidth,
			PthRestring:           o.CheckPthRestring,
			PthDrillDiameter:      o.CheckPthDrillDiameter,
			NpthDrillDiameter:     o.CheckNpthDrillDiameter,
			CourtyardClearance:    o.CheckCourtyardClearance,
			MissingConnections:    o.CheckMissingConnections,
		},
	}
}

func (f optionsFile) options() Options {
	return Options{
		MinCopperBoardClearance:  geometry.FromMM(f.MinCopperBoardClearance),
		MinCopperCopperClearance: geometry.FromMM(f.MinCopperCopperClearance),
		MinCopperNpthClearance:   geometry.FromMM(f.MinCopperNpthClearance),
		MinCopperWidth:           geometry.FromMM(f.MinCopperWidth),
		MinPthRestring:           geometry.FromMM(f.MinPthRestring),
		MinPthDrillDiameter:      geometry.FromMM(f.MinPthDrillDiameter),
		MinNpthDrillDiameter:     geometry.FromMM(f.MinNpthDrillDiameter),
		CourtyardOffset:          geometry.FromMM(f.CourtyardOffset),
		MaxArcTolerance:          geometry.FromMM(f.MaxArcTolerance),

		RebuildPlanes:              f.Checks.RebuildPlanes,
		CheckCopperBoardClearance:  f.Checks.CopperBoardClearance,
		CheckCopperCopperClearance: f.Checks.CopperCopperClearance,
		CheckCopperWidth:           f.Checks.CopperWidth,
		CheckPthRestring:           f.Checks.PthRestring,
		CheckPthDrillDiameter:      f.Checks.PthDrillDiameter,
		CheckNpthDrillDiameter:     f.Checks.NpthDrillDiameter,
		CheckCourtyardClearance:    f.Checks.CourtyardClearance,
		CheckMissingConnections:    f.Checks.MissingConnections,
	}
}

// LoadOptions reads options from a TOML file. Keys missing from the file
// keep their default values.
func LoadOptions(path string) (Options, error) {
	f := toFile(DefaultOptions())
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return Options{}, fmt.Errorf("read DRC options %s: %w", path, err)
	}
	opts := f.options()
	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("read DRC options %s: %w", path, err)
	}
	return opts, nil
}

// EncodeOptions renders options as TOML.
func EncodeOptions(o Options) ([]byte, error) {
	var buf bytes.Buffer
	f := toFile(o)
	if err := toml.NewEncoder(&buf).Encode(&f); err != nil {
		return nil, fmt.Errorf("encode DRC options: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveOptions writes options to a TOML file.
func SaveOptions(path string, o Options) error {
	data, err := EncodeOptions(o)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write DRC options %s: %w", path, err)
	}
	return nil
}
