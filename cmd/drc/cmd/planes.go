package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/drc"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/kicad/pcb"
)

var planesCmd = &cobra.Command{
	Use:   "planes <board.kicad_pcb>",
	Short: "Fill the planes of a board and summarize the result",
	Long: `Compute the copper fill of every plane (KiCad zone) in priority order and
print the number of fragments per plane. A plane without fragments is
listed as empty; that usually means its clearance or minimum width is
too large for the available space.

Example:
  drc planes board.kicad_pcb --options rules.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlanes,
}

func init() {
	rootCmd.AddCommand(planesCmd)
}

func runPlanes(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	b, err := pcb.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read board: %w", err)
	}

	drc.NewPlaneFragmentsBuilder(b, opts.MaxArcTolerance).RebuildAll()

	planes := slices.Clone(b.Planes)
	slices.SortStableFunc(planes, func(x, y *board.Plane) int {
		switch {
		case board.PlaneHigher(x, y):
			return -1
		case board.PlaneHigher(y, x):
			return 1
		}
		return 0
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Planes of %q: %d\n\n", b.Name, len(planes))
	if len(planes) == 0 {
		return nil
	}
	fmt.Fprintf(out, "%-24s %-10s %-20s %8s %9s\n", "Plane", "Layer", "Net", "Priority", "Fragments")
	for _, pl := range planes {
		frags := "empty"
		if n := len(pl.Fragments()); n > 0 {
			frags = fmt.Sprint(n)
		}
		fmt.Fprintf(out, "%-24s %-10s %-20s %8d %9s\n",
			pl.ID, pl.Layer, board.NetName(pl.Net), pl.Priority, frags)
	}
	return nil
}
