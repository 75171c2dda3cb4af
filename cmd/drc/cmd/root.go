package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/drc"
)

var (
	// Global flags
	verbose     bool
	optionsPath string
)

var rootCmd = &cobra.Command{
	Use:   "drc",
	Short: "OpenTraceDRC - design rule check for printed circuit boards",
	Long: `OpenTraceDRC (drc) checks a KiCad board against manufacturing rules:
  - copper clearances to the board edge, holes and other nets
  - minimum copper width, annular ring and drill diameters
  - courtyard overlaps and unrouted connections

Examples:
  drc check board.kicad_pcb                    # Check and print violations
  drc check board.kicad_pcb --xlsx report.xlsx # Also write a spreadsheet
  drc planes board.kicad_pcb                   # Fill planes and summarize
  drc options --write rules.toml               # Write default rules`,
	Version: "0.3.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			drc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&optionsPath, "options", "o", "",
		"rules file in TOML format (default: built-in rules)")
}

// loadOptions returns the rules selected by --options.
func loadOptions() (drc.Options, error) {
	if optionsPath == "" {
		return drc.DefaultOptions(), nil
	}
	opts, err := drc.LoadOptions(optionsPath)
	if err != nil {
		return drc.Options{}, fmt.Errorf("failed to load options: %w", err)
	}
	return opts, nil
}
