package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/drc"
)

var optionsWrite string

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Print or write the design rules",
	Long: `Print the design rules in TOML format. Without --options the built-in
defaults are shown; with --options the file is read, validated and shown
with every missing value filled in. Lengths are in millimetres.

Examples:
  drc options
  drc options --write rules.toml
  drc options --options rules.toml`,
	Args: cobra.NoArgs,
	RunE: runOptions,
}

func init() {
	rootCmd.AddCommand(optionsCmd)

	optionsCmd.Flags().StringVarP(&optionsWrite, "write", "w", "",
		"write the rules to this file instead of printing them")
}

func runOptions(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	if optionsWrite != "" {
		if err := drc.SaveOptions(optionsWrite, opts); err != nil {
			return fmt.Errorf("failed to write options: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rules written to %s\n", optionsWrite)
		return nil
	}

	data, err := drc.EncodeOptions(opts)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
