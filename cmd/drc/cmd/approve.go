package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/approval"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/drc"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/report"
)

var (
	// Flags for approve command
	approveDB     string
	approveRevoke bool
	approveList   bool
)

var approveCmd = &cobra.Command{
	Use:   "approve <board.kicad_pcb> [index...]",
	Short: "Waive design rule violations",
	Long: `Record violations as approved so later checks no longer list them.

The board is checked again and the indices refer to the numbered list that
"drc check --approvals <db>" prints for the same database. With --revoke
the indices refer to the list printed by --list instead, and the selected
approvals are removed.

Examples:
  drc approve board.kicad_pcb 2 5 --approvals board.approvals
  drc approve board.kicad_pcb --list --approvals board.approvals
  drc approve board.kicad_pcb 1 --revoke --approvals board.approvals`,
	Args: cobra.MinimumNArgs(1),
	RunE: runApprove,
}

func init() {
	rootCmd.AddCommand(approveCmd)

	approveCmd.Flags().StringVarP(&approveDB, "approvals", "a", "",
		"approval database (created if missing)")
	approveCmd.Flags().BoolVar(&approveRevoke, "revoke", false,
		"remove approvals instead of adding them")
	approveCmd.Flags().BoolVar(&approveList, "list", false,
		"list approved violations that are still present")

	approveCmd.MarkFlagRequired("approvals")
}

func runApprove(cmd *cobra.Command, args []string) error {
	indices, err := parseIndices(args[1:])
	if err != nil {
		return err
	}
	if len(indices) == 0 && !approveList {
		return fmt.Errorf("no violation selected")
	}

	b, msgs, err := checkBoard(cmd.Context(), args[0], nil)
	if err != nil {
		return err
	}

	store, err := approval.Open(approveDB)
	if err != nil {
		return err
	}
	defer store.Close()

	open, approved, err := store.Filter(msgs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if approveList {
		return report.Text(out, report.Report{Board: b.Name, Messages: approved})
	}

	list, apply, verb := open, store.Approve, "Approved"
	if approveRevoke {
		list, apply, verb = approved, store.Revoke, "Revoked"
	}
	selected, err := selectMessages(list, indices)
	if err != nil {
		return err
	}
	for i, m := range selected {
		if err := apply(m); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %d: %s\n", verb, indices[i], m.Text)
	}
	return nil
}

// parseIndices converts 1-based message numbers.
func parseIndices(args []string) ([]int, error) {
	indices := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid violation index %q", a)
		}
		indices = append(indices, n)
	}
	return indices, nil
}

func selectMessages(msgs []drc.Message, indices []int) ([]drc.Message, error) {
	selected := make([]drc.Message, 0, len(indices))
	for _, n := range indices {
		if n > len(msgs) {
			return nil, fmt.Errorf("violation index %d out of range (1-%d)", n, len(msgs))
		}
		selected = append(selected, msgs[n-1])
	}
	return selected, nil
}
