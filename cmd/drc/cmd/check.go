package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/approval"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/drc"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/ratsnest"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/report"
)

var (
	// Flags for check command
	checkJSON       bool
	checkXLSX       string
	checkPNG        string
	checkPDF        string
	checkApprovals  string
	checkFail       bool
	checkNoProgress bool
	checkTimeout    int // timeout in seconds
)

var checkCmd = &cobra.Command{
	Use:   "check <board.kicad_pcb>",
	Short: "Run the design rule check on a board",
	Long: `Run every enabled design rule check on a KiCad board and report violations.

Planes are filled first, then the board is checked for:
  1. Copper too close to the board outline or to non-plated holes
  2. Copper of different nets too close to each other
  3. Copper narrower than the minimum width
  4. Plated holes with an annular ring below the minimum
  5. Plated and non-plated drills below the minimum diameter
  6. Overlapping device courtyards
  7. Unrouted connections

Violations recorded in an approval database (--approvals) are counted but
not listed.

Examples:
  drc check board.kicad_pcb
  drc check board.kicad_pcb --options rules.toml --json > report.json
  drc check board.kicad_pcb --xlsx report.xlsx --png map.png --pdf map.pdf
  drc check board.kicad_pcb --approvals board.approvals --fail-on-violations`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSON, "json", false,
		"print the report as JSON instead of text")
	checkCmd.Flags().StringVar(&checkXLSX, "xlsx", "",
		"write the report to a spreadsheet (e.g., report.xlsx)")
	checkCmd.Flags().StringVar(&checkPNG, "png", "",
		"draw a violation map as PNG (e.g., map.png)")
	checkCmd.Flags().StringVar(&checkPDF, "pdf", "",
		"draw a violation map as PDF (e.g., map.pdf)")
	checkCmd.Flags().StringVarP(&checkApprovals, "approvals", "a", "",
		"approval database; approved violations are not listed")
	checkCmd.Flags().BoolVar(&checkFail, "fail-on-violations", false,
		"exit with an error if any violation is left open")
	checkCmd.Flags().BoolVar(&checkNoProgress, "no-progress", false,
		"do not show the progress bar")
	checkCmd.Flags().IntVar(&checkTimeout, "timeout", 0,
		"timeout in seconds (0 = no timeout)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	if checkTimeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, time.Duration(checkTimeout)*time.Second)
		defer cancelTimeout()
	}

	var progressOut io.Writer
	if !checkNoProgress {
		progressOut = cmd.ErrOrStderr()
	}
	b, msgs, err := checkBoard(ctx, args[0], progressOut)
	if err != nil {
		return err
	}

	r := report.Report{Board: b.Name, Messages: msgs}
	if checkApprovals != "" {
		open, approved, err := filterApproved(checkApprovals, msgs)
		if err != nil {
			return err
		}
		r.Messages, r.Approved = open, len(approved)
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		err = report.JSON(out, r)
	} else {
		err = report.Text(out, r)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := writeOutputs(b, r); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Check completed in %s\n", time.Since(startTime).Round(time.Millisecond))
	}

	if checkFail && len(r.Messages) > 0 {
		return fmt.Errorf("%d design rule violation(s)", len(r.Messages))
	}
	return nil
}

// checkBoard reads the board at path and runs the check on it. Progress is
// drawn to progressOut unless it is nil.
func checkBoard(ctx context.Context, path string, progressOut io.Writer) (*board.Board, []drc.Message, error) {
	opts, err := loadOptions()
	if err != nil {
		return nil, nil, err
	}

	b, err := pcb.ParseFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read board: %w", err)
	}

	check := drc.New(b, opts)
	check.SetAirWireProvider(ratsnest.New(b, opts.MaxArcTolerance))

	var done chan struct{}
	var events chan drc.Event
	if progressOut != nil {
		events = make(chan drc.Event)
		done = make(chan struct{})
		check.SetObserver(drc.ChannelObserver{C: events})
		go func() {
			displayProgress(progressOut, events)
			close(done)
		}()
	}

	msgs, err := check.Execute(ctx)
	if events != nil {
		close(events)
		<-done
	}
	if err != nil {
		return nil, nil, fmt.Errorf("design rule check failed: %w", err)
	}
	return b, msgs, nil
}

// filterApproved splits msgs by the approval database at path.
func filterApproved(path string, msgs []drc.Message) (open, approved []drc.Message, err error) {
	store, err := approval.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	return store.Filter(msgs)
}

// writeOutputs writes the optional spreadsheet and violation maps.
func writeOutputs(b *board.Board, r report.Report) error {
	if checkXLSX != "" {
		if err := report.SaveXLSX(checkXLSX, r); err != nil {
			return fmt.Errorf("failed to write spreadsheet: %w", err)
		}
	}
	if checkPNG != "" {
		f, err := os.Create(checkPNG)
		if err != nil {
			return fmt.Errorf("failed to create PNG: %w", err)
		}
		if err := report.PNG(f, b, r.Messages, report.MapOptions{}); err != nil {
			f.Close()
			return fmt.Errorf("failed to draw PNG: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write PNG: %w", err)
		}
	}
	if checkPDF != "" {
		if err := report.SavePDF(checkPDF, b, r.Messages); err != nil {
			return fmt.Errorf("failed to draw PDF: %w", err)
		}
	}
	return nil
}

// displayProgress draws a progress bar from observer events until the
// channel is closed.
func displayProgress(w io.Writer, events <-chan drc.Event) {
	lastPercent := -1
	status := ""
	found := 0

	for e := range events {
		switch {
		case e.Finished:
			lastPercent = 100
		case e.Message != nil:
			found++
			continue
		case e.Percent < 0:
			status = e.Status
		default:
			if e.Percent == lastPercent {
				continue
			}
			lastPercent = e.Percent
		}

		barWidth := 40
		filled := (max(lastPercent, 0) * barWidth) / 100
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

		fmt.Fprintf(w, "\r%-100s\r[%s] %3d%% | Violations: %d | %s",
			"", bar, max(lastPercent, 0), found, status)
	}

	fmt.Fprintln(w) // New line after progress
}
