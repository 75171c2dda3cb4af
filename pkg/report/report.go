// Package report writes the result of a design rule check: plain text,
// JSON, spreadsheets and violation maps (PNG and PDF).
package report

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/drc"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

// Report is the outcome of one check run. Messages are the open
// violations; Approved counts the ones waived in the approval store.
type Report struct {
	Board    string
	Messages []drc.Message
	Approved int
}

func mm(l geometry.Length) float64 {
	return l.MM()
}

// location formats the centre of m in millimetres, or "" if m has none.
func location(m drc.Message) string {
	if _, _, ok := m.Bounds(); !ok {
		return ""
	}
	c := m.Center()
	return fmt.Sprintf("(%.3f, %.3f)", mm(c.X), mm(c.Y))
}

// Text writes a human readable summary with one numbered line per message.
func Text(w io.Writer, r Report) error {
	if _, err := fmt.Fprintf(w, "Design rule check of %q: %d message(s)", r.Board, len(r.Messages)); err != nil {
		return err
	}
	if r.Approved > 0 {
		if _, err := fmt.Fprintf(w, ", %d approved", r.Approved); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for i, m := range r.Messages {
		line := fmt.Sprintf("%4d. %s", i+1, m.Text)
		if loc := location(m); loc != "" {
			line += " at " + loc
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
