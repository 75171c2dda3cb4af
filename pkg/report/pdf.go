package report

import (
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/drc"
)

// pointsPerMM converts millimetres to PDF points.
const pointsPerMM = 72 / 25.4

// SavePDF writes a single page vector violation map to path. The page is
// drawn at 1:1 scale.
func SavePDF(path string, b *board.Board, msgs []drc.Message) error {
	s := newScene(b, msgs)
	size := s.size()
	paper := &pdf.Rectangle{
		URx: size.X * pointsPerMM,
		URy: size.Y * pointsPerMM,
	}
	page, err := document.CreateSinglePage(path, paper, pdf.V1_7, nil)
	if err != nil {
		return fmt.Errorf("pdf: %w", err)
	}

	// User space in millimetres with the scene origin at the page corner.
	page.Transform(matrix.Matrix{pointsPerMM, 0, 0, pointsPerMM, -s.lo.X * pointsPerMM, -s.lo.Y * pointsPerMM})

	trace := func(p polyline) {
		for i, v := range p {
			if i == 0 {
				page.MoveTo(v.X, v.Y)
			} else {
				page.LineTo(v.X, v.Y)
			}
		}
		if p.closed() {
			page.ClosePath()
		}
	}

	page.SetLineWidth(0.1)
	page.SetStrokeColor(color.DeviceGray(0.3))
	for _, p := range s.outlines {
		trace(p)
		page.Stroke()
	}

	for _, mark := range s.marks {
		if len(mark) == 0 {
			continue
		}
		page.SetFillColor(color.DeviceGray(0.7))
		for _, p := range mark {
			trace(p)
		}
		page.FillEvenOdd()
		page.SetStrokeColor(color.DeviceGray(0))
		for _, p := range mark {
			trace(p)
		}
		page.Stroke()
	}

	if err := page.Close(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}
