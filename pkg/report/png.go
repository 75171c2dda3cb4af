package report

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/drc"
)

// MapOptions controls raster violation maps.
type MapOptions struct {
	PixelsPerMM float64 // default 10
	MaxPixels   int     // longest image side, default 4096
}

func (o MapOptions) withDefaults() MapOptions {
	if o.PixelsPerMM <= 0 {
		o.PixelsPerMM = 10
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = 4096
	}
	return o
}

// markRadius is the radius in pixels of the ring drawn around every
// message so that tiny locations stay visible.
const markRadius = 6.0

// PNG renders the board outline and the message locations as a PNG image.
func PNG(w io.Writer, b *board.Board, msgs []drc.Message, opts MapOptions) error {
	opts = opts.withDefaults()
	s := newScene(b, msgs)
	size := s.size()
	scale := opts.PixelsPerMM
	if longest := max(size.X, size.Y); longest*scale > float64(opts.MaxPixels) {
		scale = float64(opts.MaxPixels) / longest
	}
	width := max(int(math.Ceil(size.X*scale)), 1)
	height := max(int(math.Ceil(size.Y*scale)), 1)

	dc := gg.NewContext(width, height)
	defer dc.Close()
	dc.ClearWithColor(gg.White)

	px := func(x, y float64) (float64, float64) {
		return (x - s.lo.X) * scale, (s.hi.Y - y) * scale
	}
	trace := func(p polyline) {
		for i, v := range p {
			x, y := px(v.X, v.Y)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		if p.closed() {
			dc.ClosePath()
		}
	}

	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(1.5)
	for _, p := range s.outlines {
		trace(p)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("png: outline: %w", err)
		}
	}

	dc.SetFillRule(gg.FillRuleEvenOdd)
	for i, mark := range s.marks {
		dc.SetRGBA(0.9, 0.1, 0.1, 0.4)
		for _, p := range mark {
			trace(p)
		}
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("png: message %d: %w", i+1, err)
		}
		dc.SetRGB(0.8, 0, 0)
		dc.SetLineWidth(1)
		for _, p := range mark {
			trace(p)
		}
		if c := msgs[i].Center(); len(mark) > 0 {
			x, y := px(c.X.MM(), c.Y.MM())
			dc.DrawCircle(x, y, markRadius)
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("png: message %d: %w", i+1, err)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("png: %w", err)
	}
	return nil
}
