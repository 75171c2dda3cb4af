package report

import (
	"encoding/json"
	"io"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/drc"
)

type jsonReport struct {
	Board    string        `json:"board"`
	Approved int           `json:"approved"`
	Messages []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	Kind      drc.Kind       `json:"kind"`
	Message   string         `json:"message"`
	Key       string         `json:"key"`
	Locations [][][2]float64 `json:"locations"`
}

// JSON writes the report as an indented JSON document. Locations are
// lists of polygons whose vertices are [x, y] pairs in millimetres; arcs
// are given by their end points only.
func JSON(w io.Writer, r Report) error {
	out := jsonReport{Board: r.Board, Approved: r.Approved, Messages: make([]jsonMessage, 0, len(r.Messages))}
	for _, m := range r.Messages {
		jm := jsonMessage{Kind: m.Kind, Message: m.Text, Key: m.ApprovalKey(), Locations: [][][2]float64{}}
		for _, p := range m.Locations {
			poly := make([][2]float64, 0, len(p))
			for _, v := range p {
				poly = append(poly, [2]float64{mm(v.Pos.X), mm(v.Pos.Y)})
			}
			jm.Locations = append(jm.Locations, poly)
		}
		out.Messages = append(out.Messages, jm)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
