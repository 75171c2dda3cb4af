package pcb

import (
	"unicode/utf8"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceDRC/pkg/kicad/sexp"
)

// addText converts copper gr_text into a stroke text. Glyphs are not
// rendered; a single stroke traces the text's bounding box.
func (r *reader) addText(n *sexp.Node) error {
	layer := layerName(n.ChildValue("layer"))
	if !board.IsCopperLayerName(layer) {
		return nil
	}
	pos, rot, err := placement(n)
	if err != nil {
		return err
	}
	font := n.Child("effects").Child("font")
	size := font.Child("size")
	height := length(size.FloatOr(0, 1))
	width := length(size.FloatOr(1, 1))
	thickness := length(font.ChildFloat("thickness", 0.15))

	text := n.Arg(0)
	w := width * geometry.Length(max(utf8.RuneCountInString(text), 1))
	box := geometry.CenteredRect(w, height)

	justify := n.Child("effects").Child("justify")
	r.board.StrokeTexts = append(r.board.StrokeTexts, &board.StrokeText{
		Text:        text,
		Layer:       layer,
		Position:    pos,
		Rotation:    rot,
		Mirrored:    justify.Has("mirror"),
		StrokeWidth: thickness,
		Paths:       []geometry.Path{box},
	})
	return nil
}
