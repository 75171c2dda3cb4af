// Package sexp parses the s-expression syntax shared by KiCad board,
// footprint and schematic files into a generic tree of nodes.
package sexp

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
)

// Document is a parsed file. KiCad files hold a single root list.
type Document struct {
	Nodes []*Node `parser:"@@*"`
}

// Root returns the first top level node, or nil for an empty document.
func (d *Document) Root() *Node {
	if len(d.Nodes) == 0 {
		return nil
	}
	return d.Nodes[0]
}

// Node is either a list, a quoted string or a bare atom.
type Node struct {
	Pos lexer.Position

	List   *List   `parser:"  @@"`
	String *string `parser:"| @String"`
	Atom   *string `parser:"| @Atom"`
}

// List is a parenthesised sequence of nodes.
type List struct {
	Items []*Node `parser:"\"(\" @@* \")\""`
}

// IsList reports whether n is a list.
func (n *Node) IsList() bool {
	return n != nil && n.List != nil
}

// Items returns the list elements, or nil for a leaf.
func (n *Node) Items() []*Node {
	if !n.IsList() {
		return nil
	}
	return n.List.Items
}

// Value returns the text of a leaf; lists yield "".
func (n *Node) Value() string {
	switch {
	case n == nil:
		return ""
	case n.String != nil:
		return *n.String
	case n.Atom != nil:
		return *n.Atom
	}
	return ""
}

// Name returns the head atom of a list, e.g. "at" for (at 1 2).
func (n *Node) Name() string {
	items := n.Items()
	if len(items) == 0 || items[0].IsList() {
		return ""
	}
	return items[0].Value()
}

// Args returns the list elements after the head.
func (n *Node) Args() []*Node {
	items := n.Items()
	if len(items) <= 1 {
		return nil
	}
	return items[1:]
}

// Child returns the first sub-list named name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Args() {
		if c.IsList() && c.Name() == name {
			return c
		}
	}
	return nil
}

// Children returns all sub-lists named name in file order.
func (n *Node) Children(name string) []*Node {
	var out []*Node
	for _, c := range n.Args() {
		if c.IsList() && c.Name() == name {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether a leaf argument equals value, as in (pad "1" smd
// rect locked).
func (n *Node) Has(value string) bool {
	for _, c := range n.Args() {
		if !c.IsList() && c.Value() == value {
			return true
		}
	}
	return false
}

// Arg returns the i-th argument (0 is the first element after the head)
// as text. Missing or list arguments yield "".
func (n *Node) Arg(i int) string {
	args := n.Args()
	if i < 0 || i >= len(args) || args[i].IsList() {
		return ""
	}
	return args[i].Value()
}

// Float parses the i-th argument as a number.
func (n *Node) Float(i int) (float64, error) {
	s := n.Arg(i)
	if s == "" {
		return 0, fmt.Errorf("%s: missing argument %d", n.describe(), i)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: argument %d: %w", n.describe(), i, err)
	}
	return v, nil
}

// FloatOr parses the i-th argument, returning def when it is absent or
// malformed.
func (n *Node) FloatOr(i int, def float64) float64 {
	v, err := n.Float(i)
	if err != nil {
		return def
	}
	return v
}

// Int parses the i-th argument as an integer.
func (n *Node) Int(i int) (int, error) {
	s := n.Arg(i)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: argument %d: %w", n.describe(), i, err)
	}
	return v, nil
}

// ChildFloat returns the first argument of the sub-list name, or def.
func (n *Node) ChildFloat(name string, def float64) float64 {
	c := n.Child(name)
	if c == nil {
		return def
	}
	return c.FloatOr(0, def)
}

// ChildValue returns the first argument of the sub-list name, or "".
func (n *Node) ChildValue(name string) string {
	return n.Child(name).Arg(0)
}

func (n *Node) describe() string {
	if n == nil {
		return "<nil>"
	}
	if name := n.Name(); name != "" {
		return fmt.Sprintf("(%s) at %s", name, n.Pos)
	}
	return n.Pos.String()
}
