// Package clip wraps the Clipper polygon library with the operations the
// DRC engine needs: conversion from board paths, boolean operations,
// offsetting and flattening of polygon trees into paths with cut-ins.
//
// Clipper reports failures by panicking; every function here recovers and
// returns an error wrapping ErrClipper instead.
package clip

import (
	"errors"
	"fmt"
	"slices"

	clipper "github.com/ctessum/go.clipper"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

// ErrClipper is wrapped by every error raised inside the clipping library.
var ErrClipper = errors.New("clipper failure")

// Paths is a set of integer polygons.
type Paths = clipper.Paths

// Path is a single integer polygon.
type Path = clipper.Path

// Tree is the hierarchical result of a clipping operation.
type Tree = clipper.PolyTree

// Fill rules.
const (
	EvenOdd = clipper.PftEvenOdd
	NonZero = clipper.PftNonZero
)

// guard converts a panic raised by clipper into an error.
func guard(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: %w: %v", op, ErrClipper, r)
	}
}

// Convert flattens arcs of p with the given tolerance and converts it to a
// positively oriented clipper path.
func Convert(p geometry.Path, tolerance geometry.Length) Path {
	flat := p.FlattenedArcs(tolerance)
	out := make(Path, 0, len(flat))
	for i, v := range flat {
		if i > 0 && v.Pos == flat[i-1].Pos {
			continue
		}
		out = append(out, clipper.NewIntPoint(clipper.CInt(v.Pos.X), clipper.CInt(v.Pos.Y)))
	}
	if n := len(out); n > 1 && *out[0] == *out[n-1] {
		out = out[:n-1]
	}
	if len(out) > 2 && !clipper.Orientation(out) {
		slices.Reverse(out)
	}
	return out
}

// ConvertAll converts several paths.
func ConvertAll(paths []geometry.Path, tolerance geometry.Length) Paths {
	out := make(Paths, 0, len(paths))
	for _, p := range paths {
		out = append(out, Convert(p, tolerance))
	}
	return out
}

// ToPath converts a clipper path back to a closed board path.
func ToPath(p Path) geometry.Path {
	out := make(geometry.Path, 0, len(p)+1)
	for _, pt := range p {
		out = append(out, geometry.Vertex{Pos: geometry.Pt(geometry.Length(pt.X), geometry.Length(pt.Y))})
	}
	return out.Closed()
}

// ToPaths converts clipper paths back to closed board paths.
func ToPaths(ps Paths) []geometry.Path {
	out := make([]geometry.Path, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToPath(p))
	}
	return out
}

// blank reports whether ps contains no polygon with an area. Clipper
// refuses to execute without edges.
func blank(ps Paths) bool {
	for _, p := range ps {
		if len(p) > 2 {
			return false
		}
	}
	return true
}

func execute(op string, ct clipper.ClipType, subject, clip Paths, subjectFill, clipFill clipper.PolyFillType) (out Paths, err error) {
	defer guard(op, &err)
	if blank(subject) && blank(clip) {
		return Paths{}, nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(subject, clipper.PtSubject, true)
	c.AddPaths(clip, clipper.PtClip, true)
	res, ok := c.Execute1(ct, subjectFill, clipFill)
	if !ok {
		return nil, fmt.Errorf("%s: %w: execution failed", op, ErrClipper)
	}
	return res, nil
}

func executeTree(op string, ct clipper.ClipType, subject, clip Paths, subjectFill, clipFill clipper.PolyFillType) (out *Tree, err error) {
	defer guard(op, &err)
	if blank(subject) && blank(clip) {
		return clipper.NewPolyTree(), nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(subject, clipper.PtSubject, true)
	c.AddPaths(clip, clipper.PtClip, true)
	res, ok := c.Execute2(ct, subjectFill, clipFill)
	if !ok || res == nil {
		return nil, fmt.Errorf("%s: %w: execution failed", op, ErrClipper)
	}
	return res, nil
}

// Unite returns the union of subject and clip.
func Unite(subject, clip Paths, subjectFill, clipFill clipper.PolyFillType) (Paths, error) {
	return execute("unite", clipper.CtUnion, subject, clip, subjectFill, clipFill)
}

// UniteSelf resolves overlaps within paths.
func UniteSelf(paths Paths, fill clipper.PolyFillType) (Paths, error) {
	return execute("unite", clipper.CtUnion, paths, nil, fill, fill)
}

// UniteToTree resolves overlaps within paths, returning a polygon tree.
func UniteToTree(paths Paths, fill clipper.PolyFillType) (*Tree, error) {
	return executeTree("unite", clipper.CtUnion, paths, nil, fill, fill)
}

// Intersect returns the intersection of subject and clip.
func Intersect(subject, clip Paths, subjectFill, clipFill clipper.PolyFillType) (Paths, error) {
	return execute("intersect", clipper.CtIntersection, subject, clip, subjectFill, clipFill)
}

// IntersectToTree returns the intersection of subject and clip as a tree.
func IntersectToTree(subject, clip Paths, subjectFill, clipFill clipper.PolyFillType) (*Tree, error) {
	return executeTree("intersect", clipper.CtIntersection, subject, clip, subjectFill, clipFill)
}

// Subtract removes clip from subject.
func Subtract(subject, clip Paths, subjectFill, clipFill clipper.PolyFillType) (Paths, error) {
	return execute("subtract", clipper.CtDifference, subject, clip, subjectFill, clipFill)
}

func newOffset(paths Paths, tolerance geometry.Length) *clipper.ClipperOffset {
	o := clipper.NewClipperOffset()
	o.MiterLimit = 2
	o.ArcTolerance = float64(tolerance)
	o.AddPaths(paths, clipper.JtRound, clipper.EtClosedPolygon)
	return o
}

// Offset grows (delta > 0) or shrinks (delta < 0) closed polygons using
// round joins approximated within tolerance.
func Offset(paths Paths, delta, tolerance geometry.Length) (out Paths, err error) {
	defer guard("offset", &err)
	if blank(paths) {
		return Paths{}, nil
	}
	out = newOffset(paths, tolerance).Execute(float64(delta))
	if out == nil {
		out = Paths{}
	}
	return out, nil
}

// PointInside reports whether pt lies strictly inside or on the border of p.
func PointInside(pt geometry.Point, p Path) bool {
	return clipper.PointInPolygon(clipper.NewIntPoint(clipper.CInt(pt.X), clipper.CInt(pt.Y)), p) != 0
}

// Area returns the signed area of p.
func Area(p Path) float64 {
	return clipper.Area(p)
}
