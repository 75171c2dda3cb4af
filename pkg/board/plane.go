package board

import (
	"cmp"
	"slices"
	"strings"

	"github.com/OpenTraceLab/OpenTraceDRC/pkg/geometry"
)

// ConnectStyle controls how same-net pads are joined to a plane.
type ConnectStyle int

const (
	// ConnectNone keeps a clearance gap around same-net pads.
	ConnectNone ConnectStyle = iota
	// ConnectSolid merges same-net pads into the plane.
	ConnectSolid
)

// Plane is a net-filled copper pour.
type Plane struct {
	ID           string
	Outline      geometry.Path
	Layer        string
	Net          *NetSignal
	MinWidth     geometry.Length
	MinClearance geometry.Length
	Priority     int
	ConnectStyle ConnectStyle
	KeepOrphans  bool

	fragments []geometry.Path
}

// Fragments returns the last computed fill of the plane.
func (p *Plane) Fragments() []geometry.Path {
	return p.fragments
}

// SetFragments replaces the computed fill of the plane.
func (p *Plane) SetFragments(f []geometry.Path) {
	p.fragments = f
}

// PlaneHigher is the total fill order of planes: higher priority first,
// ties broken by the greater ID. A plane subtracts the fragments of every
// higher plane on its layer.
func PlaneHigher(a, b *Plane) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.ID > b.ID
}

// PlanesByPriority returns the planes sorted highest first.
func PlanesByPriority(planes []*Plane) []*Plane {
	out := slices.Clone(planes)
	slices.SortStableFunc(out, func(a, b *Plane) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return out
}
