// Package geometry provides the integer board geometry used by the DRC
// engine: lengths in nanometres, angles in microdegrees, points and paths
// whose segments may be circular arcs.
//
// The coordinate system is the mathematical one (y grows upwards) and
// positive angles are counter-clockwise.
package geometry
