// Package drc implements the board design rule check.
//
// The engine has three parts:
//
//   - PathGenerator unites board geometry of one category (board outline,
//     holes, or copper of one net on one layer) into a polygon set.
//   - PlaneFragmentsBuilder computes the fill of copper planes around
//     obstacles of other nets, highest priority first.
//   - DesignRuleCheck runs the ordered battery of checks and collects
//     located violation messages while reporting progress to an Observer.
//
// A run is synchronous and single-threaded. Cancellation through the
// context is honoured between check phases only.
package drc
