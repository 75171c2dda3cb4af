// Package ratsnest computes air wires: the straight connections still
// missing between copper items of the same net.
//
// For every net the copper anchors (pad centres, via centres and trace end
// points) are grouped into clusters of already connected items. Items are
// connected when
//
//   - they are the two ends of one trace,
//   - a trace end lies inside a pad or via on the trace layer,
//   - a trace end lies on another trace of the same layer,
//   - two pads or vias overlap on a common copper layer, or
//   - they lie inside the same fragment of a plane of the net.
//
// The clusters are then joined by a minimum spanning tree. Each tree edge
// becomes one air wire between the closest anchors of the two clusters.
//
// Usage:
//
//	rn := ratsnest.New(b, geometry.Micrometre)
//	if err := rn.ForceAirWiresRebuild(); err != nil {
//		return err
//	}
//	for _, w := range rn.AirWires() {
//		fmt.Println(w.Net.Name, w.P1, w.P2)
//	}
package ratsnest
