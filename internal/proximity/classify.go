package proximity

import (
	"math"

	"github.com/sells-group/wellprox/internal/model"
)

// feetPerDegree converts decimal-degree distances to feet. It is the length
// of one degree of latitude near 35°N and is applied to both axes, so
// east-west distances are overstated by roughly 1/cos(lat). The upstream
// system used the same flat conversion; it is preserved here for behavioral
// parity rather than replaced with a geodesic distance.
const feetPerDegree = 364000.0

// Classification labels.
const (
	ClassOnProperty = "on_property"
	ClassAdjacent   = "adjacent"
	ClassNearby     = "nearby"
	ClassDistant    = "distant"
)

// Distance thresholds for classification (feet).
const (
	adjacentThresholdFt = 1320.0 // quarter mile
	nearbyThresholdFt   = 5280.0 // one mile
)

// Classify computes the distance from a well to the property boundary.
// A point inside or exactly on the boundary yields (0, true). Otherwise the
// result is the minimum Euclidean distance in degrees from the point to the
// boundary ring, scaled by feetPerDegree. No epsilon is applied: a well
// infinitesimally outside reports a tiny nonzero distance, not zero.
func Classify(p model.GeoPoint, b Boundary) (distanceFt float64, inside bool) {
	verts := b.vertices
	if containsPoint(p, verts) {
		return 0, true
	}

	minDeg := math.Inf(1)
	for i := range verts {
		j := (i + 1) % len(verts)
		if d := pointSegmentDistance(p, verts[i], verts[j]); d < minDeg {
			minDeg = d
		}
	}
	return minDeg * feetPerDegree, false
}

// Label buckets a classification result for display.
// Rules:
//   - on_property: inside or on the boundary (distance 0)
//   - adjacent: outside, within a quarter mile
//   - nearby: outside, within a mile
//   - distant: beyond a mile
func Label(distanceFt float64, inside bool) string {
	switch {
	case inside:
		return ClassOnProperty
	case distanceFt <= adjacentThresholdFt:
		return ClassAdjacent
	case distanceFt <= nearbyThresholdFt:
		return ClassNearby
	default:
		return ClassDistant
	}
}

// containsPoint is a ray-casting point-in-polygon test over the open ring.
// Points exactly on an edge count as contained.
func containsPoint(p model.GeoPoint, verts []model.GeoPoint) bool {
	n := len(verts)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := verts[j], verts[i]
		if onSegment(p, a, b) {
			return true
		}
		if (b.Lat > p.Lat) != (a.Lat > p.Lat) {
			x := (a.Lng-b.Lng)*(p.Lat-b.Lat)/(a.Lat-b.Lat) + b.Lng
			if p.Lng < x {
				inside = !inside
			}
		}
	}
	return inside
}

// onSegment reports whether p lies exactly on segment ab.
func onSegment(p, a, b model.GeoPoint) bool {
	cross := (b.Lng-a.Lng)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lng-a.Lng)
	if cross != 0 {
		return false
	}
	return p.Lng >= math.Min(a.Lng, b.Lng) && p.Lng <= math.Max(a.Lng, b.Lng) &&
		p.Lat >= math.Min(a.Lat, b.Lat) && p.Lat <= math.Max(a.Lat, b.Lat)
}

// pointSegmentDistance returns the planar distance in degrees from p to the
// nearest point on segment ab.
func pointSegmentDistance(p, a, b model.GeoPoint) float64 {
	dx := b.Lng - a.Lng
	dy := b.Lat - a.Lat
	if dx == 0 && dy == 0 {
		return math.Hypot(p.Lng-a.Lng, p.Lat-a.Lat)
	}

	t := ((p.Lng-a.Lng)*dx + (p.Lat-a.Lat)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))

	return math.Hypot(p.Lng-(a.Lng+t*dx), p.Lat-(a.Lat+t*dy))
}
