package proximity

import "github.com/sells-group/wellprox/internal/model"

// Prefilter keeps only wells inside the axis-aligned bounding box of
// radiusDeg around center, inclusive of the box edges. The box corners sit
// farther than radiusDeg from center; the pass is over-inclusive on purpose,
// bounding the per-well distance work rather than deciding membership.
// Enlarging the radius never removes a well a smaller radius kept.
func Prefilter(wells []model.WellRecord, center model.GeoPoint, radiusDeg float64) []model.WellRecord {
	kept := make([]model.WellRecord, 0, len(wells))
	for _, w := range wells {
		if w.Location.Lat < center.Lat-radiusDeg || w.Location.Lat > center.Lat+radiusDeg {
			continue
		}
		if w.Location.Lng < center.Lng-radiusDeg || w.Location.Lng > center.Lng+radiusDeg {
			continue
		}
		kept = append(kept, w)
	}
	return kept
}
