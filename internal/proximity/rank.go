package proximity

import (
	"sort"

	"github.com/sells-group/wellprox/internal/model"
)

// DefaultTopN caps how many ranked results are kept for display.
const DefaultTopN = 100

// Rank returns the results sorted ascending by distance, truncated to topN
// when topN > 0. The sort is stable: wells at equal distance keep their
// input order. The input slice is not modified.
func Rank(results []model.ProximityResult, topN int) []model.ProximityResult {
	ranked := make([]model.ProximityResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceFt < ranked[j].DistanceFt
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
