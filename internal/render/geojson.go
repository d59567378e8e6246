package render

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/wellprox/internal/proximity"
)

// GeoJSON encodes the report as a FeatureCollection: the boundary polygon
// first, then one point feature per ranked well with distance and
// classification properties. This is the hand-off format for map renderers.
func GeoJSON(report *proximity.Report) ([]byte, error) {
	features := make([]*geojson.Feature, 0, len(report.Results)+1)

	features = append(features, &geojson.Feature{
		ID:       report.RunID,
		Geometry: report.Boundary.Polygon(),
		Properties: map[string]any{
			"kind":      "property_boundary",
			"synthetic": report.Boundary.Synthetic(),
		},
	})

	for _, r := range report.Results {
		point := geom.NewPointFlat(geom.XY, []float64{r.Well.Location.Lng, r.Well.Location.Lat}).SetSRID(4326)
		props := map[string]any{
			"kind":           "well",
			"name":           r.Well.Name,
			"operator":       r.Well.Operator,
			"api":            r.Well.API,
			"distance_ft":    r.DistanceFt,
			"on_property":    r.OnProperty,
			"classification": r.Classification,
		}
		if r.Well.TotalDepth != nil {
			props["total_depth"] = *r.Well.TotalDepth
		}
		features = append(features, &geojson.Feature{Geometry: point, Properties: props})
	}

	fc := geojson.FeatureCollection{Features: features}
	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "render: marshal geojson")
	}
	return data, nil
}
