// Package proximity implements the well proximity pipeline: boundary
// resolution, spatial prefiltering, distance classification, and ranking.
package proximity

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/wellprox/internal/model"
)

// fallbackHalfWidthDeg is the half-width of the synthesized boundary square.
// 0.002° per side approximates a 10-acre parcel at mid-latitude Oklahoma.
// True acreage varies with latitude; this is a deliberate simplification.
const fallbackHalfWidthDeg = 0.002

// ErrInvalidBoundaryGeometry is returned by NewBoundary for degenerate rings.
// The upload resolution path never surfaces it: bad uploads fall back to the
// synthesized square instead.
var ErrInvalidBoundaryGeometry = eris.New("proximity: invalid boundary geometry")

// Boundary is the property polygon for one analysis run. Immutable once
// constructed; vertices hold the exterior ring without the closing point.
type Boundary struct {
	polygon   *geom.Polygon
	vertices  []model.GeoPoint
	synthetic bool
}

// Synthetic reports whether the boundary was synthesized around the target
// point rather than taken from an upload.
func (b Boundary) Synthetic() bool { return b.synthetic }

// Polygon returns the boundary geometry in WGS84.
func (b Boundary) Polygon() *geom.Polygon { return b.polygon }

// Vertices returns the exterior ring, closing point omitted.
func (b Boundary) Vertices() []model.GeoPoint { return b.vertices }

// NewBoundary builds a Boundary from an exterior ring. The ring may or may
// not repeat its first point; it must have at least 3 distinct vertices,
// non-zero area, and WGS84-valid coordinates.
func NewBoundary(ring []model.GeoPoint) (Boundary, error) {
	verts := dropClosure(ring)
	if err := validateRing(verts); err != nil {
		return Boundary{}, err
	}

	flat := make([]float64, 0, (len(verts)+1)*2)
	for _, v := range verts {
		flat = append(flat, v.Lng, v.Lat)
	}
	flat = append(flat, verts[0].Lng, verts[0].Lat)

	poly := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(4326)
	return Boundary{polygon: poly, vertices: verts}, nil
}

// SyntheticBoundary returns the fallback axis-aligned square centered on the
// target with corners at (lng±δ, lat±δ).
func SyntheticBoundary(target model.GeoPoint) Boundary {
	d := fallbackHalfWidthDeg
	b, _ := NewBoundary([]model.GeoPoint{
		{Lat: target.Lat + d, Lng: target.Lng - d},
		{Lat: target.Lat + d, Lng: target.Lng + d},
		{Lat: target.Lat - d, Lng: target.Lng + d},
		{Lat: target.Lat - d, Lng: target.Lng - d},
	})
	b.synthetic = true
	return b
}

// ResolveBoundary produces the property polygon for a run. An upload that
// parses as GeoJSON (FeatureCollection, Feature, or bare geometry) yields its
// first polygonal feature; anything else, including a missing upload, yields
// the synthesized fallback square. Never returns an error.
func ResolveBoundary(target model.GeoPoint, upload []byte) Boundary {
	if len(upload) == 0 {
		return SyntheticBoundary(target)
	}

	poly := extractPolygon(upload)
	if poly == nil {
		zap.L().Warn("boundary: upload did not parse as a polygon, using fallback square",
			zap.Float64("lat", target.Lat),
			zap.Float64("lng", target.Lng),
		)
		return SyntheticBoundary(target)
	}

	b, err := boundaryFromPolygon(poly)
	if err != nil {
		zap.L().Warn("boundary: uploaded polygon is degenerate, using fallback square",
			zap.Error(err),
		)
		return SyntheticBoundary(target)
	}
	return b
}

// extractPolygon pulls the first polygonal geometry out of uploaded GeoJSON.
func extractPolygon(data []byte) *geom.Polygon {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err == nil && len(fc.Features) > 0 {
		for _, f := range fc.Features {
			if p := asPolygon(f.Geometry); p != nil {
				return p
			}
		}
		return nil
	}

	var f geojson.Feature
	if err := json.Unmarshal(data, &f); err == nil && f.Geometry != nil {
		return asPolygon(f.Geometry)
	}

	var g geom.T
	if err := geojson.Unmarshal(data, &g); err == nil {
		return asPolygon(g)
	}
	return nil
}

// asPolygon returns the polygon for polygonal geometries, taking the first
// member of a MultiPolygon.
func asPolygon(g geom.T) *geom.Polygon {
	switch t := g.(type) {
	case *geom.Polygon:
		return t
	case *geom.MultiPolygon:
		if t.NumPolygons() > 0 {
			return t.Polygon(0)
		}
	}
	return nil
}

// boundaryFromPolygon converts a parsed polygon's exterior ring into a
// validated Boundary.
func boundaryFromPolygon(poly *geom.Polygon) (Boundary, error) {
	if poly.NumLinearRings() == 0 {
		return Boundary{}, ErrInvalidBoundaryGeometry
	}
	coords := poly.LinearRing(0).Coords()
	ring := make([]model.GeoPoint, 0, len(coords))
	for _, c := range coords {
		ring = append(ring, model.GeoPoint{Lat: c.Y(), Lng: c.X()})
	}
	return NewBoundary(ring)
}

// dropClosure removes a repeated closing point so the ring is stored open.
func dropClosure(ring []model.GeoPoint) []model.GeoPoint {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}

// validateRing enforces the boundary invariants: at least 3 distinct WGS84
// vertices and non-zero area.
func validateRing(verts []model.GeoPoint) error {
	if len(verts) < 3 {
		return eris.Wrapf(ErrInvalidBoundaryGeometry, "ring has %d distinct vertices", len(verts))
	}
	distinct := make(map[model.GeoPoint]struct{}, len(verts))
	for _, v := range verts {
		if !v.Valid() {
			return eris.Wrapf(ErrInvalidBoundaryGeometry, "vertex (%v, %v) outside WGS84 bounds", v.Lat, v.Lng)
		}
		distinct[v] = struct{}{}
	}
	if len(distinct) < 3 {
		return eris.Wrapf(ErrInvalidBoundaryGeometry, "ring has %d distinct vertices", len(distinct))
	}
	if shoelaceArea(verts) == 0 {
		return eris.Wrap(ErrInvalidBoundaryGeometry, "ring has zero area")
	}
	return nil
}

// shoelaceArea returns twice the signed planar area of the ring in square
// degrees. Only its zero-ness matters here.
func shoelaceArea(verts []model.GeoPoint) float64 {
	var sum float64
	for i := range verts {
		j := (i + 1) % len(verts)
		sum += verts[i].Lng*verts[j].Lat - verts[j].Lng*verts[i].Lat
	}
	return sum
}
