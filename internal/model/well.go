// Package model defines the value types shared across the proximity pipeline.
package model

// GeoPoint is a WGS84 coordinate pair in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies within WGS84 coordinate bounds.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// WellRecord is a single well after coordinate normalization. TotalDepth is
// nil when the source dataset carried no depth column or the value did not
// parse.
type WellRecord struct {
	API        string   `json:"api,omitempty"`
	Name       string   `json:"name"`
	Operator   string   `json:"operator,omitempty"`
	TotalDepth *float64 `json:"total_depth,omitempty"`
	Location   GeoPoint `json:"location"`
}

// ProximityResult pairs a well with its distance to the property boundary.
// DistanceFt is exactly 0 for wells inside or on the boundary.
type ProximityResult struct {
	Well           WellRecord `json:"well"`
	DistanceFt     float64    `json:"distance_ft"`
	OnProperty     bool       `json:"on_property"`
	Classification string     `json:"classification"`
}
