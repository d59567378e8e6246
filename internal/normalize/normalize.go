// Package normalize reconciles provider-specific well dataset schemas into
// the canonical field names the proximity pipeline expects.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/wellprox/internal/model"
)

// Canonical field names exposed after normalization.
const (
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldName      = "name"
	FieldOperator  = "operator"
	FieldDepth     = "depth"
	FieldAPI       = "api"
)

// Dataset is the provider-agnostic tabular shape produced by the well-data
// collaborators (API fetch, CSV, XLSX, JSON file). Column names are passed
// through from the source untouched.
type Dataset struct {
	Columns []string
	Rows    []map[string]any
}

// fieldCandidates lists, per canonical field, the known source column names
// in resolution priority order, plus substring tokens tried as a last resort.
// Exact names cover the Enverus well-origins schema and its common variants.
type fieldCandidates struct {
	exact  []string
	tokens []string
}

var candidates = map[string]fieldCandidates{
	FieldLatitude: {
		exact:  []string{"SurfaceLatitude", "Latitude", "Lat"},
		tokens: []string{"lat"},
	},
	FieldLongitude: {
		exact:  []string{"SurfaceLongitude", "Longitude", "Long", "Lng", "Lon"},
		tokens: []string{"lon", "lng"},
	},
	FieldName: {
		exact:  []string{"WellName", "Well_Name", "Name"},
		tokens: []string{"name"},
	},
	FieldOperator: {
		exact:  []string{"OperatorName", "Operator_Name", "Operator"},
		tokens: []string{"operator"},
	},
	FieldDepth: {
		exact:  []string{"TotalDepth", "Total_Depth", "Depth"},
		tokens: []string{"depth"},
	},
	FieldAPI: {
		exact:  []string{"API_UWI_14", "API_UWI", "API", "UWI"},
		tokens: []string{"api", "uwi"},
	},
}

// Mapping is a resolved canonical-field → source-column lookup. Optional
// fields with no matching column are absent from the map.
type Mapping map[string]string

// MissingCoordinateColumnsError reports a dataset with no recognizable
// latitude or longitude column. It carries the columns actually present so
// the caller can surface them for diagnosis.
type MissingCoordinateColumnsError struct {
	Columns []string
}

func (e *MissingCoordinateColumnsError) Error() string {
	return fmt.Sprintf("normalize: no latitude/longitude column found among %v", e.Columns)
}

// ResolveSchema resolves the dataset columns into a fixed Mapping, once, so
// downstream code never probes alternate names. Resolution order per field:
// exact match, then case-insensitive match, then substring match. Missing
// optional fields are tolerated; missing coordinates are not.
func ResolveSchema(columns []string) (Mapping, error) {
	return ResolveSchemaAliases(columns, nil)
}

// ResolveSchemaAliases is ResolveSchema with user alias overrides applied
// ahead of the built-in candidates.
func ResolveSchemaAliases(columns []string, aliases AliasConfig) (Mapping, error) {
	m := make(Mapping, len(candidates))
	for field, cand := range candidates {
		if extra := aliases[field]; len(extra) > 0 {
			cand.exact = append(append([]string{}, extra...), cand.exact...)
		}
		if col, ok := resolveColumn(columns, cand); ok {
			m[field] = col
		}
	}

	if _, ok := m[FieldLatitude]; !ok {
		return nil, &MissingCoordinateColumnsError{Columns: columns}
	}
	if _, ok := m[FieldLongitude]; !ok {
		return nil, &MissingCoordinateColumnsError{Columns: columns}
	}
	return m, nil
}

func resolveColumn(columns []string, cand fieldCandidates) (string, bool) {
	// Exact.
	for _, want := range cand.exact {
		for _, col := range columns {
			if col == want {
				return col, true
			}
		}
	}
	// Case-insensitive.
	for _, want := range cand.exact {
		for _, col := range columns {
			if strings.EqualFold(col, want) {
				return col, true
			}
		}
	}
	// Substring.
	for _, tok := range cand.tokens {
		for _, col := range columns {
			if strings.Contains(strings.ToLower(col), tok) {
				return col, true
			}
		}
	}
	return "", false
}

// Normalize maps a raw dataset onto canonical WellRecords. Rows whose
// coordinates are absent, non-numeric, or outside WGS84 bounds are dropped
// and counted; only a dataset with no coordinate columns at all is an error.
func Normalize(ds Dataset) ([]model.WellRecord, int, error) {
	return NormalizeAliases(ds, nil)
}

// NormalizeAliases is Normalize with user alias overrides for schema
// resolution.
func NormalizeAliases(ds Dataset, aliases AliasConfig) ([]model.WellRecord, int, error) {
	mapping, err := ResolveSchemaAliases(ds.Columns, aliases)
	if err != nil {
		return nil, 0, err
	}

	records := make([]model.WellRecord, 0, len(ds.Rows))
	dropped := 0

	for _, row := range ds.Rows {
		lat, okLat := coerceFloat(row[mapping[FieldLatitude]])
		lng, okLng := coerceFloat(row[mapping[FieldLongitude]])
		if !okLat || !okLng {
			dropped++
			continue
		}

		loc := model.GeoPoint{Lat: lat, Lng: lng}
		if !loc.Valid() {
			dropped++
			continue
		}

		rec := model.WellRecord{
			Name:     coerceString(row[mapping[FieldName]]),
			Operator: coerceString(row[mapping[FieldOperator]]),
			API:      coerceString(row[mapping[FieldAPI]]),
			Location: loc,
		}
		if col, ok := mapping[FieldDepth]; ok {
			if depth, okD := coerceFloat(row[col]); okD {
				rec.TotalDepth = &depth
			}
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		zap.L().Debug("normalize: dropped rows without resolvable coordinates",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(records)),
		)
	}

	return records, dropped, nil
}

// coerceFloat accepts the numeric representations seen across providers:
// JSON numbers, Go numerics, and numeric strings.
func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}
