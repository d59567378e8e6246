package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/wellprox/internal/model"
)

func TestResolveSchema(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		wantLat string
		wantLng string
	}{
		{
			name:    "enverus surface names",
			columns: []string{"WellName", "OperatorName", "SurfaceLatitude", "SurfaceLongitude"},
			wantLat: "SurfaceLatitude",
			wantLng: "SurfaceLongitude",
		},
		{
			name:    "plain names",
			columns: []string{"Well_Name", "Latitude", "Longitude"},
			wantLat: "Latitude",
			wantLng: "Longitude",
		},
		{
			name:    "case insensitive",
			columns: []string{"latitude", "longitude", "name"},
			wantLat: "latitude",
			wantLng: "longitude",
		},
		{
			name:    "substring fallback",
			columns: []string{"well_lat_deg", "well_lon_deg"},
			wantLat: "well_lat_deg",
			wantLng: "well_lon_deg",
		},
		{
			name:    "surface preferred over plain",
			columns: []string{"Latitude", "SurfaceLatitude", "Longitude", "SurfaceLongitude"},
			wantLat: "SurfaceLatitude",
			wantLng: "SurfaceLongitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ResolveSchema(tt.columns)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLat, m[FieldLatitude])
			assert.Equal(t, tt.wantLng, m[FieldLongitude])
		})
	}
}

func TestResolveSchemaMissingCoordinates(t *testing.T) {
	columns := []string{"WellName", "OperatorName", "TotalDepth"}

	_, err := ResolveSchema(columns)
	require.Error(t, err)

	var missing *MissingCoordinateColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, columns, missing.Columns)
	assert.Contains(t, err.Error(), "WellName")
}

func TestNormalizeRenamesWithoutDataLoss(t *testing.T) {
	ds := Dataset{
		Columns: []string{"Well_Name", "Latitude", "Longitude"},
		Rows: []map[string]any{
			{"Well_Name": "SMITH 1-22H", "Latitude": 35.4676, "Longitude": -97.5164},
			{"Well_Name": "JONES 2-15", "Latitude": 35.5, "Longitude": -97.6},
		},
	}

	records, dropped, err := Normalize(ds)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, records, 2)
	assert.Equal(t, "SMITH 1-22H", records[0].Name)
	assert.Equal(t, model.GeoPoint{Lat: 35.4676, Lng: -97.5164}, records[0].Location)
	assert.Equal(t, "JONES 2-15", records[1].Name)
}

func TestNormalizeCaseVariantsProduceIdenticalOutput(t *testing.T) {
	rows := func(latCol, lngCol string) []map[string]any {
		return []map[string]any{
			{latCol: 35.4676, lngCol: -97.5164},
			{latCol: 36.1, lngCol: -96.9},
		}
	}

	lower := Dataset{
		Columns: []string{"latitude", "longitude"},
		Rows:    rows("latitude", "longitude"),
	}
	surface := Dataset{
		Columns: []string{"SurfaceLatitude", "SurfaceLongitude"},
		Rows:    rows("SurfaceLatitude", "SurfaceLongitude"),
	}

	a, _, err := Normalize(lower)
	require.NoError(t, err)
	b, _, err := Normalize(surface)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestNormalizeDropsUnresolvableRows(t *testing.T) {
	ds := Dataset{
		Columns: []string{"WellName", "SurfaceLatitude", "SurfaceLongitude", "TotalDepth"},
		Rows: []map[string]any{
			{"WellName": "good", "SurfaceLatitude": "35.47", "SurfaceLongitude": "-97.52", "TotalDepth": "9800"},
			{"WellName": "null coords", "SurfaceLatitude": nil, "SurfaceLongitude": nil},
			{"WellName": "non numeric", "SurfaceLatitude": "n/a", "SurfaceLongitude": "-97.5"},
			{"WellName": "out of range", "SurfaceLatitude": 135.0, "SurfaceLongitude": -97.5},
			{"WellName": "missing keys"},
		},
	}

	records, dropped, err := Normalize(ds)
	require.NoError(t, err)
	assert.Equal(t, 4, dropped)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Name)
	require.NotNil(t, records[0].TotalDepth)
	assert.InDelta(t, 9800, *records[0].TotalDepth, 1e-9)
}

func TestNormalizeNumericStringCoercion(t *testing.T) {
	ds := Dataset{
		Columns: []string{"Lat", "Lon"},
		Rows: []map[string]any{
			{"Lat": " 35.4676 ", "Lon": "-97.5164"},
		},
	}

	records, dropped, err := Normalize(ds)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, records, 1)
	assert.InDelta(t, 35.4676, records[0].Location.Lat, 1e-9)
	assert.InDelta(t, -97.5164, records[0].Location.Lng, 1e-9)
}

func TestNormalizeEmptyDataset(t *testing.T) {
	ds := Dataset{Columns: []string{"Latitude", "Longitude"}}

	records, dropped, err := Normalize(ds)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Empty(t, records)
}
