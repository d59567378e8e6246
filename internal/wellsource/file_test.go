package wellsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/wellprox/internal/model"
	"github.com/sells-group/wellprox/internal/normalize"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "wells.csv",
		"Well_Name,Latitude,Longitude\n"+
			"SMITH 1-22H,35.4676,-97.5164\n"+
			"JONES 2-15,35.47,-97.51\n")

	ds, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Well_Name", "Latitude", "Longitude"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "SMITH 1-22H", ds.Rows[0]["Well_Name"])
	assert.Equal(t, "35.4676", ds.Rows[0]["Latitude"])
}

func TestLoadCSVShortRows(t *testing.T) {
	path := writeFile(t, "wells.csv",
		"Well_Name,Latitude,Longitude\n"+
			"NO COORDS\n")

	ds, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	_, hasLat := ds.Rows[0]["Latitude"]
	assert.False(t, hasLat)
}

func TestLoadCSVNormalizesEndToEnd(t *testing.T) {
	path := writeFile(t, "wells.csv",
		"Well_Name,Latitude,Longitude\n"+
			"SMITH 1-22H,35.4676,-97.5164\n"+
			"BROKEN,not-a-number,-97.51\n")

	ds, err := LoadFile(path)
	require.NoError(t, err)

	records, dropped, err := normalize.Normalize(ds)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, records, 1)
	assert.Equal(t, "SMITH 1-22H", records[0].Name)
	assert.InDelta(t, 35.4676, records[0].Location.Lat, 1e-9)
}

func TestLoadXLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("wells")
	require.NoError(t, err)
	for _, rowData := range [][]string{
		{"SurfaceLatitude", "SurfaceLongitude", "WellName"},
		{"35.4676", "-97.5164", "SMITH 1-22H"},
	} {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "wells.xlsx")
	require.NoError(t, f.Save(path))

	ds, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"SurfaceLatitude", "SurfaceLongitude", "WellName"}, ds.Columns)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "SMITH 1-22H", ds.Rows[0]["WellName"])
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "wells.json",
		`[{"Well_Name": "SMITH 1-22H", "Latitude": 35.4676, "Longitude": -97.5164}]`)

	ds, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Latitude", "Longitude", "Well_Name"}, ds.Columns)
	require.Len(t, ds.Rows, 1)
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "wells.parquet", "not really")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dataset format")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestFileSourceFetchWells(t *testing.T) {
	path := writeFile(t, "wells.csv",
		"Latitude,Longitude\n35.0,-97.0\n")

	src := NewFileSource(path)
	ds, err := src.FetchWells(context.Background(), model.GeoPoint{Lat: 35, Lng: -97})
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 1)
}
