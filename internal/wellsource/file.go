package wellsource

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/wellprox/internal/normalize"
)

// LoadFile reads a well dataset file into the provider-agnostic tabular
// shape. The format is picked by extension: .csv, .xlsx, or .json (an array
// of records).
func LoadFile(path string) (normalize.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	case ".json":
		return loadJSON(path)
	default:
		return normalize.Dataset{}, eris.Errorf("wellsource: unsupported dataset format %q", filepath.Ext(path))
	}
}

func loadCSV(path string) (normalize.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return normalize.Dataset{}, eris.Wrapf(err, "wellsource: open %s", path)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields

	records, err := reader.ReadAll()
	if err != nil {
		return normalize.Dataset{}, eris.Wrap(err, "wellsource: read csv")
	}
	if len(records) == 0 {
		return normalize.Dataset{}, eris.New("wellsource: csv has no header row")
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(col)
	}

	return normalize.Dataset{
		Columns: header,
		Rows:    tableRows(header, records[1:]),
	}, nil
}

func loadXLSX(path string) (normalize.Dataset, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return normalize.Dataset{}, eris.Wrapf(err, "wellsource: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return normalize.Dataset{}, eris.New("wellsource: workbook has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return normalize.Dataset{}, eris.New("wellsource: sheet has no header row")
	}

	header := make([]string, len(sheet.Rows[0].Cells))
	for i, cell := range sheet.Rows[0].Cells {
		header[i] = strings.TrimSpace(cell.String())
	}

	raw := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}
		raw = append(raw, cells)
	}

	return normalize.Dataset{
		Columns: header,
		Rows:    tableRows(header, raw),
	}, nil
}

func loadJSON(path string) (normalize.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return normalize.Dataset{}, eris.Wrapf(err, "wellsource: open %s", path)
	}
	defer func() { _ = f.Close() }()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return normalize.Dataset{}, eris.Wrap(err, "wellsource: decode json array")
	}

	columns := []string{}
	if len(rows) > 0 {
		seen := make(map[string]struct{})
		for _, row := range rows {
			for k := range row {
				if _, ok := seen[k]; !ok {
					seen[k] = struct{}{}
					columns = append(columns, k)
				}
			}
		}
	}
	// Map iteration order is random; fix the column list.
	sort.Strings(columns)

	return normalize.Dataset{Columns: columns, Rows: rows}, nil
}

// tableRows zips string records with the header into row maps. Cells past
// the header width are ignored; short rows leave trailing columns unset.
func tableRows(header []string, records [][]string) []map[string]any {
	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
