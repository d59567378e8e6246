package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/wellprox/internal/model"
	"github.com/sells-group/wellprox/internal/proximity"
	"github.com/sells-group/wellprox/internal/render"
)

var (
	analyzeAddress  string
	analyzeLat      float64
	analyzeLng      float64
	analyzeBoundary string
	analyzeWells    string
	analyzeRadius   float64
	analyzeTopN     int
	analyzeFormat   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze well proximity for a property",
	Long:  "Geocodes the address (or uses --lat/--lng), resolves the property boundary, fetches wells, and reports each well's distance to the boundary in feet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req := proximity.Request{
			Address:      analyzeAddress,
			BoundaryFile: analyzeBoundary,
			RadiusDeg:    analyzeRadius,
			TopN:         analyzeTopN,
		}

		latSet := cmd.Flags().Changed("lat")
		lngSet := cmd.Flags().Changed("lng")
		if latSet != lngSet {
			return eris.New("--lat and --lng must be given together")
		}
		if latSet {
			pt := model.GeoPoint{Lat: analyzeLat, Lng: analyzeLng}
			if !pt.Valid() {
				return eris.Errorf("coordinates (%f, %f) are out of range", analyzeLat, analyzeLng)
			}
			req.Target = &pt
		} else if analyzeAddress == "" {
			return eris.New("either --address or --lat/--lng is required")
		}

		env, err := initAnalysis(analyzeWells)
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := env.Analyzer.Analyze(ctx, req)
		if err != nil {
			if eris.Is(err, proximity.ErrAddressNotFound) {
				return eris.Errorf("address %q could not be geocoded; try --lat/--lng", analyzeAddress)
			}
			return err
		}

		switch analyzeFormat {
		case "table":
			return render.Table(os.Stdout, report)
		case "geojson":
			data, err := render.GeoJSON(report)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		default:
			return eris.Errorf("unknown format %q (want table, geojson, or json)", analyzeFormat)
		}
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeAddress, "address", "", "property address to geocode")
	analyzeCmd.Flags().Float64Var(&analyzeLat, "lat", 0, "property latitude (skips geocoding)")
	analyzeCmd.Flags().Float64Var(&analyzeLng, "lng", 0, "property longitude (skips geocoding)")
	analyzeCmd.Flags().StringVar(&analyzeBoundary, "boundary", "", "boundary file (.geojson or .shp); omitted synthesizes a 10-acre square")
	analyzeCmd.Flags().StringVar(&analyzeWells, "wells", "", "local well dataset (.csv, .xlsx, or .json) instead of the Enverus API")
	analyzeCmd.Flags().Float64Var(&analyzeRadius, "radius", 0, "prefilter radius in degrees (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top", 0, "cap on reported wells (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "table", "output format: table, geojson, or json")
	rootCmd.AddCommand(analyzeCmd)
}
