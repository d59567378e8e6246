package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/wellprox/pkg/geocode"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode ADDRESS...",
	Short: "Geocode one or more addresses",
	Long:  "Resolves free-text addresses to WGS84 coordinates via the Census Geocoder, falling back to Nominatim. Unmatched addresses report matched=false.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client := initGeocoder()

		var results []geocode.Result
		if len(args) == 1 {
			res, err := client.Geocode(ctx, args[0])
			if err != nil {
				return eris.Wrap(err, "geocode")
			}
			results = []geocode.Result{*res}
		} else {
			batch, err := client.BatchGeocode(ctx, args)
			if err != nil {
				return eris.Wrap(err, "batch geocode")
			}
			results = batch
		}

		out := make([]map[string]any, len(results))
		for i, res := range results {
			entry := map[string]any{
				"address": args[i],
				"matched": res.Matched,
			}
			if res.Matched {
				entry["latitude"] = res.Latitude
				entry["longitude"] = res.Longitude
				entry["source"] = res.Source
			}
			out[i] = entry
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}
