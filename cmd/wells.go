package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/wellprox/pkg/enverus"
)

var wellsCmd = &cobra.Command{
	Use:   "wells",
	Short: "Work with well datasets",
}

var (
	wellsFetchCounty string
	wellsFetchOut    string
)

var wellsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch county well records from Enverus",
	Long:  "Fetches all well-origins for a county and writes them as a JSON array usable with `analyze --wells`.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("fetch"); err != nil {
			return err
		}

		client, fetchCache := initEnverus()
		if fetchCache != nil {
			defer fetchCache.Close()
		}

		county := wellsFetchCounty
		if county == "" {
			county = cfg.Enverus.County
		}

		ds, err := client.QueryWells(ctx, enverus.QueryParams{
			County:   county,
			Fields:   enverus.DefaultFields,
			PageSize: cfg.Enverus.PageSize,
		})
		if err != nil {
			return eris.Wrap(err, "fetch wells")
		}

		zap.L().Info("wells fetched",
			zap.String("county", county),
			zap.Int("rows", len(ds.Rows)),
		)

		out := os.Stdout
		if wellsFetchOut != "" {
			f, err := os.Create(wellsFetchOut)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ds.Rows)
	},
}

func init() {
	wellsFetchCmd.Flags().StringVar(&wellsFetchCounty, "county", "", "county name (default from config)")
	wellsFetchCmd.Flags().StringVar(&wellsFetchOut, "out", "", "write to file instead of stdout")
	wellsCmd.AddCommand(wellsFetchCmd)
	rootCmd.AddCommand(wellsCmd)
}
