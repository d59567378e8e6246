// Package render turns analysis reports into display formats: a text table
// for the CLI and GeoJSON for map renderers.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/wellprox/internal/proximity"
)

// Table writes the ranked results as an aligned text table. A report with
// zero results renders a header and a summary line, never an error.
func Table(w io.Writer, report *proximity.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tWELL\tOPERATOR\tAPI\tDISTANCE (FT)\tCLASS")
	for i, r := range report.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.0f\t%s\n",
			i+1,
			orDash(r.Well.Name),
			orDash(r.Well.Operator),
			orDash(r.Well.API),
			r.DistanceFt,
			r.Classification,
		)
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "render: flush table")
	}

	boundary := "uploaded boundary"
	if report.Boundary.Synthetic() {
		boundary = "synthesized 10-acre square"
	}
	fmt.Fprintf(w, "\n%d of %d fetched wells shown (%d dropped, %s) around (%.4f, %.4f)\n",
		len(report.Results),
		report.TotalFetched,
		report.Dropped,
		boundary,
		report.Target.Lat,
		report.Target.Lng,
	)
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
