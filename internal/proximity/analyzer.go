package proximity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/wellprox/internal/model"
	"github.com/sells-group/wellprox/internal/normalize"
)

// ErrAddressNotFound is returned when the geocoding collaborator cannot
// resolve the request address. Recovery (prompting for explicit coordinates)
// belongs to the caller.
var ErrAddressNotFound = eris.New("proximity: address could not be geocoded")

// Geocoder resolves a free-text address to a point. found is false when the
// provider had no match; that is not an error.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (point model.GeoPoint, found bool, err error)
}

// WellSource produces the raw well dataset around a target point, with
// provider-specific column names left untouched.
type WellSource interface {
	FetchWells(ctx context.Context, center model.GeoPoint) (normalize.Dataset, error)
}

// Request describes one analysis run. Either Address or Target must be set;
// Target wins when both are present. BoundaryGeoJSON and BoundaryFile are
// optional; a missing or unparsable boundary falls back to the synthesized
// square around the target.
type Request struct {
	Address         string
	Target          *model.GeoPoint
	BoundaryGeoJSON []byte
	BoundaryFile    string
	RadiusDeg       float64
	TopN            int
}

// Report is the output of one analysis run. Results are ranked ascending by
// distance. An empty Results slice is a valid outcome, not an error.
type Report struct {
	RunID        string                  `json:"run_id"`
	Target       model.GeoPoint          `json:"target"`
	Boundary     Boundary                `json:"-"`
	Results      []model.ProximityResult `json:"results"`
	TotalFetched int                     `json:"total_fetched"`
	Prefiltered  int                     `json:"prefiltered"`
	Dropped      int                     `json:"dropped"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

// Analyzer runs the full pipeline: geocode, resolve boundary, fetch wells,
// normalize, prefilter, classify, rank. It holds no mutable state across
// runs; every run operates on its own copies of the data.
type Analyzer struct {
	geocoder  Geocoder
	wells     WellSource
	aliases   normalize.AliasConfig
	radiusDeg float64
	topN      int
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithDefaultRadius sets the prefilter radius used when a request does not
// carry one.
func WithDefaultRadius(deg float64) AnalyzerOption {
	return func(a *Analyzer) {
		if deg > 0 {
			a.radiusDeg = deg
		}
	}
}

// WithAliases installs user column-name overrides for schema resolution.
func WithAliases(aliases normalize.AliasConfig) AnalyzerOption {
	return func(a *Analyzer) {
		a.aliases = aliases
	}
}

// WithDefaultTopN sets the display cap used when a request does not carry one.
func WithDefaultTopN(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.topN = n
		}
	}
}

// NewAnalyzer creates an Analyzer over the given collaborators.
func NewAnalyzer(g Geocoder, ws WellSource, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		geocoder:  g,
		wells:     ws,
		radiusDeg: 0.05,
		topN:      DefaultTopN,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs one analysis request end to end. Individual malformed well
// rows are dropped and counted; only a dataset with no recognizable
// coordinate columns aborts the run.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Report, error) {
	runID := uuid.NewString()

	target, err := a.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	boundary := a.resolveBoundary(target, req)

	ds, err := a.wells.FetchWells(ctx, target)
	if err != nil {
		return nil, eris.Wrap(err, "analyze: fetch wells")
	}

	records, dropped, err := normalize.NormalizeAliases(ds, a.aliases)
	if err != nil {
		return nil, err
	}
	records = dedupe(records)

	radius := req.RadiusDeg
	if radius <= 0 {
		radius = a.radiusDeg
	}
	candidates := Prefilter(records, target, radius)

	results := make([]model.ProximityResult, 0, len(candidates))
	for _, w := range candidates {
		distFt, inside := Classify(w.Location, boundary)
		results = append(results, model.ProximityResult{
			Well:           w,
			DistanceFt:     distFt,
			OnProperty:     inside,
			Classification: Label(distFt, inside),
		})
	}

	topN := req.TopN
	if topN <= 0 {
		topN = a.topN
	}
	ranked := Rank(results, topN)

	zap.L().Info("analysis complete",
		zap.String("run_id", runID),
		zap.Float64("lat", target.Lat),
		zap.Float64("lng", target.Lng),
		zap.Bool("synthetic_boundary", boundary.Synthetic()),
		zap.Int("fetched", len(ds.Rows)),
		zap.Int("dropped", dropped),
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(ranked)),
	)

	return &Report{
		RunID:        runID,
		Target:       target,
		Boundary:     boundary,
		Results:      ranked,
		TotalFetched: len(ds.Rows),
		Prefiltered:  len(candidates),
		Dropped:      dropped,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func (a *Analyzer) resolveTarget(ctx context.Context, req Request) (model.GeoPoint, error) {
	if req.Target != nil {
		if !req.Target.Valid() {
			return model.GeoPoint{}, eris.Errorf("analyze: target (%v, %v) outside WGS84 bounds", req.Target.Lat, req.Target.Lng)
		}
		return *req.Target, nil
	}
	if req.Address == "" {
		return model.GeoPoint{}, eris.New("analyze: request needs an address or a target point")
	}

	point, found, err := a.geocoder.Geocode(ctx, req.Address)
	if err != nil {
		return model.GeoPoint{}, eris.Wrap(err, "analyze: geocode")
	}
	if !found {
		return model.GeoPoint{}, eris.Wrapf(ErrAddressNotFound, "address %q", req.Address)
	}
	return point, nil
}

func (a *Analyzer) resolveBoundary(target model.GeoPoint, req Request) Boundary {
	if len(req.BoundaryGeoJSON) > 0 {
		return ResolveBoundary(target, req.BoundaryGeoJSON)
	}
	if req.BoundaryFile != "" {
		return ResolveBoundaryFile(target, req.BoundaryFile)
	}
	return SyntheticBoundary(target)
}

// dedupe drops repeated rows so stale or duplicated upstream data classifies
// once. Wells with an API number dedupe on it; the rest dedupe on
// name+location.
func dedupe(records []model.WellRecord) []model.WellRecord {
	type key struct {
		api  string
		name string
		loc  model.GeoPoint
	}
	seen := make(map[key]struct{}, len(records))
	out := records[:0:0]

	for _, r := range records {
		k := key{api: r.API}
		if r.API == "" {
			k.name = r.Name
			k.loc = r.Location
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
