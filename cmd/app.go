package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/wellprox/internal/cache"
	"github.com/sells-group/wellprox/internal/model"
	"github.com/sells-group/wellprox/internal/normalize"
	"github.com/sells-group/wellprox/internal/proximity"
	"github.com/sells-group/wellprox/internal/wellsource"
	"github.com/sells-group/wellprox/pkg/enverus"
	"github.com/sells-group/wellprox/pkg/geocode"
)

// analysisEnv holds the initialized analyzer and the resources behind it,
// needed by the analyze and serve commands.
type analysisEnv struct {
	Analyzer *proximity.Analyzer
	Geocoder geocode.Client

	fetchCache *cache.SQLite
}

// Close releases resources held by the analysis environment.
func (ae *analysisEnv) Close() {
	if ae.fetchCache != nil {
		_ = ae.fetchCache.Close()
	}
}

// geocoderAdapter bridges the provider cascade to the analyzer's narrower
// geocoding contract.
type geocoderAdapter struct {
	client geocode.Client
}

func (g *geocoderAdapter) Geocode(ctx context.Context, address string) (model.GeoPoint, bool, error) {
	res, err := g.client.Geocode(ctx, address)
	if err != nil {
		return model.GeoPoint{}, false, err
	}
	if !res.Matched {
		return model.GeoPoint{}, false, nil
	}
	return model.GeoPoint{Lat: res.Latitude, Lng: res.Longitude}, true, nil
}

// initGeocoder builds the Census-first, Nominatim-fallback cascade.
func initGeocoder() geocode.Client {
	censusOpts := []geocode.CensusOption{}
	if cfg.Geocode.CensusBaseURL != "" {
		censusOpts = append(censusOpts, geocode.WithCensusBaseURL(cfg.Geocode.CensusBaseURL))
	}

	providers := []geocode.Provider{
		geocode.NewCensusProvider(censusOpts...),
		geocode.NewNominatimProvider(geocode.WithNominatimEnabled(cfg.Geocode.NominatimEnabled)),
	}
	return geocode.NewCascadeClient(providers)
}

// initWellSource picks the well source: a local dataset file when given,
// otherwise the Enverus API with the SQLite fetch cache in front of it.
func initWellSource(wellsFile string) (proximity.WellSource, *cache.SQLite, error) {
	if wellsFile != "" {
		return wellsource.NewFileSource(wellsFile), nil, nil
	}

	if err := cfg.Validate("fetch"); err != nil {
		return nil, nil, eris.Wrap(err, "remote fetch requires credentials; pass --wells for a local dataset")
	}

	client, fetchCache := initEnverus()
	src := wellsource.NewAPISource(client, enverus.QueryParams{
		County:   cfg.Enverus.County,
		Fields:   enverus.DefaultFields,
		PageSize: cfg.Enverus.PageSize,
	})
	return src, fetchCache, nil
}

// initEnverus builds the DirectAccess client. A cache open failure degrades
// to uncached fetches.
func initEnverus() (enverus.Client, *cache.SQLite) {
	var fetchCache *cache.SQLite
	opts := []enverus.Option{}

	if cfg.Enverus.BaseURL != "" {
		opts = append(opts, enverus.WithBaseURL(cfg.Enverus.BaseURL))
	}
	if cfg.Cache.Path != "" && cfg.Cache.TTLHours > 0 {
		c, err := cache.NewSQLite(cfg.Cache.Path, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if err != nil {
			zap.L().Warn("fetch cache unavailable, fetching uncached", zap.Error(err))
		} else {
			fetchCache = c
			opts = append(opts, enverus.WithCache(c))
		}
	}

	client := enverus.NewClient(enverus.Credentials{
		ClientID:     cfg.Enverus.ClientID,
		ClientSecret: cfg.Enverus.ClientSecret,
		APIKey:       cfg.Enverus.APIKey,
	}, opts...)
	return client, fetchCache
}

// initAnalysis wires the geocoder, well source, and analyzer. Callers should
// defer env.Close().
func initAnalysis(wellsFile string) (*analysisEnv, error) {
	if err := cfg.Validate("analyze"); err != nil {
		return nil, err
	}

	geocoder := initGeocoder()
	src, fetchCache, err := initWellSource(wellsFile)
	if err != nil {
		return nil, err
	}

	opts := []proximity.AnalyzerOption{
		proximity.WithDefaultRadius(cfg.Analysis.RadiusDegrees),
		proximity.WithDefaultTopN(cfg.Analysis.TopN),
	}
	if cfg.Analysis.AliasesPath != "" {
		aliases, err := normalize.LoadAliases(cfg.Analysis.AliasesPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, proximity.WithAliases(aliases))
	}

	analyzer := proximity.NewAnalyzer(&geocoderAdapter{client: geocoder}, src, opts...)

	return &analysisEnv{
		Analyzer:   analyzer,
		Geocoder:   geocoder,
		fetchCache: fetchCache,
	}, nil
}
