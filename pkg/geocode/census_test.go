package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCensusGeocodeMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100 N Broadway Ave, Oklahoma City, OK", r.URL.Query().Get("address"))
		assert.Equal(t, censusBenchmark, r.URL.Query().Get("benchmark"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"result": {
				"addressMatches": [{
					"coordinates": {"x": -97.5164, "y": 35.4676},
					"matchedAddress": "100 N BROADWAY AVE, OKLAHOMA CITY, OK, 73102"
				}]
			}
		}`))
	}))
	defer srv.Close()

	p := NewCensusProvider(WithCensusBaseURL(srv.URL), WithCensusHTTPClient(srv.Client()))

	result, err := p.Geocode(context.Background(), "100 N Broadway Ave, Oklahoma City, OK")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "census", result.Source)
	assert.InDelta(t, 35.4676, result.Latitude, 1e-9)
	assert.InDelta(t, -97.5164, result.Longitude, 1e-9)
}

func TestCensusGeocodeNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result": {"addressMatches": []}}`))
	}))
	defer srv.Close()

	p := NewCensusProvider(WithCensusBaseURL(srv.URL), WithCensusHTTPClient(srv.Client()))

	result, err := p.Geocode(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestCensusGeocodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewCensusProvider(WithCensusBaseURL(srv.URL), WithCensusHTTPClient(srv.Client()))

	_, err := p.Geocode(context.Background(), "100 N Broadway Ave")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCensusGeocodeEmptyAddress(t *testing.T) {
	p := NewCensusProvider()

	result, err := p.Geocode(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}
