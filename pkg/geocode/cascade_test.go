package geocode

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name      string
	result    *Result
	err       error
	available bool
	calls     atomic.Int32
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }
func (f *fakeProvider) Geocode(_ context.Context, _ string) (*Result, error) {
	f.calls.Add(1)
	return f.result, f.err
}

func TestCascadeFirstProviderWins(t *testing.T) {
	first := &fakeProvider{
		name:      "first",
		available: true,
		result:    &Result{Latitude: 35.4676, Longitude: -97.5164, Source: "first", Matched: true},
	}
	second := &fakeProvider{name: "second", available: true}

	c := NewCascadeClient([]Provider{first, second})

	result, err := c.Geocode(context.Background(), "100 N Broadway Ave")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "first", result.Source)
	assert.EqualValues(t, 1, first.calls.Load())
	assert.Zero(t, second.calls.Load())
}

func TestCascadeFallsThroughOnErrorAndMiss(t *testing.T) {
	failing := &fakeProvider{name: "failing", available: true, err: eris.New("timeout")}
	missing := &fakeProvider{name: "missing", available: true, result: &Result{Matched: false, Source: "missing"}}
	matching := &fakeProvider{
		name:      "matching",
		available: true,
		result:    &Result{Latitude: 35.0, Longitude: -97.0, Source: "matching", Matched: true},
	}

	c := NewCascadeClient([]Provider{failing, missing, matching})

	result, err := c.Geocode(context.Background(), "somewhere")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "matching", result.Source)
	assert.EqualValues(t, 1, failing.calls.Load())
	assert.EqualValues(t, 1, missing.calls.Load())
}

func TestCascadeSkipsUnavailableProviders(t *testing.T) {
	offline := &fakeProvider{name: "offline", available: false}
	c := NewCascadeClient([]Provider{offline})

	result, err := c.Geocode(context.Background(), "somewhere")
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Zero(t, offline.calls.Load())
}

func TestCascadeAllMissIsNotAnError(t *testing.T) {
	c := NewCascadeClient([]Provider{
		&fakeProvider{name: "a", available: true, result: &Result{Matched: false, Source: "a"}},
		&fakeProvider{name: "b", available: true, err: eris.New("down")},
	})

	result, err := c.Geocode(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestBatchGeocode(t *testing.T) {
	p := &fakeProvider{
		name:      "p",
		available: true,
		result:    &Result{Latitude: 35.0, Longitude: -97.0, Source: "p", Matched: true},
	}
	c := NewCascadeClient([]Provider{p}, WithBatchConcurrency(2))

	results, err := c.BatchGeocode(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.Matched)
	}
}

func TestBatchGeocodeEmpty(t *testing.T) {
	c := NewCascadeClient(nil)

	results, err := c.BatchGeocode(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}
