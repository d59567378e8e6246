// Package enverus fetches well records from an Enverus DirectAccess-style
// API. Provider column names are passed through untouched; reconciling them
// is the normalizer's job.
package enverus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/wellprox/internal/normalize"
	"github.com/sells-group/wellprox/internal/resilience"
)

const (
	defaultBaseURL  = "https://di-api.drillinginfo.com/v2/direct-access"
	defaultPageSize = 10000
	wellsEndpoint   = "well-origins"
)

// DefaultFields is the well-origins field list requested when the caller
// does not narrow it.
var DefaultFields = []string{
	"Well_Name", "Operator_Name", "API_UWI_14", "Total_Depth", "Latitude", "Longitude",
}

// Credentials holds DirectAccess API credentials.
type Credentials struct {
	ClientID     string
	ClientSecret string
	APIKey       string
}

// QueryParams narrows a well-origins query.
type QueryParams struct {
	County   string
	Fields   []string
	PageSize int
}

// Client fetches raw well datasets.
type Client interface {
	// QueryWells fetches all pages of well-origins matching the params.
	// A fetch failure is an explicit error, never an empty dataset.
	QueryWells(ctx context.Context, q QueryParams) (normalize.Dataset, error)
}

// Cache is an injectable fetch cache owned by the caller. Implementations
// decide TTL; Get returning false means fetch upstream.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithCache attaches a fetch cache.
func WithCache(cache Cache) Option {
	return func(c *httpClient) { c.cache = cache }
}

// WithRateLimit overrides the default requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithRetry overrides the retry policy for page fetches.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	creds   Credentials
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cache   Cache
	retry   resilience.RetryConfig

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewClient creates a DirectAccess client.
func NewClient(creds Credentials, opts ...Option) Client {
	c := &httpClient{
		creds:   creds,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		retry:   defaultRetry(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func defaultRetry() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("enverus", "well-origins")
	return cfg
}

// QueryWells implements Client.
func (c *httpClient) QueryWells(ctx context.Context, q QueryParams) (normalize.Dataset, error) {
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if len(q.Fields) == 0 {
		q.Fields = DefaultFields
	}

	key := cacheKey(q)
	if c.cache != nil {
		if payload, ok := c.cache.Get(ctx, key); ok {
			ds, err := datasetFromRows(payload, q.Fields)
			if err == nil {
				zap.L().Debug("enverus: fetch cache hit", zap.String("key", key[:12]))
				return ds, nil
			}
			zap.L().Warn("enverus: discarding unreadable cache entry", zap.Error(err))
		}
	}

	var rows []map[string]any
	for page := 1; ; page++ {
		pageRows, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]map[string]any, error) {
			return c.fetchPage(ctx, q, page)
		})
		if err != nil {
			return normalize.Dataset{}, err
		}
		rows = append(rows, pageRows...)
		if len(pageRows) < q.PageSize {
			break
		}
	}

	if c.cache != nil {
		if payload, err := json.Marshal(rows); err == nil {
			c.cache.Set(ctx, key, payload)
		}
	}

	zap.L().Info("enverus: fetched wells",
		zap.String("county", q.County),
		zap.Int("rows", len(rows)),
	)
	return buildDataset(rows, q.Fields), nil
}

// fetchPage retrieves one page of well-origins.
func (c *httpClient) fetchPage(ctx context.Context, q QueryParams, page int) ([]map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "enverus: rate limit")
	}

	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"fields":      {strings.Join(q.Fields, ",")},
		"pagesize":    {strconv.Itoa(q.PageSize)},
		"page":        {strconv.Itoa(page)},
		"DeletedDate": {"null"},
	}
	if q.County != "" {
		params.Set("County", q.County)
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, wellsEndpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "enverus: build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if c.creds.APIKey != "" {
		req.Header.Set("X-Api-Key", c.creds.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "enverus: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		fetchErr := eris.Errorf("enverus: well-origins returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(fetchErr, resp.StatusCode)
		}
		return nil, fetchErr
	}

	return decodeRows(resp.Body)
}

// decodeRows parses a JSON array of records, keeping numbers as json.Number
// so coordinate precision survives normalization.
func decodeRows(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, eris.Wrap(err, "enverus: decode response")
	}
	return rows, nil
}

// datasetFromRows rebuilds a dataset from a cached payload.
func datasetFromRows(payload []byte, fields []string) (normalize.Dataset, error) {
	rows, err := decodeRows(strings.NewReader(string(payload)))
	if err != nil {
		return normalize.Dataset{}, err
	}
	return buildDataset(rows, fields), nil
}

// buildDataset assembles the provider-shaped dataset. Columns follow the
// requested field list; fields the provider never returned are still listed
// so the normalizer can report what was actually asked for.
func buildDataset(rows []map[string]any, fields []string) normalize.Dataset {
	columns := fields
	if len(columns) == 0 && len(rows) > 0 {
		columns = make([]string, 0, len(rows[0]))
		for k := range rows[0] {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}
	return normalize.Dataset{Columns: columns, Rows: rows}
}
