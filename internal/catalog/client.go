// AllScreen - Movie and TV Discovery and Social Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/allscreen

// Package catalog is the client for the external movie catalog (TMDB v3).
//
// Every request goes through, in order: the response cache, the retry
// policy (429 only), the outbound rate limiter and the circuit breaker.
// Responses are cached as raw JSON keyed by path and query, never by token.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/allscreen/internal/config"
	"github.com/tomtom215/allscreen/internal/logging"
	"github.com/tomtom215/allscreen/internal/metrics"
	"github.com/tomtom215/allscreen/internal/models"
	"github.com/tomtom215/allscreen/internal/retry"
)

// maxBodyBytes bounds a single catalog response.
const maxBodyBytes = 8 << 20

// maxPage is the highest page the catalog will serve.
const maxPage = 500

const (
	movieAppend = "credits,keywords,recommendations,images,watch/providers,release_dates"
	tvAppend    = "credits,keywords,recommendations,images,watch/providers"
)

// Cacher stores raw catalog responses. Implementations must be safe for
// concurrent use.
type Cacher interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (noCache) Set(context.Context, string, []byte)        {}

// Client talks to the catalog. It is safe for concurrent use.
type Client struct {
	baseURL   string
	token     string
	language  string
	region    string
	imageBase string

	http    *http.Client
	limiter *rate.Limiter
	breaker *breaker
	cache   Cacher
	policy  retry.Policy
}

// NewClient builds a client from configuration. cache may be nil.
func NewClient(cfg *config.CatalogConfig, cache Cacher) *Client {
	if cache == nil {
		cache = noCache{}
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		token:     cfg.APIToken,
		language:  cfg.Language,
		region:    cfg.Region,
		imageBase: strings.TrimRight(cfg.ImageBaseURL, "/"),
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(limit, burst),
		breaker:   newBreaker("catalog-api"),
		cache:     cache,
		policy:    cfg.Retry.Policy("catalog"),
	}
}

// WithRetryPolicy returns a client sharing this one's limiter, breaker and
// cache but retrying with p. Bulk imports use it for their longer backoff.
func (c *Client) WithRetryPolicy(p retry.Policy) *Client {
	cp := *c
	cp.policy = p
	return &cp
}

// Region returns the region used for release dates and providers.
func (c *Client) Region() string { return c.region }

// BreakerState returns the circuit breaker state for health reporting.
func (c *Client) BreakerState() string { return c.breaker.State() }

func (c *Client) imageURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.imageBase + path
}

// get fetches path with query and decodes the JSON body into out. op labels
// metrics.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	if c.language != "" && query.Get("language") == "" {
		query.Set("language", c.language)
	}
	key := path + "?" + query.Encode()

	if body, ok := c.cache.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("catalog").Inc()
		return decode(body, path, out)
	}
	metrics.CacheMisses.WithLabelValues("catalog").Inc()

	body, err := retry.Value(ctx, c.policy, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, op, key)
	}, IsRateLimited)
	if err != nil {
		return err
	}

	if err := decode(body, path, out); err != nil {
		return err
	}
	c.cache.Set(ctx, key, body)
	return nil
}

func decode(body []byte, path string, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrRequestFailed, path, err)
	}
	return nil
}

// fetch performs one rate-limited request under the circuit breaker.
func (c *Client) fetch(ctx context.Context, op, pathAndQuery string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("catalog: rate limiter: %w", err)
	}

	start := time.Now()
	body, err := c.breaker.execute(func() ([]byte, error) {
		return c.do(ctx, pathAndQuery)
	})
	metrics.CatalogRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.CatalogRequestsTotal.WithLabelValues(op, outcome(err)).Inc()

	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("op", op).Msg("Catalog request failed")
	}
	return body, err
}

func (c *Client) do(ctx context.Context, pathAndQuery string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathAndQuery, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("catalog: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRequestFailed, stripQuery(pathAndQuery), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Path:       stripQuery(pathAndQuery),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrRequestFailed, stripQuery(pathAndQuery), err)
	}
	return body, nil
}

func stripQuery(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i]
	}
	return s
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsRateLimited(err):
		return "rate_limited"
	case isNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}

// Movie fetches a movie with credits, keywords, recommendations, images,
// watch providers and release dates.
func (c *Client) Movie(ctx context.Context, id int64) (*MovieDetails, error) {
	q := url.Values{}
	q.Set("append_to_response", movieAppend)
	q.Set("include_image_language", imageLanguages(c.language))

	var m movieJSON
	if err := c.get(ctx, "movie", "/movie/"+strconv.FormatInt(id, 10), q, &m); err != nil {
		return nil, err
	}
	return c.toMovieDetails(&m), nil
}

// TVShow fetches a TV show with its detail-page extras.
func (c *Client) TVShow(ctx context.Context, id int64) (*TVDetails, error) {
	q := url.Values{}
	q.Set("append_to_response", tvAppend)
	q.Set("include_image_language", imageLanguages(c.language))

	var t tvJSON
	if err := c.get(ctx, "tv", "/tv/"+strconv.FormatInt(id, 10), q, &t); err != nil {
		return nil, err
	}
	return c.toTVDetails(&t), nil
}

// Person fetches a person with combined movie and TV credits.
func (c *Client) Person(ctx context.Context, id int64) (*PersonDetails, error) {
	q := url.Values{}
	q.Set("append_to_response", "combined_credits")

	var p personJSON
	if err := c.get(ctx, "person", "/person/"+strconv.FormatInt(id, 10), q, &p); err != nil {
		return nil, err
	}
	return c.toPersonDetails(&p), nil
}

// Search finds titles of kind by name. year narrows the search when
// non-zero.
func (c *Client) Search(ctx context.Context, kind models.MediaKind, query string, page, year int) (*ResultPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.Invalid("query", "must not be empty")
	}
	if !kind.Valid() {
		return nil, models.Invalid("type", "unknown media type %q", kind)
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(clampPage(page)))
	q.Set("include_adult", "false")
	if year > 0 {
		if kind == models.KindMovie {
			q.Set("year", strconv.Itoa(year))
		} else {
			q.Set("first_air_date_year", strconv.Itoa(year))
		}
	}

	var p resultPageJSON
	if err := c.get(ctx, "search", "/search/"+kind.CatalogPath(), q, &p); err != nil {
		return nil, err
	}
	return c.toResultPage(&p, kind), nil
}

// Discover lists popular titles of kind matching one dimension value.
// DimensionNetwork always lists TV shows.
func (c *Client) Discover(ctx context.Context, kind models.MediaKind, dim Dimension, value string, page int) (*ResultPage, error) {
	param, ok := dim.param()
	if !ok {
		return nil, models.Invalid("dimension", "unknown discover dimension %q", dim)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, models.Invalid("value", "must not be empty")
	}
	if dim == DimensionNetwork {
		kind = models.KindTVShow
	}
	if !kind.Valid() {
		return nil, models.Invalid("type", "unknown media type %q", kind)
	}

	q := url.Values{}
	q.Set(param, value)
	q.Set("page", strconv.Itoa(clampPage(page)))
	q.Set("sort_by", "popularity.desc")
	q.Set("include_adult", "false")

	var p resultPageJSON
	if err := c.get(ctx, "discover", "/discover/"+kind.CatalogPath(), q, &p); err != nil {
		return nil, err
	}
	return c.toResultPage(&p, kind), nil
}

// Genres lists the catalog's genres for kind.
func (c *Client) Genres(ctx context.Context, kind models.MediaKind) ([]models.Genre, error) {
	if !kind.Valid() {
		return nil, models.Invalid("type", "unknown media type %q", kind)
	}
	var g genreList
	if err := c.get(ctx, "genres", "/genre/"+kind.CatalogPath()+"/list", nil, &g); err != nil {
		return nil, err
	}
	return toGenres(g.Genres), nil
}

func imageLanguages(lang string) string {
	if i := strings.IndexByte(lang, '-'); i > 0 {
		lang = lang[:i]
	}
	if lang == "" {
		return "null"
	}
	return lang + ",en,null"
}
