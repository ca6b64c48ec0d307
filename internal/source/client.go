package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/cvefocus/internal/cve"
	"github.com/rshade/cvefocus/internal/logging"
)

const (
	// DefaultTimeout bounds a single request when no timeout is configured.
	DefaultTimeout = 30 * time.Second

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 256 << 20

	// maxErrorSnippet is the number of body bytes quoted in fetch errors.
	maxErrorSnippet = 200

	listPath = "/cves/"
)

// Source is the record retrieval contract consumed by the list and detail views.
type Source interface {
	// FetchAll returns the full record sequence in the order the API sent it.
	FetchAll(ctx context.Context, q Query) ([]cve.Record, error)
	// FetchOne returns the record identified by id.
	FetchOne(ctx context.Context, id string) (cve.Record, error)
}

// Query holds the optional server-side filters of the list endpoint.
// The zero value requests the unfiltered list.
type Query struct {
	// CVEID restricts the list to a single identifier.
	CVEID string
	// Year restricts the list to records published in that year.
	Year int
	// MinScoreV3 keeps records whose v3 base score is at least this value.
	MinScoreV3 *float64
	// LastModifiedDays keeps records modified within the last N days.
	LastModifiedDays int
}

// Values encodes the query as URL parameters understood by GET /cves/.
func (q Query) Values() url.Values {
	v := url.Values{}
	if id := strings.TrimSpace(q.CVEID); id != "" {
		v.Set("cve_id", id)
	}
	if q.Year > 0 {
		v.Set("year", strconv.Itoa(q.Year))
	}
	if q.MinScoreV3 != nil {
		v.Set("base_score_v3", strconv.FormatFloat(*q.MinScoreV3, 'f', -1, 64))
	}
	if q.LastModifiedDays > 0 {
		v.Set("last_modified_days", strconv.Itoa(q.LastModifiedDays))
	}
	return v
}

// IsZero reports whether no filter is set.
func (q Query) IsZero() bool {
	return len(q.Values()) == 0
}

// Client implements Source over HTTP.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client for the API rooted at baseURL, for example
// "http://localhost:8000".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("API base URL must be http or https, got %q", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("API base URL has no host: %q", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchAll issues one GET /cves/ and returns every record exactly as provided.
func (c *Client) FetchAll(ctx context.Context, q Query) ([]cve.Record, error) {
	endpoint := c.endpoint(listPath)
	endpoint.RawQuery = q.Values().Encode()

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, statusError(endpoint, status, body)
	}

	records, err := cve.DecodeList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrParse, endpoint.Redacted(), err)
	}
	return records, nil
}

// FetchOne issues one GET /cves/{id}. A 404 response yields ErrNotFound.
func (c *Client) FetchOne(ctx context.Context, id string) (cve.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cve.Record{}, fmt.Errorf("%w: empty identifier", ErrNotFound)
	}

	endpoint := c.endpoint(listPath + id)
	endpoint.RawPath = c.baseURL.EscapedPath() + listPath + url.PathEscape(id)

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return cve.Record{}, err
	}
	if status == http.StatusNotFound {
		return cve.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if status < 200 || status >= 300 {
		return cve.Record{}, statusError(endpoint, status, body)
	}

	rec, err := cve.DecodeOne(body)
	if err != nil {
		return cve.Record{}, fmt.Errorf("%w: decoding %s: %w", ErrParse, endpoint.Redacted(), err)
	}
	return rec, nil
}

// endpoint returns a copy of the base URL with path appended.
func (c *Client) endpoint(path string) *url.URL {
	u := *c.baseURL
	u.Path += path
	u.RawPath = ""
	return &u
}

// get performs a single GET and returns the body and status code.
// Transport failures, including cancellation, are wrapped in ErrFetch.
func (c *Client) get(ctx context.Context, endpoint *url.URL) ([]byte, int, error) {
	log := c.requestLogger(ctx)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: building request: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().
			Ctx(ctx).
			Str("method", http.MethodGet).
			Str("url", endpoint.Redacted()).
			Dur("duration", time.Since(start)).
			Err(err).
			Msg("CVE API request failed")
		return nil, 0, fmt.Errorf("%w: GET %s: %w", ErrFetch, endpoint.Redacted(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading %s: %w", ErrFetch, endpoint.Redacted(), err)
	}

	log.Debug().
		Ctx(ctx).
		Str("method", http.MethodGet).
		Str("url", endpoint.Redacted()).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("CVE API request completed")

	return body, resp.StatusCode, nil
}

// requestLogger prefers the context logger so trace IDs propagate.
func (c *Client) requestLogger(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return logging.ComponentLogger(*l, "source")
	}
	return logging.ComponentLogger(c.logger, "source")
}

// statusError wraps an unexpected HTTP status in ErrFetch.
func statusError(endpoint *url.URL, status int, body []byte) error {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxErrorSnippet {
		snippet = snippet[:maxErrorSnippet] + "..."
	}
	if snippet == "" {
		return fmt.Errorf("%w: GET %s: HTTP %d", ErrFetch, endpoint.Redacted(), status)
	}
	return fmt.Errorf("%w: GET %s: HTTP %d: %s", ErrFetch, endpoint.Redacted(), status, snippet)
}

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
