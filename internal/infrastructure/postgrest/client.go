// Package postgrest is a minimal PostgREST client: equality filters, ordering, limit,
// insert, update and upsert, each optionally returning the affected rows.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/khata/internal/infrastructure/metrics"
)

// TokenSource supplies the bearer credential for a request.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// Client talks to <project>/rest/v1.
type Client struct {
	baseURL    string
	apiKey     string
	headers    http.Header
	tokens     TokenSource
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (15 s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithHeader adds a header to every request. An Authorization header here wins over the TokenSource.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

// WithTokenSource sets where per-request bearer tokens come from. Without one the API key is used.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// NewClient builds a client for baseURL (already including /rest/v1).
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		headers:    http.Header{},
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// From starts a query against table.
func (c *Client) From(table string) *Builder {
	return &Builder{c: c, table: table, method: http.MethodGet, query: url.Values{}}
}

// Builder accumulates one request. Builders are single-use.
type Builder struct {
	c        *Client
	table    string
	method   string
	query    url.Values
	body     any
	prefer   []string
	selected bool
	single   bool
}

// Select sets the returned columns. On writes it also asks for the affected rows back.
func (b *Builder) Select(columns string) *Builder {
	b.query.Set("select", columns)
	b.selected = true
	return b
}

// Eq adds a column = value filter.
func (b *Builder) Eq(column string, value any) *Builder {
	b.query.Add(column, "eq."+formatValue(value))
	return b
}

// Order sorts by column.
func (b *Builder) Order(column string, ascending bool) *Builder {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	b.query.Set("order", column+"."+dir)
	return b
}

// Limit caps the number of rows.
func (b *Builder) Limit(n int) *Builder {
	b.query.Set("limit", strconv.Itoa(n))
	return b
}

// Single requires exactly one row and decodes it as an object.
func (b *Builder) Single() *Builder {
	b.single = true
	return b
}

// Insert posts one row.
func (b *Builder) Insert(row any) *Builder {
	b.method = http.MethodPost
	b.body = row
	return b
}

// Update patches the rows matched by the filters.
func (b *Builder) Update(values any) *Builder {
	b.method = http.MethodPatch
	b.body = values
	return b
}

// Upsert inserts row resolving conflicts on onConflict. With ignoreDuplicates the existing
// row is kept and nothing is returned for it; otherwise it is merged.
func (b *Builder) Upsert(row any, onConflict string, ignoreDuplicates bool) *Builder {
	b.method = http.MethodPost
	b.body = row
	if onConflict != "" {
		b.query.Set("on_conflict", onConflict)
	}
	if ignoreDuplicates {
		b.prefer = append(b.prefer, "resolution=ignore-duplicates")
	} else {
		b.prefer = append(b.prefer, "resolution=merge-duplicates")
	}
	return b
}

// Execute sends the request and decodes the response into dest (may be nil).
func (b *Builder) Execute(ctx context.Context, dest any) error {
	req, err := b.request(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := b.c.httpClient.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(b.table, b.method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequests.WithLabelValues(b.table, b.method, metrics.StatusClass(0)).Inc()
		return fmt.Errorf("%s %s: %w", b.method, b.table, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequests.WithLabelValues(b.table, b.method, metrics.StatusClass(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", b.table, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, body)
	}
	if dest == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s response: %w", b.table, err)
	}
	return nil
}

func (b *Builder) request(ctx context.Context) (*http.Request, error) {
	u := b.c.baseURL + "/" + b.table
	if len(b.query) > 0 {
		u += "?" + b.query.Encode()
	}

	var body io.Reader
	if b.body != nil {
		raw, err := json.Marshal(b.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", b.table, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, b.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", b.table, err)
	}
	for k, vs := range b.c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("apikey", b.c.apiKey)
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+b.c.token(ctx))
	}
	if b.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	prefer := append([]string(nil), b.prefer...)
	if b.method != http.MethodGet {
		if b.selected {
			prefer = append(prefer, "return=representation")
		} else {
			prefer = append(prefer, "return=minimal")
		}
	}
	if len(prefer) > 0 {
		req.Header.Set("Prefer", strings.Join(prefer, ","))
	}
	return req, nil
}

func (c *Client) token(ctx context.Context) string {
	if c.tokens != nil {
		if t := c.tokens.AccessToken(ctx); t != "" {
			return t
		}
	}
	return c.apiKey
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
