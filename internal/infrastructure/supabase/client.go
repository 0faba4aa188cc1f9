// Package supabase builds the backend client: a PostgREST client for table access and a
// session manager for GoTrue, both sharing the API key and any explicit bearer token.
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/khata/internal/domain"
	"github.com/jhoicas/khata/internal/domain/entity"
	"github.com/jhoicas/khata/internal/infrastructure/postgrest"
	"github.com/jhoicas/khata/internal/infrastructure/securestore"
	"github.com/jhoicas/khata/pkg/config"
	"github.com/jhoicas/khata/pkg/logger"
)

// Options is the auth behavior the client is configured with.
type Options struct {
	AutoRefreshToken   bool
	PersistSession     bool
	DetectSessionInURL bool
}

// Client is one configured backend client instance.
type Client struct {
	url     string
	options Options
	rest    *postgrest.Client
	auth    *Auth
}

type settings struct {
	httpClient *http.Client
	log        *logger.Logger
	now        func() time.Time
}

// Option tunes construction.
type Option func(*settings)

// WithHTTPClient replaces the shared HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithClock overrides time.Now for session expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// NewClient builds a client from the backend config. URL and anon key are required (URL checked first).
// storage receives the persisted session. A non-empty bearerToken is sent as the Authorization
// header of every request this instance issues.
func NewClient(cfg config.BackendConfig, storage securestore.Storage, bearerToken string, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	anonKey := strings.TrimSpace(cfg.AnonKey)
	if baseURL == "" {
		return nil, fmt.Errorf("%w: SUPABASE_URL", domain.ErrMissingConfig)
	}
	if anonKey == "" {
		return nil, fmt.Errorf("%w: SUPABASE_ANON_KEY", domain.ErrMissingConfig)
	}

	s := settings{httpClient: &http.Client{Timeout: 15 * time.Second}, now: time.Now}
	for _, o := range opts {
		o(&s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}

	options := Options{AutoRefreshToken: true, PersistSession: true, DetectSessionInURL: false}

	headers := http.Header{}
	if bearerToken != "" {
		headers.Set("Authorization", "Bearer "+bearerToken)
	}

	auth := &Auth{
		baseURL:     baseURL + "/auth/v1",
		apiKey:      anonKey,
		headers:     headers,
		httpClient:  s.httpClient,
		storage:     storage,
		storageKey:  "sb-" + projectRef(baseURL) + "-auth-token",
		autoRefresh: options.AutoRefreshToken,
		persist:     options.PersistSession && storage != nil,
		log:         s.log.Named("auth"),
		now:         s.now,
	}

	restOpts := []postgrest.Option{
		postgrest.WithHTTPClient(s.httpClient),
		postgrest.WithTokenSource(auth),
	}
	if bearerToken != "" {
		restOpts = append(restOpts, postgrest.WithHeader("Authorization", "Bearer "+bearerToken))
	}

	return &Client{
		url:     baseURL,
		options: options,
		rest:    postgrest.NewClient(baseURL+"/rest/v1", anonKey, restOpts...),
		auth:    auth,
	}, nil
}

// URL returns the project base URL.
func (c *Client) URL() string { return c.url }

// Options returns the auth options the client was built with.
func (c *Client) Options() Options { return c.options }

// REST returns the PostgREST client.
func (c *Client) REST() *postgrest.Client { return c.rest }

// Auth returns the session manager.
func (c *Client) Auth() *Auth { return c.auth }

// SessionContext is shorthand for c.Auth().SessionContext(ctx).
func (c *Client) SessionContext(ctx context.Context) entity.SessionContext {
	return c.auth.SessionContext(ctx)
}

// projectRef is the first label of the host: https://abcd.supabase.co -> abcd.
func projectRef(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return "local"
	}
	return strings.Split(u.Hostname(), ".")[0]
}
