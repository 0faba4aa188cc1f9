package sso

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/khata/internal/application/ports"
	"github.com/jhoicas/khata/internal/infrastructure/supabase"
	"github.com/jhoicas/khata/pkg/config"
)

type fakeExchanger struct {
	mu        sync.Mutex
	provider  string
	idToken   string
	activated *supabase.Session
	signInErr error
}

func (f *fakeExchanger) SignInWithIDToken(_ context.Context, provider, idToken string) (*supabase.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.provider, f.idToken = provider, idToken
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &supabase.Session{AccessToken: "backend-token", User: supabase.User{ID: "user-1"}}, nil
}

func (f *fakeExchanger) SetSession(_ context.Context, s *supabase.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated = s
	return nil
}

// fakeProvider is the identity provider's token endpoint.
type fakeProvider struct {
	server    *httptest.Server
	mu        sync.Mutex
	form      url.Values
	noIDToken bool
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		p.mu.Lock()
		p.form = r.PostForm
		noID := p.noIDToken
		p.mu.Unlock()
		body := map[string]any{"access_token": "provider-access", "token_type": "Bearer", "expires_in": 3600}
		if !noID {
			body["id_token"] = "provider-id-token"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) config() config.SSOConfig {
	return config.SSOConfig{
		CallbackBaseURL: "http://127.0.0.1:8787",
		Providers: map[string]config.SSOProvider{
			"oauth_google": {
				ClientID: "client-1",
				AuthURL:  "https://accounts.example.com/auth",
				TokenURL: p.server.URL + "/token",
				Scopes:   []string{"openid", "email"},
			},
		},
	}
}

// browser simulates the user completing (or refusing) the provider page.
func browser(t *testing.T, registry *CallbackRegistry, opened chan<- *url.URL, respond func(state string) Callback) Opener {
	return OpenerFunc(func(_ context.Context, raw string) error {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		if opened != nil {
			opened <- u
		}
		state := u.Query().Get("state")
		go func() { _ = registry.Resolve(respond(state)) }()
		return nil
	})
}

func TestFlow_CompletesAndActivates(t *testing.T) {
	provider := newFakeProvider(t)
	registry := NewCallbackRegistry()
	exchanger := &fakeExchanger{}
	opened := make(chan *url.URL, 1)
	opener := browser(t, registry, opened, func(state string) Callback { return Callback{State: state, Code: "auth-code"} })
	flow := NewFlow(provider.config(), exchanger, registry, opener, nil)

	res, err := flow.StartSSOFlow(context.Background(), ports.SSORequest{
		Strategy:    "oauth_google",
		RedirectURL: "http://127.0.0.1:8787/sso-callback",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.CreatedSessionID)
	require.NotNil(t, res.SetActive)

	u := <-opened
	q := u.Query()
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "http://127.0.0.1:8787/sso-callback", q.Get("redirect_uri"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))

	provider.mu.Lock()
	assert.Equal(t, "auth-code", provider.form.Get("code"))
	assert.NotEmpty(t, provider.form.Get("code_verifier"))
	provider.mu.Unlock()

	assert.Equal(t, "google", exchanger.provider)
	assert.Equal(t, "provider-id-token", exchanger.idToken)
	assert.Nil(t, exchanger.activated, "not active until SetActive")

	require.NoError(t, res.SetActive(context.Background(), res.CreatedSessionID))
	require.NotNil(t, exchanger.activated)
	assert.Equal(t, "backend-token", exchanger.activated.AccessToken)

	assert.ErrorIs(t, res.SetActive(context.Background(), res.CreatedSessionID), ErrUnknownSession)
	assert.Zero(t, registry.Pending())
}

func TestFlow_ProviderDenialIsNoSession(t *testing.T) {
	provider := newFakeProvider(t)
	registry := NewCallbackRegistry()
	opener := browser(t, registry, nil, func(state string) Callback {
		return Callback{State: state, Error: "access_denied", ErrorDescription: "The user denied the request"}
	})
	flow := NewFlow(provider.config(), &fakeExchanger{}, registry, opener, nil)

	res, err := flow.StartSSOFlow(context.Background(), ports.SSORequest{Strategy: "oauth_google"})
	require.NoError(t, err)
	assert.Empty(t, res.CreatedSessionID)
	assert.Nil(t, res.SetActive)
}

func TestFlow_Errors(t *testing.T) {
	provider := newFakeProvider(t)

	t.Run("unconfigured provider", func(t *testing.T) {
		flow := NewFlow(provider.config(), &fakeExchanger{}, NewCallbackRegistry(), OpenerFunc(func(context.Context, string) error { return nil }), nil)
		_, err := flow.StartSSOFlow(context.Background(), ports.SSORequest{Strategy: "oauth_apple"})
		assert.ErrorIs(t, err, ErrProviderNotConfigured)
	})

	t.Run("browser fails to open", func(t *testing.T) {
		registry := NewCallbackRegistry()
		flow := NewFlow(provider.config(), &fakeExchanger{}, registry, OpenerFunc(func(context.Context, string) error { return errors.New("no display") }), nil)
		_, err := flow.StartSSOFlow(context.Background(), ports.SSORequest{Strategy: "oauth_google"})
		assert.Error(t, err)
		assert.Zero(t, registry.Pending())
	})

	t.Run("callback never arrives", func(t *testing.T) {
		registry := NewCallbackRegistry()
		flow := NewFlow(provider.config(), &fakeExchanger{}, registry, OpenerFunc(func(context.Context, string) error { return nil }), nil)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := flow.StartSSOFlow(ctx, ports.SSORequest{Strategy: "oauth_google"})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Zero(t, registry.Pending())
	})

	t.Run("no id token", func(t *testing.T) {
		provider.mu.Lock()
		provider.noIDToken = true
		provider.mu.Unlock()
		defer func() {
			provider.mu.Lock()
			provider.noIDToken = false
			provider.mu.Unlock()
		}()
		registry := NewCallbackRegistry()
		opener := browser(t, registry, nil, func(state string) Callback { return Callback{State: state, Code: "c"} })
		flow := NewFlow(provider.config(), &fakeExchanger{}, registry, opener, nil)
		_, err := flow.StartSSOFlow(context.Background(), ports.SSORequest{Strategy: "oauth_google"})
		assert.ErrorIs(t, err, ErrNoIDToken)
	})

	t.Run("backend rejects token", func(t *testing.T) {
		registry := NewCallbackRegistry()
		opener := browser(t, registry, nil, func(state string) Callback { return Callback{State: state, Code: "c"} })
		flow := NewFlow(provider.config(), &fakeExchanger{signInErr: errors.New("bad id token")}, registry, opener, nil)
		_, err := flow.StartSSOFlow(context.Background(), ports.SSORequest{Strategy: "oauth_google"})
		assert.EqualError(t, err, "bad id token")
	})
}

func TestCallbackRegistry(t *testing.T) {
	r := NewCallbackRegistry()
	assert.ErrorIs(t, r.Resolve(Callback{State: "nope"}), ErrUnknownState)

	r.Register("s1")
	require.NoError(t, r.Resolve(Callback{State: "s1", Code: "c"}), "resolving before Await is allowed")
	assert.ErrorIs(t, r.Resolve(Callback{State: "s1", Code: "again"}), ErrUnknownState)

	cb, err := r.Await(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "c", cb.Code)
	assert.False(t, cb.Cancelled())
	assert.Zero(t, r.Pending())

	_, err = r.Await(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestCommandFor(t *testing.T) {
	assert.Equal(t, "open", commandFor("darwin").Name)
	assert.Equal(t, "xdg-open", commandFor("linux").Name)
	win := commandFor("windows")
	assert.Equal(t, "rundll32", win.Name)
	assert.Equal(t, []string{"url.dll,FileProtocolHandler"}, win.Args)
}
